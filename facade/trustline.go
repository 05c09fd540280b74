package facade

import (
	"context"
	"fmt"

	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/txn"
	"github.com/blockrockettech/stellar-playground/txn/build"
)

// CheckTrustline reports whether the named holder carries a trustline
// for the asset code with a positive limit. The issuer of a matching
// line is deliberately not checked, any trustline for the code counts.
func (f *Facade) CheckTrustline(ctx context.Context, name string, assetCode string) (bool, error) {
	account, err := f.registry.Get(name)
	if err != nil {
		return false, err
	}

	state, err := f.gateway.LoadAccount(ctx, account.PublicKey)
	if err != nil {
		return false, err
	}

	for _, line := range state.Balances {
		if line.Asset.AssetType == txn.CUSTOM && line.Asset.AssetCode == assetCode && line.Limit > 0 {
			log.Infow("trustline exists", "name", name, "asset", assetCode)
			return true, nil
		}
	}

	log.Infow("no trustline", "name", name, "asset", assetCode)
	return false, nil
}

// CreateTrustline sets up a trustline from the holder towards the
// asset issued by the named issuer, the holder pays its own fee.
func (f *Facade) CreateTrustline(ctx context.Context, fromName, toName, assetCode string, limit int64) error {
	from, err := f.registry.Get(fromName)
	if err != nil {
		return err
	}
	to, err := f.registry.Get(toName)
	if err != nil {
		return err
	}

	state, err := f.gateway.LoadAccount(ctx, from.PublicKey)
	if err != nil {
		return err
	}

	env, err := f.buildEnvelope(state,
		&build.Trust{
			Asset: txn.CustomAsset(assetCode, to.PublicKey),
			Limit: limit,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("creating trustline", "from", fromName, "to", toName, "asset", assetCode, "limit", limit)
	return f.gateway.SubmitTx(ctx, env)
}

// CreatePrepaidTrustline sets up the trustline with the issuer paying
// the fee: the transaction is built against the issuer (fee payer)
// with the holder as operation source, the holder signs first, the
// envelope crosses a serialization boundary, then the issuer signs
// and submits.
func (f *Facade) CreatePrepaidTrustline(ctx context.Context, fromName, toName, assetCode string, limit int64) error {
	from, err := f.registry.Get(fromName)
	if err != nil {
		return err
	}
	to, err := f.registry.Get(toName)
	if err != nil {
		return err
	}

	// the issuer is the base account and pays the fee
	state, err := f.gateway.LoadAccount(ctx, to.PublicKey)
	if err != nil {
		return err
	}

	env, err := f.buildEnvelope(state,
		&build.Trust{
			Asset:           txn.CustomAsset(assetCode, to.PublicKey),
			Limit:           limit,
			SourceAccountID: from.PublicKey,
		})
	if err != nil {
		return err
	}

	// the requester authorizes the operation first
	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("requester sign failed: %v", err)
	}

	// hand the partially signed envelope across the wire boundary,
	// the receiving side works from the string alone
	wire, err := env.Encode()
	if err != nil {
		return err
	}
	received, err := txn.DecodeEnvelope(wire)
	if err != nil {
		return err
	}

	// the fee payer completes the signature set
	if err := received.Sign(to.SecretKey); err != nil {
		return fmt.Errorf("fee payer sign failed: %v", err)
	}

	log.Infow("creating prepaid trustline", "from", fromName, "to", toName, "asset", assetCode, "limit", limit)
	return f.gateway.SubmitTx(ctx, received)
}

// ClearTrustline drops the trustline by setting its limit to zero.
func (f *Facade) ClearTrustline(ctx context.Context, fromName, toName, assetCode string) error {
	from, err := f.registry.Get(fromName)
	if err != nil {
		return err
	}
	to, err := f.registry.Get(toName)
	if err != nil {
		return err
	}

	state, err := f.gateway.LoadAccount(ctx, from.PublicKey)
	if err != nil {
		return err
	}

	env, err := f.buildEnvelope(state,
		&build.Trust{
			Asset: txn.CustomAsset(assetCode, to.PublicKey),
			// zero clears the trustline
			Limit: 0,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("clearing trustline", "from", fromName, "to", toName, "asset", assetCode)
	return f.gateway.SubmitTx(ctx, env)
}
