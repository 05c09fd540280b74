package facade

import (
	"context"
	"fmt"

	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/txn"
	"github.com/blockrockettech/stellar-playground/txn/build"
)

// Transfer moves an amount of the issued asset directly from sender
// to recipient, the sender pays its own fee.
func (f *Facade) Transfer(ctx context.Context, assetName, fromName, toName, assetCode string, amount int64) error {
	issuer, err := f.registry.Get(assetName)
	if err != nil {
		return err
	}
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
		&build.Payment{
			AccountID: to.PublicKey,
			Asset:     txn.CustomAsset(assetCode, issuer.PublicKey),
			Amount:    amount,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("transferring asset", "from", fromName, "to", toName, "asset", assetCode, "amount", amount)
	return f.gateway.SubmitTx(ctx, env)
}

// PrepaidTransfer moves the asset with the recipient paying the fee:
// the transaction is built against the recipient, the sender is the
// operation source and signs first, then the envelope crosses the
// serialization boundary and the recipient completes it.
func (f *Facade) PrepaidTransfer(ctx context.Context, assetName, fromName, toName, assetCode string, amount int64) error {
	issuer, err := f.registry.Get(assetName)
	if err != nil {
		return err
	}
	from, err := f.registry.Get(fromName)
	if err != nil {
		return err
	}
	to, err := f.registry.Get(toName)
	if err != nil {
		return err
	}

	// the recipient is the base account and pays the fee
	state, err := f.gateway.LoadAccount(ctx, to.PublicKey)
	if err != nil {
		return err
	}

	env, err := f.buildEnvelope(state,
		&build.Payment{
			AccountID:       to.PublicKey,
			Asset:           txn.CustomAsset(assetCode, issuer.PublicKey),
			Amount:          amount,
			SourceAccountID: from.PublicKey,
		})
	if err != nil {
		return err
	}

	// requester signs, then the envelope goes over the wire
	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("requester sign failed: %v", err)
	}

	wire, err := env.Encode()
	if err != nil {
		return err
	}
	received, err := txn.DecodeEnvelope(wire)
	if err != nil {
		return err
	}

	// fee payer completes the signature set and submits
	if err := received.Sign(to.SecretKey); err != nil {
		return fmt.Errorf("fee payer sign failed: %v", err)
	}

	log.Infow("prepaid transfer", "from", fromName, "feePayer", toName, "asset", assetCode, "amount", amount)
	return f.gateway.SubmitTx(ctx, received)
}

// ThirdPartyPrepaidTransfer moves the asset from sender to recipient
// with a distinct third account paying the fee.
func (f *Facade) ThirdPartyPrepaidTransfer(ctx context.Context, thirdPartyName, assetName, fromName, toName, assetCode string, amount int64) error {
	thirdParty, err := f.registry.Get(thirdPartyName)
	if err != nil {
		return err
	}
	issuer, err := f.registry.Get(assetName)
	if err != nil {
		return err
	}
	from, err := f.registry.Get(fromName)
	if err != nil {
		return err
	}
	to, err := f.registry.Get(toName)
	if err != nil {
		return err
	}

	// the third party is the base account and pays the fee
	state, err := f.gateway.LoadAccount(ctx, thirdParty.PublicKey)
	if err != nil {
		return err
	}

	env, err := f.buildEnvelope(state,
		&build.Payment{
			AccountID:       to.PublicKey,
			Asset:           txn.CustomAsset(assetCode, issuer.PublicKey),
			Amount:          amount,
			SourceAccountID: from.PublicKey,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("requester sign failed: %v", err)
	}

	wire, err := env.Encode()
	if err != nil {
		return err
	}
	received, err := txn.DecodeEnvelope(wire)
	if err != nil {
		return err
	}

	if err := received.Sign(thirdParty.SecretKey); err != nil {
		return fmt.Errorf("fee payer sign failed: %v", err)
	}

	log.Infow("third party prepaid transfer",
		"from", fromName, "to", toName, "feePayer", thirdPartyName, "asset", assetCode, "amount", amount)
	return f.gateway.SubmitTx(ctx, received)
}

// ContinueTransfer completes a transfer whose first signing phase
// happened elsewhere: the serialized envelope is reconstructed, the
// named party supplies the final signature and the result is
// submitted. The signer is an explicit parameter.
func (f *Facade) ContinueTransfer(ctx context.Context, signerName, envelope string) error {
	signer, err := f.registry.Get(signerName)
	if err != nil {
		return err
	}

	received, err := txn.DecodeEnvelope(envelope)
	if err != nil {
		return err
	}

	if err := received.Sign(signer.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("continuing transfer from serialized envelope", "signer", signerName)
	return f.gateway.SubmitTx(ctx, received)
}

// TransferNative moves an amount of the native asset directly from
// sender to recipient.
func (f *Facade) TransferNative(ctx context.Context, fromName, toName string, amount int64) error {
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
		&build.Payment{
			AccountID: to.PublicKey,
			Asset:     txn.NativeAsset(),
			Amount:    amount,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("transferring native asset", "from", fromName, "to", toName, "amount", amount)
	return f.gateway.SubmitTx(ctx, env)
}
