package ledger

import (
	"errors"
	"fmt"

	"github.com/blockrockettech/stellar-playground/db"
	"github.com/blockrockettech/stellar-playground/txn"
)

var (
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrInvalidAccountID     = errors.New("invalid accountID")
	ErrAccountAlreadyExist  = errors.New("destination account already exists")
	ErrTrustLimitExceeded   = errors.New("trustline limit exceeded")
	ErrFlagsImmutable       = errors.New("account flags are immutable")
	ErrTrustBalanceNonzero  = errors.New("cannot clear trustline with nonzero balance")
)

// Op represents the interface with which every ledger operation
// complies, SrcAccountID is the resolved operation source.
type Op interface {
	Apply(dt db.Tx) error
}

// CreateAccount creates the destination account funded from the
// operation source.
type CreateAccount struct {
	M            *Manager
	SrcAccountID string
	DstAccountID string
	Balance      int64
}

func (op *CreateAccount) Apply(dt db.Tx) error {
	if op.SrcAccountID == "" || op.DstAccountID == "" {
		return ErrInvalidAccountID
	}
	if op.Balance < GenesisBaseReserve {
		return fmt.Errorf("starting balance below base reserve %d", GenesisBaseReserve)
	}

	if _, err := op.M.GetAccount(dt, op.DstAccountID); err == nil {
		return ErrAccountAlreadyExist
	} else if err != ErrAccountNotExist {
		return err
	}

	srcAccount, err := op.M.GetAccount(dt, op.SrcAccountID)
	if err != nil {
		return fmt.Errorf("get source account failed: %v", err)
	}
	if err := op.M.SubBalance(srcAccount, op.Balance); err != nil {
		return err
	}
	if err := op.M.SaveAccount(dt, srcAccount); err != nil {
		return err
	}

	return op.M.CreateAccount(dt, op.DstAccountID, op.Balance)
}

// Payment moves an asset amount from the operation source to the
// destination account.
type Payment struct {
	M            *Manager
	SrcAccountID string
	DstAccountID string
	Asset        *txn.Asset
	Amount       int64
}

func (op *Payment) Apply(dt db.Tx) error {
	if op.SrcAccountID == "" || op.DstAccountID == "" {
		return ErrInvalidAccountID
	}
	if op.Amount <= 0 {
		return ErrInvalidPaymentAmount
	}

	if op.Asset == nil || op.Asset.AssetType == txn.NATIVE {
		return op.applyNative(dt)
	}
	return op.applyIssued(dt)
}

func (op *Payment) applyNative(dt db.Tx) error {
	srcAccount, err := op.M.GetAccount(dt, op.SrcAccountID)
	if err != nil {
		return fmt.Errorf("get source account failed: %v", err)
	}
	dstAccount, err := op.M.GetAccount(dt, op.DstAccountID)
	if err != nil {
		return fmt.Errorf("get destination account failed: %v", err)
	}

	if err := op.M.SubBalance(srcAccount, op.Amount); err != nil {
		return err
	}
	if err := op.M.AddBalance(dstAccount, op.Amount); err != nil {
		return err
	}

	if err := op.M.SaveAccount(dt, srcAccount); err != nil {
		return err
	}
	return op.M.SaveAccount(dt, dstAccount)
}

func (op *Payment) applyIssued(dt db.Tx) error {
	// the issuer must have on-ledger presence
	if _, err := op.M.GetAccount(dt, op.Asset.Issuer); err != nil {
		return fmt.Errorf("get asset issuer failed: %v", err)
	}

	// debit the source, the issuer itself mints without a trustline
	if op.SrcAccountID != op.Asset.Issuer {
		srcTrust, err := op.M.GetTrust(dt, op.SrcAccountID, op.Asset)
		if err != nil {
			return fmt.Errorf("get source trust failed: %v", err)
		}
		if srcTrust.Balance < op.Amount {
			return ErrBalanceTooLow
		}
		srcTrust.Balance -= op.Amount
		if err := op.M.SaveTrust(dt, srcTrust); err != nil {
			return err
		}
	}

	// credit the destination, paying the issuer burns the credit
	if op.DstAccountID != op.Asset.Issuer {
		dstTrust, err := op.M.GetTrust(dt, op.DstAccountID, op.Asset)
		if err != nil {
			return fmt.Errorf("get destination trust failed: %v", err)
		}
		if dstTrust.Balance+op.Amount > dstTrust.Limit {
			return ErrTrustLimitExceeded
		}
		dstTrust.Balance += op.Amount
		if err := op.M.SaveTrust(dt, dstTrust); err != nil {
			return err
		}
	}

	return nil
}

// ChangeTrust creates, updates or clears the trustline of the
// operation source towards the asset.
type ChangeTrust struct {
	M            *Manager
	SrcAccountID string
	Asset        *txn.Asset
	Limit        int64
}

func (op *ChangeTrust) Apply(dt db.Tx) error {
	if op.SrcAccountID == "" {
		return ErrInvalidAccountID
	}
	if op.Asset == nil || op.Asset.AssetType == txn.NATIVE {
		return errors.New("cannot change trust of the native asset")
	}

	// self-trust is not necessary
	if op.SrcAccountID == op.Asset.Issuer {
		return nil
	}

	trust, err := op.M.GetTrust(dt, op.SrcAccountID, op.Asset)
	if err == ErrTrustNotExist {
		if op.Limit == 0 {
			// clearing an absent trustline is a no-op
			return nil
		}
		trust = &Trust{
			AccountID: op.SrcAccountID,
			Asset:     op.Asset,
			Limit:     op.Limit,
		}
		return op.M.SaveTrust(dt, trust)
	} else if err != nil {
		return err
	}

	if op.Limit == 0 {
		if trust.Balance > 0 {
			return ErrTrustBalanceNonzero
		}
		return op.M.DeleteTrust(dt, op.SrcAccountID, op.Asset)
	}

	trust.Limit = op.Limit
	return op.M.SaveTrust(dt, trust)
}

// SetOptions sets authorization flags on the operation source.
type SetOptions struct {
	M            *Manager
	SrcAccountID string
	SetFlags     uint32
}

func (op *SetOptions) Apply(dt db.Tx) error {
	if op.SrcAccountID == "" {
		return ErrInvalidAccountID
	}

	acc, err := op.M.GetAccount(dt, op.SrcAccountID)
	if err != nil {
		return fmt.Errorf("get source account failed: %v", err)
	}

	if acc.Flags&txn.FlagAuthImmutable != 0 {
		return ErrFlagsImmutable
	}

	acc.Flags |= op.SetFlags
	return op.M.SaveAccount(dt, acc)
}
