package build

import (
	"errors"

	"github.com/blockrockettech/stellar-playground/crypto"
	"github.com/blockrockettech/stellar-playground/txn"
)

var (
	ErrNilTx = errors.New("tx is nil")
)

// TxMutator defines the method which all the transaction
// mutators should implement.
type TxMutator interface {
	Mutate(tx *txn.Tx) error
}

// AccountID sets the base account of the tx.
type AccountID struct {
	AccountID string
}

func (a *AccountID) validate() error {
	if a.AccountID == "" {
		return errors.New("empty account id")
	}
	if !crypto.IsValidAccountKey(a.AccountID) {
		return errors.New("invalid account key")
	}
	return nil
}

// Mutate changes the corresponding AccountID field of the Tx.
func (a *AccountID) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := a.validate(); err != nil {
		return err
	}
	tx.AccountID = a.AccountID

	return nil
}

// SeqNum sets the SeqNum field in the tx, it consumes the next
// sequence number of the loaded base account state.
type SeqNum struct {
	SeqNum uint64
}

func (s *SeqNum) validate() error {
	if s.SeqNum == 0 {
		return errors.New("seqnum is zero")
	}
	return nil
}

// Mutate changes the corresponding SeqNum field of the Tx.
func (s *SeqNum) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := s.validate(); err != nil {
		return err
	}
	tx.SeqNum = s.SeqNum
	return nil
}

// Memo sets the Memo field in the tx.
type Memo struct {
	Memo string
}

func (m *Memo) validate() error {
	if len(m.Memo) > 128 {
		return errors.New("memo is too long")
	}
	return nil
}

// Mutate changes the corresponding Memo field of the Tx.
func (m *Memo) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := m.validate(); err != nil {
		return err
	}
	tx.Memo = m.Memo
	return nil
}

// Fee computes the total fees for the Tx.
type Fee struct {
	BaseFee int64
}

func (f *Fee) validate() error {
	if f.BaseFee < 0 {
		return errors.New("base fee is negative")
	}

	return nil
}

// Mutate changes the corresponding Fee field of the Tx.
func (f *Fee) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}

	if err := f.validate(); err != nil {
		return err
	}

	tx.Fee = f.BaseFee * int64(len(tx.OpList))

	return nil
}

func validateAsset(asset *txn.Asset) error {
	if asset == nil {
		return errors.New("asset is nil")
	}
	if asset.AssetType == txn.NATIVE {
		return nil
	}
	if len(asset.AssetCode) == 0 || len(asset.AssetCode) > 12 {
		return errors.New("invalid asset code")
	}
	if !crypto.IsValidAccountKey(asset.Issuer) {
		return errors.New("invalid asset issuer account key")
	}
	return nil
}

func validateSource(source string) error {
	if source == "" {
		return nil
	}
	if !crypto.IsValidAccountKey(source) {
		return errors.New("invalid operation source account key")
	}
	return nil
}

// CreateAccount adds a CreateAccount op to the OpList field of tx.
type CreateAccount struct {
	AccountID       string
	Balance         int64
	SourceAccountID string
}

func (ca *CreateAccount) validate() error {
	if len(ca.AccountID) == 0 {
		return errors.New("empty account id")
	}

	if ca.Balance < BaseFee {
		return errors.New("init balance less than base fee")
	}

	if !crypto.IsValidAccountKey(ca.AccountID) {
		return errors.New("invalid account key")
	}

	return validateSource(ca.SourceAccountID)
}

// Mutate appends a CreateAccount op to the OpList.
func (ca *CreateAccount) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}

	if err := ca.validate(); err != nil {
		return err
	}

	tx.OpList = append(tx.OpList, &txn.Op{
		OpType:          txn.OpTypeCreateAccount,
		SourceAccountID: ca.SourceAccountID,
		CreateAccount: &txn.CreateAccountOp{
			AccountID: ca.AccountID,
			Balance:   ca.Balance,
		},
	})

	return nil
}

// Payment adds a Payment operation to the OpList field of Tx,
// SourceAccountID optionally names the account the payment is
// evaluated against when it differs from the base account.
type Payment struct {
	AccountID       string
	Asset           *txn.Asset
	Amount          int64
	SourceAccountID string
}

func (p *Payment) validate() error {
	if p.Amount <= 0 {
		return errors.New("invalid payment amount")
	}

	if !crypto.IsValidAccountKey(p.AccountID) {
		return errors.New("invalid account key")
	}

	if err := validateAsset(p.Asset); err != nil {
		return err
	}

	return validateSource(p.SourceAccountID)
}

// Mutate appends a Payment operation to the OpList of the Tx.
func (p *Payment) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}

	if err := p.validate(); err != nil {
		return err
	}

	tx.OpList = append(tx.OpList, &txn.Op{
		OpType:          txn.OpTypePayment,
		SourceAccountID: p.SourceAccountID,
		Payment: &txn.PaymentOp{
			AccountID: p.AccountID,
			Asset:     p.Asset,
			Amount:    p.Amount,
		},
	})

	return nil
}

// Trust adds a ChangeTrust operation to the OpList field of the Tx,
// a zero limit clears the trustline.
type Trust struct {
	Asset           *txn.Asset
	Limit           int64
	SourceAccountID string
}

func (t *Trust) validate() error {
	if t.Limit < 0 {
		return errors.New("negative trust limit")
	}

	if err := validateAsset(t.Asset); err != nil {
		return err
	}

	if t.Asset.AssetType == txn.NATIVE {
		return errors.New("cannot trust the native asset")
	}

	return validateSource(t.SourceAccountID)
}

// Mutate appends a ChangeTrust operation to the OpList of the Tx.
func (t *Trust) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}

	if err := t.validate(); err != nil {
		return err
	}

	tx.OpList = append(tx.OpList, &txn.Op{
		OpType:          txn.OpTypeChangeTrust,
		SourceAccountID: t.SourceAccountID,
		ChangeTrust: &txn.ChangeTrustOp{
			Asset: t.Asset,
			Limit: t.Limit,
		},
	})

	return nil
}

// SetFlags adds a SetOptions operation setting account
// authorization flags.
type SetFlags struct {
	Flags           uint32
	SourceAccountID string
}

func (s *SetFlags) validate() error {
	known := txn.FlagAuthRequired | txn.FlagAuthRevocable | txn.FlagAuthImmutable
	if s.Flags == 0 || s.Flags&^known != 0 {
		return errors.New("invalid account flags")
	}
	return validateSource(s.SourceAccountID)
}

// Mutate appends a SetOptions operation to the OpList of the Tx.
func (s *SetFlags) Mutate(tx *txn.Tx) error {
	if tx == nil {
		return ErrNilTx
	}

	if err := s.validate(); err != nil {
		return err
	}

	tx.OpList = append(tx.OpList, &txn.Op{
		OpType:          txn.OpTypeSetOptions,
		SourceAccountID: s.SourceAccountID,
		SetOptions: &txn.SetOptionsOp{
			SetFlags: s.Flags,
		},
	})

	return nil
}
