package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/blockrockettech/stellar-playground/db"
	"github.com/blockrockettech/stellar-playground/gateway"
	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/txn"
)

// Engine is the in-process ledger, it implements both the gateway
// client interface and the funder interface so the facade can run
// fully self-contained.
type Engine struct {
	database db.Database
	manager  *Manager

	// submissions are applied one at a time
	mu sync.Mutex
}

func NewEngine(d db.Database) *Engine {
	return &Engine{
		database: d,
		manager:  NewManager(d),
	}
}

// LoadAccount returns the current state of the account: sequence
// number, flags, the native balance line and one line per trustline.
func (e *Engine) LoadAccount(ctx context.Context, accountID string) (*gateway.AccountState, error) {
	acc, err := e.manager.GetAccount(e.database, accountID)
	if err == ErrAccountNotExist {
		return nil, gateway.ErrAccountNotFound
	} else if err != nil {
		return nil, err
	}

	state := &gateway.AccountState{
		AccountID: acc.AccountID,
		SeqNum:    acc.SeqNum,
		Flags:     acc.Flags,
		Balances: []*gateway.BalanceLine{
			{Asset: txn.NativeAsset(), Balance: acc.Balance},
		},
	}

	trusts, err := e.manager.GetTrusts(e.database, accountID)
	if err != nil {
		return nil, err
	}
	for _, trust := range trusts {
		state.Balances = append(state.Balances, &gateway.BalanceLine{
			Asset:   trust.Asset,
			Balance: trust.Balance,
			Limit:   trust.Limit,
		})
	}

	return state, nil
}

// SubmitTx runs the admission checks and applies the transaction
// atomically, any failure rejects the whole envelope.
func (e *Engine) SubmitTx(ctx context.Context, envelope *txn.Envelope) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if envelope == nil || envelope.Tx == nil {
		return &gateway.SubmissionError{Reason: "envelope carries no transaction"}
	}
	tx := envelope.Tx
	if len(tx.OpList) == 0 {
		return &gateway.SubmissionError{Reason: "transaction has no operations"}
	}

	// every source account must have signed the envelope, the base
	// account authorizes the fee and sequence consumption, each
	// explicit operation source authorizes its own operation
	for _, source := range tx.SourceAccounts() {
		if !envelope.SignedBy(source) {
			return &gateway.SubmissionError{
				Reason: fmt.Sprintf("missing or invalid signature for account %s", source),
			}
		}
	}

	baseAccount, err := e.manager.GetAccount(e.database, tx.AccountID)
	if err == ErrAccountNotExist {
		return &gateway.SubmissionError{Reason: "base account not found"}
	} else if err != nil {
		return err
	}

	// sequence numbers are single-use
	if tx.SeqNum != baseAccount.SeqNum+1 {
		return &gateway.SubmissionError{
			Reason: fmt.Sprintf("bad sequence number %d, expected %d", tx.SeqNum, baseAccount.SeqNum+1),
		}
	}

	if tx.Fee < GenesisBaseFee*int64(len(tx.OpList)) {
		return &gateway.SubmissionError{Reason: "insufficient fee"}
	}
	if baseAccount.Balance < tx.Fee {
		return &gateway.SubmissionError{Reason: "insufficient balance for fee"}
	}

	dt, err := e.database.Begin()
	if err != nil {
		return fmt.Errorf("begin db transaction failed: %v", err)
	}

	if err := e.apply(dt, tx); err != nil {
		dt.Rollback()
		e.manager.PurgeCache()
		return &gateway.SubmissionError{Reason: err.Error()}
	}

	if err := dt.Commit(); err != nil {
		e.manager.PurgeCache()
		return fmt.Errorf("commit db transaction failed: %v", err)
	}

	// a concurrent LoadAccount may have re-cached pre-transaction
	// state between the staged writes and the commit, drop it so the
	// next admission reads the committed sequence numbers
	e.manager.PurgeCache()

	txKey, err := txn.TxKey(tx)
	if err == nil {
		log.Infow("tx applied", "tx", txKey, "base", tx.AccountID, "ops", len(tx.OpList))
	}

	return nil
}

func (e *Engine) apply(dt db.Tx, tx *txn.Tx) error {
	// consume the sequence number and charge the fee first
	baseAccount, err := e.manager.GetAccount(dt, tx.AccountID)
	if err != nil {
		return err
	}
	baseAccount.SeqNum++
	if err := e.manager.SubBalance(baseAccount, tx.Fee); err != nil {
		return err
	}
	if err := e.manager.SaveAccount(dt, baseAccount); err != nil {
		return err
	}

	// operations run left to right, each against its own source
	for i, o := range tx.OpList {
		source := o.SourceAccountID
		if source == "" {
			source = tx.AccountID
		}
		op, err := e.buildOp(o, source)
		if err != nil {
			return fmt.Errorf("op %d invalid: %v", i, err)
		}
		if err := op.Apply(dt); err != nil {
			return fmt.Errorf("op %d failed: %v", i, err)
		}
	}

	return nil
}

func (e *Engine) buildOp(o *txn.Op, source string) (Op, error) {
	switch o.OpType {
	case txn.OpTypeCreateAccount:
		if o.CreateAccount == nil {
			return nil, fmt.Errorf("create account op is empty")
		}
		return &CreateAccount{
			M:            e.manager,
			SrcAccountID: source,
			DstAccountID: o.CreateAccount.AccountID,
			Balance:      o.CreateAccount.Balance,
		}, nil
	case txn.OpTypePayment:
		if o.Payment == nil {
			return nil, fmt.Errorf("payment op is empty")
		}
		return &Payment{
			M:            e.manager,
			SrcAccountID: source,
			DstAccountID: o.Payment.AccountID,
			Asset:        o.Payment.Asset,
			Amount:       o.Payment.Amount,
		}, nil
	case txn.OpTypeChangeTrust:
		if o.ChangeTrust == nil {
			return nil, fmt.Errorf("change trust op is empty")
		}
		return &ChangeTrust{
			M:            e.manager,
			SrcAccountID: source,
			Asset:        o.ChangeTrust.Asset,
			Limit:        o.ChangeTrust.Limit,
		}, nil
	case txn.OpTypeSetOptions:
		if o.SetOptions == nil {
			return nil, fmt.Errorf("set options op is empty")
		}
		return &SetOptions{
			M:            e.manager,
			SrcAccountID: source,
			SetFlags:     o.SetOptions.SetFlags,
		}, nil
	}
	return nil, fmt.Errorf("unknown op type %d", o.OpType)
}

// Fund mints the friendbot starting balance for a fresh account,
// funding an existing account fails like the real bootstrap service.
func (e *Engine) Fund(ctx context.Context, accountID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.manager.GetAccount(e.database, accountID); err == nil {
		return fmt.Errorf("account %s is already funded", accountID)
	} else if err != ErrAccountNotExist {
		return err
	}

	if err := e.manager.CreateAccount(e.database, accountID, GenesisFriendbotBalance); err != nil {
		return err
	}
	log.Infow("account funded", "account", accountID, "balance", GenesisFriendbotBalance)

	return nil
}
