package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/blockrockettech/stellar-playground/db"
	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/txn"
)

var (
	ErrAccountNotExist = errors.New("account not exist")
	ErrTrustNotExist   = errors.New("trust not exist")
	ErrBalanceOverflow = errors.New("account balance overflow")
	ErrBalanceTooLow   = errors.New("account balance too low")
)

// Account is the on-ledger record of an account.
type Account struct {
	AccountID string `json:"accountID"`
	Balance   int64  `json:"balance"`
	SeqNum    uint64 `json:"seqNum"`
	Flags     uint32 `json:"flags"`
}

// Trust is the on-ledger record of a trustline towards an issued
// asset, Limit zero never persists, clearing deletes the record.
type Trust struct {
	AccountID string     `json:"accountID"`
	Asset     *txn.Asset `json:"asset"`
	Balance   int64      `json:"balance"`
	Limit     int64      `json:"limit"`
}

// Manager manages the account and trustline records of the ledger.
type Manager struct {
	database db.Database
	bucket   string

	// LRU cache for accounts
	accounts *lru.Cache
}

func NewManager(d db.Database) *Manager {
	m := &Manager{
		database: d,
		bucket:   "LEDGER",
	}
	err := m.database.NewBucket(m.bucket)
	if err != nil {
		log.Fatalf("create db bucket %s failed: %v", m.bucket, err)
	}
	cache, err := lru.New(10000)
	if err != nil {
		log.Fatalf("create ledger manager LRU cache failed: %v", err)
	}
	m.accounts = cache
	return m
}

func accountKey(accountID string) []byte {
	return []byte("account/" + accountID)
}

func trustKey(accountID string, asset *txn.Asset) []byte {
	return []byte("trust/" + accountID + "/" + asset.AssetCode + "/" + asset.Issuer)
}

func trustPrefix(accountID string) []byte {
	return []byte("trust/" + accountID + "/")
}

// Create a new account with an initial native balance.
func (m *Manager) CreateAccount(putter db.Putter, accountID string, balance int64) error {
	acc := &Account{
		AccountID: accountID,
		Balance:   balance,
	}
	if err := m.SaveAccount(putter, acc); err != nil {
		return fmt.Errorf("save account in db failed: %v", err)
	}
	return nil
}

// Get account information by accountID.
func (m *Manager) GetAccount(getter db.Getter, accountID string) (*Account, error) {
	// first check the LRU cache, a hit returns a copy so callers
	// can mutate freely
	if acc, ok := m.accounts.Get(accountID); ok {
		a := *acc.(*Account)
		return &a, nil
	}

	b, err := getter.Get(m.bucket, accountKey(accountID))
	if err != nil {
		return nil, fmt.Errorf("get account %s failed: %v", accountID, err)
	}
	if b == nil {
		return nil, ErrAccountNotExist
	}

	acc := &Account{}
	if err := json.Unmarshal(b, acc); err != nil {
		return nil, fmt.Errorf("account %s decode failed: %v", accountID, err)
	}

	m.accounts.Add(accountID, acc)
	a := *acc

	return &a, nil
}

// Update account information.
func (m *Manager) SaveAccount(putter db.Putter, acc *Account) error {
	b, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode account failed: %v", err)
	}

	if err := putter.Put(m.bucket, accountKey(acc.AccountID), b); err != nil {
		return fmt.Errorf("save account in db failed: %v", err)
	}

	// the write may still be inside an uncommitted transaction,
	// drop the cached entry instead of caching the new value
	m.accounts.Remove(acc.AccountID)

	return nil
}

// PurgeCache drops every cached account, called after a rolled
// back transaction so no staged state lingers.
func (m *Manager) PurgeCache() {
	m.accounts.Purge()
}

// Add balance to account and check balance overflow.
func (m *Manager) AddBalance(acc *Account, balance int64) error {
	if acc.Balance > int64(^uint64(0)>>1)-balance {
		return ErrBalanceOverflow
	}

	acc.Balance += balance

	return nil
}

// Subtract balance from account and check balance underflow.
func (m *Manager) SubBalance(acc *Account, balance int64) error {
	if acc.Balance < balance {
		return ErrBalanceTooLow
	}

	acc.Balance -= balance

	return nil
}

// Get trust information, the issuer implicitly trusts its own
// asset without bound.
func (m *Manager) GetTrust(getter db.Getter, accountID string, asset *txn.Asset) (*Trust, error) {
	if accountID == asset.Issuer {
		tst := &Trust{
			AccountID: accountID,
			Asset:     asset,
			Balance:   int64(^uint64(0) >> 1),
			Limit:     int64(^uint64(0) >> 1),
		}
		return tst, nil
	}

	b, err := getter.Get(m.bucket, trustKey(accountID, asset))
	if err != nil {
		return nil, fmt.Errorf("get trust from db failed: %v", err)
	}
	if b == nil {
		return nil, ErrTrustNotExist
	}

	trust := &Trust{}
	if err := json.Unmarshal(b, trust); err != nil {
		return nil, fmt.Errorf("decode trust failed: %v", err)
	}

	return trust, nil
}

// Update trust information.
func (m *Manager) SaveTrust(putter db.Putter, trust *Trust) error {
	b, err := json.Marshal(trust)
	if err != nil {
		return fmt.Errorf("encode trust failed: %v", err)
	}

	if err := putter.Put(m.bucket, trustKey(trust.AccountID, trust.Asset), b); err != nil {
		return fmt.Errorf("save trust in db failed: %v", err)
	}

	return nil
}

// Delete the trust record, clearing the trustline.
func (m *Manager) DeleteTrust(putter db.Putter, accountID string, asset *txn.Asset) error {
	if err := putter.Delete(m.bucket, trustKey(accountID, asset)); err != nil {
		return fmt.Errorf("delete trust in db failed: %v", err)
	}
	return nil
}

// GetTrusts lists every trustline held by the account.
func (m *Manager) GetTrusts(getter db.Getter, accountID string) ([]*Trust, error) {
	vals, err := getter.GetAll(m.bucket, trustPrefix(accountID))
	if err != nil {
		return nil, fmt.Errorf("get trusts from db failed: %v", err)
	}

	var trusts []*Trust
	for _, b := range vals {
		trust := &Trust{}
		if err := json.Unmarshal(b, trust); err != nil {
			return nil, fmt.Errorf("decode trust failed: %v", err)
		}
		trusts = append(trusts, trust)
	}

	return trusts, nil
}
