// Copyright 2019 The stellar-playground Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package txn defines the wire types of ledger transactions and the
// envelope which carries a transaction together with its accumulated
// signatures across process boundaries.
package txn

type AssetType uint8

const (
	// The native asset of the ledger network.
	NATIVE AssetType = iota
	// A custom issued asset.
	CUSTOM
)

// Asset identifies an asset by its code and issuing account,
// two assets are equal iff all the fields match.
type Asset struct {
	AssetType AssetType `json:"assetType"`
	AssetCode string    `json:"assetCode,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
}

// NativeAsset returns the native asset of the network.
func NativeAsset() *Asset {
	return &Asset{AssetType: NATIVE}
}

// CustomAsset returns an issued asset with the supplied code and issuer.
func CustomAsset(code string, issuer string) *Asset {
	return &Asset{AssetType: CUSTOM, AssetCode: code, Issuer: issuer}
}

// Equal reports whether two assets identify the same asset.
func (a *Asset) Equal(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.AssetType == other.AssetType &&
		a.AssetCode == other.AssetCode &&
		a.Issuer == other.Issuer
}

type OpType uint8

// enumeration of operation type
const (
	_ OpType = iota // skip zero
	OpTypeCreateAccount
	OpTypePayment
	OpTypeChangeTrust
	OpTypeSetOptions
)

// Account authorization flags set by the SetOptions operation.
const (
	// The issuing account must authorize other accounts before
	// they can hold its credit.
	FlagAuthRequired uint32 = 0x1
	// The issuing account may revoke its credit held by other accounts.
	FlagAuthRevocable uint32 = 0x2
	// None of the authorization flags can be changed any more.
	FlagAuthImmutable uint32 = 0x4
)

// CreateAccountOp creates the destination account on the ledger
// with an initial native balance.
type CreateAccountOp struct {
	AccountID string `json:"accountID"`
	Balance   int64  `json:"balance"`
}

// PaymentOp moves an amount of the asset to the destination account.
type PaymentOp struct {
	AccountID string `json:"accountID"`
	Asset     *Asset `json:"asset"`
	Amount    int64  `json:"amount"`
}

// ChangeTrustOp creates or updates a trustline of the operation
// source towards the issued asset, a zero limit clears it.
type ChangeTrustOp struct {
	Asset *Asset `json:"asset"`
	Limit int64  `json:"limit"`
}

// SetOptionsOp sets account authorization flags.
type SetOptionsOp struct {
	SetFlags uint32 `json:"setFlags"`
}

// Op is one operation inside a transaction. SourceAccountID optionally
// names the account the operation is evaluated against, when empty the
// operation runs against the transaction base account.
type Op struct {
	OpType          OpType           `json:"opType"`
	SourceAccountID string           `json:"sourceAccountID,omitempty"`
	CreateAccount   *CreateAccountOp `json:"createAccount,omitempty"`
	Payment         *PaymentOp       `json:"payment,omitempty"`
	ChangeTrust     *ChangeTrustOp   `json:"changeTrust,omitempty"`
	SetOptions      *SetOptionsOp    `json:"setOptions,omitempty"`
}

// Tx is a transaction built against the base account identified by
// AccountID, the SeqNum must be the next sequence number of the base
// account at submission time.
type Tx struct {
	AccountID string `json:"accountID"`
	Fee       int64  `json:"fee"`
	SeqNum    uint64 `json:"seqNum"`
	Memo      string `json:"memo,omitempty"`
	OpList    []*Op  `json:"opList"`
}

// SourceAccounts lists the distinct accounts whose authorization the
// transaction exercises: the base account plus every explicit
// operation source.
func (tx *Tx) SourceAccounts() []string {
	seen := map[string]bool{tx.AccountID: true}
	accounts := []string{tx.AccountID}
	for _, op := range tx.OpList {
		if op.SourceAccountID != "" && !seen[op.SourceAccountID] {
			seen[op.SourceAccountID] = true
			accounts = append(accounts, op.SourceAccountID)
		}
	}
	return accounts
}
