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

// Package gateway defines the narrow client interface through which the
// facade reaches the ledger network: loading account state and submitting
// signed transaction envelopes. The ledger itself is the sole authority
// on sequence numbers, balances and authorization flags.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockrockettech/stellar-playground/txn"
)

var (
	// The account has no presence on the ledger.
	ErrAccountNotFound = errors.New("account not found on ledger")
	// The gateway call did not complete within its bounded timeout.
	ErrTimeout = errors.New("ledger gateway timeout")
	// The gateway could not be reached.
	ErrUnavailable = errors.New("ledger gateway unavailable")
)

// SubmissionError is returned when the ledger rejects a fully formed,
// fully signed envelope. Resubmitting the same envelope will fail again
// since its sequence number is spent.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction rejected by ledger: %s", e.Reason)
}

// BalanceLine is one entry of an account balance list, for issued
// assets the Limit is the trustline ceiling, zero means no trustline.
type BalanceLine struct {
	Asset   *txn.Asset `json:"asset"`
	Balance int64      `json:"balance"`
	Limit   int64      `json:"limit,omitempty"`
}

// AccountState is the on-ledger state of an account at load time,
// valid for building exactly one transaction.
type AccountState struct {
	AccountID string         `json:"accountID"`
	SeqNum    uint64         `json:"seqNum"`
	Flags     uint32         `json:"flags"`
	Balances  []*BalanceLine `json:"balances"`
}

// NextSeqNum returns the sequence number a transaction built from
// this state must carry.
func (s *AccountState) NextSeqNum() uint64 {
	return s.SeqNum + 1
}

// Gateway is the ledger network client consumed by the facade.
type Gateway interface {
	LoadAccount(ctx context.Context, accountID string) (*AccountState, error)
	SubmitTx(ctx context.Context, envelope *txn.Envelope) error
}

// Funder gives a fresh account a minimal native balance, it is the
// bootstrap service of the test network.
type Funder interface {
	Fund(ctx context.Context, accountID string) error
}
