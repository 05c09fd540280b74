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

package build

import (
	"errors"
	"fmt"

	"github.com/blockrockettech/stellar-playground/ledger"
	"github.com/blockrockettech/stellar-playground/txn"
)

var BaseFee = ledger.GenesisBaseFee

// ErrInvalidTx marks failures caused by the transaction under
// construction rather than by the surrounding machinery, callers
// match it with errors.Is to report them as bad input.
var ErrInvalidTx = errors.New("invalid tx")

// Tx serves as the main object for building a transaction.
type Tx struct {
	Tx *txn.Tx
}

func NewTx() *Tx {
	return &Tx{Tx: &txn.Tx{}}
}

// Add adds one or more mutators to the underlying transaction
// builder and if any of the mutation fails the method fails.
func (t *Tx) Add(ms ...TxMutator) error {
	var err error

	for _, m := range ms {
		err = m.Mutate(t.Tx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTx, err)
		}
	}

	// add a fee mutator to compute the total fee
	fm := Fee{BaseFee: BaseFee}
	err = fm.Mutate(t.Tx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTx, err)
	}

	// check the validity of tx
	if err := t.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTx, err)
	}

	return nil
}

func (t *Tx) validate() error {
	if t.Tx.AccountID == "" {
		return errors.New("empty account id")
	}
	if t.Tx.SeqNum == 0 {
		return errors.New("zero sequence number")
	}
	if len(t.Tx.OpList) == 0 {
		return errors.New("empty op list")
	}
	return nil
}

// Envelope wraps the built transaction in an unsigned envelope,
// ready for the signing sequence of the enclosing workflow.
func (t *Tx) Envelope() (*txn.Envelope, error) {
	if t.Tx == nil {
		return nil, ErrNilTx
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTx, err)
	}
	return txn.NewEnvelope(t.Tx), nil
}
