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

// Package facade orchestrates the account, asset, trustline and
// transfer workflows. Every workflow is a strict sequence: resolve
// the named accounts, load the base account state, build the
// transaction, run the signing sequence and submit the envelope.
package facade

import (
	"context"
	"fmt"

	"github.com/blockrockettech/stellar-playground/gateway"
	"github.com/blockrockettech/stellar-playground/ledger"
	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/registry"
	"github.com/blockrockettech/stellar-playground/txn"
	"github.com/blockrockettech/stellar-playground/txn/build"
)

// Context carries the collaborators of the facade.
type Context struct {
	Registry *registry.Registry
	Gateway  gateway.Gateway
	Funder   gateway.Funder
	// Native balance used when one account activates another,
	// defaults to the base reserve.
	MinStartingBalance int64
}

// Facade composes the registry and the ledger gateway into the
// workflows exposed to the transport layer.
type Facade struct {
	registry *registry.Registry
	gateway  gateway.Gateway
	funder   gateway.Funder

	minStartingBalance int64
}

func New(ctx *Context) *Facade {
	min := ctx.MinStartingBalance
	if min <= 0 {
		min = ledger.GenesisBaseReserve
	}
	return &Facade{
		registry:           ctx.Registry,
		gateway:            ctx.Gateway,
		funder:             ctx.Funder,
		minStartingBalance: min,
	}
}

// AccountBalances is one entry of the list-all response.
type AccountBalances struct {
	Account  string                  `json:"account"`
	Flags    uint32                  `json:"flags"`
	Balances []*gateway.BalanceLine `json:"balances"`
}

// CreateAccount generates and registers a keypair for the name, the
// call is idempotent: an existing name returns its stored keypair
// unchanged. The secret key is returned for playground use only.
func (f *Facade) CreateAccount(name string) (*registry.Account, error) {
	return f.registry.Create(name)
}

// GetAccount looks the name up in the registry.
func (f *Facade) GetAccount(name string) (*registry.Account, error) {
	return f.registry.Get(name)
}

// LoadAccount returns the raw on-ledger state of the named account.
func (f *Facade) LoadAccount(ctx context.Context, name string) (*gateway.AccountState, error) {
	account, err := f.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return f.gateway.LoadAccount(ctx, account.PublicKey)
}

// ListAccountBalances loads the balances of every registered account,
// accounts without on-ledger presence are skipped.
func (f *Facade) ListAccountBalances(ctx context.Context) ([]*AccountBalances, error) {
	accounts, err := f.registry.All()
	if err != nil {
		return nil, err
	}

	var all []*AccountBalances
	for _, account := range accounts {
		state, err := f.gateway.LoadAccount(ctx, account.PublicKey)
		if err == gateway.ErrAccountNotFound {
			log.Debugw("account not funded yet, skipping", "name", account.Name)
			continue
		} else if err != nil {
			return nil, err
		}
		all = append(all, &AccountBalances{
			Account:  account.Name,
			Flags:    state.Flags,
			Balances: state.Balances,
		})
	}

	return all, nil
}

// CreateAsset constructs the issued asset of the named account, no
// transaction is involved, an asset exists once someone trusts it.
func (f *Facade) CreateAsset(name string, assetCode string) (*txn.Asset, error) {
	account, err := f.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return txn.CustomAsset(assetCode, account.PublicKey), nil
}

// ConfigureIssuer sets the three authorization flags on the issuing
// account in a single operation.
func (f *Facade) ConfigureIssuer(ctx context.Context, name string) error {
	issuer, err := f.registry.Get(name)
	if err != nil {
		return err
	}

	state, err := f.gateway.LoadAccount(ctx, issuer.PublicKey)
	if err != nil {
		return err
	}

	env, err := f.buildEnvelope(state,
		&build.SetFlags{
			Flags: txn.FlagAuthRequired | txn.FlagAuthRevocable | txn.FlagAuthImmutable,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(issuer.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("configuring issuer flags", "name", name)
	return f.gateway.SubmitTx(ctx, env)
}

// FundAccount activates the destination account with a transfer of
// the minimum starting balance from an already funded account.
func (f *Facade) FundAccount(ctx context.Context, fromName, toName string) error {
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
		&build.CreateAccount{
			AccountID: to.PublicKey,
			Balance:   f.minStartingBalance,
		})
	if err != nil {
		return err
	}

	if err := env.Sign(from.SecretKey); err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}

	log.Infow("activating account", "from", fromName, "to", toName, "amount", f.minStartingBalance)
	return f.gateway.SubmitTx(ctx, env)
}

// FundViaFriendbot delegates funding of the named account to the
// external bootstrap service, no transaction is built locally.
func (f *Facade) FundViaFriendbot(ctx context.Context, name string) error {
	account, err := f.registry.Get(name)
	if err != nil {
		return err
	}
	log.Infow("funding account via friendbot", "name", name, "publicKey", account.PublicKey)
	return f.funder.Fund(ctx, account.PublicKey)
}

// buildEnvelope builds an unsigned envelope against the loaded base
// account state, consuming its next sequence number.
func (f *Facade) buildEnvelope(state *gateway.AccountState, mutators ...build.TxMutator) (*txn.Envelope, error) {
	tx := build.NewTx()
	ms := []build.TxMutator{
		&build.AccountID{AccountID: state.AccountID},
		&build.SeqNum{SeqNum: state.NextSeqNum()},
	}
	ms = append(ms, mutators...)
	if err := tx.Add(ms...); err != nil {
		return nil, fmt.Errorf("build tx failed: %w", err)
	}
	return tx.Envelope()
}
