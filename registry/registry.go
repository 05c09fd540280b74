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

// Package registry owns the durable mapping from human readable
// account names to keypairs. It is the only component which holds
// secret keys, and secret keys never appear in any diagnostic output.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/blockrockettech/stellar-playground/crypto"
	"github.com/blockrockettech/stellar-playground/db"
	"github.com/blockrockettech/stellar-playground/log"
)

var (
	ErrNotFound  = errors.New("account name not found in registry")
	ErrEmptyName = errors.New("account name is empty")
)

// Account is a named keypair identity. The public key is always
// derivable from the secret key, the registry never stores one
// without the other.
type Account struct {
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// Registry stores named accounts in the database. Mutations are
// serialized behind a mutex so concurrent creates cannot lose
// writes, reads always go to the store so a write is visible to
// every subsequent read in the process.
type Registry struct {
	database db.Database
	bucket   string

	// single-writer discipline for mutations
	mu sync.Mutex
}

func New(d db.Database) *Registry {
	r := &Registry{
		database: d,
		bucket:   "REGISTRY",
	}
	err := r.database.NewBucket(r.bucket)
	if err != nil {
		log.Fatalf("create db bucket %s failed: %v", r.bucket, err)
	}
	return r
}

// Create returns the existing account unchanged when the name is
// already registered, otherwise it generates a fresh keypair and
// persists it. Creation is idempotent per name.
func (r *Registry) Create(name string) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.get(name)
	if err == nil {
		return existing, nil
	} else if err != ErrNotFound {
		return nil, err
	}

	publicKey, secretKey, err := crypto.GetAccountKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate keypair failed: %v", err)
	}

	account := &Account{
		Name:      name,
		PublicKey: publicKey,
		SecretKey: secretKey,
	}

	b, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("encode account failed: %v", err)
	}
	if err := r.database.Put(r.bucket, []byte(name), b); err != nil {
		return nil, fmt.Errorf("save account in db failed: %v", err)
	}

	// the secret key is deliberately not logged
	log.Infow("account created", "name", name, "publicKey", publicKey)

	return account, nil
}

// Get fails with ErrNotFound when no account with that name has
// been created.
func (r *Registry) Get(name string) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return r.get(name)
}

func (r *Registry) get(name string) (*Account, error) {
	b, err := r.database.Get(r.bucket, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("get account %s failed: %v", name, err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	account := &Account{}
	if err := json.Unmarshal(b, account); err != nil {
		return nil, fmt.Errorf("account %s decode failed: %v", name, err)
	}

	return account, nil
}

// Exists never errors, unknown names report false.
func (r *Registry) Exists(name string) bool {
	_, err := r.get(name)
	return err == nil
}

// All returns a snapshot of every registered account.
func (r *Registry) All() ([]*Account, error) {
	vals, err := r.database.GetAll(r.bucket, nil)
	if err != nil {
		return nil, fmt.Errorf("list accounts failed: %v", err)
	}

	var accounts []*Account
	for _, b := range vals {
		account := &Account{}
		if err := json.Unmarshal(b, account); err != nil {
			return nil, fmt.Errorf("account decode failed: %v", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}
