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

package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	b58 "github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/ed25519"
)

// Generate an account keypair with the ed25519 crypto algorithm,
// since we can always reconstruct the true private key from the
// same seed, we use the randomly generated seed as an equivalent
// private key.
func GetAccountKeypair() (string, string, error) {
	var seed [32]byte
	_, err := io.ReadFull(rand.Reader, seed[:])
	if err != nil {
		return "", "", err
	}
	return keypairFromSeed(seed)
}

// Generate an account keypair from the provided seed bytes.
func GetAccountKeypairFromSeed(seed []byte) (string, string, error) {
	if len(seed) != 32 {
		return "", "", errors.New("invalid seed, byte length is not 32")
	}
	var sd [32]byte
	copy(sd[:], seed)
	return keypairFromSeed(sd)
}

func keypairFromSeed(seed [32]byte) (string, string, error) {
	privateKey := ed25519.NewKeyFromSeed(seed[:])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	var pk [32]byte
	copy(pk[:], publicKey)
	acc := &Key{Code: KeyTypeAccountID, Hash: pk}
	sd := &Key{Code: KeyTypeSeed, Hash: seed}

	return EncodeKey(acc), EncodeKey(sd), nil
}

// Reconstruct the true private key from the seed, it supposes to
// be only used in situations where you need to sign the data so
// the authenticity can be verified by the corresponding public key.
func getPrivateKey(seed string) (ed25519.PrivateKey, error) {
	if seed == "" {
		return nil, fmt.Errorf("empty seed")
	}
	k, err := DecodeKey(seed)
	if err != nil {
		return nil, err
	}
	if k.Code != KeyTypeSeed {
		return nil, errors.New("incorrect seed key type")
	}
	privateKey := ed25519.NewKeyFromSeed(k.Hash[:])
	return privateKey, nil
}

// SignerOf derives the account ID which the seed signs for.
func SignerOf(seed string) (string, error) {
	pk, err := getPrivateKey(seed)
	if err != nil {
		return "", err
	}
	publicKey := pk.Public().(ed25519.PublicKey)

	var hash [32]byte
	copy(hash[:], publicKey)
	acc := &Key{Code: KeyTypeAccountID, Hash: hash}

	return EncodeKey(acc), nil
}

// Sign the data with the provided seed (equivalent private key).
func Sign(seed string, data []byte) (string, error) {
	pk, err := getPrivateKey(seed)
	if err != nil {
		return "", err
	}

	signature := ed25519.Sign(pk, data)
	signStr := b58.Encode(signature)

	return signStr, nil
}

// Verify the data signature with the encoded string representation
// of the public key.
func Verify(publicKey, signature string, data []byte) bool {
	pk, err := DecodeKey(publicKey)
	if err != nil {
		return false
	}
	return VerifyByKey(pk, signature, data)
}

// Verify the data signature using a decoded Key.
func VerifyByKey(pk *Key, signature string, data []byte) bool {
	sn, err := b58.Decode(signature)
	if err != nil {
		return false
	}
	pub := ed25519.PublicKey(pk.Hash[:])
	return ed25519.Verify(pub, data, sn)
}
