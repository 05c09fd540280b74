package crypto

import (
	"bytes"
	"encoding/binary"
	"errors"

	b58 "github.com/mr-tron/base58/base58"
)

type KeyType uint8

// enumeration of key type
const (
	_ KeyType = iota // skip zero
	KeyTypeAccountID
	KeyTypeSeed
	KeyTypeTx
	KeyTypeSignature
)

var (
	ErrInvalidKey = errors.New("invalid key string")
)

// Key is the typed representation of a 32-byte hash, Code
// identifies what kind of value the hash carries.
type Key struct {
	Code KeyType
	Hash [32]byte
}

// Decode a base58 encoded key string to a Key.
func DecodeKey(key string) (*Key, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	b, err := b58.Decode(key)
	if err != nil {
		return nil, ErrInvalidKey
	}

	var k Key
	r := bytes.NewReader(b)
	err = binary.Read(r, binary.BigEndian, &k)
	if err != nil {
		return nil, ErrInvalidKey
	}

	switch k.Code {
	case KeyTypeAccountID:
		fallthrough
	case KeyTypeSeed:
		fallthrough
	case KeyTypeTx:
		fallthrough
	case KeyTypeSignature:
		return &k, nil
	}
	return nil, ErrInvalidKey
}

// Encode a Key to a base58 encoded key string.
func EncodeKey(k *Key) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, k)
	return b58.Encode(buf.Bytes())
}

// Check the validity of the supplied key string.
func IsValidKey(key string) bool {
	if _, err := DecodeKey(key); err != nil {
		return false
	}
	return true
}

// Check that the supplied key string decodes to an account ID.
func IsValidAccountKey(key string) bool {
	k, err := DecodeKey(key)
	if err != nil {
		return false
	}
	return k.Code == KeyTypeAccountID
}

// Check that the supplied key string decodes to a seed.
func IsValidSeedKey(key string) bool {
	k, err := DecodeKey(key)
	if err != nil {
		return false
	}
	return k.Code == KeyTypeSeed
}
