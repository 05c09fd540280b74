package crypto

import (
	"bytes"
	"encoding/binary"
	"testing"

	b58 "github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
)

// test validity of supplied key strings
func TestKeyValidity(t *testing.T) {
	pub, seed, err := GetAccountKeypair()
	assert.Nil(t, err)
	assert.Equal(t, true, IsValidKey(pub))
	assert.Equal(t, true, IsValidKey(seed))

	// test empty key string
	assert.Equal(t, false, IsValidKey(""))

	// construct an invalid key type
	tk := Key{Code: KeyType(128)}

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, tk)

	b58code := b58.Encode(buf.Bytes())
	assert.Equal(t, false, IsValidKey(b58code))
}

// test key encoding round trip
func TestKeyRoundTrip(t *testing.T) {
	var hash [32]byte
	copy(hash[:], []byte("01234567890123456789012345678901"))

	k := &Key{Code: KeyTypeTx, Hash: hash}
	decoded, err := DecodeKey(EncodeKey(k))
	assert.Nil(t, err)
	assert.Equal(t, k.Code, decoded.Code)
	assert.Equal(t, k.Hash, decoded.Hash)
}

// account ID and seed checks reject the other kind
func TestKeyKindChecks(t *testing.T) {
	pub, seed, err := GetAccountKeypair()
	assert.Nil(t, err)
	assert.Equal(t, false, IsValidAccountKey(seed))
	assert.Equal(t, false, IsValidSeedKey(pub))
}
