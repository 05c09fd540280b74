package txn

import (
	"encoding/json"

	"github.com/blockrockettech/stellar-playground/crypto"
)

// Encode a tx to its canonical byte representation, signatures are
// always computed over these bytes so they stay valid across an
// encode/decode hop of the enclosing envelope.
func Encode(tx *Tx) ([]byte, error) {
	b, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Decode canonical bytes to a Tx.
func DecodeTx(b []byte) (*Tx, error) {
	tx := &Tx{}
	if err := json.Unmarshal(b, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// TxKey computes the typed hash key of the tx.
func TxKey(tx *Tx) (string, error) {
	b, err := Encode(tx)
	if err != nil {
		return "", err
	}
	key := &crypto.Key{
		Code: crypto.KeyTypeTx,
		Hash: crypto.SHA256HashBytes(b),
	}
	return crypto.EncodeKey(key), nil
}
