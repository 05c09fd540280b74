package txn

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blockrockettech/stellar-playground/crypto"
)

var (
	ErrNilTx           = errors.New("tx is nil")
	ErrInvalidEnvelope = errors.New("invalid envelope string")
)

// Signature is one signature over the canonical tx bytes, Signer is
// the account ID derived from the seed which produced it.
type Signature struct {
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

// Envelope carries a tx and the signatures collected so far. It is the
// unit handed across trust boundaries: a partially signed envelope can
// be encoded, transported as a string, decoded and completed by the
// remaining signers without access to the original in-memory object.
type Envelope struct {
	Tx         *Tx          `json:"tx"`
	Signatures []*Signature `json:"signatures,omitempty"`
}

// NewEnvelope wraps an unsigned tx in an empty envelope.
func NewEnvelope(tx *Tx) *Envelope {
	return &Envelope{Tx: tx}
}

// Sign appends one signature by the supplied seed. The signer is not
// checked against the tx source accounts, the ledger enforces signer
// applicability at submission time.
func (e *Envelope) Sign(seed string) error {
	if e.Tx == nil {
		return ErrNilTx
	}

	signer, err := crypto.SignerOf(seed)
	if err != nil {
		return fmt.Errorf("derive signer failed: %v", err)
	}

	payload, err := Encode(e.Tx)
	if err != nil {
		return fmt.Errorf("encode tx failed: %v", err)
	}
	signature, err := crypto.Sign(seed, payload)
	if err != nil {
		return fmt.Errorf("sign the tx failed: %v", err)
	}

	e.Signatures = append(e.Signatures, &Signature{
		Signer:    signer,
		Signature: signature,
	})

	return nil
}

// SignedBy reports whether the envelope carries a valid signature
// by the supplied account.
func (e *Envelope) SignedBy(accountID string) bool {
	if e.Tx == nil {
		return false
	}
	payload, err := Encode(e.Tx)
	if err != nil {
		return false
	}
	for _, sig := range e.Signatures {
		if sig.Signer != accountID {
			continue
		}
		if crypto.Verify(sig.Signer, sig.Signature, payload) {
			return true
		}
	}
	return false
}

// Encode serializes the envelope to a base64 transport string.
func (e *Envelope) Encode() (string, error) {
	if e.Tx == nil {
		return "", ErrNilTx
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal envelope failed: %v", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeEnvelope reconstructs an envelope from its base64 transport
// string, the operations, sources, sequence number, memo and the
// accumulated signatures are preserved exactly.
func DecodeEnvelope(s string) (*Envelope, error) {
	if s == "" {
		return nil, ErrInvalidEnvelope
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	e := &Envelope{}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, ErrInvalidEnvelope
	}
	if e.Tx == nil {
		return nil, ErrInvalidEnvelope
	}
	return e, nil
}
