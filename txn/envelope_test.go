package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockrockettech/stellar-playground/crypto"
)

func testTx(t *testing.T) (*Tx, string, string) {
	base, baseSeed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	src, srcSeed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	dst, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	tx := &Tx{
		AccountID: base,
		Fee:       100,
		SeqNum:    7,
		Memo:      "prepaid hop",
		OpList: []*Op{
			{
				OpType:          OpTypePayment,
				SourceAccountID: src,
				Payment: &PaymentOp{
					AccountID: dst,
					Asset:     CustomAsset("STE", base),
					Amount:    10,
				},
			},
		},
	}
	return tx, baseSeed, srcSeed
}

// A partially signed envelope must round-trip through its transport
// string without losing operations, sources, seqnum or signatures.
func TestEnvelopeRoundTrip(t *testing.T) {
	tx, _, srcSeed := testTx(t)

	env := NewEnvelope(tx)
	err := env.Sign(srcSeed)
	assert.Nil(t, err)

	encoded, err := env.Encode()
	assert.Nil(t, err)

	decoded, err := DecodeEnvelope(encoded)
	assert.Nil(t, err)

	assert.Equal(t, env.Tx.AccountID, decoded.Tx.AccountID)
	assert.Equal(t, env.Tx.SeqNum, decoded.Tx.SeqNum)
	assert.Equal(t, env.Tx.Memo, decoded.Tx.Memo)
	assert.Equal(t, len(env.Tx.OpList), len(decoded.Tx.OpList))
	assert.Equal(t, env.Tx.OpList[0].SourceAccountID, decoded.Tx.OpList[0].SourceAccountID)
	assert.Equal(t, env.Signatures, decoded.Signatures)

	// signature applied before the hop is still valid after it
	assert.True(t, decoded.SignedBy(tx.OpList[0].SourceAccountID))
}

// The second signer completes a decoded envelope.
func TestEnvelopeTwoPhaseSign(t *testing.T) {
	tx, baseSeed, srcSeed := testTx(t)

	env := NewEnvelope(tx)
	assert.Nil(t, env.Sign(srcSeed))
	assert.False(t, env.SignedBy(tx.AccountID))

	encoded, err := env.Encode()
	assert.Nil(t, err)
	decoded, err := DecodeEnvelope(encoded)
	assert.Nil(t, err)

	assert.Nil(t, decoded.Sign(baseSeed))
	assert.True(t, decoded.SignedBy(tx.AccountID))
	assert.True(t, decoded.SignedBy(tx.OpList[0].SourceAccountID))
	assert.Equal(t, 2, len(decoded.Signatures))
}

func TestDecodeEnvelopeInvalid(t *testing.T) {
	_, err := DecodeEnvelope("")
	assert.Equal(t, ErrInvalidEnvelope, err)

	_, err = DecodeEnvelope("not base64 at all!!!")
	assert.Equal(t, ErrInvalidEnvelope, err)
}

func TestSourceAccounts(t *testing.T) {
	tx, _, _ := testTx(t)
	accounts := tx.SourceAccounts()
	assert.Equal(t, 2, len(accounts))
	assert.Equal(t, tx.AccountID, accounts[0])
	assert.Equal(t, tx.OpList[0].SourceAccountID, accounts[1])

	// implicit source collapses to the base account
	tx.OpList[0].SourceAccountID = ""
	assert.Equal(t, []string{tx.AccountID}, tx.SourceAccounts())
}
