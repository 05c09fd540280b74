package build

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockrockettech/stellar-playground/crypto"
	"github.com/blockrockettech/stellar-playground/txn"
)

func testKeys(t *testing.T) (string, string) {
	t.Helper()
	a, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	b, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	return a, b
}

func TestBuildPaymentTx(t *testing.T) {
	base, dst := testKeys(t)

	b := NewTx()
	err := b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 3},
		&Memo{Memo: "lunch"},
		&Payment{AccountID: dst, Asset: txn.NativeAsset(), Amount: 100},
	)
	assert.Nil(t, err)

	assert.Equal(t, base, b.Tx.AccountID)
	assert.Equal(t, uint64(3), b.Tx.SeqNum)
	assert.Equal(t, "lunch", b.Tx.Memo)
	assert.Equal(t, BaseFee, b.Tx.Fee)
	assert.Equal(t, 1, len(b.Tx.OpList))
	assert.Equal(t, txn.OpTypePayment, b.Tx.OpList[0].OpType)
}

func TestFeeScalesWithOps(t *testing.T) {
	base, dst := testKeys(t)

	b := NewTx()
	err := b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&Payment{AccountID: dst, Asset: txn.NativeAsset(), Amount: 100},
		&Payment{AccountID: dst, Asset: txn.NativeAsset(), Amount: 200},
	)
	assert.Nil(t, err)
	assert.Equal(t, 2*BaseFee, b.Tx.Fee)
}

func TestOperationSource(t *testing.T) {
	base, other := testKeys(t)

	b := NewTx()
	err := b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&Payment{
			AccountID:       base,
			Asset:           txn.NativeAsset(),
			Amount:          100,
			SourceAccountID: other,
		},
	)
	assert.Nil(t, err)
	assert.Equal(t, other, b.Tx.OpList[0].SourceAccountID)
	assert.Equal(t, []string{base, other}, b.Tx.SourceAccounts())
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	base, dst := testKeys(t)

	// missing base account
	b := NewTx()
	err := b.Add(
		&SeqNum{SeqNum: 1},
		&Payment{AccountID: dst, Asset: txn.NativeAsset(), Amount: 100},
	)
	assert.ErrorIs(t, err, ErrInvalidTx)

	// zero sequence number
	b = NewTx()
	err = b.Add(&SeqNum{SeqNum: 0})
	assert.ErrorIs(t, err, ErrInvalidTx)

	// no operations
	b = NewTx()
	err = b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
	)
	assert.ErrorIs(t, err, ErrInvalidTx)

	// malformed base account key
	b = NewTx()
	err = b.Add(&AccountID{AccountID: "not-a-key"})
	assert.ErrorIs(t, err, ErrInvalidTx)

	// nonpositive payment amount
	b = NewTx()
	err = b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&Payment{AccountID: dst, Asset: txn.NativeAsset(), Amount: 0},
	)
	assert.ErrorIs(t, err, ErrInvalidTx)

	// asset code too long
	b = NewTx()
	err = b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&Trust{Asset: txn.CustomAsset("WAYTOOLONGCODE", dst), Limit: 100},
	)
	assert.ErrorIs(t, err, ErrInvalidTx)
}

func TestTrustAndFlagsMutators(t *testing.T) {
	base, issuer := testKeys(t)

	b := NewTx()
	err := b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&Trust{Asset: txn.CustomAsset("STE", issuer), Limit: 10000},
		&SetFlags{Flags: txn.FlagAuthRequired | txn.FlagAuthRevocable},
	)
	assert.Nil(t, err)
	assert.Equal(t, txn.OpTypeChangeTrust, b.Tx.OpList[0].OpType)
	assert.Equal(t, int64(10000), b.Tx.OpList[0].ChangeTrust.Limit)
	assert.Equal(t, txn.OpTypeSetOptions, b.Tx.OpList[1].OpType)

	// unknown flag bits are rejected
	b = NewTx()
	err = b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&SetFlags{Flags: 0x80},
	)
	assert.NotNil(t, err)
}

func TestEnvelopeFromBuilder(t *testing.T) {
	base, dst := testKeys(t)

	b := NewTx()
	err := b.Add(
		&AccountID{AccountID: base},
		&SeqNum{SeqNum: 1},
		&Payment{AccountID: dst, Asset: txn.NativeAsset(), Amount: 100},
	)
	assert.Nil(t, err)

	env, err := b.Envelope()
	assert.Nil(t, err)
	assert.Equal(t, b.Tx, env.Tx)
	assert.Equal(t, 0, len(env.Signatures))
}
