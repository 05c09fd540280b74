package memdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Memdb.
func TestMemDB(t *testing.T) {
	// open the database
	db := New()

	// test get nonexistance key
	val, err := db.Get("TEST", []byte("none"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte(nil), val)

	// test set key/value pair
	err = db.Put("TEST", []byte("testKey"), []byte("testValue"))
	assert.Equal(t, nil, err)

	// test get value of key
	val, err = db.Get("TEST", []byte("testKey"))
	assert.Equal(t, err, nil)
	assert.Equal(t, []byte("testValue"), val)
}

// Test staged transaction commit and rollback.
func TestMemDBTx(t *testing.T) {
	db := New()

	tx, err := db.Begin()
	assert.Equal(t, nil, err)

	err = tx.Put("TEST", []byte("k"), []byte("v"))
	assert.Equal(t, nil, err)

	// staged write visible inside the tx
	val, err := tx.Get("TEST", []byte("k"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte("v"), val)

	// but not outside before commit
	val, err = db.Get("TEST", []byte("k"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte(nil), val)

	err = tx.Commit()
	assert.Equal(t, nil, err)

	val, err = db.Get("TEST", []byte("k"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte("v"), val)

	// rolled back writes are discarded
	tx, _ = db.Begin()
	tx.Put("TEST", []byte("gone"), []byte("gone"))
	err = tx.Rollback()
	assert.Equal(t, nil, err)

	val, err = db.Get("TEST", []byte("gone"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte(nil), val)
}

// GetAll inside a transaction reflects staged updates, staged
// deletes and staged inserts against the committed store.
func TestMemDBTxGetAll(t *testing.T) {
	db := New()

	assert.Equal(t, nil, db.Put("TEST", []byte("p/a"), []byte("a0")))
	assert.Equal(t, nil, db.Put("TEST", []byte("p/b"), []byte("b0")))
	assert.Equal(t, nil, db.Put("TEST", []byte("p/c"), []byte("c0")))

	tx, err := db.Begin()
	assert.Equal(t, nil, err)

	assert.Equal(t, nil, tx.Put("TEST", []byte("p/a"), []byte("a1")))
	assert.Equal(t, nil, tx.Delete("TEST", []byte("p/b")))
	assert.Equal(t, nil, tx.Put("TEST", []byte("p/d"), []byte("d1")))

	vals, err := tx.GetAll("TEST", []byte("p/"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(vals))
	assert.Contains(t, vals, []byte("a1"))
	assert.NotContains(t, vals, []byte("a0"))
	assert.NotContains(t, vals, []byte("b0"))
	assert.Contains(t, vals, []byte("c0"))
	assert.Contains(t, vals, []byte("d1"))

	// the store stays untouched until commit
	vals, err = db.GetAll("TEST", []byte("p/"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(vals))
	assert.Contains(t, vals, []byte("b0"))

	assert.Equal(t, nil, tx.Commit())

	vals, err = db.GetAll("TEST", []byte("p/"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(vals))
	assert.Contains(t, vals, []byte("a1"))
	assert.NotContains(t, vals, []byte("b0"))
	assert.Contains(t, vals, []byte("d1"))
}
