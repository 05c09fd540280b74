package boltdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test basic db operations.
func TestDBOps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	// open the database
	db := New(path)
	defer os.Remove(path)

	// create bucket
	err := db.NewBucket("TEST")
	assert.Equal(t, nil, err)

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

	// test manual transaction
	tx, err := db.Begin()
	assert.Equal(t, nil, err)
	err = tx.Put("TEST", []byte("txKey"), []byte("txValue"))
	assert.Equal(t, nil, err)
	err = tx.Commit()
	assert.Equal(t, nil, err)

	val, err = db.Get("TEST", []byte("txKey"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte("txValue"), val)

	assert.Equal(t, nil, db.Close())
}
