package memdb

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blockrockettech/stellar-playground/db"
)

type memdb struct {
	db map[string][]byte
	sync.RWMutex
}

// New creates a memory-based key-value store
// which is mainly used for testing.
func New() db.Database {
	return &memdb{db: make(map[string][]byte)}
}

func (m *memdb) NewBucket(name string) error {
	return nil
}

func bucketKey(bucket string, key []byte) string {
	return bucket + "/" + string(key)
}

// Put writes the key/value pair to database.
func (m *memdb) Put(bucket string, key, value []byte) error {
	m.Lock()
	defer m.Unlock()

	if m.db == nil {
		return fmt.Errorf("memdb is closed")
	}

	m.db[bucketKey(bucket, key)] = value
	return nil
}

// Delete deletes the key from the database.
func (m *memdb) Delete(bucket string, key []byte) error {
	m.Lock()
	defer m.Unlock()

	if m.db == nil {
		return fmt.Errorf("memdb is closed")
	}

	delete(m.db, bucketKey(bucket, key))
	return nil
}

// Get retrieves the value of the key from database, a missing
// key yields a nil value and no error.
func (m *memdb) Get(bucket string, key []byte) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()

	if m.db == nil {
		return nil, fmt.Errorf("memdb is closed")
	}

	if val, ok := m.db[bucketKey(bucket, key)]; ok {
		return val, nil
	}
	return nil, nil
}

// GetAll retrieves the values of the keys with prefix from database.
func (m *memdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	m.RLock()
	defer m.RUnlock()

	if m.db == nil {
		return nil, fmt.Errorf("memdb is closed")
	}

	var vals [][]byte
	prefix := bucketKey(bucket, keyPrefix)
	for k, v := range m.db {
		if strings.HasPrefix(k, prefix) {
			vals = append(vals, v)
		}
	}
	return vals, nil
}

// Close closes the underlying database.
func (m *memdb) Close() error {
	m.Lock()
	defer m.Unlock()

	m.db = nil
	return nil
}

// Begin returns a transaction which stages writes in memory and
// applies them on Commit.
func (m *memdb) Begin() (db.Tx, error) {
	mtx := &memdbTx{
		db:      m,
		staged:  make(map[string][]byte),
		deleted: make(map[string]bool),
	}
	return mtx, nil
}

// memdbTx buffers writes until committed so that a failed apply
// can be rolled back without touching the store.
type memdbTx struct {
	db      *memdb
	staged  map[string][]byte
	deleted map[string]bool
	done    bool
}

func (mtx *memdbTx) Get(bucket string, key []byte) ([]byte, error) {
	k := bucketKey(bucket, key)
	if mtx.deleted[k] {
		return nil, nil
	}
	if val, ok := mtx.staged[k]; ok {
		return val, nil
	}
	return mtx.db.Get(bucket, key)
}

func (mtx *memdbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	mtx.db.RLock()
	defer mtx.db.RUnlock()

	if mtx.db.db == nil {
		return nil, fmt.Errorf("memdb is closed")
	}

	// staged writes shadow the store, deleted keys drop out entirely
	var vals [][]byte
	prefix := bucketKey(bucket, keyPrefix)
	for k, v := range mtx.db.db {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if mtx.deleted[k] {
			continue
		}
		if staged, ok := mtx.staged[k]; ok {
			vals = append(vals, staged)
			continue
		}
		vals = append(vals, v)
	}
	for k, v := range mtx.staged {
		if strings.HasPrefix(k, prefix) {
			if _, ok := mtx.db.db[k]; !ok {
				vals = append(vals, v)
			}
		}
	}
	return vals, nil
}

func (mtx *memdbTx) Put(bucket string, key, value []byte) error {
	k := bucketKey(bucket, key)
	delete(mtx.deleted, k)
	mtx.staged[k] = value
	return nil
}

func (mtx *memdbTx) Delete(bucket string, key []byte) error {
	k := bucketKey(bucket, key)
	delete(mtx.staged, k)
	mtx.deleted[k] = true
	return nil
}

func (mtx *memdbTx) Rollback() error {
	if mtx.done {
		return fmt.Errorf("transaction already finished")
	}
	mtx.staged = nil
	mtx.deleted = nil
	mtx.done = true
	return nil
}

func (mtx *memdbTx) Commit() error {
	if mtx.done {
		return fmt.Errorf("transaction already finished")
	}
	mtx.db.Lock()
	defer mtx.db.Unlock()

	if mtx.db.db == nil {
		return fmt.Errorf("memdb is closed")
	}
	for k, v := range mtx.staged {
		mtx.db.db[k] = v
	}
	for k := range mtx.deleted {
		delete(mtx.db.db, k)
	}
	mtx.done = true
	return nil
}
