package db

// Getter wraps the read operations of the database.
type Getter interface {
	Get(bucket string, key []byte) ([]byte, error)
	GetAll(bucket string, keyPrefix []byte) ([][]byte, error)
}

// Putter wraps the write operations of the database.
type Putter interface {
	Put(bucket string, key, value []byte) error
	Delete(bucket string, key []byte) error
}

// Tx is a manually managed database transaction, writes become
// visible only after Commit.
type Tx interface {
	Getter
	Putter
	Rollback() error
	Commit() error
}

// Database is the generic operation interface which every
// database backend should implement.
type Database interface {
	Getter
	Putter
	NewBucket(name string) error
	Begin() (Tx, error)
	Close() error
}
