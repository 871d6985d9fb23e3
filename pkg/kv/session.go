package kv

type CommitOptionFunc = func(opt *CommitOption)

var NoSync = func(opt *CommitOption) {
	opt.NoSync = true
}

type CommitOption struct {
	NoSync bool
}

type Session interface {
	// Put stores a key-value pair. If it already exists, it overrides it.
	Put(k, v []byte) error
	// Get returns a value associated with the given key. If not found, returns ErrKeyNotFound.
	Get(k []byte) ([]byte, error)
	// Exists returns whether a key exists and is visible by the current session.
	Exists(k []byte) (bool, error)
	// Delete a record by key. Deleting a missing key is not an error.
	Delete(k []byte) error
	// Iterator walks keys in [start, end).
	Iterator(start []byte, end []byte) Iterator
	// Commit apply changes of batch and closes the session.
	Commit(opts ...CommitOptionFunc) error

	Close() error
}

type Iterator interface {
	First() bool
	Next() bool

	Last() bool // reverse
	Prev() bool

	Valid() bool
	Error() error

	Key() []byte
	Value() []byte
	Close() error
}
