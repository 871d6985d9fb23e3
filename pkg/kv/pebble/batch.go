package pebble

import (
	"github.com/cockroachdb/pebble"
	"github.com/octohelm/queryfield/pkg/kv"
	"github.com/pkg/errors"
)

var _ kv.Session = (*BatchSession)(nil)

type BatchSession struct {
	DB           *pebble.DB
	Batch        *pebble.Batch
	closed       bool
	maxBatchSize int
}

func (s *BatchSession) Commit(opts ...kv.CommitOptionFunc) error {
	if s.closed {
		return kv.ErrSessionClosed
	}

	w := pebble.Sync

	opt := &kv.CommitOption{}
	for i := range opts {
		opts[i](opt)
	}

	if opt.NoSync {
		w = pebble.NoSync
	}

	if err := s.Batch.Commit(w); err != nil {
		return err
	}

	return s.Close()
}

// Close discards uncommitted writes.
func (s *BatchSession) Close() error {
	if s.closed {
		return kv.ErrSessionClosed
	}
	s.closed = true
	return s.Batch.Close()
}

// Get returns a value associated with the given key. If not found, returns ErrKeyNotFound.
func (s *BatchSession) Get(k []byte) ([]byte, error) {
	return get(s.Batch, k)
}

// Exists returns whether a key exists and is visible by the current session.
func (s *BatchSession) Exists(k []byte) (bool, error) {
	return exists(s.Batch, k)
}

func (s *BatchSession) ensureBatchSize() error {
	if int(s.Batch.Len()) < s.maxBatchSize {
		return nil
	}

	// this is an intermediary commit that might be rolled back by the user
	// so we don't need durability here.
	if err := s.Batch.Commit(pebble.NoSync); err != nil {
		return err
	}

	s.Batch.Reset()

	return nil
}

// Put stores a key value pair. If it already exists, it overrides it.
func (s *BatchSession) Put(k, v []byte) error {
	if len(k) == 0 {
		return errors.New("cannot store empty key")
	}

	if len(v) == 0 {
		return errors.New("cannot store empty value")
	}

	if err := s.Batch.Set(k, v, nil); err != nil {
		return err
	}

	return s.ensureBatchSize()
}

// Delete a record by key. If the key doesn't exist, it doesn't do anything.
func (s *BatchSession) Delete(k []byte) error {
	if err := s.Batch.Delete(k, nil); err != nil {
		return err
	}

	return s.ensureBatchSize()
}

func (s *BatchSession) Iterator(start []byte, end []byte) kv.Iterator {
	return s.Batch.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
}
