package pebble

import (
	"github.com/cockroachdb/pebble"
	"github.com/octohelm/queryfield/pkg/kv"
)

var _ kv.Session = (*SnapshotSession)(nil)

// SnapshotSession reads a point-in-time view of the store. Writes are refused.
type SnapshotSession struct {
	Snapshot *pebble.Snapshot
	closed   bool
}

func (s *SnapshotSession) Put(k, v []byte) error {
	return kv.ErrMethodNotAllowed
}

func (s *SnapshotSession) Delete(k []byte) error {
	return kv.ErrMethodNotAllowed
}

func (s *SnapshotSession) Commit(opts ...kv.CommitOptionFunc) error {
	return kv.ErrMethodNotAllowed
}

func (s *SnapshotSession) Get(k []byte) ([]byte, error) {
	return get(s.Snapshot, k)
}

func (s *SnapshotSession) Exists(k []byte) (bool, error) {
	return exists(s.Snapshot, k)
}

func (s *SnapshotSession) Iterator(start []byte, end []byte) kv.Iterator {
	return s.Snapshot.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
}

func (s *SnapshotSession) Close() error {
	if s.closed {
		return kv.ErrSessionClosed
	}
	s.closed = true
	return s.Snapshot.Close()
}
