package pebble

import (
	"context"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/go-logr/logr"
	"github.com/octohelm/queryfield/pkg/kv"
	"github.com/pkg/errors"
)

const (
	// 10MB
	defaultMaxBatchSize = 10 * 1024 * 1024
)

type store struct {
	db   *pebble.DB
	opts kv.Options
}

func NewStore(db *pebble.DB, opts kv.Options) kv.Store {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = defaultMaxBatchSize
	}
	return &store{
		db:   db,
		opts: opts,
	}
}

func (s *store) Shutdown(ctx context.Context) error {
	defer func() {
		if err := s.db.Close(); err != nil {
			logr.FromContextOrDiscard(ctx).Error(err, "Close")
		}
	}()

	// To make sure mem data write to disk
	f, err := s.db.AsyncFlush()
	if err != nil {
		return errors.Wrap(err, "AsyncFlush")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f:
		logr.FromContextOrDiscard(ctx).V(1).Info("Flushed")
		return nil
	}
}

func (s *store) NewSnapshotSession() kv.Session {
	return &SnapshotSession{
		Snapshot: s.db.NewSnapshot(),
	}
}

func (s *store) NewBatchSession() kv.Session {
	return &BatchSession{
		DB:           s.db,
		Batch:        s.db.NewIndexedBatch(),
		maxBatchSize: s.opts.MaxBatchSize,
	}
}

type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

func get(r reader, k []byte) ([]byte, error) {
	v, closer, err := r.Get(k)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), v...), nil
}

func exists(r reader, k []byte) (bool, error) {
	_, closer, err := r.Get(k)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, closer.Close()
}
