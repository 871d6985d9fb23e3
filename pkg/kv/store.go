package kv

import "context"

type Store interface {
	// NewSnapshotSession opens a read-only session on a point-in-time view.
	NewSnapshotSession() Session
	// NewBatchSession opens a read-write session; writes apply on Commit.
	NewBatchSession() Session
	Shutdown(ctx context.Context) error
}
