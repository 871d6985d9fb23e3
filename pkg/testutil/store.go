package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/octohelm/queryfield/pkg/kv"
	_ "github.com/octohelm/queryfield/pkg/kv/pebble"
	. "github.com/octohelm/x/testing"
)

func TempDir(t testing.TB) string {
	dir, err := os.MkdirTemp("", "queryfield")
	Expect(t, err, Be[error](nil))
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return dir
}

// NewStore opens a pebble store under a temp dir, or in memory when inMemory.
func NewStore(t testing.TB, inMemory bool) kv.Store {
	t.Helper()

	path := kv.InMemory
	if !inMemory {
		path = TempDir(t)
	}

	s, err := kv.NewStore("pebble", kv.Options{
		Path: path,
	})
	Expect(t, err, Be[error](nil))
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}
