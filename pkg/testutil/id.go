package testutil

import (
	"net"
	"sync/atomic"
	"testing"

	"github.com/octohelm/queryfield/pkg/id"
	. "github.com/octohelm/x/testing"
)

func NewIDGen(t testing.TB) id.Gen {
	t.Helper()
	gen, err := id.New(id.WithIP(net.IPv4(127, 0, 0, 1)))
	Expect(t, err, Be[error](nil))
	return gen
}

// SequenceGen generates 1, 2, 3, ... for assertions on ids.
type SequenceGen struct {
	n uint64
}

func (g *SequenceGen) ID() (uint64, error) {
	return atomic.AddUint64(&g.n, 1), nil
}
