package kv

import (
	"sort"

	"github.com/pkg/errors"
)

type Options struct {
	// Path is the data directory; ":memory:" keeps everything in memory.
	Path string
	// MaxBatchSize bounds a batch before it is flushed without sync.
	MaxBatchSize int
}

const InMemory = ":memory:"

type StoreEngine interface {
	New(opt Options) (Store, error)
}

var engines = map[string]StoreEngine{}

func RegisterEngine(engine string, store StoreEngine) {
	engines[engine] = store
}

func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewStore(engine string, opt Options) (Store, error) {
	if e, ok := engines[engine]; ok {
		return e.New(opt)
	}
	return nil, errors.Errorf("unknown engine %s, available: %v", engine, Engines())
}
