// Package catalog remembers which index descriptors have been built per table,
// and tells an index construction engine what to create, keep, rebuild or drop
// when a table resolves to a new descriptor set.
package catalog

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/octohelm/queryfield/pkg/dberr"
	"github.com/octohelm/queryfield/pkg/id"
	"github.com/octohelm/queryfield/pkg/kv"
	"github.com/octohelm/queryfield/pkg/schema"
)

var tablePrefix = []byte("catalog/table/")

func tableKey(name string) []byte {
	return append(append([]byte(nil), tablePrefix...), name...)
}

func New(store kv.Store, gen id.Gen) *Catalog {
	return &Catalog{
		store: store,
		gen:   gen,
	}
}

type Catalog struct {
	store kv.Store
	gen   id.Gen
	// serializes read-diff-write of Sync and Forget
	mu sync.Mutex
}

// Sync records set as the built state of its table and returns the plan from the
// previously recorded state. Nothing is written when the stored record already matches set.
func (c *Catalog) Sync(ctx context.Context, set *schema.DescriptorSet) (*Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := logr.FromContextOrDiscard(ctx).WithValues("table", set.Type())

	s := c.store.NewBatchSession()
	committed := false
	defer func() {
		if !committed {
			_ = s.Close()
		}
	}()

	prev, err := c.load(s, set.Type())
	if err != nil {
		if _, ok := dberr.IsNotFoundError(err); !ok {
			return nil, err
		}
		prev = nil
	}

	plan, next, err := c.diff(prev, set)
	if err != nil {
		return nil, err
	}

	// a reordered declaration keeps every index but changes the record
	if prev != nil && plan.IsNoop() && prev.Fingerprint == next.Fingerprint {
		l.V(1).Info("up to date")
		return plan, nil
	}

	enc, err := encodeRecord(next)
	if err != nil {
		return nil, err
	}

	if err := s.Put(tableKey(next.Name), enc); err != nil {
		return nil, errors.Wrapf(err, "write table %s", next.Name)
	}

	if err := s.Commit(); err != nil {
		return nil, errors.Wrapf(err, "commit table %s", next.Name)
	}
	committed = true

	l.Info("synced",
		"created", len(plan.Created),
		"changed", len(plan.Changed),
		"unchanged", len(plan.Unchanged),
		"dropped", len(plan.Dropped),
	)

	return plan, nil
}

// Plan computes what Sync would do, without writing.
func (c *Catalog) Plan(ctx context.Context, set *schema.DescriptorSet) (*Plan, error) {
	s := c.store.NewSnapshotSession()
	defer s.Close()

	prev, err := c.load(s, set.Type())
	if err != nil {
		if _, ok := dberr.IsNotFoundError(err); !ok {
			return nil, err
		}
		prev = nil
	}

	plan, _, err := c.diff(prev, set)
	return plan, err
}

func (c *Catalog) Load(ctx context.Context, table string) (*TableRecord, error) {
	s := c.store.NewSnapshotSession()
	defer s.Close()

	return c.load(s, table)
}

func (c *Catalog) List(ctx context.Context) ([]TableRecord, error) {
	s := c.store.NewSnapshotSession()
	defer s.Close()

	tables := make([]TableRecord, 0)

	err := kv.ScanPrefix(s, tablePrefix, func(k, v []byte) error {
		r := TableRecord{}
		if err := decodeRecord(v, &r); err != nil {
			return errors.Wrapf(err, "table %s", k[len(tablePrefix):])
		}
		tables = append(tables, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tables, nil
}

// Forget removes the record of table, e.g. after its indexes were dropped.
func (c *Catalog) Forget(ctx context.Context, table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.store.NewBatchSession()
	committed := false
	defer func() {
		if !committed {
			_ = s.Close()
		}
	}()

	ok, err := s.Exists(tableKey(table))
	if err != nil {
		return err
	}
	if !ok {
		return &dberr.NotFoundError{Name: table}
	}

	if err := s.Delete(tableKey(table)); err != nil {
		return err
	}

	if err := s.Commit(); err != nil {
		return errors.Wrapf(err, "commit forget %s", table)
	}
	committed = true

	logr.FromContextOrDiscard(ctx).WithValues("table", table).Info("forgotten")
	return nil
}

func (c *Catalog) load(s kv.Session, table string) (*TableRecord, error) {
	data, err := s.Get(tableKey(table))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, &dberr.NotFoundError{Name: table}
		}
		return nil, err
	}

	r := &TableRecord{}
	if err := decodeRecord(data, r); err != nil {
		return nil, errors.Wrapf(err, "table %s", table)
	}
	return r, nil
}

func (c *Catalog) newID() (id.SFID, error) {
	v, err := c.gen.ID()
	if err != nil {
		return 0, errors.Wrap(err, "generate id")
	}
	return id.SFID(v), nil
}
