package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/octohelm/queryfield/internal/catalog"
	"github.com/octohelm/queryfield/pkg/id"
	"github.com/octohelm/queryfield/pkg/kv"
	_ "github.com/octohelm/queryfield/pkg/kv/pebble"
	"github.com/octohelm/queryfield/pkg/queryfield"
	"github.com/octohelm/queryfield/pkg/registry"
	"github.com/octohelm/queryfield/pkg/schema"
	"github.com/spf13/cobra"
)

// app holds what commands share. The store is opened on first use only.
type app struct {
	configFile string

	config   *Config
	registry *registry.Registry
	store    kv.Store
	flush    func()
}

func (a *app) setup(cmd *cobra.Command) error {
	c, err := LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	a.config = c

	l, flush, err := newLogger(c.Log)
	if err != nil {
		return err
	}
	a.flush = flush

	cmd.SetContext(logr.NewContext(cmd.Context(), l))
	a.registry = registry.New()
	return nil
}

func (a *app) teardown(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Shutdown(ctx); err != nil {
			logr.FromContextOrDiscard(ctx).Error(err, "shutdown store")
		}
		a.store = nil
	}
	if a.flush != nil {
		a.flush()
	}
}

func (a *app) catalog() (*catalog.Catalog, error) {
	if a.store == nil {
		s, err := kv.NewStore(a.config.Store.Engine, kv.Options{Path: a.config.Store.Path})
		if err != nil {
			return nil, errors.Wrap(err, "open catalog store")
		}
		a.store = s
	}

	gen, err := id.New()
	if err != nil {
		return nil, errors.Wrap(err, "create id generator")
	}

	return catalog.New(a.store, gen), nil
}

type resolved struct {
	Name string
	Set  *schema.DescriptorSet
	Err  error
}

// resolveManifest resolves every type of the manifest, in manifest order.
// Failures are reported per type so one bad type does not hide the others.
func (a *app) resolveManifest(ctx context.Context, filename string) ([]resolved, error) {
	m, err := queryfield.LoadManifest(filename)
	if err != nil {
		return nil, err
	}

	results := make([]resolved, 0, len(m.Types))
	for _, t := range m.Types {
		set, err := a.registry.Declare(ctx, t.Name, t.Fields)
		results = append(results, resolved{Name: t.Name, Set: set, Err: err})
	}
	return results, nil
}

func failed(results []resolved) error {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	if n > 0 {
		return errors.Newf("%d of %d types failed to resolve", n, len(results))
	}
	return nil
}
