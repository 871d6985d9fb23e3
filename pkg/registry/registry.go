// Package registry caches resolved index descriptors per type.
package registry

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/octohelm/queryfield/pkg/queryfield"
	"github.com/octohelm/queryfield/pkg/resolver"
	"github.com/octohelm/queryfield/pkg/schema"
)

// DeclaredType identifies a type declared without Go struct, e.g. from a manifest.
// A changed declaration has another Digest, so it is cached as another type.
type DeclaredType struct {
	Name   string
	Digest uint64
}

type OptionFunc = func(r *Registry)

func WithProvider(p queryfield.Provider) OptionFunc {
	return func(r *Registry) {
		r.provider = p
	}
}

// New creates an empty registry. Registries share nothing.
func New(optFns ...OptionFunc) *Registry {
	r := &Registry{}
	for i := range optFns {
		optFns[i](r)
	}
	if r.provider == nil {
		r.provider = queryfield.NewStructTagProvider()
	}
	return r
}

// Registry maps types to their resolved DescriptorSet.
//
// An entry is written once, with LoadOrStore, and never replaced, so readers see
// either no entry or a complete set. Concurrent first requests for one type may
// each resolve; the first stored set wins and is returned to all of them.
// Failed resolutions are not stored.
type Registry struct {
	provider queryfield.Provider
	sets     sync.Map // map[reflect.Type | DeclaredType]*schema.DescriptorSet
}

// DescriptorSet resolves the descriptors of a struct model, e.g. &User{}.
func (r *Registry) DescriptorSet(ctx context.Context, model any) (*schema.DescriptorSet, error) {
	t, err := schema.TypeOfModel(model)
	if err != nil {
		return nil, err
	}

	if stored, ok := r.sets.Load(t); ok {
		return stored.(*schema.DescriptorSet), nil
	}

	return r.resolve(ctx, t, func() (string, []schema.FieldDescriptor, error) {
		fields, err := r.provider.Fields(t)
		if err != nil {
			return "", nil, err
		}
		name := schema.TableNameOf(t)
		if name == "" {
			name = schema.TypeName(t)
		}
		return name, fields, nil
	})
}

// Declare resolves the descriptors of a type declared by name and field list.
func (r *Registry) Declare(ctx context.Context, name string, fields []schema.FieldDescriptor) (*schema.DescriptorSet, error) {
	key := DeclaredType{Name: name, Digest: digest(fields)}

	if stored, ok := r.sets.Load(key); ok {
		return stored.(*schema.DescriptorSet), nil
	}

	return r.resolve(ctx, key, func() (string, []schema.FieldDescriptor, error) {
		return name, fields, nil
	})
}

// Lookup returns the cached set of key, a reflect.Type or DeclaredType.
func (r *Registry) Lookup(key any) (*schema.DescriptorSet, bool) {
	stored, ok := r.sets.Load(key)
	if !ok {
		return nil, false
	}
	return stored.(*schema.DescriptorSet), true
}

// Range calls fn for every resolved type until fn returns false.
func (r *Registry) Range(fn func(key any, set *schema.DescriptorSet) bool) {
	r.sets.Range(func(key, value any) bool {
		return fn(key, value.(*schema.DescriptorSet))
	})
}

func (r *Registry) resolve(ctx context.Context, key any, load func() (string, []schema.FieldDescriptor, error)) (*schema.DescriptorSet, error) {
	l := logr.FromContextOrDiscard(ctx).WithValues("type", fmt.Sprint(key))

	name, fields, err := load()
	if err != nil {
		l.Error(err, "read declarations")
		return nil, err
	}

	set, err := resolver.Resolve(name, fields)
	if err != nil {
		l.Error(err, "resolve")
		return nil, err
	}

	stored, loaded := r.sets.LoadOrStore(key, set)
	if loaded {
		l.V(1).Info("resolved concurrently, keep stored")
	} else {
		l.V(1).Info("resolved", "indexes", len(set.All()))
	}

	return stored.(*schema.DescriptorSet), nil
}

func digest(fields []schema.FieldDescriptor) uint64 {
	h := xxhash.New()

	str := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	flag := func(b bool) {
		if b {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}

	for i := range fields {
		f := &fields[i]
		str(f.SourceName)
		str(f.PropertyName)
		flag(f.Indexed)
		flag(f.Descending)
		for _, g := range f.GroupNames {
			str(g)
		}
		_, _ = h.Write([]byte{0xff})
		for _, e := range f.OrderedGroups {
			str(e.GroupName)
			str(strconv.Itoa(e.Order))
			flag(e.Descending)
		}
		_, _ = h.Write([]byte{0xfe})
	}

	return h.Sum64()
}

// MustDescriptorSet is DescriptorSet for models known to be valid, e.g. at init.
func (r *Registry) MustDescriptorSet(ctx context.Context, model any) *schema.DescriptorSet {
	set, err := r.DescriptorSet(ctx, model)
	if err != nil {
		panic(errors.Wrap(err, "must descriptor set"))
	}
	return set
}
