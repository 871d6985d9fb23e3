package registry_test

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/octohelm/queryfield/pkg/dberr"
	"github.com/octohelm/queryfield/pkg/queryfield"
	"github.com/octohelm/queryfield/pkg/registry"
	"github.com/octohelm/queryfield/pkg/schema"
	. "github.com/octohelm/x/testing"
)

type User struct {
	ID    uint64 `query:"id,index"`
	Name  string `query:"name,groups=name_email"`
	Email string `query:"email,group=name_email:0:desc"`
}

func (User) TableName() string {
	return "t_user"
}

type Broken struct {
	A string `query:"x,group=g:0"`
	B string `query:"y,group=g:0"`
}

type countingProvider struct {
	queryfield.Provider
	calls int32
}

func (p *countingProvider) Fields(t reflect.Type) ([]schema.FieldDescriptor, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.Provider.Fields(t)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves model once", func(t *testing.T) {
		p := &countingProvider{Provider: queryfield.NewStructTagProvider()}
		r := registry.New(registry.WithProvider(p))

		set, err := r.DescriptorSet(ctx, &User{})
		Expect(t, err, Be[error](nil))
		Expect(t, set.Type(), Be("t_user"))

		g, ok := set.GroupIndex("name_email")
		Expect(t, ok, Be(true))
		Expect(t, schema.PropertyNames(g), Equal([]string{"email", "name"}))

		again, err := r.DescriptorSet(ctx, []User{})
		Expect(t, err, Be[error](nil))
		Expect(t, again == set, Be(true))
		Expect(t, atomic.LoadInt32(&p.calls), Be(int32(1)))

		cached, ok := r.Lookup(reflect.TypeOf(User{}))
		Expect(t, ok, Be(true))
		Expect(t, cached == set, Be(true))
	})

	t.Run("callers cannot change the stored set", func(t *testing.T) {
		r := registry.New()

		set, err := r.DescriptorSet(ctx, &User{})
		Expect(t, err, Be[error](nil))

		g, _ := set.GroupIndex("name_email")
		cols := g.Columns()
		cols[0], cols[1] = cols[1], cols[0]
		set.Fields()[0].PropertyName = "changed"

		again, err := r.DescriptorSet(ctx, &User{})
		Expect(t, err, Be[error](nil))

		g, _ = again.GroupIndex("name_email")
		Expect(t, schema.PropertyNames(g), Equal([]string{"email", "name"}))

		id, ok := again.SingleFieldIndex("id")
		Expect(t, ok, Be(true))
		Expect(t, id.Name(), Be("id"))
		_, ok = again.SingleFieldIndex("changed")
		Expect(t, ok, Be(false))
	})

	t.Run("concurrent first requests converge to one stored set", func(t *testing.T) {
		r := registry.New()

		sets := make([]*schema.DescriptorSet, 32)
		wg := &sync.WaitGroup{}
		for i := range sets {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sets[i], _ = r.DescriptorSet(ctx, &User{})
			}(i)
		}
		wg.Wait()

		stored, _ := r.Lookup(reflect.TypeOf(User{}))
		for _, s := range sets {
			Expect(t, s == stored, Be(true))
		}
	})

	t.Run("failures are not cached", func(t *testing.T) {
		p := &countingProvider{Provider: queryfield.NewStructTagProvider()}
		r := registry.New(registry.WithProvider(p))

		for i := 0; i < 2; i++ {
			_, err := r.DescriptorSet(ctx, &Broken{})
			e, ok := dberr.IsDuplicateOrderError(err)
			Expect(t, ok, Be(true))
			Expect(t, *e, Equal(dberr.DuplicateOrderError{Group: "g", Order: 0, FieldA: "A", FieldB: "B"}))
		}

		Expect(t, atomic.LoadInt32(&p.calls), Be(int32(2)))
		_, ok := r.Lookup(reflect.TypeOf(Broken{}))
		Expect(t, ok, Be(false))
	})

	t.Run("registries are isolated", func(t *testing.T) {
		r1 := registry.New()
		r2 := registry.New()

		s1, err := r1.DescriptorSet(ctx, &User{})
		Expect(t, err, Be[error](nil))

		_, ok := r2.Lookup(reflect.TypeOf(User{}))
		Expect(t, ok, Be(false))

		s2, err := r2.DescriptorSet(ctx, &User{})
		Expect(t, err, Be[error](nil))
		Expect(t, s1 == s2, Be(false))
		Expect(t, s1.Equal(s2), Be(true))
	})

	t.Run("declared types", func(t *testing.T) {
		r := registry.New()

		fields := []schema.FieldDescriptor{
			{SourceName: "a", Indexed: true},
		}

		s1, err := r.Declare(ctx, "Doc", fields)
		Expect(t, err, Be[error](nil))

		s2, err := r.Declare(ctx, "Doc", []schema.FieldDescriptor{{SourceName: "a", Indexed: true}})
		Expect(t, err, Be[error](nil))
		Expect(t, s1 == s2, Be(true))

		t.Run("changed declarations are another type", func(t *testing.T) {
			s3, err := r.Declare(ctx, "Doc", []schema.FieldDescriptor{{SourceName: "a", Indexed: true, Descending: true}})
			Expect(t, err, Be[error](nil))
			Expect(t, s3 == s1, Be(false))
			Expect(t, s3.Equal(s1), Be(false))

			count := 0
			r.Range(func(key any, set *schema.DescriptorSet) bool {
				count++
				return true
			})
			Expect(t, count, Be(2))
		})
	})

	t.Run("logs resolution", func(t *testing.T) {
		lines := make([]string, 0)
		mu := &sync.Mutex{}

		l := funcr.New(func(prefix, args string) {
			mu.Lock()
			defer mu.Unlock()
			lines = append(lines, args)
		}, funcr.Options{Verbosity: 1})

		r := registry.New()
		_, _ = r.DescriptorSet(logr.NewContext(ctx, l), &User{})
		_, _ = r.DescriptorSet(logr.NewContext(ctx, l), &Broken{})

		Expect(t, len(lines), Be(2))
		Expect(t, strings.Contains(lines[0], `"msg"="resolved"`), Be(true))
		Expect(t, strings.Contains(lines[1], `"msg"="resolve"`), Be(true))
	})

	t.Run("rejects non struct models", func(t *testing.T) {
		_, err := registry.New().DescriptorSet(ctx, 1)
		Expect(t, err, Not(Be[error](nil)))
	})
}
