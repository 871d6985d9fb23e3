package resolver_test

import (
	"sync"
	"testing"

	"github.com/octohelm/queryfield/pkg/dberr"
	"github.com/octohelm/queryfield/pkg/resolver"
	"github.com/octohelm/queryfield/pkg/schema"
	. "github.com/octohelm/x/testing"
)

type column struct {
	Name       string
	Descending bool
}

func columnsOf(d schema.IndexDescriptor) []column {
	cols := make([]column, 0)
	for _, c := range d.Columns() {
		cols = append(cols, column{Name: c.PropertyName(), Descending: c.Descending})
	}
	return cols
}

func TestResolve(t *testing.T) {
	t.Run("Given indexed field and ordered group", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "a", Indexed: true, Descending: true},
			{SourceName: "b", OrderedGroups: []schema.GroupEntry{{GroupName: "GX", Order: 0}}},
			{SourceName: "c", OrderedGroups: []schema.GroupEntry{{GroupName: "GX", Order: 1, Descending: true}}},
		})
		Expect(t, err, Be[error](nil))

		t.Run("single field index of a is descending", func(t *testing.T) {
			Expect(t, len(set.SingleFieldIndexes()), Be(1))

			a, ok := set.SingleFieldIndex("a")
			Expect(t, ok, Be(true))
			Expect(t, a.Descending(), Be(true))
			Expect(t, a.Field().SourceName, Be("a"))
		})

		t.Run("group GX is (b, c desc)", func(t *testing.T) {
			Expect(t, len(set.GroupIndexes()), Be(1))

			gx, ok := set.GroupIndex("GX")
			Expect(t, ok, Be(true))
			Expect(t, columnsOf(gx), Equal([]column{{Name: "b"}, {Name: "c", Descending: true}}))
		})

		t.Run("b and c have no single field index", func(t *testing.T) {
			_, ok := set.SingleFieldIndex("b")
			Expect(t, ok, Be(false))
			_, ok = set.SingleFieldIndex("c")
			Expect(t, ok, Be(false))
		})

		t.Run("all lists singles before groups", func(t *testing.T) {
			all := set.All()
			Expect(t, len(all), Be(2))
			Expect(t, all[0].Kind(), Be(schema.SingleFieldIndexKind))
			Expect(t, all[1].Kind(), Be(schema.GroupIndexKind))
		})
	})

	t.Run("explicit orders win over declaration order", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "second", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 1}}},
			{SourceName: "first", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0}}},
		})
		Expect(t, err, Be[error](nil))

		g, _ := set.GroupIndex("G")
		Expect(t, schema.PropertyNames(g), Equal([]string{"first", "second"}))
	})

	t.Run("plain group names take declaration order", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "x", GroupNames: []string{"G"}},
			{SourceName: "y", GroupNames: []string{"G"}},
			{SourceName: "z", GroupNames: []string{"G"}},
		})
		Expect(t, err, Be[error](nil))

		g, _ := set.GroupIndex("G")
		Expect(t, columnsOf(g), Equal([]column{{Name: "x"}, {Name: "y"}, {Name: "z"}}))
	})

	t.Run("synthetic orders fill slots left by explicit ones", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "plain1", GroupNames: []string{"G"}},
			{SourceName: "explicit0", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0, Descending: true}}},
			{SourceName: "plain2", GroupNames: []string{"G"}},
			{SourceName: "explicit2", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 2}}},
		})
		Expect(t, err, Be[error](nil))

		g, _ := set.GroupIndex("G")
		Expect(t, columnsOf(g), Equal([]column{
			{Name: "explicit0", Descending: true},
			{Name: "plain1"},
			{Name: "explicit2"},
			{Name: "plain2"},
		}))
	})

	t.Run("a field in both forms of the same group is one member with the explicit position", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "a", GroupNames: []string{"G"}},
			{
				SourceName:    "b",
				GroupNames:    []string{"G", "G"},
				OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0, Descending: true}},
			},
		})
		Expect(t, err, Be[error](nil))

		g, _ := set.GroupIndex("G")
		Expect(t, columnsOf(g), Equal([]column{{Name: "b", Descending: true}, {Name: "a"}}))
	})

	t.Run("indexed group member gets both descriptors", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "a", Indexed: true, GroupNames: []string{"G1", "G2"}},
			{SourceName: "b", GroupNames: []string{"G1"}},
		})
		Expect(t, err, Be[error](nil))

		_, ok := set.SingleFieldIndex("a")
		Expect(t, ok, Be(true))

		g1, _ := set.GroupIndex("G1")
		Expect(t, schema.PropertyNames(g1), Equal([]string{"a", "b"}))
		g2, _ := set.GroupIndex("G2")
		Expect(t, schema.PropertyNames(g2), Equal([]string{"a"}))
	})

	t.Run("groups are ordered by name", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "a", GroupNames: []string{"zeta"}},
			{SourceName: "b", GroupNames: []string{"alpha"}},
		})
		Expect(t, err, Be[error](nil))

		groups := set.GroupIndexes()
		Expect(t, groups[0].Name(), Be("alpha"))
		Expect(t, groups[1].Name(), Be("zeta"))
	})

	t.Run("property name rename is the index name", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "CreatedAt", PropertyName: "created_at", Indexed: true},
		})
		Expect(t, err, Be[error](nil))

		_, ok := set.SingleFieldIndex("CreatedAt")
		Expect(t, ok, Be(false))

		idx, ok := set.SingleFieldIndex("created_at")
		Expect(t, ok, Be(true))
		Expect(t, idx.Field().SourceName, Be("CreatedAt"))

		f, ok := set.Field("created_at")
		Expect(t, ok, Be(true))
		Expect(t, f, Equal(idx.Field()))
	})

	t.Run("input is not shared with the result", func(t *testing.T) {
		fields := []schema.FieldDescriptor{
			{SourceName: "a", Indexed: true, GroupNames: []string{"G"}},
		}
		set, err := resolver.Resolve("Example", fields)
		Expect(t, err, Be[error](nil))

		fields[0].SourceName = "changed"
		fields[0].GroupNames[0] = "changed"

		Expect(t, set.Fields()[0].SourceName, Be("a"))
		Expect(t, set.Fields()[0].GroupNames, Equal([]string{"G"}))
	})

	t.Run("result is not changed through its accessors", func(t *testing.T) {
		set, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "a", Indexed: true, GroupNames: []string{"G"}},
			{SourceName: "b", GroupNames: []string{"G"}},
		})
		Expect(t, err, Be[error](nil))
		before := set.Fingerprint()

		set.Fields()[0].PropertyName = "changed"
		set.Fields()[0].GroupNames[0] = "changed"
		f, _ := set.Field("a")
		f.PropertyName = "changed"

		g, _ := set.GroupIndex("G")
		cols := g.Columns()
		cols[0], cols[1] = cols[1], cols[0]
		cols[0].Descending = true

		set.SingleFieldIndexes()[0] = nil
		set.GroupIndexes()[0] = nil

		Expect(t, set.Fingerprint(), Be(before))
		Expect(t, schema.PropertyNames(g), Equal([]string{"a", "b"}))

		a, ok := set.SingleFieldIndex("a")
		Expect(t, ok, Be(true))
		Expect(t, a.Name(), Be("a"))
		Expect(t, set.Fields()[0].GroupNames, Equal([]string{"G"}))
		Expect(t, set.SingleFieldIndexes()[0] == a, Be(true))

		again, _ := set.Field("a")
		Expect(t, again.PropertyName, Be(""))
	})
}

func TestResolveErrors(t *testing.T) {
	t.Run("duplicate explicit order", func(t *testing.T) {
		_, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "fieldA", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0}}},
			{SourceName: "fieldB", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0}}},
		})

		e, ok := dberr.IsDuplicateOrderError(err)
		Expect(t, ok, Be(true))
		Expect(t, *e, Equal(dberr.DuplicateOrderError{Group: "G", Order: 0, FieldA: "fieldA", FieldB: "fieldB"}))
	})

	t.Run("duplicate property name", func(t *testing.T) {
		_, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "Name"},
			{SourceName: "Title", PropertyName: "Name"},
		})

		e, ok := dberr.IsDuplicatePropertyNameError(err)
		Expect(t, ok, Be(true))
		Expect(t, e.Name, Be("Name"))
	})

	t.Run("empty group name", func(t *testing.T) {
		for _, f := range []schema.FieldDescriptor{
			{SourceName: "a", GroupNames: []string{""}},
			{SourceName: "a", OrderedGroups: []schema.GroupEntry{{GroupName: " ", Order: 0}}},
		} {
			_, err := resolver.Resolve("Example", []schema.FieldDescriptor{f})

			e, ok := dberr.IsEmptyGroupNameError(err)
			Expect(t, ok, Be(true))
			Expect(t, e.Field, Be("a"))
		}
	})

	t.Run("malformed declarations", func(t *testing.T) {
		cases := map[string]schema.FieldDescriptor{
			"negative order": {SourceName: "a", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: -1}}},
			"missing source": {PropertyName: "a"},
			"twice in ordered group": {SourceName: "a", OrderedGroups: []schema.GroupEntry{
				{GroupName: "G", Order: 0},
				{GroupName: "G", Order: 1},
			}},
		}

		for name, f := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := resolver.Resolve("Example", []schema.FieldDescriptor{f})
				_, ok := dberr.IsMalformedFieldDeclarationError(err)
				Expect(t, ok, Be(true))
			})
		}
	})

	t.Run("field errors surface before order conflicts", func(t *testing.T) {
		_, err := resolver.Resolve("Example", []schema.FieldDescriptor{
			{SourceName: "a", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0}}},
			{SourceName: "b", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0}}},
			{SourceName: "c", OrderedGroups: []schema.GroupEntry{{GroupName: "H", Order: -2}}},
		})

		_, ok := dberr.IsMalformedFieldDeclarationError(err)
		Expect(t, ok, Be(true))
	})
}

func TestResolveDeterminism(t *testing.T) {
	fields := []schema.FieldDescriptor{
		{SourceName: "a", Indexed: true},
		{SourceName: "b", GroupNames: []string{"G", "H"}},
		{SourceName: "c", OrderedGroups: []schema.GroupEntry{{GroupName: "G", Order: 0, Descending: true}}},
		{SourceName: "d", GroupNames: []string{"H"}, Indexed: true, Descending: true},
	}

	first, err := resolver.Resolve("Example", fields)
	Expect(t, err, Be[error](nil))

	sets := make([]*schema.DescriptorSet, 16)
	wg := &sync.WaitGroup{}

	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sets[i], _ = resolver.Resolve("Example", fields)
		}(i)
	}
	wg.Wait()

	for _, s := range sets {
		Expect(t, s.Equal(first), Be(true))
		Expect(t, s.Fingerprint(), Be(first.Fingerprint()))
		Expect(t, s.String(), Be(first.String()))
	}
}
