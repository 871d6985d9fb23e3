package resolver

import (
	"github.com/octohelm/queryfield/pkg/schema"
)

// member is one field's resolved position in a group.
type member struct {
	field      *schema.FieldDescriptor
	order      int
	descending bool
	explicit   bool
}

type membership struct {
	group   string
	members []member
}

// normalize merges plain group names and ordered group entries into one
// membership per group. Explicit entries are registered first so synthetic
// orders can fill the slots they leave free; a plain name repeated by an
// explicit entry of the same field is covered by the explicit one.
//
// Members point into fields. Duplicate explicit orders are kept for validate.
func normalize(fields []schema.FieldDescriptor) map[string]*membership {
	groups := map[string]*membership{}
	taken := map[string]map[int]bool{}

	groupOf := func(name string) *membership {
		g, ok := groups[name]
		if !ok {
			g = &membership{group: name}
			groups[name] = g
			taken[name] = map[int]bool{}
		}
		return g
	}

	for i := range fields {
		f := &fields[i]

		for _, e := range f.OrderedGroups {
			g := groupOf(e.GroupName)
			g.members = append(g.members, member{
				field:      f,
				order:      e.Order,
				descending: e.Descending,
				explicit:   true,
			})
			taken[e.GroupName][e.Order] = true
		}
	}

	next := map[string]int{}

	for i := range fields {
		f := &fields[i]
		seen := map[string]bool{}

		for _, name := range f.GroupNames {
			if seen[name] || hasOrderedGroup(f, name) {
				continue
			}
			seen[name] = true

			g := groupOf(name)

			order := next[name]
			for taken[name][order] {
				order++
			}
			next[name] = order + 1

			g.members = append(g.members, member{
				field: f,
				order: order,
			})
		}
	}

	return groups
}

func hasOrderedGroup(f *schema.FieldDescriptor, name string) bool {
	for _, e := range f.OrderedGroups {
		if e.GroupName == name {
			return true
		}
	}
	return false
}
