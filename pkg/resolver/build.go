package resolver

import (
	"sort"

	"github.com/octohelm/queryfield/pkg/schema"
)

func build(typ string, fields []schema.FieldDescriptor, groups []*membership) *schema.DescriptorSet {
	singles := make([]*schema.SingleFieldIndex, 0)

	for i := range fields {
		f := &fields[i]
		if !f.Indexed {
			continue
		}
		singles = append(singles, schema.NewSingleFieldIndex(f, f.Descending))
	}

	groupIndexes := make([]*schema.GroupIndex, 0, len(groups))

	for _, g := range groups {
		members := append([]member(nil), g.members...)

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].order < members[j].order
		})

		columns := make([]schema.IndexField, len(members))
		for i, m := range members {
			columns[i] = schema.NewIndexField(m.field, m.descending)
		}

		groupIndexes = append(groupIndexes, schema.NewGroupIndex(g.group, columns...))
	}

	return schema.NewDescriptorSet(typ, fields, singles, groupIndexes)
}
