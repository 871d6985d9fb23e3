package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/octohelm/queryfield/pkg/dberr"
	"github.com/octohelm/queryfield/pkg/schema"
)

// validate checks the declarations and their normalized groups, and returns the
// non-empty groups sorted by name. The first violation found is returned:
// field declarations first, then property names, then group orders.
func validate(fields []schema.FieldDescriptor, groups map[string]*membership) ([]*membership, error) {
	for i := range fields {
		if err := validateField(&fields[i], i); err != nil {
			return nil, err
		}
	}

	names := make(map[string]bool, len(fields))
	for i := range fields {
		name := fields[i].EffectiveName()
		if names[name] {
			return nil, &dberr.DuplicatePropertyNameError{Name: name}
		}
		names[name] = true
	}

	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	validated := make([]*membership, 0, len(groupNames))

	for _, name := range groupNames {
		g := groups[name]
		if len(g.members) == 0 {
			continue
		}

		byOrder := make(map[int]*schema.FieldDescriptor, len(g.members))
		for _, m := range g.members {
			if other, ok := byOrder[m.order]; ok && other != m.field {
				return nil, &dberr.DuplicateOrderError{
					Group:  name,
					Order:  m.order,
					FieldA: other.SourceName,
					FieldB: m.field.SourceName,
				}
			}
			byOrder[m.order] = m.field
		}

		validated = append(validated, g)
	}

	return validated, nil
}

func validateField(f *schema.FieldDescriptor, i int) error {
	if f.SourceName == "" {
		return &dberr.MalformedFieldDeclarationError{
			Field:  fmt.Sprintf("#%d", i),
			Reason: "missing source name",
		}
	}

	for _, name := range f.GroupNames {
		if isBlank(name) {
			return &dberr.EmptyGroupNameError{Field: f.SourceName}
		}
	}

	seen := make(map[string]bool, len(f.OrderedGroups))

	for _, e := range f.OrderedGroups {
		if isBlank(e.GroupName) {
			return &dberr.EmptyGroupNameError{Field: f.SourceName}
		}
		if e.Order < 0 {
			return &dberr.MalformedFieldDeclarationError{
				Field:  f.SourceName,
				Reason: fmt.Sprintf("negative order %d in group %q", e.Order, e.GroupName),
			}
		}
		if seen[e.GroupName] {
			return &dberr.MalformedFieldDeclarationError{
				Field:  f.SourceName,
				Reason: fmt.Sprintf("ordered group %q declared more than once", e.GroupName),
			}
		}
		seen[e.GroupName] = true
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
