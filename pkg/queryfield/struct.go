package queryfield

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/octohelm/queryfield/pkg/schema"
)

var _ Provider = (*StructTagProvider)(nil)

// StructTagProvider reads declarations from struct tags.
// Fields of embedded structs are promoted following Go's visibility rules.
type StructTagProvider struct {
	tagKey string
}

// A field represents a single field found in a struct, a query field or not.
// Fields that are not query fields still hide deeper ones of the same name.
type field struct {
	schema.FieldDescriptor
	depth int
	query bool
}

func (p *StructTagProvider) Fields(t reflect.Type) ([]schema.FieldDescriptor, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("query fields need struct type, but got %s", t)
	}

	found := make([]field, 0)
	if err := p.walk(t, nil, map[reflect.Type]bool{}, &found); err != nil {
		return nil, errors.Wrapf(err, "read query fields of %s", t)
	}

	fields := dominantFields(found)

	if can, ok := reflect.New(t).Interface().(CanQueryFields); ok {
		fields = append(fields, schema.CloneFields(can.QueryFields())...)
	}

	return fields, nil
}

func (p *StructTagProvider) walk(t reflect.Type, index []int, visiting map[reflect.Type]bool, out *[]field) error {
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		idx := make([]int, len(index)+1)
		copy(idx, index)
		idx[len(index)] = i

		tag, tagged := sf.Tag.Lookup(p.tagKey)

		if !tagged || tag == "-" || !sf.IsExported() {
			*out = append(*out, field{
				FieldDescriptor: schema.FieldDescriptor{SourceName: sf.Name},
				depth:           len(idx),
			})

			if sf.Anonymous && !tagged {
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					if err := p.walk(ft, idx, visiting, out); err != nil {
						return err
					}
				}
			}
			continue
		}

		fd, err := ParseTag(sf.Name, tag)
		if err != nil {
			return err
		}
		fd.Index = idx

		*out = append(*out, field{FieldDescriptor: fd, depth: len(idx), query: true})
	}

	return nil
}

// dominantFields drops fields hidden by a shallower field of the same name,
// and fields ambiguous at the same depth, keeping declaration order.
func dominantFields(found []field) []schema.FieldDescriptor {
	shallowest := map[string]int{}
	count := map[string]int{}

	for _, f := range found {
		d, ok := shallowest[f.SourceName]
		switch {
		case !ok || f.depth < d:
			shallowest[f.SourceName] = f.depth
			count[f.SourceName] = 1
		case f.depth == d:
			count[f.SourceName]++
		}
	}

	fields := make([]schema.FieldDescriptor, 0, len(found))
	for _, f := range found {
		if !f.query || f.depth != shallowest[f.SourceName] || count[f.SourceName] > 1 {
			continue
		}
		fields = append(fields, f.FieldDescriptor)
	}

	return fields
}
