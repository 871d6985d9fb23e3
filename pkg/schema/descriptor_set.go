package schema

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/octohelm/queryfield/pkg/stringutil"
)

// DescriptorSet holds every resolved index descriptor of one type.
// It has no mutators and its accessors return copies, so one set can be shared
// by goroutines without locking. A changed declaration produces a new set.
type DescriptorSet struct {
	typ     string
	fields  []FieldDescriptor
	singles []*SingleFieldIndex
	groups  []*GroupIndex

	fieldIndex  map[string]int
	singleIndex map[string]int
	groupIndex  map[string]int
}

// NewDescriptorSet takes ownership of fields; descriptors must point into fields.
func NewDescriptorSet(typ string, fields []FieldDescriptor, singles []*SingleFieldIndex, groups []*GroupIndex) *DescriptorSet {
	s := &DescriptorSet{
		typ:         typ,
		fields:      fields,
		singles:     append([]*SingleFieldIndex(nil), singles...),
		groups:      append([]*GroupIndex(nil), groups...),
		fieldIndex:  make(map[string]int, len(fields)),
		singleIndex: make(map[string]int, len(singles)),
		groupIndex:  make(map[string]int, len(groups)),
	}

	for i := range fields {
		s.fieldIndex[fields[i].EffectiveName()] = i
	}
	for i := range singles {
		s.singleIndex[singles[i].Name()] = i
	}
	for i := range groups {
		s.groupIndex[groups[i].Name()] = i
	}

	return s
}

// Type returns the name of the type the set was resolved for.
func (s *DescriptorSet) Type() string {
	return s.typ
}

// Fields returns a copy of the resolved declarations.
func (s *DescriptorSet) Fields() []FieldDescriptor {
	return CloneFields(s.fields)
}

func (s *DescriptorSet) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.fieldIndex[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.fields[i].clone(), true
}

func (s *DescriptorSet) SingleFieldIndex(name string) (*SingleFieldIndex, bool) {
	i, ok := s.singleIndex[name]
	if !ok {
		return nil, false
	}
	return s.singles[i], true
}

func (s *DescriptorSet) GroupIndex(name string) (*GroupIndex, bool) {
	i, ok := s.groupIndex[name]
	if !ok {
		return nil, false
	}
	return s.groups[i], true
}

func (s *DescriptorSet) SingleFieldIndexes() []*SingleFieldIndex {
	return append([]*SingleFieldIndex(nil), s.singles...)
}

func (s *DescriptorSet) GroupIndexes() []*GroupIndex {
	return append([]*GroupIndex(nil), s.groups...)
}

// All returns single-field indexes in declaration order, then group indexes by name.
func (s *DescriptorSet) All() []IndexDescriptor {
	all := make([]IndexDescriptor, 0, len(s.singles)+len(s.groups))
	for i := range s.singles {
		all = append(all, s.singles[i])
	}
	for i := range s.groups {
		all = append(all, s.groups[i])
	}
	return all
}

// Equal compares the index descriptors of both sets structurally.
func (s *DescriptorSet) Equal(o *DescriptorSet) bool {
	if o == nil {
		return false
	}
	if s == o {
		return true
	}

	a, b := s.All(), o.All()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (s *DescriptorSet) Fingerprint() uint64 {
	h := xxhash.New()
	buf := make([]byte, 8)

	for _, d := range s.All() {
		binary.BigEndian.PutUint64(buf, d.Fingerprint())
		_, _ = h.Write(buf)
	}

	return h.Sum64()
}

func (s *DescriptorSet) String() string {
	b := &strings.Builder{}

	b.WriteString(s.typ)
	b.WriteString(" {")

	for i, d := range s.All() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(FormatIndex(d))
	}

	b.WriteString(" }")

	return b.String()
}

// FormatIndex renders d as `kind name(col [desc], ...)`.
func FormatIndex(d IndexDescriptor) string {
	b := &strings.Builder{}

	_, _ = fmt.Fprintf(b, "%s %s(", d.Kind(), stringutil.NormalizeIdentifier(d.Name(), '`'))
	for i, col := range d.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(stringutil.NormalizeIdentifier(col.PropertyName(), '`'))
		if col.Descending {
			b.WriteString(" desc")
		}
	}
	b.WriteString(")")

	return b.String()
}
