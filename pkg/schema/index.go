package schema

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

type IndexKind int

const (
	SingleFieldIndexKind IndexKind = iota
	GroupIndexKind
)

func (k IndexKind) String() string {
	switch k {
	case SingleFieldIndexKind:
		return "single"
	case GroupIndexKind:
		return "group"
	default:
		return "unknown"
	}
}

func (k IndexKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *IndexKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "single":
		*k = SingleFieldIndexKind
	case "group":
		*k = GroupIndexKind
	default:
		return errors.Errorf("unknown index kind %q", text)
	}
	return nil
}

// IndexDescriptor describes one index an index construction engine should build.
// Descriptors compare and hash structurally: by kind, name, and the ordered
// column list with directions.
type IndexDescriptor interface {
	Kind() IndexKind
	Name() string
	// Columns returns the physical column order of the index, as a new slice.
	Columns() []IndexField
	Fingerprint() uint64
	Equal(other IndexDescriptor) bool
}

// IndexField is one column of an index. It references the field it was resolved
// from; Field returns a copy.
type IndexField struct {
	field      *FieldDescriptor
	Descending bool
}

func NewIndexField(field *FieldDescriptor, descending bool) IndexField {
	return IndexField{field: field, Descending: descending}
}

func (c IndexField) Field() FieldDescriptor {
	return c.field.clone()
}

func (c IndexField) PropertyName() string {
	return c.field.EffectiveName()
}

var (
	_ IndexDescriptor = &SingleFieldIndex{}
	_ IndexDescriptor = &GroupIndex{}
)

type SingleFieldIndex struct {
	field      *FieldDescriptor
	descending bool
}

func NewSingleFieldIndex(field *FieldDescriptor, descending bool) *SingleFieldIndex {
	return &SingleFieldIndex{field: field, descending: descending}
}

func (i *SingleFieldIndex) Kind() IndexKind {
	return SingleFieldIndexKind
}

func (i *SingleFieldIndex) Name() string {
	return i.field.EffectiveName()
}

func (i *SingleFieldIndex) Field() FieldDescriptor {
	return i.field.clone()
}

func (i *SingleFieldIndex) Descending() bool {
	return i.descending
}

func (i *SingleFieldIndex) Columns() []IndexField {
	return []IndexField{{field: i.field, Descending: i.descending}}
}

func (i *SingleFieldIndex) Fingerprint() uint64 {
	return fingerprint(i)
}

func (i *SingleFieldIndex) Equal(other IndexDescriptor) bool {
	return equal(i, other)
}

// GroupIndex is a composite index with its columns in resolved order.
type GroupIndex struct {
	name    string
	columns []IndexField
}

func NewGroupIndex(name string, columns ...IndexField) *GroupIndex {
	return &GroupIndex{
		name:    name,
		columns: append([]IndexField(nil), columns...),
	}
}

func (i *GroupIndex) Kind() IndexKind {
	return GroupIndexKind
}

func (i *GroupIndex) Name() string {
	return i.name
}

func (i *GroupIndex) Columns() []IndexField {
	return append([]IndexField(nil), i.columns...)
}

func (i *GroupIndex) Fingerprint() uint64 {
	return fingerprint(i)
}

func (i *GroupIndex) Equal(other IndexDescriptor) bool {
	return equal(i, other)
}

// PropertyNames returns the effective names of the columns in index order.
func PropertyNames(d IndexDescriptor) []string {
	cols := d.Columns()
	names := make([]string, len(cols))
	for i := range cols {
		names[i] = cols[i].PropertyName()
	}
	return names
}

func equal(a, b IndexDescriptor) bool {
	if b == nil {
		return false
	}
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return false
	}

	colsA, colsB := a.Columns(), b.Columns()
	if len(colsA) != len(colsB) {
		return false
	}

	for i := range colsA {
		if colsA[i].Descending != colsB[i].Descending {
			return false
		}
		if colsA[i].PropertyName() != colsB[i].PropertyName() {
			return false
		}
	}

	return true
}

func fingerprint(d IndexDescriptor) uint64 {
	h := xxhash.New()

	_, _ = h.Write([]byte{byte(d.Kind())})
	_, _ = h.WriteString(d.Name())

	for _, col := range d.Columns() {
		// separator keeps ("ab","c") and ("a","bc") apart
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(col.PropertyName())
		if col.Descending {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{2})
		}
	}

	return h.Sum64()
}
