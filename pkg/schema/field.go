package schema

// FieldDescriptor is the raw query declaration of one field of a storable type.
// Nothing is checked until the descriptor goes through resolution.
type FieldDescriptor struct {
	// SourceName is the declared name of the field in its type.
	SourceName string `json:"sourceName" yaml:"name"`
	// PropertyName overrides SourceName as the queryable name when not empty.
	PropertyName string `json:"propertyName,omitempty" yaml:"property,omitempty"`
	// Indexed marks the field for its own single-field index.
	Indexed bool `json:"indexed,omitempty" yaml:"index,omitempty"`
	// Descending is the direction of the single-field index.
	Descending bool `json:"descending,omitempty" yaml:"descending,omitempty"`
	// GroupNames lists groups the field joins without an explicit position.
	GroupNames []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	// OrderedGroups lists groups the field joins at an explicit position.
	OrderedGroups []GroupEntry `json:"orderedGroups,omitempty" yaml:"orderedGroups,omitempty"`
	// Index is the reflect field index path, when the field comes from a Go struct.
	Index []int `json:"-" yaml:"-"`
}

// EffectiveName returns the name the field is queried and indexed by.
func (f FieldDescriptor) EffectiveName() string {
	if f.PropertyName != "" {
		return f.PropertyName
	}
	return f.SourceName
}

// InGroups reports whether the field joins any group, ordered or not.
func (f FieldDescriptor) InGroups() bool {
	return len(f.GroupNames) > 0 || len(f.OrderedGroups) > 0
}

func (f FieldDescriptor) clone() FieldDescriptor {
	c := f
	if f.GroupNames != nil {
		c.GroupNames = append([]string(nil), f.GroupNames...)
	}
	if f.OrderedGroups != nil {
		c.OrderedGroups = append([]GroupEntry(nil), f.OrderedGroups...)
	}
	if f.Index != nil {
		c.Index = append([]int(nil), f.Index...)
	}
	return c
}

// GroupEntry places a field at an explicit position of a named composite index.
type GroupEntry struct {
	GroupName  string `json:"name" yaml:"name"`
	Order      int    `json:"order" yaml:"order"`
	Descending bool   `json:"descending,omitempty" yaml:"descending,omitempty"`
}

// CloneFields returns a deep copy of fields.
func CloneFields(fields []FieldDescriptor) []FieldDescriptor {
	out := make([]FieldDescriptor, len(fields))
	for i := range fields {
		out[i] = fields[i].clone()
	}
	return out
}
