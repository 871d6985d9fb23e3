package queryfield

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/octohelm/queryfield/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Manifest declares query fields of types without Go structs.
//
//	types:
//	  - name: Person
//	    fields:
//	      - name: age
//	        index: true
//	        descending: true
//	      - name: firstName
//	        property: first_name
//	        groups: [full_name]
//	      - name: salary
//	        orderedGroups:
//	          - { name: age_salary, order: 1, descending: true }
type Manifest struct {
	Types []TypeDeclaration `yaml:"types"`
}

type TypeDeclaration struct {
	Name   string                   `yaml:"name"`
	Fields []schema.FieldDescriptor `yaml:"fields"`
}

func LoadManifest(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", filename)
	}
	m, err := DecodeManifest(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "load manifest %s", filename)
	}
	return m, nil
}

// DecodeManifest decodes a YAML manifest. Unknown keys and repeated type names are rejected.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	m := &Manifest{}
	if err := d.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return m, nil
		}
		return nil, errors.Wrap(err, "decode manifest")
	}

	seen := map[string]bool{}
	for i := range m.Types {
		name := m.Types[i].Name
		if name == "" {
			return nil, errors.Newf("type #%d has no name", i)
		}
		if seen[name] {
			return nil, errors.Newf("type %q declared more than once", name)
		}
		seen[name] = true
	}

	return m, nil
}

func (m *Manifest) Type(name string) (*TypeDeclaration, bool) {
	for i := range m.Types {
		if m.Types[i].Name == name {
			return &m.Types[i], true
		}
	}
	return nil, false
}
