// Package resolver turns the query declarations of a type into its index descriptors.
//
// Resolution is a pure function of the declarations: the same input always
// resolves to structurally equal descriptor sets, and an invalid input never
// yields a partial set.
package resolver

import (
	"github.com/cockroachdb/errors"
	"github.com/octohelm/queryfield/pkg/schema"
)

// Resolve resolves the declarations of typ, given in declaration order.
// fields is copied; the returned set does not share memory with it.
func Resolve(typ string, fields []schema.FieldDescriptor) (*schema.DescriptorSet, error) {
	owned := schema.CloneFields(fields)

	groups, err := validate(owned, normalize(owned))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve index descriptors of %s", typ)
	}

	return build(typ, owned, groups), nil
}
