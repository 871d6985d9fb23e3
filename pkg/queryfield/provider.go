// Package queryfield reads query declarations of storable types.
//
// A field takes part in queries when it carries a `query` struct tag:
//
//	type Person struct {
//		ID        uint64 `query:"id,index"`
//		FirstName string `query:",groups=full_name"`
//		LastName  string `query:",groups=full_name"`
//		Age       int    `query:"age,index,desc,group=age_salary:0"`
//		Salary    int    `query:"salary,group=age_salary:1:desc"`
//	}
//
// Models may add declarations that have no struct field, e.g. for computed
// properties, by implementing CanQueryFields.
package queryfield

import (
	"reflect"

	"github.com/octohelm/queryfield/pkg/schema"
)

// Provider yields the query declarations of a struct type in a stable order.
type Provider interface {
	Fields(t reflect.Type) ([]schema.FieldDescriptor, error)
}

type CanQueryFields interface {
	QueryFields() []schema.FieldDescriptor
}

const DefaultTagKey = "query"

type ProviderOptionFunc = func(p *StructTagProvider)

func WithTagKey(key string) ProviderOptionFunc {
	return func(p *StructTagProvider) {
		p.tagKey = key
	}
}

func NewStructTagProvider(optFns ...ProviderOptionFunc) *StructTagProvider {
	p := &StructTagProvider{tagKey: DefaultTagKey}
	for i := range optFns {
		optFns[i](p)
	}
	return p
}
