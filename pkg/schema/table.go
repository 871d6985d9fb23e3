package schema

import (
	"fmt"
	"reflect"
)

type CanTableName interface {
	TableName() string
}

func TypeOfModel(model any) (reflect.Type, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("table model must be struct type, but got nil")
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() == reflect.Slice {
		t = t.Elem()
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("table model must be struct type, but got %T", model)
	}

	return t, nil
}

// TableNameOf returns TableName() when the model declares one, otherwise the type name.
func TableNameOf(t reflect.Type) string {
	if t.Implements(canTableNameType) {
		return reflect.New(t).Elem().Interface().(CanTableName).TableName()
	}
	if reflect.PointerTo(t).Implements(canTableNameType) {
		return reflect.New(t).Interface().(CanTableName).TableName()
	}
	return t.Name()
}

// TypeName identifies t across packages, e.g. `github.com/x/model.User`.
func TypeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

var canTableNameType = reflect.TypeOf((*CanTableName)(nil)).Elem()
