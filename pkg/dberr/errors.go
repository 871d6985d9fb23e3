package dberr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

func IsNotFoundError(err error) (*NotFoundError, bool) {
	err = errors.UnwrapAll(err)
	switch x := err.(type) {
	case NotFoundError:
		return &x, true
	case *NotFoundError:
		return x, true
	default:
		return nil, false
	}
}

type NotFoundError struct {
	Name string
}

func (a NotFoundError) Error() string {
	return fmt.Sprintf("%q not found", a.Name)
}

func IsDuplicateOrderError(err error) (*DuplicateOrderError, bool) {
	err = errors.UnwrapAll(err)
	switch x := err.(type) {
	case DuplicateOrderError:
		return &x, true
	case *DuplicateOrderError:
		return x, true
	default:
		return nil, false
	}
}

// DuplicateOrderError reports two distinct fields at the same position of one group.
// FieldA is the one declared first.
type DuplicateOrderError struct {
	Group  string
	Order  int
	FieldA string
	FieldB string
}

func (e DuplicateOrderError) Error() string {
	return fmt.Sprintf("group %q: fields %q and %q both declare order %d", e.Group, e.FieldA, e.FieldB, e.Order)
}

func IsDuplicatePropertyNameError(err error) (*DuplicatePropertyNameError, bool) {
	err = errors.UnwrapAll(err)
	switch x := err.(type) {
	case DuplicatePropertyNameError:
		return &x, true
	case *DuplicatePropertyNameError:
		return x, true
	default:
		return nil, false
	}
}

type DuplicatePropertyNameError struct {
	Name string
}

func (e DuplicatePropertyNameError) Error() string {
	return fmt.Sprintf("property %q is declared by more than one field", e.Name)
}

func IsEmptyGroupNameError(err error) (*EmptyGroupNameError, bool) {
	err = errors.UnwrapAll(err)
	switch x := err.(type) {
	case EmptyGroupNameError:
		return &x, true
	case *EmptyGroupNameError:
		return x, true
	default:
		return nil, false
	}
}

type EmptyGroupNameError struct {
	Field string
}

func (e EmptyGroupNameError) Error() string {
	return fmt.Sprintf("field %q joins a group without name", e.Field)
}

func IsMalformedFieldDeclarationError(err error) (*MalformedFieldDeclarationError, bool) {
	err = errors.UnwrapAll(err)
	switch x := err.(type) {
	case MalformedFieldDeclarationError:
		return &x, true
	case *MalformedFieldDeclarationError:
		return x, true
	default:
		return nil, false
	}
}

type MalformedFieldDeclarationError struct {
	Field  string
	Reason string
}

func (e MalformedFieldDeclarationError) Error() string {
	return fmt.Sprintf("malformed declaration of field %q: %s", e.Field, e.Reason)
}

// IsResolutionError reports whether err is one of the declaration errors raised
// while resolving index descriptors.
func IsResolutionError(err error) bool {
	if _, ok := IsDuplicateOrderError(err); ok {
		return true
	}
	if _, ok := IsDuplicatePropertyNameError(err); ok {
		return true
	}
	if _, ok := IsEmptyGroupNameError(err); ok {
		return true
	}
	_, ok := IsMalformedFieldDeclarationError(err)
	return ok
}
