// Package choice resolves polymorphic ("[x]") fields.
//
// A choice field holds at most one node whose shape must be one of a closed
// list. Resolve checks the shape once, when the owning node is built, and
// returns a Value; accessors hand the Value out without checking it again.
package choice

import (
	"strings"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

// Value is a resolved choice. The zero Value is absent.
type Value struct {
	node element.Node
}

// Node returns the held node, or nil when absent.
func (v Value) Node() element.Node {
	return v.node
}

// Shape returns the type name of the held node, or "" when absent.
func (v Value) Shape() string {
	if v.node == nil {
		return ""
	}
	return v.node.TypeName()
}

// IsZero reports whether the choice is absent.
func (v Value) IsZero() bool {
	return v.node == nil
}

// As returns the held node as T.
func As[T element.Node](v Value) (T, bool) {
	t, ok := v.node.(T)
	return t, ok
}

// Resolve checks that n, if present, has one of the allowed shapes. An
// absent n resolves to the zero Value. schema.AnyType admits every declared
// data type.
func Resolve(typ, field string, n element.Node, allowed ...string) (Value, error) {
	if element.IsNil(n) {
		return Value{}, nil
	}
	shape := n.TypeName()
	if !admits(allowed, shape) {
		return Value{}, validate.ChoiceShapeMismatch(typ, field, shape, allowed)
	}
	return Value{node: n}, nil
}

// ResolveRequired is Resolve for a 1..1 choice: an absent n fails with
// MissingRequiredField.
func ResolveRequired(typ, field string, n element.Node, allowed ...string) (Value, error) {
	if element.IsNil(n) {
		return Value{}, validate.MissingRequiredField(typ, field)
	}
	return Resolve(typ, field, n, allowed...)
}

func admits(allowed []string, shape string) bool {
	for _, a := range allowed {
		if a == shape {
			return true
		}
	}
	return schema.Default.Admits(allowed, shape)
}

// ElementName returns the serialized name of a choice field holding shape,
// e.g. ("serviced", "date") gives "servicedDate".
func ElementName(field, shape string) string {
	if shape == "" {
		return field
	}
	return field + strings.ToUpper(shape[:1]) + shape[1:]
}
