// Package validate holds the construction error model and the guard helpers
// builders use to enforce required fields and the value-or-children rule.
//
// Every failure is an *Error. Builders combine the failures of one node with
// multierr so that a caller sees all of them at once; Errors unpacks them
// again.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Kind classifies a construction failure.
type Kind string

// Construction failure kinds.
const (
	KindMissingRequiredField  Kind = "missing-required-field"
	KindChoiceShapeMismatch   Kind = "choice-shape-mismatch"
	KindReferenceTypeMismatch Kind = "reference-type-mismatch"
	KindEmptyComposite        Kind = "empty-composite"
	KindInvalidValue          Kind = "invalid-value"
	KindTooManyValues         Kind = "too-many-values"
)

// Error describes why a node could not be built.
type Error struct {
	Kind Kind

	// Type is the shape name of the node being built.
	Type string

	// Field is the offending field, or "" for failures of the node as a whole.
	Field string

	// Shape is the offending value's shape (choice failures) or the reference
	// kind (reference failures).
	Shape string

	// Allowed lists the shapes or kinds that would have been accepted.
	Allowed []string

	// Value is the offending raw value, if any.
	Value string

	// Reason is extra detail for invalid values.
	Reason string
}

// Sentinels matching any error of a kind with errors.Is.
var (
	ErrMissingRequiredField  = &Error{Kind: KindMissingRequiredField}
	ErrChoiceShapeMismatch   = &Error{Kind: KindChoiceShapeMismatch}
	ErrReferenceTypeMismatch = &Error{Kind: KindReferenceTypeMismatch}
	ErrEmptyComposite        = &Error{Kind: KindEmptyComposite}
	ErrInvalidValue          = &Error{Kind: KindInvalidValue}
	ErrTooManyValues         = &Error{Kind: KindTooManyValues}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Type)
	if e.Field != "" {
		b.WriteByte('.')
		b.WriteString(e.Field)
	}
	b.WriteString(": ")

	switch e.Kind {
	case KindMissingRequiredField:
		b.WriteString("required field is missing")
	case KindChoiceShapeMismatch:
		fmt.Fprintf(&b, "shape %s is not one of [%s]", e.Shape, strings.Join(e.Allowed, ", "))
	case KindReferenceTypeMismatch:
		fmt.Fprintf(&b, "reference to %s is not permitted, want one of [%s]", e.Shape, strings.Join(e.Allowed, ", "))
	case KindEmptyComposite:
		b.WriteString("element has neither a value nor children")
	case KindTooManyValues:
		fmt.Fprintf(&b, "too many values (%s)", e.Value)
	default:
		b.WriteString("invalid value")
		if e.Value != "" {
			fmt.Fprintf(&b, " %q", e.Value)
		}
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Is matches sentinels by kind. A target with Type or Field set must match
// those as well.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return (t.Type == "" || t.Type == e.Type) && (t.Field == "" || t.Field == e.Field)
}

// MissingRequiredField reports an absent required field.
func MissingRequiredField(typ, field string) *Error {
	return &Error{Kind: KindMissingRequiredField, Type: typ, Field: field}
}

// ChoiceShapeMismatch reports a choice value of a disallowed shape.
func ChoiceShapeMismatch(typ, field, shape string, allowed []string) *Error {
	return &Error{Kind: KindChoiceShapeMismatch, Type: typ, Field: field, Shape: shape, Allowed: allowed}
}

// ReferenceTypeMismatch reports a reference to a kind outside the permitted set.
func ReferenceTypeMismatch(typ, field, kind string, allowed []string) *Error {
	return &Error{Kind: KindReferenceTypeMismatch, Type: typ, Field: field, Shape: kind, Allowed: allowed}
}

// EmptyComposite reports a node with neither a value nor children.
func EmptyComposite(typ string) *Error {
	return &Error{Kind: KindEmptyComposite, Type: typ}
}

// InvalidValue reports a malformed value.
func InvalidValue(typ, field, value, reason string) *Error {
	return &Error{Kind: KindInvalidValue, Type: typ, Field: field, Value: value, Reason: reason}
}

// TooManyValues reports a field holding more values than its cardinality allows.
func TooManyValues(typ, field string, got, limit int) *Error {
	return &Error{Kind: KindTooManyValues, Type: typ, Field: field, Value: fmt.Sprintf("%d > %d", got, limit)}
}

// Errors flattens err into its construction errors. Errors of other types are
// dropped.
func Errors(err error) []*Error {
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var ve *Error
		if errors.As(e, &ve) {
			out = append(out, ve)
		}
	}
	return out
}

// Has reports whether err holds a construction error of the given kind on
// field. An empty field matches any field.
func Has(err error, kind Kind, field string) bool {
	for _, e := range Errors(err) {
		if e.Kind == kind && (field == "" || e.Field == field) {
			return true
		}
	}
	return false
}
