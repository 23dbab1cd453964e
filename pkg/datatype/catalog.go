// Package datatype implements the FHIR R4 data types as immutable nodes:
// primitives (string, date, decimal, ...) and the general-purpose complex
// types (Extension, Coding, CodeableConcept, Identifier, Reference, Period,
// Quantity, Money, HumanName, ContactPoint, Meta, Narrative).
//
// Every type has a builder. Exported builder fields are assigned directly;
// list fields also have Add methods that append. Build checks the staged
// values against the type's declaration in shapes.yaml and returns either a
// node or every problem found. ToBuilder seeds a new builder from a node, so
// a node is "changed" by building a modified copy.
package datatype

import (
	_ "embed"

	"github.com/gofhir/fhirmodel/pkg/build"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/schema"
)

//go:embed shapes.yaml
var shapesYAML []byte

// Declarations are the shape declarations of this package, registered with
// schema.Default.
var Declarations = schema.Default.MustLoadYAML(shapesYAML)

// check runs the declaration checks of n's type.
func check[T element.Node](n T, extra ...error) (T, error) {
	return build.Check(schema.Default.MustGet(n.TypeName()), n, extra...)
}

// checker returns a build checker for types with choice fields.
func checker(typ string) *build.Checker {
	return build.For(schema.Default.MustGet(typ))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// stringValued is implemented by every string-based primitive.
type stringValued interface {
	element.Node
	Value() (string, bool)
}

// textOf returns the value of a string-based primitive, or "" when n is nil
// or has no value.
func textOf(n stringValued) string {
	if element.IsNil(n) {
		return ""
	}
	v, _ := n.Value()
	return v
}
