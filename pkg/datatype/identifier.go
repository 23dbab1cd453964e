package datatype

import (
	"github.com/google/uuid"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/reference"
)

// Identifier is a business identifier: a value unique within a system.
type Identifier struct {
	element.Header
	use      *Code
	typ      *CodeableConcept
	system   *URI
	value    *String
	period   *Period
	assigner *Reference
}

func (*Identifier) TypeName() string { return "Identifier" }

func (i *Identifier) Use() *Code             { return i.use }
func (i *Identifier) Type() *CodeableConcept { return i.typ }
func (i *Identifier) System() *URI           { return i.system }
func (i *Identifier) Value() *String         { return i.value }
func (i *Identifier) Period() *Period        { return i.period }
func (i *Identifier) Assigner() *Reference   { return i.assigner }

func (i *Identifier) HasChildren() bool {
	return element.HasFieldContent(i.Fields())
}

func (i *Identifier) Fields() []element.Field {
	return append(i.HeaderFields(),
		element.One("use", i.use),
		element.One("type", i.typ),
		element.One("system", i.system),
		element.One("value", i.value),
		element.One("period", i.period),
		element.One("assigner", i.assigner),
	)
}

// IdentifierBuilder builds Identifier nodes.
type IdentifierBuilder struct {
	element.HeaderBuilder
	Use      *Code
	Type     *CodeableConcept
	System   *URI
	Value    *String
	Period   *Period
	Assigner *Reference
}

func (b *IdentifierBuilder) Build() (*Identifier, error) {
	return check(&Identifier{
		Header:   b.BuildHeader(),
		use:      b.Use,
		typ:      b.Type,
		system:   b.System,
		value:    b.Value,
		period:   b.Period,
		assigner: b.Assigner,
	})
}

func (i *Identifier) ToBuilder() *IdentifierBuilder {
	return &IdentifierBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&i.Header),
		Use:           i.use,
		Type:          i.typ,
		System:        i.system,
		Value:         i.value,
		Period:        i.period,
		Assigner:      i.assigner,
	}
}

// NewIdentifier returns an identifier with the given system and value.
func NewIdentifier(system, value string) (*Identifier, error) {
	var errs error
	b := &IdentifierBuilder{
		System: optional(system, NewURI, &errs),
		Value:  optional(value, NewString, &errs),
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}

// MustIdentifier is NewIdentifier that panics on error.
func MustIdentifier(system, value string) *Identifier {
	return must(NewIdentifier(system, value))
}

// NewUUIDIdentifier returns an identifier holding a fresh random UUID in the
// urn:ietf:rfc:3986 system.
func NewUUIDIdentifier() *Identifier {
	return MustIdentifier("urn:ietf:rfc:3986", "urn:uuid:"+uuid.NewString())
}

// Reference points at another resource by literal reference, logical
// identifier, or both.
type Reference struct {
	element.Header
	reference  *String
	typ        *URI
	identifier *Identifier
	display    *String
}

func (*Reference) TypeName() string { return "Reference" }

func (r *Reference) Reference() *String      { return r.reference }
func (r *Reference) Type() *URI              { return r.typ }
func (r *Reference) Identifier() *Identifier { return r.identifier }
func (r *Reference) Display() *String        { return r.display }

// ReferenceLiteral returns the literal reference, or "".
func (r *Reference) ReferenceLiteral() string { return textOf(r.reference) }

// ReferenceType returns the explicit type tag, or "".
func (r *Reference) ReferenceType() string { return textOf(r.typ) }

// Kind returns the statically declared target kind, or "".
func (r *Reference) Kind() string {
	return reference.Kind(r.ReferenceLiteral(), r.ReferenceType())
}

func (r *Reference) HasChildren() bool {
	return element.HasFieldContent(r.Fields())
}

func (r *Reference) Fields() []element.Field {
	return append(r.HeaderFields(),
		element.One("reference", r.reference),
		element.One("type", r.typ),
		element.One("identifier", r.identifier),
		element.One("display", r.display),
	)
}

// ReferenceBuilder builds Reference nodes.
type ReferenceBuilder struct {
	element.HeaderBuilder
	Reference  *String
	Type       *URI
	Identifier *Identifier
	Display    *String
}

func (b *ReferenceBuilder) Build() (*Reference, error) {
	n := &Reference{
		Header:     b.BuildHeader(),
		reference:  b.Reference,
		typ:        b.Type,
		identifier: b.Identifier,
		display:    b.Display,
	}
	// With no permitted kinds only a type tag contradicting the literal fails.
	_, err := reference.Check("Reference", "type", n, nil)
	return check(n, err)
}

func (r *Reference) ToBuilder() *ReferenceBuilder {
	return &ReferenceBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&r.Header),
		Reference:     r.reference,
		Type:          r.typ,
		Identifier:    r.identifier,
		Display:       r.display,
	}
}

// NewReference returns a reference holding a literal reference.
func NewReference(literal string) (*Reference, error) {
	s, err := NewString(literal)
	if err != nil {
		return nil, err
	}
	return (&ReferenceBuilder{Reference: s}).Build()
}

// MustReference is NewReference that panics on error.
func MustReference(literal string) *Reference {
	return must(NewReference(literal))
}

// ReferenceTo returns a relative reference "kind/id".
func ReferenceTo(kind, id string) (*Reference, error) {
	return NewReference(kind + "/" + id)
}
