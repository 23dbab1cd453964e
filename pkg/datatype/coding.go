package datatype

import (
	"slices"

	"github.com/gofhir/fhirmodel/pkg/element"
)

// Coding is a code defined by a terminology system.
type Coding struct {
	element.Header
	system       *URI
	version      *String
	code         *Code
	display      *String
	userSelected *Boolean
}

func (*Coding) TypeName() string { return "Coding" }

func (c *Coding) System() *URI           { return c.system }
func (c *Coding) Version() *String       { return c.version }
func (c *Coding) Code() *Code            { return c.code }
func (c *Coding) Display() *String       { return c.display }
func (c *Coding) UserSelected() *Boolean { return c.userSelected }

// Matches reports whether the coding has the given system and code. An
// empty system matches any system.
func (c *Coding) Matches(system, code string) bool {
	if textOf(c.code) != code {
		return false
	}
	return system == "" || textOf(c.system) == system
}

func (c *Coding) HasChildren() bool {
	return element.HasFieldContent(c.Fields())
}

func (c *Coding) Fields() []element.Field {
	return append(c.HeaderFields(),
		element.One("system", c.system),
		element.One("version", c.version),
		element.One("code", c.code),
		element.One("display", c.display),
		element.One("userSelected", c.userSelected),
	)
}

// CodingBuilder builds Coding nodes.
type CodingBuilder struct {
	element.HeaderBuilder
	System       *URI
	Version      *String
	Code         *Code
	Display      *String
	UserSelected *Boolean
}

func (b *CodingBuilder) Build() (*Coding, error) {
	return check(&Coding{
		Header:       b.BuildHeader(),
		system:       b.System,
		version:      b.Version,
		code:         b.Code,
		display:      b.Display,
		userSelected: b.UserSelected,
	})
}

func (c *Coding) ToBuilder() *CodingBuilder {
	return &CodingBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&c.Header),
		System:        c.system,
		Version:       c.version,
		Code:          c.code,
		Display:       c.display,
		UserSelected:  c.userSelected,
	}
}

// NewCoding returns a coding from plain strings. Empty strings are left
// absent.
func NewCoding(system, code, display string) (*Coding, error) {
	var errs error
	b := &CodingBuilder{
		System:  optional(system, NewURI, &errs),
		Code:    optional(code, NewCode, &errs),
		Display: optional(display, NewString, &errs),
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}

// MustCoding is NewCoding that panics on error.
func MustCoding(system, code, display string) *Coding {
	return must(NewCoding(system, code, display))
}

// CodeableConcept is a concept given by codings and/or text.
type CodeableConcept struct {
	element.Header
	coding []*Coding
	text   *String
}

func (*CodeableConcept) TypeName() string { return "CodeableConcept" }

// Coding returns the codings. The slice must not be modified.
func (c *CodeableConcept) Coding() []*Coding { return c.coding }
func (c *CodeableConcept) Text() *String     { return c.text }

// HasCoding reports whether any coding matches system and code.
func (c *CodeableConcept) HasCoding(system, code string) bool {
	for _, cd := range c.coding {
		if cd.Matches(system, code) {
			return true
		}
	}
	return false
}

func (c *CodeableConcept) HasChildren() bool {
	return element.HasFieldContent(c.Fields())
}

func (c *CodeableConcept) Fields() []element.Field {
	return append(c.HeaderFields(),
		element.Many("coding", c.coding),
		element.One("text", c.text),
	)
}

// CodeableConceptBuilder builds CodeableConcept nodes.
type CodeableConceptBuilder struct {
	element.HeaderBuilder
	Coding []*Coding
	Text   *String
}

// AddCoding appends codings.
func (b *CodeableConceptBuilder) AddCoding(c ...*Coding) {
	b.Coding = append(b.Coding, c...)
}

func (b *CodeableConceptBuilder) Build() (*CodeableConcept, error) {
	return check(&CodeableConcept{
		Header: b.BuildHeader(),
		coding: slices.Clone(b.Coding),
		text:   b.Text,
	})
}

func (c *CodeableConcept) ToBuilder() *CodeableConceptBuilder {
	return &CodeableConceptBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&c.Header),
		Coding:        slices.Clone(c.coding),
		Text:          c.text,
	}
}

// NewCodeableConcept returns a concept holding codings.
func NewCodeableConcept(codings ...*Coding) (*CodeableConcept, error) {
	b := &CodeableConceptBuilder{}
	b.AddCoding(codings...)
	return b.Build()
}

// Concept returns a concept with a single coding built from plain strings.
func Concept(system, code, display string) (*CodeableConcept, error) {
	c, err := NewCoding(system, code, display)
	if err != nil {
		return nil, err
	}
	return NewCodeableConcept(c)
}

// MustConcept is Concept that panics on error.
func MustConcept(system, code, display string) *CodeableConcept {
	return must(Concept(system, code, display))
}
