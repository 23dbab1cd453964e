// Package schema holds the shape declarations that configure the generic
// node framework: for every type, its fields in declaration order, their
// cardinalities, the allowed shapes of choice fields, the permitted target
// kinds of reference fields, terminology bindings and invariants.
//
// Declarations are static configuration. They are loaded once, from YAML
// catalogs or from R4 StructureDefinitions, and read concurrently afterwards.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a declared type.
type Kind string

// Kinds of declared types.
const (
	KindPrimitive Kind = "primitive"
	KindComplex   Kind = "complex"
	KindBackbone  Kind = "backbone"
	KindResource  Kind = "resource"
)

// AnyType in a choice field's type list admits every primitive or complex type.
const AnyType = "*"

// Unbounded is the Max of a "*" cardinality.
const Unbounded = -1

// Cardinality is the min..max occurrence constraint of a field.
type Cardinality struct {
	Min int
	Max int
}

// Common cardinalities.
var (
	Optional           = Cardinality{Min: 0, Max: 1}
	Required           = Cardinality{Min: 1, Max: 1}
	ZeroOrMore         = Cardinality{Min: 0, Max: Unbounded}
	OneOrMore          = Cardinality{Min: 1, Max: Unbounded}
	Prohibited         = Cardinality{Min: 0, Max: 0}
	knownCardinalities = map[string]Cardinality{
		"0..1": Optional,
		"1..1": Required,
		"0..*": ZeroOrMore,
		"1..*": OneOrMore,
		"0..0": Prohibited,
	}
)

// ParseCardinality parses "min..max" where max may be "*".
func ParseCardinality(s string) (Cardinality, error) {
	if c, ok := knownCardinalities[s]; ok {
		return c, nil
	}
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return Cardinality{}, fmt.Errorf("invalid cardinality %q", s)
	}
	minVal, err := strconv.Atoi(lo)
	if err != nil || minVal < 0 {
		return Cardinality{}, fmt.Errorf("invalid cardinality %q: bad min", s)
	}
	maxVal := Unbounded
	if hi != "*" {
		maxVal, err = strconv.Atoi(hi)
		if err != nil || maxVal < minVal {
			return Cardinality{}, fmt.Errorf("invalid cardinality %q: bad max", s)
		}
	}
	return Cardinality{Min: minVal, Max: maxVal}, nil
}

// Required reports whether at least one value must be present.
func (c Cardinality) Required() bool {
	return c.Min > 0
}

// Repeating reports whether more than one value may be present.
func (c Cardinality) Repeating() bool {
	return c.Max == Unbounded || c.Max > 1
}

// Allows reports whether n occurrences satisfy the cardinality.
func (c Cardinality) Allows(n int) bool {
	return n >= c.Min && (c.Max == Unbounded || n <= c.Max)
}

// String returns the "min..max" form.
func (c Cardinality) String() string {
	if c.Max == Unbounded {
		return strconv.Itoa(c.Min) + "..*"
	}
	return strconv.Itoa(c.Min) + ".." + strconv.Itoa(c.Max)
}

// Strength is the obligation level of a terminology binding.
type Strength string

// Binding strengths.
const (
	StrengthRequired   Strength = "required"
	StrengthExtensible Strength = "extensible"
	StrengthPreferred  Strength = "preferred"
	StrengthExample    Strength = "example"
)

// Binding ties a coded field to a value set.
type Binding struct {
	Strength    Strength `yaml:"strength" json:"strength"`
	ValueSet    string   `yaml:"valueSet" json:"valueSet"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// Normative reports whether a violation of the binding is more than advice.
func (b *Binding) Normative() bool {
	return b != nil && (b.Strength == StrengthRequired || b.Strength == StrengthExtensible)
}

// Constraint is a FHIRPath invariant declared on a type.
type Constraint struct {
	Key        string `yaml:"key" json:"key"`
	Severity   string `yaml:"severity" json:"severity"`
	Human      string `yaml:"human" json:"human"`
	Expression string `yaml:"expression" json:"expression"`
}

// FieldDecl declares one field.
type FieldDecl struct {
	Name        string      `yaml:"name" json:"name"`
	Cardinality string      `yaml:"card" json:"card"`
	Card        Cardinality `yaml:"-" json:"-"`
	Types       []string    `yaml:"types" json:"types"`
	Targets     []string    `yaml:"targets,omitempty" json:"targets,omitempty"`
	Binding     *Binding    `yaml:"binding,omitempty" json:"binding,omitempty"`
	Modifier    bool        `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	Summary     bool        `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// IsChoice reports whether the field is polymorphic.
func (f *FieldDecl) IsChoice() bool {
	return len(f.Types) > 1 || (len(f.Types) == 1 && f.Types[0] == AnyType)
}

// IsReference reports whether the field may hold a Reference.
func (f *FieldDecl) IsReference() bool {
	for _, t := range f.Types {
		if t == "Reference" {
			return true
		}
	}
	return false
}

// Allows reports whether shape is one of the declared types. AnyType is not
// expanded here; use Registry.Admits for that.
func (f *FieldDecl) Allows(shape string) bool {
	for _, t := range f.Types {
		if t == shape {
			return true
		}
	}
	return false
}

// Declaration describes one node type.
type Declaration struct {
	Type        string       `yaml:"type" json:"type"`
	Kind        Kind         `yaml:"kind" json:"kind"`
	Base        string       `yaml:"base,omitempty" json:"base,omitempty"`
	Fields      []FieldDecl  `yaml:"fields" json:"fields"`
	Constraints []Constraint `yaml:"constraints,omitempty" json:"constraints,omitempty"`

	index map[string]int
	ready bool
}

// Field returns the declaration of the named field.
func (d *Declaration) Field(name string) (*FieldDecl, bool) {
	if d == nil {
		return nil, false
	}
	if d.index != nil {
		i, ok := d.index[name]
		if !ok {
			return nil, false
		}
		return &d.Fields[i], true
	}
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names in order.
func (d *Declaration) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i := range d.Fields {
		names[i] = d.Fields[i].Name
	}
	return names
}

// IsRoot reports whether nodes of this type are document roots.
func (d *Declaration) IsRoot() bool {
	return d.Kind == KindResource
}

// finalize prepends the inherited fields, parses cardinalities and builds the
// field index.
func (d *Declaration) finalize() error {
	if d.ready {
		return nil
	}
	if d.Type == "" {
		return fmt.Errorf("declaration without type")
	}
	if d.Kind == "" {
		d.Kind = KindComplex
	}
	if d.Base == "" {
		d.Base = defaultBase(d.Kind)
	}
	inherited, err := baseFields(d.Base)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Type, err)
	}

	own := d.Fields
	d.Fields = make([]FieldDecl, 0, len(inherited)+len(own))
	d.Fields = append(d.Fields, inherited...)
	for _, f := range own {
		if len(f.Types) == 0 {
			return fmt.Errorf("%s.%s: no types declared", d.Type, f.Name)
		}
		if f.Cardinality == "" {
			f.Cardinality = "0..1"
		}
		card, err := ParseCardinality(f.Cardinality)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", d.Type, f.Name, err)
		}
		f.Card = card
		d.Fields = append(d.Fields, f)
	}

	d.index = make(map[string]int, len(d.Fields))
	for i := range d.Fields {
		if _, dup := d.index[d.Fields[i].Name]; dup {
			return fmt.Errorf("%s: duplicate field %q", d.Type, d.Fields[i].Name)
		}
		d.index[d.Fields[i].Name] = i
	}
	d.ready = true
	return nil
}

func defaultBase(k Kind) string {
	switch k {
	case KindResource:
		return "DomainResource"
	case KindBackbone:
		return "BackboneElement"
	default:
		return "Element"
	}
}

func header(card string, types ...string) FieldDecl {
	c, err := ParseCardinality(card)
	if err != nil {
		panic(err)
	}
	return FieldDecl{Cardinality: card, Card: c, Types: types}
}

func named(name string, f FieldDecl) FieldDecl {
	f.Name = name
	return f
}

// baseFields returns the fields every type with the given base inherits, in
// the order they are listed by nodes.
func baseFields(base string) ([]FieldDecl, error) {
	element := []FieldDecl{
		named("id", header("0..1", "string")),
		named("extension", header("0..*", "Extension")),
		named("modifierExtension", header("0..*", "Extension")),
	}
	switch base {
	case "Element", "BackboneElement":
		return element, nil
	case "Resource", "DomainResource":
		language := named("language", header("0..1", "code"))
		language.Binding = &Binding{Strength: StrengthPreferred, ValueSet: "http://hl7.org/fhir/ValueSet/languages"}
		fields := []FieldDecl{
			named("id", header("0..1", "string")),
			named("meta", header("0..1", "Meta")),
			named("implicitRules", header("0..1", "uri")),
			language,
			named("text", header("0..1", "Narrative")),
			named("contained", header("0..*", "Resource")),
			named("extension", header("0..*", "Extension")),
			named("modifierExtension", header("0..*", "Extension")),
		}
		fields[2].Modifier = true
		return fields, nil
	default:
		return nil, fmt.Errorf("unknown base %q", base)
	}
}
