package datatype

import (
	"slices"
	"strings"

	"github.com/gofhir/fhirmodel/pkg/element"
)

// HumanName is a person's name.
type HumanName struct {
	element.Header
	use    *Code
	text   *String
	family *String
	given  []*String
	prefix []*String
	suffix []*String
	period *Period
}

func (*HumanName) TypeName() string { return "HumanName" }

func (h *HumanName) Use() *Code        { return h.use }
func (h *HumanName) Text() *String     { return h.text }
func (h *HumanName) Family() *String   { return h.family }
func (h *HumanName) Given() []*String  { return h.given }
func (h *HumanName) Prefix() []*String { return h.prefix }
func (h *HumanName) Suffix() []*String { return h.suffix }
func (h *HumanName) Period() *Period   { return h.period }

// Display returns text if present, otherwise the parts joined by spaces.
func (h *HumanName) Display() string {
	if t := textOf(h.text); t != "" {
		return t
	}
	var parts []string
	for _, group := range [][]*String{h.prefix, h.given, {h.family}, h.suffix} {
		for _, s := range group {
			if t := textOf(s); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

func (h *HumanName) HasChildren() bool {
	return element.HasFieldContent(h.Fields())
}

func (h *HumanName) Fields() []element.Field {
	return append(h.HeaderFields(),
		element.One("use", h.use),
		element.One("text", h.text),
		element.One("family", h.family),
		element.Many("given", h.given),
		element.Many("prefix", h.prefix),
		element.Many("suffix", h.suffix),
		element.One("period", h.period),
	)
}

// HumanNameBuilder builds HumanName nodes.
type HumanNameBuilder struct {
	element.HeaderBuilder
	Use    *Code
	Text   *String
	Family *String
	Given  []*String
	Prefix []*String
	Suffix []*String
	Period *Period
}

func (b *HumanNameBuilder) AddGiven(s ...*String)  { b.Given = append(b.Given, s...) }
func (b *HumanNameBuilder) AddPrefix(s ...*String) { b.Prefix = append(b.Prefix, s...) }
func (b *HumanNameBuilder) AddSuffix(s ...*String) { b.Suffix = append(b.Suffix, s...) }

func (b *HumanNameBuilder) Build() (*HumanName, error) {
	return check(&HumanName{
		Header: b.BuildHeader(),
		use:    b.Use,
		text:   b.Text,
		family: b.Family,
		given:  slices.Clone(b.Given),
		prefix: slices.Clone(b.Prefix),
		suffix: slices.Clone(b.Suffix),
		period: b.Period,
	})
}

func (h *HumanName) ToBuilder() *HumanNameBuilder {
	return &HumanNameBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&h.Header),
		Use:           h.use,
		Text:          h.text,
		Family:        h.family,
		Given:         slices.Clone(h.given),
		Prefix:        slices.Clone(h.prefix),
		Suffix:        slices.Clone(h.suffix),
		Period:        h.period,
	}
}

// NewHumanName returns a name with a family name and given names.
func NewHumanName(family string, given ...string) (*HumanName, error) {
	var errs error
	b := &HumanNameBuilder{Family: optional(family, NewString, &errs)}
	for _, g := range given {
		if g != "" {
			b.AddGiven(optional(g, NewString, &errs))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}

// MustHumanName is NewHumanName that panics on error.
func MustHumanName(family string, given ...string) *HumanName {
	return must(NewHumanName(family, given...))
}

// ContactPoint is a phone number, email address or other telecom endpoint.
type ContactPoint struct {
	element.Header
	system *Code
	value  *String
	use    *Code
	rank   *PositiveInt
	period *Period
}

func (*ContactPoint) TypeName() string { return "ContactPoint" }

func (c *ContactPoint) System() *Code      { return c.system }
func (c *ContactPoint) Value() *String     { return c.value }
func (c *ContactPoint) Use() *Code         { return c.use }
func (c *ContactPoint) Rank() *PositiveInt { return c.rank }
func (c *ContactPoint) Period() *Period    { return c.period }

func (c *ContactPoint) HasChildren() bool {
	return element.HasFieldContent(c.Fields())
}

func (c *ContactPoint) Fields() []element.Field {
	return append(c.HeaderFields(),
		element.One("system", c.system),
		element.One("value", c.value),
		element.One("use", c.use),
		element.One("rank", c.rank),
		element.One("period", c.period),
	)
}

// ContactPointBuilder builds ContactPoint nodes.
type ContactPointBuilder struct {
	element.HeaderBuilder
	System *Code
	Value  *String
	Use    *Code
	Rank   *PositiveInt
	Period *Period
}

func (b *ContactPointBuilder) Build() (*ContactPoint, error) {
	return check(&ContactPoint{
		Header: b.BuildHeader(),
		system: b.System,
		value:  b.Value,
		use:    b.Use,
		rank:   b.Rank,
		period: b.Period,
	})
}

func (c *ContactPoint) ToBuilder() *ContactPointBuilder {
	return &ContactPointBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&c.Header),
		System:        c.system,
		Value:         c.value,
		Use:           c.use,
		Rank:          c.rank,
		Period:        c.period,
	}
}

// NewContactPoint returns a contact point such as ("phone", "555-0100").
func NewContactPoint(system, value string) (*ContactPoint, error) {
	var errs error
	b := &ContactPointBuilder{
		System: optional(system, NewCode, &errs),
		Value:  optional(value, NewString, &errs),
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}
