package datatype

import (
	"slices"

	"github.com/gofhir/fhirmodel/pkg/element"
)

// Meta is the metadata of a resource.
type Meta struct {
	element.Header
	versionID   *ID
	lastUpdated *Instant
	source      *URI
	profile     []*Canonical
	security    []*Coding
	tag         []*Coding
}

func (*Meta) TypeName() string { return "Meta" }

func (m *Meta) VersionID() *ID        { return m.versionID }
func (m *Meta) LastUpdated() *Instant { return m.lastUpdated }
func (m *Meta) Source() *URI          { return m.source }
func (m *Meta) Profile() []*Canonical { return m.profile }
func (m *Meta) Security() []*Coding   { return m.security }
func (m *Meta) Tag() []*Coding        { return m.tag }

// Profiles returns the profile URLs.
func (m *Meta) Profiles() []string {
	out := make([]string, 0, len(m.profile))
	for _, p := range m.profile {
		out = append(out, textOf(p))
	}
	return out
}

func (m *Meta) HasChildren() bool {
	return element.HasFieldContent(m.Fields())
}

func (m *Meta) Fields() []element.Field {
	return append(m.HeaderFields(),
		element.One("versionId", m.versionID),
		element.One("lastUpdated", m.lastUpdated),
		element.One("source", m.source),
		element.Many("profile", m.profile),
		element.Many("security", m.security),
		element.Many("tag", m.tag),
	)
}

// MetaBuilder builds Meta nodes.
type MetaBuilder struct {
	element.HeaderBuilder
	VersionID   *ID
	LastUpdated *Instant
	Source      *URI
	Profile     []*Canonical
	Security    []*Coding
	Tag         []*Coding
}

func (b *MetaBuilder) AddProfile(p ...*Canonical) { b.Profile = append(b.Profile, p...) }
func (b *MetaBuilder) AddSecurity(c ...*Coding)   { b.Security = append(b.Security, c...) }
func (b *MetaBuilder) AddTag(c ...*Coding)        { b.Tag = append(b.Tag, c...) }

func (b *MetaBuilder) Build() (*Meta, error) {
	return check(&Meta{
		Header:      b.BuildHeader(),
		versionID:   b.VersionID,
		lastUpdated: b.LastUpdated,
		source:      b.Source,
		profile:     slices.Clone(b.Profile),
		security:    slices.Clone(b.Security),
		tag:         slices.Clone(b.Tag),
	})
}

func (m *Meta) ToBuilder() *MetaBuilder {
	return &MetaBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&m.Header),
		VersionID:     m.versionID,
		LastUpdated:   m.lastUpdated,
		Source:        m.source,
		Profile:       slices.Clone(m.profile),
		Security:      slices.Clone(m.security),
		Tag:           slices.Clone(m.tag),
	}
}

// Narrative is the human-readable summary of a resource.
type Narrative struct {
	element.Header
	status *Code
	div    *Xhtml
}

func (*Narrative) TypeName() string { return "Narrative" }

func (n *Narrative) Status() *Code { return n.status }
func (n *Narrative) Div() *Xhtml   { return n.div }

func (n *Narrative) HasChildren() bool {
	return element.HasFieldContent(n.Fields())
}

func (n *Narrative) Fields() []element.Field {
	return append(n.HeaderFields(),
		element.One("status", n.status),
		element.One("div", n.div),
	)
}

// NarrativeBuilder builds Narrative nodes.
type NarrativeBuilder struct {
	element.HeaderBuilder
	Status *Code
	Div    *Xhtml
}

func (b *NarrativeBuilder) Build() (*Narrative, error) {
	return check(&Narrative{Header: b.BuildHeader(), status: b.Status, div: b.Div})
}

func (n *Narrative) ToBuilder() *NarrativeBuilder {
	return &NarrativeBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&n.Header),
		Status:        n.status,
		Div:           n.div,
	}
}

// NewNarrative returns a narrative with the given status ("generated",
// "extensions", "additional" or "empty") and xhtml div.
func NewNarrative(status, div string) (*Narrative, error) {
	var errs error
	b := &NarrativeBuilder{
		Status: optional(status, NewCode, &errs),
		Div:    optional(div, NewXhtml, &errs),
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}
