// Package resource implements the root shapes of the model: Patient,
// Organization, Coverage and Claim with its backbone elements.
//
// Every resource embeds a ResourceHeader carrying the fields all resources
// share (id, meta, implicitRules, language, text, contained, extension and
// modifierExtension). Builders embed a ResourceBuilder that stages them and
// enforces the rules on contained resources.
package resource

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/gofhir/fhirmodel/pkg/build"
	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

//go:embed shapes.yaml
var shapesYAML []byte

// Declarations are the resource and backbone declarations of this package,
// registered with schema.Default.
var Declarations = schema.Default.MustLoadYAML(shapesYAML)

// Resource is a document root.
type Resource interface {
	element.Node
	ResourceBase() *ResourceHeader
}

var (
	_ Resource = (*Patient)(nil)
	_ Resource = (*Organization)(nil)
	_ Resource = (*Coverage)(nil)
	_ Resource = (*Claim)(nil)
)

// ResourceHeader carries the fields every resource shares. The resource's
// logical id is the element id of the header.
type ResourceHeader struct {
	element.Header
	meta          *datatype.Meta
	implicitRules *datatype.URI
	language      *datatype.Code
	text          *datatype.Narrative
	contained     []Resource
}

// ResourceBase returns h. Promoted to every resource; the embedded field
// itself is named ResourceHeader and would shadow a method of that name.
func (h *ResourceHeader) ResourceBase() *ResourceHeader { return h }

func (h *ResourceHeader) Meta() *datatype.Meta         { return h.meta }
func (h *ResourceHeader) ImplicitRules() *datatype.URI { return h.implicitRules }
func (h *ResourceHeader) Language() *datatype.Code     { return h.language }
func (h *ResourceHeader) Text() *datatype.Narrative    { return h.text }

// Contained returns the contained resources. The slice must not be modified.
func (h *ResourceHeader) Contained() []Resource { return h.contained }

// ContainedByID returns the contained resource with the given id.
func (h *ResourceHeader) ContainedByID(id string) (Resource, bool) {
	for _, r := range h.contained {
		if r.ResourceBase().ID() == id {
			return r, true
		}
	}
	return nil, false
}

// ResourceFields lists the shared fields in declaration order.
func (h *ResourceHeader) ResourceFields() []element.Field {
	return []element.Field{
		element.Attr("id", h.ID(), h.ID() != ""),
		element.One("meta", h.meta),
		element.One("implicitRules", h.implicitRules),
		element.One("language", h.language),
		element.One("text", h.text),
		element.Nodes("contained", h.contained),
		element.Nodes("extension", h.Extension()),
		element.Nodes("modifierExtension", h.ModifierExtension()),
	}
}

// ResourceBuilder stages the shared fields. It is embedded in every resource
// builder.
type ResourceBuilder struct {
	element.HeaderBuilder
	Meta          *datatype.Meta
	ImplicitRules *datatype.URI
	Language      *datatype.Code
	Text          *datatype.Narrative
	Contained     []Resource
}

// ResourceBuilderFrom seeds a ResourceBuilder from an existing header.
func ResourceBuilderFrom(h *ResourceHeader) ResourceBuilder {
	return ResourceBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&h.Header),
		Meta:          h.meta,
		ImplicitRules: h.implicitRules,
		Language:      h.language,
		Text:          h.text,
		Contained:     slices.Clone(h.contained),
	}
}

// AddContained appends contained resources.
func (b *ResourceBuilder) AddContained(r ...Resource) {
	b.Contained = append(b.Contained, r...)
}

// buildHeader assembles the header and records its errors on c.
func (b *ResourceBuilder) buildHeader(c *build.Checker) ResourceHeader {
	typ := c.Declaration().Type
	if b.ID != "" {
		if _, err := datatype.NewID(b.ID); err != nil {
			c.Add(validate.InvalidValue(typ, "id", b.ID, "expected 1-64 characters of [A-Za-z0-9-.]"))
		}
	}
	for _, r := range b.Contained {
		c.Add(checkContained(typ, r))
	}
	return ResourceHeader{
		Header:        b.BuildHeader(),
		meta:          b.Meta,
		implicitRules: b.ImplicitRules,
		language:      b.Language,
		text:          b.Text,
		contained:     slices.Clone(b.Contained),
	}
}

// checkContained enforces the rules on contained resources: they carry no
// contained resources of their own (dom-2) and no version metadata (dom-4).
func checkContained(typ string, r Resource) error {
	if element.IsNil(r) {
		return nil
	}
	h := r.ResourceBase()
	name := r.TypeName()
	if h.ID() != "" {
		name += "/" + h.ID()
	}
	if len(h.contained) > 0 {
		return validate.InvalidValue(typ, "contained", name, "a contained resource cannot contain resources")
	}
	if m := h.meta; m != nil && (m.VersionID() != nil || m.LastUpdated() != nil) {
		return validate.InvalidValue(typ, "contained", name, "a contained resource cannot carry meta.versionId or meta.lastUpdated")
	}
	return nil
}

// checker returns a build checker for typ.
func checker(typ string) *build.Checker {
	return build.For(schema.Default.MustGet(typ))
}

// Key returns "Type/id" for r, or "" when r has no id.
func Key(r Resource) string {
	id := r.ResourceBase().ID()
	if id == "" {
		return ""
	}
	return r.TypeName() + "/" + id
}

// ReferenceTo returns a relative reference to r, which must have an id.
func ReferenceTo(r Resource) (*datatype.Reference, error) {
	id := r.ResourceBase().ID()
	if id == "" {
		return nil, fmt.Errorf("reference to %s: resource has no id", r.TypeName())
	}
	return datatype.ReferenceTo(r.TypeName(), id)
}

// ContainedReference returns a "#id" reference to a contained resource.
func ContainedReference(r Resource) (*datatype.Reference, error) {
	id := r.ResourceBase().ID()
	if id == "" {
		return nil, fmt.Errorf("reference to contained %s: resource has no id", r.TypeName())
	}
	return datatype.NewReference("#" + id)
}
