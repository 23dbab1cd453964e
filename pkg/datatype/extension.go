package datatype

import (
	"go.uber.org/multierr"

	"github.com/gofhir/fhirmodel/pkg/build"
	"github.com/gofhir/fhirmodel/pkg/choice"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

// Extension carries additional content identified by a URL: either a value
// of any data type or nested extensions, never both and never neither.
type Extension struct {
	element.Header
	url   string
	value choice.Value
}

func (*Extension) TypeName() string { return "Extension" }

// URL identifies the meaning of the extension.
func (e *Extension) URL() string { return e.url }

// Value returns the resolved value[x].
func (e *Extension) Value() choice.Value { return e.value }

// ValueNode returns the value node, or nil.
func (e *Extension) ValueNode() element.Node { return e.value.Node() }

func (e *Extension) HasChildren() bool {
	return e.Header.HasChildren() || !e.value.IsZero()
}

func (e *Extension) Fields() []element.Field {
	return append(e.HeaderFields(),
		element.Attr("url", e.url, e.url != ""),
		element.OneOf("value", e.value.Node()),
	)
}

// ExtensionBuilder builds Extension nodes. Value may hold any data type.
type ExtensionBuilder struct {
	element.HeaderBuilder
	URL   string
	Value element.Node
}

func (b *ExtensionBuilder) Build() (*Extension, error) {
	c := checker("Extension")
	n := &Extension{
		Header: b.BuildHeader(),
		url:    b.URL,
		value:  c.Choice("value", b.Value),
	}
	if len(b.Extension) > 0 && !n.value.IsZero() {
		c.Add(validate.InvalidValue("Extension", "value", n.value.Shape(), "an extension has either nested extensions or a value, not both"))
	}
	if b.URL != "" && !uriRegex.MatchString(b.URL) {
		c.Add(validate.InvalidValue("Extension", "url", b.URL, "expected a URI without whitespace"))
	}
	return build.Finish(c, n)
}

func (e *Extension) ToBuilder() *ExtensionBuilder {
	return &ExtensionBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&e.Header),
		URL:           e.url,
		Value:         e.value.Node(),
	}
}

// NewExtension returns an extension holding value.
func NewExtension(url string, value element.Node) (*Extension, error) {
	return (&ExtensionBuilder{URL: url, Value: value}).Build()
}

// NewComplexExtension returns an extension holding nested extensions.
func NewComplexExtension(url string, nested ...*Extension) (*Extension, error) {
	b := &ExtensionBuilder{URL: url}
	for _, e := range nested {
		b.AddExtension(e)
	}
	return b.Build()
}

// MustExtension is NewExtension that panics on error.
func MustExtension(url string, value element.Node) *Extension {
	return must(NewExtension(url, value))
}

// optional builds a primitive from v, or returns nil when v is empty. Errors
// are appended to errs.
func optional[T any](v string, ctor func(string) (*T, error), errs *error) *T {
	if v == "" {
		return nil
	}
	n, err := ctor(v)
	*errs = multierr.Append(*errs, err)
	return n
}
