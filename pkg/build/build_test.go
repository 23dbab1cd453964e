package build

import (
	"errors"
	"testing"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

const catalog = `
shapes:
  - type: Visit
    kind: backbone
    fields:
      - name: when
        types: [date, Span]
      - name: host
        types: [Reference]
        targets: [Organization]
      - name: tag
        card: "1..*"
        types: [text]
  - type: Log
    kind: resource
    fields:
      - name: entry
        card: "0..*"
        types: [text]
`

var catalogRegistry = func() *schema.Registry {
	r := schema.NewRegistry()
	r.MustLoadYAML([]byte(catalog))
	return r
}()

// text is a string-valued leaf of any shape name.
type text struct {
	element.Header
	shape string
	value string
}

func (t *text) TypeName() string { return t.shape }

func (t *text) PrimitiveValue() (any, bool) { return t.value, t.value != "" }

func (t *text) Fields() []element.Field {
	return append(t.HeaderFields(), element.Attr("value", t.value, t.value != ""))
}

// ref is a Reference-like leaf.
type ref struct {
	element.Header
	literal string
}

func (r *ref) TypeName() string         { return "Reference" }
func (r *ref) ReferenceLiteral() string { return r.literal }
func (r *ref) ReferenceType() string    { return "" }
func (r *ref) HasChildren() bool        { return r.literal != "" }

func (r *ref) Fields() []element.Field {
	return append(r.HeaderFields(), element.Attr("reference", r.literal, r.literal != ""))
}

type visit struct {
	element.Header
	when element.Node
	host *ref
	tag  []*text
}

func (v *visit) TypeName() string { return "Visit" }

func (v *visit) HasChildren() bool {
	return v.Header.HasChildren() || v.when != nil || v.host != nil || len(v.tag) > 0
}

func (v *visit) Fields() []element.Field {
	return append(v.HeaderFields(),
		element.OneOf("when", v.when),
		element.One("host", v.host),
		element.Many("tag", v.tag),
	)
}

type log struct {
	element.Header
	entry []*text
}

func (l *log) TypeName() string { return "Log" }

func (l *log) HasChildren() bool { return l.Header.HasChildren() || len(l.entry) > 0 }

func (l *log) Fields() []element.Field {
	return append(l.HeaderFields(), element.Many("entry", l.entry))
}

func word(s string) *text { return &text{shape: "text", value: s} }

func buildVisit(when element.Node, host *ref, tags ...*text) (*visit, error) {
	c := For(catalogRegistry.MustGet("Visit"))
	v := &visit{host: host, tag: tags}
	v.when = c.Choice("when", when).Node()
	return Finish(c, v)
}

func TestNodeChecks(t *testing.T) {
	tests := []struct {
		name      string
		when      element.Node
		host      *ref
		tags      []*text
		wantKind  validate.Kind
		wantField string
	}{
		{"valid", &text{shape: "date", value: "2024-01-01"}, &ref{literal: "Organization/o1"}, []*text{word("a")}, "", ""},
		{"missing tag", nil, nil, nil, validate.KindMissingRequiredField, "tag"},
		{"wrong choice shape", &text{shape: "decimal", value: "1.5"}, nil, []*text{word("a")}, validate.KindChoiceShapeMismatch, "when"},
		{"wrong reference kind", nil, &ref{literal: "Patient/p1"}, []*text{word("a")}, validate.KindReferenceTypeMismatch, "host"},
		{"nil entry", nil, nil, []*text{word("a"), nil}, validate.KindInvalidValue, "tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildVisit(tt.when, tt.host, tt.tags...)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("build error = %v", err)
				}
				if got == nil {
					t.Fatal("build returned nil node without error")
				}
				return
			}
			if got != nil {
				t.Error("failed build returned a node")
			}
			if !validate.Has(err, tt.wantKind, tt.wantField) {
				t.Errorf("error = %v; want %s on %q", err, tt.wantKind, tt.wantField)
			}
		})
	}
}

func TestChoiceErrorReportedOnce(t *testing.T) {
	_, err := buildVisit(&text{shape: "decimal", value: "1"}, nil, word("a"))
	if n := len(validate.Errors(err)); n != 1 {
		t.Errorf("got %d errors; want 1: %v", n, err)
	}
}

func TestAllErrorsCollected(t *testing.T) {
	_, err := buildVisit(&text{shape: "decimal", value: "1"}, &ref{literal: "Patient/p"})
	for _, kind := range []validate.Kind{
		validate.KindChoiceShapeMismatch,
		validate.KindReferenceTypeMismatch,
		validate.KindMissingRequiredField,
	} {
		if !validate.Has(err, kind, "") {
			t.Errorf("error %v lacks %s", err, kind)
		}
	}
}

func TestEmptyComposite(t *testing.T) {
	// Visit has a required field, so check the value-or-children rule on a
	// declaration without one.
	r := schema.NewRegistry()
	r.MustLoadYAML([]byte("shapes:\n  - type: Visit\n    kind: backbone\n    fields:\n      - {name: when, types: [date, Span]}\n      - {name: host, types: [Reference]}\n      - {name: tag, card: '0..*', types: [text]}\n"))
	decl := r.MustGet("Visit")

	_, err := Finish(For(decl), &visit{})
	if !errors.Is(err, validate.ErrEmptyComposite) {
		t.Errorf("empty visit error = %v; want EmptyComposite", err)
	}

	hb := element.HeaderBuilder{ID: "v1"}
	_, err = Finish(For(decl), &visit{Header: hb.BuildHeader()})
	if !errors.Is(err, validate.ErrEmptyComposite) {
		t.Errorf("id-only visit error = %v; want EmptyComposite", err)
	}

	hb = element.HeaderBuilder{}
	hb.AddExtension(&extension{url: "http://example.org/x", value: word("y")})
	if _, err := Finish(For(decl), &visit{Header: hb.BuildHeader()}); err != nil {
		t.Errorf("visit with an extension error = %v", err)
	}
}

func TestRootChildrenRule(t *testing.T) {
	decl := catalogRegistry.MustGet("Log")
	if _, err := Finish(For(decl), &log{}); !errors.Is(err, validate.ErrEmptyComposite) {
		t.Errorf("empty root error = %v; want EmptyComposite", err)
	}

	hb := element.HeaderBuilder{ID: "l1"}
	if _, err := Finish(For(decl), &log{Header: hb.BuildHeader()}); err != nil {
		t.Errorf("root with only an id error = %v", err)
	}
}

func TestUndeclaredField(t *testing.T) {
	decl := catalogRegistry.MustGet("Log")
	_, err := Finish(For(decl), &visit{tag: []*text{word("a")}})
	if err == nil {
		t.Error("node with undeclared fields passed")
	}
}

type extension struct {
	element.Header
	url   string
	value element.Node
}

func (e *extension) TypeName() string        { return "Extension" }
func (e *extension) URL() string             { return e.url }
func (e *extension) ValueNode() element.Node { return e.value }
func (e *extension) HasChildren() bool       { return e.value != nil }

func (e *extension) Fields() []element.Field {
	return append(e.HeaderFields(), element.Attr("url", e.url, true), element.OneOf("value", e.value))
}
