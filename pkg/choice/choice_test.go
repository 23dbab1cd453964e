package choice

import (
	"errors"
	"testing"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

type shaped struct {
	element.Header
	name string
}

func (s *shaped) TypeName() string            { return s.name }
func (s *shaped) Fields() []element.Field     { return s.HeaderFields() }
func (s *shaped) PrimitiveValue() (any, bool) { return s.name, true }

func TestResolve(t *testing.T) {
	var typedNil *shaped

	tests := []struct {
		name      string
		node      element.Node
		allowed   []string
		wantShape string
		wantKind  validate.Kind
	}{
		{"allowed date", &shaped{name: "date"}, []string{"date", "Period"}, "date", ""},
		{"allowed period", &shaped{name: "Period"}, []string{"date", "Period"}, "Period", ""},
		{"numeric shape", &shaped{name: "decimal"}, []string{"date", "Period"}, "", validate.KindChoiceShapeMismatch},
		{"absent", nil, []string{"date", "Period"}, "", ""},
		{"typed nil", typedNil, []string{"date"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Resolve("ClaimItem", "serviced", tt.node, tt.allowed...)
			if tt.wantKind != "" {
				var ve *validate.Error
				if !errors.As(err, &ve) || ve.Kind != tt.wantKind {
					t.Fatalf("Resolve() error = %v; want kind %s", err, tt.wantKind)
				}
				if ve.Field != "serviced" || ve.Shape != tt.node.TypeName() {
					t.Errorf("error names field %q shape %q", ve.Field, ve.Shape)
				}
				if !v.IsZero() {
					t.Error("failed resolve returned a value")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if v.Shape() != tt.wantShape {
				t.Errorf("Shape() = %q; want %q", v.Shape(), tt.wantShape)
			}
		})
	}
}

func TestResolveRequired(t *testing.T) {
	_, err := ResolveRequired("Extension", "value", nil, "string")
	if !errors.Is(err, validate.MissingRequiredField("Extension", "value")) {
		t.Errorf("ResolveRequired(nil) = %v; want MissingRequiredField", err)
	}
	v, err := ResolveRequired("Extension", "value", &shaped{name: "string"}, "string")
	if err != nil || v.Shape() != "string" {
		t.Errorf("ResolveRequired() = %v, %v", v.Shape(), err)
	}
}

func TestResolveAnyType(t *testing.T) {
	reg := schema.Default
	if err := reg.Register(
		&schema.Declaration{Type: "choiceTestPrimitive", Kind: schema.KindPrimitive},
		&schema.Declaration{Type: "ChoiceTestResource", Kind: schema.KindResource},
	); err != nil {
		t.Fatal(err)
	}

	if _, err := Resolve("Extension", "value", &shaped{name: "choiceTestPrimitive"}, schema.AnyType); err != nil {
		t.Errorf("data type rejected by %q: %v", schema.AnyType, err)
	}
	if _, err := Resolve("Extension", "value", &shaped{name: "ChoiceTestResource"}, schema.AnyType); err == nil {
		t.Errorf("resource admitted by %q", schema.AnyType)
	}
}

func TestAs(t *testing.T) {
	v, _ := Resolve("X", "v", &shaped{name: "date"}, "date")
	if s, ok := As[*shaped](v); !ok || s.name != "date" {
		t.Errorf("As() = %v, %v", s, ok)
	}
	if _, ok := As[*shaped](Value{}); ok {
		t.Error("As() on zero Value reported ok")
	}
}

func TestElementName(t *testing.T) {
	tests := []struct{ field, shape, want string }{
		{"serviced", "date", "servicedDate"},
		{"serviced", "Period", "servicedPeriod"},
		{"value", "dateTime", "valueDateTime"},
		{"value", "", "value"},
	}
	for _, tt := range tests {
		if got := ElementName(tt.field, tt.shape); got != tt.want {
			t.Errorf("ElementName(%q, %q) = %q; want %q", tt.field, tt.shape, got, tt.want)
		}
	}
}
