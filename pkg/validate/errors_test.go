package validate

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/gofhir/fhirmodel/pkg/element"
)

type blank struct {
	element.Header
}

func (b *blank) TypeName() string { return "Blank" }

func (b *blank) Fields() []element.Field { return b.HeaderFields() }

func TestErrorIs(t *testing.T) {
	err := multierr.Combine(
		MissingRequiredField("Claim", "insurance"),
		ChoiceShapeMismatch("ClaimItem", "serviced", "decimal", []string{"date", "Period"}),
	)

	tests := []struct {
		name   string
		target error
		want   bool
	}{
		{"kind sentinel", ErrMissingRequiredField, true},
		{"second kind", ErrChoiceShapeMismatch, true},
		{"absent kind", ErrReferenceTypeMismatch, false},
		{"field match", MissingRequiredField("Claim", "insurance"), true},
		{"field mismatch", MissingRequiredField("Claim", "patient"), false},
		{"type only", &Error{Kind: KindChoiceShapeMismatch, Type: "ClaimItem"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{MissingRequiredField("Claim", "insurance"), "Claim.insurance: required field is missing"},
		{ChoiceShapeMismatch("ClaimItem", "serviced", "decimal", []string{"date", "Period"}), "ClaimItem.serviced: shape decimal is not one of [date, Period]"},
		{ReferenceTypeMismatch("Claim", "insurer", "Patient", []string{"Organization"}), "Claim.insurer: reference to Patient is not permitted, want one of [Organization]"},
		{EmptyComposite("Period"), "Period: element has neither a value nor children"},
		{InvalidValue("date", "value", "2020-13", "bad month"), `date.value: invalid value "2020-13": bad month`},
		{TooManyValues("Patient", "gender", 2, 1), "Patient.gender: too many values (2 > 1)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsAndHas(t *testing.T) {
	err := multierr.Combine(
		MissingRequiredField("Claim", "insurance"),
		errors.New("unrelated"),
		EmptyComposite("Period"),
	)
	got := Errors(err)
	if len(got) != 2 {
		t.Fatalf("Errors() returned %d; want 2", len(got))
	}
	if !Has(err, KindMissingRequiredField, "insurance") || !Has(err, KindEmptyComposite, "") {
		t.Error("Has() missed a present error")
	}
	if Has(err, KindMissingRequiredField, "patient") {
		t.Error("Has() matched the wrong field")
	}
	if Errors(nil) != nil {
		t.Error("Errors(nil) != nil")
	}
}

func TestGuards(t *testing.T) {
	if err := RequireNonNull("Claim", "patient", false); !errors.Is(err, ErrMissingRequiredField) {
		t.Errorf("RequireNonNull(absent) = %v", err)
	}
	if err := RequireNonNull("Claim", "patient", true); err != nil {
		t.Errorf("RequireNonNull(present) = %v", err)
	}
	if err := RequireNonEmpty("Claim", "insurance", 0); !strings.Contains(err.Error(), "insurance") {
		t.Errorf("RequireNonEmpty(0) = %v", err)
	}

	empty := &blank{}
	if err := RequireValueOrChildren(empty); !errors.Is(err, ErrEmptyComposite) {
		t.Errorf("RequireValueOrChildren(empty) = %v", err)
	}

	hb := element.HeaderBuilder{ID: "a"}
	withID := &blank{Header: hb.BuildHeader()}
	if err := RequireValueOrChildren(withID); err == nil {
		t.Error("id alone satisfied the value-or-children rule")
	}
	if err := RequireChildren(withID); err != nil {
		t.Errorf("RequireChildren(id only root) = %v", err)
	}
	if err := RequireChildren(empty); !errors.Is(err, ErrEmptyComposite) {
		t.Errorf("RequireChildren(empty) = %v", err)
	}
}
