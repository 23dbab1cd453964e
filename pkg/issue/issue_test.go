package issue

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/gofhir/fhirmodel/pkg/validate"
)

func TestResultCounts(t *testing.T) {
	r := NewResult()
	if r.HasErrors() {
		t.Error("empty result has errors")
	}

	r.AddWarning(CodeNotFound, "dangling", "Claim.patient")
	r.AddInfo(CodeExtension, "modifier", "Claim.modifierExtension[0]")
	if r.HasErrors() {
		t.Error("warnings and information count as errors")
	}

	r.AddError(CodeRequired, "missing", "Claim.insurance")
	r.AddIssue(Issue{Severity: SeverityFatal, Code: CodeProcessing, Diagnostics: "boom"})

	if got := r.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount() = %d; want 2", got)
	}
	if got := r.WarningCount(); got != 1 {
		t.Errorf("WarningCount() = %d; want 1", got)
	}
	if got := r.InfoCount(); got != 1 {
		t.Errorf("InfoCount() = %d; want 1", got)
	}
	if got := len(r.Filter(SeverityWarning).Issues); got != 1 {
		t.Errorf("Filter(warning) kept %d issues", got)
	}
}

func TestResultMergeAndSort(t *testing.T) {
	a := NewResult()
	a.AddWarning(CodeNotFound, "w", "Claim.provider")
	a.AddError(CodeRequired, "e2", "Claim.use")

	b := NewResult()
	b.AddInfo(CodeExtension, "i", "Claim")
	b.AddError(CodeRequired, "e1", "Claim.status")
	a.Merge(b)
	a.Merge(nil)
	a.Sort()

	var got []string
	for _, i := range a.Issues {
		got = append(got, i.Diagnostics)
	}
	if diff := cmp.Diff([]string{"e1", "e2", "w", "i"}, got); diff != "" {
		t.Errorf("Sort() order (-want +got):\n%s", diff)
	}
}

func TestResultTruncate(t *testing.T) {
	r := NewResult()
	for range 4 {
		r.AddError(CodeValue, "e")
	}
	r.AddWarning(CodeValue, "w")

	r.Truncate(0)
	if len(r.Issues) != 5 {
		t.Fatalf("Truncate(0) dropped issues: %d left", len(r.Issues))
	}
	r.Truncate(2)
	if r.ErrorCount() != 2 || r.WarningCount() != 1 {
		t.Errorf("Truncate(2) left %d errors, %d warnings", r.ErrorCount(), r.WarningCount())
	}
}

func TestPooledResult(t *testing.T) {
	r := GetPooledResult()
	r.AddError(CodeValue, "e")
	r.Stats = &Stats{ResourceType: "Claim"}
	ReleaseResult(r)
	ReleaseResult(nil)

	again := GetPooledResult()
	if len(again.Issues) != 0 || again.Stats != nil {
		t.Errorf("pooled result not reset: %+v", again)
	}
}

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		id     DiagnosticID
		params map[string]any
		want   string
	}{
		{
			DiagBindingRequired,
			map[string]any{"code": "unknown-gender", "valueSet": "http://hl7.org/fhir/ValueSet/administrative-gender"},
			"The value provided ('unknown-gender') is not in the value set 'http://hl7.org/fhir/ValueSet/administrative-gender' (required)",
		},
		{
			DiagReferenceNotFound,
			map[string]any{"reference": "Patient/p2"},
			"Reference 'Patient/p2' could not be resolved",
		},
		{"NO_SUCH_ID", nil, "NO_SUCH_ID"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := FormatDiagnostic(tt.id, tt.params); got != tt.want {
				t.Errorf("FormatDiagnostic() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestAddWithID(t *testing.T) {
	r := NewResult()
	r.AddWithID(DiagConstraintFailed, map[string]any{"key": "org-1", "human": "name or identifier"}, "Organization")
	r.AddWarningWithID(DiagConstraintFailed, map[string]any{"key": "dom-6", "human": "narrative"}, "Patient")
	r.AddWithID("UNKNOWN", nil)
	r.SetSource(0, "invariant")

	want := []Issue{
		{Severity: SeverityError, Code: CodeInvariant, Diagnostics: "Constraint failed: org-1: name or identifier",
			Expression: []string{"Organization"}, MessageID: string(DiagConstraintFailed), Source: "invariant"},
		{Severity: SeverityWarning, Code: CodeInvariant, Diagnostics: "Constraint failed: dom-6: narrative",
			Expression: []string{"Patient"}, MessageID: string(DiagConstraintFailed), Source: "invariant"},
		{Severity: SeverityError, Code: CodeProcessing, Diagnostics: "UNKNOWN", Source: "invariant"},
	}
	if diff := cmp.Diff(want, r.Issues); diff != "" {
		t.Errorf("issues (-want +got):\n%s", diff)
	}
}

func TestFromError(t *testing.T) {
	if r := FromError(nil); len(r.Issues) != 0 {
		t.Errorf("FromError(nil) = %v", r.Issues)
	}

	err := multierr.Combine(
		validate.MissingRequiredField("Claim", "insurance"),
		validate.ChoiceShapeMismatch("ClaimItem", "serviced", "decimal", []string{"date", "Period"}),
		validate.EmptyComposite("Period"),
		errors.New("catalog is broken"),
	)
	r := FromError(err)

	type row struct {
		ID, Expr, Diag string
	}
	var got []row
	for _, i := range r.Issues {
		var expr string
		if len(i.Expression) > 0 {
			expr = i.Expression[0]
		}
		if i.Source != "build" || i.Severity != SeverityError {
			t.Errorf("issue %s: source %q severity %q", i.MessageID, i.Source, i.Severity)
		}
		got = append(got, row{i.MessageID, expr, i.Diagnostics})
	}
	want := []row{
		{"MISSING_REQUIRED_FIELD", "Claim.insurance", "Claim.insurance is required"},
		{"CHOICE_SHAPE_MISMATCH", "ClaimItem.serviced", "ClaimItem.serviced cannot hold a decimal; allowed: date, Period"},
		{"EMPTY_COMPOSITE", "Period", "Period has neither a value nor children"},
		{"BUILD_FAILED", "", "catalog is broken"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromError() (-want +got):\n%s", diff)
	}
}
