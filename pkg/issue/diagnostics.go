package issue

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/gofhir/fhirmodel/pkg/validate"
)

// DiagnosticID identifies a specific diagnostic message.
type DiagnosticID string

// Construction failures, reported when a build error is turned into issues.
const (
	DiagMissingRequiredField  DiagnosticID = "MISSING_REQUIRED_FIELD"
	DiagChoiceShapeMismatch   DiagnosticID = "CHOICE_SHAPE_MISMATCH"
	DiagReferenceTypeMismatch DiagnosticID = "REFERENCE_TYPE_MISMATCH"
	DiagEmptyComposite        DiagnosticID = "EMPTY_COMPOSITE"
	DiagInvalidValue          DiagnosticID = "INVALID_VALUE"
	DiagTooManyValues         DiagnosticID = "TOO_MANY_VALUES"
	DiagBuildFailed           DiagnosticID = "BUILD_FAILED"
)

// Reference resolution.
const (
	DiagReferenceNotFound     DiagnosticID = "REFERENCE_NOT_FOUND"
	DiagReferenceTargetKind   DiagnosticID = "REFERENCE_TARGET_KIND"
	DiagReferenceResolveError DiagnosticID = "REFERENCE_RESOLVE_ERROR"
)

// Terminology bindings.
const (
	DiagBindingRequired         DiagnosticID = "BINDING_REQUIRED"
	DiagBindingExtensible       DiagnosticID = "BINDING_EXTENSIBLE"
	DiagBindingTextOnly         DiagnosticID = "BINDING_TEXT_ONLY"
	DiagBindingValueSetNotFound DiagnosticID = "BINDING_VALUESET_NOT_FOUND"
	DiagCodeNotInCodeSystem     DiagnosticID = "CODE_NOT_IN_CODESYSTEM"
)

// Extensions.
const (
	DiagModifierExtension DiagnosticID = "MODIFIER_EXTENSION"
)

// Invariants.
const (
	DiagConstraintFailed       DiagnosticID = "CONSTRAINT_FAILED"
	DiagConstraintCompileError DiagnosticID = "CONSTRAINT_COMPILE_ERROR"
	DiagConstraintEvalError    DiagnosticID = "CONSTRAINT_EVAL_ERROR"
)

// DiagnosticTemplate defines the structure for a diagnostic message.
type DiagnosticTemplate struct {
	ID       DiagnosticID
	Severity Severity
	Code     Code
	Template string
}

// diagnosticTemplates maps diagnostic IDs to their templates.
// Templates use {placeholder} syntax for variable substitution.
var diagnosticTemplates = map[DiagnosticID]DiagnosticTemplate{
	DiagMissingRequiredField: {
		Severity: SeverityError,
		Code:     CodeRequired,
		Template: "{type}.{field} is required",
	},
	DiagChoiceShapeMismatch: {
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "{type}.{field} cannot hold a {shape}; allowed: {allowed}",
	},
	DiagReferenceTypeMismatch: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "{type}.{field} cannot reference a {shape}; allowed: {allowed}",
	},
	DiagEmptyComposite: {
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "{type} has neither a value nor children",
	},
	DiagInvalidValue: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "{type}.{field}: invalid value '{value}': {reason}",
	},
	DiagTooManyValues: {
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "{type}.{field} has too many values ({value})",
	},
	DiagBuildFailed: {
		Severity: SeverityError,
		Code:     CodeProcessing,
		Template: "{error}",
	},

	DiagReferenceNotFound: {
		Severity: SeverityWarning,
		Code:     CodeNotFound,
		Template: "Reference '{reference}' could not be resolved",
	},
	DiagReferenceTargetKind: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Reference '{reference}' resolves to a {type}; allowed: {allowed}",
	},
	DiagReferenceResolveError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Reference '{reference}' could not be looked up: {error}",
	},

	DiagBindingRequired: {
		Severity: SeverityError,
		Code:     CodeCodeInvalid,
		Template: "The value provided ('{code}') is not in the value set '{valueSet}' (required)",
	},
	DiagBindingExtensible: {
		Severity: SeverityWarning,
		Code:     CodeCodeInvalid,
		Template: "The value provided ('{code}') is not in the value set '{valueSet}' (extensible)",
	},
	DiagBindingTextOnly: {
		Severity: SeverityWarning,
		Code:     CodeCodeInvalid,
		Template: "No code provided, and a code should be provided from the value set '{valueSet}'",
	},
	DiagBindingValueSetNotFound: {
		Severity: SeverityWarning,
		Code:     CodeNotFound,
		Template: "ValueSet '{valueSet}' not found - code '{code}' cannot be validated",
	},
	DiagCodeNotInCodeSystem: {
		Severity: SeverityError,
		Code:     CodeInvalid,
		Template: "The code '{code}' is not valid in the CodeSystem '{system}'",
	},

	DiagModifierExtension: {
		Severity: SeverityInformation,
		Code:     CodeExtension,
		Template: "Modifier extension '{url}' changes the meaning of its element",
	},

	DiagConstraintFailed: {
		Severity: SeverityError,
		Code:     CodeInvariant,
		Template: "Constraint failed: {key}: {human}",
	},
	DiagConstraintCompileError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Could not compile constraint '{key}': {error}",
	},
	DiagConstraintEvalError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Could not evaluate constraint '{key}': {error}",
	},
}

// FormatDiagnostic formats a diagnostic message with the given parameters.
func FormatDiagnostic(id DiagnosticID, params map[string]any) string {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		return string(id)
	}
	return formatTemplate(tmpl.Template, params)
}

// GetDiagnosticTemplate returns the template for a diagnostic ID.
func GetDiagnosticTemplate(id DiagnosticID) (DiagnosticTemplate, bool) {
	tmpl, ok := diagnosticTemplates[id]
	if ok {
		tmpl.ID = id
	}
	return tmpl, ok
}

// formatTemplate replaces {placeholder} with values from params.
func formatTemplate(template string, params map[string]any) string {
	result := template
	for key, value := range params {
		placeholder := "{" + key + "}"
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(value))
	}
	return result
}

// AddWithID adds an issue built from a diagnostic template, with the
// template's severity.
func (r *Result) AddWithID(id DiagnosticID, params map[string]any, expression ...string) {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		r.AddError(CodeProcessing, string(id), expression...)
		return
	}
	r.addWithID(tmpl.Severity, id, tmpl, params, expression)
}

// AddWarningWithID adds a diagnostic downgraded to a warning.
func (r *Result) AddWarningWithID(id DiagnosticID, params map[string]any, expression ...string) {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		r.AddWarning(CodeProcessing, string(id), expression...)
		return
	}
	r.addWithID(SeverityWarning, id, tmpl, params, expression)
}

func (r *Result) addWithID(s Severity, id DiagnosticID, tmpl DiagnosticTemplate, params map[string]any, expression []string) {
	r.Issues = append(r.Issues, Issue{
		Severity:    s,
		Code:        tmpl.Code,
		Diagnostics: formatTemplate(tmpl.Template, params),
		Expression:  expression,
		MessageID:   string(id),
	})
}

var kindDiagnostics = map[validate.Kind]DiagnosticID{
	validate.KindMissingRequiredField:  DiagMissingRequiredField,
	validate.KindChoiceShapeMismatch:   DiagChoiceShapeMismatch,
	validate.KindReferenceTypeMismatch: DiagReferenceTypeMismatch,
	validate.KindEmptyComposite:        DiagEmptyComposite,
	validate.KindInvalidValue:          DiagInvalidValue,
	validate.KindTooManyValues:         DiagTooManyValues,
}

// FromError converts a build error into error issues, one per construction
// failure it aggregates. Errors of other types become a single BUILD_FAILED
// issue. A nil error gives an empty result.
func FromError(err error) *Result {
	r := NewResult()
	if err == nil {
		return r
	}
	for _, e := range validate.Errors(err) {
		expr := e.Type
		if e.Field != "" {
			expr += "." + e.Field
		}
		r.AddWithID(kindDiagnostics[e.Kind], map[string]any{
			"type":    e.Type,
			"field":   e.Field,
			"shape":   e.Shape,
			"allowed": strings.Join(e.Allowed, ", "),
			"value":   e.Value,
			"reason":  e.Reason,
		}, expr)
	}

	for _, e := range multierr.Errors(err) {
		var ve *validate.Error
		if errors.As(e, &ve) {
			continue
		}
		r.AddWithID(DiagBuildFailed, map[string]any{"error": e.Error()})
	}
	r.SetSource(0, "build")
	return r
}
