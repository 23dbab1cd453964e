// Package issue defines advisory findings aligned with FHIR OperationOutcome.
//
// Build errors are hard failures: no node exists. Issues describe nodes that
// do exist but fail a check made after construction, such as a dangling
// reference, a code outside its value set or a failed invariant.
package issue

import (
	"cmp"
	"slices"
	"sync"
)

// Severity represents the severity of an issue.
type Severity string

// Severity constants aligned with FHIR IssueSeverity.
const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// rank orders severities from most to least severe.
func (s Severity) rank() int {
	switch s {
	case SeverityFatal:
		return 0
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	default:
		return 3
	}
}

// Code represents the type of issue (IssueType).
type Code string

// Code constants aligned with FHIR IssueType.
const (
	CodeInvalid       Code = "invalid"
	CodeStructure     Code = "structure"
	CodeRequired      Code = "required"
	CodeValue         Code = "value"
	CodeInvariant     Code = "invariant"
	CodeNotFound      Code = "not-found"
	CodeCodeInvalid   Code = "code-invalid"
	CodeExtension     Code = "extension"
	CodeBusinessRule  Code = "business-rule"
	CodeProcessing    Code = "processing"
	CodeNotSupported  Code = "not-supported"
	CodeTimeout       Code = "timeout"
	CodeIncomplete    Code = "incomplete"
	CodeInformational Code = "informational"
)

// Issue is a single finding.
type Issue struct {
	Severity Severity
	Code     Code

	// Diagnostics is the human-readable description.
	Diagnostics string

	// Expression holds FHIRPath-style paths to the offending element,
	// e.g. "Claim.item[0].productOrService".
	Expression []string

	// Source names the check that produced the issue.
	Source string

	// MessageID is the diagnostic the message was built from.
	MessageID string
}

// Stats describes one check run.
type Stats struct {
	ResourceType string
	ResourceID   string
	// Duration is the total check time in nanoseconds.
	Duration int64
	// NodesChecked is the number of nodes visited.
	NodesChecked int
	// ReferencesResolved is the number of references looked up.
	ReferencesResolved int
}

// DurationMs returns the duration in milliseconds.
func (s *Stats) DurationMs() float64 {
	return float64(s.Duration) / 1e6
}

// Result holds the issues found for one resource.
type Result struct {
	Issues []Issue
	Stats  *Stats
}

// Most checks produce fewer than 16 issues.
const defaultIssueCapacity = 16

var resultPool = sync.Pool{
	New: func() any {
		return &Result{
			Issues: make([]Issue, 0, defaultIssueCapacity),
		}
	},
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{
		Issues: make([]Issue, 0, defaultIssueCapacity),
	}
}

// GetPooledResult returns a Result from the pool.
// Call ReleaseResult when done to return it to the pool.
func GetPooledResult() *Result {
	r, ok := resultPool.Get().(*Result)
	if !ok {
		r = NewResult()
	}
	r.Issues = r.Issues[:0]
	r.Stats = nil
	return r
}

// ReleaseResult returns r to the pool. Do not use r afterwards.
func ReleaseResult(r *Result) {
	if r == nil {
		return
	}
	clear(r.Issues)
	r.Issues = r.Issues[:0]
	r.Stats = nil
	resultPool.Put(r)
}

// AddIssue adds an issue to the result.
func (r *Result) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// AddError adds an error-level issue.
func (r *Result) AddError(code Code, diagnostics string, expression ...string) {
	r.add(SeverityError, code, diagnostics, expression)
}

// AddWarning adds a warning-level issue.
func (r *Result) AddWarning(code Code, diagnostics string, expression ...string) {
	r.add(SeverityWarning, code, diagnostics, expression)
}

// AddInfo adds an information-level issue.
func (r *Result) AddInfo(code Code, diagnostics string, expression ...string) {
	r.add(SeverityInformation, code, diagnostics, expression)
}

func (r *Result) add(s Severity, code Code, diagnostics string, expression []string) {
	r.Issues = append(r.Issues, Issue{
		Severity:    s,
		Code:        code,
		Diagnostics: diagnostics,
		Expression:  expression,
	})
}

// SetSource sets the source of the issues from index from onwards that have
// none yet.
func (r *Result) SetSource(from int, source string) {
	for i := from; i < len(r.Issues); i++ {
		if r.Issues[i].Source == "" {
			r.Issues[i].Source = source
		}
	}
}

// HasErrors reports whether any issue is an error or fatal.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error and fatal issues.
func (r *Result) ErrorCount() int {
	return r.count(func(s Severity) bool { return s == SeverityError || s == SeverityFatal })
}

// WarningCount returns the number of warnings.
func (r *Result) WarningCount() int {
	return r.count(func(s Severity) bool { return s == SeverityWarning })
}

// InfoCount returns the number of information issues.
func (r *Result) InfoCount() int {
	return r.count(func(s Severity) bool { return s == SeverityInformation })
}

func (r *Result) count(match func(Severity) bool) int {
	n := 0
	for _, issue := range r.Issues {
		if match(issue.Severity) {
			n++
		}
	}
	return n
}

// Merge appends the issues of other.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

// Filter returns a new Result with only issues of the given severity.
func (r *Result) Filter(severity Severity) *Result {
	filtered := NewResult()
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			filtered.Issues = append(filtered.Issues, issue)
		}
	}
	return filtered
}

// Truncate keeps at most limit error or fatal issues, dropping later ones.
// Warnings and information issues are kept. A limit of zero or less keeps
// everything.
func (r *Result) Truncate(limit int) {
	if limit <= 0 {
		return
	}
	errs := 0
	r.Issues = slices.DeleteFunc(r.Issues, func(i Issue) bool {
		if i.Severity != SeverityError && i.Severity != SeverityFatal {
			return false
		}
		errs++
		return errs > limit
	})
}

// Sort orders issues by severity, then by first expression. Issues that
// compare equal keep their order.
func (r *Result) Sort() {
	slices.SortStableFunc(r.Issues, func(a, b Issue) int {
		if c := cmp.Compare(a.Severity.rank(), b.Severity.rank()); c != 0 {
			return c
		}
		return cmp.Compare(firstExpression(a), firstExpression(b))
	})
}

func firstExpression(i Issue) string {
	if len(i.Expression) == 0 {
		return ""
	}
	return i.Expression[0]
}
