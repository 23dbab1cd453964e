// Package reference checks that references declare a permitted target kind.
//
// The check is static: it looks at the explicit type tag and at the shape of
// the literal reference, never at the target itself. Whether the target
// exists is for a resolver to decide.
package reference

import (
	"regexp"
	"strings"

	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

// Pointer is the view of a Reference node the checker needs.
type Pointer interface {
	// ReferenceLiteral returns the literal reference ("Patient/1", "#c1",
	// "urn:uuid:..."), or "".
	ReferenceLiteral() string

	// ReferenceType returns the explicit type tag, or "".
	ReferenceType() string
}

// Outcome is the result of a kind check.
type Outcome int

// Kind check outcomes. NotApplicable means the reference declares no kind or
// the field does not restrict kinds; it is neither a pass nor a failure.
const (
	NotApplicable Outcome = iota
	Pass
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "not-applicable"
	}
}

// Reference format patterns.
var (
	// Relative reference: ResourceType/id or ResourceType/id/_history/vid.
	relativeRefPattern = regexp.MustCompile(`^([A-Z][A-Za-z]+)/[A-Za-z0-9\-.]{1,64}(?:/_history/[A-Za-z0-9\-.]{1,64})?$`)

	// Absolute URL reference (with optional _history/vid).
	absoluteRefPattern = regexp.MustCompile(`^https?://\S+/([A-Z][A-Za-z]+)/[A-Za-z0-9\-.]{1,64}(?:/_history/[A-Za-z0-9\-.]{1,64})?$`)

	// Fragment reference (contained resource).
	fragmentRefPattern = regexp.MustCompile(`^#[A-Za-z0-9\-.]+$`)

	urnUUIDPattern = regexp.MustCompile(`^urn:uuid:.+$`)
	urnOIDPattern  = regexp.MustCompile(`^urn:oid:[012](\.[1-9]\d*)+$`)
)

// anyKind entries in a permitted set admit every resource kind.
var anyKind = map[string]bool{
	"Resource":  true,
	"Reference": true,
	"Any":       true,
}

// Checker extracts and checks reference kinds against a registry.
type Checker struct {
	registry *schema.Registry
}

// New returns a Checker that consults reg to tell resource kinds from other
// declared types. A nil reg uses schema.Default.
func New(reg *schema.Registry) *Checker {
	if reg == nil {
		reg = schema.Default
	}
	return &Checker{registry: reg}
}

var defaultChecker = New(nil)

// Kind returns the kind a reference statically declares. The explicit type
// tag wins over the kind embedded in the literal. Fragment, URN and
// identifier-only references declare no kind.
func (c *Checker) Kind(literal, typeTag string) string {
	if k := TagKind(typeTag); k != "" {
		return k
	}
	return c.literalKind(literal)
}

func (c *Checker) literalKind(literal string) string {
	var m []string
	switch {
	case literal == "", strings.HasPrefix(literal, "#"), strings.HasPrefix(literal, "urn:"):
		return ""
	case relativeRefPattern.MatchString(literal):
		m = relativeRefPattern.FindStringSubmatch(literal)
	case absoluteRefPattern.MatchString(literal):
		m = absoluteRefPattern.FindStringSubmatch(literal)
	default:
		return ""
	}
	candidate := m[1]
	if k, ok := c.registry.KindOf(candidate); ok && k != schema.KindResource {
		return ""
	}
	return candidate
}

// Check returns the outcome of checking p against the permitted kinds. On
// Fail the error is a ReferenceTypeMismatch naming typ and field.
func (c *Checker) Check(typ, field string, p Pointer, permitted []string) (Outcome, error) {
	if p == nil {
		return NotApplicable, nil
	}
	literal, tag := p.ReferenceLiteral(), TagKind(p.ReferenceType())

	// A type tag that contradicts the literal is wrong whatever the field
	// permits.
	if lk := c.literalKind(literal); tag != "" && lk != "" && lk != tag {
		err := validate.ReferenceTypeMismatch(typ, field, tag, []string{lk})
		err.Value = literal
		err.Reason = "type disagrees with the reference"
		return Fail, err
	}

	kinds := TargetKinds(permitted)
	if len(kinds) == 0 {
		return NotApplicable, nil
	}
	kind := c.Kind(literal, tag)
	if kind == "" {
		return NotApplicable, nil
	}
	for _, k := range kinds {
		if k == kind || anyKind[k] {
			return Pass, nil
		}
	}
	err := validate.ReferenceTypeMismatch(typ, field, kind, kinds)
	err.Value = literal
	return Fail, err
}

// Kind is Checker.Kind against schema.Default.
func Kind(literal, typeTag string) string {
	return defaultChecker.Kind(literal, typeTag)
}

// Check is Checker.Check against schema.Default.
func Check(typ, field string, p Pointer, permitted []string) (Outcome, error) {
	return defaultChecker.Check(typ, field, p, permitted)
}

// TargetKinds normalizes permitted targets, which may be type names or
// StructureDefinition URLs, to kind names without duplicates.
func TargetKinds(permitted []string) []string {
	if len(permitted) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(permitted))
	kinds := make([]string, 0, len(permitted))
	for _, p := range permitted {
		k := typeFromProfile(p)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds
}

// TagKind returns the resource kind named by a Reference.type value. The tag
// is a uri: "Organization" and
// "http://hl7.org/fhir/StructureDefinition/Organization" name the same kind.
func TagKind(typeTag string) string {
	if typeTag == "" {
		return ""
	}
	return typeFromProfile(typeTag)
}

// typeFromProfile extracts the type from a StructureDefinition URL; plain
// type names are returned unchanged.
func typeFromProfile(profileURL string) string {
	const basePrefix = "http://hl7.org/fhir/StructureDefinition/"
	if strings.HasPrefix(profileURL, basePrefix) {
		return strings.TrimPrefix(profileURL, basePrefix)
	}
	profileURL, _, _ = strings.Cut(profileURL, "|")
	if i := strings.LastIndexByte(profileURL, '/'); i >= 0 {
		return profileURL[i+1:]
	}
	return profileURL
}

// ValidFormat reports whether literal is a well-formed relative, absolute,
// fragment or URN reference.
func ValidFormat(literal string) bool {
	if literal == "" {
		return true
	}
	return relativeRefPattern.MatchString(literal) ||
		absoluteRefPattern.MatchString(literal) ||
		fragmentRefPattern.MatchString(literal) ||
		urnUUIDPattern.MatchString(literal) ||
		urnOIDPattern.MatchString(literal)
}

// Split returns the kind and logical id of a relative or absolute literal,
// ignoring any _history suffix.
func Split(literal string) (kind, id string, ok bool) {
	literal, _, _ = strings.Cut(literal, "/_history/")
	i := strings.LastIndexByte(literal, '/')
	if i <= 0 || i == len(literal)-1 {
		return "", "", false
	}
	id = literal[i+1:]
	rest := literal[:i]
	kind = rest[strings.LastIndexByte(rest, '/')+1:]
	if kind == "" {
		return "", "", false
	}
	return kind, id, true
}

// FragmentID returns the id of a contained-resource reference ("#c1" gives
// "c1").
func FragmentID(literal string) (string, bool) {
	if !fragmentRefPattern.MatchString(literal) {
		return "", false
	}
	return literal[1:], true
}
