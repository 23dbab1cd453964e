package validate

import "github.com/gofhir/fhirmodel/pkg/element"

// RequireNonNull fails when a required single-valued field is absent.
func RequireNonNull(typ, field string, present bool) error {
	if !present {
		return MissingRequiredField(typ, field)
	}
	return nil
}

// RequireNonEmpty fails when a required repeating field has no entries.
func RequireNonEmpty(typ, field string, n int) error {
	if n == 0 {
		return MissingRequiredField(typ, field)
	}
	return nil
}

// RequireChildren enforces that a root node carries at least one field. The
// logical id counts for roots.
func RequireChildren(n element.Node) error {
	if !element.HasAnyField(n) {
		return EmptyComposite(n.TypeName())
	}
	return nil
}

// RequireValueOrChildren enforces that a non-root node is a primitive with a
// value or has child content. The element id alone is not content.
func RequireValueOrChildren(n element.Node) error {
	if !element.HasContent(n) {
		return EmptyComposite(n.TypeName())
	}
	return nil
}
