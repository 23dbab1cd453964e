package datatype

import (
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

// primitive is the common body of every primitive node: a header and an
// optional value. A primitive without a value must carry extensions.
type primitive[V any] struct {
	element.Header
	value V
	ok    bool
}

// Value returns the value and whether it is present.
func (p *primitive[V]) Value() (V, bool) {
	return p.value, p.ok
}

// HasValue reports whether the value is present.
func (p *primitive[V]) HasValue() bool {
	return p.ok
}

// PrimitiveValue returns the value as an any.
func (p *primitive[V]) PrimitiveValue() (any, bool) {
	if !p.ok {
		return nil, false
	}
	return p.value, true
}

// Fields lists the header fields and the value.
func (p *primitive[V]) Fields() []element.Field {
	return append(p.HeaderFields(), element.Attr("value", p.value, p.ok))
}

// PrimitiveBuilder stages a primitive. Value nil means no value.
type PrimitiveBuilder[V any] struct {
	element.HeaderBuilder
	Value *V
}

// SetValue stages v.
func (b *PrimitiveBuilder[V]) SetValue(v V) {
	b.Value = &v
}

// ClearValue removes the staged value.
func (b *PrimitiveBuilder[V]) ClearValue() {
	b.Value = nil
}

func (b *PrimitiveBuilder[V]) primitive() primitive[V] {
	p := primitive[V]{Header: b.BuildHeader()}
	if b.Value != nil {
		p.value, p.ok = *b.Value, true
	}
	return p
}

func seed[V any](p *primitive[V]) PrimitiveBuilder[V] {
	b := PrimitiveBuilder[V]{HeaderBuilder: element.HeaderBuilderFrom(&p.Header)}
	if p.ok {
		v := p.value
		b.Value = &v
	}
	return b
}

func valued[V any](v V) PrimitiveBuilder[V] {
	return PrimitiveBuilder[V]{Value: &v}
}

// Lexical forms, from the FHIR R4 data type definitions.
var (
	decimalRegex   = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)
	uriRegex       = regexp.MustCompile(`^\S*$`)
	canonicalRegex = regexp.MustCompile(`^\S+(\|\S+)?$`)
	codeRegex      = regexp.MustCompile(`^\S+( \S+)*$`)
	idRegex        = regexp.MustCompile(`^[A-Za-z0-9\-.]{1,64}$`)
	oidRegex       = regexp.MustCompile(`^urn:oid:[012](\.(0|[1-9]\d*))+$`)
	instantRegex   = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[012])-(0[1-9]|[12]\d|3[01])T([01]\d|2[0-3]):[0-5]\d:([0-5]\d|60)(\.\d+)?(Z|[+-]((0\d|1[0-3]):[0-5]\d|14:00))$`)
	dateRegex      = regexp.MustCompile(`^(\d{4})(-(0[1-9]|1[012])(-(0[1-9]|[12]\d|3[01]))?)?$`)
	dateTimeRegex  = regexp.MustCompile(`^(\d{4})(-(0[1-9]|1[012])(-(0[1-9]|[12]\d|3[01])(T([01]\d|2[0-3]):[0-5]\d:([0-5]\d|60)(\.\d+)?(Z|[+-]((0\d|1[0-3]):[0-5]\d|14:00)))?)?)?$`)
	timeRegex      = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:([0-5]\d|60)(\.\d+)?$`)
)

// lexical checks a string primitive's value against a pattern.
func lexical(typ string, p *primitive[string], re *regexp.Regexp, format string) error {
	if !p.ok || re.MatchString(p.value) {
		return nil
	}
	return validate.InvalidValue(typ, "value", p.value, "expected "+format)
}

// nonBlank rejects empty and whitespace-only strings, which FHIR does not
// allow as values.
func nonBlank(typ string, p *primitive[string]) error {
	if !p.ok {
		return nil
	}
	if strings.TrimSpace(p.value) == "" {
		return validate.InvalidValue(typ, "value", p.value, "empty or whitespace-only string")
	}
	if !utf8.ValidString(p.value) {
		return validate.InvalidValue(typ, "value", p.value, "invalid UTF-8")
	}
	return nil
}

func checkUUID(p *primitive[string]) error {
	if !p.ok {
		return nil
	}
	rest, found := strings.CutPrefix(p.value, "urn:uuid:")
	if !found {
		return validate.InvalidValue("uuid", "value", p.value, "expected urn:uuid:...")
	}
	if _, err := uuid.Parse(rest); err != nil || len(rest) != 36 {
		return validate.InvalidValue("uuid", "value", p.value, "malformed UUID")
	}
	return nil
}

func checkBase64(p *primitive[string]) error {
	if !p.ok {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(p.value); err != nil {
		return validate.InvalidValue("base64Binary", "value", p.value, fmt.Sprintf("invalid base64: %v", err))
	}
	return nil
}

func checkXHTML(p *primitive[string]) error {
	if !p.ok {
		return nil
	}
	if !strings.HasPrefix(strings.TrimSpace(p.value), "<div") {
		return validate.InvalidValue("xhtml", "value", p.value, "xhtml must start with a <div> element")
	}
	return nil
}

func checkRange(typ string, p *primitive[uint32], minVal uint32) error {
	if !p.ok {
		return nil
	}
	if p.value < minVal || p.value > math.MaxInt32 {
		return validate.InvalidValue(typ, "value", fmt.Sprint(p.value), fmt.Sprintf("out of range %d..%d", minVal, math.MaxInt32))
	}
	return nil
}
