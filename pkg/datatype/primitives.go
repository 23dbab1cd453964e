package datatype

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gofhir/fhirmodel/pkg/validate"
)

// Boolean is the FHIR boolean primitive.
type Boolean struct{ primitive[bool] }

func (*Boolean) TypeName() string { return "boolean" }

// BooleanBuilder builds Boolean nodes.
type BooleanBuilder struct{ PrimitiveBuilder[bool] }

func (b *BooleanBuilder) Build() (*Boolean, error) {
	return check(&Boolean{b.primitive()})
}

func (n *Boolean) ToBuilder() *BooleanBuilder {
	return &BooleanBuilder{seed(&n.primitive)}
}

// NewBoolean returns a boolean holding v.
func NewBoolean(v bool) *Boolean {
	return must((&BooleanBuilder{valued(v)}).Build())
}

// Integer is the FHIR integer primitive, a signed 32-bit value.
type Integer struct{ primitive[int32] }

func (*Integer) TypeName() string { return "integer" }

// IntegerBuilder builds Integer nodes.
type IntegerBuilder struct{ PrimitiveBuilder[int32] }

func (b *IntegerBuilder) Build() (*Integer, error) {
	return check(&Integer{b.primitive()})
}

func (n *Integer) ToBuilder() *IntegerBuilder {
	return &IntegerBuilder{seed(&n.primitive)}
}

// NewInteger returns an integer holding v.
func NewInteger(v int32) *Integer {
	return must((&IntegerBuilder{valued(v)}).Build())
}

// PositiveInt is a FHIR positiveInt: 1 through 2^31-1.
type PositiveInt struct{ primitive[uint32] }

func (*PositiveInt) TypeName() string { return "positiveInt" }

// PositiveIntBuilder builds PositiveInt nodes.
type PositiveIntBuilder struct{ PrimitiveBuilder[uint32] }

func (b *PositiveIntBuilder) Build() (*PositiveInt, error) {
	n := &PositiveInt{b.primitive()}
	return check(n, checkRange("positiveInt", &n.primitive, 1))
}

func (n *PositiveInt) ToBuilder() *PositiveIntBuilder {
	return &PositiveIntBuilder{seed(&n.primitive)}
}

// NewPositiveInt returns a positiveInt holding v.
func NewPositiveInt(v uint32) (*PositiveInt, error) {
	return (&PositiveIntBuilder{valued(v)}).Build()
}

// MustPositiveInt is NewPositiveInt that panics on error.
func MustPositiveInt(v uint32) *PositiveInt { return must(NewPositiveInt(v)) }

// UnsignedInt is a FHIR unsignedInt: 0 through 2^31-1.
type UnsignedInt struct{ primitive[uint32] }

func (*UnsignedInt) TypeName() string { return "unsignedInt" }

// UnsignedIntBuilder builds UnsignedInt nodes.
type UnsignedIntBuilder struct{ PrimitiveBuilder[uint32] }

func (b *UnsignedIntBuilder) Build() (*UnsignedInt, error) {
	n := &UnsignedInt{b.primitive()}
	return check(n, checkRange("unsignedInt", &n.primitive, 0))
}

func (n *UnsignedInt) ToBuilder() *UnsignedIntBuilder {
	return &UnsignedIntBuilder{seed(&n.primitive)}
}

// NewUnsignedInt returns an unsignedInt holding v.
func NewUnsignedInt(v uint32) (*UnsignedInt, error) {
	return (&UnsignedIntBuilder{valued(v)}).Build()
}

// Decimal is the FHIR decimal primitive. The scale of the value is
// significant: 1.5 and 1.50 are different values.
type Decimal struct{ primitive[decimal.Decimal] }

func (*Decimal) TypeName() string { return "decimal" }

// String returns the value with its original scale.
func (n *Decimal) String() string {
	if !n.ok {
		return ""
	}
	return n.value.StringFixed(-n.value.Exponent())
}

// DecimalBuilder builds Decimal nodes.
type DecimalBuilder struct {
	PrimitiveBuilder[decimal.Decimal]
}

func (b *DecimalBuilder) Build() (*Decimal, error) {
	return check(&Decimal{b.primitive()})
}

func (n *Decimal) ToBuilder() *DecimalBuilder {
	return &DecimalBuilder{seed(&n.primitive)}
}

// NewDecimal returns a decimal holding d.
func NewDecimal(d decimal.Decimal) *Decimal {
	return must((&DecimalBuilder{valued(d)}).Build())
}

// ParseDecimal parses the FHIR lexical form of a decimal, keeping its scale.
func ParseDecimal(s string) (*Decimal, error) {
	if !decimalRegex.MatchString(s) {
		return nil, validate.InvalidValue("decimal", "value", s, "expected a decimal number")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, validate.InvalidValue("decimal", "value", s, err.Error())
	}
	return NewDecimal(d), nil
}

// MustDecimal is ParseDecimal that panics on error.
func MustDecimal(s string) *Decimal { return must(ParseDecimal(s)) }

// String is the FHIR string primitive.
type String struct{ primitive[string] }

func (*String) TypeName() string { return "string" }

// StringBuilder builds String nodes.
type StringBuilder struct{ PrimitiveBuilder[string] }

func (b *StringBuilder) Build() (*String, error) {
	n := &String{b.primitive()}
	return check(n, nonBlank("string", &n.primitive))
}

func (n *String) ToBuilder() *StringBuilder {
	return &StringBuilder{seed(&n.primitive)}
}

// NewString returns a string holding v.
func NewString(v string) (*String, error) {
	return (&StringBuilder{valued(v)}).Build()
}

// MustString is NewString that panics on error.
func MustString(v string) *String { return must(NewString(v)) }

// Code is a FHIR code: a token with no leading, trailing or double spaces.
type Code struct{ primitive[string] }

func (*Code) TypeName() string { return "code" }

// CodeBuilder builds Code nodes.
type CodeBuilder struct{ PrimitiveBuilder[string] }

func (b *CodeBuilder) Build() (*Code, error) {
	n := &Code{b.primitive()}
	return check(n, lexical("code", &n.primitive, codeRegex, "a code without leading, trailing or repeated whitespace"))
}

func (n *Code) ToBuilder() *CodeBuilder {
	return &CodeBuilder{seed(&n.primitive)}
}

// NewCode returns a code holding v.
func NewCode(v string) (*Code, error) {
	return (&CodeBuilder{valued(v)}).Build()
}

// MustCode is NewCode that panics on error.
func MustCode(v string) *Code { return must(NewCode(v)) }

// ID is a FHIR id: up to 64 letters, digits, '-' and '.'.
type ID struct{ primitive[string] }

func (*ID) TypeName() string { return "id" }

// IDBuilder builds ID nodes.
type IDBuilder struct{ PrimitiveBuilder[string] }

func (b *IDBuilder) Build() (*ID, error) {
	n := &ID{b.primitive()}
	return check(n, lexical("id", &n.primitive, idRegex, "1-64 characters of [A-Za-z0-9-.]"))
}

func (n *ID) ToBuilder() *IDBuilder {
	return &IDBuilder{seed(&n.primitive)}
}

// NewID returns an id holding v.
func NewID(v string) (*ID, error) {
	return (&IDBuilder{valued(v)}).Build()
}

// MustID is NewID that panics on error.
func MustID(v string) *ID { return must(NewID(v)) }

// Markdown is the FHIR markdown primitive.
type Markdown struct{ primitive[string] }

func (*Markdown) TypeName() string { return "markdown" }

// MarkdownBuilder builds Markdown nodes.
type MarkdownBuilder struct{ PrimitiveBuilder[string] }

func (b *MarkdownBuilder) Build() (*Markdown, error) {
	n := &Markdown{b.primitive()}
	return check(n, nonBlank("markdown", &n.primitive))
}

func (n *Markdown) ToBuilder() *MarkdownBuilder {
	return &MarkdownBuilder{seed(&n.primitive)}
}

// NewMarkdown returns a markdown holding v.
func NewMarkdown(v string) (*Markdown, error) {
	return (&MarkdownBuilder{valued(v)}).Build()
}

// URI is the FHIR uri primitive.
type URI struct{ primitive[string] }

func (*URI) TypeName() string { return "uri" }

// URIBuilder builds URI nodes.
type URIBuilder struct{ PrimitiveBuilder[string] }

func (b *URIBuilder) Build() (*URI, error) {
	n := &URI{b.primitive()}
	return check(n, lexical("uri", &n.primitive, uriRegex, "a URI without whitespace"))
}

func (n *URI) ToBuilder() *URIBuilder {
	return &URIBuilder{seed(&n.primitive)}
}

// NewURI returns a uri holding v.
func NewURI(v string) (*URI, error) {
	return (&URIBuilder{valued(v)}).Build()
}

// MustURI is NewURI that panics on error.
func MustURI(v string) *URI { return must(NewURI(v)) }

// URL is the FHIR url primitive.
type URL struct{ primitive[string] }

func (*URL) TypeName() string { return "url" }

// URLBuilder builds URL nodes.
type URLBuilder struct{ PrimitiveBuilder[string] }

func (b *URLBuilder) Build() (*URL, error) {
	n := &URL{b.primitive()}
	return check(n, lexical("url", &n.primitive, uriRegex, "a URL without whitespace"))
}

func (n *URL) ToBuilder() *URLBuilder {
	return &URLBuilder{seed(&n.primitive)}
}

// NewURL returns a url holding v.
func NewURL(v string) (*URL, error) {
	return (&URLBuilder{valued(v)}).Build()
}

// Canonical is a canonical URL, optionally followed by |version.
type Canonical struct{ primitive[string] }

func (*Canonical) TypeName() string { return "canonical" }

// CanonicalBuilder builds Canonical nodes.
type CanonicalBuilder struct{ PrimitiveBuilder[string] }

func (b *CanonicalBuilder) Build() (*Canonical, error) {
	n := &Canonical{b.primitive()}
	return check(n, lexical("canonical", &n.primitive, canonicalRegex, "url or url|version"))
}

func (n *Canonical) ToBuilder() *CanonicalBuilder {
	return &CanonicalBuilder{seed(&n.primitive)}
}

// NewCanonical returns a canonical holding v.
func NewCanonical(v string) (*Canonical, error) {
	return (&CanonicalBuilder{valued(v)}).Build()
}

// MustCanonical is NewCanonical that panics on error.
func MustCanonical(v string) *Canonical { return must(NewCanonical(v)) }

// OID is an OID expressed as a URI: urn:oid:1.2.3.
type OID struct{ primitive[string] }

func (*OID) TypeName() string { return "oid" }

// OIDBuilder builds OID nodes.
type OIDBuilder struct{ PrimitiveBuilder[string] }

func (b *OIDBuilder) Build() (*OID, error) {
	n := &OID{b.primitive()}
	return check(n, lexical("oid", &n.primitive, oidRegex, "urn:oid:<dotted digits>"))
}

func (n *OID) ToBuilder() *OIDBuilder {
	return &OIDBuilder{seed(&n.primitive)}
}

// NewOID returns an oid holding v.
func NewOID(v string) (*OID, error) {
	return (&OIDBuilder{valued(v)}).Build()
}

// UUID is a UUID expressed as a URI: urn:uuid:...
type UUID struct{ primitive[string] }

func (*UUID) TypeName() string { return "uuid" }

// UUID returns the parsed value.
func (n *UUID) UUID() (uuid.UUID, bool) {
	if !n.ok {
		return uuid.Nil, false
	}
	u, err := uuid.Parse(n.value[len("urn:uuid:"):])
	return u, err == nil
}

// UUIDBuilder builds UUID nodes.
type UUIDBuilder struct{ PrimitiveBuilder[string] }

func (b *UUIDBuilder) Build() (*UUID, error) {
	n := &UUID{b.primitive()}
	return check(n, checkUUID(&n.primitive))
}

func (n *UUID) ToBuilder() *UUIDBuilder {
	return &UUIDBuilder{seed(&n.primitive)}
}

// NewUUID returns a uuid holding v, which must have the urn:uuid: prefix.
func NewUUID(v string) (*UUID, error) {
	return (&UUIDBuilder{valued(v)}).Build()
}

// NewRandomUUID returns a uuid holding a fresh random (version 4) UUID.
func NewRandomUUID() *UUID {
	return must(NewUUID("urn:uuid:" + uuid.NewString()))
}

// Base64Binary is base64 encoded content.
type Base64Binary struct{ primitive[string] }

func (*Base64Binary) TypeName() string { return "base64Binary" }

// Base64BinaryBuilder builds Base64Binary nodes.
type Base64BinaryBuilder struct{ PrimitiveBuilder[string] }

func (b *Base64BinaryBuilder) Build() (*Base64Binary, error) {
	n := &Base64Binary{b.primitive()}
	return check(n, checkBase64(&n.primitive))
}

func (n *Base64Binary) ToBuilder() *Base64BinaryBuilder {
	return &Base64BinaryBuilder{seed(&n.primitive)}
}

// NewBase64Binary returns a base64Binary holding v.
func NewBase64Binary(v string) (*Base64Binary, error) {
	return (&Base64BinaryBuilder{valued(v)}).Build()
}

// Date is a date or partial date: YYYY, YYYY-MM or YYYY-MM-DD.
type Date struct{ primitive[string] }

func (*Date) TypeName() string { return "date" }

// Time returns the start of the date at the precision given.
func (n *Date) Time() (time.Time, bool) {
	return parseTemporal(n.value, n.ok)
}

// DateBuilder builds Date nodes.
type DateBuilder struct{ PrimitiveBuilder[string] }

func (b *DateBuilder) Build() (*Date, error) {
	n := &Date{b.primitive()}
	return check(n, lexical("date", &n.primitive, dateRegex, "YYYY, YYYY-MM or YYYY-MM-DD"))
}

func (n *Date) ToBuilder() *DateBuilder {
	return &DateBuilder{seed(&n.primitive)}
}

// NewDate returns a date holding v.
func NewDate(v string) (*Date, error) {
	return (&DateBuilder{valued(v)}).Build()
}

// MustDate is NewDate that panics on error.
func MustDate(v string) *Date { return must(NewDate(v)) }

// DateTime is a date, partial date or date and time with zone.
type DateTime struct{ primitive[string] }

func (*DateTime) TypeName() string { return "dateTime" }

// Time returns the instant at the precision given.
func (n *DateTime) Time() (time.Time, bool) {
	return parseTemporal(n.value, n.ok)
}

// DateTimeBuilder builds DateTime nodes.
type DateTimeBuilder struct{ PrimitiveBuilder[string] }

func (b *DateTimeBuilder) Build() (*DateTime, error) {
	n := &DateTime{b.primitive()}
	return check(n, lexical("dateTime", &n.primitive, dateTimeRegex, "YYYY, YYYY-MM, YYYY-MM-DD or YYYY-MM-DDThh:mm:ss+zz:zz"))
}

func (n *DateTime) ToBuilder() *DateTimeBuilder {
	return &DateTimeBuilder{seed(&n.primitive)}
}

// NewDateTime returns a dateTime holding v.
func NewDateTime(v string) (*DateTime, error) {
	return (&DateTimeBuilder{valued(v)}).Build()
}

// MustDateTime is NewDateTime that panics on error.
func MustDateTime(v string) *DateTime { return must(NewDateTime(v)) }

// Instant is a point in time with at least second precision and a zone.
type Instant struct{ primitive[string] }

func (*Instant) TypeName() string { return "instant" }

// Time returns the parsed instant.
func (n *Instant) Time() (time.Time, bool) {
	return parseTemporal(n.value, n.ok)
}

// InstantBuilder builds Instant nodes.
type InstantBuilder struct{ PrimitiveBuilder[string] }

func (b *InstantBuilder) Build() (*Instant, error) {
	n := &Instant{b.primitive()}
	return check(n, lexical("instant", &n.primitive, instantRegex, "YYYY-MM-DDThh:mm:ss.sss+zz:zz"))
}

func (n *Instant) ToBuilder() *InstantBuilder {
	return &InstantBuilder{seed(&n.primitive)}
}

// NewInstant returns an instant holding v.
func NewInstant(v string) (*Instant, error) {
	return (&InstantBuilder{valued(v)}).Build()
}

// InstantOf returns an instant holding t.
func InstantOf(t time.Time) *Instant {
	return must(NewInstant(t.Format(time.RFC3339Nano)))
}

// Time is a time of day, hh:mm:ss with optional fraction.
type Time struct{ primitive[string] }

func (*Time) TypeName() string { return "time" }

// TimeBuilder builds Time nodes.
type TimeBuilder struct{ PrimitiveBuilder[string] }

func (b *TimeBuilder) Build() (*Time, error) {
	n := &Time{b.primitive()}
	return check(n, lexical("time", &n.primitive, timeRegex, "hh:mm:ss"))
}

func (n *Time) ToBuilder() *TimeBuilder {
	return &TimeBuilder{seed(&n.primitive)}
}

// NewTime returns a time holding v.
func NewTime(v string) (*Time, error) {
	return (&TimeBuilder{valued(v)}).Build()
}

// Xhtml is limited XHTML content rooted at a div.
type Xhtml struct{ primitive[string] }

func (*Xhtml) TypeName() string { return "xhtml" }

// XhtmlBuilder builds Xhtml nodes.
type XhtmlBuilder struct{ PrimitiveBuilder[string] }

func (b *XhtmlBuilder) Build() (*Xhtml, error) {
	n := &Xhtml{b.primitive()}
	return check(n, checkXHTML(&n.primitive))
}

func (n *Xhtml) ToBuilder() *XhtmlBuilder {
	return &XhtmlBuilder{seed(&n.primitive)}
}

// NewXhtml returns an xhtml holding v.
func NewXhtml(v string) (*Xhtml, error) {
	return (&XhtmlBuilder{valued(v)}).Build()
}

// MustXhtml is NewXhtml that panics on error.
func MustXhtml(v string) *Xhtml { return must(NewXhtml(v)) }

var temporalLayouts = []string{"2006", "2006-01", "2006-01-02", time.RFC3339Nano}

func parseTemporal(v string, ok bool) (time.Time, bool) {
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatValue renders a primitive value in its FHIR lexical form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(-x.Exponent())
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
