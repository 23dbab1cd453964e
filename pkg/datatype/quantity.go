package datatype

import (
	"time"

	"github.com/gofhir/fhirmodel/pkg/element"
)

// Period is a time range given by optional start and end.
type Period struct {
	element.Header
	start *DateTime
	end   *DateTime
}

func (*Period) TypeName() string { return "Period" }

func (p *Period) Start() *DateTime { return p.start }
func (p *Period) End() *DateTime   { return p.end }

// Contains reports whether t lies within the period. An absent bound is
// open.
func (p *Period) Contains(t time.Time) bool {
	if p.start != nil {
		if s, ok := p.start.Time(); ok && t.Before(s) {
			return false
		}
	}
	if p.end != nil {
		if e, ok := p.end.Time(); ok && t.After(e) {
			return false
		}
	}
	return true
}

func (p *Period) HasChildren() bool {
	return element.HasFieldContent(p.Fields())
}

func (p *Period) Fields() []element.Field {
	return append(p.HeaderFields(),
		element.One("start", p.start),
		element.One("end", p.end),
	)
}

// PeriodBuilder builds Period nodes.
type PeriodBuilder struct {
	element.HeaderBuilder
	Start *DateTime
	End   *DateTime
}

func (b *PeriodBuilder) Build() (*Period, error) {
	return check(&Period{Header: b.BuildHeader(), start: b.Start, end: b.End})
}

func (p *Period) ToBuilder() *PeriodBuilder {
	return &PeriodBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&p.Header),
		Start:         p.start,
		End:           p.end,
	}
}

// NewPeriod returns a period from dateTime strings. Empty strings are left
// absent.
func NewPeriod(start, end string) (*Period, error) {
	var errs error
	b := &PeriodBuilder{
		Start: optional(start, NewDateTime, &errs),
		End:   optional(end, NewDateTime, &errs),
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}

// MustPeriod is NewPeriod that panics on error.
func MustPeriod(start, end string) *Period {
	return must(NewPeriod(start, end))
}

// Quantity is a measured amount with optional unit.
type Quantity struct {
	element.Header
	value      *Decimal
	comparator *Code
	unit       *String
	system     *URI
	code       *Code
}

func (*Quantity) TypeName() string { return "Quantity" }

func (q *Quantity) Value() *Decimal   { return q.value }
func (q *Quantity) Comparator() *Code { return q.comparator }
func (q *Quantity) Unit() *String     { return q.unit }
func (q *Quantity) System() *URI      { return q.system }
func (q *Quantity) Code() *Code       { return q.code }

func (q *Quantity) HasChildren() bool {
	return element.HasFieldContent(q.Fields())
}

func (q *Quantity) Fields() []element.Field {
	return append(q.HeaderFields(),
		element.One("value", q.value),
		element.One("comparator", q.comparator),
		element.One("unit", q.unit),
		element.One("system", q.system),
		element.One("code", q.code),
	)
}

// QuantityBuilder builds Quantity nodes.
type QuantityBuilder struct {
	element.HeaderBuilder
	Value      *Decimal
	Comparator *Code
	Unit       *String
	System     *URI
	Code       *Code
}

func (b *QuantityBuilder) Build() (*Quantity, error) {
	return check(&Quantity{
		Header:     b.BuildHeader(),
		value:      b.Value,
		comparator: b.Comparator,
		unit:       b.Unit,
		system:     b.System,
		code:       b.Code,
	})
}

func (q *Quantity) ToBuilder() *QuantityBuilder {
	return &QuantityBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&q.Header),
		Value:         q.value,
		Comparator:    q.comparator,
		Unit:          q.unit,
		System:        q.system,
		Code:          q.code,
	}
}

// UCUM is the system of units used by NewUCUMQuantity.
const UCUM = "http://unitsofmeasure.org"

// NewUCUMQuantity returns a quantity of value in the given UCUM unit.
func NewUCUMQuantity(value, unit string) (*Quantity, error) {
	var errs error
	b := &QuantityBuilder{
		Value: optional(value, ParseDecimal, &errs),
		Unit:  optional(unit, NewString, &errs),
		Code:  optional(unit, NewCode, &errs),
	}
	if b.Code != nil {
		b.System = optional(UCUM, NewURI, &errs)
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}

// Money is an amount in a currency.
type Money struct {
	element.Header
	value    *Decimal
	currency *Code
}

func (*Money) TypeName() string { return "Money" }

func (m *Money) Value() *Decimal { return m.value }
func (m *Money) Currency() *Code { return m.currency }

func (m *Money) HasChildren() bool {
	return element.HasFieldContent(m.Fields())
}

func (m *Money) Fields() []element.Field {
	return append(m.HeaderFields(),
		element.One("value", m.value),
		element.One("currency", m.currency),
	)
}

// MoneyBuilder builds Money nodes.
type MoneyBuilder struct {
	element.HeaderBuilder
	Value    *Decimal
	Currency *Code
}

func (b *MoneyBuilder) Build() (*Money, error) {
	return check(&Money{Header: b.BuildHeader(), value: b.Value, currency: b.Currency})
}

func (m *Money) ToBuilder() *MoneyBuilder {
	return &MoneyBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&m.Header),
		Value:         m.value,
		Currency:      m.currency,
	}
}

// NewMoney returns an amount in an ISO 4217 currency.
func NewMoney(value, currency string) (*Money, error) {
	var errs error
	b := &MoneyBuilder{
		Value:    optional(value, ParseDecimal, &errs),
		Currency: optional(currency, NewCode, &errs),
	}
	if errs != nil {
		return nil, errs
	}
	return b.Build()
}

// MustMoney is NewMoney that panics on error.
func MustMoney(value, currency string) *Money {
	return must(NewMoney(value, currency))
}
