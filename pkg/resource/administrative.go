package resource

import (
	"slices"

	"github.com/gofhir/fhirmodel/pkg/build"
	"github.com/gofhir/fhirmodel/pkg/choice"
	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/element"
)

// Patient holds demographics about a person receiving care.
type Patient struct {
	ResourceHeader
	identifier           []*datatype.Identifier
	active               *datatype.Boolean
	name                 []*datatype.HumanName
	telecom              []*datatype.ContactPoint
	gender               *datatype.Code
	birthDate            *datatype.Date
	deceased             choice.Value
	maritalStatus        *datatype.CodeableConcept
	multipleBirth        choice.Value
	generalPractitioner  []*datatype.Reference
	managingOrganization *datatype.Reference
}

func (*Patient) TypeName() string { return "Patient" }

func (p *Patient) Identifier() []*datatype.Identifier         { return p.identifier }
func (p *Patient) Active() *datatype.Boolean                  { return p.active }
func (p *Patient) Name() []*datatype.HumanName                { return p.name }
func (p *Patient) Telecom() []*datatype.ContactPoint          { return p.telecom }
func (p *Patient) Gender() *datatype.Code                     { return p.gender }
func (p *Patient) BirthDate() *datatype.Date                  { return p.birthDate }
func (p *Patient) Deceased() choice.Value                     { return p.deceased }
func (p *Patient) MaritalStatus() *datatype.CodeableConcept   { return p.maritalStatus }
func (p *Patient) MultipleBirth() choice.Value                { return p.multipleBirth }
func (p *Patient) GeneralPractitioner() []*datatype.Reference { return p.generalPractitioner }
func (p *Patient) ManagingOrganization() *datatype.Reference  { return p.managingOrganization }

// DeceasedBoolean returns deceased[x] when it holds a boolean.
func (p *Patient) DeceasedBoolean() (*datatype.Boolean, bool) {
	return choice.As[*datatype.Boolean](p.deceased)
}

// DeceasedDateTime returns deceased[x] when it holds a dateTime.
func (p *Patient) DeceasedDateTime() (*datatype.DateTime, bool) {
	return choice.As[*datatype.DateTime](p.deceased)
}

// IsDeceased reports whether deceased[x] says the patient has died.
func (p *Patient) IsDeceased() bool {
	switch v := p.deceased.Node().(type) {
	case *datatype.Boolean:
		b, _ := v.Value()
		return b
	case *datatype.DateTime:
		return true
	default:
		return false
	}
}

func (p *Patient) HasChildren() bool {
	return element.HasFieldContent(p.Fields())
}

func (p *Patient) Fields() []element.Field {
	return append(p.ResourceFields(),
		element.Many("identifier", p.identifier),
		element.One("active", p.active),
		element.Many("name", p.name),
		element.Many("telecom", p.telecom),
		element.One("gender", p.gender),
		element.One("birthDate", p.birthDate),
		element.OneOf("deceased", p.deceased.Node()),
		element.One("maritalStatus", p.maritalStatus),
		element.OneOf("multipleBirth", p.multipleBirth.Node()),
		element.Many("generalPractitioner", p.generalPractitioner),
		element.One("managingOrganization", p.managingOrganization),
	)
}

// PatientBuilder builds Patient resources. Deceased holds a Boolean or a
// DateTime; MultipleBirth a Boolean or an Integer.
type PatientBuilder struct {
	ResourceBuilder
	Identifier           []*datatype.Identifier
	Active               *datatype.Boolean
	Name                 []*datatype.HumanName
	Telecom              []*datatype.ContactPoint
	Gender               *datatype.Code
	BirthDate            *datatype.Date
	Deceased             element.Node
	MaritalStatus        *datatype.CodeableConcept
	MultipleBirth        element.Node
	GeneralPractitioner  []*datatype.Reference
	ManagingOrganization *datatype.Reference
}

func (b *PatientBuilder) AddIdentifier(v ...*datatype.Identifier) {
	b.Identifier = append(b.Identifier, v...)
}

func (b *PatientBuilder) AddName(v ...*datatype.HumanName) { b.Name = append(b.Name, v...) }

func (b *PatientBuilder) AddTelecom(v ...*datatype.ContactPoint) {
	b.Telecom = append(b.Telecom, v...)
}

func (b *PatientBuilder) AddGeneralPractitioner(v ...*datatype.Reference) {
	b.GeneralPractitioner = append(b.GeneralPractitioner, v...)
}

func (b *PatientBuilder) Build() (*Patient, error) {
	c := checker("Patient")
	return build.Finish(c, &Patient{
		ResourceHeader:       b.buildHeader(c),
		identifier:           slices.Clone(b.Identifier),
		active:               b.Active,
		name:                 slices.Clone(b.Name),
		telecom:              slices.Clone(b.Telecom),
		gender:               b.Gender,
		birthDate:            b.BirthDate,
		deceased:             c.Choice("deceased", b.Deceased),
		maritalStatus:        b.MaritalStatus,
		multipleBirth:        c.Choice("multipleBirth", b.MultipleBirth),
		generalPractitioner:  slices.Clone(b.GeneralPractitioner),
		managingOrganization: b.ManagingOrganization,
	})
}

func (p *Patient) ToBuilder() *PatientBuilder {
	return &PatientBuilder{
		ResourceBuilder:      ResourceBuilderFrom(&p.ResourceHeader),
		Identifier:           slices.Clone(p.identifier),
		Active:               p.active,
		Name:                 slices.Clone(p.name),
		Telecom:              slices.Clone(p.telecom),
		Gender:               p.gender,
		BirthDate:            p.birthDate,
		Deceased:             p.deceased.Node(),
		MaritalStatus:        p.maritalStatus,
		MultipleBirth:        p.multipleBirth.Node(),
		GeneralPractitioner:  slices.Clone(p.generalPractitioner),
		ManagingOrganization: p.managingOrganization,
	}
}

// Organization is a group of people or organizations formed for a purpose,
// such as a provider, insurer or department.
type Organization struct {
	ResourceHeader
	identifier []*datatype.Identifier
	active     *datatype.Boolean
	typ        []*datatype.CodeableConcept
	name       *datatype.String
	alias      []*datatype.String
	telecom    []*datatype.ContactPoint
	partOf     *datatype.Reference
}

func (*Organization) TypeName() string { return "Organization" }

func (o *Organization) Identifier() []*datatype.Identifier { return o.identifier }
func (o *Organization) Active() *datatype.Boolean          { return o.active }
func (o *Organization) Type() []*datatype.CodeableConcept  { return o.typ }
func (o *Organization) Name() *datatype.String             { return o.name }
func (o *Organization) Alias() []*datatype.String          { return o.alias }
func (o *Organization) Telecom() []*datatype.ContactPoint  { return o.telecom }
func (o *Organization) PartOf() *datatype.Reference        { return o.partOf }

func (o *Organization) HasChildren() bool {
	return element.HasFieldContent(o.Fields())
}

func (o *Organization) Fields() []element.Field {
	return append(o.ResourceFields(),
		element.Many("identifier", o.identifier),
		element.One("active", o.active),
		element.Many("type", o.typ),
		element.One("name", o.name),
		element.Many("alias", o.alias),
		element.Many("telecom", o.telecom),
		element.One("partOf", o.partOf),
	)
}

// OrganizationBuilder builds Organization resources.
type OrganizationBuilder struct {
	ResourceBuilder
	Identifier []*datatype.Identifier
	Active     *datatype.Boolean
	Type       []*datatype.CodeableConcept
	Name       *datatype.String
	Alias      []*datatype.String
	Telecom    []*datatype.ContactPoint
	PartOf     *datatype.Reference
}

func (b *OrganizationBuilder) AddIdentifier(v ...*datatype.Identifier) {
	b.Identifier = append(b.Identifier, v...)
}

func (b *OrganizationBuilder) AddType(v ...*datatype.CodeableConcept) {
	b.Type = append(b.Type, v...)
}

func (b *OrganizationBuilder) AddAlias(v ...*datatype.String) { b.Alias = append(b.Alias, v...) }

func (b *OrganizationBuilder) AddTelecom(v ...*datatype.ContactPoint) {
	b.Telecom = append(b.Telecom, v...)
}

func (b *OrganizationBuilder) Build() (*Organization, error) {
	c := checker("Organization")
	return build.Finish(c, &Organization{
		ResourceHeader: b.buildHeader(c),
		identifier:     slices.Clone(b.Identifier),
		active:         b.Active,
		typ:            slices.Clone(b.Type),
		name:           b.Name,
		alias:          slices.Clone(b.Alias),
		telecom:        slices.Clone(b.Telecom),
		partOf:         b.PartOf,
	})
}

func (o *Organization) ToBuilder() *OrganizationBuilder {
	return &OrganizationBuilder{
		ResourceBuilder: ResourceBuilderFrom(&o.ResourceHeader),
		Identifier:      slices.Clone(o.identifier),
		Active:          o.active,
		Type:            slices.Clone(o.typ),
		Name:            o.name,
		Alias:           slices.Clone(o.alias),
		Telecom:         slices.Clone(o.telecom),
		PartOf:          o.partOf,
	}
}

// Coverage is an insurance or self-pay arrangement that may pay for care.
type Coverage struct {
	ResourceHeader
	identifier   []*datatype.Identifier
	status       *datatype.Code
	typ          *datatype.CodeableConcept
	subscriber   *datatype.Reference
	subscriberID *datatype.String
	beneficiary  *datatype.Reference
	dependent    *datatype.String
	period       *datatype.Period
	payor        []*datatype.Reference
	order        *datatype.PositiveInt
	network      *datatype.String
}

func (*Coverage) TypeName() string { return "Coverage" }

func (c *Coverage) Identifier() []*datatype.Identifier { return c.identifier }
func (c *Coverage) Status() *datatype.Code             { return c.status }
func (c *Coverage) Type() *datatype.CodeableConcept    { return c.typ }
func (c *Coverage) Subscriber() *datatype.Reference    { return c.subscriber }
func (c *Coverage) SubscriberID() *datatype.String     { return c.subscriberID }
func (c *Coverage) Beneficiary() *datatype.Reference   { return c.beneficiary }
func (c *Coverage) Dependent() *datatype.String        { return c.dependent }
func (c *Coverage) Period() *datatype.Period           { return c.period }
func (c *Coverage) Payor() []*datatype.Reference       { return c.payor }
func (c *Coverage) Order() *datatype.PositiveInt       { return c.order }
func (c *Coverage) Network() *datatype.String          { return c.network }

func (c *Coverage) HasChildren() bool {
	return element.HasFieldContent(c.Fields())
}

func (c *Coverage) Fields() []element.Field {
	return append(c.ResourceFields(),
		element.Many("identifier", c.identifier),
		element.One("status", c.status),
		element.One("type", c.typ),
		element.One("subscriber", c.subscriber),
		element.One("subscriberId", c.subscriberID),
		element.One("beneficiary", c.beneficiary),
		element.One("dependent", c.dependent),
		element.One("period", c.period),
		element.Many("payor", c.payor),
		element.One("order", c.order),
		element.One("network", c.network),
	)
}

// CoverageBuilder builds Coverage resources.
type CoverageBuilder struct {
	ResourceBuilder
	Identifier   []*datatype.Identifier
	Status       *datatype.Code
	Type         *datatype.CodeableConcept
	Subscriber   *datatype.Reference
	SubscriberID *datatype.String
	Beneficiary  *datatype.Reference
	Dependent    *datatype.String
	Period       *datatype.Period
	Payor        []*datatype.Reference
	Order        *datatype.PositiveInt
	Network      *datatype.String
}

func (b *CoverageBuilder) AddIdentifier(v ...*datatype.Identifier) {
	b.Identifier = append(b.Identifier, v...)
}

func (b *CoverageBuilder) AddPayor(v ...*datatype.Reference) { b.Payor = append(b.Payor, v...) }

func (b *CoverageBuilder) Build() (*Coverage, error) {
	c := checker("Coverage")
	return build.Finish(c, &Coverage{
		ResourceHeader: b.buildHeader(c),
		identifier:     slices.Clone(b.Identifier),
		status:         b.Status,
		typ:            b.Type,
		subscriber:     b.Subscriber,
		subscriberID:   b.SubscriberID,
		beneficiary:    b.Beneficiary,
		dependent:      b.Dependent,
		period:         b.Period,
		payor:          slices.Clone(b.Payor),
		order:          b.Order,
		network:        b.Network,
	})
}

func (c *Coverage) ToBuilder() *CoverageBuilder {
	return &CoverageBuilder{
		ResourceBuilder: ResourceBuilderFrom(&c.ResourceHeader),
		Identifier:      slices.Clone(c.identifier),
		Status:          c.status,
		Type:            c.typ,
		Subscriber:      c.subscriber,
		SubscriberID:    c.subscriberID,
		Beneficiary:     c.beneficiary,
		Dependent:       c.dependent,
		Period:          c.period,
		Payor:           slices.Clone(c.payor),
		Order:           c.order,
		Network:         c.network,
	}
}
