package resource

import (
	"slices"

	"github.com/gofhir/fhirmodel/pkg/build"
	"github.com/gofhir/fhirmodel/pkg/choice"
	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/element"
)

// Claim is a request for payment of products or services rendered to a
// patient.
type Claim struct {
	ResourceHeader
	identifier     []*datatype.Identifier
	status         *datatype.Code
	typ            *datatype.CodeableConcept
	subType        *datatype.CodeableConcept
	use            *datatype.Code
	patient        *datatype.Reference
	billablePeriod *datatype.Period
	created        *datatype.DateTime
	enterer        *datatype.Reference
	insurer        *datatype.Reference
	provider       *datatype.Reference
	priority       *datatype.CodeableConcept
	referral       *datatype.Reference
	facility       *datatype.Reference
	diagnosis      []*ClaimDiagnosis
	insurance      []*ClaimInsurance
	item           []*ClaimItem
	total          *datatype.Money
}

func (*Claim) TypeName() string { return "Claim" }

func (c *Claim) Identifier() []*datatype.Identifier  { return c.identifier }
func (c *Claim) Status() *datatype.Code              { return c.status }
func (c *Claim) Type() *datatype.CodeableConcept     { return c.typ }
func (c *Claim) SubType() *datatype.CodeableConcept  { return c.subType }
func (c *Claim) Use() *datatype.Code                 { return c.use }
func (c *Claim) Patient() *datatype.Reference        { return c.patient }
func (c *Claim) BillablePeriod() *datatype.Period    { return c.billablePeriod }
func (c *Claim) Created() *datatype.DateTime         { return c.created }
func (c *Claim) Enterer() *datatype.Reference        { return c.enterer }
func (c *Claim) Insurer() *datatype.Reference        { return c.insurer }
func (c *Claim) Provider() *datatype.Reference       { return c.provider }
func (c *Claim) Priority() *datatype.CodeableConcept { return c.priority }
func (c *Claim) Referral() *datatype.Reference       { return c.referral }
func (c *Claim) Facility() *datatype.Reference       { return c.facility }
func (c *Claim) Diagnosis() []*ClaimDiagnosis        { return c.diagnosis }
func (c *Claim) Insurance() []*ClaimInsurance        { return c.insurance }
func (c *Claim) Item() []*ClaimItem                  { return c.item }
func (c *Claim) Total() *datatype.Money              { return c.total }

func (c *Claim) HasChildren() bool {
	return element.HasFieldContent(c.Fields())
}

func (c *Claim) Fields() []element.Field {
	return append(c.ResourceFields(),
		element.Many("identifier", c.identifier),
		element.One("status", c.status),
		element.One("type", c.typ),
		element.One("subType", c.subType),
		element.One("use", c.use),
		element.One("patient", c.patient),
		element.One("billablePeriod", c.billablePeriod),
		element.One("created", c.created),
		element.One("enterer", c.enterer),
		element.One("insurer", c.insurer),
		element.One("provider", c.provider),
		element.One("priority", c.priority),
		element.One("referral", c.referral),
		element.One("facility", c.facility),
		element.Many("diagnosis", c.diagnosis),
		element.Many("insurance", c.insurance),
		element.Many("item", c.item),
		element.One("total", c.total),
	)
}

// ClaimBuilder builds Claim resources.
type ClaimBuilder struct {
	ResourceBuilder
	Identifier     []*datatype.Identifier
	Status         *datatype.Code
	Type           *datatype.CodeableConcept
	SubType        *datatype.CodeableConcept
	Use            *datatype.Code
	Patient        *datatype.Reference
	BillablePeriod *datatype.Period
	Created        *datatype.DateTime
	Enterer        *datatype.Reference
	Insurer        *datatype.Reference
	Provider       *datatype.Reference
	Priority       *datatype.CodeableConcept
	Referral       *datatype.Reference
	Facility       *datatype.Reference
	Diagnosis      []*ClaimDiagnosis
	Insurance      []*ClaimInsurance
	Item           []*ClaimItem
	Total          *datatype.Money
}

func (b *ClaimBuilder) AddIdentifier(v ...*datatype.Identifier) {
	b.Identifier = append(b.Identifier, v...)
}

func (b *ClaimBuilder) AddDiagnosis(v ...*ClaimDiagnosis) { b.Diagnosis = append(b.Diagnosis, v...) }
func (b *ClaimBuilder) AddInsurance(v ...*ClaimInsurance) { b.Insurance = append(b.Insurance, v...) }
func (b *ClaimBuilder) AddItem(v ...*ClaimItem)           { b.Item = append(b.Item, v...) }

func (b *ClaimBuilder) Build() (*Claim, error) {
	c := checker("Claim")
	return build.Finish(c, &Claim{
		ResourceHeader: b.buildHeader(c),
		identifier:     slices.Clone(b.Identifier),
		status:         b.Status,
		typ:            b.Type,
		subType:        b.SubType,
		use:            b.Use,
		patient:        b.Patient,
		billablePeriod: b.BillablePeriod,
		created:        b.Created,
		enterer:        b.Enterer,
		insurer:        b.Insurer,
		provider:       b.Provider,
		priority:       b.Priority,
		referral:       b.Referral,
		facility:       b.Facility,
		diagnosis:      slices.Clone(b.Diagnosis),
		insurance:      slices.Clone(b.Insurance),
		item:           slices.Clone(b.Item),
		total:          b.Total,
	})
}

func (c *Claim) ToBuilder() *ClaimBuilder {
	return &ClaimBuilder{
		ResourceBuilder: ResourceBuilderFrom(&c.ResourceHeader),
		Identifier:      slices.Clone(c.identifier),
		Status:          c.status,
		Type:            c.typ,
		SubType:         c.subType,
		Use:             c.use,
		Patient:         c.patient,
		BillablePeriod:  c.billablePeriod,
		Created:         c.created,
		Enterer:         c.enterer,
		Insurer:         c.insurer,
		Provider:        c.provider,
		Priority:        c.priority,
		Referral:        c.referral,
		Facility:        c.facility,
		Diagnosis:       slices.Clone(c.diagnosis),
		Insurance:       slices.Clone(c.insurance),
		Item:            slices.Clone(c.item),
		Total:           c.total,
	}
}

// ClaimDiagnosis is a diagnosis relevant to a claim.
type ClaimDiagnosis struct {
	element.Header
	sequence    *datatype.PositiveInt
	diagnosis   choice.Value
	typ         []*datatype.CodeableConcept
	onAdmission *datatype.CodeableConcept
}

func (*ClaimDiagnosis) TypeName() string { return "ClaimDiagnosis" }

func (d *ClaimDiagnosis) Sequence() *datatype.PositiveInt        { return d.sequence }
func (d *ClaimDiagnosis) Diagnosis() choice.Value                { return d.diagnosis }
func (d *ClaimDiagnosis) Type() []*datatype.CodeableConcept      { return d.typ }
func (d *ClaimDiagnosis) OnAdmission() *datatype.CodeableConcept { return d.onAdmission }

// DiagnosisCodeableConcept returns diagnosis[x] when it holds a code.
func (d *ClaimDiagnosis) DiagnosisCodeableConcept() (*datatype.CodeableConcept, bool) {
	return choice.As[*datatype.CodeableConcept](d.diagnosis)
}

// DiagnosisReference returns diagnosis[x] when it references a Condition.
func (d *ClaimDiagnosis) DiagnosisReference() (*datatype.Reference, bool) {
	return choice.As[*datatype.Reference](d.diagnosis)
}

func (d *ClaimDiagnosis) HasChildren() bool {
	return element.HasFieldContent(d.Fields())
}

func (d *ClaimDiagnosis) Fields() []element.Field {
	return append(d.HeaderFields(),
		element.One("sequence", d.sequence),
		element.OneOf("diagnosis", d.diagnosis.Node()),
		element.Many("type", d.typ),
		element.One("onAdmission", d.onAdmission),
	)
}

// ClaimDiagnosisBuilder builds ClaimDiagnosis elements. Diagnosis holds a
// CodeableConcept or a Reference to a Condition.
type ClaimDiagnosisBuilder struct {
	element.HeaderBuilder
	Sequence    *datatype.PositiveInt
	Diagnosis   element.Node
	Type        []*datatype.CodeableConcept
	OnAdmission *datatype.CodeableConcept
}

func (b *ClaimDiagnosisBuilder) AddType(v ...*datatype.CodeableConcept) {
	b.Type = append(b.Type, v...)
}

func (b *ClaimDiagnosisBuilder) Build() (*ClaimDiagnosis, error) {
	c := checker("ClaimDiagnosis")
	return build.Finish(c, &ClaimDiagnosis{
		Header:      b.BuildHeader(),
		sequence:    b.Sequence,
		diagnosis:   c.Choice("diagnosis", b.Diagnosis),
		typ:         slices.Clone(b.Type),
		onAdmission: b.OnAdmission,
	})
}

func (d *ClaimDiagnosis) ToBuilder() *ClaimDiagnosisBuilder {
	return &ClaimDiagnosisBuilder{
		HeaderBuilder: element.HeaderBuilderFrom(&d.Header),
		Sequence:      d.sequence,
		Diagnosis:     d.diagnosis.Node(),
		Type:          slices.Clone(d.typ),
		OnAdmission:   d.onAdmission,
	}
}

// ClaimInsurance is a coverage to be used for adjudication.
type ClaimInsurance struct {
	element.Header
	sequence            *datatype.PositiveInt
	focal               *datatype.Boolean
	identifier          *datatype.Identifier
	coverage            *datatype.Reference
	businessArrangement *datatype.String
	preAuthRef          []*datatype.String
}

func (*ClaimInsurance) TypeName() string { return "ClaimInsurance" }

func (i *ClaimInsurance) Sequence() *datatype.PositiveInt  { return i.sequence }
func (i *ClaimInsurance) Focal() *datatype.Boolean         { return i.focal }
func (i *ClaimInsurance) Identifier() *datatype.Identifier { return i.identifier }
func (i *ClaimInsurance) Coverage() *datatype.Reference    { return i.coverage }
func (i *ClaimInsurance) BusinessArrangement() *datatype.String {
	return i.businessArrangement
}
func (i *ClaimInsurance) PreAuthRef() []*datatype.String { return i.preAuthRef }

func (i *ClaimInsurance) HasChildren() bool {
	return element.HasFieldContent(i.Fields())
}

func (i *ClaimInsurance) Fields() []element.Field {
	return append(i.HeaderFields(),
		element.One("sequence", i.sequence),
		element.One("focal", i.focal),
		element.One("identifier", i.identifier),
		element.One("coverage", i.coverage),
		element.One("businessArrangement", i.businessArrangement),
		element.Many("preAuthRef", i.preAuthRef),
	)
}

// ClaimInsuranceBuilder builds ClaimInsurance elements.
type ClaimInsuranceBuilder struct {
	element.HeaderBuilder
	Sequence            *datatype.PositiveInt
	Focal               *datatype.Boolean
	Identifier          *datatype.Identifier
	Coverage            *datatype.Reference
	BusinessArrangement *datatype.String
	PreAuthRef          []*datatype.String
}

func (b *ClaimInsuranceBuilder) AddPreAuthRef(v ...*datatype.String) {
	b.PreAuthRef = append(b.PreAuthRef, v...)
}

func (b *ClaimInsuranceBuilder) Build() (*ClaimInsurance, error) {
	c := checker("ClaimInsurance")
	return build.Finish(c, &ClaimInsurance{
		Header:              b.BuildHeader(),
		sequence:            b.Sequence,
		focal:               b.Focal,
		identifier:          b.Identifier,
		coverage:            b.Coverage,
		businessArrangement: b.BusinessArrangement,
		preAuthRef:          slices.Clone(b.PreAuthRef),
	})
}

func (i *ClaimInsurance) ToBuilder() *ClaimInsuranceBuilder {
	return &ClaimInsuranceBuilder{
		HeaderBuilder:       element.HeaderBuilderFrom(&i.Header),
		Sequence:            i.sequence,
		Focal:               i.focal,
		Identifier:          i.identifier,
		Coverage:            i.coverage,
		BusinessArrangement: i.businessArrangement,
		PreAuthRef:          slices.Clone(i.preAuthRef),
	}
}

// ClaimItem is a product or service provided.
type ClaimItem struct {
	element.Header
	sequence          *datatype.PositiveInt
	careTeamSequence  []*datatype.PositiveInt
	diagnosisSequence []*datatype.PositiveInt
	category          *datatype.CodeableConcept
	productOrService  *datatype.CodeableConcept
	modifier          []*datatype.CodeableConcept
	serviced          choice.Value
	location          choice.Value
	quantity          *datatype.Quantity
	unitPrice         *datatype.Money
	factor            *datatype.Decimal
	net               *datatype.Money
	encounter         []*datatype.Reference
}

func (*ClaimItem) TypeName() string { return "ClaimItem" }

func (i *ClaimItem) Sequence() *datatype.PositiveInt             { return i.sequence }
func (i *ClaimItem) CareTeamSequence() []*datatype.PositiveInt   { return i.careTeamSequence }
func (i *ClaimItem) DiagnosisSequence() []*datatype.PositiveInt  { return i.diagnosisSequence }
func (i *ClaimItem) Category() *datatype.CodeableConcept         { return i.category }
func (i *ClaimItem) ProductOrService() *datatype.CodeableConcept { return i.productOrService }
func (i *ClaimItem) Modifier() []*datatype.CodeableConcept       { return i.modifier }
func (i *ClaimItem) Serviced() choice.Value                      { return i.serviced }
func (i *ClaimItem) Location() choice.Value                      { return i.location }
func (i *ClaimItem) Quantity() *datatype.Quantity                { return i.quantity }
func (i *ClaimItem) UnitPrice() *datatype.Money                  { return i.unitPrice }
func (i *ClaimItem) Factor() *datatype.Decimal                   { return i.factor }
func (i *ClaimItem) Net() *datatype.Money                        { return i.net }
func (i *ClaimItem) Encounter() []*datatype.Reference            { return i.encounter }

// ServicedDate returns serviced[x] when it holds a date.
func (i *ClaimItem) ServicedDate() (*datatype.Date, bool) {
	return choice.As[*datatype.Date](i.serviced)
}

// ServicedPeriod returns serviced[x] when it holds a Period.
func (i *ClaimItem) ServicedPeriod() (*datatype.Period, bool) {
	return choice.As[*datatype.Period](i.serviced)
}

// LocationCodeableConcept returns location[x] when it holds a place code.
func (i *ClaimItem) LocationCodeableConcept() (*datatype.CodeableConcept, bool) {
	return choice.As[*datatype.CodeableConcept](i.location)
}

// LocationReference returns location[x] when it references a Location.
func (i *ClaimItem) LocationReference() (*datatype.Reference, bool) {
	return choice.As[*datatype.Reference](i.location)
}

func (i *ClaimItem) HasChildren() bool {
	return element.HasFieldContent(i.Fields())
}

func (i *ClaimItem) Fields() []element.Field {
	return append(i.HeaderFields(),
		element.One("sequence", i.sequence),
		element.Many("careTeamSequence", i.careTeamSequence),
		element.Many("diagnosisSequence", i.diagnosisSequence),
		element.One("category", i.category),
		element.One("productOrService", i.productOrService),
		element.Many("modifier", i.modifier),
		element.OneOf("serviced", i.serviced.Node()),
		element.OneOf("location", i.location.Node()),
		element.One("quantity", i.quantity),
		element.One("unitPrice", i.unitPrice),
		element.One("factor", i.factor),
		element.One("net", i.net),
		element.Many("encounter", i.encounter),
	)
}

// ClaimItemBuilder builds ClaimItem elements. Serviced holds a Date or a
// Period; Location a CodeableConcept or a Reference to a Location.
type ClaimItemBuilder struct {
	element.HeaderBuilder
	Sequence          *datatype.PositiveInt
	CareTeamSequence  []*datatype.PositiveInt
	DiagnosisSequence []*datatype.PositiveInt
	Category          *datatype.CodeableConcept
	ProductOrService  *datatype.CodeableConcept
	Modifier          []*datatype.CodeableConcept
	Serviced          element.Node
	Location          element.Node
	Quantity          *datatype.Quantity
	UnitPrice         *datatype.Money
	Factor            *datatype.Decimal
	Net               *datatype.Money
	Encounter         []*datatype.Reference
}

func (b *ClaimItemBuilder) AddCareTeamSequence(v ...*datatype.PositiveInt) {
	b.CareTeamSequence = append(b.CareTeamSequence, v...)
}

func (b *ClaimItemBuilder) AddDiagnosisSequence(v ...*datatype.PositiveInt) {
	b.DiagnosisSequence = append(b.DiagnosisSequence, v...)
}

func (b *ClaimItemBuilder) AddModifier(v ...*datatype.CodeableConcept) {
	b.Modifier = append(b.Modifier, v...)
}

func (b *ClaimItemBuilder) AddEncounter(v ...*datatype.Reference) {
	b.Encounter = append(b.Encounter, v...)
}

func (b *ClaimItemBuilder) Build() (*ClaimItem, error) {
	c := checker("ClaimItem")
	return build.Finish(c, &ClaimItem{
		Header:            b.BuildHeader(),
		sequence:          b.Sequence,
		careTeamSequence:  slices.Clone(b.CareTeamSequence),
		diagnosisSequence: slices.Clone(b.DiagnosisSequence),
		category:          b.Category,
		productOrService:  b.ProductOrService,
		modifier:          slices.Clone(b.Modifier),
		serviced:          c.Choice("serviced", b.Serviced),
		location:          c.Choice("location", b.Location),
		quantity:          b.Quantity,
		unitPrice:         b.UnitPrice,
		factor:            b.Factor,
		net:               b.Net,
		encounter:         slices.Clone(b.Encounter),
	})
}

func (i *ClaimItem) ToBuilder() *ClaimItemBuilder {
	return &ClaimItemBuilder{
		HeaderBuilder:     element.HeaderBuilderFrom(&i.Header),
		Sequence:          i.sequence,
		CareTeamSequence:  slices.Clone(i.careTeamSequence),
		DiagnosisSequence: slices.Clone(i.diagnosisSequence),
		Category:          i.category,
		ProductOrService:  i.productOrService,
		Modifier:          slices.Clone(i.modifier),
		Serviced:          i.serviced.Node(),
		Location:          i.location.Node(),
		Quantity:          i.quantity,
		UnitPrice:         i.unitPrice,
		Factor:            i.factor,
		Net:               i.net,
		Encounter:         slices.Clone(i.encounter),
	}
}
