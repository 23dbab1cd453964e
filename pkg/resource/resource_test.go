package resource

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/identity"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

func insurance(t *testing.T, seq uint32, coverage string) *ClaimInsurance {
	t.Helper()
	ins, err := (&ClaimInsuranceBuilder{
		Sequence: datatype.MustPositiveInt(seq),
		Focal:    datatype.NewBoolean(seq == 1),
		Coverage: datatype.MustReference(coverage),
	}).Build()
	if err != nil {
		t.Fatalf("insurance: %v", err)
	}
	return ins
}

// claimBuilder returns a builder with every required Claim field set.
func claimBuilder(t *testing.T) *ClaimBuilder {
	t.Helper()
	b := &ClaimBuilder{
		Status:   datatype.MustCode("active"),
		Type:     datatype.MustConcept("http://terminology.hl7.org/CodeSystem/claim-type", "institutional", ""),
		Use:      datatype.MustCode("claim"),
		Patient:  datatype.MustReference("Patient/p1"),
		Created:  datatype.MustDateTime("2024-05-01"),
		Provider: datatype.MustReference("Organization/o1"),
		Priority: datatype.MustConcept("http://terminology.hl7.org/CodeSystem/processpriority", "normal", ""),
		Insurer:  datatype.MustReference("Organization/ins1"),
	}
	b.ID = "c1"
	b.AddInsurance(insurance(t, 1, "Coverage/cov1"))
	return b
}

func item(t *testing.T, serviced element.Node) *ClaimItemBuilder {
	t.Helper()
	return &ClaimItemBuilder{
		Sequence:         datatype.MustPositiveInt(1),
		ProductOrService: datatype.MustConcept("http://example.org/uscls", "1205", ""),
		Serviced:         serviced,
	}
}

func TestFieldsFollowCatalog(t *testing.T) {
	nodes := []element.Node{
		&Patient{}, &Organization{}, &Coverage{}, &Claim{},
		&ClaimDiagnosis{}, &ClaimInsurance{}, &ClaimItem{},
	}
	if len(nodes) != len(Declarations) {
		t.Errorf("%d node types for %d declarations", len(nodes), len(Declarations))
	}
	for _, n := range nodes {
		t.Run(n.TypeName(), func(t *testing.T) {
			var got []string
			for _, f := range n.Fields() {
				got = append(got, f.Name)
			}
			want := schema.Default.MustGet(n.TypeName()).FieldNames()
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Fields() order mismatch (-catalog +node):\n%s", diff)
			}
		})
	}
}

func TestResourcesShareHeader(t *testing.T) {
	org := &OrganizationBuilder{Name: datatype.MustString("Clinic")}
	org.ID = "o1"
	pat := &PatientBuilder{Active: datatype.NewBoolean(true)}
	pat.ID = "p1"
	pat.AddContained(mustBuild(t, org.Build))

	tests := []struct {
		name string
		res  Resource
		id   string
	}{
		{"Organization", mustBuild(t, org.Build), "o1"},
		{"Patient", mustBuild(t, pat.Build), "p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.res.ResourceBase()
			if h.ID() != tt.id || h.ID() != tt.res.ElementHeader().ID() {
				t.Errorf("ResourceBase().ID() = %q, ElementHeader().ID() = %q; want %q",
					h.ID(), tt.res.ElementHeader().ID(), tt.id)
			}
		})
	}
	if r, ok := tests[1].res.ResourceBase().ContainedByID("o1"); !ok || r.TypeName() != "Organization" {
		t.Errorf("ContainedByID(o1) = %v, %v", r, ok)
	}
}

func mustBuild[T Resource](t *testing.T, build func() (T, error)) T {
	t.Helper()
	r, err := build()
	if err != nil {
		t.Fatalf("Build(): %v", err)
	}
	return r
}

func TestClaimBuild(t *testing.T) {
	b := claimBuilder(t)
	it, err := item(t, datatype.MustDate("2024-04-30")).Build()
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	b.AddItem(it)

	claim, err := b.Build()
	if err != nil {
		t.Fatalf("Build(): %v", err)
	}
	if claim.ResourceBase().ID() != "c1" {
		t.Errorf("ID() = %q", claim.ResourceBase().ID())
	}
	d, ok := claim.Item()[0].ServicedDate()
	if !ok {
		t.Fatalf("ServicedDate() missing; shape %q", claim.Item()[0].Serviced().Shape())
	}
	if v, _ := d.Value(); v != "2024-04-30" {
		t.Errorf("serviced = %q", v)
	}
	if _, ok := claim.Item()[0].ServicedPeriod(); ok {
		t.Error("ServicedPeriod() reported a date as a period")
	}
}

func TestClaimMissingInsurance(t *testing.T) {
	b := claimBuilder(t)
	b.Insurance = []*ClaimInsurance{}

	claim, err := b.Build()
	if claim != nil {
		t.Fatal("Build() returned a node")
	}
	if !errors.Is(err, &validate.Error{Kind: validate.KindMissingRequiredField, Type: "Claim", Field: "insurance"}) {
		t.Fatalf("err = %v; want MissingRequiredField(insurance)", err)
	}
	if n := len(validate.Errors(err)); n != 1 {
		t.Errorf("%d errors; want only the insurance one: %v", n, err)
	}
}

func TestClaimReportsEveryMissingField(t *testing.T) {
	_, err := (&ClaimBuilder{}).Build()

	var got []string
	for _, e := range validate.Errors(err) {
		if e.Kind == validate.KindMissingRequiredField {
			got = append(got, e.Field)
		}
	}
	want := []string{"status", "type", "use", "patient", "created", "provider", "priority", "insurance"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("missing fields (-want +got):\n%s", diff)
	}
	if !errors.Is(err, validate.ErrEmptyComposite) {
		t.Errorf("err = %v; want EmptyComposite for the empty root", err)
	}
}

func TestClaimItemServicedShape(t *testing.T) {
	tests := []struct {
		name     string
		serviced element.Node
		wantErr  bool
	}{
		{"date", datatype.MustDate("2024-04-30"), false},
		{"period", datatype.MustPeriod("2024-04-01", "2024-04-30"), false},
		{"absent", nil, false},
		{"decimal", datatype.MustDecimal("12.5"), true},
		{"dateTime", datatype.MustDateTime("2024-04-30T10:00:00Z"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := item(t, tt.serviced).Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			errs := validate.Errors(err)
			if len(errs) != 1 {
				t.Fatalf("%d errors; want 1: %v", len(errs), err)
			}
			e := errs[0]
			if e.Kind != validate.KindChoiceShapeMismatch || e.Field != "serviced" || e.Shape != tt.serviced.TypeName() {
				t.Errorf("err = %+v; want ChoiceShapeMismatch on serviced with shape %s", e, tt.serviced.TypeName())
			}
			if diff := cmp.Diff([]string{"date", "Period"}, e.Allowed); diff != "" {
				t.Errorf("Allowed (-want +got):\n%s", diff)
			}
		})
	}
}

const coreProfile = "http://hl7.org/fhir/StructureDefinition/"

func typedReference(t *testing.T, literal, typ string) *datatype.Reference {
	t.Helper()
	b := &datatype.ReferenceBuilder{Type: datatype.MustURI(typ), Display: datatype.MustString("Acme")}
	if literal != "" {
		b.Reference = datatype.MustString(literal)
	}
	r, err := b.Build()
	if err != nil {
		t.Fatalf("reference %q of type %q: %v", literal, typ, err)
	}
	return r
}

func TestClaimInsurerKind(t *testing.T) {
	tests := []struct {
		name    string
		insurer *datatype.Reference
		wantErr bool
	}{
		{"organization", datatype.MustReference("Organization/ins1"), false},
		{"patient", datatype.MustReference("Patient/p1"), true},
		{"patient by type tag", func() *datatype.Reference {
			b := &datatype.ReferenceBuilder{Type: datatype.MustURI("Patient"), Display: datatype.MustString("Jane")}
			r, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			return r
		}(), true},
		{"identifier only", func() *datatype.Reference {
			r, err := (&datatype.ReferenceBuilder{Identifier: datatype.MustIdentifier("http://example.org/payers", "X1")}).Build()
			if err != nil {
				t.Fatal(err)
			}
			return r
		}(), false},
		{"contained", datatype.MustReference("#ins"), false},
		{"canonical type tag", typedReference(t, "", coreProfile+"Organization"), false},
		{"canonical type tag with literal", typedReference(t, "Organization/ins1", coreProfile+"Organization"), false},
		{"patient by canonical type tag", typedReference(t, "", coreProfile+"Patient"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := claimBuilder(t)
			b.Insurer = tt.insurer
			_, err := b.Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			errs := validate.Errors(err)
			if len(errs) != 1 || errs[0].Kind != validate.KindReferenceTypeMismatch || errs[0].Field != "insurer" {
				t.Fatalf("err = %v; want one ReferenceTypeMismatch on insurer", err)
			}
			if errs[0].Shape != "Patient" {
				t.Errorf("Shape = %q; want Patient", errs[0].Shape)
			}
			if diff := cmp.Diff([]string{"Organization"}, errs[0].Allowed); diff != "" {
				t.Errorf("Allowed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClaimDiagnosisChoice(t *testing.T) {
	seq := datatype.MustPositiveInt(1)

	tests := []struct {
		name      string
		diagnosis element.Node
		kind      validate.Kind
	}{
		{"code", datatype.MustConcept("http://hl7.org/fhir/sid/icd-10", "J20.9", ""), ""},
		{"condition", datatype.MustReference("Condition/cond1"), ""},
		{"missing", nil, validate.KindMissingRequiredField},
		{"observation", datatype.MustReference("Observation/o1"), validate.KindReferenceTypeMismatch},
		{"string", datatype.MustString("bronchitis"), validate.KindChoiceShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := (&ClaimDiagnosisBuilder{Sequence: seq, Diagnosis: tt.diagnosis}).Build()
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("Build(): %v", err)
				}
				if d.Diagnosis().Shape() != tt.diagnosis.TypeName() {
					t.Errorf("Shape() = %q", d.Diagnosis().Shape())
				}
				return
			}
			if !validate.Has(err, tt.kind, "diagnosis") {
				t.Errorf("err = %v; want %s on diagnosis", err, tt.kind)
			}
		})
	}
}

func TestPatientDeceased(t *testing.T) {
	tests := []struct {
		name     string
		deceased element.Node
		want     bool
		wantErr  bool
	}{
		{"absent", nil, false, false},
		{"false", datatype.NewBoolean(false), false, false},
		{"true", datatype.NewBoolean(true), true, false},
		{"date time", datatype.MustDateTime("2020-01-01"), true, false},
		{"date", datatype.MustDate("2020-01-01"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &PatientBuilder{Deceased: tt.deceased, Gender: datatype.MustCode("female")}
			p, err := b.Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !validate.Has(err, validate.KindChoiceShapeMismatch, "deceased") {
					t.Errorf("err = %v; want ChoiceShapeMismatch on deceased", err)
				}
				return
			}
			if p.IsDeceased() != tt.want {
				t.Errorf("IsDeceased() = %v; want %v", p.IsDeceased(), tt.want)
			}
		})
	}
}

func TestRoundTripAndHash(t *testing.T) {
	b := claimBuilder(t)
	it, err := item(t, datatype.MustPeriod("2024-04-01", "2024-04-30")).Build()
	if err != nil {
		t.Fatal(err)
	}
	b.AddItem(it)
	b.AddExtension(datatype.MustExtension("http://example.org/batch", datatype.MustString("b-7")))
	claim, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	again, err := claim.ToBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	if !identity.Equal(claim, again) {
		t.Fatal("ToBuilder().Build() is not equal to the original")
	}
	if identity.Hash(claim) != identity.Hash(again) {
		t.Error("equal claims hash differently")
	}

	evolved := claim.ToBuilder()
	evolved.Status = datatype.MustCode("cancelled")
	cancelled, err := evolved.Build()
	if err != nil {
		t.Fatal(err)
	}
	if identity.Equal(claim, cancelled) {
		t.Error("changed status compares equal")
	}
	if v, _ := claim.Status().Value(); v != "active" {
		t.Errorf("original status mutated to %q", v)
	}
}

func TestContainedRules(t *testing.T) {
	org, err := (&OrganizationBuilder{Name: datatype.MustString("Payer")}).Build()
	if err != nil {
		t.Fatal(err)
	}
	orgB := org.ToBuilder()
	orgB.ID = "ins"
	payer, err := orgB.Build()
	if err != nil {
		t.Fatal(err)
	}

	versioned := payer.ToBuilder()
	versioned.Meta, err = (&datatype.MetaBuilder{VersionID: datatype.MustID("3")}).Build()
	if err != nil {
		t.Fatal(err)
	}
	withVersion, err := versioned.Build()
	if err != nil {
		t.Fatal(err)
	}

	nestedB := payer.ToBuilder()
	nestedB.AddContained(payer)
	nested, err := nestedB.Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		contained Resource
		wantErr   bool
	}{
		{"plain", payer, false},
		{"versioned", withVersion, true},
		{"nested", nested, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := claimBuilder(t)
			b.Insurer = datatype.MustReference("#ins")
			b.AddContained(tt.contained)
			claim, err := b.Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !validate.Has(err, validate.KindInvalidValue, "contained") {
					t.Errorf("err = %v; want InvalidValue on contained", err)
				}
				return
			}
			if r, ok := claim.ResourceBase().ContainedByID("ins"); !ok || r != Resource(payer) {
				t.Errorf("ContainedByID(ins) = %v, %v", r, ok)
			}
		})
	}
}

func TestResourceIDFormat(t *testing.T) {
	b := claimBuilder(t)
	b.ID = "not valid!"
	if _, err := b.Build(); !validate.Has(err, validate.KindInvalidValue, "id") {
		t.Errorf("err = %v; want InvalidValue on id", err)
	}
}

func TestWalkPaths(t *testing.T) {
	b := claimBuilder(t)
	it, err := item(t, datatype.MustDate("2024-04-30")).Build()
	if err != nil {
		t.Fatal(err)
	}
	b.AddItem(it)
	claim, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	paths := walk.Paths(claim)
	for _, want := range []string{
		"Claim",
		"Claim.insurance[0].coverage",
		"Claim.item[0].serviced",
		"Claim.item[0].productOrService.coding[0].code",
	} {
		if !slices.Contains(paths, want) {
			t.Errorf("path %q not visited", want)
		}
	}
}

func TestResolvers(t *testing.T) {
	patient, err := (&PatientBuilder{ResourceBuilder: ResourceBuilder{HeaderBuilder: element.HeaderBuilder{ID: "p1"}}, Gender: datatype.MustCode("male")}).Build()
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(patient)
	if err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d", store.Len())
	}

	payer, err := (&OrganizationBuilder{
		ResourceBuilder: ResourceBuilder{HeaderBuilder: element.HeaderBuilder{ID: "ins"}},
		Name:            datatype.MustString("Payer"),
	}).Build()
	if err != nil {
		t.Fatal(err)
	}
	b := claimBuilder(t)
	b.AddContained(payer)
	claim, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	chain := Chain{ContainedResolver{}, store}
	ctx := context.Background()

	tests := []struct {
		name    string
		literal string
		want    Resource
		wantErr error
	}{
		{"store relative", "Patient/p1", patient, nil},
		{"store absolute", "http://example.org/fhir/Patient/p1/_history/4", patient, nil},
		{"contained", "#ins", payer, nil},
		{"dangling", "Patient/p2", nil, ErrNotFound},
		{"dangling contained", "#nope", nil, ErrNotFound},
		{"urn", "urn:uuid:c757873d-ec9a-4326-a141-556f43239520", nil, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chain.Resolve(ctx, claim, datatype.MustReference(tt.literal))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v; want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v; want %v", got, tt.want)
			}
		})
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := store.Resolve(cancelled, claim, datatype.MustReference("Patient/p1")); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Resolve() err = %v", err)
	}

	typed, err := (&datatype.ReferenceBuilder{Reference: datatype.MustString("Patient/p1"), Type: datatype.MustURI("Patient")}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Resolve(ctx, claim, typed); err != nil {
		t.Errorf("typed reference: %v", err)
	}
	if _, err := store.Resolve(ctx, claim, typedReference(t, "Patient/p1", coreProfile+"Patient")); err != nil {
		t.Errorf("canonical typed reference: %v", err)
	}
}

func TestReferenceTo(t *testing.T) {
	anon, err := (&OrganizationBuilder{Name: datatype.MustString("Anon")}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ReferenceTo(anon); err == nil {
		t.Error("ReferenceTo(resource without id) succeeded")
	}

	b := anon.ToBuilder()
	b.ID = "o9"
	org, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ref, err := ReferenceTo(org)
	if err != nil {
		t.Fatal(err)
	}
	if ref.ReferenceLiteral() != "Organization/o9" || ref.Kind() != "Organization" {
		t.Errorf("reference = %q (kind %q)", ref.ReferenceLiteral(), ref.Kind())
	}
	if Key(org) != "Organization/o9" {
		t.Errorf("Key() = %q", Key(org))
	}
}
