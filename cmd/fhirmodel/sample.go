package main

import (
	"fmt"

	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/resource"
)

// sampleSet is a small claim scenario: the document plus the resources its
// references point to.
type sampleSet struct {
	patient  *resource.Patient
	provider *resource.Organization
	coverage *resource.Coverage
	claim    *resource.Claim
}

func (s *sampleSet) documents() map[string]resource.Resource {
	return map[string]resource.Resource{
		"patient":      s.patient,
		"organization": s.provider,
		"coverage":     s.coverage,
		"claim":        s.claim,
	}
}

var sampleNames = []string{"claim", "coverage", "organization", "patient"}

// store holds every sample except the claim, the targets of its references.
func (s *sampleSet) store() (*resource.Store, error) {
	return resource.NewStore(s.patient, s.provider, s.coverage)
}

func buildSamples() (*sampleSet, error) {
	var s sampleSet
	var err error

	pb := &resource.PatientBuilder{
		Active:    datatype.NewBoolean(true),
		Gender:    datatype.MustCode("female"),
		BirthDate: datatype.MustDate("1974-12-25"),
		Deceased:  datatype.NewBoolean(false),
	}
	pb.ID = "pat1"
	pb.AddIdentifier(datatype.MustIdentifier("urn:oid:1.2.36.146.595.217.0.1", "12345"))
	pb.AddName(datatype.MustHumanName("Chalmers", "Peter", "James"))
	if s.patient, err = pb.Build(); err != nil {
		return nil, fmt.Errorf("patient: %w", err)
	}

	ob := &resource.OrganizationBuilder{
		Active: datatype.NewBoolean(true),
		Name:   datatype.MustString("Burgers University Medical Center"),
	}
	ob.ID = "org1"
	if s.provider, err = ob.Build(); err != nil {
		return nil, fmt.Errorf("organization: %w", err)
	}

	insurer := &resource.OrganizationBuilder{Name: datatype.MustString("Acme Health Insurance")}
	insurer.ID = "ins"
	acme, err := insurer.Build()
	if err != nil {
		return nil, fmt.Errorf("insurer: %w", err)
	}

	cb := &resource.CoverageBuilder{
		Status:      datatype.MustCode("active"),
		Beneficiary: datatype.MustReference("Patient/pat1"),
		Period:      datatype.MustPeriod("2024-01-01", "2024-12-31"),
	}
	cb.ID = "cov1"
	cb.AddPayor(datatype.MustReference("#ins"))
	cb.AddContained(acme)
	if s.coverage, err = cb.Build(); err != nil {
		return nil, fmt.Errorf("coverage: %w", err)
	}

	ins, err := (&resource.ClaimInsuranceBuilder{
		Sequence: datatype.MustPositiveInt(1),
		Focal:    datatype.NewBoolean(true),
		Coverage: datatype.MustReference("Coverage/cov1"),
	}).Build()
	if err != nil {
		return nil, fmt.Errorf("claim insurance: %w", err)
	}
	diag, err := (&resource.ClaimDiagnosisBuilder{
		Sequence:  datatype.MustPositiveInt(1),
		Diagnosis: datatype.MustConcept("http://hl7.org/fhir/sid/icd-10", "K03.81", "Cracked tooth"),
	}).Build()
	if err != nil {
		return nil, fmt.Errorf("claim diagnosis: %w", err)
	}
	item, err := (&resource.ClaimItemBuilder{
		Sequence:         datatype.MustPositiveInt(1),
		ProductOrService: datatype.MustConcept("http://example.org/fhir/oralservicecodes", "1200", ""),
		Serviced:         datatype.MustDate("2024-05-01"),
		UnitPrice:        datatype.MustMoney("135.57", "USD"),
		Net:              datatype.MustMoney("135.57", "USD"),
	}).Build()
	if err != nil {
		return nil, fmt.Errorf("claim item: %w", err)
	}

	clb := &resource.ClaimBuilder{
		Status:   datatype.MustCode("active"),
		Type:     datatype.MustConcept("http://terminology.hl7.org/CodeSystem/claim-type", "oral", ""),
		Use:      datatype.MustCode("claim"),
		Patient:  datatype.MustReference("Patient/pat1"),
		Created:  datatype.MustDateTime("2024-05-02"),
		Provider: datatype.MustReference("Organization/org1"),
		Priority: datatype.MustConcept("http://terminology.hl7.org/CodeSystem/processpriority", "normal", ""),
		Insurer:  datatype.MustReference("Organization/org1"),
		Total:    datatype.MustMoney("135.57", "USD"),
	}
	clb.ID = "clm1"
	clb.AddIdentifier(datatype.NewUUIDIdentifier())
	clb.AddDiagnosis(diag)
	clb.AddInsurance(ins)
	clb.AddItem(item)
	if s.claim, err = clb.Build(); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	return &s, nil
}
