package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofhir/fhir/r4"
)

// coreProfilePrefix is the canonical URL prefix of the core type profiles.
const coreProfilePrefix = "http://hl7.org/fhir/StructureDefinition/"

// systemTypePrefix marks the FHIRPath system types used for primitive values.
const systemTypePrefix = "http://hl7.org/fhirpath/System."

// inheritedPaths are element names every declaration gets from its base.
var inheritedPaths = map[string]bool{
	"id":                true,
	"meta":              true,
	"implicitRules":     true,
	"language":          true,
	"text":              true,
	"contained":         true,
	"extension":         true,
	"modifierExtension": true,
}

// FromStructureDefinition derives declarations from the snapshot of an R4
// StructureDefinition. The first declaration describes the type itself; the
// rest describe its backbone elements, named after the type and the path of
// the element (Claim.insurance becomes ClaimInsurance).
func FromStructureDefinition(sd *r4.StructureDefinition) ([]*Declaration, error) {
	if sd == nil {
		return nil, fmt.Errorf("nil StructureDefinition")
	}
	if sd.Snapshot == nil || len(sd.Snapshot.Element) == 0 {
		return nil, fmt.Errorf("%s: no snapshot", derefString(sd.Url))
	}
	typ := derefString(sd.Type)
	if typ == "" {
		return nil, fmt.Errorf("%s: no type", derefString(sd.Url))
	}

	root := &Declaration{Type: typ, Kind: convertKind(sd.Kind)}
	if base := derefString(sd.BaseDefinition); base != "" {
		switch name := strings.TrimPrefix(base, coreProfilePrefix); name {
		case "Element", "BackboneElement", "Resource", "DomainResource":
			root.Base = name
		}
	}

	decls := map[string]*Declaration{typ: root}
	order := []*Declaration{root}
	url := derefString(sd.Url)

	for i := range sd.Snapshot.Element {
		ed := &sd.Snapshot.Element[i]
		path := derefString(ed.Path)
		if path == typ {
			root.Constraints = convertConstraints(ed.Constraint, url)
			continue
		}
		if derefString(ed.SliceName) != "" {
			continue
		}

		parentPath, name, ok := cutLast(path)
		if !ok {
			continue
		}
		parent, ok := decls[parentPath]
		if !ok || inheritedPaths[name] {
			continue
		}

		if root.Kind == KindPrimitive && name == "value" {
			// The value of a primitive is carried by the node itself.
			continue
		}
		field, err := convertElement(name, ed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		if len(field.Types) == 1 && (field.Types[0] == "BackboneElement" || field.Types[0] == "Element") {
			backbone := &Declaration{
				Type:        backboneName(path),
				Kind:        KindBackbone,
				Constraints: convertConstraints(ed.Constraint, url),
			}
			decls[path] = backbone
			order = append(order, backbone)
			field.Types = []string{backbone.Type}
		}
		parent.Fields = append(parent.Fields, field)
	}

	for _, d := range order {
		if err := d.finalize(); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// DecodeStructureDefinition parses StructureDefinition JSON and derives its
// declarations.
func DecodeStructureDefinition(data []byte) ([]*Declaration, error) {
	var sd r4.StructureDefinition
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode StructureDefinition: %w", err)
	}
	return FromStructureDefinition(&sd)
}

func convertElement(name string, ed *r4.ElementDefinition) (FieldDecl, error) {
	f := FieldDecl{
		Name:     strings.TrimSuffix(name, "[x]"),
		Modifier: derefBool(ed.IsModifier),
		Summary:  derefBool(ed.IsSummary),
		Binding:  convertBinding(ed.Binding),
	}

	minVal := 0
	if ed.Min != nil {
		minVal = int(*ed.Min)
	}
	maxVal := derefString(ed.Max)
	if maxVal == "" {
		maxVal = "1"
	}
	f.Cardinality = fmt.Sprintf("%d..%s", minVal, maxVal)

	for i := range ed.Type {
		t := &ed.Type[i]
		code := derefString(t.Code)
		if code == "" || strings.HasPrefix(code, systemTypePrefix) {
			continue
		}
		f.Types = append(f.Types, code)
		if code == "Reference" {
			for _, target := range t.TargetProfile {
				f.Targets = append(f.Targets, strings.TrimPrefix(target, coreProfilePrefix))
			}
		}
	}
	if ed.ContentReference != nil {
		// Recursive elements such as Questionnaire.item.item point back at an
		// existing backbone.
		f.Types = []string{backboneName(strings.TrimPrefix(*ed.ContentReference, "#"))}
	}
	if len(f.Types) == 0 {
		return f, fmt.Errorf("no types")
	}
	return f, nil
}

func convertBinding(b *r4.ElementDefinitionBinding) *Binding {
	if b == nil || b.Strength == nil {
		return nil
	}
	vs, _, _ := strings.Cut(derefString(b.ValueSet), "|")
	return &Binding{
		Strength:    Strength(*b.Strength),
		ValueSet:    vs,
		Description: derefString(b.Description),
	}
}

// convertConstraints keeps the invariants the profile itself defines. Those
// inherited from Element and DomainResource are enforced by the builders.
func convertConstraints(cs []r4.ElementDefinitionConstraint, url string) []Constraint {
	var out []Constraint
	for i := range cs {
		c := &cs[i]
		if src := derefString(c.Source); src != "" && src != url {
			continue
		}
		if derefString(c.Expression) == "" {
			continue
		}
		severity := ""
		if c.Severity != nil {
			severity = string(*c.Severity)
		}
		out = append(out, Constraint{
			Key:        derefString(c.Key),
			Severity:   severity,
			Human:      derefString(c.Human),
			Expression: derefString(c.Expression),
		})
	}
	return out
}

func convertKind(kind *r4.StructureDefinitionKind) Kind {
	if kind == nil {
		return KindComplex
	}
	switch string(*kind) {
	case "resource":
		return KindResource
	case "primitive-type":
		return KindPrimitive
	default:
		return KindComplex
	}
}

// backboneName turns "Claim.item.detail" into "ClaimItemDetail".
func backboneName(path string) string {
	var b strings.Builder
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func cutLast(path string) (string, string, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
