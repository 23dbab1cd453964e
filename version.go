package fhirmodel

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// Supported FHIR versions.
const (
	// R4 is FHIR Release 4 (4.0.1)
	R4 FHIRVersion = "R4"
	// R4B is FHIR Release 4B (4.3.0)
	R4B FHIRVersion = "R4B"
	// R5 is FHIR Release 5 (5.0.0)
	R5 FHIRVersion = "R5"
)

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported FHIR version.
func (v FHIRVersion) IsValid() bool {
	_, ok := versionConfigs[v]
	return ok
}

// Release returns the full release number, e.g. "4.0.1", or "" for an
// unsupported version.
func (v FHIRVersion) Release() string {
	return versionConfigs[v].release
}

// CorePackage returns the NPM package id of the core definitions, e.g.
// "hl7.fhir.r4.core#4.0.1".
func (v FHIRVersion) CorePackage() string {
	cfg, ok := versionConfigs[v]
	if !ok {
		return ""
	}
	return cfg.corePackage + "#" + cfg.release
}

type versionConfig struct {
	corePackage string
	release     string
}

var versionConfigs = map[FHIRVersion]versionConfig{
	R4:  {corePackage: "hl7.fhir.r4.core", release: "4.0.1"},
	R4B: {corePackage: "hl7.fhir.r4b.core", release: "4.3.0"},
	R5:  {corePackage: "hl7.fhir.r5.core", release: "5.0.0"},
}

// ParseVersion accepts a version name ("R4") or release number ("4.0.1").
func ParseVersion(s string) (FHIRVersion, bool) {
	if v := FHIRVersion(s); v.IsValid() {
		return v, true
	}
	for v, cfg := range versionConfigs {
		if cfg.release == s {
			return v, true
		}
	}
	return "", false
}
