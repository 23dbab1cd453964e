// Package fhirmodel checks documents built from the typed FHIR object model.
//
// Nodes are built with their builders in pkg/datatype and pkg/resource, which
// already enforce cardinality, choice shapes and statically declared
// reference kinds. A node that exists is structurally valid. The Checker
// here adds the checks that need context beyond a single node:
//
//   - References: "#id" references are resolved against contained resources,
//     others through a configured resource.Resolver. Dangling references are
//     warnings, targets of a kind the field does not permit are errors.
//   - Terminology: codes are checked against the value sets of their declared
//     bindings (pkg/terminology).
//   - Invariants: FHIRPath constraints declared on types are evaluated on the
//     JSON encoding (pkg/constraint).
//   - Modifier extensions are reported as information issues.
//
// # Quick Start
//
//	checker := fhirmodel.NewChecker(
//	    fhirmodel.WithTerminology(terminology.NewStore()),
//	    fhirmodel.WithResolver(store),
//	)
//	result, err := checker.Check(ctx, claim)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, is := range result.Issues {
//	    fmt.Println(is.Severity, is.Expression, is.Diagnostics)
//	}
//
// CheckAll checks a batch concurrently with a bounded number of workers.
package fhirmodel
