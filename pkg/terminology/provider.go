package terminology

import "context"

// Provider validates codes the store cannot judge by itself: codes from
// external systems such as SNOMED CT or LOINC that a value set includes
// entirely, and value sets the store does not hold.
//
// Provider errors never fail a check. The store then accepts the code, so a
// terminology server outage does not turn valid documents invalid.
type Provider interface {
	// ValidateCode reports whether code exists in system.
	ValidateCode(ctx context.Context, system, code string) (bool, error)

	// ValidateCodeInValueSet reports whether code is in the value set.
	// found is false when the provider does not know the value set.
	ValidateCodeInValueSet(ctx context.Context, system, code, valueSetURL string) (valid bool, found bool, err error)
}
