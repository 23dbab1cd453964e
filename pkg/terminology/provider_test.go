package terminology

import (
	"context"
	"errors"
	"testing"
)

type mockProvider struct {
	validateCodeFn           func(ctx context.Context, system, code string) (bool, error)
	validateCodeInValueSetFn func(ctx context.Context, system, code, valueSetURL string) (bool, bool, error)
	calls                    int
}

func (m *mockProvider) ValidateCode(ctx context.Context, system, code string) (bool, error) {
	m.calls++
	if m.validateCodeFn != nil {
		return m.validateCodeFn(ctx, system, code)
	}
	return false, errors.New("not implemented")
}

func (m *mockProvider) ValidateCodeInValueSet(ctx context.Context, system, code, valueSetURL string) (valid, found bool, err error) {
	m.calls++
	if m.validateCodeInValueSetFn != nil {
		return m.validateCodeInValueSetFn(ctx, system, code, valueSetURL)
	}
	return false, false, nil
}

const (
	snomedVS = "http://example.org/ValueSet/snomed"
	snomed   = "http://snomed.info/sct"
)

func TestProviderExternalSystem(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		provider  *mockProvider
		wantFound bool
		wantCalls int
	}{
		{
			name:      "no provider accepts",
			wantFound: true,
		},
		{
			name: "provider accepts",
			provider: &mockProvider{validateCodeFn: func(_ context.Context, system, code string) (bool, error) {
				return system == snomed && code == "22298006", nil
			}},
			wantFound: true,
			wantCalls: 1,
		},
		{
			name: "provider rejects",
			provider: &mockProvider{validateCodeFn: func(context.Context, string, string) (bool, error) {
				return false, nil
			}},
			wantFound: false,
			wantCalls: 1,
		},
		{
			name:      "provider error accepts",
			provider:  &mockProvider{},
			wantFound: true,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEmptyStore()
			s.AddValueSet(snomedVS, snomed)
			if tt.provider != nil {
				s.SetProvider(tt.provider)
			}
			found, known := s.Contains(ctx, snomedVS, snomed, "22298006")
			if found != tt.wantFound || !known {
				t.Errorf("Contains() = %v, %v; want %v, true", found, known, tt.wantFound)
			}
			if tt.provider != nil && tt.provider.calls != tt.wantCalls {
				t.Errorf("provider called %d times; want %d", tt.provider.calls, tt.wantCalls)
			}
		})
	}
}

func TestProviderUnknownValueSet(t *testing.T) {
	ctx := context.Background()
	const vs = "http://example.org/ValueSet/remote"

	p := &mockProvider{validateCodeInValueSetFn: func(_ context.Context, _, code, url string) (bool, bool, error) {
		if url != vs {
			return false, false, nil
		}
		return code == "ok", true, nil
	}}
	s := NewEmptyStore()
	s.SetProvider(p)

	if found, known := s.Contains(ctx, vs, "", "ok"); !found || !known {
		t.Errorf("Contains(ok) = %v, %v; want true, true", found, known)
	}
	if found, known := s.Contains(ctx, vs, "", "bad"); found || !known {
		t.Errorf("Contains(bad) = %v, %v; want false, true", found, known)
	}
	if _, known := s.Contains(ctx, "http://example.org/ValueSet/other", "", "ok"); known {
		t.Error("value set unknown to the provider reported known")
	}
}

func TestHeldSystemSkipsProvider(t *testing.T) {
	p := &mockProvider{}
	s := NewStore()
	s.SetProvider(p)
	s.Contains(context.Background(), genderVS, genderSystem, "male")
	if p.calls != 0 {
		t.Errorf("provider called %d times for a held code system", p.calls)
	}
}
