// Package terminology holds value sets and code systems in memory and checks
// coded fields against the bindings declared in the shape catalog.
package terminology

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/gofhir/fhir/r4"
	"gopkg.in/yaml.v3"
)

//go:embed valuesets.yaml
var commonYAML []byte

// Store is an in-memory set of value sets and code systems. It is safe for
// concurrent use.
type Store struct {
	mu          sync.RWMutex
	valueSets   map[string]*valueSet
	codeSystems map[string]*codeSystem
	provider    Provider
}

type valueSet struct {
	url   string
	codes map[string]map[string]bool // system -> code
	whole []string                   // systems included entirely
}

type codeSystem struct {
	url   string
	codes map[string]string // code -> display
}

// NewStore returns a store preloaded with the value sets behind the
// required and extensible bindings of the built-in shapes.
func NewStore() *Store {
	s := NewEmptyStore()
	if err := s.LoadYAML(commonYAML); err != nil {
		panic(fmt.Sprintf("terminology: embedded value sets: %v", err))
	}
	return s
}

// NewEmptyStore returns a store with nothing loaded.
func NewEmptyStore() *Store {
	return &Store{
		valueSets:   make(map[string]*valueSet),
		codeSystems: make(map[string]*codeSystem),
	}
}

// SetProvider installs a provider consulted for external systems and for
// value sets the store does not hold.
func (s *Store) SetProvider(p Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// AddCodeSystem registers a complete code system.
func (s *Store) AddCodeSystem(url string, codes map[string]string) {
	cs := &codeSystem{url: url, codes: make(map[string]string, len(codes))}
	for c, d := range codes {
		cs.codes[c] = d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codeSystems[url] = cs
}

// AddValueSet registers a value set holding codes from system. Without
// codes the whole system is included.
func (s *Store) AddValueSet(url, system string, codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs := s.valueSets[url]
	if vs == nil {
		vs = &valueSet{url: url, codes: make(map[string]map[string]bool)}
		s.valueSets[url] = vs
	}
	vs.include(system, codes)
}

func (vs *valueSet) include(system string, codes []string) {
	if len(codes) == 0 {
		vs.whole = append(vs.whole, system)
		return
	}
	set := vs.codes[system]
	if set == nil {
		set = make(map[string]bool, len(codes))
		vs.codes[system] = set
	}
	for _, c := range codes {
		set[c] = true
	}
}

// catalog is the YAML layout read by LoadYAML.
type catalog struct {
	CodeSystems []struct {
		URL   string            `yaml:"url"`
		Codes map[string]string `yaml:"codes"`
	} `yaml:"codeSystems"`
	ValueSets []struct {
		URL     string `yaml:"url"`
		Include []struct {
			System string   `yaml:"system"`
			Codes  []string `yaml:"codes"`
		} `yaml:"include"`
	} `yaml:"valueSets"`
}

// LoadYAML loads code systems and value sets from a YAML catalog.
func (s *Store) LoadYAML(data []byte) error {
	var c catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return fmt.Errorf("terminology catalog: %w", err)
	}
	for _, cs := range c.CodeSystems {
		if cs.URL == "" {
			return fmt.Errorf("terminology catalog: code system without url")
		}
		s.AddCodeSystem(cs.URL, cs.Codes)
	}
	for _, vs := range c.ValueSets {
		if vs.URL == "" || len(vs.Include) == 0 {
			return fmt.Errorf("terminology catalog: value set %q has no url or includes", vs.URL)
		}
		for _, inc := range vs.Include {
			s.AddValueSet(vs.URL, inc.System, inc.Codes...)
		}
	}
	return nil
}

// LoadR4ValueSet loads an R4 ValueSet. The expansion is used when present,
// otherwise the compose includes. Filters are not supported; an include
// with filters but no concepts takes the whole system.
func (s *Store) LoadR4ValueSet(vs *r4.ValueSet) error {
	if vs == nil || vs.Url == nil {
		return fmt.Errorf("valueset is nil or has no URL")
	}
	data := &valueSet{url: *vs.Url, codes: make(map[string]map[string]bool)}

	switch {
	case vs.Expansion != nil:
		var walk func([]r4.ValueSetExpansionContains)
		walk = func(cs []r4.ValueSetExpansionContains) {
			for i := range cs {
				if cs[i].System != nil && cs[i].Code != nil {
					data.include(*cs[i].System, []string{*cs[i].Code})
				}
				walk(cs[i].Contains)
			}
		}
		walk(vs.Expansion.Contains)
	case vs.Compose != nil:
		for i := range vs.Compose.Include {
			inc := &vs.Compose.Include[i]
			if inc.System == nil {
				continue
			}
			var codes []string
			for j := range inc.Concept {
				if c := inc.Concept[j].Code; c != nil {
					codes = append(codes, *c)
				}
			}
			data.include(*inc.System, codes)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.valueSets[data.url] = data
	return nil
}

// LoadR4CodeSystem loads an R4 CodeSystem with its nested concepts.
func (s *Store) LoadR4CodeSystem(cs *r4.CodeSystem) error {
	if cs == nil || cs.Url == nil {
		return fmt.Errorf("codesystem is nil or has no URL")
	}
	data := &codeSystem{url: *cs.Url, codes: make(map[string]string)}
	var walk func([]r4.CodeSystemConcept)
	walk = func(concepts []r4.CodeSystemConcept) {
		for i := range concepts {
			c := &concepts[i]
			if c.Code == nil {
				continue
			}
			var display string
			if c.Display != nil {
				display = *c.Display
			}
			data.codes[*c.Code] = display
			walk(c.Concept)
		}
	}
	walk(cs.Concept)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codeSystems[data.url] = data
	return nil
}

// Contains reports whether code from system is in the value set. known is
// false when the store does not hold the value set and no provider vouches
// for it. An empty system matches a code from any system of the value set.
//
// Codes from systems included entirely but not held by the store are
// checked with the provider when there is one, and accepted otherwise.
// Provider errors are treated the same way.
func (s *Store) Contains(ctx context.Context, valueSetURL, system, code string) (found, known bool) {
	valueSetURL = stripVersion(valueSetURL)

	s.mu.RLock()
	vs, ok := s.valueSets[valueSetURL]
	provider := s.provider
	s.mu.RUnlock()

	if !ok {
		if provider != nil {
			valid, found, err := provider.ValidateCodeInValueSet(ctx, system, code, valueSetURL)
			if err == nil && found {
				return valid, true
			}
		}
		return false, false
	}
	if code == "" {
		return false, true
	}

	for sys, codes := range vs.codes {
		if (system == "" || system == sys) && codes[code] {
			return true, true
		}
	}
	for _, sys := range vs.whole {
		if system != "" && system != sys {
			continue
		}
		if s.inWholeSystem(ctx, provider, sys, code) {
			return true, true
		}
	}
	return false, true
}

func (s *Store) inWholeSystem(ctx context.Context, provider Provider, system, code string) bool {
	s.mu.RLock()
	cs, ok := s.codeSystems[system]
	s.mu.RUnlock()
	if ok {
		_, in := cs.codes[code]
		return in
	}
	if provider == nil {
		return true
	}
	valid, err := provider.ValidateCode(ctx, system, code)
	return err != nil || valid
}

// Includes reports whether the value set draws codes from system.
func (s *Store) Includes(valueSetURL, system string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vs, ok := s.valueSets[stripVersion(valueSetURL)]
	if !ok {
		return false
	}
	if _, ok := vs.codes[system]; ok {
		return true
	}
	for _, sys := range vs.whole {
		if sys == system {
			return true
		}
	}
	return false
}

// HasCodeSystem reports whether the store holds the code system.
func (s *Store) HasCodeSystem(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codeSystems[stripVersion(url)]
	return ok
}

// Lookup returns the display of code in a held code system.
func (s *Store) Lookup(system, code string) (display string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, found := s.codeSystems[system]
	if !found {
		return "", false
	}
	display, ok = cs.codes[code]
	return display, ok
}

// Len returns the number of value sets and code systems held.
func (s *Store) Len() (valueSets, codeSystems int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.valueSets), len(s.codeSystems)
}

// stripVersion drops a "|version" suffix from a canonical URL.
func stripVersion(url string) string {
	if i := strings.LastIndexByte(url, '|'); i >= 0 {
		return url[:i]
	}
	return url
}
