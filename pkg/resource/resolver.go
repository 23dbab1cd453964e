package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/reference"
)

// ErrNotFound is returned by resolvers for references they cannot resolve.
var ErrNotFound = errors.New("reference not resolved")

// Resolver looks up the target of a reference made from a resource.
type Resolver interface {
	Resolve(ctx context.Context, from Resource, ref *datatype.Reference) (Resource, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, from Resource, ref *datatype.Reference) (Resource, error)

func (f ResolverFunc) Resolve(ctx context.Context, from Resource, ref *datatype.Reference) (Resource, error) {
	return f(ctx, from, ref)
}

// ContainedResolver resolves "#id" references against the contained
// resources of the referring resource.
type ContainedResolver struct{}

func (ContainedResolver) Resolve(_ context.Context, from Resource, ref *datatype.Reference) (Resource, error) {
	id, ok := reference.FragmentID(ref.ReferenceLiteral())
	if !ok || from == nil {
		return nil, ErrNotFound
	}
	if r, ok := from.ResourceBase().ContainedByID(id); ok {
		return r, nil
	}
	return nil, fmt.Errorf("#%s: %w", id, ErrNotFound)
}

// Store is an in-memory resolver keyed by "Type/id". It is safe for
// concurrent use.
type Store struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewStore creates a store holding resources.
func NewStore(resources ...Resource) (*Store, error) {
	s := &Store{resources: make(map[string]Resource)}
	for _, r := range resources {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add stores r, replacing any resource with the same type and id.
func (s *Store) Add(r Resource) error {
	key := Key(r)
	if key == "" {
		return fmt.Errorf("store %s: resource has no id", r.TypeName())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[key] = r
	return nil
}

// Get returns the resource of the given kind and id.
func (s *Store) Get(kind, id string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[kind+"/"+id]
	return r, ok
}

// Len returns the number of stored resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// Resolve resolves relative and absolute literal references. A type tag, if
// present, must agree with the stored resource.
func (s *Store) Resolve(ctx context.Context, _ Resource, ref *datatype.Reference) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	literal := ref.ReferenceLiteral()
	kind, id, ok := reference.Split(literal)
	if !ok {
		return nil, ErrNotFound
	}
	r, found := s.Get(kind, id)
	if !found {
		return nil, fmt.Errorf("%s: %w", literal, ErrNotFound)
	}
	if tag := reference.TagKind(ref.ReferenceType()); tag != "" && tag != r.TypeName() {
		return nil, fmt.Errorf("%s: type %s does not match %s: %w", literal, tag, r.TypeName(), ErrNotFound)
	}
	return r, nil
}

// Chain tries resolvers in order and returns the first resolved target.
// Errors other than ErrNotFound stop the chain.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, from Resource, ref *datatype.Reference) (Resource, error) {
	for _, r := range c {
		target, err := r.Resolve(ctx, from, ref)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}
