package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gofhir/fhirmodel/pkg/logger"
)

// Registry indexes declarations by type name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	decls map[string]*Declaration
}

// Default is the process-wide registry the shape packages load their
// catalogs into.
var Default = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decls: make(map[string]*Declaration)}
}

// Register finalizes and adds declarations. Registering a type twice
// replaces the earlier declaration.
func (r *Registry) Register(decls ...*Declaration) error {
	for _, d := range decls {
		if d == nil {
			continue
		}
		if err := d.finalize(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range decls {
		if d == nil {
			continue
		}
		r.decls[d.Type] = d
	}
	return nil
}

// Get returns the declaration of a type.
func (r *Registry) Get(typ string) (*Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decls[typ]
	return d, ok
}

// MustGet returns the declaration of a type and panics when it is unknown.
// Shape packages use it for their own, embedded declarations.
func (r *Registry) MustGet(typ string) *Declaration {
	d, ok := r.Get(typ)
	if !ok {
		panic(fmt.Sprintf("schema: no declaration for %q", typ))
	}
	return d
}

// KindOf returns the kind of a declared type.
func (r *Registry) KindOf(typ string) (Kind, bool) {
	d, ok := r.Get(typ)
	if !ok {
		return "", false
	}
	return d.Kind, true
}

// IsResource reports whether typ is a declared resource type.
func (r *Registry) IsResource(typ string) bool {
	k, ok := r.KindOf(typ)
	return ok && k == KindResource
}

// IsDataType reports whether typ is a declared primitive or complex type.
func (r *Registry) IsDataType(typ string) bool {
	k, ok := r.KindOf(typ)
	return ok && (k == KindPrimitive || k == KindComplex)
}

// Admits reports whether a node of type shape may appear in a field whose
// declared types are types. "Resource" admits every resource type and
// AnyType every data type.
func (r *Registry) Admits(types []string, shape string) bool {
	for _, t := range types {
		switch {
		case t == shape:
			return true
		case t == AnyType && r.IsDataType(shape):
			return true
		case t == "Resource" && r.IsResource(shape):
			return true
		}
	}
	return false
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.decls))
	for name := range r.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.decls)
}

// catalogFile is the YAML layout of a shape catalog.
type catalogFile struct {
	Shapes []*Declaration `yaml:"shapes"`
}

// DecodeYAML reads a catalog without registering it.
func DecodeYAML(r io.Reader) ([]*Declaration, error) {
	var cat catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, d := range cat.Shapes {
		if err := d.finalize(); err != nil {
			return nil, err
		}
	}
	return cat.Shapes, nil
}

// LoadYAML decodes a catalog and registers every declaration in it.
func (r *Registry) LoadYAML(data []byte) ([]*Declaration, error) {
	decls, err := DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := r.Register(decls...); err != nil {
		return nil, err
	}
	logger.Debug("schema: registered %d declarations", len(decls))
	return decls, nil
}

// MustLoadYAML is LoadYAML for embedded catalogs; it panics on error.
func (r *Registry) MustLoadYAML(data []byte) []*Declaration {
	decls, err := r.LoadYAML(data)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return decls
}

// LoadFS registers every catalog in fsys matching pattern.
func (r *Registry) LoadFS(fsys fs.FS, pattern string) (int, error) {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return total, err
		}
		decls, err := r.LoadYAML(data)
		if err != nil {
			return total, fmt.Errorf("%s: %w", name, err)
		}
		total += len(decls)
	}
	return total, nil
}

// EncodeYAML writes declarations as a catalog, listing only the fields each
// type declares itself.
func EncodeYAML(w io.Writer, decls ...*Declaration) error {
	out := catalogFile{Shapes: make([]*Declaration, 0, len(decls))}
	for _, d := range decls {
		own := *d
		inherited := 0
		if fields, err := baseFields(d.Base); err == nil && d.ready {
			inherited = len(fields)
		}
		own.Fields = d.Fields[inherited:]
		out.Shapes = append(out.Shapes, &own)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
