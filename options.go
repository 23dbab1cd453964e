package fhirmodel

import (
	"runtime"

	"github.com/gofhir/fhirmodel/pkg/logger"
	"github.com/gofhir/fhirmodel/pkg/resource"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/terminology"
)

// Option configures the Checker.
type Option func(*Options)

// Options holds all configuration for the Checker.
type Options struct {
	Version  FHIRVersion
	Registry *schema.Registry

	// Terminology is the store bindings are checked against. Nil disables
	// binding checks.
	Terminology *terminology.Store

	// Resolver resolves non-contained references. Without one only "#id"
	// references are resolved and other references are not checked.
	Resolver resource.Resolver

	ValidateConstraints bool
	ReportModifiers     bool
	StrictMode          bool

	// Performance
	MaxErrors           int
	WorkerCount         int
	ExpressionCacheSize int

	Logger *logger.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Version:             R4,
		Registry:            schema.Default,
		ValidateConstraints: true,
		ReportModifiers:     true,
		MaxErrors:           0, // unlimited
		WorkerCount:         runtime.NumCPU(),
		ExpressionCacheSize: 2000,
	}
}

// WithVersion sets the FHIR version the checked documents claim. Unsupported
// versions are ignored.
func WithVersion(v FHIRVersion) Option {
	return func(o *Options) {
		if v.IsValid() {
			o.Version = v
		}
	}
}

// WithRegistry checks against the declarations of reg.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *Options) {
		if reg != nil {
			o.Registry = reg
		}
	}
}

// WithTerminology enables binding checks against store.
func WithTerminology(store *terminology.Store) Option {
	return func(o *Options) {
		o.Terminology = store
	}
}

// WithResolver resolves references with r. Contained references are always
// resolved first.
func WithResolver(r resource.Resolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// WithConstraints enables FHIRPath invariant evaluation.
func WithConstraints(enable bool) Option {
	return func(o *Options) {
		o.ValidateConstraints = enable
	}
}

// WithModifierExtensions reports modifier extensions as information issues.
func WithModifierExtensions(enable bool) Option {
	return func(o *Options) {
		o.ReportModifiers = enable
	}
}

// WithStrictMode treats warnings as errors.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// WithMaxErrors keeps at most limit errors per result. Use 0 for unlimited.
func WithMaxErrors(limit int) Option {
	return func(o *Options) {
		o.MaxErrors = limit
	}
}

// WithWorkerCount sets the number of resources CheckAll checks at once.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithExpressionCache sets the compiled FHIRPath expression cache size.
func WithExpressionCache(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ExpressionCacheSize = size
		}
	}
}

// WithLogger sets the logger. Defaults to logger.Default().
func WithLogger(l *logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// --- Presets ---

// FastOptions skips invariants and modifier reporting.
func FastOptions() []Option {
	return []Option{
		WithConstraints(false),
		WithModifierExtensions(false),
	}
}

// StrictOptions enables every check with the built-in terminology and treats
// warnings as errors.
func StrictOptions() []Option {
	return []Option{
		WithTerminology(terminology.NewStore()),
		WithConstraints(true),
		WithModifierExtensions(true),
		WithStrictMode(true),
	}
}
