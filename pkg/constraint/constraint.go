// Package constraint evaluates the FHIRPath invariants declared on node
// types. Every node whose declaration carries constraints is encoded to JSON
// and each expression is evaluated against it.
package constraint

import (
	"context"
	"fmt"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/types"

	"github.com/gofhir/fhirmodel/cache"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/encode"
	"github.com/gofhir/fhirmodel/pkg/issue"
	"github.com/gofhir/fhirmodel/pkg/logger"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

// Evaluator evaluates declared invariants. It is safe for concurrent use.
type Evaluator struct {
	registry *schema.Registry
	encoder  *encode.Encoder
	exprs    *cache.Cache[string, *fhirpath.Expression]
	log      *logger.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRegistry evaluates the invariants of reg instead of schema.Default.
func WithRegistry(reg *schema.Registry) Option {
	return func(e *Evaluator) {
		e.registry = reg
		e.encoder = &encode.Encoder{Registry: reg}
	}
}

// WithCacheSize bounds the number of compiled expressions kept.
func WithCacheSize(n int) Option {
	return func(e *Evaluator) { e.exprs = cache.New[string, *fhirpath.Expression](n) }
}

// WithLogger sets the logger for compile and evaluation failures.
func WithLogger(l *logger.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// New returns an evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		registry: schema.Default,
		encoder:  &encode.Encoder{},
		exprs:    cache.New[string, *fhirpath.Expression](cache.DefaultCapacity),
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type target struct {
	path string
	node element.Node
	decl *schema.Declaration
}

// Check evaluates the invariants of every node in root. Compile and
// evaluation failures are reported as warnings and never fail the check.
// The result comes from the issue pool and may be released once read.
func (e *Evaluator) Check(ctx context.Context, root element.Node) *issue.Result {
	result := issue.GetPooledResult()
	for _, t := range e.targets(root) {
		if ctx.Err() != nil {
			break
		}
		e.evaluate(t, result)
	}
	result.SetSource(0, "constraint")
	return result
}

// targets lists the nodes that carry invariants, in pre-order.
func (e *Evaluator) targets(root element.Node) []target {
	var out []target
	paths := walk.NewPathTracker()
	defer paths.Release()
	walk.Walk(root, &walk.Funcs{
		VisitStartFunc: func(name string, index int, n element.Node) {
			paths.Push(name, index)
			if d, ok := e.registry.Get(n.TypeName()); ok && len(d.Constraints) > 0 {
				out = append(out, target{path: paths.Path(), node: n, decl: d})
			}
		},
		VisitEndFunc: func(string, int, element.Node) { paths.Pop() },
	})
	return out
}

func (e *Evaluator) evaluate(t target, result *issue.Result) {
	data, err := e.encoder.JSON(t.node, "")
	if err != nil {
		e.log.Warn("constraint: encode %s: %v", t.path, err)
		return
	}
	for _, c := range t.decl.Constraints {
		if c.Expression == "" {
			continue
		}
		expr, err := e.compile(c.Expression)
		if err != nil {
			e.log.Debug("constraint %s: compile: %v", c.Key, err)
			result.AddWithID(issue.DiagConstraintCompileError,
				map[string]any{"key": c.Key, "error": err.Error()}, t.path)
			continue
		}
		out, err := expr.Evaluate(data)
		if err != nil {
			e.log.Debug("constraint %s at %s: %v", c.Key, t.path, err)
			result.AddWithID(issue.DiagConstraintEvalError,
				map[string]any{"key": c.Key, "error": err.Error()}, t.path)
			continue
		}
		if passed(out) {
			continue
		}
		params := map[string]any{"key": c.Key, "human": c.Human}
		if c.Severity == "error" {
			result.AddWithID(issue.DiagConstraintFailed, params, t.path)
		} else {
			result.AddWarningWithID(issue.DiagConstraintFailed, params, t.path)
		}
	}
}

func (e *Evaluator) compile(expr string) (*fhirpath.Expression, error) {
	return e.exprs.Load(expr, func() (*fhirpath.Expression, error) {
		compiled, err := fhirpath.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", expr, err)
		}
		return compiled, nil
	})
}

// CacheStats reports the compiled expression cache.
func (e *Evaluator) CacheStats() cache.Stats {
	return e.exprs.Stats()
}

// passed reports whether an invariant result holds. An empty result means
// the invariant does not apply. A non-boolean result counts as true.
func passed(c types.Collection) bool {
	if len(c) == 0 {
		return true
	}
	if len(c) == 1 {
		if b, ok := c[0].(types.Boolean); ok {
			return b.Bool()
		}
	}
	return true
}
