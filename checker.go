package fhirmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gofhir/fhirmodel/pkg/constraint"
	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/issue"
	"github.com/gofhir/fhirmodel/pkg/logger"
	"github.com/gofhir/fhirmodel/pkg/reference"
	"github.com/gofhir/fhirmodel/pkg/resource"
	"github.com/gofhir/fhirmodel/pkg/terminology"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

// Checker runs the checks that need more than a single node: reference
// resolution, terminology bindings and FHIRPath invariants. It only reads
// the resources it is given and is safe for concurrent use.
type Checker struct {
	opts        *Options
	log         *logger.Logger
	resolver    resource.Resolver
	references  *reference.Checker
	terminology *terminology.Checker
	constraints *constraint.Evaluator
	metrics     *Metrics
}

// NewChecker creates a checker.
func NewChecker(opts ...Option) *Checker {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	c := &Checker{
		opts:       o,
		log:        o.Logger,
		references: reference.New(o.Registry),
		metrics:    NewMetrics(),
	}
	if c.log == nil {
		c.log = logger.Default()
	}

	c.resolver = resource.ContainedResolver{}
	if o.Resolver != nil {
		c.resolver = resource.Chain{resource.ContainedResolver{}, o.Resolver}
	}
	if o.Terminology != nil {
		c.terminology = &terminology.Checker{Store: o.Terminology, Registry: o.Registry}
	}
	if o.ValidateConstraints {
		c.constraints = constraint.New(
			constraint.WithRegistry(o.Registry),
			constraint.WithCacheSize(o.ExpressionCacheSize),
			constraint.WithLogger(c.log),
		)
	}
	c.log.Debug("checker for FHIR %s: terminology=%t constraints=%t resolver=%t",
		o.Version.Release(), c.terminology != nil, c.constraints != nil, o.Resolver != nil)
	return c
}

// Options returns the checker's configuration.
func (c *Checker) Options() *Options {
	return c.opts
}

// Metrics returns the checker's metrics.
func (c *Checker) Metrics() *Metrics {
	return c.metrics
}

// Check checks res and returns its issues, most severe first. The error is
// non-nil only when res is nil or ctx ends before the check completes.
func (c *Checker) Check(ctx context.Context, res resource.Resource) (*issue.Result, error) {
	if element.IsNil(res) {
		return nil, errors.New("check: nil resource")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	result := issue.NewResult()
	nodes, resolved, err := c.checkReferences(ctx, res, result)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", res.TypeName(), err)
	}
	if c.terminology != nil {
		found := c.terminology.Check(ctx, res)
		result.Merge(found)
		issue.ReleaseResult(found)
	}
	if c.constraints != nil {
		found := c.constraints.Check(ctx, res)
		result.Merge(found)
		issue.ReleaseResult(found)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check %s: %w", res.TypeName(), err)
	}

	if c.opts.StrictMode {
		for i := range result.Issues {
			if result.Issues[i].Severity == issue.SeverityWarning {
				result.Issues[i].Severity = issue.SeverityError
			}
		}
	}
	result.Sort()
	result.Truncate(c.opts.MaxErrors)

	elapsed := time.Since(start)
	result.Stats = &issue.Stats{
		ResourceType:       res.TypeName(),
		ResourceID:         res.ResourceBase().ID(),
		Duration:           elapsed.Nanoseconds(),
		NodesChecked:       nodes,
		ReferencesResolved: resolved,
	}
	c.metrics.RecordCheck(elapsed, result)
	c.log.Debug("checked %s/%s: %d errors, %d warnings in %s",
		res.TypeName(), res.ResourceBase().ID(), result.ErrorCount(), result.WarningCount(), elapsed)
	return result, nil
}

// CheckAll checks resources concurrently, at most WorkerCount at a time.
// Results are in the order of resources. The first error cancels the
// remaining checks.
func (c *Checker) CheckAll(ctx context.Context, resources []resource.Resource) ([]*issue.Result, error) {
	results := make([]*issue.Result, len(resources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.WorkerCount)
	for i, res := range resources {
		g.Go(func() error {
			r, err := c.Check(ctx, res)
			if err != nil {
				return fmt.Errorf("resource %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkReferences resolves every reference in res and reports modifier
// extensions. It returns the number of nodes visited and references looked
// up.
func (c *Checker) checkReferences(ctx context.Context, res resource.Resource, result *issue.Result) (nodes, resolved int, err error) {
	v := &referenceVisitor{
		ctx:     ctx,
		checker: c,
		root:    res,
		paths:   walk.NewPathTracker(),
		result:  result,
	}
	defer v.paths.Release()
	walk.Walk(res, v)
	result.SetSource(0, "reference")
	return v.nodes, v.resolved, v.err
}

type referenceVisitor struct {
	walk.Base
	ctx      context.Context
	checker  *Checker
	root     resource.Resource
	paths    *walk.PathTracker
	parents  []element.Node
	result   *issue.Result
	nodes    int
	resolved int
	err      error
}

func (v *referenceVisitor) PreVisit(element.Node) bool {
	if v.err == nil {
		v.err = v.ctx.Err()
	}
	return v.err == nil
}

func (v *referenceVisitor) VisitStart(name string, index int, n element.Node) {
	v.nodes++
	v.paths.Push(name, index)
	if v.checker.opts.ReportModifiers {
		for _, ext := range n.ElementHeader().ModifierExtension() {
			v.result.AddWithID(issue.DiagModifierExtension, map[string]any{"url": ext.URL()}, v.paths.Path())
		}
	}
	if ref, ok := n.(*datatype.Reference); ok && len(v.parents) > 0 {
		v.resolve(v.parents[len(v.parents)-1], name, ref)
	}
	v.parents = append(v.parents, n)
}

func (v *referenceVisitor) VisitEnd(string, int, element.Node) {
	v.parents = v.parents[:len(v.parents)-1]
	v.paths.Pop()
}

// resolve looks up ref, the value of field name of parent, and checks the
// kind of the resolved target against the field's declared targets.
func (v *referenceVisitor) resolve(parent element.Node, name string, ref *datatype.Reference) {
	literal := ref.ReferenceLiteral()
	if literal == "" {
		return
	}
	_, fragment := reference.FragmentID(literal)
	if !fragment && (v.checker.opts.Resolver == nil || strings.HasPrefix(literal, "urn:")) {
		return
	}

	v.resolved++
	target, err := v.checker.resolver.Resolve(v.ctx, v.root, ref)
	switch {
	case errors.Is(err, resource.ErrNotFound):
		v.result.AddWithID(issue.DiagReferenceNotFound, map[string]any{"reference": literal}, v.paths.Path())
		return
	case err != nil:
		if ctxErr := v.ctx.Err(); ctxErr != nil {
			v.err = ctxErr
			return
		}
		v.result.AddWithID(issue.DiagReferenceResolveError,
			map[string]any{"reference": literal, "error": err.Error()}, v.paths.Path())
		return
	}

	var targets []string
	if decl, ok := v.checker.opts.Registry.Get(parent.TypeName()); ok {
		if fd, ok := decl.Field(name); ok {
			targets = fd.Targets
		}
	}
	outcome, _ := v.checker.references.Check(parent.TypeName(), name,
		resolvedPointer{literal: literal, kind: target.TypeName()}, targets)
	if outcome == reference.Fail {
		v.result.AddWithID(issue.DiagReferenceTargetKind, map[string]any{
			"reference": literal,
			"type":      target.TypeName(),
			"allowed":   strings.Join(reference.TargetKinds(targets), ", "),
		}, v.paths.Path())
	}
}

// resolvedPointer is a reference whose kind is known from its target.
type resolvedPointer struct {
	literal, kind string
}

func (p resolvedPointer) ReferenceLiteral() string { return p.literal }
func (p resolvedPointer) ReferenceType() string    { return p.kind }

var _ reference.Pointer = resolvedPointer{}
