package terminology

import (
	"context"

	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/issue"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

// Checker checks coded fields against their declared bindings.
//
// Required bindings give errors for codes outside the value set, extensible
// bindings give warnings unless a coding comes from a system the value set
// does not draw from. Preferred and example bindings are not checked.
// Codings from a code system the store holds must exist in it whatever the
// binding.
type Checker struct {
	Store    *Store
	Registry *schema.Registry
}

// NewChecker returns a checker over store and schema.Default.
func NewChecker(store *Store) *Checker {
	return &Checker{Store: store}
}

// Check walks root and reports binding issues. Cancellation stops the walk
// early; the issues found so far are returned. The result comes from the
// issue pool and may be passed to issue.ReleaseResult once read.
func (c *Checker) Check(ctx context.Context, root element.Node) *issue.Result {
	reg := c.Registry
	if reg == nil {
		reg = schema.Default
	}
	v := &bindingVisitor{
		ctx:    ctx,
		store:  c.Store,
		reg:    reg,
		paths:  walk.NewPathTracker(),
		result: issue.GetPooledResult(),
	}
	defer v.paths.Release()
	walk.Walk(root, v)
	v.result.SetSource(0, "terminology")
	return v.result
}

type bindingVisitor struct {
	walk.Base
	ctx     context.Context
	store   *Store
	reg     *schema.Registry
	paths   *walk.PathTracker
	parents []element.Node
	result  *issue.Result
}

func (v *bindingVisitor) PreVisit(element.Node) bool {
	return v.ctx.Err() == nil
}

func (v *bindingVisitor) VisitStart(name string, index int, n element.Node) {
	v.paths.Push(name, index)
	if len(v.parents) > 0 {
		v.check(v.parents[len(v.parents)-1], name, n)
	}
	v.parents = append(v.parents, n)
}

func (v *bindingVisitor) VisitEnd(string, int, element.Node) {
	v.parents = v.parents[:len(v.parents)-1]
	v.paths.Pop()
}

// check looks at n, the value of field name of parent.
func (v *bindingVisitor) check(parent element.Node, name string, n element.Node) {
	if coding, ok := n.(*datatype.Coding); ok {
		v.checkCodeSystem(coding)
	}

	decl, ok := v.reg.Get(parent.TypeName())
	if !ok {
		return
	}
	fd, ok := decl.Field(name)
	if !ok || !fd.Binding.Normative() {
		return
	}
	b := fd.Binding

	switch n := n.(type) {
	case *datatype.Code:
		code, ok := n.Value()
		if !ok {
			return
		}
		v.checkCodings(b, []codePair{{code: code}})
	case *datatype.Coding:
		v.checkCodings(b, []codePair{pairOf(n)})
	case *datatype.CodeableConcept:
		if len(n.Coding()) == 0 {
			v.report(b, issue.DiagBindingTextOnly, map[string]any{"valueSet": b.ValueSet})
			return
		}
		pairs := make([]codePair, 0, len(n.Coding()))
		for _, c := range n.Coding() {
			pairs = append(pairs, pairOf(c))
		}
		v.checkCodings(b, pairs)
	}
}

type codePair struct {
	system, code string
}

func pairOf(c *datatype.Coding) codePair {
	var p codePair
	if c.System() != nil {
		p.system, _ = c.System().Value()
	}
	if c.Code() != nil {
		p.code, _ = c.Code().Value()
	}
	return p
}

// checkCodings passes when any of pairs is in the bound value set.
func (v *bindingVisitor) checkCodings(b *schema.Binding, pairs []codePair) {
	var first codePair
	for i, p := range pairs {
		if p.code == "" {
			continue
		}
		if i == 0 || first.code == "" {
			first = p
		}
		found, known := v.store.Contains(v.ctx, b.ValueSet, p.system, p.code)
		if !known {
			v.result.AddWithID(issue.DiagBindingValueSetNotFound,
				map[string]any{"valueSet": b.ValueSet, "code": p.code}, v.paths.Path())
			return
		}
		if found {
			return
		}
		// Extensible bindings admit codes from other systems.
		if b.Strength == schema.StrengthExtensible && p.system != "" && !v.store.Includes(b.ValueSet, p.system) {
			return
		}
	}
	if first.code == "" {
		v.report(b, issue.DiagBindingTextOnly, map[string]any{"valueSet": b.ValueSet})
		return
	}
	id := issue.DiagBindingExtensible
	if b.Strength == schema.StrengthRequired {
		id = issue.DiagBindingRequired
	}
	v.result.AddWithID(id, map[string]any{"code": first.code, "valueSet": b.ValueSet}, v.paths.Path())
}

// report adds id as an error for required bindings and a warning otherwise.
func (v *bindingVisitor) report(b *schema.Binding, id issue.DiagnosticID, params map[string]any) {
	if b.Strength == schema.StrengthRequired {
		tmpl, _ := issue.GetDiagnosticTemplate(id)
		v.result.AddIssue(issue.Issue{
			Severity:    issue.SeverityError,
			Code:        tmpl.Code,
			Diagnostics: issue.FormatDiagnostic(id, params),
			Expression:  []string{v.paths.Path()},
			MessageID:   string(id),
		})
		return
	}
	v.result.AddWarningWithID(id, params, v.paths.Path())
}

func (v *bindingVisitor) checkCodeSystem(c *datatype.Coding) {
	p := pairOf(c)
	if p.system == "" || p.code == "" || !v.store.HasCodeSystem(p.system) {
		return
	}
	if _, ok := v.store.Lookup(p.system, p.code); !ok {
		v.result.AddWithID(issue.DiagCodeNotInCodeSystem,
			map[string]any{"code": p.code, "system": p.system}, v.paths.Path())
	}
}
