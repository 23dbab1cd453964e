// Package build runs the construction checks every Build method shares.
//
// A Checker is bound to the declaration of the node being built. Builders
// resolve their choice fields through it, hand it any type-specific errors,
// and finally pass the assembled node to Node, which checks every declared
// field against the declaration:
//
//   - cardinality (missing required fields, too many values, nil entries)
//   - the shape of choice values not already resolved
//   - the kind of every reference in a field with declared targets
//   - the value-or-children rule, or the children rule for roots
//
// All failures are collected; the builder returns no node if there is any.
package build

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/gofhir/fhirmodel/pkg/choice"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/reference"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/validate"
)

// Checker accumulates the construction errors of one node. It is used by a
// single Build call and is not safe for concurrent use.
type Checker struct {
	decl     *schema.Declaration
	refs     *reference.Checker
	errs     error
	reported map[string]bool
}

// For returns a Checker for nodes of the given declaration.
func For(decl *schema.Declaration) *Checker {
	return &Checker{decl: decl, refs: reference.New(nil)}
}

// Declaration returns the declaration the checker is bound to.
func (c *Checker) Declaration() *schema.Declaration {
	return c.decl
}

// Choice resolves a choice field against its declared shapes. A required
// choice that is absent fails with MissingRequiredField.
func (c *Checker) Choice(field string, n element.Node) choice.Value {
	fd, ok := c.decl.Field(field)
	if !ok {
		c.Add(fmt.Errorf("%s: undeclared choice field %q", c.decl.Type, field))
		return choice.Value{}
	}

	var (
		v   choice.Value
		err error
	)
	if fd.Card.Required() {
		v, err = choice.ResolveRequired(c.decl.Type, field, n, fd.Types...)
	} else {
		v, err = choice.Resolve(c.decl.Type, field, n, fd.Types...)
	}
	c.Add(err)
	return v
}

// Add records errors. Nil errors are ignored. Fields named by construction
// errors are not checked again by Node.
func (c *Checker) Add(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		for _, ve := range validate.Errors(err) {
			if ve.Field != "" && ve.Type == c.decl.Type {
				c.markReported(ve.Field)
			}
		}
		c.errs = multierr.Append(c.errs, err)
	}
}

// Err returns the errors recorded so far.
func (c *Checker) Err() error {
	return c.errs
}

func (c *Checker) markReported(field string) {
	if c.reported == nil {
		c.reported = make(map[string]bool)
	}
	c.reported[field] = true
}

// Node checks the assembled node and returns every recorded error.
func (c *Checker) Node(n element.Node) error {
	typ := c.decl.Type
	for _, f := range n.Fields() {
		if c.reported[f.Name] {
			continue
		}
		fd, ok := c.decl.Field(f.Name)
		if !ok {
			c.Add(fmt.Errorf("%s: field %q is not declared", typ, f.Name))
			continue
		}
		c.checkField(f, fd)
	}

	if c.decl.IsRoot() {
		c.Add(validate.RequireChildren(n))
	} else {
		c.Add(validate.RequireValueOrChildren(n))
	}
	return c.errs
}

func (c *Checker) checkField(f element.Field, fd *schema.FieldDecl) {
	typ := c.decl.Type
	for i, child := range f.Nodes {
		if child == nil {
			c.Add(validate.InvalidValue(typ, f.Name, "", fmt.Sprintf("nil entry at index %d", i)))
			return
		}
	}

	n := f.Count()
	switch {
	case n < fd.Card.Min:
		if fd.Card.Repeating() {
			c.Add(validate.RequireNonEmpty(typ, f.Name, n))
		} else {
			c.Add(validate.RequireNonNull(typ, f.Name, false))
		}
		return
	case fd.Card.Max != schema.Unbounded && n > fd.Card.Max:
		c.Add(validate.TooManyValues(typ, f.Name, n, fd.Card.Max))
		return
	}

	if f.Choice {
		for _, child := range f.Nodes {
			if _, err := choice.Resolve(typ, f.Name, child, fd.Types...); err != nil {
				c.Add(err)
				return
			}
		}
	}

	if len(fd.Targets) == 0 {
		return
	}
	for _, child := range f.Nodes {
		p, ok := child.(reference.Pointer)
		if !ok {
			continue
		}
		if _, err := c.refs.Check(typ, f.Name, p, fd.Targets); err != nil {
			c.Add(err)
		}
	}
}

// Finish runs Node on n and returns n, or the zero value and the errors.
func Finish[T element.Node](c *Checker, n T) (T, error) {
	if err := c.Node(n); err != nil {
		var zero T
		return zero, err
	}
	return n, nil
}

// Check runs the declaration checks on n together with any errors the
// builder found itself.
func Check[T element.Node](decl *schema.Declaration, n T, extra ...error) (T, error) {
	c := For(decl)
	c.Add(extra...)
	return Finish(c, n)
}
