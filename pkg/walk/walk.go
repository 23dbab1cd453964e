// Package walk implements the traversal protocol: a single generic, recursive
// walk over any node tree that lets external algorithms (encoders, equality,
// hashing, binding checks) observe every node and field without the node
// types knowing about them.
//
// For each node the walk calls, in order:
//
//  1. PreVisit(n). Returning false skips the node and its whole subtree; no
//     further hook is called for it, PostVisit included. Only the enclosing
//     parent still gets its VisitEnd and PostVisit. Visitors that need a
//     closing call for a pruned node must make it themselves when PreVisit
//     returns false.
//  2. VisitStart(name, index, n).
//  3. Visit(name, index, n). Returning false skips the node's fields but the
//     walk still continues with step 5.
//  4. For every field in declaration order: VisitValue for scalar attributes,
//     a recursive walk for every child node.
//  5. VisitEnd(name, index, n).
//  6. PostVisit(n).
//
// name is the logical field name (the root is walked under its type name),
// index is the 0-based position in a repeating field or -1. The concrete
// shape of a choice value is n.TypeName().
//
// Walk never modifies nodes, so any number of walks may run over the same
// tree concurrently.
package walk

import "github.com/gofhir/fhirmodel/pkg/element"

// NoIndex is the index reported for single-valued fields and the root.
const NoIndex = -1

// Visitor is an algorithm driven by Walk.
type Visitor interface {
	PreVisit(n element.Node) bool
	VisitStart(name string, index int, n element.Node)
	Visit(name string, index int, n element.Node) bool
	VisitValue(name string, index int, v any)
	VisitEnd(name string, index int, n element.Node)
	PostVisit(n element.Node)
}

// Walk traverses root with v.
func Walk(root element.Node, v Visitor) {
	if element.IsNil(root) {
		return
	}
	walkNode(root.TypeName(), NoIndex, root, v)
}

// WalkField traverses n as the value of a named field. Visitors use it to
// walk detached subtrees under their logical name.
func WalkField(name string, index int, n element.Node, v Visitor) {
	if element.IsNil(n) {
		return
	}
	walkNode(name, index, n, v)
}

func walkNode(name string, index int, n element.Node, v Visitor) {
	if !v.PreVisit(n) {
		return
	}
	v.VisitStart(name, index, n)
	if v.Visit(name, index, n) {
		for _, f := range n.Fields() {
			if f.Value != nil {
				v.VisitValue(f.Name, NoIndex, f.Value)
				continue
			}
			for i, child := range f.Nodes {
				if child == nil {
					continue
				}
				idx := NoIndex
				if f.Repeated {
					idx = i
				}
				walkNode(f.Name, idx, child, v)
			}
		}
	}
	v.VisitEnd(name, index, n)
	v.PostVisit(n)
}

// Base is a Visitor that descends everywhere and does nothing. Embed it to
// implement only the hooks an algorithm needs.
type Base struct{}

func (Base) PreVisit(element.Node) bool           { return true }
func (Base) VisitStart(string, int, element.Node) {}
func (Base) Visit(string, int, element.Node) bool { return true }
func (Base) VisitValue(string, int, any)          {}
func (Base) VisitEnd(string, int, element.Node)   {}
func (Base) PostVisit(element.Node)               {}

// Funcs adapts plain functions to a Visitor. Nil hooks descend everywhere
// and do nothing.
type Funcs struct {
	PreVisitFunc   func(n element.Node) bool
	VisitStartFunc func(name string, index int, n element.Node)
	VisitFunc      func(name string, index int, n element.Node) bool
	VisitValueFunc func(name string, index int, v any)
	VisitEndFunc   func(name string, index int, n element.Node)
	PostVisitFunc  func(n element.Node)
}

func (f *Funcs) PreVisit(n element.Node) bool {
	return f.PreVisitFunc == nil || f.PreVisitFunc(n)
}

func (f *Funcs) VisitStart(name string, index int, n element.Node) {
	if f.VisitStartFunc != nil {
		f.VisitStartFunc(name, index, n)
	}
}

func (f *Funcs) Visit(name string, index int, n element.Node) bool {
	return f.VisitFunc == nil || f.VisitFunc(name, index, n)
}

func (f *Funcs) VisitValue(name string, index int, v any) {
	if f.VisitValueFunc != nil {
		f.VisitValueFunc(name, index, v)
	}
}

func (f *Funcs) VisitEnd(name string, index int, n element.Node) {
	if f.VisitEndFunc != nil {
		f.VisitEndFunc(name, index, n)
	}
}

func (f *Funcs) PostVisit(n element.Node) {
	if f.PostVisitFunc != nil {
		f.PostVisitFunc(n)
	}
}

// Nodes returns every node of the tree in pre-order.
func Nodes(root element.Node) []element.Node {
	var out []element.Node
	Walk(root, &Funcs{PreVisitFunc: func(n element.Node) bool {
		out = append(out, n)
		return true
	}})
	return out
}
