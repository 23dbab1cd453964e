// Package element defines the node model shared by every FHIR shape: the Node
// interface, the header every node embeds (id, extension, modifierExtension)
// and the Field listing used by generic algorithms to inspect a node without
// knowing its concrete type.
//
// Nodes are immutable once built. The only way to change one is to seed a
// builder from it, override fields, and build a new node.
package element

import "reflect"

// Node is an immutable element of a document tree.
type Node interface {
	// TypeName is the shape name of the node, e.g. "Period", "date" or "Claim".
	TypeName() string

	// ElementHeader returns the header shared by every node.
	ElementHeader() *Header

	// HasChildren reports whether the node carries any child content.
	// The element id does not count as content.
	HasChildren() bool

	// Fields lists every declared field in declaration order. Absent fields
	// are listed with no value.
	Fields() []Field
}

// Primitive is implemented by nodes wrapping a single scalar value.
type Primitive interface {
	Node
	PrimitiveValue() (any, bool)
}

// Extension is the view of an extension node the header needs.
type Extension interface {
	Node
	URL() string
	ValueNode() Node
}

// Field is one declared field of a node.
//
// Node-valued fields use Nodes; scalar attributes (element id, extension url,
// the value of a primitive) use Value. Single-valued fields have at most one
// entry in Nodes.
type Field struct {
	Name     string
	Nodes    []Node
	Value    any
	Repeated bool
	Choice   bool
}

// Empty reports whether the field holds nothing.
func (f Field) Empty() bool {
	return len(f.Nodes) == 0 && f.Value == nil
}

// Count returns the number of values held by the field.
func (f Field) Count() int {
	if f.Value != nil {
		return 1
	}
	return len(f.Nodes)
}

// One lists a single-valued node field.
func One[T any, P interface {
	*T
	Node
}](name string, p P) Field {
	f := Field{Name: name}
	if p != nil {
		f.Nodes = []Node{p}
	}
	return f
}

// Many lists a repeating node field. Nil entries are kept as nil so that
// construction checks can reject them.
func Many[T any, P interface {
	*T
	Node
}](name string, ps []P) Field {
	f := Field{Name: name, Repeated: true}
	if len(ps) == 0 {
		return f
	}
	f.Nodes = make([]Node, len(ps))
	for i, p := range ps {
		if p != nil {
			f.Nodes[i] = p
		}
	}
	return f
}

// Nodes lists a repeating field whose entries are already interface values.
func Nodes[N Node](name string, ns []N) Field {
	f := Field{Name: name, Repeated: true}
	if len(ns) == 0 {
		return f
	}
	f.Nodes = make([]Node, len(ns))
	for i, n := range ns {
		if !IsNil(n) {
			f.Nodes[i] = n
		}
	}
	return f
}

// OneOf lists a single-valued choice field.
func OneOf(name string, n Node) Field {
	f := Field{Name: name, Choice: true}
	if !IsNil(n) {
		f.Nodes = []Node{n}
	}
	return f
}

// Attr lists a scalar attribute.
func Attr(name string, v any, present bool) Field {
	f := Field{Name: name}
	if present {
		f.Value = v
	}
	return f
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n any) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

// HasContent reports whether n satisfies the value-or-children rule: a
// primitive with a value, or any node with child content.
func HasContent(n Node) bool {
	if IsNil(n) {
		return false
	}
	if p, ok := n.(Primitive); ok {
		if _, set := p.PrimitiveValue(); set {
			return true
		}
	}
	return n.HasChildren()
}

// HasAnyField reports whether any field of n, including the id, is populated.
func HasAnyField(n Node) bool {
	if IsNil(n) {
		return false
	}
	for _, f := range n.Fields() {
		if !f.Empty() {
			return true
		}
	}
	return false
}

// Lookup returns the field of n with the given name.
func Lookup(n Node, name string) (Field, bool) {
	for _, f := range n.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasFieldContent reports whether any of fields other than the element id
// holds a value. Composite nodes implement HasChildren with it.
func HasFieldContent(fields []Field) bool {
	for _, f := range fields {
		if f.Name != "id" && !f.Empty() {
			return true
		}
	}
	return false
}
