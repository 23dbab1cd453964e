// Package encode renders node trees as FHIR JSON and as YAML.
//
// Both encoders walk the tree once, collecting every node into a frame, and
// then lay the frames out in declaration order:
//
//   - resources start with "resourceType"
//   - choice fields are named after the value's shape (servicedDate)
//   - a primitive's id and extensions go to "_name"; in repeating fields the
//     value and "_name" arrays are aligned with nulls
//   - contained resources are written inline
//
// Output is deterministic. Decoding is not supported.
package encode

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gofhir/fhirmodel/pkg/choice"
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

// member is one property of an object.
type member struct {
	key   string
	value any
}

// object is a JSON object with ordered keys. Values are object, []any,
// string, bool, number or nil.
type object []member

// number is a numeric literal kept as written, so decimals keep their scale.
type number string

// frame is a visited node with its scalar attributes and child frames.
type frame struct {
	node   element.Node
	attrs  map[string]any
	fields map[string][]*frame
}

func (f *frame) add(name string, child *frame) {
	if f.fields == nil {
		f.fields = make(map[string][]*frame)
	}
	f.fields[name] = append(f.fields[name], child)
}

// collector builds the frame tree of a walk.
type collector struct {
	walk.Base
	stack []*frame
	root  *frame
}

func (c *collector) VisitStart(name string, _ int, n element.Node) {
	f := &frame{node: n}
	if len(c.stack) == 0 {
		c.root = f
	} else {
		c.stack[len(c.stack)-1].add(name, f)
	}
	c.stack = append(c.stack, f)
}

func (c *collector) VisitValue(name string, _ int, v any) {
	top := c.stack[len(c.stack)-1]
	if top.attrs == nil {
		top.attrs = make(map[string]any, 2)
	}
	top.attrs[name] = v
}

func (c *collector) VisitEnd(string, int, element.Node) {
	c.stack = c.stack[:len(c.stack)-1]
}

// Encoder lays out node trees. The zero Encoder uses schema.Default to tell
// resources from other shapes.
type Encoder struct {
	Registry *schema.Registry
}

func (e *Encoder) registry() *schema.Registry {
	if e.Registry != nil {
		return e.Registry
	}
	return schema.Default
}

// document returns the laid-out document of n: an object, or a scalar for
// a primitive root with a value.
func (e *Encoder) document(n element.Node) any {
	c := &collector{}
	walk.Walk(n, c)
	if c.root == nil {
		return nil
	}
	if _, ok := n.(element.Primitive); ok {
		if v, ok := c.root.attrs["value"]; ok {
			return scalar(v)
		}
	}
	return e.object(c.root, false)
}

// object lays out f. With primitiveExt set, the value attribute is left out
// so that only the id and extensions of a primitive remain.
func (e *Encoder) object(f *frame, primitiveExt bool) object {
	n := f.node
	var obj object
	if !primitiveExt && e.registry().IsResource(n.TypeName()) {
		obj = append(obj, member{"resourceType", n.TypeName()})
	}
	for _, fd := range n.Fields() {
		if fd.Value != nil {
			if primitiveExt && fd.Name == "value" {
				continue
			}
			if v, ok := f.attrs[fd.Name]; ok {
				obj = append(obj, member{fd.Name, scalar(v)})
			}
			continue
		}
		kids := f.fields[fd.Name]
		if len(kids) == 0 {
			continue
		}
		obj = e.field(obj, fd, kids)
	}
	return obj
}

func (e *Encoder) field(obj object, fd element.Field, kids []*frame) object {
	key := fd.Name
	if fd.Choice {
		key = choice.ElementName(fd.Name, kids[0].node.TypeName())
	}

	if _, ok := kids[0].node.(element.Primitive); ok {
		values := make([]any, len(kids))
		exts := make([]any, len(kids))
		var hasValue, hasExt bool
		for i, k := range kids {
			if v, ok := k.attrs["value"]; ok {
				values[i] = scalar(v)
				hasValue = true
			}
			if ext := e.object(k, true); len(ext) > 0 {
				exts[i] = ext
				hasExt = true
			}
		}
		if !fd.Repeated {
			if hasValue {
				obj = append(obj, member{key, values[0]})
			}
			if hasExt {
				obj = append(obj, member{"_" + key, exts[0]})
			}
			return obj
		}
		if hasValue {
			obj = append(obj, member{key, values})
		}
		if hasExt {
			obj = append(obj, member{"_" + key, exts})
		}
		return obj
	}

	if !fd.Repeated {
		return append(obj, member{key, e.object(kids[0], false)})
	}
	items := make([]any, len(kids))
	for i, k := range kids {
		items[i] = e.object(k, false)
	}
	return append(obj, member{key, items})
}

// scalar converts a primitive value to its document form.
func scalar(v any) any {
	switch v := v.(type) {
	case bool, string:
		return v
	case int32:
		return number(strconv.FormatInt(int64(v), 10))
	case uint32:
		return number(strconv.FormatUint(uint64(v), 10))
	case decimal.Decimal:
		if v.Exponent() < 0 {
			return number(v.StringFixed(-v.Exponent()))
		}
		return number(v.String())
	default:
		return v
	}
}

var defaultEncoder = &Encoder{}
