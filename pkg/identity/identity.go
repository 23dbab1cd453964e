// Package identity implements structural equality and hashing of node trees.
//
// Both are driven by the same token stream, produced by walking a tree with
// the traversal protocol: one token per bracket, per scalar value and per
// closing bracket. Two trees are equal iff their streams are equal, so
// equality and hashing always cover exactly the fields the nodes list.
package identity

import (
	"hash/fnv"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

type tokenKind uint8

const (
	tokStart tokenKind = iota + 1
	tokValue
	tokEnd
)

type token struct {
	kind  tokenKind
	name  string
	index int
	typ   string
	value string
}

// write feeds the token to a hash, with separators that keep adjacent
// strings from running together.
func (t token) write(h interface{ Write([]byte) (int, error) }, scratch []byte) []byte {
	scratch = append(scratch[:0], byte(t.kind))
	scratch = append(scratch, t.name...)
	scratch = append(scratch, 0)
	scratch = strconv.AppendInt(scratch, int64(t.index), 10)
	scratch = append(scratch, 0)
	scratch = append(scratch, t.typ...)
	scratch = append(scratch, 0)
	scratch = append(scratch, t.value...)
	scratch = append(scratch, 0)
	_, _ = h.Write(scratch)
	return scratch
}

// tokenizer turns a walk into tokens and hands each one to emit. emit
// returns false to stop the walk early.
type tokenizer struct {
	emit    func(token) bool
	stopped bool
}

func (z *tokenizer) PreVisit(element.Node) bool { return !z.stopped }

func (z *tokenizer) VisitStart(name string, index int, n element.Node) {
	z.send(token{kind: tokStart, name: name, index: index, typ: n.TypeName()})
}

func (z *tokenizer) Visit(string, int, element.Node) bool { return !z.stopped }

func (z *tokenizer) VisitValue(name string, index int, v any) {
	typ, text := canonical(v)
	z.send(token{kind: tokValue, name: name, index: index, typ: typ, value: text})
}

func (z *tokenizer) VisitEnd(name string, index int, _ element.Node) {
	z.send(token{kind: tokEnd, name: name, index: index})
}

func (z *tokenizer) PostVisit(element.Node) {}

func (z *tokenizer) send(t token) {
	if z.stopped {
		return
	}
	if !z.emit(t) {
		z.stopped = true
	}
}

// canonical returns a type tag and the canonical text of a scalar value.
// Decimals keep their scale: 1.50 and 1.5 are different values.
func canonical(v any) (string, string) {
	switch x := v.(type) {
	case string:
		return "s", x
	case bool:
		return "b", strconv.FormatBool(x)
	case int:
		return "i", strconv.FormatInt(int64(x), 10)
	case int32:
		return "i", strconv.FormatInt(int64(x), 10)
	case int64:
		return "i", strconv.FormatInt(x, 10)
	case uint32:
		return "u", strconv.FormatUint(uint64(x), 10)
	case uint64:
		return "u", strconv.FormatUint(x, 10)
	case decimal.Decimal:
		if exp := x.Exponent(); exp < 0 {
			return "d", x.StringFixed(-exp)
		}
		return "d", x.String()
	case interface{ String() string }:
		return "t", x.String()
	default:
		return "?", ""
	}
}

func tokens(n element.Node) []token {
	var out []token
	walk.Walk(n, &tokenizer{emit: func(t token) bool {
		out = append(out, t)
		return true
	}})
	return out
}

// Equal reports whether a and b are structurally equal: same shape, same
// fields, same values, recursively. Identity is irrelevant.
func Equal(a, b element.Node) bool {
	aNil, bNil := element.IsNil(a), element.IsNil(b)
	if aNil || bNil {
		return aNil == bNil
	}
	if a == b {
		return true
	}
	if a.TypeName() != b.TypeName() {
		return false
	}
	if ha, ok := a.ElementHeader().Memo().Load(); ok {
		if hb, ok := b.ElementHeader().Memo().Load(); ok && ha != hb {
			return false
		}
	}

	want := tokens(a)
	i, equal := 0, true
	walk.Walk(b, &tokenizer{emit: func(t token) bool {
		if i >= len(want) || want[i] != t {
			equal = false
			return false
		}
		i++
		return true
	}})
	return equal && i == len(want)
}

// Hash returns the structural hash of n. It is computed on first use and
// memoized in the node; equal nodes have equal hashes.
func Hash(n element.Node) uint64 {
	if element.IsNil(n) {
		return 0
	}
	memo := n.ElementHeader().Memo()
	if h, ok := memo.Load(); ok {
		return h
	}

	h := fnv.New64a()
	var scratch []byte
	walk.Walk(n, &tokenizer{emit: func(t token) bool {
		scratch = t.write(h, scratch)
		return true
	}})
	sum := h.Sum64()
	memo.Store(sum)
	return sum
}
