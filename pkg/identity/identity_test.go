package identity

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gofhir/fhirmodel/pkg/element"
)

type scalar struct {
	element.Header
	typ string
	v   any
}

func (s *scalar) TypeName() string            { return s.typ }
func (s *scalar) PrimitiveValue() (any, bool) { return s.v, s.v != nil }
func (s *scalar) Fields() []element.Field {
	return append(s.HeaderFields(), element.Attr("value", s.v, s.v != nil))
}

type pair struct {
	element.Header
	a    *scalar
	list []*scalar
	pick element.Node
}

func (p *pair) TypeName() string { return "Pair" }
func (p *pair) Fields() []element.Field {
	return append(p.HeaderFields(),
		element.One("a", p.a),
		element.Many("list", p.list),
		element.OneOf("pick", p.pick),
	)
}

func str(v string) *scalar { return &scalar{typ: "string", v: v} }

func newPair(id string, a *scalar, pick element.Node, list ...*scalar) *pair {
	hb := element.HeaderBuilder{ID: id}
	return &pair{Header: hb.BuildHeader(), a: a, list: list, pick: pick}
}

func TestEqual(t *testing.T) {
	dec := func(s string) *scalar { return &scalar{typ: "decimal", v: decimal.RequireFromString(s)} }

	tests := []struct {
		name string
		a, b element.Node
		want bool
	}{
		{"same values", newPair("p", str("x"), nil, str("1"), str("2")), newPair("p", str("x"), nil, str("1"), str("2")), true},
		{"different id", newPair("p", str("x"), nil), newPair("q", str("x"), nil), false},
		{"different value", newPair("p", str("x"), nil), newPair("p", str("y"), nil), false},
		{"list order", newPair("p", nil, nil, str("1"), str("2")), newPair("p", nil, nil, str("2"), str("1")), false},
		{"list length", newPair("p", nil, nil, str("1")), newPair("p", nil, nil, str("1"), str("1")), false},
		{"absent vs present", newPair("p", nil, nil), newPair("p", str(""), nil), false},
		{"choice shape", newPair("p", nil, str("1")), newPair("p", nil, &scalar{typ: "code", v: "1"}), false},
		{"value type", &scalar{typ: "x", v: "1"}, &scalar{typ: "x", v: int64(1)}, false},
		{"decimal equal", dec("1.50"), dec("1.50"), true},
		{"decimal scale", dec("1.50"), dec("1.5"), false},
		{"nil both", nil, nil, true},
		{"nil one", nil, str("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v; want %v", got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v; want %v", got, tt.want)
			}
			if tt.want && Hash(tt.a) != Hash(tt.b) {
				t.Error("equal nodes hash differently")
			}
		})
	}
}

func TestEqualSelf(t *testing.T) {
	p := newPair("p", str("x"), nil)
	if !Equal(p, p) {
		t.Error("node not equal to itself")
	}
}

func TestHashMemoized(t *testing.T) {
	p := newPair("p", str("x"), str("y"), str("1"))
	if _, ok := p.Memo().Load(); ok {
		t.Fatal("hash memoized before first use")
	}
	h := Hash(p)
	if got, ok := p.Memo().Load(); !ok || got != h {
		t.Errorf("memo = %d, %v; want %d, true", got, ok, h)
	}
	if Hash(p) != h {
		t.Error("second Hash differs")
	}

	other := newPair("p", str("x"), str("z"), str("1"))
	if Hash(other) == h {
		t.Error("different trees share a hash")
	}
	// With both hashes memoized Equal can answer without walking.
	if Equal(p, other) {
		t.Error("Equal() = true for different memoized hashes")
	}
}

func TestHashConcurrentFirstAccess(t *testing.T) {
	want := Hash(newPair("p", str("x"), nil, str("1"), str("2")))
	p := newPair("p", str("x"), nil, str("1"), str("2"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Hash(p); got != want {
				t.Errorf("Hash() = %d; want %d", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestHashNil(t *testing.T) {
	if Hash(nil) != 0 {
		t.Error("Hash(nil) != 0")
	}
}
