package walk

import (
	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pool"
)

// PathTracker keeps the FHIRPath-style path of the node a visitor is on,
// e.g. "Claim.item[0].serviced". Visitors call Push from VisitStart and Pop
// from VisitEnd.
type PathTracker struct {
	pb    *pool.PathBuilder
	marks []int
}

// NewPathTracker returns an empty tracker. Call Release when done.
func NewPathTracker() *PathTracker {
	return &PathTracker{pb: pool.AcquirePathBuilder()}
}

// Push enters a field value.
func (t *PathTracker) Push(name string, index int) {
	t.marks = append(t.marks, t.pb.Len())
	t.pb.AppendWithDot(name)
	if index >= 0 {
		t.pb.AppendIndex(index)
	}
}

// Pop leaves the innermost field value.
func (t *PathTracker) Pop() {
	if len(t.marks) == 0 {
		return
	}
	last := len(t.marks) - 1
	t.pb.Truncate(t.marks[last])
	t.marks = t.marks[:last]
}

// Path returns the current path.
func (t *PathTracker) Path() string {
	return t.pb.String()
}

// Child returns the path of a field below the current node without entering
// it.
func (t *PathTracker) Child(name string, index int) string {
	t.Push(name, index)
	p := t.Path()
	t.Pop()
	return p
}

// Depth returns the number of entered values.
func (t *PathTracker) Depth() int {
	return len(t.marks)
}

// Release returns the tracker's buffer to the pool.
func (t *PathTracker) Release() {
	t.pb.Release()
	t.pb = nil
	t.marks = nil
}

// Paths returns the path of every node in the tree, in pre-order.
func Paths(root element.Node) []string {
	t := NewPathTracker()
	defer t.Release()

	var out []string
	Walk(root, &Funcs{
		VisitStartFunc: func(name string, index int, _ element.Node) {
			t.Push(name, index)
			out = append(out, t.Path())
		},
		VisitEndFunc: func(string, int, element.Node) {
			t.Pop()
		},
	})
	return out
}
