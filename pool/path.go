// Package pool holds sync.Pool backed scratch objects used on hot traversal
// paths: path builders for the path tracker and byte buffers for encoders.
package pool

import (
	"strconv"
	"sync"
)

// PathBuilder builds FHIRPath-style element paths ("Claim.item[0].net") in a
// reusable byte buffer. Segments can be removed again with Truncate, which
// lets a depth-first walk push and pop path segments without allocating.
type PathBuilder struct {
	buf []byte
}

var pathBuilderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{buf: make([]byte, 0, 256)}
	},
}

// AcquirePathBuilder gets an empty PathBuilder from the pool. Call Release
// when done.
func AcquirePathBuilder() *PathBuilder {
	pb := pathBuilderPool.Get().(*PathBuilder)
	pb.Reset()
	return pb
}

// Release returns the PathBuilder to the pool.
func (b *PathBuilder) Release() {
	if b == nil {
		return
	}
	// Don't return oversized buffers to the pool
	if cap(b.buf) <= 4096 {
		pathBuilderPool.Put(b)
	}
}

// Reset clears the buffer without deallocating.
func (b *PathBuilder) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the current length of the path. It doubles as a mark for
// Truncate.
func (b *PathBuilder) Len() int {
	return len(b.buf)
}

// Truncate cuts the path back to a length previously returned by Len.
func (b *PathBuilder) Truncate(n int) {
	if n >= 0 && n <= len(b.buf) {
		b.buf = b.buf[:n]
	}
}

// AppendWithDot appends a segment, with a leading dot if the path is not empty.
func (b *PathBuilder) AppendWithDot(part string) {
	if len(b.buf) > 0 {
		b.buf = append(b.buf, '.')
	}
	b.buf = append(b.buf, part...)
}

// AppendIndex appends an array index in brackets [n].
func (b *PathBuilder) AppendIndex(index int) {
	b.buf = append(b.buf, '[')
	b.buf = strconv.AppendInt(b.buf, int64(index), 10)
	b.buf = append(b.buf, ']')
}

// String returns the built path.
func (b *PathBuilder) String() string {
	return string(b.buf)
}
