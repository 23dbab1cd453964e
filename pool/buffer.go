package pool

import (
	"bytes"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// AcquireBuffer gets an empty buffer from the pool.
func AcquireBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// ReleaseBuffer returns buf to the pool. The caller must not use buf, or any
// slice obtained from buf.Bytes, afterwards.
func ReleaseBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	// Don't return oversized buffers
	if buf.Cap() <= 1<<16 {
		bufferPool.Put(buf)
	}
}
