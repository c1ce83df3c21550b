package server

import (
	"bytes"
	"sync"
)

// bodyBufPool provides sync.Pool for request body buffers.
// Use this to reduce GC pressure on the webhook hotpath.
//
// Usage:
//
//	buf := acquireBodyBuffer()
//	// ... read body into buf ...
//	releaseBodyBuffer(buf) // Return to pool after the payload is copied out
var bodyBufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// acquireBodyBuffer gets an empty buffer from the pool.
func acquireBodyBuffer() *bytes.Buffer {
	return bodyBufPool.Get().(*bytes.Buffer)
}

// releaseBodyBuffer resets and returns a buffer to the pool.
// Oversized buffers are dropped so one huge payload does not pin memory.
func releaseBodyBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if buf.Cap() > 1<<20 {
		return
	}
	buf.Reset()
	bodyBufPool.Put(buf)
}
