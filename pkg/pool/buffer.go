// Package pool provides reusable chunk buffers.
package pool

import (
	"sync"
)

// BufferPool manages a pool of fixed size byte slices.
type BufferPool struct {
	size int       // Size of each buffer.
	pool sync.Pool // Thread-safe pool of buffers.
}

// Creates a new buffer pool with a specified buffer size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Size returns the length of buffers handed out by the pool.
func (bp *BufferPool) Size() int {
	return bp.size
}

// Retrieves a buffer of exactly Size bytes from the pool.
func (bp *BufferPool) Get() *[]byte {
	buf := bp.pool.Get().(*[]byte)
	*buf = (*buf)[:bp.size]
	return buf
}

// Returns a buffer to the pool.
func (bp *BufferPool) Put(buf *[]byte) {
	// Don't pool buffers of a foreign size.
	if buf == nil || cap(*buf) != bp.size {
		return
	}

	bp.pool.Put(buf)
}
