package system

import (
	"sync"
)

// BufferPool reuses float32 scratch buffers between blur passes to
// reduce pressure on the garbage collector. Buffers are pooled by length.
type BufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewBufferPool()

func NewBufferPool() *BufferPool {
	return &BufferPool{pools: make(map[int]*sync.Pool)}
}

// GetBuffer returns a buffer of length n from the shared pool. Its
// contents are undefined.
func GetBuffer(n int) []float32 {
	return globalPool.Get(n)
}

// PutBuffer hands buf back to the shared pool.
func PutBuffer(buf []float32) {
	globalPool.Put(buf)
}

func (p *BufferPool) Get(n int) []float32 {
	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[n]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					buf := make([]float32, n)
					return &buf
				},
			}
			p.pools[n] = pool
		}
		p.mu.Unlock()
	}

	return *pool.Get().(*[]float32)
}

func (p *BufferPool) Put(buf []float32) {
	if buf == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(buf)]
	p.mu.RUnlock()

	if exists {
		pool.Put(&buf)
	}
}
