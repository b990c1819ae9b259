package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkers(t *testing.T) {
	assert.Equal(t, 3, ResolveWorkers(3))
	assert.GreaterOrEqual(t, ResolveWorkers(0), 1)
	assert.Equal(t, DefaultWorkers(), ResolveWorkers(0))
}

func TestCheckMemory(t *testing.T) {
	fixed := func(n uint64) func() (uint64, error) {
		return func() (uint64, error) { return n, nil }
	}

	assert.NoError(t, CheckMemory(100, fixed(1000)))
	assert.NoError(t, CheckMemory(1000, fixed(1000)))

	err := CheckMemory(1001, fixed(1000))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientMemory)

	err = CheckMemory(1, func() (uint64, error) { return 0, errors.New("no /proc") })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMemoryProbe)
	assert.NotErrorIs(t, err, ErrInsufficientMemory)
}

func TestAvailableMemory(t *testing.T) {
	avail, err := AvailableMemory()
	if err != nil {
		t.Skipf("memory probe unavailable: %v", err)
	}
	assert.Greater(t, avail, uint64(0))
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool()

	buf := p.Get(16)
	assert.Len(t, buf, 16)
	buf[0] = 1.5
	p.Put(buf)

	other := p.Get(8)
	assert.Len(t, other, 8)

	// Unknown lengths are dropped rather than pooled under the wrong key.
	p.Put(make([]float32, 5))
	p.Put(nil)
	assert.Len(t, p.Get(5), 5)
}

func TestGlobalBufferPool(t *testing.T) {
	buf := GetBuffer(32)
	assert.Len(t, buf, 32)
	PutBuffer(buf)
	assert.Len(t, GetBuffer(32), 32)
}
