package dynstr

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAllocator(t *testing.T) {
	buf, err := DefaultAllocator.Alloc(100)
	require.NoError(t, err)
	assert.Len(t, buf, 100)
	assert.Zero(t, uintptr(unsafe.Pointer(&buf[0]))%AlignUnit)

	for _, size := range []int{-1, maxAllocSize + 1} {
		_, err := DefaultAllocator.Alloc(size)
		assert.ErrorIs(t, err, ErrOutOfMemory, "size %d", size)
	}

	if strconv.IntSize == 64 {
		// make panics past the runtime's maximum allocation size.
		_, err := DefaultAllocator.Alloc(math.MaxInt / 2)
		assert.ErrorIs(t, err, ErrOutOfMemory)
	}
}

func TestTrackingAllocatorBudget(t *testing.T) {
	ta := NewTrackingAllocator(nil, 256)

	a, err := ta.Alloc(128)
	require.NoError(t, err)
	b, err := ta.Alloc(128)
	require.NoError(t, err)

	_, err = ta.Alloc(1)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	_, err = ta.Alloc(1000)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	st := ta.Stats()
	assert.Equal(t, uint64(2), st.Allocs)
	assert.Equal(t, uint64(2), st.Failures)
	assert.Equal(t, 256, st.LiveBytes)
	assert.Equal(t, int64(2), st.Outstanding())

	ta.Free(a)
	c, err := ta.Alloc(64)
	require.NoError(t, err)
	ta.Free(b)
	ta.Free(c)
	ta.Free(nil)

	st = ta.Stats()
	assert.Equal(t, 256, st.PeakBytes)
	requireNoLeaks(t, ta)
}

func TestTrackingAllocatorUnlimited(t *testing.T) {
	ta := NewTrackingAllocator(nil, 0)
	buf, err := ta.Alloc(1 << 20)
	require.NoError(t, err)
	assert.Len(t, buf, 1<<20)

	ta.SetLimit(1024)
	_, err = ta.Alloc(64)
	assert.ErrorIs(t, err, ErrOutOfMemory, "budget applies to bytes already live")

	ta.Free(buf)
	requireNoLeaks(t, ta)
}

// failingAllocator refuses every request with an error unrelated to
// ErrOutOfMemory.
type failingAllocator struct{}

var errBackend = errors.New("backend unavailable")

func (failingAllocator) Alloc(int) ([]byte, error) { return nil, errBackend }
func (failingAllocator) Free([]byte)               {}

func TestParentFailuresAreOutOfMemory(t *testing.T) {
	ta := NewTrackingAllocator(failingAllocator{}, 0)
	s := mustNew(t, "x", WithAllocator(ta))

	err := s.AppendString(strings.Repeat("y", 100))
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, uint64(1), ta.Stats().Failures)
	requireContent(t, "x", s)
}

func TestTrackingAllocatorConcurrent(t *testing.T) {
	ta := NewTrackingAllocator(nil, 0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s, err := New(strings.Repeat("c", 30+i), WithAllocator(ta))
				if !assert.NoError(t, err) {
					return
				}
				s.Free()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), ta.Stats().Allocs)
	requireNoLeaks(t, ta)
}
