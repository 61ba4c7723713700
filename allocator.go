package dynstr

import (
	"fmt"
	"math"
	"sync"
	"unsafe"
)

// Allocator is the raw memory source behind heap-backed DynStrings.
//
// Alloc returns a buffer with len == cap == size, or an error matching
// ErrOutOfMemory. Free takes back a buffer previously returned by Alloc,
// exactly once and with its original length. DynString never touches a
// buffer after freeing it.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// DefaultAllocator carves cache-line aligned buffers out of Go heap memory.
// Free is a no-op; the garbage collector reclaims released buffers.
var DefaultAllocator Allocator = alignedAllocator{}

// maxAllocSize leaves room for the alignment slack added by alignedAllocator.
const maxAllocSize = math.MaxInt - AlignUnit

type alignedAllocator struct{}

// Alloc returns size bytes whose first byte sits on an AlignUnit boundary.
// Sizes beyond the runtime's allocation limit are reported as ErrOutOfMemory.
func (alignedAllocator) Alloc(size int) (buf []byte, err error) {
	if size < 0 || size > maxAllocSize {
		return nil, fmt.Errorf("%w: cannot allocate %d bytes", ErrOutOfMemory, size)
	}
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %v", ErrOutOfMemory, r)
		}
	}()

	raw := make([]byte, size+AlignUnit-1)
	off := int((AlignUnit - uintptr(unsafe.Pointer(&raw[0]))%AlignUnit) % AlignUnit)
	return raw[off : off+size : off+size], nil
}

func (alignedAllocator) Free([]byte) {}

// AllocStats is a snapshot of a TrackingAllocator's counters.
type AllocStats struct {
	// Allocs and Frees count successful Alloc and Free calls.
	Allocs, Frees uint64

	// Failures counts Alloc calls refused by the budget or the parent.
	Failures uint64

	// LiveBytes is the number of bytes allocated and not yet freed;
	// PeakBytes is its high-water mark.
	LiveBytes, PeakBytes int
}

// Outstanding returns the number of allocations not yet freed.
func (s AllocStats) Outstanding() int64 { return int64(s.Allocs) - int64(s.Frees) }

// TrackingAllocator wraps another Allocator, counts every allocation and
// release, and optionally enforces a budget on live bytes. Exceeding the
// budget fails the allocation with ErrOutOfMemory, which makes it the tool of
// choice for exercising allocation-failure paths. It is safe for concurrent
// use.
type TrackingAllocator struct {
	parent Allocator

	mu    sync.Mutex
	limit int
	stats AllocStats
}

// NewTrackingAllocator wraps parent (DefaultAllocator when nil). A limit of
// zero or less disables the budget.
func NewTrackingAllocator(parent Allocator, limit int) *TrackingAllocator {
	if parent == nil {
		parent = DefaultAllocator
	}
	return &TrackingAllocator{parent: parent, limit: limit}
}

// SetLimit replaces the live-byte budget. Buffers already handed out are not
// affected.
func (t *TrackingAllocator) SetLimit(limit int) {
	t.mu.Lock()
	t.limit = limit
	t.mu.Unlock()
}

// Stats returns a snapshot of the counters.
func (t *TrackingAllocator) Stats() AllocStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Alloc charges size bytes against the budget and forwards to the parent.
func (t *TrackingAllocator) Alloc(size int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.limit > 0 && (size > t.limit || t.stats.LiveBytes > t.limit-size) {
		t.stats.Failures++
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrOutOfMemory, size, t.stats.LiveBytes, t.limit)
	}
	buf, err := t.parent.Alloc(size)
	if err != nil {
		t.stats.Failures++
		return nil, err
	}
	t.stats.Allocs++
	t.stats.LiveBytes += len(buf)
	t.stats.PeakBytes = max(t.stats.PeakBytes, t.stats.LiveBytes)
	return buf, nil
}

// Free returns buf to the parent and releases its bytes from the budget.
func (t *TrackingAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	t.mu.Lock()
	t.stats.Frees++
	t.stats.LiveBytes -= len(buf)
	t.mu.Unlock()
	t.parent.Free(buf)
}
