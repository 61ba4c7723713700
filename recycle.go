// recycle.go
//
// Buffer recycling for heap-backed DynStrings.
// The allocator maps *buffer sizes* → *released buffers of that size* so that
// strings which repeatedly grow, shrink and get freed can reuse heap buffers
// instead of going back to the parent allocator. Because DynString capacities
// are always multiples of AlignUnit, the number of distinct sizes seen in
// practice is small.
//
// The size classes are held in a bounded LRU; when a class is evicted its
// buffers are released to the parent. Buffers larger than the retention limit
// are never kept, so one very large string cannot pin memory indefinitely.

package dynstr

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultRecycleClasses  = 32
	defaultRecyclePerClass = 16
	defaultRecycleMaxSize  = 64 << 10 // 64 KiB
)

// freeList holds released buffers of a single size.
type freeList struct {
	bufs [][]byte
}

// RecycleStats is a snapshot of a RecyclingAllocator's counters.
type RecycleStats struct {
	// Hits counts allocations served from a free list; Misses counts the
	// ones forwarded to the parent.
	Hits, Misses uint64

	// Retained is the number of buffers currently parked in free lists.
	Retained int

	// Classes is the number of size classes currently tracked.
	Classes int
}

// RecyclingAllocator keeps released buffers for reuse by later allocations
// of the same size. It is safe for concurrent use.
type RecyclingAllocator struct {
	parent   Allocator
	perClass int
	maxSize  int

	// mu serializes free-list manipulation. The LRU is itself synchronized,
	// but popping from or pushing to a freeList must be atomic with the
	// lookup that found it.
	mu       sync.Mutex
	classes  *lru.Cache[int, *freeList]
	hits     uint64
	misses   uint64
	retained int
}

// RecycleOption configures a RecyclingAllocator.
type RecycleOption func(*RecyclingAllocator)

// WithRecycleParent sets the allocator that serves misses and receives
// evicted buffers. Defaults to DefaultAllocator.
func WithRecycleParent(a Allocator) RecycleOption {
	return func(r *RecyclingAllocator) {
		if a != nil {
			r.parent = a
		}
	}
}

// WithRecycleLimits bounds how many buffers each size class keeps and the
// largest buffer size worth keeping. Non-positive values keep the defaults.
func WithRecycleLimits(perClass, maxSize int) RecycleOption {
	return func(r *RecyclingAllocator) {
		if perClass > 0 {
			r.perClass = perClass
		}
		if maxSize > 0 {
			r.maxSize = maxSize
		}
	}
}

// NewRecyclingAllocator returns an allocator tracking at most maxClasses
// buffer sizes (a default is used when maxClasses <= 0).
//
// The function returns an error if the lru package fails to create the cache.
func NewRecyclingAllocator(maxClasses int, opts ...RecycleOption) (*RecyclingAllocator, error) {
	if maxClasses <= 0 {
		maxClasses = defaultRecycleClasses
	}
	r := &RecyclingAllocator{
		parent:   DefaultAllocator,
		perClass: defaultRecyclePerClass,
		maxSize:  defaultRecycleMaxSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	classes, err := lru.NewWithEvict[int, *freeList](maxClasses, r.releaseClass)
	if err != nil {
		return nil, fmt.Errorf("recycling allocator: %w", err)
	}
	r.classes = classes
	return r, nil
}

// Alloc serves size bytes from the matching free list when one is available
// and forwards to the parent otherwise. Recycled buffers are not zeroed.
func (r *RecyclingAllocator) Alloc(size int) ([]byte, error) {
	r.mu.Lock()
	if fl, ok := r.classes.Get(size); ok && len(fl.bufs) > 0 {
		last := len(fl.bufs) - 1
		buf := fl.bufs[last]
		fl.bufs[last] = nil
		fl.bufs = fl.bufs[:last]
		r.hits++
		r.retained--
		r.mu.Unlock()
		return buf, nil
	}
	r.misses++
	r.mu.Unlock()
	return r.parent.Alloc(size)
}

// Free parks buf in the free list for its size, or releases it to the parent
// when it is too large or the list is full.
func (r *RecyclingAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	size := len(buf)
	if size == 0 || size > r.maxSize {
		r.parent.Free(buf)
		return
	}

	r.mu.Lock()
	fl, ok := r.classes.Get(size)
	if !ok {
		fl = &freeList{}
		r.classes.Add(size, fl)
	}
	if len(fl.bufs) >= r.perClass {
		r.mu.Unlock()
		r.parent.Free(buf)
		return
	}
	fl.bufs = append(fl.bufs, buf[:size:size])
	r.retained++
	r.mu.Unlock()
}

// Purge releases every parked buffer to the parent.
func (r *RecyclingAllocator) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes.Purge()
}

// Stats returns a snapshot of the counters.
func (r *RecyclingAllocator) Stats() RecycleStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RecycleStats{
		Hits:     r.hits,
		Misses:   r.misses,
		Retained: r.retained,
		Classes:  r.classes.Len(),
	}
}

// releaseClass is the LRU eviction callback. It runs while r.mu is held by
// the Add or Purge that triggered it.
func (r *RecyclingAllocator) releaseClass(_ int, fl *freeList) {
	for i, buf := range fl.bufs {
		r.parent.Free(buf)
		fl.bufs[i] = nil
	}
	r.retained -= len(fl.bufs)
	fl.bufs = fl.bufs[:0]
}
