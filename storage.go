// storage.go
//
// Representation switching and capacity management for DynString.
// Content lives either in the inline buffer (promotion not yet needed) or in a
// heap buffer obtained from the string's Allocator. EnsureCapacity is the only
// path that allocates on behalf of a growing string; promote, grow and
// reallocate all acquire the new buffer before touching the old one so that a
// failed allocation leaves the string exactly as it was.
//
// Heap capacities are multiples of AlignUnit. Growth doubles the current
// capacity until it covers the request and falls back to the exact request
// when doubling would overflow.

package dynstr

import (
	"errors"
	"fmt"
)

// storage returns the full backing buffer of the active representation,
// terminator slot included.
func (s *DynString) storage() []byte {
	switch s.tag {
	case reprHeap:
		return s.heap
	default:
		return s.inline[:]
	}
}

func (s *DynString) allocator() Allocator {
	if s.alloc == nil {
		return DefaultAllocator
	}
	return s.alloc
}

// EnsureCapacity guarantees room for needed bytes, terminator included.
//
// It returns immediately when the current capacity already suffices and never
// shrinks storage. Otherwise the value is promoted to the heap or its heap
// buffer is grown. Error semantics:
//   - ErrInvalidArgument for a nil receiver or a negative request.
//   - ErrOverflow when the rounded capacity is not representable.
//   - ErrOutOfMemory when the allocator refuses the request.
//
// On error s is unchanged.
func (s *DynString) EnsureCapacity(needed int) error {
	if s == nil {
		return ErrInvalidArgument
	}
	if needed < 0 {
		return fmt.Errorf("%w: negative capacity %d", ErrInvalidArgument, needed)
	}
	if needed <= s.Cap() {
		return nil
	}
	if s.tag == reprInline {
		return s.promote(needed)
	}
	return s.grow(needed)
}

// promote moves inline content into a fresh heap buffer of at least needed
// bytes.
func (s *DynString) promote(needed int) error {
	newCap, ok := alignUp(needed)
	if !ok {
		return fmt.Errorf("promote to %d bytes: %w", needed, ErrOverflow)
	}
	buf, err := s.obtain(newCap)
	if err != nil {
		return fmt.Errorf("promote to %d bytes: %w", newCap, err)
	}
	copy(buf, s.inline[:s.length+1])
	s.heap = buf
	s.tag = reprHeap
	return nil
}

// grow enlarges an existing heap buffer to cover needed bytes.
func (s *DynString) grow(needed int) error {
	newCap, err := growCapacity(len(s.heap), needed)
	if err != nil {
		return fmt.Errorf("grow to %d bytes: %w", needed, err)
	}
	return s.reallocate(newCap)
}

// growCapacity computes the next heap capacity for a buffer of size cur that
// must hold needed bytes.
func growCapacity(cur, needed int) (int, error) {
	newCap := cur
	if newCap <= 0 {
		newCap = needed
	}
	for newCap < needed {
		doubled, ok := mulInt(newCap, 2)
		if !ok {
			newCap = needed
			break
		}
		newCap = doubled
	}
	if aligned, ok := alignUp(newCap); ok {
		return aligned, nil
	}
	// Doubling landed too close to the top of the range; settle for the
	// exact request if that still rounds.
	if aligned, ok := alignUp(needed); ok {
		return aligned, nil
	}
	return 0, ErrOverflow
}

// reallocate replaces the heap buffer with one of exactly newCap bytes,
// preserving the content and terminator. newCap must exceed s.length.
func (s *DynString) reallocate(newCap int) error {
	buf, err := s.obtain(newCap)
	if err != nil {
		return fmt.Errorf("reallocate to %d bytes: %w", newCap, err)
	}
	copy(buf, s.heap[:s.length+1])
	old := s.heap
	s.heap = buf
	s.allocator().Free(old)
	return nil
}

// obtain requests size bytes from the allocator and normalizes failures so
// they always match ErrOutOfMemory.
func (s *DynString) obtain(size int) ([]byte, error) {
	buf, err := s.allocator().Alloc(size)
	if err != nil {
		if errors.Is(err, ErrOutOfMemory) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if len(buf) != size {
		// A misbehaving allocator must not break the capacity invariant.
		s.allocator().Free(buf)
		return nil, fmt.Errorf("%w: allocator returned %d bytes, want %d", ErrOutOfMemory, len(buf), size)
	}
	return buf, nil
}

// demote moves heap content back into the inline buffer when it fits and
// releases the heap buffer. It is a no-op for inline values and for content
// longer than SSOSize.
func (s *DynString) demote() {
	if s.tag != reprHeap || s.length > SSOSize {
		return
	}
	copy(s.inline[:], s.heap[:s.length+1])
	s.releaseHeap()
}

// releaseHeap hands the heap buffer back and switches to the inline tag.
// Callers are responsible for the inline content.
func (s *DynString) releaseHeap() {
	if s.tag != reprHeap {
		return
	}
	old := s.heap
	s.heap = nil
	s.tag = reprInline
	s.allocator().Free(old)
}

// ShrinkToFit releases unused capacity.
//
// Content that fits inline is demoted; otherwise the heap buffer is
// reallocated down to the smallest AlignUnit multiple that holds the content
// and terminator. On error s is unchanged.
func (s *DynString) ShrinkToFit() error {
	if s == nil {
		return ErrInvalidArgument
	}
	if s.tag != reprHeap {
		return nil
	}
	if s.length <= SSOSize {
		s.demote()
		return nil
	}
	target, ok := alignUp(s.length + 1)
	if !ok || target >= len(s.heap) {
		return nil
	}
	return s.reallocate(target)
}
