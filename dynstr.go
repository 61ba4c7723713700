// Package dynstr provides DynString, a mutable, byte-oriented string container
// with manual storage management and a small-string optimization (SSO).
//
// Short values live in an inline buffer embedded in the DynString itself and
// never touch the allocator. Once content outgrows the inline buffer the value
// is promoted to a heap buffer obtained from its Allocator; the heap capacity
// is tracked separately from the length, always rounded to AlignUnit, and grows
// geometrically. Operations that shrink the content may demote the value back
// to inline storage and release the heap buffer.
//
// IMPLEMENTATION:
// The representation is a manually discriminated struct: a repr tag selects
// between the inline array and the heap slice, and every accessor dispatches on
// that tag through storage(). Content is always followed by a NUL terminator
// (CString exposes it) but the length is authoritative, so embedded zero bytes
// compare and search correctly.
//
// Mutators fail loudly and safely: on any error the receiver keeps its previous
// content and representation. Read-only queries on invalid input (nil receiver,
// out-of-range index) degrade to zero values instead of failing.
//
// A DynString is exclusively owned by its holder and is not safe for
// concurrent use. Substr, Split, Join and Clone always return independent deep
// copies. Call Free to hand heap storage back to the allocator.
package dynstr

import (
	"errors"
	"fmt"
)

const (
	// SSOSize is the longest content, in bytes, stored inline.
	SSOSize = 23

	// AlignUnit is the granularity of every heap capacity (one cache line).
	AlignUnit = 64

	// NotFound is returned by the Find family when the needle does not occur.
	NotFound = -1

	// trimShrinkLimit bounds the lengths for which Trim gives back memory.
	trimShrinkLimit = 1024
)

var (
	ErrInvalidArgument = errors.New("dynstr: invalid argument")
	ErrOutOfMemory     = errors.New("dynstr: out of memory")
	ErrOverflow        = errors.New("dynstr: length overflow")
)

// repr discriminates the active storage of a DynString.
type repr uint8

const (
	reprInline repr = iota
	reprHeap
)

func (r repr) String() string {
	switch r {
	case reprInline:
		return "inline"
	case reprHeap:
		return "heap"
	default:
		return fmt.Sprintf("repr(%d)", uint8(r))
	}
}

// noCopy lets go vet's copylocks check flag DynString values copied by
// value; a copy would share the heap buffer with its original.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// DynString is a growable byte string with inline and heap representations.
//
// The zero value is an empty inline string that uses DefaultAllocator.
type DynString struct {
	noCopy noCopy

	// length counts content bytes and excludes the terminator.
	length int

	// tag selects which of inline or heap holds the content.
	tag repr

	// inline holds the content while tag == reprInline.
	inline [SSOSize + 1]byte

	// heap holds the content while tag == reprHeap. len(heap) is the
	// capacity, terminator slot included, and is a multiple of AlignUnit.
	heap []byte

	// alloc provides heap storage. nil means DefaultAllocator.
	alloc Allocator
}

// Option configures a DynString during construction.
type Option func(*DynString)

// WithAllocator makes the new DynString obtain heap storage from a.
// A nil allocator selects DefaultAllocator.
func WithAllocator(a Allocator) Option {
	return func(s *DynString) { s.alloc = a }
}

// New returns a DynString holding a copy of initial.
//
// The result is inline when initial fits in SSOSize bytes. An error is
// returned only when heap storage could not be obtained.
func New(initial string, opts ...Option) (*DynString, error) {
	return NewBytes(stob(initial), opts...)
}

// NewBytes is like New but copies its content from b, which may contain
// arbitrary bytes including zeros.
func NewBytes(b []byte, opts ...Option) (*DynString, error) {
	s := newEmpty(opts)
	if err := s.SetBytes(b); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithCapacity returns an empty DynString able to hold n bytes,
// terminator included, without reallocating.
//
// Capacities that fit the inline buffer start inline; larger ones allocate a
// heap buffer of at least n bytes rounded up to AlignUnit.
func NewWithCapacity(n int, opts ...Option) (*DynString, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrInvalidArgument, n)
	}
	s := newEmpty(opts)
	if n <= SSOSize+1 {
		return s, nil
	}
	if err := s.promote(n); err != nil {
		return nil, err
	}
	return s, nil
}

func newEmpty(opts []Option) *DynString {
	s := &DynString{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// derive returns an empty DynString sharing s's allocator with room for n
// bytes. It is the constructor behind every operation that produces new
// values from an existing one.
func (s *DynString) derive(n int) (*DynString, error) {
	var a Allocator
	if s != nil {
		a = s.alloc
	}
	return NewWithCapacity(n, WithAllocator(a))
}

// Free releases heap storage back to the allocator and leaves s as an empty
// inline string. Free is idempotent and safe on a nil receiver.
func (s *DynString) Free() {
	if s == nil {
		return
	}
	s.releaseHeap()
	s.length = 0
	s.inline[0] = 0
}

// Len returns the number of content bytes. A nil DynString has length 0.
func (s *DynString) Len() int {
	if s == nil {
		return 0
	}
	return s.length
}

// Cap returns the storage capacity in bytes including the terminator slot.
// Inline values report SSOSize+1.
func (s *DynString) Cap() int {
	if s == nil {
		return 0
	}
	return len(s.storage())
}

// IsEmpty reports whether s holds no content. A nil DynString is empty.
func (s *DynString) IsEmpty() bool { return s == nil || s.length == 0 }

// IsInline reports whether s currently uses its inline buffer.
func (s *DynString) IsInline() bool { return s != nil && s.tag == reprInline }

// Bytes returns a view of the content without the terminator. The view
// aliases s and is valid only until the next mutation of s.
func (s *DynString) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.storage()[:s.length:s.length]
}

// CString returns a view of the content followed by its NUL terminator,
// valid only until the next mutation of s.
func (s *DynString) CString() []byte {
	if s == nil {
		return nil
	}
	return s.storage()[: s.length+1 : s.length+1]
}

// String returns a copy of the content.
func (s *DynString) String() string {
	if s == nil {
		return ""
	}
	return string(s.Bytes())
}

// Info summarizes the length, capacity and representation of s.
func (s *DynString) Info() string {
	if s == nil {
		return "len=0 cap=0 repr=nil"
	}
	return fmt.Sprintf("len=%d cap=%d repr=%s", s.length, s.Cap(), s.tag)
}
