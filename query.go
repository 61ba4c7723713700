package dynstr

import (
	"bytes"
	"fmt"

	farm "github.com/dgryski/go-farm"
)

// Compare orders a and b byte-wise, shorter-is-less on a common prefix.
// A nil DynString orders before any non-nil one; two nils are equal.
// The result is negative, zero or positive.
func Compare(a, b *DynString) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return bytes.Compare(a.Bytes(), b.Bytes())
}

// Equal reports whether a and b hold the same bytes. The same instance (or
// two nils) is always equal; nil is never equal to a non-nil value.
func Equal(a, b *DynString) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.length == b.length && bytes.Equal(a.Bytes(), b.Bytes())
}

// Compare is shorthand for Compare(s, other).
func (s *DynString) Compare(other *DynString) int { return Compare(s, other) }

// Equal is shorthand for Equal(s, other).
func (s *DynString) Equal(other *DynString) bool { return Equal(s, other) }

// CharAt returns the byte at index i, or 0 when i is out of range.
func (s *DynString) CharAt(i int) byte {
	if s == nil || i < 0 || i >= s.length {
		return 0
	}
	return s.storage()[i]
}

// Find returns the offset of the first occurrence of needle in s, or NotFound.
func (s *DynString) Find(needle *DynString) int {
	if needle == nil {
		return NotFound
	}
	return s.FindBytes(needle.Bytes())
}

// FindString returns the offset of the first occurrence of needle in s, or
// NotFound.
func (s *DynString) FindString(needle string) int { return s.FindBytes(stob(needle)) }

// FindBytes returns the offset of the leftmost occurrence of needle in s.
// An empty needle matches at 0; a needle longer than s is NotFound, as is any
// search in a nil DynString.
func (s *DynString) FindBytes(needle []byte) int {
	if s == nil {
		return NotFound
	}
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > s.length {
		return NotFound
	}
	return bytes.Index(s.Bytes(), needle)
}

// Substr returns an independent copy of at most length bytes starting at
// start. length is clamped to the bytes available after start.
//
// Out-of-range input (nil receiver, negative start, start >= Len(),
// non-positive length) yields an empty DynString rather than an error; an
// error is returned only when storage for the copy cannot be obtained.
func (s *DynString) Substr(start, length int) (*DynString, error) {
	if s == nil || start < 0 || start >= s.length || length <= 0 {
		return s.derive(0)
	}
	length = min(length, s.length-start)
	return s.copyOf(s.storage()[start : start+length])
}

// Clone returns an independent copy of s sharing its allocator.
func (s *DynString) Clone() (*DynString, error) {
	if s == nil {
		return nil, ErrInvalidArgument
	}
	return s.copyOf(s.Bytes())
}

// copyOf builds a new DynString holding b, sized exactly for it.
func (s *DynString) copyOf(b []byte) (*DynString, error) {
	out, err := s.derive(len(b) + 1)
	if err != nil {
		return nil, err
	}
	d := out.storage()
	copy(d, b)
	d[len(b)] = 0
	out.length = len(b)
	return out, nil
}

// Split cuts s around every non-overlapping occurrence of delim and returns
// the pieces as independent DynStrings. n occurrences yield n+1 parts,
// including empty parts between adjacent delimiters and at either end.
//
// An empty s or an empty delim yields no parts and no error. If any part
// cannot be allocated, every part built so far is freed and the error is
// returned.
func (s *DynString) Split(delim string) ([]*DynString, error) {
	if s == nil || s.length == 0 || len(delim) == 0 {
		return nil, nil
	}

	src, sep := s.Bytes(), stob(delim)
	parts := make([]*DynString, 0, bytes.Count(src, sep)+1)
	done := false
	defer func() {
		if !done {
			for _, p := range parts {
				p.Free()
			}
		}
	}()

	for {
		i := bytes.Index(src, sep)
		chunk := src
		if i >= 0 {
			chunk = src[:i]
		}
		p, err := s.copyOf(chunk)
		if err != nil {
			return nil, fmt.Errorf("split part %d: %w", len(parts), err)
		}
		parts = append(parts, p)
		if i < 0 {
			break
		}
		src = src[i+len(sep):]
	}
	done = true
	return parts, nil
}

// Join concatenates parts with delim between consecutive non-nil entries.
// nil entries are skipped entirely. Joining no parts yields an empty
// DynString. The total length is overflow-checked before anything is
// allocated.
func Join(parts []*DynString, delim string, opts ...Option) (*DynString, error) {
	total, n := 0, 0
	for _, p := range parts {
		if p == nil {
			continue
		}
		var ok bool
		if n > 0 {
			if total, ok = addInt(total, len(delim)); !ok {
				return nil, fmt.Errorf("join: %w", ErrOverflow)
			}
		}
		if total, ok = addInt(total, p.length); !ok {
			return nil, fmt.Errorf("join: %w", ErrOverflow)
		}
		n++
	}
	need, ok := addInt(total, 1)
	if !ok {
		return nil, fmt.Errorf("join: %w", ErrOverflow)
	}

	out, err := NewWithCapacity(need, opts...)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	d := out.storage()
	w, first := 0, true
	for _, p := range parts {
		if p == nil {
			continue
		}
		if !first {
			w += copy(d[w:], delim)
		}
		w += copy(d[w:], p.Bytes())
		first = false
	}
	d[w] = 0
	out.length = w
	return out, nil
}

// Hash returns a 64-bit fingerprint of the content. Equal contents hash
// equally regardless of representation; a nil DynString hashes like an empty
// one.
func (s *DynString) Hash() uint64 { return farm.Fingerprint64(s.Bytes()) }
