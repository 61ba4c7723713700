package dynstr

import (
	"bytes"
	"fmt"
)

// Replace substitutes every non-overlapping occurrence of old with new,
// scanning left to right. Scanning resumes after each match, so text
// inserted from new is never rescanned.
//
// An empty old, an empty s or a needle that does not occur leaves s unchanged
// and reports success. When new is no longer than old the substitution runs
// in a single in-place forward pass and may demote s to inline storage.
// Otherwise the final length is computed with overflow checks, capacity is
// ensured before any byte moves, and the buffer is rewritten from the end
// backwards so growth never overwrites unread input.
//
// Error semantics:
//   - ErrInvalidArgument for a nil receiver.
//   - ErrOverflow when the resulting length is not representable.
//   - ErrOutOfMemory when the larger buffer cannot be allocated.
//
// On error s is unchanged.
func (s *DynString) Replace(old, new string) error {
	if s == nil {
		return ErrInvalidArgument
	}
	if len(old) == 0 || s.length == 0 {
		return nil
	}

	m := getMatches()
	defer putMatches(m)
	*m = appendMatches(*m, s.Bytes(), stob(old))
	if len(*m) == 0 {
		return nil
	}

	if len(new) <= len(old) {
		s.replaceForward(*m, len(old), stob(new))
		return nil
	}
	if err := s.replaceBackward(*m, len(old), stob(new)); err != nil {
		return fmt.Errorf("replace %q: %w", old, err)
	}
	return nil
}

// appendMatches appends the offsets of the non-overlapping occurrences of
// needle in haystack, leftmost first.
func appendMatches(dst []int, haystack, needle []byte) []int {
	for off := 0; off+len(needle) <= len(haystack); {
		i := bytes.Index(haystack[off:], needle)
		if i < 0 {
			break
		}
		dst = append(dst, off+i)
		off += i + len(needle)
	}
	return dst
}

// replaceForward handles len(repl) <= oldLen. The write cursor never passes
// the read cursor, so the buffer can be rewritten in place.
func (s *DynString) replaceForward(matches []int, oldLen int, repl []byte) {
	d := s.storage()
	w, r := 0, 0
	for _, at := range matches {
		if w != r {
			moveBytes(d[w:], d[r:at])
		}
		w += at - r
		w += copy(d[w:], repl)
		r = at + oldLen
	}
	if w != r {
		moveBytes(d[w:], d[r:s.length])
	}
	w += s.length - r

	d[w] = 0
	s.length = w
	s.demote()
}

// replaceBackward handles len(repl) > oldLen.
//
// Before match i is processed the write cursor leads the read cursor by
// (i+1)*(len(repl)-oldLen) bytes, so every write lands at or beyond the
// bytes still waiting to be moved.
func (s *DynString) replaceBackward(matches []int, oldLen int, repl []byte) error {
	total, err := replacedLength(s.length, len(matches), oldLen, len(repl))
	if err != nil {
		return err
	}
	if err := s.reserve(total); err != nil {
		return err
	}

	d := s.storage()
	w, r := total, s.length
	for i := len(matches) - 1; i >= 0; i-- {
		at := matches[i]
		tail := d[at+oldLen : r]
		w -= len(tail)
		moveBytes(d[w:], tail)
		w -= len(repl)
		copy(d[w:], repl)
		r = at
	}

	d[total] = 0
	s.length = total
	return nil
}
