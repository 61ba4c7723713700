package dynstr

import "fmt"

// Set replaces the whole content of s with v.
func (s *DynString) Set(v string) error { return s.SetBytes(stob(v)) }

// SetBytes replaces the whole content of s with a copy of b. b may alias the
// current content of s.
func (s *DynString) SetBytes(b []byte) error {
	if s == nil {
		return ErrInvalidArgument
	}
	need, ok := addInt(len(b), 1)
	if !ok {
		return fmt.Errorf("set %d bytes: %w", len(b), ErrOverflow)
	}
	if err := s.EnsureCapacity(need); err != nil {
		return fmt.Errorf("set %d bytes: %w", len(b), err)
	}
	d := s.storage()
	moveBytes(d, b)
	d[len(b)] = 0
	s.length = len(b)
	return nil
}

// Append appends the content of other to s. other may be s itself.
func (s *DynString) Append(other *DynString) error {
	if s == nil || other == nil {
		return ErrInvalidArgument
	}
	if other != s {
		return s.AppendBytes(other.Bytes())
	}

	n := s.length
	if n == 0 {
		return nil
	}
	total, ok := mulInt(n, 2)
	if !ok {
		return fmt.Errorf("append self: %w", ErrOverflow)
	}
	if err := s.reserve(total); err != nil {
		return fmt.Errorf("append self: %w", err)
	}
	d := s.storage()
	copy(d[n:], d[:n])
	d[total] = 0
	s.length = total
	return nil
}

// AppendString appends v to s. Appending an empty string is a no-op.
func (s *DynString) AppendString(v string) error { return s.AppendBytes(stob(v)) }

// AppendBytes appends a copy of b to s. Appending nothing is a no-op.
func (s *DynString) AppendBytes(b []byte) error {
	if s == nil {
		return ErrInvalidArgument
	}
	if len(b) == 0 {
		return nil
	}
	total, ok := addInt(s.length, len(b))
	if !ok {
		return fmt.Errorf("append %d bytes: %w", len(b), ErrOverflow)
	}
	if err := s.reserve(total); err != nil {
		return fmt.Errorf("append %d bytes: %w", len(b), err)
	}
	d := s.storage()
	copy(d[s.length:], b)
	d[total] = 0
	s.length = total
	return nil
}

// AppendByte appends a single byte to s in amortized O(1).
func (s *DynString) AppendByte(c byte) error {
	if s == nil {
		return ErrInvalidArgument
	}
	if s.length+1 >= s.Cap() {
		if err := s.reserve(s.length + 1); err != nil {
			return fmt.Errorf("append byte: %w", err)
		}
	}
	d := s.storage()
	d[s.length] = c
	s.length++
	d[s.length] = 0
	return nil
}

// reserve makes room for total content bytes plus the terminator.
func (s *DynString) reserve(total int) error {
	need, ok := addInt(total, 1)
	if !ok {
		return ErrOverflow
	}
	return s.EnsureCapacity(need)
}

// Write implements io.Writer by appending p.
func (s *DynString) Write(p []byte) (int, error) {
	if err := s.AppendBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter by appending v.
func (s *DynString) WriteString(v string) (int, error) {
	if err := s.AppendString(v); err != nil {
		return 0, err
	}
	return len(v), nil
}

// WriteByte implements io.ByteWriter by appending c.
func (s *DynString) WriteByte(c byte) error { return s.AppendByte(c) }

// Clear empties s but keeps its capacity for reuse.
func (s *DynString) Clear() {
	if s == nil {
		return
	}
	s.storage()[0] = 0
	s.length = 0
}

// Trim removes leading and trailing ASCII whitespace in place.
//
// A prefix is removed by compacting the remaining bytes to the front. When the
// result fits inline a heap-backed value is demoted. Otherwise an oversized
// heap buffer (more than twice the new length, for lengths below 1 KiB) is
// reallocated down to twice the new length; if that allocation fails the
// larger buffer is simply kept.
func (s *DynString) Trim() {
	if s == nil || s.length == 0 {
		return
	}

	d := s.storage()
	start, end := 0, s.length
	for start < end && isSpace(d[start]) {
		start++
	}
	for end > start && isSpace(d[end-1]) {
		end--
	}
	n := end - start

	if s.tag == reprHeap && n <= SSOSize {
		copy(s.inline[:], d[start:end])
		s.inline[n] = 0
		s.length = n
		s.releaseHeap()
		return
	}

	if start > 0 {
		moveBytes(d, d[start:end])
	}
	d[n] = 0
	s.length = n

	if s.tag == reprHeap && n > SSOSize && n < trimShrinkLimit && len(s.heap) > 2*n {
		if target, ok := alignUp(2 * n); ok && target < len(s.heap) {
			_ = s.reallocate(target)
		}
	}
}

// ToUpper maps ASCII a-z to A-Z in place; all other bytes are unchanged.
func (s *DynString) ToUpper() {
	if s == nil {
		return
	}
	upperASCII(s.storage()[:s.length])
}

// ToLower maps ASCII A-Z to a-z in place; all other bytes are unchanged.
func (s *DynString) ToLower() {
	if s == nil {
		return
	}
	lowerASCII(s.storage()[:s.length])
}
