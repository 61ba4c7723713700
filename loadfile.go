package dynstr

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// LoadFile memory-maps the file at path and copies its entire content into a
// new DynString. The mapping is released before LoadFile returns; the result
// owns its bytes like any other DynString.
//
// Error semantics:
//   - Failures to open or map the file are returned wrapped with the path.
//   - ErrOverflow when the file size plus terminator is not representable.
//   - ErrOutOfMemory when storage for the content cannot be obtained.
func LoadFile(path string, opts ...Option) (*DynString, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer r.Close()

	n := r.Len()
	need, ok := addInt(n, 1)
	if !ok {
		return nil, fmt.Errorf("load %s: %w", path, ErrOverflow)
	}
	s, err := NewWithCapacity(need, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	d := s.storage()
	if n > 0 {
		if _, err := r.ReadAt(d[:n], 0); err != nil && !errors.Is(err, io.EOF) {
			s.Free()
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	d[n] = 0
	s.length = n
	return s, nil
}
