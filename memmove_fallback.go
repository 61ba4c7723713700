//go:build !go1.22
// +build !go1.22

package dynstr

import "unsafe"

// copyMemory falls back to copy() when linkname is not available. copy has
// memmove semantics, so overlapping ranges stay correct.
func copyMemory(to, from unsafe.Pointer, n int) {
	if n <= 0 {
		return
	}

	toSlice := unsafe.Slice((*byte)(to), n)
	fromSlice := unsafe.Slice((*byte)(from), n)
	copy(toSlice, fromSlice)
}
