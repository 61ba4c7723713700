package dynstr

import "unsafe"

// zero‑copy []byte → string (safe as long as b isn't mutated afterwards).
func btostr(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// zero‑copy string → []byte; the result must never be written to.
func stob(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// moveBytes copies min(len(dst), len(src)) bytes from src to dst with memmove
// semantics, so the ranges may overlap. It returns the number of bytes moved.
func moveBytes(dst, src []byte) int {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0
	}
	copyMemory(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), n)
	return n
}
