//go:build !arm || arm64
// +build !arm arm64

package dynstr

import "unsafe"

// loadWord reads the first eight bytes of b as an implementation-native
// uint64. Lane-wise byte operations do not depend on byte order, so no
// conversion is performed. This version uses an unsafe cast on architectures
// that tolerate unaligned loads.
func loadWord(b []byte) uint64 {
	_ = b[7]
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

// storeWord writes w back over the first eight bytes of b.
func storeWord(b []byte, w uint64) {
	_ = b[7]
	*(*uint64)(unsafe.Pointer(&b[0])) = w
}
