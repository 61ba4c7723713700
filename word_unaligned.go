//go:build arm && !arm64
// +build arm,!arm64

package dynstr

import "encoding/binary"

// loadWord reads the first eight bytes of b as a uint64.
// This version uses safe byte operations for ARMv6 compatibility.
func loadWord(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// storeWord writes w back over the first eight bytes of b.
func storeWord(b []byte, w uint64) { binary.LittleEndian.PutUint64(b, w) }
