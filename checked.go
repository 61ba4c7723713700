package dynstr

import (
	"math"
	"math/bits"
)

// addInt returns a+b for non-negative operands and reports whether the sum is
// representable as an int.
func addInt(a, b int) (int, bool) {
	sum, carry := bits.Add(uint(a), uint(b), 0)
	if carry != 0 || sum > math.MaxInt {
		return 0, false
	}
	return int(sum), true
}

// mulInt returns a*b for non-negative operands and reports whether the
// product is representable as an int.
func mulInt(a, b int) (int, bool) {
	hi, lo := bits.Mul(uint(a), uint(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// alignUp rounds n up to the next multiple of AlignUnit.
func alignUp(n int) (int, bool) {
	sum, ok := addInt(n, AlignUnit-1)
	if !ok {
		return 0, false
	}
	return sum &^ (AlignUnit - 1), true
}

// replacedLength computes the content length after replacing count
// occurrences of an oldLen-byte needle with newLen bytes, with every step of
// the arithmetic overflow-checked.
func replacedLength(length, count, oldLen, newLen int) (int, error) {
	removed, ok := mulInt(count, oldLen)
	if !ok || removed > length {
		return 0, ErrOverflow
	}
	added, ok := mulInt(count, newLen)
	if !ok {
		return 0, ErrOverflow
	}
	total, ok := addInt(length-removed, added)
	if !ok {
		return 0, ErrOverflow
	}
	return total, nil
}
