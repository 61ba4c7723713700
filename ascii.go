package dynstr

const (
	lsbs = 0x0101010101010101
	msbs = 0x8080808080808080
)

// isSpace reports whether c is ASCII whitespace: space, \t, \n, \v, \f, \r.
func isSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

func upperASCII(b []byte) { flipCase(b, 'a', 'z') }
func lowerASCII(b []byte) { flipCase(b, 'A', 'Z') }

// flipCase toggles the 0x20 case bit of every byte of b that lies in
// [lo, hi]. Bytes outside the range pass through untouched.
//
// Full words are processed eight lanes at a time; the tail falls back to
// the byte loop. Both paths produce identical results.
func flipCase(b []byte, lo, hi byte) {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		w := loadWord(b[i:])
		if m := laneMask(w, lo, hi); m != 0 {
			storeWord(b[i:], w^(m>>2))
		}
	}
	for ; i < len(b); i++ {
		if c := b[i]; c >= lo && c <= hi {
			b[i] = c ^ 0x20
		}
	}
}

// laneMask returns 0x80 in every byte lane of w holding a value in [lo, hi]
// and 0 elsewhere. lo and hi must be ASCII (< 0x80).
//
// Each lane is reduced to seven bits first so that the biased additions can
// never carry into the neighbouring lane; lanes whose original high bit was
// set are excluded at the end.
func laneMask(w uint64, lo, hi byte) uint64 {
	low7 := w &^ msbs
	atLeastLo := low7 + lsbs*uint64(0x80-lo)
	aboveHi := low7 + lsbs*uint64(0x7f-hi)
	return atLeastLo &^ aboveHi &^ w & msbs
}
