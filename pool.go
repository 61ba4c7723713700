package dynstr

import "sync"

// maxPooledMatches caps the position slices kept for reuse so that one
// pathological replace does not pin a huge slice in the pool.
const maxPooledMatches = 4 << 10

// matchPool reuses the match-position slices that Replace records during its
// forward scan.
var matchPool = sync.Pool{
	New: func() any {
		s := make([]int, 0, 64)
		return &s
	},
}

// getMatches obtains an empty position slice from the pool.
func getMatches() *[]int {
	m := matchPool.Get().(*[]int)
	*m = (*m)[:0]
	return m
}

// putMatches returns a position slice to the pool for reuse.
func putMatches(m *[]int) {
	if cap(*m) > maxPooledMatches {
		return
	}
	matchPool.Put(m)
}
