package dynstr

import (
	"fmt"
	"sync/atomic"

	farm "github.com/dgryski/go-farm"
	"github.com/hashicorp/golang-lru/arc/v2"
)

// Interner canonicalizes DynString contents into shared, immutable Go
// strings, so that many equal values collapse to one allocation.
//
// Entries are keyed by the farm fingerprint of the content and verified
// byte-for-byte on every hit, so a fingerprint collision only costs a cache
// replacement, never a wrong answer. The table is an Adaptive Replacement
// Cache (ARC) that balances recency and frequency; it is safe for concurrent
// use.
type Interner struct {
	table *arc.ARCCache[uint64, string]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewInterner returns an Interner holding at most size canonical strings.
func NewInterner(size int) (*Interner, error) {
	table, err := arc.NewARC[uint64, string](size)
	if err != nil {
		return nil, fmt.Errorf("interner: %w", err)
	}
	return &Interner{table: table}, nil
}

// Intern returns the canonical string equal to the content of s.
// A nil DynString interns as "".
func (in *Interner) Intern(s *DynString) string { return in.InternBytes(s.Bytes()) }

// InternBytes returns the canonical string equal to b.
func (in *Interner) InternBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	key := farm.Fingerprint64(b)
	if v, ok := in.table.Get(key); ok && v == btostr(b) {
		in.hits.Add(1)
		return v
	}
	in.misses.Add(1)
	v := string(b)
	in.table.Add(key, v)
	return v
}

// Len returns the number of canonical strings currently held.
func (in *Interner) Len() int { return in.table.Len() }

// HitRatio returns the fraction of lookups served from the table.
func (in *Interner) HitRatio() float64 {
	h, m := in.hits.Load(), in.misses.Load()
	if h+m == 0 {
		return 0
	}
	return float64(h) / float64(h+m)
}
