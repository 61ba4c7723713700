package dynstr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustNew builds a DynString or fails the test.
func mustNew(tb testing.TB, v string, opts ...Option) *DynString {
	tb.Helper()
	s, err := New(v, opts...)
	require.NoError(tb, err)
	return s
}

// requireInvariants checks the structural invariants every DynString must
// satisfy after any operation.
func requireInvariants(tb testing.TB, s *DynString) {
	tb.Helper()
	require.NotNil(tb, s)
	d := s.storage()
	require.LessOrEqual(tb, s.length, len(d)-1, "length must leave room for the terminator")
	require.Equal(tb, byte(0), d[s.length], "byte at length must be the terminator")

	switch s.tag {
	case reprInline:
		require.LessOrEqual(tb, s.length, SSOSize, "inline content must fit the inline buffer")
		require.Nil(tb, s.heap, "inline value must not hold a heap buffer")
		require.Equal(tb, SSOSize+1, s.Cap())
	case reprHeap:
		require.NotEmpty(tb, s.heap)
		require.Zero(tb, len(s.heap)%AlignUnit, "heap capacity must be a multiple of AlignUnit")
	default:
		tb.Fatalf("unknown representation %v", s.tag)
	}
}

// requireContent checks content and invariants, printing a unified diff on
// mismatch.
func requireContent(tb testing.TB, want string, s *DynString) {
	tb.Helper()
	requireInvariants(tb, s)
	if got := s.String(); got != want {
		w := mustNew(tb, want)
		tb.Fatalf("content mismatch (len want %d, got %d):\n%s", len(want), len(got), UnifiedDiff(w, s))
	}
}

// requireNoLeaks checks that every allocation made through ta was released.
func requireNoLeaks(tb testing.TB, ta *TrackingAllocator) {
	tb.Helper()
	st := ta.Stats()
	require.Zero(tb, st.Outstanding(), "allocs %d, frees %d", st.Allocs, st.Frees)
	require.Zero(tb, st.LiveBytes)
}
