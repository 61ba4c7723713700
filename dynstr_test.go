package dynstr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantInline bool
		wantCap    int
	}{
		{name: "empty", input: "", wantInline: true, wantCap: SSOSize + 1},
		{name: "short", input: "Hello", wantInline: true, wantCap: SSOSize + 1},
		{name: "exactly inline limit", input: strings.Repeat("a", SSOSize), wantInline: true, wantCap: SSOSize + 1},
		{name: "one past inline limit", input: strings.Repeat("a", SSOSize+1), wantInline: false, wantCap: 64},
		{name: "long", input: strings.Repeat("b", 200), wantInline: false, wantCap: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.input)
			require.NoError(t, err)
			requireContent(t, tt.input, s)
			assert.Equal(t, len(tt.input), s.Len())
			assert.Equal(t, tt.wantInline, s.IsInline())
			assert.Equal(t, tt.wantCap, s.Cap())
		})
	}
}

func TestNewBytesKeepsEmbeddedZeros(t *testing.T) {
	in := []byte{'a', 0, 'b', 0}
	s, err := NewBytes(in)
	require.NoError(t, err)
	requireInvariants(t, s)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, in, s.Bytes())
	assert.Equal(t, append(append([]byte{}, in...), 0), s.CString())

	in[0] = 'z'
	assert.Equal(t, byte('a'), s.CharAt(0), "NewBytes must copy its input")
}

func TestNewWithCapacity(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		wantInline bool
		wantCap    int
	}{
		{name: "zero", n: 0, wantInline: true, wantCap: SSOSize + 1},
		{name: "fits inline", n: SSOSize + 1, wantInline: true, wantCap: SSOSize + 1},
		{name: "just over inline", n: SSOSize + 2, wantInline: false, wantCap: 64},
		{name: "aligned", n: 128, wantInline: false, wantCap: 128},
		{name: "rounded up", n: 129, wantInline: false, wantCap: 192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewWithCapacity(tt.n)
			require.NoError(t, err)
			requireContent(t, "", s)
			assert.Equal(t, tt.wantInline, s.IsInline())
			assert.Equal(t, tt.wantCap, s.Cap())
		})
	}

	t.Run("negative", func(t *testing.T) {
		_, err := NewWithCapacity(-1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("allocation failure", func(t *testing.T) {
		ta := NewTrackingAllocator(nil, 64)
		_, err := NewWithCapacity(1000, WithAllocator(ta))
		assert.ErrorIs(t, err, ErrOutOfMemory)
		requireNoLeaks(t, ta)
	})
}

func TestNewAllocationFailure(t *testing.T) {
	ta := NewTrackingAllocator(nil, 32)
	s, err := New(strings.Repeat("x", 100), WithAllocator(ta))
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Nil(t, s)
	requireNoLeaks(t, ta)
}

func TestFree(t *testing.T) {
	t.Run("heap value releases its buffer", func(t *testing.T) {
		ta := NewTrackingAllocator(nil, 0)
		s := mustNew(t, strings.Repeat("x", 100), WithAllocator(ta))
		require.False(t, s.IsInline())

		s.Free()
		requireContent(t, "", s)
		assert.True(t, s.IsInline())
		requireNoLeaks(t, ta)
	})

	t.Run("idempotent", func(t *testing.T) {
		ta := NewTrackingAllocator(nil, 0)
		s := mustNew(t, strings.Repeat("x", 100), WithAllocator(ta))
		s.Free()
		s.Free()
		assert.Equal(t, uint64(1), ta.Stats().Frees)
	})

	t.Run("reusable after free", func(t *testing.T) {
		s := mustNew(t, strings.Repeat("x", 100))
		s.Free()
		require.NoError(t, s.AppendString("again"))
		requireContent(t, "again", s)
	})

	t.Run("nil receiver", func(t *testing.T) {
		var s *DynString
		assert.NotPanics(t, s.Free)
	})
}

func TestZeroValue(t *testing.T) {
	var s DynString
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.IsEmpty())
	assert.True(t, s.IsInline())
	require.NoError(t, s.AppendString(strings.Repeat("z", 40)))
	requireContent(t, strings.Repeat("z", 40), &s)
	s.Free()
}

func TestNilReceiverQueriesDegrade(t *testing.T) {
	var s *DynString

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Cap())
	assert.True(t, s.IsEmpty())
	assert.False(t, s.IsInline())
	assert.Nil(t, s.Bytes())
	assert.Nil(t, s.CString())
	assert.Equal(t, "", s.String())
	assert.Equal(t, byte(0), s.CharAt(0))
	assert.Equal(t, NotFound, s.FindString("a"))
	assert.Equal(t, NotFound, s.FindString(""))
	assert.Equal(t, "len=0 cap=0 repr=nil", s.Info())

	sub, err := s.Substr(0, 10)
	require.NoError(t, err)
	requireContent(t, "", sub)
}

func TestNilReceiverMutatorsFail(t *testing.T) {
	var s *DynString
	other := mustNew(t, "x")

	assert.ErrorIs(t, s.Set("a"), ErrInvalidArgument)
	assert.ErrorIs(t, s.SetBytes([]byte("a")), ErrInvalidArgument)
	assert.ErrorIs(t, s.AppendString("a"), ErrInvalidArgument)
	assert.ErrorIs(t, s.AppendBytes([]byte("a")), ErrInvalidArgument)
	assert.ErrorIs(t, s.AppendByte('a'), ErrInvalidArgument)
	assert.ErrorIs(t, s.Append(other), ErrInvalidArgument)
	assert.ErrorIs(t, other.Append(nil), ErrInvalidArgument)
	assert.ErrorIs(t, s.Replace("a", "b"), ErrInvalidArgument)
	assert.ErrorIs(t, s.EnsureCapacity(10), ErrInvalidArgument)
	assert.ErrorIs(t, s.ShrinkToFit(), ErrInvalidArgument)
	_, err := s.Clone()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.NotPanics(t, func() {
		s.Clear()
		s.Trim()
		s.ToUpper()
		s.ToLower()
	})
}

func TestInfo(t *testing.T) {
	assert.Equal(t, "len=5 cap=24 repr=inline", mustNew(t, "hello").Info())
	assert.Equal(t, "len=30 cap=64 repr=heap", mustNew(t, strings.Repeat("x", 30)).Info())
	assert.Equal(t, "repr(7)", repr(7).String())
}

// The scenarios below are the reference walk-throughs for the container.
func TestScenarios(t *testing.T) {
	t.Run("append", func(t *testing.T) {
		s := mustNew(t, "Hello")
		assert.Equal(t, 5, s.Len())
		require.NoError(t, s.AppendString(", World!"))
		requireContent(t, "Hello, World!", s)
		assert.Equal(t, 13, s.Len())
	})

	t.Run("trim stays inline", func(t *testing.T) {
		s := mustNew(t, "  Hi  ")
		s.Trim()
		requireContent(t, "Hi", s)
		assert.Equal(t, 2, s.Len())
		assert.True(t, s.IsInline())
	})

	t.Run("split keeps empty parts", func(t *testing.T) {
		parts, err := mustNew(t, "a,,b").Split(",")
		require.NoError(t, err)
		require.Len(t, parts, 3)
		requireContent(t, "a", parts[0])
		requireContent(t, "", parts[1])
		requireContent(t, "b", parts[2])
	})

	t.Run("growing replace", func(t *testing.T) {
		s := mustNew(t, "aaa")
		require.NoError(t, s.Replace("a", "bb"))
		requireContent(t, "bbbbbb", s)
		assert.Equal(t, 6, s.Len())
	})

	t.Run("shrinking replace", func(t *testing.T) {
		s := mustNew(t, "aabbaabb")
		require.NoError(t, s.Replace("aa", "x"))
		requireContent(t, "xbbxbb", s)
	})

	t.Run("find", func(t *testing.T) {
		s := mustNew(t, "hello world")
		assert.Equal(t, 6, s.FindString("world"))
		assert.Equal(t, NotFound, s.FindString("xyz"))
	})
}
