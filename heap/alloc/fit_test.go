package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Layout produced by sandwich(64, 32, 128, 32) with every sized block freed:
//
//	0    free 64
//	80   guard
//	100  free 32
//	148  guard
//	168  free 128
//	312  guard
//	332  free 32
//	380  guard
//	400  end
var fitSizes = []int{64, 32, 128, 32}

func newFitHeap(t *testing.T, fit Fit) *Allocator {
	t.Helper()
	a := newTestAllocator(t, fit)
	sandwich(t, a, fitSizes, 0, 1, 2, 3)
	require.Equal(t, uint64(400), a.Stats().HeapSize)
	return a
}

func TestFit_Selection(t *testing.T) {
	tests := []struct {
		fit  Fit
		need int
		want uint32
	}{
		{FitFirst, 24, 0},
		{FitFirst, 100, 168},
		{FitBest, 24, 100},
		{FitBest, 32, 100},
		{FitBest, 33, 0},
		{FitWorst, 24, 168},
		{FitWorst, 4, 168},
		{FitNext, 24, 0},
		{FitNext, 65, 168},
	}
	for _, tt := range tests {
		t.Run(tt.fit.String(), func(t *testing.T) {
			a := newFitHeap(t, tt.fit)
			p := mustAlloc(t, a, tt.need)
			assert.Equal(t, tt.want, headerAt(p), "%s fit for %d bytes", tt.fit, tt.need)
			assert.Equal(t, uint64(1), a.Stats().Reuses)
			assertInvariants(t, a)
		})
	}
}

func TestFit_NoneFitsGrows(t *testing.T) {
	for _, fit := range allFits {
		t.Run(fit.String(), func(t *testing.T) {
			a := newFitHeap(t, fit)
			grows := a.Stats().Grows
			p := mustAlloc(t, a, 256)
			assert.Equal(t, uint32(400), headerAt(p))
			assert.Equal(t, grows+1, a.Stats().Grows)
			assertInvariants(t, a)
		})
	}
}

func TestFit_WorstTieKeepsEarliest(t *testing.T) {
	a := newTestAllocator(t, FitWorst)
	ptrs := sandwich(t, a, []int{128, 32, 128}, 0, 1, 2)
	p := mustAlloc(t, a, 16)
	assert.Equal(t, ptrs[0], p)
}

func TestFit_BestTieKeepsEarliest(t *testing.T) {
	a := newTestAllocator(t, FitBest)
	ptrs := sandwich(t, a, []int{64, 32, 64, 32}, 0, 1, 2, 3)
	p := mustAlloc(t, a, 20)
	assert.Equal(t, ptrs[1], p)
}

func TestNextFit_Resumes(t *testing.T) {
	a := newFitHeap(t, FitNext)

	// Split of the 64-byte block leaves a 24-byte remainder at 40.
	p1 := mustAlloc(t, a, 24)
	assert.Equal(t, uint32(0), headerAt(p1))

	p2 := mustAlloc(t, a, 24)
	assert.Equal(t, uint32(40), headerAt(p2), "scan must resume after the previous pick")

	p3 := mustAlloc(t, a, 24)
	assert.Equal(t, uint32(100), headerAt(p3))
	assertInvariants(t, a)
}

func TestNextFit_WrapsToHead(t *testing.T) {
	a := newFitHeap(t, FitNext)

	p1 := mustAlloc(t, a, 100)
	assert.Equal(t, uint32(168), headerAt(p1))

	// Nothing after 168 holds 60 bytes; the scan wraps and finds the head.
	p2 := mustAlloc(t, a, 60)
	assert.Equal(t, uint32(0), headerAt(p2))

	// A full lap without a match falls back to growth.
	p3 := mustAlloc(t, a, 200)
	assert.Equal(t, uint32(400), headerAt(p3))
	assertInvariants(t, a)
}

func TestNextFit_CursorFollowsCoalesce(t *testing.T) {
	a := newTestAllocator(t, FitNext)
	pa := mustAlloc(t, a, 16)
	pb := mustAlloc(t, a, 16)
	mustAlloc(t, a, 16)
	mustFree(t, a, pb)

	// Reuse b so the cursor sits on it.
	got := mustAlloc(t, a, 16)
	require.Equal(t, pb, got)
	nf := a.sel.(*nextFit)
	require.Equal(t, headerAt(pb), nf.cursor)

	mustFree(t, a, pa)
	mustFree(t, a, pb)
	assert.Equal(t, headerAt(pa), nf.cursor, "cursor must move to the block that absorbed it")

	p := mustAlloc(t, a, 48)
	assert.Equal(t, pa, p)
	assertInvariants(t, a)
}

func TestNextFit_EmptyHeap(t *testing.T) {
	a := newTestAllocator(t, FitNext)
	p := mustAlloc(t, a, 8)
	assert.Equal(t, uint32(0), headerAt(p))
}

func TestParseFit(t *testing.T) {
	for _, f := range allFits {
		got, err := ParseFit(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFit("BEST")
	require.NoError(t, err)
	assert.Equal(t, FitBest, got)

	_, err = ParseFit("buddy")
	require.ErrorIs(t, err, ErrUnknownFit)
	assert.Equal(t, "Fit(9)", Fit(9).String())
}
