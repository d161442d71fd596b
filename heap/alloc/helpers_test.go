package alloc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/region"
)

const testLimit = 4 << 20

var allFits = []Fit{FitFirst, FitBest, FitWorst, FitNext}

// newTestAllocator returns an allocator over a fresh memory region.
func newTestAllocator(t testing.TB, fit Fit) *Allocator {
	t.Helper()
	return newTestAllocatorWithLimit(t, fit, testLimit)
}

func newTestAllocatorWithLimit(t testing.TB, fit Fit, limit int) *Allocator {
	t.Helper()
	r, err := region.NewMemory(limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	a, err := New(r, &Options{Fit: fit})
	require.NoError(t, err)
	return a
}

// newBackendRegion opens one of the region backends by name.
func newBackendRegion(t testing.TB, backend string) region.Region {
	t.Helper()
	var (
		r   region.Region
		err error
	)
	switch backend {
	case "mem":
		r, err = region.NewMemory(testLimit)
	case "anon":
		r, err = region.NewAnon(testLimit)
	case "file":
		r, err = region.OpenFile(filepath.Join(t.TempDir(), "heap.img"), testLimit)
	default:
		t.Fatalf("unknown backend %q", backend)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// assertInvariants checks the chain and the counters that mirror it.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	data := a.r.Bytes()
	require.NoError(t, verify.Chain(data), "chain invariants violated")

	var span uint64
	var live int64
	last := format.NoBlock
	for _, b := range a.Blocks() {
		span += format.HeaderSize + uint64(b.Size)
		if !b.Free {
			live++
		}
		last = b.Offset
	}
	require.Equal(t, uint64(len(data)), span, "blocks must cover the region exactly")
	require.Equal(t, uint64(len(data)), a.stats.HeapSize, "HeapSize out of step with region")
	require.Equal(t, live, a.stats.Blocks, "live block counter out of step with chain")
	require.Equal(t, last, a.tail, "tail pointer out of step with chain")
	require.GreaterOrEqual(t, a.stats.MaxHeap, a.stats.HeapSize)
}

// mustAlloc allocates size bytes and fails the test on error.
func mustAlloc(t testing.TB, a *Allocator, size int) Ptr {
	t.Helper()
	p, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	require.NotEqual(t, Nil, p, "Alloc(%d) returned Nil", size)
	return p
}

func mustFree(t testing.TB, a *Allocator, p Ptr) {
	t.Helper()
	require.NoError(t, a.Free(p))
}

// fill writes v over the whole payload of p.
func fill(a *Allocator, p Ptr, v byte) {
	buf := a.Bytes(p)
	for i := range buf {
		buf[i] = v
	}
}

// headerAt returns the header offset of p.
func headerAt(p Ptr) uint32 { return uint32(p) - format.HeaderSize }

// sandwich allocates the given sizes in order with a 4-byte guard after each,
// then frees the non-guard blocks at the listed indexes. It returns the
// pointers of the sized blocks.
func sandwich(t testing.TB, a *Allocator, sizes []int, free ...int) []Ptr {
	t.Helper()
	ptrs := make([]Ptr, len(sizes))
	for i, s := range sizes {
		ptrs[i] = mustAlloc(t, a, s)
		mustAlloc(t, a, 4)
	}
	for _, i := range free {
		mustFree(t, a, ptrs[i])
	}
	assertInvariants(t, a)
	return ptrs
}
