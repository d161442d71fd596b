// Package testutil holds helpers shared by tests that drive a whole heap.
package testutil

import (
	"testing"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/region"
)

// DefaultLimit is the region limit used when a test passes zero.
const DefaultLimit = 4 << 20

// Backends lists every region backend name OpenRegion understands.
var Backends = []string{BackendMemory, BackendAnon, BackendFile}

const (
	BackendMemory = "mem"
	BackendAnon   = "anon"
	BackendFile   = "file"
)

// OpenRegion opens an empty region of the named backend. File regions live in
// t.TempDir(). The region is closed when the test ends.
//
// Example:
//
//	r := testutil.OpenRegion(t, testutil.BackendAnon, 0)
func OpenRegion(t testing.TB, backend string, limit int) region.Region {
	t.Helper()
	if limit == 0 {
		limit = DefaultLimit
	}

	var (
		r   region.Region
		err error
	)
	switch backend {
	case BackendMemory:
		r, err = region.NewMemory(limit)
	case BackendAnon:
		r, err = region.NewAnon(limit)
	case BackendFile:
		r, err = region.OpenFile(TempImage(t), limit)
	default:
		t.Fatalf("unknown region backend %q", backend)
	}
	if err != nil {
		t.Fatalf("Failed to open %s region: %v", backend, err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// NewAllocator returns an allocator with the given policy over a fresh
// region of the named backend.
func NewAllocator(t testing.TB, backend string, fit alloc.Fit, limit int) *alloc.Allocator {
	t.Helper()
	a, err := alloc.New(OpenRegion(t, backend, limit), &alloc.Options{Fit: fit})
	if err != nil {
		t.Fatalf("Failed to create allocator: %v", err)
	}
	return a
}

// RequireValidHeap fails the test when the allocator's chain is broken.
func RequireValidHeap(t testing.TB, a *alloc.Allocator) {
	t.Helper()
	if err := verify.Chain(a.Region().Bytes()); err != nil {
		t.Fatalf("heap invariants violated: %v", err)
	}
}
