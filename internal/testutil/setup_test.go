package testutil

import (
	"os"
	"testing"

	"github.com/joshuapare/heapkit/heap/alloc"
)

func TestNewAllocator_AllBackends(t *testing.T) {
	for _, backend := range Backends {
		t.Run(backend, func(t *testing.T) {
			a := NewAllocator(t, backend, alloc.FitNext, 0)
			p, err := a.Alloc(100)
			if err != nil {
				t.Fatalf("Alloc: %v", err)
			}
			if err := a.Free(p); err != nil {
				t.Fatalf("Free: %v", err)
			}
			RequireValidHeap(t, a)
		})
	}
}

func TestWriteTrace(t *testing.T) {
	path := WriteTrace(t, "a 1 8\n")
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a 1 8\n" {
		t.Fatalf("trace contents = %q", got)
	}
}
