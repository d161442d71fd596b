package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/region"
)

// Allocator manages a chain of blocks carved from a region.Region.
type Allocator struct {
	r   region.Region
	dt  DirtyTracker
	log *slog.Logger

	fit      Fit
	sel      selector
	maxAlloc uint64

	head uint32 // first block, NoBlock while the heap is empty
	tail uint32 // last block, growth links after it
	end  uint32 // bytes covered by the chain

	// lost is set once the region handed out bytes the chain could not
	// adopt. Growth stays disabled from then on; free blocks are still reused.
	lost error

	stats Stats
}

// New returns an allocator over an empty region. A nil opts means
// DefaultOptions.
func New(r region.Region, opts *Options) (*Allocator, error) {
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes in use", ErrNotEmpty, r.Len())
	}
	return newAllocator(r, opts), nil
}

// Open attaches an allocator to a region that may already hold a heap, such
// as a file region written by an earlier process. The chain is verified
// before use; live block count and heap size are recomputed from it.
func Open(r region.Region, opts *Options) (*Allocator, error) {
	a := newAllocator(r, opts)
	if r.Len() == 0 {
		return a, nil
	}
	data := r.Bytes()
	if err := verify.Chain(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	a.head = 0
	for cur := a.head; cur != format.NoBlock; {
		h := format.ReadHeader(data, cur)
		if !h.Free() {
			a.stats.Blocks++
		}
		a.tail = cur
		cur = h.Next
	}
	a.end = uint32(len(data))
	a.stats.HeapSize = uint64(len(data))
	a.stats.MaxHeap = a.stats.HeapSize
	a.log.Debug("heap attached", "heap", a.end, "live", a.stats.Blocks, "tail", a.tail)
	return a, nil
}

func newAllocator(r region.Region, opts *Options) *Allocator {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Allocator{
		r:        r,
		dt:       opts.Dirty,
		log:      opts.logger(),
		fit:      opts.Fit,
		sel:      newSelector(opts.Fit),
		maxAlloc: opts.maxAlloc(),
		head:     format.NoBlock,
		tail:     format.NoBlock,
	}
}

// Fit returns the allocator's block-selection policy.
func (a *Allocator) Fit() Fit { return a.fit }

// Region returns the region the heap lives in.
func (a *Allocator) Region() region.Region { return a.r }

// Alloc returns a pointer to at least size bytes. Alloc(0) returns Nil and
// no error. The payload is not cleared.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	a.stats.Mallocs++
	if size == 0 {
		return Nil, nil
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if uint64(size) > a.maxAlloc {
		return Nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, size, a.maxAlloc)
	}
	a.stats.Requested += uint64(size)
	need := format.Align4(uint32(size))

	var off uint32
	if sel := a.sel.selectFit(a, need); sel.found {
		off = sel.block
		if canSplit(a.header(off).Size, need) {
			a.split(off, need)
		}
		h := a.header(off)
		h.Flags &^= format.FlagFree
		a.putHeader(off, h)
		a.stats.Reuses++
	} else {
		var err error
		off, err = a.grow(a.tail, need)
		if err != nil {
			return Nil, err
		}
	}

	a.stats.Blocks++
	return payloadOf(off), nil
}

// Free releases the block owning p and merges it with free neighbours.
// Free(Nil) is a no-op. Freeing a block twice returns ErrDoubleFree and
// changes nothing.
func (a *Allocator) Free(p Ptr) error {
	if p == Nil {
		return nil
	}
	off, h, err := a.blockOf(p)
	if err != nil {
		return err
	}
	// A stale header left inside a merged block still reads as free.
	if h.Free() {
		a.log.Debug("double free rejected", "block", off)
		return fmt.Errorf("%w: block at 0x%X", ErrDoubleFree, off)
	}
	prev, ok := a.linked(off)
	if !ok {
		return fmt.Errorf("%w: block at 0x%X is not on the chain", ErrBadPtr, off)
	}

	h.Flags |= format.FlagFree
	a.putHeader(off, h)
	a.stats.Frees++
	a.stats.Blocks--

	a.coalesceNext(off)
	a.coalescePrev(off, prev)
	return nil
}

// Calloc allocates count*elemSize bytes and clears the whole payload.
func (a *Allocator) Calloc(count, elemSize int) (Ptr, error) {
	if count < 0 || elemSize < 0 {
		return Nil, fmt.Errorf("%w: %d x %d", ErrBadSize, count, elemSize)
	}
	n, ok := buf.MulOverflowSafe(count, elemSize)
	if !ok {
		return Nil, fmt.Errorf("%w: %d x %d", ErrOverflow, count, elemSize)
	}

	p, err := a.Alloc(n)
	if err != nil || p == Nil {
		return p, err
	}
	payload := a.Bytes(p)
	clear(payload)
	a.markDirty(int(p), len(payload))
	return p, nil
}

// Realloc resizes the block owning p to at least size bytes. A block that is
// already large enough is returned as is; otherwise the contents move to a
// new block and the old one is freed. When the new allocation fails the old
// block is left untouched. Realloc(Nil, n) is Alloc(n) and Realloc(p, 0)
// frees p and returns Nil.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	if p == Nil {
		return a.Alloc(size)
	}
	if size == 0 {
		return Nil, a.Free(p)
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	off, h, err := a.blockOf(p)
	if err != nil {
		return Nil, err
	}
	if _, ok := a.linked(off); !ok {
		return Nil, fmt.Errorf("%w: block at 0x%X is not on the chain", ErrBadPtr, off)
	}
	if h.Free() {
		return Nil, fmt.Errorf("%w: block at 0x%X is free", ErrBadPtr, off)
	}
	if uint64(h.Size) >= uint64(size) {
		return p, nil
	}

	np, err := a.Alloc(size)
	if err != nil {
		return Nil, err
	}
	// Growth may have moved the region; take a fresh view.
	data := a.r.Bytes()
	n := copy(data[np:uint32(np)+h.Size], data[p:uint32(p)+h.Size])
	a.markDirty(int(np), n)
	if err := a.Free(p); err != nil {
		return np, err
	}
	return np, nil
}

// Bytes returns the payload of p, len equal to its capacity. The slice is
// valid until the next growth on regions that move their storage.
func (a *Allocator) Bytes(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	_, h, err := a.blockOf(p)
	if err != nil {
		return nil
	}
	b, ok := buf.Slice(a.r.Bytes(), int(p), int(h.Size))
	if !ok {
		return nil
	}
	return b
}

// Cap returns the usable payload capacity of p, 0 for Nil or a bad pointer.
func (a *Allocator) Cap(p Ptr) int {
	if p == Nil {
		return 0
	}
	_, h, err := a.blockOf(p)
	if err != nil {
		return 0
	}
	return int(h.Size)
}

// Blocks walks the chain from the head.
func (a *Allocator) Blocks() []BlockInfo {
	var out []BlockInfo
	for cur := a.head; cur != format.NoBlock; {
		h := a.header(cur)
		out = append(out, BlockInfo{Offset: cur, Size: h.Size, Free: h.Free(), Next: h.Next})
		cur = h.Next
	}
	return out
}

// Stats returns a snapshot of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }
