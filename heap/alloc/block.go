package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// payloadOf returns the payload pointer of the block whose header is at off.
func payloadOf(off uint32) Ptr { return Ptr(off + format.HeaderSize) }

// headerOf returns the header offset of the block owning p. It only checks
// that a header could sit there.
func (a *Allocator) headerOf(p Ptr) (uint32, error) {
	if uint32(p) < format.HeaderSize || int64(p) > int64(a.end) {
		return format.NoBlock, fmt.Errorf("%w: 0x%X outside heap [0x%X, 0x%X]", ErrBadPtr, uint32(p), format.HeaderSize, a.end)
	}
	if uint32(p)&format.AlignmentMask != 0 {
		return format.NoBlock, fmt.Errorf("%w: 0x%X is not %d-byte aligned", ErrBadPtr, uint32(p), format.Alignment)
	}
	return uint32(p) - format.HeaderSize, nil
}

// blockOf returns the header of the block owning p after checking that the
// bytes in front of p form a well-formed header: block magic, a span inside
// the heap, and a next link to the adjacent block (or NoBlock at the end).
// It does not prove the block is on the chain; see linked.
func (a *Allocator) blockOf(p Ptr) (uint32, format.Header, error) {
	off, err := a.headerOf(p)
	if err != nil {
		return format.NoBlock, format.Header{}, err
	}
	h := a.header(off)
	if h.Magic != format.BlockMagic {
		return format.NoBlock, format.Header{}, fmt.Errorf("%w: no block header at 0x%X", ErrBadPtr, off)
	}
	end := int64(off) + h.Span()
	switch {
	case end > int64(a.end),
		h.Next == format.NoBlock && end != int64(a.end),
		h.Next != format.NoBlock && int64(h.Next) != end:
		return format.NoBlock, format.Header{}, fmt.Errorf("%w: malformed header at 0x%X", ErrBadPtr, off)
	}
	return off, h, nil
}

// linked reports whether the block at off is reachable from the head, and
// returns its predecessor (NoBlock for the head). O(n).
func (a *Allocator) linked(off uint32) (uint32, bool) {
	if off == a.head {
		return format.NoBlock, true
	}
	prev := a.predecessor(off)
	return prev, prev != format.NoBlock
}

// header decodes the header at off from the region's current bytes.
func (a *Allocator) header(off uint32) format.Header {
	return format.ReadHeader(a.r.Bytes(), off)
}

// putHeader writes h at off and marks the header dirty.
func (a *Allocator) putHeader(off uint32, h format.Header) {
	format.PutHeader(a.r.Bytes(), off, h)
	a.markDirty(int(off), format.HeaderSize)
}

func (a *Allocator) markDirty(off, n int) {
	if a.dt != nil {
		a.dt.Add(off, n)
	}
}

// newHeader returns a header for a block that is not linked yet.
func newHeader(size uint32, free bool) format.Header {
	h := format.Header{Size: size, Next: format.NoBlock, Magic: format.BlockMagic}
	if free {
		h.Flags = format.FlagFree
	}
	return h
}
