package alloc

import "github.com/joshuapare/heapkit/internal/format"

// canSplit reports whether carving need bytes out of a block of size bytes
// leaves room for a header and at least MinSplitRemainder payload bytes.
func canSplit(size, need uint32) bool {
	return size-need >= format.HeaderSize+format.MinSplitRemainder
}

// split shrinks the block at off to need bytes and inserts a free block with
// the rest right after it. The block's own flags are left as they are.
func (a *Allocator) split(off, need uint32) uint32 {
	h := a.header(off)
	rem := off + format.HeaderSize + need

	r := newHeader(h.Size-need-format.HeaderSize, true)
	r.Next = h.Next
	a.putHeader(rem, r)

	h.Size = need
	h.Next = rem
	a.putHeader(off, h)

	if a.tail == off {
		a.tail = rem
	}
	a.stats.Splits++
	a.log.Debug("block split", "block", off, "size", need, "remainder", rem, "remainder_size", r.Size)
	return rem
}
