package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesceNext merges the successor of off into off when the successor is
// free. It reports whether a merge happened.
func (a *Allocator) coalesceNext(off uint32) bool {
	h := a.header(off)
	if h.Next == format.NoBlock {
		return false
	}
	victim := h.Next
	v := a.header(victim)
	if !v.Free() {
		return false
	}

	h.Size += format.HeaderSize + v.Size
	h.Next = v.Next
	a.putHeader(off, h)

	if a.tail == victim {
		a.tail = off
	}
	a.sel.absorbed(victim, off)
	a.stats.Coalesces++
	a.log.Debug("blocks coalesced", "block", off, "absorbed", victim, "size", h.Size)
	return true
}

// coalescePrev merges off into its predecessor prev when prev is free and
// returns the offset of the surviving block.
func (a *Allocator) coalescePrev(off, prev uint32) uint32 {
	if prev == format.NoBlock || !a.header(prev).Free() {
		return off
	}
	a.coalesceNext(prev)
	return prev
}

// predecessor walks from the head to the block linking to off. O(n).
func (a *Allocator) predecessor(off uint32) uint32 {
	if off == a.head {
		return format.NoBlock
	}
	for cur := a.head; cur != format.NoBlock; {
		next := a.header(cur).Next
		if next == off {
			return cur
		}
		cur = next
	}
	return format.NoBlock
}
