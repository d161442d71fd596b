package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/region"
)

// grow extends the region by exactly one block of size payload bytes and
// links it after tail (or installs it as head when tail is NoBlock). The new
// block is in use.
func (a *Allocator) grow(tail, size uint32) (uint32, error) {
	if a.lost != nil {
		return format.NoBlock, fmt.Errorf("%w: growth disabled: %w", ErrGrowFail, a.lost)
	}
	span := int64(format.HeaderSize) + int64(size)
	if int64(a.end)+span > format.MaxRegionSize {
		return format.NoBlock, fmt.Errorf("%w: heap of %d bytes cannot grow by %d: %w",
			ErrNoSpace, a.end, span, region.ErrExhausted)
	}

	off, err := a.r.Extend(int(span))
	if err != nil {
		if errors.Is(err, region.ErrExhausted) {
			return format.NoBlock, fmt.Errorf("%w: %w", ErrNoSpace, err)
		}
		return format.NoBlock, fmt.Errorf("%w: %w", ErrGrowFail, err)
	}
	if int64(off) != int64(a.end) {
		a.lost = fmt.Errorf("region returned offset 0x%X, heap ends at 0x%X", off, a.end)
		a.log.Debug("growth disabled", "offset", off, "heap", a.end)
		return format.NoBlock, fmt.Errorf("%w: %w", ErrGrowFail, a.lost)
	}

	blk := uint32(off)
	format.PutHeader(a.r.Bytes(), blk, newHeader(size, false))
	a.markDirty(off, int(span))
	if tail == format.NoBlock {
		a.head = blk
	} else {
		h := a.header(tail)
		h.Next = blk
		a.putHeader(tail, h)
	}
	a.tail = blk
	a.end += uint32(span)

	a.stats.Grows++
	a.stats.HeapSize += uint64(span)
	a.stats.MaxHeap = max(a.stats.MaxHeap, a.stats.HeapSize)

	a.log.Debug("heap grown", "block", blk, "size", size, "heap", a.end)
	return blk, nil
}
