package alloc

import "github.com/joshuapare/heapkit/internal/format"

// selection is the outcome of a fit scan. prev is the block linking to block,
// NoBlock when block is the head. When found is false, block is NoBlock.
type selection struct {
	block uint32
	prev  uint32
	found bool
}

var notFound = selection{block: format.NoBlock, prev: format.NoBlock}

// selector picks a free block of at least need bytes.
type selector interface {
	selectFit(a *Allocator, need uint32) selection

	// absorbed is called when victim is merged into into.
	absorbed(victim, into uint32)
}

func newSelector(f Fit) selector {
	switch f {
	case FitBest:
		return bestFit{}
	case FitWorst:
		return worstFit{}
	case FitNext:
		return &nextFit{cursor: format.NoBlock}
	default:
		return firstFit{}
	}
}

type firstFit struct{}

func (firstFit) selectFit(a *Allocator, need uint32) selection {
	prev := format.NoBlock
	for cur := a.head; cur != format.NoBlock; {
		h := a.header(cur)
		if h.Free() && h.Size >= need {
			return selection{block: cur, prev: prev, found: true}
		}
		prev, cur = cur, h.Next
	}
	return notFound
}

func (firstFit) absorbed(uint32, uint32) {}

// scanFit walks the whole chain and keeps the qualifying block for which
// better reports true against the current pick. Ties keep the earlier block.
func scanFit(a *Allocator, need uint32, better func(cand, best uint32) bool) selection {
	pick := notFound
	var pickSize uint32
	prev := format.NoBlock
	for cur := a.head; cur != format.NoBlock; {
		h := a.header(cur)
		if h.Free() && h.Size >= need && (!pick.found || better(h.Size, pickSize)) {
			pick = selection{block: cur, prev: prev, found: true}
			pickSize = h.Size
		}
		prev, cur = cur, h.Next
	}
	return pick
}

type bestFit struct{}

func (bestFit) selectFit(a *Allocator, need uint32) selection {
	return scanFit(a, need, func(cand, best uint32) bool { return cand < best })
}

func (bestFit) absorbed(uint32, uint32) {}

type worstFit struct{}

func (worstFit) selectFit(a *Allocator, need uint32) selection {
	return scanFit(a, need, func(cand, worst uint32) bool { return cand > worst })
}

func (worstFit) absorbed(uint32, uint32) {}

// nextFit remembers the block of the last successful selection and resumes
// after it, wrapping to the head once.
type nextFit struct {
	cursor uint32
}

func (n *nextFit) selectFit(a *Allocator, need uint32) selection {
	if a.head == format.NoBlock {
		return notFound
	}
	start, prev := a.head, format.NoBlock
	if n.cursor != format.NoBlock {
		if next := a.header(n.cursor).Next; next != format.NoBlock {
			start, prev = next, n.cursor
		}
	}

	cur := start
	for {
		h := a.header(cur)
		if h.Free() && h.Size >= need {
			n.cursor = cur
			return selection{block: cur, prev: prev, found: true}
		}
		if h.Next == format.NoBlock {
			prev, cur = format.NoBlock, a.head
		} else {
			prev, cur = cur, h.Next
		}
		if cur == start {
			return notFound
		}
	}
}

func (n *nextFit) absorbed(victim, into uint32) {
	if n.cursor == victim {
		n.cursor = into
	}
}
