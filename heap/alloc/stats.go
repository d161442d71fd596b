package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds the allocator counters.
type Stats struct {
	Mallocs   uint64 `json:"mallocs"`   // Alloc calls, including zero-size and failed ones
	Frees     uint64 `json:"frees"`     // blocks released
	Reuses    uint64 `json:"reuses"`    // allocations served from a free block
	Grows     uint64 `json:"grows"`     // region extensions
	Splits    uint64 `json:"splits"`    // blocks split
	Coalesces uint64 `json:"coalesces"` // merges, one per absorbed block
	Blocks    int64  `json:"blocks"`    // live allocated blocks
	Requested uint64 `json:"requested"` // sum of requested sizes before alignment
	HeapSize  uint64 `json:"heap_size"` // bytes covered by the chain
	MaxHeap   uint64 `json:"max_heap"`  // high-water mark of HeapSize
}

// WriteReport prints the counters as an aligned table with grouped digits.
func (s Stats) WriteReport(w io.Writer) error {
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w,
		"\nheap management statistics\n"+
			"mallocs:\t%d\n"+
			"frees:\t\t%d\n"+
			"reuses:\t\t%d\n"+
			"grows:\t\t%d\n"+
			"splits:\t\t%d\n"+
			"coalesces:\t%d\n"+
			"blocks:\t\t%d\n"+
			"requested:\t%d\n"+
			"heap size:\t%d\n"+
			"max heap:\t%d\n",
		s.Mallocs, s.Frees, s.Reuses, s.Grows, s.Splits, s.Coalesces,
		s.Blocks, s.Requested, s.HeapSize, s.MaxHeap)
	return err
}
