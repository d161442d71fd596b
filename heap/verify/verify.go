package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Summary describes a valid heap image.
type Summary struct {
	HeapSize    int    `json:"heap_size"`
	Blocks      int    `json:"blocks"`
	FreeBlocks  int    `json:"free_blocks"`
	UsedBytes   uint64 `json:"used_bytes"` // payload capacity of allocated blocks
	FreeBytes   uint64 `json:"free_bytes"` // payload capacity of free blocks
	LargestFree uint32 `json:"largest_free"`
}

// Chain validates the block chain in data. An empty image is valid.
//
// Checked, per block in chain order:
//   - the header fits and carries the block magic
//   - the size is 4-byte aligned and the payload stays inside data
//   - next is the block immediately after this one, or NoBlock at the end of data
//   - the block and its predecessor are not both free
func Chain(data []byte) error {
	_, err := walk(data, nil)
	return err
}

// Summarize validates data like Chain and tallies the blocks.
func Summarize(data []byte) (Summary, error) {
	s := Summary{HeapSize: len(data)}
	_, err := walk(data, func(_ uint32, h format.Header) {
		s.Blocks++
		if h.Free() {
			s.FreeBlocks++
			s.FreeBytes += uint64(h.Size)
			s.LargestFree = max(s.LargestFree, h.Size)
		} else {
			s.UsedBytes += uint64(h.Size)
		}
	})
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}

// walk visits every block and returns the tail offset.
func walk(data []byte, visit func(off uint32, h format.Header)) (uint32, error) {
	if len(data) == 0 {
		return format.NoBlock, nil
	}
	if int64(len(data)) > format.MaxRegionSize {
		return format.NoBlock, &ValidationError{
			Type:    "Heap",
			Message: fmt.Sprintf("image of %d bytes exceeds the addressable maximum", len(data)),
			Offset:  -1,
		}
	}

	prevFree := false
	var off uint32
	for {
		if !format.HasHeader(data, off) {
			return format.NoBlock, &ValidationError{
				Type:    "Header",
				Message: fmt.Sprintf("truncated header, %d bytes left", len(data)-int(off)),
				Offset:  int(off),
			}
		}
		h := format.ReadHeader(data, off)
		if h.Magic != format.BlockMagic {
			return format.NoBlock, &ValidationError{
				Type:    "Header",
				Message: fmt.Sprintf("bad magic 0x%08X (expected 0x%08X)", h.Magic, format.BlockMagic),
				Offset:  int(off),
			}
		}
		if !format.IsAligned(h.Size) {
			return format.NoBlock, &ValidationError{
				Type:    "Size",
				Message: fmt.Sprintf("size %d is not %d-byte aligned", h.Size, format.Alignment),
				Offset:  int(off),
			}
		}
		end := int64(off) + h.Span()
		if end > int64(len(data)) {
			return format.NoBlock, &ValidationError{
				Type:    "Size",
				Message: fmt.Sprintf("payload of %d bytes runs past end of heap (0x%X)", h.Size, len(data)),
				Offset:  int(off),
			}
		}
		if prevFree && h.Free() {
			return format.NoBlock, &ValidationError{
				Type:    "Coalesce",
				Message: "free block follows a free block",
				Offset:  int(off),
			}
		}
		if visit != nil {
			visit(off, h)
		}

		if h.Next == format.NoBlock {
			if end != int64(len(data)) {
				return format.NoBlock, &ValidationError{
					Type:    "Link",
					Message: fmt.Sprintf("chain ends at 0x%X, heap is 0x%X bytes", end, len(data)),
					Offset:  int(off),
				}
			}
			return off, nil
		}
		if int64(h.Next) != end {
			return format.NoBlock, &ValidationError{
				Type:    "Link",
				Message: fmt.Sprintf("next is 0x%X, expected adjacent block at 0x%X", h.Next, end),
				Offset:  int(off),
			}
		}
		prevFree = h.Free()
		off = h.Next
	}
}
