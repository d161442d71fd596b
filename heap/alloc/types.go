package alloc

import (
	"fmt"
	"strings"
)

// Ptr is a payload offset into the allocator's region.
type Ptr uint32

// Nil is the null pointer.
const Nil Ptr = 0

// Fit selects the block-selection policy.
type Fit uint8

const (
	// FitFirst takes the first large-enough free block from the head.
	FitFirst Fit = iota

	// FitBest takes the smallest large-enough free block.
	FitBest

	// FitWorst takes the largest large-enough free block.
	FitWorst

	// FitNext resumes the first-fit scan after the previous selection.
	FitNext
)

var fitNames = [...]string{
	FitFirst: "first",
	FitBest:  "best",
	FitWorst: "worst",
	FitNext:  "next",
}

func (f Fit) String() string {
	if int(f) < len(fitNames) {
		return fitNames[f]
	}
	return fmt.Sprintf("Fit(%d)", uint8(f))
}

// ParseFit maps "first", "best", "worst" or "next" (case-insensitive) to a Fit.
func ParseFit(s string) (Fit, error) {
	for i, name := range fitNames {
		if strings.EqualFold(s, name) {
			return Fit(i), nil
		}
	}
	return FitFirst, fmt.Errorf("%w: %q", ErrUnknownFit, s)
}

// DirtyTracker receives every byte range the allocator writes. heap/dirty
// provides the page-merging implementation.
type DirtyTracker interface {
	Add(off, length int)
}

// BlockInfo describes one block of the chain.
type BlockInfo struct {
	Offset uint32 `json:"offset"` // header offset
	Size   uint32 `json:"size"`   // payload capacity
	Free   bool   `json:"free"`
	Next   uint32 `json:"next"` // header offset of the successor, NoBlock for the tail
}

// Payload returns the pointer to the block's payload.
func (b BlockInfo) Payload() Ptr { return payloadOf(b.Offset) }
