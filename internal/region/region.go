// Package region provides the raw address space a heap is carved from.
//
// A Region is a contiguous byte range that only ever grows at its end, the
// user-space analogue of a program break moved by sbrk(2). Three backends are
// available:
//
//   - Memory: a Go byte slice. Portable; contents move when it grows.
//   - Anon: an anonymous mapping reserved up front with PROT_NONE and
//     committed page by page on Extend. Contents never move.
//   - File: a file-backed shared mapping, grown by truncate and remap, so a
//     heap image survives the process.
//
// Regions are not safe for concurrent use.
package region

import "errors"

var (
	// ErrExhausted indicates the region cannot grow by the requested amount.
	ErrExhausted = errors.New("region: address space exhausted")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("region: closed")

	// ErrBadLength indicates a negative extension or a non-positive limit.
	ErrBadLength = errors.New("region: bad length")
)

// Region is a growable, contiguous byte range.
type Region interface {
	// Bytes returns the current contents. len(Bytes()) == Len().
	// Backends that move their storage on growth invalidate earlier slices.
	Bytes() []byte

	// Len returns the number of bytes handed out so far.
	Len() int

	// Extend grows the region by n bytes and returns the offset at which
	// the new bytes begin. New bytes read as zero.
	Extend(n int) (int, error)

	// Close releases the backing storage.
	Close() error
}

// Syncer is implemented by regions whose contents can be flushed to stable
// storage.
type Syncer interface {
	// SyncRange flushes [off, off+n) to stable storage.
	SyncRange(off, n int) error
}

// checkExtend validates an extension request against a limit.
func checkExtend(cur, n, limit int) error {
	if n < 0 {
		return ErrBadLength
	}
	if n > limit-cur {
		return ErrExhausted
	}
	return nil
}
