package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block was large enough and the region could not grow.
	ErrNoSpace = errors.New("alloc: no space")

	// ErrGrowFail indicates the region could not be extended, or returned
	// space that does not continue the heap. After the latter the allocator
	// never grows again.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrDoubleFree indicates an attempt to free a block that is already free.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrBadPtr indicates a pointer outside the heap or to a free block.
	ErrBadPtr = errors.New("alloc: bad pointer")

	// ErrBadSize indicates a negative size or element count.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrTooLarge indicates a request above Options.MaxAlloc.
	ErrTooLarge = errors.New("alloc: request too large")

	// ErrOverflow indicates that count*size overflowed in Calloc.
	ErrOverflow = errors.New("alloc: size overflow")

	// ErrNotEmpty indicates New was given a region that already holds data.
	ErrNotEmpty = errors.New("alloc: region not empty")

	// ErrCorrupt indicates Open found a region whose block chain is invalid.
	ErrCorrupt = errors.New("alloc: corrupt heap")

	// ErrUnknownFit indicates an unrecognised fit policy name.
	ErrUnknownFit = errors.New("alloc: unknown fit policy")
)
