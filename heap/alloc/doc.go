// Package alloc implements a user-space dynamic memory allocator over a
// growable region.Region.
//
// # Overview
//
// The heap is a chain of variable-sized blocks laid out back to back in the
// region. Every block starts with a 16-byte header (size, next, flags,
// magic) followed by its payload. The chain links every block in address
// order, free or not, and is walked by the fit policies, the coalescer and
// the inspection helpers.
//
// # Operations
//
//   - Alloc(size): Allocate at least size bytes
//   - Free(p): Release a block and merge it with free neighbours
//   - Calloc(count, size): Allocate count*size zeroed bytes
//   - Realloc(p, size): Resize, moving the contents when the block is too small
//
// Pointers are Ptr values, payload offsets into the region. Nil (0) is the
// null pointer; no payload can start at offset 0.
//
// # Fit Policies
//
// One policy is fixed per allocator via Options.Fit:
//
//	FitFirst: first free block from the head that is large enough (default)
//	FitBest:  smallest free block that is large enough, earliest on ties
//	FitWorst: largest free block that is large enough, earliest on ties
//	FitNext:  like FitFirst, resuming after the previous selection and wrapping
//
// # Splitting and Coalescing
//
// A selected block is split when at least HeaderSize+4 bytes would remain;
// the remainder becomes a free block right after it. Free merges the block
// with a free successor and then with a free predecessor, so no two
// neighbouring blocks are ever both free. The predecessor is found by walking
// from the head, which is O(n) in the number of blocks.
//
// # Growth
//
// When no block fits, the region is extended by exactly HeaderSize+size bytes
// and the new block is appended at the tail. Exhaustion of the region is
// reported as ErrNoSpace. A region that returns space not adjacent to the
// heap fails with ErrGrowFail and growth stays disabled afterwards.
//
// # Usage Example
//
//	r, err := region.NewAnon(64 << 20)
//	if err != nil {
//	    return err
//	}
//	a, err := alloc.New(r, &alloc.Options{Fit: alloc.FitBest})
//	if err != nil {
//	    return err
//	}
//
//	p, err := a.Alloc(128)
//	if err != nil {
//	    return err
//	}
//	copy(a.Bytes(p), "hello")
//
//	p, err = a.Realloc(p, 4096)
//	...
//	err = a.Free(p)
//
// # Limitations
//
// Realloc never grows a block in place by absorbing a free successor; it
// always allocates, copies and frees. Free and Realloc reject pointers that
// do not name a block on the chain with ErrBadPtr; Bytes and Cap only check
// the header in front of the pointer.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
