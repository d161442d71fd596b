// Package dirty tracks which byte ranges of a heap region have been written
// since the last flush.
//
// # Overview
//
// The allocator reports every header and fresh block it writes through the
// alloc.DirtyTracker interface. For a file-backed region the caller then
// flushes only those pages instead of the whole mapping:
//
//	dt := dirty.NewTracker()
//	a, err := alloc.New(r, &alloc.Options{Dirty: dt})
//	...
//	err = dt.Flush(ctx, r) // r implements region.Syncer
//
// # Page-Level Granularity
//
// Ranges are widened to page boundaries and merged when they overlap or touch:
//
//	Add(100, 200), Add(4096, 10), Add(9000, 8) → [0x0-0x2000, 0x2000-0x3000]
//	                                           → merged: [0x0-0x3000]
//
// # Thread Safety
//
// Tracker instances are not thread-safe.
package dirty
