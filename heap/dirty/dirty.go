package dirty

import (
	"context"
	"sort"

	"github.com/joshuapare/heapkit/internal/region"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range is a dirty byte range within a region.
type Range struct {
	Off int64
	Len int64
}

// End returns the first offset past the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them page by page.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker using 4KB pages.
func NewTracker() *Tracker {
	return NewTrackerWithPageSize(standardPageSize)
}

// NewTrackerWithPageSize creates a tracker with a custom page size, which must
// be a power of two. Non-positive values select the standard 4KB page.
func NewTrackerWithPageSize(pageSize int) *Tracker {
	if pageSize <= 0 {
		pageSize = standardPageSize
	}
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: int64(pageSize),
	}
}

// Add records a dirty range. Alignment and merging happen lazily in Ranges.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Len returns the number of raw, unmerged ranges recorded.
func (t *Tracker) Len() int { return len(t.ranges) }

// Reset drops all recorded ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns the recorded ranges widened to page boundaries, sorted and
// merged where they overlap or touch.
func (t *Tracker) Ranges() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.End()
		if end%t.pageSize != 0 {
			end = (end/t.pageSize + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	cur := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= cur.End() {
			cur.Len = max(cur.End(), next.End()) - cur.Off
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}

// Flush syncs every merged range through s and clears the tracker. Ranges
// are clipped by the region itself, so a page-widened tail past the end of
// the region is harmless. If ctx is cancelled or a sync fails part way, the
// tracker keeps every range so a retry flushes them again.
func (t *Tracker) Flush(ctx context.Context, s region.Syncer) error {
	if len(t.ranges) == 0 {
		return nil
	}
	for _, r := range t.Ranges() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.SyncRange(int(r.Off), int(r.Len)); err != nil {
			return err
		}
	}
	t.Reset()
	return nil
}
