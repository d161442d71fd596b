package dirty

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSyncer captures SyncRange calls.
type recordingSyncer struct {
	calls []Range
	err   error
}

func (s *recordingSyncer) SyncRange(off, n int) error {
	s.calls = append(s.calls, Range{Off: int64(off), Len: int64(n)})
	return s.err
}

func TestTrackerPageAlignment(t *testing.T) {
	tr := NewTracker()
	tr.Add(100, 200)

	got := tr.Ranges()
	require.Len(t, got, 1)
	assert.Equal(t, Range{Off: 0, Len: 4096}, got[0])
}

func TestTrackerCoalescesAdjacentAndOverlapping(t *testing.T) {
	tr := NewTracker()
	tr.Add(9000, 8)   // page 2
	tr.Add(4096, 10)  // page 1
	tr.Add(100, 200)  // page 0
	tr.Add(40960, 16) // page 10, separate

	got := tr.Ranges()
	require.Len(t, got, 2)
	assert.Equal(t, Range{Off: 0, Len: 3 * 4096}, got[0])
	assert.Equal(t, Range{Off: 40960, Len: 4096}, got[1])
}

func TestTrackerSpanningRange(t *testing.T) {
	tr := NewTrackerWithPageSize(1024)
	tr.Add(1000, 100) // crosses the 1024 boundary

	got := tr.Ranges()
	require.Len(t, got, 1)
	assert.Equal(t, Range{Off: 0, Len: 2048}, got[0])
}

func TestTrackerIgnoresEmptyRanges(t *testing.T) {
	tr := NewTracker()
	tr.Add(10, 0)
	tr.Add(10, -5)
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Ranges())
}

func TestTrackerFlush(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 16)
	tr.Add(8192, 32)

	s := &recordingSyncer{}
	require.NoError(t, tr.Flush(context.Background(), s))
	assert.Equal(t, []Range{{Off: 0, Len: 4096}, {Off: 8192, Len: 4096}}, s.calls)
	assert.Equal(t, 0, tr.Len(), "flush clears the tracker")

	// Nothing left to flush.
	require.NoError(t, tr.Flush(context.Background(), s))
	assert.Len(t, s.calls, 2)
}

func TestTrackerFlushKeepsRangesOnError(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 16)

	boom := errors.New("boom")
	err := tr.Flush(context.Background(), &recordingSyncer{err: boom})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tr.Len())
}

func TestTrackerFlushHonoursCancellation(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &recordingSyncer{}
	require.ErrorIs(t, tr.Flush(ctx, s), context.Canceled)
	assert.Empty(t, s.calls)
	assert.Equal(t, 1, tr.Len())
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 16)
	tr.Reset()
	assert.Equal(t, 0, tr.Len())
}
