package alloc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/region"
)

type span struct{ off, n int }

// mockDirtyTracker records every range it is given.
type mockDirtyTracker struct {
	ranges []span
}

func (m *mockDirtyTracker) Add(off, length int) {
	m.ranges = append(m.ranges, span{off, length})
}

func (m *mockDirtyTracker) reset() { m.ranges = nil }

func TestDirty_RecordsWrites(t *testing.T) {
	r, err := region.NewMemory(1 << 16)
	require.NoError(t, err)
	dt := &mockDirtyTracker{}
	a, err := New(r, &Options{Dirty: dt})
	require.NoError(t, err)

	p := mustAlloc(t, a, 16)
	assert.Equal(t, []span{{0, 32}}, dt.ranges, "growth marks the whole new block")

	dt.reset()
	q := mustAlloc(t, a, 8)
	assert.Contains(t, dt.ranges, span{32, 24})
	assert.Contains(t, dt.ranges, span{0, 16}, "linking the old tail rewrites its header")

	dt.reset()
	mustFree(t, a, q)
	assert.Equal(t, []span{{32, 16}}, dt.ranges)

	dt.reset()
	mustFree(t, a, p)
	assert.Contains(t, dt.ranges, span{0, 16})
	assert.Len(t, dt.ranges, 2, "free header write plus one merge")

	dt.reset()
	c, err := a.Calloc(2, 8)
	require.NoError(t, err)
	assert.Contains(t, dt.ranges, span{int(c), 16}, "calloc marks the cleared payload")
}

func TestDirty_FlushFileRegion(t *testing.T) {
	r, err := region.OpenFile(filepath.Join(t.TempDir(), "heap.img"), testLimit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	dt := dirty.NewTracker()
	a, err := New(r, &Options{Dirty: dt})
	require.NoError(t, err)

	for i := range 64 {
		p := mustAlloc(t, a, 100+i)
		if i%3 == 0 {
			mustFree(t, a, p)
		}
	}
	ranges := dt.Ranges()
	require.NotEmpty(t, ranges)
	assert.Equal(t, int64(0), ranges[0].Off)
	assert.GreaterOrEqual(t, ranges[len(ranges)-1].End(), int64(r.Len()))

	require.NoError(t, dt.Flush(context.Background(), r))
	assert.Zero(t, dt.Len())
}
