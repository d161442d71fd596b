package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseRegion runs the contract every backend must honour.
func exerciseRegion(t *testing.T, r Region, limit int) {
	t.Helper()

	require.Equal(t, 0, r.Len())

	off, err := r.Extend(100)
	require.NoError(t, err)
	assert.Equal(t, 0, off)
	assert.Equal(t, 100, r.Len())
	assert.Len(t, r.Bytes(), 100)

	data := r.Bytes()
	for i := range data {
		data[i] = 0xAB
	}

	off, err = r.Extend(5000)
	require.NoError(t, err)
	assert.Equal(t, 100, off, "extension must start at the previous end")
	data = r.Bytes()
	require.Len(t, data, 5100)

	for i := 0; i < 100; i++ {
		require.Equal(t, byte(0xAB), data[i], "old contents lost at %d", i)
	}
	for i := 100; i < 5100; i++ {
		require.Zero(t, data[i], "new bytes must read as zero at %d", i)
	}

	_, err = r.Extend(limit)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 5100, r.Len(), "failed extension must not change the length")

	_, err = r.Extend(-1)
	require.ErrorIs(t, err, ErrBadLength)

	require.NoError(t, r.Close())
	_, err = r.Extend(1)
	require.ErrorIs(t, err, ErrClosed)
}

func TestMemoryRegion(t *testing.T) {
	m, err := NewMemory(1 << 20)
	require.NoError(t, err)
	exerciseRegion(t, m, 1<<20)
}

func TestMemoryRegionLimit(t *testing.T) {
	m, err := NewMemory(64)
	require.NoError(t, err)

	_, err = m.Extend(64)
	require.NoError(t, err)
	_, err = m.Extend(1)
	require.ErrorIs(t, err, ErrExhausted)
	assert.LessOrEqual(t, cap(m.Bytes()), 64)
}

func TestMemoryRegionRejectsBadLimit(t *testing.T) {
	_, err := NewMemory(0)
	require.ErrorIs(t, err, ErrBadLength)
}

func TestAnonRegion(t *testing.T) {
	r, err := NewAnon(1 << 20)
	require.NoError(t, err)
	// Limits are page rounded, so ask for far more than any page size.
	exerciseRegion(t, r, 1<<21)
}
