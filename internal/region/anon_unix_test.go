//go:build unix

package region

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestAnonRegionDoesNotMove verifies that growth commits pages in place.
func TestAnonRegionDoesNotMove(t *testing.T) {
	r, err := NewAnon(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = r.Extend(16)
	require.NoError(t, err)
	before := unsafe.Pointer(&r.Bytes()[0])

	for range 64 {
		_, err = r.Extend(4096)
		require.NoError(t, err)
	}
	after := unsafe.Pointer(&r.Bytes()[0])
	require.Equal(t, before, after, "anonymous region must not relocate")
}
