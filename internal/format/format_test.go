package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign4(t *testing.T) {
	cases := []struct {
		in, want uint32
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{17, 20},
		{1023, 1024},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Align4(tc.in), "Align4(%d)", tc.in)
	}
}

// TestAlign4Bounds checks align(s) is a multiple of 4 in [s, s+4) for every s > 0.
func TestAlign4Bounds(t *testing.T) {
	for s := uint32(1); s < 1<<14; s++ {
		a := Align4(s)
		require.True(t, IsAligned(a), "Align4(%d)=%d not aligned", s, a)
		require.GreaterOrEqual(t, a, s)
		require.Less(t, a, s+4)
	}
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 0, AlignUp(0, 4096))
	assert.Equal(t, 4096, AlignUp(1, 4096))
	assert.Equal(t, 4096, AlignUp(4096, 4096))
	assert.Equal(t, 8192, AlignUp(4097, 4096))
}

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	h := Header{Size: 40, Next: NoBlock, Flags: FlagFree, Magic: BlockMagic}
	PutHeader(buf, 8, h)

	got := ReadHeader(buf, 8)
	assert.Equal(t, h, got)
	assert.True(t, got.Free())
	assert.Equal(t, int64(56), got.Span())

	// Little-endian on the wire.
	assert.Equal(t, byte(40), buf[8])
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, buf[12:16])
}

func TestHasHeader(t *testing.T) {
	buf := make([]byte, 32)
	assert.True(t, HasHeader(buf, 0))
	assert.True(t, HasHeader(buf, 16))
	assert.False(t, HasHeader(buf, 17))
	assert.False(t, HasHeader(buf, NoBlock))
}
