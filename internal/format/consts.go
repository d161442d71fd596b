// Package format houses the on-region encoding of heap block headers. It is
// kept separate from the allocator so that verification and inspection tools
// can decode a heap image without constructing an allocator.
package format

const (
	// HeaderSize is the size of the header preceding every block payload.
	// Layout (little-endian):
	//   0x00  size   uint32  usable payload bytes
	//   0x04  next   uint32  header offset of the next block, NoBlock for the tail
	//   0x08  flags  uint32  FlagFree when the block is free
	//   0x0C  magic  uint32  BlockMagic
	HeaderSize = 16

	// SizeOffset is the offset of the payload size field inside a header.
	SizeOffset = 0x00

	// NextOffset is the offset of the next-block link inside a header.
	NextOffset = 0x04

	// FlagsOffset is the offset of the flags word inside a header.
	FlagsOffset = 0x08

	// MagicOffset is the offset of the magic word inside a header.
	MagicOffset = 0x0C

	// Alignment is the granularity of payload sizes.
	Alignment = 4

	// AlignmentMask is Alignment-1, used by mask-based rounding.
	AlignmentMask = Alignment - 1

	// MinSplitRemainder is the smallest payload a split may leave behind.
	MinSplitRemainder = 4

	// NoBlock terminates the chain.
	NoBlock uint32 = 0xFFFFFFFF

	// BlockMagic tags every header written by the allocator ("hblk").
	BlockMagic uint32 = 0x6B6C6268

	// FlagFree marks an unoccupied block.
	FlagFree uint32 = 1 << 0

	// MaxRegionSize bounds header offsets so they fit a uint32 below NoBlock.
	MaxRegionSize = int64(NoBlock) - 1
)
