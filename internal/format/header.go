package format

// Header is the decoded form of a block header.
type Header struct {
	Size  uint32
	Next  uint32
	Flags uint32
	Magic uint32
}

// Free reports whether the block is unoccupied.
func (h Header) Free() bool { return h.Flags&FlagFree != 0 }

// Span returns the bytes covered by header and payload together.
func (h Header) Span() int64 { return HeaderSize + int64(h.Size) }

// ReadHeader decodes the header at off. The caller guarantees that
// off+HeaderSize <= len(b).
func ReadHeader(b []byte, off uint32) Header {
	o := int(off)
	return Header{
		Size:  ReadU32(b, o+SizeOffset),
		Next:  ReadU32(b, o+NextOffset),
		Flags: ReadU32(b, o+FlagsOffset),
		Magic: ReadU32(b, o+MagicOffset),
	}
}

// PutHeader encodes h at off.
func PutHeader(b []byte, off uint32, h Header) {
	o := int(off)
	PutU32(b, o+SizeOffset, h.Size)
	PutU32(b, o+NextOffset, h.Next)
	PutU32(b, o+FlagsOffset, h.Flags)
	PutU32(b, o+MagicOffset, h.Magic)
}

// HasHeader reports whether a full header fits at off in b.
func HasHeader(b []byte, off uint32) bool {
	return off != NoBlock && int64(off)+HeaderSize <= int64(len(b))
}
