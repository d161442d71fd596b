package format

// Align4 returns n aligned up to the next 4-byte boundary.
// Used for block payload sizes.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
//	Align4(0) = 0
func Align4(n uint32) uint32 {
	return (n + AlignmentMask) &^ AlignmentMask
}

// IsAligned reports whether n is a multiple of Alignment.
func IsAligned(n uint32) bool {
	return n&AlignmentMask == 0
}

// AlignUp returns n aligned up to the next multiple of a, which must be a
// power of two. Regions use it to round lengths to OS pages.
func AlignUp(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}
