// Package buf holds overflow-checked size arithmetic and bounds-checked
// slicing for code that turns caller-supplied sizes into offsets.
package buf

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

var (
	// ErrOverflow indicates that a size computation does not fit in an int.
	ErrOverflow = errors.New("buf: size overflow")

	// ErrBounds indicates a range that runs past the end of a buffer.
	ErrBounds = errors.New("buf: out of bounds")
)

// AddOverflowSafe adds two non-negative sizes, returning ok = false when
// either is negative or the sum would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe multiplies two non-negative sizes, returning ok = false
// when either is negative or the product would overflow int. This is the
// count * elemSize check for zeroed array allocations.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// CheckSpan validates that n bytes starting at off fit in a buffer of bufLen
// bytes and returns the end offset.
//
//	end, err := buf.CheckSpan(len(data), off, size)
//	if err != nil {
//	    return fmt.Errorf("payload: %w", err)
//	}
func CheckSpan(bufLen, off, n int) (int, error) {
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, fmt.Errorf("%w: offset=%d + size=%d", ErrOverflow, off, n)
	}
	if end > bufLen {
		return 0, fmt.Errorf("%w: end=%d > len=%d", ErrBounds, end, bufLen)
	}
	return end, nil
}

// Slice returns b[off:off+n] with its capacity clipped to n, or false when
// the range does not fit.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, err := CheckSpan(len(b), off, n)
	if err != nil {
		return nil, false
	}
	return b[off:end:end], true
}
