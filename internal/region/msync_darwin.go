//go:build darwin

package region

import "golang.org/x/sys/unix"

// msyncRange flushes the whole mapping. On macOS msync must be given the
// address returned by mmap, so sub-slices are not accepted; the kernel only
// writes pages that are actually dirty.
func msyncRange(data []byte, _, _ int) error {
	return unix.Msync(data, unix.MS_SYNC)
}
