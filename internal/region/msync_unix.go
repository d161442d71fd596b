//go:build unix && !darwin

package region

import "golang.org/x/sys/unix"

// msyncRange flushes data[start:end]. start must be page aligned.
func msyncRange(data []byte, start, end int) error {
	return unix.Msync(data[start:end], unix.MS_SYNC)
}
