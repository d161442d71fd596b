//go:build unix

package region

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a Region backed by a shared mapping of a regular file. Extend grows
// the file and remaps it, so slices from earlier Bytes calls go stale.
type File struct {
	f        *os.File
	data     []byte
	limit    int
	pageSize int
}

// OpenFile maps the file at path, creating it empty if it does not exist.
// Existing contents are kept: a heap image written by an earlier process can
// be reattached with alloc.Open.
func OpenFile(path string, limit int) (*File, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("region: file limit %d: %w", limit, ErrBadLength)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	size := st.Size()
	if size > int64(limit) {
		_ = f.Close()
		return nil, fmt.Errorf("region: %s is %d bytes, limit %d: %w", path, size, limit, ErrExhausted)
	}

	r := &File{f: f, limit: limit, pageSize: unix.Getpagesize()}
	if err := r.mapSize(int(size)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// mapSize maps the first size bytes of the file. A zero size leaves the
// region unmapped since mmap rejects empty lengths.
func (r *File) mapSize(size int) error {
	if size == 0 {
		r.data = nil
		return nil
	}
	data, err := unix.Mmap(int(r.f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("region: mmap %d bytes: %w", size, err)
	}
	r.data = data
	return nil
}

func (r *File) unmap() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	if errors.Is(err, unix.EINVAL) {
		// Double unmap is a no-op for callers.
		err = nil
	}
	r.data = nil
	return err
}

func (r *File) Bytes() []byte { return r.data }

func (r *File) Len() int { return len(r.data) }

func (r *File) Extend(n int) (int, error) {
	if r.f == nil {
		return 0, ErrClosed
	}
	old := len(r.data)
	if err := checkExtend(old, n, r.limit); err != nil {
		return 0, fmt.Errorf("region: extend file by %d at %d: %w", n, old, err)
	}
	if n == 0 {
		return old, nil
	}
	newSize := old + n

	if err := r.unmap(); err != nil {
		return 0, fmt.Errorf("region: unmap before grow: %w", err)
	}
	// Truncate extends with zeros.
	if err := unix.Ftruncate(int(r.f.Fd()), int64(newSize)); err != nil {
		// Try to restore the old mapping so the heap stays usable.
		_ = r.mapSize(old)
		return 0, fmt.Errorf("region: truncate to %d: %w", newSize, err)
	}
	if err := r.mapSize(newSize); err != nil {
		_ = unix.Ftruncate(int(r.f.Fd()), int64(old))
		_ = r.mapSize(old)
		return 0, err
	}
	return old, nil
}

// SyncRange flushes [off, off+n) of the mapping to the file.
func (r *File) SyncRange(off, n int) error {
	if r.f == nil {
		return ErrClosed
	}
	if r.data == nil || n <= 0 {
		return nil
	}
	start := (off / r.pageSize) * r.pageSize
	end := min(off+n, len(r.data))
	if start >= end {
		return nil
	}
	return msyncRange(r.data, start, end)
}

// Sync flushes the whole mapping and the file metadata.
func (r *File) Sync() error {
	if r.f == nil {
		return ErrClosed
	}
	if r.data != nil {
		if err := unix.Msync(r.data, unix.MS_SYNC); err != nil {
			return err
		}
	}
	return r.f.Sync()
}

func (r *File) Close() error {
	if r.f == nil {
		return nil
	}
	var errs []error
	if r.data != nil {
		errs = append(errs, unix.Msync(r.data, unix.MS_SYNC))
	}
	errs = append(errs, r.unmap(), r.f.Close())
	r.f = nil
	return errors.Join(errs...)
}

var _ Syncer = (*File)(nil)
