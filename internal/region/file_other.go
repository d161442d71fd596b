//go:build !unix

package region

import (
	"errors"
	"fmt"
	"os"
)

// File is a Region backed by a regular file. Without mmap the contents are
// held in memory and written back on SyncRange, Sync and Close.
type File struct {
	f   *os.File
	mem *Memory
}

// OpenFile reads the file at path, creating it empty if it does not exist.
func OpenFile(path string, limit int) (*File, error) {
	mem, err := NewMemory(limit)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if len(data) > limit {
		_ = f.Close()
		return nil, fmt.Errorf("region: %s is %d bytes, limit %d: %w", path, len(data), limit, ErrExhausted)
	}
	if _, err := mem.Extend(len(data)); err != nil {
		_ = f.Close()
		return nil, err
	}
	copy(mem.Bytes(), data)
	return &File{f: f, mem: mem}, nil
}

func (r *File) Bytes() []byte { return r.mem.Bytes() }

func (r *File) Len() int { return r.mem.Len() }

func (r *File) Extend(n int) (int, error) {
	if r.f == nil {
		return 0, ErrClosed
	}
	return r.mem.Extend(n)
}

func (r *File) SyncRange(off, n int) error {
	if r.f == nil {
		return ErrClosed
	}
	data := r.mem.Bytes()
	end := min(off+n, len(data))
	if off < 0 || off >= end {
		return nil
	}
	_, err := r.f.WriteAt(data[off:end], int64(off))
	return err
}

func (r *File) Sync() error {
	if err := r.SyncRange(0, r.mem.Len()); err != nil {
		return err
	}
	return r.f.Sync()
}

func (r *File) Close() error {
	if r.f == nil {
		return nil
	}
	err := errors.Join(r.Sync(), r.f.Close(), r.mem.Close())
	r.f = nil
	return err
}

var _ Syncer = (*File)(nil)
