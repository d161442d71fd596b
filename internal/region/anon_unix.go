//go:build unix

package region

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/format"
)

// Anon is a Region backed by an anonymous private mapping. The whole limit is
// reserved at construction with PROT_NONE; Extend commits pages by making
// them readable and writable. The mapping never moves, so payload slices stay
// valid for the life of the region.
type Anon struct {
	mem       []byte // full reservation
	brk       int    // bytes handed out
	committed int    // bytes made accessible, page aligned
	pageSize  int
}

// NewAnon reserves limit bytes (rounded up to the page size) of address space.
func NewAnon(limit int) (Region, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("region: anon limit %d: %w", limit, ErrBadLength)
	}
	pageSize := unix.Getpagesize()
	limit = format.AlignUp(limit, pageSize)

	mem, err := unix.Mmap(-1, 0, limit, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("region: reserve %d bytes: %w", limit, err)
	}
	return &Anon{mem: mem, pageSize: pageSize}, nil
}

func (a *Anon) Bytes() []byte {
	if a.mem == nil {
		return nil
	}
	return a.mem[:a.brk:a.brk]
}

func (a *Anon) Len() int { return a.brk }

func (a *Anon) Extend(n int) (int, error) {
	if a.mem == nil {
		return 0, ErrClosed
	}
	old := a.brk
	if err := checkExtend(old, n, len(a.mem)); err != nil {
		return 0, fmt.Errorf("region: extend anon by %d at %d: %w", n, old, err)
	}
	newBrk := old + n
	if newBrk > a.committed {
		end := min(format.AlignUp(newBrk, a.pageSize), len(a.mem))
		if err := unix.Mprotect(a.mem[a.committed:end], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, fmt.Errorf("region: commit [%d, %d): %w", a.committed, end, err)
		}
		a.committed = end
	}
	a.brk = newBrk
	return old, nil
}

func (a *Anon) Close() error {
	if a.mem == nil {
		return nil
	}
	err := unix.Munmap(a.mem)
	a.mem = nil
	a.brk, a.committed = 0, 0
	return err
}
