package region

import (
	"fmt"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// minMemoryCap is the smallest backing buffer a Memory region allocates.
const minMemoryCap = 4096

// Memory is a Region backed by an ordinary Go byte slice.
type Memory struct {
	data   []byte
	limit  int
	closed bool
}

// NewMemory returns an empty in-process region that refuses to grow past
// limit bytes.
func NewMemory(limit int) (*Memory, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("region: memory limit %d: %w", limit, ErrBadLength)
	}
	return &Memory{limit: limit}, nil
}

func (m *Memory) Bytes() []byte { return m.data }

func (m *Memory) Len() int { return len(m.data) }

// Extend appends n zero bytes. When the backing buffer is full it is
// replaced by one of twice the capacity (capped at the limit), so slices
// returned by earlier Bytes calls go stale.
func (m *Memory) Extend(n int) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	old := len(m.data)
	if err := checkExtend(old, n, m.limit); err != nil {
		return 0, fmt.Errorf("region: extend memory by %d at %d: %w", n, old, err)
	}
	newLen := old + n
	if newLen > cap(m.data) {
		newCap := max(2*cap(m.data), newLen, minMemoryCap)
		newCap = min(newCap, m.limit)
		// Everything past old is cleared below, so skip zeroing here.
		buf := dirtmake.Bytes(newLen, newCap)
		copy(buf, m.data)
		m.data = buf
	} else {
		m.data = m.data[:newLen]
	}
	clear(m.data[old:newLen])
	return old, nil
}

func (m *Memory) Close() error {
	m.data = nil
	m.closed = true
	return nil
}
