package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
)

var (
	// ErrContent indicates a payload that did not hold the bytes written to it.
	ErrContent = errors.New("trace: payload mismatch")

	// ErrUnknownID indicates a free of an id that was never allocated.
	ErrUnknownID = errors.New("trace: unknown id")

	// ErrLiveID indicates an allocation into an id that is still live.
	ErrLiveID = errors.New("trace: id already live")
)

// ReplayOptions configures Replay.
type ReplayOptions struct {
	// Check runs verify.Chain after every operation.
	Check bool

	// Logger receives a record per failed or rejected operation.
	// Default: discard
	Logger *slog.Logger
}

// Result summarises a replay.
type Result struct {
	Ops         int `json:"ops"`
	Allocs      int `json:"allocs"`
	Callocs     int `json:"callocs"`
	Reallocs    int `json:"reallocs"`
	Frees       int `json:"frees"`
	NoSpace     int `json:"no_space"`     // operations that failed on an exhausted region
	DoubleFrees int `json:"double_frees"` // frees of ids that were already freed
	Live        int `json:"live"`         // ids still allocated at the end
	PeakLive    int `json:"peak_live"`
}

type replayer struct {
	a     *alloc.Allocator
	opts  ReplayOptions
	log   *slog.Logger
	live  map[int]alloc.Ptr
	freed map[int]alloc.Ptr
	res   Result
}

// Replay runs ops against a. Each payload is filled with a pattern derived
// from its id and checked on free and resize; zero-allocated payloads are
// checked for zeroes. Region exhaustion is counted, not fatal.
func Replay(a *alloc.Allocator, ops []Op, opts ReplayOptions) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rp := &replayer{
		a:     a,
		opts:  opts,
		log:   log,
		live:  make(map[int]alloc.Ptr),
		freed: make(map[int]alloc.Ptr),
	}
	for _, op := range ops {
		if err := rp.step(op); err != nil {
			return rp.res, fmt.Errorf("line %d (%s): %w", op.Line, op, err)
		}
		rp.res.Ops++
		rp.res.PeakLive = max(rp.res.PeakLive, len(rp.live))
		if opts.Check {
			if err := verify.Chain(a.Region().Bytes()); err != nil {
				return rp.res, fmt.Errorf("line %d (%s): %w", op.Line, op, err)
			}
		}
	}
	rp.res.Live = len(rp.live)
	return rp.res, nil
}

func (rp *replayer) step(op Op) error {
	switch op.Kind {
	case OpAlloc:
		rp.res.Allocs++
		return rp.alloc(op, func() (alloc.Ptr, error) { return rp.a.Alloc(op.Size) })
	case OpCalloc:
		rp.res.Callocs++
		return rp.alloc(op, func() (alloc.Ptr, error) { return rp.a.Calloc(op.Count, op.Size) })
	case OpRealloc:
		rp.res.Reallocs++
		return rp.realloc(op)
	case OpFree:
		rp.res.Frees++
		return rp.free(op)
	}
	return fmt.Errorf("%w: op %s", ErrSyntax, op.Kind)
}

func (rp *replayer) alloc(op Op, fn func() (alloc.Ptr, error)) error {
	if _, ok := rp.live[op.ID]; ok {
		return fmt.Errorf("%w: %d", ErrLiveID, op.ID)
	}
	p, err := fn()
	if err != nil {
		return rp.failed(op, err)
	}
	if op.Kind == OpCalloc {
		for i, b := range rp.a.Bytes(p) {
			if b != 0 {
				return fmt.Errorf("%w: calloc byte %d not zero", ErrContent, i)
			}
		}
	}
	rp.fill(op.ID, p)
	rp.live[op.ID] = p
	delete(rp.freed, op.ID)
	return nil
}

func (rp *replayer) realloc(op Op) error {
	old, ok := rp.live[op.ID]
	if !ok {
		old = alloc.Nil
	}
	if err := rp.check(op.ID, old); err != nil {
		return err
	}

	// Snapshot what must survive the move.
	keep := min(rp.a.Cap(old), op.Size)
	snap := mcache.Malloc(keep)
	defer mcache.Free(snap)
	copy(snap, rp.a.Bytes(old))

	p, err := rp.a.Realloc(old, op.Size)
	if err != nil {
		return rp.failed(op, err)
	}
	if op.Size == 0 {
		delete(rp.live, op.ID)
		if old != alloc.Nil {
			rp.freed[op.ID] = old
		}
		return nil
	}
	if got := rp.a.Bytes(p)[:keep]; !bytes.Equal(got, snap) {
		return fmt.Errorf("%w: realloc of id %d lost contents", ErrContent, op.ID)
	}
	rp.fill(op.ID, p)
	rp.live[op.ID] = p
	delete(rp.freed, op.ID)
	return nil
}

func (rp *replayer) free(op Op) error {
	p, ok := rp.live[op.ID]
	if !ok {
		old, wasFreed := rp.freed[op.ID]
		if !wasFreed {
			return fmt.Errorf("%w: %d", ErrUnknownID, op.ID)
		}
		rp.res.DoubleFrees++
		rp.log.Warn("double free in trace", "line", op.Line, "id", op.ID)
		// Only hand the stale pointer back when it still names a free block;
		// anything else would be a wild free.
		if rp.isFreeBlock(old) {
			if err := rp.a.Free(old); !errors.Is(err, alloc.ErrDoubleFree) {
				return fmt.Errorf("double free of id %d not rejected: %w", op.ID, err)
			}
		}
		return nil
	}

	if err := rp.check(op.ID, p); err != nil {
		return err
	}
	if err := rp.a.Free(p); err != nil {
		return err
	}
	delete(rp.live, op.ID)
	rp.freed[op.ID] = p
	return nil
}

// failed absorbs exhaustion and passes every other error through.
func (rp *replayer) failed(op Op, err error) error {
	if errors.Is(err, alloc.ErrNoSpace) {
		rp.res.NoSpace++
		rp.log.Warn("allocation failed", "line", op.Line, "op", op.Kind.String(), "id", op.ID, "error", err)
		return nil
	}
	return err
}

func (rp *replayer) isFreeBlock(p alloc.Ptr) bool {
	if p == alloc.Nil {
		return false
	}
	for _, b := range rp.a.Blocks() {
		if b.Payload() == p {
			return b.Free
		}
	}
	return false
}

// pattern is the fill byte for id; never zero so calloc checks stay meaningful.
func pattern(id int) byte {
	return byte(id%251) + 1
}

func (rp *replayer) fill(id int, p alloc.Ptr) {
	buf := rp.a.Bytes(p)
	v := pattern(id)
	for i := range buf {
		buf[i] = v
	}
}

// check verifies that p still holds the fill pattern of id.
func (rp *replayer) check(id int, p alloc.Ptr) error {
	buf := rp.a.Bytes(p)
	if len(buf) == 0 {
		return nil
	}
	want := mcache.Malloc(len(buf))
	defer mcache.Free(want)
	v := pattern(id)
	for i := range want {
		want[i] = v
	}
	if !bytes.Equal(buf, want) {
		return fmt.Errorf("%w: id %d clobbered", ErrContent, id)
	}
	return nil
}
