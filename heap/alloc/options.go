package alloc

import (
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
)

// logEnvVar enables debug logging to stderr when no Logger is configured.
const logEnvVar = "HEAPKIT_LOG_ALLOC"

// defaultMaxAlloc is the largest request representable in a block header.
const defaultMaxAlloc = (format.MaxRegionSize - format.HeaderSize) &^ format.AlignmentMask

// Options configures an Allocator.
type Options struct {
	// Fit is the block-selection policy, fixed for the allocator's lifetime.
	// Default: FitFirst
	Fit Fit

	// Logger receives debug records for growth, splits, coalescing and
	// rejected frees.
	// Default: discard, or stderr at debug level when HEAPKIT_LOG_ALLOC is set.
	Logger *slog.Logger

	// Dirty is told about every byte range the allocator writes.
	// Default: nil (no tracking)
	Dirty DirtyTracker

	// MaxAlloc caps a single request in bytes. Zero means the largest size a
	// header can describe.
	MaxAlloc int
}

// DefaultOptions returns first-fit options with no dirty tracking.
func DefaultOptions() *Options {
	return &Options{Fit: FitFirst}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if os.Getenv(logEnvVar) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o *Options) maxAlloc() uint64 {
	if o.MaxAlloc <= 0 || int64(o.MaxAlloc) > defaultMaxAlloc {
		return uint64(defaultMaxAlloc)
	}
	return uint64(o.MaxAlloc)
}
