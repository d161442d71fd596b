package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/region"
	"github.com/joshuapare/heapkit/internal/trace"
)

const defaultLimit = 64 << 20

var (
	replayFit     string
	replayBackend string
	replayFile    string
	replayLimit   int
	replayCheck   bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().StringVar(&replayFit, "fit", "first", "Fit policy: first, best, worst or next")
	cmd.Flags().StringVar(&replayBackend, "backend", "mem", "Region backend: mem, anon or file")
	cmd.Flags().StringVar(&replayFile, "file", "", "Heap image path for the file backend")
	cmd.Flags().IntVar(&replayLimit, "limit", defaultLimit, "Region size limit in bytes")
	cmd.Flags().BoolVar(&replayCheck, "check", false, "Verify the block chain after every operation")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command runs an allocation trace against a fresh heap and
prints the replay result and the allocator statistics.

Trace lines:
  a <id> <size>           allocate
  c <id> <count> <size>   zero-allocate
  r <id> <size>           resize
  f <id>                  free

Example:
  heapctl replay workload.trace
  heapctl replay workload.trace --fit best --check
  heapctl replay workload.trace --backend file --file heap.img
  heapctl replay workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// ReplayReport is the JSON form of a replay.
type ReplayReport struct {
	Trace   string       `json:"trace"`
	Fit     string       `json:"fit"`
	Backend string       `json:"backend"`
	Result  trace.Result `json:"result"`
	Stats   alloc.Stats  `json:"stats"`
}

func runReplay(args []string) error {
	tracePath := args[0]

	fit, err := alloc.ParseFit(replayFit)
	if err != nil {
		return err
	}

	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	ops, err := trace.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", tracePath, err)
	}
	printVerbose("Parsed %d operations from %s\n", len(ops), tracePath)

	r, err := openRegion(replayBackend, replayFile, replayLimit)
	if err != nil {
		return err
	}
	defer r.Close()

	logger := newLogger()
	opts := &alloc.Options{Fit: fit, Logger: logger}
	var dt *dirty.Tracker
	syncer, persistent := r.(region.Syncer)
	if persistent {
		dt = dirty.NewTracker()
		opts.Dirty = dt
	}

	// A file image may already hold a heap from an earlier run.
	a, err := alloc.Open(r, opts)
	if err != nil {
		return fmt.Errorf("failed to attach heap: %w", err)
	}

	res, err := trace.Replay(a, ops, trace.ReplayOptions{Check: replayCheck, Logger: logger})
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	if persistent {
		printVerbose("Flushing %d dirty ranges\n", len(dt.Ranges()))
		if err := dt.Flush(context.Background(), syncer); err != nil {
			return fmt.Errorf("failed to flush heap image: %w", err)
		}
	}

	if jsonOut {
		return printJSON(ReplayReport{
			Trace:   tracePath,
			Fit:     fit.String(),
			Backend: replayBackend,
			Result:  res,
			Stats:   a.Stats(),
		})
	}

	printInfo("Replayed %d operations (%s fit, %s region)\n", res.Ops, fit, replayBackend)
	printInfo("  allocs: %d  callocs: %d  reallocs: %d  frees: %d\n",
		res.Allocs, res.Callocs, res.Reallocs, res.Frees)
	printInfo("  out of space: %d  double frees: %d\n", res.NoSpace, res.DoubleFrees)
	printInfo("  live at end: %d  peak live: %d\n", res.Live, res.PeakLive)
	return a.Stats().WriteReport(infoWriter())
}

// openRegion opens the region backend named by the --backend flag.
func openRegion(backend, path string, limit int) (region.Region, error) {
	switch backend {
	case "mem":
		return region.NewMemory(limit)
	case "anon":
		return region.NewAnon(limit)
	case "file":
		if path == "" {
			return nil, errors.New("the file backend needs --file")
		}
		return region.OpenFile(path, limit)
	}
	return nil, fmt.Errorf("unknown backend %q (want mem, anon or file)", backend)
}
