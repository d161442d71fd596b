package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Fit         string // "first", "best", "worst", "next" or "" when not split by policy
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// baselineFit is the policy every other policy is compared against.
const baselineFit = "first"

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

// benchmarkRegex matches lines such as
// BenchmarkAllocFree/best-8    500000    2450 ns/op    0 B/op    0 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	results := parseBenchmarks(bufio.NewScanner(in))
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	report := generateMarkdownReport(results, time.Now())

	if *outputFile == "" {
		fmt.Fprint(os.Stdout, report)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		r := BenchmarkResult{Name: matches[1]}
		r.Iterations, _ = strconv.Atoi(matches[2])
		r.NsPerOp, _ = strconv.ParseFloat(matches[3], 64)
		if matches[4] != "" {
			r.BytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			r.AllocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}
		r.Operation, r.Fit = splitName(r.Name)
		results = append(results, r)
	}

	return results
}

// splitName turns Benchmark<Operation>[/<fit>]-<procs> into its parts.
func splitName(name string) (operation, fit string) {
	name = strings.TrimPrefix(name, "Benchmark")
	if i := strings.LastIndex(name, "-"); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			name = name[:i]
		}
	}
	operation, fit, _ = strings.Cut(name, "/")
	return operation, fit
}

func generateMarkdownReport(results []BenchmarkResult, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format("2006-01-02 15:04:05")))

	// Baseline per operation
	base := make(map[string]BenchmarkResult)
	for _, r := range results {
		if r.Fit == baselineFit {
			base[r.Operation] = r
		}
	}

	sorted := append([]BenchmarkResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Operation != sorted[j].Operation {
			return sorted[i].Operation < sorted[j].Operation
		}
		return sorted[i].Fit < sorted[j].Fit
	})

	sb.WriteString("## Results\n\n")
	sb.WriteString("| Operation | Fit | ns/op | vs first fit | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|-----|-------|--------------|---------------|--------|\n")
	for _, r := range sorted {
		fit := r.Fit
		if fit == "" {
			fit = "-"
		}
		rel := "*N/A*"
		if b, ok := base[r.Operation]; ok && r.Fit != "" && r.NsPerOp > 0 {
			rel = fmt.Sprintf("%.2fx", b.NsPerOp/r.NsPerOp)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d |\n",
			r.Operation, fit, formatNumber(r.NsPerOp), rel, formatBytes(r.BytesPerOp), r.AllocsPerOp))
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatNumber(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.2fs", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fms", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.2fµs", n/1e3)
	default:
		return fmt.Sprintf("%.0fns", n)
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
