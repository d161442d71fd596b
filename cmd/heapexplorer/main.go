package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/heapkit/cmd/heapexplorer/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]
	debugMode := false

	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			rest = append(rest, arg)
		}
	}

	if err := logger.Init(logger.Options{Enabled: debugMode, Level: slog.LevelDebug}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(rest) < 1 {
		printUsage()
		os.Exit(1)
	}
	switch rest[0] {
	case "--help", "-h":
		printHelp()
		os.Exit(0)
	case "--version", "-v":
		fmt.Printf("heapexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	path := rest[0]
	logger.Info("starting heapexplorer", "path", path, "debug", debugMode)

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: heap image not found: %s\n", path)
		os.Exit(1)
	}

	p := tea.NewProgram(NewModel(path), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	logger.Info("heapexplorer exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: heapexplorer [options] <heap-image>\n")
	fmt.Fprintf(os.Stderr, "Try 'heapexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("heapexplorer - Interactive TUI for heap images")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  heapexplorer [options] <heap-image>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Browses the block chain of a heap image written by the file region,")
	fmt.Println("  e.g. by 'heapctl replay --backend file'.")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Move between blocks")
	fmt.Println("    n / N       Jump to next / previous free block")
	fmt.Println("    Enter       Show header and payload hex dump")
	fmt.Println("    y           Copy the payload pointer")
	fmt.Println("    r           Reload the image")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.heapexplorer/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("For non-interactive inspection, use 'heapctl inspect'.")
}
