package main

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Set by -ldflags at release time; build info fills them in otherwise.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const libraryPath = "github.com/joshuapare/heapkit"

// VersionInfo is the JSON form of the version command.
type VersionInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	Built     string   `json:"built"`
	GoVersion string   `json:"go_version"`
	Library   string   `json:"library"`
	Fits      []string `json:"fits"`
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version, build and allocator information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	})
}

func runVersion() error {
	info := versionInfo(debug.ReadBuildInfo())
	if jsonOut {
		return printJSON(info)
	}
	printInfo("heapctl %s\n", info.Version)
	printInfo("  commit:  %s\n", info.Commit)
	printInfo("  built:   %s\n", info.Built)
	printInfo("  go:      %s\n", info.GoVersion)
	printInfo("  heapkit: %s\n", info.Library)
	printInfo("  fits:    %s\n", strings.Join(info.Fits, ", "))
	return nil
}

// versionInfo merges the ldflags values with what the toolchain recorded.
func versionInfo(bi *debug.BuildInfo, ok bool) VersionInfo {
	v := VersionInfo{
		Version:   version,
		Commit:    commit,
		Built:     date,
		GoVersion: runtime.Version(),
		Library:   "(devel)",
	}
	for f := alloc.FitFirst; f <= alloc.FitNext; f++ {
		v.Fits = append(v.Fits, f.String())
	}
	if !ok {
		return v
	}

	if v.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v.Version = bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path != libraryPath {
			continue
		}
		switch {
		case dep.Replace != nil:
			v.Library = "replaced by " + dep.Replace.Path
		case dep.Version != "":
			v.Library = dep.Version
		}
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && v.Commit == "none":
			v.Commit = s.Value
		case s.Key == "vcs.time" && v.Built == "unknown":
			v.Built = s.Value
		}
	}
	return v
}
