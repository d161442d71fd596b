package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitDisabled(t *testing.T) {
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if L.Enabled(t.Context(), slog.LevelError) {
		t.Error("disabled logger reports enabled")
	}
}

func TestInitWritesFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = Init(Options{}) })

	Debug("hello", "k", 1)

	name := filepath.Join(dir, logPrefix+time.Now().Format(time.DateOnly)+logSuffix)
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	files := map[string]bool{
		logPrefix + "2025-01-01" + logSuffix: false,
		logPrefix + "2025-03-30" + logSuffix: true,
		logPrefix + "garbage" + logSuffix:    true,
		"other-2025-01-01.log":               true,
	}
	for name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pruneLogs(dir, now)

	for name, keep := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if keep && err != nil {
			t.Errorf("%s removed", name)
		}
		if !keep && err == nil {
			t.Errorf("%s kept", name)
		}
	}
}
