package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempImage returns a fresh heap image path inside t.TempDir().
func TempImage(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "heap.img")
}

// WriteTrace writes body as a trace file in t.TempDir() and returns its path.
func WriteTrace(t testing.TB, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("Failed to write trace: %v", err)
	}
	return path
}
