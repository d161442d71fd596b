package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/heapkit/internal/testutil"
)

// replayToFile replays body into a file-backed heap and returns the image path
func replayToFile(t *testing.T, body string) string {
	t.Helper()
	resetFlags()
	quiet = true
	replayBackend = "file"
	replayFile = testutil.TempImage(t)

	args := []string{writeTrace(t, body)}
	if _, err := captureOutput(t, func() error { return runReplay(args) }); err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}
	return replayFile
}

func TestInspectCommand(t *testing.T) {
	img := replayToFile(t, "a 1 32\na 2 64\na 3 16\nf 2\n")

	resetFlags()
	output, err := captureOutput(t, func() error {
		return runInspect([]string{img})
	})
	if err != nil {
		t.Fatalf("runInspect() error = %v\nOutput: %s", err, output)
	}
	assertContains(t, output, []string{
		"3 blocks (1 free)",
		"largest free: 64 bytes",
		"0x00000000  32          used    0x00000030",
		"0x00000030  64          free",
	})
}

func TestInspectCommand_JSON(t *testing.T) {
	img := replayToFile(t, "a 1 32\na 2 64\n")

	resetFlags()
	jsonOut = true
	output, err := captureOutput(t, func() error {
		return runInspect([]string{img})
	})
	if err != nil {
		t.Fatalf("runInspect() error = %v", err)
	}
	assertJSON(t, output)

	var report InspectReport
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.Blocks != 2 || len(report.Blocks) != 2 || report.Blocks[1].Size != 64 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestInspectCommand_MaxBlocks(t *testing.T) {
	img := replayToFile(t, "a 1 8\na 2 8\na 3 8\na 4 8\n")

	resetFlags()
	inspectMaxBlocks = 2
	output, err := captureOutput(t, func() error {
		return runInspect([]string{img})
	})
	if err != nil {
		t.Fatalf("runInspect() error = %v", err)
	}
	assertContains(t, output, []string{"... 2 more"})
}

func TestInspectCommand_Errors(t *testing.T) {
	resetFlags()

	_, err := captureOutput(t, func() error {
		return runInspect([]string{filepath.Join(t.TempDir(), "missing.img")})
	})
	if err == nil {
		t.Error("expected an error for a missing image")
	}

	junk := filepath.Join(t.TempDir(), "junk.img")
	if err := os.WriteFile(junk, []byte("this is not a heap image at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = captureOutput(t, func() error {
		return runInspect([]string{junk})
	})
	if err == nil {
		t.Error("expected an error for a corrupt image")
	}
}
