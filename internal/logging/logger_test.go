package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledModeWritesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(Settings{DebugMode: false, Dir: dir}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	Pipeline("should not appear")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no log files, got %d", len(entries))
	}
}

func TestCategoryFileWritten(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(Settings{DebugMode: true, Dir: dir, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	Verify("overflow on slot %s", "body")
	CloseAll()

	data, err := os.ReadFile(filepath.Join(dir, "verify.log"))
	if err != nil {
		t.Fatalf("read verify.log: %v", err)
	}
	if !strings.Contains(string(data), "overflow on slot body") {
		t.Fatalf("log line missing, got: %s", data)
	}
}

func TestCategoryToggle(t *testing.T) {
	dir := t.TempDir()
	err := Initialize(Settings{
		DebugMode:  true,
		Dir:        dir,
		Level:      "debug",
		Categories: map[string]bool{"layout": false},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	if IsCategoryEnabled(CategoryLayout) {
		t.Fatalf("layout should be disabled")
	}
	if !IsCategoryEnabled(CategoryVerify) {
		t.Fatalf("unlisted category should default to enabled")
	}
}

func TestLevelFilter(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(Settings{DebugMode: true, Dir: dir, Level: "warn"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	l := Get(CategoryAPI)
	l.Info("filtered out")
	l.Warn("kept")
	CloseAll()

	data, err := os.ReadFile(filepath.Join(dir, "api.log"))
	if err != nil {
		t.Fatalf("read api.log: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "filtered out") {
		t.Fatalf("info line should be filtered at warn level: %s", s)
	}
	if !strings.Contains(s, "kept") {
		t.Fatalf("warn line missing: %s", s)
	}
}
