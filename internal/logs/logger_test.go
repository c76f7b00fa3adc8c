package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestFanout(t *testing.T) {
	var term, file bytes.Buffer
	logger := New(Options{Terminal: &term, File: &file, Level: slog.LevelDebug})

	logger.Info("saved score", "wpm", 72)
	logger.Warn("settings not saved")

	if strings.Contains(term.String(), "saved score") {
		t.Fatalf("terminal must not receive info records: %q", term.String())
	}
	if !strings.Contains(term.String(), "settings not saved") {
		t.Fatalf("expected warning on terminal, got %q", term.String())
	}
	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 file records, got %d", len(lines))
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json record: %v", err)
	}
	if rec["msg"] != "saved score" || rec["wpm"] != float64(72) {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestWithTestTagsRecords(t *testing.T) {
	var file bytes.Buffer
	logger := New(Options{File: &file}).With("component", "tui")
	logger.InfoContext(WithTest(context.Background(), "abc"), "finished")

	var rec map[string]any
	if err := json.Unmarshal(file.Bytes(), &rec); err != nil {
		t.Fatalf("expected json record: %v", err)
	}
	if rec["test"] != "abc" || rec["component"] != "tui" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestWithGroupKeepsTestTag(t *testing.T) {
	var file bytes.Buffer
	logger := New(Options{File: &file}).WithGroup("score")
	logger.InfoContext(WithTest(context.Background(), "abc"), "saved", "wpm", 80)

	var rec map[string]any
	if err := json.Unmarshal(file.Bytes(), &rec); err != nil {
		t.Fatalf("expected json record: %v", err)
	}
	group, ok := rec["score"].(map[string]any)
	if !ok || group["test"] != "abc" || group["wpm"] != float64(80) {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	if level, err := ParseLevel("debug"); err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug, got %v %v", level, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestOpenFileCreatesDir(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "a", "b", "app.log"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
