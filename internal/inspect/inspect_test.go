package inspect

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/go-logparser"

	"github.com/yildizm/LogTrack/internal/upload"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"TRACE", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"something", LevelInfo},
		{"Warning", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{" critical ", LevelFatal},
		{"panic", LevelFatal},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReportAdd(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	r := &Report{Levels: map[string]int{}}

	entries := []logparser.LogEntry{
		{Timestamp: base.Add(time.Minute), Level: "INFO", Message: "service started"},
		{Timestamp: base, Level: "ERROR", Message: "connection refused"},
		{Level: "WARN", Message: "slow query"},
		{Timestamp: base.Add(5 * time.Minute), Level: "FATAL", Message: strings.Repeat("x", 400)},
		{Timestamp: base.Add(2 * time.Minute), Level: "ERROR", Message: "third problem"},
	}
	for i, e := range entries {
		r.add(i+1, e, 2)
	}

	if r.Entries != 5 {
		t.Errorf("Entries = %d", r.Entries)
	}
	if r.Count(LevelError) != 2 || r.Count(LevelFatal) != 1 || r.Count(LevelWarn) != 1 || r.Count(LevelInfo) != 1 {
		t.Errorf("Levels = %v", r.Levels)
	}
	if r.Problems() != 3 {
		t.Errorf("Problems() = %d", r.Problems())
	}
	if !r.FirstSeen.Equal(base) || !r.LastSeen.Equal(base.Add(5*time.Minute)) {
		t.Errorf("time range = %v .. %v", r.FirstSeen, r.LastSeen)
	}
	if r.Span() != 5*time.Minute {
		t.Errorf("Span() = %v", r.Span())
	}

	if len(r.Errors) != 2 {
		t.Fatalf("expected excerpts capped at 2, got %d", len(r.Errors))
	}
	if r.Errors[0].Line != 2 || r.Errors[0].Message != "connection refused" {
		t.Errorf("first excerpt = %+v", r.Errors[0])
	}
	if len(r.Errors[1].Message) != maxExcerptLength || !strings.HasSuffix(r.Errors[1].Message, "...") {
		t.Errorf("long message not truncated: %d chars", len(r.Errors[1].Message))
	}
}

func TestScanEmpty(t *testing.T) {
	r, err := Scan(strings.NewReader("\n  \n\n"), Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if r.Lines != 0 || r.Entries != 0 || r.Span() != 0 {
		t.Errorf("unexpected report for blank input: %+v", r)
	}
}

func TestScanCountsLines(t *testing.T) {
	input := `{"timestamp":"2025-03-01T10:00:00Z","level":"info","message":"boot"}

{"timestamp":"2025-03-01T10:00:05Z","level":"error","message":"db down"}
`
	r, err := Scan(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if r.Lines != 2 {
		t.Errorf("Lines = %d, blank lines should be skipped", r.Lines)
	}
}

func TestFileRejectsInvalidUploads(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "screen.png")
	if err := os.WriteFile(png, []byte("not a log"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := File(png, Options{}); !errors.Is(err, upload.ErrInvalidType) {
		t.Errorf("File(.png) error = %v", err)
	}

	big := filepath.Join(dir, "big.log")
	if err := os.WriteFile(big, make([]byte, upload.MaxFileSize+1), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := File(big, Options{}); !errors.Is(err, upload.ErrTooLarge) {
		t.Errorf("File(6MB) error = %v", err)
	}

	if _, err := File(filepath.Join(dir, "missing.log"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileFillsMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	content := "2025-03-01 10:00:00 INFO started\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := File(path, Options{})
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if r.Name != "app.log" || r.Size != int64(len(content)) || r.Lines != 1 {
		t.Errorf("unexpected report %+v", r)
	}
}
