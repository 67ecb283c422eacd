package formatter

import (
	"strings"
	"testing"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/upload"
)

func intPtr(n int) *int { return &n }

func mustTimestamp(t *testing.T, s string) upload.Timestamp {
	t.Helper()
	ts, err := upload.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q) error = %v", s, err)
	}
	return ts
}

func sampleRecords(t *testing.T) []upload.Record {
	return []upload.Record{
		{
			ID: "12", Filename: "payments.log", FileSize: 2048,
			UploadTime: mustTimestamp(t, "2025-01-02 08:30:00"),
			Status:     upload.StatusCompleted, Severity: intPtr(4),
			Results: &upload.AnalysisResult{
				IssueType:      "Database Timeout",
				RootCause:      "Connection pool exhausted",
				SuggestedFix:   "Raise pool size\nAdd retry with backoff",
				SeverityRating: 4,
			},
		},
		{
			ID: "11", Filename: "worker.txt", FileSize: 512,
			UploadTime: mustTimestamp(t, "2025-01-01 07:00:00"),
			Status:     upload.StatusPending,
		},
		{
			ID: "10", Filename: "broken.json", FileSize: 100,
			UploadTime: mustTimestamp(t, "2025-01-01 06:00:00"),
			Status:     upload.StatusFailed, Severity: intPtr(0),
			Results: &upload.AnalysisResult{IssueType: "Analysis Failed"},
		},
	}
}

func TestTerminalFormatList(t *testing.T) {
	f := NewTerminal(Options{})
	out, err := f.FormatList(sampleRecords(t))
	if err != nil {
		t.Fatalf("FormatList() error = %v", err)
	}
	text := string(out)

	for _, want := range []string{"Upload History", "payments.log", "2.00 KB", "0.50 KB", "2025-01-02 08:30:00", "4/5", "completed", "pending", "failed"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	// service order is kept: newest first as returned
	if strings.Index(text, "payments.log") > strings.Index(text, "worker.txt") ||
		strings.Index(text, "worker.txt") > strings.Index(text, "broken.json") {
		t.Error("records were reordered")
	}

	// failed analyses carry severity 0 and render as "-"
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "broken.json") && !strings.HasSuffix(strings.TrimSpace(line), "-") {
			t.Errorf("expected '-' severity for failed row, got %q", line)
		}
	}
}

func TestTerminalFormatListEmpty(t *testing.T) {
	out, err := NewTerminal(Options{}).FormatList(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "No uploads yet") {
		t.Errorf("unexpected empty output:\n%s", out)
	}
}

func TestTerminalFormatRecord(t *testing.T) {
	records := sampleRecords(t)
	f := NewTerminal(Options{})

	out, err := f.FormatRecord(records[0])
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	for _, want := range []string{"Analysis Results", "Database Timeout", "Connection pool exhausted", "Raise pool size", "Add retry with backoff", "4/5", "critical"} {
		if !strings.Contains(text, want) {
			t.Errorf("record output missing %q:\n%s", want, text)
		}
	}

	out, err = f.FormatRecord(records[1])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "Analyzing log file...") {
		t.Errorf("pending record should show progress:\n%s", out)
	}
}

func TestTerminalColorDisabled(t *testing.T) {
	out, err := NewTerminal(Options{Color: false}).FormatList(sampleRecords(t))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "\x1b[") {
		t.Error("no ANSI sequences expected with color disabled")
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"abc", 3, "abc"},
	}
	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestSeverityBarFallback(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	if got := emoji.Bar(0.6, 5); got != "[###--]" {
		t.Errorf("Bar() = %q", got)
	}
}
