// Package inspect gives a local pre-flight summary of a log file before it
// is sent to the analysis service.
package inspect

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yildizm/go-logparser"

	"github.com/yildizm/LogTrack/internal/upload"
)

const (
	// DefaultMaxExcerpts caps how many error lines a report keeps
	DefaultMaxExcerpts = 5

	maxExcerptLength = 160
)

// Excerpt is one notable log line
type Excerpt struct {
	Line      int       `json:"line"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Message   string    `json:"message"`
}

// Report summarizes a log file
type Report struct {
	Name      string         `json:"name"`
	Size      int64          `json:"size"`
	Lines     int            `json:"lines"`
	Entries   int            `json:"entries"`
	Levels    map[string]int `json:"levels"`
	FirstSeen time.Time      `json:"first_seen,omitempty"`
	LastSeen  time.Time      `json:"last_seen,omitempty"`
	Errors    []Excerpt      `json:"errors,omitempty"`
}

// Count returns how many entries were seen at level
func (r *Report) Count(level Level) int {
	return r.Levels[level.String()]
}

// Problems returns the number of ERROR and FATAL entries
func (r *Report) Problems() int {
	return r.Count(LevelError) + r.Count(LevelFatal)
}

// Span returns the time between the first and last timestamped entries
func (r *Report) Span() time.Duration {
	if r.FirstSeen.IsZero() || r.LastSeen.IsZero() {
		return 0
	}
	return r.LastSeen.Sub(r.FirstSeen)
}

// Options tune a scan
type Options struct {
	MaxExcerpts int
}

// File validates path the same way submission does, then scans it. Files
// that would be rejected on upload are never parsed.
func File(path string, opts Options) (*Report, error) {
	f, err := upload.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := upload.Validate(f); err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	report, err := Scan(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", f.Name, err)
	}
	report.Name = f.Name
	report.Size = f.Size
	return report, nil
}

// Scan parses r with format auto-detection and builds a report
func Scan(r io.Reader, opts Options) (*Report, error) {
	if opts.MaxExcerpts <= 0 {
		opts.MaxExcerpts = DefaultMaxExcerpts
	}

	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	report := &Report{
		Lines:  len(lines),
		Levels: make(map[string]int, len(Levels)),
	}
	if len(lines) == 0 {
		return report, nil
	}

	p := logparser.New()
	entries, err := p.ParseString(strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse logs: %w", err)
	}

	for i, entry := range entries {
		report.add(i+1, entry, opts.MaxExcerpts)
	}
	return report, nil
}

func (r *Report) add(line int, entry logparser.LogEntry, maxExcerpts int) {
	r.Entries++

	level := ParseLevel(entry.Level)
	r.Levels[level.String()]++

	if ts := entry.Timestamp; !ts.IsZero() {
		if r.FirstSeen.IsZero() || ts.Before(r.FirstSeen) {
			r.FirstSeen = ts
		}
		if ts.After(r.LastSeen) {
			r.LastSeen = ts
		}
	}

	if level >= LevelError && len(r.Errors) < maxExcerpts {
		r.Errors = append(r.Errors, Excerpt{
			Line:      line,
			Level:     level.String(),
			Timestamp: entry.Timestamp,
			Message:   truncate(entry.Message, maxExcerptLength),
		})
	}
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	// the upload ceiling bounds any single line
	scanner.Buffer(make([]byte, 0, 64*1024), int(upload.MaxFileSize)+1)

	var lines []string
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
