package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/LogTrack/internal/inspect"
	"github.com/yildizm/LogTrack/internal/upload"
)

// csvFormatter formats uploads as CSV rows
type csvFormatter struct {
	layout string
}

// NewCSV creates a new CSV formatter
func NewCSV(o Options) Formatter {
	layout := o.TimestampFormat
	if layout == "" {
		layout = defaultTimestampFormat
	}
	return &csvFormatter{layout: layout}
}

var csvHeaders = []string{
	"ID",
	"Filename",
	"Upload Time",
	"File Size",
	"Status",
	"Severity",
	"Issue Type",
	"Root Cause",
	"Suggested Fix",
}

func (f *csvFormatter) FormatList(records []upload.Record) ([]byte, error) {
	return f.write(records)
}

func (f *csvFormatter) FormatRecord(r upload.Record) ([]byte, error) {
	return f.write([]upload.Record{r})
}

func (f *csvFormatter) write(records []upload.Record) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i := range records {
		if err := writer.Write(f.row(&records[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

func (f *csvFormatter) row(r *upload.Record) []string {
	severity := ""
	if rating := r.SeverityRating(); rating > 0 {
		severity = strconv.Itoa(rating)
	}

	var issue, cause, fix string
	if r.Results != nil {
		issue = escapeCSVString(r.Results.IssueType)
		cause = escapeCSVString(r.Results.RootCause)
		fix = escapeCSVString(r.Results.SuggestedFix)
	}

	return []string{
		r.ID.String(),
		r.Filename,
		formatCSVTime(r.UploadTime, f.layout),
		strconv.FormatInt(r.FileSize, 10),
		string(r.Status),
		severity,
		issue,
		cause,
		fix,
	}
}

// FormatReport writes one row per level plus the error excerpts
func (f *csvFormatter) FormatReport(report *inspect.Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	rows := [][]string{{"Kind", "Key", "Value"}}
	rows = append(rows,
		[]string{"file", "name", report.Name},
		[]string{"file", "size", strconv.FormatInt(report.Size, 10)},
		[]string{"file", "lines", strconv.Itoa(report.Lines)},
		[]string{"file", "entries", strconv.Itoa(report.Entries)},
	)
	for _, level := range inspect.Levels {
		rows = append(rows, []string{"level", level.String(), strconv.Itoa(report.Count(level))})
	}
	for _, e := range report.Errors {
		rows = append(rows, []string{"error", strconv.Itoa(e.Line), escapeCSVString(e.Message)})
	}

	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV report: %w", err)
	}
	return b.Bytes(), nil
}

// formatCSVTime formats time for CSV output
func formatCSVTime(ts upload.Timestamp, layout string) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time.Format(layout)
}

// escapeCSVString flattens newlines so each record stays on one line
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
