package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is the service-assigned identifier of an upload. The service currently
// encodes it as a JSON number, but clients only ever compare and echo it back.
type ID string

// UnmarshalJSON accepts both numeric and string identifiers
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid upload id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid upload id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Status is the analysis lifecycle state reported by the service.
// The set is open: anything not terminal is treated as still in progress.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusDuplicate Status = "duplicate"
)

// Terminal reports whether analysis has finished, successfully or not
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// InProgress reports whether the upload should be displayed as still running
func (s Status) InProgress() bool {
	return !s.Terminal()
}

// Record is the client-side projection of one uploaded log file
type Record struct {
	ID         ID              `json:"id"`
	Filename   string          `json:"filename"`
	FileSize   int64           `json:"file_size"`
	UploadTime Timestamp       `json:"upload_time"`
	Status     Status          `json:"status"`
	Severity   *int            `json:"severity,omitempty"`
	Results    *AnalysisResult `json:"results,omitempty"`
}

// SeverityRating returns the record severity, falling back to the rating
// inside the analysis results. Zero means no rating is available.
func (r *Record) SeverityRating() int {
	if r.Severity != nil {
		return *r.Severity
	}
	if r.Results != nil {
		return r.Results.SeverityRating
	}
	return 0
}

// SizeKB renders the file size the way the dashboard shows it
func (r *Record) SizeKB() string {
	return strconv.FormatFloat(float64(r.FileSize)/1024, 'f', 2, 64) + " KB"
}

// AnalysisResult is the outcome of analyzing one log
type AnalysisResult struct {
	IssueType      string    `json:"issue_type"`
	RootCause      string    `json:"root_cause"`
	SuggestedFix   string    `json:"suggested_fix"`
	SeverityRating int       `json:"severity_rating"`
	Timestamp      Timestamp `json:"timestamp"`
}

// SubmitResult is the service response to a successful upload
type SubmitResult struct {
	UploadID  ID     `json:"upload_id"`
	Filename  string `json:"filename"`
	Status    Status `json:"status"`
	Duplicate bool   `json:"is_duplicate"`
	Message   string `json:"message"`
}

// Notice is the confirmation shown once the service accepts a file
func (r *SubmitResult) Notice() string {
	if r == nil {
		return "Log uploaded and analysis started"
	}
	text := fmt.Sprintf("Log uploaded and analysis started (ID: %s)", r.UploadID)
	if r.Duplicate {
		text += " - matches an earlier upload"
	}
	return text
}

// timestampLayouts lists the formats the service has been seen to emit.
// SQLite CURRENT_TIMESTAMP values carry no zone and are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp decodes the loosely formatted times returned by the service
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses a service timestamp
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Format renders the timestamp, or "N/A" when absent
func (t Timestamp) Format(layout string) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format(layout)
}
