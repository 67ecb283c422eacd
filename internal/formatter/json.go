package formatter

import (
	"encoding/json"

	"github.com/yildizm/LogTrack/internal/inspect"
	"github.com/yildizm/LogTrack/internal/upload"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// ListOutput is the JSON document for an upload list
type ListOutput struct {
	Count   int            `json:"count"`
	Uploads []RecordOutput `json:"uploads"`
}

// RecordOutput is a record plus its derived display fields
type RecordOutput struct {
	upload.Record
	SizeKB         string `json:"size_kb"`
	SeverityLabel  string `json:"severity_label"`
	SeverityBucket string `json:"severity_bucket,omitempty"`
	InProgress     bool   `json:"in_progress"`
}

func newRecordOutput(r upload.Record) RecordOutput {
	out := RecordOutput{
		Record:        r,
		SizeKB:        r.SizeKB(),
		SeverityLabel: upload.SeverityLabel(r.SeverityRating()),
		InProgress:    r.Status.InProgress(),
	}
	if rating := r.SeverityRating(); rating > 0 {
		out.SeverityBucket = string(upload.Classify(rating))
	}
	return out
}

func (f *jsonFormatter) FormatList(records []upload.Record) ([]byte, error) {
	output := ListOutput{
		Count:   len(records),
		Uploads: make([]RecordOutput, 0, len(records)),
	}
	for _, r := range records {
		output.Uploads = append(output.Uploads, newRecordOutput(r))
	}
	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatRecord(r upload.Record) ([]byte, error) {
	return json.MarshalIndent(newRecordOutput(r), "", "  ")
}

func (f *jsonFormatter) FormatReport(report *inspect.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
