package formatter

import (
	"fmt"

	"github.com/yildizm/LogTrack/internal/inspect"
	"github.com/yildizm/LogTrack/internal/upload"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// FormatList renders the upload history in service order
	FormatList(records []upload.Record) ([]byte, error)
	// FormatRecord renders one upload with its analysis
	FormatRecord(record upload.Record) ([]byte, error)
	// FormatReport renders a local pre-flight inspection
	FormatReport(report *inspect.Report) ([]byte, error)
}

// Options configure the human-readable formatters
type Options struct {
	Color           bool
	TimestampFormat string
}

// Names lists the supported output formats
var Names = []string{"text", "json", "markdown", "csv"}

// New returns the formatter registered under name
func New(name string, opts Options) (Formatter, error) {
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = defaultTimestampFormat
	}
	switch name {
	case "", "text", "terminal":
		return NewTerminal(opts), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(opts), nil
	case "csv":
		return NewCSV(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be one of: text, json, markdown, csv)", name)
	}
}
