package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/inspect"
	"github.com/yildizm/LogTrack/internal/upload"
)

const (
	colID       = 6
	colFilename = 28
	colTime     = 19
	colSize     = 12
	colStatus   = 10
	severityBar = 10
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts   *termfmt.TerminalOptions
	color  bool
	layout string
}

// NewTerminal creates a new terminal formatter
func NewTerminal(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = !emoji.IsEmojiDisabled()

	layout := o.TimestampFormat
	if layout == "" {
		layout = defaultTimestampFormat
	}
	return &terminalFormatter{opts: opts, color: o.Color, layout: layout}
}

func (f *terminalFormatter) FormatList(records []upload.Record) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Upload History")

	if len(records) == 0 {
		b.WriteString("No uploads yet. Start by uploading a log file!\n")
		return []byte(b.String()), nil
	}

	f.writeTable(&b, records)
	f.writeListSummary(&b, records)

	return []byte(b.String()), nil
}

// writeTable writes one row per record in service order
func (f *terminalFormatter) writeTable(b *strings.Builder, records []upload.Record) {
	header := padRight("ID", colID) + " " +
		padRight("FILENAME", colFilename) + " " +
		padRight("UPLOADED", colTime) + " " +
		padRight("SIZE", colSize) + " " +
		padRight("STATUS", colStatus) + " " +
		"SEVERITY"
	b.WriteString(paint(f.color, mutedColor, header, true) + "\n")

	for i := range records {
		r := &records[i]
		rating := r.SeverityRating()

		// pad before painting so escape codes do not skew the columns
		status := paint(f.color, statusColor(r.Status), padRight(statusText(r.Status), colStatus), false)
		severity := upload.SeverityLabel(rating)
		if rating > 0 {
			severity = paint(f.color, severityColor(rating), severity, true)
		}

		fmt.Fprintf(b, "%s %s %s %s %s %s\n",
			padRight(r.ID.String(), colID),
			padRight(r.Filename, colFilename),
			padRight(r.UploadTime.Format(f.layout), colTime),
			padRight(r.SizeKB(), colSize),
			status,
			severity,
		)
	}
	b.WriteString("\n")
}

// writeListSummary writes per-status counts as a tree
func (f *terminalFormatter) writeListSummary(b *strings.Builder, records []upload.Record) {
	var completed, failed, running int
	for i := range records {
		switch records[i].Status {
		case upload.StatusCompleted:
			completed++
		case upload.StatusFailed:
			failed++
		default:
			running++
		}
	}

	symbol := termfmt.GetEmoji("statistics", f.opts)
	fmt.Fprintf(b, "%s %s uploads\n", symbol, formatNumber(len(records)))

	items := []termfmt.TreeItem{
		{Label: "Completed", Value: formatNumber(completed)},
		{Label: "In Progress", Value: formatNumber(running)},
		{Label: "Failed", Value: formatNumber(failed), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}

func (f *terminalFormatter) FormatRecord(r upload.Record) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, r.Filename)

	rating := r.SeverityRating()
	items := []termfmt.TreeItem{
		{Label: "ID", Value: r.ID.String()},
		{Label: "Status", Value: paint(f.color, statusColor(r.Status), statusText(r.Status), true)},
		{Label: "Uploaded", Value: r.UploadTime.Format(f.layout)},
		{Label: "Size", Value: r.SizeKB()},
		{Label: "Severity", Value: f.severityValue(rating), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")

	f.writeAnalysis(&b, &r)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) severityValue(rating int) string {
	label := upload.SeverityLabel(rating)
	if rating <= 0 {
		return label
	}
	bar := emoji.Bar(upload.SeverityRatio(rating), severityBar)
	return paint(f.color, severityColor(rating), bar+" "+label, true) +
		" (" + string(upload.Classify(rating)) + ")"
}

// writeAnalysis writes the analysis block, or a progress note while pending
func (f *terminalFormatter) writeAnalysis(b *strings.Builder, r *upload.Record) {
	if r.Results == nil {
		if r.Status.InProgress() {
			b.WriteString(emoji.GetEmoji("pending") + " Analyzing log file...\n")
		} else {
			b.WriteString("No analysis results available.\n")
		}
		return
	}

	res := r.Results
	symbol := termfmt.GetEmoji("insight", f.opts)
	b.WriteString(symbol + " Analysis Results\n")

	items := []termfmt.TreeItem{
		{Label: "Issue Type", Value: orNA(res.IssueType)},
		{Label: "Analyzed At", Value: res.Timestamp.Format(f.layout)},
		{Label: "Root Cause", Value: "", Children: wrapItems(orNA(res.RootCause))},
		{Label: "Suggested Fix", Value: "", Children: wrapItems(orNA(res.SuggestedFix)), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}

// wrapItems turns multi-line text into tree children, one per line
func wrapItems(text string) []termfmt.TreeItem {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	items := make([]termfmt.TreeItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, termfmt.TreeItem{
			Label: strings.TrimRight(line, "\r"),
			Last:  i == len(lines)-1,
		})
	}
	return items
}

func (f *terminalFormatter) FormatReport(report *inspect.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Pre-flight: "+report.Name)

	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	span := notAvailable
	if d := report.Span(); d > 0 {
		span = d.String()
	}
	items := []termfmt.TreeItem{
		{Label: "Size", Value: fmt.Sprintf("%.2f KB", float64(report.Size)/1024)},
		{Label: "Lines", Value: formatNumber(report.Lines)},
		{Label: "Entries", Value: formatNumber(report.Entries)},
		{Label: "Errors", Value: paint(f.color && report.Problems() > 0, errorColor, formatNumber(report.Problems()), true)},
		{Label: "Warnings", Value: formatNumber(report.Count(inspect.LevelWarn))},
		{Label: "Time Span", Value: span, Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")

	if len(report.Errors) > 0 {
		symbol := termfmt.GetEmoji("error", f.opts)
		b.WriteString(symbol + " First Errors\n")

		excerpts := make([]termfmt.TreeItem, 0, len(report.Errors))
		for i, e := range report.Errors {
			excerpts = append(excerpts, termfmt.TreeItem{
				Label: fmt.Sprintf("line %d [%s]", e.Line, e.Level),
				Value: e.Message,
				Last:  i == len(report.Errors)-1,
			})
		}
		b.WriteString(termfmt.TreeViewWithOptions(excerpts, f.opts) + "\n")
	}

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder, title string) {
	title = singleLine(title)
	width := len([]rune(title))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + paint(f.color, headerColor, title, true) + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}
