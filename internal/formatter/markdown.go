package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/inspect"
	"github.com/yildizm/LogTrack/internal/upload"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	layout string
	now    func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(o Options) Formatter {
	layout := o.TimestampFormat
	if layout == "" {
		layout = defaultTimestampFormat
	}
	return &markdownFormatter{layout: layout, now: time.Now}
}

func (f *markdownFormatter) FormatList(records []upload.Record) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Upload History\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format(defaultTimestampFormat))

	if len(records) == 0 {
		b.WriteString("No uploads yet. Start by uploading a log file!\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| ID | Filename | Upload Time | Size | Status | Severity |\n")
	b.WriteString("|----|----------|-------------|------|--------|----------|\n")
	for i := range records {
		r := &records[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			escapeMarkdownCell(r.ID.String()),
			escapeMarkdownCell(r.Filename),
			r.UploadTime.Format(f.layout),
			r.SizeKB(),
			statusText(r.Status),
			f.severityCell(r.SeverityRating()),
		)
	}
	b.WriteString("\n")

	f.writeFooter(&b)
	return []byte(b.String()), nil
}

func (f *markdownFormatter) severityCell(rating int) string {
	if rating <= 0 {
		return upload.SeverityLabel(rating)
	}
	return emoji.GetEmoji(string(upload.Classify(rating))) + " " + upload.SeverityLabel(rating)
}

func (f *markdownFormatter) FormatRecord(r upload.Record) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Filename)

	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(&b, "| ID | %s |\n", escapeMarkdownCell(r.ID.String()))
	fmt.Fprintf(&b, "| Status | %s |\n", statusText(r.Status))
	fmt.Fprintf(&b, "| Upload Time | %s |\n", r.UploadTime.Format(f.layout))
	fmt.Fprintf(&b, "| Size | %s |\n", r.SizeKB())
	fmt.Fprintf(&b, "| Severity | %s |\n\n", f.severityCell(r.SeverityRating()))

	if r.Results == nil {
		if r.Status.InProgress() {
			b.WriteString("*Analyzing log file...*\n\n")
		} else {
			b.WriteString("*No analysis results available.*\n\n")
		}
		f.writeFooter(&b)
		return []byte(b.String()), nil
	}

	res := r.Results
	b.WriteString("## Analysis Results\n\n")
	fmt.Fprintf(&b, "**Issue Type**: %s\n\n", orNA(res.IssueType))
	fmt.Fprintf(&b, "**Analyzed At**: %s\n\n", res.Timestamp.Format(f.layout))

	b.WriteString("### Root Cause\n\n")
	b.WriteString(orNA(res.RootCause) + "\n\n")

	b.WriteString("### Suggested Fix\n\n")
	b.WriteString(orNA(res.SuggestedFix) + "\n\n")

	if rating := r.SeverityRating(); rating > 0 {
		b.WriteString("### Severity Breakdown\n\n")
		fmt.Fprintf(&b, "`%s` %s (%s)\n\n",
			emoji.Bar(upload.SeverityRatio(rating), 20), upload.SeverityLabel(rating), upload.Classify(rating))
	}

	f.writeFooter(&b)
	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatReport(report *inspect.Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Pre-flight: %s\n\n", report.Name)

	span := notAvailable
	if d := report.Span(); d > 0 {
		span = d.String()
	}

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Size | %.2f KB |\n", float64(report.Size)/1024)
	fmt.Fprintf(&b, "| Lines | %s |\n", formatNumber(report.Lines))
	fmt.Fprintf(&b, "| Entries | %s |\n", formatNumber(report.Entries))
	for _, level := range inspect.Levels {
		fmt.Fprintf(&b, "| %s | %d |\n", level, report.Count(level))
	}
	fmt.Fprintf(&b, "| Time Span | %s |\n\n", span)

	if len(report.Errors) > 0 {
		b.WriteString("## First Errors\n\n")
		b.WriteString("```\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "%d: [%s] %s\n", e.Line, e.Level, e.Message)
		}
		b.WriteString("```\n\n")
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeFooter(b *strings.Builder) {
	b.WriteString("---\n")
	b.WriteString("*Report generated by LogTrack*\n")
}

// escapeMarkdownCell keeps table cells on one line and escapes pipes
func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(singleLine(s), "|", `\|`)
}
