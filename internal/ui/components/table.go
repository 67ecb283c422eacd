package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LogTrack/internal/upload"
)

// Colors are defined here rather than taken from the ui theme to avoid an
// import cycle.
var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectedColor  = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
	successColor   = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	infoColor      = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
)

const (
	colFilename = 30
	colTime     = 19
	colSize     = 11
	colStatus   = 10
	colSeverity = 8
)

// StatusColor returns the badge color for a status: completed green,
// failed red, anything else yellow
func StatusColor(s upload.Status) lipgloss.AdaptiveColor {
	switch s {
	case upload.StatusCompleted:
		return successColor
	case upload.StatusFailed:
		return errorColor
	default:
		return warningColor
	}
}

// SeverityColor returns the badge color for a 1-5 rating
func SeverityColor(rating int) lipgloss.AdaptiveColor {
	switch upload.Classify(rating) {
	case upload.SeverityCritical:
		return errorColor
	case upload.SeverityHigh:
		return warningColor
	case upload.SeverityModerate:
		return infoColor
	default:
		return successColor
	}
}

// UploadTable is a navigable table of upload records
type UploadTable struct {
	Title    string
	Records  []upload.Record
	Selected int
	Focused  bool
	Width    int
	Height   int
	Layout   string
	NoColor  bool

	searchQuery   string
	filteredItems []int // indices into Records
}

// NewUploadTable creates an empty table
func NewUploadTable(title string, width, height int) *UploadTable {
	return &UploadTable{
		Title:  title,
		Width:  width,
		Height: height,
		Layout: "2006-01-02 15:04:05",
	}
}

// SetRecords replaces the rows. The selection follows the previously
// selected upload when it is still present.
func (t *UploadTable) SetRecords(records []upload.Record) {
	var selectedID upload.ID
	if rec := t.SelectedRecord(); rec != nil {
		selectedID = rec.ID
	}

	t.Records = records
	t.updateFilter()

	t.Selected = 0
	if selectedID != "" {
		for i, idx := range t.filteredItems {
			if t.Records[idx].ID == selectedID {
				t.Selected = i
				break
			}
		}
	}
}

// SelectedRecord returns the highlighted record, or nil when the table is empty
func (t *UploadTable) SelectedRecord() *upload.Record {
	if len(t.filteredItems) == 0 || t.Selected >= len(t.filteredItems) {
		return nil
	}
	index := t.filteredItems[t.Selected]
	if index >= len(t.Records) {
		return nil
	}
	return &t.Records[index]
}

// Len returns the number of visible rows
func (t *UploadTable) Len() int {
	return len(t.filteredItems)
}

// MoveUp moves selection up
func (t *UploadTable) MoveUp() {
	if t.Selected > 0 {
		t.Selected--
	}
}

// MoveDown moves selection down
func (t *UploadTable) MoveDown() {
	if t.Selected < len(t.filteredItems)-1 {
		t.Selected++
	}
}

// SetSearch filters rows by filename, id or issue type
func (t *UploadTable) SetSearch(query string) {
	t.searchQuery = query
	t.Selected = 0
	t.updateFilter()
}

// Search returns the active filter
func (t *UploadTable) Search() string {
	return t.searchQuery
}

func (t *UploadTable) updateFilter() {
	t.filteredItems = t.filteredItems[:0]
	for i := range t.Records {
		if t.searchQuery == "" || matchesSearch(&t.Records[i], t.searchQuery) {
			t.filteredItems = append(t.filteredItems, i)
		}
	}
	if t.Selected >= len(t.filteredItems) {
		t.Selected = max(0, len(t.filteredItems)-1)
	}
}

func matchesSearch(r *upload.Record, query string) bool {
	query = strings.ToLower(query)
	if strings.Contains(strings.ToLower(r.Filename), query) ||
		strings.Contains(strings.ToLower(r.ID.String()), query) ||
		strings.Contains(strings.ToLower(string(r.Status)), query) {
		return true
	}
	return r.Results != nil && strings.Contains(strings.ToLower(r.Results.IssueType), query)
}

// Render renders the table
func (t *UploadTable) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	var content []string

	title := t.render(headerStyle, t.Title)
	if t.searchQuery != "" {
		title += t.render(mutedStyle, fmt.Sprintf("  search: %s (%d results)", t.searchQuery, len(t.filteredItems)))
	}
	content = append(content, title, "")

	header := pad("FILENAME", colFilename) + " " +
		pad("UPLOAD TIME", colTime) + " " +
		pad("SIZE", colSize) + " " +
		pad("STATUS", colStatus) + " " +
		pad("SEVERITY", colSeverity)
	content = append(content, t.render(mutedStyle, header))

	maxVisible := max(1, t.Height-6)

	startIndex := 0
	if t.Selected >= maxVisible {
		startIndex = t.Selected - maxVisible + 1
	}
	endIndex := min(startIndex+maxVisible, len(t.filteredItems))

	for i := startIndex; i < endIndex; i++ {
		rec := &t.Records[t.filteredItems[i]]
		content = append(content, t.renderRow(rec, i == t.Selected))
	}

	if len(t.filteredItems) > maxVisible {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", startIndex+1, endIndex, len(t.filteredItems))
		content = append(content, "", t.render(mutedStyle, scrollInfo))
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

// renderRow renders one record. Cells are padded before styling so escape
// sequences do not shift the columns.
func (t *UploadTable) renderRow(r *upload.Record, selected bool) string {
	rating := r.SeverityRating()

	status := string(r.Status)
	if status == "" {
		status = "unknown"
	}
	statusCell := t.render(lipgloss.NewStyle().Foreground(StatusColor(r.Status)), pad(status, colStatus))

	severityCell := pad(upload.SeverityLabel(rating), colSeverity)
	if rating > 0 {
		severityCell = t.render(lipgloss.NewStyle().Foreground(SeverityColor(rating)).Bold(true), severityCell)
	}

	name := pad(r.Filename, colFilename)
	rest := pad(r.UploadTime.Format(t.Layout), colTime) + " " + pad(r.SizeKB(), colSize)

	if selected {
		sel := lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor).Bold(true)
		return t.render(sel, "› "+name+" "+rest) + " " + statusCell + " " + severityCell
	}
	return "  " + name + " " + t.render(lipgloss.NewStyle().Foreground(secondaryColor), rest) + " " + statusCell + " " + severityCell
}

func (t *UploadTable) render(style lipgloss.Style, s string) string {
	if t.NoColor {
		return s
	}
	return style.Render(s)
}

// pad pads or truncates to width display cells
func pad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	w := lipgloss.Width(s)
	if w > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}
