package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LogTrack/internal/upload"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       18,
		Height:      3,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	var valueColor lipgloss.AdaptiveColor
	switch s.Status {
	case "success":
		valueColor = successColor
	case "warning":
		valueColor = warningColor
	case "error":
		valueColor = errorColor
	case "info":
		valueColor = infoColor
	default:
		valueColor = secondaryColor
	}

	titleStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor).Padding(0, 1)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render(s.Title),
		lipgloss.NewStyle().Foreground(valueColor).Bold(true).Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

// StatsDashboard lays cards out in rows
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  18,
		cardHeight: 3,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// Len returns the number of cards
func (d *StatsDashboard) Len() int {
	return len(d.cards)
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateUploadStats summarizes a history snapshot as cards
func CreateUploadStats(records []upload.Record) *StatsDashboard {
	dashboard := NewStatsDashboard(4)

	var completed, failed, inProgress, critical int
	for i := range records {
		r := &records[i]
		switch {
		case r.Status == upload.StatusCompleted:
			completed++
		case r.Status == upload.StatusFailed:
			failed++
		case r.Status.InProgress():
			inProgress++
		}
		if upload.Classify(r.SeverityRating()) == upload.SeverityCritical {
			critical++
		}
	}

	dashboard.AddCard(NewStatsCard("Uploads", formatNumber(len(records)), "in history").SetStatus("info"))
	dashboard.AddCard(NewStatsCard("Completed", formatNumber(completed), "analyzed").SetStatus("success"))

	progressStatus := "info"
	if inProgress > 0 {
		progressStatus = "warning"
	}
	dashboard.AddCard(NewStatsCard("In Progress", formatNumber(inProgress), "awaiting results").SetStatus(progressStatus))

	problemStatus := "success"
	if failed > 0 || critical > 0 {
		problemStatus = "error"
	}
	dashboard.AddCard(NewStatsCard("Failed", formatNumber(failed), fmt.Sprintf("%d critical", critical)).SetStatus(problemStatus))

	return dashboard
}

// formatNumber formats large numbers with commas
func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor).Padding(1)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	return boxStyle.Width(s.Width).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}
