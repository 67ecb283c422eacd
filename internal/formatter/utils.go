package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LogTrack/internal/upload"
)

const (
	defaultTimestampFormat = "2006-01-02 15:04:05"
	notAvailable           = "N/A"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	warningColor = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#3B82F6"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	headerColor  = infoColor
)

// statusColor maps completed to green, failed to red and anything else,
// including unknown states, to yellow
func statusColor(s upload.Status) lipgloss.AdaptiveColor {
	switch s {
	case upload.StatusCompleted:
		return successColor
	case upload.StatusFailed:
		return errorColor
	default:
		return warningColor
	}
}

// severityColor maps a rating bucket to its display color
func severityColor(rating int) lipgloss.AdaptiveColor {
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

// paint colors text when color output is enabled
func paint(enabled bool, c lipgloss.TerminalColor, text string, bold bool) string {
	if !enabled {
		return text
	}
	return lipgloss.NewStyle().Foreground(c).Bold(bold).Render(text)
}

// statusText renders a status, "unknown" for an empty one
func statusText(s upload.Status) string {
	if s == "" {
		return "unknown"
	}
	return string(s)
}

// orNA substitutes "N/A" for empty analysis fields
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// padRight pads to width by display cells, truncating with an ellipsis
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		runes := []rune(s)
		if width <= 1 || len(runes) <= 1 {
			return string(runes[:min(width, len(runes))])
		}
		for lipgloss.Width(string(runes)) > width-1 {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// singleLine flattens text for table cells
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
