package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LogTrack/internal/upload"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SeverityBar renders a 1-5 rating as a horizontal bar
type SeverityBar struct {
	Width   int
	Rating  int
	NoColor bool
}

// NewSeverityBar creates a new severity bar
func NewSeverityBar(width, rating int) *SeverityBar {
	return &SeverityBar{Width: width, Rating: rating}
}

// Render renders the bar followed by the label and bucket
func (b *SeverityBar) Render() string {
	if b.Rating <= 0 {
		return upload.SeverityLabel(b.Rating)
	}

	filledWidth := int(float64(b.Width) * upload.SeverityRatio(b.Rating))
	emptyWidth := b.Width - filledWidth

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", emptyWidth)
	if !b.NoColor {
		filled = lipgloss.NewStyle().Foreground(SeverityColor(b.Rating)).Bold(true).Render(filled)
		empty = lipgloss.NewStyle().Foreground(secondaryColor).Render(empty)
	}

	return fmt.Sprintf("[%s] %s %s", filled+empty, upload.SeverityLabel(b.Rating), upload.Classify(b.Rating))
}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
}

// NewSpinner creates a new spinner
func NewSpinner(label string) *Spinner {
	return &Spinner{Label: label}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	progressStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	spinner := progressStyle.Render(spinnerFrames[s.Frame])

	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}
