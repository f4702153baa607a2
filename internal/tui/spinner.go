package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Spinner is a small braille spinner shown while a non-silent load runs.
type Spinner struct {
	frames []string
	frame  int
}

// NewSpinner creates a new spinner.
func NewSpinner() *Spinner {
	return &Spinner{
		frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
	}
}

// Next advances the spinner to the next frame.
func (s *Spinner) Next() {
	s.frame = (s.frame + 1) % len(s.frames)
}

// View returns the current spinner frame.
func (s *Spinner) View() string {
	return s.frames[s.frame]
}

// statusLine renders the loading indicator line.
func statusLine(s *Spinner, message string) string {
	spinnerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212"))
	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	return fmt.Sprintf("%s %s",
		spinnerStyle.Render(s.View()),
		messageStyle.Render(message))
}

// errorBanner renders the inline failure banner fed by the per-resource
// error strings. An empty message renders nothing.
func errorBanner(message string, width int) string {
	if message == "" {
		return ""
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("124")).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(message + " (press r to retry)")
}
