package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Spinner animates while the clock is running
type Spinner struct {
	frames []string
	frame  int
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
		frame:  0,
	}
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.frame = (s.frame + 1) % len(s.frames)
}

// View returns the current spinner frame
func (s *Spinner) View() string {
	return s.frames[s.frame]
}

// statusIndicator shows the spinner while running and a pause glyph otherwise
func statusIndicator(s *Spinner, running bool) string {
	if !running {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("⏸")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s.View())
}
