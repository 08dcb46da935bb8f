// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a loading spinner with a message and an elapsed timer.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewSpinner creates a spinner with ASCII-compatible frames.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Indigo)

	return Spinner{
		spinner:   s,
		message:   message,
		showTimer: true,
	}
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive reports whether the spinner is animating.
func (s Spinner) IsActive() bool {
	return s.isActive
}

// SetMessage updates the spinner message.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Update advances the animation. Tick messages are ignored while inactive
// so a stopped spinner's tick chain dies out.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner line, or an empty string while inactive.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	out := s.spinner.View() + " " + s.message
	if s.showTimer {
		elapsed := time.Since(s.startTime).Round(time.Second)
		if elapsed >= time.Second {
			out += lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" (" + elapsed.String() + ")")
		}
	}
	return out
}
