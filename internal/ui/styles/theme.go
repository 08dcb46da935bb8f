// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the ragdash TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER & NAVIGATION
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	FilterBadge lipgloss.Style
	EngineBadge lipgloss.Style

	// ==========================================================================
	// CHAT TRANSCRIPT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	TurnMeta        lipgloss.Style
	BadgeDocs       lipgloss.Style
	BadgeAPI        lipgloss.Style
	BadgeHybrid     lipgloss.Style

	// ==========================================================================
	// PANELS & TABLES
	// ==========================================================================

	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	EmptyState  lipgloss.Style
	StatusGood  lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusBad   lipgloss.Style
	StatusMuted lipgloss.Style

	// ==========================================================================
	// INPUT & STATUS BAR
	// ==========================================================================

	InputContainer lipgloss.Style
	StatusBar      lipgloss.Style
	StatusBarKey   lipgloss.Style
	Help           lipgloss.Style
}

// NewTheme creates a theme tuned to the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.TabActive = lipgloss.NewStyle().
		Foreground(Surface).
		Background(Indigo).
		Bold(true).
		Padding(0, 2)
	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextDim).
		Padding(0, 2)
	t.FilterBadge = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.EngineBadge = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Rose).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.TurnMeta = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.BadgeDocs = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)
	t.BadgeAPI = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.BadgeHybrid = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.StatusGood = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusWarn = lipgloss.NewStyle().Foreground(Amber)
	t.StatusBad = lipgloss.NewStyle().Foreground(Rose)
	t.StatusMuted = lipgloss.NewStyle().Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextDim).
		Padding(0, 1)
	t.StatusBarKey = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	return t
}

// SourceBadge returns the style for a provenance badge by source tag.
func (t *Theme) SourceBadge(source string) lipgloss.Style {
	switch source {
	case "docs":
		return t.BadgeDocs
	case "api":
		return t.BadgeAPI
	case "hybrid":
		return t.BadgeHybrid
	default:
		return t.StatusMuted
	}
}

// DocStatus returns the style for a document ingestion status.
func (t *Theme) DocStatus(status string) lipgloss.Style {
	switch status {
	case "completed":
		return t.StatusGood
	case "processing", "queued":
		return t.StatusWarn
	case "failed":
		return t.StatusBad
	default:
		return t.StatusMuted
	}
}

// ConnStatus returns the style for a credential connection status.
func (t *Theme) ConnStatus(status string) lipgloss.Style {
	switch status {
	case "active":
		return t.StatusGood
	case "expired":
		return t.StatusWarn
	case "invalid":
		return t.StatusBad
	default:
		return t.StatusMuted
	}
}
