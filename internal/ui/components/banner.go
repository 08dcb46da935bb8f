// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable view pieces shared by the ragdash
// tabs: the activity spinner, the dismissable status banner, the evidence
// panel, and syntax-highlighted code blocks.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

// =============================================================================
// BANNER KINDS
// =============================================================================

// BannerKind is the severity of a status banner.
type BannerKind int

const (
	// BannerSuccess is a green confirmation banner.
	BannerSuccess BannerKind = iota
	// BannerError is a red failure banner.
	BannerError
	// BannerInfo is a neutral informational banner.
	BannerInfo
)

// =============================================================================
// STATUS BANNER
// =============================================================================

// Banner is a dismissable one-line status message.
type Banner struct {
	kind    BannerKind
	message string
	visible bool
}

// ShowSuccess displays a success message.
func (b *Banner) ShowSuccess(message string) {
	b.kind = BannerSuccess
	b.message = message
	b.visible = true
}

// ShowError displays an error message.
func (b *Banner) ShowError(message string) {
	b.kind = BannerError
	b.message = message
	b.visible = true
}

// ShowInfo displays a neutral message.
func (b *Banner) ShowInfo(message string) {
	b.kind = BannerInfo
	b.message = message
	b.visible = true
}

// Dismiss hides the banner.
func (b *Banner) Dismiss() {
	b.visible = false
	b.message = ""
}

// Visible reports whether the banner is showing.
func (b Banner) Visible() bool {
	return b.visible
}

// Message returns the current banner text.
func (b Banner) Message() string {
	if !b.visible {
		return ""
	}
	return b.message
}

// View renders the banner, or an empty string when dismissed.
func (b Banner) View(width int) string {
	if !b.visible {
		return ""
	}

	var style lipgloss.Style
	var icon string
	switch b.kind {
	case BannerSuccess:
		style = lipgloss.NewStyle().Foreground(styles.Emerald)
		icon = "[ok]"
	case BannerError:
		style = lipgloss.NewStyle().Foreground(styles.Rose)
		icon = "[!!]"
	default:
		style = lipgloss.NewStyle().Foreground(styles.Cyan)
		icon = "[--]"
	}

	line := icon + " " + b.message + "  (esc to dismiss)"
	if width > 0 {
		style = style.MaxWidth(width)
	}
	return style.Render(line)
}
