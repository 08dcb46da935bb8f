// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/YatinKande/aws-docs-rag-bot/internal/evidence"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
	"github.com/YatinKande/aws-docs-rag-bot/internal/util"
)

// =============================================================================
// EVIDENCE PANEL
// =============================================================================

// EvidencePanel renders the projector's view beside the chat transcript.
type EvidencePanel struct {
	theme *styles.Theme
}

// NewEvidencePanel creates an evidence panel renderer.
func NewEvidencePanel(theme *styles.Theme) EvidencePanel {
	return EvidencePanel{theme: theme}
}

// Render draws the panel at the given width and height.
func (p EvidencePanel) Render(view evidence.View, width, height int) string {
	inner := width - 4 // panel border and padding
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(p.theme.PanelTitle.Render(view.Title()))
	b.WriteString("\n")

	switch {
	case view.Kind == evidence.KindNone || view.Empty():
		b.WriteString("\n")
		b.WriteString(p.theme.EmptyState.Render("No context available for this request."))
	default:
		if len(view.Metrics) > 0 {
			b.WriteString(p.renderMetrics(view.Metrics, inner))
		}
		if len(view.Citations) > 0 {
			if len(view.Metrics) > 0 {
				b.WriteString("\n")
			}
			b.WriteString(p.renderCitations(view.Citations, inner))
		}
	}

	return p.theme.Panel.
		Width(width - 2).
		Height(height - 2).
		Render(b.String())
}

// renderMetrics draws the cost-breakdown style live-data items.
func (p EvidencePanel) renderMetrics(metrics []evidence.Metric, width int) string {
	var b strings.Builder
	for _, m := range metrics {
		label := m.Service
		if m.Label != "" {
			if label != "" {
				label += " "
			}
			label += m.Label
		}
		line := util.PadWidth(label, width-len(m.Value)-1) + " " + p.theme.StatusGood.Render(m.Value)
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// renderCitations draws the document citation cards.
func (p EvidencePanel) renderCitations(citations []evidence.Citation, width int) string {
	var b strings.Builder
	for i, c := range citations {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(p.theme.BadgeDocs.Render(util.TruncateWidth(c.Title, width)))
		if c.Section != "" {
			b.WriteString("\n")
			b.WriteString(p.theme.StatusMuted.Render("Section: " + util.TruncateWidth(c.Section, width-9)))
		}
		if c.Snippet != "" {
			snippet := lipgloss.NewStyle().
				Foreground(styles.TextDim).
				Italic(true).
				Width(width).
				Render("\"" + c.Snippet + "\"")
			b.WriteString("\n")
			b.WriteString(snippet)
		}
		if label := evidence.RelevanceLabel(c.Relevance); label != "" {
			b.WriteString("\n")
			b.WriteString(p.theme.StatusGood.Render(label))
		}
	}
	return b.String()
}
