// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders transcripts as Markdown with a metadata header.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// Export converts the conversation to Markdown.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if conv.IsEmpty() {
		return nil, fmt.Errorf("conversation has no turns")
	}

	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("conversation: %s\n", conv.ID))
	sb.WriteString(fmt.Sprintf("date: %s\n", conv.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("turns: %d\n", conv.TurnCount()))
	sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString("generator: ragdash\n")
	sb.WriteString("---\n\n")

	sb.WriteString("# Chat Transcript\n\n")

	for _, turn := range conv.Turns {
		sb.WriteString(fmt.Sprintf("## %s", turn.Role.DisplayName()))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf(" (%s)", turn.Timestamp.Format("2006-01-02 15:04:05")))
		}
		sb.WriteString("\n\n")
		sb.WriteString(turn.Content)
		sb.WriteString("\n\n")

		if turn.Role == model.RoleAssistant && turn.SourceType != model.SourceNone && turn.SourceType != "" {
			sb.WriteString(fmt.Sprintf("*Source: %s*\n\n", turn.SourceType.Label()))
		}
		if len(turn.SourceDetails) > 0 {
			for _, rec := range turn.SourceDetails {
				title := rec.Title
				if title == "" {
					title = rec.Source
				}
				if title == "" && rec.Service != "" {
					title = rec.Service
				}
				if title == "" {
					continue
				}
				sb.WriteString(fmt.Sprintf("- %s", title))
				if rec.Value != "" {
					sb.WriteString(": " + rec.Value)
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}
