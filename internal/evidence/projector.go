// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package evidence derives the evidence panel's view model from the
// conversation transcript.
//
// Project is a pure function: no state of its own, recomputed on every
// transcript change, and total — absent or malformed provenance degrades to
// an empty view instead of failing.
package evidence

import (
	"fmt"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// VIEW TYPES
// =============================================================================

// Kind is the category of an evidence view.
type Kind int

const (
	// KindNone means no context is available for the latest answer.
	KindNone Kind = iota
	// KindCitations means the answer is grounded in uploaded documents.
	KindCitations
	// KindMetrics means the answer is grounded in live cloud data.
	KindMetrics
	// KindHybrid means both document and live-data grounding.
	KindHybrid
)

// Citation is one document-grounded supporting item.
type Citation struct {
	Title     string
	Section   string
	Snippet   string
	Relevance float64 // 0..1
}

// Metric is one live-data supporting item (cost breakdown style).
type Metric struct {
	Service string
	Label   string
	Value   string
}

// View is the display-ready evidence model for the latest assistant turn.
type View struct {
	Kind      Kind
	Citations []Citation
	Metrics   []Metric
}

// Empty reports whether the view carries no supporting items.
func (v View) Empty() bool {
	return len(v.Citations) == 0 && len(v.Metrics) == 0
}

// =============================================================================
// PROJECTION
// =============================================================================

// Project derives the evidence view from the transcript's latest assistant
// turn. An empty transcript, a nil conversation, or an unrecognized source
// type all yield the neutral view.
func Project(conv *model.Conversation) View {
	if conv == nil {
		return View{Kind: KindNone}
	}

	last := conv.LastAssistantTurn()
	if last == nil {
		return View{Kind: KindNone}
	}

	switch last.SourceType {
	case model.SourceDocs:
		return View{Kind: KindCitations, Citations: citations(last.SourceDetails)}
	case model.SourceAPI:
		return View{Kind: KindMetrics, Metrics: metrics(last.SourceDetails)}
	case model.SourceHybrid:
		return View{
			Kind:      KindHybrid,
			Citations: citations(last.SourceDetails),
			Metrics:   metrics(last.SourceDetails),
		}
	default:
		return View{Kind: KindNone}
	}
}

// citations extracts document-shaped records. Records without any document
// field are skipped rather than rendered half-empty.
func citations(details []model.EvidenceRecord) []Citation {
	out := make([]Citation, 0, len(details))
	for _, d := range details {
		title := d.Title
		if title == "" {
			title = d.Source
		}
		if title == "" && d.Snippet == "" {
			continue
		}
		rel := d.Relevance
		if rel < 0 || rel > 1 {
			rel = 0
		}
		out = append(out, Citation{
			Title:     title,
			Section:   d.Section,
			Snippet:   d.Snippet,
			Relevance: rel,
		})
	}
	return out
}

// metrics extracts live-data records. Records without a value are skipped.
func metrics(details []model.EvidenceRecord) []Metric {
	out := make([]Metric, 0, len(details))
	for _, d := range details {
		if d.Value == "" {
			continue
		}
		label := d.Metric
		if label == "" {
			label = d.Title
		}
		out = append(out, Metric{
			Service: d.Service,
			Label:   label,
			Value:   d.Value,
		})
	}
	return out
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// Title returns the panel heading for the view kind.
func (v View) Title() string {
	switch v.Kind {
	case KindCitations:
		return "Document Sources"
	case KindMetrics:
		return "Live Cloud Data"
	case KindHybrid:
		return "Sources & Live Data"
	default:
		return "Evidence & Data"
	}
}

// RelevanceLabel formats a 0..1 relevance score for display.
func RelevanceLabel(rel float64) string {
	if rel <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%% relevance", int(rel*100+0.5))
}
