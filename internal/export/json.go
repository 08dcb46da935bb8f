// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders transcripts as indented JSON.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

// jsonDocument is the export envelope.
type jsonDocument struct {
	ConversationID string       `json:"conversation_id"`
	CreatedAt      time.Time    `json:"created_at"`
	ExportedAt     time.Time    `json:"exported_at"`
	Generator      string       `json:"generator"`
	Turns          []model.Turn `json:"turns"`
}

// Export converts the conversation to JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if conv.IsEmpty() {
		return nil, fmt.Errorf("conversation has no turns")
	}

	doc := jsonDocument{
		ConversationID: conv.ID,
		CreatedAt:      conv.CreatedAt,
		ExportedAt:     time.Now(),
		Generator:      "ragdash",
		Turns:          conv.Turns,
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}
	return out, nil
}
