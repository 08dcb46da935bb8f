// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript
// and the backend-owned records the dashboard renders.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// SourceType tags an assistant turn with the provenance of its answer:
// grounded in uploaded documents, live cloud data, both, or neither.
type SourceType string

const (
	SourceDocs   SourceType = "docs"
	SourceAPI    SourceType = "api"
	SourceHybrid SourceType = "hybrid"
	SourceNone   SourceType = "none"
)

// ParseSourceType maps a backend-provided tag to a SourceType.
// Unknown or empty tags degrade to SourceNone rather than failing.
func ParseSourceType(s string) SourceType {
	switch SourceType(s) {
	case SourceDocs, SourceAPI, SourceHybrid:
		return SourceType(s)
	default:
		return SourceNone
	}
}

// Label returns the badge text shown next to an assistant turn.
func (s SourceType) Label() string {
	switch s {
	case SourceDocs:
		return "Document"
	case SourceAPI:
		return "Live API"
	case SourceHybrid:
		return "Hybrid"
	default:
		return ""
	}
}

// =============================================================================
// EVIDENCE RECORD
// =============================================================================

// EvidenceRecord is one opaque supporting item attached to an assistant turn.
// The backend owns the schema; the client only surfaces the fields it knows
// about and carries the rest untouched.
type EvidenceRecord struct {
	Title     string  `json:"title,omitempty"`
	Source    string  `json:"source,omitempty"`
	Snippet   string  `json:"snippet,omitempty"`
	Section   string  `json:"section,omitempty"`
	Relevance float64 `json:"relevance,omitempty"`

	// Live-metric fields (api provenance)
	Service string `json:"service,omitempty"`
	Metric  string `json:"metric,omitempty"`
	Value   string `json:"value,omitempty"`
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is a single message in the conversation transcript. Turns are
// immutable once appended: the constructors below are the only way to
// produce one, and no mutator exists.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Provenance (assistant turns only)
	SourceType    SourceType       `json:"source_type,omitempty"`
	SourceDetails []EvidenceRecord `json:"source_details,omitempty"`
}

// ErrorTurnContent is the fixed apology shown when a chat request fails.
// Failures surface only through the transcript, never as raised errors.
const ErrorTurnContent = "Sorry, I encountered an error. Please check if the backend is running."

// NewUserTurn creates a user turn with a generated ID.
func NewUserTurn(content string) Turn {
	return Turn{
		ID:        generateTurnID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn carrying the backend's answer
// and its provenance. A nil details slice is normalized to an empty one so
// consumers never see a partially formed turn.
func NewAssistantTurn(content string, source SourceType, details []EvidenceRecord) Turn {
	if details == nil {
		details = []EvidenceRecord{}
	}
	return Turn{
		ID:            generateTurnID(),
		Role:          RoleAssistant,
		Content:       content,
		Timestamp:     time.Now(),
		SourceType:    source,
		SourceDetails: details,
	}
}

// NewErrorTurn creates the synthetic assistant turn appended when a chat
// request fails at the transport or decode layer.
func NewErrorTurn() Turn {
	return NewAssistantTurn(ErrorTurnContent, SourceNone, nil)
}

// Preview returns a truncated preview of the turn content.
// Uses rune-based truncation to handle Unicode correctly.
func (t Turn) Preview(maxLen int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxLen {
		return t.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateTurnID creates a unique turn ID.
func generateTurnID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "turn_" + hex.EncodeToString(bytes)
}
