// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the ordered transcript for the lifetime of a session.
// It is append-only: turns are never mutated or removed, and insertion order
// is the render order.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Turns []Turn `json:"turns"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Turns:     make([]Turn, 0),
	}
}

// Snapshot returns a copy whose turn slice is independent of the original.
// Callers that read the transcript off the owning update loop (export)
// take one so later appends cannot race the read.
func (c *Conversation) Snapshot() *Conversation {
	turns := make([]Turn, len(c.Turns))
	copy(turns, c.Turns)
	return &Conversation{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Turns:     turns,
	}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// Append adds a fully formed turn to the transcript.
func (c *Conversation) Append(t Turn) {
	c.Turns = append(c.Turns, t)
	c.UpdatedAt = time.Now()
}

// AddUserTurn creates and appends a user turn.
func (c *Conversation) AddUserTurn(content string) Turn {
	t := NewUserTurn(content)
	c.Append(t)
	return t
}

// AddAssistantTurn creates and appends an assistant turn with provenance.
func (c *Conversation) AddAssistantTurn(content string, source SourceType, details []EvidenceRecord) Turn {
	t := NewAssistantTurn(content, source, details)
	c.Append(t)
	return t
}

// AddErrorTurn creates and appends the synthetic apology turn.
func (c *Conversation) AddErrorTurn() Turn {
	t := NewErrorTurn()
	c.Append(t)
	return t
}

// LastTurn returns the most recent turn, or nil if the transcript is empty.
func (c *Conversation) LastTurn() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return &c.Turns[len(c.Turns)-1]
}

// LastAssistantTurn returns the most recent assistant turn, or nil when no
// assistant turn exists yet. This is the lookup the evidence panel derives
// its view from.
func (c *Conversation) LastAssistantTurn() *Turn {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleAssistant {
			return &c.Turns[i]
		}
	}
	return nil
}

// TurnCount returns the number of turns in the transcript.
func (c *Conversation) TurnCount() int {
	return len(c.Turns)
}

// IsEmpty returns true when the transcript holds no turns.
func (c *Conversation) IsEmpty() bool {
	return len(c.Turns) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
