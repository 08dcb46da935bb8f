// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package connections provides the credential registrar view for the
// ragdash TUI.
//
// This file defines the Bubble Tea message types for listing, creating
// and deleting credential connections.
package connections

import (
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// CONNECTION MESSAGES
// =============================================================================

// ConnectionsMsg delivers a connection list refresh outcome.
type ConnectionsMsg struct {
	Connections []model.Connection
	Err         error
}

// CreateDoneMsg delivers a registration outcome. The form has already
// closed by the time this arrives; the message only drives the status
// line and the follow-up reload.
type CreateDoneMsg struct {
	Connection *model.Connection
	Nickname   string
	Err        error
}

// DeleteDoneMsg delivers a removal outcome.
type DeleteDoneMsg struct {
	ID  string
	Err error
}
