// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the ragdash TUI.
//
// This file defines the Bubble Tea message types used by the view. All
// completion messages carry their error so the pending flag clears on
// every exit path, success or failure.
package chat

import (
	"github.com/YatinKande/aws-docs-rag-bot/internal/api"
)

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatResultMsg delivers the outcome of a chat request. Exactly one is
// produced per submitted query.
type ChatResultMsg struct {
	Result *api.ChatResult
	Err    error
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
