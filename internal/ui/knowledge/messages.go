// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package knowledge provides the knowledge-base view for the ragdash TUI.
//
// This file defines the Bubble Tea message types for document polling,
// uploads and the drop-folder watcher.
package knowledge

import (
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// KNOWLEDGE MESSAGES
// =============================================================================

// PollTickMsg drives the periodic document refresh. The generation ties a
// tick to the mount that scheduled it; ticks from earlier mounts are
// discarded so re-mounting never accumulates duplicate timers.
type PollTickMsg struct {
	Generation int
}

// DocumentsMsg delivers a document list refresh outcome.
type DocumentsMsg struct {
	Documents []model.Document
	Err       error
}

// UploadDoneMsg delivers an upload outcome. Always sent, so the uploading
// flag clears on every path.
type UploadDoneMsg struct {
	Filename string
	Message  string
	Err      error
}

// DropFileMsg reports a file that appeared in the watched drop folder.
type DropFileMsg struct {
	Path string
}

// watcherClosedMsg ends the drop-watcher receive loop.
type watcherClosedMsg struct{}
