// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript
// and the backend-owned records the dashboard renders.
//
// The conversation types (Turn, Conversation) are owned by the chat view and
// are append-only for the lifetime of a session. The record types (Document,
// Connection) mirror the backend's schemas and are only ever replaced
// wholesale from a fresh list response, never merged field-by-field.
package model
