// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the ragdash backend gateway.
package api

import (
	"context"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatRequest is the POST /chat/ payload.
type chatRequest struct {
	Query          string `json:"query"`
	SelectedSource string `json:"selected_source"`
	SelectedDB     string `json:"selected_db"`
}

// chatResponse is the raw POST /chat/ response before provenance parsing.
type chatResponse struct {
	Answer        string                 `json:"answer"`
	SourceType    string                 `json:"source_type"`
	SourceDetails []model.EvidenceRecord `json:"source_details"`
}

// ChatResult is the decoded answer handed to the conversation store.
type ChatResult struct {
	Answer        string
	SourceType    model.SourceType
	SourceDetails []model.EvidenceRecord
}

// Credentials is the write-only secret payload for creating a connection.
// It is sent once and never echoed back by the backend.
type Credentials struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Region    string `json:"region"`
}

// createConnectionRequest is the POST /api-keys/ payload. Provider and
// nickname travel as top-level fields, separate from the secret material.
type createConnectionRequest struct {
	Provider    string      `json:"provider"`
	Nickname    string      `json:"nickname"`
	Credentials Credentials `json:"credentials"`
}

// uploadResponse is the POST /documents/upload response.
type uploadResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// GATEWAY INTERFACE
// =============================================================================

// Gateway is the typed façade over the backend the views depend on. The
// concrete Client implements it; tests substitute stubs.
type Gateway interface {
	// Chat sends a query with the selected retrieval-source filter and,
	// for docs queries, the selected storage engine.
	Chat(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*ChatResult, error)

	// ListDocuments returns the backend's current document list.
	ListDocuments(ctx context.Context) ([]model.Document, error)

	// UploadDocument transfers file bytes to the ingestion pipeline.
	UploadDocument(ctx context.Context, filename string, data []byte, engine model.Engine) (string, error)

	// ListConnections returns the registered credential connections.
	ListConnections(ctx context.Context) ([]model.Connection, error)

	// CreateConnection registers a credential. Secrets are sent once and
	// not echoed.
	CreateConnection(ctx context.Context, provider model.Provider, nickname string, creds Credentials) (*model.Connection, error)

	// DeleteConnection removes a credential. Idempotent from the caller's
	// view.
	DeleteConnection(ctx context.Context, id string) error
}
