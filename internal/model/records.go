// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// SOURCE FILTER
// =============================================================================

// SourceFilter selects where the backend should ground an answer.
type SourceFilter string

const (
	FilterAuto SourceFilter = "auto" // Backend decides
	FilterDocs SourceFilter = "docs" // Knowledge base only
	FilterAPI  SourceFilter = "api"  // Live cloud data only
)

// sourceFilterCycle is the order the header toggle moves through.
var sourceFilterCycle = []SourceFilter{FilterAuto, FilterDocs, FilterAPI}

// Next returns the filter after this one in the toggle cycle.
func (f SourceFilter) Next() SourceFilter {
	for i, v := range sourceFilterCycle {
		if v == f {
			return sourceFilterCycle[(i+1)%len(sourceFilterCycle)]
		}
	}
	return FilterAuto
}

// DisplayName returns the header label for the filter.
func (f SourceFilter) DisplayName() string {
	switch f {
	case FilterDocs:
		return "Knowledge Base"
	case FilterAPI:
		return "Live API"
	default:
		return "Auto"
	}
}

// =============================================================================
// STORAGE ENGINE
// =============================================================================

// Engine identifies the backend's vector-storage engine. The client treats
// it as an opaque enumerated choice.
type Engine string

const (
	EngineFAISS   Engine = "faiss"
	EngineChroma  Engine = "chroma"
	EngineLanceDB Engine = "lancedb"
	EngineMilvus  Engine = "milvus"
	EngineQdrant  Engine = "qdrant"
)

// Engines lists the selectable storage engines in display order.
var Engines = []Engine{EngineFAISS, EngineChroma, EngineLanceDB, EngineMilvus, EngineQdrant}

// Next returns the engine after this one in the selector cycle.
func (e Engine) Next() Engine {
	for i, v := range Engines {
		if v == e {
			return Engines[(i+1)%len(Engines)]
		}
	}
	return EngineFAISS
}

// DisplayName returns the human-readable engine name.
func (e Engine) DisplayName() string {
	switch e {
	case EngineFAISS:
		return "FAISS"
	case EngineChroma:
		return "ChromaDB"
	case EngineLanceDB:
		return "LanceDB"
	case EngineMilvus:
		return "Milvus"
	case EngineQdrant:
		return "Qdrant"
	default:
		return string(e)
	}
}

// =============================================================================
// DOCUMENT RECORD
// =============================================================================

// DocumentStatus is the ingestion pipeline state of an uploaded document.
type DocumentStatus string

const (
	DocQueued     DocumentStatus = "queued"
	DocProcessing DocumentStatus = "processing"
	DocCompleted  DocumentStatus = "completed"
	DocFailed     DocumentStatus = "failed"
)

// Document is the backend's record of an uploaded file. The client holds a
// read-only cached copy, replaced wholesale on each poll.
type Document struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	FileType   string         `json:"file_type"`
	UploadDate time.Time      `json:"upload_date"`
	Status     DocumentStatus `json:"status"`
	Engine     Engine         `json:"database"`
	ChunkCount int            `json:"chunk_count,omitempty"`
}

// =============================================================================
// CREDENTIAL CONNECTION
// =============================================================================

// Provider identifies a cloud provider for a registered credential.
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderGCP    Provider = "gcp"
	ProviderAzure  Provider = "azure"
	ProviderCustom Provider = "custom"
)

// Providers lists the selectable providers in display order.
var Providers = []Provider{ProviderAWS, ProviderGCP, ProviderAzure, ProviderCustom}

// Next returns the provider after this one in the form selector cycle.
func (p Provider) Next() Provider {
	for i, v := range Providers {
		if v == p {
			return Providers[(i+1)%len(Providers)]
		}
	}
	return ProviderAWS
}

// DisplayName returns the human-readable provider name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderAWS:
		return "Amazon Web Services"
	case ProviderGCP:
		return "Google Cloud Platform"
	case ProviderAzure:
		return "Microsoft Azure"
	case ProviderCustom:
		return "Custom"
	default:
		return string(p)
	}
}

// ConnectionStatus is the backend's validation state for a credential.
type ConnectionStatus string

const (
	ConnActive  ConnectionStatus = "active"
	ConnInvalid ConnectionStatus = "invalid"
	ConnExpired ConnectionStatus = "expired"
)

// Connection is a registered read-only cloud credential. Secret material is
// write-only from the client's perspective: it is sent once on create and
// never received back.
type Connection struct {
	ID            string           `json:"id"`
	Provider      Provider         `json:"provider"`
	Nickname      string           `json:"nickname"`
	Status        ConnectionStatus `json:"status"`
	LastValidated *time.Time       `json:"last_validated,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// =============================================================================
// CONNECTION DRAFT
// =============================================================================

// DefaultRegion is the region pre-filled into a new connection draft.
const DefaultRegion = "us-east-1"

// ConnectionDraft is the transient registration form state. It exists only
// while the form is open and is discarded on cancel or successful submit.
type ConnectionDraft struct {
	Provider  Provider
	Nickname  string
	AccessKey string
	SecretKey string
	Region    string
}

// NewConnectionDraft returns a draft with default values.
func NewConnectionDraft() ConnectionDraft {
	return ConnectionDraft{
		Provider: ProviderAWS,
		Region:   DefaultRegion,
	}
}
