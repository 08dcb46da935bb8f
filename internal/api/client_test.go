// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/" {
			t.Errorf("path = %q, want /chat/", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var req map[string]string
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("request body not JSON: %v", err)
		}
		if req["query"] != "hello" {
			t.Errorf("query = %q, want 'hello'", req["query"])
		}
		if req["selected_source"] != "auto" {
			t.Errorf("selected_source = %q, want 'auto'", req["selected_source"])
		}
		if req["selected_db"] != "faiss" {
			t.Errorf("selected_db = %q, want 'faiss'", req["selected_db"])
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"answer":"hi","source_type":"api"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Chat(context.Background(), "hello", model.FilterAuto, model.EngineFAISS)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if result.Answer != "hi" {
		t.Errorf("Answer = %q, want 'hi'", result.Answer)
	}
	if result.SourceType != model.SourceAPI {
		t.Errorf("SourceType = %q, want 'api'", result.SourceType)
	}
}

func TestChat_UnknownSourceDegradesToNone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"answer":"hi","source_type":"telepathy"}`)
	}))
	defer server.Close()

	result, err := NewClient(server.URL).Chat(context.Background(), "q", model.FilterAuto, model.EngineFAISS)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if result.SourceType != model.SourceNone {
		t.Errorf("SourceType = %q, want 'none'", result.SourceType)
	}
}

func TestChat_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chat(context.Background(), "q", model.FilterAuto, model.EngineFAISS)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestChat_ConnectionRefused(t *testing.T) {
	// Point at a closed port.
	client := NewClient("http://127.0.0.1:1").WithMaxRetries(0).WithTimeout(2 * time.Second)

	_, err := client.Chat(context.Background(), "q", model.FilterAuto, model.EngineFAISS)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestListDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/" {
			t.Errorf("path = %q, want /documents/", r.URL.Path)
		}
		io.WriteString(w, `[
			{"id":"d1","filename":"a.pdf","file_type":"pdf","status":"completed","database":"faiss","chunk_count":12},
			{"id":"d2","filename":"b.txt","file_type":"txt","status":"processing","database":"chroma"}
		]`)
	}))
	defer server.Close()

	docs, err := NewClient(server.URL).ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Status != model.DocCompleted {
		t.Errorf("docs[0].Status = %q, want 'completed'", docs[0].Status)
	}
	if docs[0].ChunkCount != 12 {
		t.Errorf("docs[0].ChunkCount = %d, want 12", docs[0].ChunkCount)
	}
	if docs[1].Engine != model.EngineChroma {
		t.Errorf("docs[1].Engine = %q, want 'chroma'", docs[1].Engine)
	}
}

func TestListDocuments_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	docs, err := NewClient(server.URL).WithMaxRetries(3).ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments after retries: %v", err)
	}
	if docs == nil {
		t.Error("expected empty document slice")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("backend called %d times, want 3", got)
	}
}

func TestUploadDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/upload" {
			t.Errorf("path = %q, want /documents/upload", r.URL.Path)
		}
		if got := r.URL.Query().Get("database"); got != "lancedb" {
			t.Errorf("database = %q, want 'lancedb'", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "notes.txt" {
			t.Errorf("filename = %q, want 'notes.txt'", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "hello docs" {
			t.Errorf("file content = %q", data)
		}

		io.WriteString(w, `{"message":"File uploaded successfully!"}`)
	}))
	defer server.Close()

	msg, err := NewClient(server.URL).UploadDocument(context.Background(), "notes.txt", []byte("hello docs"), model.EngineLanceDB)
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if msg != "File uploaded successfully!" {
		t.Errorf("message = %q", msg)
	}
}

func TestUploadDocument_EmptyRejectedLocally(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := NewClient(server.URL).UploadDocument(context.Background(), "empty.txt", nil, model.EngineFAISS)
	if !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("err = %v, want ErrEmptyUpload", err)
	}
	if called {
		t.Error("empty upload should not reach the backend")
	}
}

// =============================================================================
// CONNECTION TESTS
// =============================================================================

func TestListConnections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api-keys/" {
			t.Errorf("path = %q, want /api-keys/", r.URL.Path)
		}
		io.WriteString(w, `[{"id":"k1","provider":"aws","nickname":"prod","status":"active","created_at":"2025-06-01T10:00:00Z"}]`)
	}))
	defer server.Close()

	conns, err := NewClient(server.URL).ListConnections(context.Background())
	if err != nil {
		t.Fatalf("ListConnections: %v", err)
	}
	if len(conns) != 1 {
		t.Fatalf("len(conns) = %d, want 1", len(conns))
	}
	if conns[0].Provider != model.ProviderAWS {
		t.Errorf("Provider = %q, want 'aws'", conns[0].Provider)
	}
	if conns[0].Status != model.ConnActive {
		t.Errorf("Status = %q, want 'active'", conns[0].Status)
	}
}

func TestCreateConnection_SecretsShapeAndNoEcho(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var req struct {
			Provider    string            `json:"provider"`
			Nickname    string            `json:"nickname"`
			Credentials map[string]string `json:"credentials"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("body not JSON: %v", err)
		}
		if req.Provider != "aws" || req.Nickname != "prod" {
			t.Errorf("top-level fields = %q/%q", req.Provider, req.Nickname)
		}
		if req.Credentials["access_key"] != "AKIA123" {
			t.Errorf("access_key = %q", req.Credentials["access_key"])
		}
		if req.Credentials["secret_key"] != "shh" {
			t.Errorf("secret_key = %q", req.Credentials["secret_key"])
		}
		if req.Credentials["region"] != "us-east-1" {
			t.Errorf("region = %q", req.Credentials["region"])
		}
		// Nickname and provider must not ride inside the secret payload.
		if _, ok := req.Credentials["nickname"]; ok {
			t.Error("nickname leaked into credentials payload")
		}

		io.WriteString(w, `{"id":"k2","provider":"aws","nickname":"prod","status":"active","created_at":"2025-06-01T10:00:00Z"}`)
	}))
	defer server.Close()

	conn, err := NewClient(server.URL).CreateConnection(context.Background(), model.ProviderAWS, "prod",
		Credentials{AccessKey: "AKIA123", SecretKey: "shh", Region: "us-east-1"})
	if err != nil {
		t.Fatalf("CreateConnection: %v", err)
	}
	if conn.ID != "k2" {
		t.Errorf("ID = %q, want 'k2'", conn.ID)
	}
}

func TestDeleteConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/api-keys/k1" {
			t.Errorf("path = %q, want /api-keys/k1", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := NewClient(server.URL).DeleteConnection(context.Background(), "k1"); err != nil {
		t.Fatalf("DeleteConnection: %v", err)
	}
}

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"not found", 404, `{"detail":"no such key"}`, ErrNotFound},
		{"rate limited", 429, `{"detail":"slow down"}`, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			err := NewClient(server.URL).DeleteConnection(context.Background(), "x")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError in chain", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
		})
	}
}

func TestClientErrorsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).WithMaxRetries(3).ListDocuments(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("backend called %d times, want 1 (404 is not retryable)", got)
	}
}
