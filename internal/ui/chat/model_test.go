// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/YatinKande/aws-docs-rag-bot/internal/api"
	"github.com/YatinKande/aws-docs-rag-bot/internal/evidence"
	"github.com/YatinKande/aws-docs-rag-bot/internal/export"
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

// stubGateway satisfies api.Gateway for view tests. Only Chat matters here.
type stubGateway struct {
	chatFn func(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*api.ChatResult, error)
}

func (s *stubGateway) Chat(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*api.ChatResult, error) {
	return s.chatFn(ctx, query, filter, engine)
}

func (s *stubGateway) ListDocuments(ctx context.Context) ([]model.Document, error) {
	return nil, nil
}

func (s *stubGateway) UploadDocument(ctx context.Context, filename string, data []byte, engine model.Engine) (string, error) {
	return "", nil
}

func (s *stubGateway) ListConnections(ctx context.Context) ([]model.Connection, error) {
	return nil, nil
}

func (s *stubGateway) CreateConnection(ctx context.Context, provider model.Provider, nickname string, creds api.Credentials) (*model.Connection, error) {
	return nil, nil
}

func (s *stubGateway) DeleteConnection(ctx context.Context, id string) error {
	return nil
}

// drainForResult executes a command tree until it yields a ChatResultMsg.
func drainForResult(t *testing.T, cmd tea.Cmd) (ChatResultMsg, bool) {
	t.Helper()
	if cmd == nil {
		return ChatResultMsg{}, false
	}
	switch msg := cmd().(type) {
	case ChatResultMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if res, ok := drainForResult(t, c); ok {
				return res, true
			}
		}
	}
	return ChatResultMsg{}, false
}

func TestSubmitRoundTrip(t *testing.T) {
	gw := &stubGateway{
		chatFn: func(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*api.ChatResult, error) {
			if query != "hello" {
				t.Errorf("query = %q, want hello", query)
			}
			return &api.ChatResult{Answer: "hi", SourceType: model.SourceAPI}, nil
		},
	}
	m := New(styles.NewTheme(), gw)
	m.SetSize(100, 30)

	m.input.SetValue("hello")
	cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit should issue a command")
	}
	if !m.Pending() {
		t.Error("pending should be set after submit")
	}
	if m.conversation.TurnCount() != 1 {
		t.Fatalf("turns after submit = %d, want 1 (optimistic user turn)", m.conversation.TurnCount())
	}
	if m.input.Value() != "" {
		t.Error("input should reset after submit")
	}

	result, ok := drainForResult(t, cmd)
	if !ok {
		t.Fatal("command tree produced no result message")
	}
	m, _ = m.Update(result)

	if m.Pending() {
		t.Error("pending should clear after completion")
	}
	if m.conversation.TurnCount() != 2 {
		t.Fatalf("turns after completion = %d, want 2", m.conversation.TurnCount())
	}
	last := m.conversation.LastAssistantTurn()
	if last == nil || last.Content != "hi" {
		t.Fatalf("assistant turn = %+v", last)
	}
	if last.SourceType != model.SourceAPI {
		t.Errorf("source type = %q, want api", last.SourceType)
	}
	if last.SourceDetails == nil {
		t.Error("source details should default to empty, not nil")
	}
}

func TestSubmitFailureAppendsApologyTurn(t *testing.T) {
	gw := &stubGateway{
		chatFn: func(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*api.ChatResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	m := New(styles.NewTheme(), gw)
	m.SetSize(100, 30)

	m.input.SetValue("hello")
	cmd := m.submit()
	result, ok := drainForResult(t, cmd)
	if !ok {
		t.Fatal("command tree produced no result message")
	}
	m, _ = m.Update(result)

	if m.Pending() {
		t.Error("pending should clear even on failure")
	}
	last := m.conversation.LastAssistantTurn()
	if last == nil {
		t.Fatal("failure should append an assistant turn")
	}
	if last.Content != model.ErrorTurnContent {
		t.Errorf("content = %q, want fixed apology", last.Content)
	}
	if last.SourceType != model.SourceNone {
		t.Errorf("source type = %q, want none", last.SourceType)
	}
	if m.evidenceView.Kind != evidence.KindNone {
		t.Errorf("evidence kind = %v, want neutral", m.evidenceView.Kind)
	}
}

func TestSubmitNoOpWhenEmptyOrPending(t *testing.T) {
	m := New(styles.NewTheme(), &stubGateway{})
	m.SetSize(100, 30)

	m.input.SetValue("   ")
	if cmd := m.submit(); cmd != nil {
		t.Error("whitespace-only submit should be a no-op")
	}
	if m.conversation.TurnCount() != 0 {
		t.Error("no-op submit must not append a turn")
	}

	m.pending = true
	m.input.SetValue("second question")
	if cmd := m.submit(); cmd != nil {
		t.Error("submit while pending should be a no-op")
	}
	if m.conversation.TurnCount() != 0 {
		t.Error("pending submit must not append a turn")
	}
}

func TestFilterAndEngineCycling(t *testing.T) {
	m := New(styles.NewTheme(), &stubGateway{})
	m.filter = model.FilterAuto
	m.engine = model.EngineFAISS

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.Filter() != model.FilterDocs {
		t.Errorf("filter after one cycle = %q, want docs", m.Filter())
	}

	// Engine cycles only while the docs filter is active.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.Engine() != model.EngineChroma {
		t.Errorf("engine after cycle = %q, want chroma", m.Engine())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.Filter() != model.FilterAPI {
		t.Errorf("filter after two cycles = %q, want api", m.Filter())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.Engine() != model.EngineChroma {
		t.Error("engine must not cycle outside the docs filter")
	}
}

func TestExportUsesTranscriptSnapshot(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m := New(styles.NewTheme(), &stubGateway{})
	m.conversation.AddUserTurn("hello")
	m.conversation.AddAssistantTurn("hi", model.SourceAPI, nil)

	cmd := m.exportCmd(export.FormatJSON)

	// A completion landing after the command was issued must not leak
	// into the export: the closure works on a snapshot.
	m.conversation.AddAssistantTurn("late arrival", model.SourceDocs, nil)

	done, ok := cmd().(ExportDoneMsg)
	if !ok {
		t.Fatal("export command should produce ExportDoneMsg")
	}
	if done.Err != nil {
		t.Fatalf("export error: %v", done.Err)
	}

	data, err := os.ReadFile(done.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Error("export missing the snapshotted turns")
	}
	if strings.Contains(string(data), "late arrival") {
		t.Error("export must not see turns appended after the command was issued")
	}
}

func TestRenderPlainWithCodeKeepsAllText(t *testing.T) {
	in := "Use this:\n```go\nfmt.Println(\"hi\")\n```\nDone."
	out := renderPlainWithCode(in)

	for _, want := range []string{"Use this:", "Println", "Done."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "```") {
		t.Error("fence markers should not survive rendering")
	}
}

func TestChatUsesSelectedFilterAndEngine(t *testing.T) {
	var gotFilter model.SourceFilter
	var gotEngine model.Engine
	gw := &stubGateway{
		chatFn: func(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*api.ChatResult, error) {
			gotFilter, gotEngine = filter, engine
			return &api.ChatResult{Answer: "ok", SourceType: model.SourceDocs}, nil
		},
	}
	m := New(styles.NewTheme(), gw)
	m.filter = model.FilterDocs
	m.engine = model.EngineQdrant

	m.input.SetValue("query")
	cmd := m.submit()
	if _, ok := drainForResult(t, cmd); !ok {
		t.Fatal("command tree produced no result message")
	}

	if gotFilter != model.FilterDocs || gotEngine != model.EngineQdrant {
		t.Errorf("gateway saw filter=%q engine=%q", gotFilter, gotEngine)
	}
}
