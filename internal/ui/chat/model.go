// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the ragdash TUI.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/YatinKande/aws-docs-rag-bot/internal/api"
	"github.com/YatinKande/aws-docs-rag-bot/internal/config"
	"github.com/YatinKande/aws-docs-rag-bot/internal/evidence"
	"github.com/YatinKande/aws-docs-rag-bot/internal/export"
	"github.com/YatinKande/aws-docs-rag-bot/internal/logging"
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/components"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It is the single writer
// for the transcript and the pending flag.
type Model struct {
	theme   *styles.Theme
	gateway api.Gateway
	logger  *zap.Logger

	width  int
	height int

	conversation *model.Conversation
	pending      bool

	// Retrieval selectors. The engine only matters for docs queries but
	// the selection survives filter changes.
	filter model.SourceFilter
	engine model.Engine

	evidenceView  evidence.View
	evidencePanel components.EvidencePanel

	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner

	markdown *glamour.TermRenderer

	statusMsg string
}

// New creates a chat model wired to the given gateway.
func New(theme *styles.Theme, gateway api.Gateway) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your AWS environment..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	filter := model.FilterAuto
	engine := model.EngineFAISS
	if cfg := config.Global(); cfg != nil {
		filter = model.SourceFilter(cfg.Chat.DefaultFilter)
		engine = model.Engine(cfg.Chat.DefaultEngine)
	}

	// Markdown rendering degrades to plain text if the renderer cannot
	// be constructed.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		renderer = nil
	}

	return Model{
		theme:         theme,
		gateway:       gateway,
		logger:        logging.L().Named("chat"),
		conversation:  model.NewConversation(),
		filter:        filter,
		engine:        engine,
		evidencePanel: components.NewEvidencePanel(theme),
		viewport:      vp,
		input:         ti,
		spinner:       components.NewSpinner("Thinking..."),
		markdown:      renderer,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	transcriptWidth := width - m.panelWidth()
	vpHeight := height - 4 // input container + status line
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = transcriptWidth
	m.viewport.Height = vpHeight
	m.input.Width = width - 6
	m.refreshTranscript()
}

// Pending reports whether a chat request is in flight.
func (m Model) Pending() bool {
	return m.pending
}

// Conversation exposes the transcript, primarily for export and tests.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// Filter returns the active retrieval-source filter.
func (m Model) Filter() model.SourceFilter {
	return m.filter
}

// Engine returns the selected storage engine.
func (m Model) Engine() model.Engine {
	return m.engine
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := m.submit()
			return m, cmd
		case "ctrl+f":
			m.filter = m.filter.Next()
			return m, nil
		case "ctrl+e":
			if m.filter == model.FilterDocs {
				m.engine = m.engine.Next()
			}
			return m, nil
		case "ctrl+s":
			return m, m.exportCmd(export.FormatMarkdown)
		case "ctrl+j":
			return m, m.exportCmd(export.FormatJSON)
		case "esc":
			m.statusMsg = ""
			return m, nil
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case ChatResultMsg:
		// The pending bracket closes here on every path.
		m.pending = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.logger.Warn("chat request failed", zap.Error(msg.Err))
			m.conversation.AddErrorTurn()
		} else {
			m.conversation.AddAssistantTurn(msg.Result.Answer, msg.Result.SourceType, msg.Result.SourceDetails)
		}
		m.evidenceView = evidence.Project(m.conversation)
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("transcript export failed", zap.Error(msg.Err))
			m.statusMsg = "Export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Transcript saved to " + msg.Path
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit appends the user turn and issues the gateway request. A no-op
// while a request is pending or when the input trims to empty.
func (m *Model) submit() tea.Cmd {
	query := strings.TrimSpace(m.input.Value())
	if query == "" || m.pending {
		return nil
	}

	m.conversation.AddUserTurn(query)
	m.input.Reset()
	m.pending = true
	m.statusMsg = ""
	m.evidenceView = evidence.Project(m.conversation)
	m.refreshTranscript()
	m.viewport.GotoBottom()

	tick := m.spinner.Start()
	return tea.Batch(tick, m.chatCmd(query, m.filter, m.engine))
}

// chatCmd performs the backend call off the update loop. The returned
// message always carries the outcome; errors never escape the view.
func (m Model) chatCmd(query string, filter model.SourceFilter, engine model.Engine) tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		result, err := gateway.Chat(context.Background(), query, filter, engine)
		return ChatResultMsg{Result: result, Err: err}
	}
}

// exportCmd writes the transcript to the export directory. The snapshot
// is taken here, on the update loop; the command goroutine must not read
// the live transcript while completions append to it.
func (m Model) exportCmd(format export.Format) tea.Cmd {
	conv := m.conversation.Snapshot()
	return func() tea.Msg {
		path, err := export.Transcript(conv, format)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the transcript, evidence panel, input and status line.
func (m Model) View() string {
	panelW := m.panelWidth()

	transcript := m.viewport.View()
	panel := m.evidencePanel.Render(m.evidenceView, panelW, m.viewport.Height+2)
	body := lipgloss.JoinHorizontal(lipgloss.Top, transcript, panel)

	inputBox := m.theme.InputContainer.
		Width(m.width - 2).
		Render(m.input.View())

	status := m.statusLine()

	return lipgloss.JoinVertical(lipgloss.Left, body, inputBox, status)
}

func (m Model) panelWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 48 {
		w = 48
	}
	return w
}

func (m Model) statusLine() string {
	if m.spinner.IsActive() {
		return m.spinner.View()
	}
	if m.statusMsg != "" {
		return m.theme.StatusMuted.Render(m.statusMsg)
	}

	parts := []string{
		m.theme.FilterBadge.Render("filter: " + m.filter.DisplayName()),
	}
	if m.filter == model.FilterDocs {
		parts = append(parts, m.theme.EngineBadge.Render("engine: "+m.engine.DisplayName()))
	}
	parts = append(parts, m.theme.Help.Render("^F filter  ^E engine  ^S export"))
	return strings.Join(parts, "  ")
}

// refreshTranscript re-renders the conversation into the viewport.
func (m *Model) refreshTranscript() {
	width := m.viewport.Width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, turn := range m.conversation.Turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTurn(turn, width))
		b.WriteString("\n")
	}
	if m.conversation.IsEmpty() {
		b.WriteString(m.theme.EmptyState.Render("Ask a question to get started."))
	}
	m.viewport.SetContent(b.String())
}

func (m Model) renderTurn(turn model.Turn, width int) string {
	meta := turn.Role.DisplayName() + "  " + turn.Timestamp.Format(time.Kitchen)

	var bubble lipgloss.Style
	content := turn.Content
	switch {
	case turn.Role == model.RoleUser:
		bubble = m.theme.UserBubble
	case turn.Content == model.ErrorTurnContent:
		bubble = m.theme.ErrorBubble
	default:
		bubble = m.theme.AssistantBubble
		content = m.renderMarkdown(content)
		if turn.SourceType != model.SourceNone && turn.SourceType != "" {
			meta += "  " + m.theme.SourceBadge(string(turn.SourceType)).Render(turn.SourceType.Label())
		}
	}

	return m.theme.TurnMeta.Render(meta) + "\n" + bubble.Width(width).Render(content)
}

// renderMarkdown renders assistant answers through glamour. When the
// renderer is unavailable or fails, fenced code blocks still get syntax
// highlighting via the plain fallback.
func (m Model) renderMarkdown(content string) string {
	if m.markdown != nil {
		if out, err := m.markdown.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return renderPlainWithCode(content)
}

// renderPlainWithCode passes prose through untouched and highlights
// fenced code blocks.
func renderPlainWithCode(content string) string {
	lines := strings.Split(content, "\n")

	var out []string
	var code []string
	var lang string
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				block := components.NewCodeBlock(lang, strings.Join(code, "\n"))
				out = append(out, block.Render())
				code = nil
				inFence = false
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
				inFence = true
			}
			continue
		}
		if inFence {
			code = append(code, line)
			continue
		}
		out = append(out, line)
	}
	if inFence {
		// Unterminated fence: emit what we have.
		block := components.NewCodeBlock(lang, strings.Join(code, "\n"))
		out = append(out, block.Render())
	}
	return strings.Join(out, "\n")
}
