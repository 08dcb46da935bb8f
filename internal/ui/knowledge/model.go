// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package knowledge provides the knowledge-base view for the ragdash TUI.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/YatinKande/aws-docs-rag-bot/internal/api"
	"github.com/YatinKande/aws-docs-rag-bot/internal/config"
	"github.com/YatinKande/aws-docs-rag-bot/internal/logging"
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/components"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
	"github.com/YatinKande/aws-docs-rag-bot/internal/util"
)

// =============================================================================
// KNOWLEDGE MODEL
// =============================================================================

// Model is the Bubble Tea model for the knowledge-base view. It owns the
// cached document list, the poll timer generation and the upload flag.
type Model struct {
	theme   *styles.Theme
	gateway api.Gateway
	logger  *zap.Logger

	width  int
	height int

	// Poll state. The generation advances on every mount and unmount;
	// a tick whose generation does not match is from a dead chain.
	mounted      bool
	generation   int
	pollInterval time.Duration

	documents []model.Document
	refreshed time.Time

	uploading bool
	engine    model.Engine

	docTable  table.Model
	pathInput textinput.Model
	banner    components.Banner
	spinner   components.Spinner

	watcher *DropWatcher
	// watcherArmed is true while a receiver is blocked on the watcher
	// channel. Re-mounts must not arm a second one; the receiver is
	// re-armed only when a receive completes.
	watcherArmed bool
}

// New creates a knowledge model wired to the given gateway.
func New(theme *styles.Theme, gateway api.Gateway) Model {
	ti := textinput.New()
	ti.Prompt = "file> "
	ti.Placeholder = "Path to a document, or drop one in the watch folder"
	ti.CharLimit = 1024
	ti.Focus()

	columns := []table.Column{
		{Title: "Filename", Width: 32},
		{Title: "Type", Width: 6},
		{Title: "Status", Width: 12},
		{Title: "Engine", Width: 10},
		{Title: "Chunks", Width: 7},
		{Title: "Uploaded", Width: 16},
	}
	docTable := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
	)

	engine := model.EngineFAISS
	pollInterval := 5 * time.Second
	if cfg := config.Global(); cfg != nil {
		engine = model.Engine(cfg.Chat.DefaultEngine)
		pollInterval = cfg.PollInterval()
	}

	m := Model{
		theme:        theme,
		gateway:      gateway,
		logger:       logging.L().Named("knowledge"),
		pollInterval: pollInterval,
		engine:       engine,
		docTable:     docTable,
		pathInput:    ti,
		spinner:      components.NewSpinner("Uploading..."),
	}
	m.initWatcher()
	return m
}

// initWatcher starts the drop-folder watcher when a directory is
// configured. Watcher failures are logged and the feature is skipped.
func (m *Model) initWatcher() {
	cfg := config.Global()
	if cfg == nil || cfg.Knowledge.DropDir == "" {
		return
	}
	w, err := NewDropWatcher(cfg.Knowledge.DropDir, m.logger)
	if err != nil {
		m.logger.Warn("drop watcher unavailable",
			zap.String("dir", cfg.Knowledge.DropDir),
			zap.Error(err))
		return
	}
	m.watcher = w
}

// Init is a no-op; polling starts with Mount.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - 8
	if tableHeight < 4 {
		tableHeight = 4
	}
	m.docTable.SetHeight(tableHeight)
	m.pathInput.Width = width - 10
}

// Documents exposes the cached list, primarily for tests.
func (m Model) Documents() []model.Document {
	return m.documents
}

// Uploading reports whether an upload is in flight.
func (m Model) Uploading() bool {
	return m.uploading
}

// Generation returns the current poll generation.
func (m Model) Generation() int {
	return m.generation
}

// =============================================================================
// MOUNT / UNMOUNT
// =============================================================================

// Mount marks the view active, refreshes immediately and starts the poll
// chain for this mount's generation.
func (m *Model) Mount() tea.Cmd {
	m.mounted = true
	m.generation++

	cmds := []tea.Cmd{m.refreshCmd(), m.pollCmd(m.generation)}
	if m.watcher != nil && !m.watcherArmed {
		m.watcherArmed = true
		cmds = append(cmds, waitForDrop(m.watcher.Files()))
	}
	return tea.Batch(cmds...)
}

// Unmount marks the view inactive. Advancing the generation orphans any
// in-flight tick, so the chain dies without explicit timer bookkeeping.
func (m *Model) Unmount() {
	m.mounted = false
	m.generation++
}

// Close releases the drop watcher.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

// refreshCmd fetches the document list.
func (m Model) refreshCmd() tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		docs, err := gateway.ListDocuments(context.Background())
		return DocumentsMsg{Documents: docs, Err: err}
	}
}

// pollCmd schedules the next tick for the given generation.
func (m Model) pollCmd(generation int) tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return PollTickMsg{Generation: generation}
	})
}

// uploadCmd reads the file and transfers it to the ingestion pipeline.
func (m Model) uploadCmd(path string, engine model.Engine) tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		filename := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return UploadDoneMsg{Filename: filename, Err: err}
		}
		msg, err := gateway.UploadDocument(context.Background(), filename, data, engine)
		return UploadDoneMsg{Filename: filename, Message: msg, Err: err}
	}
}

// waitForDrop receives the next dropped file from the watcher.
func waitForDrop(files <-chan string) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-files
		if !ok {
			return watcherClosedMsg{}
		}
		return DropFileMsg{Path: path}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the knowledge view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := m.startUpload()
			return m, cmd
		case "ctrl+e":
			m.engine = m.engine.Next()
			return m, nil
		case "ctrl+r":
			return m, m.refreshCmd()
		case "esc":
			m.banner.Dismiss()
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.docTable, cmd = m.docTable.Update(msg)
			return m, cmd
		}

	case PollTickMsg:
		if !m.mounted || msg.Generation != m.generation {
			// Orphaned tick from a previous mount.
			return m, nil
		}
		return m, tea.Batch(m.refreshCmd(), m.pollCmd(msg.Generation))

	case DocumentsMsg:
		if msg.Err != nil {
			// Keep the last-known-good list.
			m.logger.Warn("document refresh failed", zap.Error(msg.Err))
			return m, nil
		}
		m.documents = msg.Documents
		m.refreshed = time.Now()
		m.docTable.SetRows(m.tableRows())
		return m, nil

	case UploadDoneMsg:
		m.uploading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.logger.Warn("upload failed",
				zap.String("filename", msg.Filename),
				zap.Error(msg.Err))
			m.banner.ShowError("Upload of " + msg.Filename + " failed: " + msg.Err.Error())
			return m, nil
		}
		status := msg.Message
		if status == "" {
			status = msg.Filename + " uploaded"
		}
		m.banner.ShowSuccess(status)
		// Out-of-band refresh so the new document shows up before the
		// next poll tick.
		return m, m.refreshCmd()

	case DropFileMsg:
		m.pathInput.SetValue(msg.Path)
		m.banner.ShowInfo("Detected " + filepath.Base(msg.Path) + " in the drop folder")
		if m.watcher != nil {
			return m, waitForDrop(m.watcher.Files())
		}
		m.watcherArmed = false
		return m, nil

	case watcherClosedMsg:
		m.watcherArmed = false
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	m.pathInput, cmd = m.pathInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// startUpload begins the upload lifecycle: prior status and the file
// selection are cleared up front, so a failed upload leaves nothing
// half-selected.
func (m *Model) startUpload() tea.Cmd {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" || m.uploading {
		return nil
	}

	m.banner.Dismiss()
	m.pathInput.Reset()
	m.uploading = true

	tick := m.spinner.Start()
	return tea.Batch(tick, m.uploadCmd(path, m.engine))
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the document table, upload input and status line.
func (m Model) View() string {
	var sections []string

	title := m.theme.PanelTitle.Render("Knowledge Base")
	if !m.refreshed.IsZero() {
		title += "  " + m.theme.StatusMuted.Render("updated "+m.refreshed.Format("15:04:05"))
	}
	sections = append(sections, title)

	if len(m.documents) == 0 {
		sections = append(sections, m.theme.EmptyState.Render("No documents ingested yet."))
	} else {
		sections = append(sections, m.docTable.View())
	}

	inputBox := m.theme.InputContainer.
		Width(m.width - 2).
		Render(m.pathInput.View())
	sections = append(sections, inputBox)

	sections = append(sections, m.statusLine())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusLine() string {
	if m.spinner.IsActive() {
		return m.spinner.View()
	}
	if m.banner.Visible() {
		return m.banner.View(m.width)
	}

	parts := []string{
		m.theme.EngineBadge.Render("engine: " + m.engine.DisplayName()),
		m.theme.Help.Render("enter upload  ^E engine  ^R refresh"),
	}
	return strings.Join(parts, "  ")
}

// tableRows converts the cached documents into table rows.
func (m Model) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.documents))
	for _, doc := range m.documents {
		uploaded := ""
		if !doc.UploadDate.IsZero() {
			uploaded = doc.UploadDate.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			util.TruncateWidth(doc.Filename, 32),
			strings.ToUpper(strings.TrimPrefix(doc.FileType, ".")),
			m.theme.DocStatus(string(doc.Status)).Render(string(doc.Status)),
			doc.Engine.DisplayName(),
			fmt.Sprintf("%d", doc.ChunkCount),
			uploaded,
		})
	}
	return rows
}
