// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package connections provides the credential registrar view for the
// ragdash TUI.
package connections

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/YatinKande/aws-docs-rag-bot/internal/api"
	"github.com/YatinKande/aws-docs-rag-bot/internal/logging"
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/components"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
	"github.com/YatinKande/aws-docs-rag-bot/internal/util"
)

// =============================================================================
// CONNECTIONS MODEL
// =============================================================================

// mode is the view's interaction state. The form and the delete overlay
// are mutually exclusive with the list.
type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// Model is the Bubble Tea model for the connections view.
type Model struct {
	theme   *styles.Theme
	gateway api.Gateway
	logger  *zap.Logger

	width  int
	height int

	mode        mode
	connections []model.Connection

	connTable table.Model
	form      *registrationForm
	banner    components.Banner

	// deleteTarget is the connection awaiting confirmation while the
	// overlay is up.
	deleteTarget *model.Connection
}

// New creates a connections model wired to the given gateway.
func New(theme *styles.Theme, gateway api.Gateway) Model {
	columns := []table.Column{
		{Title: "Nickname", Width: 24},
		{Title: "Provider", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Last Validated", Width: 18},
	}
	connTable := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
		table.WithFocused(true),
	)

	return Model{
		theme:     theme,
		gateway:   gateway,
		logger:    logging.L().Named("connections"),
		mode:      modeList,
		connTable: connTable,
	}
}

// Init is a no-op; loading starts with Mount.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mount loads the connection list.
func (m *Model) Mount() tea.Cmd {
	return m.loadCmd()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - 6
	if tableHeight < 4 {
		tableHeight = 4
	}
	m.connTable.SetHeight(tableHeight)
}

// Connections exposes the cached list, primarily for tests.
func (m Model) Connections() []model.Connection {
	return m.connections
}

// FormOpen reports whether the registration form is showing.
func (m Model) FormOpen() bool {
	return m.mode == modeForm
}

// ConfirmingDelete reports whether the delete overlay is up.
func (m Model) ConfirmingDelete() bool {
	return m.mode == modeConfirmDelete
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadCmd fetches the connection list.
func (m Model) loadCmd() tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		conns, err := gateway.ListConnections(context.Background())
		return ConnectionsMsg{Connections: conns, Err: err}
	}
}

// createCmd registers the draft. Secrets travel in the credentials
// payload; provider and nickname stay top-level.
func (m Model) createCmd(draft model.ConnectionDraft) tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		creds := api.Credentials{
			AccessKey: draft.AccessKey,
			SecretKey: draft.SecretKey,
			Region:    draft.Region,
		}
		conn, err := gateway.CreateConnection(context.Background(), draft.Provider, draft.Nickname, creds)
		return CreateDoneMsg{Connection: conn, Nickname: draft.Nickname, Err: err}
	}
}

// deleteCmd removes a connection by id.
func (m Model) deleteCmd(id string) tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		err := gateway.DeleteConnection(context.Background(), id)
		return DeleteDoneMsg{ID: id, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the connections view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}

	case ConnectionsMsg:
		if msg.Err != nil {
			// Invisible to the user; the prior list stays.
			m.logger.Warn("connection list load failed", zap.Error(msg.Err))
			return m, nil
		}
		m.connections = msg.Connections
		m.connTable.SetRows(m.tableRows())
		return m, nil

	case CreateDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("credential registration failed",
				zap.String("nickname", msg.Nickname),
				zap.Error(msg.Err))
			m.banner.ShowError("Could not register " + msg.Nickname + ": " + msg.Err.Error())
		} else {
			m.banner.ShowSuccess("Registered " + msg.Nickname)
		}
		// Reload regardless of outcome.
		return m, m.loadCmd()

	case DeleteDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("credential removal failed",
				zap.String("id", msg.ID),
				zap.Error(msg.Err))
			m.banner.ShowError("Delete failed: " + msg.Err.Error())
		} else {
			m.banner.ShowSuccess("Credential removed")
		}
		return m, m.loadCmd()
	}

	return m, nil
}

// updateList handles keys while the plain list is showing.
func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.mode = modeForm
		m.form = newRegistrationForm()
		m.banner.Dismiss()
		return m, nil
	case "d", "delete":
		if target := m.selectedConnection(); target != nil {
			m.mode = modeConfirmDelete
			m.deleteTarget = target
		}
		return m, nil
	case "r":
		return m, m.loadCmd()
	case "esc":
		m.banner.Dismiss()
		return m, nil
	}

	var cmd tea.Cmd
	m.connTable, cmd = m.connTable.Update(msg)
	return m, cmd
}

// updateForm handles keys while the registration form is open.
func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel discards the draft wholesale.
		m.mode = modeList
		m.form = nil
		return m, nil
	case "tab", "shift+tab":
		if msg.String() == "tab" {
			m.form.NextField()
		} else {
			m.form.PrevField()
		}
		return m, nil
	case "ctrl+p":
		m.form.CycleProvider()
		return m, nil
	case "enter":
		if !m.form.Complete() {
			m.banner.ShowError("All fields are required")
			return m, nil
		}
		draft := m.form.Draft()
		// The form closes immediately; the outcome lands on the
		// status line after the round trip.
		m.mode = modeList
		m.form = nil
		return m, m.createCmd(draft)
	}

	return m, m.form.Update(msg)
}

// updateConfirm handles the delete confirmation overlay.
func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.deleteTarget
		m.mode = modeList
		m.deleteTarget = nil
		if target == nil {
			return m, nil
		}
		return m, m.deleteCmd(target.ID)
	case "n", "N", "esc":
		// Declined: no backend call.
		m.mode = modeList
		m.deleteTarget = nil
		return m, nil
	}
	return m, nil
}

// selectedConnection resolves the table cursor to a connection.
func (m Model) selectedConnection() *model.Connection {
	idx := m.connTable.Cursor()
	if idx < 0 || idx >= len(m.connections) {
		return nil
	}
	conn := m.connections[idx]
	return &conn
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the list, form or confirmation overlay.
func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		return m.form.View(m.theme, m.width)
	}

	var sections []string
	sections = append(sections, m.theme.PanelTitle.Render("Connections"))

	if len(m.connections) == 0 {
		sections = append(sections, m.theme.EmptyState.Render("No credentials registered."))
	} else {
		sections = append(sections, m.connTable.View())
	}

	if m.mode == modeConfirmDelete && m.deleteTarget != nil {
		prompt := "Delete \"" + m.deleteTarget.Nickname + "\"? This cannot be undone. (y/n)"
		sections = append(sections, m.theme.StatusBad.Render(prompt))
	} else {
		sections = append(sections, m.statusLine())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusLine() string {
	if m.banner.Visible() {
		return m.banner.View(m.width)
	}
	return m.theme.Help.Render("n new  d delete  r refresh")
}

// tableRows converts the cached connections into table rows.
func (m Model) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.connections))
	for _, conn := range m.connections {
		validated := "never"
		if conn.LastValidated != nil {
			validated = conn.LastValidated.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			util.TruncateWidth(conn.Nickname, 24),
			conn.Provider.DisplayName(),
			m.theme.ConnStatus(string(conn.Status)).Render(string(conn.Status)),
			validated,
		})
	}
	return rows
}
