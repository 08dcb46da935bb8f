// ragdash - a terminal dashboard for an AI assistant backed by a RAG service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/YatinKande/aws-docs-rag-bot/internal/api"
	"github.com/YatinKande/aws-docs-rag-bot/internal/config"
	"github.com/YatinKande/aws-docs-rag-bot/internal/logging"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/chat"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/connections"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/knowledge"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.ragdash/config.toml)")
		backendURL  = flag.String("backend", "", "backend base URL override")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ragdash %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// The dashboard owns the whole screen; refuse to start piped.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: ragdash requires an interactive terminal")
		os.Exit(1)
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := applyBackendOverride(cfg, *backendURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --backend value: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	logger := logging.Init(cfg.LogPath(), cfg.Log.Level)
	defer logger.Sync()
	logger.Info("ragdash starting",
		zap.String("version", Version),
		zap.String("backend", cfg.Backend.BaseURL))

	client := api.NewClient(cfg.Backend.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithMaxRetries(cfg.Backend.MaxRetries).
		WithRateLimit(cfg.Backend.RequestsPerSec).
		WithLogger(logger.Named("api"))

	theme := styles.NewTheme()
	m := newAppModel(theme, client, cfg)
	defer m.knowledge.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running ragdash: %v\n", err)
		os.Exit(1)
	}
}

// applyBackendOverride swaps in the --backend flag value and re-validates
// the config. config.Load already validated the file, so the override has
// to go through the same checks.
func applyBackendOverride(cfg *config.Config, baseURL string) error {
	if baseURL == "" {
		return nil
	}
	cfg.Backend.BaseURL = strings.TrimRight(baseURL, "/")
	return cfg.Validate()
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// tab identifies one of the three dashboard views.
type tab int

const (
	tabChat tab = iota
	tabKnowledge
	tabConnections
)

var tabNames = []string{"Chat", "Knowledge Base", "Connections"}

// appModel is the root Bubble Tea model composing the three views.
type appModel struct {
	theme  *styles.Theme
	config *config.Config

	width  int
	height int

	active tab

	chat        chat.Model
	knowledge   knowledge.Model
	connections connections.Model
}

// newAppModel builds the root model with all three views wired to the
// same gateway client.
func newAppModel(theme *styles.Theme, gateway api.Gateway, cfg *config.Config) appModel {
	return appModel{
		theme:       theme,
		config:      cfg,
		active:      tabChat,
		chat:        chat.New(theme, gateway),
		knowledge:   knowledge.New(theme, gateway),
		connections: connections.New(theme, gateway),
	}
}

// Init starts the chat view; the other views mount on first switch-in.
func (m appModel) Init() tea.Cmd {
	return m.chat.Init()
}

// Update routes messages. Async completion messages go to their owning
// view regardless of which tab is showing, so a switched-away view still
// closes its pending brackets.
func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - 3 // header + status bar
		m.chat.SetSize(msg.Width, contentHeight)
		m.knowledge.SetSize(msg.Width, contentHeight)
		m.connections.SetSize(msg.Width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.active + 1) % 3)
		case "shift+tab":
			return m.switchTab((m.active + 2) % 3)
		}
		return m.routeToActive(msg)

	// Chat owns its completion messages.
	case chat.ChatResultMsg, chat.ExportDoneMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	// Knowledge owns polling, uploads and drop events.
	case knowledge.PollTickMsg, knowledge.DocumentsMsg, knowledge.UploadDoneMsg, knowledge.DropFileMsg:
		var cmd tea.Cmd
		m.knowledge, cmd = m.knowledge.Update(msg)
		return m, cmd

	// Connections owns its list and mutation outcomes.
	case connections.ConnectionsMsg, connections.CreateDoneMsg, connections.DeleteDoneMsg:
		var cmd tea.Cmd
		m.connections, cmd = m.connections.Update(msg)
		return m, cmd
	}

	return m.routeToActive(msg)
}

// switchTab changes the active view, driving the knowledge view's mount
// lifecycle so its poll generation advances.
func (m appModel) switchTab(next tab) (tea.Model, tea.Cmd) {
	if next == m.active {
		return m, nil
	}

	if m.active == tabKnowledge {
		m.knowledge.Unmount()
	}
	m.active = next

	switch next {
	case tabKnowledge:
		cmd := m.knowledge.Mount()
		return m, cmd
	case tabConnections:
		cmd := m.connections.Mount()
		return m, cmd
	default:
		return m, nil
	}
}

// routeToActive forwards a message to the visible view only.
func (m appModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case tabKnowledge:
		m.knowledge, cmd = m.knowledge.Update(msg)
	case tabConnections:
		m.connections, cmd = m.connections.Update(msg)
	default:
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, the active view and the status bar.
func (m appModel) View() string {
	if m.width == 0 {
		return "Starting ragdash..."
	}

	var body string
	switch m.active {
	case tabKnowledge:
		body = m.knowledge.View()
	case tabConnections:
		body = m.connections.View()
	default:
		body = m.chat.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.statusBarView(),
	)
}

func (m appModel) headerView() string {
	title := m.theme.HeaderTitle.Render("ragdash")

	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.active {
			tabs = append(tabs, m.theme.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(name))
		}
	}

	return m.theme.Header.
		Width(m.width).
		Render(title + "  " + strings.Join(tabs, " "))
}

func (m appModel) statusBarView() string {
	left := m.config.Backend.BaseURL
	if m.chat.Pending() {
		left += "  " + m.theme.StatusWarn.Render("request in flight")
	}
	if m.knowledge.Uploading() {
		left += "  " + m.theme.StatusWarn.Render("uploading")
	}

	help := m.theme.StatusBarKey.Render("tab") + " switch view  " +
		m.theme.StatusBarKey.Render("^C") + " quit"

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		gap = 1
	}

	return m.theme.StatusBar.
		Width(m.width).
		Render(left + strings.Repeat(" ", gap) + help)
}
