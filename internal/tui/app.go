package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threadhub/internal/thread"
	"threadhub/internal/tui/api"
	"threadhub/internal/tui/config"
	"threadhub/internal/tui/focus"
	"threadhub/internal/tui/styles"
	"threadhub/internal/tui/views"
	"threadhub/pkg/logger"
)

// Model is the root Bubble Tea model
type Model struct {
	// Configuration
	config     *config.Config
	configPath string

	// API client and the controller of the open post
	apiClient *api.Client
	ctrl      *thread.Controller
	bridge    *views.EventBridge

	focusManager *focus.Manager
	keys         KeyMap
	help         help.Model

	showHelp  bool
	showToken bool

	// View models
	threadModel views.ThreadModel
	tokenModel  views.TokenModel

	// Transient status line message
	status string

	// Window dimensions
	width  int
	height int
}

// New creates the TUI application for cfg.Thread.PostID. configPath is where
// a token entered in the UI gets saved.
func New(cfg *config.Config, configPath string) *Model {
	apiClient := api.NewClient(cfg.GetHTTPBaseURL(), api.WithToken(cfg.Auth.Token))
	ctrl := thread.New(apiClient, cfg.Thread.PostID, thread.Options{
		PageSize:          cfg.Thread.PageSize,
		ReplyPageSize:     cfg.Thread.ReplyPageSize,
		AutoScroll:        cfg.Thread.AutoScroll,
		HighlightDuration: cfg.HighlightDuration(),
	})
	bridge := views.NewEventBridge(ctrl)
	focusMgr := focus.NewManager()
	keys := DefaultKeyMap()

	return &Model{
		config:       cfg,
		configPath:   configPath,
		apiClient:    apiClient,
		ctrl:         ctrl,
		bridge:       bridge,
		focusManager: focusMgr,
		keys:         keys,
		help:         help.New(),
		threadModel:  views.NewThreadModel(ctrl, bridge, focusMgr, keys.Thread),
		tokenModel:   views.NewTokenModel(keys.Thread),
	}
}

// Init loads the first page of the thread
func (m Model) Init() tea.Cmd {
	return m.threadModel.Init()
}

// Close stops the controller and releases the event bridge
func (m *Model) Close() {
	m.bridge.Close()
	m.ctrl.Close()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Propagate to views, leaving room for the status bar
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		var cmd tea.Cmd
		m.threadModel, cmd = m.threadModel.Update(inner)
		m.tokenModel, _ = m.tokenModel.Update(inner)
		return m, cmd

	case tea.KeyMsg:
		if m.showToken {
			return m.updateToken(msg)
		}
		if !m.keys.ShouldHandleKey(m.focusManager.Mode(), msg) {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Login):
			m.showToken = true
			m.focusManager.EnterInput()
			return m, m.tokenModel.Init()
		}

	case views.TokenSubmittedMsg:
		m.closeToken()
		m.apiClient.SetToken(msg.Token)
		m.config.Auth.Token = msg.Token
		if err := m.config.Save(m.configPath); err != nil {
			logger.WithFields(map[string]interface{}{"path": m.configPath, "error": err}).Warn("Failed to save token")
			m.status = styles.WarningStyle.Render("Token set for this session only")
		} else {
			m.status = styles.SuccessStyle.Render("✓ Token saved")
		}
		return m, nil

	case views.TokenCancelledMsg:
		m.closeToken()
		return m, nil
	}

	var cmd tea.Cmd
	m.threadModel, cmd = m.threadModel.Update(msg)
	return m, cmd
}

func (m Model) updateToken(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.tokenModel, cmd = m.tokenModel.Update(msg)
	return m, cmd
}

func (m *Model) closeToken() {
	m.showToken = false
	m.focusManager.ExitInputMode()
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.showToken {
		content = m.tokenModel.View()
	} else {
		content = m.threadModel.View()
	}

	parts := []string{content}
	if m.showHelp {
		parts = append(parts, m.help.View(m.keys))
	}
	parts = append(parts, m.renderStatusBar())

	return styles.AppStyle.Render(strings.Join(parts, "\n\n"))
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	left := styles.StatusBarActiveStyle.Render("● " + m.focusManager.Mode().String())

	user := "anonymous"
	if m.apiClient.GetToken() != "" {
		user = "signed in"
	}
	rightText := m.apiClient.BaseURL() + " | " + user + " | a token | ? help | q quit"
	if m.status != "" {
		rightText = m.status + " | " + rightText
	}
	right := styles.StatusBarStyle.Render(rightText)

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if spacing < 0 {
		spacing = 0
	}

	return left + strings.Repeat(" ", spacing) + right
}
