package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threadhub/internal/tui/components"
	"threadhub/internal/tui/styles"
)

// TokenSubmittedMsg carries the token the user entered
type TokenSubmittedMsg struct {
	Token string
}

// TokenCancelledMsg is sent when the user leaves the token prompt
type TokenCancelledMsg struct{}

// TokenModel prompts for an access token
type TokenModel struct {
	input components.Input
	keys  ThreadKeyMap
	width int
}

// NewTokenModel creates the token prompt
func NewTokenModel(keys ThreadKeyMap) TokenModel {
	return TokenModel{
		input: components.NewPasswordInput("Access token"),
		keys:  keys,
		width: 80,
	}
}

// Init focuses the input
func (m *TokenModel) Init() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}

// Update handles messages
func (m TokenModel) Update(msg tea.Msg) (TokenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(msg.Width / 2)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.input.Blur()
			return m, func() tea.Msg { return TokenCancelledMsg{} }
		case key.Matches(msg, m.keys.Submit):
			token := strings.TrimSpace(m.input.Value())
			if token == "" {
				m.input.SetError("token is required")
				return m, nil
			}
			m.input.Blur()
			return m, func() tea.Msg { return TokenSubmittedMsg{Token: token} }
		}
	}

	return m, m.input.Update(msg)
}

// View renders the prompt
func (m TokenModel) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitleStyle.Render("🔐 Sign in"),
		styles.HelpStyle.Render("Paste a token from `threadhub-server token`."),
		"",
		m.input.View(),
		"",
		styles.HelpStyle.Render("Enter save • Esc cancel"),
	)
	return lipgloss.Place(m.width, 12, lipgloss.Center, lipgloss.Center, styles.DialogStyle.Render(body))
}
