package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"threadhub/internal/tui/focus"
	"threadhub/internal/tui/views"
)

// KeyMap defines the global key bindings; thread keys live in views
type KeyMap struct {
	Quit  key.Binding
	Help  key.Binding
	Login key.Binding

	Thread views.ThreadKeyMap
}

// ShouldHandleKey returns true if a global binding may act in this mode
func (k KeyMap) ShouldHandleKey(mode focus.Mode, msg tea.KeyMsg) bool {
	if mode != focus.ModeNavigation {
		// ctrl+c always quits
		return msg.String() == "ctrl+c"
	}
	return true
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Login: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "set token"),
		),
		Thread: views.DefaultThreadKeyMap(),
	}
}

// ShortHelp returns a short help message
func (k KeyMap) ShortHelp() []key.Binding {
	t := k.Thread
	return []key.Binding{t.Down, t.Toggle, t.Comment, t.Reply, t.Like, k.Help, k.Quit}
}

// FullHelp returns the full help message
func (k KeyMap) FullHelp() [][]key.Binding {
	t := k.Thread
	return [][]key.Binding{
		{t.Up, t.Down, t.PageUp, t.PageDown, t.Top, t.Bottom},
		{t.Toggle, t.More, t.Parent, t.Refresh},
		{t.Comment, t.Reply, t.Edit, t.Delete, t.Like},
		{k.Login, k.Help, k.Quit},
	}
}
