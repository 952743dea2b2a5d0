package views

import "github.com/charmbracelet/bubbles/key"

// ThreadKeyMap holds the bindings of the thread view
type ThreadKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Toggle  key.Binding
	More    key.Binding
	Parent  key.Binding
	Refresh key.Binding

	Comment key.Binding
	Reply   key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Like    key.Binding

	// Input and dialog modes
	Submit  key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Deny    key.Binding
	Switch  key.Binding
}

// DefaultThreadKeyMap returns the default thread bindings
func DefaultThreadKeyMap() ThreadKeyMap {
	return ThreadKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "u"),
			key.WithHelp("pgup/u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "d"),
			key.WithHelp("pgdown/d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),

		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "show/hide replies"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Parent: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "go to parent"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "R"),
			key.WithHelp("ctrl+r", "reload"),
		),

		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Like: key.NewBinding(
			key.WithKeys("f", "+"),
			key.WithHelp("f", "like"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch"),
		),
	}
}
