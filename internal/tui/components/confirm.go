package components

import (
	"threadhub/internal/tui/styles"
)

// ButtonState represents button states
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonActive
	ButtonLoading
)

// Button is a dialog button
type Button struct {
	label string
	state ButtonState
}

// View renders the button
func (b Button) View() string {
	switch b.state {
	case ButtonActive:
		return styles.ButtonActiveStyle.Render("[ " + b.label + " ]")
	case ButtonLoading:
		return styles.ButtonActiveStyle.Render("[ ⟳ " + b.label + "... ]")
	default:
		return styles.ButtonStyle.Render("[ " + b.label + " ]")
	}
}

// Confirm is a yes/no dialog. The target identifies what is being confirmed,
// typically a comment id.
type Confirm struct {
	title   string
	body    string
	target  string
	yes     Button
	no      Button
	focused bool // true while "yes" is selected
	open    bool
}

// NewConfirm creates a closed dialog with the given button labels
func NewConfirm(yesLabel, noLabel string) Confirm {
	return Confirm{
		yes: Button{label: yesLabel},
		no:  Button{label: noLabel, state: ButtonActive},
	}
}

// Open shows the dialog with "no" preselected
func (c *Confirm) Open(title, body, target string) {
	c.title = title
	c.body = body
	c.target = target
	c.open = true
	c.focused = false
	c.syncButtons()
}

// Close hides the dialog
func (c *Confirm) Close() {
	c.open = false
	c.target = ""
}

// IsOpen reports whether the dialog is visible
func (c Confirm) IsOpen() bool {
	return c.open
}

// Target returns what the dialog asks about
func (c Confirm) Target() string {
	return c.target
}

// Toggle moves the selection to the other button
func (c *Confirm) Toggle() {
	c.focused = !c.focused
	c.syncButtons()
}

// Accepted reports whether "yes" is selected
func (c Confirm) Accepted() bool {
	return c.focused
}

func (c *Confirm) syncButtons() {
	c.yes.state, c.no.state = ButtonNormal, ButtonNormal
	if c.focused {
		c.yes.state = ButtonActive
	} else {
		c.no.state = ButtonActive
	}
}

// View renders the dialog, or nothing when closed
func (c Confirm) View() string {
	if !c.open {
		return ""
	}
	return styles.DialogStyle.Render(
		styles.DialogTitleStyle.Render(c.title) + "\n\n" +
			c.body + "\n\n" +
			c.yes.View() + c.no.View(),
	)
}
