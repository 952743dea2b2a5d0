package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threadhub/internal/tui/styles"
	"threadhub/pkg/models"
)

// Input is a labelled single-line input with validation
type Input struct {
	textInput textinput.Model
	label     string
	error     string
	validator func(string) error
}

// NewCommentInput creates an input for comment bodies
func NewCommentInput() Input {
	ti := textinput.New()
	ti.Placeholder = "Write a comment..."
	ti.CharLimit = models.MaxCommentLength
	ti.Width = 60

	return Input{
		textInput: ti,
		label:     "New comment",
		validator: func(s string) error {
			_, err := models.ValidateContent(s)
			return err
		},
	}
}

// NewPasswordInput creates a masked input, used for tokens
func NewPasswordInput(label string) Input {
	ti := textinput.New()
	ti.Placeholder = "••••••••"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 4096
	ti.Width = 40

	return Input{
		textInput: ti,
		label:     label,
	}
}

// Focus sets the input as focused
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur removes focus from input
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Focused returns whether input is focused
func (i *Input) Focused() bool {
	return i.textInput.Focused()
}

// SetLabel changes the label shown above the input
func (i *Input) SetLabel(label string) {
	i.label = label
}

// SetWidth sets the visible width of the input
func (i *Input) SetWidth(w int) {
	if w > 0 {
		i.textInput.Width = w
	}
}

// SetValue sets the input value
func (i *Input) SetValue(v string) {
	i.textInput.SetValue(v)
	i.textInput.CursorEnd()
}

// Value returns the current input value
func (i *Input) Value() string {
	return i.textInput.Value()
}

// Reset clears value and error
func (i *Input) Reset() {
	i.textInput.Reset()
	i.error = ""
}

// SetError sets an error message
func (i *Input) SetError(err string) {
	i.error = err
}

// Validate runs the validator if set and records its error
func (i *Input) Validate() error {
	if i.validator == nil {
		return nil
	}
	if err := i.validator(i.Value()); err != nil {
		i.error = err.Error()
		return err
	}
	return nil
}

// Update handles input updates
func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)

	// Clear error on input change
	if i.error != "" {
		i.error = ""
	}

	return cmd
}

// View renders the input
func (i Input) View() string {
	var labelStyle lipgloss.Style
	var inputStyle lipgloss.Style

	if i.Focused() {
		labelStyle = styles.InputFocusedStyle
		inputStyle = styles.InputFocusedStyle
	} else {
		labelStyle = styles.InputPromptStyle
		inputStyle = styles.InputStyle
	}

	result := labelStyle.Render(i.label) + "\n"
	result += inputStyle.Render(i.textInput.View())

	if i.error != "" {
		result += "\n" + styles.ErrorStyle.Render("✗ "+i.error)
	}

	return result
}
