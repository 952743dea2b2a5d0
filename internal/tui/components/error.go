package components

import (
	"threadhub/internal/tui/styles"
	"threadhub/pkg/utils"
)

// ErrorView displays a failed load with a retry hint
type ErrorView struct {
	err     error
	message string
}

// NewErrorView creates an empty error view
func NewErrorView() ErrorView {
	return ErrorView{}
}

// SetError records err with a short description of what failed
func (e *ErrorView) SetError(message string, err error) {
	e.message = message
	e.err = err
}

// Clear clears the error
func (e *ErrorView) Clear() {
	e.err = nil
	e.message = ""
}

// HasError returns whether an error is present
func (e ErrorView) HasError() bool {
	return e.err != nil
}

// View renders the error
func (e ErrorView) View() string {
	if !e.HasError() {
		return ""
	}

	return styles.ErrorStyle.Render("⚠ "+e.message) + "  " +
		styles.HelpStyle.Render(utils.UserMessage(e.err)) + "  " +
		styles.HelpStyle.Render("(ctrl+r to retry)")
}
