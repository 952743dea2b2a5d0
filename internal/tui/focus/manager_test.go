package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_DialogReturnsToPreviousMode(t *testing.T) {
	m := NewManager()
	assert.True(t, m.IsNavigationMode())

	m.EnterDialog()
	assert.True(t, m.IsDialogMode())
	m.ExitDialogMode()
	assert.True(t, m.IsNavigationMode())

	m.EnterInput()
	m.EnterDialog()
	m.EnterDialog()
	m.ExitDialogMode()
	assert.True(t, m.IsInputMode(), "dialog opened while typing returns to the input")

	m.ExitInputMode()
	assert.Equal(t, ModeNavigation, m.Mode())
	assert.Equal(t, "NORMAL", m.Mode().String())
}

func TestManager_ExitIgnoredInOtherModes(t *testing.T) {
	m := NewManager()
	m.EnterDialog()
	m.ExitInputMode()
	assert.True(t, m.IsDialogMode())
}
