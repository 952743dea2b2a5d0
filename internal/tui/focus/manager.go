package focus

// Mode represents different focus modes in the TUI
type Mode int

const (
	// ModeNavigation lets keys move through the thread
	ModeNavigation Mode = iota
	// ModeInput routes keys to the compose box
	ModeInput
	// ModeDialog routes keys to a modal dialog
	ModeDialog
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "INSERT"
	case ModeDialog:
		return "CONFIRM"
	default:
		return "NORMAL"
	}
}

// Manager tracks the focus mode. A dialog opened from input mode returns to
// input mode when it closes.
type Manager struct {
	mode     Mode
	previous Mode
}

// NewManager creates a new focus manager
func NewManager() *Manager {
	return &Manager{mode: ModeNavigation}
}

// Mode returns the current focus mode
func (m *Manager) Mode() Mode {
	return m.mode
}

// EnterInput switches to input mode
func (m *Manager) EnterInput() {
	m.mode = ModeInput
}

// EnterDialog switches to dialog mode, remembering the mode to return to
func (m *Manager) EnterDialog() {
	if m.mode != ModeDialog {
		m.previous = m.mode
	}
	m.mode = ModeDialog
}

// IsNavigationMode returns true if in navigation mode
func (m *Manager) IsNavigationMode() bool {
	return m.mode == ModeNavigation
}

// IsInputMode returns true if in input mode
func (m *Manager) IsInputMode() bool {
	return m.mode == ModeInput
}

// IsDialogMode returns true if in dialog mode
func (m *Manager) IsDialogMode() bool {
	return m.mode == ModeDialog
}

// ExitInputMode returns to navigation
func (m *Manager) ExitInputMode() {
	if m.mode == ModeInput {
		m.mode = ModeNavigation
	}
}

// ExitDialogMode returns to the mode the dialog was opened from
func (m *Manager) ExitDialogMode() {
	if m.mode == ModeDialog {
		m.mode = m.previous
		m.previous = ModeNavigation
	}
}
