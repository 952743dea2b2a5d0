package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dracula color palette
const (
	Background  = "#282a36"
	CurrentLine = "#44475a"
	Foreground  = "#f8f8f2"
	Comment     = "#6272a4"
	Cyan        = "#8be9fd"
	Green       = "#50fa7b"
	Orange      = "#ffb86c"
	Pink        = "#ff79c6"
	Purple      = "#bd93f9"
	Red         = "#ff5555"
	Yellow      = "#f1fa8c"
)

var (
	// App-level styles
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Background(lipgloss.Color(Background)).
			Foreground(lipgloss.Color(Foreground))

	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Purple)).
			Background(lipgloss.Color(Background)).
			Padding(0, 1)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	StatusBarActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Green)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				Padding(0, 1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	InputFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				Padding(0, 1)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Purple)).
				Bold(true)

	// Button styles
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 2).
			MarginRight(2)

	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Purple)).
				Bold(true).
				Padding(0, 2).
				MarginRight(2)

	// Comment row styles
	AuthorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Pink)).
			Bold(true)

	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground))

	RowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// The selected row gets a left bar; the navigation target is tinted
	RowSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color(Purple))

	RowHighlightStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(CurrentLine))

	IndentGuideStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(CurrentLine))

	LikedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Red)).
			Bold(true)

	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Orange)).
			Italic(true)

	// Info/Alert styles
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Green)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Yellow)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Red)).
			Bold(true)

	// Help/Hints styles
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Italic(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Purple)).
			Bold(true)

	// Badge styles
	BadgePrimaryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Purple)).
				Bold(true).
				Padding(0, 1)

	BadgeDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Red)).
				Bold(true).
				Padding(0, 1)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Yellow)).
			Bold(true)

	// Divider/Border styles
	DividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(CurrentLine))

	// Spinner styles
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Purple))

	MetaKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Purple)).
			Bold(true)

	MetaValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan))

	// Dialog/Modal styles
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Pink)).
			Padding(1, 2).
			Background(lipgloss.Color(Background))

	DialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Bold(true).
				Align(lipgloss.Center)
)

// Truncate shortens s to maxLen runes, adding "..." if needed
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}

// RenderDivider renders a horizontal divider
func RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return DividerStyle.Render(strings.Repeat("─", width))
}

// RenderIndent renders the guide column for a row at depth
func RenderIndent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return IndentGuideStyle.Render(strings.Repeat("│ ", depth))
}

// RenderKeyValue renders a key-value pair with styling
func RenderKeyValue(key, value string) string {
	return MetaKeyStyle.Render(key+":") + " " + MetaValueStyle.Render(value)
}
