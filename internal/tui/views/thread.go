package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"threadhub/internal/thread"
	"threadhub/internal/tui/components"
	"threadhub/internal/tui/focus"
	"threadhub/internal/tui/styles"
	"threadhub/pkg/commenttree"
	"threadhub/pkg/models"
	"threadhub/pkg/utils"
)

// Lines reserved around the viewport for title, input and footer
const (
	chromeHeight = 6
	inputHeight  = 4
)

// ThreadModel renders one post's discussion and drives its controller
type ThreadModel struct {
	ctrl   *thread.Controller
	bridge *EventBridge
	focus  *focus.Manager
	keys   ThreadKeyMap

	// Snapshot of the visible rows and where each starts in the viewport
	rows       []commenttree.Row
	lineStarts []int
	totalLines int
	cursor     int

	viewport viewport.Model
	spinner  components.Spinner
	input    components.Input
	confirm  components.Confirm
	errView  components.ErrorView

	// Compose state: parentID for new comments and replies, editing for edits
	parentID string
	editing  string

	loading bool
	status  string
	timeout time.Duration
	now     func() time.Time

	width  int
	height int
}

// ThreadOpDoneMsg reports the end of a controller operation
type ThreadOpDoneMsg struct {
	Op  string
	ID  string
	Err error
}

// NewThreadModel creates the view for ctrl. Events must reach Update via
// bridge.Listen.
func NewThreadModel(ctrl *thread.Controller, bridge *EventBridge, fm *focus.Manager, keys ThreadKeyMap) ThreadModel {
	return ThreadModel{
		ctrl:     ctrl,
		bridge:   bridge,
		focus:    fm,
		keys:     keys,
		viewport: viewport.New(80, 20),
		spinner:  components.NewSpinner("Loading comments..."),
		input:    components.NewCommentInput(),
		confirm:  components.NewConfirm("Delete", "Cancel"),
		errView:  components.NewErrorView(),
		timeout:  utils.DefaultTimeout,
		now:      time.Now,
		width:    80,
		height:   26,
	}
}

// Init loads the first page
func (m ThreadModel) Init() tea.Cmd {
	return tea.Batch(m.bridge.Listen(), m.run("load", "", m.ctrl.LoadFirstPage))
}

// Selected returns the comment under the cursor
func (m ThreadModel) Selected() (models.Comment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return models.Comment{}, false
	}
	return m.rows[m.cursor].Comment, true
}

// Update handles messages
func (m ThreadModel) Update(msg tea.Msg) (ThreadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 12)
		m.resize()
		m.render()
		return m, nil

	case ThreadEventMsg:
		cmd := m.handleEvent(msg.Event)
		return m, tea.Batch(m.bridge.Listen(), cmd)

	case ThreadOpDoneMsg:
		return m.handleOpDone(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		return m, m.spinner.Update(msg)

	case tea.KeyMsg:
		switch m.focus.Mode() {
		case focus.ModeInput:
			return m.handleInputKey(msg)
		case focus.ModeDialog:
			return m.handleDialogKey(msg)
		default:
			return m.handleKey(msg)
		}
	}

	return m, nil
}

func (m *ThreadModel) handleEvent(ev thread.Event) tea.Cmd {
	switch ev.Kind {
	case thread.EventLoadingChanged:
		m.loading = m.ctrl.Loading()
		if m.loading {
			return m.spinner.Tick
		}
	case thread.EventForestChanged, thread.EventViewChanged:
		m.refresh()
	case thread.EventScrollToBottom:
		m.refresh()
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.render()
		}
		m.viewport.GotoBottom()
	case thread.EventScrollTo:
		m.refresh()
		if idx := m.ctrl.RowIndex(ev.CommentID); idx >= 0 {
			m.cursor = idx
			m.render()
			m.centerCursor()
		}
	case thread.EventHighlightCleared:
		m.render()
	}
	return nil
}

func (m ThreadModel) handleOpDone(msg ThreadOpDoneMsg) (ThreadModel, tea.Cmd) {
	if msg.Err != nil {
		if msg.Op == "load" {
			m.errView.SetError("Could not load comments", msg.Err)
		}
		m.status = styles.ErrorStyle.Render(fmt.Sprintf("%s failed: %s", msg.Op, utils.UserMessage(msg.Err)))
		return m, nil
	}

	switch msg.Op {
	case "load":
		m.errView.Clear()
		m.status = ""
	case "submit":
		m.status = styles.SuccessStyle.Render("✓ Posted")
	case "edit":
		m.status = styles.SuccessStyle.Render("✓ Updated")
	case "delete":
		m.status = styles.SuccessStyle.Render("✓ Deleted")
	default:
		m.status = ""
	}
	return m, nil
}

func (m ThreadModel) handleKey(msg tea.KeyMsg) (ThreadModel, tea.Cmd) {
	selected, hasSelection := m.Selected()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		if m.cursor == len(m.rows)-1 && m.ctrl.RootCursor().HasMore {
			return m, m.run("load more", "", m.ctrl.LoadMoreTopLevel)
		}
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.rows))

	case key.Matches(msg, m.keys.Toggle):
		if hasSelection {
			return m, m.toggle(selected)
		}
	case key.Matches(msg, m.keys.More):
		if hasSelection && m.ctrl.IsExpanded(selected.ID) && m.ctrl.CanLoadReplies(selected.ID) {
			return m, m.loadReplies(selected.ID)
		}
		if m.ctrl.RootCursor().HasMore {
			return m, m.run("load more", "", m.ctrl.LoadMoreTopLevel)
		}
	case key.Matches(msg, m.keys.Parent):
		if hasSelection && selected.IsReply() {
			id := selected.ID
			return m, m.run("navigate", id, func(ctx context.Context) error {
				return m.ctrl.NavigateToParent(ctx, id)
			})
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("load", "", m.ctrl.LoadFirstPage)

	case key.Matches(msg, m.keys.Comment):
		return m, m.startCompose("", "", "New comment")
	case key.Matches(msg, m.keys.Reply):
		if hasSelection {
			return m, m.startCompose(selected.ID, "", "Reply to "+authorName(selected.Author))
		}
	case key.Matches(msg, m.keys.Edit):
		if hasSelection {
			cmd := m.startCompose("", selected.ID, "Edit comment")
			m.input.SetValue(selected.Content)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Delete):
		if hasSelection {
			body := styles.Truncate(strings.ReplaceAll(selected.Content, "\n", " "), 60)
			if selected.RepliesCount > 0 {
				body += "\n" + styles.WarningStyle.Render(fmt.Sprintf("Its %d replies will be removed too.", selected.RepliesCount))
			}
			m.confirm.Open("Delete comment?", body, selected.ID)
			m.focus.EnterDialog()
		}
	case key.Matches(msg, m.keys.Like):
		if hasSelection {
			id := selected.ID
			return m, m.run("like", id, func(ctx context.Context) error {
				return m.ctrl.LikeComment(ctx, id)
			})
		}
	}
	return m, nil
}

func (m ThreadModel) handleInputKey(msg tea.KeyMsg) (ThreadModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopCompose()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if err := m.input.Validate(); err != nil {
			return m, nil
		}
		content := m.input.Value()
		parentID, editing := m.parentID, m.editing
		m.stopCompose()
		if editing != "" {
			return m, m.run("edit", editing, func(ctx context.Context) error {
				return m.ctrl.EditComment(ctx, editing, content)
			})
		}
		return m, m.run("submit", parentID, func(ctx context.Context) error {
			_, err := m.ctrl.SubmitComment(ctx, content, parentID)
			return err
		})
	}

	return m, m.input.Update(msg)
}

func (m ThreadModel) handleDialogKey(msg tea.KeyMsg) (ThreadModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Switch):
		m.confirm.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Submit) && m.confirm.Accepted():
		id := m.confirm.Target()
		m.confirm.Close()
		m.focus.ExitDialogMode()
		return m, m.run("delete", id, func(ctx context.Context) error {
			return m.ctrl.DeleteComment(ctx, id)
		})
	case key.Matches(msg, m.keys.Deny), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Submit):
		m.confirm.Close()
		m.focus.ExitDialogMode()
	}
	return m, nil
}

// toggle discloses or hides the replies of c, fetching the first page when
// none are loaded yet
func (m *ThreadModel) toggle(c models.Comment) tea.Cmd {
	if m.ctrl.IsExpanded(c.ID) {
		m.ctrl.Collapse(c.ID)
		return nil
	}
	if len(c.Replies) == 0 && m.ctrl.CanLoadReplies(c.ID) {
		return m.loadReplies(c.ID)
	}
	if c.RepliesCount > 0 || len(c.Replies) > 0 {
		m.ctrl.Expand(c.ID)
	}
	return nil
}

func (m ThreadModel) loadReplies(id string) tea.Cmd {
	return m.run("load replies", id, func(ctx context.Context) error {
		return m.ctrl.LoadReplies(ctx, id)
	})
}

func (m *ThreadModel) startCompose(parentID, editing, label string) tea.Cmd {
	m.parentID = parentID
	m.editing = editing
	m.input.Reset()
	m.input.SetLabel(label)
	m.focus.EnterInput()
	m.resize()
	return m.input.Focus()
}

func (m *ThreadModel) stopCompose() {
	m.parentID, m.editing = "", ""
	m.input.Reset()
	m.input.Blur()
	m.focus.ExitInputMode()
	m.resize()
}

// run executes a controller operation off the UI goroutine
func (m ThreadModel) run(op, id string, fn func(ctx context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ThreadOpDoneMsg{Op: op, ID: id, Err: fn(ctx)}
	}
}

// refresh takes a new snapshot of the visible rows, keeping the cursor on
// the same comment when it is still visible
func (m *ThreadModel) refresh() {
	var keep string
	if c, ok := m.Selected(); ok {
		keep = c.ID
	}
	m.rows = m.ctrl.VisibleRows()
	m.cursor = clampIndex(m.cursor, len(m.rows))
	if keep != "" {
		for i, row := range m.rows {
			if row.Comment.ID == keep {
				m.cursor = i
				break
			}
		}
	}
	m.render()
}

func (m *ThreadModel) render() {
	if len(m.rows) == 0 {
		m.lineStarts, m.totalLines = nil, 0
		m.viewport.SetContent(styles.HelpStyle.Render("No comments yet. Press 'c' to add one!"))
		return
	}
	highlighted := m.ctrl.Highlighted()
	content, starts, total := renderThread(m.rows, func(i int, c models.Comment) rowState {
		return rowState{
			selected:    i == m.cursor,
			highlighted: c.ID == highlighted,
			expanded:    m.ctrl.IsExpanded(c.ID),
			pending:     m.ctrl.Pending(c.ID),
		}
	}, m.viewport.Width, m.now())
	m.viewport.SetContent(content)
	m.lineStarts, m.totalLines = starts, total
}

func (m *ThreadModel) resize() {
	h := m.height - chromeHeight
	if m.focus.IsInputMode() {
		h -= inputHeight
	}
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = h
}

func (m *ThreadModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = clampIndex(m.cursor+delta, len(m.rows))
	m.render()
	m.scrollToCursor()
}

// scrollToCursor scrolls the least amount that brings the selected row into
// view
func (m *ThreadModel) scrollToCursor() {
	top, bottom, ok := m.cursorLines()
	if !ok {
		return
	}
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// centerCursor puts the selected row a third of the way down the viewport
func (m *ThreadModel) centerCursor() {
	top, _, ok := m.cursorLines()
	if !ok {
		return
	}
	offset := top - m.viewport.Height/3
	if offset < 0 {
		offset = 0
	}
	m.viewport.SetYOffset(offset)
}

func (m ThreadModel) cursorLines() (top, bottom int, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.lineStarts) {
		return 0, 0, false
	}
	top = m.lineStarts[m.cursor]
	bottom = m.totalLines
	if m.cursor+1 < len(m.lineStarts) {
		bottom = m.lineStarts[m.cursor+1]
	}
	return top, bottom, true
}

// View renders the thread view
func (m ThreadModel) View() string {
	var b strings.Builder

	forest := m.ctrl.Forest()
	title := styles.TitleStyle.Render("💬 " + m.ctrl.PostID())
	b.WriteString(title + " " + styles.HelpStyle.Render(fmt.Sprintf("%d comments loaded", commenttree.Count(forest))))
	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(m.viewport.Width))
	b.WriteString("\n")

	if m.errView.HasError() {
		b.WriteString(m.errView.View())
		b.WriteString("\n")
	}

	if m.confirm.IsOpen() {
		b.WriteString(m.confirm.View())
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	if m.focus.IsInputMode() {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Enter submit • Esc cancel"))
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
	case m.status != "":
		b.WriteString(m.status)
	case m.ctrl.RootCursor().HasMore:
		b.WriteString(styles.HelpStyle.Render("m or ↓ at the end loads older comments"))
	}

	return b.String()
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
