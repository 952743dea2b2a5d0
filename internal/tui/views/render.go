package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"threadhub/internal/tui/styles"
	"threadhub/pkg/commenttree"
	"threadhub/pkg/models"
	"threadhub/pkg/utils"
)

// rowState is what the view knows about a row beyond the comment itself
type rowState struct {
	selected    bool
	highlighted bool
	expanded    bool
	pending     bool
}

// renderThread renders rows top to bottom and reports the first line of
// each row, so the view can scroll a row into sight
func renderThread(rows []commenttree.Row, state func(i int, c models.Comment) rowState, width int, now time.Time) (string, []int, int) {
	var b strings.Builder
	starts := make([]int, 0, len(rows))
	line := 0

	for i, row := range rows {
		block := renderRow(row, state(i, row.Comment), width, now)
		starts = append(starts, line)
		line += lipgloss.Height(block)
		b.WriteString(block)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), starts, line
}

func renderRow(row commenttree.Row, st rowState, width int, now time.Time) string {
	c := row.Comment

	header := styles.AuthorStyle.Render(authorName(c.Author))
	if c.Author.Role == "admin" {
		header += " " + styles.BadgePrimaryStyle.Render("admin")
	}
	header += " " + styles.HelpStyle.Render(utils.Ago(c.CreatedAt, now))
	if c.IsEdited {
		header += " " + styles.HelpStyle.Render("(edited)")
	}

	bodyWidth := width - 2*row.Depth - 4
	if bodyWidth < 16 {
		bodyWidth = 16
	}
	body := styles.ContentStyle.Width(bodyWidth).Render(c.Content)

	block := header + "\n" + body + "\n" + renderMeta(c, st)

	style := styles.RowStyle
	if st.selected {
		style = styles.RowSelectedStyle
	}
	if st.highlighted {
		style = style.Inherit(styles.RowHighlightStyle)
	}
	rendered := style.Render(block)

	if row.Depth == 0 {
		return rendered
	}
	guide := styles.RenderIndent(row.Depth)
	column := strings.TrimSuffix(strings.Repeat(guide+"\n", lipgloss.Height(rendered)), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, column, rendered)
}

func renderMeta(c models.Comment, st rowState) string {
	meta := styles.HelpStyle.Render(fmt.Sprintf("♡ %d", c.LikesCount))
	if c.UserLiked {
		meta = styles.LikedStyle.Render(fmt.Sprintf("♥ %d", c.LikesCount))
	}

	if c.RepliesCount > 0 {
		arrow := "▸"
		if st.expanded {
			arrow = "▾"
		}
		noun := "replies"
		if c.RepliesCount == 1 {
			noun = "reply"
		}
		meta += "  " + styles.InfoStyle.Render(fmt.Sprintf("%s %d %s", arrow, c.RepliesCount, noun))
		if hidden := c.RepliesCount - len(c.Replies); st.expanded && hidden > 0 {
			meta += " " + styles.HelpStyle.Render(fmt.Sprintf("(%d more, m to load)", hidden))
		}
	}

	if st.pending {
		meta += "  " + styles.PendingStyle.Render("saving…")
	}
	return meta
}

func authorName(a models.Author) string {
	name := a.Name
	if name == "" {
		name = a.ID
	}
	if a.Verified {
		name += " ✓"
	}
	return name
}
