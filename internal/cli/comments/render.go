package comments

import (
	"fmt"
	"io"
	"strings"
	"time"

	"threadhub/pkg/commenttree"
	"threadhub/pkg/models"
	"threadhub/pkg/utils"
)

// renderRows prints rows as an indented tree. The row matching highlighted
// gets a marker.
func renderRows(w io.Writer, rows []commenttree.Row, highlighted string, now time.Time) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}
	for _, row := range rows {
		renderComment(w, row.Comment, row.Depth, row.Comment.ID == highlighted, now)
	}
}

func renderComment(w io.Writer, c models.Comment, depth int, highlighted bool, now time.Time) {
	indent := strings.Repeat("  ", depth)
	marker := " "
	if highlighted {
		marker = "▶"
	}

	header := fmt.Sprintf("%s%s %s · %s", indent, marker, displayName(c.Author), utils.Ago(c.CreatedAt, now))
	if c.IsEdited {
		header += " (edited)"
	}
	fmt.Fprintln(w, header)

	for _, line := range strings.Split(c.Content, "\n") {
		fmt.Fprintf(w, "%s    %s\n", indent, line)
	}

	meta := fmt.Sprintf("%s    ♥ %d", indent, c.LikesCount)
	if c.UserLiked {
		meta += " (you)"
	}
	if c.RepliesCount > 0 {
		meta += fmt.Sprintf(" · %d %s", c.RepliesCount, plural(c.RepliesCount, "reply", "replies"))
		if hidden := c.RepliesCount - len(c.Replies); hidden > 0 {
			meta += fmt.Sprintf(" (%d not loaded)", hidden)
		}
	}
	meta += "  id:" + c.ID
	fmt.Fprintln(w, meta)
}

func displayName(a models.Author) string {
	name := a.Name
	if name == "" {
		name = a.ID
	}
	if a.Verified {
		name += " ✓"
	}
	return name
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
