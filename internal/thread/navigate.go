package thread

import (
	"context"
	"fmt"

	"threadhub/pkg/commenttree"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

// NavigateTo makes id visible, highlights it and asks the view to scroll to
// it. When the node is not loaded yet, the top-level list is paged until its
// root shows up and then every ancestor's replies are loaded from the top
// down. ancestry lists the ids from the root down to id's parent; without it
// only top-level comments can be reached.
//
// ErrNotFound is returned when paging is exhausted without finding the node
// and ErrBusy when a load it depends on is already running.
func (c *Controller) NavigateTo(ctx context.Context, id string, ancestry ...string) error {
	if n := len(ancestry); n > 0 && ancestry[n-1] == id {
		ancestry = ancestry[:n-1]
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	_, present := commenttree.Find(c.forest, id)
	c.mu.Unlock()

	if !present {
		root := id
		if len(ancestry) > 0 {
			root = ancestry[0]
		}
		if err := c.pageUntilFound(ctx, root); err != nil {
			return err
		}
		chain := append(append([]string{}, ancestry...), id)
		for i := 1; i < len(chain); i++ {
			if err := c.loadRepliesUntilFound(ctx, chain[i-1], chain[i]); err != nil {
				return err
			}
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	path, ok := commenttree.Path(c.forest, id)
	if !ok {
		// removed while we were loading
		c.mu.Unlock()
		return models.ErrNotFound
	}
	for _, ancestor := range path[:len(path)-1] {
		c.expanded[ancestor] = true
	}
	c.highlightLocked(id)
	c.unlockAndEmit(
		Event{Kind: EventViewChanged, CommentID: id},
		Event{Kind: EventScrollTo, CommentID: id},
	)
	return nil
}

// NavigateToParent navigates to the comment id replies to
func (c *Controller) NavigateToParent(ctx context.Context, id string) error {
	c.mu.Lock()
	parent, ok := commenttree.FindParent(c.forest, id)
	c.mu.Unlock()
	if !ok {
		return models.ErrNotFound
	}
	return c.NavigateTo(ctx, parent.ID)
}

func (c *Controller) pageUntilFound(ctx context.Context, rootID string) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return models.ErrClosed
		}
		if _, ok := commenttree.Find(c.forest, rootID); ok {
			c.mu.Unlock()
			return nil
		}
		before := c.root
		c.mu.Unlock()

		if before.Loading {
			return models.ErrBusy
		}
		if !before.HasMore {
			return models.ErrNotFound
		}
		if err := c.LoadMoreTopLevel(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		progressed := c.root.Page > before.Page
		c.mu.Unlock()
		if !progressed {
			return models.ErrBusy
		}
	}
}

func (c *Controller) loadRepliesUntilFound(ctx context.Context, parentID, childID string) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return models.ErrClosed
		}
		if _, ok := commenttree.Find(c.forest, childID); ok {
			c.mu.Unlock()
			return nil
		}
		if !c.canLoadRepliesLocked(parentID) {
			busy := false
			if cur, ok := c.replies[parentID]; ok {
				busy = cur.Loading
			}
			c.mu.Unlock()
			if busy {
				return models.ErrBusy
			}
			logger.WithFields(c.fields(childID)).Debug(fmt.Sprintf("replies of %s exhausted", parentID))
			return models.ErrNotFound
		}
		page := 0
		if cur, ok := c.replies[parentID]; ok {
			page = cur.Page
		}
		c.mu.Unlock()

		if err := c.LoadReplies(ctx, parentID); err != nil {
			return err
		}

		c.mu.Lock()
		cur, ok := c.replies[parentID]
		progressed := ok && cur.Page > page
		c.mu.Unlock()
		if !progressed {
			return models.ErrBusy
		}
	}
}

// highlightLocked makes id the only highlighted node and arms its expiry
func (c *Controller) highlightLocked(id string) {
	c.stopHighlightLocked()
	c.highlightSeq++
	seq := c.highlightSeq
	c.highlighted = id
	c.highlightTimer = c.opts.Scheduler.AfterFunc(c.opts.HighlightDuration, func() {
		c.expireHighlight(seq)
	})
}

// stopHighlightLocked cancels the running highlight without notifying
func (c *Controller) stopHighlightLocked() {
	if c.highlightTimer != nil {
		c.highlightTimer.Stop()
		c.highlightTimer = nil
	}
	if c.highlighted != "" {
		c.highlighted = ""
		c.highlightSeq++
	}
}

func (c *Controller) expireHighlight(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.highlightSeq || c.highlighted == "" {
		c.mu.Unlock()
		return
	}
	id := c.highlighted
	c.highlighted = ""
	c.highlightTimer = nil
	c.unlockAndEmit(Event{Kind: EventHighlightCleared, CommentID: id})
}

// Expand discloses the loaded replies of id
func (c *Controller) Expand(id string) {
	c.setExpanded(id, true)
}

// Collapse hides the replies of id
func (c *Controller) Collapse(id string) {
	c.setExpanded(id, false)
}

// ToggleExpanded flips the disclosure state of id and returns the new state
func (c *Controller) ToggleExpanded(id string) bool {
	c.mu.Lock()
	open := !c.expanded[id]
	c.mu.Unlock()
	c.setExpanded(id, open)
	return open
}

// IsExpanded reports whether the replies of id are disclosed
func (c *Controller) IsExpanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[id]
}

func (c *Controller) setExpanded(id string, open bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, ok := commenttree.Find(c.forest, id); !ok || c.expanded[id] == open {
		c.mu.Unlock()
		return
	}
	if open {
		c.expanded[id] = true
	} else {
		delete(c.expanded, id)
	}
	c.unlockAndEmit(Event{Kind: EventViewChanged, CommentID: id})
}

// VisibleRows flattens the forest the way the view renders it: replies of
// collapsed nodes are skipped.
func (c *Controller) VisibleRows() []commenttree.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return commenttree.FlattenVisible(c.forest, func(id string) bool {
		return c.expanded[id]
	})
}

// RowIndex returns the position of id in VisibleRows, or -1
func (c *Controller) RowIndex(id string) int {
	for i, row := range c.VisibleRows() {
		if row.Comment.ID == id {
			return i
		}
	}
	return -1
}
