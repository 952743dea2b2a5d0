package thread

import (
	"context"
	"fmt"

	"threadhub/pkg/commenttree"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

// LoadFirstPage fetches top-level page 1 and replaces the forest.
//
// Every call starts a new generation. A response is applied only while its
// generation is still the latest, so an older request that resolves late
// can never overwrite newer content.
func (c *Controller) LoadFirstPage(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	c.rootGen++
	gen := c.rootGen
	c.root.Loading = true
	c.unlockAndEmit(Event{Kind: EventLoadingChanged})

	page, err := c.api.ListComments(ctx, c.postID, 1, c.opts.PageSize)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if gen != c.rootGen {
		c.mu.Unlock()
		logger.WithFields(c.fields("")).Debug(fmt.Sprintf("dropping stale first page (generation %d)", gen))
		return nil
	}
	c.root.Loading = false
	if err != nil {
		c.unlockAndEmit(Event{Kind: EventLoadingChanged})
		return fmt.Errorf("load comments: %w", err)
	}
	if page == nil {
		page = &models.CommentPage{}
	}

	c.forest = models.NormalizeForest(page.Comments)
	c.root = models.Cursor{
		Page:      1,
		HasMore:   page.Pagination.HasMore,
		AllLoaded: !page.Pagination.HasMore,
	}
	c.replies = make(map[string]*models.Cursor)
	c.expanded = make(map[string]bool)
	c.local = make(map[string]struct{})
	c.removed = make(map[string]int)
	c.epoch++
	if _, ok := commenttree.Find(c.forest, c.highlighted); !ok {
		c.stopHighlightLocked()
	}

	events := []Event{{Kind: EventLoadingChanged}, {Kind: EventForestChanged}}
	if c.opts.AutoScroll {
		events = append(events, Event{Kind: EventScrollToBottom})
	}
	c.unlockAndEmit(events...)
	return nil
}

// LoadMoreTopLevel appends the next top-level page. It is a no-op when the
// root list is exhausted or a root load is already running.
func (c *Controller) LoadMoreTopLevel(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if !c.root.HasMore || c.root.Loading {
		c.mu.Unlock()
		return nil
	}
	gen := c.rootGen
	// Roots posted here sit in front on the server too, so every held root
	// counts towards the offset.
	next := c.nextPageLocked("", c.root, len(c.forest), c.opts.PageSize)
	c.root.Loading = true
	c.unlockAndEmit(Event{Kind: EventLoadingChanged})

	page, err := c.api.ListComments(ctx, c.postID, next, c.opts.PageSize)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if gen != c.rootGen {
		// a first-page reload took over the root list
		c.mu.Unlock()
		return nil
	}
	c.root.Loading = false
	if err != nil {
		c.unlockAndEmit(Event{Kind: EventLoadingChanged})
		return fmt.Errorf("load comments page %d: %w", next, err)
	}
	if page == nil {
		page = &models.CommentPage{}
	}

	c.forest = commenttree.AppendRoots(c.forest, models.NormalizeForest(page.Comments))
	delete(c.removed, "")
	c.root.Page = next
	c.root.HasMore = page.Pagination.HasMore
	c.root.AllLoaded = !page.Pagination.HasMore
	c.unlockAndEmit(Event{Kind: EventLoadingChanged}, Event{Kind: EventForestChanged})
	return nil
}

// LoadReplies fetches the next page of replies for id and discloses them.
//
// Nothing happens when the node is unknown, has no replies, already holds
// every reply, or has a reply load in flight. Loads for different nodes are
// independent.
func (c *Controller) LoadReplies(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	node, ok := commenttree.Find(c.forest, id)
	if !ok || node.RepliesCount == 0 {
		c.mu.Unlock()
		return nil
	}
	cur := c.replies[id]
	if cur == nil {
		if len(node.Replies) >= node.RepliesCount {
			c.mu.Unlock()
			return nil
		}
		cur = &models.Cursor{HasMore: true}
		c.replies[id] = cur
	}
	if cur.Loading || !cur.HasMore {
		c.mu.Unlock()
		return nil
	}
	paged := 0
	for _, r := range node.Replies {
		if _, mine := c.local[r.ID]; !mine {
			paged++
		}
	}
	next := c.nextPageLocked(id, *cur, paged, c.opts.ReplyPageSize)
	cur.Loading = true
	c.unlockAndEmit(Event{Kind: EventLoadingChanged, CommentID: id})

	page, err := c.api.ListReplies(ctx, c.postID, id, next, c.opts.ReplyPageSize)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if c.replies[id] != cur {
		// forest was replaced or the node deleted while we waited
		c.mu.Unlock()
		logger.WithFields(c.fields(id)).Debug("dropping replies for a node that left the forest")
		return nil
	}
	cur.Loading = false
	if err != nil {
		c.unlockAndEmit(Event{Kind: EventLoadingChanged, CommentID: id})
		return fmt.Errorf("load replies of %s: %w", id, err)
	}
	if page == nil {
		page = &models.ReplyPage{}
	}

	replies := models.NormalizeForest(page.Replies)
	allLoaded := !page.HasMore || len(replies) < c.opts.ReplyPageSize
	cur.Page = next
	cur.HasMore = !allLoaded
	cur.AllLoaded = allLoaded
	c.forest = commenttree.MergeReplies(c.forest, id, replies, allLoaded, func(rid string) bool {
		_, mine := c.local[rid]
		return mine
	})
	for _, r := range replies {
		delete(c.local, r.ID)
	}
	delete(c.removed, id)
	c.expanded[id] = true

	c.unlockAndEmit(Event{Kind: EventLoadingChanged, CommentID: id}, Event{Kind: EventForestChanged})
	return nil
}

// CanLoadReplies reports whether LoadReplies(id) would issue a request
func (c *Controller) CanLoadReplies(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canLoadRepliesLocked(id)
}

func (c *Controller) canLoadRepliesLocked(id string) bool {
	node, ok := commenttree.Find(c.forest, id)
	if !ok || node.RepliesCount == 0 {
		return false
	}
	cur := c.replies[id]
	if cur == nil {
		return len(node.Replies) < node.RepliesCount
	}
	return cur.HasMore && !cur.Loading
}
