package thread

import (
	"context"
	"errors"
	"fmt"

	"threadhub/pkg/commenttree"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

func submitKey(parentID string) string { return "submit:" + parentID }
func likeKey(id string) string         { return "like:" + id }
func deleteKey(id string) string       { return "delete:" + id }
func editKey(id string) string         { return "edit:" + id }

// acquireLocked marks key as in flight. It returns false if it already is.
func (c *Controller) acquireLocked(key string) bool {
	if _, busy := c.pending[key]; busy {
		return false
	}
	c.pending[key] = struct{}{}
	return true
}

// Pending reports whether a submission, like, delete or edit keyed on id is
// running. Use an empty id for a top-level submission.
func (c *Controller) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range []string{submitKey(id), likeKey(id), deleteKey(id), editKey(id)} {
		if _, ok := c.pending[key]; ok {
			return true
		}
	}
	return false
}

// SubmitComment posts content as a new top-level comment, or as a reply when
// parentID is set. The node enters the forest only once the server returns
// it: roots go to the front of the list and replies to the end of their
// parent's replies.
func (c *Controller) SubmitComment(ctx context.Context, content, parentID string) (models.Comment, error) {
	content, err := models.ValidateContent(content)
	if err != nil {
		return models.Comment{}, err
	}

	key := submitKey(parentID)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.Comment{}, models.ErrClosed
	}
	if !c.acquireLocked(key) {
		c.mu.Unlock()
		return models.Comment{}, models.ErrBusy
	}
	c.mu.Unlock()

	created, err := c.api.CreateComment(ctx, c.postID, models.CreateCommentRequest{
		Content:  content,
		ParentID: parentID,
	})

	c.mu.Lock()
	delete(c.pending, key)
	if c.closed {
		c.mu.Unlock()
		return models.Comment{}, models.ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		logger.WithFields(c.fields(parentID)).Warn(fmt.Sprintf("submit comment failed: %v", err))
		return models.Comment{}, fmt.Errorf("submit comment: %w", err)
	}
	if created == nil || created.ID == "" {
		c.mu.Unlock()
		return models.Comment{}, fmt.Errorf("submit comment: %w: server returned no comment id", models.ErrInvalidInput)
	}

	n := models.NormalizeComment(*created)
	if parentID != "" && n.ParentID == "" {
		n.ParentID = parentID
	}

	if _, exists := commenttree.Find(c.forest, n.ID); exists {
		// already merged by a reload that raced with the post
		c.mu.Unlock()
		return n, nil
	}

	events := []Event{{Kind: EventForestChanged}}
	if parentID == "" {
		c.forest = commenttree.Prepend(c.forest, n)
	} else if _, ok := commenttree.Find(c.forest, parentID); ok {
		c.forest = commenttree.AddReply(c.forest, parentID, n)
		c.expanded[parentID] = true
		c.local[n.ID] = struct{}{}
	} else {
		c.mu.Unlock()
		logger.WithFields(c.fields(parentID)).Warn("reply posted but its parent is no longer loaded")
		return n, nil
	}
	if c.opts.AutoScroll {
		events = append(events, Event{Kind: EventScrollTo, CommentID: n.ID})
	}
	c.unlockAndEmit(events...)
	return n, nil
}

// LikeComment toggles the viewer's like on id. The flip is applied before
// the request goes out; when it fails the liked flag and count go back to
// the values held before the flip. Only one like per comment may be in
// flight; a second one returns ErrBusy, and Pending(id) reports the busy
// state so a view can show it.
func (c *Controller) LikeComment(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	node, ok := commenttree.Find(c.forest, id)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	key := likeKey(id)
	if !c.acquireLocked(key) {
		c.mu.Unlock()
		return models.ErrBusy
	}

	wasLiked, prevCount := node.UserLiked, node.LikesCount
	delta := 1
	if wasLiked {
		delta = -1
	}
	epoch := c.epoch
	c.forest = commenttree.Update(c.forest, id, func(n models.Comment) models.Comment {
		n.UserLiked = !wasLiked
		n.LikesCount += delta
		if n.LikesCount < 0 {
			n.LikesCount = 0
		}
		return n
	})
	c.unlockAndEmit(Event{Kind: EventForestChanged, CommentID: id})

	err := c.api.LikeComment(ctx, c.postID, id)

	c.mu.Lock()
	delete(c.pending, key)
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if err == nil {
		c.mu.Unlock()
		return nil
	}

	logger.WithFields(c.fields(id)).Warn(fmt.Sprintf("like failed, reverting: %v", err))
	if epoch != c.epoch {
		// the forest was reloaded from the server; nothing of ours to undo
		c.mu.Unlock()
		return fmt.Errorf("like comment: %w", err)
	}
	c.forest = commenttree.Update(c.forest, id, func(n models.Comment) models.Comment {
		n.UserLiked = wasLiked
		n.LikesCount = prevCount
		return n
	})
	c.unlockAndEmit(Event{Kind: EventForestChanged, CommentID: id})
	return fmt.Errorf("like comment: %w", err)
}

// DeleteComment removes id and its subtree once the server confirms. A
// reply also takes one off its parent's RepliesCount. Unknown ids and
// repeated deletes are no-ops.
func (c *Controller) DeleteComment(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if _, ok := commenttree.Find(c.forest, id); !ok {
		c.mu.Unlock()
		return nil
	}
	key := deleteKey(id)
	if !c.acquireLocked(key) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	err := c.api.DeleteComment(ctx, c.postID, id)

	c.mu.Lock()
	delete(c.pending, key)
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		c.mu.Unlock()
		logger.WithFields(c.fields(id)).Warn(fmt.Sprintf("delete failed: %v", err))
		return fmt.Errorf("delete comment: %w", err)
	}

	node, ok := commenttree.Find(c.forest, id)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	parent, isReply := commenttree.FindParent(c.forest, id)
	gone := commenttree.IDs(models.Forest{node})

	_, unpaged := c.local[id]
	c.forest = commenttree.Remove(c.forest, id)
	if isReply {
		c.forest = commenttree.AdjustRepliesCount(c.forest, parent.ID, -1)
	}
	c.forgetSubtreeLocked(gone)
	if !unpaged {
		c.removed[parent.ID]++
	}
	c.unlockAndEmit(Event{Kind: EventForestChanged, CommentID: id})
	return nil
}

// EditComment replaces the content of id after the server accepts it and
// stamps EditedAt. Replies and counts are untouched.
func (c *Controller) EditComment(ctx context.Context, id, content string) error {
	content, err := models.ValidateContent(content)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if _, ok := commenttree.Find(c.forest, id); !ok {
		c.mu.Unlock()
		return nil
	}
	key := editKey(id)
	if !c.acquireLocked(key) {
		c.mu.Unlock()
		return models.ErrBusy
	}
	c.mu.Unlock()

	err = c.api.EditComment(ctx, c.postID, id, content)

	c.mu.Lock()
	delete(c.pending, key)
	if c.closed {
		c.mu.Unlock()
		return models.ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		logger.WithFields(c.fields(id)).Warn(fmt.Sprintf("edit failed: %v", err))
		return fmt.Errorf("edit comment: %w", err)
	}

	now := c.opts.Now()
	c.forest = commenttree.Update(c.forest, id, func(n models.Comment) models.Comment {
		n.Content = content
		n.EditedAt = &now
		n.IsEdited = true
		return n
	})
	c.unlockAndEmit(Event{Kind: EventForestChanged, CommentID: id})
	return nil
}
