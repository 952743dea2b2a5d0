// Package thread keeps one post's comment forest in sync with the REST
// backend: paging, reply disclosure, submissions with reconciliation and
// scroll/highlight coordination for the view that renders it.
package thread

import (
	"sync"
	"time"

	"threadhub/pkg/commenttree"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

// Defaults applied by New
const (
	DefaultPageSize          = 20
	DefaultReplyPageSize     = 10
	DefaultHighlightDuration = 2 * time.Second
)

// Options configures a Controller
type Options struct {
	PageSize          int
	ReplyPageSize     int
	AutoScroll        bool
	HighlightDuration time.Duration
	Scheduler         Scheduler
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.ReplyPageSize <= 0 {
		o.ReplyPageSize = DefaultReplyPageSize
	}
	if o.HighlightDuration <= 0 {
		o.HighlightDuration = DefaultHighlightDuration
	}
	if o.Scheduler == nil {
		o.Scheduler = RealScheduler()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Controller owns the forest of exactly one open discussion. All methods are
// safe for concurrent use; network calls run without holding the lock.
type Controller struct {
	api    API
	postID string
	opts   Options

	mu       sync.Mutex
	forest   models.Forest
	root     models.Cursor
	replies  map[string]*models.Cursor
	pending  map[string]struct{}
	expanded map[string]bool

	// local holds replies posted here that no reply page has returned yet.
	local map[string]struct{}
	// removed counts loaded children deleted since the last page merge, per
	// parent id ("" for the root list). Offset paging shifts by that much.
	removed map[string]int

	// rootGen orders root page loads; only the latest generation applies.
	rootGen uint64
	// epoch bumps whenever the forest is replaced wholesale.
	epoch uint64

	highlighted    string
	highlightSeq   uint64
	highlightTimer Timer

	closed    bool
	listeners []subscription
	nextSubID int
}

// New creates a controller for postID
func New(api API, postID string, opts Options) *Controller {
	return &Controller{
		api:      api,
		postID:   postID,
		opts:     opts.withDefaults(),
		forest:   models.Forest{},
		replies:  make(map[string]*models.Cursor),
		pending:  make(map[string]struct{}),
		expanded: make(map[string]bool),
		local:    make(map[string]struct{}),
		removed:  make(map[string]int),
	}
}

// PostID returns the post this controller is bound to
func (c *Controller) PostID() string {
	return c.postID
}

// Forest returns the current snapshot. Callers must treat it as read-only.
func (c *Controller) Forest() models.Forest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forest
}

// Comment looks a node up anywhere in the current forest
func (c *Controller) Comment(id string) (models.Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return commenttree.Find(c.forest, id)
}

// RootCursor returns pagination state of the top-level list
func (c *Controller) RootCursor() models.Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// ReplyCursor returns reply pagination state of a node. The second result
// is false when no reply page has been requested for it yet.
func (c *Controller) ReplyCursor(id string) (models.Cursor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.replies[id]
	if !ok {
		return models.Cursor{}, false
	}
	return *cur, true
}

// Loading reports whether any root or reply load is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root.Loading {
		return true
	}
	for _, cur := range c.replies {
		if cur.Loading {
			return true
		}
	}
	return false
}

// Highlighted returns the id highlighted by the last navigation, if any
func (c *Controller) Highlighted() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlighted
}

// Subscribe registers fn for every subsequent event
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close tears the controller down. Pending timers are stopped and responses
// that arrive afterwards are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopHighlightLocked()
	c.listeners = nil
	logger.WithFields(c.fields("")).Debug("thread controller closed")
}

// Closed reports whether Close has been called
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// emit delivers events to a snapshot of the listeners. Must be called
// without holding c.mu.
func (c *Controller) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	listeners := make([]subscription, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, e := range events {
		for _, s := range listeners {
			s.fn(e)
		}
	}
}

// unlockAndEmit releases c.mu and then delivers events
func (c *Controller) unlockAndEmit(events ...Event) {
	c.mu.Unlock()
	c.emit(events...)
}

func (c *Controller) fields(commentID string) map[string]interface{} {
	f := map[string]interface{}{"post_id": c.postID}
	if commentID != "" {
		f["comment_id"] = commentID
	}
	return f
}

// nextPageLocked returns the page to request after cur for a list that
// currently holds held server-ordered items. Local deletes shift later items
// into pages already fetched, so after one the page holding the first unseen
// item is requested again; the merge skips what is already held.
func (c *Controller) nextPageLocked(parentID string, cur models.Cursor, held, size int) int {
	next := cur.Page + 1
	if c.removed[parentID] > 0 {
		if shifted := held/size + 1; shifted < next {
			next = shifted
		}
	}
	return next
}

// forgetSubtreeLocked drops per-node state for every id in ids
func (c *Controller) forgetSubtreeLocked(ids map[string]struct{}) {
	for id := range ids {
		delete(c.replies, id)
		delete(c.expanded, id)
		delete(c.local, id)
		delete(c.removed, id)
	}
	if _, gone := ids[c.highlighted]; gone {
		c.stopHighlightLocked()
	}
}
