package thread

import (
	"context"
	"sync"
	"time"

	"threadhub/pkg/models"
)

type call struct {
	Method    string
	CommentID string
	Page      int
	Content   string
}

// fakeAPI answers through optional hooks and records every call
type fakeAPI struct {
	mu    sync.Mutex
	calls []call

	listComments  func(page int) (*models.CommentPage, error)
	listReplies   func(commentID string, page int) (*models.ReplyPage, error)
	createComment func(req models.CreateCommentRequest) (*models.Comment, error)
	editComment   func(commentID, content string) error
	deleteComment func(commentID string) error
	likeComment   func(commentID string) error
}

func (f *fakeAPI) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Calls(method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) ListComments(_ context.Context, _ string, page, _ int) (*models.CommentPage, error) {
	f.record(call{Method: "ListComments", Page: page})
	if f.listComments == nil {
		return &models.CommentPage{}, nil
	}
	return f.listComments(page)
}

func (f *fakeAPI) ListReplies(_ context.Context, _ string, commentID string, page, _ int) (*models.ReplyPage, error) {
	f.record(call{Method: "ListReplies", CommentID: commentID, Page: page})
	if f.listReplies == nil {
		return &models.ReplyPage{}, nil
	}
	return f.listReplies(commentID, page)
}

func (f *fakeAPI) CreateComment(_ context.Context, _ string, req models.CreateCommentRequest) (*models.Comment, error) {
	f.record(call{Method: "CreateComment", CommentID: req.ParentID, Content: req.Content})
	return f.createComment(req)
}

func (f *fakeAPI) EditComment(_ context.Context, _ string, commentID, content string) error {
	f.record(call{Method: "EditComment", CommentID: commentID, Content: content})
	if f.editComment == nil {
		return nil
	}
	return f.editComment(commentID, content)
}

func (f *fakeAPI) DeleteComment(_ context.Context, _ string, commentID string) error {
	f.record(call{Method: "DeleteComment", CommentID: commentID})
	if f.deleteComment == nil {
		return nil
	}
	return f.deleteComment(commentID)
}

func (f *fakeAPI) LikeComment(_ context.Context, _ string, commentID string) error {
	f.record(call{Method: "LikeComment", CommentID: commentID})
	if f.likeComment == nil {
		return nil
	}
	return f.likeComment(commentID)
}

// manualScheduler fires timers only when told to
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// FireAll runs every timer that has not been stopped, including stopped
// ones when force is set, to simulate callbacks racing with Stop.
func (s *manualScheduler) FireAll(force bool) {
	s.mu.Lock()
	timers := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range timers {
		if t.fired || (t.stopped && !force) {
			continue
		}
		t.fired = true
		t.fn()
	}
}

func (s *manualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) Has(kind EventKind, commentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Kind == kind && e.CommentID == commentID {
			return true
		}
	}
	return false
}

func comment(id string, repliesCount int, replies ...models.Comment) models.Comment {
	return models.Comment{ID: id, Content: "text of " + id, RepliesCount: repliesCount, Replies: replies}
}

func rootPage(hasMore bool, comments ...models.Comment) *models.CommentPage {
	return &models.CommentPage{
		Comments:   comments,
		Pagination: models.PageInfo{HasMore: hasMore},
	}
}
