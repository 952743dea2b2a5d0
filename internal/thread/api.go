package thread

import (
	"context"
	"time"

	"threadhub/pkg/models"
)

// API is the REST collaborator the controller talks to
type API interface {
	ListComments(ctx context.Context, postID string, page, limit int) (*models.CommentPage, error)
	ListReplies(ctx context.Context, postID, commentID string, page, limit int) (*models.ReplyPage, error)
	CreateComment(ctx context.Context, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	EditComment(ctx context.Context, postID, commentID, content string) error
	DeleteComment(ctx context.Context, postID, commentID string) error
	LikeComment(ctx context.Context, postID, commentID string) error
}

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Scheduler creates timers owned by a controller
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// RealScheduler runs callbacks on wall-clock timers
func RealScheduler() Scheduler {
	return realScheduler{}
}
