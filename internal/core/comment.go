// Package core - Comment Business Logic
// Protocol-agnostic comment management service
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"threadhub/internal/repository"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

// Page size bounds applied when callers pass zero or out-of-range limits
const (
	DefaultLimit      = 20
	DefaultReplyLimit = 10
	MaxLimit          = 100
)

// CommentService defines comment operations
type CommentService interface {
	List(ctx context.Context, postID string, viewer models.Viewer, page, limit int) (*models.CommentPage, error)
	Replies(ctx context.Context, postID, commentID string, viewer models.Viewer, page, limit int) (*models.ReplyPage, error)
	Create(ctx context.Context, postID string, viewer models.Viewer, req models.CreateCommentRequest) (*models.Comment, error)
	Edit(ctx context.Context, postID, commentID string, viewer models.Viewer, content string) error
	Delete(ctx context.Context, postID, commentID string, viewer models.Viewer) error
	ToggleLike(ctx context.Context, postID, commentID string, viewer models.Viewer) (*models.LikeResponse, error)
}

// Limits configures page sizes
type Limits struct {
	Default      int
	DefaultReply int
	Max          int
}

type commentService struct {
	commentRepo repository.CommentRepository
	limits      Limits
	now         func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo repository.CommentRepository, limits Limits) CommentService {
	if limits.Default <= 0 {
		limits.Default = DefaultLimit
	}
	if limits.DefaultReply <= 0 {
		limits.DefaultReply = DefaultReplyLimit
	}
	if limits.Max <= 0 {
		limits.Max = MaxLimit
	}
	return &commentService{
		commentRepo: commentRepo,
		limits:      limits,
		now:         func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *commentService) clamp(page, limit, fallback int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}
	return page, limit
}

// List returns one page of top-level comments, newest first. The page and
// the total are queried concurrently.
func (s *commentService) List(ctx context.Context, postID string, viewer models.Viewer, page, limit int) (*models.CommentPage, error) {
	page, limit = s.clamp(page, limit, s.limits.Default)
	offset := (page - 1) * limit

	var (
		comments []models.Comment
		total    int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		comments, err = s.commentRepo.ListRoots(egCtx, postID, viewer.ID, limit, offset)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.commentRepo.CountRoots(egCtx, postID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return &models.CommentPage{
		Comments:   comments,
		Pagination: models.NewPageInfo(page, limit, total),
	}, nil
}

// Replies returns one page of direct replies, oldest first
func (s *commentService) Replies(ctx context.Context, postID, commentID string, viewer models.Viewer, page, limit int) (*models.ReplyPage, error) {
	page, limit = s.clamp(page, limit, s.limits.DefaultReply)

	parent, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if parent.PostID != postID {
		return nil, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}

	// one extra row tells whether another page exists
	replies, err := s.commentRepo.ListReplies(ctx, postID, commentID, viewer.ID, limit+1, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	hasMore := len(replies) > limit
	if hasMore {
		replies = replies[:limit]
	}
	return &models.ReplyPage{Replies: replies, HasMore: hasMore}, nil
}

// Create stores a comment or reply authored by viewer
func (s *commentService) Create(ctx context.Context, postID string, viewer models.Viewer, req models.CreateCommentRequest) (*models.Comment, error) {
	if viewer.Anonymous() {
		return nil, models.ErrUnauthorized
	}
	content, err := models.ValidateContent(req.Content)
	if err != nil {
		return nil, err
	}

	if req.ParentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("parent belongs to another post: %w", models.ErrInvalidInput)
		}
	}

	comment := &models.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		ParentID: req.ParentID,
		Content:  content,
		Author: models.Author{
			ID:   viewer.ID,
			Name: viewer.Name,
			Role: viewer.Role,
		},
		CreatedAt: s.now(),
		Replies:   []models.Comment{},
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"post_id":    postID,
		"comment_id": comment.ID,
		"parent_id":  req.ParentID,
		"author_id":  viewer.ID,
	}).Info("comment created")
	return comment, nil
}

// authorize loads the comment and checks that viewer wrote it
func (s *commentService) authorize(ctx context.Context, postID, commentID string, viewer models.Viewer) (*models.Comment, error) {
	if viewer.Anonymous() {
		return nil, models.ErrUnauthorized
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	if comment.Author.ID != viewer.ID && viewer.Role != "admin" {
		return nil, models.ErrForbidden
	}
	return comment, nil
}

// Edit replaces the content of the viewer's own comment
func (s *commentService) Edit(ctx context.Context, postID, commentID string, viewer models.Viewer, content string) error {
	content, err := models.ValidateContent(content)
	if err != nil {
		return err
	}
	if _, err := s.authorize(ctx, postID, commentID, viewer); err != nil {
		return err
	}
	return s.commentRepo.UpdateContent(ctx, commentID, content, s.now())
}

// Delete removes the viewer's own comment together with its replies
func (s *commentService) Delete(ctx context.Context, postID, commentID string, viewer models.Viewer) error {
	if _, err := s.authorize(ctx, postID, commentID, viewer); err != nil {
		return err
	}
	removed, err := s.commentRepo.DeleteTree(ctx, commentID)
	if err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"post_id":    postID,
		"comment_id": commentID,
		"removed":    removed,
	}).Info("comment deleted")
	return nil
}

// ToggleLike flips the viewer's like on a comment
func (s *commentService) ToggleLike(ctx context.Context, postID, commentID string, viewer models.Viewer) (*models.LikeResponse, error) {
	if viewer.Anonymous() {
		return nil, models.ErrUnauthorized
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}

	liked, count, err := s.commentRepo.ToggleLike(ctx, commentID, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &models.LikeResponse{OK: true, Liked: liked, LikesCount: count}, nil
}
