package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadhub/internal/repository"
	"threadhub/pkg/database"
	"threadhub/pkg/models"
)

var (
	ana   = models.Viewer{ID: "u-ana", Name: "Ana", Role: "member"}
	ben   = models.Viewer{ID: "u-ben", Name: "Ben", Role: "member"}
	admin = models.Viewer{ID: "u-root", Name: "Root", Role: "admin"}
)

func newTestService(t *testing.T) CommentService {
	t.Helper()
	db, err := database.Open(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(context.Background(), db))

	svc := NewCommentService(repository.NewCommentRepository(db), Limits{Default: 2, DefaultReply: 2, Max: 5}).(*commentService)
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func post(t *testing.T, svc CommentService, viewer models.Viewer, content, parentID string) *models.Comment {
	t.Helper()
	c, err := svc.Create(context.Background(), "p1", viewer, models.CreateCommentRequest{Content: content, ParentID: parentID})
	require.NoError(t, err)
	return c
}

func TestCommentService_Create(t *testing.T) {
	svc := newTestService(t)

	c := post(t, svc, ana, "  hello  ", "")

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "hello", c.Content)
	assert.Equal(t, "p1", c.PostID)
	assert.Equal(t, ana.ID, c.Author.ID)
	assert.Equal(t, "Ana", c.Author.Name)
	assert.Equal(t, 0, c.RepliesCount)
	assert.NotNil(t, c.Replies)
}

func TestCommentService_CreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "p1", ana, models.CreateCommentRequest{Content: "   "})
	assert.ErrorIs(t, err, models.ErrEmptyContent)

	_, err = svc.Create(ctx, "p1", ana, models.CreateCommentRequest{Content: strings.Repeat("x", models.MaxCommentLength+1)})
	assert.ErrorIs(t, err, models.ErrContentTooLong)

	_, err = svc.Create(ctx, "p1", models.Viewer{}, models.CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Create(ctx, "p1", ana, models.CreateCommentRequest{Content: "hi", ParentID: "ghost"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	other, err := svc.Create(ctx, "p2", ana, models.CreateCommentRequest{Content: "elsewhere"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "p1", ana, models.CreateCommentRequest{Content: "hi", ParentID: other.ID})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCommentService_ListPaging(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	first := post(t, svc, ana, "first", "")
	second := post(t, svc, ana, "second", "")
	third := post(t, svc, ben, "third", "")

	page, err := svc.List(ctx, "p1", ana, 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Comments, 2)
	assert.Equal(t, third.ID, page.Comments[0].ID, "newest first")
	assert.Equal(t, second.ID, page.Comments[1].ID)
	assert.Equal(t, models.PageInfo{Page: 1, Limit: 2, Total: 3, HasMore: true}, page.Pagination)

	page, err = svc.List(ctx, "p1", ana, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, first.ID, page.Comments[0].ID)
	assert.False(t, page.Pagination.HasMore)

	page, err = svc.List(ctx, "p1", ana, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Pagination.Limit, "limit is capped")
}

func TestCommentService_Replies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	root := post(t, svc, ana, "root", "")
	r1 := post(t, svc, ben, "r1", root.ID)
	r2 := post(t, svc, ben, "r2", root.ID)
	r3 := post(t, svc, ana, "r3", root.ID)

	page, err := svc.Replies(ctx, "p1", root.ID, ana, 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Replies, 2)
	assert.Equal(t, r1.ID, page.Replies[0].ID, "oldest first")
	assert.Equal(t, r2.ID, page.Replies[1].ID)
	assert.True(t, page.HasMore)

	page, err = svc.Replies(ctx, "p1", root.ID, ana, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Replies, 1)
	assert.Equal(t, r3.ID, page.Replies[0].ID)
	assert.False(t, page.HasMore)

	roots, err := svc.List(ctx, "p1", ana, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, roots.Comments[0].RepliesCount)

	_, err = svc.Replies(ctx, "p2", root.ID, ana, 1, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentService_EditAuthorOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := post(t, svc, ana, "draft", "")

	assert.ErrorIs(t, svc.Edit(ctx, "p1", c.ID, ben, "hijack"), models.ErrForbidden)
	assert.ErrorIs(t, svc.Edit(ctx, "p1", c.ID, models.Viewer{}, "anon"), models.ErrUnauthorized)
	assert.ErrorIs(t, svc.Edit(ctx, "p1", c.ID, ana, " "), models.ErrEmptyContent)
	require.NoError(t, svc.Edit(ctx, "p1", c.ID, ana, "final"))

	page, err := svc.List(ctx, "p1", ana, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "final", page.Comments[0].Content)
	assert.True(t, page.Comments[0].IsEdited)
	assert.NotNil(t, page.Comments[0].EditedAt)
}

func TestCommentService_DeleteSubtree(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	root := post(t, svc, ana, "root", "")
	reply := post(t, svc, ben, "reply", root.ID)
	post(t, svc, ana, "nested", reply.ID)

	assert.ErrorIs(t, svc.Delete(ctx, "p1", reply.ID, ana), models.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "p1", reply.ID, ben))

	page, err := svc.List(ctx, "p1", ana, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Comments[0].RepliesCount)

	assert.ErrorIs(t, svc.Delete(ctx, "p1", reply.ID, ben), models.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "p1", root.ID, admin), "admins may delete any comment")
}

func TestCommentService_ToggleLike(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := post(t, svc, ana, "like me", "")

	res, err := svc.ToggleLike(ctx, "p1", c.ID, ben)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResponse{OK: true, Liked: true, LikesCount: 1}, *res)

	page, err := svc.List(ctx, "p1", ben, 1, 0)
	require.NoError(t, err)
	assert.True(t, page.Comments[0].UserLiked)

	res, err = svc.ToggleLike(ctx, "p1", c.ID, ben)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResponse{OK: true, Liked: false, LikesCount: 0}, *res)

	_, err = svc.ToggleLike(ctx, "p1", c.ID, models.Viewer{})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
