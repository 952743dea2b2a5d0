package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadhub/pkg/database"
	"threadhub/pkg/models"
)

func newTestRepo(t *testing.T) CommentRepository {
	t.Helper()
	db, err := database.Open(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, Migrate(context.Background(), db), "migrations are idempotent")
	return NewCommentRepository(db)
}

var base = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func insert(t *testing.T, repo CommentRepository, id, parentID string, minute int) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &models.Comment{
		ID:        id,
		PostID:    "p1",
		ParentID:  parentID,
		Content:   "content " + id,
		Author:    models.Author{ID: "u1", Name: "Ana", Verified: true, Role: "member"},
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}))
}

func commentIDs(list []models.Comment) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestCommentRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	insert(t, repo, "c1", "", 0)
	insert(t, repo, "r1", "c1", 1)

	c1, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "p1", c1.PostID)
	assert.Equal(t, "Ana", c1.Author.Name)
	assert.True(t, c1.Author.Verified)
	assert.Equal(t, 1, c1.RepliesCount)
	assert.True(t, base.Equal(c1.CreatedAt))
	assert.Nil(t, c1.EditedAt)

	r1, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "c1", r1.ParentID)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentRepository_CreateUnknownParent(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Create(context.Background(), &models.Comment{PostID: "p1", ParentID: "ghost", Content: "x", Author: models.Author{ID: "u1"}})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentRepository_Ordering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	insert(t, repo, "old", "", 0)
	insert(t, repo, "mid", "", 1)
	insert(t, repo, "new", "", 2)
	insert(t, repo, "r-late", "old", 5)
	insert(t, repo, "r-early", "old", 3)

	roots, err := repo.ListRoots(ctx, "p1", "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid"}, commentIDs(roots))

	roots, err = repo.ListRoots(ctx, "p1", "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, commentIDs(roots))

	total, err := repo.CountRoots(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	replies, err := repo.ListReplies(ctx, "p1", "old", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r-early", "r-late"}, commentIDs(replies))
}

func TestCommentRepository_ToggleLike(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	insert(t, repo, "c1", "", 0)

	liked, count, err := repo.ToggleLike(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	roots, err := repo.ListRoots(ctx, "p1", "u2", 10, 0)
	require.NoError(t, err)
	assert.True(t, roots[0].UserLiked)
	assert.Equal(t, 1, roots[0].LikesCount)

	roots, err = repo.ListRoots(ctx, "p1", "someone-else", 10, 0)
	require.NoError(t, err)
	assert.False(t, roots[0].UserLiked)

	liked, count, err = repo.ToggleLike(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	_, _, err = repo.ToggleLike(ctx, "ghost", "u2")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentRepository_UpdateContent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	insert(t, repo, "c1", "", 0)
	editedAt := base.Add(time.Hour)

	require.NoError(t, repo.UpdateContent(ctx, "c1", "changed", editedAt))

	c1, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "changed", c1.Content)
	require.NotNil(t, c1.EditedAt)
	assert.True(t, editedAt.Equal(*c1.EditedAt))
	assert.True(t, c1.IsEdited)

	assert.ErrorIs(t, repo.UpdateContent(ctx, "ghost", "x", editedAt), models.ErrNotFound)
}

func TestCommentRepository_DeleteTree(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	insert(t, repo, "c1", "", 0)
	insert(t, repo, "r1", "c1", 1)
	insert(t, repo, "r2", "c1", 2)
	insert(t, repo, "r1a", "r1", 3)
	_, _, err := repo.ToggleLike(ctx, "r1a", "u2")
	require.NoError(t, err)

	removed, err := repo.DeleteTree(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	c1, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, c1.RepliesCount)
	_, err = repo.GetByID(ctx, "r1a")
	assert.ErrorIs(t, err, models.ErrNotFound)

	removed, err = repo.DeleteTree(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = repo.DeleteTree(ctx, "c1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
