package comments

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadhub/internal/core"
	httpProtocol "threadhub/internal/protocols/http"
	"threadhub/internal/repository"
	"threadhub/internal/thread"
	"threadhub/internal/tui/api"
	"threadhub/pkg/commenttree"
	"threadhub/pkg/config"
	"threadhub/pkg/database"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

func init() {
	logger.Init(logger.Config{Level: "error", Output: "discard"})
}

// newBackend starts a real server over an in-memory database and returns a
// client authenticated as Ana
func newBackend(t *testing.T) *api.Client {
	t.Helper()
	db, err := database.Open(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(context.Background(), db))

	cfg := &config.Config{Pagination: config.PaginationConfig{DefaultLimit: 2, DefaultReplyLimit: 2, MaxLimit: 10}}
	authSvc := core.NewAuthService("cli-secret", "threadhub", time.Hour)
	commentSvc := core.NewCommentService(repository.NewCommentRepository(db), core.Limits{Default: 2, DefaultReply: 2, Max: 10})
	srv := httptest.NewServer(httpProtocol.NewServer(cfg, db, authSvc, commentSvc).Router())
	t.Cleanup(srv.Close)

	token, _, err := authSvc.IssueToken(models.Viewer{ID: "u-ana", Name: "Ana"})
	require.NoError(t, err)
	return api.NewClient(srv.URL+"/api/v1", api.WithToken(token))
}

func newCtrl(t *testing.T, client *api.Client) *thread.Controller {
	t.Helper()
	ctrl := thread.New(client, "p1", thread.Options{PageSize: 2, ReplyPageSize: 2})
	t.Cleanup(ctrl.Close)
	return ctrl
}

func TestSubmitThenList(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, runSubmit(ctx, &out, newCtrl(t, client), "older", ""))
	require.NoError(t, runSubmit(ctx, &out, newCtrl(t, client), "middle", ""))
	require.NoError(t, runSubmit(ctx, &out, newCtrl(t, client), "newest", ""))
	assert.Contains(t, out.String(), "✓ Comment posted")

	out.Reset()
	require.NoError(t, runList(ctx, &out, newCtrl(t, client), 1, false, time.Now()))
	text := out.String()
	assert.Contains(t, text, "newest")
	assert.Contains(t, text, "middle")
	assert.NotContains(t, text, "older")
	assert.Contains(t, text, "More comments available: --pages 2")

	out.Reset()
	require.NoError(t, runList(ctx, &out, newCtrl(t, client), 2, false, time.Now()))
	assert.Contains(t, out.String(), "older")
	assert.NotContains(t, out.String(), "More comments available")
}

func TestListExpandAndGoto(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	root, err := client.CreateComment(ctx, "p1", models.CreateCommentRequest{Content: "root"})
	require.NoError(t, err)
	child, err := client.CreateComment(ctx, "p1", models.CreateCommentRequest{Content: "child", ParentID: root.ID})
	require.NoError(t, err)
	grandchild, err := client.CreateComment(ctx, "p1", models.CreateCommentRequest{Content: "grandchild", ParentID: child.ID})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runList(ctx, &out, newCtrl(t, client), 1, false, time.Now()))
	assert.NotContains(t, out.String(), "child")
	assert.Contains(t, out.String(), "1 reply (1 not loaded)")

	out.Reset()
	require.NoError(t, runList(ctx, &out, newCtrl(t, client), 1, true, time.Now()))
	assert.Contains(t, out.String(), "\n      child\n", "replies are indented one level")

	out.Reset()
	require.NoError(t, runGoto(ctx, &out, newCtrl(t, client), grandchild.ID, []string{root.ID, child.ID}, time.Now()))
	assert.Contains(t, out.String(), "  ▶ Ana")
	assert.Contains(t, out.String(), "grandchild")

	err = runGoto(ctx, &out, newCtrl(t, client), grandchild.ID, nil, time.Now())
	assert.ErrorContains(t, err, "nested comments need --path")
}

func TestRepliesEditLikeDelete(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()
	var out bytes.Buffer

	root, err := client.CreateComment(ctx, "p1", models.CreateCommentRequest{Content: "root"})
	require.NoError(t, err)
	for _, text := range []string{"r1", "r2", "r3"} {
		_, err := client.CreateComment(ctx, "p1", models.CreateCommentRequest{Content: text, ParentID: root.ID})
		require.NoError(t, err)
	}

	require.NoError(t, runReplies(ctx, &out, client, "p1", root.ID, 1, 2, time.Now()))
	assert.Contains(t, out.String(), "r1")
	assert.Contains(t, out.String(), "More replies available: --page 2")

	out.Reset()
	require.NoError(t, runEdit(ctx, &out, client, "p1", root.ID, "root, edited"))
	assert.Contains(t, out.String(), "✓ Comment updated")
	assert.Error(t, runEdit(ctx, &out, client, "p1", root.ID, "   "))

	out.Reset()
	require.NoError(t, runLike(ctx, &out, client, "p1", root.ID))
	assert.Equal(t, "♥ Liked (1)\n", out.String())
	out.Reset()
	require.NoError(t, runLike(ctx, &out, client, "p1", root.ID))
	assert.Equal(t, "♡ Like removed (0)\n", out.String())

	require.NoError(t, runDelete(ctx, &out, client, "p1", root.ID))
	require.NoError(t, runDelete(ctx, &out, client, "p1", root.ID), "deleting twice is not an error")

	err = runLike(ctx, &out, client, "p1", root.ID)
	assert.ErrorContains(t, err, "comment no longer exists")
}

func TestRenderRows(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tree := models.NormalizeForest([]models.Comment{{
		ID:           "c1",
		Content:      "hello\nworld",
		Author:       models.Author{ID: "u1", Name: "Ana", Verified: true},
		CreatedAt:    now.Add(-5 * time.Minute),
		IsEdited:     true,
		LikesCount:   2,
		UserLiked:    true,
		RepliesCount: 3,
		Replies:      []models.Comment{{ID: "r1", Content: "hi", Author: models.Author{ID: "u2"}, CreatedAt: now}},
	}})

	var out bytes.Buffer
	renderRows(&out, commenttree.Flatten(tree), "r1", now)

	want := "  Ana ✓ · 5 minutes ago (edited)\n" +
		"    hello\n" +
		"    world\n" +
		"    ♥ 2 (you) · 3 replies (2 not loaded)  id:c1\n" +
		"  ▶ u2 · just now\n" +
		"      hi\n" +
		"      ♥ 0  id:r1\n"
	assert.Equal(t, want, out.String())

	out.Reset()
	renderRows(&out, nil, "", now)
	assert.Equal(t, "No comments yet.\n", out.String())
}
