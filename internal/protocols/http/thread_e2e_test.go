package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadhub/internal/thread"
	"threadhub/internal/tui/api"
	"threadhub/pkg/models"
)

// TestControllerAgainstServer drives a thread controller through the REST
// client against a live server backed by sqlite.
func TestControllerAgainstServer(t *testing.T) {
	ts := newTestServer(t, testConfig())
	srv := httptest.NewServer(ts.server.Router())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client := api.NewClient(srv.URL+"/api/v1", api.WithToken(ts.token(t, ana)))
	require.NoError(t, client.Health(ctx))

	ctrl := thread.New(client, "p1", thread.Options{PageSize: 2, ReplyPageSize: 2})
	t.Cleanup(ctrl.Close)

	require.NoError(t, ctrl.LoadFirstPage(ctx))
	assert.Empty(t, ctrl.Forest())

	root, err := ctrl.SubmitComment(ctx, "hello thread", "")
	require.NoError(t, err)
	reply, err := ctrl.SubmitComment(ctx, "first reply", root.ID)
	require.NoError(t, err)

	got, ok := ctrl.Comment(root.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.RepliesCount)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, reply.ID, got.Replies[0].ID)

	require.NoError(t, ctrl.LikeComment(ctx, reply.ID))
	require.NoError(t, ctrl.EditComment(ctx, root.ID, "hello, edited"))

	// A fresh controller sees the server's view of the same thread
	fresh := thread.New(client, "p1", thread.Options{PageSize: 2, ReplyPageSize: 2})
	t.Cleanup(fresh.Close)
	require.NoError(t, fresh.LoadFirstPage(ctx))
	got, ok = fresh.Comment(root.ID)
	require.True(t, ok)
	assert.Equal(t, "hello, edited", got.Content)
	assert.True(t, got.IsEdited)
	assert.Empty(t, got.Replies, "replies are loaded on demand")
	assert.True(t, fresh.CanLoadReplies(root.ID))

	require.NoError(t, fresh.NavigateTo(ctx, reply.ID, root.ID))
	assert.Equal(t, reply.ID, fresh.Highlighted())
	loaded, ok := fresh.Comment(reply.ID)
	require.True(t, ok)
	assert.True(t, loaded.UserLiked)
	assert.Equal(t, 1, loaded.LikesCount)

	require.NoError(t, fresh.DeleteComment(ctx, reply.ID))
	got, _ = fresh.Comment(root.ID)
	assert.Equal(t, 0, got.RepliesCount)

	err = ctrl.EditComment(ctx, reply.ID, "too late")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
