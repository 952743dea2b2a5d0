package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"trims", "  hi there \n", "hi there", nil},
		{"empty", "", "", ErrEmptyContent},
		{"whitespace only", " \t\n ", "", ErrEmptyContent},
		{"at limit", strings.Repeat("é", MaxCommentLength), strings.Repeat("é", MaxCommentLength), nil},
		{"over limit", strings.Repeat("a", MaxCommentLength+1), "", ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContent(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeComment(t *testing.T) {
	edited := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Comment{
		ID:           "c1",
		LikesCount:   -2,
		RepliesCount: 1,
		EditedAt:     &edited,
		Replies: []Comment{
			{ID: "r1"},
			{Content: "missing id"},
			{ID: "r2", ParentID: "elsewhere"},
		},
	}

	out := NormalizeComment(in)

	assert.Equal(t, 0, out.LikesCount)
	assert.True(t, out.IsEdited)
	require.Len(t, out.Replies, 2)
	assert.Equal(t, 2, out.RepliesCount, "count never below the replies held")
	assert.Equal(t, "c1", out.Replies[0].ParentID)
	assert.Equal(t, "elsewhere", out.Replies[1].ParentID)
	assert.Len(t, in.Replies, 3, "input is not modified")
}

func TestNormalizeForest_NilBecomesEmpty(t *testing.T) {
	out := NormalizeForest(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAPIError_Is(t *testing.T) {
	notFound := fmt.Errorf("delete: %w", &APIError{StatusCode: http.StatusNotFound})
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.False(t, errors.Is(notFound, ErrForbidden))

	assert.True(t, errors.Is(&APIError{StatusCode: http.StatusUnauthorized}, ErrUnauthorized))
	assert.True(t, errors.Is(&APIError{StatusCode: http.StatusTooManyRequests}, ErrRateLimited))
	assert.False(t, errors.Is(&APIError{StatusCode: http.StatusInternalServerError}, ErrNotFound))
}

func TestAppErrorFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, AppErrorFor(ErrEmptyContent).StatusCode)
	assert.Equal(t, http.StatusNotFound, AppErrorFor(fmt.Errorf("x: %w", ErrNotFound)).StatusCode)
	assert.Equal(t, http.StatusForbidden, AppErrorFor(ErrForbidden).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, AppErrorFor(ErrRateLimited).StatusCode)

	internal := AppErrorFor(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, internal.StatusCode)
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.Equal(t, "disk on fire", internal.Details["original_error"])
}

func TestNewPageInfo(t *testing.T) {
	assert.True(t, NewPageInfo(1, 20, 21).HasMore)
	assert.False(t, NewPageInfo(2, 20, 40).HasMore)
	assert.False(t, NewPageInfo(1, 20, 0).HasMore)
}
