package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"threadhub/pkg/models"
)

func TestAgo(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{25 * time.Hour, "yesterday"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{21 * 24 * time.Hour, "3 weeks ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Ago(now.Add(-tt.ago), now))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "09:30", FormatTimestamp(time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC), now))
	assert.Equal(t, "Fri 09:30", FormatTimestamp(time.Date(2026, 5, 8, 9, 30, 0, 0, time.UTC), now))
	assert.Equal(t, "2026-04-01", FormatTimestamp(time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC), now))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "comment no longer exists", UserMessage(fmt.Errorf("delete: %w", &models.APIError{StatusCode: 404})))
	assert.Equal(t, "only the author can do that", UserMessage(&models.APIError{StatusCode: 403}))
	assert.Equal(t, "boom", UserMessage(&models.APIError{StatusCode: 500, Message: " boom "}))
	assert.Equal(t, "request timed out", UserMessage(fmt.Errorf("load: %w", context.DeadlineExceeded)))
	assert.Equal(t, "still working on the previous request", UserMessage(models.ErrBusy))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}
