package utils

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single request issued by the CLI or TUI
const DefaultTimeout = 10 * time.Second

// WithTimeout creates context with default timeout
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultTimeout)
}

// WithLongTimeout is used for operations that page through several requests,
// such as navigating to a deeply nested comment
func WithLongTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 4*DefaultTimeout)
}

// IsContextError checks if error is from context cancellation
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
