package utils

import (
	"errors"
	"strings"

	"threadhub/pkg/models"
)

// SafeError returns error message or default if nil
func SafeError(err error, defaultMsg string) string {
	if err != nil {
		return err.Error()
	}
	return defaultMsg
}

// UserMessage turns a client-side error into a short line for the terminal
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrUnauthorized):
		return "not logged in or token expired"
	case errors.Is(err, models.ErrForbidden):
		return "only the author can do that"
	case errors.Is(err, models.ErrNotFound):
		return "comment no longer exists"
	case errors.Is(err, models.ErrRateLimited):
		return "slow down, too many requests"
	case errors.Is(err, models.ErrBusy):
		return "still working on the previous request"
	case IsContextError(err):
		return "request timed out"
	}
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Message)
	}
	return err.Error()
}
