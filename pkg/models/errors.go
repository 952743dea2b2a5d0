package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes used in API responses
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

// Common errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrEmptyContent   = errors.New("comment content cannot be empty")
	ErrContentTooLong = fmt.Errorf("comment content exceeds %d characters", MaxCommentLength)
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrInvalidInput   = errors.New("invalid input")
	ErrRateLimited    = errors.New("too many requests")

	// Client-side controller errors
	ErrClosed = errors.New("thread controller closed")
	ErrBusy   = errors.New("operation already in flight")
)

// AppError is the error shape the server reports to clients
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ToHTTPError converts to the API response envelope
func (e *AppError) ToHTTPError() *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     e.Message,
		Message:   e.Message,
		Timestamp: time.Now(),
	}
}

// NewHTTPError builds an AppError carrying the original error text
func NewHTTPError(code, message string, statusCode int, err error) *AppError {
	appErr := &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
	if err != nil {
		appErr.Details = map[string]interface{}{"original_error": err.Error()}
	}
	return appErr
}

// AppErrorFor maps a service error to its HTTP representation
func AppErrorFor(err error) *AppError {
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong), errors.Is(err, ErrInvalidInput):
		return NewHTTPError(ErrCodeValidation, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(ErrCodeNotFound, "comment not found", http.StatusNotFound, err)
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(ErrCodeUnauthorized, "unauthorized", http.StatusUnauthorized, err)
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(ErrCodeForbidden, "only the author can change this comment", http.StatusForbidden, err)
	case errors.Is(err, ErrRateLimited):
		return NewHTTPError(ErrCodeRateLimited, err.Error(), http.StatusTooManyRequests, err)
	default:
		return NewHTTPError(ErrCodeInternal, "internal server error", http.StatusInternalServerError, err)
	}
}

// APIError is a non-2xx response seen by the HTTP client
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Is lets callers match transport errors against the sentinels above
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}
