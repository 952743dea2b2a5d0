// Package api is the HTTP client for the threadhub REST API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"threadhub/internal/thread"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

// DefaultTimeout bounds every request when no http.Client is supplied
const DefaultTimeout = 30 * time.Second

var _ thread.API = (*Client)(nil)

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a new API client. baseURL includes the /api/v1 prefix.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// GetToken returns the current authentication token
func (c *Client) GetToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with common handling
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	logger.WithFields(map[string]interface{}{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).Milliseconds(),
	}).Debug("api request")

	return resp, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// decodeAPIResponse decodes the APIResponse envelope and unmarshals the data field into target
func decodeAPIResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !apiResp.Success {
		msg := apiResp.Error
		if msg == "" {
			msg = "request failed"
		}
		return &models.APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if target != nil && len(apiResp.Data) > 0 && string(apiResp.Data) != "null" {
		if err := json.Unmarshal(apiResp.Data, target); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// errorMessage pulls the error text out of an envelope, or returns the raw body
func errorMessage(body []byte) string {
	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err == nil {
		if apiResp.Error != "" {
			return apiResp.Error
		}
		if apiResp.Message != "" {
			return apiResp.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func commentsPath(postID string) string {
	return "/posts/" + url.PathEscape(postID) + "/comments"
}

func commentPath(postID, commentID string) string {
	return commentsPath(postID) + "/" + url.PathEscape(commentID)
}

// ListComments fetches one page of top-level comments, newest first
func (c *Client) ListComments(ctx context.Context, postID string, page, limit int) (*models.CommentPage, error) {
	path := fmt.Sprintf("%s?page=%d&limit=%d", commentsPath(postID), page, limit)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result models.CommentPage
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	result.Comments = models.NormalizeForest(result.Comments)
	return &result, nil
}

// ListReplies fetches one page of direct replies to commentID, oldest first
func (c *Client) ListReplies(ctx context.Context, postID, commentID string, page, limit int) (*models.ReplyPage, error) {
	path := fmt.Sprintf("%s/replies?page=%d&limit=%d", commentPath(postID, commentID), page, limit)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result models.ReplyPage
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	result.Replies = models.NormalizeForest(result.Replies)
	return &result, nil
}

// CreateComment posts a comment or reply and returns the stored node
func (c *Client) CreateComment(ctx context.Context, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, commentsPath(postID), req)
	if err != nil {
		return nil, err
	}

	var created models.Comment
	if err := decodeAPIResponse(resp, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("create comment: %w: response carries no id", models.ErrInvalidInput)
	}
	created = models.NormalizeComment(created)
	return &created, nil
}

// EditComment replaces the content of a comment
func (c *Client) EditComment(ctx context.Context, postID, commentID, content string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, commentPath(postID, commentID), models.EditCommentRequest{Content: content})
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}

// DeleteComment removes a comment and its replies
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, commentPath(postID, commentID), nil)
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}

// LikeComment toggles the caller's like
func (c *Client) LikeComment(ctx context.Context, postID, commentID string) error {
	_, err := c.ToggleLike(ctx, postID, commentID)
	return err
}

// ToggleLike toggles the caller's like and returns the server's view of it
func (c *Client) ToggleLike(ctx context.Context, postID, commentID string) (*models.LikeResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, commentPath(postID, commentID)+"/like", nil)
	if err != nil {
		return nil, err
	}

	var result models.LikeResponse
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health pings the server's health endpoint, which lives outside /api/v1
func (c *Client) Health(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api/v1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &models.APIError{StatusCode: resp.StatusCode, Message: "unhealthy"}
	}
	return nil
}
