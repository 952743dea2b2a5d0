package models

import "time"

// APIResponse is the envelope every endpoint responds with
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Viewer is the authenticated caller as seen by the server
type Viewer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Anonymous reports whether no viewer identity is attached
func (v Viewer) Anonymous() bool {
	return v.ID == ""
}

// NewPageInfo builds pagination metadata for a 1-based page
func NewPageInfo(page, limit, total int) PageInfo {
	return PageInfo{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: page*limit < total,
	}
}
