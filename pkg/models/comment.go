package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxCommentLength is the longest comment body the server accepts, in runes
const MaxCommentLength = 5000

// Author is the identity snapshot captured when a comment is created
type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
	Role     string `json:"role,omitempty"` // role within the group, e.g. "admin", "member"
}

// Comment is one node of a post's discussion tree.
//
// RepliesCount is authoritative and may exceed len(Replies) while replies
// are still undisclosed. Ownership is top-down: a node belongs to its
// parent's Replies or to the post's root list. ParentID is only a lookup aid.
type Comment struct {
	ID           string     `json:"id"`
	PostID       string     `json:"postId,omitempty"`
	ParentID     string     `json:"parentId,omitempty"`
	Content      string     `json:"content"`
	Author       Author     `json:"author"`
	CreatedAt    time.Time  `json:"createdAt"`
	EditedAt     *time.Time `json:"editedAt,omitempty"`
	IsEdited     bool       `json:"isEdited"`
	LikesCount   int        `json:"likesCount"`
	UserLiked    bool       `json:"userLiked"`
	RepliesCount int        `json:"repliesCount"`
	Replies      []Comment  `json:"replies"`
}

// IsReply reports whether the comment hangs below another comment
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}

// Forest is the ordered list of top-level comments of one post
type Forest []Comment

// Cursor tracks pagination for the root list or for one node's replies
type Cursor struct {
	Page      int  `json:"page"`
	HasMore   bool `json:"hasMore"`
	AllLoaded bool `json:"allLoaded"`
	Loading   bool `json:"loading"`
}

// CreateCommentRequest is the body of POST comment
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID string `json:"parentId,omitempty"`
}

// EditCommentRequest is the body of PUT comment
type EditCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PageInfo is the pagination block of a top-level comment page
type PageInfo struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// CommentPage is the response of GET comments
type CommentPage struct {
	Comments   []Comment `json:"comments"`
	Pagination PageInfo  `json:"pagination"`
}

// ReplyPage is the response of GET replies
type ReplyPage struct {
	Replies []Comment `json:"replies"`
	HasMore bool      `json:"hasMore"`
}

// OKResponse acknowledges edit and delete
type OKResponse struct {
	OK bool `json:"ok"`
}

// LikeResponse acknowledges a like toggle. Clients infer direction locally
// and do not reconcile their counts from it.
type LikeResponse struct {
	OK         bool `json:"ok"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// ValidateContent trims and checks a comment body
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return "", ErrContentTooLong
	}
	return trimmed, nil
}

// NormalizeComment applies defaults to a possibly partial server payload
func NormalizeComment(c Comment) Comment {
	if c.LikesCount < 0 {
		c.LikesCount = 0
	}
	if c.RepliesCount < 0 {
		c.RepliesCount = 0
	}
	c.Replies = NormalizeForest(c.Replies)
	for i := range c.Replies {
		if c.Replies[i].ParentID == "" {
			c.Replies[i].ParentID = c.ID
		}
	}
	if c.RepliesCount < len(c.Replies) {
		c.RepliesCount = len(c.Replies)
	}
	if c.EditedAt != nil {
		c.IsEdited = true
	}
	return c
}

// NormalizeForest normalizes every node and drops entries without an id
func NormalizeForest(list []Comment) []Comment {
	out := make([]Comment, 0, len(list))
	for _, c := range list {
		if c.ID == "" {
			continue
		}
		out = append(out, NormalizeComment(c))
	}
	return out
}
