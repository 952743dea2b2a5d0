package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

func abortWithError(c *gin.Context, appErr *models.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToHTTPError())
}

// respondError maps a service error to a status and the error envelope
func respondError(c *gin.Context, err error) {
	appErr := models.AppErrorFor(err)
	if appErr.StatusCode >= 500 {
		logger.WithRequestID(c.Request.Context()).
			WithField("path", c.FullPath()).
			Error(err.Error())
	}
	abortWithError(c, appErr)
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// pagination parses ?page=&limit=; invalid values fall back to zero and the
// service applies its defaults
func pagination(c *gin.Context) (page, limit int) {
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	return page, limit
}

// listComments returns one page of top-level comments
func (s *Server) listComments(c *gin.Context) {
	page, limit := pagination(c)

	result, err := s.commentSvc.List(c.Request.Context(), c.Param("postId"), GetViewer(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", result)
}

// listReplies returns one page of direct replies
func (s *Server) listReplies(c *gin.Context) {
	page, limit := pagination(c)

	result, err := s.commentSvc.Replies(c.Request.Context(), c.Param("postId"), c.Param("commentId"), GetViewer(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", result)
}

// createComment creates a comment or a reply
func (s *Server) createComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Join(models.ErrEmptyContent, err))
		return
	}

	comment, err := s.commentSvc.Create(c.Request.Context(), c.Param("postId"), GetViewer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, "Comment created successfully", comment)
}

// editComment replaces the content of the caller's comment
func (s *Server) editComment(c *gin.Context) {
	var req models.EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Join(models.ErrEmptyContent, err))
		return
	}

	if err := s.commentSvc.Edit(c.Request.Context(), c.Param("postId"), c.Param("commentId"), GetViewer(c), req.Content); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "Comment updated successfully", models.OKResponse{OK: true})
}

// deleteComment deletes the caller's comment and its replies
func (s *Server) deleteComment(c *gin.Context) {
	if err := s.commentSvc.Delete(c.Request.Context(), c.Param("postId"), c.Param("commentId"), GetViewer(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "Comment deleted successfully", models.OKResponse{OK: true})
}

// likeComment toggles the caller's like
func (s *Server) likeComment(c *gin.Context) {
	result, err := s.commentSvc.ToggleLike(c.Request.Context(), c.Param("postId"), c.Param("commentId"), GetViewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", result)
}
