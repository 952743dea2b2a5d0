package http

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"threadhub/internal/core"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

const viewerKey = "viewer"

// ViewerMiddleware resolves an optional bearer token into a viewer. Requests
// without a token continue anonymously; a malformed or invalid token is
// rejected.
func ViewerMiddleware(authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, models.NewHTTPError(models.ErrCodeUnauthorized, "invalid authorization format", 401, nil))
			return
		}

		viewer, err := authSvc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, models.NewHTTPError(models.ErrCodeUnauthorized, "unauthorized", 401, err))
			return
		}

		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// RequireViewer rejects anonymous requests
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetViewer(c).Anonymous() {
			abortWithError(c, models.AppErrorFor(models.ErrUnauthorized))
			return
		}
		c.Next()
	}
}

// GetViewer returns the viewer attached by ViewerMiddleware, or an
// anonymous viewer
func GetViewer(c *gin.Context) models.Viewer {
	v, exists := c.Get(viewerKey)
	if !exists {
		return models.Viewer{}
	}
	viewer, _ := v.(models.Viewer)
	return viewer
}

// RateLimiter hands out one token bucket per viewer
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewRateLimiter allows rps requests per second with the given burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether key may make another request now
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Middleware rate limits by viewer id, falling back to the client IP
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := GetViewer(c).ID
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(key) {
			abortWithError(c, models.AppErrorFor(models.ErrRateLimited))
			return
		}
		c.Next()
	}
}

// requestLogger logs every request through pkg/logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.HTTP(c.Request.Method, path, c.Writer.Status(), int(time.Since(start).Milliseconds()))
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
