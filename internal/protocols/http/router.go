package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"threadhub/internal/core"
	"threadhub/pkg/config"
	"threadhub/pkg/database"
	"threadhub/pkg/logger"
)

// Server manages HTTP REST API server
type Server struct {
	router     *gin.Engine
	config     *config.Config
	db         *database.DB
	authSvc    core.AuthService
	commentSvc core.CommentService
	limiter    *RateLimiter
	httpServer *http.Server
}

// NewServer creates a new HTTP server with all handlers. db may be nil, in
// which case /health does not probe the database.
func NewServer(cfg *config.Config, db *database.DB, authSvc core.AuthService, commentSvc core.CommentService) *Server {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		router:     router,
		config:     cfg,
		db:         db,
		authSvc:    authSvc,
		commentSvc: commentSvc,
	}
	if cfg.RateLimit.Enabled {
		s.limiter = NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1", ViewerMiddleware(s.authSvc))
	{
		posts := v1.Group("/posts/:postId/comments")

		// Reads are public; userLiked is filled in when a viewer is known
		posts.GET("", s.listComments)
		posts.GET("/:commentId/replies", s.listReplies)

		writes := []gin.HandlerFunc{RequireViewer()}
		if s.limiter != nil {
			writes = append(writes, s.limiter.Middleware())
		}
		protected := posts.Group("", writes...)
		{
			protected.POST("", s.createComment)
			protected.PUT("/:commentId", s.editComment)
			protected.DELETE("/:commentId", s.deleteComment)
			protected.POST("/:commentId/like", s.likeComment)
		}
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}
	logger.Infof("HTTP server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if s.db != nil {
		if err := s.db.HealthCheck(c.Request.Context()); err != nil {
			logger.Errorf("health check: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
