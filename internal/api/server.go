// Package api exposes the analysis pipeline over HTTP. It owns the wire
// DTOs; the core entities never serialize themselves.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/analysis"
	"github.com/exome-prioritizer/internal/config"
	"github.com/exome-prioritizer/internal/dao"
)

// Server is the HTTP surface for submitting analyses.
type Server struct {
	cfg         config.ServerConfig
	logger      *logrus.Logger
	runner      *analysis.Runner
	dataService *dao.VariantDataService
	router      *gin.Engine
	server      *http.Server
}

// NewServer creates the HTTP server. The data service may be nil when no
// annotation provider is configured; submitted variants are then filtered on
// the data they carry inline.
func NewServer(cfg config.ServerConfig, logger *logrus.Logger, runner *analysis.Runner, dataService *dao.VariantDataService) *Server {
	if logger.GetLevel() == logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())

	s := &Server{
		cfg:         cfg,
		logger:      logger,
		runner:      runner,
		dataService: dataService,
		router:      router,
	}
	s.setupRoutes()
	return s
}

// Router exposes the gin engine, mainly for in-process tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyses", s.handleRunAnalysis)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
