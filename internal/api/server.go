// Package api exposes the scoring service over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/logging"
	"credit-risk-lab/internal/observability"
)

// Scorer is the scoring boundary used by the handlers.
type Scorer interface {
	Score(ctx context.Context, req *domain.ScoringRequest) (*domain.Prediction, error)
	List(ctx context.Context) ([]*domain.ScoringRequest, error)
}

// Server is the scoring HTTP server.
type Server struct {
	scorer  Scorer
	metrics *observability.Metrics
	logger  *slog.Logger
	router  *gin.Engine
	started time.Time

	predictions atomic.Int64
	rejected    atomic.Int64
	failures    atomic.Int64
}

// NewServer creates a server and registers its routes.
func NewServer(scorer Scorer, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	router := gin.New()
	s := &Server{
		scorer:  scorer,
		metrics: metrics,
		logger:  logger,
		router:  router,
		started: time.Now(),
	}

	router.Use(gin.Recovery(), s.observe)

	router.GET("/health", s.handleHealth)
	router.GET("/status", s.handleStatus)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	features := router.Group("/features")
	{
		features.POST("/", s.handleScore)
		features.GET("/", s.handleList)
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe records request metrics and a debug access log line.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	s.metrics.RecordHTTPRequest(c.Request.Method, route, status)
	s.logger.Debug("http request",
		"method", c.Request.Method,
		"route", route,
		"status", status,
		"elapsed", time.Since(start),
	)
}
