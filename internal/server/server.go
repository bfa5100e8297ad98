// Package server runs the operational HTTP endpoints: a health check and the
// Prometheus metrics of the bot.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfrederiksen/event-announcer/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server serves /healthz and /metrics
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New creates the ops server. gatherer is the registry the bot's metrics
// were registered on.
func New(cfg config.Server, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		srv: &http.Server{
			Addr:              cfg.ListenAddress,
			Handler:           NewRouter(gatherer),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger.With("component", "server"),
	}
}

// NewRouter builds the gin engine with the ops routes
func NewRouter(gatherer prometheus.Gatherer) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return engine
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ops server starting", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down ops server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
