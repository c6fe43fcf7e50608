package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/pagerbot/core/logger"
)

// Server exposes a registry over HTTP for scraping.
type Server struct {
	srv *http.Server
}

// NewServer prepares an HTTP server that serves registry at path on listen.
func NewServer(listen, path string, registry *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &Server{srv: &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start serves in the background. Listener errors are logged, never fatal.
func (s *Server) Start(ctx context.Context) {
	logger.Info(ctx, logger.CompMetrics, "metrics.listen", slog.String("listen", s.srv.Addr))
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, logger.CompMetrics, "metrics.serve", slog.String("err", err.Error()))
		}
	}()
}

// Shutdown stops the server, waiting at most a few seconds for scrapes in flight.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
