// Package api serves the corrector over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tespell/internal/corrector"
	"tespell/internal/logging"
	"tespell/internal/metrics"
)

// Server routes requests to the current corrector. Swap installs a new
// corrector for subsequent requests; in-flight requests finish on the one
// they started with.
type Server struct {
	current     atomic.Pointer[corrector.SpellCorrector]
	logger      *slog.Logger
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	maxBodySize int64
	router      *mux.Router
}

type ServerOption func(*Server)

// WithMetrics records request and lookup metrics and serves them from
// /metrics using gatherer.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logging.OrDiscard(l) }
}

// WithMaxBodySize limits request bodies; values <= 0 keep the 1 MiB default.
func WithMaxBodySize(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

func NewServer(sc *corrector.SpellCorrector, opts ...ServerOption) *Server {
	s := &Server{logger: logging.Discard(), maxBodySize: 1 << 20}
	for _, o := range opts {
		o(s)
	}
	s.Swap(sc)
	s.router = s.routes()
	return s
}

// Swap replaces the corrector used by new requests.
func (s *Server) Swap(sc *corrector.SpellCorrector) {
	s.current.Store(sc)
	if s.metrics != nil && sc != nil {
		s.metrics.ModelWords.Set(float64(sc.Model().Len()))
	}
}

// Corrector returns the corrector serving new requests.
func (s *Server) Corrector() *corrector.SpellCorrector { return s.current.Load() }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/correct", s.handleCorrect).Methods(http.MethodPost)
	v1.HandleFunc("/words/{word}", s.handleWord).Methods(http.MethodGet)
	v1.HandleFunc("/suggest/{word}", s.handleSuggest).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
