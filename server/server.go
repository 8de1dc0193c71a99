// Package server exposes the stemmer over HTTP.
//
// Routes:
//
//	POST /v1/stem     stem running text or a list of words
//	POST /v1/analyze  full analyses for a list of words
//	GET  /healthz     liveness and cache size
//	GET  /metrics     Prometheus exposition
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

	"github.com/arissetyawan/indostemmer/internal/logging"
	"github.com/arissetyawan/indostemmer/internal/metrics"
	"github.com/arissetyawan/indostemmer/morph"
	"github.com/arissetyawan/indostemmer/pipeline"
)

const (
	// MaxBodyBytes caps a request body.
	MaxBodyBytes = 1 << 20
	// MaxWords caps the word list of a single request.
	MaxWords = 10000

	shutdownTimeout = 10 * time.Second
)

// Config configures the HTTP service.
type Config struct {
	Addr         string
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP stemming service.
type Server struct {
	stemmer    pipeline.Stemmer
	processor  *pipeline.Processor
	log        *slog.Logger
	metrics    *metrics.Metrics
	engine     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
}

// New builds the service around stemmer. log and m may be nil.
func New(stemmer pipeline.Stemmer, cfg Config, log *slog.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = logging.Discard()
	}
	if stemmer == nil {
		stemmer = pipeline.Direct(morph.New(morph.Options{}))
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if !cfg.Debug && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		stemmer:   stemmer,
		processor: pipeline.New(stemmer, log, m),
		log:       log,
		metrics:   m,
		engine:    engine,
		startTime: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	engine.Use(s.observe())
	s.setupRoutes(cfg.Gatherer)
	return s
}

func (s *Server) setupRoutes(g prometheus.Gatherer) {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))

	v1 := s.engine.Group("/v1")
	v1.Use(limitBody(MaxBodyBytes), requireJSON())
	{
		v1.POST("/stem", s.handleStem)
		v1.POST("/analyze", s.handleAnalyze)
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", s.httpServer.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
