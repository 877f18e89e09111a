// Package server serves the case dashboard: the static page, the dataset as
// JSON, a summary of it, and a WebSocket stream of its rows.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

//go:embed web
var webFS embed.FS

// Config holds the server configuration
type Config struct {
	Host            string
	Port            int
	DataPath        string
	StaticDir       string
	EnableMetrics   bool
	EnableCORS      bool
	StreamRate      float64 // rows per second on the stream endpoint, 0 for unpaced
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8000,
		DataPath:        "datasets/data.csv",
		EnableMetrics:   true,
		EnableCORS:      true,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Metrics are the HTTP metrics exported by the server.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	streamed prometheus.Counter
}

// NewMetrics creates the server metrics and registers them with registerer
// when it is not nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casegen_http_requests_total",
			Help: "Total HTTP requests by route and status",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "casegen_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		}, []string{"route"}),
		streamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casegen_stream_rows_total",
			Help: "Total rows sent over the WebSocket stream",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.requests, m.duration, m.streamed)
	}
	return m
}

// Server represents the dashboard HTTP server
type Server struct {
	config   *Config
	metrics  *Metrics
	gatherer prometheus.Gatherer
	server   *http.Server
	listener net.Listener
	upgrader websocket.Upgrader
	started  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry registers metrics with reg and serves them from it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = NewMetrics(reg)
		s.gatherer = reg
	}
}

// New creates a new dashboard server
func New(config *Config, opts ...Option) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.DataPath == "" {
		return nil, fmt.Errorf("data path required")
	}
	if config.StaticDir != "" {
		info, err := os.Stat(config.StaticDir)
		if err != nil {
			return nil, fmt.Errorf("static directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static directory: %s is not a directory", config.StaticDir)
		}
	}

	s := &Server{
		config:  config,
		started: time.Now(),
	}
	if config.EnableCORS {
		// Allow all origins if CORS enabled, otherwise same-origin only
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.DefaultRegisterer)
		s.gatherer = prometheus.DefaultGatherer
	}
	return s, nil
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.Use(s.loggingMiddleware)

	router.HandleFunc("/api/data", s.getData).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/data", s.getData).Methods("GET")
	api.HandleFunc("/summary", s.getSummary).Methods("GET")
	api.HandleFunc("/stream", s.streamData).Methods("GET")

	router.HandleFunc("/datasets/{file}", s.downloadData).Methods("GET")

	// Metrics endpoint
	if s.config.EnableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// Health check
	router.HandleFunc("/health", s.healthCheck)

	router.PathPrefix("/").Handler(http.FileServer(s.staticFS())).Methods("GET", "HEAD")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%s not found", r.URL.Path))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	})

	// CORS wraps the router so preflight requests are answered before
	// method matching
	if s.config.EnableCORS {
		return s.corsMiddleware(router)
	}
	return router
}

func (s *Server) staticFS() http.FileSystem {
	if s.config.StaticDir != "" {
		return http.Dir(s.config.StaticDir)
	}
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Addr:         ln.Addr().String(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Info().
		Str("addr", s.server.Addr).
		Str("data", s.config.DataPath).
		Bool("metrics", s.config.EnableMetrics).
		Msg("Starting casegen server")

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Info().Msg("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// StartWithGracefulShutdown starts the server and blocks until ctx is done
// or SIGINT/SIGTERM is received, then shuts it down.
func (s *Server) StartWithGracefulShutdown(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("Server shutdown complete")
	return nil
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	if s.listener != nil {
		// If port was 0, get the actual assigned port
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
}
