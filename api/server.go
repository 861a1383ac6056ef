// Package api exposes the vault over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"

	"github.com/openalpha/supercluster/api/handlers"
	"github.com/openalpha/supercluster/api/middleware"
	"github.com/openalpha/supercluster/api/websocket"
	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/config"
	"github.com/openalpha/supercluster/metrics"
	"github.com/openalpha/supercluster/recorder"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	config     config.APIConfig
	logger     log.Logger

	app      *app.App
	hub      *websocket.Hub
	recorder recorder.Recorder
	metrics  *metrics.Collector

	rateLimiter *middleware.RateLimiter

	hubMu     sync.Mutex
	hubCancel context.CancelFunc
	hubDone   chan struct{}
}

// Options carries the optional collaborators of a Server
type Options struct {
	// Recorder backs /v1/events; nil serves an empty history
	Recorder recorder.Recorder
	// Metrics enables operation metrics and /metrics; nil disables both
	Metrics *metrics.Collector
	// MetricsPath defaults to /metrics
	MetricsPath string
}

// NewServer creates the API server and subscribes its WebSocket hub to a's
// committed events
func NewServer(cfg config.APIConfig, a *app.App, opts Options, logger log.Logger) *Server {
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	rlConfig := middleware.DefaultRateLimitConfig()
	if cfg.RateLimit > 0 {
		rlConfig.RequestsPerSecond = cfg.RateLimit
	}
	if cfg.RateBurst > 0 {
		rlConfig.Burst = cfg.RateBurst
	}

	hubConfig := websocket.DefaultHubConfig()
	hubConfig.AllowedOrigins = cfg.AllowedOrigins

	s := &Server{
		config:      cfg,
		logger:      logger.With("module", "api"),
		app:         a,
		recorder:    opts.Recorder,
		metrics:     opts.Metrics,
		rateLimiter: middleware.NewRateLimiter(rlConfig),
	}
	var observer websocket.Observer
	if opts.Metrics != nil {
		observer = opts.Metrics
		s.rateLimiter.OnReject = opts.Metrics.RecordRateLimitHit
	}
	s.hub = websocket.NewHub(hubConfig, observer, logger)
	a.AddListener(s.hub)

	s.router = s.routes(opts.MetricsPath)
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes(metricsPath string) *mux.Router {
	r := mux.NewRouter()
	var reqRecorder middleware.RequestRecorder
	if s.metrics != nil {
		reqRecorder = s.metrics
	}
	r.Use(
		middleware.RequestID,
		middleware.CORS(s.config.AllowedOrigins),
		middleware.Observe(reqRecorder, s.logger),
	)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.metrics != nil {
		r.Handle(metricsPath, metrics.Handler()).Methods("GET")
	}
	r.HandleFunc("/ws", s.hub.ServeWS)

	// rate limiting covers the versioned API only
	v1 := r.NewRoute().Subrouter()
	v1.Use(middleware.RateLimitMiddleware(s.rateLimiter))

	backend := &handlers.Backend{App: s.app, Metrics: s.metrics}
	handlers.NewVaultHandler(backend).RegisterRoutes(v1)
	handlers.NewLedgerHandler(backend).RegisterRoutes(v1)
	handlers.NewPilotHandler(backend).RegisterRoutes(v1)
	handlers.NewWithdrawHandler(backend).RegisterRoutes(v1)
	handlers.NewAdminHandler(backend).RegisterRoutes(v1)
	handlers.NewEventsHandler(s.recorder).RegisterRoutes(v1)

	// preflight for any path
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Start runs the hub and serves HTTP until Stop is called
func (s *Server) Start() error {
	s.startHub()
	s.logger.Info("api server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) startHub() {
	s.hubMu.Lock()
	defer s.hubMu.Unlock()
	if s.hubCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.hubCancel = cancel
	s.hubDone = make(chan struct{})
	go func() {
		defer close(s.hubDone)
		s.hub.Run(ctx)
	}()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.hubMu.Lock()
	if s.hubCancel != nil {
		s.hubCancel()
		<-s.hubDone
	}
	s.hubMu.Unlock()
	s.rateLimiter.Stop()
	return err
}

// HealthResponse is the /health body
type HealthResponse struct {
	Status    string `json:"status"`
	Height    int64  `json:"height"`
	Clients   int    `json:"ws_clients"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Height:    s.app.Height(),
		Clients:   s.hub.GetClientCount(),
		Timestamp: time.Now().Unix(),
	})
}
