package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// ServerOptions wires the server to the domain
type ServerOptions struct {
	Decks    ports.DeckService
	Store    ports.DeckStore
	Exporter ports.ExportService
	Config   *entities.Config
	Logger   *slog.Logger

	// Monitor is created when nil
	Monitor *monitoring.Monitor
}

// Server implements the HTTPServer interface
type Server struct {
	server   *http.Server
	listener net.Listener
	connMgr  *ConnectionManager
	limiter  *rateLimiter
	monitor  *monitoring.Monitor
	decks    ports.DeckService
	store    ports.DeckStore
	exporter ports.ExportService
	config   *entities.Config
	logger   *slog.Logger
	cancel   context.CancelFunc
	mu       sync.RWMutex
	running  bool
}

// NewServer creates a new HTTP server. Decks, Store and Exporter are required.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Decks == nil || opts.Store == nil || opts.Exporter == nil {
		return nil, errors.New("deck service, store and exporter are required")
	}

	config := opts.Config
	if config == nil {
		return nil, errors.New("server config cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	monitor := opts.Monitor
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}

	return &Server{
		connMgr:  NewConnectionManager(),
		limiter:  newRateLimiter(100, time.Minute),
		monitor:  monitor,
		decks:    opts.Decks,
		store:    opts.Store,
		exporter: opts.Exporter,
		config:   config,
		logger:   logger.With(slog.String("component", "http")),
	}, nil
}

// Start binds host:port and serves in the background. Port 0 picks a free
// port; Addr reports the bound address.
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.connMgr.Run(runCtx)
	go s.limiter.cleanupRoutine(runCtx)

	s.listener = ln
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.GetReadTimeout(),
		WriteTimeout: s.config.Server.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.running = true

	srv := s.server
	go func() {
		s.logger.Info("HTTP server starting", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Addr returns the bound listen address, or "" before Start
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.GetShutdownTimeout())
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)

	s.cancel()
	s.running = false
	s.listener = nil

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// NotifyClients sends an update event to all connected clients. Events are
// dropped quietly while the server is not running.
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}

	s.connMgr.Broadcast(event)
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the routed handler with CORS and middleware applied
func (s *Server) Handler() http.Handler {
	router := s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.Server.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", SessionHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})

	// security -> rate limiting -> logging -> recovery
	handler := securityHeadersMiddleware(c.Handler(router))
	handler = s.limiter.middleware(handler)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = s.countRequests(handler)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)
	api.HandleFunc("/decks", s.handleListDecks).Methods(http.MethodGet)
	api.HandleFunc("/decks", s.handleCreateDeck).Methods(http.MethodPost)
	api.HandleFunc("/decks/{id}", s.handleGetDeck).Methods(http.MethodGet)
	api.HandleFunc("/decks/{id}", s.handleDeleteDeck).Methods(http.MethodDelete)
	api.HandleFunc("/decks/{id}/export", s.handleExportDeck).Methods(http.MethodGet)
	api.HandleFunc("/decks/{id}/extracted", s.handleExtracted).Methods(http.MethodGet)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, errors.New("no route for "+r.URL.Path), http.StatusNotFound)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, errors.New(r.Method+" not allowed on "+r.URL.Path), http.StatusMethodNotAllowed)
	})

	// subrouters do not inherit these
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = methodNotAllowed
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = methodNotAllowed

	return router
}

var _ ports.HTTPServer = (*Server)(nil)
