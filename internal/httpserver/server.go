package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-market-cache/internal/cache/service"
	"go-market-cache/internal/config"
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/market"
	"go-market-cache/internal/preferences"
	"go-market-cache/internal/query"
	"go-market-cache/internal/wallet"
)

// Dependencies are the services exposed over HTTP
type Dependencies struct {
	CacheService *service.CacheService
	Market       *market.Service
	Preferences  *preferences.Store
	Wallet       *wallet.Service
	Queries      *query.Client
	// HealthChecks are pinged by /health, keyed by component name
	HealthChecks map[string]interfaces.HealthChecker
}

// Server represents the HTTP API server
type Server struct {
	deps     Dependencies
	cfg      config.ServerConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader
	server   *http.Server

	// streams tracks open websocket connections so Stop can close them
	streams   map[*websocket.Conn]struct{}
	streamsMu sync.Mutex
}

// NewServer creates a new HTTP server
func NewServer(deps Dependencies, cfg config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		deps:   deps,
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The dashboard is served from another origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		streams: make(map[*websocket.Conn]struct{}),
	}
}

// Start listens on the configured address and serves until Stop
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", listener.Addr().String()))
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server and closes open streams
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")

	s.streamsMu.Lock()
	for conn := range s.streams {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
	s.streamsMu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	// Pass-through proxy backed by the response cache
	router.HandleFunc("/api/{path:.+}", s.handleProxy).Methods(http.MethodGet)
	router.HandleFunc("/api/{path:.+}", s.handleInvalidate).Methods(http.MethodDelete)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/markets", s.handleMarkets).Methods(http.MethodGet)
	v1.HandleFunc("/global", s.handleGlobal).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}", s.handleCoin).Methods(http.MethodGet)
	v1.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	v1.HandleFunc("/watchlist/markets", s.handleWatchlistMarkets).Methods(http.MethodGet)

	v1.HandleFunc("/preferences/currency", s.handleGetCurrency).Methods(http.MethodGet)
	v1.HandleFunc("/preferences/currency", s.handleSetCurrency).Methods(http.MethodPut)
	v1.HandleFunc("/watchlist", s.handleGetWatchlist).Methods(http.MethodGet)
	v1.HandleFunc("/watchlist", s.handleClearWatchlist).Methods(http.MethodDelete)
	v1.HandleFunc("/watchlist/{id}/toggle", s.handleToggleWatchlist).Methods(http.MethodPost)

	v1.HandleFunc("/wallet/{address}", s.handleWallet).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// handleHealth pings every registered dependency
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.deps.HealthChecks))
	healthy := true
	for name, checker := range s.deps.HealthChecks {
		if err := checker.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.String("component", name), zap.Error(err))
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	resp := HealthResponse{Status: "healthy", Time: time.Now().UTC(), Checks: checks}
	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

// decodeBody decodes a JSON request body of at most 64 KiB
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return sonic.ConfigStd.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v)
}
