package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/homeinv/internal/auth"
	"github.com/vbonduro/homeinv/internal/metrics"
	"github.com/vbonduro/homeinv/internal/service"
)

// Tokens validates access tokens and exchanges refresh tokens.
type Tokens interface {
	Parse(token string) (int64, error)
	Refresh(token string) (*auth.TokenPair, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	service *service.Service
	tokens  Tokens
	metrics *metrics.Metrics
	db      Pinger
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svc *service.Service, tokens Tokens, m *metrics.Metrics, db Pinger, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		tokens:  tokens,
		metrics: m,
		db:      db,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux.HandleFunc("POST /users/signup", s.handleSignup)
	s.mux.HandleFunc("POST /users/verify", s.handleVerify)
	s.mux.HandleFunc("POST /users/login", s.handleLogin)
	s.mux.HandleFunc("POST /users/refresh", s.handleRefresh)
	s.mux.HandleFunc("PUT /users/password", s.auth(s.handleChangePassword))
	s.mux.HandleFunc("GET /users/{id}", s.auth(s.handleGetUser))

	s.mux.HandleFunc("POST /users/{id}/profile", s.auth(s.handleCreateProfile))
	s.mux.HandleFunc("GET /users/{id}/profile", s.auth(s.handleGetProfile))
	s.mux.HandleFunc("PATCH /users/{id}/profile", s.auth(s.handleUpdateProfile))
	s.mux.HandleFunc("GET /users/{id}/profile/image", s.auth(s.handleProfileImage))

	s.mux.HandleFunc("POST /users/{id}/areas", s.auth(s.handleCreateArea))
	s.mux.HandleFunc("GET /users/{id}/areas", s.auth(s.handleListAreas))
	s.mux.HandleFunc("GET /areas/{id}", s.auth(s.handleGetArea))
	s.mux.HandleFunc("PATCH /areas/{id}", s.auth(s.handleUpdateArea))
	s.mux.HandleFunc("DELETE /areas/{id}", s.auth(s.handleDeleteArea))

	s.mux.HandleFunc("POST /areas/{id}/rooms", s.auth(s.handleCreateRoom))
	s.mux.HandleFunc("GET /areas/{id}/rooms", s.auth(s.handleListRooms))
	s.mux.HandleFunc("GET /rooms/{id}", s.auth(s.handleGetRoom))
	s.mux.HandleFunc("PATCH /rooms/{id}", s.auth(s.handleUpdateRoom))
	s.mux.HandleFunc("DELETE /rooms/{id}", s.auth(s.handleDeleteRoom))

	s.mux.HandleFunc("POST /rooms/{id}/furniture", s.auth(s.handleCreateFurniture))
	s.mux.HandleFunc("GET /rooms/{id}/furniture", s.auth(s.handleListFurniture))
	s.mux.HandleFunc("GET /furniture/{id}", s.auth(s.handleGetFurniture))
	s.mux.HandleFunc("PATCH /furniture/{id}", s.auth(s.handleUpdateFurniture))
	s.mux.HandleFunc("DELETE /furniture/{id}", s.auth(s.handleDeleteFurniture))
	s.mux.HandleFunc("POST /furniture/{id}/scan", s.auth(s.handleScanFurniture))

	s.mux.HandleFunc("POST /furniture/{id}/items", s.auth(s.handleCreateItem))
	s.mux.HandleFunc("GET /furniture/{id}/items", s.auth(s.handleListItems))
	s.mux.HandleFunc("GET /items/search", s.auth(s.handleSearchItems))
	s.mux.HandleFunc("GET /items/{id}", s.auth(s.handleGetItem))
	s.mux.HandleFunc("PATCH /items/{id}", s.auth(s.handleUpdateItem))
	s.mux.HandleFunc("DELETE /items/{id}", s.auth(s.handleDeleteItem))
	s.mux.HandleFunc("PUT /items/{id}/image", s.auth(s.handleSetItemImage))
	s.mux.HandleFunc("GET /items/{id}/image", s.auth(s.handleItemImage))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID(s.logger, requestLogger(s.metrics, securityHeaders(s.mux))).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
