package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"calchat/internal/auth"
	"calchat/internal/chat"
	"calchat/internal/database"
)

type Server struct {
	db          *database.DB
	authService *auth.Service
	extractor   chat.Extractor
	logger      *slog.Logger
	httpSrv     *http.Server
	port        int

	timezone       string
	location       *time.Location
	listPageSize   int64
	cancelPageSize int64
}

// ServerConfig holds everything the server needs at construction time.
type ServerConfig struct {
	DB             *database.DB
	AuthService    *auth.Service
	Extractor      chat.Extractor
	Logger         *slog.Logger
	Port           int
	Timezone       string
	Location       *time.Location
	ListPageSize   int
	CancelPageSize int
}

func New(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	s := &Server{
		db:             cfg.DB,
		authService:    cfg.AuthService,
		extractor:      cfg.Extractor,
		logger:         cfg.Logger,
		port:           cfg.Port,
		timezone:       cfg.Timezone,
		location:       cfg.Location,
		listPageSize:   int64(cfg.ListPageSize),
		cancelPageSize: int64(cfg.CancelPageSize),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // chat turns wait on two upstream calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	authMW := auth.NewMiddleware(s.authService)

	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Auth API
	mux.HandleFunc("GET /api/auth/url", s.handleAuthURL)
	mux.HandleFunc("GET /oauth/callback", s.handleOAuthCallback)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.Handle("GET /api/auth/status", authMW.RequireAuth(http.HandlerFunc(s.handleAuthStatus)))

	// Chat turn endpoint
	mux.Handle("POST /api/chat", authMW.RequireAuth(http.HandlerFunc(s.handleChatTurn)))

	// Calendar connectivity probe
	mux.Handle("GET /api/calendar/status", authMW.RequireAuth(http.HandlerFunc(s.handleCalendarStatus)))
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", fmt.Sprintf("http://localhost:%d", s.port))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers so the chat frontend can call the API.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
