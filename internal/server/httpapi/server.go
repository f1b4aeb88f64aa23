// Package httpapi exposes the enemy resource and the credential endpoints
// over HTTP with JSON bodies. It owns request validation at the wire level,
// identity extraction, and the mapping of service errors to status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/logging"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/avatars"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/enemies"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address     string
	logger      logging.Logger
	users       *users.Service
	enemies     *enemies.Service
	avatars     *avatars.Service
	jwtSecret   []byte
	authLimiter *ipLimiter
}

func NewServer(address string, l logging.Logger, us *users.Service, es *enemies.Service, av *avatars.Service, secretKey string) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		enemies:     es,
		avatars:     av,
		jwtSecret:   []byte(secretKey),
		authLimiter: newIPLimiter(authRateLimit, authRateBurst),
	}
}

// Handler builds the full route table. Exposed separately from Run so tests
// can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/enemies", s.requireAuth(http.HandlerFunc(s.handleEnemies)))
	mux.Handle("/enemies/avatar-upload", s.requireAuth(http.HandlerFunc(s.handleAvatarUpload)))
	mux.Handle("/enemies/avatar-url", s.requireAuth(http.HandlerFunc(s.handleAvatarURL)))

	mux.Handle("/auth/signup", s.limitByIP(http.HandlerFunc(s.handleSignup)))
	mux.Handle("/auth/check-credentials", s.limitByIP(http.HandlerFunc(s.handleCheckCredentials)))
	mux.Handle("/auth/login", s.limitByIP(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("/auth/refresh", s.handleRefresh)
	mux.HandleFunc("/auth/logout", s.handleLogout)

	mux.HandleFunc("/healthz", s.handleHealthz)

	return s.recoverPanics(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
