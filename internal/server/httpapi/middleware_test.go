package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/grudgekeeper/internal/logging"
)

func TestRecoverPanics(t *testing.T) {
	s := &Server{logger: logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}

	h := s.recoverPanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/enemies", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestRequireAuthWithoutToken(t *testing.T) {
	s := &Server{jwtSecret: []byte("secret")}

	h := s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for _, header := range []string{"", "Bearer ", "Basic abc", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/enemies", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(rate.Limit(1), 2)

	require.True(t, l.allow("10.0.0.1:1111"))
	require.True(t, l.allow("10.0.0.1:2222"))
	assert.False(t, l.allow("10.0.0.1:3333"), "burst exhausted for the address")

	// A different address has its own budget.
	assert.True(t, l.allow("10.0.0.2:1111"))
}

func TestLimitByIP(t *testing.T) {
	s := &Server{authLimiter: newIPLimiter(rate.Limit(1), 1)}

	h := s.limitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.1.1.1:4040"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
