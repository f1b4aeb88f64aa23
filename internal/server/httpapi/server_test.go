package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/grudgekeeper/internal/logging"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/avatars"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/config"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/enemies"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/shared/db"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/users"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.AccessTokenValidityDuration = 15 * time.Minute
	cfg.RefreshTokenValidityDuration = time.Hour

	manager := db.NewInMemoryRepositoryManager()

	userService := users.NewService(manager.Users(), manager.RefreshTokens(), cfg)
	enemyService := enemies.NewService(manager.Enemies())
	avatarService := avatars.NewService(cfg)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	s := NewServer(cfg.EndpointAddrHTTP, logger, userService, enemyService, avatarService, cfg.SecretKey)
	// Tests hammer auth endpoints well past the production budget.
	s.authLimiter = newIPLimiter(rate.Inf, 1)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func listEnemies(t *testing.T, baseURL, token string) []map[string]any {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/enemies", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func signupAndLogin(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, baseURL+"/auth/signup", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, baseURL+"/auth/login", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("signup requires both fields", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "",
			map[string]string{"username": "alice"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("signup creates user", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "",
			map[string]string{"username": "alice", "password": "secret"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "User created", body["message"])
		assert.NotEmpty(t, body["userId"])
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "",
			map[string]string{"username": "alice", "password": "other"})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "Username already exists", body["error"])
	})

	t.Run("login returns token pair", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "",
			map[string]string{"username": "alice", "password": "secret"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["accessToken"])
		assert.NotEmpty(t, body["refreshToken"])
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "",
			map[string]string{"username": "alice", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "",
			map[string]string{"username": "nobody", "password": "secret"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCheckCredentials(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/check-credentials", "",
		map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/check-credentials", "",
		map[string]string{"username": "bob", "password": "pw"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "",
		map[string]string{"username": "bob", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/check-credentials", "",
		map[string]string{"username": "bob", "password": "unrelated"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRefreshAndLogout(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "",
		map[string]string{"username": "carol", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "",
		map[string]string{"username": "carol", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refresh := body["refreshToken"].(string)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", "",
		map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := body["refreshToken"].(string)
	assert.NotEqual(t, refresh, rotated)

	// The old token was spent by the rotation.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", "",
		map[string]string{"refreshToken": refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/logout", "",
		map[string]string{"refreshToken": rotated})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", "",
		map[string]string{"refreshToken": rotated})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEnemiesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/enemies", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/enemies", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEnemiesCRUD(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts.URL, "dave", "pw")

	t.Run("list starts empty", func(t *testing.T) {
		assert.Empty(t, listEnemies(t, ts.URL, token))
	})

	t.Run("create rejects missing fields", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/enemies", token,
			map[string]any{"name": "Moriarty"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPost, ts.URL+"/enemies", token,
			map[string]any{"grudgeLevel": 9})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		assert.Empty(t, listEnemies(t, ts.URL, token))
	})

	var enemyID string

	t.Run("create returns the record", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, ts.URL+"/enemies", token,
			map[string]any{"name": "Moriarty", "grudgeLevel": 9, "description": "the professor"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		enemyID, _ = body["id"].(string)
		assert.NotEmpty(t, enemyID)
		assert.Equal(t, "Moriarty", body["name"])
		assert.Equal(t, float64(9), body["grudgeLevel"])
		assert.Equal(t, "the professor", body["description"])
		assert.NotContains(t, body, "userId")
	})

	t.Run("update merges only patched fields", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPut, ts.URL+"/enemies?id="+enemyID, token,
			map[string]any{"grudgeLevel": 10})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Moriarty", body["name"])
		assert.Equal(t, float64(10), body["grudgeLevel"])
		assert.Equal(t, "the professor", body["description"])
	})

	t.Run("update rejects out-of-range grudge level", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut, ts.URL+"/enemies?id="+enemyID, token,
			map[string]any{"grudgeLevel": 11})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPut, ts.URL+"/enemies?id="+enemyID, token,
			map[string]any{"grudgeLevel": 0})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update rejects empty patch and empty name", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut, ts.URL+"/enemies?id="+enemyID, token,
			map[string]any{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPut, ts.URL+"/enemies?id="+enemyID, token,
			map[string]any{"name": ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed and unknown ids", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut, ts.URL+"/enemies?id=nope", token,
			map[string]any{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPut, ts.URL+"/enemies?id=ffffffffffffffffffffffff", token,
			map[string]any{"name": "x"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodDelete, ts.URL+"/enemies?id="+enemyID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("Enemy ID %s has been successfully deleted", enemyID), body["message"])
		assert.Empty(t, listEnemies(t, ts.URL, token))

		resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/enemies?id="+enemyID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestEnemiesOwnerIsolation(t *testing.T) {
	ts := newTestServer(t)
	tokenA := signupAndLogin(t, ts.URL, "owner-a", "pw")
	tokenB := signupAndLogin(t, ts.URL, "owner-b", "pw")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/enemies", tokenA,
		map[string]any{"name": "Shared Printer", "grudgeLevel": 7})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	assert.Empty(t, listEnemies(t, ts.URL, tokenB))

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/enemies?id="+id, tokenB,
		map[string]any{"name": "hijacked"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/enemies?id="+id, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	all := listEnemies(t, ts.URL, tokenA)
	require.Len(t, all, 1)
	assert.Equal(t, "Shared Printer", all[0]["name"])
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts.URL, "erin", "pw")

	resp, _ := doJSON(t, http.MethodPatch, ts.URL+"/enemies", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, POST, PUT, DELETE", resp.Header.Get("Allow"))

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/auth/signup", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
