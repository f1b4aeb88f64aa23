// Package api is the HTTP client for the Grudgekeeper backend. It keeps the
// token pair between calls and transparently refreshes an expired access
// token once before giving up on a request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
)

// Enemy is the wire representation of an enemy record.
type Enemy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	GrudgeLevel int    `json:"grudgeLevel"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// EnemyPatch carries only the fields the caller wants to change.
type EnemyPatch struct {
	Name        *string `json:"name,omitempty"`
	GrudgeLevel *int    `json:"grudgeLevel,omitempty"`
	Description *string `json:"description,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	accessToken  string
	refreshToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsLoggedIn reports whether the client currently holds a token pair.
func (c *Client) IsLoggedIn() bool {
	return c.accessToken != ""
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and returns the new user id.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		UserID string `json:"userId"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", nil,
		credentialsRequest{Username: username, Password: password}, false, &resp)
	if err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// CheckCredentials asks whether the username is still free to register.
func (c *Client) CheckCredentials(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/check-credentials", nil,
		credentialsRequest{Username: username, Password: password}, false, nil)
}

// Login authenticates and stores the returned token pair for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair tokenPairResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil,
		credentialsRequest{Username: username, Password: password}, false, &pair)
	if err != nil {
		return err
	}
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	return nil
}

// Logout invalidates the refresh token server-side and drops both tokens.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil,
		map[string]string{"refreshToken": c.refreshToken}, false, nil)
	c.accessToken = ""
	c.refreshToken = ""
	return err
}

func (c *Client) refresh(ctx context.Context) error {
	var pair tokenPairResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", nil,
		map[string]string{"refreshToken": c.refreshToken}, false, &pair)
	if err != nil {
		return err
	}
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	return nil
}

// ListEnemies returns all enemy records of the authenticated user.
func (c *Client) ListEnemies(ctx context.Context) ([]Enemy, error) {
	var result []Enemy
	if err := c.doJSON(ctx, http.MethodGet, "/enemies", nil, nil, true, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddEnemy creates a new enemy record and returns it as stored.
func (c *Client) AddEnemy(ctx context.Context, name string, grudgeLevel int, description, avatar string) (*Enemy, error) {
	body := map[string]any{
		"name":        name,
		"grudgeLevel": grudgeLevel,
		"description": description,
		"avatar":      avatar,
	}
	var created Enemy
	if err := c.doJSON(ctx, http.MethodPost, "/enemies", nil, body, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateEnemy applies a partial update and returns the updated record.
func (c *Client) UpdateEnemy(ctx context.Context, id string, patch EnemyPatch) (*Enemy, error) {
	query := url.Values{"id": {id}}
	var updated Enemy
	if err := c.doJSON(ctx, http.MethodPut, "/enemies", query, patch, true, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEnemy removes a record by id.
func (c *Client) DeleteEnemy(ctx context.Context, id string) error {
	query := url.Values{"id": {id}}
	return c.doJSON(ctx, http.MethodDelete, "/enemies", query, nil, true, nil)
}

// AvatarUploadURL requests a fresh storage key and a presigned PUT URL.
func (c *Client) AvatarUploadURL(ctx context.Context) (key string, uploadURL string, err error) {
	var resp struct {
		Key       string `json:"key"`
		UploadURL string `json:"uploadUrl"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/enemies/avatar-upload", nil, nil, true, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.UploadURL, nil
}

// AvatarDownloadURL resolves a stored avatar key to a presigned GET URL.
func (c *Client) AvatarDownloadURL(ctx context.Context, key string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	query := url.Values{"key": {key}}
	if err := c.doJSON(ctx, http.MethodGet, "/enemies/avatar-url", query, nil, true, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// doJSON performs one API call. Authorized calls carry the bearer token;
// a 401 response triggers a single token refresh followed by a retry, the
// same way a connection-level interceptor would.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, authorized bool, out any) error {
	resp, err := c.send(ctx, method, path, query, body, authorized)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authorized && c.refreshToken != "" {
		resp.Body.Close()
		if err := c.refresh(ctx); err != nil {
			return common.ErrUnauthorized
		}
		resp, err = c.send(ctx, method, path, query, body, authorized)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapStatusError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, authorized bool) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func mapStatusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrConflict
	default:
		return fmt.Errorf("server error: %s", msg)
	}
}
