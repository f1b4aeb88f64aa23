package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/config"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/refreshtokens"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository, *refreshtokens.MemoryRepository) {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	repo := NewMemoryRepository()
	refreshRepo := refreshtokens.NewMemoryRepository()
	return NewService(repo, refreshRepo, cfg), repo, refreshRepo
}

func TestRegister_MissingFields(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"gary", ""},
		{"", ""},
	} {
		_, err := s.Register(ctx, tc.username, tc.password)
		if !errors.Is(err, common.ErrValidation) {
			t.Fatalf("Register(%q, %q): want ErrValidation, got %v", tc.username, tc.password, err)
		}
	}
}

func TestRegister_Success(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()

	id, err := s.Register(ctx, "gary", "hunter2")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a generated user id")
	}

	stored, err := repo.FindByUsername(ctx, "gary")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if stored.PasswordHash == "hunter2" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "gary", "pw1"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, err := s.Register(ctx, "gary", "pw2")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	// the store still holds exactly one record for that username
	if _, err := repo.FindByUsername(ctx, "gary"); err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	id, err := s.Register(ctx, "gary", "hunter2")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	pair, err := s.Login(ctx, "gary", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected a full token pair, got %+v", pair)
	}

	gotID, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if gotID != id {
		t.Fatalf("token user id mismatch: got %q want %q", gotID, id)
	}
}

func TestLogin_FailsClosed(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "gary", "hunter2"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := s.Login(ctx, "nobody", "hunter2"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("unknown user: want ErrUnauthorized, got %v", err)
	}
	if _, err := s.Login(ctx, "gary", "wrong"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("wrong password: want ErrUnauthorized, got %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	if err := s.CheckAvailability(ctx, "gary"); err != nil {
		t.Fatalf("free username: unexpected error %v", err)
	}

	if _, err := s.Register(ctx, "gary", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := s.CheckAvailability(ctx, "gary"); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("taken username: want ErrConflict, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "gary", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	pair, err := s.Login(ctx, "gary", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	pair2, err := s.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if pair2.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	// the old token is spent
	if _, err := s.Refresh(ctx, pair.RefreshToken); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("spent token: want ErrUnauthorized, got %v", err)
	}
}

func TestRefresh_Expired(t *testing.T) {
	s, _, refreshRepo := newTestService(t)
	ctx := context.Background()

	if err := refreshRepo.Create(ctx, "u1", "stale", -time.Minute); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := s.Refresh(ctx, "stale"); !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("want ErrRefreshTokenExpired, got %v", err)
	}
}

func TestLogout_UnknownTokenIsNotAnError(t *testing.T) {
	s, _, _ := newTestService(t)

	if err := s.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
}
