package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/config"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/refreshtokens"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is fixed, not configurable.
const passwordHashCost = 10

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Refresh: rotate refresh tokens and mint new access tokens
// - CheckAvailability: the pre-signup username check
type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewService constructs a Service using repositories and server config.
func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register stores a new credential record with a bcrypt hash of password
// and returns the generated user id. A taken username yields
// common.ErrConflict; the uniqueness guarantee lives in the store, not in
// a read-then-write check here.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", common.ErrInternal
	}

	user, err := s.repo.Create(ctx, &models.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return "", common.ErrConflict
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return user.ID.Hex(), nil
}

// Login verifies the password against the stored hash and, on success,
// returns a new TokenPair. It fails closed: an unknown username and a hash
// mismatch are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID.Hex())
}

// Refresh validates a refresh token, rotates it, and returns a fresh
// TokenPair. Expired tokens yield common.ErrRefreshTokenExpired; unknown
// ones yield common.ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error deleting refresh token: %w", err)
	}

	return s.generateTokenPair(ctx, token.UserID)
}

// Logout invalidates a refresh token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	err := s.refreshTokenRepo.Delete(ctx, refreshToken)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// CheckAvailability reports whether username is free to register.
// It returns common.ErrConflict when taken. Only the username is checked;
// a password value colliding with some other account is nobody's business.
func (s *Service) CheckAvailability(ctx context.Context, username string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return common.ErrConflict
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}

// --- helpers below ---

func (s *Service) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := s.refreshTokenRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
