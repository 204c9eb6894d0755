package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linkstash/linkstash-server/internal/auth"
	"github.com/linkstash/linkstash-server/internal/domain"
	domainerrors "github.com/linkstash/linkstash-server/internal/errors"
	"github.com/linkstash/linkstash-server/internal/store"
	"github.com/linkstash/linkstash-server/internal/validation"
)

// AuthService handles login and bearer token verification.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		validator:    validator,
		logger:       logger,
	}
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the issued token and user data.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"` // Seconds until the token expires
}

// Login verifies credentials and issues an access token.
// Unknown emails and wrong passwords produce the same error so the
// response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("failed login attempt", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokenService.AccessTokenDuration().Seconds()),
	}, nil
}

// VerifyAccessToken validates a bearer token and loads its user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, claims, nil
}
