package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/config"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/repository"
	"github.com/ticketflow/ticketflow/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	tokenStore *auth.TokenStore
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	TokenStore *auth.TokenStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		tokenStore: deps.TokenStore,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes a new account request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.UserRole
}

// Register creates a new account with a hashed password. The plaintext
// password is never persisted or returned.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, util.NewValidationError("invalid role", map[string]any{"role": "must be one of: agent user"})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, util.MapError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewValidationError("username or email already registered", nil)
		}
		return nil, util.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and hands back a bearer token. While a
// previously issued token is still live it is returned again instead of a
// fresh one. The error is identical for an unknown username and a wrong
// password so callers cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", util.NewUnauthorized("invalid credentials")
		}
		return nil, "", util.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", util.NewUnauthorized("invalid credentials")
	}

	if stored, ok, err := s.tokenStore.Fetch(ctx, user.ID); err == nil && ok {
		if _, parseErr := s.tokenMgr.ParseToken(stored); parseErr == nil {
			return user, stored, nil
		}
	} else if err != nil {
		return nil, "", util.MapError(err)
	}

	token, _, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", util.MapError(err)
	}
	if err := s.tokenStore.Save(ctx, user.ID, token, s.tokenMgr.TTL()); err != nil {
		return nil, "", util.MapError(err)
	}
	return user, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
