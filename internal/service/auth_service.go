package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AaronAmha/HomeManagement/internal/auth"
	"github.com/AaronAmha/HomeManagement/internal/config"
	"github.com/AaronAmha/HomeManagement/internal/domain"
	"github.com/AaronAmha/HomeManagement/internal/repository"
	apperrors "github.com/AaronAmha/HomeManagement/pkg/util"
)

// AuthService issues ops-API tokens for operators.
type AuthService struct {
	operators repository.OperatorRepository
	tokens    *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators: operators,
		tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies operator credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, *domain.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(operator.ID, operator.Email)
	if err != nil {
		return "", time.Time{}, nil, apperrors.NewInternalError(err)
	}
	return token, expiresAt, operator, nil
}
