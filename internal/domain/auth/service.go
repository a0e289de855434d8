package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"barkeep/internal/core/apperror"
	"barkeep/pkg/logger"
)

// Service handles operator login for the desktop session.
// A single operator PIN (bcrypt hash from configuration) gates the local
// surface; there is no multi-user account system.
type Service struct {
	jwt     *JWTService
	pinHash string
}

// NewService creates a new auth service.
func NewService(jwt *JWTService, pinHash string) *Service {
	return &Service{
		jwt:     jwt,
		pinHash: pinHash,
	}
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login verifies the operator PIN and issues a session token.
func (s *Service) Login(ctx context.Context, operator, pin string) (*Session, error) {
	if operator == "" || pin == "" {
		return nil, apperror.NewValidation("operator and pin are required")
	}
	if s.pinHash == "" {
		return nil, apperror.NewUnauthorized("no operator PIN configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.pinHash), []byte(pin)); err != nil {
		logger.Warn(ctx, "failed login attempt", "operator", operator)
		return nil, apperror.NewUnauthorized("invalid PIN")
	}

	token, expiresAt, err := s.jwt.GenerateSessionToken(operator)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "operator logged in", "operator", operator)
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate checks a session token and returns the operator name.
func (s *Service) Validate(tokenString string) (string, error) {
	operator, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return "", apperror.NewUnauthorized("invalid or expired session").WithCause(err)
	}
	return operator, nil
}
