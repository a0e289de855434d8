// Package auth provides operator session handling for the local IPC
// surface: a PIN check at login and short-lived JWT session tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds session token configuration.
type JWTConfig struct {
	Secret     string
	Issuer     string
	SessionTTL time.Duration
}

// DefaultJWTConfig returns default session token configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:     secret,
		Issuer:     "barkeep",
		SessionTTL: 12 * time.Hour,
	}
}

// Claims represents session token claims.
type Claims struct {
	jwt.RegisteredClaims
	Operator string `json:"op"`
}

// JWTService signs and validates session tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 12 * time.Hour
	}
	return &JWTService{config: config}
}

// GenerateSessionToken issues a token for a logged-in operator.
func (s *JWTService) GenerateSessionToken(operator string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.SessionTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Operator: operator,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a session token and returns the operator name.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.Operator, nil
}
