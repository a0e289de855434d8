package dto

import "time"

// LoginRequest is the operator login payload.
type LoginRequest struct {
	Operator string `json:"operator" binding:"required"`
	PIN      string `json:"pin" binding:"required"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
