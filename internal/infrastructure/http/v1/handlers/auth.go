package handlers

import (
	"github.com/gin-gonic/gin"

	"barkeep/internal/domain/auth"
	"barkeep/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles operator login.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login verifies the operator PIN and issues a session token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Operator, req.PIN)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}
