package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/types"
	"barkeep/internal/domain/cashbox"
	"barkeep/internal/infrastructure/http/v1/dto"
)

// CashboxHandler handles counter-balance session endpoints.
type CashboxHandler struct {
	*BaseHandler
	service *cashbox.Service
}

// NewCashboxHandler creates a new cashbox handler.
func NewCashboxHandler(base *BaseHandler, service *cashbox.Service) *CashboxHandler {
	return &CashboxHandler{BaseHandler: base, service: service}
}

// OpenDay handles POST /api/v1/cashbox/open.
func (h *CashboxHandler) OpenDay(c *gin.Context) {
	var req dto.OpenDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	opening, err := types.NewMoneyFromString(req.OpeningAmount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid opening amount").WithCause(err))
		return
	}

	businessDate := req.BusinessDate
	if businessDate.IsZero() {
		businessDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	session, err := h.service.OpenDay(c.Request.Context(), businessDate, opening)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCashSession(session))
}

// CloseDay handles POST /api/v1/cashbox/close.
func (h *CashboxHandler) CloseDay(c *gin.Context) {
	var req dto.CloseDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	counted, err := types.NewMoneyFromString(req.CountedAmount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid counted amount").WithCause(err))
		return
	}

	session, err := h.service.CloseDay(c.Request.Context(), counted, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCashSession(session))
}

// Current handles GET /api/v1/cashbox/current.
func (h *CashboxHandler) Current(c *gin.Context) {
	session, err := h.service.Current(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCashSession(session))
}

// History handles GET /api/v1/cashbox/history.
func (h *CashboxHandler) History(c *gin.Context) {
	to := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			from = parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			to = parsed
		}
	}

	sessions, err := h.service.History(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromCashSessions(sessions)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}
