package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"barkeep/internal/core/apperror"
	"barkeep/internal/domain/spending"
	"barkeep/internal/infrastructure/http/v1/dto"
)

// SpendingHandler handles spendings book endpoints.
type SpendingHandler struct {
	*BaseHandler
	service *spending.Service
}

// NewSpendingHandler creates a new spending handler.
func NewSpendingHandler(base *BaseHandler, service *spending.Service) *SpendingHandler {
	return &SpendingHandler{BaseHandler: base, service: service}
}

// Create handles POST /api/v1/spendings.
func (h *SpendingHandler) Create(c *gin.Context) {
	var req dto.CreateSpendingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid amount").WithCause(err))
		return
	}

	if err := h.service.Record(c.Request.Context(), s); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s.ID.String())
}

// Delete handles DELETE /api/v1/spendings/:id.
func (h *SpendingHandler) Delete(c *gin.Context) {
	spendingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), spendingID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /api/v1/spendings.
func (h *SpendingHandler) List(c *gin.Context) {
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

	list, err := h.service.List(c.Request.Context(), from, to, h.ParseIntQuery(c, "limit", 0))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromSpendings(list)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}
