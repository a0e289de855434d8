package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"barkeep/internal/domain/reports"
	"barkeep/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles read-only reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// TopSellers handles GET /api/v1/reports/top-sellers.
func (h *ReportsHandler) TopSellers(c *gin.Context) {
	var query dto.RangeQuery
	if !h.BindQuery(c, &query) {
		return
	}

	rows, err := h.service.TopSellers(c.Request.Context(), query.ToRange(),
		h.ParseIntQuery(c, "limit", 0))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromTopSellers(rows)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// SalesSummary handles GET /api/v1/reports/sales-summary.
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	var query dto.RangeQuery
	if !h.BindQuery(c, &query) {
		return
	}

	summary, err := h.service.SalesSummary(c.Request.Context(), query.ToRange())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesSummary(summary))
}

// SpendingSummary handles GET /api/v1/reports/spending-summary.
func (h *ReportsHandler) SpendingSummary(c *gin.Context) {
	var query dto.RangeQuery
	if !h.BindQuery(c, &query) {
		return
	}

	summary, err := h.service.SpendingSummary(c.Request.Context(), query.ToRange())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSpendingSummary(summary))
}

// LowStock handles GET /api/v1/reports/low-stock.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	shaped := dto.FromLowStock(items)
	h.OK(c, dto.ListResponse{Items: shaped, Count: len(shaped)})
}

// DailySummary handles GET /api/v1/reports/daily-summary.
func (h *ReportsHandler) DailySummary(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			date = parsed
		}
	}

	summary, err := h.service.DailySummary(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDailySummary(summary))
}
