package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"barkeep/internal/core/apperror"
	"barkeep/internal/domain/sales"
	"barkeep/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sale and pending bill endpoints.
type SalesHandler struct {
	*BaseHandler
	processor *sales.Processor
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, processor *sales.Processor) *SalesHandler {
	return &SalesHandler{BaseHandler: base, processor: processor}
}

// Create handles POST /api/v1/sales.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sale payload").WithCause(err))
		return
	}

	created, err := h.processor.CreateSale(c.Request.Context(), sale)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(created))
}

// Get handles GET /api/v1/sales/:id.
func (h *SalesHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.processor.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(sale))
}

// List handles GET /api/v1/sales.
func (h *SalesHandler) List(c *gin.Context) {
	filter := sales.SaleFilter{
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse("2006-01-02", raw); err == nil {
			filter.FromDate = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse("2006-01-02", raw); err == nil {
			filter.ToDate = &to
		}
	}
	if raw := c.Query("type"); raw != "" {
		saleType := sales.SaleType(raw)
		filter.SaleType = &saleType
	}

	list, err := h.processor.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromSales(list)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// CreatePendingBill handles POST /api/v1/pending-bills.
func (h *SalesHandler) CreatePendingBill(c *gin.Context) {
	var req dto.PendingBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bill, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid bill payload").WithCause(err))
		return
	}

	if err := h.processor.SavePendingBill(c.Request.Context(), bill); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, bill.ID.String())
}

// UpdatePendingBill handles PUT /api/v1/pending-bills/:id.
func (h *SalesHandler) UpdatePendingBill(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PendingBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bill, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid bill payload").WithCause(err))
		return
	}
	bill.ID = billID

	if err := h.processor.UpdatePendingBill(c.Request.Context(), bill); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPendingBill(bill))
}

// GetPendingBill handles GET /api/v1/pending-bills/:id.
func (h *SalesHandler) GetPendingBill(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	bill, err := h.processor.GetPendingBill(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPendingBill(bill))
}

// ListPendingBills handles GET /api/v1/pending-bills.
func (h *SalesHandler) ListPendingBills(c *gin.Context) {
	bills, err := h.processor.ListPendingBills(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromPendingBills(bills)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// DeletePendingBill handles DELETE /api/v1/pending-bills/:id.
func (h *SalesHandler) DeletePendingBill(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.processor.DeletePendingBill(c.Request.Context(), billID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ClearPendingBill handles POST /api/v1/pending-bills/:id/clear, promoting
// a draft into a finalized sale.
func (h *SalesHandler) ClearPendingBill(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.processor.ClearPendingBill(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromClearResult(result))
}
