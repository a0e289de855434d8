package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"barkeep/internal/domain/ledger"
	"barkeep/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger endpoints.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Transfer handles POST /api/v1/stock/:id/transfer.
func (h *StockHandler) Transfer(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.Transfer(c.Request.Context(), productID, req.Quantity,
		ledger.Location(req.From), ledger.Location(req.To))
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, err := h.service.GetInventory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInventory(rec))
}

// Receive handles POST /api/v1/stock/:id/receive.
func (h *StockHandler) Receive(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.Receive(c.Request.Context(), productID, req.Quantity,
		ledger.Location(req.Location), req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, err := h.service.GetInventory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInventory(rec))
}

// Adjust handles PUT /api/v1/stock/:id.
func (h *StockHandler) Adjust(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.AdjustStock(c.Request.Context(), productID,
		req.GodownStock, req.CounterStock, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInventory(rec))
}

// SetReorderLevels handles PUT /api/v1/stock/:id/levels.
func (h *StockHandler) SetReorderLevels(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReorderLevelsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.SetReorderLevels(c.Request.Context(), productID,
		req.MinStockLevel, req.MaxStockLevel)
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, err := h.service.GetInventory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInventory(rec))
}

// Get handles GET /api/v1/stock/:id.
func (h *StockHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetInventory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInventory(rec))
}

// List handles GET /api/v1/stock.
func (h *StockHandler) List(c *gin.Context) {
	records, err := h.service.ListInventory(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromInventories(records)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// Movements handles GET /api/v1/stock/movements.
func (h *StockHandler) Movements(c *gin.Context) {
	filter := ledger.MovementFilter{
		Limit: h.ParseIntQuery(c, "limit", 0),
	}

	if raw := c.Query("productId"); raw != "" {
		productID, err := parseQueryID(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.ProductID = &productID
	}
	if raw := c.Query("type"); raw != "" {
		movementType := ledger.MovementType(raw)
		filter.Type = &movementType
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err == nil {
			filter.FromDate = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err == nil {
			filter.ToDate = &to
		}
	}

	movements, err := h.service.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromMovements(movements)
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}
