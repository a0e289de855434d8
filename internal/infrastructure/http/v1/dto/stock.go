package dto

import (
	"time"

	"barkeep/internal/domain/ledger"
)

// TransferRequest moves stock between the godown and the counter.
type TransferRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
}

// ReceiveRequest records stock entering the system.
type ReceiveRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	Location string `json:"location" binding:"required"`
	Notes    string `json:"notes"`
}

// AdjustStockRequest overwrites both counters with absolute values.
type AdjustStockRequest struct {
	GodownStock  int64  `json:"godownStock"`
	CounterStock int64  `json:"counterStock"`
	Notes        string `json:"notes"`
}

// ReorderLevelsRequest updates the min/max stock levels.
type ReorderLevelsRequest struct {
	MinStockLevel int64 `json:"minStockLevel"`
	MaxStockLevel int64 `json:"maxStockLevel"`
}

// InventoryResponse is the API shape of an inventory record.
type InventoryResponse struct {
	ProductID     string    `json:"productId"`
	GodownStock   int64     `json:"godownStock"`
	CounterStock  int64     `json:"counterStock"`
	TotalStock    int64     `json:"totalStock"`
	MinStockLevel int64     `json:"minStockLevel"`
	MaxStockLevel int64     `json:"maxStockLevel"`
	IsLow         bool      `json:"isLow"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromInventory converts an inventory record into its API shape.
func FromInventory(rec ledger.InventoryRecord) InventoryResponse {
	return InventoryResponse{
		ProductID:     rec.ProductID.String(),
		GodownStock:   rec.GodownStock,
		CounterStock:  rec.CounterStock,
		TotalStock:    rec.Total(),
		MinStockLevel: rec.MinStockLevel,
		MaxStockLevel: rec.MaxStockLevel,
		IsLow:         rec.IsLow(),
		UpdatedAt:     rec.UpdatedAt,
	}
}

// FromInventories converts inventory records into API shapes.
func FromInventories(records []ledger.InventoryRecord) []InventoryResponse {
	out := make([]InventoryResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, FromInventory(rec))
	}
	return out
}

// MovementResponse is the API shape of a stock movement.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	MovementType string    `json:"movementType"`
	Quantity     int64     `json:"quantity"`
	FromLocation *string   `json:"fromLocation,omitempty"`
	ToLocation   *string   `json:"toLocation,omitempty"`
	ReferenceID  *string   `json:"referenceId,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromMovement converts a movement into its API shape.
func FromMovement(m ledger.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:           m.ID.String(),
		ProductID:    m.ProductID.String(),
		MovementType: string(m.Type),
		Quantity:     m.Quantity,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
	}
	if m.FromLocation != nil {
		loc := string(*m.FromLocation)
		resp.FromLocation = &loc
	}
	if m.ToLocation != nil {
		loc := string(*m.ToLocation)
		resp.ToLocation = &loc
	}
	if m.ReferenceID != nil {
		ref := m.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}

// FromMovements converts movements into API shapes.
func FromMovements(movements []ledger.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, FromMovement(m))
	}
	return out
}
