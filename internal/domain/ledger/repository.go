package ledger

import (
	"context"
	"time"

	"barkeep/internal/core/id"
)

// Repository defines storage operations for the stock ledger.
type Repository interface {
	// Inventory operations

	// CreateInventory creates a zero-initialized inventory record for a
	// new product. Called in the same transaction as the product insert.
	CreateInventory(ctx context.Context, productID id.ID) error

	// GetInventory returns the inventory record for a product.
	GetInventory(ctx context.Context, productID id.ID) (InventoryRecord, error)

	// GetInventoryForUpdate returns the record with a row lock.
	// Must be called inside a transaction; concurrent ledger calls on the
	// same product serialize on this lock.
	GetInventoryForUpdate(ctx context.Context, productID id.ID) (InventoryRecord, error)

	// UpdateInventory writes the godown/counter counters and levels back.
	UpdateInventory(ctx context.Context, rec InventoryRecord) error

	// ListInventory returns all inventory records ordered by product.
	ListInventory(ctx context.Context) ([]InventoryRecord, error)

	// Movement operations

	// CreateMovement appends a movement to the audit trail.
	// Movements are never updated or deleted.
	CreateMovement(ctx context.Context, m StockMovement) error

	// ListMovements returns movements most recent first.
	ListMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
}

// MovementFilter bounds movement history queries.
type MovementFilter struct {
	ProductID *id.ID
	Type      *MovementType
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
}
