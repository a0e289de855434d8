// Package ledger provides the stock ledger: godown/counter quantities per
// product and the append-only movement audit trail.
//
// Movements are the system of record for all stock changes; the inventory
// record is a materialized cache of their sum. Movements are immutable -
// they are never updated or deleted.
package ledger

import (
	"time"

	"barkeep/internal/core/id"
)

// Location identifies where stock is held.
type Location string

const (
	// LocationGodown is the backroom/warehouse location.
	LocationGodown Location = "godown"
	// LocationCounter is the front-of-house location available for sale.
	LocationCounter Location = "counter"
)

// Valid reports whether the location is one of the known stock locations.
func (l Location) Valid() bool {
	return l == LocationGodown || l == LocationCounter
}

// MovementType defines the cause category of a stock movement.
type MovementType string

const (
	// MovementIn records stock entering the system (goods received).
	MovementIn MovementType = "in"
	// MovementOut records stock leaving the system (sale deduction).
	MovementOut MovementType = "out"
	// MovementTransfer records stock moving between locations.
	MovementTransfer MovementType = "transfer"
	// MovementAdjustment records a manual correction of the counters.
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is an immutable audit record of a single quantity change.
type StockMovement struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Type      MovementType `db:"movement_type" json:"movementType"`

	// Quantity is always positive; direction comes from the type and
	// the from/to locations.
	Quantity int64 `db:"quantity" json:"quantity"`

	FromLocation *Location `db:"from_location" json:"fromLocation,omitempty"`
	ToLocation   *Location `db:"to_location" json:"toLocation,omitempty"`

	// ReferenceID is the sale that caused the movement, when sale-induced.
	ReferenceID *id.ID `db:"reference_id" json:"referenceId,omitempty"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated ID and timestamp.
func NewMovement(productID id.ID, movementType MovementType, quantity int64) StockMovement {
	return StockMovement{
		ID:        id.New(),
		ProductID: productID,
		Type:      movementType,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}
}

// WithRoute sets the from/to locations.
func (m StockMovement) WithRoute(from, to *Location) StockMovement {
	m.FromLocation = from
	m.ToLocation = to
	return m
}

// WithReference sets the sale reference.
func (m StockMovement) WithReference(saleID id.ID) StockMovement {
	m.ReferenceID = &saleID
	return m
}

// WithNotes sets free-form notes.
func (m StockMovement) WithNotes(notes string) StockMovement {
	m.Notes = notes
	return m
}

// SignedEffect returns the net effect of the movement on total stock
// (godown + counter). Transfers and adjustments net to zero here because
// the adjustment movement records the delta explicitly via its route.
func (m *StockMovement) SignedEffect() int64 {
	switch m.Type {
	case MovementIn:
		return m.Quantity
	case MovementOut:
		return -m.Quantity
	default:
		return 0
	}
}

// InventoryRecord holds the materialized godown/counter split for a product.
// Written only by the ledger and the sale transaction processor.
type InventoryRecord struct {
	ProductID id.ID `db:"product_id" json:"productId"`

	GodownStock  int64 `db:"godown_stock" json:"godownStock"`
	CounterStock int64 `db:"counter_stock" json:"counterStock"`

	MinStockLevel int64 `db:"min_stock_level" json:"minStockLevel"`
	MaxStockLevel int64 `db:"max_stock_level" json:"maxStockLevel"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Total returns stock across both locations.
func (r *InventoryRecord) Total() int64 {
	return r.GodownStock + r.CounterStock
}

// Stock returns the quantity at the given location.
func (r *InventoryRecord) Stock(loc Location) int64 {
	if loc == LocationCounter {
		return r.CounterStock
	}
	return r.GodownStock
}

// SetStock overwrites the quantity at the given location.
func (r *InventoryRecord) SetStock(loc Location, quantity int64) {
	if loc == LocationCounter {
		r.CounterStock = quantity
		return
	}
	r.GodownStock = quantity
}

// IsLow reports whether total stock has fallen to the reorder level.
func (r *InventoryRecord) IsLow() bool {
	return r.Total() <= r.MinStockLevel
}
