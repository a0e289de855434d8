package ledger

import (
	"context"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/core/tx"
	"barkeep/pkg/logger"
)

// Config holds ledger policy settings.
type Config struct {
	// AllowNegativeStock preserves the lenient legacy behavior where a
	// transfer or sale deduction may drive a location below zero.
	// Default is strict: such operations fail with INSUFFICIENT_STOCK.
	AllowNegativeStock bool
}

// Service owns the godown/counter split for each product and the movement
// audit trail. It is the only writer of inventory records and movements.
//
// Every mutating operation runs as a single transaction: the counter update
// and the movement insert either both commit or neither does.
type Service struct {
	repo Repository
	txm  tx.Manager
	cfg  Config
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, txm tx.Manager, cfg Config) *Service {
	return &Service{
		repo: repo,
		txm:  txm,
		cfg:  cfg,
	}
}

// Transfer moves quantity between the godown and the counter.
// Appends exactly one transfer movement. Rejects transfers that would drive
// the source location negative unless AllowNegativeStock is set.
func (s *Service) Transfer(ctx context.Context, productID id.ID, quantity int64, from, to Location) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if !from.Valid() || !to.Valid() {
		return apperror.NewValidation("unknown stock location").
			WithDetail("from", string(from)).
			WithDetail("to", string(to))
	}
	if from == to {
		return apperror.NewValidation("source and destination must differ").
			WithDetail("location", string(from))
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if err := s.checkFloor(productID, from, rec.Stock(from), quantity); err != nil {
			return err
		}

		rec.SetStock(from, rec.Stock(from)-quantity)
		rec.SetStock(to, rec.Stock(to)+quantity)

		if err := s.repo.UpdateInventory(ctx, rec); err != nil {
			return err
		}

		movement := NewMovement(productID, MovementTransfer, quantity).
			WithRoute(&from, &to)
		return s.repo.CreateMovement(ctx, movement)
	})
	if err != nil {
		return transactionError("stock transfer", err)
	}

	logger.Info(ctx, "stock transferred",
		"product_id", productID,
		"quantity", quantity,
		"from", from,
		"to", to,
	)
	return nil
}

// Receive records stock entering the system at the given location and
// appends an "in" movement.
func (s *Service) Receive(ctx context.Context, productID id.ID, quantity int64, loc Location, notes string) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if !loc.Valid() {
		return apperror.NewValidation("unknown stock location").
			WithDetail("location", string(loc))
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		rec.SetStock(loc, rec.Stock(loc)+quantity)
		if err := s.repo.UpdateInventory(ctx, rec); err != nil {
			return err
		}

		movement := NewMovement(productID, MovementIn, quantity).
			WithRoute(nil, &loc).
			WithNotes(notes)
		return s.repo.CreateMovement(ctx, movement)
	})
	if err != nil {
		return transactionError("stock receive", err)
	}

	logger.Info(ctx, "stock received",
		"product_id", productID,
		"quantity", quantity,
		"location", loc,
	)
	return nil
}

// AdjustStock overwrites both counters with absolute values (manual
// correction). Always appends an adjustment movement so the audit trail
// stays complete, carrying the net delta in its notes.
func (s *Service) AdjustStock(ctx context.Context, productID id.ID, godownStock, counterStock int64, notes string) (InventoryRecord, error) {
	if godownStock < 0 || counterStock < 0 {
		return InventoryRecord{}, apperror.NewValidation("stock counters cannot be negative").
			WithDetail("godownStock", godownStock).
			WithDetail("counterStock", counterStock)
	}

	var updated InventoryRecord
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		delta := (godownStock + counterStock) - rec.Total()

		rec.GodownStock = godownStock
		rec.CounterStock = counterStock
		if err := s.repo.UpdateInventory(ctx, rec); err != nil {
			return err
		}

		// A zero-delta correction (rebalancing between locations) still
		// gets a movement row: qty 1 is meaningless there, so record the
		// absolute correction with quantity = |delta|, minimum 1.
		qty := delta
		if qty < 0 {
			qty = -qty
		}
		if qty == 0 {
			qty = 1
		}

		movement := NewMovement(productID, MovementAdjustment, qty).
			WithNotes(adjustmentNote(delta, notes))
		if err := s.repo.CreateMovement(ctx, movement); err != nil {
			return err
		}

		updated = rec
		return nil
	})
	if err != nil {
		return InventoryRecord{}, transactionError("stock adjustment", err)
	}

	logger.Info(ctx, "stock adjusted",
		"product_id", productID,
		"godown_stock", godownStock,
		"counter_stock", counterStock,
	)
	return updated, nil
}

// SetReorderLevels updates the min/max stock levels for a product.
func (s *Service) SetReorderLevels(ctx context.Context, productID id.ID, minLevel, maxLevel int64) error {
	if minLevel < 0 || maxLevel < 0 {
		return apperror.NewValidation("stock levels cannot be negative")
	}
	if maxLevel > 0 && minLevel > maxLevel {
		return apperror.NewValidation("min level cannot exceed max level").
			WithDetail("minStockLevel", minLevel).
			WithDetail("maxStockLevel", maxLevel)
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		rec.MinStockLevel = minLevel
		rec.MaxStockLevel = maxLevel
		return s.repo.UpdateInventory(ctx, rec)
	})
}

// RecordSaleDeduction decrements counter stock and appends an "out"
// movement referencing the sale. Invoked only by the sale transaction
// processor, inside its transaction; the nested RunInTransaction call
// joins the existing unit of work so the deduction commits or rolls back
// with the sale.
func (s *Service) RecordSaleDeduction(ctx context.Context, productID id.ID, quantity int64, saleID id.ID) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if err := s.checkFloor(productID, LocationCounter, rec.CounterStock, quantity); err != nil {
			return err
		}

		rec.CounterStock -= quantity
		if err := s.repo.UpdateInventory(ctx, rec); err != nil {
			return err
		}

		from := LocationCounter
		movement := NewMovement(productID, MovementOut, quantity).
			WithRoute(&from, nil).
			WithReference(saleID)
		return s.repo.CreateMovement(ctx, movement)
	})
}

// InitInventory creates the zero-initialized inventory record for a new
// product. Called by the product service inside the product-creation
// transaction.
func (s *Service) InitInventory(ctx context.Context, productID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateInventory(ctx, productID)
	})
}

// GetInventory returns the inventory record for a product.
func (s *Service) GetInventory(ctx context.Context, productID id.ID) (InventoryRecord, error) {
	return s.repo.GetInventory(ctx, productID)
}

// ListInventory returns all inventory records.
func (s *Service) ListInventory(ctx context.Context) ([]InventoryRecord, error) {
	return s.repo.ListInventory(ctx)
}

// ListMovements returns the movement history, most recent first.
func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.ListMovements(ctx, filter)
}

// checkFloor rejects operations that would drive a location negative,
// unless the lenient legacy policy is enabled.
func (s *Service) checkFloor(productID id.ID, loc Location, available, requested int64) error {
	if s.cfg.AllowNegativeStock {
		return nil
	}
	if available < requested {
		return apperror.NewInsufficientStock(productID.String(), string(loc), requested, available)
	}
	return nil
}

// transactionError passes structured errors through untouched and wraps
// raw storage errors as a rolled-back transaction failure, preserving the
// original cause.
func transactionError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewTransaction(op, err)
}

func adjustmentNote(delta int64, notes string) string {
	prefix := "manual correction"
	if delta > 0 {
		prefix = "manual correction (+)"
	} else if delta < 0 {
		prefix = "manual correction (-)"
	}
	if notes == "" {
		return prefix
	}
	return prefix + ": " + notes
}
