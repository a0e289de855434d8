package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/domain/ledger"
)

const (
	inventoryTable = "inventory"
	movementsTable = "stock_movements"
)

var movementCols = []string{
	"id", "product_id", "movement_type", "quantity",
	"from_location", "to_location", "reference_id", "notes", "created_at",
}

var inventoryCols = []string{
	"product_id", "godown_stock", "counter_stock",
	"min_stock_level", "max_stock_level", "updated_at",
}

// LedgerRepo implements ledger.Repository on PostgreSQL.
type LedgerRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a ledger repository bound to the given manager.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateInventory inserts a zero-initialized record for a new product.
func (r *LedgerRepo) CreateInventory(ctx context.Context, productID id.ID) error {
	q := r.builder.Insert(inventoryTable).
		Columns("product_id", "godown_stock", "counter_stock", "min_stock_level", "max_stock_level", "updated_at").
		Values(productID, 0, 0, 0, 0, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "inventory")
	}
	return nil
}

// GetInventory returns the inventory record for a product.
func (r *LedgerRepo) GetInventory(ctx context.Context, productID id.ID) (ledger.InventoryRecord, error) {
	var rec ledger.InventoryRecord

	q := r.builder.Select(inventoryCols...).
		From(inventoryTable).
		Where(squirrel.Eq{"product_id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return rec, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return rec, apperror.NewNotFound("inventory", productID.String())
		}
		return rec, translateError(err, "inventory")
	}
	return rec, nil
}

// GetInventoryForUpdate returns the record with a pessimistic row lock.
// Concurrent ledger operations on the same product serialize here.
func (r *LedgerRepo) GetInventoryForUpdate(ctx context.Context, productID id.ID) (ledger.InventoryRecord, error) {
	var rec ledger.InventoryRecord

	sql := `
		SELECT product_id, godown_stock, counter_stock, min_stock_level, max_stock_level, updated_at
		FROM inventory
		WHERE product_id = $1
		FOR UPDATE
	`

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, productID); err != nil {
		if pgxscan.NotFound(err) {
			return rec, apperror.NewNotFound("inventory", productID.String())
		}
		return rec, translateError(err, "inventory")
	}
	return rec, nil
}

// UpdateInventory writes the counters and reorder levels back.
func (r *LedgerRepo) UpdateInventory(ctx context.Context, rec ledger.InventoryRecord) error {
	q := r.builder.Update(inventoryTable).
		Set("godown_stock", rec.GodownStock).
		Set("counter_stock", rec.CounterStock).
		Set("min_stock_level", rec.MinStockLevel).
		Set("max_stock_level", rec.MaxStockLevel).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"product_id": rec.ProductID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, "inventory")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory", rec.ProductID.String())
	}
	return nil
}

// ListInventory returns all inventory records ordered by product.
func (r *LedgerRepo) ListInventory(ctx context.Context) ([]ledger.InventoryRecord, error) {
	q := r.builder.Select(inventoryCols...).
		From(inventoryTable).
		OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []ledger.InventoryRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, translateError(err, "inventory")
	}
	return records, nil
}

// CreateMovement appends a movement to the audit trail.
func (r *LedgerRepo) CreateMovement(ctx context.Context, m ledger.StockMovement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementCols...).
		Values(m.ID, m.ProductID, m.Type, m.Quantity,
			m.FromLocation, m.ToLocation, m.ReferenceID, m.Notes, m.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "stock_movement")
	}
	return nil
}

// movementsQuery builds the movement history query for a filter.
func (r *LedgerRepo) movementsQuery(filter ledger.MovementFilter) squirrel.SelectBuilder {
	q := r.builder.Select(movementCols...).
		From(movementsTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.Type})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
	}

	// Movements written in one transaction share created_at; the UUIDv7
	// id is time-ordered and breaks the tie.
	q = q.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return q
}

// ListMovements returns movements most recent first.
func (r *LedgerRepo) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	sql, args, err := r.movementsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.StockMovement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, translateError(err, "stock_movement")
	}
	return movements, nil
}
