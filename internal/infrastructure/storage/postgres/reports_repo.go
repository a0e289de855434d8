package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barkeep/internal/domain/reports"
)

// ReportsRepo implements reports.Repository on PostgreSQL. All queries are
// aggregations over committed rows; it never takes locks and never writes.
type ReportsRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportsRepo)(nil)

// NewReportsRepo creates a reports repository bound to the given manager.
func NewReportsRepo(txm *TxManager) *ReportsRepo {
	return &ReportsRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// TopSellers returns the best-selling products by quantity in the range.
func (r *ReportsRepo) TopSellers(ctx context.Context, rng reports.Range, limit int) ([]reports.TopSeller, error) {
	q := r.builder.Select(
		"p.id AS product_id",
		"p.sku",
		"p.name",
		"SUM(si.quantity) AS quantity_sold",
		"SUM(si.total_price) AS revenue",
	).
		From(saleItemsTable + " si").
		Join(salesTable + " s ON s.id = si.sale_id").
		Join(productsTable + " p ON p.id = si.product_id").
		Where(squirrel.GtOrEq{"s.sale_date": rng.From}).
		Where(squirrel.Lt{"s.sale_date": rng.To}).
		GroupBy("p.id", "p.sku", "p.name").
		OrderBy("quantity_sold DESC", "revenue DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.TopSeller
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, translateError(err, "report")
	}
	return rows, nil
}

// SalesSummary aggregates sales over the range.
func (r *ReportsRepo) SalesSummary(ctx context.Context, rng reports.Range) (reports.SalesSummary, error) {
	var summary reports.SalesSummary

	q := r.builder.Select(
		"COUNT(*) AS count",
		"COALESCE(SUM(total_amount), 0) AS total_amount",
		"COALESCE(SUM(tax_amount), 0) AS tax_amount",
		"COALESCE(SUM(discount_amount), 0) AS discount_amount",
	).
		From(salesTable).
		Where(squirrel.GtOrEq{"sale_date": rng.From}).
		Where(squirrel.Lt{"sale_date": rng.To})

	sql, args, err := q.ToSql()
	if err != nil {
		return summary, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &summary, sql, args...); err != nil {
		return summary, translateError(err, "report")
	}
	return summary, nil
}

// SpendingSummary aggregates spendings over the range.
func (r *ReportsRepo) SpendingSummary(ctx context.Context, rng reports.Range) (reports.SpendingSummary, error) {
	var summary reports.SpendingSummary

	q := r.builder.Select(
		"COUNT(*) AS count",
		"COALESCE(SUM(amount), 0) AS total_amount",
	).
		From(spendingsTable).
		Where(squirrel.GtOrEq{"spend_date": rng.From}).
		Where(squirrel.Lt{"spend_date": rng.To})

	sql, args, err := q.ToSql()
	if err != nil {
		return summary, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &summary, sql, args...); err != nil {
		return summary, translateError(err, "report")
	}
	return summary, nil
}

// LowStock returns products whose total stock has fallen to the reorder
// level. Products with no reorder level set are excluded.
func (r *ReportsRepo) LowStock(ctx context.Context) ([]reports.LowStockItem, error) {
	q := r.builder.Select(
		"p.id AS product_id",
		"p.sku",
		"p.name",
		"i.godown_stock",
		"i.counter_stock",
		"i.min_stock_level",
	).
		From(inventoryTable + " i").
		Join(productsTable + " p ON p.id = i.product_id").
		Where(squirrel.Gt{"i.min_stock_level": 0}).
		Where("i.godown_stock + i.counter_stock <= i.min_stock_level").
		OrderBy("p.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []reports.LowStockItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, translateError(err, "report")
	}
	return items, nil
}
