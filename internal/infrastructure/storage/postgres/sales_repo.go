package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/domain/sales"
)

const (
	salesTable        = "sales"
	saleItemsTable    = "sale_items"
	pendingBillsTable = "pending_bills"
)

var saleCols = []string{
	"id", "sale_number", "sale_type", "table_number",
	"customer_name", "customer_phone",
	"total_amount", "tax_amount", "discount_amount",
	"payment_method", "sale_date", "created_at",
}

var saleItemCols = []string{
	"id", "sale_id", "product_id", "quantity", "unit_price", "total_price",
}

var pendingBillCols = []string{
	"id", "sale_type", "table_number",
	"customer_name", "customer_phone",
	"total_amount", "tax_amount", "discount_amount",
	"payment_method", "items", "created_at", "updated_at",
}

// SalesRepo implements sales.Repository on PostgreSQL.
type SalesRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

var _ sales.Repository = (*SalesRepo)(nil)

// NewSalesRepo creates a sales repository bound to the given manager.
func NewSalesRepo(txm *TxManager) *SalesRepo {
	return &SalesRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateSale inserts the sale header.
func (r *SalesRepo) CreateSale(ctx context.Context, sale *sales.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleCols...).
		Values(sale.ID, sale.SaleNumber, sale.SaleType, sale.TableNumber,
			sale.CustomerName, sale.CustomerPhone,
			sale.TotalAmount, sale.TaxAmount, sale.DiscountAmount,
			sale.PaymentMethod, sale.SaleDate, sale.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "sale")
	}
	return nil
}

// CreateSaleItems inserts all line items in one statement.
func (r *SalesRepo) CreateSaleItems(ctx context.Context, saleID id.ID, items []sales.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder.Insert(saleItemsTable).Columns(saleItemCols...)
	for _, item := range items {
		q = q.Values(item.ID, saleID, item.ProductID,
			item.Quantity, item.UnitPrice, item.TotalPrice)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "sale_item")
	}
	return nil
}

// GetSale retrieves a sale with its line items.
func (r *SalesRepo) GetSale(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	return r.getSale(ctx, squirrel.Eq{"id": saleID}, saleID.String())
}

// GetSaleByNumber retrieves a sale by its business-facing number.
func (r *SalesRepo) GetSaleByNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	return r.getSale(ctx, squirrel.Eq{"sale_number": saleNumber}, saleNumber)
}

func (r *SalesRepo) getSale(ctx context.Context, cond squirrel.Eq, key string) (*sales.Sale, error) {
	q := r.builder.Select(saleCols...).
		From(salesTable).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale sales.Sale
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", key)
		}
		return nil, translateError(err, "sale")
	}

	items, err := r.getItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	return &sale, nil
}

func (r *SalesRepo) getItems(ctx context.Context, saleID id.ID) ([]sales.SaleItem, error) {
	q := r.builder.Select(saleItemCols...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.SaleItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, translateError(err, "sale_item")
	}
	return items, nil
}

// ListSales returns sale headers most recent first. Items are not loaded
// for listings; use GetSale for the full document.
func (r *SalesRepo) ListSales(ctx context.Context, filter sales.SaleFilter) ([]*sales.Sale, error) {
	q := r.builder.Select(saleCols...).
		From(salesTable)

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"sale_date": *filter.ToDate})
	}
	if filter.SaleType != nil {
		q = q.Where(squirrel.Eq{"sale_type": *filter.SaleType})
	}

	q = q.OrderBy("sale_date DESC", "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*sales.Sale
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, translateError(err, "sale")
	}
	return result, nil
}

// CreatePendingBill inserts a draft bill.
func (r *SalesRepo) CreatePendingBill(ctx context.Context, bill *sales.PendingBill) error {
	q := r.builder.Insert(pendingBillsTable).
		Columns(pendingBillCols...).
		Values(bill.ID, bill.SaleType, bill.TableNumber,
			bill.CustomerName, bill.CustomerPhone,
			bill.TotalAmount, bill.TaxAmount, bill.DiscountAmount,
			bill.PaymentMethod, bill.Items, bill.CreatedAt, bill.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "pending_bill")
	}
	return nil
}

// UpdatePendingBill replaces a draft's mutable fields.
func (r *SalesRepo) UpdatePendingBill(ctx context.Context, bill *sales.PendingBill) error {
	q := r.builder.Update(pendingBillsTable).
		Set("sale_type", bill.SaleType).
		Set("table_number", bill.TableNumber).
		Set("customer_name", bill.CustomerName).
		Set("customer_phone", bill.CustomerPhone).
		Set("total_amount", bill.TotalAmount).
		Set("tax_amount", bill.TaxAmount).
		Set("discount_amount", bill.DiscountAmount).
		Set("payment_method", bill.PaymentMethod).
		Set("items", bill.Items).
		Set("updated_at", bill.UpdatedAt).
		Where(squirrel.Eq{"id": bill.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, "pending_bill")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("pending_bill", bill.ID.String())
	}
	return nil
}

// GetPendingBill retrieves a draft bill.
func (r *SalesRepo) GetPendingBill(ctx context.Context, billID id.ID) (*sales.PendingBill, error) {
	q := r.builder.Select(pendingBillCols...).
		From(pendingBillsTable).
		Where(squirrel.Eq{"id": billID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var bill sales.PendingBill
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &bill, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("pending_bill", billID.String())
		}
		return nil, translateError(err, "pending_bill")
	}
	return &bill, nil
}

// ListPendingBills returns all open drafts, oldest first so the floor
// staff see long-waiting tables at the top.
func (r *SalesRepo) ListPendingBills(ctx context.Context) ([]*sales.PendingBill, error) {
	q := r.builder.Select(pendingBillCols...).
		From(pendingBillsTable).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var bills []*sales.PendingBill
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &bills, sql, args...); err != nil {
		return nil, translateError(err, "pending_bill")
	}
	return bills, nil
}

// DeletePendingBill removes a draft.
func (r *SalesRepo) DeletePendingBill(ctx context.Context, billID id.ID) error {
	q := r.builder.Delete(pendingBillsTable).
		Where(squirrel.Eq{"id": billID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, "pending_bill")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("pending_bill", billID.String())
	}
	return nil
}
