package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/domain/spending"
)

const spendingsTable = "spendings"

var spendingCols = []string{
	"id", "category", "description", "amount", "spend_date", "created_at",
}

// SpendingRepo implements spending.Repository on PostgreSQL.
type SpendingRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

var _ spending.Repository = (*SpendingRepo)(nil)

// NewSpendingRepo creates a spending repository bound to the given manager.
func NewSpendingRepo(txm *TxManager) *SpendingRepo {
	return &SpendingRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a spending record.
func (r *SpendingRepo) Create(ctx context.Context, s *spending.Spending) error {
	q := r.builder.Insert(spendingsTable).
		Columns(spendingCols...).
		Values(s.ID, s.Category, s.Description, s.Amount, s.SpendDate, s.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "spending")
	}
	return nil
}

// Delete removes a spending record.
func (r *SpendingRepo) Delete(ctx context.Context, spendingID id.ID) error {
	q := r.builder.Delete(spendingsTable).
		Where(squirrel.Eq{"id": spendingID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, "spending")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("spending", spendingID.String())
	}
	return nil
}

// GetByID retrieves a spending record.
func (r *SpendingRepo) GetByID(ctx context.Context, spendingID id.ID) (*spending.Spending, error) {
	q := r.builder.Select(spendingCols...).
		From(spendingsTable).
		Where(squirrel.Eq{"id": spendingID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s spending.Spending
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("spending", spendingID.String())
		}
		return nil, translateError(err, "spending")
	}
	return &s, nil
}

// List returns spendings in the date range, most recent first.
func (r *SpendingRepo) List(ctx context.Context, from, to time.Time, limit int) ([]*spending.Spending, error) {
	q := r.builder.Select(spendingCols...).
		From(spendingsTable).
		Where(squirrel.GtOrEq{"spend_date": from}).
		Where(squirrel.Lt{"spend_date": to}).
		OrderBy("spend_date DESC", "created_at DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*spending.Spending
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, translateError(err, "spending")
	}
	return result, nil
}
