package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/types"
	"barkeep/internal/domain/cashbox"
)

const cashSessionsTable = "cash_sessions"

var cashSessionCols = []string{
	"id", "business_date", "opening_amount", "closing_amount",
	"cash_sales", "notes", "opened_at", "closed_at",
}

// CashboxRepo implements cashbox.Repository on PostgreSQL.
type CashboxRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

var _ cashbox.Repository = (*CashboxRepo)(nil)

// NewCashboxRepo creates a cashbox repository bound to the given manager.
func NewCashboxRepo(txm *TxManager) *CashboxRepo {
	return &CashboxRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a session. The partial unique index on open sessions
// rejects a second open session as a duplicate.
func (r *CashboxRepo) Create(ctx context.Context, session *cashbox.CashSession) error {
	q := r.builder.Insert(cashSessionsTable).
		Columns(cashSessionCols...).
		Values(session.ID, session.BusinessDate, session.OpeningAmount, session.ClosingAmount,
			session.CashSales, session.Notes, session.OpenedAt, session.ClosedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, "cash_session")
	}
	return nil
}

// Update writes the closing fields back.
func (r *CashboxRepo) Update(ctx context.Context, session *cashbox.CashSession) error {
	q := r.builder.Update(cashSessionsTable).
		Set("closing_amount", session.ClosingAmount).
		Set("cash_sales", session.CashSales).
		Set("notes", session.Notes).
		Set("closed_at", session.ClosedAt).
		Where(squirrel.Eq{"id": session.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, "cash_session")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("cash_session", session.ID.String())
	}
	return nil
}

// GetOpen returns the currently open session.
func (r *CashboxRepo) GetOpen(ctx context.Context) (*cashbox.CashSession, error) {
	q := r.builder.Select(cashSessionCols...).
		From(cashSessionsTable).
		Where("closed_at IS NULL").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var session cashbox.CashSession
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &session, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("cash_session", "open")
		}
		return nil, translateError(err, "cash_session")
	}
	return &session, nil
}

// List returns sessions in the date range, most recent first.
func (r *CashboxRepo) List(ctx context.Context, from, to time.Time) ([]*cashbox.CashSession, error) {
	q := r.builder.Select(cashSessionCols...).
		From(cashSessionsTable).
		Where(squirrel.GtOrEq{"business_date": from}).
		Where(squirrel.Lt{"business_date": to}).
		OrderBy("business_date DESC", "opened_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sessions []*cashbox.CashSession
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sessions, sql, args...); err != nil {
		return nil, translateError(err, "cash_session")
	}
	return sessions, nil
}

// CashSalesTotal sums cash-paid sales for the trading day.
func (r *CashboxRepo) CashSalesTotal(ctx context.Context, businessDate time.Time) (types.Money, error) {
	dayStart := time.Date(businessDate.Year(), businessDate.Month(), businessDate.Day(),
		0, 0, 0, 0, businessDate.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	q := r.builder.Select("COALESCE(SUM(total_amount), 0) AS total").
		From(salesTable).
		Where(squirrel.Eq{"payment_method": "cash"}).
		Where(squirrel.GtOrEq{"sale_date": dayStart}).
		Where(squirrel.Lt{"sale_date": dayEnd})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), translateError(err, "cash_session")
	}
	return total, nil
}
