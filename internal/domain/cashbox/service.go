package cashbox

import (
	"context"
	"time"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/tx"
	"barkeep/internal/core/types"
	"barkeep/pkg/logger"
)

// Repository defines storage operations for cash sessions.
type Repository interface {
	Create(ctx context.Context, session *CashSession) error
	Update(ctx context.Context, session *CashSession) error

	// GetOpen returns the currently open session, NotFound if none.
	GetOpen(ctx context.Context) (*CashSession, error)

	// List returns sessions in the date range, most recent first.
	List(ctx context.Context, from, to time.Time) ([]*CashSession, error)

	// CashSalesTotal sums cash-paid sales for the trading day.
	CashSalesTotal(ctx context.Context, businessDate time.Time) (types.Money, error)
}

// Service provides day open/close operations for the counter cash box.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new cashbox service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// OpenDay opens a session for the trading day. Fails with a conflict if a
// session is already open.
func (s *Service) OpenDay(ctx context.Context, businessDate time.Time, openingAmount types.Money) (*CashSession, error) {
	session := NewSession(businessDate, openingAmount)
	if err := session.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if open, err := s.repo.GetOpen(ctx); err == nil && open != nil {
			return apperror.NewConflict("a cash session is already open").
				WithDetail("session_id", open.ID.String())
		} else if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		return s.repo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash session opened",
		"session_id", session.ID,
		"business_date", businessDate.Format("2006-01-02"),
	)
	return session, nil
}

// CloseDay closes the open session with the counted cash amount. The cash
// sales total is captured at close so the variance is fixed at that point.
func (s *Service) CloseDay(ctx context.Context, countedAmount types.Money, notes string) (*CashSession, error) {
	if countedAmount.IsNegative() {
		return nil, apperror.NewValidation("counted amount cannot be negative").
			WithDetail("field", "countedAmount")
	}

	var session *CashSession
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.GetOpen(ctx)
		if err != nil {
			return err
		}

		cashSales, err := s.repo.CashSalesTotal(ctx, open.BusinessDate)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		open.CashSales = cashSales
		open.ClosingAmount = &countedAmount
		open.ClosedAt = &now
		open.Notes = notes

		if err := s.repo.Update(ctx, open); err != nil {
			return err
		}
		session = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash session closed",
		"session_id", session.ID,
		"expected", session.Expected(),
		"counted", countedAmount,
		"variance", session.Variance(),
	)
	return session, nil
}

// Current returns the open session, NotFound if the day has not been opened.
func (s *Service) Current(ctx context.Context) (*CashSession, error) {
	return s.repo.GetOpen(ctx)
}

// History returns sessions in the date range.
func (s *Service) History(ctx context.Context, from, to time.Time) ([]*CashSession, error) {
	return s.repo.List(ctx, from, to)
}
