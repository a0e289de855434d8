// Package cashbox provides counter-balance day sessions: the float put in
// the till at open, the cash counted at close, and the variance between
// the counted amount and what the day's cash sales predict.
package cashbox

import (
	"context"
	"time"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/core/types"
)

// CashSession is one trading day of the counter cash box.
type CashSession struct {
	ID id.ID `db:"id" json:"id"`

	// BusinessDate is the trading day (date precision).
	BusinessDate time.Time `db:"business_date" json:"businessDate"`

	// OpeningAmount is the float put in at open.
	OpeningAmount types.Money `db:"opening_amount" json:"openingAmount"`

	// ClosingAmount is the cash counted at close; nil while open.
	ClosingAmount *types.Money `db:"closing_amount" json:"closingAmount,omitempty"`

	// CashSales is the cash-paid sales total captured at close.
	CashSales types.Money `db:"cash_sales" json:"cashSales"`

	Notes string `db:"notes" json:"notes,omitempty"`

	OpenedAt time.Time  `db:"opened_at" json:"openedAt"`
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`
}

// NewSession opens a session for the given trading day.
func NewSession(businessDate time.Time, openingAmount types.Money) *CashSession {
	return &CashSession{
		ID:            id.New(),
		BusinessDate:  businessDate,
		OpeningAmount: openingAmount,
		CashSales:     types.Zero(),
		OpenedAt:      time.Now().UTC(),
	}
}

// IsClosed reports whether the session has been closed.
func (s *CashSession) IsClosed() bool {
	return s.ClosedAt != nil
}

// Expected returns the cash the till should hold at close.
func (s *CashSession) Expected() types.Money {
	return s.OpeningAmount.Add(s.CashSales)
}

// Variance returns counted minus expected; zero while the session is open.
func (s *CashSession) Variance() types.Money {
	if s.ClosingAmount == nil {
		return types.Zero()
	}
	return s.ClosingAmount.Sub(s.Expected())
}

// Validate implements entity.Validatable.
func (s *CashSession) Validate(ctx context.Context) error {
	if s.BusinessDate.IsZero() {
		return apperror.NewValidation("business date is required").
			WithDetail("field", "businessDate")
	}
	if s.OpeningAmount.IsNegative() {
		return apperror.NewValidation("opening amount cannot be negative").
			WithDetail("field", "openingAmount")
	}
	return nil
}
