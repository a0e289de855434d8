// Package spending provides the spendings book: day-to-day outgoing cash
// (supplies, repairs, wages) recorded against the counter.
package spending

import (
	"context"
	"strings"
	"time"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/core/types"
)

// Spending is a single recorded expense.
type Spending struct {
	ID id.ID `db:"id" json:"id"`

	Category    string      `db:"category" json:"category"`
	Description string      `db:"description" json:"description,omitempty"`
	Amount      types.Money `db:"amount" json:"amount"`

	SpendDate time.Time `db:"spend_date" json:"spendDate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a spending with a generated ID.
func New(category string, amount types.Money, spendDate time.Time) *Spending {
	return &Spending{
		ID:        id.New(),
		Category:  category,
		Amount:    amount,
		SpendDate: spendDate,
		CreatedAt: time.Now().UTC(),
	}
}

// Normalize trims string fields.
func (s *Spending) Normalize() {
	s.Category = strings.TrimSpace(s.Category)
	s.Description = strings.TrimSpace(s.Description)
}

// Validate implements entity.Validatable.
func (s *Spending) Validate(ctx context.Context) error {
	if s.Category == "" {
		return apperror.NewValidation("category is required").
			WithDetail("field", "category")
	}
	if !s.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	if s.SpendDate.IsZero() {
		return apperror.NewValidation("spend date is required").
			WithDetail("field", "spendDate")
	}
	return nil
}
