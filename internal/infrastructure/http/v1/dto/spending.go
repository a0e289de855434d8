package dto

import (
	"time"

	"barkeep/internal/core/types"
	"barkeep/internal/domain/spending"
)

// CreateSpendingRequest is the payload for recording an expense.
type CreateSpendingRequest struct {
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description"`
	Amount      string    `json:"amount" binding:"required"`
	SpendDate   time.Time `json:"spendDate"`
}

// ToEntity converts the request into a spending.
func (r CreateSpendingRequest) ToEntity() (*spending.Spending, error) {
	amount, err := types.NewMoneyFromString(r.Amount)
	if err != nil {
		return nil, err
	}

	spendDate := r.SpendDate
	if spendDate.IsZero() {
		spendDate = time.Now().UTC()
	}

	s := spending.New(r.Category, amount, spendDate)
	s.Description = r.Description
	return s, nil
}

// SpendingResponse is the API shape of a spending.
type SpendingResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      string    `json:"amount"`
	SpendDate   time.Time `json:"spendDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromSpending converts a spending into its API shape.
func FromSpending(s *spending.Spending) SpendingResponse {
	return SpendingResponse{
		ID:          s.ID.String(),
		Category:    s.Category,
		Description: s.Description,
		Amount:      s.Amount.String(),
		SpendDate:   s.SpendDate,
		CreatedAt:   s.CreatedAt,
	}
}

// FromSpendings converts spendings into API shapes.
func FromSpendings(list []*spending.Spending) []SpendingResponse {
	out := make([]SpendingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromSpending(s))
	}
	return out
}
