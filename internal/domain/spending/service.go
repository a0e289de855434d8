package spending

import (
	"context"
	"time"

	"barkeep/internal/core/id"
	"barkeep/pkg/logger"
)

// Repository defines storage operations for the spendings book.
type Repository interface {
	Create(ctx context.Context, s *Spending) error
	Delete(ctx context.Context, spendingID id.ID) error
	GetByID(ctx context.Context, spendingID id.ID) (*Spending, error)

	// List returns spendings in the date range, most recent first.
	List(ctx context.Context, from, to time.Time, limit int) ([]*Spending, error)
}

// Service provides business operations for spendings.
type Service struct {
	repo Repository
}

// NewService creates a new spendings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record validates and stores a spending.
func (s *Service) Record(ctx context.Context, sp *Spending) error {
	sp.Normalize()
	if err := sp.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return err
	}

	logger.Info(ctx, "spending recorded",
		"id", sp.ID,
		"category", sp.Category,
		"amount", sp.Amount,
	)
	return nil
}

// Delete removes a recorded spending.
func (s *Service) Delete(ctx context.Context, spendingID id.ID) error {
	return s.repo.Delete(ctx, spendingID)
}

// List returns spendings in the date range.
func (s *Service) List(ctx context.Context, from, to time.Time, limit int) ([]*Spending, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.repo.List(ctx, from, to, limit)
}
