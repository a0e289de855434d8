package reports

import (
	"context"
	"time"

	"barkeep/internal/core/apperror"
)

// Repository defines the read-only aggregation queries.
type Repository interface {
	TopSellers(ctx context.Context, r Range, limit int) ([]TopSeller, error)
	SalesSummary(ctx context.Context, r Range) (SalesSummary, error)
	SpendingSummary(ctx context.Context, r Range) (SpendingSummary, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
}

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TopSellers returns the best-selling products by quantity for the range.
func (s *Service) TopSellers(ctx context.Context, r Range, limit int) ([]TopSeller, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.repo.TopSellers(ctx, r, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []TopSeller{}
	}
	return rows, nil
}

// SalesSummary returns aggregated sales for the range.
func (s *Service) SalesSummary(ctx context.Context, r Range) (SalesSummary, error) {
	if err := validateRange(r); err != nil {
		return SalesSummary{}, err
	}
	return s.repo.SalesSummary(ctx, r)
}

// SpendingSummary returns aggregated spendings for the range.
func (s *Service) SpendingSummary(ctx context.Context, r Range) (SpendingSummary, error) {
	if err := validateRange(r); err != nil {
		return SpendingSummary{}, err
	}
	return s.repo.SpendingSummary(ctx, r)
}

// LowStock returns products at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []LowStockItem{}
	}
	return rows, nil
}

// DailySummary returns the combined sales/spendings picture for one
// trading day.
func (s *Service) DailySummary(ctx context.Context, date time.Time) (DailySummary, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	r := Range{From: day, To: day.AddDate(0, 0, 1)}

	sales, err := s.repo.SalesSummary(ctx, r)
	if err != nil {
		return DailySummary{}, err
	}
	spendings, err := s.repo.SpendingSummary(ctx, r)
	if err != nil {
		return DailySummary{}, err
	}

	return DailySummary{
		Date:      day,
		Sales:     sales,
		Spendings: spendings,
		Net:       sales.TotalAmount.Sub(spendings.TotalAmount),
	}, nil
}

func validateRange(r Range) error {
	if r.From.IsZero() || r.To.IsZero() {
		return apperror.NewValidation("from and to dates are required")
	}
	if r.From.After(r.To) {
		return apperror.NewValidation("from date must be before to date").
			WithDetail("from", r.From).
			WithDetail("to", r.To)
	}
	return nil
}
