package product

import (
	"context"

	"barkeep/internal/core/id"
	"barkeep/internal/core/tx"
	"barkeep/internal/domain/ledger"
	"barkeep/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo      Repository
	inventory ledger.Repository
	txm       tx.Manager
}

// NewService creates a new product service.
// The ledger repository is needed to zero-initialize the inventory record
// in the same transaction as the product insert.
func NewService(repo Repository, inventory ledger.Repository, txm tx.Manager) *Service {
	return &Service{
		repo:      repo,
		inventory: inventory,
		txm:       txm,
	}
}

// Create validates and persists a new product together with its
// zero-initialized inventory record.
func (s *Service) Create(ctx context.Context, p *Product) error {
	p.Normalize()
	if err := p.Validate(ctx); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.inventory.CreateInventory(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "sku", p.SKU)
	return nil
}

// Update validates and saves changes to an existing product.
func (s *Service) Update(ctx context.Context, p *Product) error {
	p.Normalize()
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Delete removes a product. The store rejects deletion while sales
// reference the product; the inventory record cascades away with it.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.repo.Delete(ctx, productID)
}

// GetByID returns a product by its identifier.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetBySKU returns a product by SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

// GetByBarcode returns a product by barcode (till scanner lookup).
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}
