package product

import (
	"context"

	"barkeep/internal/core/id"
)

// Repository defines storage operations for the product catalog.
type Repository interface {
	// Create inserts a new product. A duplicate SKU or barcode surfaces
	// as a DUPLICATE_ENTRY error.
	Create(ctx context.Context, p *Product) error

	// Update modifies an existing product with optimistic locking.
	Update(ctx context.Context, p *Product) error

	// Delete physically removes a product. Fails with a conflict while
	// the product is referenced by sales; the inventory record cascades.
	Delete(ctx context.Context, productID id.ID) error

	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)

	// List returns products matching the filter, ordered by name.
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
}

// ListFilter narrows product listings.
type ListFilter struct {
	Category *string
	Search   string // matches name or SKU, case-insensitive
	Limit    int
	Offset   int
}
