package sales

import (
	"context"
	"time"

	"barkeep/internal/core/id"
)

// Repository defines storage operations for sales and pending bills.
type Repository interface {
	// Sale operations. Sales are write-once: there is no update or
	// delete path.

	// CreateSale inserts the sale header. A duplicate sale number
	// surfaces as a DUPLICATE_ENTRY error.
	CreateSale(ctx context.Context, sale *Sale) error

	// CreateSaleItems inserts the line items for a sale.
	CreateSaleItems(ctx context.Context, saleID id.ID, items []SaleItem) error

	GetSale(ctx context.Context, saleID id.ID) (*Sale, error)
	GetSaleByNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// ListSales returns sales most recent first.
	ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error)

	// Pending bill operations

	CreatePendingBill(ctx context.Context, bill *PendingBill) error
	UpdatePendingBill(ctx context.Context, bill *PendingBill) error
	GetPendingBill(ctx context.Context, billID id.ID) (*PendingBill, error)
	ListPendingBills(ctx context.Context) ([]*PendingBill, error)
	DeletePendingBill(ctx context.Context, billID id.ID) error
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	SaleType *SaleType
	Limit    int
	Offset   int
}

// BillArchiver keeps a compressed copy of cleared bill drafts for audit.
// Implemented by the storage layer; archiving runs inside the clearing
// transaction.
type BillArchiver interface {
	ArchiveClearedBill(ctx context.Context, bill *PendingBill, saleID id.ID, saleNumber string) error
}
