package sales

import (
	"context"
	"time"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/core/tx"
	"barkeep/internal/domain/ledger"
	"barkeep/pkg/logger"
	"barkeep/pkg/numerator"
)

// Processor creates sales and their consequences as one atomic unit and
// promotes pending bills into sales. It is the only writer of sales and
// sale items, and the only caller that transitions a pending bill out of
// existence.
type Processor struct {
	repo      Repository
	stock     *ledger.Service
	numerator *numerator.Service
	archiver  BillArchiver
	txm       tx.Manager
}

// NewProcessor creates a new sale transaction processor.
func NewProcessor(
	repo Repository,
	stock *ledger.Service,
	num *numerator.Service,
	archiver BillArchiver,
	txm tx.Manager,
) *Processor {
	return &Processor{
		repo:      repo,
		stock:     stock,
		numerator: num,
		archiver:  archiver,
		txm:       txm,
	}
}

// CreateSale validates the sale and, in a single transaction, inserts the
// sale header, its line items, and the counter-stock deductions. If any
// step fails the whole transaction rolls back: no sale, item or movement
// row survives a partial failure.
func (p *Processor) CreateSale(ctx context.Context, sale *Sale) (*Sale, error) {
	sale.Normalize()
	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	err := p.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return p.writeSale(ctx, sale)
	})
	if err != nil {
		return nil, transactionError("create sale", err)
	}

	logger.Info(ctx, "sale created",
		"sale_id", sale.ID,
		"sale_number", sale.SaleNumber,
		"items", len(sale.Items),
		"total", sale.TotalAmount,
	)
	return sale, nil
}

// writeSale performs the atomic sale sequence inside the caller's
// transaction: header, items, stock deductions.
func (p *Processor) writeSale(ctx context.Context, sale *Sale) error {
	if err := p.repo.CreateSale(ctx, sale); err != nil {
		return err
	}
	if err := p.repo.CreateSaleItems(ctx, sale.ID, sale.Items); err != nil {
		return err
	}
	for _, item := range sale.Items {
		if err := p.stock.RecordSaleDeduction(ctx, item.ProductID, item.Quantity, sale.ID); err != nil {
			return err
		}
	}
	return nil
}

// SavePendingBill validates and stores a sale draft.
func (p *Processor) SavePendingBill(ctx context.Context, bill *PendingBill) error {
	if err := bill.Validate(ctx); err != nil {
		return err
	}
	if err := p.repo.CreatePendingBill(ctx, bill); err != nil {
		return err
	}

	logger.Info(ctx, "pending bill saved", "bill_id", bill.ID, "items", len(bill.Items))
	return nil
}

// UpdatePendingBill replaces a stored draft.
func (p *Processor) UpdatePendingBill(ctx context.Context, bill *PendingBill) error {
	if err := bill.Validate(ctx); err != nil {
		return err
	}
	bill.UpdatedAt = time.Now().UTC()
	return p.repo.UpdatePendingBill(ctx, bill)
}

// GetPendingBill returns a stored draft.
func (p *Processor) GetPendingBill(ctx context.Context, billID id.ID) (*PendingBill, error) {
	return p.repo.GetPendingBill(ctx, billID)
}

// ListPendingBills returns all stored drafts.
func (p *Processor) ListPendingBills(ctx context.Context) ([]*PendingBill, error) {
	return p.repo.ListPendingBills(ctx)
}

// DeletePendingBill discards a draft without creating a sale.
func (p *Processor) DeletePendingBill(ctx context.Context, billID id.ID) error {
	return p.repo.DeletePendingBill(ctx, billID)
}

// ClearResult reports the outcome of a pending-bill promotion.
type ClearResult struct {
	SaleID     id.ID  `json:"saleId"`
	SaleNumber string `json:"saleNumber"`
	Sale       *Sale  `json:"sale"`
}

// ClearPendingBill promotes a draft into a finalized sale. The sale number
// comes from a daily store-backed sequence (unique by construction, in the
// DDMMYY-NNN business shape). In one transaction: sale + items + stock
// deductions, archive of the draft payload, then deletion of the bill.
// Any failure rolls everything back, the deletion included, so the bill
// stays intact for retry. A number allocated for a failed attempt is
// burned; gaps are acceptable, duplicates are not.
func (p *Processor) ClearPendingBill(ctx context.Context, billID id.ID) (*ClearResult, error) {
	bill, err := p.repo.GetPendingBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	saleNumber, err := p.numerator.GetNextNumber(ctx, numerator.SaleNumberConfig(), time.Now())
	if err != nil {
		return nil, apperror.NewStorage(err)
	}

	sale := bill.ToSale(saleNumber)
	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	err = p.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := p.writeSale(ctx, sale); err != nil {
			return err
		}
		if p.archiver != nil {
			if err := p.archiver.ArchiveClearedBill(ctx, bill, sale.ID, sale.SaleNumber); err != nil {
				return err
			}
		}
		return p.repo.DeletePendingBill(ctx, bill.ID)
	})
	if err != nil {
		return nil, transactionError("clear pending bill", err)
	}

	logger.Info(ctx, "pending bill cleared",
		"bill_id", bill.ID,
		"sale_id", sale.ID,
		"sale_number", sale.SaleNumber,
	)
	return &ClearResult{
		SaleID:     sale.ID,
		SaleNumber: sale.SaleNumber,
		Sale:       sale,
	}, nil
}

// GetSale returns a finalized sale with its items.
func (p *Processor) GetSale(ctx context.Context, saleID id.ID) (*Sale, error) {
	return p.repo.GetSale(ctx, saleID)
}

// ListSales returns finalized sales, most recent first.
func (p *Processor) ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return p.repo.ListSales(ctx, filter)
}

// transactionError passes structured errors through untouched and wraps
// raw storage errors as a rolled-back transaction failure, preserving the
// original cause.
func transactionError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewTransaction(op, err)
}
