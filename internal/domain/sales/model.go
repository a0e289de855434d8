// Package sales provides the sale transaction processor: finalized sales,
// their line items, and draft pending bills.
package sales

import (
	"context"
	"strings"
	"time"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/core/types"
)

// SaleType distinguishes table service from takeaway.
type SaleType string

const (
	SaleTypeTable  SaleType = "table"
	SaleTypeParcel SaleType = "parcel"
)

// Valid reports whether the sale type is known.
func (t SaleType) Valid() bool {
	return t == SaleTypeTable || t == SaleTypeParcel
}

// Sale is a completed transaction. Created exactly once and immutable
// thereafter; there is no update or delete path.
type Sale struct {
	ID id.ID `db:"id" json:"id"`

	// SaleNumber is the unique business-facing number.
	SaleNumber string `db:"sale_number" json:"saleNumber"`

	SaleType    SaleType `db:"sale_type" json:"saleType"`
	TableNumber *int     `db:"table_number" json:"tableNumber,omitempty"`

	CustomerName  *string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone *string `db:"customer_phone" json:"customerPhone,omitempty"`

	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`

	PaymentMethod string    `db:"payment_method" json:"paymentMethod"`
	SaleDate      time.Time `db:"sale_date" json:"saleDate"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`

	Items []SaleItem `db:"-" json:"items"`
}

// SaleItem is a line of a sale, created with its parent in the same
// transaction and never independently mutated.
type SaleItem struct {
	ID        id.ID `db:"id" json:"id"`
	SaleID    id.ID `db:"sale_id" json:"saleId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity   int64       `db:"quantity" json:"quantity"`
	UnitPrice  types.Money `db:"unit_price" json:"unitPrice"`
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`
}

// NewSale creates a sale with a generated ID and timestamp.
func NewSale(saleNumber string, saleType SaleType) *Sale {
	return &Sale{
		ID:             id.New(),
		SaleNumber:     saleNumber,
		SaleType:       saleType,
		TotalAmount:    types.Zero(),
		TaxAmount:      types.Zero(),
		DiscountAmount: types.Zero(),
		SaleDate:       time.Now().UTC(),
		CreatedAt:      time.Now().UTC(),
		Items:          make([]SaleItem, 0),
	}
}

// AddItem appends a line and recalculates the total.
func (s *Sale) AddItem(productID id.ID, quantity int64, unitPrice types.Money) {
	item := SaleItem{
		ID:         id.New(),
		SaleID:     s.ID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(types.MoneyFromInt(quantity)),
	}
	s.Items = append(s.Items, item)
	s.recalculateTotal()
}

func (s *Sale) recalculateTotal() {
	total := types.Zero()
	for _, item := range s.Items {
		total = total.Add(item.TotalPrice)
	}
	s.TotalAmount = total.Add(s.TaxAmount).Sub(s.DiscountAmount)
}

// Normalize trims string fields and drops empty optionals.
func (s *Sale) Normalize() {
	s.SaleNumber = strings.TrimSpace(s.SaleNumber)
	s.PaymentMethod = strings.TrimSpace(s.PaymentMethod)
	s.CustomerName = trimOptional(s.CustomerName)
	s.CustomerPhone = trimOptional(s.CustomerPhone)
	if s.SaleType == "" {
		s.SaleType = SaleTypeParcel
	}
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if s.SaleNumber == "" {
		return apperror.NewValidation("sale number is required").
			WithDetail("field", "saleNumber")
	}
	if !s.SaleType.Valid() {
		return apperror.NewValidation("unknown sale type").
			WithDetail("field", "saleType").
			WithDetail("value", string(s.SaleType))
	}
	if s.SaleType == SaleTypeTable && (s.TableNumber == nil || *s.TableNumber <= 0) {
		return apperror.NewValidation("table number is required for table sales").
			WithDetail("field", "tableNumber")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	if s.TotalAmount.IsNegative() {
		return apperror.NewValidation("total amount cannot be negative").
			WithDetail("field", "totalAmount")
	}
	if s.SaleDate.IsZero() {
		return apperror.NewValidation("sale date is required").
			WithDetail("field", "saleDate")
	}

	for i, item := range s.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() || item.TotalPrice.IsNegative() {
			return apperror.NewValidation("prices cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		expected := item.UnitPrice.Mul(types.MoneyFromInt(item.Quantity))
		if !item.TotalPrice.Equal(expected) {
			return apperror.NewValidation("line total must equal quantity times unit price").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("expected", expected.String())
		}
	}

	return nil
}

// PendingBill is a sale draft held until it is cleared (promoted into a
// sale) or deleted. Its item list is stored serialized with the bill.
type PendingBill struct {
	ID id.ID `db:"id" json:"id"`

	SaleType    SaleType `db:"sale_type" json:"saleType"`
	TableNumber *int     `db:"table_number" json:"tableNumber,omitempty"`

	CustomerName  *string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone *string `db:"customer_phone" json:"customerPhone,omitempty"`

	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`

	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`

	// Items is the serialized draft line list (JSONB column).
	Items PendingItems `db:"items" json:"items"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// PendingItem is a draft line inside a pending bill.
type PendingItem struct {
	ProductID  id.ID       `json:"productId"`
	Quantity   int64       `json:"quantity"`
	UnitPrice  types.Money `json:"unitPrice"`
	TotalPrice types.Money `json:"totalPrice"`
}

// PendingItems is the serialized item list of a pending bill.
type PendingItems []PendingItem

// NewPendingBill creates a draft with a generated ID and timestamps.
func NewPendingBill(saleType SaleType) *PendingBill {
	now := time.Now().UTC()
	return &PendingBill{
		ID:             id.New(),
		SaleType:       saleType,
		TotalAmount:    types.Zero(),
		TaxAmount:      types.Zero(),
		DiscountAmount: types.Zero(),
		Items:          make(PendingItems, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks the draft invariants.
func (b *PendingBill) Validate(ctx context.Context) error {
	if !b.SaleType.Valid() {
		return apperror.NewValidation("unknown sale type").
			WithDetail("field", "saleType")
	}
	if len(b.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	if b.TotalAmount.IsNegative() {
		return apperror.NewValidation("total amount cannot be negative").
			WithDetail("field", "totalAmount")
	}
	for i, item := range b.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() || item.TotalPrice.IsNegative() {
			return apperror.NewValidation("prices cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// ToSale builds the immutable sale a cleared bill promotes into.
func (b *PendingBill) ToSale(saleNumber string) *Sale {
	sale := NewSale(saleNumber, b.SaleType)
	sale.TableNumber = b.TableNumber
	sale.CustomerName = b.CustomerName
	sale.CustomerPhone = b.CustomerPhone
	sale.TaxAmount = b.TaxAmount
	sale.DiscountAmount = b.DiscountAmount
	sale.PaymentMethod = b.PaymentMethod

	for _, item := range b.Items {
		sale.AddItem(item.ProductID, item.Quantity, item.UnitPrice)
	}
	return sale
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
