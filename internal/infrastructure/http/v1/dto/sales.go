package dto

import (
	"time"

	"barkeep/internal/core/id"
	"barkeep/internal/core/types"
	"barkeep/internal/domain/sales"
)

// SaleItemRequest is one line of a sale or a draft.
type SaleItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	UnitPrice string `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest is the payload for a direct sale.
type CreateSaleRequest struct {
	SaleNumber     string            `json:"saleNumber" binding:"required"`
	SaleType       string            `json:"saleType" binding:"required"`
	TableNumber    *int              `json:"tableNumber"`
	CustomerName   *string           `json:"customerName"`
	CustomerPhone  *string           `json:"customerPhone"`
	TaxAmount      string            `json:"taxAmount"`
	DiscountAmount string            `json:"discountAmount"`
	PaymentMethod  string            `json:"paymentMethod"`

	// SaleDate is optional; it defaults to server time for live sales and
	// lets back-entry of a missed ticket keep its real trading date.
	SaleDate *time.Time `json:"saleDate"`

	Items []SaleItemRequest `json:"items" binding:"required"`
}

// ToEntity converts the request into a sale.
func (r CreateSaleRequest) ToEntity() (*sales.Sale, error) {
	sale := sales.NewSale(r.SaleNumber, sales.SaleType(r.SaleType))
	sale.TableNumber = r.TableNumber
	sale.CustomerName = r.CustomerName
	sale.CustomerPhone = r.CustomerPhone
	sale.PaymentMethod = r.PaymentMethod
	if r.SaleDate != nil {
		sale.SaleDate = *r.SaleDate
	}

	var err error
	if sale.TaxAmount, err = optionalMoney(r.TaxAmount); err != nil {
		return nil, err
	}
	if sale.DiscountAmount, err = optionalMoney(r.DiscountAmount); err != nil {
		return nil, err
	}

	for _, item := range r.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return nil, err
		}
		unitPrice, err := types.NewMoneyFromString(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		sale.AddItem(productID, item.Quantity, unitPrice)
	}
	return sale, nil
}

// SaleResponse is the API shape of a finalized sale.
type SaleResponse struct {
	ID             string             `json:"id"`
	SaleNumber     string             `json:"saleNumber"`
	SaleType       string             `json:"saleType"`
	TableNumber    *int               `json:"tableNumber,omitempty"`
	CustomerName   *string            `json:"customerName,omitempty"`
	CustomerPhone  *string            `json:"customerPhone,omitempty"`
	TotalAmount    string             `json:"totalAmount"`
	TaxAmount      string             `json:"taxAmount"`
	DiscountAmount string             `json:"discountAmount"`
	PaymentMethod  string             `json:"paymentMethod"`
	SaleDate       time.Time          `json:"saleDate"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}

// SaleItemResponse is the API shape of a sale line.
type SaleItemResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	TotalPrice string `json:"totalPrice"`
}

// FromSale converts a sale into its API shape.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:             s.ID.String(),
		SaleNumber:     s.SaleNumber,
		SaleType:       string(s.SaleType),
		TableNumber:    s.TableNumber,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		TotalAmount:    s.TotalAmount.String(),
		TaxAmount:      s.TaxAmount.String(),
		DiscountAmount: s.DiscountAmount.String(),
		PaymentMethod:  s.PaymentMethod,
		SaleDate:       s.SaleDate,
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:         item.ID.String(),
			ProductID:  item.ProductID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.String(),
			TotalPrice: item.TotalPrice.String(),
		})
	}
	return resp
}

// FromSales converts sales into API shapes.
func FromSales(list []*sales.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromSale(s))
	}
	return out
}

// PendingBillRequest is the payload for creating or replacing a draft.
type PendingBillRequest struct {
	SaleType       string            `json:"saleType" binding:"required"`
	TableNumber    *int              `json:"tableNumber"`
	CustomerName   *string           `json:"customerName"`
	CustomerPhone  *string           `json:"customerPhone"`
	TaxAmount      string            `json:"taxAmount"`
	DiscountAmount string            `json:"discountAmount"`
	PaymentMethod  string            `json:"paymentMethod"`
	Items          []SaleItemRequest `json:"items" binding:"required"`
}

// ToEntity converts the request into a pending bill.
func (r PendingBillRequest) ToEntity() (*sales.PendingBill, error) {
	bill := sales.NewPendingBill(sales.SaleType(r.SaleType))
	bill.TableNumber = r.TableNumber
	bill.CustomerName = r.CustomerName
	bill.CustomerPhone = r.CustomerPhone
	bill.PaymentMethod = r.PaymentMethod

	var err error
	if bill.TaxAmount, err = optionalMoney(r.TaxAmount); err != nil {
		return nil, err
	}
	if bill.DiscountAmount, err = optionalMoney(r.DiscountAmount); err != nil {
		return nil, err
	}

	total := types.Zero()
	for _, item := range r.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return nil, err
		}
		unitPrice, err := types.NewMoneyFromString(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		linePrice := unitPrice.Mul(types.MoneyFromInt(item.Quantity))
		bill.Items = append(bill.Items, sales.PendingItem{
			ProductID:  productID,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: linePrice,
		})
		total = total.Add(linePrice)
	}
	bill.TotalAmount = total.Add(bill.TaxAmount).Sub(bill.DiscountAmount)
	return bill, nil
}

// PendingBillResponse is the API shape of a draft bill.
type PendingBillResponse struct {
	ID             string             `json:"id"`
	SaleType       string             `json:"saleType"`
	TableNumber    *int               `json:"tableNumber,omitempty"`
	CustomerName   *string            `json:"customerName,omitempty"`
	CustomerPhone  *string            `json:"customerPhone,omitempty"`
	TotalAmount    string             `json:"totalAmount"`
	TaxAmount      string             `json:"taxAmount"`
	DiscountAmount string             `json:"discountAmount"`
	PaymentMethod  string             `json:"paymentMethod,omitempty"`
	Items          []PendingItemShape `json:"items"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// PendingItemShape is the API shape of a draft line.
type PendingItemShape struct {
	ProductID  string `json:"productId"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	TotalPrice string `json:"totalPrice"`
}

// FromPendingBill converts a draft into its API shape.
func FromPendingBill(b *sales.PendingBill) PendingBillResponse {
	resp := PendingBillResponse{
		ID:             b.ID.String(),
		SaleType:       string(b.SaleType),
		TableNumber:    b.TableNumber,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		TotalAmount:    b.TotalAmount.String(),
		TaxAmount:      b.TaxAmount.String(),
		DiscountAmount: b.DiscountAmount.String(),
		PaymentMethod:  b.PaymentMethod,
		Items:          make([]PendingItemShape, 0, len(b.Items)),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	for _, item := range b.Items {
		resp.Items = append(resp.Items, PendingItemShape{
			ProductID:  item.ProductID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.String(),
			TotalPrice: item.TotalPrice.String(),
		})
	}
	return resp
}

// FromPendingBills converts drafts into API shapes.
func FromPendingBills(bills []*sales.PendingBill) []PendingBillResponse {
	out := make([]PendingBillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, FromPendingBill(b))
	}
	return out
}

// ClearResultResponse reports the outcome of a pending-bill promotion.
type ClearResultResponse struct {
	SaleID     string       `json:"saleId"`
	SaleNumber string       `json:"saleNumber"`
	Sale       SaleResponse `json:"sale"`
}

// FromClearResult converts a promotion result into its API shape.
func FromClearResult(r *sales.ClearResult) ClearResultResponse {
	return ClearResultResponse{
		SaleID:     r.SaleID.String(),
		SaleNumber: r.SaleNumber,
		Sale:       FromSale(r.Sale),
	}
}

func optionalMoney(s string) (types.Money, error) {
	if s == "" {
		return types.Zero(), nil
	}
	return types.NewMoneyFromString(s)
}
