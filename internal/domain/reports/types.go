// Package reports provides the read-only query facade consumed by the
// reporting collaborators (PDF, email, dashboard). It never mutates state
// and returns empty collections, not errors, when no rows match a filter.
package reports

import (
	"time"

	"barkeep/internal/core/id"
	"barkeep/internal/core/types"
)

// TopSeller is one row of the top-selling-items report.
type TopSeller struct {
	ProductID    id.ID       `db:"product_id" json:"productId"`
	SKU          string      `db:"sku" json:"sku"`
	Name         string      `db:"name" json:"name"`
	QuantitySold int64       `db:"quantity_sold" json:"quantitySold"`
	Revenue      types.Money `db:"revenue" json:"revenue"`
}

// SalesSummary aggregates sales over a date range.
type SalesSummary struct {
	Count          int64       `db:"count" json:"count"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
}

// SpendingSummary aggregates spendings over a date range.
type SpendingSummary struct {
	Count       int64       `db:"count" json:"count"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
}

// LowStockItem is a product whose total stock has fallen to its reorder
// level (godown + counter <= min stock level).
type LowStockItem struct {
	ProductID     id.ID  `db:"product_id" json:"productId"`
	SKU           string `db:"sku" json:"sku"`
	Name          string `db:"name" json:"name"`
	GodownStock   int64  `db:"godown_stock" json:"godownStock"`
	CounterStock  int64  `db:"counter_stock" json:"counterStock"`
	MinStockLevel int64  `db:"min_stock_level" json:"minStockLevel"`
}

// DailySummary combines the day's sales and spendings.
type DailySummary struct {
	Date      time.Time       `json:"date"`
	Sales     SalesSummary    `json:"sales"`
	Spendings SpendingSummary `json:"spendings"`
	Net       types.Money     `json:"net"`
}

// Range is a half-open [From, To) date range.
type Range struct {
	From time.Time
	To   time.Time
}
