package dto

import (
	"time"

	"barkeep/internal/domain/reports"
)

// RangeQuery bounds report queries to a date range.
type RangeQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ToRange converts the query into a half-open range, defaulting to the
// last 30 days when unset.
func (q RangeQuery) ToRange() reports.Range {
	from, to := q.From, q.To
	if to.IsZero() {
		to = time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return reports.Range{From: from, To: to}
}

// TopSellerResponse is one row of the top sellers report.
type TopSellerResponse struct {
	ProductID    string `json:"productId"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	QuantitySold int64  `json:"quantitySold"`
	Revenue      string `json:"revenue"`
}

// FromTopSellers converts report rows into API shapes.
func FromTopSellers(rows []reports.TopSeller) []TopSellerResponse {
	out := make([]TopSellerResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopSellerResponse{
			ProductID:    row.ProductID.String(),
			SKU:          row.SKU,
			Name:         row.Name,
			QuantitySold: row.QuantitySold,
			Revenue:      row.Revenue.String(),
		})
	}
	return out
}

// SalesSummaryResponse is the API shape of a sales summary.
type SalesSummaryResponse struct {
	Count          int64  `json:"count"`
	TotalAmount    string `json:"totalAmount"`
	TaxAmount      string `json:"taxAmount"`
	DiscountAmount string `json:"discountAmount"`
}

// FromSalesSummary converts the aggregate into its API shape.
func FromSalesSummary(s reports.SalesSummary) SalesSummaryResponse {
	return SalesSummaryResponse{
		Count:          s.Count,
		TotalAmount:    s.TotalAmount.String(),
		TaxAmount:      s.TaxAmount.String(),
		DiscountAmount: s.DiscountAmount.String(),
	}
}

// SpendingSummaryResponse is the API shape of a spending summary.
type SpendingSummaryResponse struct {
	Count       int64  `json:"count"`
	TotalAmount string `json:"totalAmount"`
}

// FromSpendingSummary converts the aggregate into its API shape.
func FromSpendingSummary(s reports.SpendingSummary) SpendingSummaryResponse {
	return SpendingSummaryResponse{
		Count:       s.Count,
		TotalAmount: s.TotalAmount.String(),
	}
}

// LowStockResponse is one row of the low stock report.
type LowStockResponse struct {
	ProductID     string `json:"productId"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	GodownStock   int64  `json:"godownStock"`
	CounterStock  int64  `json:"counterStock"`
	MinStockLevel int64  `json:"minStockLevel"`
}

// FromLowStock converts report rows into API shapes.
func FromLowStock(items []reports.LowStockItem) []LowStockResponse {
	out := make([]LowStockResponse, 0, len(items))
	for _, item := range items {
		out = append(out, LowStockResponse{
			ProductID:     item.ProductID.String(),
			SKU:           item.SKU,
			Name:          item.Name,
			GodownStock:   item.GodownStock,
			CounterStock:  item.CounterStock,
			MinStockLevel: item.MinStockLevel,
		})
	}
	return out
}

// DailySummaryResponse combines the day's sales and spendings.
type DailySummaryResponse struct {
	Date      time.Time               `json:"date"`
	Sales     SalesSummaryResponse    `json:"sales"`
	Spendings SpendingSummaryResponse `json:"spendings"`
	Net       string                  `json:"net"`
}

// FromDailySummary converts the aggregate into its API shape.
func FromDailySummary(s reports.DailySummary) DailySummaryResponse {
	return DailySummaryResponse{
		Date:      s.Date,
		Sales:     FromSalesSummary(s.Sales),
		Spendings: FromSpendingSummary(s.Spendings),
		Net:       s.Net.String(),
	}
}
