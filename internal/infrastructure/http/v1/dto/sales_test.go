package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/id"
)

func saleRequest() CreateSaleRequest {
	return CreateSaleRequest{
		SaleNumber: "150126-003",
		SaleType:   "parcel",
		Items: []SaleItemRequest{
			{ProductID: id.New().String(), Quantity: 2, UnitPrice: "180.00"},
		},
	}
}

func TestCreateSaleRequest_ToEntity(t *testing.T) {
	req := saleRequest()
	req.TaxAmount = "20.00"
	req.DiscountAmount = "10.00"

	sale, err := req.ToEntity()
	require.NoError(t, err)

	assert.Equal(t, "150126-003", sale.SaleNumber)
	require.Len(t, sale.Items, 1)
	// 2 x 180 + 20 tax - 10 discount.
	assert.Equal(t, "370", sale.TotalAmount.String())
}

func TestCreateSaleRequest_DefaultsSaleDate(t *testing.T) {
	sale, err := saleRequest().ToEntity()
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().UTC(), sale.SaleDate, 5*time.Second)
}

func TestCreateSaleRequest_KeepsSuppliedSaleDate(t *testing.T) {
	backDated := time.Date(2026, 1, 14, 21, 30, 0, 0, time.UTC)
	req := saleRequest()
	req.SaleDate = &backDated

	sale, err := req.ToEntity()
	require.NoError(t, err)
	assert.Equal(t, backDated, sale.SaleDate)
}

func TestCreateSaleRequest_RejectsBadMoney(t *testing.T) {
	req := saleRequest()
	req.Items[0].UnitPrice = "one eighty"

	_, err := req.ToEntity()
	assert.Error(t, err)
}

func TestCreateSaleRequest_RejectsBadProductID(t *testing.T) {
	req := saleRequest()
	req.Items[0].ProductID = "not-a-uuid"

	_, err := req.ToEntity()
	assert.Error(t, err)
}
