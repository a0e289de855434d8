package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/types"
)

func TestNormalize(t *testing.T) {
	barcode := " 8901234567890 "
	variant := "   "
	p := New("  KF-650  ", "  Kingfisher Strong  ")
	p.Category = " beer "
	p.Unit = "  "
	p.Barcode = &barcode
	p.Variant = &variant

	p.Normalize()

	assert.Equal(t, "KF-650", p.SKU)
	assert.Equal(t, "Kingfisher Strong", p.Name)
	assert.Equal(t, "beer", p.Category)
	assert.Equal(t, DefaultUnit, p.Unit)
	require.NotNil(t, p.Barcode)
	assert.Equal(t, "8901234567890", *p.Barcode)
	assert.Nil(t, p.Variant)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Product)
		field  string
	}{
		{"missing name", func(p *Product) { p.Name = "" }, "name"},
		{"missing sku", func(p *Product) { p.SKU = "" }, "sku"},
		{"negative price", func(p *Product) { p.Price = types.MustMoney("-1") }, "price"},
		{"negative cost", func(p *Product) { p.Cost = types.MustMoney("-0.01") }, "cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("OM-180", "Old Monk")
			tt.mutate(p)

			err := p.Validate(ctx)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}

	p := New("OM-180", "Old Monk")
	p.Price = types.MustMoney("180.00")
	require.NoError(t, p.Validate(ctx))

	// Zero price is allowed (complimentary items).
	free := New("WATER", "Water")
	require.NoError(t, free.Validate(ctx))
}

func TestDisplayName(t *testing.T) {
	p := New("OM-180", "Old Monk")
	assert.Equal(t, "Old Monk", p.DisplayName())

	variant := "180ml"
	p.Variant = &variant
	assert.Equal(t, "Old Monk 180ml", p.DisplayName())

	empty := ""
	p.Variant = &empty
	assert.Equal(t, "Old Monk", p.DisplayName())
}
