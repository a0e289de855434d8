// Package product provides the product catalog.
package product

import (
	"context"
	"strings"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/entity"
	"barkeep/internal/core/types"
)

// DefaultUnit is applied when no unit of measure is given.
const DefaultUnit = "pcs"

// Product represents an item sold over the counter.
type Product struct {
	entity.Base

	// SKU is the unique stock keeping unit code.
	SKU string `db:"sku" json:"sku"`

	// Barcode is the scannable code (EAN-13 etc.), optional but unique.
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	Name string `db:"name" json:"name"`

	// Variant distinguishes sizes of the same product (e.g. "330ml").
	Variant *string `db:"variant" json:"variant,omitempty"`

	// Price is the sale price.
	Price types.Money `db:"price" json:"price"`

	// Cost is the purchase cost.
	Cost types.Money `db:"cost" json:"cost"`

	Category    string  `db:"category" json:"category,omitempty"`
	Unit        string  `db:"unit" json:"unit"`
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a product with required fields.
func New(sku, name string) *Product {
	return &Product{
		Base: entity.NewBase(),
		SKU:  sku,
		Name: name,
		Unit: DefaultUnit,
	}
}

// Normalize trims string fields, drops empty optionals and defaults the
// unit. Called before Validate; has no side effects beyond the receiver.
func (p *Product) Normalize() {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Unit = strings.TrimSpace(p.Unit)
	p.Barcode = trimOptional(p.Barcode)
	p.Variant = trimOptional(p.Variant)
	p.Description = trimOptional(p.Description)

	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}
	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}
	return nil
}

// DisplayName returns the name with the variant appended when present.
func (p *Product) DisplayName() string {
	if p.Variant != nil && *p.Variant != "" {
		return p.Name + " " + *p.Variant
	}
	return p.Name
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
