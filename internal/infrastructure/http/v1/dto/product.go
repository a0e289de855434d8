package dto

import (
	"barkeep/internal/core/types"
	"barkeep/internal/domain/product"
)

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	Barcode     *string `json:"barcode"`
	Name        string  `json:"name" binding:"required"`
	Variant     *string `json:"variant"`
	Price       string  `json:"price" binding:"required"`
	Cost        string  `json:"cost"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Description *string `json:"description"`
}

// ToEntity converts the request into a product.
func (r CreateProductRequest) ToEntity() (*product.Product, error) {
	price, err := types.NewMoneyFromString(r.Price)
	if err != nil {
		return nil, err
	}

	cost := types.Zero()
	if r.Cost != "" {
		cost, err = types.NewMoneyFromString(r.Cost)
		if err != nil {
			return nil, err
		}
	}

	p := product.New(r.SKU, r.Name)
	p.Barcode = r.Barcode
	p.Variant = r.Variant
	p.Price = price
	p.Cost = cost
	p.Category = r.Category
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	p.Description = r.Description
	return p, nil
}

// UpdateProductRequest is the payload for updating a product. Version is
// required for optimistic locking.
type UpdateProductRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	Barcode     *string `json:"barcode"`
	Name        string  `json:"name" binding:"required"`
	Variant     *string `json:"variant"`
	Price       string  `json:"price" binding:"required"`
	Cost        string  `json:"cost"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo updates an existing product in place.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	price, err := types.NewMoneyFromString(r.Price)
	if err != nil {
		return err
	}

	cost := types.Zero()
	if r.Cost != "" {
		cost, err = types.NewMoneyFromString(r.Cost)
		if err != nil {
			return err
		}
	}

	p.SKU = r.SKU
	p.Barcode = r.Barcode
	p.Name = r.Name
	p.Variant = r.Variant
	p.Price = price
	p.Cost = cost
	p.Category = r.Category
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	p.Description = r.Description
	p.SetVersion(r.Version)
	return nil
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Barcode     *string `json:"barcode,omitempty"`
	Name        string  `json:"name"`
	Variant     *string `json:"variant,omitempty"`
	DisplayName string  `json:"displayName"`
	Price       string  `json:"price"`
	Cost        string  `json:"cost"`
	Category    string  `json:"category,omitempty"`
	Unit        string  `json:"unit"`
	Description *string `json:"description,omitempty"`
	Version     int     `json:"version"`
}

// FromProduct converts a product into its API shape.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Variant:     p.Variant,
		DisplayName: p.DisplayName(),
		Price:       p.Price.String(),
		Cost:        p.Cost.String(),
		Category:    p.Category,
		Unit:        p.Unit,
		Description: p.Description,
		Version:     p.Version,
	}
}

// FromProducts converts a product slice into API shapes.
func FromProducts(products []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}
