package dto

import (
	"stocktrail/internal/domain/catalogs/product"
)

// ProductResponse represents one catalog product.
type ProductResponse struct {
	ID               string `json:"id"`
	SKU              string `json:"sku"`
	Name             string `json:"name"`
	Unit             string `json:"unit"`
	UnitCost         string `json:"unitCost,omitempty"`
	UnitSellingPrice string `json:"unitSellingPrice,omitempty"`
}

// FromProduct converts a catalog product to its response DTO.
// Decimal prices render as fixed-point strings to avoid float drift.
func FromProduct(p *product.Product) ProductResponse {
	resp := ProductResponse{
		ID:   p.ID.String(),
		SKU:  p.SKU,
		Name: p.Name,
		Unit: p.Unit,
	}
	if p.UnitCost != nil {
		resp.UnitCost = p.UnitCost.StringFixed(2)
	}
	if p.UnitSellingPrice != nil {
		resp.UnitSellingPrice = p.UnitSellingPrice.StringFixed(2)
	}
	return resp
}

// ProductListResponse wraps a product collection.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// FromProducts converts a product slice.
func FromProducts(products []*product.Product) ProductListResponse {
	resp := ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, FromProduct(p))
	}
	return resp
}
