// Package product provides the master product catalog (read side).
// The catalog owns item identity: advance resolves item ids against it and
// the comparison pipeline uses it for display names.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
)

// Product is one entry of the master catalog.
type Product struct {
	ID   id.ID  `db:"id" json:"id"`
	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`
	Unit string `db:"unit" json:"unit"`

	// Reference prices, kept as decimals at the catalog boundary.
	// Snapshots carry float copies taken at recording time.
	UnitCost         *decimal.Decimal `db:"unit_cost" json:"unitCost,omitempty"`
	UnitSellingPrice *decimal.Decimal `db:"unit_selling_price" json:"unitSellingPrice,omitempty"`
}

// Validate implements basic catalog invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.UnitCost != nil && p.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost must not be negative").
			WithDetail("field", "unitCost")
	}
	if p.UnitSellingPrice != nil && p.UnitSellingPrice.IsNegative() {
		return apperror.NewValidation("selling price must not be negative").
			WithDetail("field", "unitSellingPrice")
	}
	return nil
}

// CostFloat returns the reference cost as a float pointer for snapshot capture.
func (p *Product) CostFloat() *float64 {
	if p.UnitCost == nil {
		return nil
	}
	v, _ := p.UnitCost.Float64()
	return &v
}

// SellingPriceFloat returns the reference selling price as a float pointer.
func (p *Product) SellingPriceFloat() *float64 {
	if p.UnitSellingPrice == nil {
		return nil
	}
	v, _ := p.UnitSellingPrice.Float64()
	return &v
}
