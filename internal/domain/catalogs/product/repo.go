package product

import (
	"context"

	"stocktrail/internal/core/id"
)

// Repository defines the read interface for the product catalog.
type Repository interface {
	// GetByID retrieves one product. Returns apperror.CodeNotFound when absent.
	GetByID(ctx context.Context, companyID string, productID id.ID) (*Product, error)

	// GetByIDs retrieves products by id, skipping ids that do not resolve.
	GetByIDs(ctx context.Context, companyID string, productIDs []id.ID) ([]*Product, error)

	// List retrieves the catalog for a company, ordered by name.
	List(ctx context.Context, companyID string, limit, offset int) ([]*Product, error)
}
