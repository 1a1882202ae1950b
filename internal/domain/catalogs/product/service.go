package product

import (
	"context"
	"fmt"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/authctx"
	"stocktrail/internal/core/id"
)

// Service provides read operations over the master catalog.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves one product within the caller's company scope.
func (s *Service) GetByID(ctx context.Context, auth *authctx.AuthContext, companyID string, productID id.ID) (*Product, error) {
	if auth == nil || !auth.CanAccessCompany(companyID) {
		return nil, apperror.NewForbidden("company is out of scope").
			WithDetail("company_id", companyID)
	}
	return s.repo.GetByID(ctx, companyID, productID)
}

// List retrieves catalog entries within the caller's company scope.
func (s *Service) List(ctx context.Context, auth *authctx.AuthContext, companyID string, limit, offset int) ([]*Product, error) {
	if auth == nil || !auth.CanAccessCompany(companyID) {
		return nil, apperror.NewForbidden("company is out of scope").
			WithDetail("company_id", companyID)
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.repo.List(ctx, companyID, limit, offset)
}

// NameLookup builds an id -> display name map for the given products.
// Ids that do not resolve are left out; callers fall back to the item id.
func (s *Service) NameLookup(ctx context.Context, companyID string, productIDs []id.ID) (map[id.ID]string, error) {
	products, err := s.repo.GetByIDs(ctx, companyID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve product names: %w", err)
	}

	names := make(map[id.ID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}
