package workflow

import (
	"context"
	"fmt"

	"stocktrail/internal/core/authctx"
	"stocktrail/internal/core/apperror"
)

// Service provides read operations over the step catalog.
type Service struct {
	repo Repository
}

// NewService creates a new workflow service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCatalog loads the step catalog for a shop, scoped by the caller's company.
func (s *Service) GetCatalog(ctx context.Context, auth *authctx.AuthContext, companyID, shopID string) (*Catalog, error) {
	if auth == nil || !auth.CanAccessCompany(companyID) {
		return nil, apperror.NewForbidden("company is out of scope").
			WithDetail("company_id", companyID)
	}

	steps, err := s.repo.ListSteps(ctx, companyID, shopID)
	if err != nil {
		return nil, fmt.Errorf("list workflow steps: %w", err)
	}

	return NewCatalog(steps)
}
