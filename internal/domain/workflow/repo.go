package workflow

import (
	"context"
)

// Repository defines the read interface for step definitions.
type Repository interface {
	// ListSteps retrieves the fixed step catalog for a shop, ordered by step order.
	ListSteps(ctx context.Context, companyID, shopID string) ([]*StepDefinition, error)
}
