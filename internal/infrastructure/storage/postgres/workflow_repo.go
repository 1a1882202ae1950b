package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocktrail/internal/domain/workflow"
)

const workflowStepsTable = "workflow_steps"

// WorkflowRepo implements workflow.Repository.
type WorkflowRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

var _ workflow.Repository = (*WorkflowRepo)(nil)

// NewWorkflowRepo creates a new workflow step repository.
func NewWorkflowRepo(txManager *TxManager) *WorkflowRepo {
	return &WorkflowRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListSteps retrieves the fixed step catalog for a shop.
func (r *WorkflowRepo) ListSteps(ctx context.Context, companyID, shopID string) ([]*workflow.StepDefinition, error) {
	q := r.builder.Select("id", "step_key", "custom_name", "step_order", "metadata").
		From(workflowStepsTable).
		Where(squirrel.Eq{"company_id": companyID, "shop_id": shopID}).
		OrderBy("step_order ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var steps []*workflow.StepDefinition
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &steps, sql, args...); err != nil {
		return nil, fmt.Errorf("select workflow steps: %w", err)
	}

	return steps, nil
}
