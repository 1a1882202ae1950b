package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/delivery"
)

const (
	snapshotsTable     = "delivery_snapshots"
	snapshotItemsTable = "delivery_snapshot_items"
)

var snapshotColumns = []string{
	"version_id", "step_id", "step_name", "step_order", "recorded_at", "description",
}

var itemColumns = []string{
	"item_id", "name", "quantity", "unit", "unit_cost", "unit_selling_price", "removed",
}

// SnapshotRepo implements delivery.Repository.
type SnapshotRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

var _ delivery.Repository = (*SnapshotRepo)(nil)

// NewSnapshotRepo creates a new snapshot repository.
func NewSnapshotRepo(txManager *TxManager) *SnapshotRepo {
	return &SnapshotRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListSnapshots retrieves snapshot headers for one delivery, ordered by rank.
func (r *SnapshotRepo) ListSnapshots(ctx context.Context, scope delivery.Scope) ([]*delivery.Snapshot, error) {
	q := r.builder.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{
			"company_id":    scope.CompanyID,
			"shop_id":       scope.ShopID,
			"delivery_date": scope.Date,
		}).
		OrderBy("step_order ASC, recorded_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var snapshots []*delivery.Snapshot
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &snapshots, sql, args...); err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}

	return snapshots, nil
}

// GetSnapshot retrieves one snapshot header by version id.
func (r *SnapshotRepo) GetSnapshot(ctx context.Context, companyID string, versionID id.ID) (*delivery.Snapshot, error) {
	q := r.builder.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"company_id": companyID, "version_id": versionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var snapshot delivery.Snapshot
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &snapshot, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewMissingCounterpart(versionID)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return &snapshot, nil
}

// GetSnapshotItems hydrates the item set of one snapshot.
func (r *SnapshotRepo) GetSnapshotItems(ctx context.Context, companyID string, versionID id.ID) ([]delivery.Item, error) {
	q := r.builder.Select(prefixed("i", itemColumns)...).
		From(snapshotItemsTable + " i").
		Join(snapshotsTable + " s ON s.version_id = i.version_id").
		Where(squirrel.Eq{"s.company_id": companyID, "i.version_id": versionID}).
		OrderBy("i.name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []delivery.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select snapshot items: %w", err)
	}

	return items, nil
}

// CreateSnapshot appends a snapshot header with its items.
// Snapshots are immutable: there is no corresponding update or delete.
func (r *SnapshotRepo) CreateSnapshot(ctx context.Context, scope delivery.Scope, snapshot *delivery.Snapshot) error {
	headerQ := r.builder.Insert(snapshotsTable).
		Columns("version_id", "company_id", "shop_id", "delivery_date",
			"step_id", "step_name", "step_order", "recorded_at", "description").
		Values(snapshot.VersionID, scope.CompanyID, scope.ShopID, scope.Date,
			snapshot.StepID, snapshot.StepName, snapshot.Order,
			snapshot.RecordedAt, snapshot.Description)

	sql, args, err := headerQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if len(snapshot.Items) == 0 {
		return nil
	}

	itemsQ := r.builder.Insert(snapshotItemsTable).
		Columns("version_id", "item_id", "name", "quantity", "unit",
			"unit_cost", "unit_selling_price", "removed")
	for _, it := range snapshot.Items {
		itemsQ = itemsQ.Values(snapshot.VersionID, it.ItemID, it.Name, it.Quantity,
			it.Unit, it.UnitCost, it.UnitSellingPrice, it.Removed)
	}

	sql, args, err = itemsQ.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert snapshot items: %w", err)
	}

	return nil
}

// prefixed qualifies column names with a table alias.
func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
