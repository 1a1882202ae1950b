package delivery

import (
	"context"

	"stocktrail/internal/core/id"
)

// Repository defines persistence for delivery snapshots.
// Snapshots are append-only: there is no update or delete.
type Repository interface {
	// ListSnapshots retrieves all snapshots for a delivery, ordered by rank.
	// Item sets are not hydrated; use GetSnapshotItems.
	ListSnapshots(ctx context.Context, scope Scope) ([]*Snapshot, error)

	// GetSnapshot retrieves one snapshot header by version id.
	// Returns apperror.CodeMissingCounterpart when the id does not resolve.
	GetSnapshot(ctx context.Context, companyID string, versionID id.ID) (*Snapshot, error)

	// GetSnapshotItems hydrates the item set of one snapshot.
	GetSnapshotItems(ctx context.Context, companyID string, versionID id.ID) ([]Item, error)

	// CreateSnapshot appends a new snapshot with its items.
	CreateSnapshot(ctx context.Context, scope Scope, snapshot *Snapshot) error
}
