package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/authctx"
	"stocktrail/internal/core/id"
	"stocktrail/internal/core/tx"
	"stocktrail/internal/domain/audit"
	"stocktrail/internal/domain/catalogs/product"
	"stocktrail/internal/domain/workflow"
	"stocktrail/pkg/logger"
)

// Service provides snapshot reads and the advance transition.
type Service struct {
	repo      Repository
	steps     workflow.Repository
	products  product.Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new delivery service.
func NewService(
	repo Repository,
	steps workflow.Repository,
	products product.Repository,
	txManager tx.Manager,
	auditor audit.Recorder,
) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{
		repo:      repo,
		steps:     steps,
		products:  products,
		txManager: txManager,
		auditor:   auditor,
	}
}

func (s *Service) checkScope(auth *authctx.AuthContext, companyID string) error {
	if auth == nil || !auth.CanAccessCompany(companyID) {
		return apperror.NewForbidden("company is out of scope").
			WithDetail("company_id", companyID)
	}
	return nil
}

// ListSnapshots retrieves the ordered snapshot chain for a delivery.
func (s *Service) ListSnapshots(ctx context.Context, auth *authctx.AuthContext, scope Scope) ([]*Snapshot, error) {
	if err := s.checkScope(auth, scope.CompanyID); err != nil {
		return nil, err
	}

	snapshots, err := s.repo.ListSnapshots(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	SortSnapshots(snapshots)
	return snapshots, nil
}

// GetHydrated retrieves one snapshot with its item set.
func (s *Service) GetHydrated(ctx context.Context, auth *authctx.AuthContext, companyID string, versionID id.ID) (*Snapshot, error) {
	if err := s.checkScope(auth, companyID); err != nil {
		return nil, err
	}

	snapshot, err := s.repo.GetSnapshot(ctx, companyID, versionID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetSnapshotItems(ctx, companyID, versionID)
	if err != nil {
		return nil, fmt.Errorf("get snapshot items: %w", err)
	}
	snapshot.Items = items
	return snapshot, nil
}

// GetComparisonPair hydrates both sides of a comparison. The two item-detail
// reads are independent and issued concurrently; the diff treats the sides
// symmetrically, so arrival order does not matter.
func (s *Service) GetComparisonPair(ctx context.Context, auth *authctx.AuthContext, companyID string, versionA, versionB id.ID) (*Snapshot, *Snapshot, error) {
	if err := s.checkScope(auth, companyID); err != nil {
		return nil, nil, err
	}

	var a, b *Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.GetHydrated(gctx, auth, companyID, versionA)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = s.GetHydrated(gctx, auth, companyID, versionB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// GetHydratedSequence loads the full ordered snapshot chain with item sets.
// Item reads fan out concurrently, bounded so one wide delivery cannot drain
// the pool.
func (s *Service) GetHydratedSequence(ctx context.Context, auth *authctx.AuthContext, scope Scope) ([]*Snapshot, error) {
	snapshots, err := s.ListSnapshots(ctx, auth, scope)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, snapshot := range snapshots {
		snapshot := snapshot
		g.Go(func() error {
			items, err := s.repo.GetSnapshotItems(gctx, scope.CompanyID, snapshot.VersionID)
			if err != nil {
				return fmt.Errorf("get snapshot items: %w", err)
			}
			snapshot.Items = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Advance appends a new snapshot bound to the workflow's next step.
//
// The new item set is the prior current snapshot's active items with each
// update applied as an upsert. Quantity 0 keeps the item out of the rendered
// current set but is retained as an explicit removal marker, so a later diff
// against the prior snapshot still reports the item with quantity 0.
//
// Advance is deliberately not idempotent: each call represents a real-world
// workflow action and appends a distinct snapshot.
func (s *Service) Advance(ctx context.Context, auth *authctx.AuthContext, scope Scope, description string, updates []ItemUpdate) (*Snapshot, error) {
	if err := s.checkScope(auth, scope.CompanyID); err != nil {
		return nil, err
	}
	for _, u := range updates {
		if u.Quantity < 0 {
			return nil, apperror.NewValidation("quantity must not be negative").
				WithDetail("item_id", u.ItemID)
		}
	}

	snapshots, err := s.repo.ListSnapshots(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	current := Latest(snapshots)
	if current == nil {
		return nil, apperror.NewNoActiveVersion(scope.Date)
	}

	stepDefs, err := s.steps.ListSteps(ctx, scope.CompanyID, scope.ShopID)
	if err != nil {
		return nil, fmt.Errorf("list workflow steps: %w", err)
	}
	catalog, err := workflow.NewCatalog(stepDefs)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewMachine(catalog, current.StepID)
	next := machine.Next()
	if next == nil {
		return nil, apperror.NewWorkflowDone(current.StepName)
	}

	priorItems, err := s.repo.GetSnapshotItems(ctx, scope.CompanyID, current.VersionID)
	if err != nil {
		return nil, fmt.Errorf("get current items: %w", err)
	}
	current.Items = priorItems

	items, err := s.buildNextItems(ctx, scope.CompanyID, current, updates)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		VersionID:   id.New(),
		StepID:      next.ID,
		StepName:    next.CustomName,
		Order:       next.Order,
		RecordedAt:  time.Now().UTC(),
		Description: description,
		Items:       items,
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateSnapshot(ctx, scope, snapshot)
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	s.recordAudit(ctx, auth, scope, next.StepKey, snapshot)

	logger.Info(ctx, "delivery advanced",
		"version_id", snapshot.VersionID,
		"step", next.StepKey,
		"items", len(snapshot.Items))

	return snapshot, nil
}

// buildNextItems applies updates to the prior snapshot's active set.
// Update ids are resolved against the master catalog; advance validates ids
// only, names always come from the catalog.
func (s *Service) buildNextItems(ctx context.Context, companyID string, current *Snapshot, updates []ItemUpdate) ([]Item, error) {
	items := make([]Item, 0, len(current.Items)+len(updates))
	index := make(map[id.ID]int)
	for _, it := range current.ActiveItems() {
		index[it.ItemID] = len(items)
		items = append(items, it)
	}

	for _, u := range updates {
		pos, exists := index[u.ItemID]

		if exists {
			if u.Quantity == 0 {
				items[pos].Quantity = 0
				items[pos].Removed = true
				continue
			}
			items[pos].Quantity = u.Quantity
			if u.Unit != "" {
				items[pos].Unit = u.Unit
			}
			continue
		}

		p, err := s.products.GetByID(ctx, companyID, u.ItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewValidation("unknown product id").
					WithDetail("item_id", u.ItemID)
			}
			return nil, fmt.Errorf("resolve product: %w", err)
		}

		unit := u.Unit
		if unit == "" {
			unit = p.Unit
		}
		item := Item{
			ItemID:           p.ID,
			Name:             p.Name,
			Quantity:         u.Quantity,
			Unit:             unit,
			UnitCost:         p.CostFloat(),
			UnitSellingPrice: p.SellingPriceFloat(),
			Removed:          u.Quantity == 0,
		}
		index[item.ItemID] = len(items)
		items = append(items, item)
	}

	return items, nil
}

// recordAudit writes the advance to the audit trail. Best-effort: failures
// are logged, never surfaced to the caller.
func (s *Service) recordAudit(ctx context.Context, auth *authctx.AuthContext, scope Scope, stepKey string, snapshot *Snapshot) {
	payload, err := json.Marshal(snapshot.Items)
	if err != nil {
		logger.Warn(ctx, "audit payload marshal failed", "error", err)
		return
	}

	entry := &audit.Entry{
		ID:         id.New(),
		CompanyID:  scope.CompanyID,
		ShopID:     scope.ShopID,
		VersionID:  snapshot.VersionID,
		StepKey:    stepKey,
		UserID:     auth.UserID,
		OccurredAt: snapshot.RecordedAt,
		Payload:    payload,
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "error", err, "version_id", snapshot.VersionID)
	}
}
