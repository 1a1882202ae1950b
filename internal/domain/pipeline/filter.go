package pipeline

import (
	"math"
	"strings"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

// ApplyFilters evaluates every configured predicate against each item id and
// keeps the ids that pass all of them. With fewer than two snapshots there is
// nothing to compare, so the unfiltered set is returned as-is.
func ApplyFilters(
	itemIDs []id.ID,
	snapshots []*delivery.Snapshot,
	cfg FilterConfig,
	names map[id.ID]string,
	mode comparison.Mode,
) ([]id.ID, error) {
	if len(snapshots) < 2 {
		return itemIDs, nil
	}
	if cfg.MinChangePercent < 0 {
		return nil, apperror.NewInvalidFilterThreshold(cfg.MinChangePercent)
	}

	pred, err := compileExpression(cfg.Expression)
	if err != nil {
		return nil, err
	}

	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	selected := make(map[id.ID]struct{}, len(cfg.SelectedProductIDs))
	for _, pid := range cfg.SelectedProductIDs {
		selected[pid] = struct{}{}
	}

	query := strings.ToLower(strings.TrimSpace(cfg.SearchQuery))

	filtered := make([]id.ID, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		name := lookupName(itemID, names, snapshots)

		if query != "" && !strings.Contains(strings.ToLower(name), query) {
			continue
		}

		if len(selected) > 0 {
			if _, ok := selected[itemID]; !ok {
				continue
			}
		}

		if cfg.ShowOnlyChanged && !quantityChanged(itemID, snapshots) {
			continue
		}

		itemFirst := first.FindItem(itemID)
		itemLast := last.FindItem(itemID)

		if cfg.MinChangePercent > 0 {
			percent := comparison.ChangePercent(
				comparison.ValueFor(itemFirst, mode),
				comparison.ValueFor(itemLast, mode),
			)
			if math.Abs(percent) < cfg.MinChangePercent {
				continue
			}
		}

		if cfg.ShowProfitNegativeOnly && !itemLast.ProfitNegative() {
			continue
		}

		if pred != nil {
			ok, err := pred.eval(name, itemFirst, itemLast, mode)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}

		filtered = append(filtered, itemID)
	}

	return filtered, nil
}

// quantityChanged reports whether an item's quantity takes at least two
// distinct values across the whole snapshot sequence. An item recorded with
// only one quantity value is unchanged even if it appears or disappears.
func quantityChanged(itemID id.ID, snapshots []*delivery.Snapshot) bool {
	var firstSeen float64
	seen := false
	for _, s := range snapshots {
		item := s.FindItem(itemID)
		if item == nil {
			continue
		}
		if !seen {
			firstSeen = item.Quantity
			seen = true
			continue
		}
		if item.Quantity != firstSeen {
			return true
		}
	}
	return false
}

// lookupName resolves a display name via the catalog lookup, falling back to
// the name recorded in the latest snapshot that carries the item.
func lookupName(itemID id.ID, names map[id.ID]string, snapshots []*delivery.Snapshot) string {
	if name, ok := names[itemID]; ok && name != "" {
		return name
	}
	for i := len(snapshots) - 1; i >= 0; i-- {
		if item := snapshots[i].FindItem(itemID); item != nil && item.Name != "" {
			return item.Name
		}
	}
	return itemID.String()
}
