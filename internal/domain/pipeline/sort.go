package pipeline

import (
	"sort"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

// ApplySorting orders item ids by the configured key. A no-op when sorting is
// disabled or fewer than two snapshots exist.
func ApplySorting(
	itemIDs []id.ID,
	snapshots []*delivery.Snapshot,
	cfg SortConfig,
	names map[id.ID]string,
	mode comparison.Mode,
) []id.ID {
	if cfg.By == SortNone || cfg.By == "" || len(snapshots) < 2 {
		return itemIDs
	}

	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	ordered := make([]id.ID, len(itemIDs))
	copy(ordered, itemIDs)

	sign := 1
	if cfg.Direction == DirectionDesc {
		sign = -1
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return compare(ordered[i], ordered[j], cfg.By, first, last, names, snapshots, mode)*sign < 0
	})

	return ordered
}

func compare(
	a, b id.ID,
	key SortKey,
	first, last *delivery.Snapshot,
	names map[id.ID]string,
	snapshots []*delivery.Snapshot,
	mode comparison.Mode,
) int {
	switch key {
	case SortName:
		return comparison.CompareNames(
			lookupName(a, names, snapshots),
			lookupName(b, names, snapshots),
		)
	case SortChangeAmount:
		return compareFloat(changeAmount(a, first, last, mode), changeAmount(b, first, last, mode))
	case SortChangePercent:
		return compareFloat(changePercent(a, first, last, mode), changePercent(b, first, last, mode))
	default:
		return 0
	}
}

func changeAmount(itemID id.ID, first, last *delivery.Snapshot, mode comparison.Mode) float64 {
	return comparison.ValueFor(last.FindItem(itemID), mode) -
		comparison.ValueFor(first.FindItem(itemID), mode)
}

func changePercent(itemID id.ID, first, last *delivery.Snapshot, mode comparison.Mode) float64 {
	return comparison.ChangePercent(
		comparison.ValueFor(first.FindItem(itemID), mode),
		comparison.ValueFor(last.FindItem(itemID), mode),
	)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
