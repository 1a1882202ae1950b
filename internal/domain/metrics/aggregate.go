// Package metrics aggregates snapshot-boundary deltas per unit label.
package metrics

import (
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

// UnitUnknown is the bucket for items whose unit label is missing on both
// boundary snapshots.
const UnitUnknown = "unknown"

// UnitMetrics accumulates deltas for one distinct unit label.
//
// NetChange, TotalAdded and TotalRemoved are computed under the selected
// display mode. The financial deltas are accumulated regardless of mode so a
// caller can show quantity movement while still reporting monetary impact.
type UnitMetrics struct {
	Unit         string  `json:"unit"`
	NetChange    float64 `json:"netChange"`
	TotalAdded   float64 `json:"totalAdded"`
	TotalRemoved float64 `json:"totalRemoved"`

	NetCostChange    float64 `json:"netCostChange"`
	NetRevenueChange float64 `json:"netRevenueChange"`
	NetProfitChange  float64 `json:"netProfitChange"`
}

// AggregateByUnit summarizes per-unit movement between the first and last
// snapshot for the given item ids.
//
// The unit label prefers the later snapshot's value, falls back to the
// earlier one, else "unknown". All arithmetic is plain floating point with no
// rounding; formatting is a presentation concern.
func AggregateByUnit(first, last *delivery.Snapshot, itemIDs []id.ID, mode comparison.Mode) map[string]*UnitMetrics {
	result := make(map[string]*UnitMetrics)

	for _, itemID := range itemIDs {
		itemFirst := first.FindItem(itemID)
		itemLast := last.FindItem(itemID)
		if itemFirst == nil && itemLast == nil {
			continue
		}

		unit := resolveUnit(itemFirst, itemLast)
		bucket, ok := result[unit]
		if !ok {
			bucket = &UnitMetrics{Unit: unit}
			result[unit] = bucket
		}

		delta := comparison.ValueFor(itemLast, mode) - comparison.ValueFor(itemFirst, mode)
		bucket.NetChange += delta
		if delta > 0 {
			bucket.TotalAdded += delta
		} else if delta < 0 {
			bucket.TotalRemoved += -delta
		}

		bucket.NetCostChange += comparison.ValueFor(itemLast, comparison.ModeCost) -
			comparison.ValueFor(itemFirst, comparison.ModeCost)
		bucket.NetRevenueChange += comparison.ValueFor(itemLast, comparison.ModeRevenue) -
			comparison.ValueFor(itemFirst, comparison.ModeRevenue)
		bucket.NetProfitChange += comparison.ValueFor(itemLast, comparison.ModeProfit) -
			comparison.ValueFor(itemFirst, comparison.ModeProfit)
	}

	return result
}

func resolveUnit(first, last *delivery.Item) string {
	if last != nil && last.Unit != "" {
		return last.Unit
	}
	if first != nil && first.Unit != "" {
		return first.Unit
	}
	return UnitUnknown
}
