// Package insights derives a small ranked set of human-readable observations
// from a snapshot comparison.
package insights

import (
	"fmt"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

// Kind classifies an insight.
type Kind string

const (
	KindNew           Kind = "new"
	KindRemoved       Kind = "removed"
	KindIncrease      Kind = "increase"
	KindDecrease      Kind = "decrease"
	KindProfitWarning Kind = "profit-warning"
)

// MaxInsights caps the returned list.
const MaxInsights = 5

// moverThreshold is the absolute percent change past which a biggest-mover
// insight is emitted.
const moverThreshold = 20.0

// Insight is one generated observation. Generated fresh per request, never
// stored.
type Insight struct {
	Kind    Kind    `json:"kind"`
	Message string  `json:"message"`
	ItemID  *id.ID  `json:"itemId,omitempty"`
	Value   float64 `json:"value,omitempty"`
}

// Generate scans the boundary pair of the snapshot sequence and returns up to
// MaxInsights observations. The two biggest-mover insights are prepended, so
// they outrank new/removed/warning entries and always survive truncation.
// Fewer than two snapshots yield no insights.
func Generate(snapshots []*delivery.Snapshot, names map[id.ID]string, mode comparison.Mode) []Insight {
	if len(snapshots) < 2 {
		return []Insight{}
	}

	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	var result []Insight

	var biggestUp, biggestDown *Insight

	for _, itemID := range unionIDs(first, last) {
		itemFirst := first.FindItem(itemID)
		itemLast := last.FindItem(itemID)
		name := displayName(itemID, names, itemFirst, itemLast)
		itemID := itemID

		switch {
		case itemFirst == nil && itemLast != nil:
			result = append(result, Insight{
				Kind:    KindNew,
				Message: fmt.Sprintf("%s was added to the delivery", name),
				ItemID:  &itemID,
				Value:   itemLast.Quantity,
			})

		case itemFirst != nil && itemLast == nil:
			result = append(result, Insight{
				Kind:    KindRemoved,
				Message: fmt.Sprintf("%s was removed from the delivery", name),
				ItemID:  &itemID,
				Value:   itemFirst.Quantity,
			})

		default:
			percent := comparison.ChangePercent(
				comparison.ValueFor(itemFirst, mode),
				comparison.ValueFor(itemLast, mode),
			)
			if percent > 0 && (biggestUp == nil || percent > biggestUp.Value) {
				biggestUp = &Insight{
					Kind:    KindIncrease,
					Message: fmt.Sprintf("%s grew by %.1f%%", name, percent),
					ItemID:  &itemID,
					Value:   percent,
				}
			}
			if percent < 0 && (biggestDown == nil || percent < biggestDown.Value) {
				biggestDown = &Insight{
					Kind:    KindDecrease,
					Message: fmt.Sprintf("%s dropped by %.1f%%", name, -percent),
					ItemID:  &itemID,
					Value:   percent,
				}
			}

			if mode == comparison.ModeProfit && itemLast.ProfitNegative() {
				result = append(result, Insight{
					Kind:    KindProfitWarning,
					Message: fmt.Sprintf("%s sells below cost", name),
					ItemID:  &itemID,
				})
			}
		}
	}

	if biggestUp != nil && biggestUp.Value > moverThreshold {
		result = append([]Insight{*biggestUp}, result...)
	}
	if biggestDown != nil && biggestDown.Value < -moverThreshold {
		result = append([]Insight{*biggestDown}, result...)
	}

	if len(result) > MaxInsights {
		result = result[:MaxInsights]
	}
	return result
}

func unionIDs(first, last *delivery.Snapshot) []id.ID {
	seen := make(map[id.ID]struct{})
	union := make([]id.ID, 0, len(first.Items)+len(last.Items))
	for _, snap := range []*delivery.Snapshot{first, last} {
		for _, it := range snap.Items {
			if _, ok := seen[it.ItemID]; ok {
				continue
			}
			seen[it.ItemID] = struct{}{}
			union = append(union, it.ItemID)
		}
	}
	return union
}

func displayName(itemID id.ID, names map[id.ID]string, first, last *delivery.Item) string {
	if name, ok := names[itemID]; ok && name != "" {
		return name
	}
	if last != nil && last.Name != "" {
		return last.Name
	}
	if first != nil && first.Name != "" {
		return first.Name
	}
	return itemID.String()
}
