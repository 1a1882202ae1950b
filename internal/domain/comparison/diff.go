// Package comparison provides the snapshot diff engine: the per-item
// comparison of two delivery snapshots and the shared value/percent helpers
// used by metrics, filtering and insights.
package comparison

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/delivery"
)

// DiffItem is the derived comparison row for one item id. It is never
// persisted; callers regenerate it per request.
//
// QtyA/QtyB are nil when the item is absent from that snapshot, which is
// distinct from present-with-quantity-0 (removed at that step).
type DiffItem struct {
	ItemID id.ID  `json:"itemId"`
	Name   string `json:"name"`

	QtyA  *float64 `json:"qtyA"`
	QtyB  *float64 `json:"qtyB"`
	Delta float64  `json:"delta"`

	// Step-level descriptions carried from each snapshot: all items of one
	// snapshot share one note.
	NotesA string `json:"notesA,omitempty"`
	NotesB string `json:"notesB,omitempty"`

	// Price-derived totals, absent (not zero) when either operand is unknown.
	CostTotalA    *float64 `json:"costTotalA,omitempty"`
	CostTotalB    *float64 `json:"costTotalB,omitempty"`
	RevenueTotalA *float64 `json:"revenueTotalA,omitempty"`
	RevenueTotalB *float64 `json:"revenueTotalB,omitempty"`
}

// collator provides locale-aware name ordering. Und works for mixed-language
// catalogs; swap for a concrete tag if a deployment pins one locale.
var collator = collate.New(language.Und)

// CompareNames orders two display names with locale-aware collation.
func CompareNames(a, b string) int {
	return collator.CompareString(a, b)
}

// Diff compares two snapshots item by item over the union of their item ids.
//
// The result order is the default presentation order: rows with a non-zero
// delta first, zero-delta rows after, each group ascending by name. Any
// later filter/sort stage operates independently of this ordering.
func Diff(a, b *delivery.Snapshot) []DiffItem {
	union := unionIDs(a, b)

	items := make([]DiffItem, 0, len(union))
	for _, itemID := range union {
		itemA := a.FindItem(itemID)
		itemB := b.FindItem(itemID)

		row := DiffItem{
			ItemID: itemID,
			Name:   displayName(itemA, itemB),
			NotesA: a.Description,
			NotesB: b.Description,
		}

		var qtyA, qtyB float64
		if itemA != nil {
			q := itemA.Quantity
			row.QtyA = &q
			qtyA = q
			row.CostTotalA = itemA.CostTotal()
			row.RevenueTotalA = itemA.RevenueTotal()
		}
		if itemB != nil {
			q := itemB.Quantity
			row.QtyB = &q
			qtyB = q
			row.CostTotalB = itemB.CostTotal()
			row.RevenueTotalB = itemB.RevenueTotal()
		}
		row.Delta = qtyB - qtyA

		items = append(items, row)
	}

	sort.SliceStable(items, func(i, j int) bool {
		iChanged := items[i].Delta != 0
		jChanged := items[j].Delta != 0
		if iChanged != jChanged {
			return iChanged
		}
		return CompareNames(items[i].Name, items[j].Name) < 0
	})

	return items
}

// unionIDs collects the union of item ids across both snapshots, preserving
// first-seen order for a stable pre-sort baseline.
func unionIDs(a, b *delivery.Snapshot) []id.ID {
	seen := make(map[id.ID]struct{})
	union := make([]id.ID, 0, len(a.Items)+len(b.Items))
	for _, snap := range []*delivery.Snapshot{a, b} {
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

func displayName(a, b *delivery.Item) string {
	if b != nil && b.Name != "" {
		return b.Name
	}
	if a != nil {
		return a.Name
	}
	return ""
}
