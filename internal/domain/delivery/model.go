// Package delivery provides the delivery snapshot model and the advance
// transition. A delivery's product list is recorded as a chain of immutable
// versions, one per workflow step; state never changes in place, a new
// version is appended instead.
package delivery

import (
	"sort"
	"time"

	"stocktrail/internal/core/id"
)

// OrderUnknown is the rank assigned to snapshots whose step order was never
// recorded. It is large enough that unordered data always sorts last.
const OrderUnknown = 1 << 30

// Scope identifies one delivery: a company's shop on a given date.
type Scope struct {
	CompanyID string `json:"companyId"`
	ShopID    string `json:"shopId"`
	Date      string `json:"date"` // YYYY-MM-DD
}

// Item is a single product line within a snapshot.
//
// Quantity 0 together with Removed=true means "removed at this step" and is
// retained in history. An item missing from the snapshot entirely means it
// never existed at this step. The two states are never conflated.
type Item struct {
	ItemID           id.ID    `db:"item_id" json:"itemId"`
	Name             string   `db:"name" json:"name"`
	Quantity         float64  `db:"quantity" json:"quantity"`
	Unit             string   `db:"unit" json:"unit"`
	UnitCost         *float64 `db:"unit_cost" json:"unitCost,omitempty"`
	UnitSellingPrice *float64 `db:"unit_selling_price" json:"unitSellingPrice,omitempty"`
	Removed          bool     `db:"removed" json:"removed"`
}

// CostTotal returns unitCost * quantity, or nil when the cost is unknown.
// Absent prices stay absent so callers can render a dash instead of a
// misleading zero.
func (it *Item) CostTotal() *float64 {
	if it == nil || it.UnitCost == nil {
		return nil
	}
	v := *it.UnitCost * it.Quantity
	return &v
}

// RevenueTotal returns unitSellingPrice * quantity, or nil when unknown.
func (it *Item) RevenueTotal() *float64 {
	if it == nil || it.UnitSellingPrice == nil {
		return nil
	}
	v := *it.UnitSellingPrice * it.Quantity
	return &v
}

// ProfitNegative reports whether the item sells below cost.
// Both prices must be present; unknown prices are not treated as negative.
func (it *Item) ProfitNegative() bool {
	if it == nil || it.UnitCost == nil || it.UnitSellingPrice == nil {
		return false
	}
	return *it.UnitSellingPrice < *it.UnitCost
}

// Snapshot is an immutable record of a delivery's item list at one workflow
// step. Snapshots are only ever appended by the advance transition.
type Snapshot struct {
	VersionID   id.ID     `db:"version_id" json:"versionId"`
	StepID      id.ID     `db:"step_id" json:"stepId"`
	StepName    string    `db:"step_name" json:"stepName"`
	Order       int       `db:"step_order" json:"order"`
	RecordedAt  time.Time `db:"recorded_at" json:"recordedAt"`
	Description string    `db:"description" json:"description,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Rank returns the ordering key, pushing unknown order to the end.
func (s *Snapshot) Rank() int {
	if s.Order <= 0 {
		return OrderUnknown
	}
	return s.Order
}

// FindItem returns the item with the given id, or nil when the item is
// absent from this snapshot.
func (s *Snapshot) FindItem(itemID id.ID) *Item {
	if s == nil {
		return nil
	}
	for i := range s.Items {
		if s.Items[i].ItemID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

// ActiveItems returns the rendered "current" set: items not marked removed.
func (s *Snapshot) ActiveItems() []Item {
	active := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if !it.Removed {
			active = append(active, it)
		}
	}
	return active
}

// ItemUpdate is one entry of an advance request: an upsert against the prior
// snapshot's item set. Quantity 0 is a valid encoding for "remove this item
// going forward".
type ItemUpdate struct {
	ItemID   id.ID   `json:"itemId"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// SortSnapshots orders snapshots by rank, stable so equal ranks keep their
// stored order.
func SortSnapshots(snapshots []*Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Rank() < snapshots[j].Rank()
	})
}

// Latest returns the snapshot with the maximum rank, or nil when the
// delivery has no snapshots yet. A delivery with zero snapshots is a valid
// pre-first-step state, not an error.
func Latest(snapshots []*Snapshot) *Snapshot {
	var latest *Snapshot
	for _, s := range snapshots {
		if latest == nil || s.Rank() >= latest.Rank() {
			latest = s
		}
	}
	return latest
}
