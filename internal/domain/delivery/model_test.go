package delivery

import (
	"testing"

	"stocktrail/internal/core/id"
)

func fptr(v float64) *float64 { return &v }

func TestSnapshotRank(t *testing.T) {
	tests := []struct {
		name  string
		order int
		want  int
	}{
		{"known order", 3, 3},
		{"zero order sorts last", 0, OrderUnknown},
		{"negative order sorts last", -1, OrderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Snapshot{Order: tt.order}
			if got := s.Rank(); got != tt.want {
				t.Errorf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLatest(t *testing.T) {
	if Latest(nil) != nil {
		t.Fatal("expected nil for empty chain")
	}

	first := &Snapshot{VersionID: id.New(), Order: 1}
	second := &Snapshot{VersionID: id.New(), Order: 2}
	unknown := &Snapshot{VersionID: id.New(), Order: 0}

	if got := Latest([]*Snapshot{second, first}); got != second {
		t.Errorf("want highest rank, got order %d", got.Order)
	}

	// Unknown order ranks past any recorded order.
	if got := Latest([]*Snapshot{second, unknown, first}); got != unknown {
		t.Errorf("want unknown-order snapshot, got order %d", got.Order)
	}

	// Ties resolve to the later element, preserving stored order.
	tieA := &Snapshot{VersionID: id.New(), Order: 2}
	tieB := &Snapshot{VersionID: id.New(), Order: 2}
	if got := Latest([]*Snapshot{tieA, tieB}); got != tieB {
		t.Error("tie must resolve to the later stored snapshot")
	}
}

func TestSortSnapshots(t *testing.T) {
	a := &Snapshot{VersionID: id.New(), Order: 2}
	b := &Snapshot{VersionID: id.New(), Order: 0} // unknown, sorts last
	c := &Snapshot{VersionID: id.New(), Order: 1}

	chain := []*Snapshot{a, b, c}
	SortSnapshots(chain)

	want := []*Snapshot{c, a, b}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("position %d: want order %d, got %d", i, want[i].Order, chain[i].Order)
		}
	}
}

func TestActiveItems(t *testing.T) {
	s := &Snapshot{Items: []Item{
		{ItemID: id.New(), Name: "Milk", Quantity: 10},
		{ItemID: id.New(), Name: "Bread", Quantity: 0, Removed: true},
		{ItemID: id.New(), Name: "Eggs", Quantity: 0}, // zero but not removed
	}}

	active := s.ActiveItems()
	if len(active) != 2 {
		t.Fatalf("want 2 active items, got %d", len(active))
	}
	for _, it := range active {
		if it.Removed {
			t.Errorf("removed item %s leaked into active set", it.Name)
		}
	}
}

func TestItemTotals(t *testing.T) {
	known := Item{Quantity: 4, UnitCost: fptr(2.5), UnitSellingPrice: fptr(3)}
	if got := known.CostTotal(); got == nil || *got != 10 {
		t.Errorf("cost total: want 10, got %v", got)
	}
	if got := known.RevenueTotal(); got == nil || *got != 12 {
		t.Errorf("revenue total: want 12, got %v", got)
	}

	unknown := Item{Quantity: 4}
	if unknown.CostTotal() != nil || unknown.RevenueTotal() != nil {
		t.Error("missing prices must yield nil totals, not zero")
	}
}

func TestProfitNegative(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"sells below cost", Item{UnitCost: fptr(5), UnitSellingPrice: fptr(4)}, true},
		{"sells above cost", Item{UnitCost: fptr(5), UnitSellingPrice: fptr(6)}, false},
		{"break even", Item{UnitCost: fptr(5), UnitSellingPrice: fptr(5)}, false},
		{"unknown cost", Item{UnitSellingPrice: fptr(4)}, false},
		{"unknown price", Item{UnitCost: fptr(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.ProfitNegative(); got != tt.want {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}
