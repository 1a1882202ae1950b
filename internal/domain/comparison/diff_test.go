package comparison

import (
	"testing"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/delivery"
)

func fptr(v float64) *float64 { return &v }

func snapshot(desc string, items ...delivery.Item) *delivery.Snapshot {
	return &delivery.Snapshot{
		VersionID:   id.New(),
		Description: desc,
		Items:       items,
	}
}

func TestDiff_UnionAndDeltas(t *testing.T) {
	milk := id.New()
	bread := id.New()
	eggs := id.New()

	// Milk changes, bread is removed at step B, eggs appear at step B.
	a := snapshot("requested",
		delivery.Item{ItemID: milk, Name: "Milk", Quantity: 10},
		delivery.Item{ItemID: bread, Name: "Bread", Quantity: 5},
	)
	b := snapshot("offloaded",
		delivery.Item{ItemID: milk, Name: "Milk", Quantity: 8},
		delivery.Item{ItemID: bread, Name: "Bread", Quantity: 0, Removed: true},
		delivery.Item{ItemID: eggs, Name: "Eggs", Quantity: 30},
	)

	rows := Diff(a, b)
	if len(rows) != 3 {
		t.Fatalf("want union of 3 items, got %d", len(rows))
	}

	byID := make(map[id.ID]DiffItem)
	for _, row := range rows {
		byID[row.ItemID] = row
	}

	milkRow := byID[milk]
	if milkRow.QtyA == nil || *milkRow.QtyA != 10 || milkRow.QtyB == nil || *milkRow.QtyB != 8 {
		t.Errorf("milk quantities: %+v", milkRow)
	}
	if milkRow.Delta != -2 {
		t.Errorf("milk delta: want -2, got %v", milkRow.Delta)
	}

	// Removed-at-B is present with quantity 0, not absent.
	breadRow := byID[bread]
	if breadRow.QtyB == nil || *breadRow.QtyB != 0 {
		t.Errorf("bread must appear in B with quantity 0, got %+v", breadRow.QtyB)
	}
	if breadRow.Delta != -5 {
		t.Errorf("bread delta: want -5, got %v", breadRow.Delta)
	}

	// Absent-at-A stays nil, distinct from zero.
	eggsRow := byID[eggs]
	if eggsRow.QtyA != nil {
		t.Errorf("eggs must be absent from A, got %v", *eggsRow.QtyA)
	}
	if eggsRow.Delta != 30 {
		t.Errorf("eggs delta: want 30, got %v", eggsRow.Delta)
	}

	// Step descriptions travel on every row.
	if milkRow.NotesA != "requested" || milkRow.NotesB != "offloaded" {
		t.Errorf("notes: %+v", milkRow)
	}
}

func TestDiff_DefaultOrder(t *testing.T) {
	apples := id.New()
	pears := id.New()
	zucchini := id.New()

	a := snapshot("",
		delivery.Item{ItemID: apples, Name: "Apples", Quantity: 5},
		delivery.Item{ItemID: pears, Name: "Pears", Quantity: 3},
		delivery.Item{ItemID: zucchini, Name: "Zucchini", Quantity: 1},
	)
	b := snapshot("",
		delivery.Item{ItemID: apples, Name: "Apples", Quantity: 5},
		delivery.Item{ItemID: pears, Name: "Pears", Quantity: 4},
		delivery.Item{ItemID: zucchini, Name: "Zucchini", Quantity: 2},
	)

	rows := Diff(a, b)

	// Changed rows first (Pears, Zucchini by name), unchanged after.
	want := []string{"Pears", "Zucchini", "Apples"}
	for i, name := range want {
		if rows[i].Name != name {
			t.Errorf("position %d: want %s, got %s", i, name, rows[i].Name)
		}
	}
}

func TestDiff_PreservesInputs(t *testing.T) {
	milk := id.New()
	a := snapshot("", delivery.Item{ItemID: milk, Name: "Milk", Quantity: 10})
	b := snapshot("", delivery.Item{ItemID: milk, Name: "Milk", Quantity: 8})

	Diff(a, b)

	if a.Items[0].Quantity != 10 || b.Items[0].Quantity != 8 {
		t.Error("diff must not mutate its inputs")
	}
}

func TestDiff_FinancialTotals(t *testing.T) {
	milk := id.New()
	a := snapshot("", delivery.Item{
		ItemID: milk, Name: "Milk", Quantity: 10,
		UnitCost: fptr(1.5), UnitSellingPrice: fptr(2),
	})
	b := snapshot("", delivery.Item{
		ItemID: milk, Name: "Milk", Quantity: 8,
		UnitCost: fptr(1.5),
	})

	rows := Diff(a, b)
	row := rows[0]

	if row.CostTotalA == nil || *row.CostTotalA != 15 {
		t.Errorf("cost total A: want 15, got %v", row.CostTotalA)
	}
	if row.RevenueTotalA == nil || *row.RevenueTotalA != 20 {
		t.Errorf("revenue total A: want 20, got %v", row.RevenueTotalA)
	}
	// Price unknown at B: the total stays absent.
	if row.RevenueTotalB != nil {
		t.Errorf("revenue total B must be nil, got %v", *row.RevenueTotalB)
	}
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name        string
		first, last float64
		want        float64
	}{
		{"normal decrease", 10, 6, -40},
		{"normal increase", 10, 15, 50},
		{"zero to something", 0, 5, 100},
		{"zero to zero", 0, 0, 0},
		{"zero to negative", 0, -5, 0},
		{"down to zero", 8, 0, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangePercent(tt.first, tt.last); got != tt.want {
				t.Errorf("ChangePercent(%v, %v): want %v, got %v", tt.first, tt.last, tt.want, got)
			}
		})
	}
}

func TestValueFor(t *testing.T) {
	item := &delivery.Item{
		Quantity: 4,
		UnitCost: fptr(2), UnitSellingPrice: fptr(3),
	}
	noPrices := &delivery.Item{Quantity: 4}

	tests := []struct {
		name string
		item *delivery.Item
		mode Mode
		want float64
	}{
		{"quantity", item, ModeQuantity, 4},
		{"cost", item, ModeCost, 8},
		{"revenue", item, ModeRevenue, 12},
		{"profit", item, ModeProfit, 4},
		{"missing item", nil, ModeQuantity, 0},
		{"cost without price", noPrices, ModeCost, 0},
		{"profit without prices", noPrices, ModeProfit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueFor(tt.item, tt.mode); got != tt.want {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"cost", ModeCost},
		{"revenue", ModeRevenue},
		{"profit", ModeProfit},
		{"quantity", ModeQuantity},
		{"", ModeQuantity},
		{"bogus", ModeQuantity},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q): want %s, got %s", tt.in, tt.want, got)
		}
	}
}
