package pipeline

import (
	"testing"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

type sortFixture struct {
	apples, pears, zucchini id.ID
	seq                     []*delivery.Snapshot
	names                   map[id.ID]string
	ids                     []id.ID
}

// Apples: 10 -> 4 (-6, -60%). Pears: 10 -> 15 (+5, +50%). Zucchini: 2 -> 1 (-1, -50%).
func newSortFixture() *sortFixture {
	f := &sortFixture{apples: id.New(), pears: id.New(), zucchini: id.New()}
	f.seq = []*delivery.Snapshot{
		snap(
			delivery.Item{ItemID: f.apples, Name: "Apples", Quantity: 10},
			delivery.Item{ItemID: f.pears, Name: "Pears", Quantity: 10},
			delivery.Item{ItemID: f.zucchini, Name: "Zucchini", Quantity: 2},
		),
		snap(
			delivery.Item{ItemID: f.apples, Name: "Apples", Quantity: 4},
			delivery.Item{ItemID: f.pears, Name: "Pears", Quantity: 15},
			delivery.Item{ItemID: f.zucchini, Name: "Zucchini", Quantity: 1},
		),
	}
	f.names = map[id.ID]string{f.apples: "Apples", f.pears: "Pears", f.zucchini: "Zucchini"}
	f.ids = []id.ID{f.zucchini, f.pears, f.apples}
	return f
}

func (f *sortFixture) assertOrder(t *testing.T, got []id.ID, want []id.ID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("want %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: want %s, got %s", i, f.names[want[i]], f.names[got[i]])
		}
	}
}

func TestApplySorting_NoneIsNoOp(t *testing.T) {
	f := newSortFixture()

	got := ApplySorting(f.ids, f.seq, SortConfig{By: SortNone}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, got, f.ids)

	got = ApplySorting(f.ids, f.seq, SortConfig{}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, got, f.ids)
}

func TestApplySorting_SingleSnapshotIsNoOp(t *testing.T) {
	f := newSortFixture()

	got := ApplySorting(f.ids, f.seq[:1], SortConfig{By: SortName}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, got, f.ids)
}

func TestApplySorting_ByName(t *testing.T) {
	f := newSortFixture()

	asc := ApplySorting(f.ids, f.seq, SortConfig{By: SortName, Direction: DirectionAsc}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, asc, []id.ID{f.apples, f.pears, f.zucchini})

	desc := ApplySorting(f.ids, f.seq, SortConfig{By: SortName, Direction: DirectionDesc}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, desc, []id.ID{f.zucchini, f.pears, f.apples})
}

func TestApplySorting_ByChangeAmount(t *testing.T) {
	f := newSortFixture()

	asc := ApplySorting(f.ids, f.seq, SortConfig{By: SortChangeAmount, Direction: DirectionAsc}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, asc, []id.ID{f.apples, f.zucchini, f.pears})
}

func TestApplySorting_ByChangePercent(t *testing.T) {
	f := newSortFixture()

	desc := ApplySorting(f.ids, f.seq, SortConfig{By: SortChangePercent, Direction: DirectionDesc}, f.names, comparison.ModeQuantity)
	f.assertOrder(t, desc, []id.ID{f.pears, f.zucchini, f.apples})
}

func TestApplySorting_DoesNotMutateInput(t *testing.T) {
	f := newSortFixture()
	original := make([]id.ID, len(f.ids))
	copy(original, f.ids)

	ApplySorting(f.ids, f.seq, SortConfig{By: SortName}, f.names, comparison.ModeQuantity)

	for i := range original {
		if f.ids[i] != original[i] {
			t.Fatal("sorting must copy, not reorder the caller's slice")
		}
	}
}
