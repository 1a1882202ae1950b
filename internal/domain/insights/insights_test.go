package insights

import (
	"strings"
	"testing"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

func fptr(v float64) *float64 { return &v }

func snap(items ...delivery.Item) *delivery.Snapshot {
	return &delivery.Snapshot{VersionID: id.New(), Items: items}
}

func kinds(list []Insight) []Kind {
	out := make([]Kind, len(list))
	for i, ins := range list {
		out[i] = ins.Kind
	}
	return out
}

func TestGenerate_RequiresTwoSnapshots(t *testing.T) {
	if got := Generate(nil, nil, comparison.ModeQuantity); len(got) != 0 {
		t.Errorf("want empty for no snapshots, got %v", got)
	}
	one := []*delivery.Snapshot{snap()}
	if got := Generate(one, nil, comparison.ModeQuantity); len(got) != 0 {
		t.Errorf("want empty for one snapshot, got %v", got)
	}
}

func TestGenerate_NewAndRemoved(t *testing.T) {
	eggs := id.New()
	bread := id.New()

	seq := []*delivery.Snapshot{
		snap(delivery.Item{ItemID: bread, Name: "Bread", Quantity: 5}),
		snap(delivery.Item{ItemID: eggs, Name: "Eggs", Quantity: 30}),
	}
	names := map[id.ID]string{eggs: "Eggs", bread: "Bread"}

	got := Generate(seq, names, comparison.ModeQuantity)
	if len(got) != 2 {
		t.Fatalf("want 2 insights, got %d: %v", len(got), got)
	}

	var sawNew, sawRemoved bool
	for _, ins := range got {
		switch ins.Kind {
		case KindNew:
			sawNew = true
			if !strings.Contains(ins.Message, "Eggs") {
				t.Errorf("new insight names the wrong item: %q", ins.Message)
			}
		case KindRemoved:
			sawRemoved = true
			if !strings.Contains(ins.Message, "Bread") {
				t.Errorf("removed insight names the wrong item: %q", ins.Message)
			}
		}
	}
	if !sawNew || !sawRemoved {
		t.Errorf("want one new and one removed insight, got %v", kinds(got))
	}
}

func TestGenerate_MoversOutrankOthers(t *testing.T) {
	up := id.New()    // +50%
	down := id.New()  // -60%
	fresh := id.New() // new item

	seq := []*delivery.Snapshot{
		snap(
			delivery.Item{ItemID: up, Name: "Pears", Quantity: 10},
			delivery.Item{ItemID: down, Name: "Apples", Quantity: 10},
		),
		snap(
			delivery.Item{ItemID: up, Name: "Pears", Quantity: 15},
			delivery.Item{ItemID: down, Name: "Apples", Quantity: 4},
			delivery.Item{ItemID: fresh, Name: "Eggs", Quantity: 1},
		),
	}

	got := Generate(seq, nil, comparison.ModeQuantity)

	// Biggest drop first, biggest rise second, then the rest.
	if len(got) < 3 {
		t.Fatalf("want 3 insights, got %v", kinds(got))
	}
	if got[0].Kind != KindDecrease {
		t.Errorf("first insight: want %s, got %s", KindDecrease, got[0].Kind)
	}
	if got[1].Kind != KindIncrease {
		t.Errorf("second insight: want %s, got %s", KindIncrease, got[1].Kind)
	}
	if got[2].Kind != KindNew {
		t.Errorf("third insight: want %s, got %s", KindNew, got[2].Kind)
	}
}

func TestGenerate_SmallMoversSuppressed(t *testing.T) {
	mild := id.New() // +10%, below the mover threshold

	seq := []*delivery.Snapshot{
		snap(delivery.Item{ItemID: mild, Name: "Milk", Quantity: 10}),
		snap(delivery.Item{ItemID: mild, Name: "Milk", Quantity: 11}),
	}

	got := Generate(seq, nil, comparison.ModeQuantity)
	if len(got) != 0 {
		t.Errorf("a 10%% move must not produce an insight, got %v", kinds(got))
	}
}

func TestGenerate_Truncation(t *testing.T) {
	var items []delivery.Item
	for i := 0; i < 8; i++ {
		items = append(items, delivery.Item{ItemID: id.New(), Name: "Item", Quantity: 1})
	}

	// All items are new at the last snapshot.
	seq := []*delivery.Snapshot{snap(), snap(items...)}

	got := Generate(seq, nil, comparison.ModeQuantity)
	if len(got) != MaxInsights {
		t.Errorf("want %d insights, got %d", MaxInsights, len(got))
	}
}

func TestGenerate_MoversSurviveTruncation(t *testing.T) {
	mover := id.New()
	var items []delivery.Item
	for i := 0; i < 10; i++ {
		items = append(items, delivery.Item{ItemID: id.New(), Name: "Filler", Quantity: 1})
	}

	seq := []*delivery.Snapshot{
		snap(delivery.Item{ItemID: mover, Name: "Apples", Quantity: 10}),
		snap(append(items, delivery.Item{ItemID: mover, Name: "Apples", Quantity: 2})...),
	}

	got := Generate(seq, nil, comparison.ModeQuantity)
	if len(got) != MaxInsights {
		t.Fatalf("want %d insights, got %d", MaxInsights, len(got))
	}
	if got[0].Kind != KindDecrease || got[0].ItemID == nil || *got[0].ItemID != mover {
		t.Errorf("biggest mover must survive truncation at the front, got %v", kinds(got))
	}
}

func TestGenerate_ProfitWarningOnlyInProfitMode(t *testing.T) {
	losing := id.New()

	seq := []*delivery.Snapshot{
		snap(delivery.Item{ItemID: losing, Name: "Cheap Cheese", Quantity: 2,
			UnitCost: fptr(5), UnitSellingPrice: fptr(4)}),
		snap(delivery.Item{ItemID: losing, Name: "Cheap Cheese", Quantity: 2,
			UnitCost: fptr(5), UnitSellingPrice: fptr(4)}),
	}

	inProfit := Generate(seq, nil, comparison.ModeProfit)
	var warned bool
	for _, ins := range inProfit {
		if ins.Kind == KindProfitWarning {
			warned = true
		}
	}
	if !warned {
		t.Errorf("profit mode must warn about below-cost items, got %v", kinds(inProfit))
	}

	inQuantity := Generate(seq, nil, comparison.ModeQuantity)
	for _, ins := range inQuantity {
		if ins.Kind == KindProfitWarning {
			t.Error("profit warnings must stay out of non-profit modes")
		}
	}
}

func TestGenerate_NameFallsBackToSnapshot(t *testing.T) {
	eggs := id.New()
	seq := []*delivery.Snapshot{
		snap(),
		snap(delivery.Item{ItemID: eggs, Name: "Eggs", Quantity: 30}),
	}

	// No catalog lookup provided: the snapshot's recorded name is used.
	got := Generate(seq, nil, comparison.ModeQuantity)
	if len(got) != 1 || !strings.Contains(got[0].Message, "Eggs") {
		t.Errorf("want snapshot name in message, got %v", got)
	}
}
