package pipeline

import (
	"testing"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

func TestCompileExpression_EmptyDisabled(t *testing.T) {
	pred, err := compileExpression("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != nil {
		t.Error("empty expression must compile to no predicate")
	}
}

func TestCompileExpression_Invalid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"syntax error", "delta >"},
		{"unknown variable", "quantity > 0"},
		{"non-boolean result", "delta + 1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileExpression(tt.expr)
			if !apperror.IsCode(err, apperror.CodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}

func TestExpressionPredicate_Eval(t *testing.T) {
	grown := &delivery.Item{Name: "Milk", Unit: "l", Quantity: 12}
	prior := &delivery.Item{Name: "Milk", Unit: "l", Quantity: 10}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"delta comparison", "delta > 1.0", true},
		{"delta comparison false", "delta > 5.0", false},
		{"percent", "percent >= 20.0", true},
		{"name match", `name.startsWith("Mil")`, true},
		{"unit match", `unit == "l"`, true},
		{"boundary values", "first == 10.0 && last == 12.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := compileExpression(tt.expr)
			if err != nil {
				t.Fatalf("compile failed: %v", err)
			}
			got, err := pred.eval("Milk", prior, grown, comparison.ModeQuantity)
			if err != nil {
				t.Fatalf("eval failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s: want %v, got %v", tt.expr, tt.want, got)
			}
		})
	}
}

func TestApplyFilters_Expression(t *testing.T) {
	milk := id.New()
	bread := id.New()
	seq := []*delivery.Snapshot{
		snap(
			delivery.Item{ItemID: milk, Name: "Milk", Quantity: 10},
			delivery.Item{ItemID: bread, Name: "Bread", Quantity: 5},
		),
		snap(
			delivery.Item{ItemID: milk, Name: "Milk", Quantity: 12},
			delivery.Item{ItemID: bread, Name: "Bread", Quantity: 3},
		),
	}
	names := map[id.ID]string{milk: "Milk", bread: "Bread"}

	got, err := ApplyFilters([]id.ID{milk, bread}, seq, FilterConfig{
		Expression: "delta > 0.0",
	}, names, comparison.ModeQuantity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != milk {
		t.Errorf("want only the grown item, got %v", got)
	}
}

func TestExpressionPredicate_MissingItemValuesToZero(t *testing.T) {
	pred, err := compileExpression("first == 0.0 && last > 0.0")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	appeared := &delivery.Item{Name: "Eggs", Quantity: 30}
	got, err := pred.eval("Eggs", nil, appeared, comparison.ModeQuantity)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !got {
		t.Error("an item absent from the first snapshot evaluates with first == 0")
	}
}
