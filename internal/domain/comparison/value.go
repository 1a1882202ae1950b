package comparison

import (
	"stocktrail/internal/domain/delivery"
)

// Mode selects the value basis for deltas, metrics and sorting.
type Mode string

const (
	ModeQuantity Mode = "quantity"
	ModeCost     Mode = "cost"
	ModeRevenue  Mode = "revenue"
	ModeProfit   Mode = "profit"
)

// ParseMode maps a request string to a Mode, defaulting to quantity.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeCost, ModeRevenue, ModeProfit:
		return Mode(s)
	default:
		return ModeQuantity
	}
}

// ValueFor computes an item's value under the given display mode.
// A missing item values to 0, as does a price mode with the price unknown.
func ValueFor(item *delivery.Item, mode Mode) float64 {
	if item == nil {
		return 0
	}
	switch mode {
	case ModeCost:
		if item.UnitCost == nil {
			return 0
		}
		return *item.UnitCost * item.Quantity
	case ModeRevenue:
		if item.UnitSellingPrice == nil {
			return 0
		}
		return *item.UnitSellingPrice * item.Quantity
	case ModeProfit:
		if item.UnitCost == nil || item.UnitSellingPrice == nil {
			return 0
		}
		return (*item.UnitSellingPrice - *item.UnitCost) * item.Quantity
	default:
		return item.Quantity
	}
}

// ChangePercent computes percent change between a first and last value.
// A zero first value yields +100 for growth from nothing and 0 when both are
// zero, so the formula never divides by zero or produces NaN.
func ChangePercent(first, last float64) float64 {
	if first == 0 {
		if last > 0 {
			return 100
		}
		return 0
	}
	return ((last - first) / first) * 100
}
