// Package pipeline narrows and orders the universe of item ids before it
// reaches the diff engine or a matrix view.
package pipeline

import (
	"stocktrail/internal/core/id"
)

// SortKey selects the comparator for ApplySorting.
type SortKey string

const (
	SortNone          SortKey = "none"
	SortName          SortKey = "name"
	SortChangeAmount  SortKey = "change-amount"
	SortChangePercent SortKey = "change-percent"
)

// SortDirection flips the comparator sign.
type SortDirection string

const (
	DirectionAsc  SortDirection = "asc"
	DirectionDesc SortDirection = "desc"
)

// FilterConfig is a pure configuration value: recreated per interaction,
// never partially mutated. All predicates combine with AND semantics.
type FilterConfig struct {
	// SearchQuery matches case-insensitively against item names.
	SearchQuery string

	// SelectedProductIDs, when non-empty, restricts to a member set.
	SelectedProductIDs []id.ID

	// ShowOnlyChanged keeps items whose quantity differs across at least two
	// snapshots of the entire sequence, not just the boundary pair.
	ShowOnlyChanged bool

	// MinChangePercent keeps items whose absolute percent change between the
	// boundary snapshots meets the threshold. Zero disables the filter;
	// negative values are rejected.
	MinChangePercent float64

	// ShowProfitNegativeOnly keeps items selling below cost in the last
	// snapshot. Items with unknown prices are excluded.
	ShowProfitNegativeOnly bool

	// Expression is an optional CEL predicate over
	// {name, unit, first, last, delta, percent}. Empty disables it.
	Expression string
}

// SortConfig is the ordering counterpart of FilterConfig.
type SortConfig struct {
	By        SortKey
	Direction SortDirection
}
