// Package export serializes comparison results for download.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/domain/comparison"
)

// Column identifies one exportable field of a DiffItem.
type Column string

const (
	ColName          Column = "name"
	ColQtyA          Column = "qtyA"
	ColQtyB          Column = "qtyB"
	ColDelta         Column = "delta"
	ColCostTotalA    Column = "costTotalA"
	ColCostTotalB    Column = "costTotalB"
	ColRevenueTotalA Column = "revenueTotalA"
	ColRevenueTotalB Column = "revenueTotalB"
	ColNotesA        Column = "notesA"
	ColNotesB        Column = "notesB"
)

// DefaultColumns is the export column set when the caller names none.
var DefaultColumns = []Column{ColName, ColQtyA, ColQtyB, ColDelta}

// CSV renders one row per diff item. The column set is caller-driven; header
// labels embed the two compared step names so a downloaded file is
// self-describing. String fields are always quote-wrapped; price totals are
// formatted with fixed 3 decimals, quantity and delta stay raw.
func CSV(items []comparison.DiffItem, columns []Column, stepNameA, stepNameB string) (string, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	for _, col := range columns {
		if _, ok := headerLabel(col, stepNameA, stepNameB); !ok {
			return "", apperror.NewValidation("unknown export column").
				WithDetail("column", string(col))
		}
	}

	var sb strings.Builder

	header := make([]string, len(columns))
	for i, col := range columns {
		label, _ := headerLabel(col, stepNameA, stepNameB)
		header[i] = quote(label)
	}
	sb.WriteString(strings.Join(header, ","))
	sb.WriteString("\n")

	for _, item := range items {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cell(item, col)
		}
		sb.WriteString(strings.Join(row, ","))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func headerLabel(col Column, stepA, stepB string) (string, bool) {
	switch col {
	case ColName:
		return "Item", true
	case ColQtyA:
		return fmt.Sprintf("Quantity (%s)", stepA), true
	case ColQtyB:
		return fmt.Sprintf("Quantity (%s)", stepB), true
	case ColDelta:
		return "Change", true
	case ColCostTotalA:
		return fmt.Sprintf("Cost (%s)", stepA), true
	case ColCostTotalB:
		return fmt.Sprintf("Cost (%s)", stepB), true
	case ColRevenueTotalA:
		return fmt.Sprintf("Revenue (%s)", stepA), true
	case ColRevenueTotalB:
		return fmt.Sprintf("Revenue (%s)", stepB), true
	case ColNotesA:
		return fmt.Sprintf("Notes (%s)", stepA), true
	case ColNotesB:
		return fmt.Sprintf("Notes (%s)", stepB), true
	default:
		return "", false
	}
}

func cell(item comparison.DiffItem, col Column) string {
	switch col {
	case ColName:
		return quote(item.Name)
	case ColQtyA:
		return rawFloat(item.QtyA)
	case ColQtyB:
		return rawFloat(item.QtyB)
	case ColDelta:
		return strconv.FormatFloat(item.Delta, 'f', -1, 64)
	case ColCostTotalA:
		return money(item.CostTotalA)
	case ColCostTotalB:
		return money(item.CostTotalB)
	case ColRevenueTotalA:
		return money(item.RevenueTotalA)
	case ColRevenueTotalB:
		return money(item.RevenueTotalB)
	case ColNotesA:
		return quote(item.NotesA)
	case ColNotesB:
		return quote(item.NotesB)
	default:
		return ""
	}
}

// rawFloat renders a quantity without forced precision; absent values render
// as the empty field, distinct from 0.
func rawFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// money renders a price total with fixed 3 decimals, empty when unknown.
func money(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).StringFixed(3)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
