package dto

import (
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/insights"
	"stocktrail/internal/domain/metrics"
)

// CompareRequest holds the query parameters of a comparison read.
// VersionA/VersionB default to the first and last snapshots of the chain.
type CompareRequest struct {
	CompanyID string `form:"companyId" binding:"required"`
	ShopID    string `form:"shopId" binding:"required"`
	Date      string `form:"date" binding:"required"`

	VersionA string `form:"versionA"`
	VersionB string `form:"versionB"`
	Mode     string `form:"mode"`

	Search             string   `form:"search"`
	ProductIDs         []string `form:"productId"`
	OnlyChanged        bool     `form:"onlyChanged"`
	MinChangePercent   float64  `form:"minChangePercent"`
	ProfitNegativeOnly bool     `form:"profitNegativeOnly"`
	Expression         string   `form:"expr"`

	SortBy  string `form:"sortBy"`
	SortDir string `form:"sortDir"`
}

// ComparisonResponse is the full diff view between two snapshots: the per-item
// rows after filtering and sorting, per-unit aggregates, and generated
// insights. The domain types carry their own JSON shape.
type ComparisonResponse struct {
	VersionA string `json:"versionA"`
	VersionB string `json:"versionB"`
	StepA    string `json:"stepA"`
	StepB    string `json:"stepB"`
	Mode     string `json:"mode"`

	Items    []comparison.DiffItem           `json:"items"`
	Metrics  map[string]*metrics.UnitMetrics `json:"metrics"`
	Insights []insights.Insight              `json:"insights"`

	// TotalItems is the row count before filtering.
	TotalItems int `json:"totalItems"`
}
