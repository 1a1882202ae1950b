package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/catalogs/product"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
	"stocktrail/internal/domain/export"
	"stocktrail/internal/domain/insights"
	"stocktrail/internal/domain/metrics"
	"stocktrail/internal/domain/pipeline"
	"stocktrail/internal/infrastructure/http/v1/dto"
)

// CompareHandler serves snapshot comparisons: the per-item diff, per-unit
// metrics, insights, and the CSV export of the same view.
type CompareHandler struct {
	*BaseHandler
	deliveries *delivery.Service
	products   *product.Service
}

// NewCompareHandler creates a new comparison handler.
func NewCompareHandler(base *BaseHandler, deliveries *delivery.Service, products *product.Service) *CompareHandler {
	return &CompareHandler{
		BaseHandler: base,
		deliveries:  deliveries,
		products:    products,
	}
}

// comparisonView is the resolved comparison before serialization, shared by
// the JSON and CSV endpoints.
type comparisonView struct {
	a, b     *delivery.Snapshot
	items    []comparison.DiffItem
	metrics  map[string]*metrics.UnitMetrics
	insights []insights.Insight
	mode     comparison.Mode
	total    int
}

// Compare handles GET /deliveries/compare
func (h *CompareHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if !h.BindQuery(c, &req) {
		return
	}

	view, err := h.buildComparison(c, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ComparisonResponse{
		VersionA:   view.a.VersionID.String(),
		VersionB:   view.b.VersionID.String(),
		StepA:      view.a.StepName,
		StepB:      view.b.StepName,
		Mode:       string(view.mode),
		Items:      view.items,
		Metrics:    view.metrics,
		Insights:   view.insights,
		TotalItems: view.total,
	})
}

// ExportCSV handles GET /deliveries/compare/export
// Streams the filtered, sorted comparison as a CSV attachment.
func (h *CompareHandler) ExportCSV(c *gin.Context) {
	var req dto.CompareRequest
	if !h.BindQuery(c, &req) {
		return
	}

	view, err := h.buildComparison(c, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	var columns []export.Column
	if raw := c.Query("columns"); raw != "" {
		for _, col := range strings.Split(raw, ",") {
			columns = append(columns, export.Column(strings.TrimSpace(col)))
		}
	}

	body, err := export.CSV(view.items, columns, view.a.StepName, view.b.StepName)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("delivery-%s-compare.csv", req.Date)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// buildComparison resolves the snapshot pair, runs the filter/sort pipeline
// over the item universe and assembles diff, metrics and insights.
func (h *CompareHandler) buildComparison(c *gin.Context, req dto.CompareRequest) (*comparisonView, error) {
	ctx := c.Request.Context()
	auth := h.Auth(c)
	scope := delivery.Scope{CompanyID: req.CompanyID, ShopID: req.ShopID, Date: req.Date}
	mode := comparison.ParseMode(req.Mode)

	// The changed-only filter inspects every snapshot of the chain, so it
	// needs the whole sequence hydrated. Other predicates only touch the
	// boundary pair.
	var sequence []*delivery.Snapshot
	var err error
	if req.OnlyChanged {
		sequence, err = h.deliveries.GetHydratedSequence(ctx, auth, scope)
	} else {
		sequence, err = h.deliveries.ListSnapshots(ctx, auth, scope)
	}
	if err != nil {
		return nil, err
	}
	if len(sequence) < 2 {
		return nil, apperror.NewValidation("comparison requires at least two snapshots").
			WithDetail("snapshots", len(sequence))
	}

	versionA, versionB, err := resolvePair(req, sequence)
	if err != nil {
		return nil, err
	}

	a, b, err := h.deliveries.GetComparisonPair(ctx, auth, scope.CompanyID, versionA, versionB)
	if err != nil {
		return nil, err
	}

	// Pipeline stages see the pair as the sequence boundary; the full chain
	// replaces it only when the changed-only predicate needs history.
	pipeSeq := []*delivery.Snapshot{a, b}
	if req.OnlyChanged {
		pipeSeq = spliceHydrated(sequence, a, b)
	}

	diffItems := comparison.Diff(a, b)

	union := make([]id.ID, len(diffItems))
	for i, row := range diffItems {
		union[i] = row.ItemID
	}

	names, err := h.products.NameLookup(ctx, scope.CompanyID, union)
	if err != nil {
		return nil, err
	}

	filterCfg, err := filterConfigFrom(req)
	if err != nil {
		return nil, err
	}

	kept, err := pipeline.ApplyFilters(union, pipeSeq, filterCfg, names, mode)
	if err != nil {
		return nil, err
	}
	kept = pipeline.ApplySorting(kept, pipeSeq, pipeline.SortConfig{
		By:        pipeline.SortKey(req.SortBy),
		Direction: sortDirection(req.SortDir),
	}, names, mode)

	// Metrics and insights summarize the whole pair; filters narrow only
	// the visible rows.
	view := &comparisonView{
		a:        a,
		b:        b,
		items:    selectRows(diffItems, kept, req.SortBy),
		metrics:  metrics.AggregateByUnit(a, b, union, mode),
		insights: insights.Generate([]*delivery.Snapshot{a, b}, names, mode),
		mode:     mode,
		total:    len(diffItems),
	}
	return view, nil
}

// resolvePair picks the compared versions: explicit query params when given,
// otherwise the first and last snapshots of the chain.
func resolvePair(req dto.CompareRequest, sequence []*delivery.Snapshot) (id.ID, id.ID, error) {
	versionA := sequence[0].VersionID
	versionB := sequence[len(sequence)-1].VersionID

	if req.VersionA != "" {
		parsed, err := id.Parse(req.VersionA)
		if err != nil {
			return id.Nil(), id.Nil(), apperror.NewValidation("invalid versionA format")
		}
		versionA = parsed
	}
	if req.VersionB != "" {
		parsed, err := id.Parse(req.VersionB)
		if err != nil {
			return id.Nil(), id.Nil(), apperror.NewValidation("invalid versionB format")
		}
		versionB = parsed
	}
	return versionA, versionB, nil
}

// spliceHydrated swaps the freshly hydrated pair into the sequence so both
// reads agree on item sets.
func spliceHydrated(sequence []*delivery.Snapshot, a, b *delivery.Snapshot) []*delivery.Snapshot {
	out := make([]*delivery.Snapshot, len(sequence))
	for i, s := range sequence {
		switch s.VersionID {
		case a.VersionID:
			out[i] = a
		case b.VersionID:
			out[i] = b
		default:
			out[i] = s
		}
	}
	return out
}

func filterConfigFrom(req dto.CompareRequest) (pipeline.FilterConfig, error) {
	cfg := pipeline.FilterConfig{
		SearchQuery:            req.Search,
		ShowOnlyChanged:        req.OnlyChanged,
		MinChangePercent:       req.MinChangePercent,
		ShowProfitNegativeOnly: req.ProfitNegativeOnly,
		Expression:             req.Expression,
	}
	for _, raw := range req.ProductIDs {
		parsed, err := id.Parse(raw)
		if err != nil {
			return cfg, apperror.NewValidation("invalid productId format").
				WithDetail("product_id", raw)
		}
		cfg.SelectedProductIDs = append(cfg.SelectedProductIDs, parsed)
	}
	return cfg, nil
}

func sortDirection(s string) pipeline.SortDirection {
	if pipeline.SortDirection(s) == pipeline.DirectionDesc {
		return pipeline.DirectionDesc
	}
	return pipeline.DirectionAsc
}

// selectRows projects the kept, possibly reordered id list back onto diff
// rows. Without an explicit sort the diff's default presentation order wins.
func selectRows(diffItems []comparison.DiffItem, kept []id.ID, sortBy string) []comparison.DiffItem {
	byID := make(map[id.ID]comparison.DiffItem, len(diffItems))
	for _, row := range diffItems {
		byID[row.ItemID] = row
	}

	sorted := sortBy != "" && pipeline.SortKey(sortBy) != pipeline.SortNone
	if sorted {
		out := make([]comparison.DiffItem, 0, len(kept))
		for _, itemID := range kept {
			if row, ok := byID[itemID]; ok {
				out = append(out, row)
			}
		}
		return out
	}

	keptSet := make(map[id.ID]struct{}, len(kept))
	for _, itemID := range kept {
		keptSet[itemID] = struct{}{}
	}
	out := make([]comparison.DiffItem, 0, len(kept))
	for _, row := range diffItems {
		if _, ok := keptSet[row.ItemID]; ok {
			out = append(out, row)
		}
	}
	return out
}
