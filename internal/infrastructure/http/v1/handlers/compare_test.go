package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/authctx"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/catalogs/product"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
	"stocktrail/internal/domain/pipeline"
	"stocktrail/internal/domain/workflow"
	"stocktrail/internal/infrastructure/http/v1/dto"
)

// Mock objects

type stubSnapshotRepo struct {
	snapshots []*delivery.Snapshot
	items     map[id.ID][]delivery.Item
}

func (m *stubSnapshotRepo) ListSnapshots(ctx context.Context, scope delivery.Scope) ([]*delivery.Snapshot, error) {
	out := make([]*delivery.Snapshot, len(m.snapshots))
	copy(out, m.snapshots)
	return out, nil
}

func (m *stubSnapshotRepo) GetSnapshot(ctx context.Context, companyID string, versionID id.ID) (*delivery.Snapshot, error) {
	for _, s := range m.snapshots {
		if s.VersionID == versionID {
			return s, nil
		}
	}
	return nil, apperror.NewMissingCounterpart(versionID)
}

func (m *stubSnapshotRepo) GetSnapshotItems(ctx context.Context, companyID string, versionID id.ID) ([]delivery.Item, error) {
	return m.items[versionID], nil
}

func (m *stubSnapshotRepo) CreateSnapshot(ctx context.Context, scope delivery.Scope, snapshot *delivery.Snapshot) error {
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

type stubStepRepo struct{}

func (stubStepRepo) ListSteps(ctx context.Context, companyID, shopID string) ([]*workflow.StepDefinition, error) {
	return nil, nil
}

type stubProductRepo struct {
	products map[id.ID]*product.Product
}

func (m *stubProductRepo) GetByID(ctx context.Context, companyID string, productID id.ID) (*product.Product, error) {
	if p, ok := m.products[productID]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", productID)
}

func (m *stubProductRepo) GetByIDs(ctx context.Context, companyID string, productIDs []id.ID) ([]*product.Product, error) {
	var out []*product.Product
	for _, pid := range productIDs {
		if p, ok := m.products[pid]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *stubProductRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Fixture

type compareFixture struct {
	handler *CompareHandler
	snapA   *delivery.Snapshot
	snapB   *delivery.Snapshot
	milkID  id.ID
	breadID id.ID
}

// newCompareFixture builds a two-snapshot delivery: Milk drops 10 to 8 in
// liters, Bread stays at 4 pieces.
func newCompareFixture() *compareFixture {
	milkID, breadID := id.New(), id.New()
	snapA := &delivery.Snapshot{VersionID: id.New(), StepID: id.New(), StepName: "Request", Order: 1}
	snapB := &delivery.Snapshot{VersionID: id.New(), StepID: id.New(), StepName: "Offloading", Order: 2}

	repo := &stubSnapshotRepo{
		snapshots: []*delivery.Snapshot{snapA, snapB},
		items: map[id.ID][]delivery.Item{
			snapA.VersionID: {
				{ItemID: milkID, Name: "Milk", Quantity: 10, Unit: "l"},
				{ItemID: breadID, Name: "Bread", Quantity: 4, Unit: "pcs"},
			},
			snapB.VersionID: {
				{ItemID: milkID, Name: "Milk", Quantity: 8, Unit: "l"},
				{ItemID: breadID, Name: "Bread", Quantity: 4, Unit: "pcs"},
			},
		},
	}
	productRepo := &stubProductRepo{products: map[id.ID]*product.Product{
		milkID:  {ID: milkID, Name: "Milk", Unit: "l"},
		breadID: {ID: breadID, Name: "Bread", Unit: "pcs"},
	}}

	deliveries := delivery.NewService(repo, stubStepRepo{}, productRepo, stubTxManager{}, nil)
	handler := NewCompareHandler(NewBaseHandler(), deliveries, product.NewService(productRepo))

	return &compareFixture{
		handler: handler,
		snapA:   snapA,
		snapB:   snapB,
		milkID:  milkID,
		breadID: breadID,
	}
}

func baseCompareQuery() url.Values {
	return url.Values{
		"companyId": {"acme"},
		"shopId":    {"shop-1"},
		"date":      {"2026-08-27"},
	}
}

func performCompare(t *testing.T, h *CompareHandler, query url.Values) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/deliveries/compare?"+query.Encode(), nil)
	auth := &authctx.AuthContext{UserID: "user-1", Role: authctx.RoleManager, CompanyID: "acme"}
	c.Request = req.WithContext(authctx.WithAuth(req.Context(), auth))

	h.Compare(c)
	return w, c
}

func decodeComparison(t *testing.T, w *httptest.ResponseRecorder) dto.ComparisonResponse {
	t.Helper()
	var resp dto.ComparisonResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCompare_DefaultPairIsBoundary(t *testing.T) {
	f := newCompareFixture()

	w, c := performCompare(t, f.handler, baseCompareQuery())
	if len(c.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", c.Errors)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("want status 200, got %d", w.Code)
	}

	resp := decodeComparison(t, w)
	if resp.VersionA != f.snapA.VersionID.String() {
		t.Errorf("versionA: want first snapshot %s, got %s", f.snapA.VersionID, resp.VersionA)
	}
	if resp.VersionB != f.snapB.VersionID.String() {
		t.Errorf("versionB: want last snapshot %s, got %s", f.snapB.VersionID, resp.VersionB)
	}
	if resp.TotalItems != 2 {
		t.Errorf("totalItems: want 2, got %d", resp.TotalItems)
	}
	// Changed rows come first in the default presentation order.
	if len(resp.Items) != 2 || resp.Items[0].Name != "Milk" || resp.Items[1].Name != "Bread" {
		t.Errorf("unexpected row order: %+v", resp.Items)
	}
}

func TestCompare_MetricsCoverAllUnits(t *testing.T) {
	f := newCompareFixture()

	// The search filter narrows the rows to Milk only; unit metrics keep
	// summarizing the full item universe of the pair.
	query := baseCompareQuery()
	query.Set("search", "milk")

	w, c := performCompare(t, f.handler, query)
	if len(c.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", c.Errors)
	}

	resp := decodeComparison(t, w)
	if len(resp.Items) != 1 || resp.Items[0].Name != "Milk" {
		t.Fatalf("want only the Milk row, got %+v", resp.Items)
	}
	if resp.TotalItems != 2 {
		t.Errorf("totalItems counts rows before filtering: want 2, got %d", resp.TotalItems)
	}

	liters, ok := resp.Metrics["l"]
	if !ok {
		t.Fatal("expected a liters bucket")
	}
	if liters.NetChange != -2 || liters.TotalRemoved != 2 {
		t.Errorf("liters: want netChange -2 / totalRemoved 2, got %+v", liters)
	}
	pieces, ok := resp.Metrics["pcs"]
	if !ok {
		t.Fatal("expected a pieces bucket for the filtered-out item")
	}
	if pieces.NetChange != 0 {
		t.Errorf("pieces: want netChange 0, got %+v", pieces)
	}
}

func TestResolvePair(t *testing.T) {
	sequence := []*delivery.Snapshot{
		{VersionID: id.New(), Order: 1},
		{VersionID: id.New(), Order: 2},
		{VersionID: id.New(), Order: 3},
	}

	tests := []struct {
		name     string
		req      dto.CompareRequest
		wantA    id.ID
		wantB    id.ID
		wantCode string
	}{
		{
			name:  "defaults to boundary pair",
			req:   dto.CompareRequest{},
			wantA: sequence[0].VersionID,
			wantB: sequence[2].VersionID,
		},
		{
			name:  "explicit versionA overrides",
			req:   dto.CompareRequest{VersionA: sequence[1].VersionID.String()},
			wantA: sequence[1].VersionID,
			wantB: sequence[2].VersionID,
		},
		{
			name:  "explicit pair overrides both",
			req:   dto.CompareRequest{VersionA: sequence[0].VersionID.String(), VersionB: sequence[1].VersionID.String()},
			wantA: sequence[0].VersionID,
			wantB: sequence[1].VersionID,
		},
		{
			name:     "malformed versionA",
			req:      dto.CompareRequest{VersionA: "not-a-uuid"},
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "malformed versionB",
			req:      dto.CompareRequest{VersionB: "not-a-uuid"},
			wantCode: apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, err := resolvePair(tt.req, sequence)
			if tt.wantCode != "" {
				if !apperror.IsCode(err, tt.wantCode) {
					t.Fatalf("want code %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePair failed: %v", err)
			}
			if a != tt.wantA || b != tt.wantB {
				t.Errorf("want pair (%s, %s), got (%s, %s)", tt.wantA, tt.wantB, a, b)
			}
		})
	}
}

func TestSelectRows(t *testing.T) {
	apples, pears := id.New(), id.New()
	diffItems := []comparison.DiffItem{
		{ItemID: pears, Name: "Pears", Delta: 5},
		{ItemID: apples, Name: "Apples", Delta: 0},
	}

	t.Run("default order without explicit sort", func(t *testing.T) {
		// kept arrives in pipeline order; the diff's presentation order wins.
		got := selectRows(diffItems, []id.ID{apples, pears}, "")
		if len(got) != 2 || got[0].Name != "Pears" || got[1].Name != "Apples" {
			t.Errorf("want diff order preserved, got %+v", got)
		}
	})

	t.Run("sorted projection follows kept order", func(t *testing.T) {
		got := selectRows(diffItems, []id.ID{apples, pears}, string(pipeline.SortName))
		if len(got) != 2 || got[0].Name != "Apples" || got[1].Name != "Pears" {
			t.Errorf("want kept order, got %+v", got)
		}
	})

	t.Run("filtered ids are dropped", func(t *testing.T) {
		got := selectRows(diffItems, []id.ID{pears}, "")
		if len(got) != 1 || got[0].Name != "Pears" {
			t.Errorf("want only Pears, got %+v", got)
		}
	})
}
