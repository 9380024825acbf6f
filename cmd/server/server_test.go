package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/db"
	"github.com/Simplici0/candle.works/internal/migrations"
	"github.com/Simplici0/candle.works/internal/production"
	"github.com/Simplici0/candle.works/internal/report"
	"github.com/Simplici0/candle.works/internal/seed"
	"github.com/Simplici0/candle.works/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database))
	_, err = seed.Run(database, seed.DefaultConfig())
	require.NoError(t, err)

	srv := &server{store: store.New(database), log: zap.NewNop(), overhead: costing.DefaultMonthlyOverhead}
	return srv.routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func seededVessel(t *testing.T, h http.Handler, name string) costing.VesselGeometry {
	t.Helper()

	rec := do(t, h, http.MethodGet, "/api/vessels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, v := range decode[[]costing.VesselGeometry](t, rec) {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("vessel %q not seeded", name)
	return costing.VesselGeometry{}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestVesselCostUsesStoredMaterials(t *testing.T) {
	h := newTestServer(t)
	bowl := seededVessel(t, h, "Concrete Bowl")

	rec := do(t, h, http.MethodGet, "/api/vessels/"+bowl.ID+"/cost", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[costResponse](t, rec)

	want, err := costing.CostBreakdown(bowl, costing.DefaultMaterialConfiguration())
	require.NoError(t, err)
	require.InDelta(t, want.TotalCost, got.Breakdown.TotalCost, 1e-9)
	require.Equal(t, 2, got.Breakdown.WicksNeeded)

	cfg := costing.DefaultMaterialConfiguration()
	cfg.WaxPricePerPound = 17
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/materials", cfg).Code)

	got = decode[costResponse](t, do(t, h, http.MethodGet, "/api/vessels/"+bowl.ID+"/cost", nil))
	require.InDelta(t, want.WaxCost*2, got.Breakdown.WaxCost, 1e-9)

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/vessels/missing/cost", nil).Code)
}

func TestMaterialsRejectsInvalidConfig(t *testing.T) {
	h := newTestServer(t)

	cfg := costing.DefaultMaterialConfiguration()
	cfg.FillPercent = 0
	rec := do(t, h, http.MethodPut, "/api/materials", cfg)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/materials", `{"wax_type":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	got := decode[costing.MaterialConfiguration](t, do(t, h, http.MethodGet, "/api/materials", nil))
	require.Equal(t, costing.DefaultMaterialConfiguration(), got)
}

func TestVesselPricing(t *testing.T) {
	h := newTestServer(t)
	tumbler := seededVessel(t, h, "Ribbed Tumbler")
	b, err := costing.CostBreakdown(tumbler, costing.DefaultMaterialConfiguration())
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/vessels/"+tumbler.ID+"/pricing", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[costing.PricingRecommendation](t, rec)
	require.Equal(t, costing.MarketMidRange, got.MarketPosition)
	require.InDelta(t, b.TotalCost*3.5, got.RetailPrice, 1e-9)
	require.InDelta(t, costing.DefaultMonthlyOverhead, got.MonthlyOverhead, 1e-9)

	rec = do(t, h, http.MethodPost, "/api/vessels/"+tumbler.ID+"/pricing", map[string]any{"market_position": "boutique"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/vessels/"+tumbler.ID+"/pricing", map[string]any{"target_margin_percent": 100})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decode[errorResponse](t, rec).Error, "margin")

	rec = do(t, h, http.MethodPost, "/api/vessels/"+tumbler.ID+"/pricing", map[string]any{"position": "premium"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVesselFeasibility(t *testing.T) {
	h := newTestServer(t)
	bowl := seededVessel(t, h, "Concrete Bowl")

	got := decode[costing.Feasibility](t, do(t, h, http.MethodPost, "/api/vessels/"+bowl.ID+"/feasibility", map[string]any{"quantity": 2}))
	require.True(t, got.CanMake)

	got = decode[costing.Feasibility](t, do(t, h, http.MethodPost, "/api/vessels/"+bowl.ID+"/feasibility", map[string]any{"quantity": 40}))
	require.False(t, got.CanMake)
	require.NotEmpty(t, got.Missing)

	inv := costing.DefaultInventoryLevels()
	inv.Wicks = 1
	got = decode[costing.Feasibility](t, do(t, h, http.MethodPost, "/api/vessels/"+bowl.ID+"/feasibility", map[string]any{"quantity": 1, "inventory": inv}))
	require.False(t, got.CanMake)
	require.Equal(t, []string{"not enough wicks: need 2, have 1"}, got.Missing)

	rec := do(t, h, http.MethodPost, "/api/vessels/"+bowl.ID+"/feasibility", map[string]any{"quantity": 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVesselBatchWithStoredRecipe(t *testing.T) {
	h := newTestServer(t)
	tin := seededVessel(t, h, "Travel Tin")

	rec := do(t, h, http.MethodPost, "/api/recipes", store.Recipe{
		Name:        "Cedar Amber",
		Ingredients: []costing.Ingredient{{Name: "Cedar", Percent: 70}, {Name: "Amber", Percent: 30}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	recipe := decode[store.Recipe](t, rec)

	rec = do(t, h, http.MethodPost, "/api/vessels/"+tin.ID+"/batch", map[string]any{"quantity": 6, "recipe_id": recipe.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[costing.BatchPlan](t, rec)
	require.Equal(t, 6, plan.Quantity)
	require.Len(t, plan.Blend, 2)
	require.InDelta(t, plan.FragranceGrams*0.7, plan.Blend[0].Grams, 1e-9)

	rec = do(t, h, http.MethodPost, "/api/vessels/"+tin.ID+"/batch", map[string]any{"quantity": 6, "recipe_id": "missing"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/vessels/"+tin.ID+"/batch", map[string]any{"quantity": -1})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVesselProfitability(t *testing.T) {
	h := newTestServer(t)
	bowl := seededVessel(t, h, "Concrete Bowl")

	rec := do(t, h, http.MethodPost, "/api/vessels/"+bowl.ID+"/profitability", map[string]any{
		"labor_rate_per_hour":  20,
		"labor_hours_per_unit": 0.5,
		"selling_price":        120,
		"monthly_sales_goal":   30,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[costing.ProfitabilityReport](t, rec)
	require.InDelta(t, 3600, got.MonthlyRevenue, 1e-9)
	require.True(t, got.BreakEven.Reachable)

	rec = do(t, h, http.MethodPost, "/api/vessels/"+bowl.ID+"/profitability", map[string]any{
		"selling_price":      0,
		"monthly_sales_goal": 30,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCatalog(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/catalog?position=premium&margin=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]report.CatalogRow](t, rec)
	require.Len(t, rows, 3)
	require.Equal(t, "Concrete Bowl", rows[0].Vessel.Name)
	require.Equal(t, costing.MarketPremium, rows[0].Pricing.MarketPosition)

	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/catalog?margin=lots", nil).Code)
	require.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodGet, "/api/catalog?overhead=-1", nil).Code)
}

func TestOrdersLifecycle(t *testing.T) {
	h := newTestServer(t)
	bowl := seededVessel(t, h, "Concrete Bowl")

	rec := do(t, h, http.MethodPost, "/api/orders", map[string]any{
		"vessel_id": bowl.ID,
		"quantity":  4,
		"due_date":  "2026-11-20",
		"recipe":    []costing.Ingredient{{Name: "Fig", Percent: 100}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[orderResponse](t, rec)
	require.Equal(t, production.StatusPending, created.Order.Status)
	require.Equal(t, production.PriorityNormal, created.Order.Priority)

	cfg := costing.DefaultMaterialConfiguration()
	cfg.CementPricePerPound = 2
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/materials", cfg).Code)

	rec = do(t, h, http.MethodGet, "/api/orders/"+created.Order.ID+"/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	replanned := decode[orderResponse](t, rec)
	require.InDelta(t, created.Planned.BatchCost, replanned.Planned.BatchCost, 1e-9)
	require.NotNil(t, replanned.Current)
	require.Greater(t, replanned.Current.BatchCost, replanned.Planned.BatchCost)
	require.Equal(t, "Fig", replanned.Current.Blend[0].Name)

	rec = do(t, h, http.MethodPost, "/api/orders/"+created.Order.ID+"/status", statusRequest{Status: production.StatusCompleted})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/orders/"+created.Order.ID+"/status", statusRequest{Status: production.StatusInProgress})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, production.StatusInProgress, decode[production.Order](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/api/orders/"+created.Order.ID+"/status", statusRequest{Status: "shipped"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	orders := decode[[]production.Order](t, do(t, h, http.MethodGet, "/api/orders?status=in_progress", nil))
	require.Len(t, orders, 1)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/orders?status=lost", nil).Code)

	require.Equal(t, http.StatusConflict, do(t, h, http.MethodDelete, "/api/vessels/"+bowl.ID, nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/orders/missing", nil).Code)
}

func TestCreateOrderValidation(t *testing.T) {
	h := newTestServer(t)
	bowl := seededVessel(t, h, "Concrete Bowl")

	rec := do(t, h, http.MethodPost, "/api/orders", map[string]any{"vessel_id": bowl.ID, "quantity": 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/orders", map[string]any{"vessel_id": bowl.ID, "quantity": 2, "due_date": "next week"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/orders", map[string]any{"vessel_id": "missing", "quantity": 2})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVesselsCreateAndDelete(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/vessels", map[string]any{"name": "Pillar Mold", "diameter": 3, "height": 6})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[costing.VesselGeometry](t, rec)
	require.Equal(t, costing.UnitInches, created.Unit)
	require.NotEmpty(t, created.ID)

	rec = do(t, h, http.MethodPost, "/api/vessels", map[string]any{"name": "Flat", "diameter": 3, "height": 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/vessels/"+created.ID, nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/vessels/"+created.ID, nil).Code)
}

func TestVesselsImport(t *testing.T) {
	h := newTestServer(t)

	f := excelize.NewFile()
	rows := [][]any{
		{"Name", "Diameter", "Height", "Unit"},
		{"Wide Planter", 7.5, 3, "in"},
		{"Mini Jar", 5, 6, "cm"},
		{"Broken", "wide", 3, "in"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/vessels/import", buf.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[importResponse](t, rec)
	require.Len(t, got.Imported, 2)
	require.Len(t, got.Rejected, 1)
	require.Equal(t, 4, got.Rejected[0].Row)

	vessels := decode[[]costing.VesselGeometry](t, do(t, h, http.MethodGet, "/api/vessels", nil))
	require.Len(t, vessels, 5)

	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/vessels/import", "name,diameter\n").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	bowl := seededVessel(t, h, "Concrete Bowl")
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/vessels/"+bowl.ID+"/cost", nil).Code)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `vesselcost_calculations_total{operation="cost",result="ok"}`)
}
