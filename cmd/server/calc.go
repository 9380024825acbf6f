package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/metrics"
	"github.com/Simplici0/candle.works/internal/report"
)

type costResponse struct {
	Vessel    costing.VesselGeometry        `json:"vessel"`
	Materials costing.MaterialConfiguration `json:"materials"`
	Breakdown costing.VesselCostBreakdown   `json:"breakdown"`
}

type pricingRequest struct {
	MarketPosition      costing.MarketPosition `json:"market_position"`
	TargetMarginPercent *float64               `json:"target_margin_percent"`
	MonthlyOverhead     *float64               `json:"monthly_overhead"`
}

type feasibilityRequest struct {
	Quantity  int                      `json:"quantity"`
	Inventory *costing.InventoryLevels `json:"inventory"`
}

type batchRequest struct {
	Quantity int                  `json:"quantity"`
	RecipeID string               `json:"recipe_id"`
	Recipe   []costing.Ingredient `json:"recipe"`
}

type profitabilityRequest struct {
	LaborRatePerHour  float64  `json:"labor_rate_per_hour"`
	LaborHoursPerUnit float64  `json:"labor_hours_per_unit"`
	SellingPrice      float64  `json:"selling_price"`
	MonthlyOverhead   *float64 `json:"monthly_overhead"`
	MonthlySalesGoal  int      `json:"monthly_sales_goal"`
}

// breakdownFor loads a vessel and the current material prices and costs it.
func (s *server) breakdownFor(ctx context.Context, vesselID string) (costResponse, error) {
	v, err := s.store.GetVessel(ctx, vesselID)
	if err != nil {
		return costResponse{}, err
	}
	cfg, err := s.store.GetMaterialConfig(ctx)
	if err != nil {
		return costResponse{}, err
	}
	b, err := costing.CostBreakdown(v, cfg)
	metrics.Observe("cost", err)
	if err != nil {
		return costResponse{}, err
	}
	return costResponse{Vessel: v, Materials: cfg, Breakdown: b}, nil
}

func (s *server) overheadOr(v *float64) float64 {
	if v == nil {
		return s.overhead
	}
	return *v
}

func (s *server) handleVesselCost(w http.ResponseWriter, r *http.Request) {
	resp, err := s.breakdownFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleVesselPricing(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MarketPosition == "" {
		req.MarketPosition = costing.MarketMidRange
	}
	margin := costing.DefaultTargetMarginPercent
	if req.TargetMarginPercent != nil {
		margin = *req.TargetMarginPercent
	}

	c, err := s.breakdownFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := costing.Recommend(c.Breakdown.TotalCost, c.Breakdown.VolumeOz, req.MarketPosition, margin, s.overheadOr(req.MonthlyOverhead))
	metrics.Observe("pricing", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleVesselFeasibility(w http.ResponseWriter, r *http.Request) {
	var req feasibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.breakdownFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var inv costing.InventoryLevels
	if req.Inventory != nil {
		inv = *req.Inventory
	} else if inv, err = s.store.GetInventory(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := costing.CanMake(c.Breakdown, req.Quantity, inv)
	metrics.Observe("feasibility", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *server) handleVesselBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	recipe, err := s.resolveRecipe(r.Context(), req.RecipeID, req.Recipe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.breakdownFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := costing.Plan(c.Breakdown, req.Quantity, recipe)
	metrics.Observe("batch", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *server) handleVesselProfitability(w http.ResponseWriter, r *http.Request) {
	var req profitabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.breakdownFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rep, err := costing.Analyze(c.Breakdown, costing.ProfitabilityInput{
		LaborRatePerHour:  req.LaborRatePerHour,
		LaborHoursPerUnit: req.LaborHoursPerUnit,
		SellingPrice:      req.SellingPrice,
		MonthlyOverhead:   s.overheadOr(req.MonthlyOverhead),
		MonthlySalesGoal:  req.MonthlySalesGoal,
	})
	metrics.Observe("profitability", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleCatalog prices every stored vessel. Query: position, margin, overhead.
func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pos := costing.MarketPosition(q.Get("position"))
	if pos == "" {
		pos = costing.MarketMidRange
	}
	margin, err := parseFloatParam(q.Get("margin"), "margin", costing.DefaultTargetMarginPercent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	overhead, err := parseFloatParam(q.Get("overhead"), "overhead", s.overhead)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	vessels, err := s.store.ListVessels(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg, err := s.store.GetMaterialConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows, err := report.Catalog(r.Context(), vessels, cfg, pos, margin, overhead)
	metrics.Observe("catalog", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// resolveRecipe prefers a stored recipe over an inline one.
func (s *server) resolveRecipe(ctx context.Context, id string, inline []costing.Ingredient) ([]costing.Ingredient, error) {
	if id == "" {
		return inline, nil
	}
	rec, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Ingredients, nil
}
