package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/metrics"
	"github.com/Simplici0/candle.works/internal/production"
	"github.com/Simplici0/candle.works/internal/store"
)

type orderRequest struct {
	VesselID string               `json:"vessel_id"`
	Quantity int                  `json:"quantity"`
	DueDate  string               `json:"due_date"`
	Priority production.Priority  `json:"priority"`
	Notes    string               `json:"notes"`
	RecipeID string               `json:"recipe_id"`
	Recipe   []costing.Ingredient `json:"recipe"`
}

type statusRequest struct {
	Status production.Status `json:"status"`
}

// orderResponse pairs an order with the plan recorded when it was placed.
// Current is only set when the plan is recomputed from today's prices.
type orderResponse struct {
	Order   production.Order   `json:"order"`
	Planned costing.BatchPlan  `json:"planned"`
	Current *costing.BatchPlan `json:"current,omitempty"`
}

func (s *server) handleRecipesList(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.ListRecipes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (s *server) handleRecipesCreate(w http.ResponseWriter, r *http.Request) {
	var rec store.Recipe
	if err := decodeJSON(r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.store.CreateRecipe(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	status := production.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		s.writeError(w, r, badRequest("unknown status %q", status))
		return
	}
	orders, err := s.store.ListOrders(r.Context(), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := production.NewOrder(req.VesselID, req.Quantity, req.DueDate, req.Priority, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recipe, err := s.resolveRecipe(r.Context(), req.RecipeID, req.Recipe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.breakdownFor(r.Context(), o.VesselID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	planned, err := costing.Plan(c.Breakdown, o.Quantity, recipe)
	metrics.Observe("batch", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.CreateOrder(r.Context(), o, planned); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("production order created",
		zap.String("order_id", o.ID),
		zap.String("vessel", c.Vessel.Name),
		zap.Int("quantity", o.Quantity),
		zap.Float64("batch_cost", planned.BatchCost),
	)
	writeJSON(w, http.StatusCreated, orderResponse{Order: o, Planned: planned})
}

func (s *server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	planned, err := s.store.GetOrderPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: o, Planned: planned})
}

func (s *server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Status.Valid() {
		s.writeError(w, r, fmt.Errorf("%w: unknown status %q", production.ErrInvalidOrder, req.Status))
		return
	}

	o, err := s.store.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleOrderPlan recomputes the order's plan from current material prices.
// The blend split is taken from the plan recorded at creation.
func (s *server) handleOrderPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	planned, err := s.store.GetOrderPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recipe := make([]costing.Ingredient, 0, len(planned.Blend))
	for _, b := range planned.Blend {
		recipe = append(recipe, costing.Ingredient{Name: b.Name, Percent: b.Percent})
	}

	c, err := s.breakdownFor(r.Context(), o.VesselID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	current, err := costing.Plan(c.Breakdown, o.Quantity, recipe)
	metrics.Observe("batch", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: o, Planned: planned, Current: &current})
}
