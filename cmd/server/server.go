package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/importer"
	"github.com/Simplici0/candle.works/internal/production"
	"github.com/Simplici0/candle.works/internal/store"
)

const maxImportBytes = 10 << 20

type server struct {
	store    *store.Store
	log      *zap.Logger
	overhead float64
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/vessels", s.handleVesselsList)
		r.Post("/vessels", s.handleVesselsCreate)
		r.Post("/vessels/import", s.handleVesselsImport)
		r.Get("/vessels/{id}", s.handleVesselGet)
		r.Delete("/vessels/{id}", s.handleVesselDelete)
		r.Get("/vessels/{id}/cost", s.handleVesselCost)
		r.Post("/vessels/{id}/pricing", s.handleVesselPricing)
		r.Post("/vessels/{id}/feasibility", s.handleVesselFeasibility)
		r.Post("/vessels/{id}/batch", s.handleVesselBatch)
		r.Post("/vessels/{id}/profitability", s.handleVesselProfitability)
		r.Get("/catalog", s.handleCatalog)

		r.Get("/materials", s.handleMaterialsGet)
		r.Put("/materials", s.handleMaterialsUpdate)
		r.Get("/inventory", s.handleInventoryGet)
		r.Put("/inventory", s.handleInventoryUpdate)

		r.Get("/recipes", s.handleRecipesList)
		r.Post("/recipes", s.handleRecipesCreate)
		r.Get("/recipes/{id}", s.handleRecipeGet)

		r.Get("/orders", s.handleOrdersList)
		r.Post("/orders", s.handleOrdersCreate)
		r.Get("/orders/{id}", s.handleOrderGet)
		r.Post("/orders/{id}/status", s.handleOrderStatus)
		r.Get("/orders/{id}/plan", s.handleOrderPlan)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		s.writeError(w, r, fmt.Errorf("ping database: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return badRequestError{msg: fmt.Sprintf(format, args...)}
}

func statusFor(err error) int {
	var br badRequestError
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrVesselInUse),
		errors.Is(err, production.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, costing.ErrInvalidGeometry),
		errors.Is(err, costing.ErrInvalidMaterialConfig),
		errors.Is(err, costing.ErrDegenerateMargin),
		errors.Is(err, costing.ErrBreakEvenUnreachable),
		errors.Is(err, costing.ErrZeroPriceDivision),
		errors.Is(err, costing.ErrInvalidMarketPosition),
		errors.Is(err, costing.ErrInvalidQuantity),
		errors.Is(err, costing.ErrInvalidInput),
		errors.Is(err, production.ErrInvalidOrder),
		errors.Is(err, store.ErrInvalidRecipe),
		errors.Is(err, importer.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// parseFloatParam reads an optional numeric query value. Range checks are
// left to the engine so they map to the same errors as JSON input.
func parseFloatParam(raw, field string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest("%s must be a number", field)
	}
	return value, nil
}
