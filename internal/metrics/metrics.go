// Package metrics exposes Prometheus counters for engine calls.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Simplici0/candle.works/internal/costing"
)

var Calculations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vesselcost_calculations_total",
		Help: "Engine calculations by operation and outcome",
	},
	[]string{"operation", "result"},
)

// Observe records one call of operation. err decides the result label.
func Observe(operation string, err error) {
	Calculations.WithLabelValues(operation, Result(err)).Inc()
}

// Result maps an engine error to a short label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, costing.ErrInvalidGeometry):
		return "invalid_geometry"
	case errors.Is(err, costing.ErrInvalidMaterialConfig):
		return "invalid_material_config"
	case errors.Is(err, costing.ErrDegenerateMargin):
		return "degenerate_margin"
	case errors.Is(err, costing.ErrBreakEvenUnreachable):
		return "break_even_unreachable"
	case errors.Is(err, costing.ErrZeroPriceDivision):
		return "zero_price_division"
	case errors.Is(err, costing.ErrInvalidMarketPosition):
		return "invalid_market_position"
	case errors.Is(err, costing.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, costing.ErrInvalidInput):
		return "invalid_input"
	}
	return "error"
}
