package costing

import (
	"fmt"
	"math"
)

// MarketPosition selects a markup table.
type MarketPosition string

const (
	MarketBudget   MarketPosition = "budget"
	MarketMidRange MarketPosition = "mid-range"
	MarketPremium  MarketPosition = "premium"
	MarketLuxury   MarketPosition = "luxury"
)

const (
	// DefaultMonthlyOverhead is the fixed monthly overhead callers use when none is configured.
	DefaultMonthlyOverhead = 500.0
	// DefaultTargetMarginPercent is used when a request leaves the margin unset.
	DefaultTargetMarginPercent = 60.0
	// WholesaleMarkup applies to cost regardless of market position.
	WholesaleMarkup = 1.5
)

// Markup holds the cost multipliers for one market position.
type Markup struct {
	Min    float64 `json:"min"`
	Target float64 `json:"target"`
	Max    float64 `json:"max"`
}

// Min <= Target <= Max must hold for every row.
var markups = map[MarketPosition]Markup{
	MarketBudget:   {Min: 2.0, Target: 2.5, Max: 3.0},
	MarketMidRange: {Min: 2.5, Target: 3.5, Max: 4.5},
	MarketPremium:  {Min: 4.0, Target: 5.0, Max: 6.0},
	MarketLuxury:   {Min: 6.0, Target: 8.0, Max: 10.0},
}

// MarketPositions lists the supported positions from cheapest to most expensive.
func MarketPositions() []MarketPosition {
	return []MarketPosition{MarketBudget, MarketMidRange, MarketPremium, MarketLuxury}
}

// Multipliers returns the markup table row for pos.
func Multipliers(pos MarketPosition) (Markup, error) {
	m, ok := markups[pos]
	if !ok {
		return Markup{}, fmt.Errorf("%w: %q", ErrInvalidMarketPosition, pos)
	}
	return m, nil
}

// PriceTier is one recommended price point.
type PriceTier struct {
	Price         float64 `json:"price"`
	MarginPercent float64 `json:"margin_percent"`
	PricePerOz    float64 `json:"price_per_oz"`
}

// BreakEven is the unit count that covers fixed overhead. Units is only
// meaningful when Reachable is true.
type BreakEven struct {
	Units     int  `json:"units"`
	Reachable bool `json:"reachable"`
}

// PricingRecommendation groups the tiered prices for one product.
type PricingRecommendation struct {
	MarketPosition        MarketPosition `json:"market_position"`
	CostPerUnit           float64        `json:"cost_per_unit"`
	Min                   PriceTier      `json:"min"`
	Target                PriceTier      `json:"target"`
	Max                   PriceTier      `json:"max"`
	TargetMarginPercent   float64        `json:"target_margin_percent"`
	PriceFromTargetMargin float64        `json:"price_from_target_margin"`
	WholesalePrice        float64        `json:"wholesale_price"`
	RetailPrice           float64        `json:"retail_price"`
	PremiumPrice          float64        `json:"premium_price"`
	MonthlyOverhead       float64        `json:"monthly_overhead"`
	BreakEven             BreakEven      `json:"break_even"`
}

// Recommend computes tiered prices from the per-unit cost. An unreachable
// break-even is reported in the result, not as an error.
func Recommend(costPerUnit, volumeOz float64, pos MarketPosition, targetMarginPercent, monthlyOverhead float64) (PricingRecommendation, error) {
	markup, err := Multipliers(pos)
	if err != nil {
		return PricingRecommendation{}, err
	}
	if !(costPerUnit >= 0) || math.IsInf(costPerUnit, 0) {
		return PricingRecommendation{}, fmt.Errorf("%w: cost per unit must be 0 or greater, got %v", ErrInvalidInput, costPerUnit)
	}
	if costPerUnit == 0 {
		return PricingRecommendation{}, fmt.Errorf("%w: cost per unit is 0, margins are undefined", ErrZeroPriceDivision)
	}
	if !(volumeOz > 0) {
		return PricingRecommendation{}, fmt.Errorf("%w: volume must be greater than 0 oz, got %v", ErrZeroPriceDivision, volumeOz)
	}
	if !(monthlyOverhead >= 0) || math.IsInf(monthlyOverhead, 0) {
		return PricingRecommendation{}, fmt.Errorf("%w: monthly overhead must be 0 or greater, got %v", ErrInvalidInput, monthlyOverhead)
	}
	fromMargin, err := PriceForMargin(costPerUnit, targetMarginPercent)
	if err != nil {
		return PricingRecommendation{}, err
	}

	tier := func(multiplier float64) PriceTier {
		price := costPerUnit * multiplier
		return PriceTier{
			Price:         price,
			MarginPercent: (price - costPerUnit) / price * 100.0,
			PricePerOz:    price / volumeOz,
		}
	}

	rec := PricingRecommendation{
		MarketPosition:        pos,
		CostPerUnit:           costPerUnit,
		Min:                   tier(markup.Min),
		Target:                tier(markup.Target),
		Max:                   tier(markup.Max),
		TargetMarginPercent:   targetMarginPercent,
		PriceFromTargetMargin: fromMargin,
		WholesalePrice:        costPerUnit * WholesaleMarkup,
		MonthlyOverhead:       monthlyOverhead,
	}
	rec.RetailPrice = rec.Target.Price
	rec.PremiumPrice = rec.Max.Price
	rec.BreakEven = breakEven(monthlyOverhead, rec.RetailPrice-costPerUnit)

	return rec, nil
}

// PriceForMargin returns the price at which cost leaves the given margin.
func PriceForMargin(cost, marginPercent float64) (float64, error) {
	if marginPercent >= 100 || marginPercent < 0 || math.IsNaN(marginPercent) {
		return 0, fmt.Errorf("%w: got %v", ErrDegenerateMargin, marginPercent)
	}
	return cost / (1 - marginPercent/100.0), nil
}

// BreakEvenUnits returns how many units at unitProfit cover overhead. A count
// too large to represent is reported as unreachable.
func BreakEvenUnits(overhead, unitProfit float64) (int, error) {
	if !(overhead >= 0) || math.IsInf(overhead, 0) {
		return 0, fmt.Errorf("%w: monthly overhead must be 0 or greater, got %v", ErrInvalidInput, overhead)
	}
	if !(unitProfit > 0) || math.IsInf(unitProfit, 0) {
		return 0, fmt.Errorf("%w: profit per unit is %v", ErrBreakEvenUnreachable, unitProfit)
	}
	if overhead == 0 {
		return 0, nil
	}
	units := math.Ceil(overhead / unitProfit)
	if math.IsInf(units, 0) || units >= math.MaxInt {
		return 0, fmt.Errorf("%w: %v units at %v profit each", ErrBreakEvenUnreachable, units, unitProfit)
	}
	return int(units), nil
}

func breakEven(overhead, unitProfit float64) BreakEven {
	units, err := BreakEvenUnits(overhead, unitProfit)
	if err != nil {
		return BreakEven{}
	}
	return BreakEven{Units: units, Reachable: true}
}
