package costing

import (
	"fmt"
	"math"
)

// WaxType selects the wax density used to turn fill volume into weight.
type WaxType string

const (
	WaxSoy     WaxType = "soy"
	WaxCoconut WaxType = "coconut"
)

const (
	// GramsPerPound is used for every weight-to-price conversion.
	GramsPerPound = 453.6
	// CementDensity is in g/cm³ and applies to the full vessel volume.
	CementDensity = 2.4
	// CubicCmPerFluidOunce converts cm³ to US fluid ounces.
	CubicCmPerFluidOunce = 29.5735
	// DoubleWickDiameterInches is the diameter above which a vessel takes two wicks.
	DoubleWickDiameterInches = 4.0
)

// g/cm³
var waxDensities = map[WaxType]float64{
	WaxSoy:     0.9,
	WaxCoconut: 0.92,
}

// MaterialConfiguration holds the operator-edited material prices and fill
// settings. It is passed by value into every calculation.
type MaterialConfiguration struct {
	WaxType                WaxType `json:"wax_type"`
	WaxPricePerPound       float64 `json:"wax_price_per_pound"`
	FragrancePricePerPound float64 `json:"fragrance_price_per_pound"`
	CementPricePerPound    float64 `json:"cement_price_per_pound"`
	WickPriceEach          float64 `json:"wick_price_each"`
	PaintPricePerVessel    float64 `json:"paint_price_per_vessel"`
	FillPercent            float64 `json:"fill_percent"`
	FragranceLoadPercent   float64 `json:"fragrance_load_percent"`
}

// DefaultMaterialConfiguration returns the prices the workshop starts with.
func DefaultMaterialConfiguration() MaterialConfiguration {
	return MaterialConfiguration{
		WaxType:                WaxSoy,
		WaxPricePerPound:       8.50,
		FragrancePricePerPound: 40.00,
		CementPricePerPound:    0.50,
		WickPriceEach:          0.25,
		PaintPricePerVessel:    0.75,
		FillPercent:            80,
		FragranceLoadPercent:   10,
	}
}

// Validate rejects unknown wax types, out-of-range percentages and negative prices.
func (c MaterialConfiguration) Validate() error {
	if _, err := WaxDensity(c.WaxType); err != nil {
		return err
	}
	if !(c.FillPercent > 0 && c.FillPercent <= 100) {
		return fmt.Errorf("%w: fill percent must be in (0, 100], got %v", ErrInvalidMaterialConfig, c.FillPercent)
	}
	if !(c.FragranceLoadPercent > 0 && c.FragranceLoadPercent <= 100) {
		return fmt.Errorf("%w: fragrance load percent must be in (0, 100], got %v", ErrInvalidMaterialConfig, c.FragranceLoadPercent)
	}

	prices := []struct {
		field string
		value float64
	}{
		{"wax price per pound", c.WaxPricePerPound},
		{"fragrance price per pound", c.FragrancePricePerPound},
		{"cement price per pound", c.CementPricePerPound},
		{"wick price", c.WickPriceEach},
		{"paint price", c.PaintPricePerVessel},
	}
	for _, p := range prices {
		if !(p.value >= 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be 0 or greater, got %v", ErrInvalidMaterialConfig, p.field, p.value)
		}
	}
	return nil
}

// WaxDensity returns the density in g/cm³ for a supported wax type.
func WaxDensity(t WaxType) (float64, error) {
	d, ok := waxDensities[t]
	if !ok {
		return 0, fmt.Errorf("%w: wax type %q is not supported", ErrInvalidMaterialConfig, t)
	}
	return d, nil
}

// WicksNeeded is 2 for vessels wider than 4 inches and 1 otherwise.
func WicksNeeded(g VesselGeometry) int {
	if g.DiameterInches() > DoubleWickDiameterInches {
		return 2
	}
	return 1
}

// VesselCostBreakdown is the per-unit material requirement and cost of one
// vessel under one material configuration.
type VesselCostBreakdown struct {
	FullVolumeCm3    float64 `json:"full_volume_cm3"`
	WaxVolumeCm3     float64 `json:"wax_volume_cm3"`
	VolumeOz         float64 `json:"volume_oz"`
	WaxWeightG       float64 `json:"wax_weight_g"`
	FragranceWeightG float64 `json:"fragrance_weight_g"`
	CementWeightG    float64 `json:"cement_weight_g"`
	WicksNeeded      int     `json:"wicks_needed"`
	WaxCost          float64 `json:"wax_cost"`
	FragranceCost    float64 `json:"fragrance_cost"`
	CementCost       float64 `json:"cement_cost"`
	WickCost         float64 `json:"wick_cost"`
	PaintCost        float64 `json:"paint_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// CostBreakdown derives weights and costs for one vessel from scratch.
func CostBreakdown(g VesselGeometry, cfg MaterialConfiguration) (VesselCostBreakdown, error) {
	fullVolume, err := Volume(g.Diameter, g.Height, g.Unit)
	if err != nil {
		return VesselCostBreakdown{}, err
	}
	if err := cfg.Validate(); err != nil {
		return VesselCostBreakdown{}, err
	}
	density, _ := WaxDensity(cfg.WaxType)

	waxVolume := fullVolume * (cfg.FillPercent / 100.0)
	waxWeight := waxVolume * density
	fragranceWeight := waxWeight * (cfg.FragranceLoadPercent / 100.0)
	// Cement is weighed from the full geometric volume, not the fill.
	cementWeight := fullVolume * CementDensity
	wicks := WicksNeeded(g)

	b := VesselCostBreakdown{
		FullVolumeCm3:    fullVolume,
		WaxVolumeCm3:     waxVolume,
		VolumeOz:         waxVolume / CubicCmPerFluidOunce,
		WaxWeightG:       waxWeight,
		FragranceWeightG: fragranceWeight,
		CementWeightG:    cementWeight,
		WicksNeeded:      wicks,
		WaxCost:          poundCost(waxWeight, cfg.WaxPricePerPound),
		FragranceCost:    poundCost(fragranceWeight, cfg.FragrancePricePerPound),
		CementCost:       poundCost(cementWeight, cfg.CementPricePerPound),
		WickCost:         float64(wicks) * cfg.WickPriceEach,
		PaintCost:        cfg.PaintPricePerVessel,
	}
	b.TotalCost = b.WaxCost + b.FragranceCost + b.CementCost + b.WickCost + b.PaintCost

	return b, nil
}

func poundCost(grams, pricePerPound float64) float64 {
	return (grams / GramsPerPound) * pricePerPound
}
