package costing

import (
	"fmt"
	"math"
)

// Material names used in shortfall messages and shopping lists.
const (
	MaterialWax       = "wax"
	MaterialFragrance = "fragrance oil"
	MaterialCement    = "cement"
	MaterialWicks     = "wicks"
	MaterialPaint     = "paint"
)

// InventoryLevels is the stock on hand.
type InventoryLevels struct {
	WaxLbs          float64 `json:"wax_lbs"`
	FragranceOilLbs float64 `json:"fragrance_oil_lbs"`
	CementLbs       float64 `json:"cement_lbs"`
	Wicks           int     `json:"wicks"`
	Paint           int     `json:"paint"`
}

// DefaultInventoryLevels is the stock assumed when nothing has been recorded yet.
func DefaultInventoryLevels() InventoryLevels {
	return InventoryLevels{
		WaxLbs:          50,
		FragranceOilLbs: 10,
		CementLbs:       25,
		Wicks:           500,
		Paint:           100,
	}
}

// Validate rejects negative or non-finite stock.
func (inv InventoryLevels) Validate() error {
	for _, lbs := range []float64{inv.WaxLbs, inv.FragranceOilLbs, inv.CementLbs} {
		if !(lbs >= 0) || math.IsInf(lbs, 0) {
			return fmt.Errorf("%w: inventory levels must be 0 or greater, got %v", ErrInvalidInput, lbs)
		}
	}
	if inv.Wicks < 0 || inv.Paint < 0 {
		return fmt.Errorf("%w: inventory levels must be 0 or greater", ErrInvalidInput)
	}
	return nil
}

// MaterialRequirements is what a run of vessels consumes.
type MaterialRequirements struct {
	WaxLbs          float64 `json:"wax_lbs"`
	FragranceOilLbs float64 `json:"fragrance_oil_lbs"`
	CementLbs       float64 `json:"cement_lbs"`
	Wicks           int     `json:"wicks"`
	Paint           int     `json:"paint"`
}

// Shortfall describes one material that is under stock.
type Shortfall struct {
	Material string  `json:"material"`
	Required float64 `json:"required"`
	OnHand   float64 `json:"on_hand"`
	Unit     string  `json:"unit"`
}

// String is the operator-facing message, e.g. "not enough wax: need 3.25 lbs, have 2.00 lbs".
func (s Shortfall) String() string {
	if s.Unit == "" {
		return fmt.Sprintf("not enough %s: need %.0f, have %.0f", s.Material, s.Required, s.OnHand)
	}
	// Need rounds up and always prints above stock, however small the gap.
	have := math.Round(s.OnHand*100) / 100
	need := math.Ceil(s.Required*100-1e-9) / 100
	if need <= have {
		need = have + 0.01
	}
	return fmt.Sprintf("not enough %s: need %.2f %s, have %.2f %s", s.Material, need, s.Unit, have, s.Unit)
}

// Feasibility is the result of comparing requirements against stock.
type Feasibility struct {
	CanMake    bool                 `json:"can_make"`
	Missing    []string             `json:"missing"`
	Shortfalls []Shortfall          `json:"shortfalls"`
	Required   MaterialRequirements `json:"required"`
}

// Requirements scales the per-unit breakdown linearly to quantity vessels.
func Requirements(b VesselCostBreakdown, quantity int) (MaterialRequirements, error) {
	if quantity <= 0 {
		return MaterialRequirements{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	q := float64(quantity)
	return MaterialRequirements{
		WaxLbs:          b.WaxWeightG * q / GramsPerPound,
		FragranceOilLbs: b.FragranceWeightG * q / GramsPerPound,
		CementLbs:       b.CementWeightG * q / GramsPerPound,
		Wicks:           b.WicksNeeded * quantity,
		Paint:           quantity,
	}, nil
}

// CanMake checks whether inv covers quantity vessels. inv is never modified.
func CanMake(b VesselCostBreakdown, quantity int, inv InventoryLevels) (Feasibility, error) {
	if err := inv.Validate(); err != nil {
		return Feasibility{}, err
	}
	req, err := Requirements(b, quantity)
	if err != nil {
		return Feasibility{}, err
	}

	var shortfalls []Shortfall
	check := func(material, unit string, required, onHand float64) {
		if onHand < required {
			shortfalls = append(shortfalls, Shortfall{Material: material, Required: required, OnHand: onHand, Unit: unit})
		}
	}
	check(MaterialWax, "lbs", req.WaxLbs, inv.WaxLbs)
	check(MaterialFragrance, "lbs", req.FragranceOilLbs, inv.FragranceOilLbs)
	check(MaterialCement, "lbs", req.CementLbs, inv.CementLbs)
	check(MaterialWicks, "", float64(req.Wicks), float64(inv.Wicks))
	check(MaterialPaint, "", float64(req.Paint), float64(inv.Paint))

	missing := make([]string, 0, len(shortfalls))
	for _, s := range shortfalls {
		missing = append(missing, s.String())
	}

	return Feasibility{
		CanMake:    len(shortfalls) == 0,
		Missing:    missing,
		Shortfalls: shortfalls,
		Required:   req,
	}, nil
}
