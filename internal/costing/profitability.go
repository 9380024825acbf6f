package costing

import (
	"fmt"
	"math"
)

// ProfitabilityInput carries the sales-side parameters for one product.
type ProfitabilityInput struct {
	LaborRatePerHour  float64 `json:"labor_rate_per_hour"`
	LaborHoursPerUnit float64 `json:"labor_hours_per_unit"`
	SellingPrice      float64 `json:"selling_price"`
	MonthlyOverhead   float64 `json:"monthly_overhead"`
	MonthlySalesGoal  int     `json:"monthly_sales_goal"`
}

// CostShares are each material's share of the material cost, in percent.
type CostShares struct {
	WaxPercent       float64 `json:"wax_percent"`
	FragrancePercent float64 `json:"fragrance_percent"`
	CementPercent    float64 `json:"cement_percent"`
	WickPercent      float64 `json:"wick_percent"`
	PaintPercent     float64 `json:"paint_percent"`
}

// ProfitabilityReport is the unit and monthly P&L for one product.
type ProfitabilityReport struct {
	MaterialCost       float64    `json:"material_cost"`
	LaborCost          float64    `json:"labor_cost"`
	TotalCostPerUnit   float64    `json:"total_cost_per_unit"`
	GrossProfit        float64    `json:"gross_profit"`
	GrossMarginPercent float64    `json:"gross_margin_percent"`
	MonthlyRevenue     float64    `json:"monthly_revenue"`
	MonthlyCOGS        float64    `json:"monthly_cogs"`
	MonthlyGrossProfit float64    `json:"monthly_gross_profit"`
	MonthlyNetProfit   float64    `json:"monthly_net_profit"`
	NetMarginPercent   float64    `json:"net_margin_percent"`
	BreakEven          BreakEven  `json:"break_even"`
	TotalInvestment    float64    `json:"total_investment"`
	ROIPercent         float64    `json:"roi_percent"`
	CostShares         CostShares `json:"cost_shares"`
}

// Validate rejects negative amounts and a non-positive sales goal.
func (in ProfitabilityInput) Validate() error {
	amounts := []struct {
		field string
		value float64
	}{
		{"labor rate", in.LaborRatePerHour},
		{"labor hours", in.LaborHoursPerUnit},
		{"selling price", in.SellingPrice},
		{"monthly overhead", in.MonthlyOverhead},
	}
	for _, a := range amounts {
		if !(a.value >= 0) || math.IsInf(a.value, 0) {
			return fmt.Errorf("%w: %s must be 0 or greater, got %v", ErrInvalidInput, a.field, a.value)
		}
	}
	if in.MonthlySalesGoal <= 0 {
		return fmt.Errorf("%w: monthly sales goal %d", ErrInvalidQuantity, in.MonthlySalesGoal)
	}
	if in.SellingPrice == 0 {
		return fmt.Errorf("%w: selling price is 0", ErrZeroPriceDivision)
	}
	return nil
}

// Analyze combines the material breakdown with labor, overhead and sales
// volume. A non-positive gross profit leaves BreakEven unreachable.
func Analyze(b VesselCostBreakdown, in ProfitabilityInput) (ProfitabilityReport, error) {
	if err := in.Validate(); err != nil {
		return ProfitabilityReport{}, err
	}

	goal := float64(in.MonthlySalesGoal)
	laborCost := in.LaborRatePerHour * in.LaborHoursPerUnit
	totalCostPerUnit := b.TotalCost + laborCost
	grossProfit := in.SellingPrice - totalCostPerUnit

	r := ProfitabilityReport{
		MaterialCost:       b.TotalCost,
		LaborCost:          laborCost,
		TotalCostPerUnit:   totalCostPerUnit,
		GrossProfit:        grossProfit,
		GrossMarginPercent: grossProfit / in.SellingPrice * 100.0,
		MonthlyRevenue:     in.SellingPrice * goal,
		MonthlyCOGS:        totalCostPerUnit * goal,
		BreakEven:          breakEven(in.MonthlyOverhead, grossProfit),
		TotalInvestment:    in.MonthlyOverhead + b.TotalCost*goal,
		CostShares:         costShares(b),
	}
	r.MonthlyGrossProfit = r.MonthlyRevenue - r.MonthlyCOGS
	r.MonthlyNetProfit = r.MonthlyGrossProfit - in.MonthlyOverhead
	r.NetMarginPercent = r.MonthlyNetProfit / r.MonthlyRevenue * 100.0

	if r.TotalInvestment == 0 {
		return ProfitabilityReport{}, fmt.Errorf("%w: total investment is 0, ROI is undefined", ErrZeroPriceDivision)
	}
	r.ROIPercent = r.MonthlyNetProfit / r.TotalInvestment * 100.0

	return r, nil
}

// costShares splits material cost by component; labor is excluded. All
// zeros when the materials cost nothing.
func costShares(b VesselCostBreakdown) CostShares {
	sum := b.WaxCost + b.FragranceCost + b.CementCost + b.WickCost + b.PaintCost
	if sum == 0 {
		return CostShares{}
	}
	return CostShares{
		WaxPercent:       b.WaxCost / sum * 100.0,
		FragrancePercent: b.FragranceCost / sum * 100.0,
		CementPercent:    b.CementCost / sum * 100.0,
		WickPercent:      b.WickCost / sum * 100.0,
		PaintPercent:     b.PaintCost / sum * 100.0,
	}
}
