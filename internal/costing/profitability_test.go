package costing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleBreakdown() VesselCostBreakdown {
	b := VesselCostBreakdown{WaxCost: 4, FragranceCost: 3, CementCost: 1, WickCost: 0.5, PaintCost: 1.5}
	b.TotalCost = b.WaxCost + b.FragranceCost + b.CementCost + b.WickCost + b.PaintCost
	return b
}

func TestAnalyze_MonthlyFigures(t *testing.T) {
	r, err := Analyze(sampleBreakdown(), ProfitabilityInput{
		LaborRatePerHour:  20,
		LaborHoursPerUnit: 0.25,
		SellingPrice:      40,
		MonthlyOverhead:   500,
		MonthlySalesGoal:  100,
	})
	require.NoError(t, err)

	nearlyEqual(t, "labor", r.LaborCost, 5)
	nearlyEqual(t, "total cost per unit", r.TotalCostPerUnit, 15)
	nearlyEqual(t, "gross profit", r.GrossProfit, 25)
	nearlyEqual(t, "gross margin", r.GrossMarginPercent, 62.5)
	nearlyEqual(t, "revenue", r.MonthlyRevenue, 4000)
	nearlyEqual(t, "cogs", r.MonthlyCOGS, 1500)
	nearlyEqual(t, "monthly gross", r.MonthlyGrossProfit, 2500)
	nearlyEqual(t, "monthly net", r.MonthlyNetProfit, 2000)
	nearlyEqual(t, "net margin", r.NetMarginPercent, 50)
	require.Equal(t, BreakEven{Units: 20, Reachable: true}, r.BreakEven)
	nearlyEqual(t, "investment", r.TotalInvestment, 1500)
	require.InDelta(t, 133.333, r.ROIPercent, 0.001)

	nearlyEqual(t, "wax share", r.CostShares.WaxPercent, 40)
	nearlyEqual(t, "fragrance share", r.CostShares.FragrancePercent, 30)
	nearlyEqual(t, "cement share", r.CostShares.CementPercent, 10)
	nearlyEqual(t, "wick share", r.CostShares.WickPercent, 5)
	nearlyEqual(t, "paint share", r.CostShares.PaintPercent, 15)
}

func TestAnalyze_UnprofitablePriceHasNoBreakEven(t *testing.T) {
	for _, price := range []float64{10, 12} {
		r, err := Analyze(sampleBreakdown(), ProfitabilityInput{
			LaborRatePerHour:  8,
			LaborHoursPerUnit: 0.25,
			SellingPrice:      price,
			MonthlyOverhead:   500,
			MonthlySalesGoal:  40,
		})
		require.NoError(t, err)
		require.False(t, r.BreakEven.Reachable, "price %v", price)
		require.Zero(t, r.BreakEven.Units)
		require.LessOrEqual(t, r.GrossProfit, 0.0)
	}
}

func TestAnalyze_ZeroMaterialCostHasZeroShares(t *testing.T) {
	r, err := Analyze(VesselCostBreakdown{}, ProfitabilityInput{SellingPrice: 10, MonthlyOverhead: 100, MonthlySalesGoal: 5})
	require.NoError(t, err)
	require.Equal(t, CostShares{}, r.CostShares)
	nearlyEqual(t, "roi", r.ROIPercent, -50)
}

func TestAnalyze_RejectsInvalidInput(t *testing.T) {
	valid := ProfitabilityInput{LaborRatePerHour: 15, LaborHoursPerUnit: 0.5, SellingPrice: 30, MonthlyOverhead: 500, MonthlySalesGoal: 50}

	zeroPrice := valid
	zeroPrice.SellingPrice = 0
	_, err := Analyze(sampleBreakdown(), zeroPrice)
	require.ErrorIs(t, err, ErrZeroPriceDivision)

	noGoal := valid
	noGoal.MonthlySalesGoal = 0
	_, err = Analyze(sampleBreakdown(), noGoal)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	negativeLabor := valid
	negativeLabor.LaborRatePerHour = -1
	_, err = Analyze(sampleBreakdown(), negativeLabor)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Analyze(VesselCostBreakdown{}, ProfitabilityInput{SellingPrice: 10, MonthlySalesGoal: 5})
	require.ErrorIs(t, err, ErrZeroPriceDivision)
}

func TestAnalyze_BreakEvenBeyondIntRangeIsUnreachable(t *testing.T) {
	r, err := Analyze(VesselCostBreakdown{TotalCost: 10, WaxCost: 10}, ProfitabilityInput{
		SellingPrice:     11,
		MonthlyOverhead:  1e20,
		MonthlySalesGoal: 10,
	})
	require.NoError(t, err)
	require.Equal(t, BreakEven{}, r.BreakEven)
	require.Greater(t, r.GrossProfit, 0.0)

	_, err = Analyze(sampleBreakdown(), ProfitabilityInput{
		SellingPrice:     40,
		MonthlyOverhead:  math.Inf(1),
		MonthlySalesGoal: 10,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
