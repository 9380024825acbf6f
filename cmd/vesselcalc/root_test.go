package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/db"
	"github.com/Simplici0/candle.works/internal/migrations"
	"github.com/Simplici0/candle.works/internal/report"
	"github.com/Simplici0/candle.works/internal/seed"
)

var bowlArgs = []string{"--diameter", "8.2", "--height", "2.36", "--name", "Concrete Bowl"}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func executeJSON[T any](t *testing.T, args ...string) T {
	t.Helper()

	out, err := execute(t, append(args, "--json")...)
	require.NoError(t, err, out)

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func bowlBreakdown(t *testing.T, cfg costing.MaterialConfiguration) costing.VesselCostBreakdown {
	t.Helper()

	b, err := costing.CostBreakdown(costing.VesselGeometry{Diameter: 8.2, Height: 2.36, Unit: costing.UnitInches}, cfg)
	require.NoError(t, err)
	return b
}

func TestCostCommand(t *testing.T) {
	t.Parallel()

	got := executeJSON[costing.VesselCostBreakdown](t, append([]string{"cost"}, bowlArgs...)...)
	want := bowlBreakdown(t, costing.DefaultMaterialConfiguration())
	require.InDelta(t, want.TotalCost, got.TotalCost, 1e-9)
	require.Equal(t, 2, got.WicksNeeded)

	out, err := execute(t, append([]string{"cost"}, bowlArgs...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Concrete Bowl")
	require.Contains(t, out, report.Money(want.TotalCost))
}

func TestCostCommandMaterialFlags(t *testing.T) {
	t.Parallel()

	got := executeJSON[costing.VesselCostBreakdown](t, append([]string{"cost", "--wax-price", "17", "--wax", "coconut"}, bowlArgs...)...)

	cfg := costing.DefaultMaterialConfiguration()
	cfg.WaxPricePerPound = 17
	cfg.WaxType = costing.WaxCoconut
	require.InDelta(t, bowlBreakdown(t, cfg).WaxCost, got.WaxCost, 1e-9)

	_, err := execute(t, append([]string{"cost", "--wax", "paraffin"}, bowlArgs...)...)
	require.ErrorIs(t, err, costing.ErrInvalidMaterialConfig)
}

func TestCostCommandMaterialsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wax_price_per_pound: 12\ncement_price_per_pound: 1\n"), 0o600))

	got := executeJSON[costing.VesselCostBreakdown](t, append([]string{"cost", "--materials", path, "--cement-price", "2"}, bowlArgs...)...)

	cfg := costing.DefaultMaterialConfiguration()
	cfg.WaxPricePerPound = 12
	cfg.CementPricePerPound = 2
	want := bowlBreakdown(t, cfg)
	require.InDelta(t, want.WaxCost, got.WaxCost, 1e-9)
	require.InDelta(t, want.CementCost, got.CementCost, 1e-9)
}

func TestCostCommandRejectsMissingGeometry(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "cost", "--diameter", "3")
	require.ErrorIs(t, err, costing.ErrInvalidGeometry)

	_, err = execute(t, "cost", "--diameter", "3", "--height", "4", "--unit", "mm")
	require.ErrorIs(t, err, costing.ErrInvalidGeometry)
}

func TestPriceCommand(t *testing.T) {
	t.Parallel()

	got := executeJSON[costing.PricingRecommendation](t, append([]string{"price", "--position", "premium", "--overhead", "0"}, bowlArgs...)...)
	b := bowlBreakdown(t, costing.DefaultMaterialConfiguration())
	require.InDelta(t, b.TotalCost*5, got.RetailPrice, 1e-9)
	require.Equal(t, costing.BreakEven{Units: 0, Reachable: true}, got.BreakEven)

	_, err := execute(t, append([]string{"price", "--position", "boutique"}, bowlArgs...)...)
	require.ErrorIs(t, err, costing.ErrInvalidMarketPosition)

	_, err = execute(t, append([]string{"price", "--margin", "100"}, bowlArgs...)...)
	require.ErrorIs(t, err, costing.ErrDegenerateMargin)
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, append([]string{"check", "-q", "40"}, bowlArgs...)...)
	require.NoError(t, err)
	require.Contains(t, out, "not enough wax")

	got := executeJSON[costing.Feasibility](t, append([]string{"check", "-q", "1", "--wicks", "1"}, bowlArgs...)...)
	require.False(t, got.CanMake)
	require.Equal(t, []string{"not enough wicks: need 2, have 1"}, got.Missing)

	_, err = execute(t, append([]string{"check", "-q", "0"}, bowlArgs...)...)
	require.ErrorIs(t, err, costing.ErrInvalidQuantity)
}

func TestPlanCommand(t *testing.T) {
	t.Parallel()

	got := executeJSON[costing.BatchPlan](t, append([]string{"plan", "-q", "10", "--blend", "Cedar=60", "--blend", "Amber=40"}, bowlArgs...)...)
	require.Equal(t, 10, got.Quantity)
	require.Equal(t, 20, got.Wicks)
	require.Len(t, got.Blend, 2)
	require.Equal(t, "Cedar", got.Blend[0].Name)
	require.InDelta(t, got.FragranceGrams*0.4, got.Blend[1].Grams, 1e-9)

	_, err := execute(t, append([]string{"plan", "--blend", "Cedar"}, bowlArgs...)...)
	require.ErrorContains(t, err, "NAME=PERCENT")
}

func TestProfitCommand(t *testing.T) {
	t.Parallel()

	got := executeJSON[costing.ProfitabilityReport](t, append([]string{"profit", "--price", "120", "--sales-goal", "30", "--labor-rate", "20", "--labor-hours", "0.5"}, bowlArgs...)...)
	require.InDelta(t, 3600, got.MonthlyRevenue, 1e-9)
	require.InDelta(t, 10, got.LaborCost, 1e-9)

	_, err := execute(t, append([]string{"profit", "--price", "0", "--sales-goal", "30"}, bowlArgs...)...)
	require.ErrorIs(t, err, costing.ErrZeroPriceDivision)
}

func TestCatalogCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.db")
	database, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(database))
	_, err = seed.Run(database, seed.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, database.Close())

	rows := executeJSON[[]report.CatalogRow](t, "catalog", "--db", path, "--position", "budget")
	require.Len(t, rows, 3)
	require.Equal(t, "Concrete Bowl", rows[0].Vessel.Name)
	require.InDelta(t, rows[0].Breakdown.TotalCost*2.5, rows[0].Pricing.RetailPrice, 1e-9)

	out, err := execute(t, "catalog", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "Travel Tin")

	_, err = execute(t, "catalog")
	require.ErrorContains(t, err, "--db")
}
