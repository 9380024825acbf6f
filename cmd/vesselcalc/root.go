package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Simplici0/candle.works/internal/config"
	"github.com/Simplici0/candle.works/internal/costing"
)

// options holds the flags shared by every subcommand.
type options struct {
	diameter      float64
	height        float64
	unit          string
	name          string
	materialsFile string
	jsonOutput    bool

	materials costing.MaterialConfiguration
}

func newRootCmd() *cobra.Command {
	opts := &options{materials: costing.DefaultMaterialConfiguration()}

	root := &cobra.Command{
		Use:   "vesselcalc",
		Short: "Cost, price and plan concrete-vessel candles",
		Long: `vesselcalc prices a candle poured into a cylindrical concrete vessel.

Geometry and material prices come from flags (or a YAML materials file);
every figure is recomputed on each run.

Examples:
  vesselcalc cost --diameter 8.2 --height 2.36
  vesselcalc price --diameter 3 --height 4 --position premium
  vesselcalc plan --diameter 3 --height 4 --quantity 24 --blend Cedar=60 --blend Amber=40
  vesselcalc catalog --db ./dev.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.Float64Var(&opts.diameter, "diameter", 0, "Vessel inner diameter")
	pf.Float64Var(&opts.height, "height", 0, "Vessel inner height")
	pf.StringVar(&opts.unit, "unit", string(costing.UnitInches), "Dimension unit (in or cm)")
	pf.StringVar(&opts.name, "name", "", "Vessel name shown in reports")
	pf.StringVar(&opts.materialsFile, "materials", "", "YAML file with material prices")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	addMaterialFlags(pf, &opts.materials)

	root.AddCommand(
		newCostCmd(opts),
		newPriceCmd(opts),
		newCheckCmd(opts),
		newPlanCmd(opts),
		newProfitCmd(opts),
		newCatalogCmd(opts),
	)
	return root
}

var materialFlags = []string{"wax", "wax-price", "fragrance-price", "cement-price", "wick-price", "paint-price", "fill", "load"}

func addMaterialFlags(fs *pflag.FlagSet, m *costing.MaterialConfiguration) {
	fs.StringVar((*string)(&m.WaxType), "wax", string(m.WaxType), "Wax type (soy or coconut)")
	fs.Float64Var(&m.WaxPricePerPound, "wax-price", m.WaxPricePerPound, "Wax price per pound")
	fs.Float64Var(&m.FragrancePricePerPound, "fragrance-price", m.FragrancePricePerPound, "Fragrance oil price per pound")
	fs.Float64Var(&m.CementPricePerPound, "cement-price", m.CementPricePerPound, "Cement price per pound")
	fs.Float64Var(&m.WickPriceEach, "wick-price", m.WickPriceEach, "Price per wick")
	fs.Float64Var(&m.PaintPricePerVessel, "paint-price", m.PaintPricePerVessel, "Paint cost per vessel")
	fs.Float64Var(&m.FillPercent, "fill", m.FillPercent, "Fill percent of the vessel volume")
	fs.Float64Var(&m.FragranceLoadPercent, "load", m.FragranceLoadPercent, "Fragrance load percent of wax weight")
}

// materialsFor resolves prices: defaults, then the YAML file, then any flag
// set explicitly on the command line.
func (o *options) materialsFor(cmd *cobra.Command) (costing.MaterialConfiguration, error) {
	if o.materialsFile == "" {
		return o.materials, o.materials.Validate()
	}

	m, err := config.LoadMaterials(o.materialsFile)
	if err != nil {
		return m, err
	}
	overrides := pflag.NewFlagSet("materials", pflag.ContinueOnError)
	addMaterialFlags(overrides, &m)
	for _, name := range materialFlags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := overrides.Set(name, f.Value.String()); err != nil {
				return m, fmt.Errorf("apply --%s: %w", name, err)
			}
		}
	}
	return m, m.Validate()
}

func (o *options) vessel() costing.VesselGeometry {
	return costing.VesselGeometry{
		Name:     o.name,
		Diameter: o.diameter,
		Height:   o.height,
		Unit:     costing.Unit(o.unit),
	}
}

// breakdown costs the vessel described by the flags.
func (o *options) breakdown(cmd *cobra.Command) (costing.VesselGeometry, costing.VesselCostBreakdown, error) {
	m, err := o.materialsFor(cmd)
	if err != nil {
		return costing.VesselGeometry{}, costing.VesselCostBreakdown{}, err
	}
	v := o.vessel()
	b, err := costing.CostBreakdown(v, m)
	return v, b, err
}

func (o *options) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
