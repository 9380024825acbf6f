package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/db"
	"github.com/Simplici0/candle.works/internal/migrations"
	"github.com/Simplici0/candle.works/internal/report"
	"github.com/Simplici0/candle.works/internal/store"
)

type pricingFlags struct {
	position string
	margin   float64
	overhead float64
}

func (p *pricingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.position, "position", string(costing.MarketMidRange), "Market position (budget, mid-range, premium, luxury)")
	cmd.Flags().Float64Var(&p.margin, "margin", costing.DefaultTargetMarginPercent, "Target margin percent")
	cmd.Flags().Float64Var(&p.overhead, "overhead", costing.DefaultMonthlyOverhead, "Monthly fixed overhead")
}

func newCostCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cost",
		Short: "Show material weights and cost per vessel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, b, err := opts.breakdown(cmd)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(cmd, b)
			}
			return report.WriteBreakdown(cmd.OutOrStdout(), v, b)
		},
	}
}

func newPriceCmd(opts *options) *cobra.Command {
	var pf pricingFlags
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Recommend prices for a market position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, b, err := opts.breakdown(cmd)
			if err != nil {
				return err
			}
			rec, err := costing.Recommend(b.TotalCost, b.VolumeOz, costing.MarketPosition(pf.position), pf.margin, pf.overhead)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(cmd, rec)
			}
			return report.WritePricing(cmd.OutOrStdout(), rec)
		},
	}
	pf.register(cmd)
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	var quantity int
	stock := costing.DefaultInventoryLevels()

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether stock covers a production run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, b, err := opts.breakdown(cmd)
			if err != nil {
				return err
			}
			f, err := costing.CanMake(b, quantity, stock)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(cmd, f)
			}
			return report.WriteFeasibility(cmd.OutOrStdout(), quantity, f)
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Number of vessels to pour")
	cmd.Flags().Float64Var(&stock.WaxLbs, "wax-stock", stock.WaxLbs, "Wax on hand in pounds")
	cmd.Flags().Float64Var(&stock.FragranceOilLbs, "fragrance-stock", stock.FragranceOilLbs, "Fragrance oil on hand in pounds")
	cmd.Flags().Float64Var(&stock.CementLbs, "cement-stock", stock.CementLbs, "Cement on hand in pounds")
	cmd.Flags().IntVar(&stock.Wicks, "wicks", stock.Wicks, "Wicks on hand")
	cmd.Flags().IntVar(&stock.Paint, "paint", stock.Paint, "Vessels' worth of paint on hand")
	return cmd
}

func newPlanCmd(opts *options) *cobra.Command {
	var (
		quantity int
		blend    []string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a shopping list and fragrance split for a batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := parseBlend(blend)
			if err != nil {
				return err
			}
			_, b, err := opts.breakdown(cmd)
			if err != nil {
				return err
			}
			p, err := costing.Plan(b, quantity, recipe)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(cmd, p)
			}
			return report.WritePlan(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Number of vessels in the batch")
	cmd.Flags().StringArrayVar(&blend, "blend", nil, "Fragrance ingredient as NAME=PERCENT, repeatable")
	return cmd
}

func newProfitCmd(opts *options) *cobra.Command {
	in := costing.ProfitabilityInput{MonthlyOverhead: costing.DefaultMonthlyOverhead}
	cmd := &cobra.Command{
		Use:   "profit",
		Short: "Project unit and monthly profitability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, b, err := opts.breakdown(cmd)
			if err != nil {
				return err
			}
			rep, err := costing.Analyze(b, in)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(cmd, rep)
			}
			return report.WriteProfitability(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().Float64Var(&in.SellingPrice, "price", 0, "Selling price per unit")
	cmd.Flags().Float64Var(&in.LaborRatePerHour, "labor-rate", 0, "Labor rate per hour")
	cmd.Flags().Float64Var(&in.LaborHoursPerUnit, "labor-hours", 0, "Labor hours per unit")
	cmd.Flags().Float64Var(&in.MonthlyOverhead, "overhead", in.MonthlyOverhead, "Monthly fixed overhead")
	cmd.Flags().IntVar(&in.MonthlySalesGoal, "sales-goal", 0, "Units sold per month")
	return cmd
}

func newCatalogCmd(opts *options) *cobra.Command {
	var (
		dbPath string
		pf     pricingFlags
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Price every vessel stored in a workshop database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("--db flag is required")
			}
			database, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := migrations.Up(database); err != nil {
				return err
			}

			ctx := cmd.Context()
			st := store.New(database)
			vessels, err := st.ListVessels(ctx)
			if err != nil {
				return err
			}
			m, err := st.GetMaterialConfig(ctx)
			if errors.Is(err, store.ErrNotFound) {
				m, err = opts.materialsFor(cmd)
			}
			if err != nil {
				return err
			}

			rows, err := report.Catalog(ctx, vessels, m, costing.MarketPosition(pf.position), pf.margin, pf.overhead)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(cmd, rows)
			}
			return report.WriteCatalog(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the workshop SQLite database")
	pf.register(cmd)
	return cmd
}

// parseBlend reads NAME=PERCENT pairs in the order given.
func parseBlend(pairs []string) ([]costing.Ingredient, error) {
	recipe := make([]costing.Ingredient, 0, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--blend %q: want NAME=PERCENT", pair)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || pct < 0 {
			return nil, fmt.Errorf("--blend %q: percent must be a number >= 0", pair)
		}
		recipe = append(recipe, costing.Ingredient{Name: name, Percent: pct})
	}
	return recipe, nil
}
