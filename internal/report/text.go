package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/candle.works/internal/costing"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B45309")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)

// Money formats an amount with two decimals, rounding half away from zero.
func Money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a percentage with one decimal.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// Grams formats a weight with thousands separators.
func Grams(v float64) string {
	return humanize.CommafWithDigits(v, 1) + " g"
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteBreakdown prints per-unit weights and costs.
func WriteBreakdown(w io.Writer, v costing.VesselGeometry, b costing.VesselCostBreakdown) error {
	section(w, fmt.Sprintf("%s (%g x %g %s)", displayName(v), v.Diameter, v.Height, v.Unit))
	tw := table(w)
	fmt.Fprintf(tw, "Volume\t%s cm³\t%s fl oz filled\n", humanize.CommafWithDigits(b.FullVolumeCm3, 1), decimal.NewFromFloat(b.VolumeOz).StringFixed(2))
	fmt.Fprintf(tw, "Wax\t%s\t%s\n", Grams(b.WaxWeightG), Money(b.WaxCost))
	fmt.Fprintf(tw, "Fragrance\t%s\t%s\n", Grams(b.FragranceWeightG), Money(b.FragranceCost))
	fmt.Fprintf(tw, "Cement\t%s\t%s\n", Grams(b.CementWeightG), Money(b.CementCost))
	fmt.Fprintf(tw, "Wicks\t%d\t%s\n", b.WicksNeeded, Money(b.WickCost))
	fmt.Fprintf(tw, "Paint\t\t%s\n", Money(b.PaintCost))
	fmt.Fprintf(tw, "Total\t\t%s\n", Money(b.TotalCost))
	return tw.Flush()
}

// WritePricing prints the tiered recommendation.
func WritePricing(w io.Writer, rec costing.PricingRecommendation) error {
	section(w, "Pricing ("+string(rec.MarketPosition)+")")
	tw := table(w)
	fmt.Fprintf(tw, "Tier\tPrice\tMargin\tPer oz\n")
	for _, t := range []struct {
		name string
		tier costing.PriceTier
	}{{"Min", rec.Min}, {"Target", rec.Target}, {"Max", rec.Max}} {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.name, Money(t.tier.Price), Percent(t.tier.MarginPercent), Money(t.tier.PricePerOz))
	}
	fmt.Fprintf(tw, "Wholesale\t%s\t\t\n", Money(rec.WholesalePrice))
	fmt.Fprintf(tw, "Retail\t%s\t\t\n", Money(rec.RetailPrice))
	fmt.Fprintf(tw, "Premium\t%s\t\t\n", Money(rec.PremiumPrice))
	fmt.Fprintf(tw, "At %s margin\t%s\t\t\n", Percent(rec.TargetMarginPercent), Money(rec.PriceFromTargetMargin))
	if err := tw.Flush(); err != nil {
		return err
	}
	writeBreakEven(w, rec.BreakEven, rec.MonthlyOverhead)
	return nil
}

// WriteFeasibility prints whether stock covers a run.
func WriteFeasibility(w io.Writer, quantity int, f costing.Feasibility) error {
	section(w, fmt.Sprintf("Stock check for %d", quantity))
	if f.CanMake {
		_, err := fmt.Fprintln(w, okStyle.Render("In stock"))
		return err
	}
	for _, m := range f.Missing {
		if _, err := fmt.Fprintln(w, warnStyle.Render("! ")+m); err != nil {
			return err
		}
	}
	return nil
}

// WritePlan prints the shopping list and blend split.
func WritePlan(w io.Writer, p costing.BatchPlan) error {
	section(w, fmt.Sprintf("Batch of %d", p.Quantity))
	tw := table(w)
	for _, item := range p.ShoppingList {
		amount := fmt.Sprintf("%d", item.Count)
		if item.Count == 0 {
			amount = fmt.Sprintf("%s (%s lbs)", Grams(item.Grams), decimal.NewFromFloat(item.Pounds).StringFixed(2))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Material, amount, Money(item.Cost))
	}
	fmt.Fprintf(tw, "Total\t\t%s\n", Money(p.BatchCost))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(p.Blend) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = table(w)
	for _, b := range p.Blend {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, Percent(b.Percent), Grams(b.Grams))
	}
	return tw.Flush()
}

// WriteProfitability prints the unit and monthly P&L.
func WriteProfitability(w io.Writer, r costing.ProfitabilityReport) error {
	section(w, "Profitability")
	tw := table(w)
	fmt.Fprintf(tw, "Materials\t%s\n", Money(r.MaterialCost))
	fmt.Fprintf(tw, "Labor\t%s\n", Money(r.LaborCost))
	fmt.Fprintf(tw, "Cost per unit\t%s\n", Money(r.TotalCostPerUnit))
	fmt.Fprintf(tw, "Gross profit\t%s (%s)\n", Money(r.GrossProfit), Percent(r.GrossMarginPercent))
	fmt.Fprintf(tw, "Monthly revenue\t%s\n", Money(r.MonthlyRevenue))
	fmt.Fprintf(tw, "Monthly COGS\t%s\n", Money(r.MonthlyCOGS))
	fmt.Fprintf(tw, "Monthly net\t%s (%s)\n", Money(r.MonthlyNetProfit), Percent(r.NetMarginPercent))
	fmt.Fprintf(tw, "ROI\t%s\n", Percent(r.ROIPercent))
	if err := tw.Flush(); err != nil {
		return err
	}
	writeBreakEven(w, r.BreakEven, 0)
	return nil
}

// WriteCatalog prints one line per vessel.
func WriteCatalog(w io.Writer, rows []CatalogRow) error {
	tw := table(w)
	fmt.Fprintf(tw, "Vessel\tFill oz\tCost\tRetail\tPremium\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			displayName(r.Vessel),
			decimal.NewFromFloat(r.Breakdown.VolumeOz).StringFixed(1),
			Money(r.Breakdown.TotalCost),
			Money(r.Pricing.RetailPrice),
			Money(r.Pricing.PremiumPrice),
		)
	}
	return tw.Flush()
}

func writeBreakEven(w io.Writer, be costing.BreakEven, overhead float64) {
	if !be.Reachable {
		fmt.Fprintln(w, warnStyle.Render("Break-even not reachable at this price"))
		return
	}
	if overhead > 0 {
		fmt.Fprintf(w, "Break-even: %s units/month to cover %s overhead\n", humanize.Comma(int64(be.Units)), Money(overhead))
		return
	}
	fmt.Fprintf(w, "Break-even: %s units/month\n", humanize.Comma(int64(be.Units)))
}

func displayName(v costing.VesselGeometry) string {
	if v.Name == "" {
		return "Vessel"
	}
	return v.Name
}
