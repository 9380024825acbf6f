// Package report renders engine results as text and builds the vessel catalog.
package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/candle.works/internal/costing"
)

const catalogWorkers = 4

// CatalogRow prices one vessel under the current material configuration.
type CatalogRow struct {
	Vessel    costing.VesselGeometry        `json:"vessel"`
	Breakdown costing.VesselCostBreakdown   `json:"breakdown"`
	Pricing   costing.PricingRecommendation `json:"pricing"`
}

// Catalog computes every vessel independently and returns rows in input order.
// The first failing vessel cancels the rest.
func Catalog(ctx context.Context, vessels []costing.VesselGeometry, cfg costing.MaterialConfiguration, pos costing.MarketPosition, targetMarginPercent, overhead float64) ([]CatalogRow, error) {
	rows := make([]CatalogRow, len(vessels))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(catalogWorkers)
	for i, v := range vessels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := costing.CostBreakdown(v, cfg)
			if err != nil {
				return fmt.Errorf("vessel %q: %w", v.Name, err)
			}
			rec, err := costing.Recommend(b.TotalCost, b.VolumeOz, pos, targetMarginPercent, overhead)
			if err != nil {
				return fmt.Errorf("vessel %q: %w", v.Name, err)
			}
			rows[i] = CatalogRow{Vessel: v, Breakdown: b, Pricing: rec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
