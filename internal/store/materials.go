package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/candle.works/internal/costing"
)

// GetMaterialConfig reads the material price singleton.
func (s *Store) GetMaterialConfig(ctx context.Context) (costing.MaterialConfiguration, error) {
	var c costing.MaterialConfiguration
	var waxType string
	err := s.db.QueryRowContext(ctx, `
		SELECT wax_type, wax_price_per_pound, fragrance_price_per_pound, cement_price_per_pound,
			wick_price_each, paint_price_per_vessel, fill_percent, fragrance_load_percent
		FROM material_config
		WHERE id = 1
	`).Scan(
		&waxType,
		&c.WaxPricePerPound,
		&c.FragrancePricePerPound,
		&c.CementPricePerPound,
		&c.WickPriceEach,
		&c.PaintPricePerVessel,
		&c.FillPercent,
		&c.FragranceLoadPercent,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("material_config singleton: %w", ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("query material_config: %w", err)
	}
	c.WaxType = costing.WaxType(waxType)
	return c, nil
}

// UpdateMaterialConfig validates and writes the singleton, creating it if needed.
func (s *Store) UpdateMaterialConfig(ctx context.Context, c costing.MaterialConfiguration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO material_config (
			id,
			wax_type,
			wax_price_per_pound,
			fragrance_price_per_pound,
			cement_price_per_pound,
			wick_price_each,
			paint_price_per_vessel,
			fill_percent,
			fragrance_load_percent
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			wax_type = excluded.wax_type,
			wax_price_per_pound = excluded.wax_price_per_pound,
			fragrance_price_per_pound = excluded.fragrance_price_per_pound,
			cement_price_per_pound = excluded.cement_price_per_pound,
			wick_price_each = excluded.wick_price_each,
			paint_price_per_vessel = excluded.paint_price_per_vessel,
			fill_percent = excluded.fill_percent,
			fragrance_load_percent = excluded.fragrance_load_percent,
			updated_at = CURRENT_TIMESTAMP
	`,
		string(c.WaxType),
		c.WaxPricePerPound,
		c.FragrancePricePerPound,
		c.CementPricePerPound,
		c.WickPriceEach,
		c.PaintPricePerVessel,
		c.FillPercent,
		c.FragranceLoadPercent,
	)
	if err != nil {
		return fmt.Errorf("update material_config: %w", err)
	}
	return nil
}

// GetInventory reads the stock singleton.
func (s *Store) GetInventory(ctx context.Context) (costing.InventoryLevels, error) {
	var inv costing.InventoryLevels
	err := s.db.QueryRowContext(ctx, `
		SELECT wax_lbs, fragrance_oil_lbs, cement_lbs, wicks, paint
		FROM inventory_levels
		WHERE id = 1
	`).Scan(&inv.WaxLbs, &inv.FragranceOilLbs, &inv.CementLbs, &inv.Wicks, &inv.Paint)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, fmt.Errorf("inventory_levels singleton: %w", ErrNotFound)
	}
	if err != nil {
		return inv, fmt.Errorf("query inventory_levels: %w", err)
	}
	return inv, nil
}

// UpdateInventory validates and writes the stock singleton.
func (s *Store) UpdateInventory(ctx context.Context, inv costing.InventoryLevels) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_levels (id, wax_lbs, fragrance_oil_lbs, cement_lbs, wicks, paint)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			wax_lbs = excluded.wax_lbs,
			fragrance_oil_lbs = excluded.fragrance_oil_lbs,
			cement_lbs = excluded.cement_lbs,
			wicks = excluded.wicks,
			paint = excluded.paint,
			updated_at = CURRENT_TIMESTAMP
	`, inv.WaxLbs, inv.FragranceOilLbs, inv.CementLbs, inv.Wicks, inv.Paint)
	if err != nil {
		return fmt.Errorf("update inventory_levels: %w", err)
	}
	return nil
}
