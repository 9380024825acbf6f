package seed

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/candle.works/internal/costing"
)

// Config contains the values required by startup seed.
type Config struct {
	Materials costing.MaterialConfiguration
	Inventory costing.InventoryLevels
	Vessels   []costing.VesselGeometry
}

// DefaultConfig seeds the workshop's starting prices, stock and vessel styles.
func DefaultConfig() Config {
	return Config{
		Materials: costing.DefaultMaterialConfiguration(),
		Inventory: costing.DefaultInventoryLevels(),
		Vessels: []costing.VesselGeometry{
			{Name: "Concrete Bowl", Diameter: 8.2, Height: 2.36, Unit: costing.UnitInches},
			{Name: "Ribbed Tumbler", Diameter: 3.2, Height: 3.9, Unit: costing.UnitInches},
			{Name: "Travel Tin", Diameter: 6.5, Height: 4.5, Unit: costing.UnitCentimeters},
		},
	}
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	if err := cfg.Materials.Validate(); err != nil {
		return Stats{}, fmt.Errorf("seed material config: %w", err)
	}
	if err := cfg.Inventory.Validate(); err != nil {
		return Stats{}, fmt.Errorf("seed inventory: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureMaterialConfig(tx, cfg.Materials, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureInventory(tx, cfg.Inventory, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, v := range cfg.Vessels {
		if err := ensureVessel(tx, v, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterialConfig(tx *sql.Tx, c costing.MaterialConfiguration, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM material_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check material config existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
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
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(c.WaxType), c.WaxPricePerPound, c.FragrancePricePerPound, c.CementPricePerPound,
		c.WickPriceEach, c.PaintPricePerVessel, c.FillPercent, c.FragranceLoadPercent); err != nil {
		return fmt.Errorf("insert material config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureInventory(tx *sql.Tx, inv costing.InventoryLevels, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM inventory_levels WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check inventory existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO inventory_levels (id, wax_lbs, fragrance_oil_lbs, cement_lbs, wicks, paint)
		VALUES (1, ?, ?, ?, ?, ?)
	`, inv.WaxLbs, inv.FragranceOilLbs, inv.CementLbs, inv.Wicks, inv.Paint); err != nil {
		return fmt.Errorf("insert inventory singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureVessel(tx *sql.Tx, v costing.VesselGeometry, stats *Stats) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("seed vessel %q: %w", v.Name, err)
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM vessels WHERE name = ? LIMIT 1)`, v.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check vessel existence: %w", err)
	}
	if exists {
		return nil
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if _, err := tx.Exec(`
		INSERT INTO vessels (id, name, diameter, height, unit)
		VALUES (?, ?, ?, ?, ?)
	`, v.ID, v.Name, v.Diameter, v.Height, string(v.Unit)); err != nil {
		return fmt.Errorf("insert vessel %q: %w", v.Name, err)
	}
	stats.Inserts++
	return nil
}
