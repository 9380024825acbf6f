package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/candle.works/internal/costing"
)

// materialsFile mirrors costing.MaterialConfiguration. Pointers tell an
// omitted key apart from an explicit zero.
type materialsFile struct {
	WaxType                *string  `yaml:"wax_type"`
	WaxPricePerPound       *float64 `yaml:"wax_price_per_pound"`
	FragrancePricePerPound *float64 `yaml:"fragrance_price_per_pound"`
	CementPricePerPound    *float64 `yaml:"cement_price_per_pound"`
	WickPriceEach          *float64 `yaml:"wick_price_each"`
	PaintPricePerVessel    *float64 `yaml:"paint_price_per_vessel"`
	FillPercent            *float64 `yaml:"fill_percent"`
	FragranceLoadPercent   *float64 `yaml:"fragrance_load_percent"`
}

// LoadMaterials reads material prices from a YAML file. Keys left out keep
// their default value. An empty path returns the defaults.
func LoadMaterials(path string) (costing.MaterialConfiguration, error) {
	cfg := costing.DefaultMaterialConfiguration()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read materials file: %w", err)
	}

	var f materialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return cfg, fmt.Errorf("parse materials file %s: %w", path, err)
	}

	if f.WaxType != nil {
		cfg.WaxType = costing.WaxType(*f.WaxType)
	}
	setFloat(&cfg.WaxPricePerPound, f.WaxPricePerPound)
	setFloat(&cfg.FragrancePricePerPound, f.FragrancePricePerPound)
	setFloat(&cfg.CementPricePerPound, f.CementPricePerPound)
	setFloat(&cfg.WickPriceEach, f.WickPriceEach)
	setFloat(&cfg.PaintPricePerVessel, f.PaintPricePerVessel)
	setFloat(&cfg.FillPercent, f.FillPercent)
	setFloat(&cfg.FragranceLoadPercent, f.FragranceLoadPercent)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("materials file %s: %w", path, err)
	}
	return cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
