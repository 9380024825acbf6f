package costing

import (
	"fmt"
	"math"
)

// Unit is the length unit vessel dimensions are recorded in.
type Unit string

const (
	UnitInches      Unit = "in"
	UnitCentimeters Unit = "cm"
)

// CmPerInch converts inches to centimeters.
const CmPerInch = 2.54

// VesselGeometry is the reference shape of one vessel style.
type VesselGeometry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Diameter float64 `json:"diameter"`
	Height   float64 `json:"height"`
	Unit     Unit    `json:"unit"`
}

// Valid reports whether u is a supported unit.
func (u Unit) Valid() bool {
	return u == UnitInches || u == UnitCentimeters
}

// Validate checks dimensions and unit.
func (g VesselGeometry) Validate() error {
	return validateDimensions(g.Diameter, g.Height, g.Unit)
}

// DiameterInches returns the diameter expressed in inches.
func (g VesselGeometry) DiameterInches() float64 {
	if g.Unit == UnitCentimeters {
		return g.Diameter / CmPerInch
	}
	return g.Diameter
}

// Volume returns the vessel volume in cubic centimeters. Every vessel is
// approximated as a right cylinder, including bowls and ribbed jars.
func Volume(diameter, height float64, unit Unit) (float64, error) {
	if err := validateDimensions(diameter, height, unit); err != nil {
		return 0, err
	}

	if unit == UnitInches {
		diameter *= CmPerInch
		height *= CmPerInch
	}

	radius := diameter / 2
	return math.Pi * radius * radius * height, nil
}

func validateDimensions(diameter, height float64, unit Unit) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: unit %q is not one of in, cm", ErrInvalidGeometry, unit)
	}
	if !(diameter > 0) || math.IsInf(diameter, 0) {
		return fmt.Errorf("%w: diameter must be greater than 0, got %v", ErrInvalidGeometry, diameter)
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: height must be greater than 0, got %v", ErrInvalidGeometry, height)
	}
	return nil
}
