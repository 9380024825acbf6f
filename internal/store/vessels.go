package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/candle.works/internal/costing"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateVessel validates and inserts v, assigning an ID when empty.
func (s *Store) CreateVessel(ctx context.Context, v costing.VesselGeometry) (costing.VesselGeometry, error) {
	return insertVessel(ctx, s.db, v)
}

// CreateVessels inserts all vessels in one transaction.
func (s *Store) CreateVessels(ctx context.Context, vessels []costing.VesselGeometry) ([]costing.VesselGeometry, error) {
	created := make([]costing.VesselGeometry, 0, len(vessels))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, v := range vessels {
			c, err := insertVessel(ctx, tx, v)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func insertVessel(ctx context.Context, ex execer, v costing.VesselGeometry) (costing.VesselGeometry, error) {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return v, fmt.Errorf("%w: name is required", costing.ErrInvalidGeometry)
	}
	if err := v.Validate(); err != nil {
		return v, err
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	if _, err := ex.ExecContext(ctx, `
		INSERT INTO vessels (id, name, diameter, height, unit)
		VALUES (?, ?, ?, ?, ?)
	`, v.ID, v.Name, v.Diameter, v.Height, string(v.Unit)); err != nil {
		return v, fmt.Errorf("insert vessel: %w", err)
	}
	return v, nil
}

func (s *Store) GetVessel(ctx context.Context, id string) (costing.VesselGeometry, error) {
	var v costing.VesselGeometry
	var unit string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, diameter, height, unit
		FROM vessels
		WHERE id = ?
	`, id).Scan(&v.ID, &v.Name, &v.Diameter, &v.Height, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("vessel %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return v, fmt.Errorf("query vessel: %w", err)
	}
	v.Unit = costing.Unit(unit)
	return v, nil
}

func (s *Store) ListVessels(ctx context.Context) ([]costing.VesselGeometry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, diameter, height, unit
		FROM vessels
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query vessels: %w", err)
	}
	defer rows.Close()

	vessels := make([]costing.VesselGeometry, 0)
	for rows.Next() {
		var v costing.VesselGeometry
		var unit string
		if err := rows.Scan(&v.ID, &v.Name, &v.Diameter, &v.Height, &unit); err != nil {
			return nil, fmt.Errorf("scan vessel: %w", err)
		}
		v.Unit = costing.Unit(unit)
		vessels = append(vessels, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vessels: %w", err)
	}

	return vessels, nil
}

// DeleteVessel removes a vessel that no production order refers to.
func (s *Store) DeleteVessel(ctx context.Context, id string) error {
	var orders int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM production_orders WHERE vessel_id = ?`, id).Scan(&orders); err != nil {
		return fmt.Errorf("count vessel orders: %w", err)
	}
	if orders > 0 {
		return fmt.Errorf("vessel %s has %d production orders: %w", id, orders, ErrVesselInUse)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM vessels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vessel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vessel: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vessel %s: %w", id, ErrNotFound)
	}
	return nil
}
