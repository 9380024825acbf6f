package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/production"
)

const orderColumns = `id, vessel_id, quantity, COALESCE(due_date, ''), priority, status, COALESCE(notes, ''), created_at, updated_at`

// CreateOrder stores o together with the plan computed when it was placed.
func (s *Store) CreateOrder(ctx context.Context, o production.Order, planned costing.BatchPlan) error {
	snapshot, err := production.EncodePlan(planned)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO production_orders (id, vessel_id, quantity, due_date, priority, status, notes, plan_snapshot, created_at, updated_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, NULLIF(?, ''), ?, ?, ?)
	`, o.ID, o.VesselID, o.Quantity, o.DueDate, string(o.Priority), string(o.Status), o.Notes, snapshot, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (production.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM production_orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return o, fmt.Errorf("production order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return o, fmt.Errorf("query production order: %w", err)
	}
	return o, nil
}

// GetOrderPlan returns the plan recorded when the order was created.
func (s *Store) GetOrderPlan(ctx context.Context, id string) (costing.BatchPlan, error) {
	var snapshot []byte
	err := s.db.QueryRowContext(ctx, `SELECT plan_snapshot FROM production_orders WHERE id = ?`, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return costing.BatchPlan{}, fmt.Errorf("production order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return costing.BatchPlan{}, fmt.Errorf("query plan snapshot: %w", err)
	}
	return production.DecodePlan(snapshot)
}

// ListOrders returns orders, optionally filtered by status, soonest due first.
func (s *Store) ListOrders(ctx context.Context, status production.Status) ([]production.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM production_orders
		WHERE (? = '' OR status = ?)
		ORDER BY due_date IS NULL, due_date, created_at
	`, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("query production orders: %w", err)
	}
	defer rows.Close()

	orders := make([]production.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate production orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus applies a lifecycle transition.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, to production.Status) (production.Order, error) {
	var updated production.Order
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		o, err := scanOrder(tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM production_orders WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("production order %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("query production order: %w", err)
		}
		if err := production.Transition(o.Status, to); err != nil {
			return err
		}

		o.Status = to
		o.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
			UPDATE production_orders SET status = ?, updated_at = ? WHERE id = ?
		`, string(o.Status), o.UpdatedAt, o.ID); err != nil {
			return fmt.Errorf("update production order status: %w", err)
		}
		updated = o
		return nil
	})
	return updated, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (production.Order, error) {
	var o production.Order
	var priority, status string
	err := row.Scan(&o.ID, &o.VesselID, &o.Quantity, &o.DueDate, &priority, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	o.Priority = production.Priority(priority)
	o.Status = production.Status(status)
	return o, err
}
