// Package production tracks production orders and their lifecycle.
package production

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is where an order sits in the production lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority orders the production queue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidOrder      = errors.New("invalid production order")
)

// allowed[from] lists the statuses an order may move to. Completed orders can
// only be reopened.
var allowed = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusPending},
	StatusCompleted:  {StatusPending},
}

// Order is a request to pour Quantity vessels of one style.
type Order struct {
	ID        string    `json:"id"`
	VesselID  string    `json:"vessel_id"`
	Quantity  int       `json:"quantity"`
	DueDate   string    `json:"due_date,omitempty"`
	Priority  Priority  `json:"priority"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrder returns a pending order with a fresh ID. An empty priority
// defaults to normal; dueDate, when set, must be YYYY-MM-DD.
func NewOrder(vesselID string, quantity int, dueDate string, priority Priority, notes string) (Order, error) {
	if strings.TrimSpace(vesselID) == "" {
		return Order{}, fmt.Errorf("%w: vessel_id is required", ErrInvalidOrder)
	}
	if quantity <= 0 {
		return Order{}, fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidOrder)
	}
	if dueDate != "" {
		if _, err := time.Parse(time.DateOnly, dueDate); err != nil {
			return Order{}, fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrInvalidOrder)
		}
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.Valid() {
		return Order{}, fmt.Errorf("%w: priority %q", ErrInvalidOrder, priority)
	}

	now := time.Now().UTC()
	return Order{
		ID:        uuid.NewString(),
		VesselID:  vesselID,
		Quantity:  quantity,
		DueDate:   dueDate,
		Priority:  priority,
		Status:    StatusPending,
		Notes:     strings.TrimSpace(notes),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Valid reports whether p is low, normal or high.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	_, ok := allowed[s]
	return ok
}

// Transition validates a status change.
func Transition(from, to Status) error {
	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
