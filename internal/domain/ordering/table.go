package ordering

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TableStatus is the occupancy state of a dining table
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table is a physical table in an outlet. A table holds at most one active
// order at a time; ActiveOrderID records which one.
type Table struct {
	shared.OutletAggregateRoot
	Number        string      `gorm:"not null;uniqueIndex:idx_table_number_outlet"`
	Capacity      int         `gorm:"not null;default:2"`
	Status        TableStatus `gorm:"not null;default:available"`
	ActiveOrderID *uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Table) TableName() string {
	return "tables"
}

// NewTable creates an available table in an outlet
func NewTable(companyID, outletID uuid.UUID, number string, capacity int) (*Table, error) {
	number = strings.TrimSpace(number)
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Table number cannot be empty")
	}
	if capacity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Table capacity must be positive")
	}
	return &Table{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		Number:              number,
		Capacity:            capacity,
		Status:              TableAvailable,
	}, nil
}

// Occupy claims the table for an order. A table already holding an active
// order refuses a second one.
func (t *Table) Occupy(orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Order ID is required")
	}
	if t.Status == TableOccupied {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Table already has an active order")
	}
	t.Status = TableOccupied
	t.ActiveOrderID = &orderID
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Release frees the table once its active order reaches a terminal state.
// Only the order currently holding the table may release it.
func (t *Table) Release(orderID uuid.UUID) error {
	if t.Status != TableOccupied || t.ActiveOrderID == nil {
		return shared.NewDomainError("INVALID_TRANSITION", "Table is not occupied")
	}
	if *t.ActiveOrderID != orderID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Table is held by a different order")
	}
	t.Status = TableAvailable
	t.ActiveOrderID = nil
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsAvailable reports whether the table can take a new order
func (t *Table) IsAvailable() bool {
	return t.Status == TableAvailable
}
