package inventory

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies how a stock movement changes the balance
type MovementType string

const (
	MovementIn         MovementType = "in"         // receipt, adds quantity
	MovementOut        MovementType = "out"        // issue, subtracts quantity
	MovementAdjustment MovementType = "adjustment" // count correction, sets quantity
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is an append-only record of one balance change against an
// inventory item. The item's quantity is only ever changed by applying a
// movement; movements are never edited after the fact.
type StockMovement struct {
	shared.BaseEntity
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OutletID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            MovementType    `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason          string
	Reference       string     // store request, supplier invoice, count sheet
	RecordedBy      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a movement against an item. Quantities are
// magnitudes for in/out and the target balance for an adjustment.
func NewStockMovement(item *InventoryItem, movementType MovementType, quantity decimal.Decimal, reason, reference string, recordedBy *uuid.UUID) (*StockMovement, error) {
	if item == nil {
		return nil, shared.ErrNotFound
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}
	if movementType != MovementAdjustment && !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement quantity must be positive")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement quantity cannot be negative")
	}
	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		CompanyID:       item.CompanyID,
		OutletID:        item.OutletID,
		InventoryItemID: item.ID,
		Type:            movementType,
		Quantity:        quantity,
		Reason:          strings.TrimSpace(reason),
		Reference:       strings.TrimSpace(reference),
		RecordedBy:      recordedBy,
	}, nil
}
