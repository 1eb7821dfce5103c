package inventory

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked good in one outlet's store. Quantity is the
// running balance derived from applied stock movements; it is never written
// directly.
type InventoryItem struct {
	shared.OutletAggregateRoot
	Name         string            `gorm:"not null;uniqueIndex:idx_inventory_item_name_outlet"`
	Unit         string            `gorm:"not null"` // kg, litre, piece
	Quantity     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerUnit  valueobject.Money `gorm:"type:decimal(18,4);not null"`
	SupplierID   *uuid.UUID        `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates an item with a zero balance
func NewInventoryItem(companyID, outletID uuid.UUID, name, unit string, costPerUnit valueobject.Money) (*InventoryItem, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item unit cannot be empty")
	}
	if costPerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cost per unit cannot be negative")
	}
	return &InventoryItem{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		Name:                name,
		Unit:                unit,
		Quantity:            decimal.Zero,
		ReorderPoint:        decimal.Zero,
		CostPerUnit:         costPerUnit,
	}, nil
}

// Apply folds a movement into the balance: in adds, out subtracts,
// adjustment sets. An out movement that would drive the balance negative
// fails without changing it. Apply must run inside the same transaction
// that persists the movement, under the optimistic-lock save.
func (i *InventoryItem) Apply(movement *StockMovement) error {
	if movement == nil {
		return shared.ErrNotFound
	}
	if movement.CompanyID != i.CompanyID {
		return shared.ErrTenantMismatch
	}
	if movement.InventoryItemID != i.ID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Movement targets a different item")
	}

	switch movement.Type {
	case MovementIn:
		i.Quantity = i.Quantity.Add(movement.Quantity)
	case MovementOut:
		next := i.Quantity.Sub(movement.Quantity)
		if next.IsNegative() {
			return shared.NewDomainError("INVARIANT_VIOLATION", "Stock balance cannot go negative")
		}
		i.Quantity = next
	case MovementAdjustment:
		i.Quantity = movement.Quantity
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}

	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetReorderPoint sets the threshold below which the item needs restocking
func (i *InventoryItem) SetReorderPoint(point decimal.Decimal) error {
	if point.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Reorder point cannot be negative")
	}
	i.ReorderPoint = point
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetCost updates the unit cost used for valuation
func (i *InventoryItem) SetCost(cost valueobject.Money) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Cost per unit cannot be negative")
	}
	i.CostPerUnit = cost
	i.Touch()
	i.IncrementVersion()
	return nil
}

// AssignSupplier links the item's preferred supplier
func (i *InventoryItem) AssignSupplier(supplier *Supplier) error {
	if supplier == nil {
		return shared.ErrNotFound
	}
	if supplier.CompanyID != i.CompanyID {
		return shared.ErrTenantMismatch
	}
	if !supplier.IsActive {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Supplier is inactive")
	}
	i.SupplierID = &supplier.ID
	i.Touch()
	i.IncrementVersion()
	return nil
}

// NeedsRestock reports whether the balance has fallen to the reorder point
func (i *InventoryItem) NeedsRestock() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderPoint)
}
