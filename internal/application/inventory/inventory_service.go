package inventory

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService manages stock items, suppliers and the movement journal.
// Every balance change goes through a StockMovement so the journal replays
// to the current quantity.
type InventoryService struct {
	itemRepo     inventory.InventoryItemRepository
	supplierRepo inventory.SupplierRepository
	movementRepo inventory.StockMovementRepository
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	itemRepo inventory.InventoryItemRepository,
	supplierRepo inventory.SupplierRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		logger:       logger,
		validate:     validator.New(),
	}
}

// CreateItemInput contains input for creating an inventory item
type CreateItemInput struct {
	OutletID     uuid.UUID         `validate:"required"`
	Name         string            `validate:"required,max=160"`
	Unit         string            `validate:"required,max=32"`
	CostPerUnit  valueobject.Money `validate:"required"`
	ReorderPoint *decimal.Decimal  `validate:"-"`
	SupplierID   *uuid.UUID        `validate:"-"`
}

// CreateItem creates an inventory item. Names are unique per outlet.
func (s *InventoryService) CreateItem(ctx context.Context, companyID uuid.UUID, input CreateItemInput) (*inventory.InventoryItem, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	existing, err := s.itemRepo.FindByNameForOutlet(ctx, companyID, input.OutletID, input.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An item with this name already exists at the outlet")
	}

	item, err := inventory.NewInventoryItem(companyID, input.OutletID, input.Name, input.Unit, input.CostPerUnit)
	if err != nil {
		return nil, err
	}
	if input.ReorderPoint != nil {
		if err := item.SetReorderPoint(*input.ReorderPoint); err != nil {
			return nil, err
		}
	}
	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.FindByIDForCompany(ctx, companyID, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if err := item.AssignSupplier(supplier); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("inventory item created",
		zap.String("company_id", companyID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name))
	return item, nil
}

// RecordMovementInput contains input for recording a stock movement
type RecordMovementInput struct {
	ItemID     uuid.UUID       `validate:"required"`
	Type       string          `validate:"required,oneof=in out adjustment"`
	Quantity   decimal.Decimal `validate:"required"`
	Reason     string          `validate:"max=256"`
	Reference  string          `validate:"max=128"`
	RecordedBy *uuid.UUID      `validate:"-"`
}

// RecordMovement applies a movement to an item's balance. The balance and
// the journal entry commit in one transaction under the optimistic lock, so
// concurrent movements against the same item serialize: each retry re-reads
// the balance before re-checking that an outbound movement does not take it
// negative.
func (s *InventoryService) RecordMovement(ctx context.Context, companyID uuid.UUID, input RecordMovementInput) (*inventory.StockMovement, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var movement *inventory.StockMovement
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		item, err := s.itemRepo.FindByIDForCompany(ctx, companyID, input.ItemID)
		if err != nil {
			return err
		}
		movement, err = inventory.NewStockMovement(item, inventory.MovementType(input.Type), input.Quantity, input.Reason, input.Reference, input.RecordedBy)
		if err != nil {
			return err
		}
		if err := item.Apply(movement); err != nil {
			return err
		}
		return s.itemRepo.SaveWithMovement(ctx, item, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// SetReorderPoint updates the restock threshold for an item
func (s *InventoryService) SetReorderPoint(ctx context.Context, companyID, itemID uuid.UUID, point decimal.Decimal) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		item, err := s.itemRepo.FindByIDForCompany(ctx, companyID, itemID)
		if err != nil {
			return err
		}
		if err := item.SetReorderPoint(point); err != nil {
			return err
		}
		return s.itemRepo.SaveWithLock(ctx, item)
	})
}

// ItemsBelowReorderPoint lists items at an outlet due for restocking
func (s *InventoryService) ItemsBelowReorderPoint(ctx context.Context, companyID, outletID uuid.UUID) ([]inventory.InventoryItem, error) {
	return s.itemRepo.FindBelowReorderPoint(ctx, companyID, outletID)
}

// MovementHistory returns the movement journal for an item
func (s *InventoryService) MovementHistory(ctx context.Context, companyID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	if _, err := s.itemRepo.FindByIDForCompany(ctx, companyID, itemID); err != nil {
		return nil, err
	}
	return s.movementRepo.FindByItem(ctx, companyID, itemID, filter)
}

// CreateSupplierInput contains input for registering a supplier
type CreateSupplierInput struct {
	Name        string `validate:"required,max=160"`
	ContactName string `validate:"max=120"`
	PhoneNumber string `validate:"max=32"`
	Email       string `validate:"omitempty,email,max=160"`
	Address     string `validate:"max=512"`
}

// CreateSupplier registers a supplier for the company
func (s *InventoryService) CreateSupplier(ctx context.Context, companyID uuid.UUID, input CreateSupplierInput) (*inventory.Supplier, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	supplier, err := inventory.NewSupplier(companyID, input.Name, input.ContactName, input.PhoneNumber, input.Email, input.Address)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// AssignSupplier binds an item to its preferred supplier
func (s *InventoryService) AssignSupplier(ctx context.Context, companyID, itemID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForCompany(ctx, companyID, supplierID)
	if err != nil {
		return err
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		item, err := s.itemRepo.FindByIDForCompany(ctx, companyID, itemID)
		if err != nil {
			return err
		}
		if err := item.AssignSupplier(supplier); err != nil {
			return err
		}
		return s.itemRepo.SaveWithLock(ctx, item)
	})
}

// DeactivateSupplier retires a supplier; existing item links are kept for
// history but new assignments are refused.
func (s *InventoryService) DeactivateSupplier(ctx context.Context, companyID, supplierID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		supplier, err := s.supplierRepo.FindByIDForCompany(ctx, companyID, supplierID)
		if err != nil {
			return err
		}
		if err := supplier.Deactivate(); err != nil {
			return err
		}
		return s.supplierRepo.SaveWithLock(ctx, supplier)
	})
}
