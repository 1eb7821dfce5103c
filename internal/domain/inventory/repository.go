package inventory

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository persists Supplier aggregates
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Supplier, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	SaveWithLock(ctx context.Context, supplier *Supplier) error
}

// InventoryItemRepository persists InventoryItem aggregates
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*InventoryItem, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)
	FindByNameForOutlet(ctx context.Context, companyID, outletID uuid.UUID, name string) (*InventoryItem, error)
	FindBelowReorderPoint(ctx context.Context, companyID, outletID uuid.UUID) ([]InventoryItem, error)
	Save(ctx context.Context, item *InventoryItem) error
	SaveWithLock(ctx context.Context, item *InventoryItem) error
	SaveWithMovement(ctx context.Context, item *InventoryItem, movement *StockMovement) error
}

// StockMovementRepository persists the append-only movement journal
type StockMovementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	FindByItem(ctx context.Context, companyID, itemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	FindByItemInRange(ctx context.Context, companyID, itemID uuid.UUID, from, to time.Time) ([]StockMovement, error)
	Save(ctx context.Context, movement *StockMovement) error
}

// StoreRequestRepository persists StoreRequest aggregates with their lines
type StoreRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StoreRequest, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*StoreRequest, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]StoreRequest, error)
	FindPendingForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]StoreRequest, error)
	Save(ctx context.Context, request *StoreRequest) error
	SaveWithLock(ctx context.Context, request *StoreRequest) error
	SaveFulfillment(ctx context.Context, request *StoreRequest, items []*InventoryItem, movements []*StockMovement) error
}
