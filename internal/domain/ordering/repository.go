package ordering

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TableRepository persists Table aggregates
type TableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Table, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Table, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Table, error)
	FindAvailableByOutlet(ctx context.Context, companyID, outletID uuid.UUID) ([]Table, error)
	Save(ctx context.Context, table *Table) error
	SaveWithLock(ctx context.Context, table *Table) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// CategoryRepository persists Category aggregates and the menu item links
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Category, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	SaveWithLock(ctx context.Context, category *Category) error
	LinkMenuItem(ctx context.Context, link *MenuItemCategory) error
	UnlinkMenuItem(ctx context.Context, menuItemID, categoryID uuid.UUID) error
	FindLinksForMenuItem(ctx context.Context, companyID, menuItemID uuid.UUID) ([]MenuItemCategory, error)
	FindAllLinksForCompany(ctx context.Context, companyID uuid.UUID) ([]MenuItemCategory, error)
}

// MenuItemRepository persists MenuItem aggregates
type MenuItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*MenuItem, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]MenuItem, error)
	FindByCategory(ctx context.Context, companyID, categoryID uuid.UUID, filter shared.Filter) ([]MenuItem, error)
	Save(ctx context.Context, item *MenuItem) error
	SaveWithLock(ctx context.Context, item *MenuItem) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// OrderRepository persists Order aggregates with their lines and payments
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Order, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindActiveByTable(ctx context.Context, companyID, tableID uuid.UUID) (*Order, error)
	FindByStatus(ctx context.Context, companyID, outletID uuid.UUID, status OrderStatus, filter shared.Filter) ([]Order, error)
	FindForCompanyInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]Order, error)
	Save(ctx context.Context, order *Order) error
	SaveWithLock(ctx context.Context, order *Order) error
}
