package ordering

import (
	"context"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the sellable catalog: menu items, categories and
// the link rows between them, plus the outlet's floor tables.
type CatalogService struct {
	menuRepo     ordering.MenuItemRepository
	categoryRepo ordering.CategoryRepository
	tableRepo    ordering.TableRepository
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	menuRepo ordering.MenuItemRepository,
	categoryRepo ordering.CategoryRepository,
	tableRepo ordering.TableRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
		tableRepo:    tableRepo,
		logger:       logger,
		validate:     validator.New(),
	}
}

// CreateMenuItemInput contains input for creating a menu item
type CreateMenuItemInput struct {
	OutletID    uuid.UUID         `validate:"required"`
	Name        string            `validate:"required,max=160"`
	Description string            `validate:"max=1024"`
	Price       valueobject.Money `validate:"required"`
	ImageURL    string            `validate:"omitempty,url,max=512"`
	CategoryIDs []uuid.UUID       `validate:"max=16"`
}

// CreateMenuItem creates a menu item and links it to the given categories
func (s *CatalogService) CreateMenuItem(ctx context.Context, companyID uuid.UUID, input CreateMenuItemInput) (*ordering.MenuItem, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	item, err := ordering.NewMenuItem(companyID, input.OutletID, input.Name, input.Description, input.Price)
	if err != nil {
		return nil, err
	}
	if input.ImageURL != "" {
		if err := item.UpdateDetails(input.Name, input.Description, input.ImageURL); err != nil {
			return nil, err
		}
	}
	if err := s.menuRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	for _, categoryID := range input.CategoryIDs {
		if err := s.linkItemToCategory(ctx, companyID, item, categoryID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("menu item created",
		zap.String("company_id", companyID.String()),
		zap.String("menu_item_id", item.ID.String()),
		zap.String("name", item.Name))
	return item, nil
}

// SetMenuItemPrice reprices an item. Lines already on open orders keep the
// price captured when they were added.
func (s *CatalogService) SetMenuItemPrice(ctx context.Context, companyID, menuItemID uuid.UUID, price valueobject.Money) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		item, err := s.menuRepo.FindByIDForCompany(ctx, companyID, menuItemID)
		if err != nil {
			return err
		}
		if err := item.SetPrice(price); err != nil {
			return err
		}
		return s.menuRepo.SaveWithLock(ctx, item)
	})
}

// SetMenuItemAvailability toggles whether an item can be ordered
func (s *CatalogService) SetMenuItemAvailability(ctx context.Context, companyID, menuItemID uuid.UUID, available bool) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		item, err := s.menuRepo.FindByIDForCompany(ctx, companyID, menuItemID)
		if err != nil {
			return err
		}
		item.SetAvailability(available)
		return s.menuRepo.SaveWithLock(ctx, item)
	})
}

// CreateCategoryInput contains input for creating a category
type CreateCategoryInput struct {
	Name        string `validate:"required,max=120"`
	Description string `validate:"max=512"`
}

// CreateCategory creates a menu category
func (s *CatalogService) CreateCategory(ctx context.Context, companyID uuid.UUID, input CreateCategoryInput) (*ordering.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	category, err := ordering.NewCategory(companyID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// LinkMenuItemToCategory attaches an item to a category
func (s *CatalogService) LinkMenuItemToCategory(ctx context.Context, companyID, menuItemID, categoryID uuid.UUID) error {
	item, err := s.menuRepo.FindByIDForCompany(ctx, companyID, menuItemID)
	if err != nil {
		return err
	}
	return s.linkItemToCategory(ctx, companyID, item, categoryID)
}

func (s *CatalogService) linkItemToCategory(ctx context.Context, companyID uuid.UUID, item *ordering.MenuItem, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForCompany(ctx, companyID, categoryID)
	if err != nil {
		return err
	}
	link, err := ordering.NewMenuItemCategory(item, category)
	if err != nil {
		return err
	}
	return s.categoryRepo.LinkMenuItem(ctx, link)
}

// UnlinkMenuItemFromCategory detaches an item from a category
func (s *CatalogService) UnlinkMenuItemFromCategory(ctx context.Context, companyID, menuItemID, categoryID uuid.UUID) error {
	if _, err := s.menuRepo.FindByIDForCompany(ctx, companyID, menuItemID); err != nil {
		return err
	}
	return s.categoryRepo.UnlinkMenuItem(ctx, menuItemID, categoryID)
}

// CreateTableInput contains input for creating a table
type CreateTableInput struct {
	OutletID uuid.UUID `validate:"required"`
	Number   string    `validate:"required,max=32"`
	Capacity int       `validate:"required,min=1,max=64"`
}

// CreateTable registers a floor table for an outlet
func (s *CatalogService) CreateTable(ctx context.Context, companyID uuid.UUID, input CreateTableInput) (*ordering.Table, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	table, err := ordering.NewTable(companyID, input.OutletID, input.Number, input.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.tableRepo.Save(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// ListAvailableTables lists tables free to seat at an outlet
func (s *CatalogService) ListAvailableTables(ctx context.Context, companyID, outletID uuid.UUID) ([]ordering.Table, error) {
	return s.tableRepo.FindAvailableByOutlet(ctx, companyID, outletID)
}
