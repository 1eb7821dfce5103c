package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuItemRepository implements ordering.MenuItemRepository using GORM
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewGormMenuItemRepository creates a new GormMenuItemRepository
func NewGormMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// FindByID finds a menu item by ID
func (r *GormMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.MenuItem, error) {
	var item ordering.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForCompany finds a menu item by ID within a company
func (r *GormMenuItemRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.MenuItem, error) {
	var item ordering.MenuItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByOutlet finds all menu items of an outlet
func (r *GormMenuItemRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.MenuItem, error) {
	var items []ordering.MenuItem
	query := r.db.WithContext(ctx).Model(&ordering.MenuItem{}).
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyFilter(query, filter, "name ASC")

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByCategory finds menu items linked to a category
func (r *GormMenuItemRepository) FindByCategory(ctx context.Context, companyID, categoryID uuid.UUID, filter shared.Filter) ([]ordering.MenuItem, error) {
	var items []ordering.MenuItem
	query := r.db.WithContext(ctx).Model(&ordering.MenuItem{}).
		Joins("JOIN menu_item_categories mic ON mic.menu_item_id = menu_items.id").
		Where("menu_items.company_id = ? AND mic.category_id = ?", companyID, categoryID)
	query = applyFilter(query, filter, "menu_items.name ASC")

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a menu item
func (r *GormMenuItemRepository) Save(ctx context.Context, item *ordering.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormMenuItemRepository) SaveWithLock(ctx context.Context, item *ordering.MenuItem) error {
	result := r.db.WithContext(ctx).
		Model(&ordering.MenuItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"name":         item.Name,
			"description":  item.Description,
			"price":        item.Price,
			"image_url":    item.ImageURL,
			"is_available": item.IsAvailable,
			"version":      item.Version,
			"updated_at":   item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// DeleteForCompany deletes a menu item and its category links
func (r *GormMenuItemRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ordering.MenuItemCategory{}, "company_id = ? AND menu_item_id = ?", companyID, id).Error; err != nil {
			return err
		}

		result := tx.Delete(&ordering.MenuItem{}, "company_id = ? AND id = ?", companyID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormMenuItemRepository implements MenuItemRepository
var _ ordering.MenuItemRepository = (*GormMenuItemRepository)(nil)
