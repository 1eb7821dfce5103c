package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements ordering.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Category, error) {
	var category ordering.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByIDForCompany finds a category by ID within a company
func (r *GormCategoryRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.Category, error) {
	var category ordering.Category
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllForCompany finds all categories of a company
func (r *GormCategoryRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ordering.Category, error) {
	var categories []ordering.Category
	query := r.db.WithContext(ctx).Model(&ordering.Category{}).Where("company_id = ?", companyID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyFilter(query, filter, "name ASC")

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *ordering.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCategoryRepository) SaveWithLock(ctx context.Context, category *ordering.Category) error {
	result := r.db.WithContext(ctx).
		Model(&ordering.Category{}).
		Where("id = ? AND version = ?", category.ID, category.Version-1).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"is_active":   category.IsActive,
			"version":     category.Version,
			"updated_at":  category.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// LinkMenuItem inserts a menu item/category link. Linking the same pair
// twice is a no-op rather than an error.
func (r *GormCategoryRepository) LinkMenuItem(ctx context.Context, link *ordering.MenuItemCategory) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
}

// UnlinkMenuItem removes a menu item/category link
func (r *GormCategoryRepository) UnlinkMenuItem(ctx context.Context, menuItemID, categoryID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&ordering.MenuItemCategory{}, "menu_item_id = ? AND category_id = ?", menuItemID, categoryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindLinksForMenuItem finds the category links of one menu item
func (r *GormCategoryRepository) FindLinksForMenuItem(ctx context.Context, companyID, menuItemID uuid.UUID) ([]ordering.MenuItemCategory, error) {
	var links []ordering.MenuItemCategory
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND menu_item_id = ?", companyID, menuItemID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindAllLinksForCompany finds every menu item/category link of a company.
// The analytics recompute loads these once instead of per order line.
func (r *GormCategoryRepository) FindAllLinksForCompany(ctx context.Context, companyID uuid.UUID) ([]ordering.MenuItemCategory, error) {
	var links []ordering.MenuItemCategory
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ ordering.CategoryRepository = (*GormCategoryRepository)(nil)
