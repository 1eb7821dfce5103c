package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOutletRepository implements identity.OutletRepository using GORM
type GormOutletRepository struct {
	db *gorm.DB
}

// NewGormOutletRepository creates a new GormOutletRepository
func NewGormOutletRepository(db *gorm.DB) *GormOutletRepository {
	return &GormOutletRepository{db: db}
}

// FindByID finds an outlet by its ID
func (r *GormOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Outlet, error) {
	var outlet identity.Outlet
	if err := r.db.WithContext(ctx).First(&outlet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &outlet, nil
}

// FindByIDForCompany finds an outlet by ID within a company
func (r *GormOutletRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.Outlet, error) {
	var outlet identity.Outlet
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&outlet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &outlet, nil
}

// FindAllForCompany finds all outlets of a company
func (r *GormOutletRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Outlet, error) {
	var outlets []identity.Outlet
	query := r.db.WithContext(ctx).Model(&identity.Outlet{}).Where("company_id = ?", companyID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyFilter(query, filter, "name ASC")

	if err := query.Find(&outlets).Error; err != nil {
		return nil, err
	}
	return outlets, nil
}

// Save creates or updates an outlet
func (r *GormOutletRepository) Save(ctx context.Context, outlet *identity.Outlet) error {
	return r.db.WithContext(ctx).Save(outlet).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormOutletRepository) SaveWithLock(ctx context.Context, outlet *identity.Outlet) error {
	result := r.db.WithContext(ctx).
		Model(&identity.Outlet{}).
		Where("id = ? AND version = ?", outlet.ID, outlet.Version-1).
		Updates(map[string]interface{}{
			"name":           outlet.Name,
			"type":           outlet.Type,
			"address":        outlet.Address,
			"manager_id":     outlet.ManagerID,
			"is_active":      outlet.IsActive,
			"deactivated_at": outlet.DeactivatedAt,
			"version":        outlet.Version,
			"updated_at":     outlet.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// DeleteForCompany deletes an outlet within a company
func (r *GormOutletRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Outlet{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormOutletRepository implements OutletRepository
var _ identity.OutletRepository = (*GormOutletRepository)(nil)
