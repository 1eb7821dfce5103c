package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStaffGroupRepository implements identity.StaffGroupRepository using GORM
type GormStaffGroupRepository struct {
	db *gorm.DB
}

// NewGormStaffGroupRepository creates a new GormStaffGroupRepository
func NewGormStaffGroupRepository(db *gorm.DB) *GormStaffGroupRepository {
	return &GormStaffGroupRepository{db: db}
}

// FindByID finds a staff group by ID
func (r *GormStaffGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.StaffGroup, error) {
	var group identity.StaffGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByIDForCompany finds a staff group by ID within a company
func (r *GormStaffGroupRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.StaffGroup, error) {
	var group identity.StaffGroup
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAllForCompany finds all staff groups of a company
func (r *GormStaffGroupRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.StaffGroup, error) {
	var groups []identity.StaffGroup
	query := r.db.WithContext(ctx).Model(&identity.StaffGroup{}).Where("company_id = ?", companyID)
	query = applyFilter(query, filter, "name ASC")

	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Save creates or updates a staff group
func (r *GormStaffGroupRepository) Save(ctx context.Context, group *identity.StaffGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// DeleteForCompany deletes a staff group within a company. Staff rows keep a
// dangling group reference cleared here so nobody inherits stale permissions.
func (r *GormStaffGroupRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&identity.Staff{}).
			Where("company_id = ? AND staff_group_id = ?", companyID, id).
			Update("staff_group_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&identity.StaffGroup{}, "company_id = ? AND id = ?", companyID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormStaffGroupRepository implements StaffGroupRepository
var _ identity.StaffGroupRepository = (*GormStaffGroupRepository)(nil)
