package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStaffRepository implements identity.StaffRepository using GORM
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// FindByID finds a staff member by ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByIDForCompany finds a staff member by ID within a company
func (r *GormStaffRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByEmail finds a staff member by email within a company
func (r *GormStaffRepository) FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND email = ?", companyID, strings.ToLower(strings.TrimSpace(email))).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindAllForCompany finds all staff of a company
func (r *GormStaffRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	var staff []identity.Staff
	query := r.db.WithContext(ctx).Model(&identity.Staff{}).Where("company_id = ?", companyID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	query = applyFilter(query, filter, "full_name ASC")

	if err := query.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// FindByOutlet finds staff assigned to an outlet
func (r *GormStaffRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	var staff []identity.Staff
	query := r.db.WithContext(ctx).Model(&identity.Staff{}).
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "full_name ASC")

	if err := query.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// CountActiveForCompany counts active staff of a company
func (r *GormStaffRepository) CountActiveForCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Staff{}).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a staff member
func (r *GormStaffRepository) Save(ctx context.Context, staff *identity.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStaffRepository) SaveWithLock(ctx context.Context, staff *identity.Staff) error {
	result := r.db.WithContext(ctx).
		Model(&identity.Staff{}).
		Where("id = ? AND version = ?", staff.ID, staff.Version-1).
		Updates(map[string]interface{}{
			"email":              staff.Email,
			"full_name":          staff.FullName,
			"phone_number":       staff.PhoneNumber,
			"role":               staff.Role,
			"department":         staff.Department,
			"outlet_id":          staff.OutletID,
			"staff_group_id":     staff.StaffGroupID,
			"password_hash":      staff.PasswordHash,
			"notification_token": staff.NotificationToken,
			"is_active":          staff.IsActive,
			"deactivated_at":     staff.DeactivatedAt,
			"version":            staff.Version,
			"updated_at":         staff.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormStaffRepository implements StaffRepository
var _ identity.StaffRepository = (*GormStaffRepository)(nil)
