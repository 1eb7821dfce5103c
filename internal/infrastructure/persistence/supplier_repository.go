package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements inventory.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	var supplier inventory.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByIDForCompany finds a supplier by ID within a company
func (r *GormSupplierRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.Supplier, error) {
	var supplier inventory.Supplier
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForCompany finds all suppliers of a company
func (r *GormSupplierRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Supplier, error) {
	var suppliers []inventory.Supplier
	query := r.db.WithContext(ctx).Model(&inventory.Supplier{}).Where("company_id = ?", companyID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact_name ILIKE ?", pattern, pattern)
	}
	query = applyFilter(query, filter, "name ASC")

	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *inventory.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormSupplierRepository) SaveWithLock(ctx context.Context, supplier *inventory.Supplier) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.Supplier{}).
		Where("id = ? AND version = ?", supplier.ID, supplier.Version-1).
		Updates(map[string]interface{}{
			"name":         supplier.Name,
			"contact_name": supplier.ContactName,
			"phone_number": supplier.PhoneNumber,
			"email":        supplier.Email,
			"address":      supplier.Address,
			"is_active":    supplier.IsActive,
			"version":      supplier.Version,
			"updated_at":   supplier.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ inventory.SupplierRepository = (*GormSupplierRepository)(nil)
