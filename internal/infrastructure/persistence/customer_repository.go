package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements engagement.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Customer, error) {
	var customer engagement.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByIDForCompany finds a customer by ID within a company
func (r *GormCustomerRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*engagement.Customer, error) {
	var customer engagement.Customer
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByPhone finds a customer by phone number within a company
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, companyID uuid.UUID, phoneNumber string) (*engagement.Customer, error) {
	var customer engagement.Customer
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND phone_number = ?", companyID, strings.TrimSpace(phoneNumber)).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAllForCompany finds all customers of a company
func (r *GormCustomerRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]engagement.Customer, error) {
	var customers []engagement.Customer
	query := r.db.WithContext(ctx).Model(&engagement.Customer{}).Where("company_id = ?", companyID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone_number ILIKE ?", pattern, pattern)
	}
	query = applyFilter(query, filter, "full_name ASC")

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *engagement.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *engagement.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&engagement.Customer{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Updates(map[string]interface{}{
			"full_name":    customer.FullName,
			"phone_number": customer.PhoneNumber,
			"email":        customer.Email,
			"notes":        customer.Notes,
			"is_active":    customer.IsActive,
			"version":      customer.Version,
			"updated_at":   customer.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ engagement.CustomerRepository = (*GormCustomerRepository)(nil)
