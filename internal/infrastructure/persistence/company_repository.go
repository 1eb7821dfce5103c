package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/hospos/backend/internal/domain/analytics"
	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyDeletePolicy controls what Delete does when a company still owns
// descendant rows. The source system cascaded; restrict is the safer default.
type CompanyDeletePolicy string

const (
	// CompanyDeleteCascade removes the company and every row scoped to it in
	// one transaction.
	CompanyDeleteCascade CompanyDeletePolicy = "cascade"
	// CompanyDeleteRestrict rejects the delete while outlets or staff exist.
	CompanyDeleteRestrict CompanyDeletePolicy = "restrict"
)

// GormCompanyRepository implements identity.CompanyRepository using GORM
type GormCompanyRepository struct {
	db           *gorm.DB
	deletePolicy CompanyDeletePolicy
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB, deletePolicy CompanyDeletePolicy) *GormCompanyRepository {
	if deletePolicy == "" {
		deletePolicy = CompanyDeleteRestrict
	}
	return &GormCompanyRepository{db: db, deletePolicy: deletePolicy}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByName finds a company by its exact name (case-insensitive)
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCompanyRepository) SaveWithLock(ctx context.Context, company *identity.Company) error {
	result := r.db.WithContext(ctx).
		Model(&identity.Company{}).
		Where("id = ? AND version = ?", company.ID, company.Version-1).
		Updates(map[string]interface{}{
			"name":           company.Name,
			"address":        company.Address,
			"phone_number":   company.PhoneNumber,
			"email":          company.Email,
			"currency_code":  company.CurrencyCode,
			"is_active":      company.IsActive,
			"staff_count":    company.StaffCount,
			"outlet_count":   company.OutletCount,
			"deactivated_at": company.DeactivatedAt,
			"version":        company.Version,
			"updated_at":     company.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// ActiveCompanyIDs lists the IDs of all active companies, for jobs that
// iterate every tenant such as the nightly sales recompute.
func (r *GormCompanyRepository) ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&identity.Company{}).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes a company according to the configured delete policy
func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deletePolicy == CompanyDeleteRestrict {
		return r.deleteRestrict(ctx, id)
	}
	return r.deleteCascade(ctx, id)
}

func (r *GormCompanyRepository) deleteRestrict(ctx context.Context, id uuid.UUID) error {
	var outlets int64
	if err := r.db.WithContext(ctx).Model(&identity.Outlet{}).
		Where("company_id = ?", id).Count(&outlets).Error; err != nil {
		return err
	}
	if outlets > 0 {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Company still has outlets; delete them first or enable cascade")
	}

	var staff int64
	if err := r.db.WithContext(ctx).Model(&identity.Staff{}).
		Where("company_id = ?", id).Count(&staff).Error; err != nil {
		return err
	}
	if staff > 0 {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Company still has staff; delete them first or enable cascade")
	}

	result := r.db.WithContext(ctx).Delete(&identity.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCompanyRepository) deleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Child rows first, roots last, company itself at the end.
		scoped := []interface{}{
			&analytics.TopSellingItem{},
			&analytics.SalesByTime{},
			&analytics.SalesByCategory{},
			&analytics.CompanySalesData{},
			&engagement.Issue{},
			&engagement.Feedback{},
			&engagement.EventMenuItem{},
			&engagement.Event{},
			&engagement.Reservation{},
			&engagement.Customer{},
			&inventory.StoreRequestItem{},
			&inventory.StoreRequest{},
			&inventory.StockMovement{},
			&inventory.InventoryItem{},
			&inventory.Supplier{},
			&ordering.Payment{},
			&ordering.OrderItem{},
			&ordering.Order{},
			&ordering.MenuItemCategory{},
			&ordering.MenuItem{},
			&ordering.Category{},
			&ordering.Table{},
			&workforce.StaffPayroll{},
			&workforce.PayrollPeriod{},
			&workforce.PayrollSettings{},
			&workforce.LeaveBalance{},
			&workforce.LeaveApplication{},
			&workforce.AttendanceRecord{},
			&identity.Staff{},
			&identity.StaffGroup{},
			&identity.Outlet{},
		}
		for _, model := range scoped {
			if err := tx.Where("company_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&identity.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)
