package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTableRepository implements ordering.TableRepository using GORM
type GormTableRepository struct {
	db *gorm.DB
}

// NewGormTableRepository creates a new GormTableRepository
func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

// FindByID finds a table by ID
func (r *GormTableRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Table, error) {
	var table ordering.Table
	if err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// FindByIDForCompany finds a table by ID within a company
func (r *GormTableRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.Table, error) {
	var table ordering.Table
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// FindByOutlet finds all tables of an outlet
func (r *GormTableRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.Table, error) {
	var tables []ordering.Table
	query := r.db.WithContext(ctx).Model(&ordering.Table{}).
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "number ASC")

	if err := query.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// FindAvailableByOutlet finds tables without an active order
func (r *GormTableRepository) FindAvailableByOutlet(ctx context.Context, companyID, outletID uuid.UUID) ([]ordering.Table, error) {
	var tables []ordering.Table
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND outlet_id = ? AND status = ?", companyID, outletID, ordering.TableAvailable).
		Order("number ASC").
		Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// Save creates or updates a table
func (r *GormTableRepository) Save(ctx context.Context, table *ordering.Table) error {
	return r.db.WithContext(ctx).Save(table).Error
}

// SaveWithLock saves with optimistic locking (checks version). Two waiters
// seating the same table race on this guard; the loser retries.
func (r *GormTableRepository) SaveWithLock(ctx context.Context, table *ordering.Table) error {
	result := r.db.WithContext(ctx).
		Model(&ordering.Table{}).
		Where("id = ? AND version = ?", table.ID, table.Version-1).
		Updates(map[string]interface{}{
			"number":          table.Number,
			"capacity":        table.Capacity,
			"status":          table.Status,
			"active_order_id": table.ActiveOrderID,
			"version":         table.Version,
			"updated_at":      table.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// DeleteForCompany deletes a table within a company
func (r *GormTableRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.Table{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTableRepository implements TableRepository
var _ ordering.TableRepository = (*GormTableRepository)(nil)
