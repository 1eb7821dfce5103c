package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ordering.OrderRepository using GORM.
// Orders load with their lines and payments; writes replace the child rows
// inside the same transaction that bumps the root version.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its lines and payments
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForCompany finds an order by ID within a company
func (r *GormOrderRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOutlet finds orders of an outlet
func (r *GormOrderRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).
		Preload("Items").
		Preload("Payments").
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindActiveByTable finds the non-terminal order currently holding a table
func (r *GormOrderRepository) FindActiveByTable(ctx context.Context, companyID, tableID uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("company_id = ? AND table_id = ? AND status NOT IN ?",
			companyID, tableID, []ordering.OrderStatus{ordering.OrderCompleted, ordering.OrderCancelled}).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByStatus finds orders of an outlet in a given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, companyID, outletID uuid.UUID, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).
		Preload("Items").
		Preload("Payments").
		Where("company_id = ? AND outlet_id = ? AND status = ?", companyID, outletID, status)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindForCompanyInRange finds orders created in [from, to) across all outlets
// of a company. The analytics recompute reads a day at a time through this.
func (r *GormOrderRepository) FindForCompanyInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]ordering.Order, error) {
	var orders []ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("company_id = ? AND created_at >= ? AND created_at < ?", companyID, from, to).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order together with its lines and payments
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// SaveWithLock saves with optimistic locking (checks version). Lines and
// payments are snapshots of the aggregate, so they are rewritten wholesale
// once the version guard on the root row has passed.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ordering.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"table_id":      order.TableID,
				"table_number":  order.TableNumber,
				"handler_id":    order.HandlerID,
				"customer_id":   order.CustomerID,
				"guest_name":    order.GuestName,
				"notes":         order.Notes,
				"split_from_id": order.SplitFromID,
				"status":        order.Status,
				"total":         order.Total,
				"version":       order.Version,
				"updated_at":    order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrentModification
		}

		if err := tx.Delete(&ordering.OrderItem{}, "order_id = ?", order.ID).Error; err != nil {
			return err
		}
		if len(order.Items) > 0 {
			if err := tx.Create(&order.Items).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&ordering.Payment{}, "order_id = ?", order.ID).Error; err != nil {
			return err
		}
		if len(order.Payments) > 0 {
			if err := tx.Create(&order.Payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
