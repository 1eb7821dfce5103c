package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements inventory.InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForCompany finds an inventory item by ID within a company
func (r *GormInventoryItemRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
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

// FindByOutlet finds all inventory items of an outlet
func (r *GormInventoryItemRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
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

// FindByNameForOutlet finds an inventory item by name within one outlet.
// Names match case-insensitively; inter-outlet transfers rely on this to
// locate the receiving row.
func (r *GormInventoryItemRepository) FindByNameForOutlet(ctx context.Context, companyID, outletID uuid.UUID, name string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND outlet_id = ? AND LOWER(name) = ?",
			companyID, outletID, strings.ToLower(strings.TrimSpace(name))).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBelowReorderPoint finds items whose balance is at or below the reorder point
func (r *GormInventoryItemRepository) FindBelowReorderPoint(ctx context.Context, companyID, outletID uuid.UUID) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND outlet_id = ? AND reorder_point > 0 AND quantity <= reorder_point",
			companyID, outletID).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version). Concurrent
// movements against the same item serialize on this guard.
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	return updateItemGuarded(r.db.WithContext(ctx), item)
}

// SaveWithMovement commits the new item balance and its journal entry in one
// transaction: a version conflict or a failed insert rolls back both rows.
func (r *GormInventoryItemRepository) SaveWithMovement(ctx context.Context, item *inventory.InventoryItem, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateItemGuarded(tx, item); err != nil {
			return err
		}
		return tx.Create(movement).Error
	})
}

func updateItemGuarded(tx *gorm.DB, item *inventory.InventoryItem) error {
	result := tx.
		Model(&inventory.InventoryItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"name":          item.Name,
			"unit":          item.Unit,
			"quantity":      item.Quantity,
			"reorder_point": item.ReorderPoint,
			"cost_per_unit": item.CostPerUnit,
			"supplier_id":   item.SupplierID,
			"version":       item.Version,
			"updated_at":    item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. Movements are append-only: there is no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a stock movement by ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	var movement inventory.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByItem finds the movement journal of one item, newest first
func (r *GormStockMovementRepository) FindByItem(ctx context.Context, companyID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("company_id = ? AND inventory_item_id = ?", companyID, itemID)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByItemInRange finds movements of one item recorded in [from, to)
func (r *GormStockMovementRepository) FindByItemInRange(ctx context.Context, companyID, itemID uuid.UUID, from, to time.Time) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND inventory_item_id = ? AND created_at >= ? AND created_at < ?",
			companyID, itemID, from, to).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Save appends a stock movement to the journal
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
