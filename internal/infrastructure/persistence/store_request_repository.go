package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRequestRepository implements inventory.StoreRequestRepository using GORM
type GormStoreRequestRepository struct {
	db *gorm.DB
}

// NewGormStoreRequestRepository creates a new GormStoreRequestRepository
func NewGormStoreRequestRepository(db *gorm.DB) *GormStoreRequestRepository {
	return &GormStoreRequestRepository{db: db}
}

// FindByID finds a store request by ID with its lines
func (r *GormStoreRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StoreRequest, error) {
	var request inventory.StoreRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByIDForCompany finds a store request by ID within a company
func (r *GormStoreRequestRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StoreRequest, error) {
	var request inventory.StoreRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByOutlet finds store requests raised by an outlet
func (r *GormStoreRequestRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]inventory.StoreRequest, error) {
	var requests []inventory.StoreRequest
	query := r.db.WithContext(ctx).Model(&inventory.StoreRequest{}).
		Preload("Items").
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindPendingForCompany finds requests awaiting approval across a company
func (r *GormStoreRequestRepository) FindPendingForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.StoreRequest, error) {
	var requests []inventory.StoreRequest
	query := r.db.WithContext(ctx).Model(&inventory.StoreRequest{}).
		Preload("Items").
		Where("company_id = ? AND status = ?", companyID, inventory.RequestPending)
	query = applyFilter(query, filter, "created_at ASC")

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a store request together with its lines
func (r *GormStoreRequestRepository) Save(ctx context.Context, request *inventory.StoreRequest) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(request).Error
}

// SaveWithLock saves with optimistic locking (checks version). Lines are
// rewritten wholesale once the version guard on the root row has passed.
func (r *GormStoreRequestRepository) SaveWithLock(ctx context.Context, request *inventory.StoreRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateRequestGuarded(tx, request)
	})
}

// SaveFulfillment commits one fulfillment as a unit: the request and its
// lines, the adjusted stock balances, and the journal entries. A version
// conflict on the request or on any item rolls back the whole write set.
func (r *GormStoreRequestRepository) SaveFulfillment(ctx context.Context, request *inventory.StoreRequest, items []*inventory.InventoryItem, movements []*inventory.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRequestGuarded(tx, request); err != nil {
			return err
		}
		for _, item := range items {
			if err := updateItemGuarded(tx, item); err != nil {
				return err
			}
		}
		for _, movement := range movements {
			if err := tx.Create(movement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func updateRequestGuarded(tx *gorm.DB, request *inventory.StoreRequest) error {
	result := tx.Model(&inventory.StoreRequest{}).
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Updates(map[string]interface{}{
			"destination_outlet_id": request.DestinationOutletID,
			"requested_by":          request.RequestedBy,
			"approved_by":           request.ApprovedBy,
			"status":                request.Status,
			"notes":                 request.Notes,
			"version":               request.Version,
			"updated_at":            request.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}

	if err := tx.Delete(&inventory.StoreRequestItem{}, "request_id = ?", request.ID).Error; err != nil {
		return err
	}
	if len(request.Items) > 0 {
		if err := tx.Create(&request.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormStoreRequestRepository implements StoreRequestRepository
var _ inventory.StoreRequestRepository = (*GormStoreRequestRepository)(nil)
