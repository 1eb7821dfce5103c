package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventRepository implements engagement.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID with its planned menu
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Event, error) {
	var event engagement.Event
	if err := r.db.WithContext(ctx).
		Preload("MenuItems").
		First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindByIDForCompany finds an event by ID within a company
func (r *GormEventRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*engagement.Event, error) {
	var event engagement.Event
	if err := r.db.WithContext(ctx).
		Preload("MenuItems").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindByOutlet finds events of an outlet
func (r *GormEventRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]engagement.Event, error) {
	var events []engagement.Event
	query := r.db.WithContext(ctx).Model(&engagement.Event{}).
		Preload("MenuItems").
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "event_date DESC")

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindUpcoming finds pending or confirmed events on or after the given time
func (r *GormEventRepository) FindUpcoming(ctx context.Context, companyID, outletID uuid.UUID, after time.Time, filter shared.Filter) ([]engagement.Event, error) {
	var events []engagement.Event
	query := r.db.WithContext(ctx).Model(&engagement.Event{}).
		Preload("MenuItems").
		Where("company_id = ? AND outlet_id = ? AND event_date >= ? AND status IN ?",
			companyID, outletID, after,
			[]engagement.EventStatus{engagement.EventPending, engagement.EventConfirmed})
	query = applyFilter(query, filter, "event_date ASC")

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Save creates or updates an event together with its planned menu
func (r *GormEventRepository) Save(ctx context.Context, event *engagement.Event) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(event).Error
}

// SaveWithLock saves with optimistic locking (checks version). The planned
// menu is rewritten wholesale once the version guard has passed.
func (r *GormEventRepository) SaveWithLock(ctx context.Context, event *engagement.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&engagement.Event{}).
			Where("id = ? AND version = ?", event.ID, event.Version-1).
			Updates(map[string]interface{}{
				"customer_id":  event.CustomerID,
				"name":         event.Name,
				"event_date":   event.EventDate,
				"guest_count":  event.GuestCount,
				"total_amount": event.TotalAmount,
				"deposit":      event.Deposit,
				"status":       event.Status,
				"notes":        event.Notes,
				"version":      event.Version,
				"updated_at":   event.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrentModification
		}

		if err := tx.Delete(&engagement.EventMenuItem{}, "event_id = ?", event.ID).Error; err != nil {
			return err
		}
		if len(event.MenuItems) > 0 {
			if err := tx.Create(&event.MenuItems).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormEventRepository implements EventRepository
var _ engagement.EventRepository = (*GormEventRepository)(nil)
