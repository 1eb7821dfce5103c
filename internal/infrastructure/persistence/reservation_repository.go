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

// GormReservationRepository implements engagement.ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Reservation, error) {
	var reservation engagement.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindByIDForCompany finds a reservation by ID within a company
func (r *GormReservationRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*engagement.Reservation, error) {
	var reservation engagement.Reservation
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindByOutlet finds reservations of an outlet
func (r *GormReservationRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]engagement.Reservation, error) {
	var reservations []engagement.Reservation
	query := r.db.WithContext(ctx).Model(&engagement.Reservation{}).
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "start_time ASC")

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindForTableInWindow finds pending or confirmed reservations against a
// table whose window overlaps [start, end). Cancelled and completed rows do
// not block a table.
func (r *GormReservationRepository) FindForTableInWindow(ctx context.Context, companyID, tableID uuid.UUID, start, end time.Time) ([]engagement.Reservation, error) {
	var reservations []engagement.Reservation
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND table_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			companyID, tableID,
			[]engagement.ReservationStatus{engagement.ReservationPending, engagement.ReservationConfirmed},
			end, start).
		Order("start_time ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByCustomer finds reservations of one customer
func (r *GormReservationRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]engagement.Reservation, error) {
	var reservations []engagement.Reservation
	query := r.db.WithContext(ctx).Model(&engagement.Reservation{}).
		Where("company_id = ? AND customer_id = ?", companyID, customerID)
	query = applyFilter(query, filter, "start_time DESC")

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Save creates or updates a reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *engagement.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormReservationRepository) SaveWithLock(ctx context.Context, reservation *engagement.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(&engagement.Reservation{}).
		Where("id = ? AND version = ?", reservation.ID, reservation.Version-1).
		Updates(map[string]interface{}{
			"customer_id": reservation.CustomerID,
			"table_id":    reservation.TableID,
			"party_size":  reservation.PartySize,
			"start_time":  reservation.StartTime,
			"end_time":    reservation.EndTime,
			"status":      reservation.Status,
			"notes":       reservation.Notes,
			"version":     reservation.Version,
			"updated_at":  reservation.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormReservationRepository implements ReservationRepository
var _ engagement.ReservationRepository = (*GormReservationRepository)(nil)
