package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttendanceRepository implements workforce.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindByID finds an attendance record by ID
func (r *GormAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.AttendanceRecord, error) {
	var record workforce.AttendanceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForCompany finds an attendance record by ID within a company
func (r *GormAttendanceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*workforce.AttendanceRecord, error) {
	var record workforce.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByStaffAndDay finds the one record a staff member has for a calendar day
func (r *GormAttendanceRepository) FindByStaffAndDay(ctx context.Context, companyID, staffID uuid.UUID, day time.Time) (*workforce.AttendanceRecord, error) {
	var record workforce.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND staff_id = ? AND day = ?", companyID, staffID, day).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByStaffInRange finds a staff member's records with day in [from, to)
func (r *GormAttendanceRepository) FindByStaffInRange(ctx context.Context, companyID, staffID uuid.UUID, from, to time.Time) ([]workforce.AttendanceRecord, error) {
	var records []workforce.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND staff_id = ? AND day >= ? AND day < ?", companyID, staffID, from, to).
		Order("day ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindForCompanyOnDay finds all attendance records of a company for one day
func (r *GormAttendanceRepository) FindForCompanyOnDay(ctx context.Context, companyID uuid.UUID, day time.Time, filter shared.Filter) ([]workforce.AttendanceRecord, error) {
	var records []workforce.AttendanceRecord
	query := r.db.WithContext(ctx).Model(&workforce.AttendanceRecord{}).
		Where("company_id = ? AND day = ?", companyID, day)
	query = applyFilter(query, filter, "created_at ASC")

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates an attendance record
func (r *GormAttendanceRepository) Save(ctx context.Context, record *workforce.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormAttendanceRepository) SaveWithLock(ctx context.Context, record *workforce.AttendanceRecord) error {
	result := r.db.WithContext(ctx).
		Model(&workforce.AttendanceRecord{}).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"check_in_time":  record.CheckInTime,
			"check_out_time": record.CheckOutTime,
			"status":         record.Status,
			"overtime_hours": record.OvertimeHours,
			"night_shift":    record.NightShift,
			"version":        record.Version,
			"updated_at":     record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormAttendanceRepository implements AttendanceRepository
var _ workforce.AttendanceRepository = (*GormAttendanceRepository)(nil)
