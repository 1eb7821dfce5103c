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

// GormPayrollSettingsRepository implements workforce.PayrollSettingsRepository using GORM
type GormPayrollSettingsRepository struct {
	db *gorm.DB
}

// NewGormPayrollSettingsRepository creates a new GormPayrollSettingsRepository
func NewGormPayrollSettingsRepository(db *gorm.DB) *GormPayrollSettingsRepository {
	return &GormPayrollSettingsRepository{db: db}
}

// FindForCompany finds the single settings row of a company
func (r *GormPayrollSettingsRepository) FindForCompany(ctx context.Context, companyID uuid.UUID) (*workforce.PayrollSettings, error) {
	var settings workforce.PayrollSettings
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the payroll settings
func (r *GormPayrollSettingsRepository) Save(ctx context.Context, settings *workforce.PayrollSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPayrollSettingsRepository) SaveWithLock(ctx context.Context, settings *workforce.PayrollSettings) error {
	result := r.db.WithContext(ctx).
		Model(&workforce.PayrollSettings{}).
		Where("id = ? AND version = ?", settings.ID, settings.Version-1).
		Updates(map[string]interface{}{
			"clock_in_start_time":           settings.ClockInStartTime,
			"clock_in_end_time":             settings.ClockInEndTime,
			"late_after_minutes":            settings.LateAfterMinutes,
			"overtime_rate":                 settings.OvertimeRate,
			"night_shift_allowance_default": settings.NightShiftAllowanceDefault,
			"late_penalty_enabled":          settings.LatePenaltyEnabled,
			"late_penalty_amount":           settings.LatePenaltyAmount,
			"version":                       settings.Version,
			"updated_at":                    settings.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormPayrollSettingsRepository implements PayrollSettingsRepository
var _ workforce.PayrollSettingsRepository = (*GormPayrollSettingsRepository)(nil)

// GormPayrollPeriodRepository implements workforce.PayrollPeriodRepository using GORM
type GormPayrollPeriodRepository struct {
	db *gorm.DB
}

// NewGormPayrollPeriodRepository creates a new GormPayrollPeriodRepository
func NewGormPayrollPeriodRepository(db *gorm.DB) *GormPayrollPeriodRepository {
	return &GormPayrollPeriodRepository{db: db}
}

// FindByID finds a payroll period by ID with its staff rows
func (r *GormPayrollPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.PayrollPeriod, error) {
	var period workforce.PayrollPeriod
	if err := r.db.WithContext(ctx).
		Preload("Payrolls").
		First(&period, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &period, nil
}

// FindByIDForCompany finds a payroll period by ID within a company
func (r *GormPayrollPeriodRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*workforce.PayrollPeriod, error) {
	var period workforce.PayrollPeriod
	if err := r.db.WithContext(ctx).
		Preload("Payrolls").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &period, nil
}

// FindAllForCompany finds all payroll periods of a company
func (r *GormPayrollPeriodRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]workforce.PayrollPeriod, error) {
	var periods []workforce.PayrollPeriod
	query := r.db.WithContext(ctx).Model(&workforce.PayrollPeriod{}).
		Preload("Payrolls").
		Where("company_id = ?", companyID)
	query = applyFilter(query, filter, "period_start DESC")

	if err := query.Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// FindOverlapping finds periods whose [period_start, period_end] range
// overlaps [start, end]. New periods must not overlap an existing one.
func (r *GormPayrollPeriodRepository) FindOverlapping(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]workforce.PayrollPeriod, error) {
	var periods []workforce.PayrollPeriod
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND period_start <= ? AND period_end >= ?", companyID, end, start).
		Order("period_start ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// Save creates or updates a payroll period together with its staff rows
func (r *GormPayrollPeriodRepository) Save(ctx context.Context, period *workforce.PayrollPeriod) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(period).Error
}

// SaveWithLock saves with optimistic locking (checks version). Staff rows are
// rewritten wholesale once the version guard has passed.
func (r *GormPayrollPeriodRepository) SaveWithLock(ctx context.Context, period *workforce.PayrollPeriod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workforce.PayrollPeriod{}).
			Where("id = ? AND version = ?", period.ID, period.Version-1).
			Updates(map[string]interface{}{
				"period_start": period.PeriodStart,
				"period_end":   period.PeriodEnd,
				"status":       period.Status,
				"total_amount": period.TotalAmount,
				"processed_at": period.ProcessedAt,
				"paid_at":      period.PaidAt,
				"version":      period.Version,
				"updated_at":   period.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrentModification
		}

		if err := tx.Delete(&workforce.StaffPayroll{}, "period_id = ?", period.ID).Error; err != nil {
			return err
		}
		if len(period.Payrolls) > 0 {
			if err := tx.Create(&period.Payrolls).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormPayrollPeriodRepository implements PayrollPeriodRepository
var _ workforce.PayrollPeriodRepository = (*GormPayrollPeriodRepository)(nil)
