package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeaveApplicationRepository implements workforce.LeaveApplicationRepository using GORM
type GormLeaveApplicationRepository struct {
	db *gorm.DB
}

// NewGormLeaveApplicationRepository creates a new GormLeaveApplicationRepository
func NewGormLeaveApplicationRepository(db *gorm.DB) *GormLeaveApplicationRepository {
	return &GormLeaveApplicationRepository{db: db}
}

// FindByID finds a leave application by ID
func (r *GormLeaveApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.LeaveApplication, error) {
	var application workforce.LeaveApplication
	if err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &application, nil
}

// FindByIDForCompany finds a leave application by ID within a company
func (r *GormLeaveApplicationRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*workforce.LeaveApplication, error) {
	var application workforce.LeaveApplication
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &application, nil
}

// FindByStaff finds leave applications of one staff member
func (r *GormLeaveApplicationRepository) FindByStaff(ctx context.Context, companyID, staffID uuid.UUID, filter shared.Filter) ([]workforce.LeaveApplication, error) {
	var applications []workforce.LeaveApplication
	query := r.db.WithContext(ctx).Model(&workforce.LeaveApplication{}).
		Where("company_id = ? AND staff_id = ?", companyID, staffID)
	query = applyFilter(query, filter, "start_date DESC")

	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// FindPendingForCompany finds applications awaiting a decision
func (r *GormLeaveApplicationRepository) FindPendingForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]workforce.LeaveApplication, error) {
	var applications []workforce.LeaveApplication
	query := r.db.WithContext(ctx).Model(&workforce.LeaveApplication{}).
		Where("company_id = ? AND status = ?", companyID, workforce.LeavePending)
	query = applyFilter(query, filter, "created_at ASC")

	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// Save creates or updates a leave application
func (r *GormLeaveApplicationRepository) Save(ctx context.Context, application *workforce.LeaveApplication) error {
	return r.db.WithContext(ctx).Save(application).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormLeaveApplicationRepository) SaveWithLock(ctx context.Context, application *workforce.LeaveApplication) error {
	return updateApplicationGuarded(r.db.WithContext(ctx), application)
}

// SaveWithBalance commits an approval decision and its balance debit in one
// transaction. A nil balance (unpaid leave) saves the application alone; a
// version conflict on either row rolls back both.
func (r *GormLeaveApplicationRepository) SaveWithBalance(ctx context.Context, application *workforce.LeaveApplication, balance *workforce.LeaveBalance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateApplicationGuarded(tx, application); err != nil {
			return err
		}
		if balance == nil {
			return nil
		}
		return updateBalanceGuarded(tx, balance)
	})
}

func updateApplicationGuarded(tx *gorm.DB, application *workforce.LeaveApplication) error {
	result := tx.
		Model(&workforce.LeaveApplication{}).
		Where("id = ? AND version = ?", application.ID, application.Version-1).
		Updates(map[string]interface{}{
			"type":        application.Type,
			"start_date":  application.StartDate,
			"days":        application.Days,
			"reason":      application.Reason,
			"status":      application.Status,
			"approver_id": application.ApproverID,
			"approved_on": application.ApprovedOn,
			"rejected_on": application.RejectedOn,
			"version":     application.Version,
			"updated_at":  application.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormLeaveApplicationRepository implements LeaveApplicationRepository
var _ workforce.LeaveApplicationRepository = (*GormLeaveApplicationRepository)(nil)

// GormLeaveBalanceRepository implements workforce.LeaveBalanceRepository using GORM
type GormLeaveBalanceRepository struct {
	db *gorm.DB
}

// NewGormLeaveBalanceRepository creates a new GormLeaveBalanceRepository
func NewGormLeaveBalanceRepository(db *gorm.DB) *GormLeaveBalanceRepository {
	return &GormLeaveBalanceRepository{db: db}
}

// FindByStaffAndType finds the balance row for one staff member and leave type
func (r *GormLeaveBalanceRepository) FindByStaffAndType(ctx context.Context, companyID, staffID uuid.UUID, leaveType workforce.LeaveType) (*workforce.LeaveBalance, error) {
	var balance workforce.LeaveBalance
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND staff_id = ? AND type = ?", companyID, staffID, leaveType).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByStaff finds all balance rows of one staff member
func (r *GormLeaveBalanceRepository) FindByStaff(ctx context.Context, companyID, staffID uuid.UUID) ([]workforce.LeaveBalance, error) {
	var balances []workforce.LeaveBalance
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND staff_id = ?", companyID, staffID).
		Order("type ASC").
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Save creates or updates a leave balance
func (r *GormLeaveBalanceRepository) Save(ctx context.Context, balance *workforce.LeaveBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

// SaveWithLock saves with optimistic locking (checks version). Approval
// debits race with balance grants; the version guard keeps them serial.
func (r *GormLeaveBalanceRepository) SaveWithLock(ctx context.Context, balance *workforce.LeaveBalance) error {
	return updateBalanceGuarded(r.db.WithContext(ctx), balance)
}

func updateBalanceGuarded(tx *gorm.DB, balance *workforce.LeaveBalance) error {
	result := tx.
		Model(&workforce.LeaveBalance{}).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"remaining_days": balance.RemainingDays,
			"version":        balance.Version,
			"updated_at":     balance.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormLeaveBalanceRepository implements LeaveBalanceRepository
var _ workforce.LeaveBalanceRepository = (*GormLeaveBalanceRepository)(nil)
