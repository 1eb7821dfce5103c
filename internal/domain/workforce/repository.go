package workforce

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AttendanceRepository persists AttendanceRecord aggregates
type AttendanceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AttendanceRecord, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*AttendanceRecord, error)
	FindByStaffAndDay(ctx context.Context, companyID, staffID uuid.UUID, day time.Time) (*AttendanceRecord, error)
	FindByStaffInRange(ctx context.Context, companyID, staffID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error)
	FindForCompanyOnDay(ctx context.Context, companyID uuid.UUID, day time.Time, filter shared.Filter) ([]AttendanceRecord, error)
	Save(ctx context.Context, record *AttendanceRecord) error
	SaveWithLock(ctx context.Context, record *AttendanceRecord) error
}

// LeaveApplicationRepository persists LeaveApplication aggregates
type LeaveApplicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveApplication, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*LeaveApplication, error)
	FindByStaff(ctx context.Context, companyID, staffID uuid.UUID, filter shared.Filter) ([]LeaveApplication, error)
	FindPendingForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]LeaveApplication, error)
	Save(ctx context.Context, application *LeaveApplication) error
	SaveWithLock(ctx context.Context, application *LeaveApplication) error
	SaveWithBalance(ctx context.Context, application *LeaveApplication, balance *LeaveBalance) error
}

// LeaveBalanceRepository persists LeaveBalance aggregates
type LeaveBalanceRepository interface {
	FindByStaffAndType(ctx context.Context, companyID, staffID uuid.UUID, leaveType LeaveType) (*LeaveBalance, error)
	FindByStaff(ctx context.Context, companyID, staffID uuid.UUID) ([]LeaveBalance, error)
	Save(ctx context.Context, balance *LeaveBalance) error
	SaveWithLock(ctx context.Context, balance *LeaveBalance) error
}

// PayrollSettingsRepository persists the per-company payroll settings
type PayrollSettingsRepository interface {
	FindForCompany(ctx context.Context, companyID uuid.UUID) (*PayrollSettings, error)
	Save(ctx context.Context, settings *PayrollSettings) error
	SaveWithLock(ctx context.Context, settings *PayrollSettings) error
}

// PayrollPeriodRepository persists PayrollPeriod aggregates with their rows
type PayrollPeriodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PayrollPeriod, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*PayrollPeriod, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]PayrollPeriod, error)
	FindOverlapping(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]PayrollPeriod, error)
	Save(ctx context.Context, period *PayrollPeriod) error
	SaveWithLock(ctx context.Context, period *PayrollPeriod) error
}
