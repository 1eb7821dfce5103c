package workforce

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayrollService runs the payroll period lifecycle
type PayrollService struct {
	periodRepo     workforce.PayrollPeriodRepository
	settingsRepo   workforce.PayrollSettingsRepository
	attendanceRepo workforce.AttendanceRepository
	staffRepo      identity.StaffRepository
	logger         *zap.Logger
	validate       *validator.Validate
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	periodRepo workforce.PayrollPeriodRepository,
	settingsRepo workforce.PayrollSettingsRepository,
	attendanceRepo workforce.AttendanceRepository,
	staffRepo identity.StaffRepository,
	logger *zap.Logger,
) *PayrollService {
	return &PayrollService{
		periodRepo:     periodRepo,
		settingsRepo:   settingsRepo,
		attendanceRepo: attendanceRepo,
		staffRepo:      staffRepo,
		logger:         logger,
		validate:       validator.New(),
	}
}

// OpenPeriod opens a draft payroll period. Overlapping periods for the
// same company are refused.
func (s *PayrollService) OpenPeriod(ctx context.Context, companyID uuid.UUID, start, end time.Time) (*workforce.PayrollPeriod, error) {
	overlapping, err := s.periodRepo.FindOverlapping(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "An overlapping payroll period already exists")
	}

	period, err := workforce.NewPayrollPeriod(companyID, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	s.logger.Info("payroll period opened",
		zap.String("company_id", companyID.String()),
		zap.String("period_id", period.ID.String()))
	return period, nil
}

// EnrollStaffInput contains input for adding a staff settlement row
type EnrollStaffInput struct {
	StaffID uuid.UUID       `validate:"required"`
	PayType string          `validate:"required,oneof=hourly daily weekly monthly"`
	Rate    decimal.Decimal `validate:"required"`
}

// EnrollStaff adds a settlement row for a staff member, loading their
// attendance counts for the period and calculating the pay fields.
func (s *PayrollService) EnrollStaff(ctx context.Context, companyID, periodID uuid.UUID, input EnrollStaffInput) (*workforce.StaffPayroll, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, input.StaffID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.FindForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var payroll *workforce.StaffPayroll
	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		period, err := s.periodRepo.FindByIDForCompany(ctx, companyID, periodID)
		if err != nil {
			return err
		}

		records, err := s.attendanceRepo.FindByStaffInRange(ctx, companyID, staff.ID, period.PeriodStart, period.PeriodEnd)
		if err != nil {
			return err
		}
		var present, late, absent, leave, nightShifts int
		overtime := decimal.Zero
		for i := range records {
			switch records[i].Status {
			case workforce.AttendancePresent:
				present++
			case workforce.AttendanceLate:
				late++
			case workforce.AttendanceAbsent:
				absent++
			case workforce.AttendanceOnLeave:
				leave++
			}
			overtime = overtime.Add(records[i].OvertimeHours)
			if records[i].NightShift {
				nightShifts++
			}
		}

		payroll, err = workforce.NewStaffPayroll(companyID, period.ID, staff.ID, workforce.PayType(input.PayType), input.Rate)
		if err != nil {
			return err
		}
		if err := payroll.SetAttendanceCounts(present, late, absent, leave, overtime, nightShifts); err != nil {
			return err
		}
		if err := payroll.Calculate(settings); err != nil {
			return err
		}
		if err := period.AddPayroll(payroll); err != nil {
			return err
		}
		return s.periodRepo.SaveWithLock(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return payroll, nil
}

// ProcessPeriod freezes the period: every row must be calculated and the
// total becomes the sum of the rows. Check-then-set under the optimistic
// lock, so a losing concurrent Process fails as an invalid transition on
// retry.
func (s *PayrollService) ProcessPeriod(ctx context.Context, companyID, periodID uuid.UUID) (*workforce.PayrollPeriod, error) {
	var period *workforce.PayrollPeriod
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		period, err = s.periodRepo.FindByIDForCompany(ctx, companyID, periodID)
		if err != nil {
			return err
		}
		if err := period.Process(); err != nil {
			return err
		}
		return s.periodRepo.SaveWithLock(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payroll period processed",
		zap.String("period_id", periodID.String()),
		zap.String("total", period.TotalAmount.String()))
	return period, nil
}

// MarkPeriodPaid settles a processed period
func (s *PayrollService) MarkPeriodPaid(ctx context.Context, companyID, periodID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		period, err := s.periodRepo.FindByIDForCompany(ctx, companyID, periodID)
		if err != nil {
			return err
		}
		if err := period.MarkPaid(); err != nil {
			return err
		}
		return s.periodRepo.SaveWithLock(ctx, period)
	})
}

// ReopenPeriod is the administrative override returning a processed period
// to draft for recalculation
func (s *PayrollService) ReopenPeriod(ctx context.Context, companyID, periodID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		period, err := s.periodRepo.FindByIDForCompany(ctx, companyID, periodID)
		if err != nil {
			return err
		}
		if err := period.Reopen(); err != nil {
			return err
		}
		if err := s.periodRepo.SaveWithLock(ctx, period); err != nil {
			return err
		}
		s.logger.Warn("payroll period reopened",
			zap.String("company_id", companyID.String()),
			zap.String("period_id", periodID.String()))
		return nil
	})
}

// UpdateSettings replaces the company's payroll thresholds
func (s *PayrollService) UpdateSettings(ctx context.Context, companyID uuid.UUID, clockStart, clockEnd string, lateAfterMinutes int, overtimeRate, nightShiftAllowance decimal.Decimal) (*workforce.PayrollSettings, error) {
	var settings *workforce.PayrollSettings
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		settings, err = s.settingsRepo.FindForCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if err := settings.SetClockWindow(clockStart, clockEnd, lateAfterMinutes); err != nil {
			return err
		}
		if err := settings.SetRates(overtimeRate, nightShiftAllowance); err != nil {
			return err
		}
		return s.settingsRepo.SaveWithLock(ctx, settings)
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}
