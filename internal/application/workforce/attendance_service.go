package workforce

import (
	"context"
	"errors"
	"time"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttendanceService handles clocking and attendance administration
type AttendanceService struct {
	attendanceRepo workforce.AttendanceRepository
	settingsRepo   workforce.PayrollSettingsRepository
	staffRepo      identity.StaffRepository
	logger         *zap.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo workforce.AttendanceRepository,
	settingsRepo workforce.PayrollSettingsRepository,
	staffRepo identity.StaffRepository,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		staffRepo:      staffRepo,
		logger:         logger,
	}
}

// CheckIn clocks a staff member in, deriving present or late from the
// company's configured clock-in window. One record per staff per day.
func (s *AttendanceService) CheckIn(ctx context.Context, companyID, staffID uuid.UUID, at time.Time) (*workforce.AttendanceRecord, error) {
	staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Inactive staff cannot clock in")
	}

	settings, err := s.settingsRepo.FindForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	existing, err := s.attendanceRepo.FindByStaffAndDay(ctx, companyID, staffID, at)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	record, err := workforce.NewCheckIn(companyID, staffID, at, settings)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("staff clocked in",
		zap.String("company_id", companyID.String()),
		zap.String("staff_id", staffID.String()),
		zap.String("status", string(record.Status)))
	return record, nil
}

// CheckOut clocks a staff member out and books overtime past the shift end
func (s *AttendanceService) CheckOut(ctx context.Context, companyID, staffID uuid.UUID, at time.Time) (*workforce.AttendanceRecord, error) {
	settings, err := s.settingsRepo.FindForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var record *workforce.AttendanceRecord
	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		record, err = s.attendanceRepo.FindByStaffAndDay(ctx, companyID, staffID, at)
		if err != nil {
			return err
		}
		if err := record.CheckOut(at, settings); err != nil {
			return err
		}
		return s.attendanceRepo.SaveWithLock(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// MarkAbsent records an absence for a day with no attendance record
func (s *AttendanceService) MarkAbsent(ctx context.Context, companyID, staffID uuid.UUID, day time.Time) (*workforce.AttendanceRecord, error) {
	existing, err := s.attendanceRepo.FindByStaffAndDay(ctx, companyID, staffID, day)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	record, err := workforce.NewAbsence(companyID, staffID, day)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// AttendanceSheet returns a staff member's records over a date range
func (s *AttendanceService) AttendanceSheet(ctx context.Context, companyID, staffID uuid.UUID, from, to time.Time) ([]workforce.AttendanceRecord, error) {
	return s.attendanceRepo.FindByStaffInRange(ctx, companyID, staffID, from, to)
}
