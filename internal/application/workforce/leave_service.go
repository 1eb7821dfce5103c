package workforce

import (
	"context"
	"errors"
	"time"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeaveService handles leave applications and balances
type LeaveService struct {
	applicationRepo workforce.LeaveApplicationRepository
	balanceRepo     workforce.LeaveBalanceRepository
	attendanceRepo  workforce.AttendanceRepository
	staffRepo       identity.StaffRepository
	logger          *zap.Logger
	validate        *validator.Validate
}

// NewLeaveService creates a new leave service
func NewLeaveService(
	applicationRepo workforce.LeaveApplicationRepository,
	balanceRepo workforce.LeaveBalanceRepository,
	attendanceRepo workforce.AttendanceRepository,
	staffRepo identity.StaffRepository,
	logger *zap.Logger,
) *LeaveService {
	return &LeaveService{
		applicationRepo: applicationRepo,
		balanceRepo:     balanceRepo,
		attendanceRepo:  attendanceRepo,
		staffRepo:       staffRepo,
		logger:          logger,
		validate:        validator.New(),
	}
}

// ApplyInput contains input for a leave application
type ApplyInput struct {
	Type      string    `validate:"required,oneof=annual sick maternity compassionate unpaid"`
	StartDate time.Time `validate:"required"`
	Days      int       `validate:"required,gt=0,lte=365"`
	Reason    string    `validate:"max=512"`
}

// Apply files a leave application for a staff member
func (s *LeaveService) Apply(ctx context.Context, companyID, staffID uuid.UUID, input ApplyInput) (*workforce.LeaveApplication, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Inactive staff cannot apply for leave")
	}

	application, err := workforce.NewLeaveApplication(companyID, staffID, workforce.LeaveType(input.Type), input.StartDate, input.Days, input.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Save(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}

// Approve settles a pending application. Paid leave debits the staff
// member's balance for the type; application and balance commit in one
// transaction under the optimistic lock, so a concurrent decision on the
// application cannot leave the balance debited, and a concurrent approval
// of another application cannot double-spend it.
func (s *LeaveService) Approve(ctx context.Context, companyID, applicationID, approverID uuid.UUID) (*workforce.LeaveApplication, error) {
	var application *workforce.LeaveApplication
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		application, err = s.applicationRepo.FindByIDForCompany(ctx, companyID, applicationID)
		if err != nil {
			return err
		}

		var balance *workforce.LeaveBalance
		if application.Type.IsPaid() {
			balance, err = s.balanceRepo.FindByStaffAndType(ctx, companyID, application.StaffID, application.Type)
			if err != nil {
				return err
			}
		}

		if err := application.Approve(approverID, balance); err != nil {
			return err
		}
		return s.applicationRepo.SaveWithBalance(ctx, application, balance)
	})
	if err != nil {
		return nil, err
	}

	// Approved leave lands on the attendance sheet as on-leave days.
	for offset := 0; offset < application.Days; offset++ {
		day := application.StartDate.AddDate(0, 0, offset)
		record, err := workforce.NewLeaveDay(companyID, application.StaffID, day)
		if err != nil {
			return nil, err
		}
		if err := s.attendanceRepo.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	s.logger.Info("leave approved",
		zap.String("company_id", companyID.String()),
		zap.String("application_id", applicationID.String()),
		zap.Int("days", application.Days))
	return application, nil
}

// Reject declines a pending application
func (s *LeaveService) Reject(ctx context.Context, companyID, applicationID, approverID uuid.UUID) (*workforce.LeaveApplication, error) {
	var application *workforce.LeaveApplication
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		application, err = s.applicationRepo.FindByIDForCompany(ctx, companyID, applicationID)
		if err != nil {
			return err
		}
		if err := application.Reject(approverID); err != nil {
			return err
		}
		return s.applicationRepo.SaveWithLock(ctx, application)
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// GrantBalance credits (or creates) a staff member's balance for a type
func (s *LeaveService) GrantBalance(ctx context.Context, companyID, staffID uuid.UUID, leaveType workforce.LeaveType, days int) (*workforce.LeaveBalance, error) {
	balance, err := s.balanceRepo.FindByStaffAndType(ctx, companyID, staffID, leaveType)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		balance, err = workforce.NewLeaveBalance(companyID, staffID, leaveType, days)
		if err != nil {
			return nil, err
		}
		if err := s.balanceRepo.Save(ctx, balance); err != nil {
			return nil, err
		}
		return balance, nil
	}

	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		balance, err = s.balanceRepo.FindByStaffAndType(ctx, companyID, staffID, leaveType)
		if err != nil {
			return err
		}
		if err := balance.Credit(days); err != nil {
			return err
		}
		return s.balanceRepo.SaveWithLock(ctx, balance)
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}
