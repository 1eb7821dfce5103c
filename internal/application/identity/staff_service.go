package identity

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StaffService handles staff and staff group management
type StaffService struct {
	staffRepo   identity.StaffRepository
	groupRepo   identity.StaffGroupRepository
	companyRepo identity.CompanyRepository
	outletRepo  identity.OutletRepository
	logger      *zap.Logger
	validate    *validator.Validate
}

// NewStaffService creates a new staff service
func NewStaffService(
	staffRepo identity.StaffRepository,
	groupRepo identity.StaffGroupRepository,
	companyRepo identity.CompanyRepository,
	outletRepo identity.OutletRepository,
	logger *zap.Logger,
) *StaffService {
	return &StaffService{
		staffRepo:   staffRepo,
		groupRepo:   groupRepo,
		companyRepo: companyRepo,
		outletRepo:  outletRepo,
		logger:      logger,
		validate:    validator.New(),
	}
}

// CreateStaffInput contains input for hiring a staff member
type CreateStaffInput struct {
	Email      string     `validate:"required,email"`
	FullName   string     `validate:"required,min=2,max=120"`
	Role       string     `validate:"required,max=64"`
	Department string     `validate:"max=64"`
	Password   string     `validate:"omitempty,min=8"`
	OutletID   *uuid.UUID `validate:"-"`
	GroupID    *uuid.UUID `validate:"-"`
}

// CreateStaff hires a staff member into a company, bumping the company's
// staff counter in the same logical operation.
func (s *StaffService) CreateStaff(ctx context.Context, companyID uuid.UUID, input CreateStaffInput) (*identity.Staff, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.IsActive {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Cannot hire into an inactive company")
	}

	existing, err := s.staffRepo.FindByEmail(ctx, companyID, input.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	staff, err := identity.NewStaff(companyID, input.Email, input.FullName, input.Role, input.Department)
	if err != nil {
		return nil, err
	}
	if input.Password != "" {
		if err := staff.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if input.OutletID != nil {
		outlet, err := s.outletRepo.FindByIDForCompany(ctx, companyID, *input.OutletID)
		if err != nil {
			return nil, err
		}
		if err := staff.AssignToOutlet(outlet); err != nil {
			return nil, err
		}
	}
	if input.GroupID != nil {
		group, err := s.groupRepo.FindByIDForCompany(ctx, companyID, *input.GroupID)
		if err != nil {
			return nil, err
		}
		if err := staff.AssignToGroup(group); err != nil {
			return nil, err
		}
	}

	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		fresh, err := s.companyRepo.FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		fresh.RegisterStaff()
		if err := s.companyRepo.SaveWithLock(ctx, fresh); err != nil {
			return err
		}
		return s.staffRepo.Save(ctx, staff)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("staff hired",
		zap.String("company_id", companyID.String()),
		zap.String("staff_id", staff.ID.String()),
		zap.String("role", staff.Role))
	return staff, nil
}

// AssignStaffToOutlet moves a staff member to an outlet of the same company
func (s *StaffService) AssignStaffToOutlet(ctx context.Context, companyID, staffID, outletID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
		if err != nil {
			return err
		}
		outlet, err := s.outletRepo.FindByIDForCompany(ctx, companyID, outletID)
		if err != nil {
			return err
		}
		if err := staff.AssignToOutlet(outlet); err != nil {
			return err
		}
		return s.staffRepo.SaveWithLock(ctx, staff)
	})
}

// DeactivateStaff soft-deletes a staff member. Orders they handled and
// payroll rows they appear on keep their references.
func (s *StaffService) DeactivateStaff(ctx context.Context, companyID, staffID uuid.UUID) error {
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
		if err != nil {
			return err
		}
		if err := staff.Deactivate(); err != nil {
			return err
		}
		return s.staffRepo.SaveWithLock(ctx, staff)
	})
	if err != nil {
		return err
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		company, err := s.companyRepo.FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		if err := company.UnregisterStaff(); err != nil {
			return err
		}
		return s.companyRepo.SaveWithLock(ctx, company)
	})
}

// CreateGroupInput contains input for creating a staff group
type CreateGroupInput struct {
	Name          string   `validate:"required,min=2,max=64"`
	Permissions   uint32   `validate:"-"`
	VisibleRoutes []string `validate:"max=64,dive,max=128"`
}

// CreateStaffGroup creates a permission group for a company
func (s *StaffService) CreateStaffGroup(ctx context.Context, companyID uuid.UUID, input CreateGroupInput) (*identity.StaffGroup, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	group, err := identity.NewStaffGroup(companyID, input.Name, identity.Permission(input.Permissions))
	if err != nil {
		return nil, err
	}
	if len(input.VisibleRoutes) > 0 {
		group.SetVisibleRoutes(input.VisibleRoutes)
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// AssignStaffToGroup puts a staff member into a permission group
func (s *StaffService) AssignStaffToGroup(ctx context.Context, companyID, staffID, groupID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
		if err != nil {
			return err
		}
		group, err := s.groupRepo.FindByIDForCompany(ctx, companyID, groupID)
		if err != nil {
			return err
		}
		if err := staff.AssignToGroup(group); err != nil {
			return err
		}
		return s.staffRepo.SaveWithLock(ctx, staff)
	})
}
