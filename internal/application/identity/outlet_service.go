package identity

import (
	"context"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutletService handles outlet management operations
type OutletService struct {
	outletRepo    identity.OutletRepository
	companyRepo   identity.CompanyRepository
	staffRepo     identity.StaffRepository
	managerPolicy identity.ManagerPolicy
	logger        *zap.Logger
	validate      *validator.Validate
}

// NewOutletService creates a new outlet service. The manager policy comes
// from configuration and decides whether cross-outlet managers are allowed.
func NewOutletService(
	outletRepo identity.OutletRepository,
	companyRepo identity.CompanyRepository,
	staffRepo identity.StaffRepository,
	managerPolicy identity.ManagerPolicy,
	logger *zap.Logger,
) *OutletService {
	return &OutletService{
		outletRepo:    outletRepo,
		companyRepo:   companyRepo,
		staffRepo:     staffRepo,
		managerPolicy: managerPolicy,
		logger:        logger,
		validate:      validator.New(),
	}
}

// CreateOutletInput contains input for opening an outlet
type CreateOutletInput struct {
	Name    string `validate:"required,min=2,max=120"`
	Type    string `validate:"required,oneof=restaurant bar cafe retail hotel"`
	Address string `validate:"max=255"`
}

// CreateOutlet opens an outlet under a company and bumps its outlet counter
func (s *OutletService) CreateOutlet(ctx context.Context, companyID uuid.UUID, input CreateOutletInput) (*identity.Outlet, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.IsActive {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Cannot open an outlet under an inactive company")
	}

	outlet, err := identity.NewOutlet(companyID, input.Name, identity.OutletType(input.Type), input.Address)
	if err != nil {
		return nil, err
	}

	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		fresh, err := s.companyRepo.FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		fresh.RegisterOutlet()
		if err := s.companyRepo.SaveWithLock(ctx, fresh); err != nil {
			return err
		}
		return s.outletRepo.Save(ctx, outlet)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("outlet opened",
		zap.String("company_id", companyID.String()),
		zap.String("outlet_id", outlet.ID.String()))
	return outlet, nil
}

// AssignManager sets the outlet manager subject to the configured policy
func (s *OutletService) AssignManager(ctx context.Context, companyID, outletID, staffID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		outlet, err := s.outletRepo.FindByIDForCompany(ctx, companyID, outletID)
		if err != nil {
			return err
		}
		staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
		if err != nil {
			return err
		}
		if err := outlet.AssignManager(staff, s.managerPolicy); err != nil {
			return err
		}
		return s.outletRepo.SaveWithLock(ctx, outlet)
	})
}

// DeactivateOutlet soft-deletes an outlet and releases its manager
func (s *OutletService) DeactivateOutlet(ctx context.Context, companyID, outletID uuid.UUID) error {
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		outlet, err := s.outletRepo.FindByIDForCompany(ctx, companyID, outletID)
		if err != nil {
			return err
		}
		if err := outlet.Deactivate(); err != nil {
			return err
		}
		return s.outletRepo.SaveWithLock(ctx, outlet)
	})
	if err != nil {
		return err
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		company, err := s.companyRepo.FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		if err := company.UnregisterOutlet(); err != nil {
			return err
		}
		return s.companyRepo.SaveWithLock(ctx, company)
	})
}

// ListOutlets returns the company's outlets
func (s *OutletService) ListOutlets(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Outlet, error) {
	return s.outletRepo.FindAllForCompany(ctx, companyID, filter)
}
