package identity

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService handles company (tenant) management operations
type CompanyService struct {
	companyRepo identity.CompanyRepository
	staffRepo   identity.StaffRepository
	logger      *zap.Logger
	validate    *validator.Validate
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo identity.CompanyRepository,
	staffRepo identity.StaffRepository,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		staffRepo:   staffRepo,
		logger:      logger,
		validate:    validator.New(),
	}
}

// CreateCompanyInput contains input for registering a company
type CreateCompanyInput struct {
	Name         string `validate:"required,min=2,max=120"`
	Address      string `validate:"max=255"`
	PhoneNumber  string `validate:"max=32"`
	Email        string `validate:"omitempty,email"`
	CurrencyCode string `validate:"omitempty,len=3"`
}

// UpdateCompanyInput contains input for updating a company profile
type UpdateCompanyInput struct {
	Name        *string `validate:"omitempty,min=2,max=120"`
	Address     *string `validate:"omitempty,max=255"`
	PhoneNumber *string `validate:"omitempty,max=32"`
	Email       *string `validate:"omitempty,email"`
}

// CreateCompany registers a new company. Company names are unique across
// the platform.
func (s *CompanyService) CreateCompany(ctx context.Context, input CreateCompanyInput) (*identity.Company, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	existing, err := s.companyRepo.FindByName(ctx, input.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	company, err := identity.NewCompany(input.Name, input.Address, input.PhoneNumber, input.Email)
	if err != nil {
		return nil, err
	}
	if input.CurrencyCode != "" {
		if err := company.SetCurrency(valueobject.Currency(input.CurrencyCode)); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	s.logger.Info("company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("name", company.Name))
	return company, nil
}

// GetCompany fetches a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, companyID uuid.UUID) (*identity.Company, error) {
	return s.companyRepo.FindByID(ctx, companyID)
}

// UpdateCompany updates the company profile under the optimistic lock
func (s *CompanyService) UpdateCompany(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*identity.Company, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var company *identity.Company
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		company, err = s.companyRepo.FindByID(ctx, companyID)
		if err != nil {
			return err
		}

		name := company.Name
		if input.Name != nil {
			name = *input.Name
		}
		address := company.Address
		if input.Address != nil {
			address = *input.Address
		}
		phone := company.PhoneNumber
		if input.PhoneNumber != nil {
			phone = *input.PhoneNumber
		}
		email := company.Email
		if input.Email != nil {
			email = *input.Email
		}
		if err := company.UpdateProfile(name, address, phone, email); err != nil {
			return err
		}
		return s.companyRepo.SaveWithLock(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// DeactivateCompany soft-deletes a company; its rows remain as history
func (s *CompanyService) DeactivateCompany(ctx context.Context, companyID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		company, err := s.companyRepo.FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		if err := company.Deactivate(); err != nil {
			return err
		}
		if err := s.companyRepo.SaveWithLock(ctx, company); err != nil {
			return err
		}
		s.logger.Info("company deactivated", zap.String("company_id", companyID.String()))
		return nil
	})
}
