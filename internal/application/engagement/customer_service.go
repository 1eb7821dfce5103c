package engagement

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService manages the guest book
type CustomerService struct {
	customerRepo engagement.CustomerRepository
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo engagement.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
		validate:     validator.New(),
	}
}

// CreateCustomerInput contains input for registering a customer
type CreateCustomerInput struct {
	FullName    string `validate:"required,max=160"`
	PhoneNumber string `validate:"required,max=32"`
	Email       string `validate:"omitempty,email,max=160"`
}

// CreateCustomer registers a customer. Phone numbers are unique within the
// company so repeat guests resolve to one record.
func (s *CustomerService) CreateCustomer(ctx context.Context, companyID uuid.UUID, input CreateCustomerInput) (*engagement.Customer, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	existing, err := s.customerRepo.FindByPhone(ctx, companyID, input.PhoneNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this phone number already exists")
	}

	customer, err := engagement.NewCustomer(companyID, input.FullName, input.PhoneNumber, input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer registered",
		zap.String("company_id", companyID.String()),
		zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

// UpdateCustomerInput contains input for editing a customer record
type UpdateCustomerInput struct {
	FullName    string `validate:"required,max=160"`
	PhoneNumber string `validate:"required,max=32"`
	Email       string `validate:"omitempty,email,max=160"`
	Notes       string `validate:"max=1024"`
}

// UpdateCustomer edits a customer record
func (s *CustomerService) UpdateCustomer(ctx context.Context, companyID, customerID uuid.UUID, input UpdateCustomerInput) error {
	if err := s.validate.Struct(input); err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID)
		if err != nil {
			return err
		}
		if err := customer.UpdateDetails(input.FullName, input.PhoneNumber, input.Email, input.Notes); err != nil {
			return err
		}
		return s.customerRepo.SaveWithLock(ctx, customer)
	})
}

// DeactivateCustomer retires a customer record, keeping its history
func (s *CustomerService) DeactivateCustomer(ctx context.Context, companyID, customerID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID)
		if err != nil {
			return err
		}
		if err := customer.Deactivate(); err != nil {
			return err
		}
		return s.customerRepo.SaveWithLock(ctx, customer)
	})
}

// ListCustomers pages through the company's guest book
func (s *CustomerService) ListCustomers(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]engagement.Customer, error) {
	return s.customerRepo.FindAllForCompany(ctx, companyID, filter)
}
