package engagement

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is a guest known to the company, shared across its outlets.
type Customer struct {
	shared.CompanyAggregateRoot
	FullName    string `gorm:"not null"`
	PhoneNumber string `gorm:"uniqueIndex:idx_customer_phone_company"`
	Email       string
	Notes       string
	IsActive    bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer record for a company
func NewCustomer(companyID uuid.UUID, fullName, phoneNumber, email string) (*Customer, error) {
	fullName = strings.TrimSpace(fullName)
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	return &Customer{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		FullName:             fullName,
		PhoneNumber:          strings.TrimSpace(phoneNumber),
		Email:                strings.ToLower(strings.TrimSpace(email)),
		IsActive:             true,
	}, nil
}

// UpdateDetails updates the customer's contact details
func (c *Customer) UpdateDetails(fullName, phoneNumber, email, notes string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	c.FullName = fullName
	c.PhoneNumber = strings.TrimSpace(phoneNumber)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Notes = strings.TrimSpace(notes)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the customer; reservations and feedback keep
// their references.
func (c *Customer) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Customer is already inactive")
	}
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
	return nil
}
