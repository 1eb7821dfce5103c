package inventory

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier is a vendor the company buys stock from.
type Supplier struct {
	shared.CompanyAggregateRoot
	Name        string `gorm:"not null;uniqueIndex:idx_supplier_name_company"`
	ContactName string
	PhoneNumber string
	Email       string
	Address     string
	IsActive    bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates an active supplier for a company
func NewSupplier(companyID uuid.UUID, name, contactName, phoneNumber, email, address string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier name cannot be empty")
	}
	return &Supplier{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		ContactName:          strings.TrimSpace(contactName),
		PhoneNumber:          strings.TrimSpace(phoneNumber),
		Email:                strings.ToLower(strings.TrimSpace(email)),
		Address:              strings.TrimSpace(address),
		IsActive:             true,
	}, nil
}

// UpdateContact updates the supplier's contact details
func (s *Supplier) UpdateContact(contactName, phoneNumber, email, address string) {
	s.ContactName = strings.TrimSpace(contactName)
	s.PhoneNumber = strings.TrimSpace(phoneNumber)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.Address = strings.TrimSpace(address)
	s.Touch()
	s.IncrementVersion()
}

// Deactivate stops new purchases from the supplier; historical movements
// keep their reference.
func (s *Supplier) Deactivate() error {
	if !s.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Supplier is already inactive")
	}
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
	return nil
}
