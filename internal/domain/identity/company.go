package identity

import (
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
)

// Company is the tenant root: every other entity in the system is scoped,
// directly or transitively, to exactly one company.
type Company struct {
	shared.BaseAggregateRoot
	Name           string `gorm:"not null;uniqueIndex"`
	Address        string
	PhoneNumber    string
	Email          string
	CurrencyCode   valueobject.Currency `gorm:"not null;default:NGN"`
	IsActive       bool                 `gorm:"not null;default:true"`
	StaffCount     int                  `gorm:"not null;default:0"`
	OutletCount    int                  `gorm:"not null;default:0"`
	DeactivatedAt  *time.Time
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new active company
func NewCompany(name, address, phoneNumber, email string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company name cannot be empty")
	}
	if len(name) > 120 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company name cannot exceed 120 characters")
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
		PhoneNumber:       phoneNumber,
		Email:             email,
		CurrencyCode:      valueobject.DefaultCurrency,
		IsActive:          true,
	}, nil
}

// UpdateProfile updates the company's descriptive fields
func (c *Company) UpdateProfile(name, address, phoneNumber, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Company name cannot be empty")
	}
	c.Name = name
	c.Address = address
	c.PhoneNumber = phoneNumber
	c.Email = email
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetCurrency changes the currency used for the company's monetary fields
func (c *Company) SetCurrency(code valueobject.Currency) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency code cannot be empty")
	}
	c.CurrencyCode = code
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate soft-deactivates the company. Child rows are kept as history;
// no descendant data is deleted here.
func (c *Company) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Company is already deactivated")
	}
	now := time.Now()
	c.IsActive = false
	c.DeactivatedAt = &now
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Reactivate re-enables a deactivated company
func (c *Company) Reactivate() error {
	if c.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Company is already active")
	}
	c.IsActive = true
	c.DeactivatedAt = nil
	c.Touch()
	c.IncrementVersion()
	return nil
}

// RegisterStaff increments the denormalized active-staff counter. Called in
// the same transaction that persists the staff row so the counter always
// equals the live count.
func (c *Company) RegisterStaff() {
	c.StaffCount++
	c.Touch()
	c.IncrementVersion()
}

// UnregisterStaff decrements the active-staff counter on deactivation
func (c *Company) UnregisterStaff() error {
	if c.StaffCount <= 0 {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Staff count cannot go negative")
	}
	c.StaffCount--
	c.Touch()
	c.IncrementVersion()
	return nil
}

// RegisterOutlet increments the denormalized outlet counter
func (c *Company) RegisterOutlet() {
	c.OutletCount++
	c.Touch()
	c.IncrementVersion()
}

// UnregisterOutlet decrements the outlet counter
func (c *Company) UnregisterOutlet() error {
	if c.OutletCount <= 0 {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Outlet count cannot go negative")
	}
	c.OutletCount--
	c.Touch()
	c.IncrementVersion()
	return nil
}
