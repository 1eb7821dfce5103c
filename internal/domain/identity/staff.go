package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Staff is an employee of a company, optionally assigned to one outlet and
// one staff group. A staff row may be referenced from many foreign-key roles
// elsewhere (order handler, leave approver, store requester, issue assignee,
// feedback reporter) - those are distinct fields pointing at this one entity,
// not separate identities.
type Staff struct {
	shared.CompanyAggregateRoot
	Email             string `gorm:"not null;uniqueIndex:idx_staff_company_email,priority:2"`
	FullName          string `gorm:"not null"`
	PhoneNumber       string
	Role              string // free text, e.g. "waiter", "chef"
	Department        string // free text, e.g. "kitchen", "front of house"
	OutletID          *uuid.UUID `gorm:"type:uuid;index"`
	StaffGroupID      *uuid.UUID `gorm:"type:uuid;index"`
	PasswordHash      string
	NotificationToken string
	IsActive          bool `gorm:"not null;default:true"`
	DeactivatedAt     *time.Time
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "staff"
}

// NewStaff creates a new active staff member
func NewStaff(companyID uuid.UUID, email, fullName, role, department string) (*Staff, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Staff email is not valid")
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Staff full name cannot be empty")
	}

	return &Staff{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Email:                email,
		FullName:             fullName,
		Role:                 role,
		Department:           department,
		IsActive:             true,
	}, nil
}

// SetPassword hashes and stores a new credential. Verification and
// authorization enforcement happen outside the core.
func (s *Staff) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_INPUT", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// AssignToOutlet assigns the staff member to an outlet of the same company
func (s *Staff) AssignToOutlet(outlet *Outlet) error {
	if outlet == nil {
		return shared.ErrNotFound
	}
	if outlet.CompanyID != s.CompanyID {
		return shared.ErrTenantMismatch
	}
	id := outlet.ID
	s.OutletID = &id
	s.Touch()
	s.IncrementVersion()
	return nil
}

// UnassignOutlet clears the outlet assignment
func (s *Staff) UnassignOutlet() {
	s.OutletID = nil
	s.Touch()
	s.IncrementVersion()
}

// AssignToGroup puts the staff member into a permission group of the same company
func (s *Staff) AssignToGroup(group *StaffGroup) error {
	if group == nil {
		return shared.ErrNotFound
	}
	if group.CompanyID != s.CompanyID {
		return shared.ErrTenantMismatch
	}
	id := group.ID
	s.StaffGroupID = &id
	s.Touch()
	s.IncrementVersion()
	return nil
}

// UpdateDetails updates mutable descriptive fields
func (s *Staff) UpdateDetails(fullName, phoneNumber, role, department string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Staff full name cannot be empty")
	}
	s.FullName = fullName
	s.PhoneNumber = phoneNumber
	s.Role = role
	s.Department = department
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetNotificationToken stores the push-notification token for the staff device
func (s *Staff) SetNotificationToken(token string) {
	s.NotificationToken = token
	s.Touch()
	s.IncrementVersion()
}

// Deactivate marks the staff member inactive. Historical references (orders
// handled, payroll rows, approvals) are preserved untouched.
func (s *Staff) Deactivate() error {
	if !s.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Staff member is already deactivated")
	}
	now := time.Now()
	s.IsActive = false
	s.DeactivatedAt = &now
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Reactivate re-enables a deactivated staff member
func (s *Staff) Reactivate() error {
	if s.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Staff member is already active")
	}
	s.IsActive = true
	s.DeactivatedAt = nil
	s.Touch()
	s.IncrementVersion()
	return nil
}
