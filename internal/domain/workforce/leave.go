package workforce

import (
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeaveType categorizes leave. Paid types debit the staff member's balance
// on approval; unpaid leave never touches a balance.
type LeaveType string

const (
	LeaveAnnual        LeaveType = "annual"
	LeaveSick          LeaveType = "sick"
	LeaveMaternity     LeaveType = "maternity"
	LeaveCompassionate LeaveType = "compassionate"
	LeaveUnpaid        LeaveType = "unpaid"
)

// IsPaid reports whether approval of this leave type debits a balance
func (t LeaveType) IsPaid() bool {
	return t != LeaveUnpaid
}

// IsValid checks if the type is a known LeaveType
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveMaternity, LeaveCompassionate, LeaveUnpaid:
		return true
	}
	return false
}

// LeaveStatus is the lifecycle state of a leave application
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// CanTransitionTo checks if the status can transition to the target status.
// approved and rejected are terminal.
func (s LeaveStatus) CanTransitionTo(target LeaveStatus) bool {
	switch s {
	case LeavePending:
		return target == LeaveApproved || target == LeaveRejected
	case LeaveApproved, LeaveRejected:
		return false
	}
	return false
}

// LeaveApplication is a staff member's request for leave days.
type LeaveApplication struct {
	shared.CompanyAggregateRoot
	StaffID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Type       LeaveType   `gorm:"not null"`
	StartDate  time.Time   `gorm:"not null"`
	Days       int         `gorm:"not null"`
	Reason     string
	Status     LeaveStatus `gorm:"not null;default:pending"`
	ApproverID *uuid.UUID  `gorm:"type:uuid"`
	ApprovedOn *time.Time
	RejectedOn *time.Time
}

// TableName returns the table name for GORM
func (LeaveApplication) TableName() string {
	return "leave_applications"
}

// NewLeaveApplication creates a pending leave request
func NewLeaveApplication(companyID, staffID uuid.UUID, leaveType LeaveType, startDate time.Time, days int, reason string) (*LeaveApplication, error) {
	if companyID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and staff IDs are required")
	}
	if !leaveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown leave type")
	}
	if days <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Leave days must be positive")
	}

	return &LeaveApplication{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		StaffID:              staffID,
		Type:                 leaveType,
		StartDate:            startDate,
		Days:                 days,
		Reason:               reason,
		Status:               LeavePending,
	}, nil
}

// Approve transitions the application to approved. The approver must be a
// different staff member than the applicant. For paid leave types the
// matching balance is debited in the same transaction; the caller passes it
// here so an insufficient balance aborts the approval.
func (l *LeaveApplication) Approve(approverID uuid.UUID, balance *LeaveBalance) error {
	if !l.Status.CanTransitionTo(LeaveApproved) {
		return shared.ErrInvalidTransition
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Approver is required")
	}
	if approverID == l.StaffID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Staff cannot approve their own leave application")
	}

	if l.Type.IsPaid() {
		if balance == nil {
			return shared.NewDomainError("INVALID_INPUT", "Leave balance is required for paid leave types")
		}
		if balance.StaffID != l.StaffID || balance.Type != l.Type {
			return shared.NewDomainError("INVALID_INPUT", "Leave balance does not match the application")
		}
		if balance.CompanyID != l.CompanyID {
			return shared.ErrTenantMismatch
		}
		if err := balance.Debit(l.Days); err != nil {
			return err
		}
	}

	now := time.Now()
	l.Status = LeaveApproved
	l.ApproverID = &approverID
	l.ApprovedOn = &now
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Reject transitions the application to rejected. No balance is touched.
func (l *LeaveApplication) Reject(approverID uuid.UUID) error {
	if !l.Status.CanTransitionTo(LeaveRejected) {
		return shared.ErrInvalidTransition
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Approver is required")
	}
	if approverID == l.StaffID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Staff cannot reject their own leave application")
	}

	now := time.Now()
	l.Status = LeaveRejected
	l.ApproverID = &approverID
	l.RejectedOn = &now
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Covers reports whether the approved application covers the given day
func (l *LeaveApplication) Covers(day time.Time) bool {
	if l.Status != LeaveApproved {
		return false
	}
	day = day.Truncate(24 * time.Hour)
	start := l.StartDate.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, l.Days)
	return !day.Before(start) && day.Before(end)
}

// LeaveBalance tracks the remaining days of one leave type for one staff
// member. One row per (staff, type).
type LeaveBalance struct {
	shared.CompanyAggregateRoot
	StaffID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leave_balance_staff_type,priority:1"`
	Type          LeaveType `gorm:"not null;uniqueIndex:idx_leave_balance_staff_type,priority:2"`
	RemainingDays int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// NewLeaveBalance creates a balance row for a staff member and leave type
func NewLeaveBalance(companyID, staffID uuid.UUID, leaveType LeaveType, days int) (*LeaveBalance, error) {
	if companyID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and staff IDs are required")
	}
	if !leaveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown leave type")
	}
	if days < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Leave balance cannot start negative")
	}
	return &LeaveBalance{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		StaffID:              staffID,
		Type:                 leaveType,
		RemainingDays:        days,
	}, nil
}

// Debit subtracts approved leave days, failing when the balance is
// insufficient.
func (b *LeaveBalance) Debit(days int) error {
	if days <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Debit days must be positive")
	}
	if b.RemainingDays < days {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Insufficient leave balance")
	}
	b.RemainingDays -= days
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Credit adds days back (yearly accrual, reversal of an administrative error)
func (b *LeaveBalance) Credit(days int) error {
	if days <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Credit days must be positive")
	}
	b.RemainingDays += days
	b.Touch()
	b.IncrementVersion()
	return nil
}
