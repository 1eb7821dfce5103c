package engagement

import (
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IssueStatus is the forward-only triage state of an operational issue
type IssueStatus string

const (
	IssueOpen       IssueStatus = "open"
	IssueInProgress IssueStatus = "in_progress"
	IssueResolved   IssueStatus = "resolved"
	IssueClosed     IssueStatus = "closed"
)

// CanTransitionTo enforces open -> in_progress -> resolved -> closed with
// no way back.
func (s IssueStatus) CanTransitionTo(target IssueStatus) bool {
	switch s {
	case IssueOpen:
		return target == IssueInProgress
	case IssueInProgress:
		return target == IssueResolved
	case IssueResolved:
		return target == IssueClosed
	case IssueClosed:
		return false
	}
	return false
}

// Issue is an operational problem reported at an outlet (broken equipment,
// a guest complaint) tracked to resolution.
type Issue struct {
	shared.OutletAggregateRoot
	ReportedBy  *uuid.UUID  `gorm:"type:uuid"`
	AssignedTo  *uuid.UUID  `gorm:"type:uuid;index"`
	Title       string      `gorm:"not null"`
	Description string
	Status      IssueStatus `gorm:"not null;default:open"`
	Resolution  string
	ResolvedAt  *time.Time
}

// TableName returns the table name for GORM
func (Issue) TableName() string {
	return "issues"
}

// NewIssue opens an issue against an outlet
func NewIssue(companyID, outletID uuid.UUID, reportedBy *uuid.UUID, title, description string) (*Issue, error) {
	title = strings.TrimSpace(title)
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Issue title cannot be empty")
	}
	return &Issue{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		ReportedBy:          reportedBy,
		Title:               title,
		Description:         strings.TrimSpace(description),
		Status:              IssueOpen,
	}, nil
}

// Assign hands the issue to a staff member
func (i *Issue) Assign(staffID uuid.UUID) error {
	if staffID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Staff ID is required")
	}
	if i.Status == IssueResolved || i.Status == IssueClosed {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot reassign a resolved issue")
	}
	i.AssignedTo = &staffID
	i.Touch()
	i.IncrementVersion()
	return nil
}

// StartProgress moves the issue into active handling
func (i *Issue) StartProgress() error {
	if !i.Status.CanTransitionTo(IssueInProgress) {
		return shared.ErrInvalidTransition
	}
	i.Status = IssueInProgress
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Resolve records how the issue was fixed. The resolution text is
// mandatory.
func (i *Issue) Resolve(resolution string) error {
	if !i.Status.CanTransitionTo(IssueResolved) {
		return shared.ErrInvalidTransition
	}
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return shared.NewDomainError("INVALID_INPUT", "Resolution text is required")
	}
	now := time.Now()
	i.Status = IssueResolved
	i.Resolution = resolution
	i.ResolvedAt = &now
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Close archives a resolved issue
func (i *Issue) Close() error {
	if !i.Status.CanTransitionTo(IssueClosed) {
		return shared.ErrInvalidTransition
	}
	i.Status = IssueClosed
	i.Touch()
	i.IncrementVersion()
	return nil
}
