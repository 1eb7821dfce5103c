package engagement

import (
	"context"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeedbackService records guest feedback and tracks operational issues
// raised from it or from the floor.
type FeedbackService struct {
	feedbackRepo engagement.FeedbackRepository
	issueRepo    engagement.IssueRepository
	staffRepo    identity.StaffRepository
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedbackRepo engagement.FeedbackRepository,
	issueRepo engagement.IssueRepository,
	staffRepo identity.StaffRepository,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		issueRepo:    issueRepo,
		staffRepo:    staffRepo,
		logger:       logger,
		validate:     validator.New(),
	}
}

// SubmitFeedbackInput contains input for submitting feedback
type SubmitFeedbackInput struct {
	OutletID   uuid.UUID  `validate:"required"`
	CustomerID *uuid.UUID `validate:"-"`
	OrderID    *uuid.UUID `validate:"-"`
	Rating     int        `validate:"required,min=1,max=5"`
	Comment    string     `validate:"max=2048"`
}

// SubmitFeedback records a rating. Feedback is immutable once saved.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, companyID uuid.UUID, input SubmitFeedbackInput) (*engagement.Feedback, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	feedback, err := engagement.NewFeedback(companyID, input.OutletID, input.CustomerID, input.OrderID, input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.feedbackRepo.Save(ctx, feedback); err != nil {
		return nil, err
	}
	if feedback.Rating <= 2 {
		s.logger.Warn("low rating received",
			zap.String("company_id", companyID.String()),
			zap.String("outlet_id", input.OutletID.String()),
			zap.Int("rating", feedback.Rating))
	}
	return feedback, nil
}

// RaiseIssueInput contains input for raising an issue
type RaiseIssueInput struct {
	OutletID    uuid.UUID  `validate:"required"`
	ReportedBy  *uuid.UUID `validate:"-"`
	Title       string     `validate:"required,max=200"`
	Description string     `validate:"max=4096"`
}

// RaiseIssue opens an operational issue at an outlet
func (s *FeedbackService) RaiseIssue(ctx context.Context, companyID uuid.UUID, input RaiseIssueInput) (*engagement.Issue, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	issue, err := engagement.NewIssue(companyID, input.OutletID, input.ReportedBy, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.issueRepo.Save(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// AssignIssue hands an issue to a staff member
func (s *FeedbackService) AssignIssue(ctx context.Context, companyID, issueID, staffID uuid.UUID) error {
	staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
	if err != nil {
		return err
	}
	if !staff.IsActive {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Issues cannot be assigned to inactive staff")
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		issue, err := s.issueRepo.FindByIDForCompany(ctx, companyID, issueID)
		if err != nil {
			return err
		}
		if err := issue.Assign(staff.ID); err != nil {
			return err
		}
		return s.issueRepo.SaveWithLock(ctx, issue)
	})
}

// StartIssue moves an issue into progress
func (s *FeedbackService) StartIssue(ctx context.Context, companyID, issueID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		issue, err := s.issueRepo.FindByIDForCompany(ctx, companyID, issueID)
		if err != nil {
			return err
		}
		if err := issue.StartProgress(); err != nil {
			return err
		}
		return s.issueRepo.SaveWithLock(ctx, issue)
	})
}

// ResolveIssue records the resolution text and resolves the issue
func (s *FeedbackService) ResolveIssue(ctx context.Context, companyID, issueID uuid.UUID, resolution string) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		issue, err := s.issueRepo.FindByIDForCompany(ctx, companyID, issueID)
		if err != nil {
			return err
		}
		if err := issue.Resolve(resolution); err != nil {
			return err
		}
		return s.issueRepo.SaveWithLock(ctx, issue)
	})
}

// CloseIssue closes a resolved issue
func (s *FeedbackService) CloseIssue(ctx context.Context, companyID, issueID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		issue, err := s.issueRepo.FindByIDForCompany(ctx, companyID, issueID)
		if err != nil {
			return err
		}
		if err := issue.Close(); err != nil {
			return err
		}
		return s.issueRepo.SaveWithLock(ctx, issue)
	})
}

// OpenIssues lists unresolved issues across the company
func (s *FeedbackService) OpenIssues(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]engagement.Issue, error) {
	return s.issueRepo.FindOpenForCompany(ctx, companyID, filter)
}
