package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIssueRepository implements engagement.IssueRepository using GORM
type GormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository creates a new GormIssueRepository
func NewGormIssueRepository(db *gorm.DB) *GormIssueRepository {
	return &GormIssueRepository{db: db}
}

// FindByID finds an issue by ID
func (r *GormIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Issue, error) {
	var issue engagement.Issue
	if err := r.db.WithContext(ctx).First(&issue, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// FindByIDForCompany finds an issue by ID within a company
func (r *GormIssueRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*engagement.Issue, error) {
	var issue engagement.Issue
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// FindByOutlet finds issues raised at an outlet
func (r *GormIssueRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]engagement.Issue, error) {
	var issues []engagement.Issue
	query := r.db.WithContext(ctx).Model(&engagement.Issue{}).
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// FindOpenForCompany finds open and in-progress issues across a company
func (r *GormIssueRepository) FindOpenForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]engagement.Issue, error) {
	var issues []engagement.Issue
	query := r.db.WithContext(ctx).Model(&engagement.Issue{}).
		Where("company_id = ? AND status IN ?", companyID,
			[]engagement.IssueStatus{engagement.IssueOpen, engagement.IssueInProgress})
	query = applyFilter(query, filter, "created_at ASC")

	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// Save creates or updates an issue
func (r *GormIssueRepository) Save(ctx context.Context, issue *engagement.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormIssueRepository) SaveWithLock(ctx context.Context, issue *engagement.Issue) error {
	result := r.db.WithContext(ctx).
		Model(&engagement.Issue{}).
		Where("id = ? AND version = ?", issue.ID, issue.Version-1).
		Updates(map[string]interface{}{
			"reported_by": issue.ReportedBy,
			"assigned_to": issue.AssignedTo,
			"title":       issue.Title,
			"description": issue.Description,
			"status":      issue.Status,
			"resolution":  issue.Resolution,
			"resolved_at": issue.ResolvedAt,
			"version":     issue.Version,
			"updated_at":  issue.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

// Ensure GormIssueRepository implements IssueRepository
var _ engagement.IssueRepository = (*GormIssueRepository)(nil)
