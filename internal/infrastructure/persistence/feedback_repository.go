package persistence

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeedbackRepository implements engagement.FeedbackRepository using GORM.
// Feedback is append-only: there is no update or delete path.
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new GormFeedbackRepository
func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// FindByID finds a feedback entry by ID
func (r *GormFeedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Feedback, error) {
	var feedback engagement.Feedback
	if err := r.db.WithContext(ctx).First(&feedback, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

// FindByOutlet finds feedback left at an outlet, newest first
func (r *GormFeedbackRepository) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]engagement.Feedback, error) {
	var feedback []engagement.Feedback
	query := r.db.WithContext(ctx).Model(&engagement.Feedback{}).
		Where("company_id = ? AND outlet_id = ?", companyID, outletID)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// FindByOrder finds feedback attached to one order
func (r *GormFeedbackRepository) FindByOrder(ctx context.Context, companyID, orderID uuid.UUID) ([]engagement.Feedback, error) {
	var feedback []engagement.Feedback
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND order_id = ?", companyID, orderID).
		Order("created_at ASC").
		Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// Save appends a feedback entry
func (r *GormFeedbackRepository) Save(ctx context.Context, feedback *engagement.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// Ensure GormFeedbackRepository implements FeedbackRepository
var _ engagement.FeedbackRepository = (*GormFeedbackRepository)(nil)
