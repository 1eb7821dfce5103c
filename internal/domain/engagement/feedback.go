package engagement

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Feedback is a guest rating left against an outlet, optionally tied to a
// specific order. Feedback is immutable once recorded.
type Feedback struct {
	shared.OutletAggregateRoot
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	Rating     int        `gorm:"not null"` // 1..5
	Comment    string
}

// TableName returns the table name for GORM
func (Feedback) TableName() string {
	return "feedbacks"
}

// NewFeedback records a rating between 1 and 5
func NewFeedback(companyID, outletID uuid.UUID, customerID, orderID *uuid.UUID, rating int, comment string) (*Feedback, error) {
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rating must be between 1 and 5")
	}
	return &Feedback{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		CustomerID:          customerID,
		OrderID:             orderID,
		Rating:              rating,
		Comment:             strings.TrimSpace(comment),
	}, nil
}
