package ordering

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethod is how the guest paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// CanTransitionTo enforces the settlement lifecycle: pending settles or
// fails, completed can only be refunded, failed and refunded are terminal.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return target == PaymentCompleted || target == PaymentFailed
	case PaymentCompleted:
		return target == PaymentRefunded
	case PaymentFailed, PaymentRefunded:
		return false
	}
	return false
}

// Payment is money taken against an order. Transitions run through the
// owning Order so the completed-sum invariant is checked in one place.
type Payment struct {
	shared.CompanyAggregateRoot
	OrderID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount    valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Method    PaymentMethod     `gorm:"not null"`
	Status    PaymentStatus     `gorm:"not null;default:pending"`
	Reference string            // processor or teller reference
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment to attach to an order
func NewPayment(companyID uuid.UUID, amount valueobject.Money, method PaymentMethod, reference string) (*Payment, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown payment method")
	}
	return &Payment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Amount:               amount,
		Method:               method,
		Status:               PaymentPending,
		Reference:            strings.TrimSpace(reference),
	}, nil
}

// NewCompletedPayment creates an already-settled payment, as cash taken at
// the till is. The completed-sum check still runs in Order.AddPayment.
func NewCompletedPayment(companyID uuid.UUID, amount valueobject.Money, method PaymentMethod, reference string) (*Payment, error) {
	payment, err := NewPayment(companyID, amount, method, reference)
	if err != nil {
		return nil, err
	}
	payment.Status = PaymentCompleted
	return payment, nil
}
