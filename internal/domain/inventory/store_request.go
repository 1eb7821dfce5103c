package inventory

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreRequestStatus is the lifecycle state of a store request
type StoreRequestStatus string

const (
	RequestPending   StoreRequestStatus = "pending"
	RequestApproved  StoreRequestStatus = "approved"
	RequestRejected  StoreRequestStatus = "rejected"
	RequestFulfilled StoreRequestStatus = "fulfilled"
)

// CanTransitionTo enforces pending -> {approved, rejected} and
// approved -> fulfilled. Rejected and fulfilled are terminal.
func (s StoreRequestStatus) CanTransitionTo(target StoreRequestStatus) bool {
	switch s {
	case RequestPending:
		return target == RequestApproved || target == RequestRejected
	case RequestApproved:
		return target == RequestFulfilled
	case RequestRejected, RequestFulfilled:
		return false
	}
	return false
}

// StoreRequestItem is one requested line. Fulfilled never exceeds Requested.
type StoreRequestItem struct {
	shared.BaseEntity
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	RequestID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName        string          `gorm:"not null"` // snapshot for the picking sheet
	Requested       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Fulfilled       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StoreRequestItem) TableName() string {
	return "store_request_items"
}

// Outstanding returns the quantity still to be issued on the line
func (i *StoreRequestItem) Outstanding() decimal.Decimal {
	return i.Requested.Sub(i.Fulfilled)
}

// IsFullyFulfilled reports whether the line needs nothing more
func (i *StoreRequestItem) IsFullyFulfilled() bool {
	return i.Fulfilled.GreaterThanOrEqual(i.Requested)
}

// StoreRequest asks the store of one outlet to issue stock. When a
// destination outlet is set the request is an inter-outlet transfer and
// each fulfillment produces a paired in movement at the destination;
// otherwise it is a plain single-outlet deduction.
type StoreRequest struct {
	shared.OutletAggregateRoot
	DestinationOutletID *uuid.UUID         `gorm:"type:uuid;index"`
	RequestedBy         *uuid.UUID         `gorm:"type:uuid"`
	ApprovedBy          *uuid.UUID         `gorm:"type:uuid"`
	Status              StoreRequestStatus `gorm:"not null;default:pending"`
	Notes               string

	Items []StoreRequestItem `gorm:"foreignKey:RequestID;references:ID"`
}

// TableName returns the table name for GORM
func (StoreRequest) TableName() string {
	return "store_requests"
}

// NewStoreRequest opens a pending request against an outlet's store
func NewStoreRequest(companyID, outletID uuid.UUID, requestedBy *uuid.UUID, notes string) (*StoreRequest, error) {
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	return &StoreRequest{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		RequestedBy:         requestedBy,
		Status:              RequestPending,
		Notes:               strings.TrimSpace(notes),
		Items:               make([]StoreRequestItem, 0),
	}, nil
}

// SetDestination marks the request as an inter-outlet transfer
func (r *StoreRequest) SetDestination(outletID uuid.UUID) error {
	if r.Status != RequestPending {
		return shared.NewDomainError("INVALID_TRANSITION", "Destination can only change while pending")
	}
	if outletID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Destination outlet ID is required")
	}
	if outletID == r.OutletID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Destination must differ from the source outlet")
	}
	r.DestinationOutletID = &outletID
	r.Touch()
	r.IncrementVersion()
	return nil
}

// AddItem adds a line for an item held by the source outlet. Only pending
// requests accept lines.
func (r *StoreRequest) AddItem(item *InventoryItem, quantity decimal.Decimal) error {
	if r.Status != RequestPending {
		return shared.NewDomainError("INVALID_TRANSITION", "Lines can only be added while pending")
	}
	if item == nil {
		return shared.ErrNotFound
	}
	if item.CompanyID != r.CompanyID {
		return shared.ErrTenantMismatch
	}
	if item.OutletID != r.OutletID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Item is not held by the source outlet")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Requested quantity must be positive")
	}
	for _, existing := range r.Items {
		if existing.InventoryItemID == item.ID {
			return shared.NewDomainError("INVARIANT_VIOLATION", "Item already has a line on this request")
		}
	}

	r.Items = append(r.Items, StoreRequestItem{
		BaseEntity:      shared.NewBaseEntity(),
		CompanyID:       r.CompanyID,
		RequestID:       r.ID,
		InventoryItemID: item.ID,
		ItemName:        item.Name,
		Requested:       quantity,
		Fulfilled:       decimal.Zero,
	})
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Approve moves the request to approved
func (r *StoreRequest) Approve(approverID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequestApproved) {
		return shared.ErrInvalidTransition
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Approver is required")
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Cannot approve a request without lines")
	}
	r.Status = RequestApproved
	r.ApprovedBy = &approverID
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Reject declines the request
func (r *StoreRequest) Reject(approverID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequestRejected) {
		return shared.ErrInvalidTransition
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Approver is required")
	}
	r.Status = RequestRejected
	r.ApprovedBy = &approverID
	r.Touch()
	r.IncrementVersion()
	return nil
}

// FulfillLine issues stock against a line of an approved request. It applies
// an out movement to the source item and, for a transfer, a paired in
// movement to the destination item; the caller persists both movements and
// both items in the same transaction. The request transitions to fulfilled
// when every line is fully issued.
func (r *StoreRequest) FulfillLine(lineID uuid.UUID, quantity decimal.Decimal, source, destination *InventoryItem, issuedBy *uuid.UUID) ([]*StockMovement, error) {
	if r.Status != RequestApproved {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Only approved requests can be fulfilled")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fulfillment quantity must be positive")
	}

	var line *StoreRequestItem
	for i := range r.Items {
		if r.Items[i].ID == lineID {
			line = &r.Items[i]
			break
		}
	}
	if line == nil {
		return nil, shared.ErrNotFound
	}
	if quantity.GreaterThan(line.Outstanding()) {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Fulfilled quantity cannot exceed the requested quantity")
	}

	if source == nil {
		return nil, shared.ErrNotFound
	}
	if source.ID != line.InventoryItemID {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Source item does not match the request line")
	}

	reference := "store-request:" + r.ID.String()
	out, err := NewStockMovement(source, MovementOut, quantity, "store request issue", reference, issuedBy)
	if err != nil {
		return nil, err
	}
	movements := []*StockMovement{out}

	var in *StockMovement
	if r.DestinationOutletID != nil {
		if destination == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Destination item is required for a transfer")
		}
		if destination.CompanyID != r.CompanyID {
			return nil, shared.ErrTenantMismatch
		}
		if destination.OutletID != *r.DestinationOutletID {
			return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Destination item is not held by the destination outlet")
		}
		in, err = NewStockMovement(destination, MovementIn, quantity, "store request transfer", reference, issuedBy)
		if err != nil {
			return nil, err
		}
		movements = append(movements, in)
	}

	if err := source.Apply(out); err != nil {
		return nil, err
	}
	if in != nil {
		if err := destination.Apply(in); err != nil {
			return nil, err
		}
	}

	line.Fulfilled = line.Fulfilled.Add(quantity)
	line.Touch()

	all := true
	for i := range r.Items {
		if !r.Items[i].IsFullyFulfilled() {
			all = false
			break
		}
	}
	if all {
		r.Status = RequestFulfilled
	}
	r.Touch()
	r.IncrementVersion()
	return movements, nil
}
