package engagement

import (
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// EventStatus is the booking lifecycle of a hosted event
type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventConfirmed EventStatus = "confirmed"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// CanTransitionTo mirrors the reservation lifecycle
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	switch s {
	case EventPending:
		return target == EventConfirmed || target == EventCancelled
	case EventConfirmed:
		return target == EventCompleted || target == EventCancelled
	case EventCompleted, EventCancelled:
		return false
	}
	return false
}

// EventMenuItem is the association record binding a menu item (and how many
// portions of it) to an event. The pair of foreign keys is the primary key.
type EventMenuItem struct {
	EventID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	MenuItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EventMenuItem) TableName() string {
	return "event_menu_items"
}

// Event is a hosted function (party, conference) booked against an outlet
// with a planned menu and a deposit.
type Event struct {
	shared.OutletAggregateRoot
	CustomerID  *uuid.UUID        `gorm:"type:uuid;index"`
	Name        string            `gorm:"not null"`
	EventDate   time.Time         `gorm:"not null;index"`
	GuestCount  int               `gorm:"not null"`
	TotalAmount valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Deposit     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Status      EventStatus       `gorm:"not null;default:pending"`
	Notes       string

	MenuItems []EventMenuItem `gorm:"foreignKey:EventID;references:ID"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// NewEvent opens a pending event booking
func NewEvent(companyID, outletID uuid.UUID, name string, eventDate time.Time, guestCount int, totalAmount valueobject.Money) (*Event, error) {
	name = strings.TrimSpace(name)
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Event name cannot be empty")
	}
	if guestCount <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Guest count must be positive")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Event total cannot be negative")
	}
	return &Event{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		Name:                name,
		EventDate:           eventDate,
		GuestCount:          guestCount,
		TotalAmount:         totalAmount,
		Deposit:             valueobject.Zero(totalAmount.Currency()),
		Status:              EventPending,
		MenuItems:           make([]EventMenuItem, 0),
	}, nil
}

// AttachCustomer links the booking customer
func (e *Event) AttachCustomer(customer *Customer) error {
	if customer == nil {
		return shared.ErrNotFound
	}
	if customer.CompanyID != e.CompanyID {
		return shared.ErrTenantMismatch
	}
	e.CustomerID = &customer.ID
	e.Touch()
	e.IncrementVersion()
	return nil
}

// RecordDeposit registers money taken up front; it can never exceed the
// event total.
func (e *Event) RecordDeposit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Deposit must be positive")
	}
	if e.Status == EventCancelled {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Cannot take a deposit on a cancelled event")
	}
	next, err := e.Deposit.Add(amount)
	if err != nil {
		return err
	}
	over, err := next.GreaterThan(e.TotalAmount)
	if err != nil {
		return err
	}
	if over {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Deposit cannot exceed the event total")
	}
	e.Deposit = next
	e.Touch()
	e.IncrementVersion()
	return nil
}

// PlanMenuItem adds (or bumps) a menu item on the event's planned menu
func (e *Event) PlanMenuItem(item *ordering.MenuItem, quantity int) error {
	if e.Status == EventCompleted || e.Status == EventCancelled {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot change the menu of a closed event")
	}
	if item == nil {
		return shared.ErrNotFound
	}
	if item.CompanyID != e.CompanyID {
		return shared.ErrTenantMismatch
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	for i := range e.MenuItems {
		if e.MenuItems[i].MenuItemID == item.ID {
			e.MenuItems[i].Quantity = quantity
			e.Touch()
			e.IncrementVersion()
			return nil
		}
	}
	e.MenuItems = append(e.MenuItems, EventMenuItem{
		EventID:    e.ID,
		MenuItemID: item.ID,
		CompanyID:  e.CompanyID,
		Quantity:   quantity,
	})
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Confirm locks the event in
func (e *Event) Confirm() error {
	if !e.Status.CanTransitionTo(EventConfirmed) {
		return shared.ErrInvalidTransition
	}
	e.Status = EventConfirmed
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Complete closes the event after it runs
func (e *Event) Complete() error {
	if !e.Status.CanTransitionTo(EventCompleted) {
		return shared.ErrInvalidTransition
	}
	e.Status = EventCompleted
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Cancel aborts the event from pending or confirmed
func (e *Event) Cancel() error {
	if !e.Status.CanTransitionTo(EventCancelled) {
		return shared.ErrInvalidTransition
	}
	e.Status = EventCancelled
	e.Touch()
	e.IncrementVersion()
	return nil
}
