package engagement

import (
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReservationStatus is the booking lifecycle state
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// CanTransitionTo enforces pending -> confirmed -> completed, with
// cancellation possible until the guests are seated.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return target == ReservationConfirmed || target == ReservationCancelled
	case ReservationConfirmed:
		return target == ReservationCompleted || target == ReservationCancelled
	case ReservationCompleted, ReservationCancelled:
		return false
	}
	return false
}

// Reservation books a table (or just a slot) for a customer over a time
// window.
type Reservation struct {
	shared.OutletAggregateRoot
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index"`
	TableID    *uuid.UUID        `gorm:"type:uuid;index"`
	PartySize  int               `gorm:"not null"`
	StartTime  time.Time         `gorm:"not null;index"`
	EndTime    time.Time         `gorm:"not null"`
	Status     ReservationStatus `gorm:"not null;default:pending"`
	Notes      string
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation opens a pending booking
func NewReservation(companyID, outletID, customerID uuid.UUID, partySize int, start, end time.Time, notes string) (*Reservation, error) {
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
	}
	if partySize <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Party size must be positive")
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reservation end must be after its start")
	}
	return &Reservation{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		CustomerID:          customerID,
		PartySize:           partySize,
		StartTime:           start,
		EndTime:             end,
		Status:              ReservationPending,
		Notes:               strings.TrimSpace(notes),
	}, nil
}

// AssignTable targets a specific table for the booking
func (r *Reservation) AssignTable(table *ordering.Table) error {
	if table == nil {
		return shared.ErrNotFound
	}
	if table.CompanyID != r.CompanyID {
		return shared.ErrTenantMismatch
	}
	if table.OutletID != r.OutletID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Table belongs to a different outlet")
	}
	if r.Status != ReservationPending {
		return shared.NewDomainError("INVALID_TRANSITION", "Table can only change while pending")
	}
	if r.PartySize > table.Capacity {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Party is larger than the table capacity")
	}
	r.TableID = &table.ID
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Overlaps reports whether two bookings compete for the same table over an
// overlapping window. Cancelled and completed bookings never conflict.
func (r *Reservation) Overlaps(other *Reservation) bool {
	if other == nil || other.ID == r.ID {
		return false
	}
	if r.TableID == nil || other.TableID == nil || *r.TableID != *other.TableID {
		return false
	}
	if other.Status == ReservationCancelled || other.Status == ReservationCompleted {
		return false
	}
	return r.StartTime.Before(other.EndTime) && other.StartTime.Before(r.EndTime)
}

// Confirm locks the booking in. The table must not be double-booked by a
// confirmed reservation over an overlapping window, nor currently occupied
// by an order when the window has already begun. The caller supplies the
// table and the other reservations for it under the same transaction that
// saves this one.
func (r *Reservation) Confirm(table *ordering.Table, others []Reservation, now time.Time) error {
	if !r.Status.CanTransitionTo(ReservationConfirmed) {
		return shared.ErrInvalidTransition
	}
	if r.TableID != nil {
		for i := range others {
			if others[i].Status == ReservationConfirmed && r.Overlaps(&others[i]) {
				return shared.NewDomainError("INVARIANT_VIOLATION", "Table is already reserved for an overlapping window")
			}
		}
		if table != nil && !table.IsAvailable() && !now.Before(r.StartTime) {
			return shared.NewDomainError("INVARIANT_VIOLATION", "Table is currently occupied")
		}
	}
	r.Status = ReservationConfirmed
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Complete marks the guests as seated and the booking finished
func (r *Reservation) Complete() error {
	if !r.Status.CanTransitionTo(ReservationCompleted) {
		return shared.ErrInvalidTransition
	}
	r.Status = ReservationCompleted
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Cancel releases the booking from pending or confirmed
func (r *Reservation) Cancel() error {
	if !r.Status.CanTransitionTo(ReservationCancelled) {
		return shared.ErrInvalidTransition
	}
	r.Status = ReservationCancelled
	r.Touch()
	r.IncrementVersion()
	return nil
}
