package engagement

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository persists Customer aggregates
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)
	FindByPhone(ctx context.Context, companyID uuid.UUID, phoneNumber string) (*Customer, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	SaveWithLock(ctx context.Context, customer *Customer) error
}

// ReservationRepository persists Reservation aggregates
type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Reservation, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Reservation, error)
	// FindForTableInWindow returns reservations against a table whose window
	// overlaps [start, end); callers use it for double-booking checks.
	FindForTableInWindow(ctx context.Context, companyID, tableID uuid.UUID, start, end time.Time) ([]Reservation, error)
	FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]Reservation, error)
	Save(ctx context.Context, reservation *Reservation) error
	SaveWithLock(ctx context.Context, reservation *Reservation) error
}

// EventRepository persists Event aggregates with their planned menu
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Event, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Event, error)
	FindUpcoming(ctx context.Context, companyID, outletID uuid.UUID, after time.Time, filter shared.Filter) ([]Event, error)
	Save(ctx context.Context, event *Event) error
	SaveWithLock(ctx context.Context, event *Event) error
}

// FeedbackRepository persists the append-only feedback log
type FeedbackRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Feedback, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Feedback, error)
	FindByOrder(ctx context.Context, companyID, orderID uuid.UUID) ([]Feedback, error)
	Save(ctx context.Context, feedback *Feedback) error
}

// IssueRepository persists Issue aggregates
type IssueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Issue, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Issue, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Issue, error)
	FindOpenForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Issue, error)
	Save(ctx context.Context, issue *Issue) error
	SaveWithLock(ctx context.Context, issue *Issue) error
}
