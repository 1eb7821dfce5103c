package engagement

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventService books hosted functions: a planned menu, a guest count and a
// deposit taken against the agreed total.
type EventService struct {
	eventRepo    engagement.EventRepository
	customerRepo engagement.CustomerRepository
	menuRepo     ordering.MenuItemRepository
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo engagement.EventRepository,
	customerRepo engagement.CustomerRepository,
	menuRepo ordering.MenuItemRepository,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		customerRepo: customerRepo,
		menuRepo:     menuRepo,
		logger:       logger,
		validate:     validator.New(),
	}
}

// BookEventInput contains input for booking an event
type BookEventInput struct {
	OutletID    uuid.UUID         `validate:"required"`
	CustomerID  *uuid.UUID        `validate:"-"`
	Name        string            `validate:"required,max=160"`
	EventDate   time.Time         `validate:"required"`
	GuestCount  int               `validate:"required,min=1"`
	TotalAmount valueobject.Money `validate:"required"`
}

// BookEvent opens a pending event booking
func (s *EventService) BookEvent(ctx context.Context, companyID uuid.UUID, input BookEventInput) (*engagement.Event, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	event, err := engagement.NewEvent(companyID, input.OutletID, input.Name, input.EventDate, input.GuestCount, input.TotalAmount)
	if err != nil {
		return nil, err
	}
	if input.CustomerID != nil {
		customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if err := event.AttachCustomer(customer); err != nil {
			return nil, err
		}
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event booked",
		zap.String("company_id", companyID.String()),
		zap.String("event_id", event.ID.String()),
		zap.String("name", event.Name))
	return event, nil
}

// RecordDeposit adds to the deposit taken, capped at the agreed total
func (s *EventService) RecordDeposit(ctx context.Context, companyID, eventID uuid.UUID, amount valueobject.Money) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		event, err := s.eventRepo.FindByIDForCompany(ctx, companyID, eventID)
		if err != nil {
			return err
		}
		if err := event.RecordDeposit(amount); err != nil {
			return err
		}
		return s.eventRepo.SaveWithLock(ctx, event)
	})
}

// PlanMenuItem puts a menu item on the event's plan, replacing the
// quantity when the item is already planned.
func (s *EventService) PlanMenuItem(ctx context.Context, companyID, eventID, menuItemID uuid.UUID, quantity int) error {
	item, err := s.menuRepo.FindByIDForCompany(ctx, companyID, menuItemID)
	if err != nil {
		return err
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		event, err := s.eventRepo.FindByIDForCompany(ctx, companyID, eventID)
		if err != nil {
			return err
		}
		if err := event.PlanMenuItem(item, quantity); err != nil {
			return err
		}
		return s.eventRepo.SaveWithLock(ctx, event)
	})
}

// ConfirmEvent promotes a pending event
func (s *EventService) ConfirmEvent(ctx context.Context, companyID, eventID uuid.UUID) error {
	return s.transition(ctx, companyID, eventID, (*engagement.Event).Confirm)
}

// CompleteEvent marks a confirmed event as held
func (s *EventService) CompleteEvent(ctx context.Context, companyID, eventID uuid.UUID) error {
	return s.transition(ctx, companyID, eventID, (*engagement.Event).Complete)
}

// CancelEvent withdraws an event that has not been held
func (s *EventService) CancelEvent(ctx context.Context, companyID, eventID uuid.UUID) error {
	return s.transition(ctx, companyID, eventID, (*engagement.Event).Cancel)
}

func (s *EventService) transition(ctx context.Context, companyID, eventID uuid.UUID, move func(*engagement.Event) error) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		event, err := s.eventRepo.FindByIDForCompany(ctx, companyID, eventID)
		if err != nil {
			return err
		}
		if err := move(event); err != nil {
			return err
		}
		return s.eventRepo.SaveWithLock(ctx, event)
	})
}

// UpcomingEvents lists events at an outlet from a point in time forward
func (s *EventService) UpcomingEvents(ctx context.Context, companyID, outletID uuid.UUID, after time.Time, filter shared.Filter) ([]engagement.Event, error) {
	return s.eventRepo.FindUpcoming(ctx, companyID, outletID, after, filter)
}
