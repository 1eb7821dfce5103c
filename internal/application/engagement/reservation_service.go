package engagement

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService books tables ahead of time. Confirmation re-reads the
// table and the sibling reservations inside the lock-guarded retry so a
// double booking loses the race instead of slipping through.
type ReservationService struct {
	reservationRepo engagement.ReservationRepository
	customerRepo    engagement.CustomerRepository
	tableRepo       ordering.TableRepository
	logger          *zap.Logger
	validate        *validator.Validate
	now             func() time.Time
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo engagement.ReservationRepository,
	customerRepo engagement.CustomerRepository,
	tableRepo ordering.TableRepository,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		tableRepo:       tableRepo,
		logger:          logger,
		validate:        validator.New(),
		now:             time.Now,
	}
}

// BookInput contains input for booking a reservation
type BookInput struct {
	OutletID   uuid.UUID  `validate:"required"`
	CustomerID uuid.UUID  `validate:"required"`
	TableID    *uuid.UUID `validate:"-"`
	PartySize  int        `validate:"required,min=1,max=64"`
	Start      time.Time  `validate:"required"`
	End        time.Time  `validate:"required,gtfield=Start"`
	Notes      string     `validate:"max=1024"`
}

// Book records a pending reservation, optionally against a specific table
func (s *ReservationService) Book(ctx context.Context, companyID uuid.UUID, input BookInput) (*engagement.Reservation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Inactive customers cannot book")
	}

	reservation, err := engagement.NewReservation(companyID, input.OutletID, customer.ID, input.PartySize, input.Start, input.End, input.Notes)
	if err != nil {
		return nil, err
	}
	if input.TableID != nil {
		table, err := s.tableRepo.FindByIDForCompany(ctx, companyID, *input.TableID)
		if err != nil {
			return nil, err
		}
		if err := reservation.AssignTable(table); err != nil {
			return nil, err
		}
	}

	if err := s.reservationRepo.Save(ctx, reservation); err != nil {
		return nil, err
	}
	s.logger.Info("reservation booked",
		zap.String("company_id", companyID.String()),
		zap.String("reservation_id", reservation.ID.String()))
	return reservation, nil
}

// AssignTable moves a reservation onto a table, capacity permitting
func (s *ReservationService) AssignTable(ctx context.Context, companyID, reservationID, tableID uuid.UUID) error {
	table, err := s.tableRepo.FindByIDForCompany(ctx, companyID, tableID)
	if err != nil {
		return err
	}
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		reservation, err := s.reservationRepo.FindByIDForCompany(ctx, companyID, reservationID)
		if err != nil {
			return err
		}
		if err := reservation.AssignTable(table); err != nil {
			return err
		}
		return s.reservationRepo.SaveWithLock(ctx, reservation)
	})
}

// Confirm promotes a pending reservation, refusing it when a confirmed
// reservation already overlaps the window on the same table.
func (s *ReservationService) Confirm(ctx context.Context, companyID, reservationID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		reservation, err := s.reservationRepo.FindByIDForCompany(ctx, companyID, reservationID)
		if err != nil {
			return err
		}
		if reservation.TableID == nil {
			return shared.NewDomainError("INVARIANT_VIOLATION", "Assign a table before confirming")
		}
		table, err := s.tableRepo.FindByIDForCompany(ctx, companyID, *reservation.TableID)
		if err != nil {
			return err
		}
		others, err := s.reservationRepo.FindForTableInWindow(ctx, companyID, table.ID, reservation.StartTime, reservation.EndTime)
		if err != nil {
			return err
		}
		if err := reservation.Confirm(table, others, s.now()); err != nil {
			return err
		}
		return s.reservationRepo.SaveWithLock(ctx, reservation)
	})
}

// Complete marks a confirmed reservation as honored
func (s *ReservationService) Complete(ctx context.Context, companyID, reservationID uuid.UUID) error {
	return s.transition(ctx, companyID, reservationID, (*engagement.Reservation).Complete)
}

// Cancel withdraws a reservation that has not been completed
func (s *ReservationService) Cancel(ctx context.Context, companyID, reservationID uuid.UUID) error {
	return s.transition(ctx, companyID, reservationID, (*engagement.Reservation).Cancel)
}

func (s *ReservationService) transition(ctx context.Context, companyID, reservationID uuid.UUID, move func(*engagement.Reservation) error) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		reservation, err := s.reservationRepo.FindByIDForCompany(ctx, companyID, reservationID)
		if err != nil {
			return err
		}
		if err := move(reservation); err != nil {
			return err
		}
		return s.reservationRepo.SaveWithLock(ctx, reservation)
	})
}
