package engagement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hospos/backend/internal/domain/engagement"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReservationRepo is an in-memory reservation store with compare-and-swap
// semantics on SaveWithLock, matching the SQL repository's guarded UPDATE.
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]engagement.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]engagement.Reservation)}
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := reservation
	return &copied, nil
}

func (r *fakeReservationRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*engagement.Reservation, error) {
	reservation, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return reservation, nil
}

func (r *fakeReservationRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]engagement.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []engagement.Reservation
	for _, reservation := range r.reservations {
		if reservation.CompanyID == companyID && reservation.OutletID == outletID {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) FindForTableInWindow(ctx context.Context, companyID, tableID uuid.UUID, start, end time.Time) ([]engagement.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []engagement.Reservation
	for _, reservation := range r.reservations {
		if reservation.CompanyID != companyID || reservation.TableID == nil || *reservation.TableID != tableID {
			continue
		}
		if reservation.StartTime.Before(end) && start.Before(reservation.EndTime) {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]engagement.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []engagement.Reservation
	for _, reservation := range r.reservations {
		if reservation.CompanyID == companyID && reservation.CustomerID == customerID {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) Save(ctx context.Context, reservation *engagement.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *fakeReservationRepo) SaveWithLock(ctx context.Context, reservation *engagement.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reservations[reservation.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if reservation.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]engagement.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]engagement.Customer)}
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := customer
	return &copied, nil
}

func (r *fakeCustomerRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*engagement.Customer, error) {
	customer, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepo) FindByPhone(ctx context.Context, companyID uuid.UUID, phoneNumber string) (*engagement.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.CompanyID == companyID && customer.PhoneNumber == phoneNumber {
			copied := customer
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]engagement.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []engagement.Customer
	for _, customer := range r.customers {
		if customer.CompanyID == companyID {
			out = append(out, customer)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Save(ctx context.Context, customer *engagement.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) SaveWithLock(ctx context.Context, customer *engagement.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.customers[customer.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if customer.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.customers[customer.ID] = *customer
	return nil
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]ordering.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]ordering.Table)}
}

func (r *fakeTableRepo) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := table
	return &copied, nil
}

func (r *fakeTableRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.Table, error) {
	table, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return table, nil
}

func (r *fakeTableRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Table
	for _, table := range r.tables {
		if table.CompanyID == companyID && table.OutletID == outletID {
			out = append(out, table)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) FindAvailableByOutlet(ctx context.Context, companyID, outletID uuid.UUID) ([]ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Table
	for _, table := range r.tables {
		if table.CompanyID == companyID && table.OutletID == outletID && table.IsAvailable() {
			out = append(out, table)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) Save(ctx context.Context, table *ordering.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table.ID] = *table
	return nil
}

func (r *fakeTableRepo) SaveWithLock(ctx context.Context, table *ordering.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tables[table.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if table.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.tables[table.ID] = *table
	return nil
}

func (r *fakeTableRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[id]
	if !ok || table.CompanyID != companyID {
		return shared.ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

type reservationFixture struct {
	svc             *ReservationService
	reservationRepo *fakeReservationRepo
	customerRepo    *fakeCustomerRepo
	tableRepo       *fakeTableRepo
	companyID       uuid.UUID
	outletID        uuid.UUID
	customerID      uuid.UUID
	tableID         uuid.UUID
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	f := &reservationFixture{
		reservationRepo: newFakeReservationRepo(),
		customerRepo:    newFakeCustomerRepo(),
		tableRepo:       newFakeTableRepo(),
		companyID:       uuid.New(),
		outletID:        uuid.New(),
	}
	f.svc = NewReservationService(f.reservationRepo, f.customerRepo, f.tableRepo, zap.NewNop())

	customer, err := engagement.NewCustomer(f.companyID, "Chidinma Okafor", "+2348012345678", "chidinma@example.ng")
	require.NoError(t, err)
	require.NoError(t, f.customerRepo.Save(context.Background(), customer))
	f.customerID = customer.ID

	table, err := ordering.NewTable(f.companyID, f.outletID, "T1", 4)
	require.NoError(t, err)
	require.NoError(t, f.tableRepo.Save(context.Background(), table))
	f.tableID = table.ID
	return f
}

func (f *reservationFixture) book(t *testing.T, start, end time.Time, partySize int) *engagement.Reservation {
	t.Helper()
	tableID := f.tableID
	reservation, err := f.svc.Book(context.Background(), f.companyID, BookInput{
		OutletID:   f.outletID,
		CustomerID: f.customerID,
		TableID:    &tableID,
		PartySize:  partySize,
		Start:      start,
		End:        end,
	})
	require.NoError(t, err)
	return reservation
}

func TestReservationService_Book(t *testing.T) {
	f := newReservationFixture(t)
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)

	reservation := f.book(t, start, start.Add(2*time.Hour), 4)
	assert.Equal(t, engagement.ReservationPending, reservation.Status)
	require.NotNil(t, reservation.TableID)
	assert.Equal(t, f.tableID, *reservation.TableID)
}

func TestReservationService_Book_PartyExceedsCapacity(t *testing.T) {
	f := newReservationFixture(t)
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)
	tableID := f.tableID

	_, err := f.svc.Book(context.Background(), f.companyID, BookInput{
		OutletID:   f.outletID,
		CustomerID: f.customerID,
		TableID:    &tableID,
		PartySize:  6, // table seats 4
		Start:      start,
		End:        start.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestReservationService_Book_InactiveCustomer(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	customer, err := f.customerRepo.FindByID(ctx, f.customerID)
	require.NoError(t, err)
	require.NoError(t, customer.Deactivate())
	require.NoError(t, f.customerRepo.Save(ctx, customer))

	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)
	_, err = f.svc.Book(ctx, f.companyID, BookInput{
		OutletID:   f.outletID,
		CustomerID: f.customerID,
		PartySize:  2,
		Start:      start,
		End:        start.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestReservationService_Confirm_RequiresTable(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)

	reservation, err := f.svc.Book(ctx, f.companyID, BookInput{
		OutletID:   f.outletID,
		CustomerID: f.customerID,
		PartySize:  2,
		Start:      start,
		End:        start.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	err = f.svc.Confirm(ctx, f.companyID, reservation.ID)
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestReservationService_Confirm_DoubleBooking(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)

	first := f.book(t, start, start.Add(2*time.Hour), 4)
	require.NoError(t, f.svc.Confirm(ctx, f.companyID, first.ID))

	// Overlapping window on the same table loses.
	second := f.book(t, start.Add(time.Hour), start.Add(3*time.Hour), 2)
	err := f.svc.Confirm(ctx, f.companyID, second.ID)
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)

	// The next slot is free.
	third := f.book(t, start.Add(2*time.Hour), start.Add(4*time.Hour), 2)
	assert.NoError(t, f.svc.Confirm(ctx, f.companyID, third.ID))
}

func TestReservationService_Confirm_TableOccupiedAfterStart(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)

	reservation := f.book(t, start, start.Add(2*time.Hour), 4)

	table, err := f.tableRepo.FindByID(ctx, f.tableID)
	require.NoError(t, err)
	require.NoError(t, table.Occupy(uuid.New()))
	require.NoError(t, f.tableRepo.Save(ctx, table))

	// The window has begun and a walk-in holds the table.
	f.svc.now = func() time.Time { return start.Add(15 * time.Minute) }
	err = f.svc.Confirm(ctx, f.companyID, reservation.ID)
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)

	// Before the window opens the occupation does not block confirmation.
	f.svc.now = func() time.Time { return start.Add(-3 * time.Hour) }
	assert.NoError(t, f.svc.Confirm(ctx, f.companyID, reservation.ID))
}

func TestReservationService_Lifecycle(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)

	reservation := f.book(t, start, start.Add(2*time.Hour), 2)

	// Completion requires confirmation first.
	err := f.svc.Complete(ctx, f.companyID, reservation.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	require.NoError(t, f.svc.Confirm(ctx, f.companyID, reservation.ID))
	require.NoError(t, f.svc.Complete(ctx, f.companyID, reservation.ID))

	// Completed is terminal.
	err = f.svc.Cancel(ctx, f.companyID, reservation.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	stored, err := f.reservationRepo.FindByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, engagement.ReservationCompleted, stored.Status)
}
