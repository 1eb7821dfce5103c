package ordering

import (
	"context"
	"testing"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	svc       *OrderService
	orderRepo *fakeOrderRepo
	tableRepo *fakeTableRepo
	menuRepo  *fakeMenuRepo
	staffRepo *fakeStaffRepo
	companyID uuid.UUID
	outletID  uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orderRepo: newFakeOrderRepo(),
		tableRepo: newFakeTableRepo(),
		menuRepo:  newFakeMenuRepo(),
		staffRepo: newFakeStaffRepo(),
		companyID: uuid.New(),
		outletID:  uuid.New(),
	}
	f.svc = NewOrderService(f.orderRepo, f.tableRepo, f.menuRepo, f.staffRepo, zap.NewNop())
	return f
}

func (f *orderFixture) seedTable(t *testing.T, number string, capacity int) *ordering.Table {
	t.Helper()
	table, err := ordering.NewTable(f.companyID, f.outletID, number, capacity)
	require.NoError(t, err)
	require.NoError(t, f.tableRepo.Save(context.Background(), table))
	return table
}

func (f *orderFixture) seedMenuItem(t *testing.T, name string, price int64) *ordering.MenuItem {
	t.Helper()
	item, err := ordering.NewMenuItem(f.companyID, f.outletID, name, "", valueobject.NewMoneyNGN(decimal.NewFromInt(price)))
	require.NoError(t, err)
	require.NoError(t, f.menuRepo.Save(context.Background(), item))
	return item
}

// A table seats one party, the bill builds from captured prices, settles in
// full and the table frees up on completion.
func TestOrderService_TableToSettlement(t *testing.T) {
	f := newOrderFixture(t)
	table := f.seedTable(t, "T1", 4)
	jollof := f.seedMenuItem(t, "Jollof Rice", 2500)

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{
		OutletID: f.outletID,
		TableID:  &table.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "T1", order.TableNumber)

	// the occupied table refuses a second party
	_, err = f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{
		OutletID: f.outletID,
		TableID:  &table.ID,
	})
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)

	order, err = f.svc.AddItem(context.Background(), f.companyID, order.ID, jollof.ID, 2, "")
	require.NoError(t, err)
	assert.True(t, order.Total.Amount().Equal(decimal.NewFromInt(5000)))

	// repricing the menu does not touch already-captured line prices; only
	// the new line takes the new price
	require.NoError(t, jollof.SetPrice(valueobject.NewMoneyNGN(decimal.NewFromInt(3000))))
	require.NoError(t, f.menuRepo.Save(context.Background(), jollof))
	order, err = f.svc.AddItem(context.Background(), f.companyID, order.ID, jollof.ID, 1, "extra spicy")
	require.NoError(t, err)
	assert.True(t, order.Total.Amount().Equal(decimal.NewFromInt(8000)))

	_, err = f.svc.Transition(context.Background(), f.companyID, order.ID, ordering.OrderInProgress)
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), f.companyID, order.ID, ordering.OrderReady)
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:  valueobject.NewMoneyNGN(decimal.NewFromInt(8000)),
		Method:  "cash",
		Settled: true,
	})
	require.NoError(t, err)

	// the order is fully paid: one more naira is refused
	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:  valueobject.NewMoneyNGN(decimal.NewFromInt(1)),
		Method:  "cash",
		Settled: true,
	})
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)

	order, err = f.svc.Transition(context.Background(), f.companyID, order.ID, ordering.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderCompleted, order.Status)

	freed, err := f.tableRepo.FindByID(context.Background(), table.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsAvailable())
}

func TestOrderService_CancelReleasesTable(t *testing.T) {
	f := newOrderFixture(t)
	table := f.seedTable(t, "T2", 2)

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{
		OutletID: f.outletID,
		TableID:  &table.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), f.companyID, order.ID, ordering.OrderCancelled)
	require.NoError(t, err)

	freed, err := f.tableRepo.FindByID(context.Background(), table.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsAvailable())

	// terminal orders refuse further payments
	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount: valueobject.NewMoneyNGN(decimal.NewFromInt(100)),
		Method: "cash",
	})
	assert.Error(t, err)
}

func TestOrderService_AddItem_UnavailableItem(t *testing.T) {
	f := newOrderFixture(t)
	stale := f.seedMenuItem(t, "Egusi Soup", 1800)
	stale.SetAvailability(false)
	require.NoError(t, f.menuRepo.Save(context.Background(), stale))

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{OutletID: f.outletID})
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), f.companyID, order.ID, stale.ID, 1, "")
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestOrderService_OpenOrder_InactiveHandler(t *testing.T) {
	f := newOrderFixture(t)
	staff, err := identity.NewStaff(f.companyID, "musa@mamacass.ng", "Musa Bello", "waiter", "")
	require.NoError(t, err)
	require.NoError(t, staff.Deactivate())
	f.staffRepo.add(staff)

	_, err = f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{
		OutletID:  f.outletID,
		HandlerID: &staff.ID,
	})
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestOrderService_AssignHandler_Reassigns(t *testing.T) {
	f := newOrderFixture(t)
	first, err := identity.NewStaff(f.companyID, "musa@mamacass.ng", "Musa Bello", "waiter", "")
	require.NoError(t, err)
	f.staffRepo.add(first)
	second, err := identity.NewStaff(f.companyID, "sade@mamacass.ng", "Sade Balogun", "waiter", "")
	require.NoError(t, err)
	f.staffRepo.add(second)

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{
		OutletID:  f.outletID,
		HandlerID: &first.ID,
	})
	require.NoError(t, err)

	order, err = f.svc.AssignHandler(context.Background(), f.companyID, order.ID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, order.HandlerID)
	assert.Equal(t, second.ID, *order.HandlerID)

	require.NoError(t, second.Deactivate())
	f.staffRepo.add(second)
	_, err = f.svc.AssignHandler(context.Background(), f.companyID, order.ID, second.ID)
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestOrderService_RefundFreesPaymentHeadroom(t *testing.T) {
	f := newOrderFixture(t)
	suya := f.seedMenuItem(t, "Suya Platter", 4000)

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{OutletID: f.outletID})
	require.NoError(t, err)
	_, err = f.svc.AddItem(context.Background(), f.companyID, order.ID, suya.ID, 1, "")
	require.NoError(t, err)

	payment, err := f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:  valueobject.NewMoneyNGN(decimal.NewFromInt(4000)),
		Method:  "card",
		Settled: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RefundPayment(context.Background(), f.companyID, order.ID, payment.ID))

	// refunded money no longer counts against the total
	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:  valueobject.NewMoneyNGN(decimal.NewFromInt(4000)),
		Method:  "transfer",
		Settled: true,
	})
	require.NoError(t, err)
}

func TestOrderService_DuplicatePaymentReference(t *testing.T) {
	f := newOrderFixture(t)
	suya := f.seedMenuItem(t, "Suya Platter", 4000)
	f.svc.WithPaymentDedupe(newFakeIdempotencyStore(), 0)

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{OutletID: f.outletID})
	require.NoError(t, err)
	_, err = f.svc.AddItem(context.Background(), f.companyID, order.ID, suya.ID, 2, "")
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:    valueobject.NewMoneyNGN(decimal.NewFromInt(4000)),
		Method:    "transfer",
		Reference: "TXN-8841",
	})
	require.NoError(t, err)

	// a retried capture with the same reference is refused
	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:    valueobject.NewMoneyNGN(decimal.NewFromInt(4000)),
		Method:    "transfer",
		Reference: "TXN-8841",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// a fresh reference still goes through
	_, err = f.svc.RecordPayment(context.Background(), f.companyID, order.ID, RecordPaymentInput{
		Amount:    valueobject.NewMoneyNGN(decimal.NewFromInt(4000)),
		Method:    "transfer",
		Reference: "TXN-8842",
	})
	require.NoError(t, err)
}

func TestOrderService_SplitOrder(t *testing.T) {
	f := newOrderFixture(t)
	table := f.seedTable(t, "T3", 6)
	waiter, err := identity.NewStaff(f.companyID, "musa@mamacass.ng", "Musa Bello", "waiter", "")
	require.NoError(t, err)
	f.staffRepo.add(waiter)

	order, err := f.svc.OpenOrder(context.Background(), f.companyID, OpenOrderInput{
		OutletID:  f.outletID,
		TableID:   &table.ID,
		HandlerID: &waiter.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, order.HandlerID)
	assert.Equal(t, waiter.ID, *order.HandlerID)

	split, err := f.svc.SplitOrder(context.Background(), f.companyID, order.ID)
	require.NoError(t, err)
	require.NotNil(t, split.SplitFromID)
	assert.Equal(t, order.ID, *split.SplitFromID)
	assert.Equal(t, ordering.OrderNew, split.Status)
	assert.True(t, split.Total.IsZero())

	// the split keeps the waiter who handled the original
	require.NotNil(t, split.HandlerID)
	assert.Equal(t, waiter.ID, *split.HandlerID)
}
