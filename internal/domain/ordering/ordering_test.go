package ordering

import (
	"testing"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMenuItem(t *testing.T, companyID, outletID uuid.UUID, price float64) *MenuItem {
	item, err := NewMenuItem(companyID, outletID, "Jollof rice", "with plantain", valueobject.NewMoneyNGNFromFloat(price))
	require.NoError(t, err)
	return item
}

func createTestOrder(t *testing.T, companyID, outletID uuid.UUID) *Order {
	order, err := NewOrder(companyID, outletID, nil, "walk-in")
	require.NoError(t, err)
	return order
}

func TestOrderStatus_TransitionMatrix(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderNew, OrderInProgress, true},
		{OrderNew, OrderReady, false},
		{OrderNew, OrderCompleted, false},
		{OrderNew, OrderCancelled, true},
		{OrderInProgress, OrderReady, true},
		{OrderInProgress, OrderCompleted, false},
		{OrderInProgress, OrderCancelled, true},
		{OrderReady, OrderCompleted, true},
		{OrderReady, OrderInProgress, false},
		{OrderReady, OrderCancelled, true},
		{OrderCompleted, OrderCancelled, false},
		{OrderCompleted, OrderNew, false},
		{OrderCancelled, OrderNew, false},
		{OrderCancelled, OrderInProgress, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrder_TotalDerivedFromItems(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()
	order := createTestOrder(t, companyID, outletID)
	item := createTestMenuItem(t, companyID, outletID, 1500)

	line, err := order.AddItem(item, 2, "")
	require.NoError(t, err)
	assert.True(t, order.Total.Equals(valueobject.NewMoneyNGNFromFloat(3000)))
	assert.Equal(t, item.Name, line.Name, "line captures the menu item name")

	require.NoError(t, order.UpdateItemQuantity(line.ID, 3))
	assert.True(t, order.Total.Equals(valueobject.NewMoneyNGNFromFloat(4500)))

	require.NoError(t, order.RemoveItem(line.ID))
	assert.True(t, order.Total.IsZero())

	assert.ErrorIs(t, order.RemoveItem(line.ID), shared.ErrNotFound)
}

func TestOrder_ItemPriceCaptured(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()
	order := createTestOrder(t, companyID, outletID)
	item := createTestMenuItem(t, companyID, outletID, 1000)

	line, err := order.AddItem(item, 1, "")
	require.NoError(t, err)

	require.NoError(t, item.SetPrice(valueobject.NewMoneyNGNFromFloat(2000)))
	assert.True(t, line.Price.Equals(valueobject.NewMoneyNGNFromFloat(1000)), "price change must not rewrite history")
	assert.True(t, order.Total.Equals(valueobject.NewMoneyNGNFromFloat(1000)))
}

func TestOrder_AddItemGuards(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()
	order := createTestOrder(t, companyID, outletID)

	foreign := createTestMenuItem(t, uuid.New(), outletID, 500)
	_, err := order.AddItem(foreign, 1, "")
	assert.ErrorIs(t, err, shared.ErrTenantMismatch)

	unavailable := createTestMenuItem(t, companyID, outletID, 500)
	unavailable.SetAvailability(false)
	_, err = order.AddItem(unavailable, 1, "")
	assert.Error(t, err)

	item := createTestMenuItem(t, companyID, outletID, 500)
	_, err = order.AddItem(item, 0, "")
	assert.Error(t, err)

	require.NoError(t, order.Cancel())
	_, err = order.AddItem(item, 1, "")
	assert.Error(t, err, "closed orders refuse new lines")
}

func TestTable_SingleActiveOrder(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()

	table, err := NewTable(companyID, outletID, "T1", 4)
	require.NoError(t, err)
	require.True(t, table.IsAvailable())

	first := createTestOrder(t, companyID, outletID)
	require.NoError(t, first.AssignTable(table))
	assert.Equal(t, TableOccupied, table.Status)
	assert.Equal(t, table.Number, first.TableNumber)

	second := createTestOrder(t, companyID, outletID)
	assert.Error(t, second.AssignTable(table), "occupied table refuses a second order")

	assert.Error(t, table.Release(second.ID), "only the holding order releases")
	require.NoError(t, table.Release(first.ID))
	assert.True(t, table.IsAvailable())
}

func TestOrder_AssignTableTenantBoundary(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()
	order := createTestOrder(t, companyID, outletID)

	foreign, err := NewTable(uuid.New(), outletID, "T9", 2)
	require.NoError(t, err)
	assert.ErrorIs(t, order.AssignTable(foreign), shared.ErrTenantMismatch)

	otherOutlet, err := NewTable(companyID, uuid.New(), "T9", 2)
	require.NoError(t, err)
	assert.Error(t, order.AssignTable(otherOutlet))
}

// Full flow from the floor: open order on a table, two plates at 10 each,
// pay exactly the total, overpay rejected, complete, table freed.
func TestOrder_TableAndPaymentScenario(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()

	table, err := NewTable(companyID, outletID, "T2", 2)
	require.NoError(t, err)

	order := createTestOrder(t, companyID, outletID)
	require.NoError(t, order.AssignTable(table))
	assert.Equal(t, TableOccupied, table.Status)

	item, err := NewMenuItem(companyID, outletID, "Suya plate", "", valueobject.NewMoneyNGNFromFloat(10))
	require.NoError(t, err)
	_, err = order.AddItem(item, 2, "")
	require.NoError(t, err)
	assert.True(t, order.Total.Equals(valueobject.NewMoneyNGNFromFloat(20)))

	settled, err := NewCompletedPayment(companyID, valueobject.NewMoneyNGNFromFloat(20), PaymentCash, "")
	require.NoError(t, err)
	require.NoError(t, order.AddPayment(settled))

	extra, err := NewCompletedPayment(companyID, valueobject.NewMoneyNGNFromFloat(1), PaymentCash, "")
	require.NoError(t, err)
	err = order.AddPayment(extra)
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)

	require.NoError(t, order.Start())
	require.NoError(t, order.MarkReady())
	require.NoError(t, order.Complete())
	require.NoError(t, table.Release(order.ID))
	assert.True(t, table.IsAvailable())
}

func TestOrder_PaymentLifecycle(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()
	order := createTestOrder(t, companyID, outletID)
	item := createTestMenuItem(t, companyID, outletID, 100)
	_, err := order.AddItem(item, 1, "")
	require.NoError(t, err)

	pending, err := NewPayment(companyID, valueobject.NewMoneyNGNFromFloat(100), PaymentCard, "ref-001")
	require.NoError(t, err)
	require.NoError(t, order.AddPayment(pending))

	require.NoError(t, order.CompletePayment(pending.ID))
	assert.ErrorIs(t, order.CompletePayment(pending.ID), shared.ErrInvalidTransition)

	// Refund frees headroom for a replacement payment.
	require.NoError(t, order.RefundPayment(pending.ID))
	replacement, err := NewCompletedPayment(companyID, valueobject.NewMoneyNGNFromFloat(100), PaymentTransfer, "ref-002")
	require.NoError(t, err)
	require.NoError(t, order.AddPayment(replacement))
}

func TestOrder_PaymentOnCancelledOrder(t *testing.T) {
	companyID := uuid.New()
	order := createTestOrder(t, companyID, uuid.New())
	require.NoError(t, order.Cancel())

	payment, err := NewCompletedPayment(companyID, valueobject.NewMoneyNGNFromFloat(10), PaymentCash, "")
	require.NoError(t, err)
	assert.ErrorIs(t, order.AddPayment(payment), shared.ErrInvariantViolation)
}

func TestOrder_PaymentTenantBoundary(t *testing.T) {
	order := createTestOrder(t, uuid.New(), uuid.New())

	foreign, err := NewCompletedPayment(uuid.New(), valueobject.NewMoneyNGNFromFloat(10), PaymentCash, "")
	require.NoError(t, err)
	assert.ErrorIs(t, order.AddPayment(foreign), shared.ErrTenantMismatch)
}

func TestPaymentStatus_TransitionMatrix(t *testing.T) {
	cases := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentPending, PaymentCompleted, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentCompleted, PaymentRefunded, true},
		{PaymentCompleted, PaymentPending, false},
		{PaymentFailed, PaymentCompleted, false},
		{PaymentRefunded, PaymentCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrder_Split(t *testing.T) {
	companyID := uuid.New()
	outletID := uuid.New()
	order := createTestOrder(t, companyID, outletID)

	split, err := order.SplitInto()
	require.NoError(t, err)
	require.NotNil(t, split.SplitFromID)
	assert.Equal(t, order.ID, *split.SplitFromID)
	assert.Equal(t, companyID, split.CompanyID)

	require.NoError(t, order.Cancel())
	_, err = order.SplitInto()
	assert.Error(t, err)
}

func TestMenuItemCategory_Link(t *testing.T) {
	companyID := uuid.New()
	item := createTestMenuItem(t, companyID, uuid.New(), 100)

	category, err := NewCategory(companyID, "Mains", "")
	require.NoError(t, err)

	link, err := NewMenuItemCategory(item, category)
	require.NoError(t, err)
	assert.Equal(t, item.ID, link.MenuItemID)
	assert.Equal(t, category.ID, link.CategoryID)

	foreign, err := NewCategory(uuid.New(), "Drinks", "")
	require.NoError(t, err)
	_, err = NewMenuItemCategory(item, foreign)
	assert.ErrorIs(t, err, shared.ErrTenantMismatch)
}

func TestCategory_Lifecycle(t *testing.T) {
	category, err := NewCategory(uuid.New(), "Grills", "charcoal")
	require.NoError(t, err)

	require.NoError(t, category.Rename("Grill"))
	assert.Error(t, category.Rename(" "))

	require.NoError(t, category.Deactivate())
	assert.Error(t, category.Deactivate())
}
