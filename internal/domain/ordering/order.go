package ordering

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrderStatus is the kitchen lifecycle state of an order
type OrderStatus string

const (
	OrderNew        OrderStatus = "New"
	OrderInProgress OrderStatus = "In progress"
	OrderReady      OrderStatus = "Ready"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// CanTransitionTo enforces the forward lifecycle. Cancelled is reachable
// from every non-terminal state; Completed and Cancelled are terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderCancelled {
		return true
	}
	switch s {
	case OrderNew:
		return target == OrderInProgress
	case OrderInProgress:
		return target == OrderReady
	case OrderReady:
		return target == OrderCompleted
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// OrderItem is one line of an order. Name and Price are captured from the
// menu item when the line is added.
type OrderItem struct {
	shared.BaseEntity
	CompanyID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name       string            `gorm:"not null"`
	Price      valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Quantity   int               `gorm:"not null"`
	Notes      string
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns price x quantity for this line
func (i *OrderItem) LineTotal() valueobject.Money {
	return i.Price.MultiplyByInt(int64(i.Quantity))
}

// Order is a customer order against an outlet, optionally bound to a table.
// Total is derived from the lines; it is never set independently.
type Order struct {
	shared.OutletAggregateRoot
	TableID     *uuid.UUID  `gorm:"type:uuid;index"`
	TableNumber string      // denormalized for receipts
	HandlerID   *uuid.UUID  `gorm:"type:uuid;index"` // staff who took the order
	CustomerID  *uuid.UUID  `gorm:"type:uuid;index"`
	GuestName   string
	Notes       string
	SplitFromID *uuid.UUID        `gorm:"type:uuid"` // original order when split
	Status      OrderStatus       `gorm:"not null;default:New"`
	Total       valueobject.Money `gorm:"type:decimal(18,4);not null"`

	Items    []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Payments []Payment   `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder opens a new order for an outlet
func NewOrder(companyID, outletID uuid.UUID, handlerID *uuid.UUID, guestName string) (*Order, error) {
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	return &Order{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		HandlerID:           handlerID,
		GuestName:           strings.TrimSpace(guestName),
		Status:              OrderNew,
		Total:               valueobject.ZeroNGN(),
		Items:               make([]OrderItem, 0),
		Payments:            make([]Payment, 0),
	}, nil
}

// AssignTable binds the order to a table, occupying it. The table must
// belong to the same company and outlet as the order.
func (o *Order) AssignTable(table *Table) error {
	if table == nil {
		return shared.ErrNotFound
	}
	if table.CompanyID != o.CompanyID {
		return shared.ErrTenantMismatch
	}
	if table.OutletID != o.OutletID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Table belongs to a different outlet")
	}
	if o.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}
	if err := table.Occupy(o.ID); err != nil {
		return err
	}
	o.TableID = &table.ID
	o.TableNumber = table.Number
	o.Touch()
	o.IncrementVersion()
	return nil
}

// AssignHandler records the staff member serving the order
func (o *Order) AssignHandler(staffID uuid.UUID) error {
	if staffID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Staff ID is required")
	}
	o.HandlerID = &staffID
	o.Touch()
	o.IncrementVersion()
	return nil
}

// AddItem adds a line for a menu item, capturing its current price, and
// recomputes the total. Orders in a terminal state refuse new lines.
func (o *Order) AddItem(item *MenuItem, quantity int, notes string) (*OrderItem, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Cannot modify items on a closed order")
	}
	if item == nil {
		return nil, shared.ErrNotFound
	}
	if item.CompanyID != o.CompanyID {
		return nil, shared.ErrTenantMismatch
	}
	if !item.IsAvailable {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Menu item is not available")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}

	line := OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  o.CompanyID,
		OrderID:    o.ID,
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   quantity,
		Notes:      strings.TrimSpace(notes),
	}
	o.Items = append(o.Items, line)
	if err := o.recomputeTotal(); err != nil {
		o.Items = o.Items[:len(o.Items)-1]
		return nil, err
	}
	o.Touch()
	o.IncrementVersion()
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity changes a line's quantity and recomputes the total
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot modify items on a closed order")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			previous := o.Items[i].Quantity
			o.Items[i].Quantity = quantity
			if err := o.recomputeTotal(); err != nil {
				o.Items[i].Quantity = previous
				return err
			}
			o.Items[i].Touch()
			o.Touch()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem deletes a line and recomputes the total
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot modify items on a closed order")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			if err := o.recomputeTotal(); err != nil {
				return err
			}
			o.Touch()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// recomputeTotal rederives Total from the lines
func (o *Order) recomputeTotal() error {
	total := valueobject.Zero(o.Total.Currency())
	for i := range o.Items {
		sum, err := total.Add(o.Items[i].LineTotal())
		if err != nil {
			return err
		}
		total = sum
	}
	o.Total = total
	return nil
}

// Start moves the order into the kitchen
func (o *Order) Start() error {
	return o.transitionTo(OrderInProgress)
}

// MarkReady flags the order as ready to serve
func (o *Order) MarkReady() error {
	return o.transitionTo(OrderReady)
}

// Complete closes the order. The bound table is released by the caller
// once the save succeeds.
func (o *Order) Complete() error {
	return o.transitionTo(OrderCompleted)
}

// Cancel aborts the order from any non-terminal state
func (o *Order) Cancel() error {
	return o.transitionTo(OrderCancelled)
}

func (o *Order) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidTransition
	}
	o.Status = target
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetNotes replaces the free-text notes on the order
func (o *Order) SetNotes(notes string) {
	o.Notes = strings.TrimSpace(notes)
	o.Touch()
	o.IncrementVersion()
}

// SplitInto opens a new order carrying a back-reference to this one. Lines
// are moved by the caller via RemoveItem/AddItem within the same
// transaction.
func (o *Order) SplitInto() (*Order, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Cannot split a closed order")
	}
	split, err := NewOrder(o.CompanyID, o.OutletID, o.HandlerID, o.GuestName)
	if err != nil {
		return nil, err
	}
	split.SplitFromID = &o.ID
	return split, nil
}

// completedPaymentTotal sums payments currently in the completed state
func (o *Order) completedPaymentTotal() (valueobject.Money, error) {
	total := valueobject.Zero(o.Total.Currency())
	for i := range o.Payments {
		if o.Payments[i].Status != PaymentCompleted {
			continue
		}
		sum, err := total.Add(o.Payments[i].Amount)
		if err != nil {
			return total, err
		}
		total = sum
	}
	return total, nil
}

// AddPayment attaches a payment to the order. Cancelled orders accept no
// payments; a completed payment that would push the completed sum past the
// order total is an invariant violation.
func (o *Order) AddPayment(payment *Payment) error {
	if payment == nil {
		return shared.ErrNotFound
	}
	if payment.CompanyID != o.CompanyID {
		return shared.ErrTenantMismatch
	}
	if o.Status == OrderCancelled {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Cannot take payments on a cancelled order")
	}
	if payment.Status == PaymentCompleted {
		if err := o.checkPaymentFits(payment.Amount); err != nil {
			return err
		}
	}
	payment.OrderID = o.ID
	o.Payments = append(o.Payments, *payment)
	o.Touch()
	o.IncrementVersion()
	return nil
}

// CompletePayment settles a pending payment, re-checking the total cap at
// settlement time.
func (o *Order) CompletePayment(paymentID uuid.UUID) error {
	payment := o.findPayment(paymentID)
	if payment == nil {
		return shared.ErrNotFound
	}
	if o.Status == OrderCancelled {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Cannot take payments on a cancelled order")
	}
	if !payment.Status.CanTransitionTo(PaymentCompleted) {
		return shared.ErrInvalidTransition
	}
	if err := o.checkPaymentFits(payment.Amount); err != nil {
		return err
	}
	payment.Status = PaymentCompleted
	payment.Touch()
	o.Touch()
	o.IncrementVersion()
	return nil
}

// RefundPayment reverses a completed payment, freeing headroom for a
// replacement payment.
func (o *Order) RefundPayment(paymentID uuid.UUID) error {
	payment := o.findPayment(paymentID)
	if payment == nil {
		return shared.ErrNotFound
	}
	if !payment.Status.CanTransitionTo(PaymentRefunded) {
		return shared.ErrInvalidTransition
	}
	payment.Status = PaymentRefunded
	payment.Touch()
	o.Touch()
	o.IncrementVersion()
	return nil
}

// FailPayment marks a pending payment as failed
func (o *Order) FailPayment(paymentID uuid.UUID) error {
	payment := o.findPayment(paymentID)
	if payment == nil {
		return shared.ErrNotFound
	}
	if !payment.Status.CanTransitionTo(PaymentFailed) {
		return shared.ErrInvalidTransition
	}
	payment.Status = PaymentFailed
	payment.Touch()
	o.Touch()
	o.IncrementVersion()
	return nil
}

func (o *Order) findPayment(paymentID uuid.UUID) *Payment {
	for i := range o.Payments {
		if o.Payments[i].ID == paymentID {
			return &o.Payments[i]
		}
	}
	return nil
}

func (o *Order) checkPaymentFits(amount valueobject.Money) error {
	settled, err := o.completedPaymentTotal()
	if err != nil {
		return err
	}
	after, err := settled.Add(amount)
	if err != nil {
		return err
	}
	over, err := after.GreaterThan(o.Total)
	if err != nil {
		return err
	}
	if over {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Completed payments would exceed the order total")
	}
	return nil
}
