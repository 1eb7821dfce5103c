package ordering

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService runs the order lifecycle from the floor: opening against a
// table, building the bill, settling and closing.
type OrderService struct {
	orderRepo ordering.OrderRepository
	tableRepo ordering.TableRepository
	menuRepo  ordering.MenuItemRepository
	staffRepo identity.StaffRepository
	dedupe    shared.IdempotencyStore
	dedupeTTL time.Duration
	logger    *zap.Logger
	validate  *validator.Validate
}

// defaultDedupeTTL covers the window in which a gateway or client retries a
// payment capture with the same reference.
const defaultDedupeTTL = 24 * time.Hour

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo ordering.OrderRepository,
	tableRepo ordering.TableRepository,
	menuRepo ordering.MenuItemRepository,
	staffRepo identity.StaffRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		tableRepo: tableRepo,
		menuRepo:  menuRepo,
		staffRepo: staffRepo,
		logger:    logger,
		validate:  validator.New(),
	}
}

// WithPaymentDedupe enables duplicate payment-reference detection backed by
// the given store. A non-positive ttl falls back to the default window.
func (s *OrderService) WithPaymentDedupe(store shared.IdempotencyStore, ttl time.Duration) *OrderService {
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	s.dedupe = store
	s.dedupeTTL = ttl
	return s
}

// OpenOrderInput contains input for opening an order
type OpenOrderInput struct {
	OutletID  uuid.UUID  `validate:"required"`
	TableID   *uuid.UUID `validate:"-"`
	HandlerID *uuid.UUID `validate:"-"`
	GuestName string     `validate:"max=120"`
}

// OpenOrder opens an order, occupying the table when one is given. The
// table save runs under the optimistic lock so two waiters racing for the
// same table cannot both win.
func (s *OrderService) OpenOrder(ctx context.Context, companyID uuid.UUID, input OpenOrderInput) (*ordering.Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	if input.HandlerID != nil {
		staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, *input.HandlerID)
		if err != nil {
			return nil, err
		}
		if !staff.IsActive {
			return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Inactive staff cannot take orders")
		}
	}

	order, err := ordering.NewOrder(companyID, input.OutletID, input.HandlerID, input.GuestName)
	if err != nil {
		return nil, err
	}

	if input.TableID != nil {
		err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
			table, err := s.tableRepo.FindByIDForCompany(ctx, companyID, *input.TableID)
			if err != nil {
				return err
			}
			if err := order.AssignTable(table); err != nil {
				return err
			}
			return s.tableRepo.SaveWithLock(ctx, table)
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("order opened",
		zap.String("company_id", companyID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("table", order.TableNumber))
	return order, nil
}

// AssignHandler hands an open order to another staff member mid-service
func (s *OrderService) AssignHandler(ctx context.Context, companyID, orderID, staffID uuid.UUID) (*ordering.Order, error) {
	staff, err := s.staffRepo.FindByIDForCompany(ctx, companyID, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", "Inactive staff cannot take orders")
	}

	var order *ordering.Order
	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.AssignHandler(staffID); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem adds a line to an order and recomputes the total in the same save
func (s *OrderService) AddItem(ctx context.Context, companyID, orderID, menuItemID uuid.UUID, quantity int, notes string) (*ordering.Order, error) {
	item, err := s.menuRepo.FindByIDForCompany(ctx, companyID, menuItemID)
	if err != nil {
		return nil, err
	}

	var order *ordering.Order
	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if _, err := order.AddItem(item, quantity, notes); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateItemQuantity changes a line quantity and recomputes the total
func (s *OrderService) UpdateItemQuantity(ctx context.Context, companyID, orderID, itemID uuid.UUID, quantity int) (*ordering.Order, error) {
	var order *ordering.Order
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveItem deletes a line and recomputes the total
func (s *OrderService) RemoveItem(ctx context.Context, companyID, orderID, itemID uuid.UUID) (*ordering.Order, error) {
	var order *ordering.Order
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.RemoveItem(itemID); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RecordPaymentInput contains input for taking a payment
type RecordPaymentInput struct {
	Amount    valueobject.Money `validate:"required"`
	Method    string            `validate:"required,oneof=cash card transfer"`
	Reference string            `validate:"max=128"`
	Settled   bool
}

// RecordPayment takes a payment against an order. Settled payments are
// checked against the completed-sum cap inside the same lock-guarded save.
func (s *OrderService) RecordPayment(ctx context.Context, companyID, orderID uuid.UUID, input RecordPaymentInput) (*ordering.Payment, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	if s.dedupe != nil && input.Reference != "" {
		key := companyID.String() + ":" + input.Reference
		newlyMarked, err := s.dedupe.MarkProcessed(ctx, key, s.dedupeTTL)
		if err != nil {
			return nil, err
		}
		if !newlyMarked {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A payment with this reference was already recorded")
		}
	}

	var payment *ordering.Payment
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if input.Settled {
			payment, err = ordering.NewCompletedPayment(companyID, input.Amount, ordering.PaymentMethod(input.Method), input.Reference)
		} else {
			payment, err = ordering.NewPayment(companyID, input.Amount, ordering.PaymentMethod(input.Method), input.Reference)
		}
		if err != nil {
			return err
		}
		if err := order.AddPayment(payment); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// SettlePayment marks a pending payment as completed, re-checking the
// completed-sum cap against the order total.
func (s *OrderService) SettlePayment(ctx context.Context, companyID, orderID, paymentID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.CompletePayment(paymentID); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
}

// RefundPayment reverses a completed payment
func (s *OrderService) RefundPayment(ctx context.Context, companyID, orderID, paymentID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.RefundPayment(paymentID); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			return err
		}
		s.logger.Warn("payment refunded",
			zap.String("order_id", orderID.String()),
			zap.String("payment_id", paymentID.String()))
		return nil
	})
}

// FailPayment records a failed capture attempt
func (s *OrderService) FailPayment(ctx context.Context, companyID, orderID, paymentID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.FailPayment(paymentID); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, order)
	})
}

// SplitOrder opens a sibling order on the same table so a party can settle
// separately. Lines are moved afterwards with the usual item operations.
func (s *OrderService) SplitOrder(ctx context.Context, companyID, orderID uuid.UUID) (*ordering.Order, error) {
	source, err := s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	split, err := source.SplitInto()
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// Transition moves the order along its lifecycle; completing or cancelling
// releases the bound table.
func (s *OrderService) Transition(ctx context.Context, companyID, orderID uuid.UUID, target ordering.OrderStatus) (*ordering.Order, error) {
	var order *ordering.Order
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForCompany(ctx, companyID, orderID)
		if err != nil {
			return err
		}

		switch target {
		case ordering.OrderInProgress:
			err = order.Start()
		case ordering.OrderReady:
			err = order.MarkReady()
		case ordering.OrderCompleted:
			err = order.Complete()
		case ordering.OrderCancelled:
			err = order.Cancel()
		default:
			err = shared.NewDomainError("INVALID_INPUT", "Unknown order status")
		}
		if err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			return err
		}

		if order.Status.IsTerminal() && order.TableID != nil {
			table, err := s.tableRepo.FindByIDForCompany(ctx, companyID, *order.TableID)
			if err != nil {
				return err
			}
			if err := table.Release(order.ID); err != nil {
				return err
			}
			return s.tableRepo.SaveWithLock(ctx, table)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("order transitioned",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(order.Status)))
	return order, nil
}
