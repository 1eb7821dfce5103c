package inventory

import (
	"context"
	"errors"

	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StoreRequestService runs the store-request lifecycle: a pending request
// gathers lines, an approver signs off, and fulfillment issues stock as a
// plain deduction or as a paired transfer to another outlet.
type StoreRequestService struct {
	requestRepo inventory.StoreRequestRepository
	itemRepo    inventory.InventoryItemRepository
	logger      *zap.Logger
	validate    *validator.Validate
}

// NewStoreRequestService creates a new store request service
func NewStoreRequestService(
	requestRepo inventory.StoreRequestRepository,
	itemRepo inventory.InventoryItemRepository,
	logger *zap.Logger,
) *StoreRequestService {
	return &StoreRequestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		logger:      logger,
		validate:    validator.New(),
	}
}

// OpenRequestInput contains input for opening a store request
type OpenRequestInput struct {
	OutletID            uuid.UUID  `validate:"required"`
	DestinationOutletID *uuid.UUID `validate:"-"`
	RequestedBy         *uuid.UUID `validate:"-"`
	Notes               string     `validate:"max=1024"`
}

// OpenRequest opens a pending request against an outlet's store
func (s *StoreRequestService) OpenRequest(ctx context.Context, companyID uuid.UUID, input OpenRequestInput) (*inventory.StoreRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	request, err := inventory.NewStoreRequest(companyID, input.OutletID, input.RequestedBy, input.Notes)
	if err != nil {
		return nil, err
	}
	if input.DestinationOutletID != nil {
		if err := request.SetDestination(*input.DestinationOutletID); err != nil {
			return nil, err
		}
	}
	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// AddLine adds a requested quantity of an item to a pending request
func (s *StoreRequestService) AddLine(ctx context.Context, companyID, requestID, itemID uuid.UUID, quantity decimal.Decimal) (*inventory.StoreRequest, error) {
	item, err := s.itemRepo.FindByIDForCompany(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}

	var request *inventory.StoreRequest
	err = shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.FindByIDForCompany(ctx, companyID, requestID)
		if err != nil {
			return err
		}
		if err := request.AddItem(item, quantity); err != nil {
			return err
		}
		return s.requestRepo.SaveWithLock(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Approve signs off a pending request
func (s *StoreRequestService) Approve(ctx context.Context, companyID, requestID, approverID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		request, err := s.requestRepo.FindByIDForCompany(ctx, companyID, requestID)
		if err != nil {
			return err
		}
		if err := request.Approve(approverID); err != nil {
			return err
		}
		return s.requestRepo.SaveWithLock(ctx, request)
	})
}

// Reject declines a pending request
func (s *StoreRequestService) Reject(ctx context.Context, companyID, requestID, approverID uuid.UUID) error {
	return shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		request, err := s.requestRepo.FindByIDForCompany(ctx, companyID, requestID)
		if err != nil {
			return err
		}
		if err := request.Reject(approverID); err != nil {
			return err
		}
		return s.requestRepo.SaveWithLock(ctx, request)
	})
}

// FulfillLine issues stock against an approved line. The request, the source
// item, any destination item and the journal entries are committed in a
// single transaction, so a conflicting movement restarts the whole issue
// without leaving a partial write behind.
func (s *StoreRequestService) FulfillLine(ctx context.Context, companyID, requestID, lineID uuid.UUID, quantity decimal.Decimal, issuedBy *uuid.UUID) (*inventory.StoreRequest, error) {
	var request *inventory.StoreRequest
	err := shared.RetryOnConflict(ctx, shared.DefaultConflictRetries, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.FindByIDForCompany(ctx, companyID, requestID)
		if err != nil {
			return err
		}

		var line *inventory.StoreRequestItem
		for i := range request.Items {
			if request.Items[i].ID == lineID {
				line = &request.Items[i]
				break
			}
		}
		if line == nil {
			return shared.NewDomainError("NOT_FOUND", "Request line not found")
		}

		source, err := s.itemRepo.FindByIDForCompany(ctx, companyID, line.InventoryItemID)
		if err != nil {
			return err
		}
		destination, err := s.destinationItem(ctx, request, source)
		if err != nil {
			return err
		}

		movements, err := request.FulfillLine(lineID, quantity, source, destination, issuedBy)
		if err != nil {
			return err
		}

		items := []*inventory.InventoryItem{source}
		if destination != nil {
			items = append(items, destination)
		}
		return s.requestRepo.SaveFulfillment(ctx, request, items, movements)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("store request line fulfilled",
		zap.String("request_id", requestID.String()),
		zap.String("line_id", lineID.String()),
		zap.String("quantity", quantity.String()),
		zap.String("status", string(request.Status)))
	return request, nil
}

// destinationItem resolves the receiving item for a transfer request. The
// destination outlet tracks its own item row; it is matched by name and
// created on first receipt.
func (s *StoreRequestService) destinationItem(ctx context.Context, request *inventory.StoreRequest, source *inventory.InventoryItem) (*inventory.InventoryItem, error) {
	if request.DestinationOutletID == nil {
		return nil, nil
	}
	destination, err := s.itemRepo.FindByNameForOutlet(ctx, request.CompanyID, *request.DestinationOutletID, source.Name)
	if err == nil {
		return destination, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	destination, err = inventory.NewInventoryItem(request.CompanyID, *request.DestinationOutletID, source.Name, source.Unit, source.CostPerUnit)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, destination); err != nil {
		return nil, err
	}
	return destination, nil
}
