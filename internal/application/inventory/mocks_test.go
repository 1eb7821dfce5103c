package inventory

import (
	"context"

	"github.com/hospos/backend/internal/domain/inventory"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockSupplierRepo struct {
	mock.Mock
}

func (m *mockSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.Supplier, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Supplier, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) Save(ctx context.Context, supplier *inventory.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *mockSupplierRepo) SaveWithLock(ctx context.Context, supplier *inventory.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}
