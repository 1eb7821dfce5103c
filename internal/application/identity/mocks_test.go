package identity

import (
	"context"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *mockCompanyRepo) FindByName(ctx context.Context, name string) (*identity.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *mockCompanyRepo) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *mockCompanyRepo) SaveWithLock(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *mockCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStaffRepo struct {
	mock.Mock
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *mockStaffRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.Staff, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *mockStaffRepo) FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*identity.Staff, error) {
	args := m.Called(ctx, companyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *mockStaffRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Staff), args.Error(1)
}

func (m *mockStaffRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	args := m.Called(ctx, companyID, outletID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Staff), args.Error(1)
}

func (m *mockStaffRepo) CountActiveForCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStaffRepo) Save(ctx context.Context, staff *identity.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *mockStaffRepo) SaveWithLock(ctx context.Context, staff *identity.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

type mockOutletRepo struct {
	mock.Mock
}

func (m *mockOutletRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Outlet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Outlet), args.Error(1)
}

func (m *mockOutletRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.Outlet, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Outlet), args.Error(1)
}

func (m *mockOutletRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Outlet, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Outlet), args.Error(1)
}

func (m *mockOutletRepo) Save(ctx context.Context, outlet *identity.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *mockOutletRepo) SaveWithLock(ctx context.Context, outlet *identity.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *mockOutletRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

type mockGroupRepo struct {
	mock.Mock
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.StaffGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.StaffGroup), args.Error(1)
}

func (m *mockGroupRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.StaffGroup, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.StaffGroup), args.Error(1)
}

func (m *mockGroupRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.StaffGroup, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.StaffGroup), args.Error(1)
}

func (m *mockGroupRepo) Save(ctx context.Context, group *identity.StaffGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockGroupRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}
