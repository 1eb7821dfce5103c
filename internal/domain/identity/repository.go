package identity

import (
	"context"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository persists Company aggregates
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByName(ctx context.Context, name string) (*Company, error)
	Save(ctx context.Context, company *Company) error
	SaveWithLock(ctx context.Context, company *Company) error
	// Delete removes the company. Depending on the configured cascade
	// policy the persistence layer either cascades to all descendant rows
	// or rejects while children exist; it never orphans silently.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OutletRepository persists Outlet aggregates
type OutletRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Outlet, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Outlet, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Outlet, error)
	Save(ctx context.Context, outlet *Outlet) error
	SaveWithLock(ctx context.Context, outlet *Outlet) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// StaffRepository persists Staff aggregates
type StaffRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Staff, error)
	FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Staff, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Staff, error)
	FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]Staff, error)
	CountActiveForCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	Save(ctx context.Context, staff *Staff) error
	SaveWithLock(ctx context.Context, staff *Staff) error
}

// StaffGroupRepository persists StaffGroup aggregates
type StaffGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StaffGroup, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*StaffGroup, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]StaffGroup, error)
	Save(ctx context.Context, group *StaffGroup) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
