package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// Version backs optimistic locking: every state-changing method on an
// aggregate increments it, and repositories compare-and-set on save.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// CompanyAggregateRoot scopes an aggregate to exactly one company (tenant).
// Every entity below a Company carries this; repositories must filter by
// CompanyID on every read and write.
type CompanyAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewCompanyAggregateRoot creates a new company-scoped aggregate root
func NewCompanyAggregateRoot(companyID uuid.UUID) CompanyAggregateRoot {
	return CompanyAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CompanyID:         companyID,
	}
}

// BelongsTo reports whether the aggregate is owned by the given company.
func (c *CompanyAggregateRoot) BelongsTo(companyID uuid.UUID) bool {
	return c.CompanyID == companyID
}

// OutletAggregateRoot scopes an aggregate to one outlet within a company.
type OutletAggregateRoot struct {
	CompanyAggregateRoot
	OutletID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewOutletAggregateRoot creates a new outlet-scoped aggregate root
func NewOutletAggregateRoot(companyID, outletID uuid.UUID) OutletAggregateRoot {
	return OutletAggregateRoot{
		CompanyAggregateRoot: NewCompanyAggregateRoot(companyID),
		OutletID:             outletID,
	}
}
