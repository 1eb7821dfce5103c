package identity

import (
	"strings"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OutletType categorizes what kind of premises an outlet is
type OutletType string

const (
	OutletTypeRestaurant OutletType = "restaurant"
	OutletTypeBar        OutletType = "bar"
	OutletTypeCafe       OutletType = "cafe"
	OutletTypeRetail     OutletType = "retail"
	OutletTypeHotel      OutletType = "hotel"
)

// ManagerPolicy controls whether an outlet manager must be assigned to the
// outlet they manage. The source system left this unconstrained, so it is a
// configuration decision rather than a hard rule.
type ManagerPolicy string

const (
	// ManagerPolicySameOutlet requires the manager's outlet assignment to
	// match the managed outlet (or be unset).
	ManagerPolicySameOutlet ManagerPolicy = "same_outlet"
	// ManagerPolicyAllowCrossOutlet permits managers from other outlets of
	// the same company.
	ManagerPolicyAllowCrossOutlet ManagerPolicy = "allow_cross_outlet"
)

// Outlet is a physical location (restaurant, bar, shop) owned by a company.
type Outlet struct {
	shared.CompanyAggregateRoot
	Name          string     `gorm:"not null;uniqueIndex:idx_outlet_company_name,priority:2"`
	Type          OutletType `gorm:"not null;default:restaurant"`
	Address       string
	ManagerID     *uuid.UUID `gorm:"type:uuid;index"`
	IsActive      bool       `gorm:"not null;default:true"`
	DeactivatedAt *time.Time
}

// TableName returns the table name for GORM
func (Outlet) TableName() string {
	return "outlets"
}

// NewOutlet creates a new outlet for a company
func NewOutlet(companyID uuid.UUID, name string, outletType OutletType, address string) (*Outlet, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Outlet name cannot be empty")
	}
	if outletType == "" {
		outletType = OutletTypeRestaurant
	}

	return &Outlet{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Type:                 outletType,
		Address:              address,
		IsActive:             true,
	}, nil
}

// Rename changes the outlet's name
func (o *Outlet) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Outlet name cannot be empty")
	}
	o.Name = name
	o.Touch()
	o.IncrementVersion()
	return nil
}

// AssignManager sets the outlet manager. The staff member must belong to the
// same company; under ManagerPolicySameOutlet their outlet assignment must
// be this outlet or unset.
func (o *Outlet) AssignManager(staff *Staff, policy ManagerPolicy) error {
	if staff == nil {
		return shared.ErrNotFound
	}
	if staff.CompanyID != o.CompanyID {
		return shared.ErrTenantMismatch
	}
	if !staff.IsActive {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Cannot assign a deactivated staff member as manager")
	}
	if policy == ManagerPolicySameOutlet && staff.OutletID != nil && *staff.OutletID != o.ID {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Manager must be assigned to the outlet they manage")
	}

	id := staff.ID
	o.ManagerID = &id
	o.Touch()
	o.IncrementVersion()
	return nil
}

// RemoveManager clears the outlet manager
func (o *Outlet) RemoveManager() {
	o.ManagerID = nil
	o.Touch()
	o.IncrementVersion()
}

// Deactivate soft-deactivates the outlet
func (o *Outlet) Deactivate() error {
	if !o.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Outlet is already deactivated")
	}
	now := time.Now()
	o.IsActive = false
	o.DeactivatedAt = &now
	o.Touch()
	o.IncrementVersion()
	return nil
}
