package identity

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Permission is a capability bit. The core treats the set as an opaque
// descriptor for the authorization layer; it never enforces permissions
// itself.
type Permission uint32

const (
	PermOrdersCreate Permission = 1 << iota
	PermOrdersRead
	PermOrdersUpdate
	PermOrdersDelete
	PermInventoryCreate
	PermInventoryRead
	PermInventoryUpdate
	PermInventoryDelete
	PermStockCreate
	PermStockRead
	PermStockUpdate
	PermStockDelete
)

// PermAll grants every capability bit
const PermAll = PermOrdersCreate | PermOrdersRead | PermOrdersUpdate | PermOrdersDelete |
	PermInventoryCreate | PermInventoryRead | PermInventoryUpdate | PermInventoryDelete |
	PermStockCreate | PermStockRead | PermStockUpdate | PermStockDelete

// Has reports whether all bits in p are set
func (p Permission) Has(perm Permission) bool {
	return p&perm == perm
}

// StaffGroup is a per-company named permission set plus the list of UI
// routes visible to its members, stored serialized.
type StaffGroup struct {
	shared.CompanyAggregateRoot
	Name          string     `gorm:"not null;uniqueIndex:idx_staff_group_company_name,priority:2"`
	Permissions   Permission `gorm:"not null;default:0"`
	VisibleRoutes string     // comma-separated route paths
}

// TableName returns the table name for GORM
func (StaffGroup) TableName() string {
	return "staff_groups"
}

// NewStaffGroup creates a new permission group for a company
func NewStaffGroup(companyID uuid.UUID, name string, permissions Permission) (*StaffGroup, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Staff group name cannot be empty")
	}

	return &StaffGroup{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Permissions:          permissions,
	}, nil
}

// Grant adds capability bits to the group
func (g *StaffGroup) Grant(perm Permission) {
	g.Permissions |= perm
	g.Touch()
	g.IncrementVersion()
}

// Revoke removes capability bits from the group
func (g *StaffGroup) Revoke(perm Permission) {
	g.Permissions &^= perm
	g.Touch()
	g.IncrementVersion()
}

// SetVisibleRoutes replaces the serialized route list
func (g *StaffGroup) SetVisibleRoutes(routes []string) {
	cleaned := make([]string, 0, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r != "" {
			cleaned = append(cleaned, r)
		}
	}
	g.VisibleRoutes = strings.Join(cleaned, ",")
	g.Touch()
	g.IncrementVersion()
}

// Routes returns the deserialized visible route list
func (g *StaffGroup) Routes() []string {
	if g.VisibleRoutes == "" {
		return nil
	}
	return strings.Split(g.VisibleRoutes, ",")
}
