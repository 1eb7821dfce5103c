package ordering

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups menu items for display and sales reporting.
type Category struct {
	shared.CompanyAggregateRoot
	Name        string `gorm:"not null;uniqueIndex:idx_category_name_company"`
	Description string
	IsActive    bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates an active category for a company
func NewCategory(companyID uuid.UUID, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	return &Category{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Description:          strings.TrimSpace(description),
		IsActive:             true,
	}, nil
}

// Rename updates the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	c.Name = name
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate hides the category without deleting sales history
func (c *Category) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Category is already inactive")
	}
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
	return nil
}

// MenuItemCategory is the association record linking a menu item to a
// category. It has no identity of its own; the pair of foreign keys is the
// primary key.
type MenuItemCategory struct {
	MenuItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (MenuItemCategory) TableName() string {
	return "menu_item_categories"
}

// NewMenuItemCategory links a menu item to a category of the same company
func NewMenuItemCategory(item *MenuItem, category *Category) (*MenuItemCategory, error) {
	if item == nil || category == nil {
		return nil, shared.ErrNotFound
	}
	if item.CompanyID != category.CompanyID {
		return nil, shared.ErrTenantMismatch
	}
	return &MenuItemCategory{
		MenuItemID: item.ID,
		CategoryID: category.ID,
		CompanyID:  item.CompanyID,
	}, nil
}
