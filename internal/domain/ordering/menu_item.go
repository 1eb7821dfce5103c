package ordering

import (
	"strings"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// MenuItem is a sellable item on an outlet's menu. Orders snapshot the
// price at the moment an item is added, so later price changes never
// rewrite order history.
type MenuItem struct {
	shared.OutletAggregateRoot
	Name        string            `gorm:"not null;uniqueIndex:idx_menu_item_name_outlet"`
	Description string
	Price       valueobject.Money `gorm:"type:decimal(18,4);not null"`
	ImageURL    string
	IsAvailable bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MenuItem) TableName() string {
	return "menu_items"
}

// NewMenuItem creates an available menu item
func NewMenuItem(companyID, outletID uuid.UUID, name, description string, price valueobject.Money) (*MenuItem, error) {
	name = strings.TrimSpace(name)
	if companyID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and outlet IDs are required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Menu item name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Menu item price cannot be negative")
	}
	return &MenuItem{
		OutletAggregateRoot: shared.NewOutletAggregateRoot(companyID, outletID),
		Name:                name,
		Description:         strings.TrimSpace(description),
		Price:               price,
		IsAvailable:         true,
	}, nil
}

// SetPrice updates the listed price. Existing order items keep their
// captured price.
func (m *MenuItem) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Menu item price cannot be negative")
	}
	m.Price = price
	m.Touch()
	m.IncrementVersion()
	return nil
}

// UpdateDetails updates the display fields
func (m *MenuItem) UpdateDetails(name, description, imageURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Menu item name cannot be empty")
	}
	m.Name = name
	m.Description = strings.TrimSpace(description)
	m.ImageURL = strings.TrimSpace(imageURL)
	m.Touch()
	m.IncrementVersion()
	return nil
}

// SetAvailability toggles whether the item can be ordered
func (m *MenuItem) SetAvailability(available bool) {
	m.IsAvailable = available
	m.Touch()
	m.IncrementVersion()
}
