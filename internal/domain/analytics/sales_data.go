package analytics

import (
	"sort"
	"time"

	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// topSellerLimit caps the TopSellingItem rows kept per snapshot
const topSellerLimit = 10

// CompanySalesData is the derived daily sales snapshot for a company. It is
// never edited by users; recomputation replaces the whole snapshot for the
// date, breakdown rows included.
type CompanySalesData struct {
	shared.CompanyAggregateRoot
	Date              time.Time         `gorm:"not null;uniqueIndex:idx_sales_data_company_date"`
	TotalSales        valueobject.Money `gorm:"type:decimal(18,4);not null"`
	OrderCount        int               `gorm:"not null"`
	AverageOrderValue valueobject.Money `gorm:"type:decimal(18,4);not null"`

	ByCategory []SalesByCategory `gorm:"foreignKey:SalesDataID;references:ID"`
	ByTime     []SalesByTime     `gorm:"foreignKey:SalesDataID;references:ID"`
	TopSellers []TopSellingItem  `gorm:"foreignKey:SalesDataID;references:ID"`
}

// TableName returns the table name for GORM
func (CompanySalesData) TableName() string {
	return "company_sales_data"
}

// SalesByCategory is one category's share of a day's sales
type SalesByCategory struct {
	shared.BaseEntity
	CompanyID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	SalesDataID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	CategoryID   uuid.UUID         `gorm:"type:uuid;not null"`
	CategoryName string            `gorm:"not null"`
	Amount       valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Quantity     int               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesByCategory) TableName() string {
	return "sales_by_category"
}

// SalesByTime is one hour's share of a day's sales
type SalesByTime struct {
	shared.BaseEntity
	CompanyID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	SalesDataID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Hour        int               `gorm:"not null"` // 0..23
	Amount      valueobject.Money `gorm:"type:decimal(18,4);not null"`
	OrderCount  int               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesByTime) TableName() string {
	return "sales_by_time"
}

// TopSellingItem is one of the day's best-selling menu items
type TopSellingItem struct {
	shared.BaseEntity
	CompanyID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	SalesDataID uuid.UUID         `gorm:"type:uuid;not null;index"`
	MenuItemID  uuid.UUID         `gorm:"type:uuid;not null"`
	Name        string            `gorm:"not null"`
	Quantity    int               `gorm:"not null"`
	Amount      valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Rank        int               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TopSellingItem) TableName() string {
	return "top_selling_items"
}

// CategoryRef names the category an order line counts towards
type CategoryRef struct {
	ID   uuid.UUID
	Name string
}

// BuildSnapshot derives a day's snapshot from the completed orders of that
// day. Non-completed orders are skipped; an order owned by another company
// aborts the build. categories maps menu item IDs to the category the line
// counts towards; unmapped lines are excluded from the category breakdown
// but still count in the totals.
func BuildSnapshot(companyID uuid.UUID, date time.Time, orders []ordering.Order, categories map[uuid.UUID]CategoryRef) (*CompanySalesData, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}

	snapshot := &CompanySalesData{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Date:                 date.Truncate(24 * time.Hour),
		TotalSales:           valueobject.ZeroNGN(),
		AverageOrderValue:    valueobject.ZeroNGN(),
	}

	type categoryBucket struct {
		ref      CategoryRef
		amount   valueobject.Money
		quantity int
	}
	type hourBucket struct {
		amount valueobject.Money
		orders int
	}
	type itemBucket struct {
		name     string
		amount   valueobject.Money
		quantity int
	}

	byCategory := make(map[uuid.UUID]*categoryBucket)
	byHour := make(map[int]*hourBucket)
	byItem := make(map[uuid.UUID]*itemBucket)

	for i := range orders {
		order := &orders[i]
		if order.CompanyID != companyID {
			return nil, shared.ErrTenantMismatch
		}
		if order.Status != ordering.OrderCompleted {
			continue
		}

		total, err := snapshot.TotalSales.Add(order.Total)
		if err != nil {
			return nil, err
		}
		snapshot.TotalSales = total
		snapshot.OrderCount++

		hour := order.CreatedAt.Hour()
		hb, ok := byHour[hour]
		if !ok {
			hb = &hourBucket{amount: valueobject.Zero(order.Total.Currency())}
			byHour[hour] = hb
		}
		if hb.amount, err = hb.amount.Add(order.Total); err != nil {
			return nil, err
		}
		hb.orders++

		for j := range order.Items {
			line := &order.Items[j]
			lineTotal := line.LineTotal()

			ib, ok := byItem[line.MenuItemID]
			if !ok {
				ib = &itemBucket{name: line.Name, amount: valueobject.Zero(lineTotal.Currency())}
				byItem[line.MenuItemID] = ib
			}
			if ib.amount, err = ib.amount.Add(lineTotal); err != nil {
				return nil, err
			}
			ib.quantity += line.Quantity

			ref, ok := categories[line.MenuItemID]
			if !ok {
				continue
			}
			cb, ok := byCategory[ref.ID]
			if !ok {
				cb = &categoryBucket{ref: ref, amount: valueobject.Zero(lineTotal.Currency())}
				byCategory[ref.ID] = cb
			}
			if cb.amount, err = cb.amount.Add(lineTotal); err != nil {
				return nil, err
			}
			cb.quantity += line.Quantity
		}
	}

	// Zero orders means zero average, not a division fault.
	if snapshot.OrderCount > 0 {
		average, err := snapshot.TotalSales.Divide(decimal.NewFromInt(int64(snapshot.OrderCount)))
		if err != nil {
			return nil, err
		}
		snapshot.AverageOrderValue = average.Round(4)
	}

	for _, cb := range byCategory {
		snapshot.ByCategory = append(snapshot.ByCategory, SalesByCategory{
			BaseEntity:   shared.NewBaseEntity(),
			CompanyID:    companyID,
			SalesDataID:  snapshot.ID,
			CategoryID:   cb.ref.ID,
			CategoryName: cb.ref.Name,
			Amount:       cb.amount,
			Quantity:     cb.quantity,
		})
	}
	sort.Slice(snapshot.ByCategory, func(a, b int) bool {
		return snapshot.ByCategory[a].CategoryName < snapshot.ByCategory[b].CategoryName
	})

	for hour, hb := range byHour {
		snapshot.ByTime = append(snapshot.ByTime, SalesByTime{
			BaseEntity:  shared.NewBaseEntity(),
			CompanyID:   companyID,
			SalesDataID: snapshot.ID,
			Hour:        hour,
			Amount:      hb.amount,
			OrderCount:  hb.orders,
		})
	}
	sort.Slice(snapshot.ByTime, func(a, b int) bool {
		return snapshot.ByTime[a].Hour < snapshot.ByTime[b].Hour
	})

	type ranked struct {
		id     uuid.UUID
		bucket *itemBucket
	}
	sellers := make([]ranked, 0, len(byItem))
	for id, ib := range byItem {
		sellers = append(sellers, ranked{id: id, bucket: ib})
	}
	sort.Slice(sellers, func(a, b int) bool {
		if sellers[a].bucket.quantity != sellers[b].bucket.quantity {
			return sellers[a].bucket.quantity > sellers[b].bucket.quantity
		}
		return sellers[a].bucket.name < sellers[b].bucket.name
	})
	if len(sellers) > topSellerLimit {
		sellers = sellers[:topSellerLimit]
	}
	for rank, seller := range sellers {
		snapshot.TopSellers = append(snapshot.TopSellers, TopSellingItem{
			BaseEntity:  shared.NewBaseEntity(),
			CompanyID:   companyID,
			SalesDataID: snapshot.ID,
			MenuItemID:  seller.id,
			Name:        seller.bucket.name,
			Quantity:    seller.bucket.quantity,
			Amount:      seller.bucket.amount,
			Rank:        rank + 1,
		})
	}

	return snapshot, nil
}
