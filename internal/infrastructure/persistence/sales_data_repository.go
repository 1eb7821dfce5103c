package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/hospos/backend/internal/domain/analytics"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesDataRepository implements analytics.SalesDataRepository using GORM
type GormSalesDataRepository struct {
	db *gorm.DB
}

// NewGormSalesDataRepository creates a new GormSalesDataRepository
func NewGormSalesDataRepository(db *gorm.DB) *GormSalesDataRepository {
	return &GormSalesDataRepository{db: db}
}

// FindForDate finds the snapshot of one company and day with its breakdowns
func (r *GormSalesDataRepository) FindForDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*analytics.CompanySalesData, error) {
	var snapshot analytics.CompanySalesData
	if err := r.db.WithContext(ctx).
		Preload("ByCategory").
		Preload("ByTime").
		Preload("TopSellers").
		Where("company_id = ? AND date = ?", companyID, date).
		First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// FindInRange finds snapshots with date in [from, to), oldest first
func (r *GormSalesDataRepository) FindInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]analytics.CompanySalesData, error) {
	var snapshots []analytics.CompanySalesData
	if err := r.db.WithContext(ctx).
		Preload("ByCategory").
		Preload("ByTime").
		Preload("TopSellers").
		Where("company_id = ? AND date >= ? AND date < ?", companyID, from, to).
		Order("date ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Replace swaps the snapshot for the company and date atomically: the prior
// snapshot and its breakdown rows go away and the new one lands in the same
// transaction, so readers never see a half-recomputed day.
func (r *GormSalesDataRepository) Replace(ctx context.Context, snapshot *analytics.CompanySalesData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []analytics.CompanySalesData
		if err := tx.Select("id").
			Where("company_id = ? AND date = ?", snapshot.CompanyID, snapshot.Date).
			Find(&existing).Error; err != nil {
			return err
		}

		for _, old := range existing {
			if err := tx.Delete(&analytics.SalesByCategory{}, "sales_data_id = ?", old.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&analytics.SalesByTime{}, "sales_data_id = ?", old.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&analytics.TopSellingItem{}, "sales_data_id = ?", old.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&analytics.CompanySalesData{}, "id = ?", old.ID).Error; err != nil {
				return err
			}
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Create(snapshot).Error
	})
}

// Ensure GormSalesDataRepository implements SalesDataRepository
var _ analytics.SalesDataRepository = (*GormSalesDataRepository)(nil)
