package analytics

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/analytics"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesService derives the daily sales snapshots. Recomputing a day is
// idempotent: the snapshot and its breakdown rows are replaced wholesale.
type SalesService struct {
	salesRepo    analytics.SalesDataRepository
	orderRepo    ordering.OrderRepository
	categoryRepo ordering.CategoryRepository
	logger       *zap.Logger
}

// NewSalesService creates a new sales analytics service
func NewSalesService(
	salesRepo analytics.SalesDataRepository,
	orderRepo ordering.OrderRepository,
	categoryRepo ordering.CategoryRepository,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		salesRepo:    salesRepo,
		orderRepo:    orderRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// RecomputeDay rebuilds the snapshot for one calendar day from the orders
// completed that day.
func (s *SalesService) RecomputeDay(ctx context.Context, companyID uuid.UUID, date time.Time) (*analytics.CompanySalesData, error) {
	dayStart := date.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	orders, err := s.orderRepo.FindForCompanyInRange(ctx, companyID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryIndex(ctx, companyID)
	if err != nil {
		return nil, err
	}

	snapshot, err := analytics.BuildSnapshot(companyID, dayStart, orders, categories)
	if err != nil {
		return nil, err
	}
	if err := s.salesRepo.Replace(ctx, snapshot); err != nil {
		return nil, err
	}

	s.logger.Info("sales snapshot rebuilt",
		zap.String("company_id", companyID.String()),
		zap.Time("date", dayStart),
		zap.Int("order_count", snapshot.OrderCount))
	return snapshot, nil
}

// categoryIndex maps each linked menu item to the category its lines count
// towards. An item linked to several categories counts towards the first
// by category name, keeping recomputes deterministic.
func (s *SalesService) categoryIndex(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]analytics.CategoryRef, error) {
	cats, err := s.categoryRepo.FindAllForCompany(ctx, companyID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	refs := make(map[uuid.UUID]analytics.CategoryRef, len(cats))
	for _, c := range cats {
		refs[c.ID] = analytics.CategoryRef{ID: c.ID, Name: c.Name}
	}

	links, err := s.categoryRepo.FindAllLinksForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]analytics.CategoryRef, len(links))
	for _, link := range links {
		ref, ok := refs[link.CategoryID]
		if !ok {
			continue
		}
		current, seen := index[link.MenuItemID]
		if !seen || ref.Name < current.Name {
			index[link.MenuItemID] = ref
		}
	}
	return index, nil
}

// SnapshotForDate returns a stored day snapshot
func (s *SalesService) SnapshotForDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*analytics.CompanySalesData, error) {
	return s.salesRepo.FindForDate(ctx, companyID, date.Truncate(24*time.Hour))
}

// SnapshotsInRange returns stored snapshots over a date range
func (s *SalesService) SnapshotsInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]analytics.CompanySalesData, error) {
	return s.salesRepo.FindInRange(ctx, companyID, from, to)
}
