package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalesDataRepository persists the derived daily snapshots
type SalesDataRepository interface {
	FindForDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*CompanySalesData, error)
	FindInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]CompanySalesData, error)
	// Replace atomically swaps the snapshot for the company and date: the
	// prior snapshot and its breakdown rows are deleted and the new one
	// inserted in the same transaction.
	Replace(ctx context.Context, snapshot *CompanySalesData) error
}
