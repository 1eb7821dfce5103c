package ordering

import (
	"context"
	"sync"
	"time"

	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/domain/ordering"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories with the same compare-and-swap semantics the SQL
// layer provides: SaveWithLock rejects a write whose version has not
// advanced past the stored one.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]ordering.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]ordering.Order)}
}

func copyOrder(o ordering.Order) ordering.Order {
	o.Items = append([]ordering.OrderItem(nil), o.Items...)
	o.Payments = append([]ordering.Payment(nil), o.Payments...)
	return o
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := copyOrder(order)
	return &copied, nil
}

func (r *fakeOrderRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.Order, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.CompanyID == companyID && order.OutletID == outletID {
			out = append(out, copyOrder(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindActiveByTable(ctx context.Context, companyID, tableID uuid.UUID) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.CompanyID == companyID && order.TableID != nil && *order.TableID == tableID && !order.Status.IsTerminal() {
			copied := copyOrder(order)
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByStatus(ctx context.Context, companyID, outletID uuid.UUID, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.CompanyID == companyID && order.OutletID == outletID && order.Status == status {
			out = append(out, copyOrder(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindForCompanyInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.CompanyID == companyID && !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			out = append(out, copyOrder(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if order.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]ordering.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]ordering.Table)}
}

func (r *fakeTableRepo) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := table
	return &copied, nil
}

func (r *fakeTableRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.Table, error) {
	table, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return table, nil
}

func (r *fakeTableRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Table
	for _, table := range r.tables {
		if table.CompanyID == companyID && table.OutletID == outletID {
			out = append(out, table)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) FindAvailableByOutlet(ctx context.Context, companyID, outletID uuid.UUID) ([]ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Table
	for _, table := range r.tables {
		if table.CompanyID == companyID && table.OutletID == outletID && table.IsAvailable() {
			out = append(out, table)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) Save(ctx context.Context, table *ordering.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table.ID] = *table
	return nil
}

func (r *fakeTableRepo) SaveWithLock(ctx context.Context, table *ordering.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tables[table.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if table.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.tables[table.ID] = *table
	return nil
}

func (r *fakeTableRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[id]
	if !ok || table.CompanyID != companyID {
		return shared.ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

type fakeMenuRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]ordering.MenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[uuid.UUID]ordering.MenuItem)}
}

func (r *fakeMenuRepo) FindByID(ctx context.Context, id uuid.UUID) (*ordering.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (r *fakeMenuRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ordering.MenuItem, error) {
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeMenuRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]ordering.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.MenuItem
	for _, item := range r.items {
		if item.CompanyID == companyID && item.OutletID == outletID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) FindByCategory(ctx context.Context, companyID, categoryID uuid.UUID, filter shared.Filter) ([]ordering.MenuItem, error) {
	return nil, nil
}

func (r *fakeMenuRepo) Save(ctx context.Context, item *ordering.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeMenuRepo) SaveWithLock(ctx context.Context, item *ordering.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if item.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeMenuRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.CompanyID != companyID {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[uuid.UUID]identity.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[uuid.UUID]identity.Staff)}
}

func (r *fakeStaffRepo) add(s *identity.Staff) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staff[s.ID] = *s
}

func (r *fakeStaffRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (r *fakeStaffRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.Staff, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeStaffRepo) FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*identity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.CompanyID == companyID && s.Email == email {
			copied := s
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStaffRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	return nil, nil
}

func (r *fakeStaffRepo) FindByOutlet(ctx context.Context, companyID, outletID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	return nil, nil
}

func (r *fakeStaffRepo) CountActiveForCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeStaffRepo) Save(ctx context.Context, s *identity.Staff) error {
	r.add(s)
	return nil
}

func (r *fakeStaffRepo) SaveWithLock(ctx context.Context, s *identity.Staff) error {
	r.add(s)
	return nil
}

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]time.Time)}
}

func (s *fakeIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expires, ok := s.seen[key]; ok && time.Now().Before(expires) {
		return false, nil
	}
	s.seen[key] = time.Now().Add(ttl)
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.seen[key]
	return ok && time.Now().Before(expires), nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }
