package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	catalogports "github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
)

var (
	_ ports.OrderRepository  = (*Repository)(nil)
	_ ports.CouponRepository = (*CouponStore)(nil)
)

// CouponStore is an in-memory coupon adapter whose usage reservation matches
// the SQL conditional update: the count never passes the limit, no matter how
// many goroutines race it.
type CouponStore struct {
	mu     sync.Mutex
	byID   map[int64]*domain.Coupon
	byCode map[string]int64
	nextID int64
}

func NewCouponStore() *CouponStore {
	return &CouponStore{byID: map[int64]*domain.Coupon{}, byCode: map[string]int64{}}
}

// Seed inserts a coupon, assigning an id when missing.
func (s *CouponStore) Seed(coupon *domain.Coupon) *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *coupon
	if clone.ID == 0 {
		s.nextID++
		clone.ID = s.nextID
	} else if clone.ID > s.nextID {
		s.nextID = clone.ID
	}
	s.byID[clone.ID] = &clone
	s.byCode[clone.Code] = clone.ID
	out := clone
	return &out
}

func (s *CouponStore) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byCode[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	clone := *s.byID[id]
	return &clone, nil
}

// UsedCount reads the current usage count, for tests.
func (s *CouponStore) UsedCount(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.byID[id]; ok {
		return c.UsedCount
	}
	return 0
}

// reserve increments the usage count only while under the limit.
func (s *CouponStore) reserve(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coupon, ok := s.byID[id]
	if !ok {
		return domain.ErrCouponNotFound
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return domain.ErrCouponExhausted
	}
	coupon.UsedCount++
	return nil
}

func (s *CouponStore) release(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coupon, ok := s.byID[id]; ok && coupon.UsedCount > 0 {
		coupon.UsedCount--
	}
}

// Repository is the in-memory order adapter. PlaceOrder mirrors the SQL
// transaction by compensating earlier steps when a later one fails.
type Repository struct {
	mu      sync.RWMutex
	orders  map[int64]*domain.Order
	nextID  int64
	coupons *CouponStore
	stock   catalogports.StockReserver
}

func NewRepository(coupons *CouponStore, stock catalogports.StockReserver) *Repository {
	return &Repository{orders: map[int64]*domain.Order{}, coupons: coupons, stock: stock}
}

func (r *Repository) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if order.CouponID != nil {
		if err := r.coupons.reserve(*order.CouponID); err != nil {
			return nil, err
		}
	}
	reserved := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := r.stock.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			r.rollback(ctx, order, reserved)
			var conflict *catalogports.StockConflictError
			if errors.As(err, &conflict) {
				return nil, &ports.StockConflictError{ProductID: conflict.ProductID}
			}
			return nil, err
		}
		reserved = append(reserved, item)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneOrder(order)
	r.nextID++
	clone.ID = r.nextID
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	for i := range clone.Items {
		clone.Items[i].ID = int64(i) + 1
		clone.Items[i].OrderID = clone.ID
	}
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, customerID, orderID int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *Repository) UpdateSlip(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok || stored.CustomerID != order.CustomerID {
		return nil, ports.ErrNotFound
	}
	stored.SlipPath = order.SlipPath
	stored.Status = order.Status
	stored.UpdatedAt = time.Now()
	return cloneOrder(stored), nil
}

// rollback compensates partial reservations so an aborted placement leaves no
// trace, matching transactional rollback.
func (r *Repository) rollback(ctx context.Context, order *domain.Order, reserved []domain.OrderItem) {
	for _, item := range reserved {
		_ = r.stock.Release(ctx, item.ProductID, item.Quantity)
	}
	if order.CouponID != nil {
		r.coupons.release(*order.CouponID)
	}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.CouponID != nil {
		id := *o.CouponID
		clone.CouponID = &id
	}
	return &clone
}
