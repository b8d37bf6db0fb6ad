package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
)

// OrderRepository is an in-memory ordering.OrderRepository
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]ordering.Order
}

// NewOrderRepository creates an empty in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uuid.UUID]ordering.Order)}
}

// FindByID finds an order by its ID, including line items
func (r *OrderRepository) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(order), nil
}

// FindByCustomer finds orders placed by a customer
func (r *OrderRepository) FindByCustomer(_ context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(o ordering.Order) bool { return o.CustomerID == customerID }), nil
}

// FindByShopkeeper finds orders received by a shopkeeper
func (r *OrderRepository) FindByShopkeeper(_ context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(o ordering.Order) bool { return o.ShopkeeperID == shopkeeperID }), nil
}

// FindByStatus finds orders in the given status for a shopkeeper
func (r *OrderRepository) FindByStatus(_ context.Context, shopkeeperID uuid.UUID, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(o ordering.Order) bool {
		return o.ShopkeeperID == shopkeeperID && o.Status == status
	}), nil
}

// Save creates or updates an order and its line items
func (r *OrderRepository) Save(_ context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = *cloneOrder(*order)
	return nil
}

// SaveWithLock updates an order, rejecting stale versions
func (r *OrderRepository) SaveWithLock(_ context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version >= order.Version {
		return shared.ErrConcurrencyConflict
	}
	r.orders[order.ID] = *cloneOrder(*order)
	return nil
}

// CountByCustomer counts orders placed by a customer
func (r *OrderRepository) CountByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := int64(0)
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

// CountByShopkeeper counts orders received by a shopkeeper
func (r *OrderRepository) CountByShopkeeper(_ context.Context, shopkeeperID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := int64(0)
	for _, order := range r.orders {
		if order.ShopkeeperID == shopkeeperID {
			count++
		}
	}
	return count, nil
}

func (r *OrderRepository) collect(filter shared.Filter, match func(ordering.Order) bool) []ordering.Order {
	matched := make([]ordering.Order, 0)
	for _, order := range r.orders {
		if match(order) {
			matched = append(matched, *cloneOrder(order))
		}
	}
	byCreatedAt(matched, func(o ordering.Order) time.Time { return o.CreatedAt })
	return paginate(matched, filter)
}

// cloneOrder copies the order so callers cannot mutate stored state
// through the shared items slice
func cloneOrder(order ordering.Order) *ordering.Order {
	items := make([]ordering.OrderLineItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return &order
}

var _ ordering.OrderRepository = (*OrderRepository)(nil)
