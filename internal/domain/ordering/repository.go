package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, including line items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCustomer finds orders placed by a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByShopkeeper finds orders received by a shopkeeper
	FindByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in the given status for a shopkeeper
	FindByStatus(ctx context.Context, shopkeeperID uuid.UUID, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its line items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock updates an order with optimistic concurrency control
	SaveWithLock(ctx context.Context, order *Order) error

	// CountByCustomer counts orders placed by a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// CountByShopkeeper counts orders received by a shopkeeper
	CountByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID) (int64, error)
}
