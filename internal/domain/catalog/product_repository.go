package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products with the given category label
	FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]Product, error)

	// FindActive finds all active products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByShopkeeper finds all products owned by the given shopkeeper
	FindByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountByShopkeeper counts products owned by the given shopkeeper
	CountByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID) (int64, error)

	// ListCategories returns the distinct category labels in use
	ListCategories(ctx context.Context) ([]string, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product with optimistic concurrency control
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
