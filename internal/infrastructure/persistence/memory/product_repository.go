package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/catalog"
	"github.com/smartshop/backend/internal/domain/shared"
)

// ProductRepository is an in-memory catalog.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]catalog.Product
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]catalog.Product)}
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *ProductRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

// FindAll finds all products matching the filter
func (r *ProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(catalog.Product) bool { return true }), nil
}

// FindByCategory finds all products with the given category label
func (r *ProductRepository) FindByCategory(_ context.Context, category string, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(p catalog.Product) bool { return p.Category == category }), nil
}

// FindActive finds all active products
func (r *ProductRepository) FindActive(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(p catalog.Product) bool { return p.IsActive() }), nil
}

// FindByShopkeeper finds all products owned by the given shopkeeper
func (r *ProductRepository) FindByShopkeeper(_ context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(p catalog.Product) bool { return p.OwnedBy(shopkeeperID) }), nil
}

// CountByShopkeeper counts products owned by the given shopkeeper
func (r *ProductRepository) CountByShopkeeper(_ context.Context, shopkeeperID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := int64(0)
	for _, product := range r.products {
		if product.OwnedBy(shopkeeperID) {
			count++
		}
	}
	return count, nil
}

// ListCategories returns the distinct category labels in use
func (r *ProductRepository) ListCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, product := range r.products {
		if !seen[product.Category] {
			seen[product.Category] = true
			categories = append(categories, product.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Save creates or updates a product
func (r *ProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// SaveWithLock updates a product, rejecting stale versions
func (r *ProductRepository) SaveWithLock(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version >= product.Version {
		return shared.ErrConcurrencyConflict
	}
	r.products[product.ID] = *product
	return nil
}

// Delete deletes a product
func (r *ProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Count counts products matching the filter
func (r *ProductRepository) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := int64(0)
	for _, product := range r.products {
		if matchesSearch(product, filter.Search) {
			count++
		}
	}
	return count, nil
}

func (r *ProductRepository) collect(filter shared.Filter, match func(catalog.Product) bool) []catalog.Product {
	matched := make([]catalog.Product, 0)
	for _, product := range r.products {
		if match(product) && matchesSearch(product, filter.Search) {
			matched = append(matched, product)
		}
	}
	byCreatedAt(matched, func(p catalog.Product) time.Time { return p.CreatedAt })
	return paginate(matched, filter)
}

func matchesSearch(p catalog.Product, search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Description), search)
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)
