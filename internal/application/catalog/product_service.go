package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain/catalog"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product owned by the requesting shopkeeper
func (s *ProductService) Create(ctx context.Context, shopkeeperID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	price, err := valueobject.NewMoneyINRFromString(req.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be a valid decimal amount")
	}

	product, err := catalog.NewProduct(shopkeeperID, req.Name, req.Description, req.Category, price, req.Stock)
	if err != nil {
		return nil, err
	}

	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("failed to save product", zap.Error(err))
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("shopkeeper_id", shopkeeperID.String()),
		zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// findOwned loads a product and verifies the requester owns it
func (s *ProductService) findOwned(ctx context.Context, requesterID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(requesterID) {
		return nil, shared.ErrForbidden
	}
	return product, nil
}

// Update updates a product's basic information and price.
// Only the owning shopkeeper may update a product.
func (s *ProductService) Update(ctx context.Context, requesterID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	category := product.Category
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}
	if err := product.Update(name, description, category); err != nil {
		return nil, err
	}

	if req.Price != nil {
		price, err := valueobject.NewMoneyINRFromString(*req.Price)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price must be a valid decimal amount")
		}
		if err := product.UpdatePrice(price); err != nil {
			return nil, err
		}
	}

	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List lists products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	repoFilter.Search = filter.Search

	shopkeeperID := uuid.Nil
	if filter.ShopkeeperID != "" {
		id, err := uuid.Parse(filter.ShopkeeperID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_SHOPKEEPER", "Shopkeeper ID must be a valid UUID")
		}
		shopkeeperID = id
	}

	var (
		products []catalog.Product
		err      error
	)
	switch {
	case shopkeeperID != uuid.Nil:
		products, err = s.productRepo.FindByShopkeeper(ctx, shopkeeperID, repoFilter)
	case filter.Category != "":
		products, err = s.productRepo.FindByCategory(ctx, filter.Category, repoFilter)
	case filter.ActiveOnly:
		products, err = s.productRepo.FindActive(ctx, repoFilter)
	default:
		products, err = s.productRepo.FindAll(ctx, repoFilter)
	}
	if err != nil {
		return nil, err
	}

	var total int64
	if shopkeeperID != uuid.Nil {
		total, err = s.productRepo.CountByShopkeeper(ctx, shopkeeperID)
	} else {
		total, err = s.productRepo.Count(ctx, repoFilter)
	}
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToProductResponses(products), total, repoFilter.Page, repoFilter.PageSize)
	return &paginated, nil
}

// ListCategories returns the distinct category labels in use
func (s *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.ListCategories(ctx)
}

// AdjustStock replaces a product's stock level.
// Only the owning shopkeeper may adjust stock.
func (s *ProductService) AdjustStock(ctx context.Context, requesterID, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.findOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.Int("stock", product.Stock))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Activate makes a product visible in the storefront
func (s *ProductService) Activate(ctx context.Context, requesterID, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, requesterID, id, (*catalog.Product).Activate)
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, requesterID, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, requesterID, id, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, requesterID, id uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.findOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete deletes a product. Only the owning shopkeeper may delete it.
func (s *ProductService) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, requesterID, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return err
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}
