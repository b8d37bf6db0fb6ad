package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Category    string `json:"category" binding:"required,min=1,max=100"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock" binding:"min=0"`
	ImageURL    string `json:"image_url" binding:"max=500"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Category    *string `json:"category" binding:"omitempty,min=1,max=100"`
	Price       *string `json:"price"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
}

// AdjustStockRequest represents a request to set a product's stock level
type AdjustStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search       string `form:"search"`
	Category     string `form:"category"`
	ShopkeeperID string `form:"shopkeeper_id" binding:"omitempty,uuid"`
	ActiveOnly   bool   `form:"active_only"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID `json:"id"`
	ShopkeeperID uuid.UUID `json:"shopkeeper_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        string    `json:"price"`
	Currency     string    `json:"currency"`
	Stock        int       `json:"stock"`
	InStock      bool      `json:"in_stock"`
	ImageURL     string    `json:"image_url"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		ShopkeeperID: p.ShopkeeperID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price.StringFixed(),
		Currency:     string(p.Price.Currency()),
		Stock:        p.Stock,
		InStock:      p.Stock > 0,
		ImageURL:     p.ImageURL,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
