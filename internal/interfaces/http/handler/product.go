package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/application/catalog"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    NewBaseHandler(logger),
		productService: productService,
	}
}

// Create handles product creation
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body catalog.CreateProductRequest true "Product details"
// @Success 201 {object} dto.Response{data=catalog.ProductResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), shopkeeperID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID returns a single product
// @Summary Get a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure 404 {object} dto.Response
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns a paginated product listing
// @Summary List products
// @Description Lists products with optional search, category and active-only filters
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in name and description"
// @Param category query string false "Filter by category"
// @Param active_only query bool false "Only active products"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]catalog.ProductResponse}
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, result.Total)
}

// ListCategories returns the distinct product categories
// @Summary List product categories
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=[]string}
// @Router /api/v1/products/categories [get]
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Update handles partial product updates
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body catalog.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure 404 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), requesterID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AdjustStock sets a product's stock level
// @Summary Adjust product stock
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body catalog.AdjustStockRequest true "New stock level"
// @Success 200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure 404 {object} dto.Response
// @Router /api/v1/products/{id}/stock [put]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), requesterID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate marks a product as active
// @Summary Activate a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure 404 {object} dto.Response
// @Router /api/v1/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), requesterID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate marks a product as inactive
// @Summary Deactivate a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure 404 {object} dto.Response
// @Router /api/v1/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), requesterID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.Response
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), requesterID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
