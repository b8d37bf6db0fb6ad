package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/application/ordering"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *ordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *ordering.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  NewBaseHandler(logger),
		orderService: orderService,
	}
}

// Place handles order placement by a customer
// @Summary Place an order
// @Description Places an order against a shopkeeper. Credit orders create a ledger entry on delivery.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ordering.PlaceOrderRequest true "Order details"
// @Success 201 {object} dto.Response{data=ordering.OrderResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	customerID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req ordering.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get returns a single order visible to the requester
// @Summary Get an order
// @Description Returns an order. Only the ordering customer and the receiving shopkeeper may view it.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), requesterID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListMine returns the authenticated customer's orders
// @Summary List my orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, confirmed, delivered, cancelled)
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]ordering.OrderResponse}
// @Router /api/v1/orders/mine [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	customerID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var filter ordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.ListForCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, result.Total)
}

// ListReceived returns orders placed against the authenticated shopkeeper
// @Summary List received orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, confirmed, delivered, cancelled)
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]ordering.OrderResponse}
// @Router /api/v1/orders/received [get]
func (h *OrderHandler) ListReceived(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var filter ordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.ListForShopkeeper(c.Request.Context(), shopkeeperID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, result.Total)
}

// Confirm moves a pending order to confirmed
// @Summary Confirm an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure 403 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), shopkeeperID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Deliver moves a confirmed order to delivered
// @Summary Deliver an order
// @Description Marks an order delivered. Credit orders open a ledger entry at this point.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure 403 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Deliver(c.Request.Context(), shopkeeperID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels an order and restocks its items
// @Summary Cancel an order
// @Description Cancels a pending or confirmed order. Both parties may cancel.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body ordering.CancelOrderRequest true "Cancellation reason"
// @Success 200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure 403 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ordering.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), requesterID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
