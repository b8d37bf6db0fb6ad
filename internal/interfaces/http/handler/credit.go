package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/application/credit"
)

// CreditHandler handles credit ledger endpoints
type CreditHandler struct {
	BaseHandler
	creditService *credit.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *credit.CreditService, logger *zap.Logger) *CreditHandler {
	return &CreditHandler{
		BaseHandler:   NewBaseHandler(logger),
		creditService: creditService,
	}
}

// Get returns a single credit record visible to the requester
// @Summary Get a credit record
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Param id path string true "Credit record ID"
// @Success 200 {object} dto.Response{data=credit.CreditRecordResponse}
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/credit/{id} [get]
func (h *CreditHandler) Get(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}

	recordID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.creditService.Get(c.Request.Context(), requesterID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByOrder returns the credit record attached to an order
// @Summary Get credit record by order
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=credit.CreditRecordResponse}
// @Failure 404 {object} dto.Response
// @Router /api/v1/orders/{id}/credit [get]
func (h *CreditHandler) GetByOrder(c *gin.Context) {
	requesterID, ok := h.getUserID(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.creditService.GetByOrder(c.Request.Context(), requesterID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListMine returns the authenticated customer's credit records
// @Summary List my credit records
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, overdue, paid)
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]credit.CreditRecordResponse}
// @Router /api/v1/credit/mine [get]
func (h *CreditHandler) ListMine(c *gin.Context) {
	customerID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var filter credit.CreditRecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.creditService.ListForCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, result.Total)
}

// ListForShop returns credit records owed to the authenticated shopkeeper
// @Summary List credit records for my shop
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, overdue, paid)
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]credit.CreditRecordResponse}
// @Router /api/v1/credit/shop [get]
func (h *CreditHandler) ListForShop(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var filter credit.CreditRecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.creditService.ListForShopkeeper(c.Request.Context(), shopkeeperID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, result.Total)
}

// ListOverdue returns open records whose due date has passed
// @Summary List overdue credit records
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=[]credit.CreditRecordResponse}
// @Router /api/v1/credit/overdue [get]
func (h *CreditHandler) ListOverdue(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	records, err := h.creditService.ListOverdue(c.Request.Context(), shopkeeperID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// ListDueSoon returns open records approaching their due date
// @Summary List credit records due soon
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=[]credit.CreditRecordResponse}
// @Router /api/v1/credit/due-soon [get]
func (h *CreditHandler) ListDueSoon(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	records, err := h.creditService.ListDueSoon(c.Request.Context(), shopkeeperID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// Summary returns the shopkeeper's outstanding balance summary
// @Summary Outstanding balance summary
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=credit.OutstandingSummaryResponse}
// @Router /api/v1/credit/summary [get]
func (h *CreditHandler) Summary(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	summary, err := h.creditService.OutstandingSummary(c.Request.Context(), shopkeeperID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Pay records a payment against a credit record
// @Summary Record a payment
// @Description Records a full or partial payment. Overpayment is rejected.
// @Tags credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Credit record ID"
// @Param request body credit.MakePaymentRequest true "Payment details"
// @Success 200 {object} dto.Response{data=credit.CreditRecordResponse}
// @Failure 403 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/credit/{id}/payments [post]
func (h *CreditHandler) Pay(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	recordID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req credit.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	record, err := h.creditService.MakePayment(c.Request.Context(), shopkeeperID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}
