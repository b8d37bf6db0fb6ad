package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/application/credit"
)

// ReminderHandler handles payment reminder endpoints
type ReminderHandler struct {
	BaseHandler
	reminderService *credit.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *credit.ReminderService, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		BaseHandler:     NewBaseHandler(logger),
		reminderService: reminderService,
	}
}

// List returns reminder-eligible credit records for the shopkeeper
// @Summary List eligible reminders
// @Description Lists overdue and due-soon credit records without sending anything
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=[]credit.ReminderResponse}
// @Router /api/v1/reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	reminders, err := h.reminderService.List(c.Request.Context(), shopkeeperID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reminders)
}

// Send dispatches a reminder for a single credit record
// @Summary Send a reminder
// @Description Sends a payment reminder for one eligible credit record
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Credit record ID"
// @Success 200 {object} dto.Response{data=credit.ReminderResponse}
// @Failure 404 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/reminders/{id}/send [post]
func (h *ReminderHandler) Send(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	recordID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	reminder, err := h.reminderService.Send(c.Request.Context(), shopkeeperID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reminder)
}

// SendAll dispatches reminders for every eligible credit record
// @Summary Send all reminders
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Router /api/v1/reminders/send-all [post]
func (h *ReminderHandler) SendAll(c *gin.Context) {
	shopkeeperID, ok := h.getUserID(c)
	if !ok {
		return
	}

	sent, err := h.reminderService.SendAll(c.Request.Context(), shopkeeperID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"sent": sent})
}
