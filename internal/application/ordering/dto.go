package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/ordering"
)

// OrderItemRequest is one product line in a place-order request
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents a request to place an order.
// DueDate is required when payment terms are credit.
type PlaceOrderRequest struct {
	ShopkeeperID uuid.UUID          `json:"shopkeeper_id" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentTerms string             `json:"payment_terms" binding:"required,oneof=immediate credit"`
	DueDate      *time.Time         `json:"due_date"`
	Notes        string             `json:"notes" binding:"max=1000"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OrderLineItemResponse represents an order line item in API responses
type OrderLineItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID               `json:"id"`
	CustomerID     uuid.UUID               `json:"customer_id"`
	ShopkeeperID   uuid.UUID               `json:"shopkeeper_id"`
	Items          []OrderLineItemResponse `json:"items"`
	Total          string                  `json:"total"`
	Currency       string                  `json:"currency"`
	Status         string                  `json:"status"`
	PaymentStatus  string                  `json:"payment_status"`
	PaymentTerms   string                  `json:"payment_terms"`
	Notes          string                  `json:"notes,omitempty"`
	CreditRecordID *uuid.UUID              `json:"credit_record_id,omitempty"`
	ConfirmedAt    *time.Time              `json:"confirmed_at,omitempty"`
	DeliveredAt    *time.Time              `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time              `json:"cancelled_at,omitempty"`
	CancelReason   string                  `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Version        int                     `json:"version"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderLineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderLineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(),
			LineTotal:   item.LineTotal.StringFixed(),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		ShopkeeperID:  o.ShopkeeperID,
		Items:         items,
		Total:         o.Total.StringFixed(),
		Currency:      string(o.Total.Currency()),
		Status:        o.Status.String(),
		PaymentStatus: string(o.PaymentStatus),
		PaymentTerms:  string(o.PaymentTerms),
		Notes:         o.Notes,
		ConfirmedAt:   o.ConfirmedAt,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Version:       o.Version,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
