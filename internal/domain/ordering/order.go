package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents how much of the order has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentTerms determines whether an order is settled up front or on credit
type PaymentTerms string

const (
	PaymentTermsImmediate PaymentTerms = "immediate"
	PaymentTermsCredit    PaymentTerms = "credit"
)

// IsCredit returns true when the order should open a credit record
func (t PaymentTerms) IsCredit() bool {
	return t == PaymentTermsCredit
}

// IsValid checks if the terms value is recognized
func (t PaymentTerms) IsValid() bool {
	return t == PaymentTermsImmediate || t == PaymentTermsCredit
}

// OrderLineItem is a line item in a placed order.
// All fields are snapshots taken at order time and never change afterwards.
type OrderLineItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
	LineTotal   valueobject.Money
}

// newOrderLineItem creates an order line item from a cart line
func newOrderLineItem(orderID uuid.UUID, line CartLine) (OrderLineItem, error) {
	if line.Quantity <= 0 {
		return OrderLineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	total, err := line.UnitPrice.MultiplyByInt(int64(line.Quantity))
	if err != nil {
		return OrderLineItem{}, err
	}
	return OrderLineItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		LineTotal:   total,
	}, nil
}

// Order represents a placed customer order.
// Line items are immutable after creation; only status fields change.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID
	ShopkeeperID  uuid.UUID
	Items         []OrderLineItem
	Total         valueobject.Money
	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentTerms  PaymentTerms
	Notes         string
	ConfirmedAt   *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
}

// NewOrder creates an order from cart lines. Callers normally go through
// Cart.Build, which validates the cart first.
func NewOrder(customerID, shopkeeperID uuid.UUID, lines []CartLine, paymentTerms PaymentTerms, notes string) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if shopkeeperID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOPKEEPER", "Shopkeeper ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot place an order with an empty cart")
	}
	if !paymentTerms.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERMS", "Unknown payment terms")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		ShopkeeperID:      shopkeeperID,
		Items:             make([]OrderLineItem, 0, len(lines)),
		Total:             valueobject.ZeroINR(),
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusUnpaid,
		PaymentTerms:      paymentTerms,
		Notes:             notes,
	}

	for _, line := range lines {
		item, err := newOrderLineItem(order.ID, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
		order.Total = order.Total.MustAdd(item.LineTotal)
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Confirm moves the order from pending to confirmed
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed from status "+o.Status.String())
	}

	now := time.Now()
	oldStatus := o.Status
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// Deliver marks a confirmed order as delivered
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be delivered from status "+o.Status.String())
	}

	now := time.Now()
	oldStatus := o.Status
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// Cancel cancels the order with an optional reason
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled from status "+o.Status.String())
	}

	now := time.Now()
	oldStatus := o.Status
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, oldStatus))

	return nil
}

// SetPaymentStatus records how much of the order has been settled.
// Driven by the credit ledger as payments come in.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	switch status {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
	default:
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}

	if o.PaymentStatus == status {
		return nil
	}

	old := o.PaymentStatus
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentStatusChangedEvent(o, old))

	return nil
}

// IsCancelled returns true for cancelled orders
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ItemCount returns the number of distinct line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}
