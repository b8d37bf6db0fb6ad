package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	ShopkeeperID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Items         []OrderLineItemModel   `gorm:"foreignKey:OrderID;references:ID"`
	Total         decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Status        ordering.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus ordering.PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentTerms  ordering.PaymentTerms  `gorm:"type:varchar(20);not null"`
	Notes         string                 `gorm:"type:text"`
	ConfirmedAt   *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		ShopkeeperID:      m.ShopkeeperID,
		Total:             valueobject.NewMoneyINR(m.Total),
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		PaymentTerms:      m.PaymentTerms,
		Notes:             m.Notes,
		ConfirmedAt:       m.ConfirmedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Items:             make([]ordering.OrderLineItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.CustomerID = o.CustomerID
	m.ShopkeeperID = o.ShopkeeperID
	m.Total = o.Total.Amount()
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentTerms = o.PaymentTerms
	m.Notes = o.Notes
	m.ConfirmedAt = o.ConfirmedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderLineItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderLineItemModelFromDomain(item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineItemModel is the persistence model for the OrderLineItem entity.
// Line items are immutable snapshots, so there is no updated_at column.
type OrderLineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderLineItem.
func (m *OrderLineItemModel) ToDomain() ordering.OrderLineItem {
	return ordering.OrderLineItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   valueobject.NewMoneyINR(m.UnitPrice),
		LineTotal:   valueobject.NewMoneyINR(m.LineTotal),
	}
}

// OrderLineItemModelFromDomain creates a persistence model from a domain OrderLineItem.
func OrderLineItemModelFromDomain(i ordering.OrderLineItem) OrderLineItemModel {
	return OrderLineItemModel{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice.Amount(),
		LineTotal:   i.LineTotal.Amount(),
	}
}
