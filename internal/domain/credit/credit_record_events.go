package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeCreditRecord = "CreditRecord"

// Event type constants
const (
	EventTypeCreditRecordCreated = "CreditRecordCreated"
	EventTypePaymentApplied      = "PaymentApplied"
	EventTypeCreditRecordPaid    = "CreditRecordPaid"
)

// CreditRecordCreatedEvent is published when a credit record is opened
type CreditRecordCreatedEvent struct {
	shared.BaseDomainEvent
	CreditRecordID uuid.UUID `json:"credit_record_id"`
	OrderID        uuid.UUID `json:"order_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	ShopkeeperID   uuid.UUID `json:"shopkeeper_id"`
	Total          string    `json:"total"`
	DueDate        time.Time `json:"due_date"`
}

// NewCreditRecordCreatedEvent creates a new CreditRecordCreatedEvent
func NewCreditRecordCreatedEvent(record *CreditRecord) *CreditRecordCreatedEvent {
	return &CreditRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditRecordCreated, AggregateTypeCreditRecord, record.ID),
		CreditRecordID:  record.ID,
		OrderID:         record.OrderID,
		CustomerID:      record.CustomerID,
		ShopkeeperID:    record.ShopkeeperID,
		Total:           record.Total.StringFixed(),
		DueDate:         record.DueDate,
	}
}

// PaymentAppliedEvent is published when a partial payment is applied
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	CreditRecordID uuid.UUID     `json:"credit_record_id"`
	Amount         string        `json:"amount"`
	Method         PaymentMethod `json:"method"`
	Paid           string        `json:"paid"`
	Remaining      string        `json:"remaining"`
}

// NewPaymentAppliedEvent creates a new PaymentAppliedEvent
func NewPaymentAppliedEvent(record *CreditRecord, amount valueobject.Money, method PaymentMethod) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentApplied, AggregateTypeCreditRecord, record.ID),
		CreditRecordID:  record.ID,
		Amount:          amount.StringFixed(),
		Method:          method,
		Paid:            record.Paid.StringFixed(),
		Remaining:       record.Remaining.StringFixed(),
	}
}

// CreditRecordPaidEvent is published when a record is fully settled
type CreditRecordPaidEvent struct {
	shared.BaseDomainEvent
	CreditRecordID uuid.UUID `json:"credit_record_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	Total          string    `json:"total"`
	PaymentCount   int       `json:"payment_count"`
}

// NewCreditRecordPaidEvent creates a new CreditRecordPaidEvent
func NewCreditRecordPaidEvent(record *CreditRecord) *CreditRecordPaidEvent {
	return &CreditRecordPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditRecordPaid, AggregateTypeCreditRecord, record.ID),
		CreditRecordID:  record.ID,
		CustomerID:      record.CustomerID,
		Total:           record.Total.StringFixed(),
		PaymentCount:    record.PaymentCount(),
	}
}
