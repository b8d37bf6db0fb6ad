package credit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is recognized
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Payment is a single payment applied to a credit record.
// It is a value object within the CreditRecord aggregate, stored as
// JSONB, immutable once appended.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	CreditRecordID uuid.UUID       `json:"credit_record_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	Notes          string          `json:"notes,omitempty"`
	PaymentDate    time.Time       `json:"payment_date"`
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Amount)
}

// Payments is a slice of Payment that implements GORM Scanner/Valuer for JSONB storage
type Payments []Payment

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *Payments) Scan(value interface{}) error {
	if value == nil {
		*p = Payments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Payments: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Payments{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// newPayment creates a payment entry for a credit record
func newPayment(creditRecordID uuid.UUID, amount valueobject.Money, method PaymentMethod, notes string, at time.Time) Payment {
	return Payment{
		ID:             uuid.New(),
		CreditRecordID: creditRecordID,
		Amount:         amount.Amount(),
		Method:         method,
		Notes:          notes,
		PaymentDate:    at,
	}
}

// CreditRecord tracks money a customer owes a shopkeeper for an order
// placed on credit. Total is fixed at creation; paid only grows by
// appending payments through ApplyPayment, and remaining is always
// total minus paid.
type CreditRecord struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID
	CustomerID     uuid.UUID
	CustomerName   string
	ShopkeeperID   uuid.UUID
	ShopkeeperName string
	Total          valueobject.Money
	Paid           valueobject.Money
	Remaining      valueobject.Money
	DueDate        time.Time
	Status         Status
	Payments       Payments
	PaidAt         *time.Time
}

// NewCreditRecord creates a credit record for the given amount owed.
// The due date must not precede the creation time.
func NewCreditRecord(
	orderID uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	shopkeeperID uuid.UUID,
	shopkeeperName string,
	total valueobject.Money,
	dueDate time.Time,
) (*CreditRecord, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if shopkeeperID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOPKEEPER", "Shopkeeper ID cannot be empty")
	}
	if shopkeeperName == "" {
		return nil, shared.NewDomainError("INVALID_SHOPKEEPER_NAME", "Shopkeeper name cannot be empty")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}

	record := &CreditRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		CustomerID:        customerID,
		CustomerName:      customerName,
		ShopkeeperID:      shopkeeperID,
		ShopkeeperName:    shopkeeperName,
		Total:             total,
		Paid:              valueobject.ZeroINR(),
		Remaining:         total,
		DueDate:           dueDate,
		Payments:          Payments{},
	}

	if dueDate.Before(record.CreatedAt) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the creation time")
	}

	record.Status = DeriveStatus(record.Remaining, record.DueDate, record.CreatedAt)

	record.AddDomainEvent(NewCreditRecordCreatedEvent(record))

	return record, nil
}

// NewCreditRecordFromOrder opens a credit record for an order placed on
// credit terms. The record total equals the order total.
func NewCreditRecordFromOrder(order *ordering.Order, customerName, shopkeeperName string, dueDate time.Time) (*CreditRecord, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if !order.PaymentTerms.IsCredit() {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order was not placed on credit terms")
	}
	return NewCreditRecord(order.ID, order.CustomerID, customerName, order.ShopkeeperID, shopkeeperName, order.Total, dueDate)
}

// ApplyPayment appends a payment and updates the paid and remaining
// balances. This is the only operation that mutates the balances.
// A payment larger than the remaining balance is rejected outright;
// nothing is clamped and the record is left untouched.
func (r *CreditRecord) ApplyPayment(amount valueobject.Money, method PaymentMethod, notes string) error {
	return r.ApplyPaymentAt(amount, method, notes, time.Now())
}

// ApplyPaymentAt is ApplyPayment with an explicit clock, for callers
// that need deterministic timestamps.
func (r *CreditRecord) ApplyPaymentAt(amount valueobject.Money, method PaymentMethod, notes string, now time.Time) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	greater, err := amount.GreaterThan(r.Remaining)
	if err != nil {
		return err
	}
	if greater {
		return shared.NewDomainError("OVERPAYMENT", fmt.Sprintf("Payment amount %s exceeds remaining amount %s", amount.StringFixed(), r.Remaining.StringFixed()))
	}

	paid, err := r.Paid.Add(amount)
	if err != nil {
		return err
	}
	remaining, err := r.Total.SubtractStrict(paid)
	if err != nil {
		return err
	}

	r.Payments = append(r.Payments, newPayment(r.ID, amount, method, notes, now))
	r.Paid = paid
	r.Remaining = remaining
	r.Status = DeriveStatus(r.Remaining, r.DueDate, now)
	r.UpdatedAt = now
	r.IncrementVersion()

	if r.Status == StatusPaid {
		r.PaidAt = &now
		r.AddDomainEvent(NewCreditRecordPaidEvent(r))
	} else {
		r.AddDomainEvent(NewPaymentAppliedEvent(r, amount, method))
	}

	return nil
}

// Recompute refreshes the derived status as of the given time.
// Overdue depends on the clock, so every read path goes through here
// rather than trusting the status frozen at the last mutation.
// Idempotent; touches nothing but the status field.
func (r *CreditRecord) Recompute(now time.Time) {
	r.Status = DeriveStatus(r.Remaining, r.DueDate, now)
}

// IsPaid returns true when the record is fully settled
func (r *CreditRecord) IsPaid() bool {
	return r.Remaining.IsZero()
}

// IsOverdue returns true when the record is unpaid and past due as of now
func (r *CreditRecord) IsOverdue(now time.Time) bool {
	return DeriveStatus(r.Remaining, r.DueDate, now) == StatusOverdue
}

// DaysOverdue returns whole days past due as of now
func (r *CreditRecord) DaysOverdue(now time.Time) int {
	if !r.IsOverdue(now) {
		return 0
	}
	return DaysOverdue(r.DueDate, now)
}

// DaysUntilDue returns whole days until the due date as of now
func (r *CreditRecord) DaysUntilDue(now time.Time) int {
	return DaysUntilDue(r.DueDate, now)
}

// IsDueSoon returns true when the record falls due within windowDays
func (r *CreditRecord) IsDueSoon(now time.Time, windowDays int) bool {
	return IsDueSoon(r.Remaining, r.DueDate, now, windowDays)
}

// PaymentCount returns the number of payments applied
func (r *CreditRecord) PaymentCount() int {
	return len(r.Payments)
}
