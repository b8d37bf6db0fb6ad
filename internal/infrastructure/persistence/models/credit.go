package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// CreditRecordModel is the persistence model for the CreditRecord aggregate root.
// Payments are stored as a JSONB array; they are value objects appended
// in order and never updated individually, so a child table buys nothing.
type CreditRecordModel struct {
	AggregateModel
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName   string          `gorm:"type:varchar(200);not null"`
	ShopkeeperID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShopkeeperName string          `gorm:"type:varchar(200);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Paid           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remaining      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueDate        time.Time       `gorm:"not null;index"`
	Status         credit.Status   `gorm:"type:varchar(20);not null;index"`
	Payments       credit.Payments `gorm:"type:jsonb;not null;default:'[]'"`
	PaidAt         *time.Time
}

// TableName returns the table name for GORM
func (CreditRecordModel) TableName() string {
	return "credit_records"
}

// ToDomain converts the persistence model to a domain CreditRecord entity.
func (m *CreditRecordModel) ToDomain() *credit.CreditRecord {
	record := &credit.CreditRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		ShopkeeperID:      m.ShopkeeperID,
		ShopkeeperName:    m.ShopkeeperName,
		Total:             valueobject.NewMoneyINR(m.Total),
		Paid:              valueobject.NewMoneyINR(m.Paid),
		Remaining:         valueobject.NewMoneyINR(m.Remaining),
		DueDate:           m.DueDate,
		Status:            m.Status,
		Payments:          m.Payments,
		PaidAt:            m.PaidAt,
	}
	if record.Payments == nil {
		record.Payments = credit.Payments{}
	}
	return record
}

// FromDomain populates the persistence model from a domain CreditRecord entity.
func (m *CreditRecordModel) FromDomain(r *credit.CreditRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OrderID = r.OrderID
	m.CustomerID = r.CustomerID
	m.CustomerName = r.CustomerName
	m.ShopkeeperID = r.ShopkeeperID
	m.ShopkeeperName = r.ShopkeeperName
	m.Total = r.Total.Amount()
	m.Paid = r.Paid.Amount()
	m.Remaining = r.Remaining.Amount()
	m.DueDate = r.DueDate
	m.Status = r.Status
	m.Payments = r.Payments
	m.PaidAt = r.PaidAt
}

// CreditRecordModelFromDomain creates a new persistence model from a domain CreditRecord entity.
func CreditRecordModelFromDomain(r *credit.CreditRecord) *CreditRecordModel {
	m := &CreditRecordModel{}
	m.FromDomain(r)
	return m
}
