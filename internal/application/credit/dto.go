package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/credit"
)

// MakePaymentRequest represents a payment recorded against a credit record
type MakePaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=cash upi card bank_transfer"`
	Notes  string `json:"notes" binding:"max=500"`
}

// CreditRecordListFilter represents filter options for credit record lists
type CreditRecordListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending overdue paid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PaymentResponse represents a single payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      string    `json:"amount"`
	Method      string    `json:"method"`
	Notes       string    `json:"notes,omitempty"`
	PaymentDate time.Time `json:"payment_date"`
}

// CreditRecordResponse represents a credit record in API responses.
// Status and the day counts are derived from the clock at response time.
type CreditRecordResponse struct {
	ID             uuid.UUID         `json:"id"`
	OrderID        uuid.UUID         `json:"order_id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	ShopkeeperID   uuid.UUID         `json:"shopkeeper_id"`
	ShopkeeperName string            `json:"shopkeeper_name"`
	Total          string            `json:"total"`
	Paid           string            `json:"paid"`
	Remaining      string            `json:"remaining"`
	Currency       string            `json:"currency"`
	DueDate        time.Time         `json:"due_date"`
	Status         string            `json:"status"`
	DaysOverdue    int               `json:"days_overdue"`
	DaysUntilDue   int               `json:"days_until_due"`
	DueSoon        bool              `json:"due_soon"`
	Payments       []PaymentResponse `json:"payments"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// OutstandingSummaryResponse aggregates a shopkeeper's open credit
type OutstandingSummaryResponse struct {
	TotalOutstanding string `json:"total_outstanding"`
	Currency         string `json:"currency"`
	OpenRecords      int    `json:"open_records"`
	OverdueRecords   int    `json:"overdue_records"`
}

// ReminderResponse represents a payment reminder in API responses
type ReminderResponse struct {
	CreditRecordID uuid.UUID `json:"credit_record_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	Classification string    `json:"classification"`
	Message        string    `json:"message"`
	DaysValue      int       `json:"days_value"`
	Remaining      string    `json:"remaining"`
	DueDate        time.Time `json:"due_date"`
}

// ToCreditRecordResponse converts a domain CreditRecord as of now
func ToCreditRecordResponse(r *credit.CreditRecord, now time.Time, windowDays int) CreditRecordResponse {
	payments := make([]PaymentResponse, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = PaymentResponse{
			ID:          p.ID,
			Amount:      p.GetAmountMoney().StringFixed(),
			Method:      string(p.Method),
			Notes:       p.Notes,
			PaymentDate: p.PaymentDate,
		}
	}
	daysUntilDue := 0
	if r.Status == credit.StatusPending {
		daysUntilDue = r.DaysUntilDue(now)
	}
	return CreditRecordResponse{
		ID:             r.ID,
		OrderID:        r.OrderID,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		ShopkeeperID:   r.ShopkeeperID,
		ShopkeeperName: r.ShopkeeperName,
		Total:          r.Total.StringFixed(),
		Paid:           r.Paid.StringFixed(),
		Remaining:      r.Remaining.StringFixed(),
		Currency:       string(r.Total.Currency()),
		DueDate:        r.DueDate,
		Status:         string(r.Status),
		DaysOverdue:    r.DaysOverdue(now),
		DaysUntilDue:   daysUntilDue,
		DueSoon:        r.IsDueSoon(now, windowDays),
		Payments:       payments,
		PaidAt:         r.PaidAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
}

// ToCreditRecordResponses converts a slice of domain CreditRecords
func ToCreditRecordResponses(records []credit.CreditRecord, now time.Time, windowDays int) []CreditRecordResponse {
	responses := make([]CreditRecordResponse, len(records))
	for i := range records {
		responses[i] = ToCreditRecordResponse(&records[i], now, windowDays)
	}
	return responses
}

// ToReminderResponse converts a domain Reminder
func ToReminderResponse(r credit.Reminder) ReminderResponse {
	return ReminderResponse{
		CreditRecordID: r.CreditRecordID,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		Classification: string(r.Classification),
		Message:        r.Message,
		DaysValue:      r.DaysValue,
		Remaining:      r.Remaining,
		DueDate:        r.DueDate,
	}
}

// ToReminderResponses converts a slice of domain Reminders
func ToReminderResponses(reminders []credit.Reminder) []ReminderResponse {
	responses := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		responses[i] = ToReminderResponse(r)
	}
	return responses
}
