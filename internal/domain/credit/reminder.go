package credit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReminderClassification distinguishes overdue from due-soon reminders
type ReminderClassification string

const (
	ReminderOverdue ReminderClassification = "overdue"
	ReminderDueSoon ReminderClassification = "due-soon"
)

// Reminder is a payment reminder payload derived from a credit record.
// Reminders are view artifacts: regenerated on demand, never persisted
// by the ledger, and delivery is left to the notification transport.
type Reminder struct {
	CreditRecordID uuid.UUID              `json:"credit_record_id"`
	CustomerID     uuid.UUID              `json:"customer_id"`
	CustomerName   string                 `json:"customer_name"`
	Classification ReminderClassification `json:"classification"`
	Message        string                 `json:"message"`
	DaysValue      int                    `json:"days_value"`
	Remaining      string                 `json:"remaining"`
	DueDate        time.Time              `json:"due_date"`
}

// BuildReminder produces a reminder payload for a record as of now, or
// false when the record is neither overdue nor due within windowDays.
func BuildReminder(record *CreditRecord, now time.Time, windowDays int) (Reminder, bool) {
	status := DeriveStatus(record.Remaining, record.DueDate, now)

	switch {
	case status == StatusOverdue:
		days := DaysOverdue(record.DueDate, now)
		return Reminder{
			CreditRecordID: record.ID,
			CustomerID:     record.CustomerID,
			CustomerName:   record.CustomerName,
			Classification: ReminderOverdue,
			Message: fmt.Sprintf("Payment reminder: ₹%s is overdue for payment. Due date was %s.",
				record.Remaining.StringFixed(), record.DueDate.Format("2006-01-02")),
			DaysValue: days,
			Remaining: record.Remaining.StringFixed(),
			DueDate:   record.DueDate,
		}, true
	case IsDueSoon(record.Remaining, record.DueDate, now, windowDays):
		days := DaysUntilDue(record.DueDate, now)
		return Reminder{
			CreditRecordID: record.ID,
			CustomerID:     record.CustomerID,
			CustomerName:   record.CustomerName,
			Classification: ReminderDueSoon,
			Message: fmt.Sprintf("Payment reminder: ₹%s is due in %d day(s). Due date is %s.",
				record.Remaining.StringFixed(), days, record.DueDate.Format("2006-01-02")),
			DaysValue: days,
			Remaining: record.Remaining.StringFixed(),
			DueDate:   record.DueDate,
		}, true
	default:
		return Reminder{}, false
	}
}

// BuildBulkReminders produces one reminder per eligible record, in
// input order. Ineligible records are skipped.
func BuildBulkReminders(records []CreditRecord, now time.Time, windowDays int) []Reminder {
	reminders := make([]Reminder, 0, len(records))
	for i := range records {
		if reminder, ok := BuildReminder(&records[i], now, windowDays); ok {
			reminders = append(reminders, reminder)
		}
	}
	return reminders
}
