package credit

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// Status represents the derived state of a credit record
type Status string

const (
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// DefaultDueSoonWindowDays is the forward-looking window for due-soon
// reminders when no explicit window is configured.
const DefaultDueSoonWindowDays = 7

// DeriveStatus computes the status of a credit record from its remaining
// balance and due date. Paid wins over everything; a record due exactly
// now is not yet overdue.
func DeriveStatus(remaining valueobject.Money, dueDate, now time.Time) Status {
	if remaining.IsZero() {
		return StatusPaid
	}
	if dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// DaysOverdue returns the number of days a record is past due, rounded
// up to whole days. Zero or negative when the due date has not passed;
// callers should only display it for overdue records.
func DaysOverdue(dueDate, now time.Time) int {
	return ceilDays(now.Sub(dueDate))
}

// DaysUntilDue returns the number of days until the due date, rounded
// up to whole days. Meaningful only for pending records.
func DaysUntilDue(dueDate, now time.Time) int {
	return ceilDays(dueDate.Sub(now))
}

// IsDueSoon reports whether a still-unpaid record falls due within the
// given window. Overdue records are never due-soon; the two
// classifications are disjoint.
func IsDueSoon(remaining valueobject.Money, dueDate, now time.Time, windowDays int) bool {
	if DeriveStatus(remaining, dueDate, now) != StatusPending {
		return false
	}
	days := DaysUntilDue(dueDate, now)
	return days > 0 && days <= windowDays
}

// FilterOverdueForCustomer returns the records owed by the given
// customer whose derived status is overdue, preserving input order.
func FilterOverdueForCustomer(records []CreditRecord, customerID uuid.UUID, now time.Time) []CreditRecord {
	return filterOverdue(records, now, func(r *CreditRecord) bool {
		return r.CustomerID == customerID
	})
}

// FilterOverdueForShopkeeper returns the records owed to the given
// shopkeeper whose derived status is overdue, preserving input order.
func FilterOverdueForShopkeeper(records []CreditRecord, shopkeeperID uuid.UUID, now time.Time) []CreditRecord {
	return filterOverdue(records, now, func(r *CreditRecord) bool {
		return r.ShopkeeperID == shopkeeperID
	})
}

func filterOverdue(records []CreditRecord, now time.Time, owns func(*CreditRecord) bool) []CreditRecord {
	result := make([]CreditRecord, 0)
	for i := range records {
		if owns(&records[i]) && DeriveStatus(records[i].Remaining, records[i].DueDate, now) == StatusOverdue {
			result = append(result, records[i])
		}
	}
	return result
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
