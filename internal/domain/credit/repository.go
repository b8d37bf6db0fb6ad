package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/shared"
)

// CreditRecordFilter narrows credit record queries
type CreditRecordFilter struct {
	shared.Filter
	CustomerID   *uuid.UUID
	ShopkeeperID *uuid.UUID
	Status       *Status
}

// CreditRecordRepository defines the interface for credit record persistence
type CreditRecordRepository interface {
	// FindByID finds a credit record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditRecord, error)

	// FindByOrderID finds the credit record opened for an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*CreditRecord, error)

	// FindAll finds credit records matching the filter
	FindAll(ctx context.Context, filter CreditRecordFilter) ([]CreditRecord, error)

	// FindByCustomer finds credit records owed by a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]CreditRecord, error)

	// FindByShopkeeper finds credit records owed to a shopkeeper
	FindByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]CreditRecord, error)

	// FindOverdue finds unpaid records whose due date has passed as of now.
	// Matching happens in the query so the result set stays bounded; the
	// caller still recomputes each record's status on read.
	FindOverdue(ctx context.Context, shopkeeperID uuid.UUID, now time.Time) ([]CreditRecord, error)

	// FindDueWithin finds unpaid records due between now and now+windowDays
	FindDueWithin(ctx context.Context, shopkeeperID uuid.UUID, now time.Time, windowDays int) ([]CreditRecord, error)

	// Save creates or updates a credit record
	Save(ctx context.Context, record *CreditRecord) error

	// SaveWithLock updates a credit record with optimistic concurrency
	// control. Payments against the same record race on the remaining
	// balance, so every payment write goes through here.
	SaveWithLock(ctx context.Context, record *CreditRecord) error

	// Count counts credit records matching the filter
	Count(ctx context.Context, filter CreditRecordFilter) (int64, error)
}
