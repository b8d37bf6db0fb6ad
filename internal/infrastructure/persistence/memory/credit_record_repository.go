package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/shared"
)

// CreditRecordRepository is an in-memory credit.CreditRecordRepository
type CreditRecordRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]credit.CreditRecord
}

// NewCreditRecordRepository creates an empty in-memory credit record repository
func NewCreditRecordRepository() *CreditRecordRepository {
	return &CreditRecordRepository{records: make(map[uuid.UUID]credit.CreditRecord)}
}

// FindByID finds a credit record by its ID
func (r *CreditRecordRepository) FindByID(_ context.Context, id uuid.UUID) (*credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneRecord(record), nil
}

// FindByOrderID finds the credit record opened for an order
func (r *CreditRecordRepository) FindByOrderID(_ context.Context, orderID uuid.UUID) (*credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.OrderID == orderID {
			return cloneRecord(record), nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll finds credit records matching the filter
func (r *CreditRecordRepository) FindAll(_ context.Context, filter credit.CreditRecordFilter) ([]credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter.Filter, func(rec credit.CreditRecord) bool {
		if filter.CustomerID != nil && rec.CustomerID != *filter.CustomerID {
			return false
		}
		if filter.ShopkeeperID != nil && rec.ShopkeeperID != *filter.ShopkeeperID {
			return false
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			return false
		}
		return true
	}), nil
}

// FindByCustomer finds credit records owed by a customer
func (r *CreditRecordRepository) FindByCustomer(_ context.Context, customerID uuid.UUID, filter shared.Filter) ([]credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(rec credit.CreditRecord) bool { return rec.CustomerID == customerID }), nil
}

// FindByShopkeeper finds credit records owed to a shopkeeper
func (r *CreditRecordRepository) FindByShopkeeper(_ context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter, func(rec credit.CreditRecord) bool { return rec.ShopkeeperID == shopkeeperID }), nil
}

// FindOverdue finds unpaid records past due as of now
func (r *CreditRecordRepository) FindOverdue(_ context.Context, shopkeeperID uuid.UUID, now time.Time) ([]credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(shared.Filter{PageSize: len(r.records) + 1}, func(rec credit.CreditRecord) bool {
		return rec.ShopkeeperID == shopkeeperID &&
			credit.DeriveStatus(rec.Remaining, rec.DueDate, now) == credit.StatusOverdue
	}), nil
}

// FindDueWithin finds unpaid records due between now and now+windowDays
func (r *CreditRecordRepository) FindDueWithin(_ context.Context, shopkeeperID uuid.UUID, now time.Time, windowDays int) ([]credit.CreditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(shared.Filter{PageSize: len(r.records) + 1}, func(rec credit.CreditRecord) bool {
		return rec.ShopkeeperID == shopkeeperID &&
			credit.IsDueSoon(rec.Remaining, rec.DueDate, now, windowDays)
	}), nil
}

// Save creates or updates a credit record
func (r *CreditRecordRepository) Save(_ context.Context, record *credit.CreditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = *cloneRecord(*record)
	return nil
}

// SaveWithLock updates a credit record, rejecting stale versions
func (r *CreditRecordRepository) SaveWithLock(_ context.Context, record *credit.CreditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[record.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version >= record.Version {
		return shared.ErrConcurrencyConflict
	}
	r.records[record.ID] = *cloneRecord(*record)
	return nil
}

// Count counts credit records matching the filter
func (r *CreditRecordRepository) Count(_ context.Context, filter credit.CreditRecordFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := int64(0)
	for _, rec := range r.records {
		if filter.CustomerID != nil && rec.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ShopkeeperID != nil && rec.ShopkeeperID != *filter.ShopkeeperID {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		count++
	}
	return count, nil
}

func (r *CreditRecordRepository) collect(filter shared.Filter, match func(credit.CreditRecord) bool) []credit.CreditRecord {
	matched := make([]credit.CreditRecord, 0)
	for _, record := range r.records {
		if match(record) {
			matched = append(matched, *cloneRecord(record))
		}
	}
	byCreatedAt(matched, func(rec credit.CreditRecord) time.Time { return rec.CreatedAt })
	return paginate(matched, filter)
}

// cloneRecord copies the record so callers cannot mutate stored state
// through the shared payments slice
func cloneRecord(record credit.CreditRecord) *credit.CreditRecord {
	payments := make(credit.Payments, len(record.Payments))
	copy(payments, record.Payments)
	record.Payments = payments
	return &record
}

var _ credit.CreditRecordRepository = (*CreditRecordRepository)(nil)
