package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/infrastructure/persistence/models"
)

// GormCreditRecordRepository implements CreditRecordRepository using GORM
type GormCreditRecordRepository struct {
	db *gorm.DB
}

// NewGormCreditRecordRepository creates a new GormCreditRecordRepository
func NewGormCreditRecordRepository(db *gorm.DB) *GormCreditRecordRepository {
	return &GormCreditRecordRepository{db: db}
}

// FindByID finds a credit record by its ID
func (r *GormCreditRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*credit.CreditRecord, error) {
	var model models.CreditRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds the credit record opened for an order
func (r *GormCreditRecordRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*credit.CreditRecord, error) {
	var model models.CreditRecordModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds credit records matching the filter
func (r *GormCreditRecordRepository) FindAll(ctx context.Context, filter credit.CreditRecordFilter) ([]credit.CreditRecord, error) {
	query := r.applyRecordFilter(r.db.WithContext(ctx).Model(&models.CreditRecordModel{}), filter)
	return r.find(r.applyFilter(query, filter.Filter))
}

// FindByCustomer finds credit records owed by a customer
func (r *GormCreditRecordRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]credit.CreditRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CreditRecordModel{}).
		Where("customer_id = ?", customerID)
	return r.find(r.applyFilter(query, filter))
}

// FindByShopkeeper finds credit records owed to a shopkeeper
func (r *GormCreditRecordRepository) FindByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]credit.CreditRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CreditRecordModel{}).
		Where("shopkeeper_id = ?", shopkeeperID)
	return r.find(r.applyFilter(query, filter))
}

// FindOverdue finds unpaid records whose due date has passed as of now.
// The remaining balance, not the stored status, drives the match: a
// record written as pending may have crossed its due date since.
func (r *GormCreditRecordRepository) FindOverdue(ctx context.Context, shopkeeperID uuid.UUID, now time.Time) ([]credit.CreditRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CreditRecordModel{}).
		Where("shopkeeper_id = ? AND remaining > 0 AND due_date < ?", shopkeeperID, now).
		Order("due_date ASC")
	return r.find(query)
}

// FindDueWithin finds unpaid records due between now and now+windowDays
func (r *GormCreditRecordRepository) FindDueWithin(ctx context.Context, shopkeeperID uuid.UUID, now time.Time, windowDays int) ([]credit.CreditRecord, error) {
	windowEnd := now.AddDate(0, 0, windowDays)
	query := r.db.WithContext(ctx).
		Model(&models.CreditRecordModel{}).
		Where("shopkeeper_id = ? AND remaining > 0 AND due_date >= ? AND due_date <= ?", shopkeeperID, now, windowEnd).
		Order("due_date ASC")
	return r.find(query)
}

func (r *GormCreditRecordRepository) find(query *gorm.DB) ([]credit.CreditRecord, error) {
	var recordModels []models.CreditRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]credit.CreditRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a credit record
func (r *GormCreditRecordRepository) Save(ctx context.Context, record *credit.CreditRecord) error {
	model := models.CreditRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a credit record with optimistic locking (version
// check). Concurrent payments against the same record race on the
// remaining balance; the loser of the race gets a conflict and retries
// against the fresh balance.
func (r *GormCreditRecordRepository) SaveWithLock(ctx context.Context, record *credit.CreditRecord) error {
	model := models.CreditRecordModelFromDomain(record)
	result := r.db.WithContext(ctx).
		Model(&models.CreditRecordModel{}).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"paid":       model.Paid,
			"remaining":  model.Remaining,
			"due_date":   model.DueDate,
			"status":     model.Status,
			"payments":   model.Payments,
			"paid_at":    model.PaidAt,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The credit record has been modified by another transaction")
	}
	return nil
}

// Count counts credit records matching the filter
func (r *GormCreditRecordRepository) Count(ctx context.Context, filter credit.CreditRecordFilter) (int64, error) {
	var count int64
	query := r.applyRecordFilter(r.db.WithContext(ctx).Model(&models.CreditRecordModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyRecordFilter applies the credit-specific filter fields
func (r *GormCreditRecordRepository) applyRecordFilter(query *gorm.DB, filter credit.CreditRecordFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ShopkeeperID != nil {
		query = query.Where("shopkeeper_id = ?", *filter.ShopkeeperID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// applyFilter applies pagination and ordering to the query
func (r *GormCreditRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("customer_name ILIKE ? OR shopkeeper_name ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	orderBy := ValidateSortField(filter.OrderBy, CreditRecordSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormCreditRecordRepository implements CreditRecordRepository
var _ credit.CreditRecordRepository = (*GormCreditRecordRepository)(nil)
