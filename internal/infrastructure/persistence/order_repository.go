package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, including line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds orders placed by a customer
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	return r.findAll(ctx, r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("customer_id = ?", customerID), filter)
}

// FindByShopkeeper finds orders received by a shopkeeper
func (r *GormOrderRepository) FindByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	return r.findAll(ctx, r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("shopkeeper_id = ?", shopkeeperID), filter)
}

// FindByStatus finds orders in the given status for a shopkeeper
func (r *GormOrderRepository) FindByStatus(ctx context.Context, shopkeeperID uuid.UUID, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	return r.findAll(ctx, r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("shopkeeper_id = ? AND status = ?", shopkeeperID, status), filter)
}

func (r *GormOrderRepository) findAll(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.applyFilter(query, filter).
		Preload("Items").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save creates or updates an order and its line items
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		return r.saveItems(tx, model)
	})
}

// SaveWithLock saves an order with optimistic locking (version check).
// Line items never change after creation, so only the order row is
// checked; items are re-synced inside the same transaction.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"status":         model.Status,
				"payment_status": model.PaymentStatus,
				"notes":          model.Notes,
				"confirmed_at":   model.ConfirmedAt,
				"delivered_at":   model.DeliveredAt,
				"cancelled_at":   model.CancelledAt,
				"cancel_reason":  model.CancelReason,
				"version":        model.Version,
				"updated_at":     model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The order has been modified by another transaction")
		}
		return r.saveItems(tx, model)
	})
}

// saveItems replaces the order's line items with the current set
func (r *GormOrderRepository) saveItems(tx *gorm.DB, model *models.OrderModel) error {
	if len(model.Items) == 0 {
		return tx.Where("order_id = ?", model.ID).
			Delete(&models.OrderLineItemModel{}).Error
	}

	itemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		itemIDs[i] = item.ID
	}
	if err := tx.Where("order_id = ? AND id NOT IN ?", model.ID, itemIDs).
		Delete(&models.OrderLineItemModel{}).Error; err != nil {
		return err
	}

	for i := range model.Items {
		model.Items[i].OrderID = model.ID
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountByCustomer counts orders placed by a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByShopkeeper counts orders received by a shopkeeper
func (r *GormOrderRepository) CountByShopkeeper(ctx context.Context, shopkeeperID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("shopkeeper_id = ?", shopkeeperID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
