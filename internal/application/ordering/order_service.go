package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain/catalog"
	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/identity"
	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
)

// OrderService handles order placement and lifecycle operations
type OrderService struct {
	orderRepo   ordering.OrderRepository
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	creditRepo  credit.CreditRecordRepository
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	creditRepo credit.CreditRecordRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		creditRepo:  creditRepo,
		logger:      logger,
	}
}

// PlaceOrder places an order for the customer. Stock is decremented per
// line when the order is accepted; an order on credit terms also opens a
// credit record for the order total.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	customer, err := s.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	shopkeeper, err := s.userRepo.FindByID(ctx, req.ShopkeeperID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_SHOPKEEPER", "Shopkeeper not found")
		}
		return nil, err
	}
	if !shopkeeper.IsShopkeeper() {
		return nil, shared.NewDomainError("INVALID_SHOPKEEPER", "Target user is not a shopkeeper")
	}

	terms := ordering.PaymentTerms(req.PaymentTerms)
	if !terms.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERMS", "Unknown payment terms")
	}
	if terms.IsCredit() {
		if req.DueDate == nil {
			return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required for credit orders")
		}
		if req.DueDate.Before(time.Now()) {
			return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be in the past")
		}
	}

	cart, err := ordering.NewCart(customerID, req.ShopkeeperID)
	if err != nil {
		return nil, err
	}

	products := make(map[uuid.UUID]*catalog.Product, len(req.Items))
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			product, err = s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found: "+item.ProductID.String())
				}
				return nil, err
			}
			if !product.OwnedBy(req.ShopkeeperID) {
				return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is not sold by this shopkeeper: "+product.Name)
			}
			if !product.IsActive() {
				return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available: "+product.Name)
			}
			products[item.ProductID] = product
		}
		if err := cart.AddItem(product, item.Quantity); err != nil {
			return nil, err
		}
	}

	order, err := cart.Build(terms, req.Notes)
	if err != nil {
		return nil, err
	}

	// Decrement stock line by line. On failure, return what was already
	// taken so a rejected order leaves stock untouched.
	decremented := make([]*catalog.Product, 0, len(order.Items))
	restore := func() {
		for _, product := range decremented {
			if err := product.IncreaseStock(productQuantity(order, product.ID)); err == nil {
				if err := s.productRepo.Save(ctx, product); err != nil {
					s.logger.Error("failed to restore stock",
						zap.String("product_id", product.ID.String()), zap.Error(err))
				}
			}
		}
	}
	for _, item := range order.Items {
		product := products[item.ProductID]
		if err := product.DecreaseStock(item.Quantity); err != nil {
			restore()
			return nil, err
		}
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			restore()
			return nil, err
		}
		decremented = append(decremented, product)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		restore()
		s.logger.Error("failed to save order", zap.Error(err))
		return nil, err
	}

	resp := ToOrderResponse(order)

	if terms.IsCredit() {
		shopkeeperName := shopkeeper.ShopName
		if shopkeeperName == "" {
			shopkeeperName = shopkeeper.GetDisplayNameOrUsername()
		}
		record, err := credit.NewCreditRecordFromOrder(
			order,
			customer.GetDisplayNameOrUsername(),
			shopkeeperName,
			*req.DueDate,
		)
		if err != nil {
			return nil, err
		}
		if err := s.creditRepo.Save(ctx, record); err != nil {
			s.logger.Error("failed to save credit record",
				zap.String("order_id", order.ID.String()), zap.Error(err))
			return nil, err
		}
		resp.CreditRecordID = &record.ID

		s.logger.Info("credit record opened",
			zap.String("order_id", order.ID.String()),
			zap.String("credit_record_id", record.ID.String()),
			zap.String("total", record.Total.StringFixed()))
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("total", order.Total.StringFixed()),
		zap.String("payment_terms", string(terms)))

	return &resp, nil
}

// Get retrieves an order visible to the requesting user.
// Only the ordering customer and the receiving shopkeeper may see it.
func (s *OrderService) Get(ctx context.Context, requesterID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != requesterID && order.ShopkeeperID != requesterID {
		return nil, shared.ErrForbidden
	}

	resp := s.toResponseWithCredit(ctx, order)
	return &resp, nil
}

// ListForCustomer lists orders placed by the customer, newest first
func (s *OrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	repoFilter := toRepoFilter(filter)

	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToOrderResponses(orders), total, repoFilter.Page, repoFilter.PageSize)
	return &paginated, nil
}

// ListForShopkeeper lists orders received by the shopkeeper, optionally
// narrowed to one status, newest first
func (s *OrderService) ListForShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	repoFilter := toRepoFilter(filter)

	var (
		orders []ordering.Order
		err    error
	)
	if filter.Status != "" {
		orders, err = s.orderRepo.FindByStatus(ctx, shopkeeperID, ordering.OrderStatus(filter.Status), repoFilter)
	} else {
		orders, err = s.orderRepo.FindByShopkeeper(ctx, shopkeeperID, repoFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.CountByShopkeeper(ctx, shopkeeperID)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToOrderResponses(orders), total, repoFilter.Page, repoFilter.PageSize)
	return &paginated, nil
}

// Confirm confirms a pending order. Only the receiving shopkeeper may confirm.
func (s *OrderService) Confirm(ctx context.Context, shopkeeperID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, shopkeeperID, orderID, (*ordering.Order).Confirm)
}

// Deliver marks a confirmed order as delivered. Only the receiving
// shopkeeper may do this.
func (s *OrderService) Deliver(ctx context.Context, shopkeeperID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, shopkeeperID, orderID, (*ordering.Order).Deliver)
}

func (s *OrderService) transition(ctx context.Context, shopkeeperID, orderID uuid.UUID, change func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ShopkeeperID != shopkeeperID {
		return nil, shared.ErrForbidden
	}

	if err := change(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel cancels an order and returns its line quantities to stock.
// The ordering customer and the receiving shopkeeper may both cancel.
func (s *OrderService) Cancel(ctx context.Context, requesterID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != requesterID && order.ShopkeeperID != requesterID {
		return nil, shared.ErrForbidden
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			s.logger.Warn("cannot restore stock for cancelled order line",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			continue
		}
		if err := product.IncreaseStock(item.Quantity); err != nil {
			continue
		}
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			s.logger.Error("failed to restore stock for cancelled order line",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("reason", req.Reason))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// toResponseWithCredit attaches the credit record ID for credit orders
func (s *OrderService) toResponseWithCredit(ctx context.Context, order *ordering.Order) OrderResponse {
	resp := ToOrderResponse(order)
	if order.PaymentTerms.IsCredit() {
		if record, err := s.creditRepo.FindByOrderID(ctx, order.ID); err == nil {
			resp.CreditRecordID = &record.ID
		}
	}
	return resp
}

func toRepoFilter(filter OrderListFilter) shared.Filter {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	return repoFilter
}

func productQuantity(order *ordering.Order, productID uuid.UUID) int {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}
