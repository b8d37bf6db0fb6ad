package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// CreditService handles credit ledger operations. Record status depends
// on the clock, so every read path recomputes it before returning.
type CreditService struct {
	creditRepo credit.CreditRecordRepository
	orderRepo  ordering.OrderRepository
	windowDays int
	logger     *zap.Logger
}

// NewCreditService creates a new CreditService. windowDays controls the
// due-soon horizon; zero or negative falls back to the default.
func NewCreditService(
	creditRepo credit.CreditRecordRepository,
	orderRepo ordering.OrderRepository,
	windowDays int,
	logger *zap.Logger,
) *CreditService {
	if windowDays <= 0 {
		windowDays = credit.DefaultDueSoonWindowDays
	}
	return &CreditService{
		creditRepo: creditRepo,
		orderRepo:  orderRepo,
		windowDays: windowDays,
		logger:     logger,
	}
}

// Get retrieves a credit record visible to the requesting user.
// Only the owing customer and the receiving shopkeeper may see it.
func (s *CreditService) Get(ctx context.Context, requesterID, recordID uuid.UUID) (*CreditRecordResponse, error) {
	record, err := s.creditRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.CustomerID != requesterID && record.ShopkeeperID != requesterID {
		return nil, shared.ErrForbidden
	}

	now := time.Now()
	record.Recompute(now)
	resp := ToCreditRecordResponse(record, now, s.windowDays)
	return &resp, nil
}

// GetByOrder retrieves the credit record opened for an order
func (s *CreditService) GetByOrder(ctx context.Context, requesterID, orderID uuid.UUID) (*CreditRecordResponse, error) {
	record, err := s.creditRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, requesterID, record.ID)
}

// ListForCustomer lists credit records owed by the customer
func (s *CreditService) ListForCustomer(ctx context.Context, customerID uuid.UUID, filter CreditRecordListFilter) (*shared.Paginated[CreditRecordResponse], error) {
	return s.list(ctx, filter, func(f credit.CreditRecordFilter) credit.CreditRecordFilter {
		f.CustomerID = &customerID
		return f
	})
}

// ListForShopkeeper lists credit records owed to the shopkeeper
func (s *CreditService) ListForShopkeeper(ctx context.Context, shopkeeperID uuid.UUID, filter CreditRecordListFilter) (*shared.Paginated[CreditRecordResponse], error) {
	return s.list(ctx, filter, func(f credit.CreditRecordFilter) credit.CreditRecordFilter {
		f.ShopkeeperID = &shopkeeperID
		return f
	})
}

func (s *CreditService) list(ctx context.Context, filter CreditRecordListFilter, scope func(credit.CreditRecordFilter) credit.CreditRecordFilter) (*shared.Paginated[CreditRecordResponse], error) {
	repoFilter := credit.CreditRecordFilter{Filter: shared.DefaultFilter()}
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	repoFilter = scope(repoFilter)

	now := time.Now()

	if filter.Status == "" {
		records, err := s.creditRepo.FindAll(ctx, repoFilter)
		if err != nil {
			return nil, err
		}
		for i := range records {
			records[i].Recompute(now)
		}
		total, err := s.creditRepo.Count(ctx, repoFilter)
		if err != nil {
			return nil, err
		}
		paginated := shared.NewPaginated(ToCreditRecordResponses(records, now, s.windowDays), total, repoFilter.Page, repoFilter.PageSize)
		return &paginated, nil
	}

	// A record stored as pending may have become overdue since its last
	// write, so a status filter cannot be answered by the stored column.
	// Fetch the scoped set, recompute, filter, then page in memory.
	status := credit.Status(filter.Status)
	unpaged := repoFilter
	unpaged.Page = 0
	unpaged.PageSize = 0
	records, err := s.creditRepo.FindAll(ctx, unpaged)
	if err != nil {
		return nil, err
	}
	filtered := make([]credit.CreditRecord, 0, len(records))
	for i := range records {
		records[i].Recompute(now)
		if records[i].Status == status {
			filtered = append(filtered, records[i])
		}
	}

	total := int64(len(filtered))
	start := repoFilter.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + repoFilter.Limit()
	if end > len(filtered) {
		end = len(filtered)
	}

	paginated := shared.NewPaginated(ToCreditRecordResponses(filtered[start:end], now, s.windowDays), total, repoFilter.Page, repoFilter.PageSize)
	return &paginated, nil
}

// ListOverdue lists the shopkeeper's overdue records as of now
func (s *CreditService) ListOverdue(ctx context.Context, shopkeeperID uuid.UUID) ([]CreditRecordResponse, error) {
	now := time.Now()
	records, err := s.creditRepo.FindOverdue(ctx, shopkeeperID, now)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Recompute(now)
	}
	return ToCreditRecordResponses(records, now, s.windowDays), nil
}

// ListDueSoon lists the shopkeeper's records falling due within the
// configured window, overdue excluded
func (s *CreditService) ListDueSoon(ctx context.Context, shopkeeperID uuid.UUID) ([]CreditRecordResponse, error) {
	now := time.Now()
	records, err := s.creditRepo.FindDueWithin(ctx, shopkeeperID, now, s.windowDays)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Recompute(now)
	}
	return ToCreditRecordResponses(records, now, s.windowDays), nil
}

// OutstandingSummary aggregates the shopkeeper's open credit as of now
func (s *CreditService) OutstandingSummary(ctx context.Context, shopkeeperID uuid.UUID) (*OutstandingSummaryResponse, error) {
	now := time.Now()
	filter := credit.CreditRecordFilter{
		Filter:       shared.Filter{Page: 1, PageSize: 1000},
		ShopkeeperID: &shopkeeperID,
	}
	records, err := s.creditRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	outstanding := valueobject.ZeroINR()
	open := 0
	overdue := 0
	for i := range records {
		records[i].Recompute(now)
		if records[i].Status == credit.StatusPaid {
			continue
		}
		outstanding = outstanding.MustAdd(records[i].Remaining)
		open++
		if records[i].Status == credit.StatusOverdue {
			overdue++
		}
	}

	return &OutstandingSummaryResponse{
		TotalOutstanding: outstanding.StringFixed(),
		Currency:         string(outstanding.Currency()),
		OpenRecords:      open,
		OverdueRecords:   overdue,
	}, nil
}

// MakePayment records a payment against a credit record. Only the
// receiving shopkeeper may record payments. The order's payment status
// follows the ledger: unpaid, partial, then paid when settled.
func (s *CreditService) MakePayment(ctx context.Context, shopkeeperID, recordID uuid.UUID, req MakePaymentRequest) (*CreditRecordResponse, error) {
	record, err := s.creditRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.ShopkeeperID != shopkeeperID {
		return nil, shared.ErrForbidden
	}

	amount, err := valueobject.NewMoneyINRFromString(req.Amount)
	if err != nil {
		return nil, shared.NewDomainError("MALFORMED_AMOUNT", "Payment amount is not a valid decimal")
	}

	now := time.Now()
	if err := record.ApplyPaymentAt(amount, credit.PaymentMethod(req.Method), req.Notes, now); err != nil {
		return nil, err
	}

	if err := s.creditRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	if err := s.syncOrderPaymentStatus(ctx, record); err != nil {
		s.logger.Error("failed to sync order payment status",
			zap.String("order_id", record.OrderID.String()),
			zap.Error(err))
	}

	s.logger.Info("payment recorded",
		zap.String("credit_record_id", record.ID.String()),
		zap.String("amount", amount.StringFixed()),
		zap.String("method", req.Method),
		zap.String("remaining", record.Remaining.StringFixed()))

	resp := ToCreditRecordResponse(record, now, s.windowDays)
	return &resp, nil
}

// syncOrderPaymentStatus mirrors the ledger balance onto the order
func (s *CreditService) syncOrderPaymentStatus(ctx context.Context, record *credit.CreditRecord) error {
	order, err := s.orderRepo.FindByID(ctx, record.OrderID)
	if err != nil {
		return err
	}

	var status ordering.PaymentStatus
	switch {
	case record.Remaining.IsZero():
		status = ordering.PaymentStatusPaid
	case record.Paid.IsZero():
		status = ordering.PaymentStatusUnpaid
	default:
		status = ordering.PaymentStatusPartial
	}

	if order.PaymentStatus == status {
		return nil
	}
	if err := order.SetPaymentStatus(status); err != nil {
		return err
	}
	return s.orderRepo.SaveWithLock(ctx, order)
}
