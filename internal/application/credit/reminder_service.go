package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/shared"
)

// Notifier delivers payment reminders to customers
type Notifier interface {
	Send(ctx context.Context, reminder credit.Reminder) error
}

// ReminderService builds and dispatches payment reminders. Reminders
// are derived from the ledger on demand and never stored.
type ReminderService struct {
	creditRepo credit.CreditRecordRepository
	notifier   Notifier
	windowDays int
	logger     *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	creditRepo credit.CreditRecordRepository,
	notifier Notifier,
	windowDays int,
	logger *zap.Logger,
) *ReminderService {
	if windowDays <= 0 {
		windowDays = credit.DefaultDueSoonWindowDays
	}
	return &ReminderService{
		creditRepo: creditRepo,
		notifier:   notifier,
		windowDays: windowDays,
		logger:     logger,
	}
}

// List previews the reminders a shopkeeper could send right now:
// one per overdue record, one per record due within the window.
func (s *ReminderService) List(ctx context.Context, shopkeeperID uuid.UUID) ([]ReminderResponse, error) {
	reminders, err := s.collect(ctx, shopkeeperID, time.Now())
	if err != nil {
		return nil, err
	}
	return ToReminderResponses(reminders), nil
}

// Send builds and dispatches a reminder for a single credit record.
// Fails when the record is neither overdue nor due soon.
func (s *ReminderService) Send(ctx context.Context, shopkeeperID, recordID uuid.UUID) (*ReminderResponse, error) {
	record, err := s.creditRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.ShopkeeperID != shopkeeperID {
		return nil, shared.ErrForbidden
	}

	reminder, ok := credit.BuildReminder(record, time.Now(), s.windowDays)
	if !ok {
		return nil, shared.NewDomainError("NOT_ELIGIBLE", "Credit record is neither overdue nor due soon")
	}

	if err := s.notifier.Send(ctx, reminder); err != nil {
		s.logger.Error("failed to send reminder",
			zap.String("credit_record_id", recordID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("reminder sent",
		zap.String("credit_record_id", recordID.String()),
		zap.String("classification", string(reminder.Classification)))

	resp := ToReminderResponse(reminder)
	return &resp, nil
}

// SendAll dispatches reminders for every eligible record of the
// shopkeeper. Delivery failures skip the record and do not abort the
// batch; the count of sent reminders is returned.
func (s *ReminderService) SendAll(ctx context.Context, shopkeeperID uuid.UUID) (int, error) {
	reminders, err := s.collect(ctx, shopkeeperID, time.Now())
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, reminder := range reminders {
		if err := s.notifier.Send(ctx, reminder); err != nil {
			s.logger.Error("failed to send reminder",
				zap.String("credit_record_id", reminder.CreditRecordID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("reminder batch dispatched",
		zap.String("shopkeeper_id", shopkeeperID.String()),
		zap.Int("eligible", len(reminders)),
		zap.Int("sent", sent))

	return sent, nil
}

// collect gathers overdue reminders first, then due-soon ones
func (s *ReminderService) collect(ctx context.Context, shopkeeperID uuid.UUID, now time.Time) ([]credit.Reminder, error) {
	overdue, err := s.creditRepo.FindOverdue(ctx, shopkeeperID, now)
	if err != nil {
		return nil, err
	}
	dueSoon, err := s.creditRepo.FindDueWithin(ctx, shopkeeperID, now, s.windowDays)
	if err != nil {
		return nil, err
	}

	records := make([]credit.CreditRecord, 0, len(overdue)+len(dueSoon))
	records = append(records, overdue...)
	records = append(records, dueSoon...)
	return credit.BuildBulkReminders(records, now, s.windowDays), nil
}
