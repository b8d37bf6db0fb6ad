// Package notification delivers payment reminders to customers.
// The only transport today is the log; SMS or WhatsApp delivery can be
// added behind the same interface.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain/credit"
)

// LogNotifier writes reminders to the application log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the reminder
func (n *LogNotifier) Send(_ context.Context, reminder credit.Reminder) error {
	n.logger.Info("payment reminder",
		zap.String("credit_record_id", reminder.CreditRecordID.String()),
		zap.String("customer_id", reminder.CustomerID.String()),
		zap.String("customer_name", reminder.CustomerName),
		zap.String("classification", string(reminder.Classification)),
		zap.String("message", reminder.Message))
	return nil
}
