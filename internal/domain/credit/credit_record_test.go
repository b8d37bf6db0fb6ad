package credit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

func newTestRecordWithDue(t *testing.T, customerID, shopkeeperID uuid.UUID, dueDate time.Time) *CreditRecord {
	t.Helper()
	record, err := NewCreditRecord(
		uuid.New(),
		customerID, "Priya Sharma",
		shopkeeperID, "Kumar General Store",
		valueobject.NewMoneyINRFromFloat(500),
		dueDate,
	)
	require.NoError(t, err)
	return record
}

func newTestRecord(t *testing.T) *CreditRecord {
	t.Helper()
	return newTestRecordWithDue(t, uuid.New(), uuid.New(), time.Now().AddDate(0, 0, 30))
}

func TestNewCreditRecord(t *testing.T) {
	record := newTestRecord(t)

	assert.Equal(t, "500.00", record.Total.StringFixed())
	assert.Equal(t, "0.00", record.Paid.StringFixed())
	assert.Equal(t, "500.00", record.Remaining.StringFixed())
	assert.Equal(t, StatusPending, record.Status)
	assert.Empty(t, record.Payments)
	assert.Nil(t, record.PaidAt)

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeCreditRecordCreated, events[0].EventType())
}

func TestNewCreditRecord_Validation(t *testing.T) {
	dueDate := time.Now().AddDate(0, 0, 30)
	total := valueobject.NewMoneyINRFromFloat(500)

	tests := []struct {
		name     string
		mutate   func() (*CreditRecord, error)
		wantCode string
	}{
		{
			"nil customer",
			func() (*CreditRecord, error) {
				return NewCreditRecord(uuid.New(), uuid.Nil, "x", uuid.New(), "y", total, dueDate)
			},
			"INVALID_CUSTOMER",
		},
		{
			"empty customer name",
			func() (*CreditRecord, error) {
				return NewCreditRecord(uuid.New(), uuid.New(), "", uuid.New(), "y", total, dueDate)
			},
			"INVALID_CUSTOMER_NAME",
		},
		{
			"zero total",
			func() (*CreditRecord, error) {
				return NewCreditRecord(uuid.New(), uuid.New(), "x", uuid.New(), "y", valueobject.ZeroINR(), dueDate)
			},
			"INVALID_AMOUNT",
		},
		{
			"due date in the past",
			func() (*CreditRecord, error) {
				return NewCreditRecord(uuid.New(), uuid.New(), "x", uuid.New(), "y", total, time.Now().AddDate(0, 0, -1))
			},
			"INVALID_DUE_DATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mutate()
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestNewCreditRecordFromOrder(t *testing.T) {
	lines := []ordering.CartLine{
		{ProductID: uuid.New(), ProductName: "Rice", UnitPrice: valueobject.NewMoneyINRFromFloat(80), Quantity: 2},
		{ProductID: uuid.New(), ProductName: "Dal", UnitPrice: valueobject.NewMoneyINRFromFloat(60), Quantity: 3},
	}
	order, err := ordering.NewOrder(uuid.New(), uuid.New(), lines, ordering.PaymentTermsCredit, "")
	require.NoError(t, err)

	record, err := NewCreditRecordFromOrder(order, "Priya Sharma", "Kumar General Store", time.Now().AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.Equal(t, order.ID, record.OrderID)
	assert.Equal(t, order.CustomerID, record.CustomerID)
	assert.Equal(t, order.ShopkeeperID, record.ShopkeeperID)
	assert.Equal(t, "340.00", record.Total.StringFixed())
	assert.Equal(t, "340.00", record.Remaining.StringFixed())
}

func TestNewCreditRecordFromOrder_RejectsImmediateTerms(t *testing.T) {
	lines := []ordering.CartLine{
		{ProductID: uuid.New(), ProductName: "Rice", UnitPrice: valueobject.NewMoneyINRFromFloat(80), Quantity: 1},
	}
	order, err := ordering.NewOrder(uuid.New(), uuid.New(), lines, ordering.PaymentTermsImmediate, "")
	require.NoError(t, err)

	_, err = NewCreditRecordFromOrder(order, "Priya", "Kumar", time.Now().AddDate(0, 0, 30))
	require.Error(t, err)
}

func TestCreditRecord_ApplyPayment_PartialThenFull(t *testing.T) {
	record := newTestRecord(t)

	require.NoError(t, record.ApplyPayment(valueobject.NewMoneyINRFromFloat(200), PaymentMethodUPI, "first installment"))
	assert.Equal(t, "200.00", record.Paid.StringFixed())
	assert.Equal(t, "300.00", record.Remaining.StringFixed())
	assert.Equal(t, StatusPending, record.Status)
	assert.Nil(t, record.PaidAt)
	require.Len(t, record.Payments, 1)
	assert.Equal(t, PaymentMethodUPI, record.Payments[0].Method)
	assert.Equal(t, record.ID, record.Payments[0].CreditRecordID)

	require.NoError(t, record.ApplyPayment(valueobject.NewMoneyINRFromFloat(300), PaymentMethodCash, ""))
	assert.Equal(t, "500.00", record.Paid.StringFixed())
	assert.Equal(t, "0.00", record.Remaining.StringFixed())
	assert.Equal(t, StatusPaid, record.Status)
	assert.True(t, record.IsPaid())
	require.NotNil(t, record.PaidAt)
	assert.Equal(t, 2, record.PaymentCount())
}

func TestCreditRecord_ApplyPayment_Conservation(t *testing.T) {
	record := newTestRecord(t)

	amounts := []float64{50, 125.25, 100, 224.75}
	for _, amt := range amounts {
		paidBefore := record.Paid
		remainingBefore := record.Remaining

		payment := valueobject.NewMoneyINRFromFloat(amt)
		require.NoError(t, record.ApplyPayment(payment, PaymentMethodCash, ""))

		wantPaid := paidBefore.MustAdd(payment)
		wantRemaining := remainingBefore.MustSubtract(payment)
		assert.True(t, record.Paid.Equals(wantPaid))
		assert.True(t, record.Remaining.Equals(wantRemaining))

		// remaining == total - paid after every mutation
		assert.True(t, record.Remaining.Equals(record.Total.MustSubtract(record.Paid)))
		assert.False(t, record.Remaining.IsNegative())
	}

	assert.True(t, record.IsPaid())
}

func TestCreditRecord_ApplyPayment_Overpayment(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.ApplyPayment(valueobject.NewMoneyINRFromFloat(200), PaymentMethodCash, ""))

	err := record.ApplyPayment(valueobject.NewMoneyINRFromFloat(600), PaymentMethodCash, "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OVERPAYMENT", domainErr.Code)

	// no partial side effects
	assert.Equal(t, "200.00", record.Paid.StringFixed())
	assert.Equal(t, "300.00", record.Remaining.StringFixed())
	assert.Equal(t, 1, record.PaymentCount())
	assert.Equal(t, StatusPending, record.Status)
}

func TestCreditRecord_ApplyPayment_ExactRemainingAllowed(t *testing.T) {
	record := newTestRecord(t)

	require.NoError(t, record.ApplyPayment(record.Remaining, PaymentMethodBankTransfer, ""))
	assert.True(t, record.IsPaid())

	// nothing left to pay
	err := record.ApplyPayment(valueobject.NewMoneyINRFromFloat(0.01), PaymentMethodCash, "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OVERPAYMENT", domainErr.Code)
}

func TestCreditRecord_ApplyPayment_InvalidAmount(t *testing.T) {
	record := newTestRecord(t)

	for _, amt := range []float64{0, -50} {
		err := record.ApplyPayment(valueobject.NewMoneyINRFromFloat(amt), PaymentMethodCash, "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	}
	assert.Equal(t, 0, record.PaymentCount())
}

func TestCreditRecord_ApplyPayment_InvalidMethod(t *testing.T) {
	record := newTestRecord(t)

	err := record.ApplyPayment(valueobject.NewMoneyINRFromFloat(100), PaymentMethod("cheque"), "")
	require.Error(t, err)
	assert.Equal(t, 0, record.PaymentCount())
}

func TestCreditRecord_PaymentsAppendInOrder(t *testing.T) {
	record := newTestRecord(t)
	base := time.Now()

	require.NoError(t, record.ApplyPaymentAt(valueobject.NewMoneyINRFromFloat(100), PaymentMethodCash, "one", base))
	require.NoError(t, record.ApplyPaymentAt(valueobject.NewMoneyINRFromFloat(150), PaymentMethodUPI, "two", base.Add(time.Hour)))
	require.NoError(t, record.ApplyPaymentAt(valueobject.NewMoneyINRFromFloat(250), PaymentMethodCard, "three", base.Add(2*time.Hour)))

	require.Len(t, record.Payments, 3)
	assert.Equal(t, "one", record.Payments[0].Notes)
	assert.Equal(t, "two", record.Payments[1].Notes)
	assert.Equal(t, "three", record.Payments[2].Notes)
	assert.True(t, record.Payments[0].PaymentDate.Before(record.Payments[1].PaymentDate))
}

func TestCreditRecord_Recompute(t *testing.T) {
	record := newTestRecord(t)
	assert.Equal(t, StatusPending, record.Status)

	afterDue := record.DueDate.Add(time.Hour)
	record.Recompute(afterDue)
	assert.Equal(t, StatusOverdue, record.Status)

	// idempotent
	record.Recompute(afterDue)
	assert.Equal(t, StatusOverdue, record.Status)

	beforeDue := record.DueDate.Add(-time.Hour)
	record.Recompute(beforeDue)
	assert.Equal(t, StatusPending, record.Status)
}

func TestCreditRecord_OverdueHelpers(t *testing.T) {
	record := newTestRecord(t)
	dayAfterDue := record.DueDate.AddDate(0, 0, 1)

	assert.True(t, record.IsOverdue(dayAfterDue))
	assert.GreaterOrEqual(t, record.DaysOverdue(dayAfterDue), 1)
	assert.Equal(t, 0, record.DaysOverdue(record.DueDate.AddDate(0, 0, -5)))

	fiveDaysBefore := record.DueDate.AddDate(0, 0, -5)
	assert.Equal(t, 5, record.DaysUntilDue(fiveDaysBefore))
	assert.True(t, record.IsDueSoon(fiveDaysBefore, 7))
	assert.False(t, record.IsDueSoon(record.DueDate.AddDate(0, 0, -10), 7))
}

func TestCreditRecord_VersionIncrementsOnPayment(t *testing.T) {
	record := newTestRecord(t)
	v := record.GetVersion()

	require.NoError(t, record.ApplyPayment(valueobject.NewMoneyINRFromFloat(100), PaymentMethodCash, ""))
	assert.Equal(t, v+1, record.GetVersion())
}
