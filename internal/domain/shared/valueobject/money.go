package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	INR Currency = "INR" // Indian Rupee (default)
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = INR

// minorUnitPlaces is the number of decimal places carried by Money.
// Amounts are truncated to this precision at construction so that all
// arithmetic stays in whole minor units (paise).
const minorUnitPlaces = 2

// Money arithmetic errors
var (
	ErrMalformedAmount   = errors.New("malformed monetary amount")
	ErrNegativeResult    = errors.New("monetary result would be negative")
	ErrNegativeFactor    = errors.New("multiplication factor cannot be negative")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// Money is a value object representing monetary amounts in minor units.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency.
// The amount is truncated to minor-unit precision; no rounding occurs.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount.Truncate(minorUnitPlaces),
		currency: currency,
	}, nil
}

// NewMoneyFromString creates Money from a decimal string representation.
// Returns ErrMalformedAmount when the string is not a valid decimal.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, amount)
	}
	return NewMoney(d, currency)
}

// NewMoneyINR creates Money in INR
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount.Truncate(minorUnitPlaces), currency: INR}
}

// NewMoneyINRFromString creates Money in INR from a decimal string
func NewMoneyINRFromString(amount string) (Money, error) {
	return NewMoneyFromString(amount, INR)
}

// NewMoneyINRFromFloat creates Money in INR from float64.
// Intended for tests and display-layer conversions only; ledger code
// should construct Money from strings or other Money values.
func NewMoneyINRFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount).Truncate(minorUnitPlaces), currency: INR}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroINR returns a zero-value Money in INR
func ZeroINR() Money {
	return Zero(INR)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts.
// Returns ErrCurrencyMismatch if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency() != other.Currency() {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency(), other.Currency())
	}
	return Money{
		amount:   m.amount.Add(other.amount),
		currency: m.Currency(),
	}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference.
// Returns ErrCurrencyMismatch if currencies don't match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency() != other.Currency() {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency(), other.Currency())
	}
	return Money{
		amount:   m.amount.Sub(other.amount),
		currency: m.Currency(),
	}, nil
}

// SubtractStrict subtracts the other amount and fails with
// ErrNegativeResult when the difference would drop below zero.
// Ledger balances use this variant: a balance can reach zero but
// never go negative.
func (m Money) SubtractStrict(other Money) (Money, error) {
	result, err := m.Subtract(other)
	if err != nil {
		return Money{}, err
	}
	if result.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, m.StringFixed(), other.StringFixed())
	}
	return result, nil
}

// MustSubtract subtracts two Money values, panics if currencies don't match
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// MultiplyByInt returns a new Money multiplied by a non-negative integer
// quantity. Multiplying whole minor units by an integer cannot create
// sub-minor-unit fractions, so no truncation is needed here.
func (m Money) MultiplyByInt(factor int64) (Money, error) {
	if factor < 0 {
		return Money{}, fmt.Errorf("%w: %d", ErrNegativeFactor, factor)
	}
	return Money{
		amount:   m.amount.Mul(decimal.NewFromInt(factor)),
		currency: m.Currency(),
	}, nil
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.Currency() == other.Currency() && m.amount.Equal(other.amount)
}

// Compare returns -1, 0 or 1 when m is less than, equal to or greater
// than other. Returns ErrCurrencyMismatch if currencies don't match.
func (m Money) Compare(other Money) (int, error) {
	if m.Currency() != other.Currency() {
		return 0, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency(), other.Currency())
	}
	return m.amount.Cmp(other.amount), nil
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) (bool, error) {
	cmp, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	cmp, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(minorUnitPlaces), m.Currency())
}

// StringFixed returns the amount rendered with exactly two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(minorUnitPlaces)
}

// Float64 returns the amount as a float64 (may lose precision; display only)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(minorUnitPlaces),
		Currency: m.Currency(),
	})
}

// UnmarshalJSON implements json.Unmarshaler for deserialization purposes
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedAmount, v.Amount)
	}
	m.amount = amount.Truncate(minorUnitPlaces)
	m.currency = v.Currency
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores as a numeric value (amount only).
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
// Only the amount is scanned; currency defaults to DefaultCurrency.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedAmount, strVal)
	}
	m.amount = amount.Truncate(minorUnitPlaces)
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
