package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"account locked", ErrCodeAccountLocked, http.StatusUnauthorized},
		{"account inactive", ErrCodeAccountInactive, http.StatusForbidden},
		{"forbidden", ErrCodeForbidden, http.StatusForbidden},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"insufficient stock", ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"empty cart", ErrCodeEmptyCart, http.StatusUnprocessableEntity},
		{"overpayment", ErrCodeOverpayment, http.StatusUnprocessableEntity},
		{"rate limited", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown ERR_ code falls back to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
		{"unmapped domain code is a business refusal", "INVALID_NAME", http.StatusUnprocessableEntity},
		{"unmapped domain code for due date", "INVALID_DUE_DATE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"maps NOT_FOUND", "NOT_FOUND", ErrCodeNotFound},
		{"maps INSUFFICIENT_STOCK", "INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"maps OVERPAYMENT", "OVERPAYMENT", ErrCodeOverpayment},
		{"maps INVALID_CREDENTIALS", "INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"passes through ERR_ codes", ErrCodeNotFound, ErrCodeNotFound},
		{"passes through unknown codes", "INVALID_QUANTITY", "INVALID_QUANTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "order not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "order not found", resp.Error.Message)
	assert.False(t, resp.Error.Timestamp.IsZero())
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeInternal, "something broke", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Equal(t, ErrCodeInternal, resp.Error.Code)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "price", Message: "price is required"},
		{Field: "quantity", Message: "quantity must be at least 1"},
	}
	resp := NewValidationErrorResponse("validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "price", resp.Error.Details[0].Field)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "abc"})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("computes total pages", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{"a"}, 2, 10, 25)

		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Meta)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 10, resp.Meta.PageSize)
		assert.Equal(t, int64(25), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("defaults page size when zero", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 1, 0, 40)

		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})
}

func TestDefaultListRequest(t *testing.T) {
	r := ListRequest{}.DefaultListRequest()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 20, r.PageSize)

	r = ListRequest{Page: 3, PageSize: 50}.DefaultListRequest()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, 50, r.PageSize)
}
