package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain/catalog"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

func newTestCatalogProduct(t *testing.T, name string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(uuid.New(), name, "", "Groceries", valueobject.NewMoneyINRFromFloat(price), stock)
	require.NoError(t, err)
	return p
}

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	cart, err := NewCart(uuid.New(), uuid.New())
	require.NoError(t, err)
	return cart
}

func TestCart_AddItem(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)

	require.NoError(t, cart.AddItem(rice, 2))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, rice.ID, cart.Lines[0].ProductID)
	assert.Equal(t, "Rice", cart.Lines[0].ProductName)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "80.00", cart.Lines[0].UnitPrice.StringFixed())
}

func TestCart_AddItem_MergesExistingLine(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)

	require.NoError(t, cart.AddItem(rice, 2))
	require.NoError(t, cart.AddItem(rice, 3))

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, "400.00", cart.Total().StringFixed())
}

func TestCart_AddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)

	require.NoError(t, cart.AddItem(rice, 1))
	require.NoError(t, rice.UpdatePrice(valueobject.NewMoneyINRFromFloat(95)))

	assert.Equal(t, "80.00", cart.Lines[0].UnitPrice.StringFixed())
	assert.Equal(t, "80.00", cart.Total().StringFixed())
}

func TestCart_AddItem_Validation(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 3)

	err := cart.AddItem(rice, 0)
	require.Error(t, err)

	err = cart.AddItem(nil, 1)
	require.Error(t, err)

	err = cart.AddItem(rice, 4)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	// merge pushing past stock is also rejected
	require.NoError(t, cart.AddItem(rice, 2))
	err = cart.AddItem(rice, 2)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)
	require.NoError(t, cart.AddItem(rice, 2))

	require.NoError(t, cart.UpdateQuantity(rice.ID, 5))
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, "400.00", cart.Total().StringFixed())

	// zero or negative removes the line
	require.NoError(t, cart.UpdateQuantity(rice.ID, 0))
	assert.True(t, cart.IsEmpty())

	err := cart.UpdateQuantity(rice.ID, 1)
	require.Error(t, err)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)
	dal := newTestCatalogProduct(t, "Dal", 60, 100)

	require.NoError(t, cart.AddItem(rice, 1))
	require.NoError(t, cart.AddItem(dal, 1))

	require.NoError(t, cart.RemoveItem(rice.ID))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, dal.ID, cart.Lines[0].ProductID)
}

func TestCart_Total_EmptyCartIsZero(t *testing.T) {
	cart := newTestCart(t)
	assert.True(t, cart.Total().IsZero())
}

func TestCart_Build(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)
	dal := newTestCatalogProduct(t, "Dal", 60, 100)

	require.NoError(t, cart.AddItem(rice, 2))
	require.NoError(t, cart.AddItem(dal, 3))

	order, err := cart.Build(PaymentTermsCredit, "deliver friday")
	require.NoError(t, err)

	assert.Equal(t, "340.00", order.Total.StringFixed())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Rice", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "160.00", order.Items[0].LineTotal.StringFixed())
	assert.Equal(t, "Dal", order.Items[1].ProductName)
	assert.Equal(t, 3, order.Items[1].Quantity)
	assert.Equal(t, "180.00", order.Items[1].LineTotal.StringFixed())
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)
	assert.Equal(t, "deliver friday", order.Notes)
}

func TestCart_Build_EmptyCart(t *testing.T) {
	cart := newTestCart(t)

	_, err := cart.Build(PaymentTermsImmediate, "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_CART", domainErr.Code)
}

func TestCart_Build_InvalidQuantityLine(t *testing.T) {
	cart := newTestCart(t)
	rice := newTestCatalogProduct(t, "Rice", 80, 100)
	require.NoError(t, cart.AddItem(rice, 1))

	cart.Lines[0].Quantity = 0

	_, err := cart.Build(PaymentTermsImmediate, "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
}
