package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain/catalog"
	"github.com/smartshop/backend/internal/domain/credit"
	"github.com/smartshop/backend/internal/domain/identity"
	"github.com/smartshop/backend/internal/domain/ordering"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
	"github.com/smartshop/backend/internal/infrastructure/persistence"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func mustMoney(t *testing.T, amount string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyINRFromString(amount)
	require.NoError(t, err)
	return m
}

// TestProductRepository_Integration tests the product repository against a real PostgreSQL database
func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormProductRepository(testDB.DB)
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Save and FindByID", func(t *testing.T) {
		product, err := catalog.NewProduct(ownerID, "Basmati Rice 5kg", "Premium long grain", "Grocery", mustMoney(t, "550.00"), 40)
		require.NoError(t, err)

		err = repo.Save(ctx, product)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
		assert.Equal(t, "Basmati Rice 5kg", found.Name)
		assert.Equal(t, "Grocery", found.Category)
		assert.True(t, product.Price.Equals(found.Price))
		assert.Equal(t, 40, found.Stock)
	})

	t.Run("FindByID returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByCategory and ListCategories", func(t *testing.T) {
		soap, err := catalog.NewProduct(ownerID, "Bath Soap", "", "Toiletries", mustMoney(t, "35.00"), 100)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, soap))

		found, err := repo.FindByCategory(ctx, "Toiletries", shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, soap.ID, found[0].ID)

		categories, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		assert.Contains(t, categories, "Grocery")
		assert.Contains(t, categories, "Toiletries")
	})

	t.Run("FindActive excludes deactivated products", func(t *testing.T) {
		active, err := catalog.NewProduct(ownerID, "Tea Powder", "", "Beverages", mustMoney(t, "120.00"), 20)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, active))

		retired, err := catalog.NewProduct(ownerID, "Old Stock Biscuits", "", "Beverages", mustMoney(t, "10.00"), 5)
		require.NoError(t, err)
		require.NoError(t, retired.Deactivate())
		require.NoError(t, repo.Save(ctx, retired))

		found, err := repo.FindActive(ctx, shared.Filter{Page: 1, PageSize: 50})
		require.NoError(t, err)

		ids := make([]uuid.UUID, 0, len(found))
		for _, p := range found {
			ids = append(ids, p.ID)
		}
		assert.Contains(t, ids, active.ID)
		assert.NotContains(t, ids, retired.ID)
	})

	t.Run("SaveWithLock persists stock changes", func(t *testing.T) {
		product, err := catalog.NewProduct(ownerID, "Cooking Oil 1L", "", "Grocery", mustMoney(t, "180.00"), 10)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		require.NoError(t, product.DecreaseStock(10))
		require.NoError(t, repo.SaveWithLock(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.Stock)
		assert.Equal(t, product.Version, found.Version)
	})

	t.Run("SaveWithLock rejects stale version", func(t *testing.T) {
		product, err := catalog.NewProduct(ownerID, "Sugar 1kg", "", "Grocery", mustMoney(t, "48.00"), 30)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		stale, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)

		require.NoError(t, product.DecreaseStock(5))
		require.NoError(t, repo.SaveWithLock(ctx, product))

		require.NoError(t, stale.DecreaseStock(3))
		err = repo.SaveWithLock(ctx, stale)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, found.Stock)
	})

	t.Run("FindByShopkeeper scopes to the owner", func(t *testing.T) {
		rivalID := uuid.New()
		rival, err := catalog.NewProduct(rivalID, "Rival Shop Tea", "", "Beverages", mustMoney(t, "95.00"), 15)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rival))

		owned, err := repo.FindByShopkeeper(ctx, rivalID, shared.Filter{Page: 1, PageSize: 50})
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, rival.ID, owned[0].ID)

		count, err := repo.CountByShopkeeper(ctx, rivalID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		ownerCount, err := repo.CountByShopkeeper(ctx, ownerID)
		require.NoError(t, err)
		assert.Greater(t, ownerCount, int64(1))
	})

	t.Run("Delete removes the product", func(t *testing.T) {
		product, err := catalog.NewProduct(ownerID, "Discontinued Item", "", "Misc", mustMoney(t, "5.00"), 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		require.NoError(t, repo.Delete(ctx, product.ID))

		_, err = repo.FindByID(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// TestUserRepository_Integration tests the user repository against a real PostgreSQL database
func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByUsername", func(t *testing.T) {
		user, err := identity.NewUser("ramesh_kirana", "secret-pass-123", identity.RoleShopkeeper)
		require.NoError(t, err)
		require.NoError(t, user.SetShopName("Ramesh Kirana Store"))
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByUsername(ctx, "ramesh_kirana")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, identity.RoleShopkeeper, found.Role)
		assert.Equal(t, "Ramesh Kirana Store", found.ShopName)
		assert.True(t, found.VerifyPassword("secret-pass-123"))
	})

	t.Run("ExistsByUsername", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "ramesh_kirana")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "no_such_user")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("FindByRole", func(t *testing.T) {
		customer, err := identity.NewUser("priya_customer", "another-pass-456", identity.RoleCustomer)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, customer))

		customers, err := repo.FindByRole(ctx, identity.RoleCustomer, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, customer.ID, customers[0].ID)
	})

	t.Run("Save persists login lockout state", func(t *testing.T) {
		user, err := identity.NewUser("locked_user", "password-789", identity.RoleCustomer)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			user.RecordLoginFailure(3, 15*time.Minute)
		}
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByUsername(ctx, "locked_user")
		require.NoError(t, err)
		assert.Equal(t, 3, found.FailedAttempts)
		assert.True(t, found.IsLocked())
		assert.False(t, found.CanLogin())
	})
}

// TestOrderRepository_Integration tests the order repository against a real PostgreSQL database
func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormOrderRepository(testDB.DB)
	ctx := context.Background()

	customerID := uuid.New()
	shopkeeperID := uuid.New()

	newLines := func(t *testing.T) []ordering.CartLine {
		t.Helper()
		return []ordering.CartLine{
			{ProductID: uuid.New(), ProductName: "Basmati Rice 5kg", UnitPrice: mustMoney(t, "550.00"), Quantity: 2},
			{ProductID: uuid.New(), ProductName: "Cooking Oil 1L", UnitPrice: mustMoney(t, "180.00"), Quantity: 1},
		}
	}

	t.Run("Save and FindByID loads line items", func(t *testing.T) {
		order, err := ordering.NewOrder(customerID, shopkeeperID, newLines(t), ordering.PaymentTermsCredit, "deliver in the evening")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		assert.Equal(t, ordering.OrderStatusPending, found.Status)
		assert.Equal(t, ordering.PaymentTermsCredit, found.PaymentTerms)
		assert.True(t, mustMoney(t, "1280.00").Equals(found.Total))
		require.Len(t, found.Items, 2)
		assert.Equal(t, "deliver in the evening", found.Notes)
	})

	t.Run("FindByCustomer and FindByShopkeeper", func(t *testing.T) {
		orders, err := repo.FindByCustomer(ctx, customerID, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.NotEmpty(t, orders)
		for _, o := range orders {
			assert.Equal(t, customerID, o.CustomerID)
		}

		orders, err = repo.FindByShopkeeper(ctx, shopkeeperID, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.NotEmpty(t, orders)
		for _, o := range orders {
			assert.Equal(t, shopkeeperID, o.ShopkeeperID)
		}
	})

	t.Run("FindByStatus filters on order status", func(t *testing.T) {
		order, err := ordering.NewOrder(customerID, shopkeeperID, newLines(t), ordering.PaymentTermsImmediate, "")
		require.NoError(t, err)
		require.NoError(t, order.Confirm())
		require.NoError(t, repo.Save(ctx, order))

		confirmed, err := repo.FindByStatus(ctx, shopkeeperID, ordering.OrderStatusConfirmed, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, confirmed, 1)
		assert.Equal(t, order.ID, confirmed[0].ID)
	})

	t.Run("SaveWithLock persists a status transition", func(t *testing.T) {
		order, err := ordering.NewOrder(customerID, shopkeeperID, newLines(t), ordering.PaymentTermsCredit, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		require.NoError(t, order.Confirm())
		require.NoError(t, repo.SaveWithLock(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.OrderStatusConfirmed, found.Status)
		assert.NotNil(t, found.ConfirmedAt)
		assert.Equal(t, order.Version, found.Version)
	})

	t.Run("SaveWithLock rejects stale version", func(t *testing.T) {
		order, err := ordering.NewOrder(customerID, shopkeeperID, newLines(t), ordering.PaymentTermsCredit, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		stale, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)

		require.NoError(t, order.Confirm())
		require.NoError(t, repo.SaveWithLock(ctx, order))

		require.NoError(t, stale.Cancel("changed my mind"))
		err = repo.SaveWithLock(ctx, stale)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.OrderStatusConfirmed, found.Status)
	})

	t.Run("CountByCustomer and CountByShopkeeper", func(t *testing.T) {
		byCustomer, err := repo.CountByCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Positive(t, byCustomer)

		byShopkeeper, err := repo.CountByShopkeeper(ctx, shopkeeperID)
		require.NoError(t, err)
		assert.Equal(t, byCustomer, byShopkeeper)

		none, err := repo.CountByCustomer(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, none)
	})
}

// TestCreditRecordRepository_Integration tests the credit record repository
// against a real PostgreSQL database, including the JSONB payments column.
func TestCreditRecordRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormCreditRecordRepository(testDB.DB)
	orderRepo := persistence.NewGormOrderRepository(testDB.DB)
	ctx := context.Background()

	customerID := uuid.New()
	shopkeeperID := uuid.New()

	newCreditOrder := func(t *testing.T) *ordering.Order {
		t.Helper()
		lines := []ordering.CartLine{
			{ProductID: uuid.New(), ProductName: "Atta 10kg", UnitPrice: mustMoney(t, "450.00"), Quantity: 2},
		}
		order, err := ordering.NewOrder(customerID, shopkeeperID, lines, ordering.PaymentTermsCredit, "")
		require.NoError(t, err)
		require.NoError(t, orderRepo.Save(ctx, order))
		return order
	}

	t.Run("Save and FindByOrderID", func(t *testing.T) {
		order := newCreditOrder(t)
		dueDate := time.Now().AddDate(0, 0, 30)

		record, err := credit.NewCreditRecordFromOrder(order, "Priya", "Ramesh Kirana Store", dueDate)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))

		found, err := repo.FindByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, found.ID)
		assert.Equal(t, credit.StatusPending, found.Status)
		assert.True(t, mustMoney(t, "900.00").Equals(found.Total))
		assert.True(t, mustMoney(t, "900.00").Equals(found.Remaining))
		assert.Empty(t, found.Payments)
	})

	t.Run("SaveWithLock persists payments in JSONB", func(t *testing.T) {
		order := newCreditOrder(t)
		record, err := credit.NewCreditRecordFromOrder(order, "Priya", "Ramesh Kirana Store", time.Now().AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))

		require.NoError(t, record.ApplyPayment(mustMoney(t, "400.00"), credit.PaymentMethodUPI, "first instalment"))
		require.NoError(t, repo.SaveWithLock(ctx, record))

		require.NoError(t, record.ApplyPayment(mustMoney(t, "500.00"), credit.PaymentMethodCash, "settled"))
		require.NoError(t, repo.SaveWithLock(ctx, record))

		found, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, credit.StatusPaid, found.Status)
		assert.True(t, found.Remaining.IsZero())
		assert.NotNil(t, found.PaidAt)
		require.Len(t, found.Payments, 2)
		assert.Equal(t, credit.PaymentMethodUPI, found.Payments[0].Method)
		assert.Equal(t, "first instalment", found.Payments[0].Notes)
		assert.Equal(t, credit.PaymentMethodCash, found.Payments[1].Method)
	})

	t.Run("SaveWithLock rejects concurrent payment", func(t *testing.T) {
		order := newCreditOrder(t)
		record, err := credit.NewCreditRecordFromOrder(order, "Priya", "Ramesh Kirana Store", time.Now().AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))

		stale, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)

		require.NoError(t, record.ApplyPayment(mustMoney(t, "300.00"), credit.PaymentMethodCash, ""))
		require.NoError(t, repo.SaveWithLock(ctx, record))

		require.NoError(t, stale.ApplyPayment(mustMoney(t, "300.00"), credit.PaymentMethodCash, ""))
		err = repo.SaveWithLock(ctx, stale)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)

		found, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, mustMoney(t, "600.00").Equals(found.Remaining))
		assert.Len(t, found.Payments, 1)
	})

	t.Run("only one credit record per order", func(t *testing.T) {
		order := newCreditOrder(t)
		first, err := credit.NewCreditRecordFromOrder(order, "Priya", "Ramesh Kirana Store", time.Now().AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))

		second, err := credit.NewCreditRecordFromOrder(order, "Priya", "Ramesh Kirana Store", time.Now().AddDate(0, 0, 30))
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, second))
	})

	t.Run("FindOverdue and FindDueWithin", func(t *testing.T) {
		order := newCreditOrder(t)
		record, err := credit.NewCreditRecordFromOrder(order, "Priya", "Ramesh Kirana Store", time.Now().AddDate(0, 0, 5))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))

		dueSoon, err := repo.FindDueWithin(ctx, shopkeeperID, time.Now(), 7)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(dueSoon))
		for _, r := range dueSoon {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, record.ID)

		overdue, err := repo.FindOverdue(ctx, shopkeeperID, time.Now())
		require.NoError(t, err)
		for _, r := range overdue {
			assert.NotEqual(t, record.ID, r.ID)
		}

		// Seen from 10 days out, the same record has lapsed
		overdue, err = repo.FindOverdue(ctx, shopkeeperID, time.Now().AddDate(0, 0, 10))
		require.NoError(t, err)
		ids = ids[:0]
		for _, r := range overdue {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, record.ID)
	})

	t.Run("FindByCustomer and FindByShopkeeper", func(t *testing.T) {
		records, err := repo.FindByCustomer(ctx, customerID, shared.Filter{Page: 1, PageSize: 50})
		require.NoError(t, err)
		require.NotEmpty(t, records)
		for _, r := range records {
			assert.Equal(t, customerID, r.CustomerID)
		}

		records, err = repo.FindByShopkeeper(ctx, shopkeeperID, shared.Filter{Page: 1, PageSize: 50})
		require.NoError(t, err)
		require.NotEmpty(t, records)
		for _, r := range records {
			assert.Equal(t, shopkeeperID, r.ShopkeeperID)
		}
	})

	t.Run("FindAll with status filter", func(t *testing.T) {
		pending := credit.StatusPending
		records, err := repo.FindAll(ctx, credit.CreditRecordFilter{
			Filter:       shared.Filter{Page: 1, PageSize: 50},
			ShopkeeperID: &shopkeeperID,
			Status:       &pending,
		})
		require.NoError(t, err)
		for _, r := range records {
			assert.Equal(t, credit.StatusPending, r.Status)
		}
	})
}
