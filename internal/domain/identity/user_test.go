package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain/shared"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Priya.Sharma", "secret-pass-123", RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, "priya.sharma", user.Username)
	assert.Equal(t, RoleCustomer, user.Role)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.NotEqual(t, "secret-pass-123", user.PasswordHash)
	assert.True(t, user.VerifyPassword("secret-pass-123"))
	assert.False(t, user.VerifyPassword("wrong"))

	events := user.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     Role
		wantCode string
	}{
		{"empty username", "", "password123", RoleCustomer, "INVALID_USERNAME"},
		{"short username", "ab", "password123", RoleCustomer, "INVALID_USERNAME"},
		{"bad characters", "user name", "password123", RoleCustomer, "INVALID_USERNAME"},
		{"short password", "validuser", "short", RoleCustomer, "INVALID_PASSWORD"},
		{"bad role", "validuser", "password123", Role("admin"), "INVALID_ROLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.password, tt.role)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestUser_ShopName(t *testing.T) {
	shopkeeper, err := NewUser("kumar", "password123", RoleShopkeeper)
	require.NoError(t, err)

	require.NoError(t, shopkeeper.SetShopName("Kumar General Store"))
	assert.Equal(t, "Kumar General Store", shopkeeper.ShopName)
	assert.True(t, shopkeeper.IsShopkeeper())

	customer, err := NewUser("priya", "password123", RoleCustomer)
	require.NoError(t, err)
	err = customer.SetShopName("anything")
	require.Error(t, err)
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("priya", "old-password-1", RoleCustomer)
	require.NoError(t, err)

	err = user.ChangePassword("wrong-password", "new-password-1")
	require.Error(t, err)
	assert.True(t, user.VerifyPassword("old-password-1"))

	require.NoError(t, user.ChangePassword("old-password-1", "new-password-1"))
	assert.True(t, user.VerifyPassword("new-password-1"))
	assert.False(t, user.VerifyPassword("old-password-1"))
}

func TestUser_LoginTracking(t *testing.T) {
	user, err := NewUser("priya", "password123", RoleCustomer)
	require.NoError(t, err)

	locked := user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.True(t, locked)
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	user.RecordLoginSuccess()
	assert.Equal(t, 0, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
	require.NotNil(t, user.LastLoginAt)
}

func TestUser_LockExpiry(t *testing.T) {
	user, err := NewUser("priya", "password123", RoleCustomer)
	require.NoError(t, err)

	user.RecordLoginFailure(1, -time.Minute) // lock already expired
	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user, err := NewUser("priya", "password123", RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive())
	assert.False(t, user.CanLogin())

	err = user.Deactivate()
	require.Error(t, err)

	require.NoError(t, user.Activate())
	assert.True(t, user.IsActive())
}

func TestUser_SetEmail(t *testing.T) {
	user, err := NewUser("priya", "password123", RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, user.SetEmail("Priya@Example.com"))
	assert.Equal(t, "priya@example.com", user.Email)

	err = user.SetEmail("not-an-email")
	require.Error(t, err)

	// clearing is allowed
	require.NoError(t, user.SetEmail(""))
	assert.Equal(t, "", user.Email)
}

func TestUser_DisplayNameFallback(t *testing.T) {
	user, err := NewUser("priya", "password123", RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, "priya", user.GetDisplayNameOrUsername())
	require.NoError(t, user.SetDisplayName("Priya Sharma"))
	assert.Equal(t, "Priya Sharma", user.GetDisplayNameOrUsername())
}
