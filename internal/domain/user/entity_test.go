//go:build unit

package user_test

import (
	"strings"
	"testing"

	"storefront/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	email, err := user.NewEmail("shopper@example.com")
	require.NoError(t, err)

	u := user.NewUser(email, "hashed-password", "Sam Shopper", user.RoleCustomer)

	assert.NotEqual(t, uuid.Nil, u.ID())
	assert.Equal(t, "shopper@example.com", u.Email().Value())
	assert.Equal(t, user.RoleCustomer, u.Role())
	assert.True(t, u.IsActive())
	assert.Nil(t, u.LastLogin())
}

func TestNewEmail(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "plain address", input: "a@example.com", valid: true},
		{name: "with plus tag", input: "a+tag@example.com", valid: true},
		{name: "surrounding whitespace is trimmed", input: "  a@example.com  ", valid: true},
		{name: "missing at sign", input: "example.com", valid: false},
		{name: "missing domain", input: "a@", valid: false},
		{name: "missing tld", input: "a@example", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := user.NewEmail(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, user.ErrInvalidEmail)
			}
		})
	}
}

func TestNewPassword(t *testing.T) {
	t.Run("eight characters is the floor", func(t *testing.T) {
		_, err := user.NewPassword("1234567")
		assert.ErrorIs(t, err, user.ErrPasswordTooWeak)

		p, err := user.NewPassword("12345678")
		require.NoError(t, err)
		assert.Equal(t, "12345678", p.Value())
	})
}

func TestNewName(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		name, err := user.NewName("  Sam  ")
		require.NoError(t, err)
		assert.Equal(t, "Sam", name)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := user.NewName("   ")
		assert.ErrorIs(t, err, user.ErrEmptyName)
	})

	t.Run("rejects over the length cap", func(t *testing.T) {
		_, err := user.NewName(strings.Repeat("a", user.MaxNameLength+1))
		assert.ErrorIs(t, err, user.ErrNameTooLong)
	})
}

func TestRole(t *testing.T) {
	t.Run("validity", func(t *testing.T) {
		assert.True(t, user.RoleCustomer.IsValid())
		assert.True(t, user.RoleStaff.IsValid())
		assert.True(t, user.RoleAdmin.IsValid())
		assert.False(t, user.Role("viewer").IsValid())
	})

	t.Run("rank ordering", func(t *testing.T) {
		assert.True(t, user.RoleAdmin.AtLeast(user.RoleStaff))
		assert.True(t, user.RoleAdmin.AtLeast(user.RoleAdmin))
		assert.True(t, user.RoleStaff.AtLeast(user.RoleCustomer))
		assert.False(t, user.RoleCustomer.AtLeast(user.RoleStaff))
		assert.False(t, user.RoleStaff.AtLeast(user.RoleAdmin))
	})
}
