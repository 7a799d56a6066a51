//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"storefront/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCoupon(t *testing.T, now time.Time) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(uuid.Nil, "SUMMER20", 20, now.AddDate(0, 0, 30), 5000, 100, now)
	require.NoError(t, err)
	return c
}

func TestNewCoupon(t *testing.T) {
	now := time.Now()

	t.Run("basic success case", func(t *testing.T) {
		c := validCoupon(t, now)

		assert.NotEqual(t, uuid.Nil, c.ID())
		assert.Equal(t, "SUMMER20", c.Code().String())
		assert.Equal(t, 20, c.DiscountPercent().Value())
		assert.True(t, c.IsActive())
	})

	t.Run("code is normalized to upper case", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.Nil, "  summer20 ", 20, now.AddDate(0, 0, 30), 0, 1, now)
		require.NoError(t, err)
		assert.Equal(t, "SUMMER20", c.Code().String())
	})

	testCases := []struct {
		name    string
		code    string
		percent int
		expires time.Time
		minimum int64
		limit   int
		errIs   error
	}{
		{name: "code too short", code: "AB", percent: 10, expires: now.AddDate(0, 0, 1), limit: 1, errIs: coupon.ErrInvalidCouponCode},
		{name: "code with invalid characters", code: "SAVE-10", percent: 10, expires: now.AddDate(0, 0, 1), limit: 1, errIs: coupon.ErrInvalidCouponCode},
		{name: "percent below range", code: "SAVE10", percent: 0, expires: now.AddDate(0, 0, 1), limit: 1, errIs: coupon.ErrInvalidPercent},
		{name: "percent above range", code: "SAVE10", percent: 101, expires: now.AddDate(0, 0, 1), limit: 1, errIs: coupon.ErrInvalidPercent},
		{name: "expiry in the past", code: "SAVE10", percent: 10, expires: now.Add(-time.Hour), limit: 1, errIs: coupon.ErrExpiryNotInFuture},
		{name: "expiry exactly now", code: "SAVE10", percent: 10, expires: now, limit: 1, errIs: coupon.ErrExpiryNotInFuture},
		{name: "negative minimum", code: "SAVE10", percent: 10, expires: now.AddDate(0, 0, 1), minimum: -1, limit: 1, errIs: coupon.ErrNegativeMinimum},
		{name: "zero usage limit", code: "SAVE10", percent: 10, expires: now.AddDate(0, 0, 1), limit: 0, errIs: coupon.ErrInvalidUsageLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coupon.NewCoupon(uuid.Nil, tc.code, tc.percent, tc.expires, tc.minimum, tc.limit, now)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestValidateUsage(t *testing.T) {
	now := time.Now()

	t.Run("valid redemption passes", func(t *testing.T) {
		c := validCoupon(t, now)
		err := c.ValidateUsage(now, coupon.Usage{RedemptionCount: 99}, 5000)
		assert.NoError(t, err)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		c := coupon.Reconstruct(uuid.New(), "SUMMER20", 20, now.AddDate(0, 0, 30), 5000, 100, false, now, now)
		err := c.ValidateUsage(now, coupon.Usage{}, 10000)
		assert.ErrorIs(t, err, coupon.ErrCouponInactive)
	})

	t.Run("expired coupon", func(t *testing.T) {
		c := coupon.Reconstruct(uuid.New(), "SUMMER20", 20, now.Add(-time.Hour), 5000, 100, true, now, now)
		err := c.ValidateUsage(now, coupon.Usage{}, 10000)
		assert.ErrorIs(t, err, coupon.ErrCouponExpired)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		c := validCoupon(t, now)
		err := c.ValidateUsage(now, coupon.Usage{RedemptionCount: 100}, 10000)
		assert.ErrorIs(t, err, coupon.ErrUsageLimitReached)
	})

	t.Run("already redeemed by this user", func(t *testing.T) {
		c := validCoupon(t, now)
		err := c.ValidateUsage(now, coupon.Usage{RedeemedByUser: true}, 10000)
		assert.ErrorIs(t, err, coupon.ErrAlreadyRedeemed)
	})

	t.Run("below minimum order amount", func(t *testing.T) {
		c := validCoupon(t, now)
		err := c.ValidateUsage(now, coupon.Usage{}, 4999)
		assert.ErrorIs(t, err, coupon.ErrBelowMinimumAmount)
	})

	t.Run("most permanent failure wins", func(t *testing.T) {
		// Expired AND over limit AND below minimum: expiry is reported.
		c := coupon.Reconstruct(uuid.New(), "SUMMER20", 20, now.Add(-time.Hour), 5000, 1, true, now, now)
		err := c.ValidateUsage(now, coupon.Usage{RedemptionCount: 5, RedeemedByUser: true}, 100)
		assert.ErrorIs(t, err, coupon.ErrCouponExpired)
	})
}

func TestDiscountCents(t *testing.T) {
	now := time.Now()

	t.Run("computes the percentage", func(t *testing.T) {
		c := validCoupon(t, now)
		assert.Equal(t, int64(2000), c.DiscountCents(10000))
	})

	t.Run("rounds half-up", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.Nil, "ODD15", 15, now.AddDate(0, 0, 1), 0, 1, now)
		require.NoError(t, err)

		// 15% of 9999 = 1499.85, rounds to 1500
		assert.Equal(t, int64(1500), c.DiscountCents(9999))
		// 15% of 30 = 4.5, rounds to 5
		assert.Equal(t, int64(5), c.DiscountCents(30))
	})

	t.Run("zero below the minimum", func(t *testing.T) {
		c := validCoupon(t, now)
		assert.Equal(t, int64(0), c.DiscountCents(4999))
	})
}
