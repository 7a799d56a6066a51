//go:build unit

package cart_test

import (
	"testing"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStock      = 50
	testMaxPerLine = 10
)

func TestCartAddItem(t *testing.T) {
	productID := uuid.New()

	t.Run("appends a new line", func(t *testing.T) {
		c := cart.NewCart(uuid.New())

		err := c.AddItem(productID, "M", 2, 1500, testStock, testMaxPerLine)
		require.NoError(t, err)

		require.Len(t, c.Lines(), 1)
		line := c.Lines()[0]
		assert.Equal(t, productID, line.ProductID())
		assert.Equal(t, "M", line.Size())
		assert.Equal(t, 2, line.Quantity())
		assert.Equal(t, int64(3000), line.TotalCents())
	})

	t.Run("merges into an existing line for the same product and size", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, "M", 2, 1500, testStock, testMaxPerLine))

		err := c.AddItem(productID, "M", 3, 1500, testStock, testMaxPerLine)
		require.NoError(t, err)

		require.Len(t, c.Lines(), 1)
		assert.Equal(t, 5, c.Lines()[0].Quantity())
	})

	t.Run("same product with a different size stays a separate line", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, "M", 1, 1500, testStock, testMaxPerLine))

		err := c.AddItem(productID, "L", 1, 1500, testStock, testMaxPerLine)
		require.NoError(t, err)

		assert.Len(t, c.Lines(), 2)
	})

	t.Run("merge refreshes the unit price to the latest", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, "M", 1, 2000, testStock, testMaxPerLine))

		err := c.AddItem(productID, "M", 1, 1800, testStock, testMaxPerLine)
		require.NoError(t, err)

		assert.Equal(t, int64(1800), c.Lines()[0].UnitPriceCents())
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		err := c.AddItem(productID, "M", 0, 1500, testStock, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("rejects merged quantity above the per-line cap", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, "M", 6, 1500, testStock, testMaxPerLine))

		err := c.AddItem(productID, "M", 5, 1500, testStock, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrQuantityExceeded)
		assert.Equal(t, 6, c.Lines()[0].Quantity())
	})

	t.Run("rejects quantity above available stock", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		err := c.AddItem(productID, "M", 4, 1500, 3, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrInsufficientStock)
	})
}

func TestCartUpdateItem(t *testing.T) {
	productID := uuid.New()

	build := func(t *testing.T) (*cart.Cart, uuid.UUID) {
		t.Helper()
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, "M", 2, 1500, testStock, testMaxPerLine))
		return c, c.Lines()[0].ID()
	}

	t.Run("changes the quantity", func(t *testing.T) {
		c, itemID := build(t)
		qty := 5

		err := c.UpdateItem(itemID, &qty, nil, testStock, testMaxPerLine)
		require.NoError(t, err)
		assert.Equal(t, 5, c.Lines()[0].Quantity())
	})

	t.Run("changes the size", func(t *testing.T) {
		c, itemID := build(t)
		size := "L"

		err := c.UpdateItem(itemID, nil, &size, testStock, testMaxPerLine)
		require.NoError(t, err)
		assert.Equal(t, "L", c.Lines()[0].Size())
	})

	t.Run("size change onto an existing line merges the two", func(t *testing.T) {
		c, itemID := build(t)
		require.NoError(t, c.AddItem(productID, "L", 3, 1500, testStock, testMaxPerLine))
		size := "L"

		err := c.UpdateItem(itemID, nil, &size, testStock, testMaxPerLine)
		require.NoError(t, err)

		require.Len(t, c.Lines(), 1)
		merged, ok := c.Line(itemID)
		require.True(t, ok)
		assert.Equal(t, "L", merged.Size())
		assert.Equal(t, 5, merged.Quantity())
	})

	t.Run("merged quantity still honors the per-line cap", func(t *testing.T) {
		c, itemID := build(t)
		require.NoError(t, c.AddItem(productID, "L", 9, 1500, testStock, testMaxPerLine))
		size := "L"

		err := c.UpdateItem(itemID, nil, &size, testStock, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrQuantityExceeded)

		// the rejected merge must not swallow the colliding line
		require.Len(t, c.Lines(), 2)
		line, ok := c.Line(itemID)
		require.True(t, ok)
		assert.Equal(t, "M", line.Size())
		assert.Equal(t, 2, line.Quantity())
	})

	t.Run("merged quantity above stock leaves both lines intact", func(t *testing.T) {
		c, itemID := build(t)
		require.NoError(t, c.AddItem(productID, "L", 7, 1500, testStock, testMaxPerLine))
		size := "L"

		err := c.UpdateItem(itemID, nil, &size, 8, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrInsufficientStock)
		assert.Len(t, c.Lines(), 2)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		c, itemID := build(t)
		qty := 0

		err := c.UpdateItem(itemID, &qty, nil, testStock, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("unknown item", func(t *testing.T) {
		c, _ := build(t)
		qty := 1

		err := c.UpdateItem(uuid.New(), &qty, nil, testStock, testMaxPerLine)
		assert.ErrorIs(t, err, cart.ErrItemNotFound)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	t.Run("removes a line", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), "M", 1, 1000, testStock, testMaxPerLine))
		itemID := c.Lines()[0].ID()

		require.NoError(t, c.RemoveItem(itemID))
		assert.True(t, c.IsEmpty())
	})

	t.Run("removing an unknown line fails", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		err := c.RemoveItem(uuid.New())
		assert.ErrorIs(t, err, cart.ErrItemNotFound)
	})

	t.Run("clear drops lines and coupon", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), "M", 1, 1000, testStock, testMaxPerLine))
		c.ApplyCoupon(uuid.New())

		c.Clear()

		assert.True(t, c.IsEmpty())
		assert.Nil(t, c.CouponID())
	})
}

func TestCartSummarize(t *testing.T) {
	now := time.Now()

	t.Run("sums lines without a coupon", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), "M", 2, 1500, testStock, testMaxPerLine))
		require.NoError(t, c.AddItem(uuid.New(), "", 1, 4000, testStock, testMaxPerLine))

		s := c.Summarize(nil)

		assert.Equal(t, 3, s.ItemsCount)
		assert.Equal(t, int64(7000), s.SubtotalCents)
		assert.Equal(t, int64(0), s.DiscountCents)
		assert.Equal(t, int64(7000), s.TotalCents)
	})

	t.Run("applies the coupon discount to the subtotal", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), "M", 2, 5000, testStock, testMaxPerLine))

		cpn, err := coupon.NewCoupon(uuid.Nil, "SAVE10", 10, now.AddDate(0, 1, 0), 0, 100, now)
		require.NoError(t, err)

		s := c.Summarize(cpn)

		assert.Equal(t, int64(10000), s.SubtotalCents)
		assert.Equal(t, int64(1000), s.DiscountCents)
		assert.Equal(t, int64(9000), s.TotalCents)
	})

	t.Run("no discount when the subtotal is below the coupon minimum", func(t *testing.T) {
		c := cart.NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), "M", 1, 1000, testStock, testMaxPerLine))

		cpn, err := coupon.NewCoupon(uuid.Nil, "SAVE10", 10, now.AddDate(0, 1, 0), 5000, 100, now)
		require.NoError(t, err)

		s := c.Summarize(cpn)

		assert.Equal(t, int64(0), s.DiscountCents)
		assert.Equal(t, int64(1000), s.TotalCents)
	})
}
