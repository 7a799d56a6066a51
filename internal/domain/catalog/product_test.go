//go:build unit

package catalog_test

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		p, err := catalog.NewProduct(uuid.Nil, "  Plain Tee  ", " soft cotton ", nil, " Acme ", categoryID, 2500, nil, []string{"S", "M"}, 10, []string{"basics"})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, p.ID())
		assert.Equal(t, "Plain Tee", p.Title())
		assert.Equal(t, "soft cotton", p.Description())
		assert.Equal(t, "Acme", p.Brand())
		assert.True(t, p.InStock())
	})

	testCases := []struct {
		name  string
		title string
		price int64
		stock int
		errIs error
	}{
		{name: "empty title", title: "  ", price: 100, stock: 1, errIs: catalog.ErrEmptyProductTitle},
		{name: "title too long", title: strings.Repeat("a", catalog.MaxProductTitleLength+1), price: 100, stock: 1, errIs: catalog.ErrProductTitleTooLong},
		{name: "negative price", title: "Tee", price: -1, stock: 1, errIs: catalog.ErrNegativePrice},
		{name: "negative stock", title: "Tee", price: 100, stock: -1, errIs: catalog.ErrNegativeStock},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.NewProduct(uuid.Nil, tc.title, "", nil, "", categoryID, tc.price, nil, nil, tc.stock, nil)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestEffectivePriceCents(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	categoryID := uuid.New()

	build := func(t *testing.T, price int64, discount *catalog.Discount) *catalog.Product {
		t.Helper()
		p, err := catalog.NewProduct(uuid.Nil, "Tee", "", nil, "", categoryID, price, discount, nil, 10, nil)
		require.NoError(t, err)
		return p
	}

	t.Run("list price without a discount", func(t *testing.T) {
		p := build(t, 2500, nil)
		assert.Equal(t, int64(2500), p.EffectivePriceCents(now))
	})

	t.Run("discount applies inside the window", func(t *testing.T) {
		d, err := catalog.NewDiscount(20, now.AddDate(0, 0, 7))
		require.NoError(t, err)
		p := build(t, 10000, &d)

		assert.Equal(t, int64(8000), p.EffectivePriceCents(now))
	})

	t.Run("discount rounds half-up before subtracting", func(t *testing.T) {
		d, err := catalog.NewDiscount(15, now.AddDate(0, 0, 7))
		require.NoError(t, err)
		p := build(t, 9999, &d)

		// 15% of 9999 = 1499.85 -> 1500 off
		assert.Equal(t, int64(8499), p.EffectivePriceCents(now))
	})

	t.Run("expired discount is ignored", func(t *testing.T) {
		d, err := catalog.NewDiscount(20, now.Add(-time.Hour))
		require.NoError(t, err)
		p := build(t, 10000, &d)

		assert.Equal(t, int64(10000), p.EffectivePriceCents(now))
	})

	t.Run("discount window closes at validTill exactly", func(t *testing.T) {
		d, err := catalog.NewDiscount(20, now)
		require.NoError(t, err)
		p := build(t, 10000, &d)

		assert.Equal(t, int64(10000), p.EffectivePriceCents(now))
	})
}

func TestHasSize(t *testing.T) {
	categoryID := uuid.New()

	t.Run("sized product", func(t *testing.T) {
		p, err := catalog.NewProduct(uuid.Nil, "Tee", "", nil, "", categoryID, 100, nil, []string{"S", "M", "L"}, 1, nil)
		require.NoError(t, err)

		assert.True(t, p.HasSize("M"))
		assert.False(t, p.HasSize("XL"))
		assert.False(t, p.HasSize(""))
	})

	t.Run("unsized product only accepts the empty size", func(t *testing.T) {
		p, err := catalog.NewProduct(uuid.Nil, "Mug", "", nil, "", categoryID, 100, nil, nil, 1, nil)
		require.NoError(t, err)

		assert.True(t, p.HasSize(""))
		assert.False(t, p.HasSize("M"))
	})
}

func TestNewDiscount(t *testing.T) {
	till := time.Now().AddDate(0, 0, 7)

	t.Run("rejects out of range percents", func(t *testing.T) {
		_, err := catalog.NewDiscount(0, till)
		assert.ErrorIs(t, err, catalog.ErrInvalidDiscount)

		_, err = catalog.NewDiscount(101, till)
		assert.ErrorIs(t, err, catalog.ErrInvalidDiscount)
	})

	t.Run("full range is valid", func(t *testing.T) {
		for _, pct := range []int{1, 50, 100} {
			_, err := catalog.NewDiscount(pct, till)
			assert.NoError(t, err)
		}
	})
}
