//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, name, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, "Test User", role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestCategory(t *testing.T, db DBLike, name, slug string) uuid.UUID {
	t.Helper()

	categoryID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO categories (id, name, slug, is_active) VALUES ($1, $2, $3, true) ON CONFLICT (slug) DO NOTHING",
		categoryID, name, slug)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM categories WHERE slug = $1", slug).Scan(&categoryID)
	}

	return categoryID
}

func CreateTestProduct(t *testing.T, db DBLike, categoryID uuid.UUID, title string, priceCents int64, stock int) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO products (id, title, description, brand, category_id, price_cents, sizes, stock) VALUES ($1, $2, '', 'TestBrand', $3, $4, '{S,M,L}', $5)",
		productID, title, categoryID, priceCents, stock)
	require.NoError(t, err)

	return productID
}

func CreateTestCoupon(t *testing.T, db DBLike, code string, percent int, minimumCents int64, usageLimit int) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO coupons (id, code, discount_percent, expires_at, minimum_order_cents, usage_limit, is_active) VALUES ($1, $2, $3, now() + interval '30 days', $4, $5, true)",
		couponID, code, percent, minimumCents, usageLimit)
	require.NoError(t, err)

	return couponID
}

func CreateDeliveredOrder(t *testing.T, db DBLike, userID, productID uuid.UUID) uuid.UUID {
	t.Helper()

	orderID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO orders (id, order_number, user_id, status, subtotal_cents, discount_cents, total_cents, payment_method,
		   ship_full_name, ship_line1, ship_city, ship_postal_code, ship_country, delivered_at)
		 VALUES ($1, $2, $3, 'delivered', 1000, 0, 1000, 'cod', 'Test User', '1 Test St', 'Testville', '00000', 'US', now())`,
		orderID, fmt.Sprintf("ORD-%06d", time.Now().UnixNano()%1000000), userID)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		"INSERT INTO order_items (order_id, product_id, title, size, quantity, unit_price_cents, line_total_cents) VALUES ($1, $2, 'Test Product', 'M', 1, 1000, 1000)",
		orderID, productID)
	require.NoError(t, err)

	return orderID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
