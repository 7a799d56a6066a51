package repository

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

func (r *CartRepository) FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*cart.Cart, error) {
	var (
		id        uuid.UUID
		couponID  pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx,
		`SELECT id, coupon_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&id, &couponID, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cart", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, product_id, size, quantity, unit_price_cents
		 FROM cart_items WHERE cart_id = $1 ORDER BY created_at`, id,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var (
			itemID, productID uuid.UUID
			size              string
			quantity          int32
			unitPriceCents    int64
		)
		if err := rows.Scan(&itemID, &productID, &size, &quantity, &unitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item", err)
		}
		lines = append(lines, cart.NewLine(itemID, productID, size, int(quantity), unitPriceCents))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart items", err)
	}

	return cart.Reconstruct(
		id, userID, lines, pgconv.UUIDPtrFromPgtype(couponID),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

// Save upserts the cart row keyed by user and replaces the item set in one
// shot. Carts are small, so rewriting the lines is simpler and no slower than
// diffing them.
func (r *CartRepository) Save(ctx context.Context, tx db.DBTX, c *cart.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, coupon_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET coupon_id = EXCLUDED.coupon_id, updated_at = now()
		RETURNING id`

	var cartID uuid.UUID
	err := tx.QueryRow(ctx, query, c.ID(), c.UserID(), pgconv.UUIDPtrToPgtype(c.CouponID())).Scan(&cartID)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert cart", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return infra.WrapRepoErr("failed to clear cart items", err)
	}

	for _, line := range c.Lines() {
		_, err := tx.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, size, quantity, unit_price_cents)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID(), cartID, line.ProductID(), line.Size(), line.Quantity(), line.UnitPriceCents(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert cart item", err)
		}
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return infra.WrapRepoErr("failed to clear cart items", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE carts SET coupon_id = NULL, updated_at = now() WHERE id = $1`, cartID,
	); err != nil {
		return infra.WrapRepoErr("failed to reset cart", err)
	}
	return nil
}
