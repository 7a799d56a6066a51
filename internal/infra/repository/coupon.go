package repository

import (
	"context"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	query := `
		INSERT INTO coupons (id, code, discount_percent, expires_at, minimum_order_cents, usage_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		c.ID(), c.Code().String(), c.DiscountPercent().Value(), c.ExpiresAt(),
		c.MinimumOrderCents(), c.UsageLimit(), c.IsActive(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return id, nil
}

func (r *CouponRepository) Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	query := `
		UPDATE coupons
		SET discount_percent = $2, expires_at = $3, minimum_order_cents = $4,
			usage_limit = $5, is_active = $6, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		c.ID(), c.DiscountPercent().Value(), c.ExpiresAt(),
		c.MinimumOrderCents(), c.UsageLimit(), c.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, tx db.DBTX, couponID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, couponID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) FindByID(ctx context.Context, tx db.DBTX, couponID uuid.UUID) (*coupon.Coupon, error) {
	row := tx.QueryRow(ctx, couponSelect+` WHERE id = $1`, couponID)
	return scanCoupon(row)
}

func (r *CouponRepository) FindByCode(ctx context.Context, tx db.DBTX, code string) (*coupon.Coupon, error) {
	row := tx.QueryRow(ctx, couponSelect+` WHERE code = $1`, code)
	return scanCoupon(row)
}

const couponSelect = `
	SELECT id, code, discount_percent, expires_at, minimum_order_cents, usage_limit, is_active,
		created_at, updated_at
	FROM coupons`

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		id                uuid.UUID
		storedCode        string
		discountPercent   int32
		expiresAt         pgtype.Timestamptz
		minimumOrderCents int64
		usageLimit        int32
		isActive          bool
		createdAt         pgtype.Timestamptz
		updatedAt         pgtype.Timestamptz
	)
	err := row.Scan(&id, &storedCode, &discountPercent, &expiresAt, &minimumOrderCents, &usageLimit,
		&isActive, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}

	return coupon.Reconstruct(
		id, storedCode, int(discountPercent), pgconv.TimeFromPgtype(expiresAt),
		minimumOrderCents, int(usageLimit), isActive,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *CouponRepository) Usage(ctx context.Context, tx db.DBTX, couponID, userID uuid.UUID) (coupon.Usage, error) {
	var usage coupon.Usage
	err := tx.QueryRow(ctx,
		`SELECT count(*),
			count(*) FILTER (WHERE user_id = $2) > 0
		 FROM coupon_redemptions WHERE coupon_id = $1`,
		couponID, userID,
	).Scan(&usage.RedemptionCount, &usage.RedeemedByUser)
	if err != nil {
		return coupon.Usage{}, infra.WrapRepoErr("failed to load coupon usage", err)
	}
	return usage, nil
}

// Redeem appends to the ledger only while the redemption count is still below
// the usage limit. The coupon row lock serializes concurrent redemptions:
// under read committed, two transactions racing for the last slot would each
// count below the limit and insert distinct (coupon_id, user_id) rows, so the
// later one must wait here and recount after the first commits. Zero rows
// means the limit was hit, a primary key violation means this user already
// redeemed the coupon.
func (r *CouponRepository) Redeem(ctx context.Context, tx db.DBTX, couponID, userID, orderID uuid.UUID, usageLimit int) error {
	if _, err := tx.Exec(ctx, `SELECT 1 FROM coupons WHERE id = $1 FOR UPDATE`, couponID); err != nil {
		return infra.WrapRepoErr("failed to lock coupon", err)
	}

	query := `
		INSERT INTO coupon_redemptions (coupon_id, user_id, order_id)
		SELECT $1, $2, $3
		WHERE (SELECT count(*) FROM coupon_redemptions WHERE coupon_id = $1) < $4`

	tag, err := tx.Exec(ctx, query, couponID, userID, orderID, usageLimit)
	if err != nil {
		return infra.WrapRepoErr("failed to redeem coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)
	}
	return nil
}

func (r *CouponRepository) Unredeem(ctx context.Context, tx db.DBTX, couponID, userID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM coupon_redemptions WHERE coupon_id = $1 AND user_id = $2`,
		couponID, userID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to remove coupon redemption", err)
	}
	return nil
}
