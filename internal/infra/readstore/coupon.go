package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

const couponViewSelect = `
	SELECT c.id, c.code, c.discount_percent, c.expires_at, c.minimum_order_cents,
		c.usage_limit,
		(SELECT count(*) FROM coupon_redemptions r WHERE r.coupon_id = c.id) AS times_redeemed,
		c.is_active, c.created_at, c.updated_at
	FROM coupons c`

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, couponViewSelect+` WHERE c.id = $1`, id)
	view, err := scanCouponView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get coupon view", err)
	}
	return view, nil
}

func (r *CouponReadStore) FindAll(ctx context.Context) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, couponViewSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var views []*queries.CouponView
	for rows.Next() {
		view, err := scanCouponView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupons", err)
	}
	return views, nil
}

func scanCouponView(row scannable) (*queries.CouponView, error) {
	var (
		v               queries.CouponView
		discountPercent int32
		usageLimit      int32
		timesRedeemed   int64
		expiresAt       pgtype.Timestamptz
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)
	if err := row.Scan(&v.ID, &v.Code, &discountPercent, &expiresAt, &v.MinimumOrderCents,
		&usageLimit, &timesRedeemed, &v.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.DiscountPercent = int(discountPercent)
	v.UsageLimit = int(usageLimit)
	v.TimesRedeemed = int(timesRedeemed)
	v.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}
