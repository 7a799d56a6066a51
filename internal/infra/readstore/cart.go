package readstore

import (
	"context"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CartReadStore struct {
	db    db.DBTX
	clock clock.Clock
}

func NewCartReadStore(dbtx db.DBTX, clk clock.Clock) *CartReadStore {
	return &CartReadStore{db: dbtx, clock: clk}
}

func (r *CartReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*queries.CartView, error) {
	var (
		view          queries.CartView
		updatedAt     pgtype.Timestamptz
		couponID      pgtype.UUID
		couponCode    pgtype.Text
		couponPercent pgtype.Int4
		couponMinimum pgtype.Int8
		couponExpires pgtype.Timestamptz
		couponActive  pgtype.Bool
	)
	err := r.db.QueryRow(ctx,
		`SELECT c.id, c.updated_at,
			cp.id, cp.code, cp.discount_percent, cp.minimum_order_cents, cp.expires_at, cp.is_active
		 FROM carts c
		 LEFT JOIN coupons cp ON cp.id = c.coupon_id
		 WHERE c.user_id = $1`, userID,
	).Scan(&view.ID, &updatedAt,
		&couponID, &couponCode, &couponPercent, &couponMinimum, &couponExpires, &couponActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get cart view", err)
	}
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	rows, err := r.db.Query(ctx,
		`SELECT ci.id, ci.product_id, p.title,
			CASE WHEN cardinality(p.images) > 0 THEN p.images[1] END,
			ci.size, ci.quantity, ci.unit_price_cents
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.created_at`, view.ID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	defer rows.Close()

	view.Items = []*queries.CartItemView{}
	for rows.Next() {
		var (
			item  queries.CartItemView
			image pgtype.Text
		)
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Title, &image, &item.Size, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item", err)
		}
		item.Image = pgconv.StringPtrFromPgtype(image)
		item.LineTotalCents = item.UnitPriceCents * int64(item.Quantity)
		view.Summary.ItemsCount += int(item.Quantity)
		view.Summary.SubtotalCents += item.LineTotalCents
		view.Items = append(view.Items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart items", err)
	}

	// The applied coupon only discounts while it is still active, unexpired
	// and the subtotal clears its minimum; otherwise it shows with no effect.
	if couponID.Valid {
		view.Coupon = &queries.AppliedCouponView{
			ID:      uuid.UUID(couponID.Bytes),
			Code:    couponCode.String,
			Percent: int(couponPercent.Int32),
		}
		now := r.clock.Now()
		if couponActive.Bool && couponExpires.Time.After(now) && view.Summary.SubtotalCents >= couponMinimum.Int64 {
			view.Summary.DiscountCents = coupon.Percent(couponPercent.Int32).Of(view.Summary.SubtotalCents)
		}
	}

	view.Summary.TotalCents = view.Summary.SubtotalCents - view.Summary.DiscountCents
	if view.Summary.TotalCents < 0 {
		view.Summary.TotalCents = 0
	}
	return &view, nil
}
