package readstore

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	db db.DBTX
	// estimatedDeliveryDays projects shipped_at into an ETA on the view.
	estimatedDeliveryDays int
}

func NewOrderReadStore(dbtx db.DBTX, estimatedDeliveryDays int) *OrderReadStore {
	return &OrderReadStore{db: dbtx, estimatedDeliveryDays: estimatedDeliveryDays}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *OrderReadStore) FindByNumber(ctx context.Context, orderNumber string) (*queries.OrderView, error) {
	return r.findOne(ctx, `WHERE order_number = $1`, orderNumber)
}

func (r *OrderReadStore) findOne(ctx context.Context, where string, arg any) (*queries.OrderView, error) {
	query := `
		SELECT id, order_number, user_id, status,
			ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, subtotal_cents, discount_cents, total_cents,
			coupon_code, coupon_percent, coupon_discount_cents,
			notes, carrier, tracking_number,
			cancelled_at, shipped_at, delivered_at, created_at, updated_at
		FROM orders ` + where

	var (
		v              queries.OrderView
		couponCode     pgtype.Text
		couponPercent  pgtype.Int4
		couponDiscount pgtype.Int8
		carrier        pgtype.Text
		trackingNumber pgtype.Text
		cancelledAt    pgtype.Timestamptz
		shippedAt      pgtype.Timestamptz
		deliveredAt    pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&v.ID, &v.OrderNumber, &v.UserID, &v.Status,
		&v.ShippingAddress.FullName, &v.ShippingAddress.Line1, &v.ShippingAddress.Line2,
		&v.ShippingAddress.City, &v.ShippingAddress.State, &v.ShippingAddress.PostalCode,
		&v.ShippingAddress.Country, &v.ShippingAddress.Phone,
		&v.PaymentMethod, &v.SubtotalCents, &v.DiscountCents, &v.TotalCents,
		&couponCode, &couponPercent, &couponDiscount,
		&v.Notes, &carrier, &trackingNumber,
		&cancelledAt, &shippedAt, &deliveredAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order view", err)
	}

	if couponCode.Valid {
		v.Coupon = &queries.OrderCouponView{
			Code:          couponCode.String,
			Percent:       int(couponPercent.Int32),
			DiscountCents: couponDiscount.Int64,
		}
	}
	if carrier.Valid || trackingNumber.Valid {
		v.Tracking = &queries.TrackingView{Carrier: carrier.String, TrackingNumber: trackingNumber.String}
	}
	v.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	v.ShippedAt = pgconv.TimePtrFromPgtype(shippedAt)
	v.DeliveredAt = pgconv.TimePtrFromPgtype(deliveredAt)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	v.EstimatedDelivery = order.EstimateDelivery(order.Status(v.Status), v.ShippedAt, r.estimatedDeliveryDays)

	v.Items, err = loadItemViews(ctx, r.db, "order_items", "order_id", v.ID)
	if err != nil {
		return nil, err
	}
	v.History, err = loadHistoryViews(ctx, r.db, "order_status_history", "order_id", v.ID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

const orderListSelect = `
	SELECT o.id, o.order_number, o.status,
		(SELECT COALESCE(sum(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = o.id),
		o.total_cents, o.created_at
	FROM orders o`

func (r *OrderReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	query := orderListSelect + ` WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC LIMIT $2`
	return r.queryList(ctx, query, userID, limit)
}

func (r *OrderReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	query := orderListSelect + ` WHERE o.user_id = $1 AND (o.created_at, o.id) < ($2, $3)
		ORDER BY o.created_at DESC, o.id DESC LIMIT $4`
	return r.queryList(ctx, query, userID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
}

func (r *OrderReadStore) FindAllFirstPage(ctx context.Context, filters queries.OrderFilters, limit int32) ([]*queries.OrderListItem, error) {
	where, args := orderStatusFilter(filters, nil)
	query := orderListSelect + ` WHERE true` + where +
		fmt.Sprintf(` ORDER BY o.created_at DESC, o.id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)
	return r.queryList(ctx, query, args...)
}

func (r *OrderReadStore) FindAllKeyset(ctx context.Context, filters queries.OrderFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	where, args := orderStatusFilter(filters, nil)
	query := orderListSelect + ` WHERE true` + where +
		fmt.Sprintf(` AND (o.created_at, o.id) < ($%d, $%d) ORDER BY o.created_at DESC, o.id DESC LIMIT $%d`,
			len(args)+1, len(args)+2, len(args)+3)
	args = append(args, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	return r.queryList(ctx, query, args...)
}

func (r *OrderReadStore) queryList(ctx context.Context, query string, args ...any) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var items []*queries.OrderListItem
	for rows.Next() {
		var (
			item      queries.OrderListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.OrderNumber, &item.Status, &item.ItemsCount, &item.TotalCents, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order list item", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate orders", err)
	}
	return items, nil
}

func orderStatusFilter(f queries.OrderFilters, args []any) (string, []any) {
	if f.Status == nil {
		return "", args
	}
	args = append(args, *f.Status)
	return fmt.Sprintf(" AND o.status = $%d", len(args)), args
}


func loadItemViews(ctx context.Context, dbtx db.DBTX, table, fk string, orderID uuid.UUID) ([]*queries.OrderItemView, error) {
	rows, err := dbtx.Query(ctx,
		`SELECT product_id, title, size, quantity, unit_price_cents, line_total_cents
		 FROM `+table+` WHERE `+fk+` = $1`, orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	var items []*queries.OrderItemView
	for rows.Next() {
		var item queries.OrderItemView
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Size, &item.Quantity, &item.UnitPriceCents, &item.LineTotalCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func loadHistoryViews(ctx context.Context, dbtx db.DBTX, table, fk string, orderID uuid.UUID) ([]*queries.OrderHistoryView, error) {
	rows, err := dbtx.Query(ctx,
		`SELECT stage, note, created_at FROM `+table+` WHERE `+fk+` = $1 ORDER BY created_at`, orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order history", err)
	}
	defer rows.Close()

	var entries []*queries.OrderHistoryView
	for rows.Next() {
		var (
			entry     queries.OrderHistoryView
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&entry.Stage, &entry.Note, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order history", err)
		}
		entry.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order history", err)
	}
	return entries, nil
}
