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

type GuestOrderReadStore struct {
	db                    db.DBTX
	estimatedDeliveryDays int
}

func NewGuestOrderReadStore(dbtx db.DBTX, estimatedDeliveryDays int) *GuestOrderReadStore {
	return &GuestOrderReadStore{db: dbtx, estimatedDeliveryDays: estimatedDeliveryDays}
}

func (r *GuestOrderReadStore) FindByNumber(ctx context.Context, orderNumber string) (*queries.GuestOrderView, error) {
	query := `
		SELECT id, order_number, guest_name, guest_email, status,
			ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, subtotal_cents, total_cents, carrier, tracking_number,
			shipped_at, created_at
		FROM guest_orders WHERE order_number = $1`

	var (
		v              queries.GuestOrderView
		carrier        pgtype.Text
		trackingNumber pgtype.Text
		shippedAt      pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, orderNumber).Scan(
		&v.ID, &v.OrderNumber, &v.GuestName, &v.GuestEmail, &v.Status,
		&v.ShippingAddress.FullName, &v.ShippingAddress.Line1, &v.ShippingAddress.Line2,
		&v.ShippingAddress.City, &v.ShippingAddress.State, &v.ShippingAddress.PostalCode,
		&v.ShippingAddress.Country, &v.ShippingAddress.Phone,
		&v.PaymentMethod, &v.SubtotalCents, &v.TotalCents, &carrier, &trackingNumber,
		&shippedAt, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("guest order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get guest order view", err)
	}

	if carrier.Valid || trackingNumber.Valid {
		v.Tracking = &queries.TrackingView{Carrier: carrier.String, TrackingNumber: trackingNumber.String}
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.EstimatedDelivery = order.EstimateDelivery(order.Status(v.Status), pgconv.TimePtrFromPgtype(shippedAt), r.estimatedDeliveryDays)

	v.Items, err = loadItemViews(ctx, r.db, "guest_order_items", "guest_order_id", v.ID)
	if err != nil {
		return nil, err
	}
	v.History, err = loadHistoryViews(ctx, r.db, "guest_order_status_history", "guest_order_id", v.ID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

const guestOrderListSelect = `
	SELECT o.id, o.order_number, o.status,
		(SELECT COALESCE(sum(oi.quantity), 0) FROM guest_order_items oi WHERE oi.guest_order_id = o.id),
		o.total_cents, o.created_at
	FROM guest_orders o`

func (r *GuestOrderReadStore) FindAllFirstPage(ctx context.Context, filters queries.OrderFilters, limit int32) ([]*queries.OrderListItem, error) {
	where, args := orderStatusFilter(filters, nil)
	query := guestOrderListSelect + ` WHERE true` + where +
		fmt.Sprintf(` ORDER BY o.created_at DESC, o.id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)
	return r.queryList(ctx, query, args...)
}

func (r *GuestOrderReadStore) FindAllKeyset(ctx context.Context, filters queries.OrderFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	where, args := orderStatusFilter(filters, nil)
	query := guestOrderListSelect + ` WHERE true` + where +
		fmt.Sprintf(` AND (o.created_at, o.id) < ($%d, $%d) ORDER BY o.created_at DESC, o.id DESC LIMIT $%d`,
			len(args)+1, len(args)+2, len(args)+3)
	args = append(args, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	return r.queryList(ctx, query, args...)
}

func (r *GuestOrderReadStore) queryList(ctx context.Context, query string, args ...any) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list guest orders", err)
	}
	defer rows.Close()

	var items []*queries.OrderListItem
	for rows.Next() {
		var (
			item      queries.OrderListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.OrderNumber, &item.Status, &item.ItemsCount, &item.TotalCents, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan guest order list item", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate guest orders", err)
	}
	return items, nil
}
