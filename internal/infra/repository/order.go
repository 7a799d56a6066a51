package repository

import (
	"context"
	"fmt"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) NextOrderNumber(ctx context.Context, tx db.DBTX) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return "", infra.WrapRepoErr("failed to allocate order number", err)
	}
	return fmt.Sprintf("ORD-%06d", seq), nil
}

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error) {
	query := `
		INSERT INTO orders (id, order_number, user_id,
			ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, subtotal_cents, discount_cents, total_cents,
			coupon_id, coupon_code, coupon_percent, coupon_discount_cents,
			notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id`

	addr := o.Address()
	pricing := o.Pricing()

	var couponID pgtype.UUID
	var couponCode pgtype.Text
	var couponPercent pgtype.Int4
	var couponDiscount pgtype.Int8
	if snap := o.Coupon(); snap != nil {
		couponID = pgtype.UUID{Bytes: snap.CouponID, Valid: true}
		couponCode = pgtype.Text{String: snap.Code, Valid: true}
		couponPercent = pgtype.Int4{Int32: int32(snap.Percent), Valid: true}
		couponDiscount = pgtype.Int8{Int64: snap.DiscountCents, Valid: true}
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		o.ID(), o.OrderNumber(), o.UserID(),
		addr.FullName, addr.Line1, addr.Line2, addr.City, addr.State, addr.PostalCode, addr.Country, addr.Phone,
		o.PaymentMethod().String(), pricing.SubtotalCents, pricing.DiscountCents, pricing.TotalCents,
		couponID, couponCode, couponPercent, couponDiscount,
		o.Notes(), o.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	if err := insertOrderItems(ctx, tx, "order_items", "order_id", id, o.Items()); err != nil {
		return uuid.Nil, err
	}
	for _, entry := range o.History() {
		if err := insertHistory(ctx, tx, "order_status_history", "order_id", id, entry); err != nil {
			return uuid.Nil, err
		}
	}
	return id, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, tx db.DBTX, orderID uuid.UUID) (*order.Order, error) {
	query := `
		SELECT id, order_number, user_id,
			ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, subtotal_cents, discount_cents, total_cents,
			coupon_id, coupon_code, coupon_percent, coupon_discount_cents,
			notes, status, carrier, tracking_number,
			cancelled_at, shipped_at, delivered_at, created_at, updated_at
		FROM orders WHERE id = $1`

	var (
		id, userID     uuid.UUID
		orderNumber    string
		addr           order.Address
		paymentMethod  string
		pricing        order.Pricing
		couponID       pgtype.UUID
		couponCode     pgtype.Text
		couponPercent  pgtype.Int4
		couponDiscount pgtype.Int8
		notes, status  string
		carrier        pgtype.Text
		trackingNumber pgtype.Text
		cancelledAt    pgtype.Timestamptz
		shippedAt      pgtype.Timestamptz
		deliveredAt    pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx, query, orderID).Scan(
		&id, &orderNumber, &userID,
		&addr.FullName, &addr.Line1, &addr.Line2, &addr.City, &addr.State, &addr.PostalCode, &addr.Country, &addr.Phone,
		&paymentMethod, &pricing.SubtotalCents, &pricing.DiscountCents, &pricing.TotalCents,
		&couponID, &couponCode, &couponPercent, &couponDiscount,
		&notes, &status, &carrier, &trackingNumber,
		&cancelledAt, &shippedAt, &deliveredAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := loadOrderItems(ctx, tx, "order_items", "order_id", id)
	if err != nil {
		return nil, err
	}
	history, err := loadHistory(ctx, tx, "order_status_history", "order_id", id)
	if err != nil {
		return nil, err
	}

	var couponSnap *order.CouponSnapshot
	if couponID.Valid {
		couponSnap = &order.CouponSnapshot{
			CouponID:      uuid.UUID(couponID.Bytes),
			Code:          couponCode.String,
			Percent:       int(couponPercent.Int32),
			DiscountCents: couponDiscount.Int64,
		}
	}

	st, err := order.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored order status", err)
	}

	return order.ReconstructOrder(
		id, orderNumber, userID, items, addr, order.PaymentMethod(paymentMethod), pricing,
		couponSnap, notes, st, history,
		order.Tracking{
			Carrier:        pgconv.StringPtrFromPgtype(carrier),
			TrackingNumber: pgconv.StringPtrFromPgtype(trackingNumber),
		},
		pgconv.TimePtrFromPgtype(cancelledAt),
		pgconv.TimePtrFromPgtype(shippedAt),
		pgconv.TimePtrFromPgtype(deliveredAt),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

// UpdateStatus persists the order's current status, tracking and lifecycle
// stamps, and appends one history row for the transition that produced them.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx db.DBTX, o *order.Order, historyNote string) error {
	query := `
		UPDATE orders
		SET status = $2, carrier = $3, tracking_number = $4,
			cancelled_at = $5, shipped_at = $6, delivered_at = $7, updated_at = now()
		WHERE id = $1`

	tracking := o.TrackingInfo()
	tag, err := tx.Exec(ctx, query,
		o.ID(), o.Status().String(),
		pgconv.StringPtrToPgtype(tracking.Carrier), pgconv.StringPtrToPgtype(tracking.TrackingNumber),
		pgconv.TimePtrToPgtype(o.CancelledAt()), pgconv.TimePtrToPgtype(o.ShippedAt()), pgconv.TimePtrToPgtype(o.DeliveredAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO order_status_history (order_id, stage, note) VALUES ($1, $2, $3)`,
		o.ID(), o.Status().String(), historyNote,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append order history", err)
	}
	return nil
}

// UpdateTracking writes the carrier fields only. A tracking edit is not a
// status transition, so it leaves the history untouched.
func (r *OrderRepository) UpdateTracking(ctx context.Context, tx db.DBTX, o *order.Order) error {
	tracking := o.TrackingInfo()
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET carrier = $2, tracking_number = $3, updated_at = now() WHERE id = $1`,
		o.ID(), pgconv.StringPtrToPgtype(tracking.Carrier), pgconv.StringPtrToPgtype(tracking.TrackingNumber),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order tracking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func insertOrderItems(ctx context.Context, tx db.DBTX, table, fk string, orderID uuid.UUID, items []order.Item) error {
	for _, item := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO `+table+` (`+fk+`, product_id, title, size, quantity, unit_price_cents, line_total_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orderID, item.ProductID, item.Title, item.Size, item.Quantity, item.UnitPriceCents, item.LineTotalCents,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert order item", err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, tx db.DBTX, table, fk string, orderID uuid.UUID, entry order.HistoryEntry) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO `+table+` (`+fk+`, stage, note, created_at) VALUES ($1, $2, $3, $4)`,
		orderID, entry.Stage.String(), entry.Note, entry.At,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert order history", err)
	}
	return nil
}

func loadOrderItems(ctx context.Context, tx db.DBTX, table, fk string, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := tx.Query(ctx,
		`SELECT product_id, title, size, quantity, unit_price_cents, line_total_cents
		 FROM `+table+` WHERE `+fk+` = $1`, orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var item order.Item
		var quantity int32
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Size, &quantity, &item.UnitPriceCents, &item.LineTotalCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		item.Quantity = int(quantity)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func loadHistory(ctx context.Context, tx db.DBTX, table, fk string, orderID uuid.UUID) ([]order.HistoryEntry, error) {
	rows, err := tx.Query(ctx,
		`SELECT stage, note, created_at FROM `+table+` WHERE `+fk+` = $1 ORDER BY created_at`, orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order history", err)
	}
	defer rows.Close()

	var history []order.HistoryEntry
	for rows.Next() {
		var stage, note string
		var at pgtype.Timestamptz
		if err := rows.Scan(&stage, &note, &at); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order history", err)
		}
		history = append(history, order.HistoryEntry{
			Stage: order.Status(stage),
			Note:  note,
			At:    pgconv.TimeFromPgtype(at),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order history", err)
	}
	return history, nil
}
