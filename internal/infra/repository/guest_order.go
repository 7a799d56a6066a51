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

type GuestOrderRepository struct{}

func NewGuestOrderRepository() *GuestOrderRepository {
	return &GuestOrderRepository{}
}

// Guest orders draw from their own sequence so the two number spaces never
// collide.
func (r *GuestOrderRepository) NextOrderNumber(ctx context.Context, tx db.DBTX) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('guest_order_number_seq')`).Scan(&seq); err != nil {
		return "", infra.WrapRepoErr("failed to allocate guest order number", err)
	}
	return fmt.Sprintf("GST-%06d", seq), nil
}

func (r *GuestOrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.GuestOrder) (uuid.UUID, error) {
	query := `
		INSERT INTO guest_orders (id, order_number, guest_name, guest_email, guest_phone,
			ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, subtotal_cents, total_cents, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`

	addr := o.Address()
	pricing := o.Pricing()
	contact := o.Contact()

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		o.ID(), o.OrderNumber(), contact.Name, contact.Email, contact.Phone,
		addr.FullName, addr.Line1, addr.Line2, addr.City, addr.State, addr.PostalCode, addr.Country, addr.Phone,
		o.PaymentMethod().String(), pricing.SubtotalCents, pricing.TotalCents, o.Notes(), o.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create guest order", err)
	}

	if err := insertOrderItems(ctx, tx, "guest_order_items", "guest_order_id", id, o.Items()); err != nil {
		return uuid.Nil, err
	}
	for _, entry := range o.History() {
		if err := insertHistory(ctx, tx, "guest_order_status_history", "guest_order_id", id, entry); err != nil {
			return uuid.Nil, err
		}
	}
	return id, nil
}

func (r *GuestOrderRepository) FindByID(ctx context.Context, tx db.DBTX, guestOrderID uuid.UUID) (*order.GuestOrder, error) {
	query := `
		SELECT id, order_number, guest_name, guest_email, guest_phone,
			ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, subtotal_cents, total_cents, notes, status, carrier, tracking_number,
			cancelled_at, shipped_at, delivered_at, created_at, updated_at
		FROM guest_orders WHERE id = $1`

	var (
		id             uuid.UUID
		orderNumber    string
		contact        order.GuestContact
		addr           order.Address
		paymentMethod  string
		pricing        order.Pricing
		notes, status  string
		carrier        pgtype.Text
		trackingNumber pgtype.Text
		cancelledAt    pgtype.Timestamptz
		shippedAt      pgtype.Timestamptz
		deliveredAt    pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx, query, guestOrderID).Scan(
		&id, &orderNumber, &contact.Name, &contact.Email, &contact.Phone,
		&addr.FullName, &addr.Line1, &addr.Line2, &addr.City, &addr.State, &addr.PostalCode, &addr.Country, &addr.Phone,
		&paymentMethod, &pricing.SubtotalCents, &pricing.TotalCents, &notes, &status, &carrier, &trackingNumber,
		&cancelledAt, &shippedAt, &deliveredAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("guest order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find guest order", err)
	}

	items, err := loadOrderItems(ctx, tx, "guest_order_items", "guest_order_id", id)
	if err != nil {
		return nil, err
	}
	history, err := loadHistory(ctx, tx, "guest_order_status_history", "guest_order_id", id)
	if err != nil {
		return nil, err
	}

	st, err := order.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored guest order status", err)
	}

	base := order.ReconstructOrder(
		id, orderNumber, uuid.Nil, items, addr, order.PaymentMethod(paymentMethod), pricing,
		nil, notes, st, history,
		order.Tracking{
			Carrier:        pgconv.StringPtrFromPgtype(carrier),
			TrackingNumber: pgconv.StringPtrFromPgtype(trackingNumber),
		},
		pgconv.TimePtrFromPgtype(cancelledAt),
		pgconv.TimePtrFromPgtype(shippedAt),
		pgconv.TimePtrFromPgtype(deliveredAt),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	)
	return order.ReconstructGuestOrder(base, contact), nil
}

func (r *GuestOrderRepository) UpdateStatus(ctx context.Context, tx db.DBTX, o *order.GuestOrder, historyNote string) error {
	query := `
		UPDATE guest_orders
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
		return infra.WrapRepoErr("failed to update guest order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("guest order not found", nil, infra.KindNotFound)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO guest_order_status_history (guest_order_id, stage, note) VALUES ($1, $2, $3)`,
		o.ID(), o.Status().String(), historyNote,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append guest order history", err)
	}
	return nil
}

func (r *GuestOrderRepository) UpdateTracking(ctx context.Context, tx db.DBTX, o *order.GuestOrder) error {
	tracking := o.TrackingInfo()
	tag, err := tx.Exec(ctx,
		`UPDATE guest_orders SET carrier = $2, tracking_number = $3, updated_at = now() WHERE id = $1`,
		o.ID(), pgconv.StringPtrToPgtype(tracking.Carrier), pgconv.StringPtrToPgtype(tracking.TrackingNumber),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update guest order tracking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("guest order not found", nil, infra.KindNotFound)
	}
	return nil
}
