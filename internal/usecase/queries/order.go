package queries

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrOrderAccess   = errs.New("order access denied")
)

type OrderItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	Size           string    `json:"size,omitempty"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type OrderHistoryView struct {
	Stage     string    `json:"stage"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TrackingView struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

type OrderCouponView struct {
	Code          string `json:"code"`
	Percent       int    `json:"percent"`
	DiscountCents int64  `json:"discount_cents"`
}

type OrderView struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	UserID            uuid.UUID           `json:"user_id"`
	Status            string              `json:"status"`
	Items             []*OrderItemView    `json:"items"`
	SubtotalCents     int64               `json:"subtotal_cents"`
	DiscountCents     int64               `json:"discount_cents"`
	TotalCents        int64               `json:"total_cents"`
	Coupon            *OrderCouponView    `json:"coupon,omitempty"`
	PaymentMethod     string              `json:"payment_method"`
	ShippingAddress   AddressView         `json:"shipping_address"`
	Notes             string              `json:"notes,omitempty"`
	Tracking          *TrackingView       `json:"tracking,omitempty"`
	History           []*OrderHistoryView `json:"history"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	ShippedAt         *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type AddressView struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type OrderListItem struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	ItemsCount  int32     `json:"items_count"`
	TotalCents  int64     `json:"total_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderFilters struct {
	Status *string
}

// OrderTrackView is the public tracking projection: it exposes progress
// without the buyer's address or pricing.
type OrderTrackView struct {
	OrderNumber       string              `json:"order_number"`
	Status            string              `json:"status"`
	Tracking          *TrackingView       `json:"tracking,omitempty"`
	History           []*OrderHistoryView `json:"history"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	ShippedAt         *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByNumber(ctx context.Context, orderNumber string) (*OrderView, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*OrderListItem, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*OrderListItem, error)
	FindAllFirstPage(ctx context.Context, filters OrderFilters, limit int32) ([]*OrderListItem, error)
	FindAllKeyset(ctx context.Context, filters OrderFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*OrderView, error)
	// Track is public: anyone holding the order number sees shipping progress,
	// never the address or amounts.
	Track(ctx context.Context, orderNumber string) (*OrderTrackView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	ListAll(ctx context.Context, filters OrderFilters, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
}

type orderQueriesImpl struct {
	repo   OrderReadStore
	guests GuestOrderReadStore
}

func NewOrderQueries(repo OrderReadStore, guests GuestOrderReadStore) OrderQueries {
	return &orderQueriesImpl{repo: repo, guests: guests}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	switch actorRole {
	case RoleAdmin, RoleStaff:
	default:
		if view.UserID != actorID {
			return nil, ErrOrderAccess
		}
	}
	return view, nil
}

func (q *orderQueriesImpl) Track(ctx context.Context, orderNumber string) (*OrderTrackView, error) {
	view, err := q.repo.FindByNumber(ctx, orderNumber)
	if err == nil {
		return &OrderTrackView{
			OrderNumber:       view.OrderNumber,
			Status:            view.Status,
			Tracking:          view.Tracking,
			History:           view.History,
			EstimatedDelivery: view.EstimatedDelivery,
			ShippedAt:         view.ShippedAt,
			DeliveredAt:       view.DeliveredAt,
		}, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	// Guest orders share the tracking endpoint; their number sequence is
	// disjoint, so a fallback lookup is unambiguous.
	gview, gerr := q.guests.FindByNumber(ctx, orderNumber)
	if gerr != nil {
		if infra.IsKind(gerr, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, gerr
	}
	return &OrderTrackView{
		OrderNumber:       gview.OrderNumber,
		Status:            gview.Status,
		Tracking:          gview.Tracking,
		History:           gview.History,
		EstimatedDelivery: gview.EstimatedDelivery,
	}, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*OrderListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByUserFirstPage(ctx, userID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindByUserKeyset(ctx, userID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateOrders(rows, limit)
}

func (q *orderQueriesImpl) ListAll(ctx context.Context, filters OrderFilters, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*OrderListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindAllFirstPage(ctx, filters, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindAllKeyset(ctx, filters, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateOrders(rows, limit)
}

func paginateOrders(rows []*OrderListItem, limit int) ([]*OrderListItem, *Cursor, error) {
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
