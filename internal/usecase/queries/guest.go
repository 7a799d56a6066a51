package queries

import (
	"context"
	"strings"
	"time"

	"storefront/internal/infra"

	"github.com/google/uuid"
)

type GuestOrderView struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	GuestName         string              `json:"guest_name"`
	GuestEmail        string              `json:"guest_email"`
	Status            string              `json:"status"`
	Items             []*OrderItemView    `json:"items"`
	SubtotalCents     int64               `json:"subtotal_cents"`
	TotalCents        int64               `json:"total_cents"`
	PaymentMethod     string              `json:"payment_method"`
	ShippingAddress   AddressView         `json:"shipping_address"`
	Tracking          *TrackingView       `json:"tracking,omitempty"`
	History           []*OrderHistoryView `json:"history"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

type GuestOrderReadStore interface {
	FindByNumber(ctx context.Context, orderNumber string) (*GuestOrderView, error)
	FindAllFirstPage(ctx context.Context, filters OrderFilters, limit int32) ([]*OrderListItem, error)
	FindAllKeyset(ctx context.Context, filters OrderFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type GuestOrderQueries interface {
	// Track looks up a guest order by number, requiring the purchaser's email
	// to match since there is no account to authorize against.
	Track(ctx context.Context, orderNumber, email string) (*GuestOrderView, error)
	ListAll(ctx context.Context, filters OrderFilters, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
}

type guestOrderQueriesImpl struct {
	repo GuestOrderReadStore
}

func NewGuestOrderQueries(repo GuestOrderReadStore) GuestOrderQueries {
	return &guestOrderQueriesImpl{repo: repo}
}

func (q *guestOrderQueriesImpl) Track(ctx context.Context, orderNumber, email string) (*GuestOrderView, error) {
	view, err := q.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(view.GuestEmail, email) {
		return nil, ErrOrderNotFound
	}
	return view, nil
}

func (q *guestOrderQueriesImpl) ListAll(ctx context.Context, filters OrderFilters, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
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
