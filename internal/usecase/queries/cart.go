package queries

import (
	"context"
	"time"

	"storefront/internal/infra"

	"github.com/google/uuid"
)

type CartItemView struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	Image          *string   `json:"image,omitempty"`
	Size           string    `json:"size,omitempty"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type AppliedCouponView struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code"`
	Percent int       `json:"percent"`
}

type CartSummaryView struct {
	ItemsCount    int   `json:"items_count"`
	SubtotalCents int64 `json:"subtotal_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

type CartView struct {
	ID        uuid.UUID          `json:"id"`
	Items     []*CartItemView    `json:"items"`
	Coupon    *AppliedCouponView `json:"coupon,omitempty"`
	Summary   CartSummaryView    `json:"summary"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type CartReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartQueries interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	repo CartReadStore
}

func NewCartQueries(repo CartReadStore) CartQueries {
	return &cartQueriesImpl{repo: repo}
}

// GetByUser returns an empty cart view for users who have not added anything yet.
func (q *cartQueriesImpl) GetByUser(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	view, err := q.repo.FindByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &CartView{Items: []*CartItemView{}}, nil
		}
		return nil, err
	}
	return view, nil
}
