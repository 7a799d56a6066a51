package queries

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.New("coupon not found")

// CouponView is the admin-facing projection; TimesRedeemed is derived from
// the redemption ledger, never stored on the coupon row.
type CouponView struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	DiscountPercent   int       `json:"discount_percent"`
	ExpiresAt         time.Time `json:"expires_at"`
	MinimumOrderCents int64     `json:"minimum_order_cents"`
	UsageLimit        int       `json:"usage_limit"`
	TimesRedeemed     int       `json:"times_redeemed"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CouponReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	FindAll(ctx context.Context) ([]*CouponView, error)
}

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

func (s *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	view, err := s.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}

func (s *couponQueriesImpl) List(ctx context.Context) ([]*CouponView, error) {
	return s.readStore.FindAll(ctx)
}
