package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponInactive     = errors.New("coupon is inactive")
	ErrUsageLimitReached  = errors.New("coupon usage limit reached")
	ErrAlreadyRedeemed    = errors.New("coupon already redeemed by this user")
	ErrBelowMinimumAmount = errors.New("order amount below coupon minimum")
	ErrExpiryNotInFuture  = errors.New("coupon expiry must be in the future")
)

type Coupon struct {
	id                uuid.UUID
	code              Code
	discountPercent   Percent
	expiresAt         time.Time
	minimumOrderCents int64
	usageLimit        int
	isActive          bool
	createdAt         time.Time
	updatedAt         time.Time
}

// NewCoupon builds a coupon for creation; the expiry must still be open.
func NewCoupon(
	id uuid.UUID,
	code string,
	discountPercent int,
	expiresAt time.Time,
	minimumOrderCents int64,
	usageLimit int,
	now time.Time,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	percent, err := NewPercent(discountPercent)
	if err != nil {
		return nil, err
	}

	if !expiresAt.After(now) {
		return nil, ErrExpiryNotInFuture
	}
	if minimumOrderCents < 0 {
		return nil, ErrNegativeMinimum
	}
	if usageLimit < 1 {
		return nil, ErrInvalidUsageLimit
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Coupon{
		id:                id,
		code:              couponCode,
		discountPercent:   percent,
		expiresAt:         expiresAt,
		minimumOrderCents: minimumOrderCents,
		usageLimit:        usageLimit,
		isActive:          true,
	}, nil
}

// Reconstruct rebuilds a persisted coupon without the creation-time expiry
// check; expired coupons still load, they just fail validation.
func Reconstruct(
	id uuid.UUID,
	code string,
	discountPercent int,
	expiresAt time.Time,
	minimumOrderCents int64,
	usageLimit int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:                id,
		code:              Code(code),
		discountPercent:   Percent(discountPercent),
		expiresAt:         expiresAt,
		minimumOrderCents: minimumOrderCents,
		usageLimit:        usageLimit,
		isActive:          isActive,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// Usage captures the state of the redemption ledger for one user at
// validation time. Validation never mutates the ledger.
type Usage struct {
	RedemptionCount int
	RedeemedByUser  bool
}

// ValidateUsage checks every redemption precondition against t and the
// ledger snapshot. Checks are ordered so the most permanent failure wins.
func (c *Coupon) ValidateUsage(t time.Time, usage Usage, orderAmountCents int64) error {
	if !c.isActive {
		return ErrCouponInactive
	}
	if !c.expiresAt.After(t) {
		return ErrCouponExpired
	}
	if usage.RedemptionCount >= c.usageLimit {
		return ErrUsageLimitReached
	}
	if usage.RedeemedByUser {
		return ErrAlreadyRedeemed
	}
	if orderAmountCents < c.minimumOrderCents {
		return ErrBelowMinimumAmount
	}
	return nil
}

// DiscountCents computes the discount for an order amount. Zero when the
// amount is below the coupon minimum; otherwise the percentage rounded
// half-up in cents. Cart summary and order pricing both go through here so
// the two can never disagree.
func (c *Coupon) DiscountCents(orderAmountCents int64) int64 {
	if orderAmountCents < c.minimumOrderCents {
		return 0
	}
	return c.discountPercent.Of(orderAmountCents)
}

func (c *Coupon) ID() uuid.UUID            { return c.id }
func (c *Coupon) Code() Code               { return c.code }
func (c *Coupon) DiscountPercent() Percent { return c.discountPercent }
func (c *Coupon) ExpiresAt() time.Time     { return c.expiresAt }
func (c *Coupon) MinimumOrderCents() int64 { return c.minimumOrderCents }
func (c *Coupon) UsageLimit() int          { return c.usageLimit }
func (c *Coupon) IsActive() bool           { return c.isActive }
func (c *Coupon) CreatedAt() time.Time     { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time     { return c.updatedAt }
