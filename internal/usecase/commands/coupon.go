package commands

import (
	"context"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/patch"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound  = errs.New("coupon not found")
	ErrDuplicateCoupon = errs.New("coupon code already exists")
)

type CreateCouponRequest struct {
	Code              string
	DiscountPercent   int
	ExpiresAt         time.Time
	MinimumOrderCents int64
	UsageLimit        int
}

// UpdateCouponRequest patches mutable coupon fields. The code is fixed at
// creation so redeemed orders keep a stable reference.
type UpdateCouponRequest struct {
	DiscountPercent   *int
	ExpiresAt         *time.Time
	MinimumOrderCents *int64
	UsageLimit        *int
	IsActive          *bool
}

type CouponCommands interface {
	CreateCoupon(ctx context.Context, req CreateCouponRequest) (uuid.UUID, error)
	UpdateCoupon(ctx context.Context, couponID uuid.UUID, req UpdateCouponRequest) error
	DeleteCoupon(ctx context.Context, couponID uuid.UUID) error
}

type couponCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCouponCommands(uow shared.UnitOfWork, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{uow: uow, clock: clk}
}

func (uc *couponCommandsImpl) CreateCoupon(ctx context.Context, req CreateCouponRequest) (uuid.UUID, error) {
	c, err := coupon.NewCoupon(
		uuid.Nil, req.Code, req.DiscountPercent, req.ExpiresAt,
		req.MinimumOrderCents, req.UsageLimit, uc.clock.Now(),
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var couponID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, txErr := tx.Coupons().Create(ctx, tx.DB(), c)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindDuplicateKey) {
				return errs.Mark(txErr, ErrDuplicateCoupon)
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		couponID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return couponID, nil
}

func (uc *couponCommandsImpl) UpdateCoupon(ctx context.Context, couponID uuid.UUID, req UpdateCouponRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Coupons().FindByID(ctx, tx.DB(), couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCouponNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		percent := patch.Coalesce(req.DiscountPercent, current.DiscountPercent().Value())
		if _, verr := coupon.NewPercent(percent); verr != nil {
			return errs.Mark(verr, ErrDomainValidation)
		}

		expiresAt := current.ExpiresAt()
		if req.ExpiresAt != nil {
			if !req.ExpiresAt.After(uc.clock.Now()) {
				return errs.Mark(coupon.ErrExpiryNotInFuture, ErrDomainValidation)
			}
			expiresAt = *req.ExpiresAt
		}

		minimum := patch.Coalesce(req.MinimumOrderCents, current.MinimumOrderCents())
		if minimum < 0 {
			return errs.Mark(coupon.ErrNegativeMinimum, ErrDomainValidation)
		}

		usageLimit := patch.Coalesce(req.UsageLimit, current.UsageLimit())
		if usageLimit < 1 {
			return errs.Mark(coupon.ErrInvalidUsageLimit, ErrDomainValidation)
		}

		updated := coupon.Reconstruct(
			current.ID(), current.Code().String(), percent, expiresAt,
			minimum, usageLimit,
			patch.Coalesce(req.IsActive, current.IsActive()),
			current.CreatedAt(), current.UpdatedAt(),
		)

		if err := tx.Coupons().Update(ctx, tx.DB(), updated); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *couponCommandsImpl) DeleteCoupon(ctx context.Context, couponID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().Delete(ctx, tx.DB(), couponID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCouponNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
