package commands

import (
	"context"
	"errors"

	"storefront/internal/domain/cart"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound  = errs.New("cart item not found")
	ErrCartEmpty         = errs.New("cart is empty")
	ErrInvalidSize       = errs.New("size not available for this product")
	ErrInsufficientStock = errs.New("insufficient stock")
	ErrCouponNotUsable   = errs.New("coupon cannot be used")
)

type AddCartItemRequest struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

type UpdateCartItemRequest struct {
	Quantity *int
	Size     *string
}

type CartCommands interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) error
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateCartItemRequest) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) error
	RemoveCoupon(ctx context.Context, userID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow        shared.UnitOfWork
	clock      clock.Clock
	maxPerLine int
}

func NewCartCommands(uow shared.UnitOfWork, clk clock.Clock, maxQuantityPerLine int) CartCommands {
	return &cartCommandsImpl{uow: uow, clock: clk, maxPerLine: maxQuantityPerLine}
}

func (uc *cartCommandsImpl) AddItem(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := uc.loadOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		product, err := tx.Products().FindByID(ctx, tx.DB(), req.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrProductNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !product.HasSize(req.Size) {
			return ErrInvalidSize
		}

		unitPrice := product.EffectivePriceCents(uc.clock.Now())
		if err := c.AddItem(req.ProductID, req.Size, req.Quantity, unitPrice, product.Stock(), uc.maxPerLine); err != nil {
			return markCartErr(err)
		}

		if err := tx.Carts().Save(ctx, tx.DB(), c); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *cartCommandsImpl) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateCartItemRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := uc.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		line, ok := c.Line(itemID)
		if !ok {
			return ErrCartItemNotFound
		}

		product, err := tx.Products().FindByID(ctx, tx.DB(), line.ProductID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrProductNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if req.Size != nil && !product.HasSize(*req.Size) {
			return ErrInvalidSize
		}

		if err := c.UpdateItem(itemID, req.Quantity, req.Size, product.Stock(), uc.maxPerLine); err != nil {
			return markCartErr(err)
		}

		if err := tx.Carts().Save(ctx, tx.DB(), c); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *cartCommandsImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := uc.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := c.RemoveItem(itemID); err != nil {
			return markCartErr(err)
		}
		if err := tx.Carts().Save(ctx, tx.DB(), c); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *cartCommandsImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Carts().FindByUserID(ctx, tx.DB(), userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Carts().Clear(ctx, tx.DB(), c.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *cartCommandsImpl) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := uc.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return ErrCartEmpty
		}

		cpn, err := tx.Coupons().FindByCode(ctx, tx.DB(), code)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCouponNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		usage, err := tx.Coupons().Usage(ctx, tx.DB(), cpn.ID(), userID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		subtotal := c.Summarize(nil).SubtotalCents
		if verr := cpn.ValidateUsage(uc.clock.Now(), usage, subtotal); verr != nil {
			return errs.Mark(verr, ErrCouponNotUsable)
		}

		c.ApplyCoupon(cpn.ID())
		if err := tx.Carts().Save(ctx, tx.DB(), c); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *cartCommandsImpl) RemoveCoupon(ctx context.Context, userID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := uc.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		c.RemoveCoupon()
		if err := tx.Carts().Save(ctx, tx.DB(), c); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// loadOrCreateCart gives the add path a fresh cart on first use.
func (uc *cartCommandsImpl) loadOrCreateCart(ctx context.Context, tx shared.Tx, userID uuid.UUID) (*cart.Cart, error) {
	c, err := tx.Carts().FindByUserID(ctx, tx.DB(), userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return cart.NewCart(userID), nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return c, nil
}

// loadCart fails when the user has no cart yet; mutation of a missing item
// reads the same as mutation of a missing cart.
func (uc *cartCommandsImpl) loadCart(ctx context.Context, tx shared.Tx, userID uuid.UUID) (*cart.Cart, error) {
	c, err := tx.Carts().FindByUserID(ctx, tx.DB(), userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return c, nil
}

func markCartErr(err error) error {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		return errs.Mark(err, ErrCartItemNotFound)
	case errors.Is(err, cart.ErrInsufficientStock):
		return errs.Mark(err, ErrInsufficientStock)
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrQuantityExceeded):
		return errs.Mark(err, ErrDomainValidation)
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}
