package commands

import (
	"context"
	"errors"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound          = errs.New("order not found")
	ErrOrderAccessDenied      = errs.New("order belongs to another user")
	ErrOrderNotCancellable    = errs.New("order can no longer be cancelled")
	ErrInvalidOrderTransition = errs.New("invalid order status transition")
)

// ShippingAddressInput mirrors order.Address; the handler binds it from the
// request body and the command validates it through the domain.
type ShippingAddressInput struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

func (a ShippingAddressInput) toAddress() order.Address {
	return order.Address{
		FullName:   a.FullName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type CheckoutRequest struct {
	Address       ShippingAddressInput
	PaymentMethod string
	Notes         string
}

type UpdateOrderStatusRequest struct {
	Status string
	Note   string
}

type UpdateTrackingRequest struct {
	Carrier        *string
	TrackingNumber *string
}

type CheckoutResult struct {
	OrderID     uuid.UUID
	OrderNumber string
}

type OrderCommands interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) error
	UpdateTracking(ctx context.Context, orderID uuid.UUID, req UpdateTrackingRequest) error
}

type orderCommandsImpl struct {
	uow     shared.UnitOfWork
	factory *order.Factory
	clock   clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, factory *order.Factory, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{uow: uow, factory: factory, clock: clk}
}

// Checkout converts the user's cart into an order inside one transaction.
// Stock is decremented conditionally per item and the coupon redemption is a
// guarded ledger insert, so two concurrent checkouts can never oversell or
// overspend the coupon; the loser fails and the transaction rolls back.
func (uc *orderCommandsImpl) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	paymentMethod, err := order.NewPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var result CheckoutResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, txErr := tx.Carts().FindByUserID(ctx, tx.DB(), userID)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrCartEmpty
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		if c.IsEmpty() {
			return ErrCartEmpty
		}

		productIDs := make([]uuid.UUID, 0, len(c.Lines()))
		for _, line := range c.Lines() {
			productIDs = append(productIDs, line.ProductID())
		}
		products, txErr := tx.Products().FindByIDs(ctx, tx.DB(), productIDs)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		var cpn *coupon.Coupon
		if couponID := c.CouponID(); couponID != nil {
			cpn, txErr = tx.Coupons().FindByID(ctx, tx.DB(), *couponID)
			if txErr != nil {
				if infra.IsKind(txErr, infra.KindNotFound) {
					return errs.Mark(txErr, ErrCouponNotUsable)
				}
				return errs.Mark(txErr, ErrDatabaseOperationFailed)
			}
			usage, uerr := tx.Coupons().Usage(ctx, tx.DB(), cpn.ID(), userID)
			if uerr != nil {
				return errs.Mark(uerr, ErrDatabaseOperationFailed)
			}
			subtotal := c.Summarize(nil).SubtotalCents
			if verr := cpn.ValidateUsage(uc.clock.Now(), usage, subtotal); verr != nil {
				return errs.Mark(verr, ErrCouponNotUsable)
			}
		}

		orderNumber, txErr := tx.Orders().NextOrderNumber(ctx, tx.DB())
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		o, txErr := uc.factory.CreateFromCart(orderNumber, c, products, cpn, req.Address.toAddress(), paymentMethod, req.Notes)
		if txErr != nil {
			return markOrderFactoryErr(txErr)
		}

		for _, item := range o.Items() {
			if derr := tx.Products().DecrementStock(ctx, tx.DB(), item.ProductID, item.Quantity); derr != nil {
				if infra.IsKind(derr, infra.KindConflict) {
					return errs.Mark(derr, ErrInsufficientStock)
				}
				return errs.Mark(derr, ErrDatabaseOperationFailed)
			}
		}

		orderID, txErr := tx.Orders().Create(ctx, tx.DB(), o)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		if cpn != nil {
			if rerr := tx.Coupons().Redeem(ctx, tx.DB(), cpn.ID(), userID, orderID, cpn.UsageLimit()); rerr != nil {
				if infra.IsKind(rerr, infra.KindConflict) || infra.IsKind(rerr, infra.KindDuplicateKey) {
					return errs.Mark(rerr, ErrCouponNotUsable)
				}
				return errs.Mark(rerr, ErrDatabaseOperationFailed)
			}
		}

		if cerr := tx.Carts().Clear(ctx, tx.DB(), c.ID()); cerr != nil {
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}

		result = CheckoutResult{OrderID: orderID, OrderNumber: orderNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelOrder reverses a cancellable order: status flips to cancelled, each
// item's stock is restored, and the coupon redemption row is deleted so the
// user may redeem the code again.
func (uc *orderCommandsImpl) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := tx.Orders().FindByID(ctx, tx.DB(), orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if o.UserID() != userID {
			return ErrOrderAccessDenied
		}

		if err := o.Cancel(uc.clock.Now()); err != nil {
			return errs.Mark(err, ErrOrderNotCancellable)
		}

		for _, item := range o.Items() {
			if rerr := tx.Products().RestoreStock(ctx, tx.DB(), item.ProductID, item.Quantity); rerr != nil {
				return errs.Mark(rerr, ErrDatabaseOperationFailed)
			}
		}

		if snap := o.Coupon(); snap != nil {
			if uerr := tx.Coupons().Unredeem(ctx, tx.DB(), snap.CouponID, userID); uerr != nil {
				return errs.Mark(uerr, ErrDatabaseOperationFailed)
			}
		}

		if uerr := tx.Orders().UpdateStatus(ctx, tx.DB(), o, "cancelled by customer"); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *orderCommandsImpl) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) error {
	next, err := order.NewStatus(req.Status)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, txErr := tx.Orders().FindByID(ctx, tx.DB(), orderID)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return errs.Mark(txErr, ErrOrderNotFound)
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		note := req.Note
		if note == "" {
			note = "status updated"
		}
		if terr := o.TransitionTo(next, note, uc.clock.Now()); terr != nil {
			return errs.Mark(terr, ErrInvalidOrderTransition)
		}

		if uerr := tx.Orders().UpdateStatus(ctx, tx.DB(), o, note); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *orderCommandsImpl) UpdateTracking(ctx context.Context, orderID uuid.UUID, req UpdateTrackingRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := tx.Orders().FindByID(ctx, tx.DB(), orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		o.SetTracking(req.Carrier, req.TrackingNumber)
		if uerr := tx.Orders().UpdateTracking(ctx, tx.DB(), o); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func markOrderFactoryErr(err error) error {
	var stockErr *order.StockError
	switch {
	case errors.As(err, &stockErr):
		return errs.Mark(err, ErrInsufficientStock)
	case errors.Is(err, order.ErrEmptyOrder):
		return errs.Mark(err, ErrCartEmpty)
	case errors.Is(err, order.ErrProductUnavailable):
		return errs.Mark(err, ErrProductNotFound)
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}
