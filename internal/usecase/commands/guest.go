package commands

import (
	"context"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

type GuestContactInput struct {
	Name  string
	Email string
	Phone string
}

type GuestLineInput struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

type GuestCheckoutRequest struct {
	Contact       GuestContactInput
	Items         []GuestLineInput
	Address       ShippingAddressInput
	PaymentMethod string
	Notes         string
}

type GuestCommands interface {
	GuestCheckout(ctx context.Context, req GuestCheckoutRequest) (*CheckoutResult, error)
	UpdateGuestOrderStatus(ctx context.Context, guestOrderID uuid.UUID, req UpdateOrderStatusRequest) error
	UpdateGuestTracking(ctx context.Context, guestOrderID uuid.UUID, req UpdateTrackingRequest) error
}

type guestCommandsImpl struct {
	uow     shared.UnitOfWork
	factory *order.Factory
	clock   clock.Clock
}

func NewGuestCommands(uow shared.UnitOfWork, factory *order.Factory, clk clock.Clock) GuestCommands {
	return &guestCommandsImpl{uow: uow, factory: factory, clock: clk}
}

// GuestCheckout places an order without an account. Prices come from the
// live catalog and the same conditional stock decrement guards concurrency;
// coupons are not accepted because the redemption ledger is keyed by user.
func (uc *guestCommandsImpl) GuestCheckout(ctx context.Context, req GuestCheckoutRequest) (*CheckoutResult, error) {
	paymentMethod, err := order.NewPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	contact := order.GuestContact{
		Name:  req.Contact.Name,
		Email: req.Contact.Email,
		Phone: req.Contact.Phone,
	}

	var result CheckoutResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		productIDs := make([]uuid.UUID, 0, len(req.Items))
		lines := make([]order.GuestLine, 0, len(req.Items))
		for _, item := range req.Items {
			productIDs = append(productIDs, item.ProductID)
			lines = append(lines, order.GuestLine{
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
			})
		}

		products, txErr := tx.Products().FindByIDs(ctx, tx.DB(), productIDs)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		for _, line := range lines {
			if p, ok := products[line.ProductID]; ok && !p.HasSize(line.Size) {
				return ErrInvalidSize
			}
		}

		orderNumber, txErr := tx.GuestOrders().NextOrderNumber(ctx, tx.DB())
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		g, txErr := uc.factory.CreateGuestOrder(orderNumber, contact, lines, products, req.Address.toAddress(), paymentMethod, req.Notes)
		if txErr != nil {
			return markOrderFactoryErr(txErr)
		}

		for _, item := range g.Items() {
			if derr := tx.Products().DecrementStock(ctx, tx.DB(), item.ProductID, item.Quantity); derr != nil {
				if infra.IsKind(derr, infra.KindConflict) {
					return errs.Mark(derr, ErrInsufficientStock)
				}
				return errs.Mark(derr, ErrDatabaseOperationFailed)
			}
		}

		orderID, txErr := tx.GuestOrders().Create(ctx, tx.DB(), g)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		result = CheckoutResult{OrderID: orderID, OrderNumber: orderNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (uc *guestCommandsImpl) UpdateGuestOrderStatus(ctx context.Context, guestOrderID uuid.UUID, req UpdateOrderStatusRequest) error {
	next, err := order.NewStatus(req.Status)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		g, txErr := tx.GuestOrders().FindByID(ctx, tx.DB(), guestOrderID)
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
		if terr := g.TransitionTo(next, note, uc.clock.Now()); terr != nil {
			return errs.Mark(terr, ErrInvalidOrderTransition)
		}

		// cancelling a guest order returns its stock, same as a user order
		if next == order.StatusCancelled {
			for _, item := range g.Items() {
				if rerr := tx.Products().RestoreStock(ctx, tx.DB(), item.ProductID, item.Quantity); rerr != nil {
					return errs.Mark(rerr, ErrDatabaseOperationFailed)
				}
			}
		}

		if uerr := tx.GuestOrders().UpdateStatus(ctx, tx.DB(), g, note); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *guestCommandsImpl) UpdateGuestTracking(ctx context.Context, guestOrderID uuid.UUID, req UpdateTrackingRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		g, err := tx.GuestOrders().FindByID(ctx, tx.DB(), guestOrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		g.SetTracking(req.Carrier, req.TrackingNumber)
		if uerr := tx.GuestOrders().UpdateTracking(ctx, tx.DB(), g); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
