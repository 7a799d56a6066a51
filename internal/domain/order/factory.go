package order

import (
	"errors"
	"fmt"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/coupon"
	"storefront/internal/pkg/clock"

	"github.com/google/uuid"
)

var ErrProductUnavailable = errors.New("product unavailable")

// StockError names the product that could not satisfy the requested
// quantity, so the caller can report which line failed.
type StockError struct {
	ProductID uuid.UUID
	Title     string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Title, e.Requested, e.Available)
}

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clk clock.Clock) *Factory {
	return &Factory{Clock: clk}
}

// CreateFromCart snapshots each cart line into an immutable order item and
// prices the order exactly like the cart summary. Stock is re-checked here
// against live products; the persistent conditional decrement in the
// repository is the authoritative guard under concurrency, this check just
// fails fast before any write.
func (f *Factory) CreateFromCart(
	orderNumber string,
	c *cart.Cart,
	products map[uuid.UUID]*catalog.Product,
	cpn *coupon.Coupon,
	address Address,
	paymentMethod PaymentMethod,
	notes string,
) (*Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyOrder
	}

	items := make([]Item, 0, len(c.Lines()))
	for _, line := range c.Lines() {
		product, ok := products[line.ProductID()]
		if !ok {
			return nil, ErrProductUnavailable
		}
		if product.Stock() < line.Quantity() {
			return nil, &StockError{
				ProductID: product.ID(),
				Title:     product.Title(),
				Requested: line.Quantity(),
				Available: product.Stock(),
			}
		}
		items = append(items, Item{
			ProductID:      line.ProductID(),
			Title:          product.Title(),
			Size:           line.Size(),
			Quantity:       line.Quantity(),
			UnitPriceCents: line.UnitPriceCents(),
			LineTotalCents: line.TotalCents(),
		})
	}

	summary := c.Summarize(cpn)
	pricing := Pricing{
		SubtotalCents: summary.SubtotalCents,
		DiscountCents: summary.DiscountCents,
		TotalCents:    summary.TotalCents,
	}

	var couponSnap *CouponSnapshot
	if cpn != nil {
		couponSnap = &CouponSnapshot{
			CouponID:      cpn.ID(),
			Code:          cpn.Code().String(),
			Percent:       cpn.DiscountPercent().Value(),
			DiscountCents: summary.DiscountCents,
		}
	}

	return newOrder(orderNumber, c.UserID(), items, address, paymentMethod, pricing, couponSnap, notes, f.Clock.Now())
}

// GuestLine is a requested line in a guest checkout; prices come from the
// live catalog, never from the client.
type GuestLine struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

// CreateGuestOrder builds an order for an anonymous buyer. Guest checkouts
// carry no coupon: the redemption ledger is keyed by user.
func (f *Factory) CreateGuestOrder(
	orderNumber string,
	contact GuestContact,
	lines []GuestLine,
	products map[uuid.UUID]*catalog.Product,
	address Address,
	paymentMethod PaymentMethod,
	notes string,
) (*GuestOrder, error) {
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	now := f.Clock.Now()
	items := make([]Item, 0, len(lines))
	var subtotal int64
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, cart.ErrInvalidQuantity
		}
		product, ok := products[line.ProductID]
		if !ok {
			return nil, ErrProductUnavailable
		}
		if product.Stock() < line.Quantity {
			return nil, &StockError{
				ProductID: product.ID(),
				Title:     product.Title(),
				Requested: line.Quantity,
				Available: product.Stock(),
			}
		}
		unitPrice := product.EffectivePriceCents(now)
		items = append(items, Item{
			ProductID:      line.ProductID,
			Title:          product.Title(),
			Size:           line.Size,
			Quantity:       line.Quantity,
			UnitPriceCents: unitPrice,
			LineTotalCents: unitPrice * int64(line.Quantity),
		})
		subtotal += unitPrice * int64(line.Quantity)
	}

	pricing := Pricing{SubtotalCents: subtotal, TotalCents: subtotal}
	o, err := newOrder(orderNumber, uuid.Nil, items, address, paymentMethod, pricing, nil, notes, now)
	if err != nil {
		return nil, err
	}
	return &GuestOrder{Order: *o, contact: contact}, nil
}
