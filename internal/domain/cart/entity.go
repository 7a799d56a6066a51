package cart

import (
	"errors"
	"time"

	"storefront/internal/domain/coupon"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrQuantityExceeded  = errors.New("line quantity limit exceeded")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotFound      = errors.New("cart item not found")
)

// Line is one (product, size) entry in a cart. The unit price is a snapshot
// of the product's effective price taken when the line was last touched.
type Line struct {
	id             uuid.UUID
	productID      uuid.UUID
	size           string
	quantity       int
	unitPriceCents int64
}

func NewLine(id, productID uuid.UUID, size string, quantity int, unitPriceCents int64) Line {
	return Line{id: id, productID: productID, size: size, quantity: quantity, unitPriceCents: unitPriceCents}
}

func (l Line) ID() uuid.UUID         { return l.id }
func (l Line) ProductID() uuid.UUID  { return l.productID }
func (l Line) Size() string          { return l.size }
func (l Line) Quantity() int         { return l.quantity }
func (l Line) UnitPriceCents() int64 { return l.unitPriceCents }
func (l Line) TotalCents() int64     { return l.unitPriceCents * int64(l.quantity) }

// Cart holds a user's open lines plus at most one applied coupon.
type Cart struct {
	id        uuid.UUID
	userID    uuid.UUID
	lines     []Line
	couponID  *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		id:     uuid.New(),
		userID: userID,
	}
}

func Reconstruct(id, userID uuid.UUID, lines []Line, couponID *uuid.UUID, createdAt, updatedAt time.Time) *Cart {
	return &Cart{
		id:        id,
		userID:    userID,
		lines:     lines,
		couponID:  couponID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// AddItem merges into an existing (product, size) line instead of appending
// a duplicate. The merged quantity is capped at maxPerLine and must not
// exceed the product's live stock. The line price is always overwritten with
// the current unit price: latest price wins.
func (c *Cart) AddItem(productID uuid.UUID, size string, quantity int, unitPriceCents int64, stock, maxPerLine int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for i, line := range c.lines {
		if line.productID == productID && line.size == size {
			merged := line.quantity + quantity
			if merged > maxPerLine {
				return ErrQuantityExceeded
			}
			if merged > stock {
				return ErrInsufficientStock
			}
			c.lines[i].quantity = merged
			c.lines[i].unitPriceCents = unitPriceCents
			return nil
		}
	}

	if quantity > maxPerLine {
		return ErrQuantityExceeded
	}
	if quantity > stock {
		return ErrInsufficientStock
	}

	c.lines = append(c.lines, Line{
		id:             uuid.New(),
		productID:      productID,
		size:           size,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
	})
	return nil
}

// UpdateItem changes quantity and/or size of a line. When a size change
// collides with another line for the same product, the two lines merge.
func (c *Cart) UpdateItem(itemID uuid.UUID, quantity *int, size *string, stock, maxPerLine int) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	newQty := c.lines[idx].quantity
	if quantity != nil {
		newQty = *quantity
	}
	if newQty < 1 {
		return ErrInvalidQuantity
	}

	newSize := c.lines[idx].size
	if size != nil {
		newSize = *size
	}

	// The quantity checks must run against the merged total before any line
	// is removed, so a rejected update leaves the cart untouched.
	mergeIdx := -1
	if newSize != c.lines[idx].size {
		for i, line := range c.lines {
			if i != idx && line.productID == c.lines[idx].productID && line.size == newSize {
				mergeIdx = i
				newQty += line.quantity
				break
			}
		}
	}

	if newQty > maxPerLine {
		return ErrQuantityExceeded
	}
	if newQty > stock {
		return ErrInsufficientStock
	}

	if mergeIdx >= 0 {
		c.removeAt(mergeIdx)
		if mergeIdx < idx {
			idx--
		}
	}
	c.lines[idx].quantity = newQty
	c.lines[idx].size = newSize
	return nil
}

func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.removeAt(idx)
	return nil
}

// Clear empties the lines and unsets the coupon.
func (c *Cart) Clear() {
	c.lines = nil
	c.couponID = nil
}

// ApplyCoupon stores the reference; validation happens in the usecase before
// this is called, and redemption only at checkout. Applying a new coupon
// replaces the old one.
func (c *Cart) ApplyCoupon(couponID uuid.UUID) {
	c.couponID = &couponID
}

func (c *Cart) RemoveCoupon() {
	c.couponID = nil
}

type Summary struct {
	ItemsCount    int
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// Summarize computes the cart totals, delegating the discount to the applied
// coupon (nil means no coupon). Total never goes below zero.
func (c *Cart) Summarize(cpn *coupon.Coupon) Summary {
	var s Summary
	for _, line := range c.lines {
		s.ItemsCount += line.quantity
		s.SubtotalCents += line.TotalCents()
	}
	if cpn != nil {
		s.DiscountCents = cpn.DiscountCents(s.SubtotalCents)
	}
	s.TotalCents = s.SubtotalCents - s.DiscountCents
	if s.TotalCents < 0 {
		s.TotalCents = 0
	}
	return s
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Line(itemID uuid.UUID) (Line, bool) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return Line{}, false
	}
	return c.lines[idx], true
}

func (c *Cart) indexOf(itemID uuid.UUID) int {
	for i, line := range c.lines {
		if line.id == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) ID() uuid.UUID        { return c.id }
func (c *Cart) UserID() uuid.UUID    { return c.userID }
func (c *Cart) Lines() []Line        { return c.lines }
func (c *Cart) CouponID() *uuid.UUID { return c.couponID }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }
