package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrNotCancellable          = errors.New("order can no longer be cancelled")
	ErrEmptyOrder              = errors.New("order must contain at least one item")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrIncompleteAddress       = errors.New("shipping address is incomplete")
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func NewPaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	switch m {
	case PaymentCashOnDelivery, PaymentCard, PaymentBankTransfer:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

func (m PaymentMethod) String() string { return string(m) }

type Address struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

func (a Address) Validate() error {
	if strings.TrimSpace(a.FullName) == "" ||
		strings.TrimSpace(a.Line1) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.PostalCode) == "" ||
		strings.TrimSpace(a.Country) == "" {
		return ErrIncompleteAddress
	}
	return nil
}

// Item is an immutable snapshot of a product line taken at order time.
// It copies title and price so later catalog edits cannot rewrite history.
type Item struct {
	ProductID      uuid.UUID
	Title          string
	Size           string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
}

type Pricing struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// CouponSnapshot freezes the coupon terms that were applied at checkout.
type CouponSnapshot struct {
	CouponID      uuid.UUID
	Code          string
	Percent       int
	DiscountCents int64
}

type HistoryEntry struct {
	Stage Status
	Note  string
	At    time.Time
}

type Tracking struct {
	Carrier        *string
	TrackingNumber *string
}

type Order struct {
	id            uuid.UUID
	orderNumber   string
	userID        uuid.UUID
	items         []Item
	address       Address
	paymentMethod PaymentMethod
	pricing       Pricing
	coupon        *CouponSnapshot
	notes         string
	status        Status
	history       []HistoryEntry
	tracking      Tracking
	cancelledAt   *time.Time
	shippedAt     *time.Time
	deliveredAt   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func newOrder(
	orderNumber string,
	userID uuid.UUID,
	items []Item,
	address Address,
	paymentMethod PaymentMethod,
	pricing Pricing,
	couponSnap *CouponSnapshot,
	notes string,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:            uuid.New(),
		orderNumber:   orderNumber,
		userID:        userID,
		items:         items,
		address:       address,
		paymentMethod: paymentMethod,
		pricing:       pricing,
		coupon:        couponSnap,
		notes:         notes,
		status:        StatusPending,
		history: []HistoryEntry{
			{Stage: StatusPending, Note: "order placed", At: now},
		},
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	orderNumber string,
	userID uuid.UUID,
	items []Item,
	address Address,
	paymentMethod PaymentMethod,
	pricing Pricing,
	couponSnap *CouponSnapshot,
	notes string,
	status Status,
	history []HistoryEntry,
	tracking Tracking,
	cancelledAt, shippedAt, deliveredAt *time.Time,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		orderNumber:   orderNumber,
		userID:        userID,
		items:         items,
		address:       address,
		paymentMethod: paymentMethod,
		pricing:       pricing,
		coupon:        couponSnap,
		notes:         notes,
		status:        status,
		history:       history,
		tracking:      tracking,
		cancelledAt:   cancelledAt,
		shippedAt:     shippedAt,
		deliveredAt:   deliveredAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Cancel moves the order to cancelled when the current status allows it.
// Stock restoration and coupon unredemption happen in the usecase, inside
// the same transaction that persists this change.
func (o *Order) Cancel(now time.Time) error {
	if !o.status.IsCancellable() {
		return ErrNotCancellable
	}
	o.status = StatusCancelled
	o.cancelledAt = &now
	o.history = append(o.history, HistoryEntry{Stage: StatusCancelled, Note: "cancelled by customer", At: now})
	return nil
}

// TransitionTo advances the status through the linear stage sequence,
// recording a history entry and stamping shippedAt / deliveredAt.
func (o *Order) TransitionTo(next Status, note string, now time.Time) error {
	if !o.status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	o.status = next
	switch next {
	case StatusShipped:
		o.shippedAt = &now
	case StatusDelivered:
		o.deliveredAt = &now
	case StatusCancelled:
		o.cancelledAt = &now
	}
	o.history = append(o.history, HistoryEntry{Stage: next, Note: note, At: now})
	return nil
}

func (o *Order) SetTracking(carrier, trackingNumber *string) {
	o.tracking = Tracking{Carrier: carrier, TrackingNumber: trackingNumber}
}

// EstimateDelivery projects shippedAt forward while the order is in
// transit; nil before shipping and after delivery. The read side computes
// the ETA from raw rows, so this lives outside the aggregate.
func EstimateDelivery(status Status, shippedAt *time.Time, days int) *time.Time {
	if status != StatusShipped || shippedAt == nil {
		return nil
	}
	est := shippedAt.AddDate(0, 0, days)
	return &est
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) UserID() uuid.UUID            { return o.userID }
func (o *Order) Items() []Item                { return o.items }
func (o *Order) Address() Address             { return o.address }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) Pricing() Pricing             { return o.pricing }
func (o *Order) Coupon() *CouponSnapshot      { return o.coupon }
func (o *Order) Notes() string                { return o.notes }
func (o *Order) Status() Status               { return o.status }
func (o *Order) History() []HistoryEntry      { return o.history }
func (o *Order) TrackingInfo() Tracking       { return o.tracking }
func (o *Order) CancelledAt() *time.Time      { return o.cancelledAt }
func (o *Order) ShippedAt() *time.Time        { return o.shippedAt }
func (o *Order) DeliveredAt() *time.Time      { return o.deliveredAt }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
