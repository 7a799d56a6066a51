package order

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidGuestContact = errors.New("guest contact is incomplete or invalid")

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// GuestContact identifies an anonymous buyer. The email doubles as the
// tracking credential, so it has to be well-formed.
type GuestContact struct {
	Name  string
	Email string
	Phone string
}

func (c GuestContact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidGuestContact
	}
	if !emailPattern.MatchString(c.Email) {
		return ErrInvalidGuestContact
	}
	return nil
}

// GuestOrder is an order placed without an account. It shares the order
// lifecycle but is keyed by order number plus contact email instead of a
// user ID, and never carries a coupon.
type GuestOrder struct {
	Order
	contact GuestContact
}

func ReconstructGuestOrder(o *Order, contact GuestContact) *GuestOrder {
	return &GuestOrder{Order: *o, contact: contact}
}

func (g *GuestOrder) Contact() GuestContact { return g.contact }
