package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode = errors.New("invalid coupon code format")
	ErrInvalidPercent    = errors.New("discount percent must be between 1 and 100")
	ErrNegativeMinimum   = errors.New("minimum order amount cannot be negative")
	ErrInvalidUsageLimit = errors.New("usage limit must be at least 1")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Percent int

func NewPercent(v int) (Percent, error) {
	if v < 1 || v > 100 {
		return 0, ErrInvalidPercent
	}
	return Percent(v), nil
}

func (p Percent) Value() int { return int(p) }

// Of applies the percentage to an amount in cents, rounding half-up.
func (p Percent) Of(amountCents int64) int64 {
	return (amountCents*int64(p) + 50) / 100
}
