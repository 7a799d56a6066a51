package shared

import (
	"time"

	"github.com/google/uuid"
)

type ProductSnapshot struct {
	ID         uuid.UUID
	Title      string
	PriceCents int64
	Stock      int
	Sizes      []string
}

type CouponSnapshot struct {
	ID              uuid.UUID
	Code            string
	DiscountPercent int
	ExpiresAt       time.Time
	MinimumCents    int64
	UsageLimit      int
	IsActive        bool
}

type OrderSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Status string
}

type ReviewSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Status    string
}
