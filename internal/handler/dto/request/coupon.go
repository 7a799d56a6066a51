package request

import (
	"time"

	"storefront/internal/usecase/commands"
)

type CreateCouponRequest struct {
	Code              string    `json:"code" binding:"required,min=3,max=20"`
	DiscountPercent   int       `json:"discount_percent" binding:"required,min=1,max=100"`
	ExpiresAt         time.Time `json:"expires_at" binding:"required"`
	MinimumOrderCents int64     `json:"minimum_order_cents" binding:"min=0"`
	UsageLimit        int       `json:"usage_limit" binding:"required,min=1"`
}

func (r *CreateCouponRequest) ToCommand() commands.CreateCouponRequest {
	return commands.CreateCouponRequest{
		Code:              r.Code,
		DiscountPercent:   r.DiscountPercent,
		ExpiresAt:         r.ExpiresAt,
		MinimumOrderCents: r.MinimumOrderCents,
		UsageLimit:        r.UsageLimit,
	}
}

type UpdateCouponRequest struct {
	DiscountPercent   *int       `json:"discount_percent" binding:"omitempty,min=1,max=100"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	MinimumOrderCents *int64     `json:"minimum_order_cents" binding:"omitempty,min=0"`
	UsageLimit        *int       `json:"usage_limit" binding:"omitempty,min=1"`
	IsActive          *bool      `json:"is_active,omitempty"`
}

func (r *UpdateCouponRequest) ToCommand() commands.UpdateCouponRequest {
	return commands.UpdateCouponRequest{
		DiscountPercent:   r.DiscountPercent,
		ExpiresAt:         r.ExpiresAt,
		MinimumOrderCents: r.MinimumOrderCents,
		UsageLimit:        r.UsageLimit,
		IsActive:          r.IsActive,
	}
}
