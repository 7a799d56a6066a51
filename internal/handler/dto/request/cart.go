package request

import (
	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
)

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"max=20"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

func (r *AddCartItemRequest) ToCommand() commands.AddCartItemRequest {
	return commands.AddCartItemRequest{ProductID: r.ProductID, Size: r.Size, Quantity: r.Quantity}
}

type UpdateCartItemRequest struct {
	Quantity *int    `json:"quantity" binding:"omitempty,min=1"`
	Size     *string `json:"size" binding:"omitempty,max=20"`
}

func (r *UpdateCartItemRequest) ToCommand() commands.UpdateCartItemRequest {
	return commands.UpdateCartItemRequest{Quantity: r.Quantity, Size: r.Size}
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,min=3,max=20"`
}
