package response

import (
	"github.com/google/uuid"

	"storefront/internal/usecase/commands"
)

type CheckoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

func FromCheckoutResult(r *commands.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{OrderID: r.OrderID, OrderNumber: r.OrderNumber}
}
