package request

import (
	"github.com/google/uuid"

	"storefront/internal/usecase/commands"
)

type GuestContactRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"max=30"`
}

type GuestLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"max=20"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type GuestCheckoutRequest struct {
	Contact       GuestContactRequest `json:"contact" binding:"required"`
	Items         []GuestLineRequest  `json:"items" binding:"required,min=1,dive"`
	Address       AddressRequest      `json:"address" binding:"required"`
	PaymentMethod string              `json:"payment_method" binding:"required,oneof=cod card bank_transfer"`
	Notes         string              `json:"notes" binding:"max=500"`
}

func (r *GuestCheckoutRequest) ToCommand() commands.GuestCheckoutRequest {
	items := make([]commands.GuestLineInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, commands.GuestLineInput{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}
	return commands.GuestCheckoutRequest{
		Contact: commands.GuestContactInput{
			Name:  r.Contact.Name,
			Email: r.Contact.Email,
			Phone: r.Contact.Phone,
		},
		Items:         items,
		Address:       r.Address.toInput(),
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}
