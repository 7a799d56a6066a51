package request

import (
	"storefront/internal/usecase/commands"
)

type AddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=100"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"max=30"`
}

func (a AddressRequest) toInput() commands.ShippingAddressInput {
	return commands.ShippingAddressInput{
		FullName:   a.FullName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type CheckoutRequest struct {
	Address       AddressRequest `json:"address" binding:"required"`
	PaymentMethod string         `json:"payment_method" binding:"required,oneof=cod card bank_transfer"`
	Notes         string         `json:"notes" binding:"max=500"`
}

func (r *CheckoutRequest) ToCommand() commands.CheckoutRequest {
	return commands.CheckoutRequest{
		Address:       r.Address.toInput(),
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

func (r *UpdateOrderStatusRequest) ToCommand() commands.UpdateOrderStatusRequest {
	return commands.UpdateOrderStatusRequest{Status: r.Status, Note: r.Note}
}

type UpdateTrackingRequest struct {
	Carrier        *string `json:"carrier" binding:"omitempty,max=100"`
	TrackingNumber *string `json:"tracking_number" binding:"omitempty,max=100"`
}

func (r *UpdateTrackingRequest) ToCommand() commands.UpdateTrackingRequest {
	return commands.UpdateTrackingRequest{Carrier: r.Carrier, TrackingNumber: r.TrackingNumber}
}
