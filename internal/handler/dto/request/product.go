package request

import (
	"time"

	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
)

type DiscountRequest struct {
	Percent   int       `json:"percent" binding:"required,min=1,max=100"`
	ValidTill time.Time `json:"valid_till" binding:"required"`
}

type CreateProductRequest struct {
	Title       string           `json:"title" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	Brand       string           `json:"brand" binding:"max=100"`
	CategoryID  uuid.UUID        `json:"category_id" binding:"required"`
	PriceCents  int64            `json:"price_cents" binding:"required,min=1"`
	Discount    *DiscountRequest `json:"discount,omitempty"`
	Sizes       []string         `json:"sizes,omitempty"`
	Stock       int              `json:"stock" binding:"min=0"`
	Tags        []string         `json:"tags,omitempty"`
}

func (r *CreateProductRequest) ToCommand() commands.CreateProductRequest {
	return commands.CreateProductRequest{
		Title:       r.Title,
		Description: r.Description,
		Images:      r.Images,
		Brand:       r.Brand,
		CategoryID:  r.CategoryID,
		PriceCents:  r.PriceCents,
		Discount:    toDiscountInput(r.Discount),
		Sizes:       r.Sizes,
		Stock:       r.Stock,
		Tags:        r.Tags,
	}
}

type UpdateProductRequest struct {
	Title          *string          `json:"title" binding:"omitempty,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=5000"`
	Images         []string         `json:"images" binding:"omitempty,dive,url"`
	Brand          *string          `json:"brand" binding:"omitempty,max=100"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	PriceCents     *int64           `json:"price_cents" binding:"omitempty,min=1"`
	Discount       *DiscountRequest `json:"discount,omitempty"`
	RemoveDiscount bool             `json:"remove_discount,omitempty"`
	Sizes          []string         `json:"sizes,omitempty"`
	Stock          *int             `json:"stock" binding:"omitempty,min=0"`
	Tags           []string         `json:"tags,omitempty"`
}

func (r *UpdateProductRequest) ToCommand() commands.UpdateProductRequest {
	return commands.UpdateProductRequest{
		Title:          r.Title,
		Description:    r.Description,
		Images:         r.Images,
		Brand:          r.Brand,
		CategoryID:     r.CategoryID,
		PriceCents:     r.PriceCents,
		Discount:       toDiscountInput(r.Discount),
		RemoveDiscount: r.RemoveDiscount,
		Sizes:          r.Sizes,
		Stock:          r.Stock,
		Tags:           r.Tags,
	}
}

func toDiscountInput(d *DiscountRequest) *commands.DiscountInput {
	if d == nil {
		return nil
	}
	return &commands.DiscountInput{Percent: d.Percent, ValidTill: d.ValidTill}
}
