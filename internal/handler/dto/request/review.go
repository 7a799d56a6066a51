package request

import (
	"github.com/google/uuid"

	"storefront/internal/usecase/commands"
)

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"max=1000"`
}

func (r *CreateReviewRequest) ToCommand() commands.CreateReviewRequest {
	return commands.CreateReviewRequest{
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

func (r *UpdateReviewRequest) ToCommand() commands.UpdateReviewRequest {
	return commands.UpdateReviewRequest{Rating: r.Rating, Comment: r.Comment}
}

type ModerateReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

func (r *ModerateReviewRequest) ToCommand() commands.ModerateReviewRequest {
	return commands.ModerateReviewRequest{Status: r.Status}
}
