package response

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"storefront/internal/usecase/queries"
)

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

func FromAuthorizedUser(v *queries.AuthorizedUserView) *UserResponse {
	var resp UserResponse
	// fields align, so a straight copy is enough
	if err := copier.Copy(&resp, v); err != nil {
		return &UserResponse{ID: v.ID, Email: v.Email, Name: v.Name, Role: v.Role, IsActive: v.IsActive}
	}
	return &resp
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
