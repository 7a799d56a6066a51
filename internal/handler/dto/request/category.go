package request

import "storefront/internal/usecase/commands"

type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Slug     string  `json:"slug" binding:"omitempty,max=100"`
	Image    *string `json:"image" binding:"omitempty,url"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *CreateCategoryRequest) ToCommand() commands.CreateCategoryRequest {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return commands.CreateCategoryRequest{
		Name:     r.Name,
		Slug:     r.Slug,
		Image:    r.Image,
		IsActive: active,
	}
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Slug     *string `json:"slug" binding:"omitempty,max=100"`
	Image    *string `json:"image" binding:"omitempty,url"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *UpdateCategoryRequest) ToCommand() commands.UpdateCategoryRequest {
	return commands.UpdateCategoryRequest{
		Name:     r.Name,
		Slug:     r.Slug,
		Image:    r.Image,
		IsActive: r.IsActive,
	}
}
