package api

import (
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/respond"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryCommands commands.CategoryCommands
	categoryQueries  queries.CategoryQueries
}

func NewCategoryHandler(categoryCommands commands.CategoryCommands, categoryQueries queries.CategoryQueries) *CategoryHandler {
	return &CategoryHandler{
		categoryCommands: categoryCommands,
		categoryQueries:  categoryQueries,
	}
}

// @Summary List categories
// @Description Active categories with product counts; staff can include inactive ones
// @Tags categories
// @Produce json
// @Param include_inactive query bool false "Include inactive categories"
// @Success 200 {array} queries.CategoryView
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"

	categories, err := h.categoryQueries.List(c.Request.Context(), activeOnly)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Categories", categories)
}

// @Summary Get a category by slug
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} queries.CategoryView
// @Failure 404 {object} httperr.Response
// @Router /categories/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	view, err := h.categoryQueries.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Category", view)
}

// @Summary Create a category
// @Tags admin-categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateCategoryRequest true "Category"
// @Success 201 {object} resdto.IDResponse
// @Failure 400 {object} httperr.Response
// @Router /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req reqdto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.categoryCommands.CreateCategory(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, "Category created", resdto.IDResponse{ID: id})
}

// @Summary Update a category
// @Tags admin-categories
// @Security BearerAuth
// @Accept json
// @Param id path string true "Category ID"
// @Param request body reqdto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/categories/{id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.categoryCommands.UpdateCategory(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Category updated", nil)
}

// @Summary Delete a category
// @Description Fails while products still reference the category
// @Tags admin-categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryCommands.DeleteCategory(c.Request.Context(), id); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Category deleted", nil)
}
