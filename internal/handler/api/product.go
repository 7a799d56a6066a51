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

type ProductHandler struct {
	productCommands commands.ProductCommands
	productQueries  queries.ProductQueries
}

func NewProductHandler(productCommands commands.ProductCommands, productQueries queries.ProductQueries) *ProductHandler {
	return &ProductHandler{
		productCommands: productCommands,
		productQueries:  productQueries,
	}
}

// @Summary List products
// @Description List products with filters, sorting and offset pagination
// @Tags products
// @Produce json
// @Param category query string false "Category slug"
// @Param brand query string false "Brand"
// @Param size query string false "Size"
// @Param tag query string false "Tag"
// @Param min_price_cents query int false "Minimum effective price"
// @Param max_price_cents query int false "Maximum effective price"
// @Param min_rating query number false "Minimum average rating"
// @Param search query string false "Title search"
// @Param in_stock query bool false "Only products with stock"
// @Param sort query string false "Sort order" Enums(newest, price_asc, price_desc, rating, name)
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} queries.ProductPage
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	filters := queries.ProductFilters{
		CategorySlug:  strQueryPtr(c, "category"),
		Brand:         strQueryPtr(c, "brand"),
		Size:          strQueryPtr(c, "size"),
		Tag:           strQueryPtr(c, "tag"),
		MinPriceCents: int64QueryPtr(c, "min_price_cents"),
		MaxPriceCents: int64QueryPtr(c, "max_price_cents"),
		MinRating:     floatQueryPtr(c, "min_rating"),
		Search:        strQueryPtr(c, "search"),
		InStock:       boolQuery(c, "in_stock"),
	}
	sort := queries.ParseProductSort(c.Query("sort"))

	page, err := h.productQueries.List(c.Request.Context(), filters, sort, pageQuery(c), limitQuery(c))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Products", page)
}

// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} queries.ProductView
// @Failure 404 {object} httperr.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.productQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Product", view)
}

// @Summary List brands
// @Tags products
// @Produce json
// @Success 200 {object} resdto.BrandsResponse
// @Router /products/brands [get]
func (h *ProductHandler) ListBrands(c *gin.Context) {
	brands, err := h.productQueries.ListBrands(c.Request.Context())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Brands", resdto.BrandsResponse{Brands: brands})
}

// @Summary Create a product
// @Tags admin-products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateProductRequest true "Product"
// @Success 201 {object} resdto.IDResponse
// @Failure 400 {object} httperr.Response
// @Router /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req reqdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.productCommands.CreateProduct(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, "Product created", resdto.IDResponse{ID: id})
}

// @Summary Update a product
// @Tags admin-products
// @Security BearerAuth
// @Accept json
// @Param id path string true "Product ID"
// @Param request body reqdto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.productCommands.UpdateProduct(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Product updated", nil)
}

// @Summary Delete a product
// @Tags admin-products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.productCommands.DeleteProduct(c.Request.Context(), id); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Product deleted", nil)
}
