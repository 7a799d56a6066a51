package api

import (
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/handler/respond"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartCommands commands.CartCommands
	cartQueries  queries.CartQueries
}

func NewCartHandler(cartCommands commands.CartCommands, cartQueries queries.CartQueries) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
		cartQueries:  cartQueries,
	}
}

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, commands.ErrAuthenticationFailed, "Authentication required", nil)
		return uuid.Nil, false
	}
	return userID, true
}

// @Summary Get the current user's cart
// @Tags cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.CartView
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.cartQueries.GetByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Cart", view)
}

// @Summary Add an item to the cart
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param request body reqdto.AddCartItemRequest true "Item"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.cartCommands.AddItem(c.Request.Context(), userID, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Item added", nil)
}

// @Summary Update a cart item
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param id path string true "Cart item ID"
// @Param request body reqdto.UpdateCartItemRequest true "Fields to update"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.cartCommands.UpdateItem(c.Request.Context(), userID, itemID, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Item updated", nil)
}

// @Summary Remove a cart item
// @Tags cart
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartCommands.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Item removed", nil)
}

// @Summary Clear the cart
// @Tags cart
// @Security BearerAuth
// @Success 200 {object} httperr.Response
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.cartCommands.ClearCart(c.Request.Context(), userID); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Cart cleared", nil)
}

// @Summary Apply a coupon to the cart
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param request body reqdto.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /cart/coupon [post]
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reqdto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.cartCommands.ApplyCoupon(c.Request.Context(), userID, req.Code); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Coupon applied", nil)
}

// @Summary Remove the applied coupon
// @Tags cart
// @Security BearerAuth
// @Success 200 {object} httperr.Response
// @Router /cart/coupon [delete]
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.cartCommands.RemoveCoupon(c.Request.Context(), userID); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Coupon removed", nil)
}
