package api

import (
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/respond"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errEmailRequired = errs.New("email query parameter required")

type GuestOrderHandler struct {
	guestCommands commands.GuestCommands
	guestQueries  queries.GuestOrderQueries
}

func NewGuestOrderHandler(guestCommands commands.GuestCommands, guestQueries queries.GuestOrderQueries) *GuestOrderHandler {
	return &GuestOrderHandler{
		guestCommands: guestCommands,
		guestQueries:  guestQueries,
	}
}

// @Summary Guest checkout
// @Description Place an order without an account
// @Tags guest-orders
// @Accept json
// @Produce json
// @Param request body reqdto.GuestCheckoutRequest true "Guest order"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Router /guest/orders [post]
func (h *GuestOrderHandler) Checkout(c *gin.Context) {
	var req reqdto.GuestCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.guestCommands.GuestCheckout(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, "Order placed", resdto.FromCheckoutResult(result))
}

// @Summary Track a guest order
// @Description Requires the purchaser's email alongside the order number
// @Tags guest-orders
// @Produce json
// @Param orderNumber path string true "Order number"
// @Param email query string true "Purchaser email"
// @Success 200 {object} queries.GuestOrderView
// @Failure 404 {object} httperr.Response
// @Router /guest/orders/{orderNumber} [get]
func (h *GuestOrderHandler) Track(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errEmailRequired, "Email is required", nil)
		return
	}

	view, err := h.guestQueries.Track(c.Request.Context(), c.Param("orderNumber"), email)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Guest order", view)
}

// @Summary List guest orders
// @Tags admin-guest-orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} httperr.Response
// @Router /admin/guest-orders [get]
func (h *GuestOrderHandler) ListAll(c *gin.Context) {
	filters := queries.OrderFilters{Status: strQueryPtr(c, "status")}

	items, next, err := h.guestQueries.ListAll(c.Request.Context(), filters, cursorQuery(c), limitQuery(c))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Guest orders", resdto.NewPage(items, next))
}

// @Summary Update guest order status
// @Tags admin-guest-orders
// @Security BearerAuth
// @Accept json
// @Param id path string true "Guest order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /admin/guest-orders/{id}/status [patch]
func (h *GuestOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.guestCommands.UpdateGuestOrderStatus(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Guest order status updated", nil)
}

// @Summary Update guest order tracking
// @Tags admin-guest-orders
// @Security BearerAuth
// @Accept json
// @Param id path string true "Guest order ID"
// @Param request body reqdto.UpdateTrackingRequest true "Tracking details"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/guest-orders/{id}/tracking [patch]
func (h *GuestOrderHandler) UpdateTracking(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.guestCommands.UpdateGuestTracking(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Tracking updated", nil)
}
