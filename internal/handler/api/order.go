package api

import (
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/handler/respond"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Checkout the cart
// @Description Convert the current cart into an order
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutRequest true "Checkout details"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.orderCommands.Checkout(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, "Order placed", resdto.FromCheckoutResult(result))
}

// @Summary List my orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, next, err := h.orderQueries.ListByUser(c.Request.Context(), userID, cursorQuery(c), limitQuery(c))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Orders", resdto.NewPage(items, next))
}

// @Summary Get an order
// @Description Owners see their own orders; staff can see any
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} queries.OrderView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	view, err := h.orderQueries.GetByID(c.Request.Context(), id, userID, role.String())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Order", view)
}

// @Summary Cancel an order
// @Description Only pending or confirmed orders can be cancelled; stock is restored
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderCommands.CancelOrder(c.Request.Context(), id, userID); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Order cancelled", nil)
}

// @Summary Track an order
// @Description Public tracking by order number; exposes no address or amounts
// @Tags orders
// @Produce json
// @Param id path string true "Order number"
// @Success 200 {object} queries.OrderTrackView
// @Failure 404 {object} httperr.Response
// @Router /orders/{id}/track [get]
func (h *OrderHandler) Track(c *gin.Context) {
	view, err := h.orderQueries.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Order tracking", view)
}

// @Summary List all orders
// @Tags admin-orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} httperr.Response
// @Router /admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	filters := queries.OrderFilters{Status: strQueryPtr(c, "status")}

	items, next, err := h.orderQueries.ListAll(c.Request.Context(), filters, cursorQuery(c), limitQuery(c))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Orders", resdto.NewPage(items, next))
}

// @Summary Update order status
// @Description Statuses advance one stage at a time; cancellation only from pending or confirmed
// @Tags admin-orders
// @Security BearerAuth
// @Accept json
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.orderCommands.UpdateOrderStatus(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Order status updated", nil)
}

// @Summary Update shipment tracking
// @Tags admin-orders
// @Security BearerAuth
// @Accept json
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateTrackingRequest true "Tracking details"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/orders/{id}/tracking [patch]
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.orderCommands.UpdateTracking(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Tracking updated", nil)
}
