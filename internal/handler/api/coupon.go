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

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary List coupons
// @Tags admin-coupons
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.CouponView
// @Router /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.couponQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Coupons", coupons)
}

// @Summary Get a coupon
// @Tags admin-coupons
// @Security BearerAuth
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} queries.CouponView
// @Failure 404 {object} httperr.Response
// @Router /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.couponQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Coupon", view)
}

// @Summary Create a coupon
// @Tags admin-coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateCouponRequest true "Coupon"
// @Success 201 {object} resdto.IDResponse
// @Failure 400 {object} httperr.Response
// @Router /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.couponCommands.CreateCoupon(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, "Coupon created", resdto.IDResponse{ID: id})
}

// @Summary Update a coupon
// @Description The code is immutable; other fields can change
// @Tags admin-coupons
// @Security BearerAuth
// @Accept json
// @Param id path string true "Coupon ID"
// @Param request body reqdto.UpdateCouponRequest true "Fields to update"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/coupons/{id} [patch]
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.couponCommands.UpdateCoupon(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Coupon updated", nil)
}

// @Summary Delete a coupon
// @Tags admin-coupons
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponCommands.DeleteCoupon(c.Request.Context(), id); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Coupon deleted", nil)
}
