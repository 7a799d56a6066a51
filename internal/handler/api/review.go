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

type ReviewHandler struct {
	reviewCommands commands.ReviewCommands
	reviewQueries  queries.ReviewQueries
}

func NewReviewHandler(reviewCommands commands.ReviewCommands, reviewQueries queries.ReviewQueries) *ReviewHandler {
	return &ReviewHandler{
		reviewCommands: reviewCommands,
		reviewQueries:  reviewQueries,
	}
}

// @Summary Create a review
// @Description Review a product previously delivered to the user
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReviewRequest true "Review"
// @Success 201 {object} resdto.IDResponse
// @Failure 400 {object} httperr.Response
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reqdto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.reviewCommands.CreateReview(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, "Review created", resdto.IDResponse{ID: id})
}

// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} queries.ReviewView
// @Failure 404 {object} httperr.Response
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.reviewQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Review", view)
}

// @Summary Update a review
// @Description Edits send the review back to moderation
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Param id path string true "Review ID"
// @Param request body reqdto.UpdateReviewRequest true "Fields to update"
// @Success 200 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reviews/{id} [patch]
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.reviewCommands.UpdateReview(c.Request.Context(), id, userID, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Review updated", nil)
}

// @Summary Delete a review
// @Description Owners delete their own reviews; admins can delete any
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	if err := h.reviewCommands.DeleteReview(c.Request.Context(), id, userID, role); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Review deleted", nil)
}

// @Summary Toggle a helpful vote on a review
// @Description Adds the caller's vote, or removes it if already present
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} resdto.HelpfulVoteResponse
// @Failure 404 {object} httperr.Response
// @Router /reviews/{id}/helpful [post]
func (h *ReviewHandler) ToggleHelpful(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	helpful, err := h.reviewCommands.ToggleHelpful(c.Request.Context(), id, userID)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	msg := "Helpful vote recorded"
	if !helpful {
		msg = "Helpful vote removed"
	}
	respond.OK(c, http.StatusOK, msg, resdto.HelpfulVoteResponse{Helpful: helpful})
}

// @Summary List reviews for a product
// @Description Approved reviews only, newest first
// @Tags reviews
// @Produce json
// @Param id path string true "Product ID"
// @Param min_rating query int false "Minimum rating"
// @Param max_rating query int false "Maximum rating"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} httperr.Response
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	filters := queries.ReviewFilters{
		MinRating: intQueryPtr(c, "min_rating"),
		MaxRating: intQueryPtr(c, "max_rating"),
	}

	items, next, err := h.reviewQueries.ListByProduct(c.Request.Context(), productID, filters, cursorQuery(c), limitQuery(c))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Reviews", resdto.NewPage(items, next))
}

// @Summary Rating stats for a product
// @Tags reviews
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} queries.ProductRatingStats
// @Router /products/{id}/rating [get]
func (h *ReviewHandler) RatingStats(c *gin.Context) {
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.reviewQueries.GetProductRatingStats(c.Request.Context(), productID)
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Rating stats", stats)
}

// @Summary List a user's reviews
// @Description Users see their own; staff can see anyone's
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /users/{id}/reviews [get]
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	items, next, err := h.reviewQueries.ListByUser(c.Request.Context(), targetID, actorID, role.String(), cursorQuery(c), limitQuery(c))
	if err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Reviews", resdto.NewPage(items, next))
}

// @Summary Moderate a review
// @Description Approve or reject a pending review
// @Tags admin-reviews
// @Security BearerAuth
// @Accept json
// @Param id path string true "Review ID"
// @Param request body reqdto.ModerateReviewRequest true "Moderation decision"
// @Success 200 {object} httperr.Response
// @Failure 400 {object} httperr.Response
// @Router /admin/reviews/{id}/moderate [patch]
func (h *ReviewHandler) Moderate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.reviewCommands.ModerateReview(c.Request.Context(), id, req.ToCommand()); err != nil {
		httperr.AbortWithMappedError(c, err)
		return
	}

	respond.OK(c, http.StatusOK, "Review moderated", nil)
}
