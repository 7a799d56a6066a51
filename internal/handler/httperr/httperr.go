package httperr

import (
	"errors"
	"net/http"

	"storefront/internal/domain/order"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// Response is the shared error envelope. Every endpoint answers with
// {success, message, errors?}; successful responses use respond.JSON.
type Response struct {
	Status  int      `json:"-"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, details []string) {
	resp := Response{Status: status, Success: false, Message: msg, Errors: details}

	if err != nil {
		_ = c.Error(gin.Error{
			Err:  err,
			Type: gin.ErrorTypePublic,
			Meta: resp,
		})
	}
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	target  error
	status  int
	message string
}

// mappings orders more specific sentinels before broader ones; first match
// wins. Conflicts deliberately answer 400, not 409: the client treats every
// rejected mutation the same way.
var mappings = []mapping{
	{commands.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{commands.ErrTokenValidation, http.StatusUnauthorized, "Invalid or expired token"},
	{commands.ErrAuthenticationFailed, http.StatusUnauthorized, "Authentication failed"},
	{commands.ErrUserInactive, http.StatusForbidden, "Account is deactivated"},
	{queries.ErrUserInactive, http.StatusForbidden, "Account is deactivated"},

	{commands.ErrOrderAccessDenied, http.StatusForbidden, "Access denied"},
	{commands.ErrReviewAccessDenied, http.StatusForbidden, "Access denied"},
	{queries.ErrOrderAccess, http.StatusForbidden, "Access denied"},
	{queries.ErrReviewAccess, http.StatusForbidden, "Access denied"},

	{commands.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{commands.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{commands.ErrCouponNotFound, http.StatusNotFound, "Coupon not found"},
	{commands.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{commands.ErrReviewNotFound, http.StatusNotFound, "Review not found"},
	{commands.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{commands.ErrCartItemNotFound, http.StatusNotFound, "Cart item not found"},
	{queries.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{queries.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{queries.ErrCouponNotFound, http.StatusNotFound, "Coupon not found"},
	{queries.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{queries.ErrReviewNotFound, http.StatusNotFound, "Review not found"},
	{queries.ErrUserNotFound, http.StatusNotFound, "User not found"},

	{commands.ErrDuplicateEmail, http.StatusBadRequest, "Email is already registered"},
	{commands.ErrDuplicateCategory, http.StatusBadRequest, "Category already exists"},
	{commands.ErrDuplicateCoupon, http.StatusBadRequest, "Coupon code already exists"},
	{commands.ErrDuplicateReview, http.StatusBadRequest, "You have already reviewed this product"},
	{commands.ErrCategoryInUse, http.StatusBadRequest, "Category still has products"},
	{commands.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
	{commands.ErrCouponNotUsable, http.StatusBadRequest, "Coupon cannot be used"},
	{commands.ErrOrderNotCancellable, http.StatusBadRequest, "Order can no longer be cancelled"},
	{commands.ErrInvalidOrderTransition, http.StatusBadRequest, "Invalid status transition"},
	{commands.ErrPurchaseRequired, http.StatusBadRequest, "Only verified buyers may review this product"},
	{commands.ErrCartEmpty, http.StatusBadRequest, "Cart is empty"},
	{commands.ErrInvalidSize, http.StatusBadRequest, "Size not available for this product"},
	{commands.ErrDomainValidation, http.StatusBadRequest, "Validation failed"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, "Invalid pagination cursor"},
}

// AbortWithMappedError translates usecase sentinels into the error envelope.
// Unmapped errors become a generic 500 so internals never leak to clients.
func AbortWithMappedError(c *gin.Context, err error) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			AbortWithError(c, m.status, err, m.message, errorDetails(err))
			return
		}
	}
	AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

// errorDetails pulls client-safe specifics out of the chain; a stock failure
// names the product line that could not be satisfied.
func errorDetails(err error) []string {
	var stockErr *order.StockError
	if errors.As(err, &stockErr) {
		return []string{stockErr.Error()}
	}
	return nil
}
