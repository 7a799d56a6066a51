//go:build e2e

package order_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"storefront/internal/domain/user"
	"storefront/internal/handler/dto/response"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/authtest"
	"storefront/tests/common/dbtest"
	"storefront/tests/common/httptest"
	"storefront/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	cartURL       = "/api/cart"
	cartItemsURL  = "/api/cart/items"
	cartCouponURL = "/api/cart/coupon"
	ordersURL     = "/api/orders"
	guestURL      = "/api/guest/orders"
)

var checkoutBody = map[string]any{
	"address": map[string]any{
		"full_name":   "Ada Lovelace",
		"line1":       "12 Analytical Way",
		"city":        "London",
		"postal_code": "N1 9GU",
		"country":     "GB",
	},
	"payment_method": "cod",
}

type OrderSuite struct {
	e2e.SharedSuite
}

func TestOrderSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OrderSuite))
}

func (s *OrderSuite) seedProduct(priceCents int64, stock int) uuid.UUID {
	t := s.T()
	categoryID := dbtest.CreateTestCategory(t, s.DB, "Tops", "tops")
	return dbtest.CreateTestProduct(t, s.DB, categoryID, "Plain Tee", priceCents, stock)
}

func (s *OrderSuite) login(email string) string {
	return authtest.CreateAndLogin(s.T(), s.DB, s.Router, email, string(user.RoleCustomer))
}

func (s *OrderSuite) addItem(token string, productID uuid.UUID, size string, qty int) {
	t := s.T()
	body := map[string]any{"product_id": productID, "size": size, "quantity": qty}
	rec := httptest.PerformRequest(t, s.Router, http.MethodPost, cartItemsURL, body, token)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
}

func (s *OrderSuite) getCart(token string) queries.CartView {
	t := s.T()
	rec := httptest.PerformRequest(t, s.Router, http.MethodGet, cartURL, nil, token)
	var view queries.CartView
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
	return view
}

func (s *OrderSuite) checkout(token string) response.CheckoutResponse {
	t := s.T()
	rec := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, checkoutBody, token)
	var res response.CheckoutResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &res)
	require.NotEqual(t, uuid.Nil, res.OrderID)
	return res
}

func (s *OrderSuite) stock(productID uuid.UUID) int {
	var stock int
	err := s.DB.QueryRow(context.Background(),
		"SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	require.NoError(s.T(), err)
	return stock
}

func (s *OrderSuite) getOrder(token string, orderID uuid.UUID) queries.OrderView {
	t := s.T()
	rec := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL+"/"+orderID.String(), nil, token)
	var view queries.OrderView
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
	return view
}

func (s *OrderSuite) staffSetStatus(orderID uuid.UUID, status string, expectCode int) {
	t := s.T()
	dbtest.CreateTestUser(t, s.DB, "ops@example.com", string(user.RoleStaff))
	staffToken := authtest.LoginUser(t, s.Router, "ops@example.com", "password123")

	rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
		fmt.Sprintf("/api/admin/orders/%s/status", orderID),
		map[string]any{"status": status}, staffToken)
	if expectCode == http.StatusOK {
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
		return
	}
	httptest.AssertErrorResponse(t, rec, expectCode, "")
}

func (s *OrderSuite) TestCartFlow() {
	s.Run("same product and size merge into one line", func() {
		t := s.T()
		productID := s.seedProduct(2500, 50)
		token := s.login("shopper@example.com")

		s.addItem(token, productID, "M", 2)
		s.addItem(token, productID, "M", 3)
		s.addItem(token, productID, "L", 1)

		cart := s.getCart(token)
		require.Len(t, cart.Items, 2)
		require.Equal(t, 6, cart.Summary.ItemsCount)
		require.Equal(t, int64(15000), cart.Summary.SubtotalCents)
		require.Equal(t, int64(15000), cart.Summary.TotalCents)
	})

	s.Run("adding beyond live stock is rejected", func() {
		t := s.T()
		productID := s.seedProduct(2500, 4)
		token := s.login("shopper@example.com")

		body := map[string]any{"product_id": productID, "size": "M", "quantity": 5}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, cartItemsURL, body, token)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Insufficient stock")
	})

	s.Run("applied coupon shows in the summary", func() {
		t := s.T()
		productID := s.seedProduct(10000, 50)
		dbtest.CreateTestCoupon(t, s.DB, "SAVE10", 10, 1000, 100)
		token := s.login("shopper@example.com")

		s.addItem(token, productID, "M", 2)
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, cartCouponURL,
			map[string]any{"code": "SAVE10"}, token)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		cart := s.getCart(token)
		require.NotNil(t, cart.Coupon)
		require.Equal(t, "SAVE10", cart.Coupon.Code)
		require.Equal(t, int64(20000), cart.Summary.SubtotalCents)
		require.Equal(t, int64(2000), cart.Summary.DiscountCents)
		require.Equal(t, int64(18000), cart.Summary.TotalCents)
	})
}

func (s *OrderSuite) TestCheckout() {
	s.Run("places the order, decrements stock and clears the cart", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 3)
		res := s.checkout(token)
		require.True(t, strings.HasPrefix(res.OrderNumber, "ORD-"))

		require.Equal(t, 7, s.stock(productID))
		require.Empty(t, s.getCart(token).Items)

		view := s.getOrder(token, res.OrderID)
		require.Equal(t, "pending", view.Status)
		require.Len(t, view.Items, 1)
		require.Equal(t, int64(7500), view.TotalCents)
		require.Len(t, view.History, 1)
	})

	s.Run("empty cart cannot be checked out", func() {
		t := s.T()
		s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, checkoutBody, token)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Cart is empty")
	})

	s.Run("a slower checkout loses the last units without partial writes", func() {
		t := s.T()
		productID := s.seedProduct(2500, 3)
		tokenA := s.login("first@example.com")
		tokenB := s.login("second@example.com")

		s.addItem(tokenA, productID, "M", 2)
		s.addItem(tokenB, productID, "M", 2)

		s.checkout(tokenA)
		require.Equal(t, 1, s.stock(productID))

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, checkoutBody, tokenB)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Insufficient stock")

		// The failed checkout must leave no trace: stock untouched, no order.
		require.Equal(t, 1, s.stock(productID))
		listRec := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL, nil, tokenB)
		var page response.Page[queries.OrderListItem]
		httptest.AssertSuccessResponse(t, listRec, http.StatusOK, &page)
		require.Empty(t, page.Items)
	})

	s.Run("coupon is redeemed at checkout and respects its usage limit", func() {
		t := s.T()
		productID := s.seedProduct(10000, 50)
		dbtest.CreateTestCoupon(t, s.DB, "ONEUSE", 20, 1000, 1)

		tokenA := s.login("first@example.com")
		s.addItem(tokenA, productID, "M", 1)
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, cartCouponURL,
			map[string]any{"code": "ONEUSE"}, tokenA)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		res := s.checkout(tokenA)
		view := s.getOrder(tokenA, res.OrderID)
		require.Equal(t, int64(2000), view.DiscountCents)
		require.NotNil(t, view.Coupon)
		require.Equal(t, "ONEUSE", view.Coupon.Code)

		tokenB := s.login("second@example.com")
		s.addItem(tokenB, productID, "M", 1)
		rec = httptest.PerformRequest(t, s.Router, http.MethodPost, cartCouponURL,
			map[string]any{"code": "ONEUSE"}, tokenB)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Coupon cannot be used")
	})
}

func (s *OrderSuite) TestCancel() {
	s.Run("cancelling a pending order restores stock", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 2)
		res := s.checkout(token)
		require.Equal(t, 8, s.stock(productID))

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost,
			ordersURL+"/"+res.OrderID.String()+"/cancel", nil, token)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		require.Equal(t, 10, s.stock(productID))
		view := s.getOrder(token, res.OrderID)
		require.Equal(t, "cancelled", view.Status)
		require.NotNil(t, view.CancelledAt)
	})

	s.Run("a processing order can no longer be cancelled", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 1)
		res := s.checkout(token)
		s.staffSetStatus(res.OrderID, "confirmed", http.StatusOK)
		s.staffSetStatus(res.OrderID, "processing", http.StatusOK)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost,
			ordersURL+"/"+res.OrderID.String()+"/cancel", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Order can no longer be cancelled")
	})

	s.Run("another customer cannot cancel the order", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 1)
		res := s.checkout(token)

		otherToken := s.login("other@example.com")
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost,
			ordersURL+"/"+res.OrderID.String()+"/cancel", nil, otherToken)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Access denied")
	})
}

func (s *OrderSuite) TestStatusMachine() {
	s.Run("advances stage by stage and records history", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 1)
		res := s.checkout(token)

		for _, status := range []string{"confirmed", "processing", "shipped", "delivered"} {
			s.staffSetStatus(res.OrderID, status, http.StatusOK)
		}

		view := s.getOrder(token, res.OrderID)
		require.Equal(t, "delivered", view.Status)
		require.Len(t, view.History, 5)
		require.NotNil(t, view.ShippedAt)
		require.NotNil(t, view.DeliveredAt)
	})

	s.Run("skipping a stage is rejected", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 1)
		res := s.checkout(token)

		s.staffSetStatus(res.OrderID, "shipped", http.StatusBadRequest)
		require.Equal(t, "pending", s.getOrder(token, res.OrderID).Status)
	})

	s.Run("tracking edits do not touch the history", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 1)
		res := s.checkout(token)

		dbtest.CreateTestUser(t, s.DB, "ops@example.com", string(user.RoleStaff))
		staffToken := authtest.LoginUser(t, s.Router, "ops@example.com", "password123")
		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf("/api/admin/orders/%s/tracking", res.OrderID),
			map[string]any{"carrier": "UPS", "tracking_number": "1Z999AA10123456784"}, staffToken)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		view := s.getOrder(token, res.OrderID)
		require.Len(t, view.History, 1)
		require.NotNil(t, view.Tracking)
		require.Equal(t, "UPS", view.Tracking.Carrier)
	})

	s.Run("tracking is public and shows delivery estimate after shipping", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)
		token := s.login("buyer@example.com")

		s.addItem(token, productID, "M", 1)
		res := s.checkout(token)
		s.staffSetStatus(res.OrderID, "confirmed", http.StatusOK)
		s.staffSetStatus(res.OrderID, "processing", http.StatusOK)
		s.staffSetStatus(res.OrderID, "shipped", http.StatusOK)

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			ordersURL+"/"+res.OrderNumber+"/track", nil, "")
		var track queries.OrderTrackView
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &track)
		require.Equal(t, "shipped", track.Status)
		require.NotNil(t, track.EstimatedDelivery)
		require.Len(t, track.History, 4)
	})
}

func (s *OrderSuite) TestGuestCheckout() {
	guestBody := func(productID uuid.UUID, qty int) map[string]any {
		return map[string]any{
			"contact": map[string]any{
				"name":  "Grace Hopper",
				"email": "grace@example.com",
			},
			"items": []map[string]any{
				{"product_id": productID, "size": "M", "quantity": qty},
			},
			"address": map[string]any{
				"full_name":   "Grace Hopper",
				"line1":       "1 Navy Pier",
				"city":        "Arlington",
				"postal_code": "22202",
				"country":     "US",
			},
			"payment_method": "card",
		}
	}

	s.Run("places a guest order from its own number sequence", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, guestURL, guestBody(productID, 2), "")
		var res response.CheckoutResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &res)
		require.True(t, strings.HasPrefix(res.OrderNumber, "GST-"))
		require.Equal(t, 8, s.stock(productID))

		lookup := httptest.PerformRequest(t, s.Router, http.MethodGet,
			guestURL+"/"+res.OrderNumber+"?email=grace@example.com", nil, "")
		var view queries.GuestOrderView
		httptest.AssertSuccessResponse(t, lookup, http.StatusOK, &view)
		require.Equal(t, "pending", view.Status)
		require.Equal(t, int64(5000), view.TotalCents)
	})

	s.Run("lookup requires the purchaser's email", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, guestURL, guestBody(productID, 1), "")
		var res response.CheckoutResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &res)

		wrong := httptest.PerformRequest(t, s.Router, http.MethodGet,
			guestURL+"/"+res.OrderNumber+"?email=not-grace@example.com", nil, "")
		httptest.AssertErrorResponse(t, wrong, http.StatusNotFound, "")

		missing := httptest.PerformRequest(t, s.Router, http.MethodGet,
			guestURL+"/"+res.OrderNumber, nil, "")
		httptest.AssertErrorResponse(t, missing, http.StatusBadRequest, "Email is required")
	})

	s.Run("guest orders share the public tracking endpoint", func() {
		t := s.T()
		productID := s.seedProduct(2500, 10)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, guestURL, guestBody(productID, 1), "")
		var res response.CheckoutResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &res)

		track := httptest.PerformRequest(t, s.Router, http.MethodGet,
			ordersURL+"/"+res.OrderNumber+"/track", nil, "")
		var view queries.OrderTrackView
		httptest.AssertSuccessResponse(t, track, http.StatusOK, &view)
		require.Equal(t, res.OrderNumber, view.OrderNumber)
		require.Equal(t, "pending", view.Status)
	})
}
