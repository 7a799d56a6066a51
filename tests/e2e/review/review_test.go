//go:build e2e

package review_test

import (
	"fmt"
	"net/http"
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
	reviewsURL        = "/api/reviews"
	productReviewsURL = "/api/products/%s/reviews"
	productRatingURL  = "/api/products/%s/rating"
	userReviewsURL    = "/api/users/%s/reviews"
	moderateURL       = "/api/admin/reviews/%s/moderate"
)

type ReviewSuite struct {
	e2e.SharedSuite
}

func TestReviewSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReviewSuite))
}

// buyer seeds a customer who already received the product, making them a
// verified buyer for review purposes.
func (s *ReviewSuite) buyer(email string, productID uuid.UUID) (uuid.UUID, string) {
	t := s.T()
	userID := dbtest.CreateTestUser(t, s.DB, email, string(user.RoleCustomer))
	dbtest.CreateDeliveredOrder(t, s.DB, userID, productID)
	token := authtest.LoginUser(t, s.Router, email, "password123")
	return userID, token
}

func (s *ReviewSuite) seedProduct() uuid.UUID {
	t := s.T()
	categoryID := dbtest.CreateTestCategory(t, s.DB, "Tops", "tops")
	return dbtest.CreateTestProduct(t, s.DB, categoryID, "Plain Tee", 2500, 50)
}

func (s *ReviewSuite) createReview(token string, productID uuid.UUID, rating int, comment string) uuid.UUID {
	t := s.T()
	body := map[string]any{"product_id": productID, "rating": rating, "comment": comment}
	rec := httptest.PerformRequest(t, s.Router, http.MethodPost, reviewsURL, body, token)

	var res response.IDResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &res)
	require.NotEqual(t, uuid.Nil, res.ID)
	return res.ID
}

func (s *ReviewSuite) approve(reviewID uuid.UUID) {
	t := s.T()
	dbtest.CreateTestUser(t, s.DB, "moderator@example.com", string(user.RoleStaff))
	staffToken := authtest.LoginUser(t, s.Router, "moderator@example.com", "password123")

	rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
		fmt.Sprintf(moderateURL, reviewID), map[string]any{"status": "approved"}, staffToken)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
}

func (s *ReviewSuite) productReviews(productID uuid.UUID) []queries.ReviewListItem {
	t := s.T()
	rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
		fmt.Sprintf(productReviewsURL, productID), nil, "")

	var page response.Page[queries.ReviewListItem]
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &page)
	return page.Items
}

func (s *ReviewSuite) TestCreateReview() {
	s.Run("verified buyer can review a delivered product", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)

		reviewID := s.createReview(token, productID, 5, "Great quality, fits perfectly.")

		// The new review is readable but not yet listed: it awaits moderation.
		rec := httptest.PerformRequest(t, s.Router, http.MethodGet, reviewsURL+"/"+reviewID.String(), nil, "")
		var view queries.ReviewView
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
		require.Equal(t, "pending", view.Status)

		require.Empty(t, s.productReviews(productID))
	})

	s.Run("non-buyer is rejected", func() {
		t := s.T()
		productID := s.seedProduct()
		dbtest.CreateTestUser(t, s.DB, "browser@example.com", string(user.RoleCustomer))
		token := authtest.LoginUser(t, s.Router, "browser@example.com", "password123")

		body := map[string]any{"product_id": productID, "rating": 5}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, reviewsURL, body, token)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Only verified buyers may review this product")
	})

	s.Run("second review of the same product is rejected", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("repeat@example.com", productID)

		s.createReview(token, productID, 4, "")

		body := map[string]any{"product_id": productID, "rating": 2}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, reviewsURL, body, token)
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "You have already reviewed this product")
	})

	s.Run("unknown product", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("ghost@example.com", productID)

		body := map[string]any{"product_id": uuid.New(), "rating": 3}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, reviewsURL, body, token)
		httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "Product not found")
	})

	s.Run("anonymous request is rejected", func() {
		t := s.T()
		productID := s.seedProduct()

		body := map[string]any{"product_id": productID, "rating": 3}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, reviewsURL, body, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
	})
}

func (s *ReviewSuite) TestModerationFlow() {
	s.Run("approval publishes the review and updates rating stats", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)

		reviewID := s.createReview(token, productID, 4, "Solid for the price.")
		s.approve(reviewID)

		items := s.productReviews(productID)
		require.Len(t, items, 1)
		require.Equal(t, reviewID, items[0].ID)

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(productRatingURL, productID), nil, "")
		var stats queries.ProductRatingStats
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &stats)
		require.Equal(t, int32(1), stats.TotalReviews)
		require.InDelta(t, 4.0, stats.AverageRating, 0.001)
		require.Equal(t, int32(1), stats.Rating4Count)
	})

	s.Run("rejection keeps the review out of the product listing", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)

		reviewID := s.createReview(token, productID, 1, "Arrived damaged.")

		dbtest.CreateTestUser(t, s.DB, "moderator@example.com", string(user.RoleStaff))
		staffToken := authtest.LoginUser(t, s.Router, "moderator@example.com", "password123")
		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(moderateURL, reviewID), map[string]any{"status": "rejected"}, staffToken)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		require.Empty(t, s.productReviews(productID))
	})

	s.Run("customers cannot moderate", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)
		reviewID := s.createReview(token, productID, 5, "")

		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(moderateURL, reviewID), map[string]any{"status": "approved"}, token)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "")
	})
}

func (s *ReviewSuite) TestUpdateReview() {
	s.Run("editing an approved review sends it back to moderation", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)

		reviewID := s.createReview(token, productID, 5, "Great at first.")
		s.approve(reviewID)
		require.Len(t, s.productReviews(productID), 1)

		body := map[string]any{"rating": 2, "comment": "Fabric faded after the second wash."}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			reviewsURL+"/"+reviewID.String(), body, token)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		require.Empty(t, s.productReviews(productID), "edited review should be pending again")

		rec = httptest.PerformRequest(t, s.Router, http.MethodGet, reviewsURL+"/"+reviewID.String(), nil, "")
		var view queries.ReviewView
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
		require.Equal(t, "pending", view.Status)
		require.Equal(t, int32(2), view.Rating)
	})

	s.Run("cannot edit someone else's review", func() {
		t := s.T()
		productID := s.seedProduct()
		_, ownerToken := s.buyer("owner@example.com", productID)
		reviewID := s.createReview(ownerToken, productID, 5, "")

		_, otherToken := s.buyer("other@example.com", productID)
		body := map[string]any{"rating": 1}
		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			reviewsURL+"/"+reviewID.String(), body, otherToken)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Access denied")
	})
}

func (s *ReviewSuite) TestDeleteReview() {
	s.Run("owner deletes their review and stats recompute", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)

		reviewID := s.createReview(token, productID, 5, "")
		s.approve(reviewID)

		rec := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			reviewsURL+"/"+reviewID.String(), nil, token)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

		require.Empty(t, s.productReviews(productID))

		rec = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(productRatingURL, productID), nil, "")
		var stats queries.ProductRatingStats
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &stats)
		require.Equal(t, int32(0), stats.TotalReviews)
	})

	s.Run("staff can delete any review", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("reviewer@example.com", productID)
		reviewID := s.createReview(token, productID, 5, "")

		dbtest.CreateTestUser(t, s.DB, "moderator@example.com", string(user.RoleStaff))
		staffToken := authtest.LoginUser(t, s.Router, "moderator@example.com", "password123")

		rec := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			reviewsURL+"/"+reviewID.String(), nil, staffToken)
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
	})

	s.Run("another customer cannot delete it", func() {
		t := s.T()
		productID := s.seedProduct()
		_, ownerToken := s.buyer("owner@example.com", productID)
		reviewID := s.createReview(ownerToken, productID, 5, "")

		_, otherToken := s.buyer("other@example.com", productID)
		rec := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			reviewsURL+"/"+reviewID.String(), nil, otherToken)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Access denied")
	})
}

func (s *ReviewSuite) TestHelpfulVotes() {
	s.Run("vote toggles on and off", func() {
		t := s.T()
		productID := s.seedProduct()
		_, authorToken := s.buyer("author@example.com", productID)
		reviewID := s.createReview(authorToken, productID, 5, "Runs true to size.")
		s.approve(reviewID)

		_, voterToken := s.buyer("voter@example.com", productID)
		helpfulURL := reviewsURL + "/" + reviewID.String() + "/helpful"

		vote := func(expected bool) {
			rec := httptest.PerformRequest(t, s.Router, http.MethodPost, helpfulURL, nil, voterToken)
			var res response.HelpfulVoteResponse
			httptest.AssertSuccessResponse(t, rec, http.StatusOK, &res)
			require.Equal(t, expected, res.Helpful)
		}
		count := func() int32 {
			rec := httptest.PerformRequest(t, s.Router, http.MethodGet, reviewsURL+"/"+reviewID.String(), nil, "")
			var view queries.ReviewView
			httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
			return view.HelpfulCount
		}

		vote(true)
		require.Equal(t, int32(1), count())
		vote(false)
		require.Equal(t, int32(0), count(), "second toggle removes the vote")
		vote(true)
		require.Equal(t, int32(1), count())
	})

	s.Run("voting on a missing review fails", func() {
		t := s.T()
		productID := s.seedProduct()
		_, token := s.buyer("voter@example.com", productID)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost,
			reviewsURL+"/"+uuid.New().String()+"/helpful", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "Review not found")
	})
}

func (s *ReviewSuite) TestRatingStats() {
	s.Run("aggregates approved reviews only", func() {
		t := s.T()
		productID := s.seedProduct()

		_, t1 := s.buyer("buyer1@example.com", productID)
		_, t2 := s.buyer("buyer2@example.com", productID)
		_, t3 := s.buyer("buyer3@example.com", productID)

		r1 := s.createReview(t1, productID, 5, "")
		r2 := s.createReview(t2, productID, 3, "")
		s.createReview(t3, productID, 1, "") // stays pending

		s.approve(r1)
		s.approve(r2)

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(productRatingURL, productID), nil, "")
		var stats queries.ProductRatingStats
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &stats)

		require.Equal(t, int32(2), stats.TotalReviews)
		require.InDelta(t, 4.0, stats.AverageRating, 0.001)
		require.Equal(t, int32(1), stats.Rating5Count)
		require.Equal(t, int32(1), stats.Rating3Count)
		require.Equal(t, int32(0), stats.Rating1Count)
	})
}

func (s *ReviewSuite) TestListByUser() {
	s.Run("customers see their own reviews", func() {
		t := s.T()
		productID := s.seedProduct()
		userID, token := s.buyer("reviewer@example.com", productID)
		s.createReview(token, productID, 4, "")

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(userReviewsURL, userID), nil, token)

		var page response.Page[queries.ReviewListItem]
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &page)
		require.Len(t, page.Items, 1)
	})

	s.Run("customers cannot see another user's reviews", func() {
		t := s.T()
		productID := s.seedProduct()
		targetID, targetToken := s.buyer("target@example.com", productID)
		s.createReview(targetToken, productID, 4, "")

		_, snoopToken := s.buyer("snoop@example.com", productID)
		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(userReviewsURL, targetID), nil, snoopToken)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Access denied")
	})

	s.Run("staff can see anyone's reviews", func() {
		t := s.T()
		productID := s.seedProduct()
		targetID, targetToken := s.buyer("target@example.com", productID)
		s.createReview(targetToken, productID, 4, "")

		dbtest.CreateTestUser(t, s.DB, "moderator@example.com", string(user.RoleStaff))
		staffToken := authtest.LoginUser(t, s.Router, "moderator@example.com", "password123")

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(userReviewsURL, targetID), nil, staffToken)

		var page response.Page[queries.ReviewListItem]
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &page)
		require.Len(t, page.Items, 1)
	})
}
