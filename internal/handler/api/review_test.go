//go:build unit

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/user"
	"storefront/internal/handler/api"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/builder"
	"storefront/tests/common/httptest"
	"storefront/tests/common/testutil"
	commandsmock "storefront/tests/mock/commands"
	queriesmock "storefront/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReviewHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReviewCommands
	mockQueries  *queriesmock.MockReviewQueries
	handler      *api.ReviewHandler
	userID       uuid.UUID
}

func (s *ReviewHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReviewCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReviewQueries(s.mockCtrl)
	s.handler = api.NewReviewHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Stands in for AuthMiddleware: a bearer token authenticates as a fixed customer.
	authed := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
			c.Set("user_role", user.RoleCustomer)
		}
		c.Next()
	}

	s.router.POST("/reviews", authed, s.handler.Create)
	s.router.GET("/reviews/:id", s.handler.Get)
	s.router.PATCH("/reviews/:id", authed, s.handler.Update)
	s.router.DELETE("/reviews/:id", authed, s.handler.Delete)
	s.router.POST("/reviews/:id/helpful", authed, s.handler.ToggleHelpful)
	s.router.GET("/products/:id/reviews", s.handler.ListByProduct)
	s.router.GET("/products/:id/rating", s.handler.RatingStats)
	s.router.GET("/users/:id/reviews", authed, s.handler.ListByUser)
	s.router.PATCH("/admin/reviews/:id/moderate", authed, s.handler.Moderate)
}

func (s *ReviewHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReviewHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReviewHandlerTestSuite))
}

func (s *ReviewHandlerTestSuite) TestCreate() {
	url := "/reviews"

	reqBody := builder.NewReviewBuilder().BuildCreateDTO()
	reviewID := uuid.New()

	s.Run("success: returns 201 with the new review id", func() {
		s.mockCommands.EXPECT().CreateReview(gomock.Any(), s.userID, reqBody.ToCommand()).
			Return(reviewID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.IDResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(reviewID, response.ID)
	})

	s.Run("error: returns 401 without authentication", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Authentication required")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "rating boundary OK (1)", mutate: testutil.Field("rating", 1), expectCode: http.StatusOK},
			{name: "rating boundary OK (5)", mutate: testutil.Field("rating", 5), expectCode: http.StatusOK},
			{name: "rating boundary invalid (0)", mutate: testutil.Field("rating", 0), expectCode: http.StatusBadRequest},
			{name: "rating boundary invalid (6)", mutate: testutil.Field("rating", 6), expectCode: http.StatusBadRequest},
			{name: "comment boundary OK (1000 chars)", mutate: testutil.Field("comment", strings.Repeat("a", 1000)), expectCode: http.StatusOK},
			{name: "comment boundary invalid (1001 chars)", mutate: testutil.Field("comment", strings.Repeat("a", 1001)), expectCode: http.StatusBadRequest},
			{name: "missing field: product_id", mutate: testutil.Field("product_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: rating", mutate: testutil.Field("rating", nil), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				if tc.expectCode == http.StatusOK {
					s.mockCommands.EXPECT().CreateReview(gomock.Any(), s.userID, gomock.Any()).
						Return(reviewID, nil)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				if tc.expectCode == http.StatusOK {
					httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
				}
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "not a verified buyer",
				commandsError:  commands.ErrPurchaseRequired,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Only verified buyers may review this product",
			},
			{
				name:           "already reviewed",
				commandsError:  commands.ErrDuplicateReview,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "You have already reviewed this product",
			},
			{
				name:           "product missing",
				commandsError:  commands.ErrProductNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Product not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateReview(gomock.Any(), s.userID, reqBody.ToCommand()).
					Return(uuid.Nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *ReviewHandlerTestSuite) TestGet() {
	view := builder.NewReviewBuilder().BuildView()

	s.Run("success: returns the review", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reviews/"+view.ID.String(), nil, "")

		var response queries.ReviewView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(view.Rating, response.Rating)
	})

	s.Run("error: returns 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reviews/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: returns 404 when the review does not exist", func() {
		missing := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), missing).
			Return(nil, queries.ErrReviewNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reviews/"+missing.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Review not found")
	})
}

func (s *ReviewHandlerTestSuite) TestUpdate() {
	reviewID := uuid.New()
	rating := 3
	comment := "Fabric faded after the second wash."
	body := map[string]any{"rating": rating, "comment": comment}

	s.Run("success: updates the review", func() {
		s.mockCommands.EXPECT().
			UpdateReview(gomock.Any(), reviewID, s.userID, commands.UpdateReviewRequest{Rating: &rating, Comment: &comment}).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reviews/"+reviewID.String(), body, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: returns 403 for someone else's review", func() {
		s.mockCommands.EXPECT().
			UpdateReview(gomock.Any(), reviewID, s.userID, gomock.Any()).
			Return(commands.ErrReviewAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reviews/"+reviewID.String(), body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Access denied")
	})

	s.Run("error: returns 400 for an out of range rating", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reviews/"+reviewID.String(),
			map[string]any{"rating": 6}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *ReviewHandlerTestSuite) TestDelete() {
	reviewID := uuid.New()

	s.Run("success: owner deletes their review", func() {
		s.mockCommands.EXPECT().
			DeleteReview(gomock.Any(), reviewID, s.userID, user.RoleCustomer).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/reviews/"+reviewID.String(), nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: returns 403 for someone else's review", func() {
		s.mockCommands.EXPECT().
			DeleteReview(gomock.Any(), reviewID, s.userID, user.RoleCustomer).
			Return(commands.ErrReviewAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/reviews/"+reviewID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Access denied")
	})
}

func (s *ReviewHandlerTestSuite) TestToggleHelpful() {
	reviewID := uuid.New()

	s.Run("success: records the vote", func() {
		s.mockCommands.EXPECT().ToggleHelpful(gomock.Any(), reviewID, s.userID).
			Return(true, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reviews/"+reviewID.String()+"/helpful", nil, "bearer-token")
		var res resdto.HelpfulVoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.True(res.Helpful)
	})

	s.Run("success: removes an existing vote", func() {
		s.mockCommands.EXPECT().ToggleHelpful(gomock.Any(), reviewID, s.userID).
			Return(false, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reviews/"+reviewID.String()+"/helpful", nil, "bearer-token")
		var res resdto.HelpfulVoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.False(res.Helpful)
	})

	s.Run("error: returns 404 for an unknown review", func() {
		s.mockCommands.EXPECT().ToggleHelpful(gomock.Any(), reviewID, s.userID).
			Return(false, commands.ErrReviewNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reviews/"+reviewID.String()+"/helpful", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Review not found")
	})
}

func (s *ReviewHandlerTestSuite) TestListByProduct() {
	productID := uuid.New()
	items := []*queries.ReviewListItem{
		builder.NewReviewBuilder().WithProduct(productID).BuildListItem(),
		builder.NewReviewBuilder().WithProduct(productID).WithRating(4).BuildListItem(),
	}

	s.Run("success: returns the first page without a cursor", func() {
		s.mockQueries.EXPECT().
			ListByProduct(gomock.Any(), productID, queries.ReviewFilters{}, nil, 0).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/products/"+productID.String()+"/reviews", nil, "")

		var response resdto.Page[queries.ReviewListItem]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Nil(response.NextCursor)
	})

	s.Run("success: forwards rating filters and returns the next cursor", func() {
		minRating, maxRating := 4, 5
		next := &queries.Cursor{After: queries.EncodeAfterCursor(time.Now(), items[1].ID)}
		s.mockQueries.EXPECT().
			ListByProduct(gomock.Any(), productID, queries.ReviewFilters{MinRating: &minRating, MaxRating: &maxRating}, nil, 10).
			Return(items, next, nil).Times(1)

		url := fmt.Sprintf("/products/%s/reviews?min_rating=4&max_rating=5&limit=10", productID)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.Page[queries.ReviewListItem]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().NotNil(response.NextCursor)
		s.Equal(next.After, *response.NextCursor)
	})

	s.Run("error: returns 400 for a broken cursor", func() {
		s.mockQueries.EXPECT().
			ListByProduct(gomock.Any(), productID, queries.ReviewFilters{}, &queries.Cursor{After: "garbage"}, 0).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/products/"+productID.String()+"/reviews?cursor=garbage", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid pagination cursor")
	})
}

func (s *ReviewHandlerTestSuite) TestRatingStats() {
	productID := uuid.New()

	s.Run("success: returns aggregated stats", func() {
		stats := &queries.ProductRatingStats{
			ProductID:     productID,
			TotalReviews:  12,
			AverageRating: 4.25,
			Rating5Count:  6,
			Rating4Count:  4,
			Rating3Count:  1,
			Rating2Count:  1,
		}
		s.mockQueries.EXPECT().GetProductRatingStats(gomock.Any(), productID).
			Return(stats, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/products/"+productID.String()+"/rating", nil, "")

		var response queries.ProductRatingStats
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(stats.TotalReviews, response.TotalReviews)
		s.InDelta(stats.AverageRating, response.AverageRating, 0.001)
	})
}

func (s *ReviewHandlerTestSuite) TestListByUser() {
	s.Run("success: users list their own reviews", func() {
		items := []*queries.ReviewListItem{builder.NewReviewBuilder().BuildListItem()}
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, s.userID, user.RoleCustomer.String(), nil, 0).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/users/"+s.userID.String()+"/reviews", nil, "bearer-token")

		var response resdto.Page[queries.ReviewListItem]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
	})

	s.Run("error: returns 403 for another user's reviews", func() {
		otherID := uuid.New()
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), otherID, s.userID, user.RoleCustomer.String(), nil, 0).
			Return(nil, nil, queries.ErrReviewAccess).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/users/"+otherID.String()+"/reviews", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Access denied")
	})
}

func (s *ReviewHandlerTestSuite) TestModerate() {
	reviewID := uuid.New()

	s.Run("success: approves a pending review", func() {
		s.mockCommands.EXPECT().
			ModerateReview(gomock.Any(), reviewID, commands.ModerateReviewRequest{Status: "approved"}).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch,
			"/admin/reviews/"+reviewID.String()+"/moderate", map[string]any{"status": "approved"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: returns 400 for an unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch,
			"/admin/reviews/"+reviewID.String()+"/moderate", map[string]any{"status": "published"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: returns 404 for an unknown review", func() {
		s.mockCommands.EXPECT().
			ModerateReview(gomock.Any(), reviewID, commands.ModerateReviewRequest{Status: "rejected"}).
			Return(commands.ErrReviewNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch,
			"/admin/reviews/"+reviewID.String()+"/moderate", map[string]any{"status": "rejected"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Review not found")
	})
}
