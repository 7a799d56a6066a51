//go:build unit || e2e

package builder

import (
	"time"

	domreview "storefront/internal/domain/review"
	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReviewBuilder struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	UserName     string
	ProductID    uuid.UUID
	ProductTitle string
	Rating       int
	Comment      string
	HelpfulCount int
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewReviewBuilder() *ReviewBuilder {
	now := time.Now()
	return &ReviewBuilder{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		UserName:     "Test Reviewer",
		ProductID:    uuid.New(),
		ProductTitle: "Test Product",
		Rating:       5,
		Comment:      "Great quality, fits perfectly.",
		HelpfulCount: 0,
		Status:       "approved",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (b *ReviewBuilder) BuildDomain() (*domreview.Review, error) {
	return domreview.NewReview(b.ID, b.UserID, b.ProductID, b.Rating, b.Comment, b.CreatedAt)
}

func (b *ReviewBuilder) BuildCreateDTO() reqdto.CreateReviewRequest {
	return reqdto.CreateReviewRequest{
		ProductID: b.ProductID,
		Rating:    b.Rating,
		Comment:   b.Comment,
	}
}

func (b *ReviewBuilder) BuildView() *queries.ReviewView {
	return &queries.ReviewView{
		ID:           b.ID,
		UserID:       b.UserID,
		UserName:     b.UserName,
		ProductID:    b.ProductID,
		ProductTitle: b.ProductTitle,
		Rating:       int32(b.Rating),
		Comment:      b.Comment,
		HelpfulCount: int32(b.HelpfulCount),
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (b *ReviewBuilder) BuildListItem() *queries.ReviewListItem {
	return &queries.ReviewListItem{
		ID:           b.ID,
		UserName:     b.UserName,
		Rating:       int32(b.Rating),
		Comment:      b.Comment,
		HelpfulCount: int32(b.HelpfulCount),
		CreatedAt:    b.CreatedAt,
	}
}

func (b *ReviewBuilder) WithRating(rating int) *ReviewBuilder {
	b.Rating = rating
	return b
}

func (b *ReviewBuilder) WithComment(comment string) *ReviewBuilder {
	b.Comment = comment
	return b
}

func (b *ReviewBuilder) WithStatus(status string) *ReviewBuilder {
	b.Status = status
	return b
}

func (b *ReviewBuilder) WithUser(userID uuid.UUID) *ReviewBuilder {
	b.UserID = userID
	return b
}

func (b *ReviewBuilder) WithProduct(productID uuid.UUID) *ReviewBuilder {
	b.ProductID = productID
	return b
}
