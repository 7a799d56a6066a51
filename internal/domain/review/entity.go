package review

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	id           uuid.UUID
	userID       uuid.UUID
	productID    uuid.UUID
	rating       Rating
	comment      Comment
	helpfulCount int
	status       ModerationStatus
	createdAt    time.Time
	updatedAt    time.Time
}

// NewReview builds a fresh review in pending moderation status. Purchase
// eligibility and the one-review-per-product rule are enforced by the
// usecase against the order and review stores.
func NewReview(id, userID, productID uuid.UUID, ratingValue int, commentText string, now time.Time) (*Review, error) {
	rating, err := NewRating(ratingValue)
	if err != nil {
		return nil, err
	}

	comment, err := NewComment(commentText)
	if err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Review{
		id:        id,
		userID:    userID,
		productID: productID,
		rating:    rating,
		comment:   comment,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Reconstruct(id, userID, productID uuid.UUID, rating Rating, comment Comment, helpfulCount int, status ModerationStatus, createdAt, updatedAt time.Time) *Review {
	return &Review{
		id:           id,
		userID:       userID,
		productID:    productID,
		rating:       rating,
		comment:      comment,
		helpfulCount: helpfulCount,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Edit rewrites rating and/or comment and sends the review back to pending:
// moderated content must be re-approved after any change.
func (r *Review) Edit(ratingValue *int, commentText *string, now time.Time) error {
	if ratingValue != nil {
		rating, err := NewRating(*ratingValue)
		if err != nil {
			return err
		}
		r.rating = rating
	}
	if commentText != nil {
		comment, err := NewComment(*commentText)
		if err != nil {
			return err
		}
		r.comment = comment
	}
	r.status = StatusPending
	r.updatedAt = now
	return nil
}

func (r *Review) ID() uuid.UUID            { return r.id }
func (r *Review) UserID() uuid.UUID        { return r.userID }
func (r *Review) ProductID() uuid.UUID     { return r.productID }
func (r *Review) Rating() Rating           { return r.rating }
func (r *Review) Comment() Comment         { return r.comment }
func (r *Review) HelpfulCount() int        { return r.helpfulCount }
func (r *Review) Status() ModerationStatus { return r.status }
func (r *Review) CreatedAt() time.Time     { return r.createdAt }
func (r *Review) UpdatedAt() time.Time     { return r.updatedAt }
