//go:build unit

package review_test

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/review"
	"storefront/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReviewBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewReviewBuilder()
			tc.mutate(b)
			_, err := b.BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReview(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewReviewBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, 5, actual.Rating().Value())
		assert.Equal(t, "Great quality, fits perfectly.", actual.Comment().String())
		assert.Equal(t, review.StatusPending, actual.Status())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
	})

	t.Run("rating validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "below minimum rating",
				mutate: func(b *builder.ReviewBuilder) { b.WithRating(0) },
				errIs:  review.ErrInvalidRating,
			},
			{
				name:   "minimum valid rating",
				mutate: func(b *builder.ReviewBuilder) { b.WithRating(1) },
			},
			{
				name:   "maximum valid rating",
				mutate: func(b *builder.ReviewBuilder) { b.WithRating(5) },
			},
			{
				name:   "above maximum rating",
				mutate: func(b *builder.ReviewBuilder) { b.WithRating(6) },
				errIs:  review.ErrInvalidRating,
			},
			{
				name:   "negative rating",
				mutate: func(b *builder.ReviewBuilder) { b.WithRating(-1) },
				errIs:  review.ErrInvalidRating,
			},
		})
	})

	t.Run("comment validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty comment is a rating-only review",
				mutate: func(b *builder.ReviewBuilder) { b.WithComment("") },
			},
			{
				name: "maximum length comment",
				mutate: func(b *builder.ReviewBuilder) {
					b.WithComment(strings.Repeat("a", review.MaxCommentLength))
				},
			},
			{
				name: "comment too long",
				mutate: func(b *builder.ReviewBuilder) {
					b.WithComment(strings.Repeat("a", review.MaxCommentLength+1))
				},
				errIs: review.ErrCommentTooLong,
			},
		})
	})

	t.Run("comment is trimmed", func(t *testing.T) {
		actual, err := builder.NewReviewBuilder().WithComment("  nice  ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "nice", actual.Comment().String())
	})
}

func TestReviewEdit(t *testing.T) {
	build := func(t *testing.T) *review.Review {
		t.Helper()
		r, err := builder.NewReviewBuilder().BuildDomain()
		require.NoError(t, err)
		return r
	}

	t.Run("edit updates fields and resets moderation to pending", func(t *testing.T) {
		r := build(t)
		later := r.CreatedAt().Add(time.Hour)
		rating := 2
		comment := "Changed my mind after a week."

		err := r.Edit(&rating, &comment, later)
		require.NoError(t, err)

		assert.Equal(t, 2, r.Rating().Value())
		assert.Equal(t, comment, r.Comment().String())
		assert.Equal(t, review.StatusPending, r.Status())
		assert.Equal(t, later, r.UpdatedAt())
	})

	t.Run("approved review goes back to pending after an edit", func(t *testing.T) {
		r, err := builder.NewReviewBuilder().BuildDomain()
		require.NoError(t, err)
		approved := review.Reconstruct(r.ID(), r.UserID(), r.ProductID(), r.Rating(), r.Comment(), 3, review.StatusApproved, r.CreatedAt(), r.UpdatedAt())

		rating := 4
		require.NoError(t, approved.Edit(&rating, nil, time.Now()))

		assert.Equal(t, review.StatusPending, approved.Status())
		assert.Equal(t, 3, approved.HelpfulCount())
	})

	t.Run("invalid edit leaves the review untouched", func(t *testing.T) {
		r := build(t)
		rating := 9

		err := r.Edit(&rating, nil, time.Now())
		assert.ErrorIs(t, err, review.ErrInvalidRating)
		assert.Equal(t, 5, r.Rating().Value())
	})

	t.Run("nil fields keep current values", func(t *testing.T) {
		r := build(t)
		later := r.CreatedAt().Add(time.Hour)

		require.NoError(t, r.Edit(nil, nil, later))

		assert.Equal(t, 5, r.Rating().Value())
		assert.Equal(t, review.StatusPending, r.Status())
	})
}

func TestModerationStatus(t *testing.T) {
	t.Run("accepts the known statuses", func(t *testing.T) {
		for _, s := range []string{"pending", "approved", "rejected"} {
			status, err := review.NewModerationStatus(s)
			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		_, err := review.NewModerationStatus("published")
		assert.ErrorIs(t, err, review.ErrInvalidModerationStatus)
	})
}
