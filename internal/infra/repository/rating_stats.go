package repository

import (
	"context"

	"storefront/internal/domain/review"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type RatingStatsRepository struct{}

func NewRatingStatsRepository() *RatingStatsRepository {
	return &RatingStatsRepository{}
}

// RecalcProductRating recomputes the denormalized rating columns from the
// approved reviews. Callers run it in the same transaction as the write that
// changed the review set, so readers never observe a half-updated aggregate.
func (r *RatingStatsRepository) RecalcProductRating(ctx context.Context, tx db.DBTX, productID uuid.UUID) error {
	query := `
		UPDATE products
		SET rating = COALESCE(s.average_rating, 0),
			reviews_count = COALESCE(s.total_reviews, 0),
			updated_at = now()
		FROM (
			SELECT round(avg(rating)::numeric, 1)::float8 AS average_rating, count(*) AS total_reviews
			FROM reviews
			WHERE product_id = $1 AND status = $2
		) s
		WHERE products.id = $1`

	_, err := tx.Exec(ctx, query, productID, review.StatusApproved.String())
	if err != nil {
		return infra.WrapRepoErr("failed to recalc product rating", err)
	}
	return nil
}
