package repository

import (
	"context"

	"storefront/internal/domain/review"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(ctx context.Context, tx db.DBTX, rev *review.Review) (uuid.UUID, error) {
	query := `
		INSERT INTO reviews (id, user_id, product_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		rev.ID(), rev.UserID(), rev.ProductID(), rev.Rating().Value(), rev.Comment().String(), rev.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create review", err)
	}
	return id, nil
}

func (r *ReviewRepository) Update(ctx context.Context, tx db.DBTX, rev *review.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, status = $4, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, rev.ID(), rev.Rating().Value(), rev.Comment().String(), rev.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to update review", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("review not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, tx db.DBTX, reviewID uuid.UUID) (*review.Review, error) {
	var (
		id, userID, productID uuid.UUID
		rating                int32
		comment, status       string
		helpfulCount          int32
		createdAt, updatedAt  pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx,
		`SELECT id, user_id, product_id, rating, comment, helpful_count, status, created_at, updated_at
		 FROM reviews WHERE id = $1`, reviewID,
	).Scan(&id, &userID, &productID, &rating, &comment, &helpfulCount, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("review not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find review", err)
	}

	ratingVO, err := review.NewRating(int(rating))
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored rating", err)
	}
	commentVO, err := review.NewComment(comment)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored comment", err)
	}
	statusVO, err := review.NewModerationStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored review status", err)
	}

	return review.Reconstruct(
		id, userID, productID, ratingVO, commentVO, int(helpfulCount), statusVO,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, tx db.DBTX, reviewID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("review not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReviewRepository) SetModerationStatus(ctx context.Context, tx db.DBTX, reviewID uuid.UUID, status review.ModerationStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reviews SET status = $2, updated_at = now() WHERE id = $1`,
		reviewID, status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set review status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("review not found", nil, infra.KindNotFound)
	}
	return nil
}

// ToggleHelpfulVote adds the user's vote if absent, removes it if present,
// and keeps helpful_count in lockstep with the vote ledger. Returns whether
// the vote exists after the call.
func (r *ReviewRepository) ToggleHelpfulVote(ctx context.Context, tx db.DBTX, reviewID, userID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO review_helpful_votes (review_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (review_id, user_id) DO NOTHING`,
		reviewID, userID,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to record helpful vote", err)
	}
	if tag.RowsAffected() > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = $1`, reviewID,
		)
		if err != nil {
			return false, infra.WrapRepoErr("failed to bump helpful count", err)
		}
		return true, nil
	}

	if _, err = tx.Exec(ctx,
		`DELETE FROM review_helpful_votes WHERE review_id = $1 AND user_id = $2`,
		reviewID, userID,
	); err != nil {
		return false, infra.WrapRepoErr("failed to remove helpful vote", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE reviews SET helpful_count = GREATEST(helpful_count - 1, 0) WHERE id = $1`, reviewID,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to drop helpful count", err)
	}
	return false, nil
}

// HasPurchased reports whether the user has a shipped or delivered order
// containing the product. Only verified buyers may review.
func (r *ReviewRepository) HasPurchased(ctx context.Context, tx db.DBTX, userID, productID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status IN ('shipped', 'delivered')
		)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check purchase history", err)
	}
	return exists, nil
}
