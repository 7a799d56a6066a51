package readstore

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReviewReadStore struct {
	db db.DBTX
}

func NewReviewReadStore(dbtx db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{db: dbtx}
}

func (r *ReviewReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReviewView, error) {
	query := `
		SELECT r.id, r.user_id, u.name, r.product_id, p.title,
			r.rating, r.comment, r.helpful_count, r.status, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN products p ON p.id = r.product_id
		WHERE r.id = $1`

	var (
		v         queries.ReviewView
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.UserName, &v.ProductID, &v.ProductTitle,
		&v.Rating, &v.Comment, &v.HelpfulCount, &v.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("review not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get review view", err)
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}

const reviewListSelect = `
	SELECT r.id, u.name, r.rating, r.comment, r.helpful_count, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

// Product review pages only show approved reviews; pending and rejected ones
// stay visible to their author via the user listing.
func (r *ReviewReadStore) FindByProductFirstPage(ctx context.Context, productID uuid.UUID, limit int32, minRating, maxRating *int) ([]*queries.ReviewListItem, error) {
	query := reviewListSelect + `
		WHERE r.product_id = $1 AND r.status = 'approved'
			AND ($2::int IS NULL OR r.rating >= $2)
			AND ($3::int IS NULL OR r.rating <= $3)
		ORDER BY r.created_at DESC, r.id DESC LIMIT $4`
	return r.queryList(ctx, query, productID, minRating, maxRating, limit)
}

func (r *ReviewReadStore) FindByProductKeyset(ctx context.Context, productID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32, minRating, maxRating *int) ([]*queries.ReviewListItem, error) {
	query := reviewListSelect + `
		WHERE r.product_id = $1 AND r.status = 'approved'
			AND ($2::int IS NULL OR r.rating >= $2)
			AND ($3::int IS NULL OR r.rating <= $3)
			AND (r.created_at, r.id) < ($4, $5)
		ORDER BY r.created_at DESC, r.id DESC LIMIT $6`
	return r.queryList(ctx, query, productID, minRating, maxRating, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
}

func (r *ReviewReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReviewListItem, error) {
	query := reviewListSelect + `
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC LIMIT $2`
	return r.queryList(ctx, query, userID, limit)
}

func (r *ReviewReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReviewListItem, error) {
	query := reviewListSelect + `
		WHERE r.user_id = $1 AND (r.created_at, r.id) < ($2, $3)
		ORDER BY r.created_at DESC, r.id DESC LIMIT $4`
	return r.queryList(ctx, query, userID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
}

func (r *ReviewReadStore) GetProductRatingStats(ctx context.Context, productID uuid.UUID) (*queries.ProductRatingStats, error) {
	query := `
		SELECT count(*),
			COALESCE(avg(rating), 0)::float8,
			count(*) FILTER (WHERE rating = 1),
			count(*) FILTER (WHERE rating = 2),
			count(*) FILTER (WHERE rating = 3),
			count(*) FILTER (WHERE rating = 4),
			count(*) FILTER (WHERE rating = 5)
		FROM reviews
		WHERE product_id = $1 AND status = 'approved'`

	stats := &queries.ProductRatingStats{ProductID: productID}
	err := r.db.QueryRow(ctx, query, productID).Scan(
		&stats.TotalReviews, &stats.AverageRating,
		&stats.Rating1Count, &stats.Rating2Count, &stats.Rating3Count,
		&stats.Rating4Count, &stats.Rating5Count,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get product rating stats", err)
	}
	return stats, nil
}

func (r *ReviewReadStore) queryList(ctx context.Context, query string, args ...any) ([]*queries.ReviewListItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reviews", err)
	}
	defer rows.Close()

	var items []*queries.ReviewListItem
	for rows.Next() {
		var (
			item      queries.ReviewListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.UserName, &item.Rating, &item.Comment, &item.HelpfulCount, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan review list item", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reviews", err)
	}
	return items, nil
}
