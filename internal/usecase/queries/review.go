package queries

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errs.New("review not found")
	ErrReviewAccess   = errs.New("review access denied")
)

type ReviewView struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	Rating       int32     `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	HelpfulCount int32     `json:"helpful_count"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ReviewListItem struct {
	ID           uuid.UUID `json:"id"`
	UserName     string    `json:"user_name"`
	Rating       int32     `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	HelpfulCount int32     `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProductRatingStats struct {
	ProductID     uuid.UUID `json:"product_id"`
	TotalReviews  int32     `json:"total_reviews"`
	AverageRating float64   `json:"average_rating"`
	Rating1Count  int32     `json:"rating_1_count"`
	Rating2Count  int32     `json:"rating_2_count"`
	Rating3Count  int32     `json:"rating_3_count"`
	Rating4Count  int32     `json:"rating_4_count"`
	Rating5Count  int32     `json:"rating_5_count"`
}

type ReviewFilters struct {
	MinRating *int
	MaxRating *int
}

type ReviewReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReviewView, error)
	FindByProductFirstPage(ctx context.Context, productID uuid.UUID, limit int32, minRating, maxRating *int) ([]*ReviewListItem, error)
	FindByProductKeyset(ctx context.Context, productID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32, minRating, maxRating *int) ([]*ReviewListItem, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReviewListItem, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ReviewListItem, error)
	GetProductRatingStats(ctx context.Context, productID uuid.UUID) (*ProductRatingStats, error)
}

type ReviewQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReviewView, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, filters ReviewFilters, cursor *Cursor, limit int) ([]*ReviewListItem, *Cursor, error)
	ListByUser(ctx context.Context, userID uuid.UUID, actorID uuid.UUID, actorRole string, cursor *Cursor, limit int) ([]*ReviewListItem, *Cursor, error)
	GetProductRatingStats(ctx context.Context, productID uuid.UUID) (*ProductRatingStats, error)
}

type reviewQueriesImpl struct {
	repo ReviewReadStore
}

func NewReviewQueries(repo ReviewReadStore) ReviewQueries {
	return &reviewQueriesImpl{repo: repo}
}

func (q *reviewQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReviewView, error) {
	rv, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (q *reviewQueriesImpl) ListByProduct(ctx context.Context, productID uuid.UUID, filters ReviewFilters, cursor *Cursor, limit int) ([]*ReviewListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*ReviewListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByProductFirstPage(ctx, productID, int32(limit+1), filters.MinRating, filters.MaxRating)
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindByProductKeyset(ctx, productID, lastCreatedAt, lastID, int32(limit+1), filters.MinRating, filters.MaxRating)
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateReviews(rows, limit)
}

func (q *reviewQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, actorID uuid.UUID, actorRole string, cursor *Cursor, limit int) ([]*ReviewListItem, *Cursor, error) {
	switch actorRole {
	case RoleAdmin, RoleStaff:
	case RoleCustomer:
		if userID != actorID {
			return nil, nil, ErrReviewAccess
		}
	default:
		return nil, nil, ErrReviewAccess
	}

	limit = ValidateLimit(limit)
	var rows []*ReviewListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByUserFirstPage(ctx, userID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindByUserKeyset(ctx, userID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateReviews(rows, limit)
}

func (q *reviewQueriesImpl) GetProductRatingStats(ctx context.Context, productID uuid.UUID) (*ProductRatingStats, error) {
	return q.repo.GetProductRatingStats(ctx, productID)
}

func paginateReviews(rows []*ReviewListItem, limit int) ([]*ReviewListItem, *Cursor, error) {
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
