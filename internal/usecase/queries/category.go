package queries

import (
	"context"
	"time"

	"storefront/internal/infra"

	"github.com/google/uuid"
)

type CategoryView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Image         *string   `json:"image,omitempty"`
	IsActive      bool      `json:"is_active"`
	ProductsCount int64     `json:"products_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CategoryReadStore interface {
	FindBySlug(ctx context.Context, slug string) (*CategoryView, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*CategoryView, error)
}

type CategoryQueries interface {
	GetBySlug(ctx context.Context, slug string) (*CategoryView, error)
	List(ctx context.Context, activeOnly bool) ([]*CategoryView, error)
}

type categoryQueriesImpl struct {
	repo CategoryReadStore
}

func NewCategoryQueries(repo CategoryReadStore) CategoryQueries {
	return &categoryQueriesImpl{repo: repo}
}

func (q *categoryQueriesImpl) GetBySlug(ctx context.Context, slug string) (*CategoryView, error) {
	view, err := q.repo.FindBySlug(ctx, slug)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *categoryQueriesImpl) List(ctx context.Context, activeOnly bool) ([]*CategoryView, error) {
	return q.repo.FindAll(ctx, activeOnly)
}
