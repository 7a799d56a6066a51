package queries

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound  = errs.New("product not found")
	ErrCategoryNotFound = errs.New("category not found")
)

type DiscountView struct {
	Percent   int       `json:"percent"`
	ValidTill time.Time `json:"valid_till"`
}

type ProductView struct {
	ID                  uuid.UUID     `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Images              []string      `json:"images"`
	Brand               string        `json:"brand"`
	CategoryID          uuid.UUID     `json:"category_id"`
	CategoryName        string        `json:"category_name"`
	CategorySlug        string        `json:"category_slug"`
	PriceCents          int64         `json:"price_cents"`
	Discount            *DiscountView `json:"discount,omitempty"`
	EffectivePriceCents int64         `json:"effective_price_cents"`
	Sizes               []string      `json:"sizes"`
	Stock               int32         `json:"stock"`
	Tags                []string      `json:"tags"`
	Rating              float64       `json:"rating"`
	ReviewsCount        int32         `json:"reviews_count"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type ProductListItem struct {
	ID                  uuid.UUID     `json:"id"`
	Title               string        `json:"title"`
	Images              []string      `json:"images"`
	Brand               string        `json:"brand"`
	CategorySlug        string        `json:"category_slug"`
	PriceCents          int64         `json:"price_cents"`
	Discount            *DiscountView `json:"discount,omitempty"`
	EffectivePriceCents int64         `json:"effective_price_cents"`
	Stock               int32         `json:"stock"`
	Rating              float64       `json:"rating"`
	ReviewsCount        int32         `json:"reviews_count"`
	CreatedAt           time.Time     `json:"created_at"`
}

type ProductFilters struct {
	CategorySlug  *string
	Brand         *string
	Size          *string
	Tag           *string
	MinPriceCents *int64
	MaxPriceCents *int64
	MinRating     *float64
	Search        *string
	InStock       bool
}

// ProductSort selects the catalog ordering. Unknown values fall back to
// SortNewest so a stale client link still renders a page.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
	SortName      ProductSort = "name"
)

func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return ProductSort(s)
	default:
		return SortNewest
	}
}

// Pagination describes an offset page. Catalog browsing wants totals and
// arbitrary sort orders, which keyset cursors cannot give, so products page
// by offset while the feed-like lists (orders, reviews) stay on cursors.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ProductPage struct {
	Items      []*ProductListItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

type ProductReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	FindPage(ctx context.Context, filters ProductFilters, sort ProductSort, offset, limit int32) ([]*ProductListItem, error)
	Count(ctx context.Context, filters ProductFilters) (int64, error)
	ListBrands(ctx context.Context) ([]string, error)
}

type ProductQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context, filters ProductFilters, sort ProductSort, page, limit int) (*ProductPage, error)
	ListBrands(ctx context.Context) ([]string, error)
}

type productQueriesImpl struct {
	repo ProductReadStore
}

func NewProductQueries(repo ProductReadStore) ProductQueries {
	return &productQueriesImpl{repo: repo}
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *productQueriesImpl) List(ctx context.Context, filters ProductFilters, sort ProductSort, page, limit int) (*ProductPage, error) {
	limit = ValidateLimit(limit)
	if page < 1 {
		page = 1
	}

	total, err := q.repo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}

	var rows []*ProductListItem
	if total > 0 {
		offset := (page - 1) * limit
		rows, err = q.repo.FindPage(ctx, filters, sort, int32(offset), int32(limit))
		if err != nil {
			return nil, err
		}
	}
	if rows == nil {
		rows = []*ProductListItem{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ProductPage{
		Items: rows,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (q *productQueriesImpl) ListBrands(ctx context.Context) ([]string, error) {
	return q.repo.ListBrands(ctx)
}
