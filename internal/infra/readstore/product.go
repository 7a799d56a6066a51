package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductReadStore struct {
	db    db.DBTX
	clock clock.Clock
}

func NewProductReadStore(dbtx db.DBTX, clk clock.Clock) *ProductReadStore {
	return &ProductReadStore{db: dbtx, clock: clk}
}

const productViewSelect = `
	SELECT p.id, p.title, p.description, p.images, p.brand,
		p.category_id, c.name, c.slug,
		p.price_cents, p.discount_percent, p.discount_valid_till,
		p.sizes, p.stock, p.tags, p.rating, p.reviews_count,
		p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	row := r.db.QueryRow(ctx, productViewSelect+` WHERE p.id = $1`, id)

	var (
		v                   queries.ProductView
		percent             pgtype.Int4
		validTill           pgtype.Timestamptz
		createdAt           pgtype.Timestamptz
		updatedAt           pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.Images, &v.Brand,
		&v.CategoryID, &v.CategoryName, &v.CategorySlug,
		&v.PriceCents, &percent, &validTill,
		&v.Sizes, &v.Stock, &v.Tags, &v.Rating, &v.ReviewsCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get product view", err)
	}

	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	v.Discount, v.EffectivePriceCents = discountView(v.PriceCents, percent, validTill, r.clock.Now())
	return &v, nil
}

func (r *ProductReadStore) FindPage(ctx context.Context, filters queries.ProductFilters, sort queries.ProductSort, offset, limit int32) ([]*queries.ProductListItem, error) {
	where, args := buildProductFilters(filters, nil)
	query := productListSelect + where +
		" ORDER BY " + productOrderBy(sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryList(ctx, query, args)
}

func (r *ProductReadStore) Count(ctx context.Context, filters queries.ProductFilters) (int64, error) {
	where, args := buildProductFilters(filters, nil)
	query := `
		SELECT count(*)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE true` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, infra.WrapRepoErr("failed to count products", err)
	}
	return total, nil
}

// productOrderBy maps a sort option to a deterministic ORDER BY; the id
// tiebreaker keeps offset pages stable across rows with equal keys.
func productOrderBy(sort queries.ProductSort) string {
	switch sort {
	case queries.SortPriceAsc:
		return "p.price_cents ASC, p.id ASC"
	case queries.SortPriceDesc:
		return "p.price_cents DESC, p.id ASC"
	case queries.SortRating:
		return "p.rating DESC, p.reviews_count DESC, p.id ASC"
	case queries.SortName:
		return "p.title ASC, p.id ASC"
	default:
		return "p.created_at DESC, p.id DESC"
	}
}

func (r *ProductReadStore) ListBrands(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT brand FROM products WHERE brand <> '' ORDER BY brand`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list brands", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, infra.WrapRepoErr("failed to scan brand", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate brands", err)
	}
	return brands, nil
}

const productListSelect = `
	SELECT p.id, p.title, p.images, p.brand, c.slug,
		p.price_cents, p.discount_percent, p.discount_valid_till,
		p.stock, p.rating, p.reviews_count, p.created_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
	WHERE true`

// buildProductFilters appends one AND clause per set filter, numbering the
// placeholders after any args already collected.
func buildProductFilters(f queries.ProductFilters, args []any) (string, []any) {
	var sb strings.Builder
	add := func(clause string, value any) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND "+clause, len(args))
	}

	if f.CategorySlug != nil {
		add("c.slug = $%d", *f.CategorySlug)
	}
	if f.Brand != nil {
		add("p.brand = $%d", *f.Brand)
	}
	if f.Size != nil {
		add("$%d = ANY(p.sizes)", *f.Size)
	}
	if f.Tag != nil {
		add("$%d = ANY(p.tags)", *f.Tag)
	}
	if f.MinPriceCents != nil {
		add("p.price_cents >= $%d", *f.MinPriceCents)
	}
	if f.MaxPriceCents != nil {
		add("p.price_cents <= $%d", *f.MaxPriceCents)
	}
	if f.MinRating != nil {
		add("p.rating >= $%d", *f.MinRating)
	}
	if f.InStock {
		sb.WriteString(" AND p.stock > 0")
	}
	if f.Search != nil {
		args = append(args, *f.Search)
		n := len(args)
		fmt.Fprintf(&sb, " AND (p.title ILIKE '%%' || $%d || '%%' OR p.description ILIKE '%%' || $%d || '%%')", n, n)
	}
	return sb.String(), args
}

func (r *ProductReadStore) queryList(ctx context.Context, query string, args []any) ([]*queries.ProductListItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	now := r.clock.Now()
	var items []*queries.ProductListItem
	for rows.Next() {
		var (
			item      queries.ProductListItem
			percent   pgtype.Int4
			validTill pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Images, &item.Brand, &item.CategorySlug,
			&item.PriceCents, &percent, &validTill,
			&item.Stock, &item.Rating, &item.ReviewsCount, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product list item", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		item.Discount, item.EffectivePriceCents = discountView(item.PriceCents, percent, validTill, now)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return items, nil
}

// discountView mirrors the domain's effective price computation for the read
// side: half-up rounding, discount honored only inside its validity window.
func discountView(priceCents int64, percent pgtype.Int4, validTill pgtype.Timestamptz, now time.Time) (*queries.DiscountView, int64) {
	if !percent.Valid || !validTill.Valid || !now.Before(validTill.Time) {
		return nil, priceCents
	}
	off := (priceCents*int64(percent.Int32) + 50) / 100
	return &queries.DiscountView{
		Percent:   int(percent.Int32),
		ValidTill: validTill.Time,
	}, priceCents - off
}
