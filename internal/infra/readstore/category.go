package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CategoryReadStore struct {
	db db.DBTX
}

func NewCategoryReadStore(dbtx db.DBTX) *CategoryReadStore {
	return &CategoryReadStore{db: dbtx}
}

const categoryViewSelect = `
	SELECT c.id, c.name, c.slug, c.image, c.is_active,
		(SELECT count(*) FROM products p WHERE p.category_id = c.id) AS products_count,
		c.created_at, c.updated_at
	FROM categories c`

func (r *CategoryReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CategoryView, error) {
	row := r.db.QueryRow(ctx, categoryViewSelect+` WHERE c.id = $1`, id)
	view, err := scanCategory(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("category not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get category view", err)
	}
	return view, nil
}

func (r *CategoryReadStore) FindBySlug(ctx context.Context, slug string) (*queries.CategoryView, error) {
	row := r.db.QueryRow(ctx, categoryViewSelect+` WHERE c.slug = $1`, slug)
	view, err := scanCategory(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("category not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get category view", err)
	}
	return view, nil
}

func (r *CategoryReadStore) FindAll(ctx context.Context, activeOnly bool) ([]*queries.CategoryView, error) {
	query := categoryViewSelect
	if activeOnly {
		query += ` WHERE c.is_active`
	}
	query += ` ORDER BY c.name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list categories", err)
	}
	defer rows.Close()

	var views []*queries.CategoryView
	for rows.Next() {
		view, err := scanCategory(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan category", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate categories", err)
	}
	return views, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCategory(row scannable) (*queries.CategoryView, error) {
	var (
		v         queries.CategoryView
		image     pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&v.ID, &v.Name, &v.Slug, &image, &v.IsActive, &v.ProductsCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.Image = pgconv.StringPtrFromPgtype(image)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}
