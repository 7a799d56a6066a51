package repository

import (
	"context"

	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) Create(ctx context.Context, tx db.DBTX, c *catalog.Category) (uuid.UUID, error) {
	query := `
		INSERT INTO categories (id, name, slug, image, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, c.ID(), c.Name(), c.Slug(), c.Image(), c.IsActive()).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create category", err)
	}
	return id, nil
}

func (r *CategoryRepository) Update(ctx context.Context, tx db.DBTX, c *catalog.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, image = $4, is_active = $5, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, c.ID(), c.Name(), c.Slug(), c.Image(), c.IsActive())
	if err != nil {
		return infra.WrapRepoErr("failed to update category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, tx db.DBTX, categoryID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CategoryRepository) HasProducts(ctx context.Context, tx db.DBTX, categoryID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check category products", err)
	}
	return exists, nil
}
