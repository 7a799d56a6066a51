package repository

import (
	"context"

	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const productColumns = `id, title, description, images, brand, category_id, price_cents,
	discount_percent, discount_valid_till, sizes, stock, tags, rating, reviews_count,
	created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, tx db.DBTX, p *catalog.Product) (uuid.UUID, error) {
	query := `
		INSERT INTO products (id, title, description, images, brand, category_id, price_cents,
			discount_percent, discount_valid_till, sizes, stock, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	percent, validTill := discountColumns(p.Discount())
	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		p.ID(), p.Title(), p.Description(), p.Images(), p.Brand(), p.CategoryID(),
		p.PriceCents(), percent, validTill, p.Sizes(), p.Stock(), p.Tags(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create product", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, tx db.DBTX, p *catalog.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, images = $4, brand = $5, category_id = $6,
			price_cents = $7, discount_percent = $8, discount_valid_till = $9,
			sizes = $10, stock = $11, tags = $12, updated_at = now()
		WHERE id = $1`

	percent, validTill := discountColumns(p.Discount())
	tag, err := tx.Exec(ctx, query,
		p.ID(), p.Title(), p.Description(), p.Images(), p.Brand(), p.CategoryID(),
		p.PriceCents(), percent, validTill, p.Sizes(), p.Stock(), p.Tags(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, tx db.DBTX, productID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, tx db.DBTX, productID uuid.UUID) (*catalog.Product, error) {
	row := tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	p, err := scanProduct(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, tx db.DBTX, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	rows, err := tx.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, productIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find products", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]*catalog.Product, len(productIDs))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		result[p.ID()] = p
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return result, nil
}

// DecrementStock only succeeds while enough stock remains; the WHERE clause
// makes the check-and-decrement a single atomic statement.
func (r *ProductRepository) DecrementStock(ctx context.Context, tx db.DBTX, productID uuid.UUID, quantity int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
	}
	return nil
}

func (r *ProductRepository) RestoreStock(ctx context.Context, tx db.DBTX, productID uuid.UUID, quantity int) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to restore stock", err)
	}
	return nil
}

type productRow interface {
	Scan(dest ...any) error
}

func scanProduct(row productRow) (*catalog.Product, error) {
	var (
		id, categoryID      uuid.UUID
		title, description  string
		brand               string
		images, sizes, tags []string
		priceCents          int64
		percent             pgtype.Int4
		validTill           pgtype.Timestamptz
		stock, reviewsCount int32
		rating              float64
		createdAt           pgtype.Timestamptz
		updatedAt           pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &title, &description, &images, &brand, &categoryID, &priceCents,
		&percent, &validTill, &sizes, &stock, &tags, &rating, &reviewsCount,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var discount *catalog.Discount
	if percent.Valid && validTill.Valid {
		d, err := catalog.NewDiscount(int(percent.Int32), validTill.Time)
		if err == nil {
			discount = &d
		}
	}

	return catalog.ReconstructProduct(
		id, title, description, images, brand, categoryID, priceCents,
		discount, sizes, int(stock), tags, rating, int(reviewsCount),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func discountColumns(d *catalog.Discount) (pgtype.Int4, pgtype.Timestamptz) {
	if d == nil {
		return pgtype.Int4{}, pgtype.Timestamptz{}
	}
	return pgtype.Int4{Int32: int32(d.Percent()), Valid: true}, pgconv.TimeToPgtype(d.ValidTill())
}
