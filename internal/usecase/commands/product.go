package commands

import (
	"context"
	"time"

	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/patch"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound         = errs.New("product not found")
	ErrCategoryNotFound        = errs.New("category not found")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type DiscountInput struct {
	Percent   int
	ValidTill time.Time
}

type CreateProductRequest struct {
	Title       string
	Description string
	Images      []string
	Brand       string
	CategoryID  uuid.UUID
	PriceCents  int64
	Discount    *DiscountInput
	Sizes       []string
	Stock       int
	Tags        []string
}

// UpdateProductRequest patches only the fields that are set. RemoveDiscount
// clears the discount; it wins over Discount when both are present.
type UpdateProductRequest struct {
	Title          *string
	Description    *string
	Images         []string
	Brand          *string
	CategoryID     *uuid.UUID
	PriceCents     *int64
	Discount       *DiscountInput
	RemoveDiscount bool
	Sizes          []string
	Stock          *int
	Tags           []string
}

type ProductCommands interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type productCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewProductCommands(uow shared.UnitOfWork) ProductCommands {
	return &productCommandsImpl{uow: uow}
}

func (uc *productCommandsImpl) CreateProduct(ctx context.Context, req CreateProductRequest) (uuid.UUID, error) {
	discount, err := toDiscount(req.Discount)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	product, err := catalog.NewProduct(
		uuid.Nil, req.Title, req.Description, req.Images, req.Brand,
		req.CategoryID, req.PriceCents, discount, req.Sizes, req.Stock, req.Tags,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, txErr := tx.Products().Create(ctx, tx.DB(), product)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindForeignKeyViolated) {
				return ErrCategoryNotFound
			}
			return txErr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *productCommandsImpl) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Products().FindByID(ctx, tx.DB(), productID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		discount := current.Discount()
		if req.RemoveDiscount {
			discount = nil
		} else if req.Discount != nil {
			d, derr := toDiscount(req.Discount)
			if derr != nil {
				return errs.Mark(derr, ErrDomainValidation)
			}
			discount = d
		}

		images := current.Images()
		if req.Images != nil {
			images = req.Images
		}
		sizes := current.Sizes()
		if req.Sizes != nil {
			sizes = req.Sizes
		}
		tags := current.Tags()
		if req.Tags != nil {
			tags = req.Tags
		}

		updated, err := catalog.NewProduct(
			productID,
			patch.Coalesce(req.Title, current.Title()),
			patch.Coalesce(req.Description, current.Description()),
			images,
			patch.Coalesce(req.Brand, current.Brand()),
			patch.Coalesce(req.CategoryID, current.CategoryID()),
			patch.Coalesce(req.PriceCents, current.PriceCents()),
			discount,
			sizes,
			patch.Coalesce(req.Stock, current.Stock()),
			tags,
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Products().Update(ctx, tx.DB(), updated); err != nil {
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrCategoryNotFound
			}
			return err
		}
		return nil
	})
}

func (uc *productCommandsImpl) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Products().Delete(ctx, tx.DB(), productID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		return nil
	})
}

func toDiscount(in *DiscountInput) (*catalog.Discount, error) {
	if in == nil {
		return nil, nil
	}
	d, err := catalog.NewDiscount(in.Percent, in.ValidTill)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
