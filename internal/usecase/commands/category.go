package commands

import (
	"context"

	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/patch"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateCategory = errs.New("category already exists")
	ErrCategoryInUse     = errs.New("category still has products")
)

type CreateCategoryRequest struct {
	Name     string
	Slug     string
	Image    *string
	IsActive bool
}

type UpdateCategoryRequest struct {
	Name     *string
	Slug     *string
	Image    *string
	IsActive *bool
}

type CategoryCommands interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type categoryCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore CategoryFinder
}

// CategoryFinder is the slice of the read side the update path needs to load
// the current state.
type CategoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.CategoryView, error)
}

func NewCategoryCommands(uow shared.UnitOfWork, readStore CategoryFinder) CategoryCommands {
	return &categoryCommandsImpl{uow: uow, readStore: readStore}
}

func (uc *categoryCommandsImpl) CreateCategory(ctx context.Context, req CreateCategoryRequest) (uuid.UUID, error) {
	category, err := catalog.NewCategory(uuid.Nil, req.Name, req.Slug, req.Image, req.IsActive)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, txErr := tx.Categories().Create(ctx, tx.DB(), category)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindDuplicateKey) {
				return ErrDuplicateCategory
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

func (uc *categoryCommandsImpl) UpdateCategory(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) error {
	current, err := uc.readStore.FindByID(ctx, categoryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	image := current.Image
	if req.Image != nil {
		image = req.Image
	}

	// An explicit new name without a slug re-derives the slug from the name.
	slug := patch.Coalesce(req.Slug, "")
	if slug == "" && req.Name == nil {
		slug = current.Slug
	}

	category, err := catalog.NewCategory(
		categoryID,
		patch.Coalesce(req.Name, current.Name),
		slug,
		image,
		patch.Coalesce(req.IsActive, current.IsActive),
	)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if txErr := tx.Categories().Update(ctx, tx.DB(), category); txErr != nil {
			if infra.IsKind(txErr, infra.KindDuplicateKey) {
				return ErrDuplicateCategory
			}
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrCategoryNotFound
			}
			return txErr
		}
		return nil
	})
}

// DeleteCategory refuses to orphan products; reassign them first.
func (uc *categoryCommandsImpl) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inUse, err := tx.Categories().HasProducts(ctx, tx.DB(), categoryID)
		if err != nil {
			return err
		}
		if inUse {
			return ErrCategoryInUse
		}
		if err := tx.Categories().Delete(ctx, tx.DB(), categoryID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCategoryNotFound
			}
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrCategoryInUse
			}
			return err
		}
		return nil
	})
}
