package commands

import (
	"context"

	"storefront/internal/domain/review"
	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound     = errs.New("review not found")
	ErrReviewAccessDenied = errs.New("review belongs to another user")
	ErrDuplicateReview    = errs.New("product already reviewed by this user")
	ErrPurchaseRequired   = errs.New("only verified buyers may review")
)

type CreateReviewRequest struct {
	ProductID uuid.UUID
	Rating    int
	Comment   string
}

type UpdateReviewRequest struct {
	Rating  *int
	Comment *string
}

type ModerateReviewRequest struct {
	Status string
}

type ReviewCommands interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (uuid.UUID, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req UpdateReviewRequest) error
	DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, actorRole user.Role) error
	ModerateReview(ctx context.Context, reviewID uuid.UUID, req ModerateReviewRequest) error
	ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, error)
}

type reviewCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReviewCommands(uow shared.UnitOfWork, clk clock.Clock) ReviewCommands {
	return &reviewCommandsImpl{uow: uow, clock: clk}
}

// CreateReview accepts one review per (user, product) from verified buyers.
// The review starts pending; the rating aggregate is still recomputed in the
// same transaction so any prior approved state stays consistent.
func (uc *reviewCommandsImpl) CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (uuid.UUID, error) {
	var reviewID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Products().FindByID(ctx, tx.DB(), req.ProductID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrProductNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		purchased, err := tx.Reviews().HasPurchased(ctx, tx.DB(), userID, req.ProductID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !purchased {
			return ErrPurchaseRequired
		}

		rev, err := review.NewReview(uuid.Nil, userID, req.ProductID, req.Rating, req.Comment, uc.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		id, err := tx.Reviews().Create(ctx, tx.DB(), rev)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateReview)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		reviewID = id

		return uc.recalc(ctx, tx, req.ProductID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return reviewID, nil
}

func (uc *reviewCommandsImpl) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req UpdateReviewRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rev, err := tx.Reviews().FindByID(ctx, tx.DB(), reviewID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReviewNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if rev.UserID() != userID {
			return ErrReviewAccessDenied
		}

		if err := rev.Edit(req.Rating, req.Comment, uc.clock.Now()); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Reviews().Update(ctx, tx.DB(), rev); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return uc.recalc(ctx, tx, rev.ProductID())
	})
}

func (uc *reviewCommandsImpl) DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, actorRole user.Role) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rev, err := tx.Reviews().FindByID(ctx, tx.DB(), reviewID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReviewNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if rev.UserID() != actorID && !actorRole.AtLeast(user.RoleAdmin) {
			return ErrReviewAccessDenied
		}

		if err := tx.Reviews().Delete(ctx, tx.DB(), reviewID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return uc.recalc(ctx, tx, rev.ProductID())
	})
}

func (uc *reviewCommandsImpl) ModerateReview(ctx context.Context, reviewID uuid.UUID, req ModerateReviewRequest) error {
	status, err := review.NewModerationStatus(req.Status)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rev, txErr := tx.Reviews().FindByID(ctx, tx.DB(), reviewID)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return errs.Mark(txErr, ErrReviewNotFound)
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		if serr := tx.Reviews().SetModerationStatus(ctx, tx.DB(), reviewID, status); serr != nil {
			return errs.Mark(serr, ErrDatabaseOperationFailed)
		}
		return uc.recalc(ctx, tx, rev.ProductID())
	})
}

func (uc *reviewCommandsImpl) ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	var helpful bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		marked, verr := tx.Reviews().ToggleHelpfulVote(ctx, tx.DB(), reviewID, userID)
		if verr != nil {
			if infra.IsKind(verr, infra.KindForeignKeyViolated) {
				return errs.Mark(verr, ErrReviewNotFound)
			}
			return errs.Mark(verr, ErrDatabaseOperationFailed)
		}
		helpful = marked
		return nil
	})
	return helpful, err
}

func (uc *reviewCommandsImpl) recalc(ctx context.Context, tx shared.Tx, productID uuid.UUID) error {
	if err := tx.RatingStats().RecalcProductRating(ctx, tx.DB(), productID); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
