package components

import (
	"storefront/internal/infra/db"
	"storefront/internal/infra/readstore"
	"storefront/internal/infra/uow"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write repositories are constructed inside the unit of work, so only the
// read side needs wiring here.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductReadStore)),
		),
		fx.Annotate(
			readstore.NewCategoryReadStore,
			fx.As(new(queries.CategoryReadStore)),
			fx.As(new(commands.CategoryFinder)),
		),
		fx.Annotate(
			readstore.NewCartReadStore,
			fx.As(new(queries.CartReadStore)),
		),
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponReadStore)),
		),
		NewOrderReadStore,
		NewGuestOrderReadStore,
		fx.Annotate(
			readstore.NewReviewReadStore,
			fx.As(new(queries.ReviewReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewOrderReadStore(dbtx db.DBTX, cfg config.Config) queries.OrderReadStore {
	return readstore.NewOrderReadStore(dbtx, cfg.Checkout.EstimatedDeliveryDays)
}

func NewGuestOrderReadStore(dbtx db.DBTX, cfg config.Config) queries.GuestOrderReadStore {
	return readstore.NewGuestOrderReadStore(dbtx, cfg.Checkout.EstimatedDeliveryDays)
}
