package components

import (
	"storefront/internal/domain/order"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	order.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewProductCommands,
		commands.NewCategoryCommands,
		NewCartCommands,
		commands.NewCouponCommands,
		commands.NewOrderCommands,
		commands.NewGuestCommands,
		commands.NewReviewCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewProductQueries,
		queries.NewCategoryQueries,
		queries.NewCartQueries,
		queries.NewCouponQueries,
		queries.NewOrderQueries,
		queries.NewGuestOrderQueries,
		queries.NewReviewQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewCartCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.CartCommands {
	return commands.NewCartCommands(uow, clk, cfg.Checkout.MaxQuantityPerLine)
}
