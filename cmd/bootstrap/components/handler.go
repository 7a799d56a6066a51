package components

import (
	"storefront/internal/handler"
	"storefront/internal/handler/api"
	"storefront/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewProductHandler,
		api.NewCategoryHandler,
		api.NewCartHandler,
		api.NewCouponHandler,
		api.NewOrderHandler,
		api.NewGuestOrderHandler,
		api.NewReviewHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	product *api.ProductHandler,
	category *api.CategoryHandler,
	cart *api.CartHandler,
	coupon *api.CouponHandler,
	order *api.OrderHandler,
	guest *api.GuestOrderHandler,
	review *api.ReviewHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:     auth,
		Product:  product,
		Category: category,
		Cart:     cart,
		Coupon:   coupon,
		Order:    order,
		Guest:    guest,
		Review:   review,
	}
}
