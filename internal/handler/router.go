package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/internal/domain/user"
	"storefront/internal/handler/api"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth     *api.AuthHandler
	Product  *api.ProductHandler
	Category *api.CategoryHandler
	Cart     *api.CartHandler
	Coupon   *api.CouponHandler
	Order    *api.OrderHandler
	Guest    *api.GuestOrderHandler
	Review   *api.ReviewHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		products := apiGroup.Group("/products")
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Product.List},
				{Method: http.MethodGet, Path: "/brands", Handler: h.Product.ListBrands},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Product.Get},
				{Method: http.MethodGet, Path: "/:id/reviews", Handler: h.Review.ListByProduct},
				{Method: http.MethodGet, Path: "/:id/rating", Handler: h.Review.RatingStats},
			})
		}

		categories := apiGroup.Group("/categories")
		{
			addRoutes(categories, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Category.List},
				{Method: http.MethodGet, Path: "/:slug", Handler: h.Category.GetBySlug},
			})
		}

		cart := apiGroup.Group("/cart")
		cart.Use(authMiddleware.RequireAuth())
		{
			addRoutes(cart, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Cart.Get},
				{Method: http.MethodDelete, Path: "", Handler: h.Cart.Clear},
				{Method: http.MethodPost, Path: "/items", Handler: h.Cart.AddItem},
				{Method: http.MethodPatch, Path: "/items/:id", Handler: h.Cart.UpdateItem},
				{Method: http.MethodDelete, Path: "/items/:id", Handler: h.Cart.RemoveItem},
				{Method: http.MethodPost, Path: "/coupon", Handler: h.Cart.ApplyCoupon},
				{Method: http.MethodDelete, Path: "/coupon", Handler: h.Cart.RemoveCoupon},
			})
		}

		orders := apiGroup.Group("/orders")
		{
			// Tracking is public; everything else needs a session.
			addRoutes(orders, []route{
				{Method: http.MethodGet, Path: "/:id/track", Handler: h.Order.Track},
			})

			ordersAuth := orders.Group("")
			ordersAuth.Use(authMiddleware.RequireAuth())
			addRoutes(ordersAuth, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Order.Checkout},
				{Method: http.MethodGet, Path: "", Handler: h.Order.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Order.Cancel},
			})
		}

		guest := apiGroup.Group("/guest/orders")
		{
			addRoutes(guest, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Guest.Checkout},
				{Method: http.MethodGet, Path: "/:orderNumber", Handler: h.Guest.Track},
			})
		}

		reviews := apiGroup.Group("/reviews")
		{
			addRoutes(reviews, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: h.Review.Get},
			})

			reviewsAuth := reviews.Group("")
			reviewsAuth.Use(authMiddleware.RequireAuth())
			addRoutes(reviewsAuth, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Review.Create},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Review.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Review.Delete},
				{Method: http.MethodPost, Path: "/:id/helpful", Handler: h.Review.ToggleHelpful},
			})
		}

		users := apiGroup.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			addRoutes(users, []route{
				{Method: http.MethodGet, Path: "/:id/reviews", Handler: h.Review.ListByUser},
			})
		}

		staff := apiGroup.Group("/admin")
		staff.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleStaff))
		{
			addRoutes(staff, []route{
				{Method: http.MethodGet, Path: "/orders", Handler: h.Order.ListAll},
				{Method: http.MethodPatch, Path: "/orders/:id/status", Handler: h.Order.UpdateStatus},
				{Method: http.MethodPatch, Path: "/orders/:id/tracking", Handler: h.Order.UpdateTracking},
				{Method: http.MethodGet, Path: "/guest-orders", Handler: h.Guest.ListAll},
				{Method: http.MethodPatch, Path: "/guest-orders/:id/status", Handler: h.Guest.UpdateStatus},
				{Method: http.MethodPatch, Path: "/guest-orders/:id/tracking", Handler: h.Guest.UpdateTracking},
				{Method: http.MethodPatch, Path: "/reviews/:id/moderate", Handler: h.Review.Moderate},
			})

			admin := staff.Group("")
			admin.Use(authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/products", Handler: h.Product.Create},
				{Method: http.MethodPatch, Path: "/products/:id", Handler: h.Product.Update},
				{Method: http.MethodDelete, Path: "/products/:id", Handler: h.Product.Delete},
				{Method: http.MethodPost, Path: "/categories", Handler: h.Category.Create},
				{Method: http.MethodPatch, Path: "/categories/:id", Handler: h.Category.Update},
				{Method: http.MethodDelete, Path: "/categories/:id", Handler: h.Category.Delete},
				{Method: http.MethodGet, Path: "/coupons", Handler: h.Coupon.List},
				{Method: http.MethodPost, Path: "/coupons", Handler: h.Coupon.Create},
				{Method: http.MethodGet, Path: "/coupons/:id", Handler: h.Coupon.Get},
				{Method: http.MethodPatch, Path: "/coupons/:id", Handler: h.Coupon.Update},
				{Method: http.MethodDelete, Path: "/coupons/:id", Handler: h.Coupon.Delete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
