package shared

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/coupon"
	"storefront/internal/domain/order"
	"storefront/internal/domain/review"
	"storefront/internal/domain/user"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Carts() CartRepository
	Coupons() CouponRepository
	Orders() OrderRepository
	GuestOrders() GuestOrderRepository
	Reviews() ReviewRepository
	RatingStats() RatingStatsRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	ReviewByID(ctx context.Context, id uuid.UUID) (*ReviewSnapshot, error)
}

type ProductRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *catalog.Product) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, p *catalog.Product) error
	Delete(ctx context.Context, tx db.DBTX, productID uuid.UUID) error
	FindByID(ctx context.Context, tx db.DBTX, productID uuid.UUID) (*catalog.Product, error)
	FindByIDs(ctx context.Context, tx db.DBTX, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Product, error)
	// DecrementStock fails with KindConflict when remaining stock is insufficient.
	DecrementStock(ctx context.Context, tx db.DBTX, productID uuid.UUID, quantity int) error
	RestoreStock(ctx context.Context, tx db.DBTX, productID uuid.UUID, quantity int) error
}

type CategoryRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *catalog.Category) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, c *catalog.Category) error
	Delete(ctx context.Context, tx db.DBTX, categoryID uuid.UUID) error
	HasProducts(ctx context.Context, tx db.DBTX, categoryID uuid.UUID) (bool, error)
}

type CartRepository interface {
	FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*cart.Cart, error)
	// Save upserts the cart row and replaces its items wholesale.
	Save(ctx context.Context, tx db.DBTX, c *cart.Cart) error
	Clear(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error
}

type CouponRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error
	Delete(ctx context.Context, tx db.DBTX, couponID uuid.UUID) error
	FindByID(ctx context.Context, tx db.DBTX, couponID uuid.UUID) (*coupon.Coupon, error)
	FindByCode(ctx context.Context, tx db.DBTX, code string) (*coupon.Coupon, error)
	Usage(ctx context.Context, tx db.DBTX, couponID, userID uuid.UUID) (coupon.Usage, error)
	// Redeem inserts a ledger row only while the redemption count is below the
	// usage limit; KindConflict means the limit was hit by a concurrent redeem,
	// KindDuplicateKey means this user already redeemed the coupon.
	Redeem(ctx context.Context, tx db.DBTX, couponID, userID, orderID uuid.UUID, usageLimit int) error
	Unredeem(ctx context.Context, tx db.DBTX, couponID, userID uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error)
	FindByID(ctx context.Context, tx db.DBTX, orderID uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, o *order.Order, historyNote string) error
	// UpdateTracking persists carrier details without appending history.
	UpdateTracking(ctx context.Context, tx db.DBTX, o *order.Order) error
	NextOrderNumber(ctx context.Context, tx db.DBTX) (string, error)
}

type GuestOrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.GuestOrder) (uuid.UUID, error)
	FindByID(ctx context.Context, tx db.DBTX, guestOrderID uuid.UUID) (*order.GuestOrder, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, o *order.GuestOrder, historyNote string) error
	UpdateTracking(ctx context.Context, tx db.DBTX, o *order.GuestOrder) error
	NextOrderNumber(ctx context.Context, tx db.DBTX) (string, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, tx db.DBTX, rev *review.Review) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, rev *review.Review) error
	FindByID(ctx context.Context, tx db.DBTX, reviewID uuid.UUID) (*review.Review, error)
	Delete(ctx context.Context, tx db.DBTX, reviewID uuid.UUID) error
	SetModerationStatus(ctx context.Context, tx db.DBTX, reviewID uuid.UUID, status review.ModerationStatus) error
	// ToggleHelpfulVote adds or removes the user's vote and keeps the counter
	// in lockstep; reports whether the vote exists afterwards.
	ToggleHelpfulVote(ctx context.Context, tx db.DBTX, reviewID, userID uuid.UUID) (bool, error)
	HasPurchased(ctx context.Context, tx db.DBTX, userID, productID uuid.UUID) (bool, error)
}

type RatingStatsRepository interface {
	// RecalcProductRating recomputes the product's denormalized rating and
	// reviews_count from its approved reviews.
	RecalcProductRating(ctx context.Context, tx db.DBTX, productID uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, email, passwordHash, name, role string) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
	FindAuthByEmail(ctx context.Context, tx db.DBTX, email string) (*user.User, string, error)
}
