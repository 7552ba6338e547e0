package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/domain"
)

// Repository methods take an explicit postgres.Querier so the service layer
// decides the transaction boundary: pass the pool for plain reads, a Tx for
// anything that must commit atomically.

type LedgerRepository interface {
	// Dish (finished-food) stock, whole servings.
	DishStockForUpdate(ctx context.Context, q postgres.Querier, dish domain.Dish) (int, error)
	SetDishStock(ctx context.Context, q postgres.Querier, dish domain.Dish, stock int) error
	DishStocks(ctx context.Context, q postgres.Querier) (map[domain.Dish]int, error)

	// Ingredient stock, fractional units.
	IngredientStockForUpdate(ctx context.Context, q postgres.Querier, ing domain.Ingredient) (decimal.Decimal, error)
	DeductIngredient(ctx context.Context, q postgres.Querier, ing domain.Ingredient, units decimal.Decimal) error
	SetIngredientStock(ctx context.Context, q postgres.Querier, ing domain.Ingredient, units decimal.Decimal) error
	AddIngredientStock(ctx context.Context, q postgres.Querier, ing domain.Ingredient, units decimal.Decimal) error
	IngredientStocks(ctx context.Context, q postgres.Querier) (map[domain.Ingredient]decimal.Decimal, error)

	// Menu availability.
	Availability(ctx context.Context, q postgres.Querier, dish domain.Dish) (domain.Availability, error)
	SetAvailability(ctx context.Context, q postgres.Querier, dish domain.Dish, status domain.Availability) error
	Availabilities(ctx context.Context, q postgres.Querier) (map[domain.Dish]domain.Availability, error)
}

type OrderRepository interface {
	Create(ctx context.Context, q postgres.Querier, order *domain.Order) error
	FindByID(ctx context.Context, q postgres.Querier, id int) (*domain.Order, error)
	// FindByIDForUpdate locks the row; state checks before an order write
	// must go through it so concurrent commands serialize per order.
	FindByIDForUpdate(ctx context.Context, q postgres.Querier, id int) (*domain.Order, error)
	Update(ctx context.Context, q postgres.Querier, order *domain.Order) error
	Delete(ctx context.Context, q postgres.Querier, id int) error
	Archive(ctx context.Context, q postgres.Querier, rejected *domain.RejectedOrder) error

	ListAll(ctx context.Context, q postgres.Querier) ([]*domain.Order, error)
	ListByUser(ctx context.Context, q postgres.Querier, userID int) ([]*domain.Order, error)
	ListByTracker(ctx context.Context, q postgres.Querier, trackers ...domain.TrackerStatus) ([]*domain.Order, error)
	ListServed(ctx context.Context, q postgres.Querier) ([]*domain.Order, error)
	ListRejected(ctx context.Context, q postgres.Querier) ([]*domain.RejectedOrder, error)

	// ReadyQuantity sums a user's Ready+Paid orders of one dish, for the
	// coalesced pickup notification.
	ReadyQuantity(ctx context.Context, q postgres.Querier, userID int, dish domain.Dish) (int, error)
	// HasServed reports whether the user has ever been served the dish,
	// which gates rating it.
	HasServed(ctx context.Context, q postgres.Querier, userID int, dish domain.Dish) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, q postgres.Querier, n *domain.Notification) error
	ListUnread(ctx context.Context, q postgres.Querier, userID int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, q postgres.Querier, id, userID int) error
	// UnreadExists checks for an identical unread message, used to suppress
	// duplicate pickup notifications.
	UnreadExists(ctx context.Context, q postgres.Querier, userID int, message string) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, q postgres.Querier, u *domain.User) error
	FindByID(ctx context.Context, q postgres.Querier, id int) (*domain.User, error)
	FindByUsername(ctx context.Context, q postgres.Querier, username string) (*domain.User, error)
	ListByRole(ctx context.Context, q postgres.Querier, role domain.Role) ([]*domain.User, error)
	StaffAndAdmins(ctx context.Context, q postgres.Querier) ([]*domain.User, error)
	SetBanned(ctx context.Context, q postgres.Querier, id int, banned bool) error
	TouchLogin(ctx context.Context, q postgres.Querier, id int, at time.Time) error
	TouchLogout(ctx context.Context, q postgres.Querier, id int, at time.Time) error
}

type RatingRepository interface {
	Rate(ctx context.Context, q postgres.Querier, r *domain.DishRating) error
	HasRated(ctx context.Context, q postgres.Querier, userID int, dish domain.Dish) (bool, error)
	Averages(ctx context.Context, q postgres.Querier) (map[domain.Dish]float64, error)
}
