package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/domain"
)

// Commands

type PlaceOrderCommand struct {
	CustomerName    string
	CustomerContact string
	ImagePath       *string
	Lines           []OrderLine
}

type OrderLine struct {
	Dish     string
	Quantity int
}

type RegisterCommand struct {
	Username string
	Password string
	Email    string
	Phone    string
	Address  string
}

// Results

// DeductionReport summarizes a successful ingredient deduction: units
// removed per ingredient, formatted whole for capacity-1 ingredients and
// two-decimal otherwise.
type DeductionReport struct {
	Dish     domain.Dish
	Quantity int
	Lines    []DeductionLine
}

type DeductionLine struct {
	Ingredient domain.Ingredient
	Units      decimal.Decimal
	Display    string
}

type ReplenishmentResult struct {
	Dish          domain.Dish
	PreviousStock int
	NewStock      int
	Deduction     *DeductionReport // nil for write-downs
	MenuDisabled  bool
}

type ApprovalResult struct {
	Order         *domain.Order
	PreviousStock int
	NewStock      int
	MenuDisabled  bool
}

type MenuEntry struct {
	Dish         domain.Dish
	Price        decimal.Decimal
	Availability domain.Availability
	Stock        int
	Rating       float64
}

type IngredientEntry struct {
	Ingredient domain.Ingredient
	Stock      decimal.Decimal
	UnitLabel  string
	Capacity   int
}

type OrderBoards struct {
	Own        []*domain.Order // the caller's live orders
	OwnServed  []*domain.Order
	Pending    []*domain.Order // staff boards below
	InProgress []*domain.Order
	Ready      []*domain.Order
	Served     []*domain.Order
}

type DashboardSummary struct {
	OngoingQuantity int
	TotalCustomers  int
	TotalQuantity   int
	PaidRevenue     decimal.Decimal
	SalesByDay      []DaySales
	BestSelling     []DishSales
	TopCustomers    []CustomerSpend
}

type DaySales struct {
	Day   string
	Total decimal.Decimal
}

type DishSales struct {
	Dish     domain.Dish
	Quantity int
}

type CustomerSpend struct {
	Customer string
	Total    decimal.Decimal
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Services

type FulfillmentService interface {
	SetDishStock(ctx context.Context, actor domain.Actor, dish string, newStock int) (*ReplenishmentResult, error)
	SetAvailability(ctx context.Context, actor domain.Actor, dish, status string) error
	SetIngredientStock(ctx context.Context, actor domain.Actor, ingredient string, units decimal.Decimal, add bool) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, actor domain.Actor, cmd PlaceOrderCommand) ([]*domain.Order, error)
	Approve(ctx context.Context, actor domain.Actor, orderID int) (*ApprovalResult, error)
	Reject(ctx context.Context, actor domain.Actor, orderID int, reason string) error
	AdvanceTracker(ctx context.Context, actor domain.Actor, orderID int, status string) (*domain.Order, error)
	Serve(ctx context.Context, actor domain.Actor, orderID int) (*domain.Order, error)
	UnreadNotifications(ctx context.Context, actor domain.Actor) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, actor domain.Actor, notificationID int) error
}

type AccountService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error)
	Login(ctx context.Context, username, password string, requiredRole domain.Role) (*Session, error)
	Logout(ctx context.Context, actor domain.Actor) error
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
	ListCustomers(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	SetBanned(ctx context.Context, actor domain.Actor, userID int, banned bool) error
}

type ReportingService interface {
	Menu(ctx context.Context) ([]MenuEntry, error)
	Ingredients(ctx context.Context, actor domain.Actor) ([]IngredientEntry, error)
	Boards(ctx context.Context, actor domain.Actor) (*OrderBoards, error)
	Dashboard(ctx context.Context, actor domain.Actor) (*DashboardSummary, error)
	RejectedOrders(ctx context.Context, actor domain.Actor) ([]*domain.RejectedOrder, error)
	RateDish(ctx context.Context, actor domain.Actor, dish string, score int) error
}
