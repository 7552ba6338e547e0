package reporting

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

// Service answers the read-side questions: the public menu, the staff
// inventory view, the per-role order boards and the sales dashboard. It
// never mutates the ledgers except to record dish ratings.
type Service struct {
	db      postgres.DB
	orders  interfaces.OrderRepository
	ledger  interfaces.LedgerRepository
	ratings interfaces.RatingRepository
	catalog *domain.Catalog
	logger  logger.Logger
}

func NewService(
	db postgres.DB,
	orders interfaces.OrderRepository,
	ledger interfaces.LedgerRepository,
	ratings interfaces.RatingRepository,
	catalog *domain.Catalog,
	lgr logger.Logger,
) *Service {
	return &Service{
		db:      db,
		orders:  orders,
		ledger:  ledger,
		ratings: ratings,
		catalog: catalog,
		logger:  lgr,
	}
}

// Menu lists every dish with its price, availability, remaining stock and
// average rating. It is the one unauthenticated read.
func (s *Service) Menu(ctx context.Context) ([]interfaces.MenuEntry, error) {
	availabilities, err := s.ledger.Availabilities(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read menu status", Err: err}
	}
	stocks, err := s.ledger.DishStocks(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read dish stocks", Err: err}
	}
	ratings, err := s.ratings.Averages(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read ratings", Err: err}
	}

	entries := make([]interfaces.MenuEntry, 0, len(s.catalog.Prices))
	for _, dish := range s.catalog.Dishes() {
		availability, ok := availabilities[dish]
		if !ok {
			availability = domain.NotAvailable
		}
		entries = append(entries, interfaces.MenuEntry{
			Dish:         dish,
			Price:        s.catalog.Prices[dish],
			Availability: availability,
			Stock:        stocks[dish],
			Rating:       ratings[dish],
		})
	}
	return entries, nil
}

// Ingredients is the staff inventory view, in unit terms with the unit
// label and the servings-per-unit capacity alongside.
func (s *Service) Ingredients(ctx context.Context, actor domain.Actor) ([]interfaces.IngredientEntry, error) {
	if !actor.IsStaff() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	stocks, err := s.ledger.IngredientStocks(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read ingredient stocks", Err: err}
	}

	entries := make([]interfaces.IngredientEntry, 0, len(stocks))
	for _, ing := range s.catalog.Ingredients() {
		stock, ok := stocks[ing]
		if !ok {
			continue
		}
		entries = append(entries, interfaces.IngredientEntry{
			Ingredient: ing,
			Stock:      stock,
			UnitLabel:  s.catalog.UnitLabels[ing],
			Capacity:   s.catalog.Capacities[ing],
		})
	}
	return entries, nil
}

// Boards returns the order lists for the caller's role. A customer sees
// their own live and served orders; staff see the kitchen queues.
func (s *Service) Boards(ctx context.Context, actor domain.Actor) (*interfaces.OrderBoards, error) {
	switch {
	case actor.IsStaff():
		return s.staffBoards(ctx)
	case actor.IsCustomer():
		return s.customerBoards(ctx, actor)
	default:
		return nil, &domain.AuthorizationError{Actor: actor, Required: "a signed-in account"}
	}
}

func (s *Service) customerBoards(ctx context.Context, actor domain.Actor) (*interfaces.OrderBoards, error) {
	all, err := s.orders.ListByUser(ctx, s.db, actor.UserID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list orders", Err: err}
	}
	boards := &interfaces.OrderBoards{}
	for _, o := range all {
		if o.PaymentStatus == domain.PaymentServed {
			boards.OwnServed = append(boards.OwnServed, o)
		} else {
			boards.Own = append(boards.Own, o)
		}
	}
	return boards, nil
}

func (s *Service) staffBoards(ctx context.Context) (*interfaces.OrderBoards, error) {
	pending, err := s.orders.ListByTracker(ctx, s.db, domain.TrackerPending)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list pending orders", Err: err}
	}
	inProgress, err := s.orders.ListByTracker(ctx, s.db, domain.TrackerApproved, domain.TrackerPreparing, domain.TrackerCooking)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list in-progress orders", Err: err}
	}
	ready, err := s.orders.ListByTracker(ctx, s.db, domain.TrackerReady)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list ready orders", Err: err}
	}
	served, err := s.orders.ListServed(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list served orders", Err: err}
	}
	return &interfaces.OrderBoards{
		Pending:    pending,
		InProgress: inProgress,
		Ready:      ready,
		Served:     served,
	}, nil
}

// Dashboard aggregates sales figures over every order on record: ongoing
// and total quantities, distinct customers, paid revenue, sales by day and
// the top five dishes and customers.
func (s *Service) Dashboard(ctx context.Context, actor domain.Actor) (*interfaces.DashboardSummary, error) {
	if !actor.IsStaff() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	all, err := s.orders.ListAll(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list orders", Err: err}
	}

	summary := &interfaces.DashboardSummary{PaidRevenue: decimal.Zero}
	customers := make(map[string]struct{})
	byDay := make(map[string]decimal.Decimal)
	byDish := make(map[domain.Dish]int)
	byCustomer := make(map[string]decimal.Decimal)

	for _, o := range all {
		summary.TotalQuantity += o.Quantity
		if o.PaymentStatus != domain.PaymentServed {
			summary.OngoingQuantity += o.Quantity
		}
		customers[o.CustomerName] = struct{}{}

		if o.PaymentStatus == domain.PaymentPaid || o.PaymentStatus == domain.PaymentServed {
			summary.PaidRevenue = summary.PaidRevenue.Add(o.Price)
			day := o.OrderedAt.Format("2006-01-02")
			byDay[day] = byDay[day].Add(o.Price)
			byDish[o.Dish] += o.Quantity
			byCustomer[o.CustomerName] = byCustomer[o.CustomerName].Add(o.Price)
		}
	}
	summary.TotalCustomers = len(customers)

	for day, total := range byDay {
		summary.SalesByDay = append(summary.SalesByDay, interfaces.DaySales{Day: day, Total: total})
	}
	sort.Slice(summary.SalesByDay, func(i, j int) bool {
		return summary.SalesByDay[i].Day < summary.SalesByDay[j].Day
	})

	for dish, qty := range byDish {
		summary.BestSelling = append(summary.BestSelling, interfaces.DishSales{Dish: dish, Quantity: qty})
	}
	sort.Slice(summary.BestSelling, func(i, j int) bool {
		if summary.BestSelling[i].Quantity != summary.BestSelling[j].Quantity {
			return summary.BestSelling[i].Quantity > summary.BestSelling[j].Quantity
		}
		return summary.BestSelling[i].Dish < summary.BestSelling[j].Dish
	})
	if len(summary.BestSelling) > 5 {
		summary.BestSelling = summary.BestSelling[:5]
	}

	for customer, total := range byCustomer {
		summary.TopCustomers = append(summary.TopCustomers, interfaces.CustomerSpend{Customer: customer, Total: total})
	}
	sort.Slice(summary.TopCustomers, func(i, j int) bool {
		if !summary.TopCustomers[i].Total.Equal(summary.TopCustomers[j].Total) {
			return summary.TopCustomers[i].Total.GreaterThan(summary.TopCustomers[j].Total)
		}
		return summary.TopCustomers[i].Customer < summary.TopCustomers[j].Customer
	})
	if len(summary.TopCustomers) > 5 {
		summary.TopCustomers = summary.TopCustomers[:5]
	}

	return summary, nil
}

// RejectedOrders lists the rejection archive for the staff review screen.
func (s *Service) RejectedOrders(ctx context.Context, actor domain.Actor) ([]*domain.RejectedOrder, error) {
	if !actor.IsStaff() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	rejected, err := s.orders.ListRejected(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list rejected orders", Err: err}
	}
	return rejected, nil
}

// RateDish records a 1 to 5 score from a customer who has been served the
// dish at least once. One rating per customer per dish.
func (s *Service) RateDish(ctx context.Context, actor domain.Actor, dishName string, score int) error {
	if !actor.IsCustomer() {
		return &domain.AuthorizationError{Actor: actor, Required: "customer"}
	}
	dish, ok := s.catalog.ParseDish(dishName)
	if !ok {
		return &domain.ValidationError{Msg: fmt.Sprintf("unknown dish: %s", dishName)}
	}
	if score < 1 || score > 5 {
		return &domain.ValidationError{Msg: "rating must be between 1 and 5"}
	}

	servedBefore, err := s.orders.HasServed(ctx, s.db, actor.UserID, dish)
	if err != nil {
		return &domain.PersistenceError{Op: "check served orders", Err: err}
	}
	if !servedBefore {
		return &domain.ValidationError{Msg: fmt.Sprintf("you can only rate %s after it has been served to you", dish)}
	}

	rated, err := s.ratings.HasRated(ctx, s.db, actor.UserID, dish)
	if err != nil {
		return &domain.PersistenceError{Op: "check existing rating", Err: err}
	}
	if rated {
		return &domain.ValidationError{Msg: fmt.Sprintf("you have already rated %s", dish)}
	}

	if err := s.ratings.Rate(ctx, s.db, &domain.DishRating{Dish: dish, UserID: actor.UserID, Score: score}); err != nil {
		return &domain.PersistenceError{Op: "record rating", Err: err}
	}

	s.logger.Info("dish_rated", fmt.Sprintf("%s rated %s %d/5", actor.Username, dish, score), "", nil)
	return nil
}
