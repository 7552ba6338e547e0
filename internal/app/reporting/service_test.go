package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(action, message, requestID string, details map[string]interface{})             {}
func (nopLogger) Warn(action, message, requestID string, details map[string]interface{})             {}
func (nopLogger) Debug(action, message, requestID string, details map[string]interface{})            {}
func (nopLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {}

type fakeDB struct{}

func (fakeDB) Query(ctx context.Context, sql string, args ...any) (postgres.Rows, error) {
	return nil, errors.New("not implemented")
}
func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) postgres.Row { return nil }
func (fakeDB) Exec(ctx context.Context, sql string, args ...any) (postgres.CommandTag, error) {
	return nil, errors.New("not implemented")
}
func (fakeDB) Begin(ctx context.Context) (postgres.Tx, error) {
	return nil, errors.New("not implemented")
}
func (fakeDB) Close() {}

type fakeOrders struct {
	orders []*domain.Order
	served map[int]map[domain.Dish]bool
}

func (r *fakeOrders) Create(ctx context.Context, q postgres.Querier, o *domain.Order) error {
	return errors.New("not implemented")
}
func (r *fakeOrders) FindByID(ctx context.Context, q postgres.Querier, id int) (*domain.Order, error) {
	return nil, postgres.ErrNotFound
}
func (r *fakeOrders) FindByIDForUpdate(ctx context.Context, q postgres.Querier, id int) (*domain.Order, error) {
	return nil, postgres.ErrNotFound
}
func (r *fakeOrders) Update(ctx context.Context, q postgres.Querier, o *domain.Order) error {
	return errors.New("not implemented")
}
func (r *fakeOrders) Delete(ctx context.Context, q postgres.Querier, id int) error {
	return errors.New("not implemented")
}
func (r *fakeOrders) Archive(ctx context.Context, q postgres.Querier, rejected *domain.RejectedOrder) error {
	return errors.New("not implemented")
}

func (r *fakeOrders) ListAll(ctx context.Context, q postgres.Querier) ([]*domain.Order, error) {
	return r.orders, nil
}

func (r *fakeOrders) ListByUser(ctx context.Context, q postgres.Querier, userID int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrders) ListByTracker(ctx context.Context, q postgres.Querier, trackers ...domain.TrackerStatus) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.PaymentStatus == domain.PaymentServed {
			continue
		}
		for _, tr := range trackers {
			if o.Tracker == tr {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (r *fakeOrders) ListServed(ctx context.Context, q postgres.Querier) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.PaymentStatus == domain.PaymentServed {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrders) ListRejected(ctx context.Context, q postgres.Querier) ([]*domain.RejectedOrder, error) {
	return nil, nil
}

func (r *fakeOrders) ReadyQuantity(ctx context.Context, q postgres.Querier, userID int, dish domain.Dish) (int, error) {
	return 0, nil
}

func (r *fakeOrders) HasServed(ctx context.Context, q postgres.Querier, userID int, dish domain.Dish) (bool, error) {
	return r.served[userID][dish], nil
}

type fakeLedger struct {
	dishStock    map[domain.Dish]int
	ingStock     map[domain.Ingredient]decimal.Decimal
	availability map[domain.Dish]domain.Availability
}

func (l *fakeLedger) DishStockForUpdate(ctx context.Context, q postgres.Querier, dish domain.Dish) (int, error) {
	return l.dishStock[dish], nil
}
func (l *fakeLedger) SetDishStock(ctx context.Context, q postgres.Querier, dish domain.Dish, stock int) error {
	return errors.New("not implemented")
}
func (l *fakeLedger) DishStocks(ctx context.Context, q postgres.Querier) (map[domain.Dish]int, error) {
	return l.dishStock, nil
}
func (l *fakeLedger) IngredientStockForUpdate(ctx context.Context, q postgres.Querier, ing domain.Ingredient) (decimal.Decimal, error) {
	return l.ingStock[ing], nil
}
func (l *fakeLedger) DeductIngredient(ctx context.Context, q postgres.Querier, ing domain.Ingredient, units decimal.Decimal) error {
	return errors.New("not implemented")
}
func (l *fakeLedger) SetIngredientStock(ctx context.Context, q postgres.Querier, ing domain.Ingredient, units decimal.Decimal) error {
	return errors.New("not implemented")
}
func (l *fakeLedger) AddIngredientStock(ctx context.Context, q postgres.Querier, ing domain.Ingredient, units decimal.Decimal) error {
	return errors.New("not implemented")
}
func (l *fakeLedger) IngredientStocks(ctx context.Context, q postgres.Querier) (map[domain.Ingredient]decimal.Decimal, error) {
	return l.ingStock, nil
}
func (l *fakeLedger) Availability(ctx context.Context, q postgres.Querier, dish domain.Dish) (domain.Availability, error) {
	return l.availability[dish], nil
}
func (l *fakeLedger) SetAvailability(ctx context.Context, q postgres.Querier, dish domain.Dish, status domain.Availability) error {
	return errors.New("not implemented")
}
func (l *fakeLedger) Availabilities(ctx context.Context, q postgres.Querier) (map[domain.Dish]domain.Availability, error) {
	return l.availability, nil
}

type fakeRatings struct {
	rated    map[int]map[domain.Dish]bool
	averages map[domain.Dish]float64
}

func (r *fakeRatings) Rate(ctx context.Context, q postgres.Querier, rating *domain.DishRating) error {
	if r.rated == nil {
		r.rated = make(map[int]map[domain.Dish]bool)
	}
	if r.rated[rating.UserID] == nil {
		r.rated[rating.UserID] = make(map[domain.Dish]bool)
	}
	r.rated[rating.UserID][rating.Dish] = true
	return nil
}

func (r *fakeRatings) HasRated(ctx context.Context, q postgres.Querier, userID int, dish domain.Dish) (bool, error) {
	return r.rated[userID][dish], nil
}

func (r *fakeRatings) Averages(ctx context.Context, q postgres.Querier) (map[domain.Dish]float64, error) {
	return r.averages, nil
}

var (
	customer = domain.Actor{UserID: 7, Username: "ana", Role: domain.RoleCustomer}
	staff    = domain.Actor{UserID: 2, Username: "cathy", Role: domain.RoleStaff}
)

func money(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func day(raw string) time.Time {
	t, _ := time.Parse("2006-01-02", raw)
	return t
}

func testOrder(userID int, dish domain.Dish, qty int, price string, payment domain.PaymentStatus, tracker domain.TrackerStatus, orderedAt time.Time) *domain.Order {
	return &domain.Order{
		UserID:        userID,
		CustomerName:  "Customer " + string(rune('A'+userID)),
		Dish:          dish,
		Quantity:      qty,
		Price:         money(price),
		PaymentStatus: payment,
		Tracker:       tracker,
		OrderedAt:     orderedAt,
	}
}

func newTestService(orders *fakeOrders, ledger *fakeLedger, ratings *fakeRatings) *Service {
	if ledger == nil {
		ledger = &fakeLedger{
			dishStock:    make(map[domain.Dish]int),
			ingStock:     make(map[domain.Ingredient]decimal.Decimal),
			availability: make(map[domain.Dish]domain.Availability),
		}
	}
	if ratings == nil {
		ratings = &fakeRatings{}
	}
	return NewService(fakeDB{}, orders, ledger, ratings, domain.DefaultCatalog(), nopLogger{})
}

func TestMenuCoversWholeCatalog(t *testing.T) {
	ledger := &fakeLedger{
		dishStock:    map[domain.Dish]int{domain.DishTapsilog: 40},
		availability: map[domain.Dish]domain.Availability{domain.DishTapsilog: domain.Available},
	}
	ratings := &fakeRatings{averages: map[domain.Dish]float64{domain.DishTapsilog: 4.5}}
	svc := newTestService(&fakeOrders{}, ledger, ratings)

	entries, err := svc.Menu(context.Background())
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("menu has %d entries, want 7", len(entries))
	}

	byDish := make(map[domain.Dish]int)
	for i, e := range entries {
		byDish[e.Dish] = i
	}
	tapsilog := entries[byDish[domain.DishTapsilog]]
	if tapsilog.Stock != 40 || tapsilog.Rating != 4.5 || tapsilog.Availability != domain.Available {
		t.Errorf("Tapsilog entry = %+v", tapsilog)
	}
	// A dish missing from the status table is listed but not orderable.
	silog := entries[byDish[domain.DishSilog]]
	if silog.Availability != domain.NotAvailable {
		t.Errorf("Silog availability = %s, want Not Available", silog.Availability)
	}
}

func TestBoardsSplitByRole(t *testing.T) {
	orders := &fakeOrders{orders: []*domain.Order{
		testOrder(7, domain.DishTapsilog, 1, "120.00", domain.PaymentPending, domain.TrackerPending, day("2026-08-01")),
		testOrder(7, domain.DishSilog, 1, "60.00", domain.PaymentServed, domain.TrackerServed, day("2026-08-01")),
		testOrder(8, domain.DishTapsilog, 2, "240.00", domain.PaymentPaid, domain.TrackerCooking, day("2026-08-02")),
		testOrder(8, domain.DishTapsilog, 1, "120.00", domain.PaymentPaid, domain.TrackerReady, day("2026-08-02")),
	}}
	svc := newTestService(orders, nil, nil)

	own, err := svc.Boards(context.Background(), customer)
	if err != nil {
		t.Fatalf("customer Boards: %v", err)
	}
	if len(own.Own) != 1 || len(own.OwnServed) != 1 {
		t.Errorf("customer boards = %d live, %d served, want 1 and 1", len(own.Own), len(own.OwnServed))
	}
	if len(own.Pending) != 0 {
		t.Error("customer must not see the staff queues")
	}

	kitchen, err := svc.Boards(context.Background(), staff)
	if err != nil {
		t.Fatalf("staff Boards: %v", err)
	}
	if len(kitchen.Pending) != 1 || len(kitchen.InProgress) != 1 || len(kitchen.Ready) != 1 || len(kitchen.Served) != 1 {
		t.Errorf("staff boards = %d/%d/%d/%d, want 1/1/1/1",
			len(kitchen.Pending), len(kitchen.InProgress), len(kitchen.Ready), len(kitchen.Served))
	}
}

func TestDashboardAggregation(t *testing.T) {
	orders := &fakeOrders{orders: []*domain.Order{
		testOrder(7, domain.DishTapsilog, 2, "240.00", domain.PaymentPaid, domain.TrackerCooking, day("2026-08-01")),
		testOrder(7, domain.DishSilog, 1, "60.00", domain.PaymentServed, domain.TrackerServed, day("2026-08-01")),
		testOrder(8, domain.DishTapsilog, 3, "360.00", domain.PaymentServed, domain.TrackerServed, day("2026-08-02")),
		testOrder(9, domain.DishHotsilog, 1, "60.00", domain.PaymentPending, domain.TrackerPending, day("2026-08-02")),
	}}
	svc := newTestService(orders, nil, nil)

	summary, err := svc.Dashboard(context.Background(), staff)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if summary.TotalQuantity != 7 {
		t.Errorf("total quantity = %d, want 7", summary.TotalQuantity)
	}
	// Served orders are done; pending payment still counts as ongoing.
	if summary.OngoingQuantity != 3 {
		t.Errorf("ongoing quantity = %d, want 3", summary.OngoingQuantity)
	}
	if summary.TotalCustomers != 3 {
		t.Errorf("total customers = %d, want 3", summary.TotalCustomers)
	}
	if !summary.PaidRevenue.Equal(money("660.00")) {
		t.Errorf("paid revenue = %s, want 660.00", summary.PaidRevenue)
	}

	if len(summary.SalesByDay) != 2 {
		t.Fatalf("sales by day has %d entries, want 2", len(summary.SalesByDay))
	}
	if summary.SalesByDay[0].Day != "2026-08-01" || !summary.SalesByDay[0].Total.Equal(money("300.00")) {
		t.Errorf("day 1 sales = %+v", summary.SalesByDay[0])
	}

	if len(summary.BestSelling) == 0 || summary.BestSelling[0].Dish != domain.DishTapsilog {
		t.Errorf("best selling = %+v, want Tapsilog first", summary.BestSelling)
	}
	if summary.BestSelling[0].Quantity != 5 {
		t.Errorf("Tapsilog sold = %d, want 5", summary.BestSelling[0].Quantity)
	}
}

func TestDashboardRequiresStaff(t *testing.T) {
	svc := newTestService(&fakeOrders{}, nil, nil)

	_, err := svc.Dashboard(context.Background(), customer)
	var authz *domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestRateDishGates(t *testing.T) {
	orders := &fakeOrders{served: map[int]map[domain.Dish]bool{
		customer.UserID: {domain.DishTapsilog: true},
	}}
	ratings := &fakeRatings{}
	svc := newTestService(orders, nil, ratings)

	// Never served this dish.
	if err := svc.RateDish(context.Background(), customer, "Silog", 5); err == nil {
		t.Error("rating an unserved dish should fail")
	}
	// Score out of range.
	if err := svc.RateDish(context.Background(), customer, "Tapsilog", 6); err == nil {
		t.Error("score 6 should be rejected")
	}
	// Staff cannot rate.
	if err := svc.RateDish(context.Background(), staff, "Tapsilog", 5); err == nil {
		t.Error("staff rating should be rejected")
	}

	if err := svc.RateDish(context.Background(), customer, "Tapsilog", 5); err != nil {
		t.Fatalf("RateDish: %v", err)
	}
	// Second rating of the same dish is refused.
	if err := svc.RateDish(context.Background(), customer, "Tapsilog", 4); err == nil {
		t.Error("duplicate rating should be rejected")
	}
}

func TestIngredientsRequiresStaff(t *testing.T) {
	ledger := &fakeLedger{
		ingStock: map[domain.Ingredient]decimal.Decimal{
			domain.IngredientOil:  money("3"),
			domain.IngredientRice: money("2.5"),
		},
	}
	svc := newTestService(&fakeOrders{}, ledger, nil)

	if _, err := svc.Ingredients(context.Background(), customer); err == nil {
		t.Error("customer should not see the ingredient ledger")
	}

	entries, err := svc.Ingredients(context.Background(), staff)
	if err != nil {
		t.Fatalf("Ingredients: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Capacity == 0 || e.UnitLabel == "" {
			t.Errorf("entry %s missing capacity or unit label: %+v", e.Ingredient, e)
		}
	}
}
